package workbook

import (
	"bytes"
	"encoding/json"
)

// Record is one data row keyed by normalized header name. Keys keep the
// header order, and the JSON encoding preserves it.
type Record struct {
	Keys   []string
	Values []Value
}

// zipRecord pairs cells with headers by position. Cells past the last
// header, or headers past the last cell, are dropped.
func zipRecord(headers []string, cells []Value) Record {
	n := min(len(headers), len(cells))
	return Record{Keys: headers[:n:n], Values: cells[:n:n]}
}

// Get returns the value stored under name.
func (r Record) Get(name string) (Value, bool) {
	for i, k := range r.Keys {
		if k == name {
			return r.Values[i], true
		}
	}
	return Value{}, false
}

// Env returns r as an expression environment.
func (r Record) Env() map[string]any {
	env := make(map[string]any, len(r.Keys))
	for i, k := range r.Keys {
		env[k] = r.Values[i].Interface()
	}
	return env
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalString(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := r.Values[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalString encodes s as a JSON string without HTML escaping.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
