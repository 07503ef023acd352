package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_OneRequestThenEOF(t *testing.T) {
	res := runCLI(t, `{"command":"info","file":"x.xlsx"}`+"\n", "serve")
	assert.Equal(t, 0, res.code)

	lines := strings.Split(strings.TrimRight(res.stdout, "\n"), "\n")
	require.Len(t, lines, 1)
	env := decodeEnvelope(t, lines[0])
	assert.False(t, env.Success)
	assert.Equal(t, "info", env.Command)
	assert.Equal(t, "UNHANDLED_ERROR", env.code())
}

func TestServe_Requests(t *testing.T) {
	path := createWorkbook(t)
	input := strings.Join([]string{
		`{"command":"info","file":"` + path + `"}`,
		``,
		`   `,
		`{"command":"read","file":"` + path + `","sheet":"Sales","limit":1,"unknownField":true}`,
		`not json`,
		`{"file":"` + path + `"}`,
		`{"command":"serve"}`,
		`{"command":"read","file":"` + path + `","limit":"5"}`,
		`{"command":"inspect","file":"` + path + `","sheet":"Nope"}`,
		`{"command":"search","file":"` + path + `","sheet":"Find","term":"Total.*","regex":true}`,
		`{"command":"bogus"}`,
		// The final line has no trailing newline.
		`{"command":"read","file":"` + path + `","sheet":"Sales","where":"Amount > 14"}`,
	}, "\n")

	res := runCLI(t, input, "serve")
	assert.Equal(t, 0, res.code)
	assert.Empty(t, res.stderr)

	lines := strings.Split(strings.TrimRight(res.stdout, "\n"), "\n")
	require.Len(t, lines, 10)

	want := []struct {
		command string
		code    string
	}{
		{"info", ""},
		{"read", ""},
		{"serve", "INVALID_ARGUMENT"},
		{"serve", "MISSING_ARGUMENT"},
		{"serve", "INVALID_ARGUMENT"},
		{"serve", "INVALID_ARGUMENT"},
		{"inspect", "SHEET_NOT_FOUND"},
		{"search", ""},
		{"bogus", "UNKNOWN_COMMAND"},
		{"read", ""},
	}
	for i, w := range want {
		env := decodeEnvelope(t, lines[i])
		assert.Equal(t, w.command, env.Command, "line %d", i)
		assert.Equal(t, w.code, env.code(), "line %d: %s", i, lines[i])
		assert.Equal(t, w.code == "", env.Success, "line %d", i)
	}

	var read struct {
		Count     int `json:"count"`
		Displayed int `json:"displayed"`
	}
	decodeEnvelope(t, lines[1]).data(t, &read)
	assert.Equal(t, 10, read.Count)
	assert.Equal(t, 1, read.Displayed)
	assert.Equal(t, []string{"showing 1 of 10 rows (--limit 1)"}, decodeEnvelope(t, lines[1]).Warnings)

	var search struct {
		Count int `json:"count"`
	}
	decodeEnvelope(t, lines[7]).data(t, &search)
	assert.Equal(t, 3, search.Count)

	var filtered struct {
		Count int `json:"count"`
	}
	decodeEnvelope(t, lines[9]).data(t, &filtered)
	assert.Equal(t, 1, filtered.Count)
}

func TestServe_Websocket(t *testing.T) {
	isolateSettings(t)
	path := createWorkbook(t)

	var stdout, stderr bytes.Buffer
	a := newApp(newBuildInfo(), strings.NewReader(""), &stdout, &stderr)
	newRootCmd(a)

	srv := httptest.NewServer(a.websocketHandler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	roundTrip := func(req string) envelope {
		t.Helper()
		require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(req)))
		typ, msg, err := conn.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, websocket.MessageText, typ)
		assert.NotContains(t, string(msg), "\n")
		return decodeEnvelope(t, string(msg))
	}

	env := roundTrip(`{"command":"inspect","file":"` + path + `","sheet":"Sales"}`)
	assert.True(t, env.Success)
	var dims struct {
		RowCount int `json:"rowCount"`
	}
	env.data(t, &dims)
	assert.Equal(t, 11, dims.RowCount)

	env = roundTrip(`{"command":"cell","file":"` + path + `","sheet":"Sales"}`)
	assert.Equal(t, "MISSING_ARGUMENT", env.code())

	env = roundTrip(`{"command":"tools"}`)
	assert.True(t, env.Success)

	conn.Close(websocket.StatusNormalClosure, "")
	assert.Empty(t, stdout.String(), "websocket responses never reach stdout")
}

func TestServe_ConcurrentHelpAndTools(t *testing.T) {
	isolateSettings(t)
	a := newApp(newBuildInfo(), strings.NewReader(""), io.Discard, io.Discard)
	newRootCmd(a)

	requests := []string{`{"command":"help"}`, `{"command":"tools"}`, `{"command":"help","file":"read"}`}
	out := make([]bytes.Buffer, 60)
	var wg sync.WaitGroup
	for i := range out {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.handleRequest(context.Background(), &out[i], requests[i%len(requests)])
		}()
	}
	wg.Wait()

	for i := range out {
		lines := strings.Split(strings.TrimRight(out[i].String(), "\n"), "\n")
		require.Len(t, lines, 1, "request %d", i)
		env := decodeEnvelope(t, lines[0])
		assert.True(t, env.Success, "request %d: %s", i, lines[0])
	}
}
