package workbook

import (
	"errors"
	"io"
	"os"
)

// fileFormat is the container format detected from a file's leading bytes.
type fileFormat int

const (
	formatUnknown fileFormat = iota
	formatOLE2               // Binary .xls or encrypted OOXML (magic: d0cf11e0a1b11ae1)
	formatOOXML              // ZIP-based .xlsx/.xlsm (magic: 504b0304)
)

func (f fileFormat) String() string {
	switch f {
	case formatOLE2:
		return "OLE2 compound document"
	case formatOOXML:
		return "OOXML package"
	default:
		return "unknown"
	}
}

// detectFormat reads the first bytes of a file and returns the detected format.
func detectFormat(filePath string) (fileFormat, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return formatUnknown, err
	}
	defer f.Close()

	buf := make([]byte, 8)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return formatUnknown, err
	}
	if n < 4 {
		return formatUnknown, nil
	}

	// OLE2 Compound Document: d0 cf 11 e0 (full signature: d0cf11e0a1b11ae1)
	if buf[0] == 0xd0 && buf[1] == 0xcf && buf[2] == 0x11 && buf[3] == 0xe0 {
		return formatOLE2, nil
	}

	// ZIP (OOXML): PK\x03\x04
	if buf[0] == 0x50 && buf[1] == 0x4b && buf[2] == 0x03 && buf[3] == 0x04 {
		return formatOOXML, nil
	}

	return formatUnknown, nil
}
