package diagsrc

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned for an unrecognised --diagnostics-format value.
var ErrUnknownFormat = errors.New("unknown diagnostics format")

type Format uint8

const (
	FormatAuto Format = iota
	FormatMSBuild
	FormatSARIF
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatMSBuild:
		return "msbuild"
	case FormatSARIF:
		return "sarif"
	case FormatJSON:
		return "json"
	default:
		return "auto"
	}
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "msbuild", "text", "log":
		return FormatMSBuild, nil
	case "sarif":
		return FormatSARIF, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatAuto, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Detect guesses the format from the file extension and the first significant byte.
func Detect(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".sarif":
		return FormatSARIF
	case ".log", ".txt", ".binlog":
		return FormatMSBuild
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) == 0 {
		return FormatMSBuild
	}
	switch trimmed[0] {
	case '[':
		return FormatJSON
	case '{':
		if bytes.Contains(trimmed, []byte(`"runs"`)) {
			return FormatSARIF
		}
		return FormatJSON
	}
	return FormatMSBuild
}
