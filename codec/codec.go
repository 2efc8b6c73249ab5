// Package codec serializes compiled patterns into portable artifacts and
// reads them back.
//
// An artifact is self-describing: it carries its format tag (simple or
// extended), the ordered predicate names, the state count, the start state,
// the accepting set and the transition table. Two encodings exist. JSON is
// the default and is meant to be inspected and diffed; the binary encoding
// is compact and starts with a magic number per format tag. Decode detects
// the encoding by itself and validates the whole artifact before returning
// it, so a decoded Result is always a well-formed automaton.
package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/coregx/sere/compiler"
)

// Version is the artifact layout version written by Encode.
const Version = 1

// Encoding selects the artifact byte layout.
type Encoding uint8

const (
	// JSON is the textual encoding.
	JSON Encoding = iota
	// Binary is the compact little-endian encoding.
	Binary
)

func (e Encoding) String() string {
	switch e {
	case JSON:
		return "json"
	case Binary:
		return "binary"
	default:
		return fmt.Sprintf("Encoding(%d)", e)
	}
}

// Magic numbers opening a binary artifact.
const (
	MagicSimple   uint32 = 0x8a33b462
	MagicExtended uint32 = 0x82337462
)

// ErrFormat is wrapped by every decoding failure.
var ErrFormat = errors.New("malformed artifact")

// ErrNameTooLong is returned by Encode when a predicate name does not fit the
// 16-bit length field of the binary encoding.
var ErrNameTooLong = errors.New("codec: predicate name too long for the binary encoding")

// FormatError describes why an artifact was rejected.
type FormatError struct {
	Encoding Encoding
	Msg      string
	Err      error // optional cause, such as a JSON syntax error
}

// Error implements the error interface
func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("codec: malformed %s artifact: %s: %v", e.Encoding, e.Msg, e.Err)
	}
	return fmt.Sprintf("codec: malformed %s artifact: %s", e.Encoding, e.Msg)
}

// Unwrap returns ErrFormat and the cause, if any.
func (e *FormatError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrFormat, e.Err}
	}
	return []error{ErrFormat}
}

func formatErrorf(enc Encoding, format string, args ...any) *FormatError {
	return &FormatError{Encoding: enc, Msg: fmt.Sprintf(format, args...)}
}

// Encode serializes a compiled pattern.
func Encode(r *compiler.Result, enc Encoding) ([]byte, error) {
	a, err := fromResult(r)
	if err != nil {
		return nil, err
	}
	switch enc {
	case JSON:
		return encodeJSON(a)
	case Binary:
		return encodeBinary(a)
	}
	return nil, fmt.Errorf("codec: unknown encoding %v", enc)
}

// Detect reports the encoding of data without decoding it.
func Detect(data []byte) (Encoding, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return JSON, nil
	}
	if len(data) >= 4 {
		switch m := le.Uint32(data); m {
		case MagicSimple, MagicExtended:
			return Binary, nil
		}
	}
	return 0, formatErrorf(Binary, "neither JSON nor a known magic number")
}

// Decode parses and validates an artifact in either encoding.
func Decode(data []byte) (*compiler.Result, error) {
	enc, err := Detect(data)
	if err != nil {
		return nil, err
	}
	var a *artifact
	if enc == JSON {
		a, err = decodeJSON(data)
	} else {
		a, err = decodeBinary(data)
	}
	if err != nil {
		return nil, err
	}
	return a.build(enc)
}
