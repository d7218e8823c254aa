// Package codec converts cache values to a self-describing byte encoding
// and back.
//
// The wire format is a trailing tag byte:
//
//	payload 0x00            raw bytes
//	payload 0x01            UTF-8 string
//	payload <comp> 0x02     msgpack payload; comp is 0x00 (none) or 0x01 (zlib)
//
// Byte-slice and string values pass through untouched, so the common cases
// cost one byte of overhead and no allocation-heavy encoding. Everything
// else (numbers, booleans, slices, maps, structs with exported fields) is
// encoded with msgpack; payloads of CompressionThreshold bytes or more are
// zlib-compressed.
//
// Unmarshal decodes without out-of-band type information. Numbers decode
// as int64/uint64/float64 and maps as map[string]any; use UnmarshalInto to
// decode a msgpack payload into a concrete type.
package codec

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// CompressionThreshold is the msgpack payload size, in bytes, at or above
// which the payload is zlib-compressed.
const CompressionThreshold = 64

const (
	tagBytes  = 0x00
	tagString = 0x01
	tagPacked = 0x02

	compNone = 0x00
	compZlib = 0x01
)

var (
	// ErrEncode marks values that cannot be serialized
	// (functions, channels, complex numbers).
	ErrEncode = errors.New("codec: value cannot be encoded")
	// ErrDecode marks malformed, truncated, or unknown-tagged payloads.
	ErrDecode = errors.New("codec: malformed payload")
)

// Marshal encodes v into the tagged wire format.
func Marshal(v any) ([]byte, error) {
	switch tv := v.(type) {
	case []byte:
		out := make([]byte, 0, len(tv)+1)
		out = append(out, tv...)
		return append(out, tagBytes), nil
	case string:
		out := make([]byte, 0, len(tv)+1)
		out = append(out, tv...)
		return append(out, tagString), nil
	}

	payload, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if len(payload) < CompressionThreshold {
		return append(payload, compNone, tagPacked), nil
	}

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return append(buf.Bytes(), compZlib, tagPacked), nil
}

// Unmarshal decodes b into a value. Byte and string payloads come back as
// []byte and string; msgpack payloads decode generically (numbers as
// int64/uint64/float64, maps as map[string]any).
func Unmarshal(b []byte) (any, error) {
	body, tag, err := split(b)
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagBytes:
		// Copy so the caller never aliases store-owned bytes.
		return append([]byte(nil), body...), nil
	case tagString:
		return string(body), nil
	}

	payload, err := unpack(body)
	if err != nil {
		return nil, err
	}
	dec := msgpack.NewDecoder(bytes.NewReader(payload))
	dec.UseLooseInterfaceDecoding(true)
	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return v, nil
}

// UnmarshalInto decodes b into dst, which must be a non-nil pointer. This
// is the type-hinted path for structured values: msgpack payloads decode
// into the concrete type, byte payloads require *[]byte, and string
// payloads require *string.
func UnmarshalInto(b []byte, dst any) error {
	body, tag, err := split(b)
	if err != nil {
		return err
	}
	switch tag {
	case tagBytes:
		p, ok := dst.(*[]byte)
		if !ok {
			return fmt.Errorf("%w: bytes payload needs *[]byte, got %T", ErrDecode, dst)
		}
		*p = append([]byte(nil), body...)
		return nil
	case tagString:
		p, ok := dst.(*string)
		if !ok {
			return fmt.Errorf("%w: string payload needs *string, got %T", ErrDecode, dst)
		}
		*p = string(body)
		return nil
	}

	payload, err := unpack(body)
	if err != nil {
		return err
	}
	if err := msgpack.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// split validates the outer frame and returns (body, tag).
func split(b []byte) ([]byte, byte, error) {
	if len(b) == 0 {
		return nil, 0, fmt.Errorf("%w: empty input", ErrDecode)
	}
	tag := b[len(b)-1]
	switch tag {
	case tagBytes, tagString, tagPacked:
		return b[:len(b)-1], tag, nil
	default:
		return nil, 0, fmt.Errorf("%w: unknown tag 0x%02x", ErrDecode, tag)
	}
}

// unpack strips the compression byte from a msgpack body and inflates the
// payload when needed.
func unpack(body []byte) ([]byte, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: truncated payload", ErrDecode)
	}
	comp := body[len(body)-1]
	payload := body[:len(body)-1]
	switch comp {
	case compNone:
		return payload, nil
	case compZlib:
		zr, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression 0x%02x", ErrDecode, comp)
	}
}
