package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrNotJSON is returned when a payload cannot be decoded even after unwrapping.
var ErrNotJSON = errors.New("jsonutil: cannot parse JSON payload")

// maxUnwrap bounds how many JSON-string layers UnmarshalFlex peels off.
const maxUnwrap = 2

// MarshalNoEscape encodes v into JSON without escaping <, >, & into \u003c, etc.
// Source code is full of these characters.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Remove trailing newline from json.Encoder.Encode
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalFlex tries to unmarshal JSON bytes into v with best effort:
// 1) Direct unmarshal
// 2) If the payload is a JSON string, decode the string and try again
// Models occasionally return the object wrapped in a JSON string. String values
// inside the object are never rewritten.
func UnmarshalFlex(raw []byte, v any) error {
	raw = bytes.TrimSpace(raw)
	for i := 0; i <= maxUnwrap; i++ {
		err := json.Unmarshal(raw, v)
		if err == nil {
			return nil
		}
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return errors.Join(ErrNotJSON, err)
		}
		raw = bytes.TrimSpace([]byte(s))
	}
	return ErrNotJSON
}
