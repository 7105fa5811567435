package mail

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

var ErrBadAttachment = errors.New("unsupported attachment content")

// NormalizeAttachment coerces buffer-like attachment content into bytes.
// Besides raw bytes and readers it understands explicitly marked base64
// strings and the {"type":"Buffer","data":[...]} shape that byte buffers
// take in JSON.
func NormalizeAttachment(v any) ([]byte, error) {
	switch c := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: empty", ErrBadAttachment)
	case []byte:
		return append([]byte(nil), c...), nil
	case string:
		return fromString(c)
	case *bytes.Buffer:
		return append([]byte(nil), c.Bytes()...), nil
	case json.RawMessage:
		var decoded any
		if err := json.Unmarshal(c, &decoded); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadAttachment, err)
		}
		return NormalizeAttachment(decoded)
	case io.Reader:
		return io.ReadAll(c)
	case map[string]any:
		if t, _ := c["type"].(string); t != "Buffer" {
			return nil, fmt.Errorf("%w: object without type Buffer", ErrBadAttachment)
		}
		return NormalizeAttachment(c["data"])
	case []int:
		out := make([]byte, len(c))
		for i, n := range c {
			b, err := toByte(float64(n))
			if err != nil {
				return nil, err
			}
			out[i] = b
		}
		return out, nil
	case []any:
		out := make([]byte, len(c))
		for i, e := range c {
			var f float64
			switch n := e.(type) {
			case float64:
				f = n
			case int:
				f = float64(n)
			case json.Number:
				var err error
				if f, err = n.Float64(); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrBadAttachment, err)
				}
			default:
				return nil, fmt.Errorf("%w: element %d is %T", ErrBadAttachment, i, e)
			}
			b, err := toByte(f)
			if err != nil {
				return nil, err
			}
			out[i] = b
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrBadAttachment, v)
}

// fromString decodes base64 only when the string says so, either as a
// data URI ("data:application/pdf;base64,...") or with a "base64:" prefix.
// Any other string is taken as is.
func fromString(s string) ([]byte, error) {
	trimmed := strings.TrimSpace(s)
	var encoded string
	switch {
	case strings.HasPrefix(trimmed, "data:"):
		i := strings.Index(trimmed, ";base64,")
		if i < 0 {
			return nil, fmt.Errorf("%w: data URI is not base64", ErrBadAttachment)
		}
		encoded = trimmed[i+len(";base64,"):]
	case strings.HasPrefix(trimmed, "base64:"):
		encoded = strings.TrimPrefix(trimmed, "base64:")
	default:
		return []byte(s), nil
	}
	b, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadAttachment, err)
	}
	return b, nil
}

func toByte(f float64) (byte, error) {
	if f < 0 || f > 255 || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %v is not a byte", ErrBadAttachment, f)
	}
	return byte(f), nil
}
