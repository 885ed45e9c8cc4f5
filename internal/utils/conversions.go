package utils

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

// ToInt64 converts a decoded msgpack number (or numeric string) to int64
func ToInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("integer %d overflows int64", n)
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected an integer, got %v", n)
		}
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold
		if n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, fmt.Errorf("integer %v overflows int64", n)
		}
		return int64(n), nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %q", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

// ToInt64Slice converts a decoded msgpack array of numbers to []int64
func ToInt64Slice(v interface{}) ([]int64, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]interface{})
	if !ok {
		// a single scalar is accepted as a one element array
		n, err := ToInt64(v)
		if err != nil {
			return nil, err
		}
		return []int64{n}, nil
	}

	out := make([]int64, 0, len(items))
	for i, item := range items {
		n, err := ToInt64(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// EncodeMessage serializes a request or response map
func EncodeMessage(message map[string]interface{}) ([]byte, error) {
	return msgpack.Marshal(message)
}

// DecodeMessage deserializes a map written by EncodeMessage. Numbers come
// back as int64, uint64 or float64 regardless of their encoded width.
func DecodeMessage(data []byte) (map[string]interface{}, error) {
	var message map[string]interface{}
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	if err := dec.Decode(&message); err != nil {
		return nil, err
	}
	return message, nil
}
