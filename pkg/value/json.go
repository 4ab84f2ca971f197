package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// JSON interop for values. Timestamps encode as RFC 3339 strings and regexes
// as their source pattern; both are lossy in the JSON direction by design.

// FromJSON decodes JSON text into a [Value]. Whole numbers decode as
// integers, everything else as floats.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unable to parse json: %w", err)
	}
	// Reject trailing garbage after the first document.
	if dec.More() {
		return nil, fmt.Errorf("unable to parse json: trailing characters")
	}
	return fromJSONAny(raw), nil
}

func fromJSONAny(raw any) Value {
	switch t := raw.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Integer(i)
		}
		f, _ := t.Float64()
		return FromFloat64OrZero(f)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = fromJSONAny(item)
		}
		return &Array{Items: items}
	case map[string]any:
		o := NewObject()
		for k, item := range t {
			o.Set(k, fromJSONAny(item))
		}
		return o
	default:
		return FromAny(raw)
	}
}

// ToJSON encodes v as compact JSON, preserving the object's sorted field
// order.
func ToJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSON(buf *bytes.Buffer, v Value) error {
	switch t := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case Boolean:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Integer:
		fmt.Fprintf(buf, "%d", int64(t))
	case Float:
		data, err := json.Marshal(float64(t))
		if err != nil {
			return err
		}
		buf.Write(data)
	case Bytes:
		data, err := json.Marshal(string(t))
		if err != nil {
			return err
		}
		buf.Write(data)
	case Timestamp:
		data, err := json.Marshal(t.Time.Format(time.RFC3339Nano))
		if err != nil {
			return err
		}
		buf.Write(data)
	case Regex:
		data, err := json.Marshal(t.String())
		if err != nil {
			return err
		}
		buf.Write(data)
	case *Array:
		buf.WriteByte('[')
		for i, item := range t.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Object:
		buf.WriteByte('{')
		first := true
		var encErr error
		t.Scan(func(key string, item Value) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			data, err := json.Marshal(key)
			if err != nil {
				encErr = err
				return false
			}
			buf.Write(data)
			buf.WriteByte(':')
			if err := encodeJSON(buf, item); err != nil {
				encErr = err
				return false
			}
			return true
		})
		if encErr != nil {
			return encErr
		}
		buf.WriteByte('}')
	}
	return nil
}
