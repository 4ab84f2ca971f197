package value

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Coercion helpers. Each As* accessor returns a [*CoercionError] when the
// value is not of the requested type; none of them convert between types
// (that is the job of the stdlib to_* functions).

// AsBoolean returns the boolean contents of v.
func AsBoolean(v Value) (bool, error) {
	if b, ok := v.(Boolean); ok {
		return bool(b), nil
	}
	return false, &CoercionError{From: typeOf(v), Into: TypeBoolean}
}

// AsInteger returns the integer contents of v.
func AsInteger(v Value) (int64, error) {
	if i, ok := v.(Integer); ok {
		return int64(i), nil
	}
	return 0, &CoercionError{From: typeOf(v), Into: TypeInteger}
}

// AsFloat returns the float contents of v.
func AsFloat(v Value) (float64, error) {
	if f, ok := v.(Float); ok {
		return float64(f), nil
	}
	return 0, &CoercionError{From: typeOf(v), Into: TypeFloat}
}

// AsBytes returns the byte-string contents of v.
func AsBytes(v Value) ([]byte, error) {
	if b, ok := v.(Bytes); ok {
		return []byte(b), nil
	}
	return nil, &CoercionError{From: typeOf(v), Into: TypeBytes}
}

// AsString returns the byte-string contents of v as a string.
func AsString(v Value) (string, error) {
	b, err := AsBytes(v)
	return string(b), err
}

// AsTimestamp returns the timestamp contents of v.
func AsTimestamp(v Value) (time.Time, error) {
	if t, ok := v.(Timestamp); ok {
		return t.Time, nil
	}
	return time.Time{}, &CoercionError{From: typeOf(v), Into: TypeTimestamp}
}

// AsArray returns the array contents of v.
func AsArray(v Value) (*Array, error) {
	if a, ok := v.(*Array); ok {
		return a, nil
	}
	return nil, &CoercionError{From: typeOf(v), Into: TypeArray}
}

// AsObject returns the object contents of v.
func AsObject(v Value) (*Object, error) {
	if o, ok := v.(*Object); ok {
		return o, nil
	}
	return nil, &CoercionError{From: typeOf(v), Into: TypeObject}
}

// FromAny converts a decoded Go value (as produced by encoding/json or
// yaml.v3) into a [Value]. Unsupported Go types become their string
// representation.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case bool:
		return Boolean(t)
	case int:
		return Integer(t)
	case int64:
		return Integer(t)
	case uint64:
		return Integer(int64(t))
	case float64:
		if t == float64(int64(t)) {
			// YAML and JSON decoders surface whole numbers as float64.
			return Integer(int64(t))
		}
		return FromFloat64OrZero(t)
	case string:
		return Bytes(t)
	case []byte:
		return Bytes(t)
	case time.Time:
		return NewTimestamp(t)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return &Array{Items: items}
	case map[string]any:
		o := NewObject()
		for k, item := range t {
			o.Set(k, FromAny(item))
		}
		return o
	case map[any]any:
		o := NewObject()
		for k, item := range t {
			o.Set(fmt.Sprint(k), FromAny(item))
		}
		return o
	default:
		return Bytes(fmt.Sprint(t))
	}
}

// ToAny converts v into plain Go values suitable for encoding/json and
// yaml.v3 encoders.
func ToAny(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Boolean:
		return bool(t)
	case Integer:
		return int64(t)
	case Float:
		return float64(t)
	case Bytes:
		return string(t)
	case Timestamp:
		return t.Time
	case Regex:
		return t.String()
	case *Array:
		out := make([]any, len(t.Items))
		for i, item := range t.Items {
			out[i] = ToAny(item)
		}
		return out
	case *Object:
		out := make(map[string]any, t.Len())
		t.Scan(func(key string, item Value) bool {
			out[key] = ToAny(item)
			return true
		})
		return out
	}
	return nil
}

// Format renders v in source notation, the way the REPL prints results.
func Format(v Value) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case Null:
		return "null"
	case Boolean:
		return strconv.FormatBool(bool(t))
	case Integer:
		return strconv.FormatInt(int64(t), 10)
	case Float:
		return strconv.FormatFloat(float64(t), 'g', -1, 64)
	case Bytes:
		return strconv.Quote(string(t))
	case Timestamp:
		return "t'" + t.Time.Format(time.RFC3339Nano) + "'"
	case Regex:
		return "r'" + t.String() + "'"
	case *Array:
		parts := make([]string, len(t.Items))
		for i, item := range t.Items {
			parts[i] = Format(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Object:
		parts := make([]string, 0, t.Len())
		t.Scan(func(key string, item Value) bool {
			parts = append(parts, strconv.Quote(key)+": "+Format(item))
			return true
		})
		return "{ " + strings.Join(parts, ", ") + " }"
	}
	return ""
}
