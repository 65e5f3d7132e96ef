package storeapi

import (
	"fmt"
	"net/url"
	"reflect"
	"time"
)

// EncodeParams serializes params with repeated keys for multi-valued entries
// (ids=1&ids=2). Keys are sorted and nil values are skipped.
func EncodeParams(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}
	values := url.Values{}
	for key, raw := range params {
		for _, v := range flatten(raw) {
			values.Add(key, v)
		}
	}
	return values.Encode()
}

func flatten(raw any) []string {
	if raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return append([]string(nil), v...)
	}

	rv := reflect.ValueOf(raw)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return []string{string(rv.Bytes())}
		}
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, flatten(rv.Index(i).Interface())...)
		}
		return out
	default:
		return []string{formatScalar(rv.Interface())}
	}
}

func formatScalar(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case time.Time:
		return s.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
