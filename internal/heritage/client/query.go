// Package client provides HTTP client functionality for the heritage API
package client

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// buildURL joins the base URL and a relative path and merges query parameters.
// Leading slashes on path are ignored so "/heritage/x" and "heritage/x" are equivalent.
func (c *Client) buildURL(path string, query map[string]any) (*url.URL, error) {
	u, err := url.Parse(c.baseURL + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}

	if len(query) > 0 {
		q := u.Query()
		encodeQuery(q, query)
		u.RawQuery = q.Encode()
	}
	return u, nil
}

// encodeQuery writes params into q. Scalars replace any existing value for
// the key, slices and arrays append one value per element in order, and nil
// entries at any level are skipped.
func encodeQuery(q url.Values, params map[string]any) {
	for key, value := range params {
		v, ok := deref(reflect.ValueOf(value))
		if !ok {
			continue
		}

		if isList(v) {
			for i := 0; i < v.Len(); i++ {
				elem, ok := deref(v.Index(i))
				if !ok {
					continue
				}
				if s, ok := formatScalar(elem); ok {
					q.Add(key, s)
				}
			}
			continue
		}

		if s, ok := formatScalar(v); ok {
			q.Set(key, s)
		}
	}
}

// deref follows pointers and interfaces and reports false for nil values.
func deref(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.IsValid()
}

func isList(v reflect.Value) bool {
	if v.Kind() == reflect.Array {
		return true
	}
	// []byte is treated as a string scalar.
	return v.Kind() == reflect.Slice && v.Type().Elem().Kind() != reflect.Uint8
}

func formatScalar(v reflect.Value) (string, bool) {
	if v.CanInterface() {
		switch x := v.Interface().(type) {
		case time.Time:
			return x.Format(time.RFC3339), true
		case fmt.Stringer:
			return x.String(), true
		}
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), true
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return string(v.Bytes()), true
		}
	case reflect.Map, reflect.Chan, reflect.Func:
		if v.IsNil() {
			return "", false
		}
	}
	return fmt.Sprint(v.Interface()), true
}
