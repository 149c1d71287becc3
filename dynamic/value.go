// Package dynamic models the runtime-flexible values exchanged with script hosts.
//
// A normalized dynamic value is one of: nil, bool, int64, float64, string,
// []any or map[string]any. Host bindings convert their native shapes into this
// form with Normalize before any transform or decode runs over them.
package dynamic

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

var (
	ErrUnsupportedKey   = errors.New("dynamic: unsupported mapping key")
	ErrUnsupportedValue = errors.New("dynamic: unsupported value")
	ErrKeyCollision     = errors.New("dynamic: key collision")
)

// KindOf reports the kind of an already normalized value.
func KindOf(value any) (Kind, error) {
	switch value.(type) {
	case nil:
		return KindNull, nil
	case bool:
		return KindBool, nil
	case int64, float64:
		return KindNumber, nil
	case string:
		return KindString, nil
	case []any:
		return KindSequence, nil
	case map[string]any:
		return KindMapping, nil
	default:
		return KindNull, fmt.Errorf("%w: %T is not normalized", ErrUnsupportedValue, value)
	}
}

// Normalize returns a deep copy of value in normalized form. Mapping keys must
// be string kinded; any other key type fails with ErrUnsupportedKey instead of
// being stringified. Pairs exported from a script Map ([][2]any) are treated as
// mappings.
func Normalize(value any) (any, error) {
	return normalize(value, "$")
}

func normalize(value any, path string) (any, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case bool:
		return typed, nil
	case string:
		return typed, nil
	case int64:
		return typed, nil
	case float64:
		return typed, nil
	case int:
		return int64(typed), nil
	case json.Number:
		return numberValue(typed)
	case time.Time:
		return typed.UTC().Format(time.RFC3339Nano), nil
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			converted, err := normalize(item, childPath(path, key))
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(typed))
		for rawKey, item := range typed {
			key, err := mappingKey(rawKey, path)
			if err != nil {
				return nil, err
			}
			converted, err := normalize(item, childPath(path, key))
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case [][2]any:
		out := make(map[string]any, len(typed))
		for _, pair := range typed {
			key, err := mappingKey(pair[0], path)
			if err != nil {
				return nil, err
			}
			converted, err := normalize(pair[1], childPath(path, key))
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			converted, err := normalize(item, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	}
	return normalizeReflect(reflect.ValueOf(value), path)
}

func normalizeReflect(rv reflect.Value, path string) (any, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return normalize(rv.Elem().Interface(), path)
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return float64(u), nil
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			converted, err := normalize(rv.Index(i).Interface(), indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key, err := mappingKey(iter.Key().Interface(), path)
			if err != nil {
				return nil, err
			}
			converted, err := normalize(iter.Value().Interface(), childPath(path, key))
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case reflect.Struct:
		return FromValue(rv.Interface())
	case reflect.Invalid:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s at %s", ErrUnsupportedValue, rv.Type(), path)
	}
}

func mappingKey(key any, path string) (string, error) {
	if key == nil {
		return "", fmt.Errorf("%w: nil at %s", ErrUnsupportedKey, path)
	}
	rv := reflect.ValueOf(key)
	if rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return "", fmt.Errorf("%w: %T at %s", ErrUnsupportedKey, key, path)
}

// numberValue prefers int64, then float64. A well-formed number outside the
// float64 range is kept as its literal text.
func numberValue(number json.Number) (any, error) {
	if i, err := number.Int64(); err == nil {
		return i, nil
	}
	f, err := number.Float64()
	if errors.Is(err, strconv.ErrRange) {
		return number.String(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: invalid number %q", ErrUnsupportedValue, number.String())
	}
	return f, nil
}

func childPath(path string, key string) string {
	return path + "." + key
}

func indexPath(path string, index int) string {
	return path + "[" + strconv.Itoa(index) + "]"
}
