package dynamic

import (
	"fmt"

	"github.com/stoewer/go-strcase"
)

// KeyFunc rewrites a single mapping key.
type KeyFunc func(string) string

// CamelizeKeys rewrites every mapping key to lowerCamelCase, the wire convention.
func CamelizeKeys(value any) (any, error) {
	return TransformKeys(value, strcase.LowerCamelCase)
}

// SnakeizeKeys rewrites every mapping key to snake_case, the host convention.
func SnakeizeKeys(value any) (any, error) {
	return TransformKeys(value, strcase.SnakeCase)
}

// TransformKeys normalizes value and rewrites mapping keys at every depth,
// including mappings nested in sequences. The input is never modified. Two keys
// that rewrite to the same name fail with ErrKeyCollision.
func TransformKeys(value any, fn KeyFunc) (any, error) {
	if fn == nil {
		return Normalize(value)
	}
	normalized, err := Normalize(value)
	if err != nil {
		return nil, err
	}
	return transformKeys(normalized, fn, "$")
}

func transformKeys(value any, fn KeyFunc, path string) (any, error) {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		origin := make(map[string]string, len(typed))
		for key, item := range typed {
			next := fn(key)
			if previous, exists := origin[next]; exists {
				return nil, fmt.Errorf("%w: %q and %q both become %q at %s", ErrKeyCollision, previous, key, next, path)
			}
			origin[next] = key
			converted, err := transformKeys(item, fn, childPath(path, next))
			if err != nil {
				return nil, err
			}
			out[next] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			converted, err := transformKeys(item, fn, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	default:
		return value, nil
	}
}
