package dynamic

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Decode maps a dynamic mapping onto target, a pointer to a struct, using the
// struct's json field names. Unknown keys are ignored.
func Decode(input any, target any) error {
	normalized, err := Normalize(input)
	if err != nil {
		return err
	}
	if _, ok := normalized.(map[string]any); !ok {
		kind, _ := KindOf(normalized)
		return fmt.Errorf("%w: expected mapping, got %s", ErrUnsupportedValue, kind)
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           target,
		WeaklyTypedInput: false,
	})
	if err != nil {
		return fmt.Errorf("dynamic: build decoder: %w", err)
	}
	return decoder.Decode(normalized)
}

// StringSequence converts an optional sequence of strings. nil stays nil.
func StringSequence(value any) ([]string, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string(nil), typed...), nil
	}
	normalized, err := Normalize(value)
	if err != nil {
		return nil, err
	}
	if normalized == nil {
		return nil, nil
	}
	items, ok := normalized.([]any)
	if !ok {
		kind, _ := KindOf(normalized)
		return nil, fmt.Errorf("%w: expected sequence of strings, got %s", ErrUnsupportedValue, kind)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		text, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %T, expected string", ErrUnsupportedValue, indexPath("$", i), item)
		}
		out = append(out, text)
	}
	return out, nil
}
