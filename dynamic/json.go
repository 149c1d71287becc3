package dynamic

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// FromJSON transcodes a JSON document into a normalized dynamic value.
func FromJSON(data []byte) (any, error) {
	return FromJSONReader(bytes.NewReader(data))
}

// FromJSONReader transcodes token by token, so the document shape does not have
// to be known up front. Exactly one JSON value is accepted.
func FromJSONReader(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	value, err := readJSONValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dynamic: empty JSON document: %w", io.ErrUnexpectedEOF)
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("dynamic: unexpected data after JSON value")
	}
	return value, nil
}

// FromValue serializes any JSON-encodable Go value into dynamic form.
func FromValue(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return FromJSON(data)
}

func readJSONValue(dec *json.Decoder) (any, error) {
	token, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch typed := token.(type) {
	case json.Delim:
		switch typed {
		case '{':
			return readJSONObject(dec)
		case '[':
			return readJSONArray(dec)
		default:
			return nil, fmt.Errorf("dynamic: unexpected delimiter %q", typed)
		}
	case json.Number:
		return numberValue(typed)
	case string, bool, nil:
		return typed, nil
	default:
		return nil, fmt.Errorf("%w: JSON token %T", ErrUnsupportedValue, token)
	}
}

func readJSONObject(dec *json.Decoder) (any, error) {
	out := map[string]any{}
	for dec.More() {
		token, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		key, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("dynamic: expected object key, got %v", token)
		}
		value, err := readJSONValue(dec)
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		out[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return nil, unexpectedEOF(err)
	}
	return out, nil
}

func readJSONArray(dec *json.Decoder) (any, error) {
	out := []any{}
	for dec.More() {
		value, err := readJSONValue(dec)
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		out = append(out, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, unexpectedEOF(err)
	}
	return out, nil
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
