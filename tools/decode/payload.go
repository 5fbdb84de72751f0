package decode

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// DecodeMap decodes a loosely typed payload map into a business struct T.
// Struct fields are matched by their `json` tags.
func DecodeMap[T any](m map[string]any) (*T, error) {
	if m == nil {
		return nil, fmt.Errorf("payload is nil")
	}
	var out T
	cfg := &mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &out,
		WeaklyTypedInput: true,
		DecodeHook:       floatToIntHook(),
	}
	dec, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("new decoder: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &out, nil
}

// floatToIntHook converts JSON float64 numbers to int/int32/int64 targets.
func floatToIntHook() mapstructure.DecodeHookFunc {
	return func(from, to reflect.Kind, data any) (any, error) {
		if from != reflect.Float64 {
			return data, nil
		}
		switch to {
		case reflect.Int:
			return int(data.(float64)), nil
		case reflect.Int32:
			return int32(data.(float64)), nil
		case reflect.Int64:
			return int64(data.(float64)), nil
		}
		return data, nil
	}
}
