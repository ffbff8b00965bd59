package tools

import (
	"fmt"
	"math"
)

// JSONTypeName names the JSON type of a decoded argument value.
func JSONTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// StringArg returns a required string argument.
func StringArg(args map[string]any, name string) (string, error) {
	raw, ok := args[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredArg, name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", typeError(name, "string", raw)
	}
	return s, nil
}

// OptionalStringArg returns a string argument, or def when absent or null.
func OptionalStringArg(args map[string]any, name, def string) (string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", typeError(name, "string", raw)
	}
	return s, nil
}

// NonNegativeIntArg returns an optional integral, non-negative number argument.
func NonNegativeIntArg(args map[string]any, name string, def int) (int, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return def, nil
	}

	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	default:
		return 0, typeError(name, "number", raw)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: expected %s to be an integer, got %v", ErrInvalidArgValue, name, raw)
	}
	if f < 0 {
		return 0, fmt.Errorf("%w: expected %s to be non-negative, got %v", ErrInvalidArgValue, name, raw)
	}
	// Larger values behave the same as MaxInt32 for window arithmetic.
	return int(min(f, math.MaxInt32)), nil
}

func typeError(name, want string, got any) error {
	return fmt.Errorf("%w: expected %s to be a %s, got %s", ErrInvalidArgType, name, want, JSONTypeName(got))
}
