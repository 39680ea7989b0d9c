package mcpserver

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/frahmantamala/expense-tracker/internal"
)

// Arguments arrive as decoded JSON, so numbers are float64 over the wire.
// In-process callers may pass Go integers or json.Number, which are accepted
// too.

func invalidArgument(format string, args ...interface{}) error {
	return internal.NewValidationError(fmt.Sprintf(format, args...), internal.ErrCodeInvalidArgument)
}

func requiredString(args map[string]any, name string) (string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return "", invalidArgument("missing required argument %q", name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", invalidArgument("argument %q must be a string, got %T", name, raw)
	}
	return s, nil
}

// optionalString treats an absent key and an explicit null the same way.
func optionalString(args map[string]any, name string) (*string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, invalidArgument("argument %q must be a string, got %T", name, raw)
	}
	return &s, nil
}

func requiredNumber(args map[string]any, name string) (float64, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, invalidArgument("missing required argument %q", name)
	}
	return toNumber(name, raw)
}

func optionalNumber(args map[string]any, name string) (*float64, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return nil, nil
	}
	f, err := toNumber(name, raw)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func requiredInteger(args map[string]any, name string) (int64, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, invalidArgument("missing required argument %q", name)
	}
	f, err := toNumber(name, raw)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, invalidArgument("argument %q must be an integer, got %v", name, raw)
	}
	return int64(f), nil
}

func toNumber(name string, raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) {
			return 0, invalidArgument("argument %q must be a number", name)
		}
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, invalidArgument("argument %q must be a number, got %q", name, v.String())
		}
		return f, nil
	default:
		return 0, invalidArgument("argument %q must be a number, got %T", name, raw)
	}
}
