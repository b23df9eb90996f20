// Package tools provides the built-in capability set for the assistant's
// tool registry: calculation, search, system diagnostics, memory archival,
// timers, file creation, script evaluation and the external plugin bridges.
package tools

import (
	"strconv"

	"github.com/m-mizutani/goerr/v2"

	"github.com/orin-ai/orin"
)

// stringParam extracts a required string parameter.
func stringParam(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", goerr.Wrap(orin.ErrInvalidParams, "missing parameter", goerr.V("key", key))
	}
	s, ok := v.(string)
	if !ok {
		return "", goerr.Wrap(orin.ErrInvalidParams, "parameter is not a string", goerr.V("key", key))
	}
	return s, nil
}

// optionalString extracts a string parameter, falling back to def when the
// key is absent or not a string.
func optionalString(params map[string]any, key, def string) string {
	if s, ok := params[key].(string); ok && s != "" {
		return s
	}
	return def
}

// numberParam extracts a numeric parameter. Plan parameters arrive through
// JSON decoding, so numbers are float64; string digits are accepted too
// because backends frequently quote them.
func numberParam(params map[string]any, key string) (float64, error) {
	v, ok := params[key]
	if !ok {
		return 0, goerr.Wrap(orin.ErrInvalidParams, "missing parameter", goerr.V("key", key))
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, goerr.Wrap(orin.ErrInvalidParams, "parameter is not numeric", goerr.V("key", key), goerr.V("value", n))
		}
		return f, nil
	default:
		return 0, goerr.Wrap(orin.ErrInvalidParams, "parameter is not numeric", goerr.V("key", key))
	}
}
