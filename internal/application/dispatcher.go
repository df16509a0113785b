package application

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"saasctl/internal/domain"
)

// NormalizeAction canonicalizes an action name for matching. Action matching
// is case-insensitive throughout.
func NormalizeAction(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}

// IsSupported reports whether a normalized action name appears in a
// handler's supported set. Callers use this to short-circuit before
// resolving credentials, so an unrecognized action never prompts.
func IsSupported(supported []string, action string) bool {
	normalized := NormalizeAction(action)
	for _, name := range supported {
		if name == normalized {
			return true
		}
	}
	return false
}

// RenderResult converts an action result to indented JSON for the terminal.
// Raw pass-through responses are re-indented; derived views and other typed
// values are marshaled directly. A nil result (e.g., a 204 response) renders
// as an empty object.
func RenderResult(result interface{}) (string, error) {
	if result == nil {
		return "{}", nil
	}

	if raw, ok := result.(json.RawMessage); ok {
		if len(raw) == 0 {
			return "{}", nil
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return "", errors.Wrap(err, "formatting response")
		}
		return buf.String(), nil
	}

	rendered, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshaling result")
	}
	return string(rendered), nil
}

// requireKey validates that an action received its required primary key
// (index name, issue key, record ID). The key is reported as a missing
// parameter under the given name.
func requireKey(action, key, name string) error {
	if key == "" {
		return &domain.MissingParameterError{Action: action, Parameter: name}
	}
	return nil
}

// coerceJSONObject rewrites a bag entry that arrived as a JSON-encoded
// string (typical for key=value flags) into the object it encodes, so the
// per-action parameter structs can decode it. Entries that are already
// objects, or absent, are left alone.
func coerceJSONObject(params domain.ParamBag, name string) error {
	if params.Object(name) != nil {
		return nil
	}
	value := params.String(name)
	if value == "" {
		return nil
	}

	var object map[string]interface{}
	if err := json.Unmarshal([]byte(value), &object); err != nil {
		return errors.Wrapf(err, "parameter %q must be a JSON object", name)
	}
	params[name] = object
	return nil
}
