package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// ParamBag is the merged set of named inputs supplied to an action. Keys are
// case-sensitive; unrecognized keys are silently ignored by the consuming
// action.
type ParamBag map[string]interface{}

// MergeParams builds a ParamBag from two optional sources: a structured map
// and a JSON-encoded object string. The JSON source is merged second, so on
// key collision its value wins. Either source may be nil/empty.
func MergeParams(structured map[string]interface{}, jsonText string) (ParamBag, error) {
	merged := make(ParamBag, len(structured))
	for key, value := range structured {
		merged[key] = value
	}

	if strings.TrimSpace(jsonText) != "" {
		var overlay map[string]interface{}
		if err := json.Unmarshal([]byte(jsonText), &overlay); err != nil {
			return nil, errors.Wrap(err, "parameter JSON must be an object")
		}
		for key, value := range overlay {
			merged[key] = value
		}
	}

	return merged, nil
}

// ParseKeyValuePairs converts repeated "key=value" strings (as collected from
// command-line flags) into a structured map. Values keep everything after the
// first '='. A pair without '=' is an error.
func ParseKeyValuePairs(pairs []string) (map[string]interface{}, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	params := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		idx := strings.Index(pair, "=")
		if idx <= 0 {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}
		params[pair[:idx]] = pair[idx+1:]
	}

	return params, nil
}

// Decode populates a per-action parameter struct from the bag. Decoding is
// weakly typed so that "100" from a key=value flag satisfies an int field the
// same way 100 from a JSON object does. Key matching is case-sensitive; a bag
// key that differs only in case from a field's tag is an unknown key, and
// unknown bag keys are ignored.
func (p ParamBag) Decode(target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "param",
		MatchName: func(mapKey, fieldName string) bool {
			return mapKey == fieldName
		},
	})
	if err != nil {
		return errors.Wrap(err, "building parameter decoder")
	}

	if err := decoder.Decode(map[string]interface{}(p)); err != nil {
		return errors.Wrap(err, "decoding parameters")
	}

	return nil
}

// String returns the string value of a bag entry, or "" when the entry is
// absent or not a string.
func (p ParamBag) String(name string) string {
	value, ok := p[name].(string)
	if !ok {
		return ""
	}
	return value
}

// Object returns the map value of a bag entry, or nil when the entry is
// absent or not an object.
func (p ParamBag) Object(name string) map[string]interface{} {
	value, ok := p[name].(map[string]interface{})
	if !ok {
		return nil
	}
	return value
}
