package domain

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// For any overlapping key set, the value from the JSON-encoded source wins
// because that source is merged second.
func TestPropertyMergeOrderJSONWins(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("JSON value wins on every shared key", prop.ForAll(
		func(key, flagValue, jsonValue string) bool {
			structured := map[string]interface{}{key: flagValue}
			encoded, err := json.Marshal(map[string]string{key: jsonValue})
			if err != nil {
				return false
			}

			merged, err := MergeParams(structured, string(encoded))
			if err != nil {
				return false
			}
			return merged[key] == jsonValue
		},
		gen.Identifier(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("keys unique to either source survive the merge", prop.ForAll(
		func(flagKey, jsonKey, value string) bool {
			if flagKey == jsonKey {
				return true // covered by the collision property
			}
			structured := map[string]interface{}{flagKey: value}
			merged, err := MergeParams(structured, fmt.Sprintf(`{"%s":"%s"}`, jsonKey, value))
			if err != nil {
				return false
			}
			return merged[flagKey] == value && merged[jsonKey] == value && len(merged) == 2
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// For any result set with N synthetic entries out of M, the filtered view
// holds exactly M-N records, its count equals M-N, and the reported total
// stays at the service-supplied value.
func TestPropertySyntheticFilteringCounts(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	genHumanName := gen.AlphaString().Map(func(s string) string {
		return "Deal " + s
	})
	genSyntheticName := gen.UInt32().Map(func(n uint32) string {
		return fmt.Sprintf("tenant-%08x", n)
	})

	properties.Property("filtered count is M-N and reported total unfiltered", prop.ForAll(
		func(humanNames, syntheticNames []string) bool {
			page := &CRMPage{Total: len(humanNames) + len(syntheticNames)}
			for i, name := range humanNames {
				page.Results = append(page.Results, CRMRecord{
					ID:         FlexibleID(fmt.Sprintf("h%d", i)),
					Properties: map[string]interface{}{"dealname": name},
				})
			}
			for i, name := range syntheticNames {
				page.Results = append(page.Results, CRMRecord{
					ID:         FlexibleID(fmt.Sprintf("s%d", i)),
					Properties: map[string]interface{}{"dealname": name},
				})
			}

			filtered := FilterSyntheticRecords(page)
			return filtered.Count == len(humanNames) &&
				len(filtered.Results) == len(humanNames) &&
				filtered.ReportedTotal == page.Total
		},
		gen.SliceOf(genHumanName),
		gen.SliceOf(genSyntheticName),
	))

	properties.TestingRun(t)
}

// For any requested size/offset, the built search body uses exactly the
// requested values, and the defaults only when the caller supplied nothing.
func TestPropertySearchDefaults(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("explicit size and offset pass through exactly", prop.ForAll(
		func(size, from int) bool {
			body := NewSearchBody(nil, &size, &from)
			return body.Size == size && body.From == from
		},
		gen.IntRange(0, 10000),
		gen.IntRange(0, 10000),
	))

	properties.Property("omitted size and offset fall back to defaults", prop.ForAll(
		func(field string) bool {
			query := map[string]interface{}{"term": map[string]interface{}{field: "x"}}
			body := NewSearchBody(query, nil, nil)
			return body.Size == ElasticDefaultSize && body.From == ElasticDefaultFrom
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
