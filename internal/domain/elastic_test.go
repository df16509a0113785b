package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNewSearchBodyDefaults(t *testing.T) {
	body := NewSearchBody(nil, nil, nil)

	assert.Equal(t, 100, body.Size)
	assert.Equal(t, 0, body.From)
	assert.Equal(t, map[string]interface{}{"match_all": map[string]interface{}{}}, body.Query)
}

func TestNewSearchBodyExplicitValuesOverride(t *testing.T) {
	query := map[string]interface{}{"term": map[string]interface{}{"level": "error"}}
	body := NewSearchBody(query, intPtr(5), intPtr(20))

	assert.Equal(t, 5, body.Size)
	assert.Equal(t, 20, body.From)
	assert.Equal(t, query, body.Query)

	// Explicit zero is an override, not an omission.
	body = NewSearchBody(query, intPtr(0), nil)
	assert.Equal(t, 0, body.Size)
}

func TestSearchBodyWireShape(t *testing.T) {
	payload, err := json.Marshal(NewSearchBody(nil, nil, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":{"match_all":{}},"size":100,"from":0}`, string(payload))
}

func TestStatsSpecBodyTermsAggregation(t *testing.T) {
	spec := &StatsSpec{TermsField: "level.keyword"}
	body := spec.Body()

	assert.Equal(t, 0, body["size"])
	assert.Equal(t, map[string]interface{}{
		"by_term": map[string]interface{}{
			"terms": map[string]interface{}{"field": "level.keyword"},
		},
	}, body["aggs"])

	// No filters requested: no query clause at all.
	_, hasQuery := body["query"]
	assert.False(t, hasQuery)
}

func TestStatsSpecBodyDateHistogramDefaultsInterval(t *testing.T) {
	spec := &StatsSpec{HistogramField: "@timestamp"}
	body := spec.Body()

	aggs := body["aggs"].(map[string]interface{})
	histogram := aggs["over_time"].(map[string]interface{})["date_histogram"].(map[string]interface{})
	assert.Equal(t, "@timestamp", histogram["field"])
	assert.Equal(t, "day", histogram["calendar_interval"])

	spec.Interval = "week"
	body = spec.Body()
	aggs = body["aggs"].(map[string]interface{})
	histogram = aggs["over_time"].(map[string]interface{})["date_histogram"].(map[string]interface{})
	assert.Equal(t, "week", histogram["calendar_interval"])
}

func TestStatsSpecBodyFiltersCombineWithAND(t *testing.T) {
	spec := &StatsSpec{
		TermsField: "level.keyword",
		TermFilters: map[string]interface{}{
			"service": "checkout",
			"env":     "prod",
		},
		RangeField: "@timestamp",
		RangeFrom:  "now-7d",
		RangeTo:    "now",
	}

	body := spec.Body()
	query := body["query"].(map[string]interface{})
	boolClause := query["bool"].(map[string]interface{})
	filters := boolClause["filter"].([]interface{})

	// Two term clauses (sorted by field) plus one range clause.
	require.Len(t, filters, 3)
	assert.Equal(t, map[string]interface{}{
		"term": map[string]interface{}{"env": "prod"},
	}, filters[0])
	assert.Equal(t, map[string]interface{}{
		"term": map[string]interface{}{"service": "checkout"},
	}, filters[1])
	assert.Equal(t, map[string]interface{}{
		"range": map[string]interface{}{"@timestamp": map[string]interface{}{
			"gte": "now-7d",
			"lte": "now",
		}},
	}, filters[2])
}

func TestStatsSpecBodyOpenEndedRange(t *testing.T) {
	spec := &StatsSpec{
		TermsField: "level.keyword",
		RangeField: "@timestamp",
		RangeFrom:  "now-1d",
	}

	body := spec.Body()
	filters := body["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
	require.Len(t, filters, 1)
	assert.Equal(t, map[string]interface{}{
		"range": map[string]interface{}{"@timestamp": map[string]interface{}{"gte": "now-1d"}},
	}, filters[0])
}

func TestStatsSpecHasAggregations(t *testing.T) {
	assert.False(t, (&StatsSpec{}).HasAggregations())
	assert.True(t, (&StatsSpec{TermsField: "f"}).HasAggregations())
	assert.True(t, (&StatsSpec{HistogramField: "f"}).HasAggregations())
}

func TestDocUpdateWrapsUnderDoc(t *testing.T) {
	payload, err := json.Marshal(&DocUpdate{Doc: map[string]interface{}{"level": "warn"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"doc":{"level":"warn"}}`, string(payload))
}
