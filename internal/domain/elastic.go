package domain

import "sort"

// Search pagination defaults for the search cluster.
const (
	ElasticDefaultSize = 100
	ElasticDefaultFrom = 0
)

// SearchBody is the request body for a document search. Query is the full
// query DSL object; a nil query is replaced with match_all.
type SearchBody struct {
	Query map[string]interface{} `json:"query"`
	Size  int                    `json:"size"`
	From  int                    `json:"from"`
}

// NewSearchBody builds a search body applying the documented defaults:
// size 100 and offset 0 when the caller supplies neither, match_all when no
// query is given. Explicit values override the defaults exactly.
func NewSearchBody(query map[string]interface{}, size, from *int) *SearchBody {
	body := &SearchBody{
		Query: query,
		Size:  ElasticDefaultSize,
		From:  ElasticDefaultFrom,
	}
	if body.Query == nil {
		body.Query = map[string]interface{}{"match_all": map[string]interface{}{}}
	}
	if size != nil {
		body.Size = *size
	}
	if from != nil {
		body.From = *from
	}
	return body
}

// CountBody is the request body for a document count.
type CountBody struct {
	Query map[string]interface{} `json:"query"`
}

// DocUpdate wraps a partial-document update under the "doc" key, which is
// the shape the update endpoint requires.
type DocUpdate struct {
	Doc map[string]interface{} `json:"doc"`
}

// StatsSpec describes a zero-hit aggregation search: one or both bucketed
// aggregations (terms on a keyword field, calendar-interval date histogram)
// plus optional term and range filters combined with logical AND.
type StatsSpec struct {
	// TermsField buckets on a keyword field when non-empty.
	TermsField string
	// HistogramField buckets on a date field when non-empty.
	HistogramField string
	// Interval is the calendar interval for the date histogram ("day" when
	// empty).
	Interval string
	// TermFilters restricts the aggregated documents to exact field values.
	TermFilters map[string]interface{}
	// RangeField, RangeFrom and RangeTo restrict to a field range; RangeFrom
	// and RangeTo are each optional, applied as gte/lte.
	RangeField string
	RangeFrom  string
	RangeTo    string
}

// Body builds the aggregation search request body: size zero so no hits
// are returned, the requested aggregations, and any filters ANDed under a
// bool filter clause.
func (s *StatsSpec) Body() map[string]interface{} {
	aggs := make(map[string]interface{})
	if s.TermsField != "" {
		aggs["by_term"] = map[string]interface{}{
			"terms": map[string]interface{}{"field": s.TermsField},
		}
	}
	if s.HistogramField != "" {
		interval := s.Interval
		if interval == "" {
			interval = "day"
		}
		aggs["over_time"] = map[string]interface{}{
			"date_histogram": map[string]interface{}{
				"field":             s.HistogramField,
				"calendar_interval": interval,
			},
		}
	}

	body := map[string]interface{}{
		"size": 0,
		"aggs": aggs,
	}

	if filters := s.filters(); len(filters) > 0 {
		body["query"] = map[string]interface{}{
			"bool": map[string]interface{}{"filter": filters},
		}
	}

	return body
}

// filters builds the list of filter clauses, one per term filter plus an
// optional range clause. All clauses AND together under bool.filter. Term
// clauses are emitted in sorted field order so the body is deterministic.
func (s *StatsSpec) filters() []interface{} {
	var filters []interface{}

	fields := make([]string, 0, len(s.TermFilters))
	for field := range s.TermFilters {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{field: s.TermFilters[field]},
		})
	}

	if s.RangeField != "" && (s.RangeFrom != "" || s.RangeTo != "") {
		bounds := make(map[string]interface{})
		if s.RangeFrom != "" {
			bounds["gte"] = s.RangeFrom
		}
		if s.RangeTo != "" {
			bounds["lte"] = s.RangeTo
		}
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{s.RangeField: bounds},
		})
	}

	return filters
}

// HasAggregations reports whether at least one bucketed aggregation was
// requested. A stats call without any aggregation is a usage error.
func (s *StatsSpec) HasAggregations() bool {
	return s.TermsField != "" || s.HistogramField != ""
}
