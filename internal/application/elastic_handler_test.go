package application

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saasctl/internal/domain"
	"saasctl/internal/infrastructure"
)

// capturedCall records one request a handler test server received.
type capturedCall struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// handlerServer runs a test server that records every request and replies
// 200 with the given body.
func handlerServer(body string) (*httptest.Server, *[]capturedCall) {
	var calls []capturedCall
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, _ := io.ReadAll(r.Body)
		calls = append(calls, capturedCall{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   payload,
		})
		w.Write([]byte(body))
	}))
	return server, &calls
}

func newElasticHandler(serverURL string) *ElasticHandler {
	return NewElasticHandler(infrastructure.NewElasticClient(serverURL, http.DefaultClient))
}

func TestElasticDispatchSearchAppliesDefaults(t *testing.T) {
	server, calls := handlerServer(`{"hits":{"hits":[]}}`)
	defer server.Close()

	handler := newElasticHandler(server.URL)
	params := domain.ParamBag{"query": map[string]interface{}{"match_all": map[string]interface{}{}}}
	_, err := handler.Dispatch("search", "test-logs-*", params)
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "POST", call.Method)
	assert.Equal(t, "/test-logs-*/_search", call.Path)
	assert.JSONEq(t, `{"query":{"match_all":{}},"size":100,"from":0}`, string(call.Body))
}

func TestElasticDispatchSearchExplicitPagination(t *testing.T) {
	server, calls := handlerServer(`{"hits":{"hits":[]}}`)
	defer server.Close()

	handler := newElasticHandler(server.URL)
	// Values arrive as strings when supplied via key=value flags.
	params := domain.ParamBag{"size": "5", "from": "20"}
	_, err := handler.Dispatch("search", "app-logs", params)
	require.NoError(t, err)

	assert.JSONEq(t, `{"query":{"match_all":{}},"size":5,"from":20}`, string((*calls)[0].Body))
}

func TestElasticDispatchActionIsCaseInsensitive(t *testing.T) {
	server, calls := handlerServer(`{"status":"green"}`)
	defer server.Close()

	handler := newElasticHandler(server.URL)
	_, err := handler.Dispatch("HEALTH", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "/_cluster/health", (*calls)[0].Path)
}

func TestElasticDispatchMissingIndexMakesNoCall(t *testing.T) {
	server, calls := handlerServer(`{}`)
	defer server.Close()

	handler := newElasticHandler(server.URL)
	for _, action := range []string{"search", "count", "stats", "get", "create", "update", "delete"} {
		_, err := handler.Dispatch(action, "", domain.ParamBag{})

		var missing *domain.MissingParameterError
		require.ErrorAs(t, err, &missing, action)
		assert.Equal(t, "index", missing.Parameter, action)
	}

	assert.Empty(t, *calls)
}

func TestElasticDispatchUnsupportedAction(t *testing.T) {
	server, calls := handlerServer(`{}`)
	defer server.Close()

	handler := newElasticHandler(server.URL)
	_, err := handler.Dispatch("reindex", "app-logs", nil)

	var unsupported *domain.UnsupportedActionError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, ElasticActions, unsupported.Supported)
	assert.Empty(t, *calls)
}

func TestElasticDispatchStatsRequiresAggregation(t *testing.T) {
	server, calls := handlerServer(`{}`)
	defer server.Close()

	handler := newElasticHandler(server.URL)
	_, err := handler.Dispatch("stats", "app-logs", domain.ParamBag{})

	var missing *domain.MissingParameterError
	require.ErrorAs(t, err, &missing)
	assert.Empty(t, *calls)
}

func TestElasticDispatchStatsBuildsFilteredAggregation(t *testing.T) {
	server, calls := handlerServer(`{"aggregations":{}}`)
	defer server.Close()

	handler := newElasticHandler(server.URL)
	params := domain.ParamBag{
		"termsField": "level.keyword",
		"filters":    `{"service":"checkout"}`,
	}
	_, err := handler.Dispatch("stats", "app-logs", params)
	require.NoError(t, err)

	expected := `{
		"size": 0,
		"aggs": {"by_term": {"terms": {"field": "level.keyword"}}},
		"query": {"bool": {"filter": [{"term": {"service": "checkout"}}]}}
	}`
	assert.JSONEq(t, expected, string((*calls)[0].Body))
}

func TestElasticDispatchUpdateRequiresIDAndDocument(t *testing.T) {
	server, calls := handlerServer(`{}`)
	defer server.Close()

	handler := newElasticHandler(server.URL)

	_, err := handler.Dispatch("update", "app-logs", domain.ParamBag{"document": map[string]interface{}{"a": 1}})
	var missing *domain.MissingParameterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "id", missing.Parameter)

	_, err = handler.Dispatch("update", "app-logs", domain.ParamBag{"id": "42"})
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "document", missing.Parameter)

	assert.Empty(t, *calls)
}

func TestElasticDispatchUpdateWrapsDocument(t *testing.T) {
	server, calls := handlerServer(`{"result":"updated"}`)
	defer server.Close()

	handler := newElasticHandler(server.URL)
	params := domain.ParamBag{
		"id":       "42",
		"document": map[string]interface{}{"level": "warn"},
	}
	_, err := handler.Dispatch("update", "app-logs", params)
	require.NoError(t, err)

	call := (*calls)[0]
	assert.Equal(t, "/app-logs/_update/42", call.Path)
	assert.JSONEq(t, `{"doc":{"level":"warn"}}`, string(call.Body))
}
