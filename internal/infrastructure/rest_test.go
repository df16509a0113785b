package infrastructure

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saasctl/internal/domain"
)

// mockAuthTransport is a test transport that adds a mock Authorization header.
type mockAuthTransport struct {
	base http.RoundTripper
}

func (t *mockAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request and add auth header
	clonedReq := req.Clone(req.Context())
	clonedReq.Header.Set("Authorization", "Bearer test-token")
	return t.base.RoundTrip(clonedReq)
}

// authenticatedTestClient returns an HTTP client with mock authentication.
func authenticatedTestClient() *http.Client {
	return &http.Client{
		Transport: &mockAuthTransport{base: http.DefaultTransport},
	}
}

// capturedRequest records what the server saw for one request.
type capturedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// recordingServer runs a test server that records every request and replies
// with the given status and body.
func recordingServer(status int, body string) (*httptest.Server, *[]capturedRequest) {
	var captured []capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, _ := io.ReadAll(r.Body)
		captured = append(captured, capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   payload,
		})
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	return server, &captured
}

func TestCallSetsJSONHeaders(t *testing.T) {
	server, captured := recordingServer(http.StatusOK, `{"ok":true}`)
	defer server.Close()

	client := NewRESTClient(server.URL, authenticatedTestClient())
	raw, err := client.Call("GET", "/things", nil, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Equal(t, "Bearer test-token", req.Header.Get("Authorization"))
}

func TestCallOmitsBodyWhenNil(t *testing.T) {
	server, captured := recordingServer(http.StatusOK, `{}`)
	defer server.Close()

	client := NewRESTClient(server.URL, authenticatedTestClient())
	_, err := client.Call("GET", "/things", nil, nil)
	require.NoError(t, err)

	assert.Empty(t, (*captured)[0].Body)
}

func TestCallSerializesBody(t *testing.T) {
	server, captured := recordingServer(http.StatusOK, `{}`)
	defer server.Close()

	client := NewRESTClient(server.URL, authenticatedTestClient())
	body := map[string]interface{}{"fields": map[string]interface{}{"summary": "s"}}
	_, err := client.Call("POST", "/things", body, nil)
	require.NoError(t, err)

	assert.JSONEq(t, `{"fields":{"summary":"s"}}`, string((*captured)[0].Body))
}

func TestCallSerializesDeeplyNestedBody(t *testing.T) {
	server, captured := recordingServer(http.StatusOK, `{}`)
	defer server.Close()

	// Ten levels of nesting must survive serialization intact.
	innermost := map[string]interface{}{"leaf": true}
	body := innermost
	for i := 0; i < 10; i++ {
		body = map[string]interface{}{"level": body}
	}

	client := NewRESTClient(server.URL, authenticatedTestClient())
	_, err := client.Call("POST", "/things", body, nil)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal((*captured)[0].Body, &decoded))
	for i := 0; i < 10; i++ {
		decoded = decoded["level"].(map[string]interface{})
	}
	assert.Equal(t, true, decoded["leaf"])
}

func TestCallPercentEncodesQuery(t *testing.T) {
	server, captured := recordingServer(http.StatusOK, `{}`)
	defer server.Close()

	client := NewRESTClient(server.URL, authenticatedTestClient())
	query := url.Values{"jql": {"project = MS AND status = Open"}}
	_, err := client.Call("GET", "/search", nil, query)
	require.NoError(t, err)

	assert.Equal(t, "jql=project+%3D+MS+AND+status+%3D+Open", (*captured)[0].Query)
}

func TestCallReturnsAPIErrorOnFailureStatus(t *testing.T) {
	server, _ := recordingServer(http.StatusNotFound, `{"errorMessages":["Issue Does Not Exist"]}`)
	defer server.Close()

	client := NewRESTClient(server.URL, authenticatedTestClient())
	_, err := client.Call("GET", "/missing", nil, nil)
	require.Error(t, err)

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, server.URL+"/missing", apiErr.URI)
	assert.Contains(t, apiErr.RawBody, "Issue Does Not Exist")
}

func TestCallReturnsAPIErrorOnTransportFailure(t *testing.T) {
	server, _ := recordingServer(http.StatusOK, `{}`)
	server.Close() // refuse connections

	client := NewRESTClient(server.URL, authenticatedTestClient())
	_, err := client.Call("GET", "/things", nil, nil)
	require.Error(t, err)

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.StatusCode)
	assert.Equal(t, server.URL+"/things", apiErr.URI)
}

func TestCallNoContentYieldsNilBody(t *testing.T) {
	server, _ := recordingServer(http.StatusNoContent, "")
	defer server.Close()

	client := NewRESTClient(server.URL, authenticatedTestClient())
	raw, err := client.Call("PUT", "/things/1", map[string]interface{}{"a": 1}, nil)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestCallJSONDecodesIntoTarget(t *testing.T) {
	server, _ := recordingServer(http.StatusOK, `{"name":"Done","id":31}`)
	defer server.Close()

	client := NewRESTClient(server.URL, authenticatedTestClient())
	var target struct {
		Name string `json:"name"`
		ID   int    `json:"id"`
	}
	require.NoError(t, client.CallJSON("GET", "/thing", nil, nil, &target))
	assert.Equal(t, "Done", target.Name)
	assert.Equal(t, 31, target.ID)
}
