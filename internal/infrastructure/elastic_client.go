package infrastructure

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"saasctl/internal/domain"
)

// ElasticClient handles search-cluster API interactions. It provides one
// method per supported action; responses pass through unmodified as raw
// JSON.
type ElasticClient struct {
	rest *RESTClient
}

// NewElasticClient creates a new search-cluster API client.
// The baseURL should be the root URL of the cluster (e.g., "https://es.example.com:9200").
// The httpClient should be an authenticated client from domain.NewAuthenticatedClient.
func NewElasticClient(baseURL string, httpClient *http.Client) *ElasticClient {
	return &ElasticClient{
		rest: NewRESTClient(baseURL, httpClient),
	}
}

// BaseURL returns the configured base URL for the cluster.
func (c *ElasticClient) BaseURL() string {
	return c.rest.BaseURL()
}

// Health retrieves the cluster health summary.
func (c *ElasticClient) Health() (json.RawMessage, error) {
	return c.rest.Call("GET", "/_cluster/health", nil, nil)
}

// Indices lists the cluster's indices.
func (c *ElasticClient) Indices() (json.RawMessage, error) {
	query := url.Values{}
	query.Set("format", "json")
	return c.rest.Call("GET", "/_cat/indices", nil, query)
}

// Search runs a document search against an index. The body carries the
// query DSL plus size and offset; see domain.NewSearchBody for defaults.
func (c *ElasticClient) Search(index string, body *domain.SearchBody) (json.RawMessage, error) {
	return c.rest.Call("POST", fmt.Sprintf("/%s/_search", index), body, nil)
}

// Count counts the documents matching a query. A nil query counts every
// document in the index.
func (c *ElasticClient) Count(index string, query map[string]interface{}) (json.RawMessage, error) {
	if query == nil {
		query = map[string]interface{}{"match_all": map[string]interface{}{}}
	}
	return c.rest.Call("POST", fmt.Sprintf("/%s/_count", index), &domain.CountBody{Query: query}, nil)
}

// Stats runs a zero-hit aggregation search and returns the response, whose
// aggregation buckets pass through verbatim.
func (c *ElasticClient) Stats(index string, spec *domain.StatsSpec) (json.RawMessage, error) {
	return c.rest.Call("POST", fmt.Sprintf("/%s/_search", index), spec.Body(), nil)
}

// GetDocument retrieves one document by ID.
func (c *ElasticClient) GetDocument(index, id string) (json.RawMessage, error) {
	return c.rest.Call("GET", fmt.Sprintf("/%s/_doc/%s", index, id), nil, nil)
}

// CreateDocument indexes a new document. With an explicit ID the document is
// stored under it; without one the cluster assigns an ID. The document
// mapping is the body itself, unwrapped.
func (c *ElasticClient) CreateDocument(index, id string, doc map[string]interface{}) (json.RawMessage, error) {
	if id != "" {
		return c.rest.Call("PUT", fmt.Sprintf("/%s/_doc/%s", index, id), doc, nil)
	}
	return c.rest.Call("POST", fmt.Sprintf("/%s/_doc", index), doc, nil)
}

// UpdateDocument applies a partial update to a document. The mapping is
// wrapped under the "doc" key as the update endpoint requires.
func (c *ElasticClient) UpdateDocument(index, id string, doc map[string]interface{}) (json.RawMessage, error) {
	return c.rest.Call("POST", fmt.Sprintf("/%s/_update/%s", index, id), &domain.DocUpdate{Doc: doc}, nil)
}

// DeleteDocument deletes one document by ID.
func (c *ElasticClient) DeleteDocument(index, id string) (json.RawMessage, error) {
	return c.rest.Call("DELETE", fmt.Sprintf("/%s/_doc/%s", index, id), nil, nil)
}
