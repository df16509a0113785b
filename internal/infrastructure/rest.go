package infrastructure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"saasctl/internal/domain"
)

// RESTClient issues authenticated JSON requests against one service's base
// URL. It holds no state across calls: each Call is a pure function of its
// arguments plus the base URL and the credentials carried by the HTTP
// client's transport.
type RESTClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRESTClient creates a REST client for a service.
// The baseURL is the root URL of the service (e.g., "https://jira.example.com").
// The httpClient should be an authenticated client from domain.NewAuthenticatedClient.
func NewRESTClient(baseURL string, httpClient *http.Client) *RESTClient {
	return &RESTClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// BaseURL returns the configured base URL for the service.
func (c *RESTClient) BaseURL() string {
	return c.baseURL
}

// Call executes one HTTP request and returns the raw response body.
// The endpoint is baseURL + path, with the query percent-encoded and
// appended when present. The body is serialized as JSON only when non-nil.
// A transport failure or a non-2xx status yields a *domain.APIError carrying
// the attempted URI, the status, and the raw response body when obtainable.
// A 204 response yields a nil body.
func (c *RESTClient) Call(method, path string, body interface{}, query url.Values) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint = endpoint + "?" + query.Encode()
	}

	// Serialize the body only when one is supplied
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	// Create the HTTP request
	req, err := http.NewRequest(method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set common headers
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	// Execute the request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.APIError{
			Message: err.Error(),
			URI:     endpoint,
		}
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(resp.Body)

	// Check for error status codes
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.APIError{
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
			URI:        endpoint,
			RawBody:    string(raw),
		}
	}

	if readErr != nil {
		return nil, fmt.Errorf("failed to read response body: %w", readErr)
	}

	if resp.StatusCode == http.StatusNoContent || len(raw) == 0 {
		return nil, nil
	}

	return json.RawMessage(raw), nil
}

// CallJSON executes a request via Call and decodes the response body into
// target. A nil response body leaves target untouched.
func (c *RESTClient) CallJSON(method, path string, body interface{}, query url.Values, target interface{}) error {
	raw, err := c.Call(method, path, body, query)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
