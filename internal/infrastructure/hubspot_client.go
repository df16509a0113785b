package infrastructure

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"saasctl/internal/domain"
)

// HubSpotClient handles CRM API interactions against the v3 objects API.
// Every method takes the object type resolved by the dispatcher, so the
// client itself never validates type names.
type HubSpotClient struct {
	rest *RESTClient
}

// NewHubSpotClient creates a new CRM API client.
// The httpClient should be a token-authenticated client from domain.NewAuthenticatedClient.
func NewHubSpotClient(baseURL string, httpClient *http.Client) *HubSpotClient {
	return &HubSpotClient{
		rest: NewRESTClient(baseURL, httpClient),
	}
}

// BaseURL returns the configured base URL for the CRM.
func (c *HubSpotClient) BaseURL() string {
	return c.rest.BaseURL()
}

// GetObject retrieves one object by its record ID.
func (c *HubSpotClient) GetObject(objectType domain.ObjectType, id string) (json.RawMessage, error) {
	return c.rest.Call("GET", fmt.Sprintf("/crm/v3/objects/%s/%s", objectType.Path, id), nil, nil)
}

// GetObjectByAlternateKey retrieves one object by the type's alternate key
// (e.g., a contact by email) using the idProperty query parameter.
func (c *HubSpotClient) GetObjectByAlternateKey(objectType domain.ObjectType, keyValue string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("idProperty", objectType.AlternateKey)
	return c.rest.Call("GET", fmt.Sprintf("/crm/v3/objects/%s/%s", objectType.Path, url.PathEscape(keyValue)), nil, query)
}

// ListObjects retrieves one page of objects.
func (c *HubSpotClient) ListObjects(objectType domain.ObjectType, limit int) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	return c.rest.Call("GET", fmt.Sprintf("/crm/v3/objects/%s", objectType.Path), nil, query)
}

// SearchObjects runs an object search.
func (c *HubSpotClient) SearchObjects(objectType domain.ObjectType, body *domain.CRMSearchBody) (json.RawMessage, error) {
	return c.rest.Call("POST", fmt.Sprintf("/crm/v3/objects/%s/search", objectType.Path), body, nil)
}

// CreateObject creates a new object. The property mapping is wrapped under
// the "properties" key as the API requires.
func (c *HubSpotClient) CreateObject(objectType domain.ObjectType, properties map[string]interface{}) (json.RawMessage, error) {
	return c.rest.Call("POST", fmt.Sprintf("/crm/v3/objects/%s", objectType.Path), &domain.PropertiesEnvelope{Properties: properties}, nil)
}

// UpdateObject applies a partial update to an object. The property mapping
// is wrapped under the "properties" key.
func (c *HubSpotClient) UpdateObject(objectType domain.ObjectType, id string, properties map[string]interface{}) (json.RawMessage, error) {
	return c.rest.Call("PATCH", fmt.Sprintf("/crm/v3/objects/%s/%s", objectType.Path, id), &domain.PropertiesEnvelope{Properties: properties}, nil)
}

// DeleteObject deletes one object by its record ID.
func (c *HubSpotClient) DeleteObject(objectType domain.ObjectType, id string) (json.RawMessage, error) {
	return c.rest.Call("DELETE", fmt.Sprintf("/crm/v3/objects/%s/%s", objectType.Path, id), nil, nil)
}
