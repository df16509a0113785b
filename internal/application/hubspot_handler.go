package application

import (
	"encoding/json"

	"github.com/pkg/errors"

	"saasctl/internal/domain"
	"saasctl/internal/infrastructure"
)

// Action name constants for the CRM tool.
const (
	HubSpotActionGet    = "get"
	HubSpotActionList   = "list"
	HubSpotActionSearch = "search"
	HubSpotActionCreate = "create"
	HubSpotActionUpdate = "update"
	HubSpotActionDelete = "delete"
)

// HubSpotActions is the supported action set, in the order usage text lists
// them.
var HubSpotActions = []string{
	HubSpotActionGet,
	HubSpotActionList,
	HubSpotActionSearch,
	HubSpotActionCreate,
	HubSpotActionUpdate,
	HubSpotActionDelete,
}

// HubSpotHandler dispatches CRM actions to the HubSpotClient. Dispatch is
// two-level: the action name, then the object type, each validated
// independently.
type HubSpotHandler struct {
	client *infrastructure.HubSpotClient
}

// NewHubSpotHandler creates a new HubSpotHandler instance.
func NewHubSpotHandler(client *infrastructure.HubSpotClient) *HubSpotHandler {
	return &HubSpotHandler{client: client}
}

// hubspotGetParams are the parameters of the get action. Email and Domain
// are the alternate keys of contacts and companies.
type hubspotGetParams struct {
	ID     string `param:"Id"`
	Email  string `param:"email"`
	Domain string `param:"domain"`
}

// hubspotListParams are the parameters of the list action.
type hubspotListParams struct {
	Limit *int `param:"limit"`
}

// hubspotSearchParams are the parameters of the search action.
type hubspotSearchParams struct {
	Query string `param:"query"`
	Limit *int   `param:"limit"`
	After *int   `param:"after"`
}

// hubspotPropertiesParams are the parameters of the create and update
// actions.
type hubspotPropertiesParams struct {
	ID         string                 `param:"Id"`
	Properties map[string]interface{} `param:"Properties"`
}

// Dispatch routes one action to the client. The objectType names the CRM
// object type ("contact", "company", "deal"); it is validated after the
// action, with its own unsupported-type error. Parameter validation happens
// before any network call.
func (h *HubSpotHandler) Dispatch(action, objectType string, params domain.ParamBag) (interface{}, error) {
	normalized := NormalizeAction(action)
	if !IsSupported(HubSpotActions, normalized) {
		return nil, &domain.UnsupportedActionError{Action: action, Supported: HubSpotActions}
	}

	resolved, err := domain.ResolveObjectType(objectType)
	if err != nil {
		return nil, err
	}

	switch normalized {
	case HubSpotActionGet:
		return h.handleGet(resolved, params)
	case HubSpotActionList:
		return h.handleList(resolved, params)
	case HubSpotActionSearch:
		return h.handleSearch(resolved, params)
	case HubSpotActionCreate:
		return h.handleCreate(resolved, params)
	case HubSpotActionUpdate:
		return h.handleUpdate(resolved, params)
	case HubSpotActionDelete:
		return h.handleDelete(resolved, params)
	default:
		return nil, &domain.UnsupportedActionError{Action: action, Supported: HubSpotActions}
	}
}

// handleGet handles the get action: by record ID when present, else by the
// type's alternate key. Neither is a reported error with zero network calls.
func (h *HubSpotHandler) handleGet(objectType domain.ObjectType, params domain.ParamBag) (interface{}, error) {
	var p hubspotGetParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}

	if p.ID != "" {
		return h.client.GetObject(objectType, p.ID)
	}

	alternate := ""
	switch objectType.AlternateKey {
	case "email":
		alternate = p.Email
	case "domain":
		alternate = p.Domain
	}
	if alternate != "" {
		return h.client.GetObjectByAlternateKey(objectType, alternate)
	}

	parameter := "Id"
	if objectType.AlternateKey != "" {
		parameter = "Id or " + objectType.AlternateKey
	}
	return nil, &domain.MissingParameterError{Action: HubSpotActionGet, Parameter: parameter}
}

// handleList handles the list action. Deal pages pass through
// synthetic-record filtering.
func (h *HubSpotHandler) handleList(objectType domain.ObjectType, params domain.ParamBag) (interface{}, error) {
	var p hubspotListParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}

	limit := domain.HubSpotDefaultLimit
	if p.Limit != nil {
		limit = *p.Limit
	}

	raw, err := h.client.ListObjects(objectType, limit)
	if err != nil {
		return nil, err
	}

	return h.filterIfSynthetic(objectType, raw)
}

// handleSearch handles the search action. Deal pages pass through
// synthetic-record filtering.
func (h *HubSpotHandler) handleSearch(objectType domain.ObjectType, params domain.ParamBag) (interface{}, error) {
	var p hubspotSearchParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}

	raw, err := h.client.SearchObjects(objectType, domain.NewCRMSearchBody(p.Query, p.Limit, p.After))
	if err != nil {
		return nil, err
	}

	return h.filterIfSynthetic(objectType, raw)
}

// handleCreate handles the create action.
func (h *HubSpotHandler) handleCreate(objectType domain.ObjectType, params domain.ParamBag) (interface{}, error) {
	if err := coerceJSONObject(params, "Properties"); err != nil {
		return nil, err
	}

	var p hubspotPropertiesParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}
	if p.Properties == nil {
		return nil, &domain.MissingParameterError{Action: HubSpotActionCreate, Parameter: "Properties"}
	}

	return h.client.CreateObject(objectType, p.Properties)
}

// handleUpdate handles the update action.
func (h *HubSpotHandler) handleUpdate(objectType domain.ObjectType, params domain.ParamBag) (interface{}, error) {
	if err := coerceJSONObject(params, "Properties"); err != nil {
		return nil, err
	}

	var p hubspotPropertiesParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, &domain.MissingParameterError{Action: HubSpotActionUpdate, Parameter: "Id"}
	}
	if p.Properties == nil {
		return nil, &domain.MissingParameterError{Action: HubSpotActionUpdate, Parameter: "Properties"}
	}

	return h.client.UpdateObject(objectType, p.ID, p.Properties)
}

// handleDelete handles the delete action.
func (h *HubSpotHandler) handleDelete(objectType domain.ObjectType, params domain.ParamBag) (interface{}, error) {
	var p hubspotGetParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, &domain.MissingParameterError{Action: HubSpotActionDelete, Parameter: "Id"}
	}

	return h.client.DeleteObject(objectType, p.ID)
}

// filterIfSynthetic applies synthetic-record filtering to list/search pages
// of object types that need it; everything else passes through verbatim.
func (h *HubSpotHandler) filterIfSynthetic(objectType domain.ObjectType, raw json.RawMessage) (interface{}, error) {
	if !objectType.Synthetic {
		return raw, nil
	}

	var page domain.CRMPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, errors.Wrap(err, "decoding result page")
	}

	return domain.FilterSyntheticRecords(&page), nil
}

// HubSpotUsage is the CRM tool's self-documentation, printed on the
// no-action path and after an unrecognized action.
const HubSpotUsage = `hubspotcli - CRM command-line wrapper

Usage:
  hubspotcli [options] <action> <object-type>

Object types:
  contact   company   deal

Actions:
  get                        fetch a record (params: Id, or email for
                             contacts / domain for companies)
  list                       list records (params: limit)
  search                     search records (params: query, limit, after)
  create                     create a record (params: Properties)
  update                     update a record (params: Id, Properties)
  delete                     delete a record (params: Id)

Deal listings exclude auto-generated tenant deals; the filtered count and
the service-reported total are both returned.

Options:
  --param key=value          add one parameter (repeatable)
  --json '{...}'             parameters as a JSON object (wins on collision)
  --base-url URL             override the CRM base URL
  --config PATH              optional YAML configuration file

Environment:
  HUBSPOT_TOKEN              bearer token (prompted when unset)

Examples:
  hubspotcli get contact --param email=jane@example.com
  hubspotcli list deal --param limit=25
  hubspotcli update deal --param Id=123456 --json '{"Properties":{"dealstage":"decisionmakerboughtin"}}'
`
