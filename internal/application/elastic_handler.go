package application

import (
	"saasctl/internal/domain"
	"saasctl/internal/infrastructure"
)

// Action name constants for the search-cluster tool.
const (
	ElasticActionHealth  = "health"
	ElasticActionIndices = "indices"
	ElasticActionSearch  = "search"
	ElasticActionCount   = "count"
	ElasticActionStats   = "stats"
	ElasticActionGet     = "get"
	ElasticActionCreate  = "create"
	ElasticActionUpdate  = "update"
	ElasticActionDelete  = "delete"
)

// ElasticActions is the supported action set, in the order usage text lists
// them.
var ElasticActions = []string{
	ElasticActionHealth,
	ElasticActionIndices,
	ElasticActionSearch,
	ElasticActionCount,
	ElasticActionStats,
	ElasticActionGet,
	ElasticActionCreate,
	ElasticActionUpdate,
	ElasticActionDelete,
}

// ElasticHandler dispatches search-cluster actions to the ElasticClient.
type ElasticHandler struct {
	client *infrastructure.ElasticClient
}

// NewElasticHandler creates a new ElasticHandler instance.
func NewElasticHandler(client *infrastructure.ElasticClient) *ElasticHandler {
	return &ElasticHandler{client: client}
}

// elasticSearchParams are the parameters of the search action.
type elasticSearchParams struct {
	Query map[string]interface{} `param:"query"`
	Size  *int                   `param:"size"`
	From  *int                   `param:"from"`
}

// elasticCountParams are the parameters of the count action.
type elasticCountParams struct {
	Query map[string]interface{} `param:"query"`
}

// elasticStatsParams are the parameters of the stats action.
type elasticStatsParams struct {
	TermsField     string                 `param:"termsField"`
	HistogramField string                 `param:"histogramField"`
	Interval       string                 `param:"interval"`
	Filters        map[string]interface{} `param:"filters"`
	RangeField     string                 `param:"rangeField"`
	RangeFrom      string                 `param:"rangeFrom"`
	RangeTo        string                 `param:"rangeTo"`
}

// elasticDocumentParams are the parameters of the get, create, update and
// delete actions.
type elasticDocumentParams struct {
	ID       string                 `param:"id"`
	Document map[string]interface{} `param:"document"`
}

// Dispatch routes one action to the client. The index is the tool's primary
// key; cluster-scoped actions (health, indices) ignore it, every other
// action requires it. Parameter validation happens before any network call.
func (h *ElasticHandler) Dispatch(action, index string, params domain.ParamBag) (interface{}, error) {
	switch NormalizeAction(action) {
	case ElasticActionHealth:
		return h.client.Health()
	case ElasticActionIndices:
		return h.client.Indices()
	case ElasticActionSearch:
		return h.handleSearch(index, params)
	case ElasticActionCount:
		return h.handleCount(index, params)
	case ElasticActionStats:
		return h.handleStats(index, params)
	case ElasticActionGet:
		return h.handleGet(index, params)
	case ElasticActionCreate:
		return h.handleCreate(index, params)
	case ElasticActionUpdate:
		return h.handleUpdate(index, params)
	case ElasticActionDelete:
		return h.handleDelete(index, params)
	default:
		return nil, &domain.UnsupportedActionError{Action: action, Supported: ElasticActions}
	}
}

// handleSearch handles the search action.
func (h *ElasticHandler) handleSearch(index string, params domain.ParamBag) (interface{}, error) {
	if err := requireKey(ElasticActionSearch, index, "index"); err != nil {
		return nil, err
	}
	if err := coerceJSONObject(params, "query"); err != nil {
		return nil, err
	}

	var p elasticSearchParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}

	return h.client.Search(index, domain.NewSearchBody(p.Query, p.Size, p.From))
}

// handleCount handles the count action.
func (h *ElasticHandler) handleCount(index string, params domain.ParamBag) (interface{}, error) {
	if err := requireKey(ElasticActionCount, index, "index"); err != nil {
		return nil, err
	}
	if err := coerceJSONObject(params, "query"); err != nil {
		return nil, err
	}

	var p elasticCountParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}

	return h.client.Count(index, p.Query)
}

// handleStats handles the stats action.
func (h *ElasticHandler) handleStats(index string, params domain.ParamBag) (interface{}, error) {
	if err := requireKey(ElasticActionStats, index, "index"); err != nil {
		return nil, err
	}
	if err := coerceJSONObject(params, "filters"); err != nil {
		return nil, err
	}

	var p elasticStatsParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}

	spec := &domain.StatsSpec{
		TermsField:     p.TermsField,
		HistogramField: p.HistogramField,
		Interval:       p.Interval,
		TermFilters:    p.Filters,
		RangeField:     p.RangeField,
		RangeFrom:      p.RangeFrom,
		RangeTo:        p.RangeTo,
	}
	if !spec.HasAggregations() {
		return nil, &domain.MissingParameterError{Action: ElasticActionStats, Parameter: "termsField or histogramField"}
	}

	return h.client.Stats(index, spec)
}

// handleGet handles the get action.
func (h *ElasticHandler) handleGet(index string, params domain.ParamBag) (interface{}, error) {
	if err := requireKey(ElasticActionGet, index, "index"); err != nil {
		return nil, err
	}

	var p elasticDocumentParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, &domain.MissingParameterError{Action: ElasticActionGet, Parameter: "id"}
	}

	return h.client.GetDocument(index, p.ID)
}

// handleCreate handles the create action. An ID is optional: without one the
// cluster assigns it.
func (h *ElasticHandler) handleCreate(index string, params domain.ParamBag) (interface{}, error) {
	if err := requireKey(ElasticActionCreate, index, "index"); err != nil {
		return nil, err
	}
	if err := coerceJSONObject(params, "document"); err != nil {
		return nil, err
	}

	var p elasticDocumentParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}
	if p.Document == nil {
		return nil, &domain.MissingParameterError{Action: ElasticActionCreate, Parameter: "document"}
	}

	return h.client.CreateDocument(index, p.ID, p.Document)
}

// handleUpdate handles the update action.
func (h *ElasticHandler) handleUpdate(index string, params domain.ParamBag) (interface{}, error) {
	if err := requireKey(ElasticActionUpdate, index, "index"); err != nil {
		return nil, err
	}
	if err := coerceJSONObject(params, "document"); err != nil {
		return nil, err
	}

	var p elasticDocumentParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, &domain.MissingParameterError{Action: ElasticActionUpdate, Parameter: "id"}
	}
	if p.Document == nil {
		return nil, &domain.MissingParameterError{Action: ElasticActionUpdate, Parameter: "document"}
	}

	return h.client.UpdateDocument(index, p.ID, p.Document)
}

// handleDelete handles the delete action.
func (h *ElasticHandler) handleDelete(index string, params domain.ParamBag) (interface{}, error) {
	if err := requireKey(ElasticActionDelete, index, "index"); err != nil {
		return nil, err
	}

	var p elasticDocumentParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, &domain.MissingParameterError{Action: ElasticActionDelete, Parameter: "id"}
	}

	return h.client.DeleteDocument(index, p.ID)
}

// ElasticUsage is the search-cluster tool's self-documentation, printed on
// the no-action path and after an unrecognized action.
const ElasticUsage = `escli - search cluster command-line wrapper

Usage:
  escli [options] <action> [index]

Actions:
  health                     cluster health summary
  indices                    list indices
  search  <index>            search documents (params: query, size, from)
  count   <index>            count documents (params: query)
  stats   <index>            aggregated statistics (params: termsField,
                             histogramField, interval, filters, rangeField,
                             rangeFrom, rangeTo)
  get     <index>            fetch a document (params: id)
  create  <index>            index a document (params: document, id optional)
  update  <index>            partial-update a document (params: id, document)
  delete  <index>            delete a document (params: id)

Options:
  --param key=value          add one parameter (repeatable)
  --json '{...}'             parameters as a JSON object (wins on collision)
  --base-url URL             override the cluster base URL
  --config PATH              optional YAML configuration file

Environment:
  ES_USERNAME, ES_PASSWORD   basic-auth credentials (prompted when unset)

Examples:
  escli health
  escli search 'test-logs-*' --json '{"query":{"match_all":{}}}'
  escli stats app-logs --param termsField=level.keyword
  escli update app-logs --param id=42 --json '{"document":{"level":"warn"}}'
`
