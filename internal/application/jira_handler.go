package application

import (
	"saasctl/internal/domain"
	"saasctl/internal/infrastructure"
)

// Action name constants for the issue-tracker tool.
const (
	JiraActionGet         = "get"
	JiraActionHistory     = "history"
	JiraActionSearch      = "search"
	JiraActionCreate      = "create"
	JiraActionUpdate      = "update"
	JiraActionComment     = "comment"
	JiraActionTransitions = "transitions"
	JiraActionTransition  = "transition"
)

// JiraActions is the supported action set, in the order usage text lists
// them.
var JiraActions = []string{
	JiraActionGet,
	JiraActionHistory,
	JiraActionSearch,
	JiraActionCreate,
	JiraActionUpdate,
	JiraActionComment,
	JiraActionTransitions,
	JiraActionTransition,
}

// JiraHandler dispatches issue-tracker actions to the JiraClient.
type JiraHandler struct {
	client *infrastructure.JiraClient
}

// NewJiraHandler creates a new JiraHandler instance.
func NewJiraHandler(client *infrastructure.JiraClient) *JiraHandler {
	return &JiraHandler{client: client}
}

// jiraSearchParams are the parameters of the search action.
type jiraSearchParams struct {
	JQL        string `param:"jql"`
	MaxResults *int   `param:"maxResults"`
	StartAt    *int   `param:"startAt"`
}

// jiraFieldsParams are the parameters of the create and update actions.
type jiraFieldsParams struct {
	Fields map[string]interface{} `param:"fields"`
}

// jiraCommentParams are the parameters of the comment action.
type jiraCommentParams struct {
	Body string `param:"body"`
}

// jiraTransitionParams are the parameters of the transition action.
type jiraTransitionParams struct {
	Name string `param:"name"`
}

// Dispatch routes one action to the client. The key is the issue key;
// search and create work without one, every other action requires it.
// Parameter validation happens before any network call.
func (h *JiraHandler) Dispatch(action, key string, params domain.ParamBag) (interface{}, error) {
	switch NormalizeAction(action) {
	case JiraActionGet:
		if err := requireKey(JiraActionGet, key, "issue key"); err != nil {
			return nil, err
		}
		return h.client.GetIssue(key)
	case JiraActionHistory:
		return h.handleHistory(key)
	case JiraActionSearch:
		return h.handleSearch(params)
	case JiraActionCreate:
		return h.handleCreate(params)
	case JiraActionUpdate:
		return h.handleUpdate(key, params)
	case JiraActionComment:
		return h.handleComment(key, params)
	case JiraActionTransitions:
		if err := requireKey(JiraActionTransitions, key, "issue key"); err != nil {
			return nil, err
		}
		return h.client.GetTransitions(key)
	case JiraActionTransition:
		return h.handleTransition(key, params)
	default:
		return nil, &domain.UnsupportedActionError{Action: action, Supported: JiraActions}
	}
}

// handleHistory handles the history action: fetch the issue with its
// changelog expanded and derive the status-transition view.
func (h *JiraHandler) handleHistory(key string) (interface{}, error) {
	if err := requireKey(JiraActionHistory, key, "issue key"); err != nil {
		return nil, err
	}

	issue, err := h.client.GetIssueWithChangelog(key)
	if err != nil {
		return nil, err
	}

	return domain.ExtractStatusTransitions(issue), nil
}

// handleSearch handles the search action.
func (h *JiraHandler) handleSearch(params domain.ParamBag) (interface{}, error) {
	var p jiraSearchParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}
	if p.JQL == "" {
		return nil, &domain.MissingParameterError{Action: JiraActionSearch, Parameter: "jql"}
	}

	maxResults := domain.JiraDefaultMaxResults
	if p.MaxResults != nil {
		maxResults = *p.MaxResults
	}
	startAt := domain.JiraDefaultStartAt
	if p.StartAt != nil {
		startAt = *p.StartAt
	}

	return h.client.Search(p.JQL, maxResults, startAt)
}

// handleCreate handles the create action.
func (h *JiraHandler) handleCreate(params domain.ParamBag) (interface{}, error) {
	if err := coerceJSONObject(params, "fields"); err != nil {
		return nil, err
	}

	var p jiraFieldsParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}
	if p.Fields == nil {
		return nil, &domain.MissingParameterError{Action: JiraActionCreate, Parameter: "fields"}
	}

	return h.client.CreateIssue(p.Fields)
}

// handleUpdate handles the update action.
func (h *JiraHandler) handleUpdate(key string, params domain.ParamBag) (interface{}, error) {
	if err := requireKey(JiraActionUpdate, key, "issue key"); err != nil {
		return nil, err
	}
	if err := coerceJSONObject(params, "fields"); err != nil {
		return nil, err
	}

	var p jiraFieldsParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}
	if p.Fields == nil {
		return nil, &domain.MissingParameterError{Action: JiraActionUpdate, Parameter: "fields"}
	}

	return h.client.UpdateIssue(key, p.Fields)
}

// handleComment handles the comment action.
func (h *JiraHandler) handleComment(key string, params domain.ParamBag) (interface{}, error) {
	if err := requireKey(JiraActionComment, key, "issue key"); err != nil {
		return nil, err
	}

	var p jiraCommentParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}
	if p.Body == "" {
		return nil, &domain.MissingParameterError{Action: JiraActionComment, Parameter: "body"}
	}

	return h.client.AddComment(key, p.Body)
}

// handleTransition handles the transition action. The client resolves the
// requested display name against the legal transitions and submits the
// match; an unknown name errors with the legal list and submits nothing.
func (h *JiraHandler) handleTransition(key string, params domain.ParamBag) (interface{}, error) {
	if err := requireKey(JiraActionTransition, key, "issue key"); err != nil {
		return nil, err
	}

	var p jiraTransitionParams
	if err := params.Decode(&p); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, &domain.MissingParameterError{Action: JiraActionTransition, Parameter: "name"}
	}

	if err := h.client.TransitionIssue(key, p.Name); err != nil {
		return nil, err
	}

	return map[string]interface{}{"key": key, "transition": p.Name, "status": "ok"}, nil
}

// JiraUsage is the issue-tracker tool's self-documentation, printed on the
// no-action path and after an unrecognized action.
const JiraUsage = `jiracli - issue tracker command-line wrapper

Usage:
  jiracli [options] <action> [issue-key]

Actions:
  get         <key>          fetch an issue
  history     <key>          status-transition history derived from the
                             issue changelog
  search                     JQL search (params: jql, maxResults, startAt)
  create                     create an issue (params: fields)
  update      <key>          update issue fields (params: fields)
  comment     <key>          add a comment (params: body)
  transitions <key>          list legal workflow transitions
  transition  <key>          perform a workflow transition (params: name,
                             matched case-sensitively against legal names)

Options:
  --param key=value          add one parameter (repeatable)
  --json '{...}'             parameters as a JSON object (wins on collision)
  --base-url URL             override the tracker base URL
  --config PATH              optional YAML configuration file

Environment:
  JIRA_USERNAME, JIRA_PASSWORD   basic-auth credentials (prompted when unset)

Examples:
  jiracli get MS-123
  jiracli search --param jql='project = MS AND status = Open'
  jiracli create --json '{"fields":{"project":{"key":"MS"},"summary":"Crash"}}'
  jiracli transition MS-123 --param name='In Progress'
`
