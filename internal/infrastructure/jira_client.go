package infrastructure

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"saasctl/internal/domain"
)

// JiraClient handles issue-tracker API interactions. It provides one method
// per supported action plus the derived-view fetch used by the history
// action.
type JiraClient struct {
	rest *RESTClient
}

// NewJiraClient creates a new issue-tracker API client.
// The baseURL should be the root URL of the instance (e.g., "https://jira.example.com").
// The httpClient should be an authenticated client from domain.NewAuthenticatedClient.
func NewJiraClient(baseURL string, httpClient *http.Client) *JiraClient {
	return &JiraClient{
		rest: NewRESTClient(baseURL, httpClient),
	}
}

// BaseURL returns the configured base URL for the instance.
func (c *JiraClient) BaseURL() string {
	return c.rest.BaseURL()
}

// GetIssue retrieves an issue by its key (e.g., "MS-123"). No expand
// parameter is appended; the response passes through unmodified.
func (c *JiraClient) GetIssue(issueKey string) (json.RawMessage, error) {
	return c.rest.Call("GET", fmt.Sprintf("/rest/api/2/issue/%s", issueKey), nil, nil)
}

// GetIssueWithChangelog retrieves an issue with its full change history
// expanded, for the derived status-transition view.
func (c *JiraClient) GetIssueWithChangelog(issueKey string) (*domain.IssueWithChangelog, error) {
	query := url.Values{}
	query.Set("expand", "changelog")

	var issue domain.IssueWithChangelog
	if err := c.rest.CallJSON("GET", fmt.Sprintf("/rest/api/2/issue/%s", issueKey), nil, query, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// Search performs a JQL search. maxResults and startAt are sent as given;
// the handler applies the documented defaults before calling.
func (c *JiraClient) Search(jql string, maxResults, startAt int) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("jql", jql)
	query.Set("maxResults", strconv.Itoa(maxResults))
	query.Set("startAt", strconv.Itoa(startAt))

	return c.rest.Call("GET", "/rest/api/2/search", nil, query)
}

// CreateIssue creates a new issue. The field mapping is wrapped under the
// "fields" key as the API requires. Returns the created issue with its
// assigned key.
func (c *JiraClient) CreateIssue(fields map[string]interface{}) (json.RawMessage, error) {
	return c.rest.Call("POST", "/rest/api/2/issue", &domain.IssueCreate{Fields: fields}, nil)
}

// UpdateIssue replaces fields on an existing issue. The field mapping is
// wrapped under the "fields" key.
func (c *JiraClient) UpdateIssue(issueKey string, fields map[string]interface{}) (json.RawMessage, error) {
	return c.rest.Call("PUT", fmt.Sprintf("/rest/api/2/issue/%s", issueKey), &domain.IssueUpdate{Fields: fields}, nil)
}

// AddComment adds a comment to an issue.
func (c *JiraClient) AddComment(issueKey, body string) (json.RawMessage, error) {
	return c.rest.Call("POST", fmt.Sprintf("/rest/api/2/issue/%s/comment", issueKey), &domain.CommentCreate{Body: body}, nil)
}

// GetTransitions retrieves the workflow transitions currently legal for an
// issue.
func (c *JiraClient) GetTransitions(issueKey string) (*domain.TransitionList, error) {
	var list domain.TransitionList
	if err := c.rest.CallJSON("GET", fmt.Sprintf("/rest/api/2/issue/%s/transitions", issueKey), nil, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// TransitionIssue moves an issue through the workflow transition whose
// display name exactly matches the requested name (case-sensitive). When no
// transition matches, the returned error enumerates every legal name and no
// submission call is made.
func (c *JiraClient) TransitionIssue(issueKey, transitionName string) error {
	list, err := c.GetTransitions(issueKey)
	if err != nil {
		return err
	}

	transition, ok := list.Find(transitionName)
	if !ok {
		return &domain.UnknownTransitionError{
			Requested: transitionName,
			Legal:     list.Names(),
		}
	}

	request := &domain.TransitionRequest{
		Transition: domain.TransitionRef{ID: transition.ID.String()},
	}
	_, err = c.rest.Call("POST", fmt.Sprintf("/rest/api/2/issue/%s/transitions", issueKey), request, nil)
	return err
}
