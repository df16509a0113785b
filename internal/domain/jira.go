package domain

import (
	"encoding/json"
	"fmt"
)

// Search pagination defaults for the issue tracker.
const (
	JiraDefaultMaxResults = 50
	JiraDefaultStartAt    = 0
)

// FlexibleID is a type that can unmarshal both string and numeric IDs from JSON.
type FlexibleID string

// UnmarshalJSON implements custom unmarshaling to handle both string and numeric IDs.
func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	// Try to unmarshal as string first
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleID(s)
		return nil
	}

	// Try to unmarshal as number
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleID(n.String())
		return nil
	}

	return fmt.Errorf("id must be a string or number")
}

// String returns the string representation of the ID.
func (f FlexibleID) String() string {
	return string(f)
}

// IssueCreate represents the request body for creating a new issue.
// The caller's field mapping is wrapped under the "fields" key, which is the
// only top-level key the API accepts for creation.
type IssueCreate struct {
	Fields map[string]interface{} `json:"fields"`
}

// IssueUpdate represents the request body for updating an issue. Like
// creation, the field mapping is wrapped under "fields". Updates are a full
// replace of the named fields.
type IssueUpdate struct {
	Fields map[string]interface{} `json:"fields"`
}

// CommentCreate represents the request body for adding a comment to an issue.
type CommentCreate struct {
	Body string `json:"body"`
}

// TransitionRequest represents a workflow transition submission.
type TransitionRequest struct {
	Transition TransitionRef `json:"transition"`
}

// TransitionRef is a reference to a workflow transition.
type TransitionRef struct {
	ID string `json:"id"`
}

// Transition is one workflow transition currently legal for an issue, as
// returned by the transitions endpoint.
type Transition struct {
	ID   FlexibleID `json:"id"`
	Name string     `json:"name"`
}

// TransitionList is the response of the transitions endpoint.
type TransitionList struct {
	Transitions []Transition `json:"transitions"`
}

// Names returns the display names of every transition in the list, in order.
func (l *TransitionList) Names() []string {
	names := make([]string, 0, len(l.Transitions))
	for _, t := range l.Transitions {
		names = append(names, t.Name)
	}
	return names
}

// Find returns the transition whose display name exactly matches the
// requested name. Matching is case-sensitive: "Done" does not match "done".
func (l *TransitionList) Find(name string) (Transition, bool) {
	for _, t := range l.Transitions {
		if t.Name == name {
			return t, true
		}
	}
	return Transition{}, false
}

// ChangelogAuthor identifies who made a changelog entry.
type ChangelogAuthor struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// ChangelogItem is one field-level edit within a changelog entry.
type ChangelogItem struct {
	Field      string `json:"field"`
	FromString string `json:"fromString"`
	ToString   string `json:"toString"`
}

// ChangelogEntry is one entry in an issue's change history, grouping the
// field edits made together in a single save.
type ChangelogEntry struct {
	Created string          `json:"created"`
	Author  ChangelogAuthor `json:"author"`
	Items   []ChangelogItem `json:"items"`
}

// Changelog is the expanded change history of an issue.
type Changelog struct {
	Histories []ChangelogEntry `json:"histories"`
}

// IssueWithChangelog is an issue fetched with its change history expanded.
// Fields are kept opaque; only the changelog is examined by this tool.
type IssueWithChangelog struct {
	ID        FlexibleID             `json:"id"`
	Key       string                 `json:"key"`
	Fields    map[string]interface{} `json:"fields"`
	Changelog Changelog              `json:"changelog"`
}

// StatusTransition is one derived record of an issue moving between
// statuses, extracted from the change history.
type StatusTransition struct {
	Date       string `json:"date"`
	Author     string `json:"author"`
	FromStatus string `json:"fromStatus"`
	ToStatus   string `json:"toStatus"`
	// Comment is best-effort: when the same changelog entry also carries a
	// Comment item, the first one is attached here. If several comments
	// landed in one entry this may not be the one related to the status
	// change.
	Comment string `json:"comment,omitempty"`
}

// TransitionReport pairs an issue key with its extracted status transitions.
type TransitionReport struct {
	Key         string             `json:"key"`
	Transitions []StatusTransition `json:"transitions"`
}

// ExtractStatusTransitions scans every changelog entry for items whose field
// is "status" and emits one StatusTransition per match. Entries without a
// status item are skipped. The comment association is the first-match
// heuristic described on StatusTransition.
func ExtractStatusTransitions(issue *IssueWithChangelog) *TransitionReport {
	report := &TransitionReport{
		Key:         issue.Key,
		Transitions: []StatusTransition{},
	}

	for _, entry := range issue.Changelog.Histories {
		// Best-effort comment: first Comment item in the same entry.
		comment := ""
		for _, item := range entry.Items {
			if item.Field == "Comment" {
				comment = item.ToString
				break
			}
		}

		author := entry.Author.DisplayName
		if author == "" {
			author = entry.Author.Name
		}

		for _, item := range entry.Items {
			if item.Field != "status" {
				continue
			}
			report.Transitions = append(report.Transitions, StatusTransition{
				Date:       entry.Created,
				Author:     author,
				FromStatus: item.FromString,
				ToStatus:   item.ToString,
				Comment:    comment,
			})
		}
	}

	return report
}
