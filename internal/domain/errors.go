package domain

import (
	"fmt"
	"strings"
)

// MissingCredentialError indicates that a required credential was absent from
// the environment and not supplied interactively. It is fatal: the process
// exits without performing any network call.
type MissingCredentialError struct {
	// Name identifies the missing credential (e.g., "ES_PASSWORD").
	Name string
}

// Error implements the error interface.
func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential: %s (set the environment variable or enter it at the prompt)", e.Name)
}

// MissingParameterError indicates that a required action parameter was absent
// from the merged parameter bag. It is raised before any network call.
type MissingParameterError struct {
	Action    string // the action that required the parameter
	Parameter string // the missing parameter name
}

// Error implements the error interface.
func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("action %q requires parameter %q", e.Action, e.Parameter)
}

// UnsupportedActionError indicates that the requested action name is not
// recognized by a dispatcher. The supported set is enumerated in the message.
type UnsupportedActionError struct {
	Action    string
	Supported []string
}

// Error implements the error interface.
func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("unsupported action %q (supported: %s)", e.Action, strings.Join(e.Supported, ", "))
}

// UnsupportedObjectTypeError indicates that the requested CRM object type is
// not recognized. The supported set is enumerated in the message.
type UnsupportedObjectTypeError struct {
	ObjectType string
	Supported  []string
}

// Error implements the error interface.
func (e *UnsupportedObjectTypeError) Error() string {
	return fmt.Sprintf("unsupported object type %q (supported: %s)", e.ObjectType, strings.Join(e.Supported, ", "))
}

// UnknownTransitionError indicates that a requested workflow transition name
// was not found among the transitions currently legal for the issue. Every
// legal name is enumerated so the caller can pick one.
type UnknownTransitionError struct {
	Requested string
	Legal     []string
}

// Error implements the error interface.
func (e *UnknownTransitionError) Error() string {
	return fmt.Sprintf("transition %q is not available (legal transitions: %s)", e.Requested, strings.Join(e.Legal, ", "))
}

// APIError represents a transport failure or a non-2xx response from a
// service. It carries the attempted URI and, when obtainable, the raw
// response body so that diagnostics are never lost.
type APIError struct {
	StatusCode int    // zero when the request never reached the server
	Message    string
	URI        string
	RawBody    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		if e.RawBody != "" {
			return fmt.Sprintf("API error (status %d) calling %s: %s", e.StatusCode, e.URI, e.RawBody)
		}
		return fmt.Sprintf("API error (status %d) calling %s: %s", e.StatusCode, e.URI, e.Message)
	}
	return fmt.Sprintf("request to %s failed: %s", e.URI, e.Message)
}
