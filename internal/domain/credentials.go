package domain

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// AuthType defines supported authentication methods.
type AuthType int

const (
	// BasicAuth uses principal and secret authentication
	BasicAuth AuthType = iota
	// TokenAuth uses bearer token authentication
	TokenAuth
)

// String returns the string representation of AuthType.
func (a AuthType) String() string {
	switch a {
	case BasicAuth:
		return "basic"
	case TokenAuth:
		return "token"
	default:
		return "unknown"
	}
}

// Credentials stores authentication information for a service.
// Supports both basic authentication (principal/secret) and token
// authentication. Credentials live only for the duration of one process
// invocation and are never logged or persisted.
type Credentials struct {
	Type      AuthType // BasicAuth or TokenAuth
	Principal string   // Used for basic auth
	Secret    string   // Used for basic auth
	Token     string   // Used for token auth
}

// Validate checks that the credentials are complete for their auth type.
func (c *Credentials) Validate() error {
	if c == nil {
		return fmt.Errorf("credentials cannot be nil")
	}

	switch c.Type {
	case BasicAuth:
		if c.Principal == "" {
			return fmt.Errorf("principal is required for basic authentication")
		}
		if c.Secret == "" {
			return fmt.Errorf("secret is required for basic authentication")
		}
	case TokenAuth:
		if c.Token == "" {
			return fmt.Errorf("token is required for token authentication")
		}
	default:
		return fmt.Errorf("invalid authentication type: %v", c.Type)
	}

	return nil
}

// NewAuthenticatedClient returns an HTTP client that attaches the appropriate
// Authorization header to every request it sends.
// Returns an error if the credentials are incomplete.
func NewAuthenticatedClient(creds *Credentials) (*http.Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	// Create a custom transport that adds authentication headers
	transport := &authenticatedTransport{
		base:        http.DefaultTransport,
		credentials: creds,
	}

	// A hung call should not block the process forever.
	return &http.Client{
		Transport: transport,
		Timeout:   30 * time.Second,
	}, nil
}

// authenticatedTransport is an http.RoundTripper that adds authentication headers.
type authenticatedTransport struct {
	base        http.RoundTripper
	credentials *Credentials
}

// RoundTrip implements http.RoundTripper by adding authentication headers to requests.
func (t *authenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	clonedReq := req.Clone(req.Context())

	// Add authentication headers based on credentials type
	switch t.credentials.Type {
	case BasicAuth:
		// Basic authentication: encode principal:secret in base64
		auth := t.credentials.Principal + ":" + t.credentials.Secret
		encodedAuth := base64.StdEncoding.EncodeToString([]byte(auth))
		clonedReq.Header.Set("Authorization", "Basic "+encodedAuth)
	case TokenAuth:
		// Token authentication: use Bearer token
		clonedReq.Header.Set("Authorization", "Bearer "+t.credentials.Token)
	}

	// Execute the request with the base transport
	return t.base.RoundTrip(clonedReq)
}

// Resolver obtains credentials from environment variables, falling back to
// interactive prompting for whatever is missing. The zero value is not
// usable; construct with NewResolver. The function fields are exposed so
// tests can substitute non-interactive inputs.
type Resolver struct {
	// Getenv returns the value of an environment variable.
	Getenv func(key string) string

	// PromptVisible reads one line of visible input from the terminal.
	PromptVisible func(label string) (string, error)

	// PromptMasked reads one line of input with echo disabled, for secrets.
	PromptMasked func(label string) (string, error)
}

// NewResolver creates a Resolver wired to the process environment and the
// controlling terminal.
func NewResolver() *Resolver {
	return &Resolver{
		Getenv:        os.Getenv,
		PromptVisible: promptVisible,
		PromptMasked:  promptMasked,
	}
}

// ResolveBasic resolves basic-auth credentials from the two named environment
// variables, prompting interactively for each value that is absent. The
// secret prompt masks input. Returns a MissingCredentialError if a value is
// still empty after prompting.
func (r *Resolver) ResolveBasic(principalVar, secretVar string) (*Credentials, error) {
	principal := r.Getenv(principalVar)
	if principal == "" {
		value, err := r.PromptVisible(fmt.Sprintf("%s not set; enter username: ", principalVar))
		if err != nil {
			return nil, fmt.Errorf("failed to read username: %w", err)
		}
		principal = strings.TrimSpace(value)
	}
	if principal == "" {
		return nil, &MissingCredentialError{Name: principalVar}
	}

	secret := r.Getenv(secretVar)
	if secret == "" {
		value, err := r.PromptMasked(fmt.Sprintf("%s not set; enter password: ", secretVar))
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		secret = value
	}
	if secret == "" {
		return nil, &MissingCredentialError{Name: secretVar}
	}

	return &Credentials{
		Type:      BasicAuth,
		Principal: principal,
		Secret:    secret,
	}, nil
}

// ResolveToken resolves bearer-token credentials from the named environment
// variable, prompting with masked input if it is absent. Returns a
// MissingCredentialError if the token is still empty after prompting.
func (r *Resolver) ResolveToken(tokenVar string) (*Credentials, error) {
	token := r.Getenv(tokenVar)
	if token == "" {
		value, err := r.PromptMasked(fmt.Sprintf("%s not set; enter token: ", tokenVar))
		if err != nil {
			return nil, fmt.Errorf("failed to read token: %w", err)
		}
		token = value
	}
	if token == "" {
		return nil, &MissingCredentialError{Name: tokenVar}
	}

	return &Credentials{
		Type:  TokenAuth,
		Token: token,
	}, nil
}

// promptVisible writes the label to stderr and reads one line from stdin
// with normal echo.
func promptVisible(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptMasked writes the label to stderr and reads one line from the
// terminal with echo disabled, so the secret never appears on screen.
func promptMasked(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	// ReadPassword suppresses the trailing newline; restore it so the next
	// prompt starts on a fresh line.
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
