package domain

import (
	"net/http"
)

// AuthMode selects whether the transport injects configured credentials.
type AuthMode int

const (
	// AuthDefault injects the configured token, basic auth, or bearer token.
	AuthDefault AuthMode = iota

	// AuthNone sends the request without any configured credentials. Used
	// for calls against a differently scoped endpoint.
	AuthNone
)

// String returns the string representation.
func (m AuthMode) String() string {
	if m == AuthNone {
		return "none"
	}
	return "default"
}

// Request describes one REST call. Path is joined to the configured base
// URL unless URL is set, in which case URL is used verbatim.
type Request struct {
	Method   string
	Path     string
	URL      string
	Header   http.Header
	Query    map[string]string
	Body     any
	AuthMode AuthMode
}

// RawResponse is an HTTP response already read off the wire.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Text returns the body as a string.
func (r *RawResponse) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// ContentType returns the declared Content-Type, or "" when absent.
func (r *RawResponse) ContentType() string {
	if r == nil || r.Header == nil {
		return ""
	}
	return r.Header.Get("Content-Type")
}

// IsSuccessStatus reports whether the status code is in [200, 399).
func (r *RawResponse) IsSuccessStatus() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 399
}

// OutcomeStatus is the verdict of classifying one response.
type OutcomeStatus int

const (
	// OutcomeFailure is the zero value so an unset outcome never reads as success.
	OutcomeFailure OutcomeStatus = iota

	// OutcomeSuccess indicates the response was accepted.
	OutcomeSuccess
)

// String returns the string representation.
func (s OutcomeStatus) String() string {
	if s == OutcomeSuccess {
		return "success"
	}
	return "failure"
}

// DebugEntry is one piece of diagnostic context attached to an outcome.
type DebugEntry struct {
	Key   string
	Value any
}

// ResponseOutcome is the uniform result of processing one HTTP response.
//
// Payload is non-nil only when Status is OutcomeSuccess and the body was
// non-empty. Response is nil only when the transport never produced one.
type ResponseOutcome struct {
	Status   OutcomeStatus
	Response *RawResponse
	Payload  any
	Message  string
	Err      error
	Debug    []DebugEntry
}

// OK reports whether the outcome is a success.
func (o ResponseOutcome) OK() bool {
	return o.Status == OutcomeSuccess
}

// Mapping returns the payload as a JSON object, if it is one.
func (o ResponseOutcome) Mapping() (map[string]any, bool) {
	m, ok := o.Payload.(map[string]any)
	return m, ok
}

// Sequence returns the payload as a JSON array, if it is one.
func (o ResponseOutcome) Sequence() ([]any, bool) {
	s, ok := o.Payload.([]any)
	return s, ok
}

// DebugValue returns the first debug value recorded under key.
func (o ResponseOutcome) DebugValue(key string) (any, bool) {
	for _, entry := range o.Debug {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return nil, false
}
