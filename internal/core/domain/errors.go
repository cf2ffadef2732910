package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Classification Errors.

	// ErrParse indicates a body declared as JSON could not be parsed.
	ErrParse = errors.New("unable to parse response as JSON")

	// ErrServerReportedFailure indicates the server returned an explicit
	// failure envelope ("failed": true).
	ErrServerReportedFailure = errors.New("server reported failure")

	// ErrUnexpectedStatus indicates a status code outside [200, 399)
	// without a usable failure envelope, or an HTML error page.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrUnsupportedContentType indicates a body that is neither JSON,
	// HTML, nor an empty success.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// Transport Errors.

	// ErrTimeout indicates the request exceeded its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrTLSValidation indicates the server certificate could not be verified.
	ErrTLSValidation = errors.New("TLS validation failed")

	// ErrConnection is the catch-all for any other transport failure.
	ErrConnection = errors.New("connection failed")

	// Extraction Errors.

	// ErrUnsupportedFormat indicates the sniffed type is outside the supported set.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrCorruptContainer indicates format-specific structural validation failed.
	ErrCorruptContainer = errors.New("corrupt container")

	// ErrEntryReadFailure indicates a single member could not be decompressed.
	ErrEntryReadFailure = errors.New("entry read failure")

	// ErrStreamDecompress indicates a gzip or bzip2 payload that is not
	// tar-wrapped could not be decompressed.
	ErrStreamDecompress = errors.New("stream decompression failure")

	// ErrSinkFailure indicates the store sink refused or failed a persist.
	ErrSinkFailure = errors.New("sink failure")

	// ErrDepthExceeded indicates nested archives went deeper than allowed.
	ErrDepthExceeded = errors.New("nesting depth exceeded")

	// ErrSizeExceeded indicates the decompressed byte budget ran out.
	ErrSizeExceeded = errors.New("decompressed size budget exceeded")
)

// TransportKind classifies a transport-level failure.
type TransportKind int

const (
	// TransportConnection is any failure not more specifically classified.
	TransportConnection TransportKind = iota

	// TransportTimeout is a request that exceeded its deadline.
	TransportTimeout

	// TransportTLS is a certificate or handshake validation failure.
	TransportTLS
)

// Sentinel returns the sentinel error for the kind.
func (k TransportKind) Sentinel() error {
	switch k {
	case TransportTimeout:
		return ErrTimeout
	case TransportTLS:
		return ErrTLSValidation
	default:
		return ErrConnection
	}
}

// TransportError is returned by transports when no response was received.
type TransportError struct {
	Kind TransportKind
	URL  string
	Err  error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind.Sentinel(), e.URL)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind.Sentinel(), e.URL, e.Err)
}

// Is reports whether target is the sentinel for this error's kind.
func (e *TransportError) Is(target error) bool {
	return target == e.Kind.Sentinel()
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ExtractError carries the failing format and entry alongside the cause.
// Kind is one of the extraction sentinels above.
type ExtractError struct {
	Kind   error
	Format string
	Entry  string
	Err    error
}

func (e *ExtractError) Error() string {
	msg := e.Kind.Error()
	if e.Format != "" {
		msg += " (" + e.Format + ")"
	}
	if e.Entry != "" {
		msg += fmt.Sprintf(" entry %q", e.Entry)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is this error's kind.
func (e *ExtractError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying cause.
func (e *ExtractError) Unwrap() error {
	return e.Err
}
