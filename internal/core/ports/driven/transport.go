package driven

import (
	"context"

	"github.com/crboyd/phantom/internal/core/domain"
)

// Transport issues HTTP requests against the configured server.
type Transport interface {
	// Send performs one request. When no response was received the error
	// is a *domain.TransportError and the response is nil. Any response
	// that was received, whatever its status, is returned with a nil error.
	Send(ctx context.Context, req domain.Request) (*domain.RawResponse, error)
}
