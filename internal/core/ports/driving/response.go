package driving

import (
	"context"

	"github.com/crboyd/phantom/internal/core/domain"
)

// ResponseNormalizer classifies a materialised HTTP response.
type ResponseNormalizer interface {
	Normalize(resp *domain.RawResponse) domain.ResponseOutcome
}

// RestCaller sends a request and classifies whatever comes back.
type RestCaller interface {
	Call(ctx context.Context, req domain.Request) domain.ResponseOutcome
}
