package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/crboyd/phantom/internal/core/domain"
	"github.com/crboyd/phantom/internal/core/ports/driven"
	"github.com/crboyd/phantom/internal/core/ports/driving"
	"github.com/crboyd/phantom/internal/logger"
)

// Ensure RestService implements the interface.
var _ driving.RestCaller = (*RestService)(nil)

// RestService sends requests through a transport and classifies the result.
type RestService struct {
	transport  driven.Transport
	normalizer driving.ResponseNormalizer
}

// NewRestService creates a REST caller. A nil normalizer uses ResponseService.
func NewRestService(transport driven.Transport, normalizer driving.ResponseNormalizer) *RestService {
	if normalizer == nil {
		normalizer = NewResponseService()
	}
	return &RestService{
		transport:  transport,
		normalizer: normalizer,
	}
}

// Call sends req. Transport failures short-circuit with a nil Response;
// the normalizer only ever sees responses that were actually received.
func (s *RestService) Call(ctx context.Context, req domain.Request) domain.ResponseOutcome {
	if s.transport == nil {
		return domain.ResponseOutcome{Err: domain.ErrNotImplemented, Message: "No transport configured"}
	}

	logger.Debug("%s %s%s (auth=%s)", req.Method, req.URL, req.Path, req.AuthMode)

	resp, err := s.transport.Send(ctx, req)
	if err != nil {
		return transportFailure(err)
	}
	return s.normalizer.Normalize(resp)
}

func transportFailure(err error) domain.ResponseOutcome {
	var message string
	switch {
	case errors.Is(err, domain.ErrTimeout):
		message = "Request timed out"
	case errors.Is(err, domain.ErrTLSValidation):
		message = "HTTPS SSL validation failed"
	default:
		message = "Error connecting to server"
	}

	cause := err
	var te *domain.TransportError
	if errors.As(err, &te) && te.Err != nil {
		cause = te.Err
	}

	logger.Debug("transport failure: %v", err)
	return domain.ResponseOutcome{
		Err:     err,
		Message: stripBraces(fmt.Sprintf("%s. Details: %v", message, cause)),
		Debug:   []domain.DebugEntry{{Key: DebugKeyText, Value: "no response"}},
	}
}
