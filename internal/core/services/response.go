package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/crboyd/phantom/internal/core/domain"
	"github.com/crboyd/phantom/internal/core/ports/driving"
	"github.com/crboyd/phantom/internal/logger"
	"github.com/crboyd/phantom/internal/normalisers/html"
)

// Ensure ResponseService implements the interface.
var _ driving.ResponseNormalizer = (*ResponseService)(nil)

// Debug keys attached to every outcome.
const (
	DebugKeyText       = "r_text"
	DebugKeyHeaders    = "r_headers"
	DebugKeyStatusCode = "r_status_code"
)

// htmlFallbackText replaces page text that could not be parsed.
const htmlFallbackText = "Cannot parse error details"

// ResponseService classifies HTTP responses into outcomes.
type ResponseService struct{}

// NewResponseService creates a new response classifier.
func NewResponseService() *ResponseService {
	return &ResponseService{}
}

// Normalize classifies resp. It never returns a success without a response.
func (s *ResponseService) Normalize(resp *domain.RawResponse) domain.ResponseOutcome {
	outcome := domain.ResponseOutcome{Response: resp}

	if resp == nil {
		outcome.Debug = append(outcome.Debug, domain.DebugEntry{Key: DebugKeyText, Value: "no response"})
		outcome.Err = domain.ErrConnection
		outcome.Message = "No response from server"
		return outcome
	}

	outcome.Debug = append(outcome.Debug,
		domain.DebugEntry{Key: DebugKeyText, Value: resp.Text()},
		domain.DebugEntry{Key: DebugKeyHeaders, Value: resp.Header},
		domain.DebugEntry{Key: DebugKeyStatusCode, Value: resp.StatusCode},
	)
	logger.Debug("response %d content-type=%q body=%s", resp.StatusCode, resp.ContentType(), resp.Text())

	contentType := resp.ContentType()
	switch {
	case strings.Contains(contentType, "json") || strings.Contains(contentType, "javascript"):
		return s.processJSON(resp, outcome)
	case strings.Contains(contentType, "html"):
		return s.processHTML(resp, outcome)
	case resp.IsSuccessStatus() && len(resp.Body) == 0:
		outcome.Status = domain.OutcomeSuccess
		return outcome
	}

	outcome.Err = domain.ErrUnsupportedContentType
	outcome.Message = stripBraces(fmt.Sprintf(
		"Can't process response from server. Status Code: %d Data from server: %s",
		resp.StatusCode, resp.Text()))
	return outcome
}

func (s *ResponseService) processJSON(resp *domain.RawResponse, outcome domain.ResponseOutcome) domain.ResponseOutcome {
	var parsed any
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		outcome.Err = fmt.Errorf("%w: %v", domain.ErrParse, err)
		outcome.Message = "Unable to parse response as JSON"
		return outcome
	}
	if parsed == nil {
		// A bare null carries no payload to hand back.
		outcome.Err = domain.ErrParse
		outcome.Message = "Unable to parse response as JSON"
		return outcome
	}

	envelope, isMapping := parsed.(map[string]any)
	if !isMapping {
		// Sequence-shaped bodies are never a failure envelope.
		outcome.Status = domain.OutcomeSuccess
		outcome.Payload = parsed
		return outcome
	}

	if truthy(envelope["failed"]) {
		outcome.Err = domain.ErrServerReportedFailure
		outcome.Message = serverErrorMessage(resp.StatusCode, envelope)
		return outcome
	}

	if resp.IsSuccessStatus() {
		outcome.Status = domain.OutcomeSuccess
		outcome.Payload = envelope
		return outcome
	}

	outcome.Err = domain.ErrUnexpectedStatus
	outcome.Message = serverErrorMessage(resp.StatusCode, envelope)
	return outcome
}

func (s *ResponseService) processHTML(resp *domain.RawResponse, outcome domain.ResponseOutcome) domain.ResponseOutcome {
	text, err := html.VisibleText(resp.Text())
	if err != nil {
		text = htmlFallbackText
	}

	outcome.Err = domain.ErrUnexpectedStatus
	outcome.Message = stripBraces(fmt.Sprintf("Status Code: %d. Data from server:\n%s\n", resp.StatusCode, text))
	return outcome
}

// serverErrorMessage formats the message for a JSON failure envelope.
func serverErrorMessage(statusCode int, envelope map[string]any) string {
	details := "-"
	switch msg := envelope["message"].(type) {
	case nil:
	case string:
		details = msg
	default:
		// Re-encode so objects and arrays read as the server sent them.
		if encoded, err := json.Marshal(msg); err == nil {
			details = string(encoded)
		} else {
			details = fmt.Sprint(msg)
		}
	}
	return fmt.Sprintf("Error from server. Status code: %d, Details: %s", statusCode, details)
}

// stripBraces replaces { and } with spaces; the message renderer treats
// braces as format placeholders.
func stripBraces(s string) string {
	return strings.NewReplacer("{", " ", "}", " ").Replace(s)
}

// truthy applies the server's loose boolean convention to a JSON value.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}
