package domain

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawResponse_IsSuccessStatus(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{199, false},
		{200, true},
		{302, true},
		{398, true},
		{399, false},
		{404, false},
		{500, false},
	}

	for _, tt := range tests {
		resp := &RawResponse{StatusCode: tt.code}
		assert.Equal(t, tt.want, resp.IsSuccessStatus(), "status %d", tt.code)
	}
}

func TestRawResponse_NilSafe(t *testing.T) {
	var resp *RawResponse
	assert.Equal(t, "", resp.Text())
	assert.Equal(t, "", resp.ContentType())
	assert.False(t, resp.IsSuccessStatus())
}

func TestRawResponse_ContentType(t *testing.T) {
	resp := &RawResponse{Header: http.Header{"Content-Type": []string{"application/json; charset=utf-8"}}}
	assert.Equal(t, "application/json; charset=utf-8", resp.ContentType())
}

func TestResponseOutcome_ZeroValueIsFailure(t *testing.T) {
	var outcome ResponseOutcome
	assert.False(t, outcome.OK())
	assert.Equal(t, "failure", outcome.Status.String())
}

func TestResponseOutcome_PayloadAccessors(t *testing.T) {
	outcome := ResponseOutcome{Status: OutcomeSuccess, Payload: map[string]any{"version": "4.9"}}
	m, ok := outcome.Mapping()
	assert.True(t, ok)
	assert.Equal(t, "4.9", m["version"])
	_, ok = outcome.Sequence()
	assert.False(t, ok)

	outcome.Payload = []any{1.0, 2.0}
	s, ok := outcome.Sequence()
	assert.True(t, ok)
	assert.Len(t, s, 2)
}

func TestResponseOutcome_DebugValue(t *testing.T) {
	outcome := ResponseOutcome{Debug: []DebugEntry{{Key: "r_status_code", Value: 500}}}

	v, ok := outcome.DebugValue("r_status_code")
	assert.True(t, ok)
	assert.Equal(t, 500, v)

	_, ok = outcome.DebugValue("r_text")
	assert.False(t, ok)
}

func TestAuthMode_String(t *testing.T) {
	assert.Equal(t, "default", AuthDefault.String())
	assert.Equal(t, "none", AuthNone.String())
}
