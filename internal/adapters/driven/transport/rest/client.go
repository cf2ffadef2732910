package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/crboyd/phantom/internal/core/domain"
	"github.com/crboyd/phantom/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.Transport = (*Client)(nil)

const (
	// HeaderAuthToken carries the API token.
	HeaderAuthToken = "ph-auth-token"

	// HeaderRequestID identifies one call in server logs.
	HeaderRequestID = "X-Request-ID"

	defaultContentType = "application/json"
)

// Options configures a Client.
type Options struct {
	BaseURL           string
	VerifyCertificate bool
	Timeout           time.Duration
	// RateLimit is requests per second; 0 disables throttling.
	RateLimit float64
	Auth      domain.AuthSettings
}

// OptionsFromSettings builds client options from application settings.
func OptionsFromSettings(s *domain.Settings) Options {
	return Options{
		BaseURL:           s.Server.BaseURL,
		VerifyCertificate: s.Server.VerifyCertificate,
		Timeout:           s.Transport.Timeout,
		RateLimit:         s.Transport.RateLimit,
		Auth:              s.Auth,
	}
}

// Client sends requests to the REST API.
type Client struct {
	baseURL string
	timeout time.Duration
	auth    domain.AuthSettings

	// plain never adds credentials; authed adds the bearer token if any.
	plain   *http.Client
	authed  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a REST client.
func NewClient(opts Options) (*Client, error) {
	if opts.RateLimit < 0 {
		return nil, fmt.Errorf("rate limit must not be negative: %w", domain.ErrInvalidInput)
	}
	if opts.BaseURL != "" {
		if _, err := url.Parse(opts.BaseURL); err != nil {
			return nil, fmt.Errorf("base url: %w", domain.ErrInvalidInput)
		}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = domain.DefaultTimeout
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: !opts.VerifyCertificate, //nolint:gosec // verification is a user setting
		MinVersion:         tls.VersionTLS12,
	}

	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: opts.Timeout,
		auth:    opts.Auth,
		plain:   &http.Client{Transport: base},
		authed:  &http.Client{Transport: base},
	}

	if opts.Auth.BearerToken != "" {
		c.authed = &http.Client{Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Auth.BearerToken}),
			Base:   base,
		}}
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return c, nil
}

// Send performs one round trip. A non-nil error is always a
// *domain.TransportError, except for requests that cannot be built.
func (c *Client) Send(ctx context.Context, req domain.Request) (*domain.RawResponse, error) {
	target, err := c.resolve(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, classify(target, err)
		}
	}

	httpReq, err := c.build(ctx, target, req)
	if err != nil {
		return nil, err
	}

	client := c.plain
	if req.AuthMode == domain.AuthDefault {
		client = c.authed
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, classify(target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(target, err)
	}

	return &domain.RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// resolve returns the absolute URL for req, including query parameters.
func (c *Client) resolve(req domain.Request) (string, error) {
	raw := req.URL
	if raw == "" {
		if c.baseURL == "" {
			return "", fmt.Errorf("no server url configured: %w", domain.ErrInvalidInput)
		}
		raw = c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("request url %q: %w", raw, domain.ErrInvalidInput)
	}
	if len(req.Query) > 0 {
		q := u.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (c *Client) build(ctx context.Context, target string, req domain.Request) (*http.Request, error) {
	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), target, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", domain.ErrInvalidInput)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", defaultContentType)
	}
	if httpReq.Header.Get(HeaderRequestID) == "" {
		httpReq.Header.Set(HeaderRequestID, uuid.NewString())
	}

	if req.AuthMode == domain.AuthDefault {
		if c.auth.Token != "" && httpReq.Header.Get(HeaderAuthToken) == "" {
			httpReq.Header.Set(HeaderAuthToken, c.auth.Token)
		}
		if c.auth.HasBasic() {
			httpReq.SetBasicAuth(c.auth.Username, c.auth.Password)
		}
	}

	return httpReq, nil
}

// encodeBody passes raw bytes and strings through and JSON-encodes the rest.
func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(b), nil
	case string:
		return strings.NewReader(b), nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w: %v", domain.ErrInvalidInput, err)
		}
		return bytes.NewReader(data), nil
	}
}

// classify maps a round-trip failure to a transport error kind.
func classify(target string, err error) error {
	kind := domain.TransportConnection

	var (
		netErr      net.Error
		verifyErr   *tls.CertificateVerificationError
		unknownCA   x509.UnknownAuthorityError
		hostnameErr x509.HostnameError
		invalidErr  x509.CertificateInvalidError
		recordErr   tls.RecordHeaderError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = domain.TransportTimeout
	case errors.As(err, &verifyErr), errors.As(err, &unknownCA), errors.As(err, &hostnameErr),
		errors.As(err, &invalidErr), errors.As(err, &recordErr):
		kind = domain.TransportTLS
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = domain.TransportTimeout
	}

	return &domain.TransportError{Kind: kind, URL: target, Err: err}
}
