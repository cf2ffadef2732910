// Package rest is the HTTP transport for the Phantom REST API.
//
// Client turns a domain.Request into an HTTP round trip and hands back the
// raw response without judging it; classification belongs to the response
// normaliser. Failures where no response arrived are reported as
// *domain.TransportError so callers can tell timeouts, certificate problems
// and connection errors apart. Nothing is retried.
//
// Credentials are injected per request unless the request opts out with
// domain.AuthNone:
//
//   - the ph-auth-token header, when a token is configured
//   - HTTP basic auth, when a username and password are configured
//   - an OAuth2 bearer token, when one is configured
package rest
