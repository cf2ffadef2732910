// Package html turns HTML error pages into plain text.
// Servers behind proxies often answer failures with an HTML page instead
// of a JSON envelope; this package extracts the readable text so it can
// be shown to the operator.
package html
