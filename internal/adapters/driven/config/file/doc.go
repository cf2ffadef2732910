// Package file provides the TOML-backed configuration store.
//
// The file lives at <config dir>/config.toml, ~/.phantom by default.
// Nested tables are exposed as dot-notation keys, so
//
//	[transport]
//	timeout_seconds = 30
//
// is read as "transport.timeout_seconds". Set writes the file back as
// nested tables.
package file
