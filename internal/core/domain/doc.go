// Package domain defines the core entities shared by the response
// classification layer and the archive deflation engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawResponse: An HTTP response already materialised by a transport
//   - ResponseOutcome: The Success/Failure verdict for one response
//   - ArchiveKind: The closed set of container formats the sniffer reports
//   - StoreDescriptor: Where a persisted byte stream lives in the vault
//   - ExtractResult: What one deflation call produced
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
