// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - Transport: Sends one HTTP request and returns the raw response
//   - Sniffer: Detects the true format of a file from its content
//   - StoreSink: Persists byte streams under unique physical names
//   - VaultIndex: Catalogue of persisted descriptors behind a StoreSink
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
