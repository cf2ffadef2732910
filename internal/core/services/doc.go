// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Response classification and the extraction state machine live here;
// format-specific archive walking is delegated to internal/extractors.
package services
