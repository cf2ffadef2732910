// Package extractors walks the members of supported archive formats.
//
// There is one walker per archive kind: WalkZip for zip files, WalkTar for
// tar streams (plain or wrapped in a compressed stream), and
// NewStreamReader for single compressed streams. Walkers hand every
// regular-file member to a Visitor in container order and stop at the
// first error, returning the Visitor's error unchanged so callers can tell
// their own failures apart from archive failures.
//
// Walkers report archive problems as *domain.ExtractError with one of the
// extraction kinds (corrupt container, entry read failure, size exceeded).
package extractors

import "github.com/crboyd/phantom/internal/core/domain"

// Visitor receives one member at a time.
type Visitor func(member domain.ArchiveMember) error
