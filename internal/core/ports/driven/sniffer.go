package driven

import "github.com/crboyd/phantom/internal/core/domain"

// Sniffer determines the true format of content from its magic bytes.
// Implementations must never consult a file name or extension.
type Sniffer interface {
	// Sniff reads the file at path and returns its kind and detected MIME type.
	Sniff(path string) (domain.ArchiveKind, string, error)

	// SniffBytes is Sniff over in-memory content.
	SniffBytes(data []byte) (domain.ArchiveKind, string)
}
