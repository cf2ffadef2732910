// Package sniffer identifies archive formats from their magic bytes.
package sniffer

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"

	"github.com/crboyd/phantom/internal/core/domain"
	"github.com/crboyd/phantom/internal/core/ports/driven"
)

// Ensure Sniffer implements the interface.
var _ driven.Sniffer = (*Sniffer)(nil)

// headerSize is how much of a file is read for detection. It matches the
// default read limit of the mimetype package.
const headerSize = 3072

// lz4Magic opens every LZ4 frame. mimetype has no LZ4 detector.
var lz4Magic = []byte{0x04, 0x22, 0x4D, 0x18}

// kinds maps detected types to archive kinds. mimetype.Is also accepts
// the aliases of each type, e.g. application/x-gzip for application/gzip.
var kinds = []struct {
	mime string
	kind domain.ArchiveKind
}{
	{"application/zip", domain.KindZip},
	{"application/x-tar", domain.KindTar},
	{"application/gzip", domain.KindGzip},
	{"application/x-bzip2", domain.KindBzip2},
	{"application/zstd", domain.KindZstd},
}

// Sniffer detects formats with github.com/gabriel-vasile/mimetype.
type Sniffer struct{}

// New creates a sniffer.
func New() *Sniffer {
	return &Sniffer{}
}

// Sniff reads the head of the file at path and classifies it.
func (s *Sniffer) Sniff(path string) (domain.ArchiveKind, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.KindUnsupported, "", fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	header := make([]byte, headerSize)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return domain.KindUnsupported, "", fmt.Errorf("read: %w", err)
	}

	kind, mime := s.SniffBytes(header[:n])
	return kind, mime, nil
}

// SniffBytes classifies in-memory content.
func (s *Sniffer) SniffBytes(data []byte) (domain.ArchiveKind, string) {
	if bytes.HasPrefix(data, lz4Magic) {
		return domain.KindLZ4, domain.KindLZ4.MIMEType()
	}

	m := mimetype.Detect(data)
	for _, k := range kinds {
		if m.Is(k.mime) {
			return k.kind, m.String()
		}
	}
	return domain.KindUnsupported, m.String()
}
