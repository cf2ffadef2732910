package domain

import (
	"strconv"
	"strings"
	"time"
)

// ArchiveKind is the closed set of formats the sniffer can report.
// KindUnsupported covers everything the deflation engine rejects.
type ArchiveKind int

const (
	KindUnsupported ArchiveKind = iota
	KindZip
	KindTar
	KindGzip
	KindBzip2
	KindZstd
	KindLZ4
)

// String returns the short format name used in messages.
func (k ArchiveKind) String() string {
	switch k {
	case KindZip:
		return "zip"
	case KindTar:
		return "tar"
	case KindGzip:
		return "gzip"
	case KindBzip2:
		return "bzip2"
	case KindZstd:
		return "zstd"
	case KindLZ4:
		return "lz4"
	default:
		return "unsupported"
	}
}

// MIMEType returns the canonical media type of the kind.
func (k ArchiveKind) MIMEType() string {
	switch k {
	case KindZip:
		return "application/zip"
	case KindTar:
		return "application/x-tar"
	case KindGzip:
		return "application/x-gzip"
	case KindBzip2:
		return "application/x-bzip2"
	case KindZstd:
		return "application/zstd"
	case KindLZ4:
		return "application/x-lz4"
	default:
		return "application/octet-stream"
	}
}

// Supported reports whether the engine deflates this kind. zstd and lz4
// are only accepted when extended formats are enabled.
func (k ArchiveKind) Supported(extended bool) bool {
	switch k {
	case KindZip, KindTar, KindGzip, KindBzip2:
		return true
	case KindZstd, KindLZ4:
		return extended
	default:
		return false
	}
}

// IsStream reports whether the kind is a single compressed stream that may
// or may not wrap a tar archive.
func (k ArchiveKind) IsStream() bool {
	switch k {
	case KindGzip, KindBzip2, KindZstd, KindLZ4:
		return true
	default:
		return false
	}
}

// ArchiveMember is one entry read out of an open archive.
type ArchiveMember struct {
	// Name is the base name only; directory components are stripped.
	Name string

	// Data is the decompressed content.
	Data []byte

	// IsContainerFormat is set once the persisted copy has been sniffed.
	IsContainerFormat bool
}

// StoreDescriptor is the result of persisting a byte stream in the vault.
type StoreDescriptor struct {
	// ID is unique for the lifetime of the vault and never reused.
	ID string

	// Path is the physical location, re-readable immediately after persist.
	Path string

	// Name is the logical name, independent of Path.
	Name string

	// ContainerID groups descriptors produced for the same case container.
	ContainerID string

	Size      int64
	Hash      string
	CreatedAt time.Time
}

// Sequence returns the vault sequence number encoded after the last "-"
// of the ID, or 0 when the ID carries none.
func (d StoreDescriptor) Sequence() uint64 {
	i := strings.LastIndex(d.ID, "-")
	if i < 0 {
		return 0
	}
	seq, err := strconv.ParseUint(d.ID[i+1:], 10, 64)
	if err != nil {
		return 0
	}
	return seq
}

// ExtractStatus distinguishes a full run from one that found nothing to do.
type ExtractStatus int

const (
	// ExtractDone means every applicable entry was persisted.
	ExtractDone ExtractStatus = iota

	// ExtractDonePartial means the call finished without error but some
	// part of the input yielded no data; Reason says which.
	ExtractDonePartial
)

// String returns the string representation.
func (s ExtractStatus) String() string {
	if s == ExtractDonePartial {
		return "done_partial"
	}
	return "done"
}

// ExtractResult lists what one deflation call persisted, in persist order,
// including intermediate nested archives.
type ExtractResult struct {
	Status      ExtractStatus
	Reason      string
	Descriptors []StoreDescriptor
}

// Add records a persisted descriptor.
func (r *ExtractResult) Add(desc StoreDescriptor) {
	r.Descriptors = append(r.Descriptors, desc)
}

// Partial marks the result partial, keeping the first reason given.
func (r *ExtractResult) Partial(reason string) {
	if r.Status == ExtractDonePartial {
		return
	}
	r.Status = ExtractDonePartial
	r.Reason = reason
}

// Names returns the logical names of all persisted descriptors.
func (r *ExtractResult) Names() []string {
	names := make([]string, 0, len(r.Descriptors))
	for i := range r.Descriptors {
		names = append(names, r.Descriptors[i].Name)
	}
	return names
}
