package extractors

import (
	"compress/bzip2"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/crboyd/phantom/internal/core/domain"
)

// NewStreamReader returns a decompressing reader over r for a single-stream
// kind. Closing it does not close r.
func NewStreamReader(kind domain.ArchiveKind, r io.Reader) (io.ReadCloser, error) {
	switch kind {
	case domain.KindGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case domain.KindBzip2:
		return io.NopCloser(bzip2.NewReader(r)), nil
	case domain.KindZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case domain.KindLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%s is not a single-stream format", kind)
	}
}

// InflateStream decompresses the whole stream r in one shot.
// Decompression failures are reported as domain.ErrStreamDecompress, kept
// apart from per-entry failures inside containers.
func InflateStream(kind domain.ArchiveKind, r io.Reader, budget *Budget) ([]byte, error) {
	sr, err := NewStreamReader(kind, r)
	if err != nil {
		return nil, &domain.ExtractError{Kind: domain.ErrStreamDecompress, Format: kind.String(), Err: err}
	}
	defer sr.Close()

	data, err := budget.ReadAll(sr)
	if err != nil {
		if errors.Is(err, domain.ErrSizeExceeded) {
			return nil, &domain.ExtractError{Kind: domain.ErrSizeExceeded, Format: kind.String()}
		}
		return nil, &domain.ExtractError{Kind: domain.ErrStreamDecompress, Format: kind.String(), Err: err}
	}
	return data, nil
}
