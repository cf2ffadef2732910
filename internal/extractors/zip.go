package extractors

import (
	"errors"

	"github.com/klauspost/compress/zip"

	"github.com/crboyd/phantom/internal/core/domain"
)

const formatZip = "zip"

// WalkZip validates the zip file at path and visits every member whose
// base name is non-empty, in central directory order.
func WalkZip(path string, budget *Budget, visit Visitor) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return &domain.ExtractError{Kind: domain.ErrCorruptContainer, Format: formatZip, Err: err}
	}
	defer zr.Close()

	for _, f := range zr.File {
		name := BaseName(f.Name)
		if name == "" {
			continue
		}

		data, err := readZipEntry(f, budget)
		if err != nil {
			return entryError(formatZip, f.Name, err)
		}

		if err := visit(domain.ArchiveMember{Name: name, Data: data}); err != nil {
			return err
		}
	}

	return nil
}

func readZipEntry(f *zip.File, budget *Budget) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return budget.ReadAll(rc)
}

// entryError classifies a failure reading one member.
func entryError(format, entry string, err error) error {
	if errors.Is(err, domain.ErrSizeExceeded) {
		return &domain.ExtractError{Kind: domain.ErrSizeExceeded, Format: format, Entry: entry}
	}
	return &domain.ExtractError{Kind: domain.ErrEntryReadFailure, Format: format, Entry: entry, Err: err}
}
