package extractors

import (
	"archive/tar"
	"errors"
	"io"
	"os"

	"github.com/crboyd/phantom/internal/core/domain"
)

// isRegular reports whether a tar header describes file content.
// Links, directories, devices and fifos are skipped.
func isRegular(flag byte) bool {
	switch flag {
	case tar.TypeReg, '\x00', tar.TypeCont, tar.TypeGNUSparse:
		return true
	default:
		return false
	}
}

// WalkTar visits every regular file in the tar stream r.
func WalkTar(r io.Reader, format string, budget *Budget, visit Visitor) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &domain.ExtractError{Kind: domain.ErrCorruptContainer, Format: format, Err: err}
		}

		if !isRegular(hdr.Typeflag) {
			continue
		}
		name := BaseName(hdr.Name)
		if name == "" {
			continue
		}

		data, err := budget.ReadAll(tr)
		if err != nil {
			return entryError(format, hdr.Name, err)
		}

		if err := visit(domain.ArchiveMember{Name: name, Data: data}); err != nil {
			return err
		}
	}
}

// IsTarStream reports whether the file at path, decompressed according to
// kind, begins with a valid tar header. A plain tar is always accepted; a
// compressed stream only when its first header parses.
func IsTarStream(path string, kind domain.ArchiveKind) bool {
	if kind == domain.KindTar {
		return true
	}
	if !kind.IsStream() {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	sr, err := NewStreamReader(kind, f)
	if err != nil {
		return false
	}
	defer sr.Close()

	_, err = tar.NewReader(sr).Next()
	return err == nil
}

// TarFormat names the format of a tar stream for messages, e.g. "tar+gzip".
func TarFormat(kind domain.ArchiveKind) string {
	if kind == domain.KindTar {
		return "tar"
	}
	return "tar+" + kind.String()
}
