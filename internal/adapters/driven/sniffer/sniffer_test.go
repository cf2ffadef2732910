package sniffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crboyd/phantom/internal/core/domain"
	"github.com/crboyd/phantom/internal/testutil"
)

func TestSniffBytes(t *testing.T) {
	tarData := testutil.Tar(t, testutil.File("a.txt", "abc"))

	tests := []struct {
		name string
		data []byte
		want domain.ArchiveKind
	}{
		{"zip", testutil.Zip(t, testutil.File("a.txt", "abc")), domain.KindZip},
		{"empty zip", testutil.Zip(t), domain.KindZip},
		{"tar", tarData, domain.KindTar},
		{"gzip", testutil.Gzip(t, []byte("abc")), domain.KindGzip},
		{"tar.gz is gzip", testutil.Gzip(t, tarData), domain.KindGzip},
		{"bzip2", testutil.HelloBzip2, domain.KindBzip2},
		{"zstd", testutil.Zstd(t, []byte("abc")), domain.KindZstd},
		{"lz4", testutil.LZ4(t, []byte("abc")), domain.KindLZ4},
		{"text", []byte("just some text\n"), domain.KindUnsupported},
		{"empty", nil, domain.KindUnsupported},
		{"html", []byte("<html><body>hi</body></html>"), domain.KindUnsupported},
	}
	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, mime := s.SniffBytes(tt.data)
			assert.Equal(t, tt.want, kind)
			assert.NotEmpty(t, mime)
		})
	}
}

func TestSniff_IgnoresFileName(t *testing.T) {
	s := New()
	zipData := testutil.Zip(t, testutil.File("a.txt", "abc"))

	path := testutil.WriteFile(t, "report.txt", zipData)
	kind, mime, err := s.Sniff(path)
	require.NoError(t, err)
	assert.Equal(t, domain.KindZip, kind)
	assert.Equal(t, "application/zip", mime)

	path = testutil.WriteFile(t, "archive.zip", []byte("plain words"))
	kind, mime, err = s.Sniff(path)
	require.NoError(t, err)
	assert.Equal(t, domain.KindUnsupported, kind)
	assert.Contains(t, mime, "text/plain")
}

func TestSniff_Idempotent(t *testing.T) {
	s := New()
	path := testutil.WriteFile(t, "x", testutil.Gzip(t, []byte("abc")))

	k1, m1, err := s.Sniff(path)
	require.NoError(t, err)
	k2, m2, err := s.Sniff(path)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.Equal(t, m1, m2)
}

func TestSniff_MissingFile(t *testing.T) {
	_, _, err := New().Sniff("/nonexistent/phantom/file")
	assert.Error(t, err)
}
