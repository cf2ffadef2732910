// Package testutil builds archive fixtures for tests.
package testutil

import (
	"archive/tar"
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

// Bzip2 fixtures; the standard library has no bzip2 writer.
var (
	//go:embed testdata/hello.txt.bz2
	HelloBzip2 []byte // "hello bzip2\n"

	//go:embed testdata/bundle.tar.bz2
	BundleTarBzip2 []byte // nested/leaf.txt: "leaf from bzip2 tar\n"

	//go:embed testdata/corrupt.bz2
	CorruptBzip2 []byte
)

// Entry is one archive member. A Name ending in "/" is a directory.
type Entry struct {
	Name string
	Data []byte
}

// File is shorthand for a regular file entry.
func File(name, content string) Entry {
	return Entry{Name: name, Data: []byte(content)}
}

// Dir is shorthand for a directory entry.
func Dir(name string) Entry {
	return Entry{Name: name}
}

// Zip builds a zip archive. Entries are stored uncompressed so tests can
// locate and corrupt their bytes.
func Zip(t *testing.T, entries ...Entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: zip.Store})
		require.NoError(t, err)
		if len(e.Data) > 0 {
			_, err = w.Write(e.Data)
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// Tar builds a ustar archive.
func Tar(t *testing.T, entries ...Entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.Name, Mode: 0o644, Size: int64(len(e.Data)), Typeflag: tar.TypeReg}
		if len(e.Name) > 0 && e.Name[len(e.Name)-1] == '/' {
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0o755
			hdr.Size = 0
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if hdr.Size > 0 {
			_, err := tw.Write(e.Data)
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

// TarWithSymlink builds a tar holding one regular file and one symlink.
func TarWithSymlink(t *testing.T, file Entry, linkName, target string) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: linkName, Typeflag: tar.TypeSymlink, Linkname: target}))
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: file.Name, Mode: 0o644, Size: int64(len(file.Data)), Typeflag: tar.TypeReg}))
	_, err := tw.Write(file.Data)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

// Gzip compresses data.
func Gzip(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// Zstd compresses data.
func Zstd(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

// LZ4 compresses data as an LZ4 frame.
func LZ4(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// WriteFile writes data under a fresh temp dir and returns its path.
func WriteFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// CorruptAfter flips the first byte of needle found in data and returns
// the modified copy. Used to break one stored zip entry.
func CorruptAfter(t *testing.T, data, needle []byte) []byte {
	t.Helper()
	out := bytes.Clone(data)
	i := bytes.Index(out, needle)
	require.GreaterOrEqual(t, i, 0, "needle not found")
	out[i] ^= 0xFF
	return out
}
