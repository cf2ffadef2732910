package services

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crboyd/phantom/internal/adapters/driven/sniffer"
	"github.com/crboyd/phantom/internal/adapters/driven/storage/memory"
	"github.com/crboyd/phantom/internal/adapters/driven/vault"
	"github.com/crboyd/phantom/internal/core/domain"
	"github.com/crboyd/phantom/internal/core/ports/driven"
	"github.com/crboyd/phantom/internal/testutil"
)

// countingSink wraps a real vault, counting Persist calls and optionally
// failing after a number of successful ones.
type countingSink struct {
	driven.StoreSink
	mu        sync.Mutex
	calls     int
	failAfter int
}

func (c *countingSink) Persist(ctx context.Context, data []byte, name, container string) (domain.StoreDescriptor, error) {
	c.mu.Lock()
	c.calls++
	n := c.calls
	c.mu.Unlock()
	if c.failAfter > 0 && n > c.failAfter {
		return domain.StoreDescriptor{}, errors.New("disk full")
	}
	return c.StoreSink.Persist(ctx, data, name, container)
}

func newTestSink(t *testing.T) *countingSink {
	t.Helper()
	v, err := vault.New(context.Background(), t.TempDir(), memory.NewVaultIndex())
	require.NoError(t, err)
	return &countingSink{StoreSink: v}
}

func newTestExtractor(sink driven.StoreSink, settings domain.ExtractSettings) *ExtractService {
	return NewExtractService(sniffer.New(), sink, settings)
}

func defaultExtractor(sink driven.StoreSink) *ExtractService {
	return newTestExtractor(sink, domain.DefaultSettings().Extract)
}

func TestExtract_ZipSkipsDirectoryMarkers(t *testing.T) {
	sink := newTestSink(t)
	path := testutil.WriteFile(t, "bundle.zip", testutil.Zip(t,
		testutil.File("a.txt", "alpha"),
		testutil.Dir("d/"),
		testutil.File("d/b.txt", "bravo"),
	))

	result, err := defaultExtractor(sink).Extract(context.Background(), path, "bundle.zip", false, "case")

	require.NoError(t, err)
	assert.Equal(t, domain.ExtractDone, result.Status)
	assert.Equal(t, []string{"a.txt", "b.txt"}, result.Names())
	assert.Equal(t, 2, sink.calls)

	data, err := os.ReadFile(result.Descriptors[1].Path)
	require.NoError(t, err)
	assert.Equal(t, "bravo", string(data))
	assert.Equal(t, "case", result.Descriptors[0].ContainerID)
}

func nestedZip(t *testing.T) []byte {
	t.Helper()
	inner := testutil.Gzip(t, testutil.Tar(t, testutil.File("deep/leaf.txt", "leaf")))
	return testutil.Zip(t, testutil.Entry{Name: "inner.tar.gz", Data: inner})
}

func TestExtract_NestedRecursive(t *testing.T) {
	sink := newTestSink(t)
	path := testutil.WriteFile(t, "outer.zip", nestedZip(t))

	result, err := defaultExtractor(sink).Extract(context.Background(), path, "outer.zip", true, "case")

	require.NoError(t, err)
	assert.Equal(t, []string{"inner.tar.gz", "leaf.txt"}, result.Names())

	data, err := os.ReadFile(result.Descriptors[1].Path)
	require.NoError(t, err)
	assert.Equal(t, "leaf", string(data))
}

func TestExtract_NestedNotRecursive(t *testing.T) {
	sink := newTestSink(t)
	path := testutil.WriteFile(t, "outer.zip", nestedZip(t))

	result, err := defaultExtractor(sink).Extract(context.Background(), path, "outer.zip", false, "case")

	require.NoError(t, err)
	assert.Equal(t, []string{"inner.tar.gz"}, result.Names())
	assert.Equal(t, 1, sink.calls)
}

func TestExtract_UnsupportedMakesNoSinkCalls(t *testing.T) {
	sink := newTestSink(t)
	path := testutil.WriteFile(t, "notes.zip", []byte("just some text\n"))

	result, err := defaultExtractor(sink).Extract(context.Background(), path, "notes.zip", true, "case")

	require.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Zero(t, sink.calls)
	assert.Empty(t, result.Descriptors)
	assert.Contains(t, DescribeExtractError(err), "Deflation of file type: text/plain")
}

func TestExtract_PartialFailureKeepsEarlierEntries(t *testing.T) {
	sink := newTestSink(t)
	data := testutil.Zip(t,
		testutil.File("first.txt", "first entry payload"),
		testutil.File("second.txt", "second entry payload"),
		testutil.File("third.txt", "third entry payload"),
	)
	path := testutil.WriteFile(t, "broken.zip", testutil.CorruptAfter(t, data, []byte("second entry payload")))

	result, err := defaultExtractor(sink).Extract(context.Background(), path, "broken.zip", false, "case")

	require.ErrorIs(t, err, domain.ErrEntryReadFailure)
	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, []string{"first.txt"}, result.Names())
	assert.FileExists(t, result.Descriptors[0].Path)
}

func TestExtract_SinkFailure(t *testing.T) {
	sink := newTestSink(t)
	sink.failAfter = 1
	path := testutil.WriteFile(t, "two.zip", testutil.Zip(t,
		testutil.File("a.txt", "a"),
		testutil.File("b.txt", "b"),
	))

	result, err := defaultExtractor(sink).Extract(context.Background(), path, "two.zip", false, "")

	require.ErrorIs(t, err, domain.ErrSinkFailure)
	var ee *domain.ExtractError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "b.txt", ee.Entry)
	assert.Len(t, result.Descriptors, 1)
}

func TestExtract_TarOverGzipWins(t *testing.T) {
	sink := newTestSink(t)
	data := testutil.Gzip(t, testutil.Tar(t, testutil.File("x/one.log", "1"), testutil.File("two.log", "2")))
	path := testutil.WriteFile(t, "logs.tgz", data)

	result, err := defaultExtractor(sink).Extract(context.Background(), path, "logs.tgz", false, "")

	require.NoError(t, err)
	assert.Equal(t, []string{"one.log", "two.log"}, result.Names())
}

func TestExtract_BzipTar(t *testing.T) {
	sink := newTestSink(t)
	path := testutil.WriteFile(t, "bundle.tar.bz2", testutil.BundleTarBzip2)

	result, err := defaultExtractor(sink).Extract(context.Background(), path, "bundle.tar.bz2", false, "")

	require.NoError(t, err)
	assert.Equal(t, []string{"leaf.txt"}, result.Names())
}

func TestExtract_SingleStreamStripsExtension(t *testing.T) {
	tests := []struct {
		name     string
		data     func(t *testing.T) []byte
		want     string
		contents string
	}{
		{"report.csv.gz", func(t *testing.T) []byte { return testutil.Gzip(t, []byte("a,b\n")) }, "report.csv", "a,b\n"},
		{"hello.txt.bz2", func(*testing.T) []byte { return testutil.HelloBzip2 }, "hello.txt", "hello bzip2\n"},
		{".profile", func(t *testing.T) []byte { return testutil.Gzip(t, []byte("x")) }, ".profile", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := newTestSink(t)
			path := testutil.WriteFile(t, "input", tt.data(t))

			result, err := defaultExtractor(sink).Extract(context.Background(), path, tt.name, false, "")

			require.NoError(t, err)
			require.Equal(t, []string{tt.want}, result.Names())
			data, err := os.ReadFile(result.Descriptors[0].Path)
			require.NoError(t, err)
			assert.Equal(t, tt.contents, string(data))
		})
	}
}

func TestExtract_SingleStreamCorrupt(t *testing.T) {
	sink := newTestSink(t)
	path := testutil.WriteFile(t, "bad.bz2", testutil.CorruptBzip2)

	_, err := defaultExtractor(sink).Extract(context.Background(), path, "bad.bz2", false, "")

	require.ErrorIs(t, err, domain.ErrStreamDecompress)
	assert.Zero(t, sink.calls)
}

func TestExtract_ExtendedFormatsOptIn(t *testing.T) {
	data := testutil.Zstd(t, []byte("zstd payload"))

	sink := newTestSink(t)
	path := testutil.WriteFile(t, "p.zst", data)
	_, err := defaultExtractor(sink).Extract(context.Background(), path, "p.zst", false, "")
	require.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Zero(t, sink.calls)

	settings := domain.DefaultSettings().Extract
	settings.ExtendedFormats = true
	result, err := newTestExtractor(sink, settings).Extract(context.Background(), path, "p.zst", false, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"p"}, result.Names())
}

func TestExtract_LZ4TarWhenExtended(t *testing.T) {
	sink := newTestSink(t)
	settings := domain.DefaultSettings().Extract
	settings.ExtendedFormats = true
	path := testutil.WriteFile(t, "x.tar.lz4", testutil.LZ4(t, testutil.Tar(t, testutil.File("f.txt", "lz4"))))

	result, err := newTestExtractor(sink, settings).Extract(context.Background(), path, "x.tar.lz4", false, "")

	require.NoError(t, err)
	assert.Equal(t, []string{"f.txt"}, result.Names())
}

func TestExtract_EmptyArchiveIsPartial(t *testing.T) {
	sink := newTestSink(t)
	path := testutil.WriteFile(t, "empty.zip", testutil.Zip(t, testutil.Dir("only/")))

	result, err := defaultExtractor(sink).Extract(context.Background(), path, "empty.zip", false, "")

	require.NoError(t, err)
	assert.Equal(t, domain.ExtractDonePartial, result.Status)
	assert.Contains(t, result.Reason, "empty.zip")
	assert.Empty(t, result.Descriptors)
}

func TestExtract_DepthLimit(t *testing.T) {
	level2 := testutil.Zip(t, testutil.File("bottom.txt", "bottom"))
	level1 := testutil.Zip(t, testutil.Entry{Name: "level2.zip", Data: level2})
	top := testutil.Zip(t, testutil.Entry{Name: "level1.zip", Data: level1})
	path := testutil.WriteFile(t, "top.zip", top)

	settings := domain.DefaultSettings().Extract
	settings.MaxDepth = 1

	sink := newTestSink(t)
	result, err := newTestExtractor(sink, settings).Extract(context.Background(), path, "top.zip", true, "")

	require.ErrorIs(t, err, domain.ErrDepthExceeded)
	assert.Equal(t, []string{"level1.zip", "level2.zip"}, result.Names())

	settings.MaxDepth = 2
	result, err = newTestExtractor(newTestSink(t), settings).Extract(context.Background(), path, "top.zip", true, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"level1.zip", "level2.zip", "bottom.txt"}, result.Names())
}

func TestExtract_SizeBudgetSpansLevels(t *testing.T) {
	inner := testutil.Zip(t, testutil.File("big.txt", string(make([]byte, 600))))
	path := testutil.WriteFile(t, "outer.zip", testutil.Zip(t, testutil.Entry{Name: "inner.zip", Data: inner}))

	settings := domain.DefaultSettings().Extract
	settings.MaxBytes = int64(len(inner)) + 100

	sink := newTestSink(t)
	result, err := newTestExtractor(sink, settings).Extract(context.Background(), path, "outer.zip", true, "")

	require.ErrorIs(t, err, domain.ErrSizeExceeded)
	assert.Equal(t, []string{"inner.zip"}, result.Names())

	result, err = newTestExtractor(sink, settings).Extract(context.Background(), path, "outer.zip", false, "")
	require.NoError(t, err, "each call gets a fresh budget")
	assert.Len(t, result.Descriptors, 1)
}

func TestExtract_CancelledContext(t *testing.T) {
	sink := newTestSink(t)
	path := testutil.WriteFile(t, "a.zip", testutil.Zip(t, testutil.File("a.txt", "a")))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := defaultExtractor(sink).Extract(ctx, path, "a.zip", false, "")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sink.calls)
}

func TestExtract_NotConfigured(t *testing.T) {
	_, err := NewExtractService(nil, nil, domain.ExtractSettings{}).Extract(context.Background(), "x", "x", false, "")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestDescribeExtractError(t *testing.T) {
	assert.Equal(t, "Deflation of file type: text/plain not supported",
		DescribeExtractError(&domain.ExtractError{Kind: domain.ErrUnsupportedFormat, Format: "text/plain"}))
	assert.Equal(t, "Archive deep.zip is nested too deeply",
		DescribeExtractError(&domain.ExtractError{Kind: domain.ErrDepthExceeded, Entry: "deep.zip"}))
	assert.Equal(t, "plain", DescribeExtractError(errors.New("plain")))
}
