package disk

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/yiqi2022/cmu15445/internal/storage/page"
	util "github.com/yiqi2022/cmu15445/internal/utils"
)

func newTestManager(t *testing.T) *FileManager {
	t.Helper()
	fs := afero.NewMemMapFs()
	m, err := NewFileManager(fs, "db/test.dat")
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestWriteThenReadPageRoundTrip(t *testing.T) {
	m := newTestManager(t)

	buf := make([]byte, page.PageSize)
	copy(buf, []byte("roundtrip payload"))

	require.NoError(t, m.WritePage(util.PageID(3), buf))

	readBack := make([]byte, page.PageSize)
	require.NoError(t, m.ReadPage(util.PageID(3), readBack))
	require.Equal(t, buf, readBack)
}

func TestReadNeverWrittenPageIsZeroed(t *testing.T) {
	m := newTestManager(t)

	buf := make([]byte, page.PageSize)
	for i := range buf {
		buf[i] = 0xAA
	}
	require.NoError(t, m.ReadPage(util.PageID(99), buf))

	for _, b := range buf {
		require.Equal(t, byte(0), b)
	}
}

func TestReadWriteRejectWrongSizedBuffers(t *testing.T) {
	m := newTestManager(t)

	require.ErrorIs(t, m.WritePage(util.PageID(0), make([]byte, page.PageSize-1)), util.ErrPageOutOfBounds)
	require.ErrorIs(t, m.ReadPage(util.PageID(0), make([]byte, page.PageSize+1)), util.ErrPageOutOfBounds)
}

func TestReadHoleLeftByAHigherWriteIsZeroedNotAChecksumError(t *testing.T) {
	m := newTestManager(t)

	// Writing page 5 without ever writing page 0 leaves page 0's slot as
	// a zero-filled hole inside the file, not past its end.
	higher := make([]byte, page.PageSize)
	copy(higher, []byte("lives at a high offset"))
	require.NoError(t, m.WritePage(util.PageID(5), higher))

	buf := make([]byte, page.PageSize)
	for i := range buf {
		buf[i] = 0xAA
	}
	require.NoError(t, m.ReadPage(util.PageID(0), buf))

	for _, b := range buf {
		require.Equal(t, byte(0), b)
	}
}

func TestMultiplePagesDoNotOverlap(t *testing.T) {
	m := newTestManager(t)

	a := make([]byte, page.PageSize)
	copy(a, []byte("page-a"))
	b := make([]byte, page.PageSize)
	copy(b, []byte("page-b"))

	require.NoError(t, m.WritePage(util.PageID(0), a))
	require.NoError(t, m.WritePage(util.PageID(1), b))

	gotA := make([]byte, page.PageSize)
	gotB := make([]byte, page.PageSize)
	require.NoError(t, m.ReadPage(util.PageID(0), gotA))
	require.NoError(t, m.ReadPage(util.PageID(1), gotB))

	require.Equal(t, a, gotA)
	require.Equal(t, b, gotB)
}
