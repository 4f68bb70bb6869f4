package buffer

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/yiqi2022/cmu15445/internal/storage/disk"
	util "github.com/yiqi2022/cmu15445/internal/utils"
)

func newGuardTestPool(t *testing.T) *BufferPoolManager {
	t.Helper()
	dm, err := disk.NewFileManager(afero.NewMemMapFs(), "guard-test.dat")
	require.NoError(t, err)
	t.Cleanup(func() { dm.Close() })

	return NewBufferPoolManager(Config{
		PoolSize:  3,
		ReplacerK: 2,
		Disk:      dm,
	})
}

func TestNewPageGuardedDropUnpins(t *testing.T) {
	pool := newGuardTestPool(t)

	g, err := pool.NewPageGuarded()
	require.NoError(t, err)
	require.NotNil(t, g.Frame())

	require.NoError(t, g.Drop(false))

	ok, err := pool.UnpinPage(g.PageID(), false, util.AccessUnknown)
	require.NoError(t, err)
	require.False(t, ok, "guard's Drop already released the only pin")
}

func TestBasicPageGuardDropIsIdempotent(t *testing.T) {
	pool := newGuardTestPool(t)
	g, err := pool.NewPageGuarded()
	require.NoError(t, err)

	require.NoError(t, g.Drop(false))
	require.NoError(t, g.Drop(false), "dropping twice must not double-unpin")
}

func TestFetchPageReadHoldsAndReleasesReadLatch(t *testing.T) {
	pool := newGuardTestPool(t)
	created, err := pool.NewPageGuarded()
	require.NoError(t, err)
	pageID := created.PageID()
	require.NoError(t, created.Drop(false))

	g, err := pool.FetchPageRead(pageID)
	require.NoError(t, err)
	require.NotNil(t, g.Frame())
	frame := g.Frame()
	require.False(t, frame.latch.TryLock(), "read latch is held until Drop")

	require.NoError(t, g.Drop())
	require.True(t, frame.latch.TryLock(), "Drop released the read latch")
	frame.latch.Unlock()
}

func TestFetchPageWriteMarksFrameDirtyOnDrop(t *testing.T) {
	pool := newGuardTestPool(t)
	created, err := pool.NewPageGuarded()
	require.NoError(t, err)
	pageID := created.PageID()
	require.NoError(t, created.Drop(false))

	g, err := pool.FetchPageWrite(pageID)
	require.NoError(t, err)
	copy(g.Frame().Data(), []byte("written through guard"))
	require.NoError(t, g.Drop())
	require.True(t, g.Frame().IsDirty(), "write guard's Drop marks the page dirty")

	ok, err := pool.FlushPage(pageID)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFetchPageBasicOnExhaustedPinnedPoolReturnsNilFrameSafely(t *testing.T) {
	pool := newGuardTestPool(t)
	for i := 0; i < 3; i++ {
		_, _, err := pool.NewPage()
		require.NoError(t, err)
	}

	g, err := pool.FetchPageBasic(util.PageID(999))
	require.NoError(t, err)
	require.Nil(t, g.Frame(), "pool exhausted and pinned: FetchPage reports no frame")

	// Dropping a guard with no frame must be a safe no-op.
	require.NoError(t, g.Drop(false))
}
