package buffer

import (
	"sync"

	"github.com/yiqi2022/cmu15445/internal/storage/page"
	util "github.com/yiqi2022/cmu15445/internal/utils"
)

// Frame is one slot of the pool's fixed frame array: a page-sized buffer
// plus the bookkeeping (current page id, pin count, dirty bit) that the
// pool mutates under its own lock. Frames are allocated once, at pool
// construction, and never reallocated — their addresses are stable for
// the pool's lifetime, which is what makes a *Frame a safe thing to hand
// back through FetchPage/NewPage and the page guards.
//
// latch is orthogonal to the pool's mutex: it is acquired by the scoped
// guard wrappers after a fetch call returns, never while the pool lock is
// held.
type Frame struct {
	latch sync.RWMutex

	pageID   util.PageID
	pinCount int32
	dirty    bool
	data     [page.PageSize]byte
}

// PageID is the frame's current resident page, or util.InvalidPageID if free.
func (f *Frame) PageID() util.PageID {
	return f.pageID
}

// PinCount is the number of outstanding holders preventing eviction.
func (f *Frame) PinCount() int32 {
	return f.pinCount
}

// IsDirty reports whether the frame's buffer differs from the on-disk image.
func (f *Frame) IsDirty() bool {
	return f.dirty
}

// Data exposes the frame's page-sized buffer for reading or writing.
// Callers hold the appropriate latch (via a page guard) while touching it.
func (f *Frame) Data() []byte {
	return f.data[:]
}

func (f *Frame) reset() {
	for i := range f.data {
		f.data[i] = 0
	}
	f.pageID = util.InvalidPageID
	f.pinCount = 0
	f.dirty = false
}

// RLock/RUnlock/Lock/Unlock expose the frame's reader/writer latch to the
// ReadPageGuard/WritePageGuard constructors in guard.go. They are independent
// of the pool mutex and of pin counting.
func (f *Frame) RLock()   { f.latch.RLock() }
func (f *Frame) RUnlock() { f.latch.RUnlock() }
func (f *Frame) Lock()    { f.latch.Lock() }
func (f *Frame) Unlock()  { f.latch.Unlock() }
