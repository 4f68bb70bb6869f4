package buffer

import util "github.com/yiqi2022/cmu15445/internal/utils"

// BasicPageGuard holds a pin on a frame without taking its latch. A guard
// built from a nil frame ("no frame available") makes Drop a no-op —
// callers still get a guard back and can defer its Drop unconditionally.
type BasicPageGuard struct {
	pool    *BufferPoolManager
	frame   *Frame
	pageID  util.PageID
	dropped bool
}

// Frame exposes the wrapped frame, or nil if this guard holds none.
func (g *BasicPageGuard) Frame() *Frame {
	return g.frame
}

// PageID is the identifier of the wrapped page.
func (g *BasicPageGuard) PageID() util.PageID {
	return g.pageID
}

// Drop unpins the held frame, marking it dirty if isDirty is true.
// Idempotent: dropping an already-dropped or nil-frame guard is a no-op.
func (g *BasicPageGuard) Drop(isDirty bool) error {
	if g.dropped || g.frame == nil {
		g.dropped = true
		return nil
	}
	g.dropped = true
	_, err := g.pool.UnpinPage(g.pageID, isDirty, util.AccessUnknown)
	return err
}

// ReadPageGuard additionally holds the frame's read latch from
// construction until Drop.
type ReadPageGuard struct {
	basic BasicPageGuard
}

func (g *ReadPageGuard) Frame() *Frame       { return g.basic.Frame() }
func (g *ReadPageGuard) PageID() util.PageID { return g.basic.PageID() }

// Drop releases the read latch, then unpins. Never marks the page dirty:
// a reader cannot have modified it.
func (g *ReadPageGuard) Drop() error {
	if g.basic.dropped {
		return nil
	}
	if g.basic.frame != nil {
		g.basic.frame.RUnlock()
	}
	return g.basic.Drop(false)
}

// WritePageGuard additionally holds the frame's write latch from
// construction until Drop.
type WritePageGuard struct {
	basic BasicPageGuard
}

func (g *WritePageGuard) Frame() *Frame       { return g.basic.Frame() }
func (g *WritePageGuard) PageID() util.PageID { return g.basic.PageID() }

// Drop releases the write latch, then unpins, marking the page dirty: a
// writer is assumed to have modified it.
func (g *WritePageGuard) Drop() error {
	if g.basic.dropped {
		return nil
	}
	if g.basic.frame != nil {
		g.basic.frame.Unlock()
	}
	return g.basic.Drop(true)
}

// FetchPageBasic fetches pageID and wraps it in a basic guard.
func (this *BufferPoolManager) FetchPageBasic(pageID util.PageID) (*BasicPageGuard, error) {
	frame, err := this.FetchPage(pageID, util.AccessUnknown)
	if err != nil {
		return nil, err
	}
	return &BasicPageGuard{pool: this, frame: frame, pageID: pageID}, nil
}

// FetchPageRead fetches pageID, then read-latches its frame. The latch is
// acquired after FetchPage returns and the pool mutex is released, per
// the concurrency model (spec §5).
func (this *BufferPoolManager) FetchPageRead(pageID util.PageID) (*ReadPageGuard, error) {
	frame, err := this.FetchPage(pageID, util.AccessUnknown)
	if err != nil {
		return nil, err
	}
	if frame != nil {
		frame.RLock()
	}
	return &ReadPageGuard{basic: BasicPageGuard{pool: this, frame: frame, pageID: pageID}}, nil
}

// FetchPageWrite fetches pageID, then write-latches its frame.
func (this *BufferPoolManager) FetchPageWrite(pageID util.PageID) (*WritePageGuard, error) {
	frame, err := this.FetchPage(pageID, util.AccessUnknown)
	if err != nil {
		return nil, err
	}
	if frame != nil {
		frame.Lock()
	}
	return &WritePageGuard{basic: BasicPageGuard{pool: this, frame: frame, pageID: pageID}}, nil
}

// NewPageGuarded allocates a fresh page and wraps it in a basic guard.
func (this *BufferPoolManager) NewPageGuarded() (*BasicPageGuard, error) {
	frame, pageID, err := this.NewPage()
	if err != nil {
		return nil, err
	}
	return &BasicPageGuard{pool: this, frame: frame, pageID: pageID}, nil
}
