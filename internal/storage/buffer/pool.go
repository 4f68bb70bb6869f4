package buffer

import (
	"fmt"
	"sync"

	"github.com/yiqi2022/cmu15445/internal/storage/disk"
	util "github.com/yiqi2022/cmu15445/internal/utils"
)

// LogManager is acknowledged by reference only: the core never calls it.
// It exists so callers can wire a real log manager through Config without
// the buffer package needing to know its shape.
type LogManager interface{}

// Config supplies everything NewBufferPoolManager needs, once, immutably.
type Config struct {
	PoolSize   int
	ReplacerK  int
	Disk       disk.Manager
	LogManager LogManager
}

// BufferPoolManager is the frame pool manager (spec §4.1): a fixed array
// of frames, a free list, a page-id-to-frame-index map, a monotonic page
// id allocator, and a single coarse mutex held for the duration of every
// public call.
type BufferPoolManager struct {
	mu sync.Mutex

	frames     []Frame
	pageTable  map[util.PageID]util.FrameID
	freeList   []util.FrameID // frame ids known to be unused, FIFO
	replacer   Replacer
	disk       disk.Manager
	logManager LogManager

	poolSize   int
	nextPageID util.PageID
}

// NewBufferPoolManager constructs a pool of cfg.PoolSize frames.
func NewBufferPoolManager(cfg Config) *BufferPoolManager {
	if cfg.PoolSize <= 0 {
		panic(util.ErrInvalidPoolSize)
	}
	if cfg.Disk == nil {
		panic(util.ErrDiskManagerNil)
	}

	this := &BufferPoolManager{
		frames:     make([]Frame, cfg.PoolSize),
		pageTable:  make(map[util.PageID]util.FrameID, cfg.PoolSize),
		freeList:   make([]util.FrameID, cfg.PoolSize),
		replacer:   NewLRUKReplacer(cfg.PoolSize, cfg.ReplacerK),
		disk:       cfg.Disk,
		logManager: cfg.LogManager,
		poolSize:   cfg.PoolSize,
	}

	for i := range this.frames {
		this.frames[i].pageID = util.InvalidPageID
		this.freeList[i] = util.FrameID(i)
	}

	return this
}

// NewPage allocates a fresh page identifier and pins it to a frame.
// Returns a nil frame and util.InvalidPageID if the pool is exhausted.
func (this *BufferPoolManager) NewPage() (*Frame, util.PageID, error) {
	this.mu.Lock()
	defer this.mu.Unlock()

	if len(this.freeList) == 0 && this.replacer.Size() == 0 {
		return nil, util.InvalidPageID, nil
	}

	frameID, err := this.victimFrame()
	if err != nil {
		return nil, util.InvalidPageID, err
	}

	pageID := this.allocatePageID()
	frame := this.initFrame(frameID, pageID)
	this.pinFrame(frameID, frame)

	return frame, pageID, nil
}

// FetchPage returns the frame holding pageID, pinning it — reading it in
// from disk first if it isn't already resident. Returns nil if the page
// isn't resident and the pool has no frame to bring it in.
func (this *BufferPoolManager) FetchPage(pageID util.PageID, accessType util.AccessType) (*Frame, error) {
	this.mu.Lock()
	defer this.mu.Unlock()

	if frameID, ok := this.pageTable[pageID]; ok {
		frame := &this.frames[frameID]
		this.pinFrame(frameID, frame)
		return frame, nil
	}

	if len(this.freeList) == 0 && this.replacer.Size() == 0 {
		return nil, nil
	}

	frameID, err := this.victimFrame()
	if err != nil {
		return nil, err
	}
	frame := this.initFrame(frameID, pageID)
	this.pinFrame(frameID, frame)

	if err := this.disk.ReadPage(pageID, frame.Data()); err != nil {
		return nil, util.NewIoError(pageID, err)
	}
	_ = accessType

	return frame, nil
}

// UnpinPage releases one pin on pageID, marking it evictable once the pin
// count reaches zero. Returns false if the page isn't resident or was
// already unpinned. Never triggers I/O.
func (this *BufferPoolManager) UnpinPage(pageID util.PageID, isDirty bool, accessType util.AccessType) (bool, error) {
	this.mu.Lock()
	defer this.mu.Unlock()

	frameID, ok := this.pageTable[pageID]
	if !ok {
		return false, nil
	}
	frame := &this.frames[frameID]
	if frame.pinCount == 0 {
		return false, nil
	}

	frame.pinCount--
	if frame.pinCount == 0 {
		if err := this.replacer.SetEvictable(frameID, true); err != nil {
			return false, err
		}
	}
	frame.dirty = frame.dirty || isDirty

	_ = accessType
	return true, nil
}

// FlushPage writes pageID's frame to disk unconditionally and clears its
// dirty bit. Safe to call with the pool mutex already held — it does not
// acquire it itself — because the victim path calls it while evicting.
func (this *BufferPoolManager) FlushPage(pageID util.PageID) (bool, error) {
	if pageID == util.InvalidPageID {
		return false, util.NewInvalidArgument("FlushPage requires a valid page id")
	}

	frameID, ok := this.pageTable[pageID]
	if !ok {
		return false, nil
	}
	frame := &this.frames[frameID]
	if err := this.disk.WritePage(pageID, frame.Data()); err != nil {
		return false, util.NewIoError(pageID, err)
	}
	frame.dirty = false
	return true, nil
}

// FlushAllPages applies FlushPage semantics to every resident page.
func (this *BufferPoolManager) FlushAllPages() error {
	this.mu.Lock()
	defer this.mu.Unlock()

	for pageID := range this.pageTable {
		if _, err := this.FlushPage(pageID); err != nil {
			return err
		}
	}
	return nil
}

// DeletePage evicts pageID outright and returns its frame to the free
// list. Returns false if the page is pinned; true (vacuously) if it isn't
// resident at all.
func (this *BufferPoolManager) DeletePage(pageID util.PageID) (bool, error) {
	this.mu.Lock()
	defer this.mu.Unlock()

	frameID, ok := this.pageTable[pageID]
	if !ok {
		return true, nil
	}

	frame := &this.frames[frameID]
	if frame.pinCount > 0 {
		return false, nil
	}

	delete(this.pageTable, pageID)
	if err := this.replacer.Remove(frameID); err != nil {
		return false, err
	}
	frame.reset()
	this.freeList = append(this.freeList, frameID)

	this.deallocatePageID(pageID)
	return true, nil
}

// victimFrame obtains a frame to (re)use: the free list first, and only
// when it's empty, the replacer's current eviction candidate. A dirty
// victim is flushed before its slot is reassigned.
func (this *BufferPoolManager) victimFrame() (util.FrameID, error) {
	if len(this.freeList) > 0 {
		frameID := this.freeList[0]
		this.freeList = this.freeList[1:]
		return frameID, nil
	}

	frameID, ok := this.replacer.Evict()
	if !ok {
		return util.InvalidFrameID, fmt.Errorf("no evictable frame")
	}

	victim := &this.frames[frameID]
	if victim.dirty {
		if _, err := this.FlushPage(victim.pageID); err != nil {
			return util.InvalidFrameID, err
		}
	}
	delete(this.pageTable, victim.pageID)
	return frameID, nil
}

// initFrame resets frameID's contents and assigns it to pageID, ready to
// be pinned by the caller.
func (this *BufferPoolManager) initFrame(frameID util.FrameID, pageID util.PageID) *Frame {
	frame := &this.frames[frameID]
	frame.reset()
	frame.pageID = pageID
	this.pageTable[pageID] = frameID
	return frame
}

// pinFrame increments a frame's pin count and tells the replacer it is no
// longer a candidate for eviction, recording the access that earned it.
func (this *BufferPoolManager) pinFrame(frameID util.FrameID, frame *Frame) {
	frame.pinCount++
	_ = this.replacer.SetEvictable(frameID, false)
	_ = this.replacer.RecordAccess(frameID, util.AccessUnknown)
}

func (this *BufferPoolManager) allocatePageID() util.PageID {
	id := this.nextPageID
	this.nextPageID++
	return id
}

// deallocatePageID is a stub: identifiers are never recycled (spec §3, §9).
func (this *BufferPoolManager) deallocatePageID(util.PageID) {}
