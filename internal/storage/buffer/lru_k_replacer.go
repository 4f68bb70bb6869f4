package buffer

import (
	"container/list"
	"fmt"
	"sync"

	util "github.com/yiqi2022/cmu15445/internal/utils"
)

// lruKNode is one frame's access-history record. It lives in exactly one
// of the replacer's two buckets at a time; inWarm() reports which.
type lruKNode struct {
	frameID util.FrameID
	// history holds at most k timestamps, oldest first; index 0 is the
	// k-th-most-recent access once the history is full.
	history     []uint64
	evictable   bool
	coldElement *list.Element
	warmElement *list.Element
}

func (n *lruKNode) inWarm() bool {
	return n.warmElement != nil
}

// LRUKReplacer implements the LRU-K replacement policy (spec §4.2): nodes
// with fewer than k recorded accesses are always preferred for eviction
// over nodes with k or more (an "infinite" backward k-distance beats any
// finite one); among nodes with k-or-more accesses, the one whose k-th
// most recent access is oldest is evicted first.
//
// Manual node ownership mirrors the original C++ (std::list<LRUKNode*>,
// two of them) rather than raw owning pointers: container/list plus a
// frame-id-keyed map is the Go idiom for the same arena-of-nodes shape,
// and is exactly how github.com/Adarsh-Kmt's LRUReplacer in this pack
// tracks its own ordering.
type LRUKReplacer struct {
	mu sync.Mutex

	k            int
	capacity     int
	size         int // count of evictable nodes
	timestamp    uint64
	cold         *list.List // list of *lruKNode, FIFO order
	warm         *list.List // list of *lruKNode, ascending by oldest retained timestamp
	nodesByFrame map[util.FrameID]*lruKNode
}

// NewLRUKReplacer creates a replacer over num_frames frame ids, evicting
// based on each frame's k most recent accesses.
func NewLRUKReplacer(numFrames int, k int) *LRUKReplacer {
	if numFrames <= 0 {
		panic(util.ErrInvalidPoolSize)
	}
	if k <= 0 {
		panic(util.ErrInvalidReplacerK)
	}
	return &LRUKReplacer{
		k:            k,
		capacity:     numFrames,
		cold:         list.New(),
		warm:         list.New(),
		nodesByFrame: make(map[util.FrameID]*lruKNode, numFrames),
	}
}

func (r *LRUKReplacer) checkBounds(frameID util.FrameID) error {
	if frameID < 0 || int(frameID) >= r.capacity {
		return fmt.Errorf("frame %d: %w", frameID, util.ErrFrameOutOfBounds)
	}
	return nil
}

// RecordAccess appends the current timestamp to frameID's history,
// creating the node on first access, and re-files it between the cold
// and warm buckets as its history crosses the k threshold.
func (r *LRUKReplacer) RecordAccess(frameID util.FrameID, _ util.AccessType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkBounds(frameID); err != nil {
		return err
	}

	r.timestamp++
	now := r.timestamp

	node, ok := r.nodesByFrame[frameID]
	if !ok {
		node = &lruKNode{frameID: frameID, history: []uint64{now}}
		if len(node.history) < r.k {
			node.coldElement = r.cold.PushBack(node)
		} else {
			r.insertWarm(node)
		}
		r.nodesByFrame[frameID] = node
		return nil
	}

	node.history = append(node.history, now)

	switch {
	case len(node.history) < r.k:
		// still cold, no reordering needed
	case len(node.history) == r.k:
		r.cold.Remove(node.coldElement)
		node.coldElement = nil
		r.insertWarm(node)
	default:
		node.history = node.history[1:]
		r.warm.Remove(node.warmElement)
		node.warmElement = nil
		r.insertWarm(node)
	}
	return nil
}

// insertWarm re-inserts node into the warm bucket at the position that
// keeps it ascending by oldest-retained-timestamp (node.history[0]).
func (r *LRUKReplacer) insertWarm(node *lruKNode) {
	kth := node.history[0]
	for e := r.warm.Front(); e != nil; e = e.Next() {
		if e.Value.(*lruKNode).history[0] > kth {
			node.warmElement = r.warm.InsertBefore(node, e)
			return
		}
	}
	node.warmElement = r.warm.PushBack(node)
}

// SetEvictable transitions a node's evictable flag, adjusting Size() by
// exactly one when the flag actually changes.
func (r *LRUKReplacer) SetEvictable(frameID util.FrameID, evictable bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkBounds(frameID); err != nil {
		return err
	}

	node, ok := r.nodesByFrame[frameID]
	if !ok {
		return nil
	}
	if node.evictable == evictable {
		return nil
	}
	node.evictable = evictable
	if evictable {
		r.size++
	} else {
		r.size--
	}
	return nil
}

// Evict picks the current victim: the first evictable cold node in FIFO
// order, or else the first evictable warm node in ascending order of
// k-th-most-recent timestamp (largest backward k-distance first). It
// removes the node and reports the victim's frame id.
func (r *LRUKReplacer) Evict() (util.FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for e := r.cold.Front(); e != nil; e = e.Next() {
		node := e.Value.(*lruKNode)
		if node.evictable {
			r.cold.Remove(e)
			delete(r.nodesByFrame, node.frameID)
			r.size--
			return node.frameID, true
		}
	}
	for e := r.warm.Front(); e != nil; e = e.Next() {
		node := e.Value.(*lruKNode)
		if node.evictable {
			r.warm.Remove(e)
			delete(r.nodesByFrame, node.frameID)
			r.size--
			return node.frameID, true
		}
	}
	return util.InvalidFrameID, false
}

// Remove drops frameID's history outright, e.g. when its page is deleted.
// Removing a node that is not evictable is a programmer error.
func (r *LRUKReplacer) Remove(frameID util.FrameID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkBounds(frameID); err != nil {
		return err
	}

	node, ok := r.nodesByFrame[frameID]
	if !ok {
		return nil
	}
	if !node.evictable {
		return fmt.Errorf("frame %d: %w", frameID, util.ErrNonEvictableFrame)
	}

	if node.inWarm() {
		r.warm.Remove(node.warmElement)
	} else {
		r.cold.Remove(node.coldElement)
	}
	delete(r.nodesByFrame, frameID)
	r.size--
	return nil
}

// Size is the count of frames the replacer may currently evict.
func (r *LRUKReplacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}
