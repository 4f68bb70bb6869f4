package buffer

import util "github.com/yiqi2022/cmu15445/internal/utils"

// Replacer decides which unpinned frame to reuse when the pool is full.
// It knows nothing about page identifiers or disk I/O — only frame ids,
// access history, and the evictable flag. Spec scopes exactly one policy
// (LRU-K), but the pool depends on this narrow interface rather than the
// concrete type, the way the teacher's BufferPool depends on its own
// Replacer interface.
type Replacer interface {
	// RecordAccess notes that frame_id was touched just now.
	RecordAccess(frameID util.FrameID, accessType util.AccessType) error

	// SetEvictable toggles whether the replacer may choose this frame as
	// a victim. Unknown frame ids are a silent no-op.
	SetEvictable(frameID util.FrameID, evictable bool) error

	// Evict selects and removes the least valuable evictable frame.
	Evict() (util.FrameID, bool)

	// Remove drops a frame's access history outright. Unknown frame ids
	// are a silent no-op; removing a non-evictable frame is an error.
	Remove(frameID util.FrameID) error

	// Size is the number of frames the replacer may currently evict.
	Size() int
}
