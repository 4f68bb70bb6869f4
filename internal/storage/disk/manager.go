// Package disk implements the DiskManager boundary the buffer pool
// consumes: synchronous, fixed-size page reads and writes against stable
// storage. The pool treats this as an external collaborator (it never
// inspects the on-disk layout), so the only contract that matters to
// callers is the Manager interface below.
package disk

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/yiqi2022/cmu15445/internal/storage/page"
	util "github.com/yiqi2022/cmu15445/internal/utils"
)

// Manager reads and writes fixed-size pages from stable storage. Both
// methods are synchronous and may fail with an I/O error; neither retries.
type Manager interface {
	ReadPage(pageID util.PageID, buf []byte) error
	WritePage(pageID util.PageID, buf []byte) error
}

// FileManager is the concrete Manager backing the pool in production and
// in tests alike: it talks to an afero.Fs rather than the OS filesystem
// directly, so the exact same code path runs against afero.NewOsFs() on a
// real disk and afero.NewMemMapFs() under test, with no platform-specific
// branch for either.
type FileManager struct {
	fs   afero.Fs
	path string

	mu   sync.Mutex
	file afero.File
}

// NewFileManager opens (creating if absent) the backing file at path on fs.
func NewFileManager(fs afero.Fs, path string) (*FileManager, error) {
	if fs == nil {
		return nil, util.ErrDiskManagerNil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	f, err := fs.OpenFile(filepath.Clean(path), os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return &FileManager{fs: fs, path: path, file: f}, nil
}

func isZeroSlot(slot []byte) bool {
	for _, b := range slot {
		if b != 0 {
			return false
		}
	}
	return true
}

// ReadPage fills buf (len == page.PageSize) with pageID's on-disk body. A
// page never written to is read back as zero bytes, matching a freshly
// extended file's content — whether that's because the read ran past the
// end of the file, or because the slot is a zero-filled hole left behind
// by a WriteAt to a higher page id.
func (m *FileManager) ReadPage(pageID util.PageID, buf []byte) error {
	if len(buf) != page.PageSize {
		return util.ErrPageOutOfBounds
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	slot := make([]byte, page.SlotSize)
	offset := int64(pageID) * int64(page.SlotSize)

	n, err := m.file.ReadAt(slot, offset)
	if n == 0 {
		// Never-written page past the end of the file: present as a
		// zeroed body rather than surfacing an I/O error for a hole.
		clear(buf)
		return nil
	}
	if err != nil && n < len(slot) {
		return fmt.Errorf("read page %d: %w", pageID, err)
	}
	if isZeroSlot(slot) {
		// Never-written page whose slot lies before one that has been
		// written: WriteAt on a later page id left this slot as a
		// zero-filled hole rather than a serialized record. Treat it the
		// same as a never-written page rather than failing checksum
		// validation on a record that was never actually written.
		clear(buf)
		return nil
	}

	p, err := page.Deserialize(slot)
	if err != nil {
		return fmt.Errorf("read page %d: %w", pageID, err)
	}
	copy(buf, p.Data[:])
	return nil
}

// WritePage persists buf (len == page.PageSize) as pageID's on-disk body.
func (m *FileManager) WritePage(pageID util.PageID, buf []byte) error {
	if len(buf) != page.PageSize {
		return util.ErrPageOutOfBounds
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := &page.Page{Header: page.Header{PageID: pageID}}
	copy(p.Data[:], buf)

	offset := int64(pageID) * int64(page.SlotSize)
	if _, err := m.file.WriteAt(p.Serialize(), offset); err != nil {
		return fmt.Errorf("write page %d: %w", pageID, err)
	}
	return nil
}

// Close flushes and releases the backing file.
func (m *FileManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file == nil {
		return nil
	}
	syncErr := m.file.Sync()
	closeErr := m.file.Close()
	m.file = nil
	if syncErr != nil {
		return syncErr
	}
	return closeErr
}
