package page

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	util "github.com/yiqi2022/cmu15445/internal/utils"
)

const (
	// PageSize is the fixed size of a page's logical content: the unit
	// the buffer pool exchanges with the disk manager.
	PageSize = 4096

	// headerSize is the on-disk header prepended to every page slot:
	// PageID(4) + padding(4) + Checksum(8).
	headerSize = 16

	// SlotSize is a page's total footprint on disk, header included.
	SlotSize = PageSize + headerSize
)

// Page is the on-disk representation of one page: an identity, an
// integrity checksum over the body, and the body itself. It lives at the
// disk-manager boundary; the pool's in-memory frames hold only the body.
type Page struct {
	Header Header
	Data   [PageSize]byte
}

type Header struct {
	PageID   util.PageID
	Checksum uint64
}

// Serialize packs the page into a fixed-size on-disk record, computing a
// fresh checksum over the body.
func (p *Page) Serialize() []byte {
	p.Header.Checksum = xxhash.Sum64(p.Data[:])

	buf := make([]byte, SlotSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(p.Header.PageID))
	binary.LittleEndian.PutUint64(buf[8:16], p.Header.Checksum)
	copy(buf[headerSize:], p.Data[:])
	return buf
}

// Deserialize unpacks a page record and validates its checksum.
func Deserialize(data []byte) (*Page, error) {
	if len(data) != SlotSize {
		return nil, util.ErrPageOutOfBounds
	}

	p := &Page{
		Header: Header{
			PageID:   util.PageID(binary.LittleEndian.Uint32(data[0:4])),
			Checksum: binary.LittleEndian.Uint64(data[8:16]),
		},
	}
	copy(p.Data[:], data[headerSize:])

	if xxhash.Sum64(p.Data[:]) != p.Header.Checksum {
		return nil, util.ErrChecksumMismatch
	}
	return p, nil
}
