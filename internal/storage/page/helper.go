package page

import (
	util "github.com/yiqi2022/cmu15445/internal/utils"
)

// NewTestPage builds a page with the given id and body, truncating data
// that overruns the page body. Intended for tests.
func NewTestPage(pageID util.PageID, data []byte) *Page {
	p := &Page{Header: Header{PageID: pageID}}
	if len(data) > len(p.Data) {
		data = data[:len(p.Data)]
	}
	copy(p.Data[:], data)
	return p
}
