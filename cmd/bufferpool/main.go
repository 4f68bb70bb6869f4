// Command bufferpool is a small smoke-test harness for the buffer pool
// core: it allocates a handful of pages, writes through their frames,
// unpins them, and prints what the pool reports at each step.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/afero"

	"github.com/yiqi2022/cmu15445/internal/storage/buffer"
	"github.com/yiqi2022/cmu15445/internal/storage/disk"
	util "github.com/yiqi2022/cmu15445/internal/utils"
)

func main() {
	fs := afero.NewOsFs()
	dm, err := disk.NewFileManager(fs, "bufferpool-demo.dat")
	if err != nil {
		log.Fatalf("open disk manager: %v", err)
	}
	defer dm.Close()
	defer fs.Remove("bufferpool-demo.dat")

	pool := buffer.NewBufferPoolManager(buffer.Config{
		PoolSize:  4,
		ReplacerK: 2,
		Disk:      dm,
	})

	var pageIDs []util.PageID
	for i := 0; i < 4; i++ {
		frame, pageID, err := pool.NewPage()
		if err != nil {
			log.Fatalf("new page: %v", err)
		}
		if frame == nil {
			log.Fatal("pool unexpectedly exhausted")
		}
		copy(frame.Data(), fmt.Sprintf("page-%d-payload", pageID))
		pageIDs = append(pageIDs, pageID)
		if _, err := pool.UnpinPage(pageID, true, util.AccessUnknown); err != nil {
			log.Fatalf("unpin: %v", err)
		}
		fmt.Printf("allocated page %d\n", pageID)
	}

	for _, pageID := range pageIDs {
		g, err := pool.FetchPageRead(pageID)
		if err != nil {
			log.Fatalf("fetch page %d: %v", pageID, err)
		}
		fmt.Printf("page %d content: %q\n", pageID, g.Frame().Data()[:20])
		if err := g.Drop(); err != nil {
			log.Fatalf("drop guard: %v", err)
		}
	}

	if err := pool.FlushAllPages(); err != nil {
		log.Fatalf("flush all: %v", err)
	}

	fmt.Println("done")
	os.Exit(0)
}
