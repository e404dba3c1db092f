package application

import (
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// boardCache keeps recently computed lane layouts so repeated board reads
// skip the detector while the appointment collection remains unchanged. Any
// mutation invalidates the whole cache.
type boardCache struct {
	cache *lru.Cache[string, BoardView]
}

func newBoardCache(size int) *boardCache {
	if size <= 0 {
		size = 128
	}
	cache, err := lru.New[string, BoardView](size)
	if err != nil {
		return &boardCache{}
	}
	return &boardCache{cache: cache}
}

func (c *boardCache) Get(key string) (BoardView, bool) {
	if c == nil || c.cache == nil {
		return BoardView{}, false
	}
	view, ok := c.cache.Get(key)
	if !ok {
		return BoardView{}, false
	}
	return cloneBoardView(view), true
}

func (c *boardCache) Store(key string, view BoardView) {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Add(key, cloneBoardView(view))
}

func (c *boardCache) Invalidate() {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Purge()
}

func cloneBoardView(view BoardView) BoardView {
	cloned := view
	if len(view.Entries) > 0 {
		cloned.Entries = make([]BoardEntry, len(view.Entries))
		copy(cloned.Entries, view.Entries)
	}
	return cloned
}

func buildBoardCacheKey(params BoardParams) string {
	builder := strings.Builder{}
	builder.WriteString(params.ResourceID)
	builder.WriteString("|")
	if params.StartsAfter != nil {
		builder.WriteString(params.StartsAfter.UTC().Format(time.RFC3339Nano))
	}
	builder.WriteString("|")
	if params.EndsBefore != nil {
		builder.WriteString(params.EndsBefore.UTC().Format(time.RFC3339Nano))
	}
	builder.WriteString("|")
	if params.Day != nil {
		builder.WriteString(params.Day.Format("2006-01-02"))
	}
	return builder.String()
}
