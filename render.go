package jsondoc

import (
	"sync/atomic"
	"weak"

	"github.com/cybergodev/jsondoc/internal"
)

// DefaultRenderRetention is the number of rendered container texts kept
// strongly reachable by default.
const DefaultRenderRetention = 1024

var retention atomic.Pointer[internal.RetainRing]

func init() {
	retention.Store(internal.NewRetainRing(DefaultRenderRetention))
}

// SetRenderRetention resizes the ring of strongly held rendered texts.
// Containers cache their text behind a weak pointer; a text stays cached while
// it is among the last n retained renders or otherwise reachable. Zero
// disables retention, leaving the cache purely GC-tied.
func SetRenderRetention(n int) {
	old := retention.Swap(internal.NewRetainRing(n))
	old.Clear()
}

// RetentionStats reports usage of the render retention ring.
type RetentionStats = internal.RetainStats

// RenderRetentionStats reports usage of the retention ring
func RenderRetentionStats() RetentionStats {
	return retention.Load().Stats()
}

// textCache holds a reclaimable rendering of an immutable container. The
// pointer is only ever stored after the text is complete, and a collected
// entry is recomputed to the identical string on the next load.
type textCache struct {
	ref atomic.Pointer[weak.Pointer[string]]
}

// peek returns the cached text if it is still alive
func (c *textCache) peek() (string, bool) {
	wp := c.ref.Load()
	if wp == nil {
		return "", false
	}
	if s := wp.Value(); s != nil {
		return *s, true
	}
	return "", false
}

// load returns the cached text, rendering and caching it on a miss
func (c *textCache) load(hint int, render func(*internal.Writer)) string {
	if s, ok := c.peek(); ok {
		return s
	}

	w := internal.GetWriter(hint)
	render(w)
	text := new(string)
	*text = w.String()
	internal.PutWriter(w)

	wp := weak.Make(text)
	c.ref.Store(&wp)
	retention.Load().Retain(text)
	return *text
}
