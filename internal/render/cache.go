package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// maxIdlePerOptions bounds how many idle renderers are kept for one option set
const maxIdlePerOptions = 4

// renderers keeps idle glamour renderers per option set. A TermRenderer must
// not see concurrent Render calls, so every caller borrows its own.
type renderers struct {
	mu   sync.Mutex
	idle map[Options][]*glamour.TermRenderer
}

var globalPool = newRenderers()

func newRenderers() *renderers {
	return &renderers{idle: make(map[Options][]*glamour.TermRenderer)}
}

// get borrows a renderer for opts, building one when none is idle
func (r *renderers) get(opts Options) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	free, known := r.idle[opts]
	if n := len(free); n > 0 {
		tr := free[n-1]
		r.idle[opts] = free[:n-1]
		r.mu.Unlock()
		return tr, nil
	}
	r.mu.Unlock()

	tr, err := createRenderer(opts)
	if err != nil {
		return nil, err
	}
	if !known {
		r.mu.Lock()
		if _, ok := r.idle[opts]; !ok {
			r.idle[opts] = nil
		}
		r.mu.Unlock()
	}
	return tr, nil
}

// put hands a borrowed renderer back
func (r *renderers) put(opts Options, tr *glamour.TermRenderer) {
	if tr == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.idle[opts]) < maxIdlePerOptions {
		r.idle[opts] = append(r.idle[opts], tr)
	}
}

// createRenderer builds a TermRenderer for opts. The style is either a
// built-in name ("dark", "light") or a path to a JSON style file.
func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(true),
		glamour.WithEmoji(),
		glamour.WithPreservedNewLines(),
	)
}

// ClearCache drops every idle renderer.
func ClearCache() {
	globalPool.mu.Lock()
	globalPool.idle = make(map[Options][]*glamour.TermRenderer)
	globalPool.mu.Unlock()
}

// CacheSize returns how many distinct option sets have been rendered with.
func CacheSize() int {
	globalPool.mu.Lock()
	defer globalPool.mu.Unlock()
	return len(globalPool.idle)
}
