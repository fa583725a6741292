// Package progress tracks per-document translation counters and renders
// an ephemeral status bar.
//
// The counters (processed, API calls, cache hits) are the contract: one
// update event fires per translatable leaf, so a finished pass ends with
// processed equal to the count pass's total. Rendering is cosmetic — the
// bar is redrawn in place on stderr and suppressed entirely in plain
// (non-interactive) mode.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const defaultWidth = 50

// Bar tracks progress for a single document pass.
type Bar struct {
	total int
	width int
	desc  string
	out   io.Writer
	plain bool // no live redraw (CI / non-interactive)

	current   int
	apiCalls  int
	cacheHits int
}

// New returns a bar sized by the count pass total. In plain mode the bar
// never draws; counters still advance.
func New(total int, desc string, plain bool) *Bar {
	return &Bar{
		total: total,
		width: defaultWidth,
		desc:  desc,
		out:   os.Stderr,
		plain: plain,
	}
}

// SetOutput redirects rendering, primarily for tests.
func (b *Bar) SetOutput(w io.Writer) { b.out = w }

// Update advances the processed counter by n and, independently, the
// API-call or cache-hit counter, then redraws.
func (b *Bar) Update(n int, apiCall, cacheHit bool) {
	b.current += n
	if apiCall {
		b.apiCalls++
	}
	if cacheHit {
		b.cacheHits++
	}
	b.draw()
}

// Current returns the processed counter.
func (b *Bar) Current() int { return b.current }

// APICalls returns the number of provider round trips.
func (b *Bar) APICalls() int { return b.apiCalls }

// CacheHits returns the number of dictionary hits.
func (b *Bar) CacheHits() int { return b.cacheHits }

func (b *Bar) draw() {
	if b.plain {
		return
	}

	percent := 1.0
	if b.total > 0 {
		percent = float64(b.current) / float64(b.total)
	}
	filled := int(float64(b.width) * percent)
	if filled > b.width {
		filled = b.width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", b.width-filled)

	fmt.Fprintf(b.out, "\r%s [%s] %d/%d | API: %d | cached: %d",
		b.desc, bar, b.current, b.total, b.apiCalls, b.cacheHits)
}

// Finish terminates the in-place bar line.
func (b *Bar) Finish() {
	if !b.plain {
		fmt.Fprintln(b.out)
	}
}
