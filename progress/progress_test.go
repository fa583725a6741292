package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestCounters(t *testing.T) {
	b := New(4, "test:", true)

	b.Update(1, true, false)
	b.Update(1, false, true)
	b.Update(1, false, false) // pass-through: neither counter moves
	b.Update(1, true, false)

	if b.Current() != 4 {
		t.Errorf("current = %d, want 4", b.Current())
	}
	if b.APICalls() != 2 {
		t.Errorf("api calls = %d, want 2", b.APICalls())
	}
	if b.CacheHits() != 1 {
		t.Errorf("cache hits = %d, want 1", b.CacheHits())
	}
}

func TestDraw(t *testing.T) {
	var buf bytes.Buffer
	b := New(2, "pkg:", false)
	b.SetOutput(&buf)

	b.Update(1, true, false)
	out := buf.String()
	if !strings.HasPrefix(out, "\r") {
		t.Error("redraw does not return to line start")
	}
	if !strings.Contains(out, "1/2") {
		t.Errorf("output missing counter: %q", out)
	}
	if !strings.Contains(out, "█") || !strings.Contains(out, "░") {
		t.Errorf("output missing bar glyphs: %q", out)
	}

	buf.Reset()
	b.Update(1, false, true)
	out = buf.String()
	if !strings.Contains(out, "2/2") || !strings.Contains(out, "cached: 1") {
		t.Errorf("final redraw: %q", out)
	}
	// Full bar has no empty glyphs left.
	if strings.Contains(out, "░") {
		t.Errorf("full bar still shows empty glyphs: %q", out)
	}

	buf.Reset()
	b.Finish()
	if buf.String() != "\n" {
		t.Errorf("finish wrote %q, want newline", buf.String())
	}
}

func TestPlainModeSuppressesOutput(t *testing.T) {
	var buf bytes.Buffer
	b := New(3, "pkg:", true)
	b.SetOutput(&buf)

	b.Update(1, true, false)
	b.Update(1, false, true)
	b.Finish()

	if buf.Len() != 0 {
		t.Errorf("plain mode wrote %q", buf.String())
	}
	if b.Current() != 2 || b.APICalls() != 1 || b.CacheHits() != 1 {
		t.Error("plain mode changed counter behavior")
	}
}

func TestZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	b := New(0, "empty:", false)
	b.SetOutput(&buf)

	// Must not divide by zero.
	b.Update(1, false, false)
	if !strings.Contains(buf.String(), "1/0") {
		t.Errorf("output = %q", buf.String())
	}
}
