// Package translate implements the translation engine: it resolves single
// strings through the dictionary cache and the AI provider, and drives the
// per-document count → walk → write-back flow.
//
// Failure containment is the central design rule. A provider failure for
// one string leaves that string untranslated and the run moving; only two
// things change control flow at the run level — startup preconditions
// (credential, primary document) and an explicit interrupt, which unwinds
// the walk through context cancellation so the partially translated tree
// is never written back.
package translate

import (
	"context"
	"errors"
	"strings"

	"github.com/vsix-tools/extloc/dictionary"
	"github.com/vsix-tools/extloc/progress"
)

// Run-level failures.
var (
	// ErrMissingCredential is returned before any document is touched
	// when no API key can be resolved.
	ErrMissingCredential = errors.New("no API key available")
	// ErrMissingDocument is returned when a primary document does not exist.
	ErrMissingDocument = errors.New("document not found")
)

// Provider is the surface the engine needs from an AI backend: translate
// one string. Implementations classify their own failures; the engine
// only distinguishes context cancellation from everything else.
type Provider interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Translator resolves one string at a time against the dictionary and
// the provider, reporting every leaf to the progress bar.
type Translator struct {
	dict     *dictionary.Dictionary
	provider Provider
	bar      *progress.Bar
	onWarn   func(format string, args ...any)
}

// NewTranslator wires a translator for one document pass. onWarn receives
// per-item recoverable failures; it may be nil.
func NewTranslator(dict *dictionary.Dictionary, provider Provider, bar *progress.Bar, onWarn func(format string, args ...any)) *Translator {
	if onWarn == nil {
		onWarn = func(string, ...any) {}
	}
	return &Translator{dict: dict, provider: provider, bar: bar, onWarn: onWarn}
}

// Translate resolves a single translatable leaf.
//
// Empty or whitespace-only text passes through unchanged; the processed
// counter still advances (so the pass's update events match the count
// pass total) but neither the cache-hit nor the API-call counter moves.
// A dictionary hit returns the stored translation. On a miss the provider
// is called: success is stored write-through before returning; any
// recoverable failure is reported and the original text comes back with
// the dictionary untouched for that key.
//
// The only error ever returned is the context's own, so the walk aborts
// exactly and only on interruption.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		t.bar.Update(1, false, false)
		return text, nil
	}

	if translated, ok := t.dict.Get(text); ok {
		t.bar.Update(1, false, true)
		return translated, nil
	}

	t.bar.Update(1, true, false)

	translated, err := t.provider.Translate(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			// Interrupted mid-call: discard any partial result and
			// unwind. The dictionary is not updated for this item.
			return text, ctx.Err()
		}
		t.onWarn("translating %q: %v", snippet(text), err)
		return text, nil
	}

	if err := t.dict.Set(text, translated); err != nil {
		// The entry stays in memory; the final save retries persistence.
		t.onWarn("persisting dictionary: %v", err)
	}
	return translated, nil
}

// snippet shortens text for log lines.
func snippet(text string) string {
	const max = 50
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
