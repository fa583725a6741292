package translate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vsix-tools/extloc/dictionary"
	"github.com/vsix-tools/extloc/docjson"
	"github.com/vsix-tools/extloc/progress"
	"github.com/vsix-tools/extloc/walk"
)

// Document is one file to translate, with its resolved rule and
// write-back formatting.
type Document struct {
	// Path is the document's storage location.
	Path string
	// Rule is the field selection rule for this document's schema.
	Rule walk.Rule
	// Indent is the JSON indent width used on write-back.
	Indent int
	// Primary documents must exist before any work starts.
	Primary bool
}

// Options controls a run.
type Options struct {
	// Dictionary is the run's cache, owned by the caller so the interrupt
	// path can reach the same instance.
	Dictionary *dictionary.Dictionary
	// Provider resolves cache misses.
	Provider Provider
	// Plain suppresses the live progress bar (CI / non-interactive).
	Plain bool
	// OnLog receives informational messages.
	OnLog func(format string, args ...any)
	// OnWarn receives non-fatal problems (skipped documents, per-item
	// provider failures).
	OnWarn func(format string, args ...any)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) warn(format string, args ...any) {
	if o.OnWarn != nil {
		o.OnWarn(format, args...)
	}
}

// Stats aggregates the counters of a completed run.
type Stats struct {
	Processed int
	APICalls  int
	CacheHits int
}

func (s *Stats) add(bar *progress.Bar) {
	s.Processed += bar.Current()
	s.APICalls += bar.APICalls()
	s.CacheHits += bar.CacheHits()
}

// Run translates each document in order.
//
// Every primary document is checked before the first provider call, so a
// missing one aborts with no work done. Per document: a read-only count
// pass sizes the progress bar, the translate pass rewrites the tree, and
// only after the whole pass completes is the file rewritten in full — an
// interrupted pass leaves the file byte-identical to its pre-run state,
// with only the dictionary advanced. The dictionary is saved once more at
// the end (a no-op on top of write-through, kept for symmetry with the
// interrupt path).
func Run(ctx context.Context, docs []Document, opts Options) (Stats, error) {
	var stats Stats

	for _, doc := range docs {
		if !doc.Primary {
			continue
		}
		if _, err := os.Stat(doc.Path); err != nil {
			return stats, fmt.Errorf("%w: %s", ErrMissingDocument, doc.Path)
		}
	}

	for _, doc := range docs {
		if err := runDocument(ctx, doc, &opts, &stats); err != nil {
			return stats, err
		}
	}

	return stats, opts.Dictionary.Save()
}

func runDocument(ctx context.Context, doc Document, opts *Options, stats *Stats) error {
	root, err := docjson.ParseFile(doc.Path)
	if err != nil {
		if os.IsNotExist(err) && !doc.Primary {
			opts.warn("file not found, skipping: %s", doc.Path)
			return nil
		}
		return err
	}

	opts.log("Translating: %s", doc.Path)

	total := walk.Count(root, doc.Rule)
	if total == 0 {
		opts.log("  nothing to translate")
		return nil
	}

	// Display only: the dictionary may hold entries from other documents,
	// so this over-counts. Never used to skip work.
	remaining := total - opts.Dictionary.Len()
	if remaining < 0 {
		remaining = 0
	}
	opts.log("  translatable fields: %d | dictionary entries: %d | remaining (approx.): %d",
		total, opts.Dictionary.Len(), remaining)

	bar := progress.New(total, fmt.Sprintf("  %s:", filepath.Base(doc.Path)), opts.Plain)
	tr := NewTranslator(opts.Dictionary, opts.Provider, bar, opts.OnWarn)

	err = walk.Translate(root, doc.Rule, func(text string) (string, error) {
		return tr.Translate(ctx, text)
	})
	bar.Finish()
	stats.add(bar)
	if err != nil {
		// Interrupted: the file stays untouched.
		return err
	}

	if err := root.WriteFile(doc.Path, doc.Indent); err != nil {
		return err
	}

	opts.log("  done: %d processed | API: %d | cached: %d",
		bar.Current(), bar.APICalls(), bar.CacheHits())
	return nil
}
