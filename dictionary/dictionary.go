// Package dictionary implements the persistent translation dictionary —
// a durable mapping from source text to translated text backed by a
// pretty-printed JSON file.
//
// The dictionary is write-through: Set persists the entire mapping to disk
// before returning, so a run interrupted at any later point never loses a
// translation that was already paid for. Entries are kept in insertion
// order and non-ASCII text is stored literally, so repeated saves of the
// same state produce byte-identical files.
package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vsix-tools/extloc/docjson"
)

// DefaultFileName is the dictionary file used when none is configured.
const DefaultFileName = "translation_dictionary.json"

// Dictionary holds the source→translated mapping and its backing file.
type Dictionary struct {
	mu      sync.Mutex
	path    string
	keys    []string // insertion order
	entries map[string]string
}

// Load reads the dictionary from path. A missing file yields an empty
// dictionary, not an error; any other read or parse failure is reported.
func Load(path string) (*Dictionary, error) {
	d := &Dictionary{
		path:    path,
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	root, err := docjson.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if root.Kind() != docjson.KindObject {
		return nil, fmt.Errorf("%s: expected a JSON object, got %s", path, root.Kind())
	}

	for _, key := range root.Keys() {
		val := root.Get(key)
		if val.Kind() != docjson.KindString {
			return nil, fmt.Errorf("%s: entry %q is %s, expected string", path, key, val.Kind())
		}
		d.keys = append(d.keys, key)
		d.entries[key] = val.String()
	}

	return d, nil
}

// Path returns the backing file path.
func (d *Dictionary) Path() string { return d.path }

// Len returns the number of stored entries.
func (d *Dictionary) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.keys)
}

// Get returns the stored translation for text.
func (d *Dictionary) Get(text string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	translated, ok := d.entries[text]
	return translated, ok
}

// Exists reports whether a translation for text is stored.
func (d *Dictionary) Exists(text string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.entries[text]
	return ok
}

// Set stores a translation and synchronously persists the whole mapping.
// The entry is kept in memory even if persistence fails, so a later Save
// can retry; the error is still returned for visibility.
func (d *Dictionary) Set(text, translated string) error {
	d.mu.Lock()
	if _, ok := d.entries[text]; !ok {
		d.keys = append(d.keys, text)
	}
	d.entries[text] = translated
	d.mu.Unlock()

	return d.Save()
}

// Save rewrites the backing file in full. Idempotent: saving an unchanged
// dictionary produces an identical file.
func (d *Dictionary) Save() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.path == "" {
		return fmt.Errorf("dictionary path not set")
	}

	var b strings.Builder
	b.WriteString("{")
	for i, key := range d.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("\n  ")
		b.WriteString(docjson.Quote(key))
		b.WriteString(": ")
		b.WriteString(docjson.Quote(d.entries[key]))
	}
	if len(d.keys) > 0 {
		b.WriteByte('\n')
	}
	b.WriteString("}\n")

	if dir := filepath.Dir(d.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating dictionary directory: %w", err)
		}
	}
	if err := os.WriteFile(d.path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", d.path, err)
	}
	return nil
}
