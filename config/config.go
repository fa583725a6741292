// Package config — .extloc.yaml configuration file support.
//
// When a .extloc.yaml file exists in the project root it declares the
// documents to translate and the provider parameters. Without one, the
// historical defaults apply: package.json (manifest schema, primary,
// 2-space indent) and contributions.json (contributions schema, 4-space
// indent), translated to Chinese with the deepseek-chat model.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vsix-tools/extloc/dictionary"
	"github.com/vsix-tools/extloc/walk"
)

// FileName is the config file name looked up in the project root.
const FileName = ".extloc.yaml"

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// File is the top-level .extloc.yaml structure.
type File struct {
	// Language is the human-readable target language name (default "Chinese").
	Language string `yaml:"language,omitempty"`
	// Model is the provider model identifier (default "deepseek-chat").
	Model string `yaml:"model,omitempty"`
	// Temperature is the sampling temperature (default 0.3).
	Temperature float32 `yaml:"temperature,omitempty"`
	// Dictionary is the translation dictionary path, relative to the root
	// (default "translation_dictionary.json").
	Dictionary string `yaml:"dictionary,omitempty"`
	// Documents lists the files to translate.
	Documents []Document `yaml:"documents"`
}

// Document describes one file to translate.
type Document struct {
	// Path is the document location relative to the project root.
	Path string `yaml:"path"`
	// Schema selects the field selection rule: "manifest" or "contributions".
	Schema string `yaml:"schema"`
	// Indent is the JSON indent width used on write-back
	// (default 2 for manifest, 4 for contributions).
	Indent int `yaml:"indent,omitempty"`
	// Primary documents must exist; a run aborts before any work if one
	// is missing. Missing non-primary documents are skipped with a warning.
	Primary bool `yaml:"primary,omitempty"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads .extloc.yaml from rootDir and applies per-document defaults.
// A missing file yields the historical default configuration.
func Load(rootDir string) (*File, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	applyDefaults(&f)

	if len(f.Documents) == 0 {
		return nil, fmt.Errorf("%s: no documents declared", path)
	}
	for i := range f.Documents {
		d := &f.Documents[i]
		if d.Path == "" {
			return nil, fmt.Errorf("%s: document #%d has no path", path, i+1)
		}
		if _, err := walk.RuleFor(d.Schema); err != nil {
			return nil, fmt.Errorf("%s: document %q: %w", path, d.Path, err)
		}
		if d.Indent == 0 {
			d.Indent = defaultIndent(d.Schema)
		}
	}

	return &f, nil
}

// Default returns the configuration used when no .extloc.yaml exists:
// the two historical documents with their historical indentation.
func Default() *File {
	f := &File{
		Documents: []Document{
			{Path: "package.json", Schema: walk.SchemaManifest, Indent: 2, Primary: true},
			{Path: "contributions.json", Schema: walk.SchemaContributions, Indent: 4},
		},
	}
	applyDefaults(f)
	return f
}

func applyDefaults(f *File) {
	if f.Language == "" {
		f.Language = "Chinese"
	}
	if f.Model == "" {
		f.Model = "deepseek-chat"
	}
	if f.Temperature == 0 {
		f.Temperature = 0.3
	}
	if f.Dictionary == "" {
		f.Dictionary = dictionary.DefaultFileName
	}
}

func defaultIndent(schema string) int {
	if schema == walk.SchemaContributions {
		return 4
	}
	return 2
}
