package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vsix-tools/extloc/dictionary"
	"github.com/vsix-tools/extloc/walk"
)

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(src), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	f, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if f.Language != "Chinese" || f.Model != "deepseek-chat" || f.Temperature != 0.3 {
		t.Errorf("provider defaults = %q %q %v", f.Language, f.Model, f.Temperature)
	}
	if f.Dictionary != dictionary.DefaultFileName {
		t.Errorf("dictionary = %q", f.Dictionary)
	}

	if len(f.Documents) != 2 {
		t.Fatalf("documents = %d, want 2", len(f.Documents))
	}
	pkg, contrib := f.Documents[0], f.Documents[1]
	if pkg.Path != "package.json" || pkg.Schema != walk.SchemaManifest || pkg.Indent != 2 || !pkg.Primary {
		t.Errorf("package.json document = %+v", pkg)
	}
	if contrib.Path != "contributions.json" || contrib.Schema != walk.SchemaContributions || contrib.Indent != 4 || contrib.Primary {
		t.Errorf("contributions.json document = %+v", contrib)
	}
}

func TestLoad_FullFile(t *testing.T) {
	dir := writeConfig(t, `
language: Japanese
model: deepseek-reasoner
temperature: 0.7
dictionary: i18n/dict.json
documents:
  - path: package.json
    schema: manifest
    primary: true
  - path: docs/extra.json
    schema: contributions
    indent: 2
`)

	f, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if f.Language != "Japanese" || f.Model != "deepseek-reasoner" || f.Temperature != 0.7 {
		t.Errorf("provider settings = %q %q %v", f.Language, f.Model, f.Temperature)
	}
	if f.Dictionary != "i18n/dict.json" {
		t.Errorf("dictionary = %q", f.Dictionary)
	}

	// Defaulted indent follows the schema; explicit indent wins.
	if f.Documents[0].Indent != 2 {
		t.Errorf("manifest indent = %d, want 2", f.Documents[0].Indent)
	}
	if f.Documents[1].Indent != 2 {
		t.Errorf("explicit indent = %d, want 2", f.Documents[1].Indent)
	}
}

func TestLoad_IndentDefaultPerSchema(t *testing.T) {
	dir := writeConfig(t, `
documents:
  - path: contributions.json
    schema: contributions
`)
	f, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if f.Documents[0].Indent != 4 {
		t.Errorf("contributions indent = %d, want 4", f.Documents[0].Indent)
	}
}

func TestLoad_UnknownSchema(t *testing.T) {
	dir := writeConfig(t, `
documents:
  - path: package.json
    schema: nonsense
`)
	if _, err := Load(dir); err == nil {
		t.Error("expected error for unknown schema")
	}
}

func TestLoad_NoDocuments(t *testing.T) {
	dir := writeConfig(t, `language: Chinese`)
	if _, err := Load(dir); err == nil {
		t.Error("expected error for empty document list")
	}
}

func TestLoad_MissingPath(t *testing.T) {
	dir := writeConfig(t, `
documents:
  - schema: manifest
`)
	if _, err := Load(dir); err == nil {
		t.Error("expected error for document without path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := writeConfig(t, "documents: [unclosed")
	if _, err := Load(dir); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
