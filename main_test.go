package main

import (
	"testing"

	"github.com/vsix-tools/extloc/config"
	"github.com/vsix-tools/extloc/walk"
)

func TestAnnotation(t *testing.T) {
	tests := []struct {
		level, msg, want string
	}{
		{"info", "hello", "::info::hello"},
		{"warning", "file not found", "::warning::file not found"},
		{"error", "boom", "::error::boom"},
	}
	for _, tc := range tests {
		if got := annotation(tc.level, tc.msg); got != tc.want {
			t.Errorf("annotation(%q, %q) = %q, want %q", tc.level, tc.msg, got, tc.want)
		}
	}
}

func TestResolveDocuments(t *testing.T) {
	rootDir = t.TempDir()

	docs, err := resolveDocuments(config.Default())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("documents = %d, want 2", len(docs))
	}

	if docs[0].Rule.Name() != walk.SchemaManifest || !docs[0].Primary || docs[0].Indent != 2 {
		t.Errorf("package.json document = %+v", docs[0])
	}
	if docs[1].Rule.Name() != walk.SchemaContributions || docs[1].Primary || docs[1].Indent != 4 {
		t.Errorf("contributions.json document = %+v", docs[1])
	}
}

func TestResolveDocuments_BadSchema(t *testing.T) {
	rootDir = t.TempDir()

	cfg := &config.File{
		Documents: []config.Document{{Path: "x.json", Schema: "bad"}},
	}
	if _, err := resolveDocuments(cfg); err == nil {
		t.Error("expected error for bad schema")
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"translate", "status", "auth", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered: %v", name, err)
		}
	}

	for _, flag := range []string{"root", "ci", "verbose"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag %q not registered", flag)
		}
	}
}
