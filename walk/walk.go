// Package walk locates translatable text in a manifest document tree.
//
// A Rule decides, per object key, whether the value underneath holds
// translatable text. Two rule sets exist — one for the extension manifest
// (package.json) and one for the contributions document — and each document
// is walked with exactly its own rule; the sets are never merged.
//
// Traversal order is deterministic: object keys in stored order, array
// indices ascending. Count and Translate share one traversal, so the
// count pass sees exactly the leaves the translate pass will visit,
// in the same sequence.
package walk

import (
	"fmt"

	"github.com/vsix-tools/extloc/docjson"
)

// Rule is a schema-specific field selection rule.
type Rule interface {
	// Name identifies the rule in config files and logs.
	Name() string
	// ScalarField reports whether a String value under key is a
	// translatable leaf.
	ScalarField(key string) bool
	// ListField reports whether an Array value under key holds String
	// elements to translate independently.
	ListField(key string) bool
}

// TranslateFunc resolves one translatable leaf. Returning an error aborts
// the walk; it is reserved for cancellation, not per-item failures.
type TranslateFunc func(text string) (string, error)

// Count returns the number of translatable leaves under root without
// touching the tree.
func Count(root *docjson.Value, rule Rule) int {
	n := 0
	_ = visit(root, rule, func(text string) (string, error) {
		n++
		return text, nil
	})
	return n
}

// Translate rewrites every translatable leaf under root in place with the
// result of tr, in deterministic traversal order. The first error from tr
// stops the walk and leaves the remaining leaves untouched.
func Translate(root *docjson.Value, rule Rule, tr TranslateFunc) error {
	return visit(root, rule, tr)
}

func visit(v *docjson.Value, rule Rule, tr TranslateFunc) error {
	switch v.Kind() {
	case docjson.KindObject:
		for _, key := range v.Keys() {
			child := v.Get(key)
			switch {
			case rule.ScalarField(key) && child.Kind() == docjson.KindString:
				out, err := tr(child.String())
				if err != nil {
					return err
				}
				child.SetString(out)
			case rule.ListField(key) && child.Kind() == docjson.KindArray:
				for _, item := range child.Items() {
					if item.Kind() != docjson.KindString {
						continue
					}
					out, err := tr(item.String())
					if err != nil {
						return err
					}
					item.SetString(out)
				}
			default:
				if err := visit(child, rule, tr); err != nil {
					return err
				}
			}
		}
	case docjson.KindArray:
		for _, item := range v.Items() {
			if err := visit(item, rule, tr); err != nil {
				return err
			}
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Rule sets
// ---------------------------------------------------------------------------

// Schema names accepted by RuleFor and the config file.
const (
	SchemaManifest      = "manifest"
	SchemaContributions = "contributions"
)

// manifestScalarFields are the manifest keys whose String values are
// translatable anywhere in the tree.
var manifestScalarFields = map[string]bool{
	"title":               true,
	"label":               true,
	"contents":            true,
	"displayName":         true,
	"description":         true,
	"markdownDescription": true,
}

type manifestRule struct{}

func (manifestRule) Name() string { return SchemaManifest }

func (manifestRule) ScalarField(key string) bool { return manifestScalarFields[key] }

// enumDescriptions holds one description per enum value; each String
// element is translated independently.
func (manifestRule) ListField(key string) bool { return key == "enumDescriptions" }

// contributionsScalarFields are the contributions-document keys whose
// String values are translatable. Non-string values under title and
// description fall through to the default recursion.
var contributionsScalarFields = map[string]bool{
	"label":       true,
	"name":        true,
	"contents":    true,
	"title":       true,
	"description": true,
}

type contributionsRule struct{}

func (contributionsRule) Name() string { return SchemaContributions }

func (contributionsRule) ScalarField(key string) bool { return contributionsScalarFields[key] }

func (contributionsRule) ListField(string) bool { return false }

// ManifestRule returns the field selection rule for the extension manifest.
func ManifestRule() Rule { return manifestRule{} }

// ContributionsRule returns the field selection rule for the contributions
// document.
func ContributionsRule() Rule { return contributionsRule{} }

// RuleFor resolves a schema name from the config file to its rule.
func RuleFor(schema string) (Rule, error) {
	switch schema {
	case SchemaManifest:
		return ManifestRule(), nil
	case SchemaContributions:
		return ContributionsRule(), nil
	}
	return nil, fmt.Errorf("unknown schema %q (valid: %s, %s)", schema, SchemaManifest, SchemaContributions)
}
