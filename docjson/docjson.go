// Package docjson implements an order-preserving JSON document tree.
//
// encoding/json decodes objects into unordered maps, which loses the key
// order of manifest files and makes re-serialized output unstable. This
// package decodes into an explicit tagged-union Value instead, keeping
// object keys in their stored order and numbers in their source form, so
// a document can be read, selectively rewritten, and written back with
// only the intended fields changed.
//
// Output is pretty-printed with a caller-chosen indent width and non-ASCII
// text is written literally (never \u-escaped), matching the historical
// formatting of the files this tool rewrites.
package docjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindNumber
	KindBool
	KindNull
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	}
	return "invalid"
}

// Value is one node of a document tree. Exactly one variant is populated,
// selected by Kind.
type Value struct {
	kind Kind

	str     string
	num     json.Number
	boolean bool

	items []*Value // KindArray

	keys  []string          // KindObject, stored key order
	props map[string]*Value // KindObject
}

// Kind returns the variant this value holds.
func (v *Value) Kind() Kind { return v.kind }

// NewString returns a string value.
func NewString(s string) *Value {
	return &Value{kind: KindString, str: s}
}

// NewObject returns an empty object value.
func NewObject() *Value {
	return &Value{kind: KindObject, props: make(map[string]*Value)}
}

// NewArray returns an array value holding the given items.
func NewArray(items ...*Value) *Value {
	return &Value{kind: KindArray, items: items}
}

// String returns the string variant. Valid only for KindString.
func (v *Value) String() string { return v.str }

// SetString replaces the string variant in place. Valid only for KindString.
func (v *Value) SetString(s string) { v.str = s }

// Bool returns the bool variant.
func (v *Value) Bool() bool { return v.boolean }

// Number returns the number variant in its original source form.
func (v *Value) Number() json.Number { return v.num }

// Items returns the array elements in order. The slice is shared, not a copy.
func (v *Value) Items() []*Value { return v.items }

// Keys returns the object keys in their stored order.
func (v *Value) Keys() []string { return v.keys }

// Get returns the value stored under key, or nil.
func (v *Value) Get(key string) *Value { return v.props[key] }

// Set stores a value under key, appending the key to the order if new.
func (v *Value) Set(key string, val *Value) {
	if v.props == nil {
		v.props = make(map[string]*Value)
	}
	if _, ok := v.props[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.props[key] = val
}

// Len returns the number of object keys or array elements.
func (v *Value) Len() int {
	if v.kind == KindObject {
		return len(v.keys)
	}
	return len(v.items)
}

// ---------------------------------------------------------------------------
// Decoding
// ---------------------------------------------------------------------------

// ParseFile reads and parses a JSON document from disk.
func ParseFile(path string) (*Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return v, nil
}

// Parse parses a JSON document, preserving object key order.
func Parse(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t.String())
	case string:
		return &Value{kind: KindString, str: t}, nil
	case json.Number:
		return &Value{kind: KindNumber, num: t}, nil
	case bool:
		return &Value{kind: KindBool, boolean: t}, nil
	case nil:
		return &Value{kind: KindNull}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func parseObject(dec *json.Decoder) (*Value, error) {
	obj := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		val, err := parseValue(dec)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		obj.Set(key, val)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func parseArray(dec *json.Decoder) (*Value, error) {
	arr := &Value{kind: KindArray}
	for dec.More() {
		val, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		arr.items = append(arr.items, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

// ---------------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------------

// Marshal renders the tree as pretty-printed JSON with the given indent
// width, preserving key order and writing non-ASCII text literally.
func (v *Value) Marshal(indent int) []byte {
	var b strings.Builder
	encode(&b, v, indent, 0)
	b.WriteByte('\n')
	return []byte(b.String())
}

// WriteFile serializes the tree and writes it to path in full.
func (v *Value) WriteFile(path string, indent int) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}
	if err := os.WriteFile(path, v.Marshal(indent), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func encode(b *strings.Builder, v *Value, indent, depth int) {
	switch v.kind {
	case KindObject:
		if len(v.keys) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteByte('{')
		for i, key := range v.keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
			pad(b, indent, depth+1)
			b.WriteString(Quote(key))
			b.WriteString(": ")
			encode(b, v.props[key], indent, depth+1)
		}
		b.WriteByte('\n')
		pad(b, indent, depth)
		b.WriteByte('}')
	case KindArray:
		if len(v.items) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
			pad(b, indent, depth+1)
			encode(b, item, indent, depth+1)
		}
		b.WriteByte('\n')
		pad(b, indent, depth)
		b.WriteByte(']')
	case KindString:
		b.WriteString(Quote(v.str))
	case KindNumber:
		b.WriteString(string(v.num))
	case KindBool:
		if v.boolean {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindNull:
		b.WriteString("null")
	}
}

func pad(b *strings.Builder, indent, depth int) {
	for i := 0; i < indent*depth; i++ {
		b.WriteByte(' ')
	}
}

// Quote returns the JSON string literal for s. Unlike json.Marshal it never
// escapes HTML characters or non-ASCII runes; only the characters JSON
// requires escaping (quote, backslash, controls) are escaped.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
