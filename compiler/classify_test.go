package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vcrobe/vcc/markup"
)

func parseTemplates(t *testing.T, src string) []*markup.Node {
	t.Helper()
	doc, err := markup.ParseDocument(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseDocument error: %v", err)
	}
	return doc.Templates
}

func TestClassifyTemplates(t *testing.T) {
	src := `
<template item><li>{props.a}</li></template>
<template counter class="ignored"><p>{count}</p></template>
<template Row><tr></tr></template>
`
	blocks, err := classifyTemplates(parseTemplates(t, src), "Counter", "div")
	if err != nil {
		t.Fatalf("classifyTemplates error: %v", err)
	}

	if blocks.Main.Key != "Counter" {
		t.Errorf("Expected main key 'Counter', got %q", blocks.Main.Key)
	}
	if blocks.Main.Node.Tag != "div" || len(blocks.Main.Node.Attr) != 0 {
		t.Errorf("Main block not normalized: tag %q, attrs %v", blocks.Main.Node.Tag, blocks.Main.Node.Attr)
	}
	if blocks.Main.Node.Children[0].Tag != "p" {
		t.Errorf("Main block lost its children")
	}

	var subs []string
	for _, s := range blocks.Subs {
		subs = append(subs, s.Key)
	}
	if diff := cmp.Diff([]string{"Item", "Row"}, subs); diff != "" {
		t.Errorf("Sub-block keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Counter", "Item", "Row"}, blocks.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyTemplatesContainer(t *testing.T) {
	blocks, err := classifyTemplates(parseTemplates(t, `<template card><p>x</p></template>`), "Card", "section")
	if err != nil {
		t.Fatalf("classifyTemplates error: %v", err)
	}
	if blocks.Main.Node.Tag != "section" {
		t.Errorf("Expected container 'section', got %q", blocks.Main.Node.Tag)
	}
}

func TestClassifyTemplatesErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{
			name: "missing main",
			src:  `<template item><li></li></template>`,
			want: ErrMissingMainTemplate,
		},
		{
			name: "no templates",
			src:  `<script>export default function Counter(props, el) {}</script>`,
			want: ErrMissingMainTemplate,
		},
		{
			name: "unnamed",
			src:  `<template counter></template><template><p></p></template>`,
			want: ErrUnnamedTemplate,
		},
		{
			name: "duplicate ignoring case",
			src:  "<template counter></template>\n<template item></template>\n<template ITEM></template>",
			want: ErrDuplicateTemplate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := classifyTemplates(parseTemplates(t, tt.src), "Counter", "div")
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestMissingMainTemplateListsBlocks(t *testing.T) {
	_, err := classifyTemplates(parseTemplates(t, `<template item></template><template row></template>`), "Counter", "div")
	if err == nil {
		t.Fatal("Expected an error")
	}
	msg := err.Error()
	for _, want := range []string{`no template block is named "Counter"`, "[Item, Row]", "<template counter>"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected error to contain %q, got:\n%s", want, msg)
		}
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"item":    "Item",
		"ITEM":    "Item",
		"iTem":    "Item",
		"todoRow": "Todorow",
		"":        "",
		"élan":    "Élan",
	}
	for in, want := range tests {
		if got := capitalize(in); got != want {
			t.Errorf("capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry("Item", "Row")
	r.Set("Item", "h(\"li\", {}, [])")
	r.Set("Cell", "h(\"td\", {}, [])")

	if r.Len() != 3 {
		t.Fatalf("Expected 3 entries, got %d", r.Len())
	}
	var keys []string
	for _, e := range r.Entries() {
		keys = append(keys, e.Key)
	}
	if diff := cmp.Diff([]string{"Item", "Row", "Cell"}, keys); diff != "" {
		t.Errorf("Entry order mismatch (-want +got):\n%s", diff)
	}
	if r.Entries()[0].Expr != "h(\"li\", {}, [])" {
		t.Errorf("Set did not replace the expression: %q", r.Entries()[0].Expr)
	}

	if key, ok := r.Lookup("row"); !ok || key != "Row" {
		t.Errorf("Lookup(row) = %q, %v", key, ok)
	}
	if _, ok := r.Lookup("table"); ok {
		t.Error("Lookup(table) should fail")
	}

	var empty *Registry
	if _, ok := empty.Lookup("item"); ok || empty.Len() != 0 {
		t.Error("nil registry should be empty")
	}
}
