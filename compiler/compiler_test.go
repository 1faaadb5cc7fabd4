package compiler

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const counterSource = `<template counter>
    <p>{count}</p>
</template>

<script>
export default function Counter(props, el) {
    const [count, setCount] = useState(0);
}
</script>
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	return string(data)
}

func TestCompileSourceOptions(t *testing.T) {
	got, err := CompileSource(strings.NewReader(counterSource), "Counter", Options{
		Runtime:   "/runtime/vdom.js",
		Container: "section",
	})
	if err != nil {
		t.Fatalf("CompileSource error: %v", err)
	}
	if !strings.HasPrefix(got, "import { h, Component } from \"/runtime/vdom.js\";\n") {
		t.Errorf("Unexpected import line:\n%s", got)
	}
	if !strings.Contains(got, `return (h("section", {}, [`) {
		t.Errorf("Expected section container:\n%s", got)
	}
}

func TestCompileSourceMissingMainTemplate(t *testing.T) {
	_, err := CompileSource(strings.NewReader(counterSource), "Timer", Options{})
	if !errors.Is(err, ErrMissingMainTemplate) {
		t.Errorf("Expected ErrMissingMainTemplate, got %v", err)
	}
}

func TestCompileSourceMissingConstructorAnchorLine(t *testing.T) {
	src := "<template counter><p></p></template>\n\n<script>\nconst x = 1;\nexport default function Counter(props) {\n}\n</script>\n"
	_, err := CompileSource(strings.NewReader(src), "Counter", Options{})
	if !errors.Is(err, ErrMissingConstructorAnchor) {
		t.Fatalf("Expected ErrMissingConstructorAnchor, got %v", err)
	}
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if cerr.Line != 3 {
		t.Errorf("Expected line 3 (the <script> tag), got %d", cerr.Line)
	}
	if cerr.Block != "Counter" {
		t.Errorf("Expected block 'Counter', got %q", cerr.Block)
	}
}

func TestCompileSourceUnclosedConstructorLine(t *testing.T) {
	src := "<template counter><p></p></template>\n<script>\nexport default function Counter(props, el) {\n    if (x) {\n}\n</script>\n"
	_, err := CompileSource(strings.NewReader(src), "Counter", Options{})
	var cerr *Error
	if !errors.As(err, &cerr) || !errors.Is(err, ErrMissingConstructorAnchor) {
		t.Fatalf("Expected ErrMissingConstructorAnchor, got %v", err)
	}
	if cerr.Line != 3 {
		t.Errorf("Expected line 3, got %d", cerr.Line)
	}
}

func TestCompileVerboseLogging(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Counter.vc")
	writeFile(t, path, counterSource)

	var buf bytes.Buffer
	opts := Options{Verbose: true, Logger: log.New(&buf, "", 0)}
	out, err := CompileFile(path, "", opts)
	if err != nil {
		t.Fatalf("CompileFile error: %v", err)
	}

	logged := buf.String()
	for _, want := range []string{"Counter: template blocks Counter", "Compiled " + path + " -> " + out} {
		if !strings.Contains(logged, want) {
			t.Errorf("Expected log %q, got:\n%s", want, logged)
		}
	}
	if strings.Contains(logged, "warning:") {
		t.Errorf("Expected no warnings outside dev mode, got:\n%s", logged)
	}
}

func TestCompileSourceSanitize(t *testing.T) {
	src := `<template counter><a href="javascript:alert(1)">x</a></template>`

	if _, err := CompileSource(strings.NewReader(src), "Counter", Options{}); err != nil {
		t.Fatalf("Expected no error without sanitize, got %v", err)
	}
	_, err := CompileSource(strings.NewReader(src), "Counter", Options{Sanitize: true})
	if !errors.Is(err, ErrUnsafeMarkup) {
		t.Errorf("Expected ErrUnsafeMarkup, got %v", err)
	}
}

func TestCompileSourceDevWarnings(t *testing.T) {
	src := `<template counter><p></p></template>
<template unused><p></p></template>
<style>p {}</style>
<script>export default function Counter(props, el) {}</script>
<script>console.log(1)</script>
`
	var buf bytes.Buffer
	opts := Options{DevMode: true, Logger: log.New(&buf, "", 0)}
	if _, err := CompileSource(strings.NewReader(src), "Counter", opts); err != nil {
		t.Fatalf("CompileSource error: %v", err)
	}

	logged := buf.String()
	for _, want := range []string{
		`template block "Unused" (line 2) is never used`,
		"top-level <style> (line 3) is ignored",
		"2 <script> blocks found",
	} {
		if !strings.Contains(logged, want) {
			t.Errorf("Expected warning %q, got:\n%s", want, logged)
		}
	}

	buf.Reset()
	opts.DevMode = false
	if _, err := CompileSource(strings.NewReader(src), "Counter", opts); err != nil {
		t.Fatalf("CompileSource error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no warnings outside dev mode, got:\n%s", buf.String())
	}
}

func TestCompileSourceSubBlocksReferenceEachOther(t *testing.T) {
	src := `<template list><ul><row n="{1}"></row></ul></template>
<template row><li><cell></cell></li></template>
<template cell><span>c</span></template>
<script>export default function List(props, el) {}</script>`

	got, err := CompileSource(strings.NewReader(src), "List", Options{})
	if err != nil {
		t.Fatalf("CompileSource error: %v", err)
	}
	for _, want := range []string{
		"const Row = (props) => h(\"div\", {}, [\n        h(\"li\", {}, [\n            Cell({})\n        ])\n    ]);",
		"const Cell = (props) => h(\"div\", {}, [",
		"Row({n: 1})",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, got)
		}
	}
	if strings.Index(got, "const Row") > strings.Index(got, "const Cell") {
		t.Errorf("Factories should follow document order:\n%s", got)
	}
}

func TestComponentName(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"src/Counter.vc", "Counter", false},
		{"counter.vc", "Counter", false},
		{"/a/b/todoList.vc", "TodoList", false},
		{"my-comp.vc", "", true},
		{"1st.vc", "", true},
	}
	for _, tt := range tests {
		got, err := ComponentName(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ComponentName(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ComponentName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "counter.vc")
	writeFile(t, src, counterSource)

	out, err := CompileFile(src, "", Options{})
	if err != nil {
		t.Fatalf("CompileFile error: %v", err)
	}
	if want := filepath.Join(dir, "Counter.js"); out != want {
		t.Errorf("Expected output %s, got %s", want, out)
	}
	if code := readFile(t, out); !strings.Contains(code, "this.useState(0)") {
		t.Errorf("Unexpected generated code:\n%s", code)
	}
}

func TestCompileFileNameAndOutDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "widget.vc")
	writeFile(t, src, counterSource)
	outDir := filepath.Join(dir, "dist")

	out, err := CompileFile(src, "Counter", Options{OutDir: outDir, OutExtension: ".mjs"})
	if err != nil {
		t.Fatalf("CompileFile error: %v", err)
	}
	if want := filepath.Join(outDir, "Counter.mjs"); out != want {
		t.Errorf("Expected output %s, got %s", want, out)
	}
}

func TestCompileFileErrorNamesFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Timer.vc")
	writeFile(t, src, counterSource)

	_, err := CompileFile(src, "", Options{})
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if cerr.File != src {
		t.Errorf("Expected file %s, got %s", src, cerr.File)
	}
	if _, err := os.Stat(filepath.Join(dir, "Timer.js")); !os.IsNotExist(err) {
		t.Error("No output should be written for a failing component")
	}
}

func TestCompile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Counter.vc"), counterSource)
	writeFile(t, filepath.Join(root, "widgets", "hello.vc"), "<template hello><h1>Hi</h1></template>")
	writeFile(t, filepath.Join(root, ".cache", "Broken.vc"), "<template other></template>")
	writeFile(t, filepath.Join(root, "node_modules", "Broken.vc"), "<template other></template>")
	writeFile(t, filepath.Join(root, "notes.txt"), "not a component")

	outDir := filepath.Join(t.TempDir(), "out")
	outputs, err := Compile(context.Background(), root, Options{OutDir: outDir, Workers: 2})
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	want := []string{
		filepath.Join(outDir, "Counter.js"),
		filepath.Join(outDir, "widgets", "Hello.js"),
	}
	if diff := cmp.Diff(want, outputs); diff != "" {
		t.Errorf("Outputs mismatch (-want +got):\n%s", diff)
	}
	if code := readFile(t, want[1]); !strings.Contains(code, "export default function Hello(props, el)") {
		t.Errorf("Unexpected generated code:\n%s", code)
	}
}

func TestCompileStopsOnError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Counter.vc"), counterSource)
	writeFile(t, filepath.Join(root, "Broken.vc"), "<template broken><ul>{open(</ul></template>")

	_, err := Compile(context.Background(), root, Options{})
	if !errors.Is(err, ErrUnbalancedExpression) {
		t.Errorf("Expected ErrUnbalancedExpression, got %v", err)
	}
}

func TestCompileCanceled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Counter.vc"), counterSource)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Compile(ctx, root, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestErrorContext(t *testing.T) {
	source := "one\ntwo\nthree\nfour\nfive"
	err := &Error{Kind: ErrUnbalancedExpression, Line: 3}

	got := err.Context(source)
	for _, want := range []string{"     1 | one", ">    3 | three", "     5 | five"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected context to contain %q, got:\n%s", want, got)
		}
	}
	if (&Error{Kind: ErrUnbalancedExpression}).Context(source) != "" {
		t.Error("Expected no context without a line")
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{
		Kind:    ErrUnsafeMarkup,
		File:    "Counter.vc",
		Line:    4,
		Message: "<script> is not allowed in templates",
		Hints:   []string{"move behavior into the <script> block"},
	}
	want := "Compilation Error in Counter.vc:4: unsafe markup: <script> is not allowed in templates\n  move behavior into the <script> block"
	if got := err.Error(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
