// Package compiler turns single-file components into JavaScript modules.
//
// A component source holds one or more <template KEY> blocks and a <script>
// behavior block. The block whose key matches the component name is
// compiled into a nested h(tag, {attrs}, [children]) expression; the other
// blocks become sub-component factories. Both are woven into the
// constructor function of the behavior block.
package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vcrobe/vcc/markup"
	"github.com/vcrobe/vcc/vdom"
)

// CompileDocument compiles a parsed component into module code.
// name is the component name; it selects the main template block.
func CompileDocument(doc *markup.Document, name string, opts Options) (string, error) {
	opts = opts.withDefaults()

	blocks, err := classifyTemplates(doc.Templates, name, opts.Container)
	if err != nil {
		return "", err
	}
	opts.infof("%s: template blocks %s", name, strings.Join(blocks.Keys(), ", "))

	if opts.Sanitize {
		if err := validateTemplate(blocks.Main.Node, blocks.Main.Key); err != nil {
			return "", err
		}
		for _, sub := range blocks.Subs {
			if err := validateTemplate(sub.Node, sub.Key); err != nil {
				return "", err
			}
		}
	}

	registry := NewRegistry()
	for _, sub := range blocks.Subs {
		registry.Set(sub.Key, "")
	}
	used := make(map[string]bool)

	mainExpr, err := compileBlock(blocks.Main, registry, used, opts)
	if err != nil {
		return "", err
	}
	for _, sub := range blocks.Subs {
		expr, err := compileBlock(sub, registry, used, opts)
		if err != nil {
			return "", err
		}
		registry.Set(sub.Key, expr)
	}

	for _, sub := range blocks.Subs {
		if !used[sub.Key] {
			opts.warnf("%s: template block %q (line %d) is never used", name, sub.Key, sub.Line)
		}
	}
	for _, other := range doc.Others {
		opts.warnf("%s: top-level <%s> (line %d) is ignored", name, other.Tag, other.Line)
	}

	code, scriptLine := defaultBehavior(name), 0
	switch len(doc.Scripts) {
	case 0:
		opts.warnf("%s: no <script> block, using an empty constructor", name)
	default:
		if len(doc.Scripts) > 1 {
			opts.warnf("%s: %d <script> blocks found, only the first (line %d) is used", name, len(doc.Scripts), doc.Scripts[0].Line)
		}
		code, scriptLine = doc.Scripts[0].Text, doc.Scripts[0].Line
	}

	out, err := weave(code, mainExpr, registry, opts.Hooks)
	if err != nil {
		var cerr *Error
		if errors.As(err, &cerr) {
			cerr.Block = name
			if cerr.Line > 0 && scriptLine > 0 {
				cerr.Line += scriptLine - 1
			} else if cerr.Line == 0 {
				cerr.Line = scriptLine
			}
		}
		return "", err
	}

	return importLine(opts.Runtime) + out, nil
}

// compileBlock compiles one normalized template block, recording which
// sub-components it references.
func compileBlock(b *templateBlock, registry *Registry, used map[string]bool, opts Options) (string, error) {
	c := &templateCompiler{block: b.Key, registry: registry, used: used, opts: opts}
	return c.compile(b.Node, 1)
}

// CompileSource parses and compiles one component source.
func CompileSource(r io.Reader, name string, opts Options) (string, error) {
	doc, err := markup.ParseDocument(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse component %s: %w", name, err)
	}
	return CompileDocument(doc, name, opts)
}

// ComponentName derives the component name from a source path: the base
// name without extension, with its first letter upper-cased.
func ComponentName(path string) (string, error) {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	if !vdom.IsIdentifier(name) {
		return "", fmt.Errorf("component name %q derived from %s is not a valid identifier", name, path)
	}
	return name, nil
}

// OutputPath returns where the generated code for the source at path is
// written. root is the directory path was discovered under; it keeps the
// relative layout when opts.OutDir is set.
func OutputPath(root, path, name string, opts Options) (string, error) {
	opts = opts.withDefaults()
	file := name + opts.OutExtension
	if opts.OutDir == "" {
		return filepath.Join(filepath.Dir(path), file), nil
	}
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = "."
	}
	return filepath.Join(opts.OutDir, rel, file), nil
}

// CompileFile compiles the component at path and writes the generated code.
// An empty name derives it from the file name. It returns the output path.
func CompileFile(path, name string, opts Options) (string, error) {
	return CompileFileInRoot(filepath.Dir(path), path, name, opts)
}

// CompileFileInRoot is CompileFile for a source discovered under root, so
// that its directory relative to root is kept under opts.OutDir.
func CompileFileInRoot(root, path, name string, opts Options) (string, error) {
	opts = opts.withDefaults()

	if name == "" {
		var err error
		if name, err = ComponentName(path); err != nil {
			return "", err
		}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read component %s: %w", path, err)
	}

	code, err := CompileSource(bytes.NewReader(src), name, opts)
	if err != nil {
		return "", withFile(err, path)
	}

	outPath, err := OutputPath(root, path, name, opts)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(code), 0o644); err != nil {
		return "", fmt.Errorf("failed to write generated file %s: %w", outPath, err)
	}

	opts.infof("Compiled %s -> %s", path, outPath)
	return outPath, nil
}

// Compile discovers every component source under root and compiles them
// concurrently, writing the generated code next to each source or under
// opts.OutDir. The first failure cancels the remaining work.
func Compile(ctx context.Context, root string, opts Options) ([]string, error) {
	opts = opts.withDefaults()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", root, err)
	}

	sources, err := discoverComponents(absRoot, opts.Extension)
	if err != nil {
		return nil, fmt.Errorf("failed to discover components: %w", err)
	}
	opts.infof("Discovered %d component files in %s.", len(sources), absRoot)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	outputs := make([]string, len(sources))
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := CompileFileInRoot(absRoot, src, "", opts)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(outputs)
	return outputs, nil
}
