package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vcrobe/vcc/compiler"
	"github.com/vcrobe/vcc/config"
)

// Version is set at build time via -ldflags
var Version = "0.1.0-dev"

// errCompileFailed is returned after compile errors have been reported.
var errCompileFailed = errors.New("compilation failed")

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	flags := flag.NewFlagSet("vcc", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		configPath  = flags.String("config", "", "Path to config file")
		outDir      = flags.String("out", "", "Output directory (default: next to each source)")
		runtimePath = flags.String("runtime", "", "Import path of the vdom runtime")
		name        = flags.String("name", "", "Component name, when compiling a single file")
		devMode     = flags.Bool("dev", false, "Development mode (warnings)")
		sanitize    = flags.Bool("sanitize", false, "Reject unsafe markup in templates")
		watch       = flags.Bool("watch", false, "Recompile when sources change")
		verbose     = flags.Bool("v", false, "Print every compiled file")
		quiet       = flags.Bool("q", false, "Only print errors")
		showVersion = flags.Bool("version", false, "Show version")
		showHelp    = flags.Bool("help", false, "Show help")
	)

	if err := flags.Parse(args); err != nil {
		return err
	}

	if *showHelp {
		printUsage(stdout)
		return nil
	}

	if *showVersion {
		fmt.Fprintf(stdout, "vcc version %s\n", Version)
		return nil
	}

	// Set up signal handling for watch mode
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, configFile, err := config.LoadWithPath(*configPath, getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Apply CLI overrides
	if *outDir != "" {
		cfg.OutDir = *outDir
	}
	if *runtimePath != "" {
		cfg.Runtime = *runtimePath
	}
	if *devMode {
		cfg.Dev = true
	}
	if *sanitize {
		cfg.Sanitize = true
	}
	if *verbose {
		cfg.Logging.Verbose, cfg.Logging.Quiet = true, false
	}
	if *quiet {
		cfg.Logging.Quiet, cfg.Logging.Verbose = true, false
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	paths := flags.Args()
	if len(paths) == 0 {
		paths = []string{cfg.SrcDir}
	}
	if *name != "" {
		if len(paths) != 1 {
			return errors.New("-name requires exactly one source file")
		}
		if info, err := os.Stat(paths[0]); err == nil && info.IsDir() {
			return fmt.Errorf("-name requires a source file, %s is a directory", paths[0])
		}
	}

	logOut := stderr
	if cfg.Logging.Quiet {
		logOut = io.Discard
	}
	b := &builder{
		opts:   cfg.CompilerOptions(log.New(logOut, "vcc: ", 0)),
		name:   *name,
		quiet:  cfg.Logging.Quiet,
		stdout: stdout,
		stderr: stderr,
	}
	if configFile != "" {
		b.opts.Logger.Printf("using config %s", configFile)
	}

	buildErr := b.buildAll(ctx, paths)
	if !*watch {
		return buildErr
	}
	// Compile errors are reported and fixed while watching.
	if buildErr != nil && !errors.Is(buildErr, errCompileFailed) {
		return buildErr
	}

	w, err := newWatcher(b, paths, cfg.Watch.Debounce)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	return w.Run(ctx)
}

// builder compiles the requested paths and reports the results.
type builder struct {
	opts   compiler.Options
	name   string // component name override for a single file
	quiet  bool
	stdout io.Writer
	stderr io.Writer
}

// buildAll compiles every path: directories with compiler.Compile, files
// with compiler.CompileFile.
func (b *builder) buildAll(ctx context.Context, paths []string) error {
	count := 0
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		if info.IsDir() {
			outputs, err := compiler.Compile(ctx, path, b.opts)
			if err != nil {
				return b.report(err)
			}
			count += len(outputs)
			continue
		}

		if _, err := compiler.CompileFile(path, b.name, b.opts); err != nil {
			return b.report(err)
		}
		count++
	}

	if !b.quiet {
		fmt.Fprintf(b.stdout, "Compiled %d component(s).\n", count)
	}
	return nil
}

// buildFile recompiles one changed source found under root.
func (b *builder) buildFile(root, path string) error {
	out, err := compiler.CompileFileInRoot(root, path, b.name, b.opts)
	if err != nil {
		return b.report(err)
	}
	if !b.quiet {
		fmt.Fprintf(b.stdout, "Compiled %s -> %s\n", path, out)
	}
	return nil
}

// report prints a compile error with the offending source lines.
func (b *builder) report(err error) error {
	var cerr *compiler.Error
	if !errors.As(err, &cerr) {
		return err
	}

	fmt.Fprintln(b.stderr, cerr.Error())
	if cerr.File != "" {
		if src, readErr := os.ReadFile(cerr.File); readErr == nil {
			fmt.Fprint(b.stderr, cerr.Context(string(src)))
		}
	}
	return errCompileFailed
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `vcc - single-file component compiler

Usage:
  vcc [options] [path ...]

Paths may be .vc files or directories, which are searched recursively.
With no path, src_dir from the config is compiled.

Options:
  -config PATH     Path to config file (default: auto-detect)
  -out DIR         Output directory (default: next to each source)
  -runtime PATH    Import path of the vdom runtime (default: ../vdom.js)
  -name NAME       Component name, when compiling a single file
  -dev             Development mode (warnings)
  -sanitize        Reject unsafe markup in templates
  -watch           Recompile when sources change
  -v               Print every compiled file
  -q               Only print errors
  -version         Show version
  -help            Show this help

Config Resolution:
  1. -config flag
  2. VCC_CONFIG environment variable
  3. ./vcc.yaml
  4. built-in defaults

Examples:
  vcc                           Compile src_dir
  vcc components/Counter.vc     Compile one component
  vcc -out dist -watch src      Compile src into dist and keep watching

`)
}
