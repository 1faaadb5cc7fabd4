package compiler

import (
	"io"
	"log"
	"strings"
)

const (
	// DefaultRuntime is the module path the generated code imports h and Component from.
	DefaultRuntime = "../vdom.js"
	// DefaultContainer is the tag template blocks are normalized to.
	DefaultContainer = "div"
	// DefaultExtension is the extension of component source files.
	DefaultExtension = ".vc"
	// DefaultOutExtension is the extension of generated files.
	DefaultOutExtension = ".js"

	// EventPrefix marks attributes whose value is emitted as code.
	EventPrefix = "on"
)

// DefaultHooks are the lifecycle hooks rewritten to members of the component instance.
var DefaultHooks = []string{"useState", "useEffect"}

// Options holds compiler-wide options, usually filled from config and CLI flags.
type Options struct {
	Runtime      string   // Import path of the h/Component runtime
	Container    string   // Tag used for normalized template blocks
	Hooks        []string // Identifiers rewritten to this.<hook>
	Sanitize     bool     // Reject unsafe markup in templates
	DevMode      bool     // Enable development mode (warnings)
	Verbose      bool     // Log every compiled file
	Extension    string   // Source file extension, e.g. ".vc"
	OutExtension string   // Generated file extension, e.g. ".js"
	OutDir       string   // Output root; empty writes next to the source
	Workers      int      // Concurrent documents in Compile; 0 means one per CPU
	Logger       *log.Logger
}

// withDefaults returns a copy of o with empty fields set to their defaults.
func (o Options) withDefaults() Options {
	if o.Runtime == "" {
		o.Runtime = DefaultRuntime
	}
	if o.Container == "" {
		o.Container = DefaultContainer
	}
	if o.Hooks == nil {
		o.Hooks = DefaultHooks
	}
	if o.Extension == "" {
		o.Extension = DefaultExtension
	}
	if o.OutExtension == "" {
		o.OutExtension = DefaultOutExtension
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
	return o
}

// infof logs progress in verbose mode only.
func (o Options) infof(format string, args ...any) {
	if o.Verbose && o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}

// warnf logs a warning in dev mode only.
func (o Options) warnf(format string, args ...any) {
	if o.DevMode && o.Logger != nil {
		o.Logger.Printf("warning: "+format, args...)
	}
}

// RegistryEntry is one sub-component: its block key and compiled expression.
type RegistryEntry struct {
	Key  string
	Expr string
}

// Registry maps block keys to compiled sub-component expressions.
// Entries keep document order; lookups ignore case because the markup
// tokenizer folds tag and attribute names to lower case.
type Registry struct {
	entries []RegistryEntry
	index   map[string]int
}

// NewRegistry creates a registry holding keys, with no compiled expressions yet.
func NewRegistry(keys ...string) *Registry {
	r := &Registry{index: make(map[string]int)}
	for _, k := range keys {
		r.Set(k, "")
	}
	return r
}

// Set adds key or replaces its expression.
func (r *Registry) Set(key, expr string) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	lk := strings.ToLower(key)
	if i, ok := r.index[lk]; ok {
		r.entries[i].Expr = expr
		return
	}
	r.index[lk] = len(r.entries)
	r.entries = append(r.entries, RegistryEntry{Key: key, Expr: expr})
}

// Lookup returns the registered key matching tag, capitalized.
func (r *Registry) Lookup(tag string) (string, bool) {
	if r == nil || len(r.entries) == 0 {
		return "", false
	}
	i, ok := r.index[strings.ToLower(capitalize(tag))]
	if !ok {
		return "", false
	}
	return r.entries[i].Key, true
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Entries returns the entries in document order.
func (r *Registry) Entries() []RegistryEntry {
	if r == nil {
		return nil
	}
	return append([]RegistryEntry(nil), r.entries...)
}
