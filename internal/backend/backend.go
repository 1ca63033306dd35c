// Package backend defines the registration surface every code-emission
// target implements, and the lookup/listing the driver uses to find one
// by name. The core never imports a concrete backend; backends import
// this package and self-register from their own init().
package backend

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/vexel-lang/vexel/internal/ast"
	"github.com/vexel-lang/vexel/internal/checker"
	"github.com/vexel-lang/vexel/internal/optimizer"
)

// Info identifies a backend for the `backends` subcommand's listing and
// usage text.
type Info struct {
	Name string
	Description string
	Version string
}

// Options carries backend-specific flags parsed by ParseOption, keyed
// by flag name.
type Options struct {
	values map[string]string
}

func NewOptions() *Options {
	return &Options{values: make(map[string]string)}
}

func (o *Options) Set(name, value string) { o.values[name] = value }

func (o *Options) Get(name string) (string, bool) {
	v, ok := o.values[name]
	return v, ok
}

// Context is everything a Backend's Emit needs: the residualized
// module, the checker that produced its types (for type queries against
// already-resolved symbols), where to write output, and both fact sets
// from the optimizing passes.
type Context struct {
	Module *ast.Module
	Checker *checker.Checker
	Options *Options
	OutputPaths []string
	AnalysisFacts map[string]interface{}
	OptimizationFacts *optimizer.Facts
	Out io.Writer
}

// ParseResult is returned by ParseOption for a single unrecognized CLI
// argument.
type ParseResult struct {
	Owned bool
	Err error
}

// Backend is the contract every code-emission target implements.
type Backend interface {
	Info() Info
	Emit(ctx *Context) error
	ParseOption(argv []string, index int) ParseResult
	PrintUsage(w io.Writer)
}

var (
	mu sync.Mutex
	registry = make(map[string]Backend)
)

// Register adds b to the registry under its own Info().Name. Called
// from a backend package's init(), mirroring the teacher's self
// registering pattern for REPL learning-mode collectors.
func Register(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	registry[b.Info().Name] = b
}

// Find looks up a backend by name.
func Find(name string) (Backend, bool) {
	mu.Lock()
	defer mu.Unlock()
	b, ok := registry[name]
	return b, ok
}

// List returns every registered backend's Info, sorted by name.
func List() []Info {
	mu.Lock()
	defer mu.Unlock()
	infos := make([]Info, 0, len(registry))
	for _, b := range registry {
		infos = append(infos, b.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// NotFoundError reports an unknown backend name, listing what is
// registered so the driver can print a helpful message.
type NotFoundError struct {
	Name string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown backend %q (available: %v)", e.Name, e.Available)
}
