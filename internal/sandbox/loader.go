// Package sandbox loads candidate parser modules with the yaegi
// interpreter. Interpreting the source instead of shelling out to the Go
// toolchain means a load failure is an ordinary error value, and a fresh
// interpreter per load guarantees an overwritten candidate file is never
// served from a cache.
package sandbox

import (
	"fmt"
	"os"
	"regexp"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"parsesmith/internal/table"
)

// moduleName is the fixed logical package every candidate loads under,
// independent of any on-disk package structure.
const moduleName = "parser"

var packageClause = regexp.MustCompile(`(?m)^package\s+\w+`)

// LoadError wraps any failure while reading or evaluating a candidate
// module: syntax errors, forbidden imports, a missing or mistyped entry
// point. Attempt-local; the retry loop feeds it forward as feedback.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load module %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Module is a loaded candidate with its resolved entry point.
type Module struct {
	Path  string
	parse func(string) (*table.Table, error)
}

// Parse invokes the candidate's entry point on a document path.
func (m *Module) Parse(docPath string) (*table.Table, error) {
	return m.parse(docPath)
}

// Loader builds interpreters for candidate modules.
type Loader struct{}

// NewLoader creates a module loader.
func NewLoader() *Loader { return &Loader{} }

// Load reads the source at path and evaluates it in a fresh interpreter
// under the fixed logical name. Repeated calls after an overwrite always
// reload the new content. The candidate may import the standard library
// and "parsesmith/table"; it must define
// func Parse(docPath string) (*table.Table, error).
func (l *Loader) Load(path string) (*Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to load stdlib symbols: %w", err)}
	}
	if err := i.Use(table.Symbols); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to load table symbols: %w", err)}
	}

	if _, err := i.Eval(normalizePackage(string(src))); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	v, err := i.Eval(moduleName + ".Parse")
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("entry point Parse not found: %w", err)}
	}
	fn, ok := v.Interface().(func(string) (*table.Table, error))
	if !ok {
		return nil, &LoadError{Path: path, Err: fmt.Errorf(
			"Parse has wrong signature (want func(string) (*table.Table, error), got %T)", v.Interface())}
	}

	return &Module{Path: path, parse: fn}, nil
}

// normalizePackage forces the source under the fixed logical package
// name, whatever package clause the model emitted.
func normalizePackage(src string) string {
	if loc := packageClause.FindStringIndex(src); loc != nil {
		return src[:loc[0]] + "package " + moduleName + src[loc[1]:]
	}
	return "package " + moduleName + "\n\n" + src
}
