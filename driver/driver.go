// Package driver orchestrates a single run of the ParaCL pipeline: lex,
// parse, analyze, and only if those stages are clean, generate bytecode
// and execute it.
package driver

import (
	"io"

	"paracl/ast"
	"paracl/compiler"
	"paracl/lexer"
	"paracl/parser"
	"paracl/report"
	"paracl/semantics"
	"paracl/vm"
)

// Driver holds the reporter shared across stages and the root AST once
// parsing has produced one.
type Driver struct {
	reporter *report.Reporter
	root     *ast.Block
}

// New returns a Driver ready to compile a single source unit.
func New() *Driver {
	return &Driver{reporter: report.NewReporter()}
}

// HasErrors reports whether any stage run so far has recorded a
// diagnostic.
func (d *Driver) HasErrors() bool {
	return d.reporter.HasErrors()
}

// Errors returns the diagnostics collected so far, in report order.
func (d *Driver) Errors() []report.Error {
	return d.reporter.Errors()
}

// Compile lexes and parses source and, only if those produced no
// diagnostics, semantically analyzes it. The parser runs even after
// lexer diagnostics, so it can report its own errors too. It returns
// the root block so callers may inspect the AST even when analysis
// failed.
func (d *Driver) Compile(file, source string) *ast.Block {
	tokens := lexer.New(file, source).Scan(d.reporter)
	d.root = parser.Make(tokens, d.reporter).Parse()
	if d.reporter.HasErrors() {
		return d.root
	}
	semantics.New(d.reporter).Analyze(d.root)
	return d.root
}

// Generate lowers the compiled AST to an Image. Callers must check
// HasErrors before calling this; Generate panics on invariant
// violations rather than user errors, since those belong to the
// compile stage.
func (d *Driver) Generate() *compiler.Image {
	return compiler.Generate(d.root)
}

// Run compiles source end to end and, if compilation succeeded,
// executes the resulting image against in/out. It returns the
// diagnostics collected (if any) and the runtime error (if any); at
// most one of the two is populated for a single source unit, since
// code generation never runs after compile errors.
func Run(file, source string, in io.Reader, out io.Writer) (*Driver, error) {
	d := New()
	d.Compile(file, source)
	if d.HasErrors() {
		return d, nil
	}
	img := d.Generate()
	m := vm.New(in, out)
	m.LoadImage(img)
	return d, m.Run()
}
