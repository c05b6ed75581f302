// Package pipeline wires the compilation stages together.
//
//	source --parser--> syntax tree --adapter--> AST --compiler--> IR --codegen--> output
//
// AST documents enter at the AST stage and IR text at the IR stage.
package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/stackjs/internal/adapter"
	"github.com/roach88/stackjs/internal/ast"
	"github.com/roach88/stackjs/internal/astload"
	"github.com/roach88/stackjs/internal/codegen"
	"github.com/roach88/stackjs/internal/compiler"
	"github.com/roach88/stackjs/internal/ir"
	"github.com/roach88/stackjs/internal/parser"
	"github.com/roach88/stackjs/internal/store"
)

// IRExtension marks files holding IR text.
const IRExtension = ".ir"

// Result is the outcome of one compilation.
type Result struct {
	Name        string
	AST         ast.Node // nil when the input was IR text
	IR          ir.Program
	Output      string
	Statements  int    // number of top-level statements in Output
	SourceHash  string // hash of the input text
	Fingerprint string // content hash of IR
}

// Compilation converts r into a record for the compilation log.
func (r *Result) Compilation() store.Compilation {
	return store.Compilation{
		SourceName:  r.Name,
		SourceHash:  r.SourceHash,
		Fingerprint: r.Fingerprint,
		IR:          r.IR,
		Output:      r.Output,
		Statements:  r.Statements,
	}
}

// Driver runs compilations. The zero value is ready to use and logs
// nothing.
type Driver struct {
	Logger *slog.Logger
}

// New creates a Driver logging to logger. A nil logger discards.
func New(logger *slog.Logger) *Driver {
	return &Driver{Logger: logger}
}

func (d *Driver) logger() *slog.Logger {
	if d == nil || d.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d.Logger
}

// CompileSource compiles source text. name labels the input in logs and
// results.
func (d *Driver) CompileSource(name, src string) (*Result, error) {
	log := d.logger().With("input", name)

	node, err := d.parse(log, src)
	if err != nil {
		return nil, err
	}

	res, err := d.compileAST(log, node)
	if err != nil {
		return nil, err
	}
	res.Name = name
	res.SourceHash = ir.SourceHash(src)
	return res, nil
}

// ParseSource runs the front end only: source text to AST.
func (d *Driver) ParseSource(name, src string) (ast.Node, error) {
	return d.parse(d.logger().With("input", name), src)
}

func (d *Driver) parse(log *slog.Logger, src string) (ast.Node, error) {
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	log.Debug("parsed", "syntax", tree.String())

	node, err := adapter.Transform(tree)
	if err != nil {
		return nil, err
	}
	log.Debug("adapted", "root", node.Kind().String())
	return node, nil
}

// LoadAST returns the AST of a file: a parsed AST document or parsed
// source text. IR text has no AST.
func (d *Driver) LoadAST(path string) (ast.Node, error) {
	if astload.Supported(path) {
		return astload.LoadFile(path)
	}
	if isIRFile(path) {
		return nil, fmt.Errorf("%s: IR text has no AST", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return d.ParseSource(path, string(data))
}

func isIRFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), IRExtension)
}

// CompileAST compiles an AST.
func (d *Driver) CompileAST(node ast.Node) (*Result, error) {
	return d.compileAST(d.logger(), node)
}

func (d *Driver) compileAST(log *slog.Logger, node ast.Node) (*Result, error) {
	program, err := compiler.Compile(node)
	if err != nil {
		return nil, err
	}
	log.Debug("lowered", "instructions", program.Len())

	res, err := d.generate(log, program)
	if err != nil {
		return nil, err
	}
	res.AST = node
	return res, nil
}

// GenerateIR runs the code generator on an IR program.
func (d *Driver) GenerateIR(p ir.Program) (*Result, error) {
	return d.generate(d.logger(), p)
}

func (d *Driver) generate(log *slog.Logger, p ir.Program) (*Result, error) {
	fragments, err := codegen.Fragments(p)
	if err != nil {
		return nil, err
	}
	fingerprint, err := ir.Fingerprint(p)
	if err != nil {
		return nil, err
	}
	log.Debug("generated", "statements", len(fragments), "fingerprint", fingerprint)

	return &Result{
		IR:          p,
		Output:      strings.Join(fragments, codegen.StatementTerminator),
		Statements:  len(fragments),
		Fingerprint: fingerprint,
	}, nil
}

// CompileFile compiles a file, choosing the entry stage by extension:
// AST documents (.json, .yaml, .yml, .cue), IR text (.ir) or source text.
func (d *Driver) CompileFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	log := d.logger().With("input", path)
	log.Debug("read", "bytes", len(data))

	var res *Result
	switch {
	case astload.Supported(path):
		node, err := astload.LoadFile(path)
		if err != nil {
			return nil, err
		}
		res, err = d.compileAST(log, node)
		if err != nil {
			return nil, err
		}
	case isIRFile(path):
		program, err := ir.Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		res, err = d.generate(log, program)
		if err != nil {
			return nil, err
		}
	default:
		return d.CompileSource(path, string(data))
	}

	res.Name = path
	res.SourceHash = ir.SourceHash(string(data))
	return res, nil
}
