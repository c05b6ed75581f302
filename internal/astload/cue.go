package astload

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/stackjs/internal/ast"
)

//go:embed schema.cue
var schemaSource string

var definitions = map[ast.Kind]string{
	ast.KindIntegerLiteral:      "#IntegerLiteral",
	ast.KindFloatLiteral:        "#FloatLiteral",
	ast.KindIdentifier:          "#Identifier",
	ast.KindInfixOperation:      "#InfixOperation",
	ast.KindExpressionStatement: "#ExpressionStatement",
	ast.KindMethodDefinition:    "#MethodDefinition",
	ast.KindProgram:             "#Program",
}

// LoadCUE decodes a CUE AST document. The whole file is the root node.
// filename is used in error positions only.
func LoadCUE(filename string, data []byte) (ast.Node, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile AST schema: %w", err)
	}

	doc := ctx.CompileBytes(data, cue.Filename(filename))
	if err := doc.Err(); err != nil {
		return nil, cueError(err, "", filename)
	}

	d := &cueDecoder{schema: schema, file: filename}
	return d.node(doc, "")
}

type cueDecoder struct {
	schema cue.Value
	file   string
}

func (d *cueDecoder) errorf(v cue.Value, path, format string, args ...any) error {
	return &DocumentError{File: d.file, Path: path, Message: fmt.Sprintf(format, args...), Pos: v.Pos()}
}

func (d *cueDecoder) node(v cue.Value, path string) (ast.Node, error) {
	if !v.Exists() {
		return nil, d.errorf(v, path, "missing node")
	}
	if v.IncompleteKind() != cue.StructKind {
		return nil, d.errorf(v, path, "expected node struct, got %s", v.IncompleteKind())
	}

	tag, err := v.LookupPath(cue.ParsePath("type")).String()
	if err != nil {
		return nil, d.errorf(v, path, "missing node type")
	}
	kind, ok := ast.ParseKind(tag)
	if !ok {
		return nil, d.errorf(v, path, "unknown node type %q", tag)
	}

	def := d.schema.LookupPath(cue.ParsePath(definitions[kind]))
	u := def.Unify(v)
	if err := u.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(err, path, d.file)
	}

	switch kind {
	case ast.KindIntegerLiteral:
		n, err := d.field(u, "value").Int64()
		if err != nil {
			return nil, d.errorf(u, join(path, "value"), "%v", err)
		}
		return ast.IntegerLiteral{Value: n}, nil

	case ast.KindFloatLiteral:
		f, err := d.field(u, "value").Float64()
		if err != nil {
			return nil, d.errorf(u, join(path, "value"), "%v", err)
		}
		return ast.FloatLiteral{Value: f}, nil

	case ast.KindIdentifier:
		name, err := d.field(u, "name").String()
		if err != nil {
			return nil, d.errorf(u, join(path, "name"), "%v", err)
		}
		return ast.Identifier{Name: name}, nil

	case ast.KindInfixOperation:
		left, err := d.node(d.field(u, "left"), join(path, "left"))
		if err != nil {
			return nil, err
		}
		op, err := d.field(u, "operator").String()
		if err != nil {
			return nil, d.errorf(u, join(path, "operator"), "%v", err)
		}
		right, err := d.node(d.field(u, "right"), join(path, "right"))
		if err != nil {
			return nil, err
		}
		return ast.InfixOperation{Left: left, Operator: ast.Operator(op), Right: right}, nil

	case ast.KindExpressionStatement:
		expr, err := d.node(d.field(u, "expression"), join(path, "expression"))
		if err != nil {
			return nil, err
		}
		return ast.ExpressionStatement{Expression: expr}, nil

	case ast.KindMethodDefinition:
		name, err := d.field(u, "name").String()
		if err != nil {
			return nil, d.errorf(u, join(path, "name"), "%v", err)
		}
		argNodes, err := d.list(d.field(u, "args"), join(path, "args"))
		if err != nil {
			return nil, err
		}
		args := make([]ast.Identifier, len(argNodes))
		for i, n := range argNodes {
			// The schema only admits identifiers here.
			args[i] = n.(ast.Identifier)
		}
		body, err := d.list(d.field(u, "body"), join(path, "body"))
		if err != nil {
			return nil, err
		}
		return ast.MethodDefinition{Name: name, Args: args, Body: body}, nil

	case ast.KindProgram:
		stmts, err := d.list(d.field(u, "statements"), join(path, "statements"))
		if err != nil {
			return nil, err
		}
		return ast.Program{Statements: stmts}, nil
	}
	return nil, d.errorf(v, path, "unsupported node type %q", tag)
}

// field looks up a field, resolving defaults.
func (d *cueDecoder) field(v cue.Value, name string) cue.Value {
	f := v.LookupPath(cue.ParsePath(name))
	if def, ok := f.Default(); ok {
		return def
	}
	return f
}

func (d *cueDecoder) list(v cue.Value, path string) ([]ast.Node, error) {
	iter, err := v.List()
	if err != nil {
		return nil, d.errorf(v, path, "expected list: %v", err)
	}

	nodes := []ast.Node{}
	for i := 0; iter.Next(); i++ {
		n, err := d.node(iter.Value(), fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// cueError extracts the first error and its position from a CUE error.
func cueError(err error, path, file string) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &DocumentError{File: file, Path: path, Message: err.Error()}
	}

	first := errs[0]
	de := &DocumentError{File: file, Path: path, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		de.Pos = positions[0]
	}
	return de
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}
