package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// DecodeError reports a malformed AST document.
type DecodeError struct {
	Path    string // e.g. "statements[1].expression.left"; empty for the root
	Message string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ToMap converts a tree to its tagged map form:
//
//	{"type": "infix_operation", "left": {...}, "operator": "+", "right": {...}}
//
// The map form is shared by the JSON, YAML and CUE document formats.
func ToMap(node Node) (map[string]any, error) {
	if node == nil {
		return nil, fmt.Errorf("cannot encode nil node")
	}

	m := map[string]any{"type": node.Kind().String()}
	switch n := node.(type) {
	case IntegerLiteral:
		m["value"] = n.Value
	case FloatLiteral:
		m["value"] = n.Value
	case Identifier:
		m["name"] = n.Name
	case InfixOperation:
		left, err := ToMap(n.Left)
		if err != nil {
			return nil, fmt.Errorf("left: %w", err)
		}
		right, err := ToMap(n.Right)
		if err != nil {
			return nil, fmt.Errorf("right: %w", err)
		}
		m["left"] = left
		m["operator"] = string(n.Operator)
		m["right"] = right
	case ExpressionStatement:
		expr, err := ToMap(n.Expression)
		if err != nil {
			return nil, fmt.Errorf("expression: %w", err)
		}
		m["expression"] = expr
	case MethodDefinition:
		args := make([]any, len(n.Args))
		for i, arg := range n.Args {
			args[i] = map[string]any{"type": KindIdentifier.String(), "name": arg.Name}
		}
		body, err := toMaps(n.Body, "body")
		if err != nil {
			return nil, err
		}
		m["name"] = n.Name
		m["args"] = args
		m["body"] = body
	case Program:
		stmts, err := toMaps(n.Statements, "statements")
		if err != nil {
			return nil, err
		}
		m["statements"] = stmts
	default:
		return nil, fmt.Errorf("unsupported node type: %T", node)
	}
	return m, nil
}

func toMaps(nodes []Node, field string) ([]any, error) {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		m, err := ToMap(n)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		out[i] = m
	}
	return out, nil
}

// MarshalJSON encodes a tree as indented JSON with sorted keys.
func MarshalJSON(node Node) ([]byte, error) {
	m, err := ToMap(node)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(m, "", "  ")
}

// UnmarshalJSON decodes a JSON AST document.
// Numbers are decoded as json.Number so large integers keep full precision.
func UnmarshalJSON(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return FromMap(raw)
}

// fields lists the keys each variant accepts besides "type".
var fields = [kindCount][]string{
	KindIntegerLiteral:      {"value"},
	KindFloatLiteral:        {"value"},
	KindIdentifier:          {"name"},
	KindInfixOperation:      {"left", "operator", "right"},
	KindExpressionStatement: {"expression"},
	KindMethodDefinition:    {"name", "args", "body"},
	KindProgram:             {"statements"},
}

// FromMap is the inverse of ToMap. It accepts the value shapes produced by
// encoding/json (with UseNumber) and gopkg.in/yaml.v3. Unknown keys are
// rejected.
func FromMap(m map[string]any) (Node, error) {
	return decodeNode(m, "")
}

func decodeNode(v any, path string) (Node, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &DecodeError{Path: path, Message: fmt.Sprintf("expected node object, got %s", describe(v))}
	}

	tag, ok := m["type"].(string)
	if !ok {
		return nil, &DecodeError{Path: path, Message: "missing node type"}
	}
	kind, ok := ParseKind(tag)
	if !ok {
		return nil, &DecodeError{Path: path, Message: fmt.Sprintf("unknown node type %q", tag)}
	}
	if err := checkFields(m, kind, path); err != nil {
		return nil, err
	}

	switch kind {
	case KindIntegerLiteral:
		n, err := decodeInt(m["value"], join(path, "value"))
		if err != nil {
			return nil, err
		}
		return IntegerLiteral{Value: n}, nil
	case KindFloatLiteral:
		f, err := decodeFloat(m["value"], join(path, "value"))
		if err != nil {
			return nil, err
		}
		return FloatLiteral{Value: f}, nil
	case KindIdentifier:
		name, err := decodeString(m["name"], join(path, "name"))
		if err != nil {
			return nil, err
		}
		return Identifier{Name: name}, nil
	case KindInfixOperation:
		left, err := decodeNode(m["left"], join(path, "left"))
		if err != nil {
			return nil, err
		}
		op, err := decodeString(m["operator"], join(path, "operator"))
		if err != nil {
			return nil, err
		}
		if !Operator(op).Valid() {
			return nil, &DecodeError{Path: join(path, "operator"), Message: fmt.Sprintf("unknown operator %q", op)}
		}
		right, err := decodeNode(m["right"], join(path, "right"))
		if err != nil {
			return nil, err
		}
		return InfixOperation{Left: left, Operator: Operator(op), Right: right}, nil
	case KindExpressionStatement:
		expr, err := decodeNode(m["expression"], join(path, "expression"))
		if err != nil {
			return nil, err
		}
		return ExpressionStatement{Expression: expr}, nil
	case KindMethodDefinition:
		name, err := decodeString(m["name"], join(path, "name"))
		if err != nil {
			return nil, err
		}
		args, err := decodeArgs(m["args"], join(path, "args"))
		if err != nil {
			return nil, err
		}
		body, err := decodeList(m["body"], join(path, "body"))
		if err != nil {
			return nil, err
		}
		return MethodDefinition{Name: name, Args: args, Body: body}, nil
	case KindProgram:
		stmts, err := decodeList(m["statements"], join(path, "statements"))
		if err != nil {
			return nil, err
		}
		return Program{Statements: stmts}, nil
	}
	return nil, &DecodeError{Path: path, Message: fmt.Sprintf("unsupported node type %q", tag)}
}

func checkFields(m map[string]any, kind Kind, path string) error {
	allowed := fields[kind]
	var unknown []string
	for key := range m {
		if key == "type" {
			continue
		}
		found := false
		for _, f := range allowed {
			if f == key {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &DecodeError{
		Path:    path,
		Message: fmt.Sprintf("unknown field(s) %s for %s", strings.Join(unknown, ", "), kind),
	}
}

// decodeList decodes an optional list of nodes. A missing list is empty.
func decodeList(v any, path string) ([]Node, error) {
	if v == nil {
		return []Node{}, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, &DecodeError{Path: path, Message: fmt.Sprintf("expected list, got %s", describe(v))}
	}
	nodes := make([]Node, len(items))
	for i, item := range items {
		n, err := decodeNode(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}

func decodeArgs(v any, path string) ([]Identifier, error) {
	nodes, err := decodeList(v, path)
	if err != nil {
		return nil, err
	}
	args := make([]Identifier, len(nodes))
	for i, n := range nodes {
		id, ok := n.(Identifier)
		if !ok {
			return nil, &DecodeError{
				Path:    fmt.Sprintf("%s[%d]", path, i),
				Message: fmt.Sprintf("expected identifier, got %s", n.Kind()),
			}
		}
		args[i] = id
	}
	return args, nil
}

func decodeString(v any, path string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &DecodeError{Path: path, Message: fmt.Sprintf("expected string, got %s", describe(v))}
	}
	return s, nil
}

func decodeInt(v any, path string) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, &DecodeError{Path: path, Message: fmt.Sprintf("integer %d overflows int64", n)}
		}
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, &DecodeError{Path: path, Message: fmt.Sprintf("invalid integer %q", n.String())}
		}
		return i, nil
	}
	return 0, &DecodeError{Path: path, Message: fmt.Sprintf("expected integer, got %s", describe(v))}
}

func decodeFloat(v any, path string) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, &DecodeError{Path: path, Message: fmt.Sprintf("invalid number %q", n.String())}
		}
		return f, nil
	}
	return 0, &DecodeError{Path: path, Message: fmt.Sprintf("expected number, got %s", describe(v))}
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	case json.Number, int, int64, uint64, float32, float64:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
