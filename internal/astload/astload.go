// Package astload reads AST documents written as JSON, YAML or CUE.
//
// All three formats use the tagged map form of package ast:
//
//	{"type": "infix_operation", "left": {...}, "operator": "+", "right": {...}}
//
// CUE documents are additionally validated node by node against an embedded
// schema, so errors point at the offending CUE source position.
package astload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/stackjs/internal/ast"
)

// DocumentError reports a malformed AST document.
type DocumentError struct {
	File    string
	Path    string // node path inside the document; empty for the root
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *DocumentError) Error() string {
	path := e.Path
	if path == "" {
		path = "root"
	}
	switch {
	case e.Pos.IsValid():
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), path, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s: %s", e.File, path, e.Message)
	}
	return fmt.Sprintf("%s: %s", path, e.Message)
}

// IsDocumentError returns true if err is or wraps a DocumentError.
func IsDocumentError(err error) bool {
	var e *DocumentError
	return errors.As(err, &e)
}

// Supported reports whether path has an AST document extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml", ".cue":
		return true
	}
	return false
}

// LoadFile reads an AST document, choosing the format by extension.
func LoadFile(path string) (ast.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		n, err := LoadJSON(data)
		return n, withFile(err, path)
	case ".yaml", ".yml":
		n, err := LoadYAML(data)
		return n, withFile(err, path)
	case ".cue":
		return LoadCUE(path, data)
	}
	return nil, fmt.Errorf("unsupported AST document extension %q", filepath.Ext(path))
}

// withFile records the file name on a DocumentError.
func withFile(err error, path string) error {
	var de *DocumentError
	if errors.As(err, &de) && de.File == "" {
		de.File = path
	}
	return err
}

// LoadJSON decodes a JSON AST document.
func LoadJSON(data []byte) (ast.Node, error) {
	n, err := ast.UnmarshalJSON(data)
	if err != nil {
		return nil, documentError(err)
	}
	return n, nil
}

// LoadYAML decodes the first YAML document in data.
func LoadYAML(data []byte) (ast.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DocumentError{Message: "empty document"}
		}
		return nil, &DocumentError{Message: fmt.Sprintf("parse YAML: %v", err)}
	}
	if raw == nil {
		return nil, &DocumentError{Message: "empty document"}
	}

	n, err := ast.FromMap(raw)
	if err != nil {
		return nil, documentError(err)
	}
	return n, nil
}

func documentError(err error) error {
	var de *ast.DecodeError
	if errors.As(err, &de) {
		return &DocumentError{Path: de.Path, Message: de.Message}
	}
	return &DocumentError{Message: err.Error()}
}
