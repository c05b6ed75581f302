package harness

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/stackjs/internal/astload"
	"github.com/roach88/stackjs/internal/pipeline"
)

// ScenarioExtension is the file extension LoadScenarios picks up.
const ScenarioExtension = ".yaml"

// Scenario is one conformance case.
type Scenario struct {
	// Name uniquely identifies this scenario; it also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Source is source text to compile.
	Source *string `yaml:"source,omitempty"`

	// AST is the path of an AST document. Relative paths are resolved
	// against the scenario file's directory on load.
	AST string `yaml:"ast,omitempty"`

	// Program is IR text to run through the code generator.
	Program *string `yaml:"program,omitempty"`

	Expect Expect `yaml:"expect"`
}

// Expect lists what compiling the scenario input must produce.
// Unset fields are not checked.
type Expect struct {
	Output     *string  `yaml:"output,omitempty"`
	IR         []string `yaml:"ir,omitempty"`
	Statements *int     `yaml:"statements,omitempty"`

	// Error is a substring of the expected error message.
	Error string `yaml:"error,omitempty"`

	// ErrorKind is the expected pipeline.ErrorKind.
	ErrorKind string `yaml:"error_kind,omitempty"`
}

func (e Expect) wantsError() bool {
	return e.Error != "" || e.ErrorKind != ""
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(file string) (*Scenario, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// KnownFields catches typos like "expected:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.AST != "" && !filepath.IsAbs(scenario.AST) {
		scenario.AST = filepath.Join(filepath.Dir(file), scenario.AST)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", file, err)
	}

	return &scenario, nil
}

// LoadScenarios loads every scenario file directly inside dir, sorted by
// file name. A non-empty filter is a path.Match pattern on scenario names.
func LoadScenarios(dir, filter string) ([]*Scenario, error) {
	if filter != "" {
		if _, err := path.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ScenarioExtension {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)

	scenarios := []*Scenario{}
	names := make(map[string]string)
	for _, file := range files {
		s, err := LoadScenario(file)
		if err != nil {
			return nil, err
		}
		if prev, dup := names[s.Name]; dup {
			return nil, fmt.Errorf("duplicate scenario name %q in %s and %s", s.Name, prev, file)
		}
		names[s.Name] = file

		if filter != "" {
			if ok, _ := path.Match(filter, s.Name); !ok {
				continue
			}
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	inputs := 0
	if s.Source != nil {
		inputs++
	}
	if s.AST != "" {
		inputs++
		if !astload.Supported(s.AST) {
			return fmt.Errorf("ast: unsupported document extension %q", filepath.Ext(s.AST))
		}
		if _, err := os.Stat(s.AST); err != nil {
			return fmt.Errorf("ast: document not found: %s", s.AST)
		}
	}
	if s.Program != nil {
		inputs++
	}
	if inputs != 1 {
		return fmt.Errorf("exactly one of source, ast or program is required, got %d", inputs)
	}

	return validateExpect(s.Expect)
}

func validateExpect(e Expect) error {
	if e.wantsError() {
		if e.Output != nil || e.IR != nil || e.Statements != nil {
			return fmt.Errorf("expect: error expectations exclude output, ir and statements")
		}
		if e.ErrorKind != "" && !slices.Contains(pipeline.ErrorKinds(), pipeline.ErrorKind(e.ErrorKind)) {
			return fmt.Errorf("expect.error_kind: unknown kind %q", e.ErrorKind)
		}
		return nil
	}

	if e.Output == nil && e.IR == nil && e.Statements == nil {
		return fmt.Errorf("expect: at least one of output, ir, statements, error or error_kind is required")
	}
	if e.Statements != nil && *e.Statements < 0 {
		return fmt.Errorf("expect.statements: must be >= 0, got %d", *e.Statements)
	}
	return nil
}
