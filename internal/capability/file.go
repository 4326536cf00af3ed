package capability

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/typesugar/typesugar-sub002/internal/parser"
)

// DeclarationFile is the on-disk form of capability tables. Method values
// are host source, parsed once at load time.
type DeclarationFile struct {
	Tables []TableSpec `yaml:"tables" toml:"tables"`
}

type TableSpec struct {
	Name     string            `yaml:"name" toml:"name"`
	Brand    string            `yaml:"brand" toml:"brand"`
	Contract string            `yaml:"contract,omitempty" toml:"contract,omitempty"`
	Methods  map[string]string `yaml:"methods" toml:"methods"`
}

// LoadFile reads a declaration file. The format is chosen by extension:
// .toml is TOML, anything else YAML.
func LoadFile(path string) ([]*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading capabilities %s: %w", path, err)
	}
	return ParseFile(data, path)
}

// ParseFile parses declaration file content. The path argument selects the
// format and is used in error messages.
func ParseFile(data []byte, path string) ([]*Table, error) {
	var file DeclarationFile
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	tables := make([]*Table, 0, len(file.Tables))
	for i, spec := range file.Tables {
		if spec.Name == "" {
			return nil, fmt.Errorf("%s: tables[%d]: name is required", path, i)
		}
		if spec.Brand == "" {
			return nil, fmt.Errorf("%s: tables[%d] (%s): brand is required", path, i, spec.Name)
		}
		t := &Table{Name: spec.Name, Brand: spec.Brand, Contract: spec.Contract, Methods: make(map[string]*Method)}
		names := make([]string, 0, len(spec.Methods))
		for name := range spec.Methods {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			expr, err := parser.ParseExpression(spec.Methods[name])
			if err != nil {
				return nil, fmt.Errorf("%s: %s.%s: %w", path, spec.Name, name, err)
			}
			t.Methods[name] = MethodFromExpression(name, expr)
		}
		tables = append(tables, t)
	}
	return tables, nil
}
