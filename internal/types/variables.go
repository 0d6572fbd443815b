package types

import "sort"

// VariableSet maps variable names to values for exactly one collection.
type VariableSet map[string]string

// Clone returns an independent copy. A nil set clones to an empty set.
func (s VariableSet) Clone() VariableSet {
	out := make(VariableSet, len(s))
	for name, value := range s {
		out[name] = value
	}
	return out
}

// Names returns the variable names in lexical order.
func (s VariableSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s VariableSet) Lookup(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	value, ok := s[name]
	return value, ok
}

type Preview struct {
	Preview          string   `json:"preview" yaml:"preview"`
	MissingVariables []string `json:"missingVariables" yaml:"missing_variables"`
	FoundVariables   []string `json:"foundVariables" yaml:"found_variables"`
}

type VariableFileFormat string

const (
	VariableFileFormatYAML    VariableFileFormat = "yaml"
	VariableFileFormatJSON    VariableFileFormat = "json"
	VariableFileFormatJSONC   VariableFileFormat = "jsonc"
	VariableFileFormatPostman VariableFileFormat = "postman"
)
