package adapters

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"resonance-vars/internal/ports"
	"resonance-vars/internal/types"
)

const postmanEnvironmentSuffix = ".postman_environment.json"

// VariableFileAdapter reads and writes variable sets as YAML, JSON, JSONC or
// Postman environment files.
type VariableFileAdapter struct{}

func NewVariableFileAdapter() VariableFileAdapter {
	return VariableFileAdapter{}
}

type postmanEnvironment struct {
	ID     string                    `json:"id,omitempty"`
	Name   string                    `json:"name"`
	Values []postmanEnvironmentValue `json:"values"`
	Scope  string                    `json:"_postman_variable_scope,omitempty"`
}

type postmanEnvironmentValue struct {
	Key     string `json:"key"`
	Value   any    `json:"value"`
	Type    string `json:"type,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// FormatForPath infers the file format from the file name.
func FormatForPath(path string) types.VariableFileFormat {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, postmanEnvironmentSuffix) {
		return types.VariableFileFormatPostman
	}
	switch filepath.Ext(lower) {
	case ".yaml", ".yml":
		return types.VariableFileFormatYAML
	case ".jsonc":
		return types.VariableFileFormatJSONC
	default:
		return types.VariableFileFormatJSON
	}
}

func ParseVariableFileFormat(value string) (types.VariableFileFormat, error) {
	switch types.VariableFileFormat(strings.ToLower(strings.TrimSpace(value))) {
	case types.VariableFileFormatYAML, "yml":
		return types.VariableFileFormatYAML, nil
	case types.VariableFileFormatJSON:
		return types.VariableFileFormatJSON, nil
	case types.VariableFileFormatJSONC:
		return types.VariableFileFormatJSONC, nil
	case types.VariableFileFormatPostman:
		return types.VariableFileFormatPostman, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown variable file format %q", value))
	}
}

func (a VariableFileAdapter) ReadVariables(path string) (types.VariableSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("variables file not found").
			WithCause(err)
	}
	return a.DecodeVariables(FormatForPath(path), data)
}

// DecodeVariables parses data in the given format. JSON input whose "values"
// entries look like Postman variables is read as an environment even when
// the declared format is plain JSON. Scalars keep their source text.
func (a VariableFileAdapter) DecodeVariables(format types.VariableFileFormat, data []byte) (types.VariableSet, error) {
	if format == types.VariableFileFormatYAML {
		return decodeYAMLVariables(data)
	}

	stripped := jsonc.ToJSON(data)
	var raw map[string]any
	decoder := json.NewDecoder(bytes.NewReader(stripped))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid variables file format").
			WithCause(err)
	}
	if format == types.VariableFileFormatPostman || looksLikePostmanEnvironment(raw) {
		return decodePostmanEnvironment(stripped)
	}
	return flatVariables(raw)
}

func looksLikePostmanEnvironment(raw map[string]any) bool {
	if _, ok := raw["_postman_variable_scope"]; ok {
		return true
	}
	values, ok := raw["values"].([]any)
	if !ok || len(values) == 0 {
		return false
	}
	for _, value := range values {
		entry, ok := value.(map[string]any)
		if !ok {
			return false
		}
		if _, ok := entry["key"]; !ok {
			return false
		}
	}
	return true
}

func decodePostmanEnvironment(data []byte) (types.VariableSet, error) {
	var env postmanEnvironment
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid postman environment").
			WithCause(err)
	}
	vars := types.VariableSet{}
	for _, entry := range env.Values {
		value, ok := entry.Value.(string)
		if entry.Key == "" || !ok {
			continue
		}
		vars[entry.Key] = value
	}
	return vars, nil
}

// decodeYAMLVariables walks the document node so numbers such as 1.10 keep
// their written form.
func decodeYAMLVariables(data []byte) (types.VariableSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid variables file format").
			WithCause(err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return types.VariableSet{}, nil
		}
		root = root.Content[0]
	}
	root = followAlias(root)
	switch root.Kind {
	case 0:
		return types.VariableSet{}, nil
	case yaml.ScalarNode:
		if root.ShortTag() == "!!null" {
			return types.VariableSet{}, nil
		}
	case yaml.MappingNode:
		vars := types.VariableSet{}
		for i := 0; i+1 < len(root.Content); i += 2 {
			name := root.Content[i].Value
			value := followAlias(root.Content[i+1])
			if value.Kind != yaml.ScalarNode {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("variable %q: value must be a scalar", name))
			}
			if value.ShortTag() == "!!null" {
				vars[name] = ""
				continue
			}
			vars[name] = value.Value
		}
		return vars, nil
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid variables file format: line %d: expected a mapping", root.Line))
}

func followAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func flatVariables(raw map[string]any) (types.VariableSet, error) {
	vars := types.VariableSet{}
	for name, value := range raw {
		text, err := scalarText(value)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("variable %q: %s", name, err.Error()))
		}
		vars[name] = text
	}
	return vars, nil
}

func scalarText(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case json.Number:
		return v.String(), nil
	default:
		return "", fmt.Errorf("value must be a scalar, got %T", value)
	}
}

func (a VariableFileAdapter) WriteVariables(path string, format types.VariableFileFormat, vars types.VariableSet) error {
	if format == "" {
		format = FormatForPath(path)
	}
	name := strings.TrimSuffix(filepath.Base(path), postmanEnvironmentSuffix)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	data, err := a.EncodeVariables(format, name, vars)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create output directory").
				WithCause(err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write variables file").
			WithCause(err)
	}
	return nil
}

// EncodeVariables renders vars in the given format. name is only used as the
// Postman environment name.
func (a VariableFileAdapter) EncodeVariables(format types.VariableFileFormat, name string, vars types.VariableSet) ([]byte, error) {
	if vars == nil {
		vars = types.VariableSet{}
	}
	var (
		data []byte
		err  error
	)
	switch format {
	case types.VariableFileFormatYAML:
		data, err = yaml.Marshal(map[string]string(vars))
	case types.VariableFileFormatJSON, types.VariableFileFormatJSONC:
		data, err = json.MarshalIndent(map[string]string(vars), "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case types.VariableFileFormatPostman:
		enabled := true
		env := postmanEnvironment{
			Name:   name,
			Values: make([]postmanEnvironmentValue, 0, len(vars)),
			Scope:  "environment",
		}
		for _, key := range vars.Names() {
			env.Values = append(env.Values, postmanEnvironmentValue{
				Key:     key,
				Value:   vars[key],
				Type:    "default",
				Enabled: &enabled,
			})
		}
		data, err = json.MarshalIndent(env, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown variable file format %q", format))
	}
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode variables").
			WithCause(err)
	}
	return data, nil
}

var _ ports.VariableFilePort = VariableFileAdapter{}
