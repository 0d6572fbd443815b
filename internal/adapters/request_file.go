package adapters

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"resonance-vars/internal/ports"
	"resonance-vars/internal/types"
)

var jsonNumberRegex = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// RequestFileAdapter loads request trees from YAML, JSON or JSONC files,
// keeping map fields in document order.
type RequestFileAdapter struct{}

func NewRequestFileAdapter() RequestFileAdapter {
	return RequestFileAdapter{}
}

func (a RequestFileAdapter) ReadRequest(path string) (types.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Node{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("request file not found").
			WithCause(err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}
	return a.DecodeRequest(data)
}

// DecodeRequest parses YAML or JSON into a node.
func (a RequestFileAdapter) DecodeRequest(data []byte) (types.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.Node{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid request file format").
			WithCause(err)
	}
	return nodeFromYAML(&doc, map[*yaml.Node]struct{}{})
}

func (a RequestFileAdapter) EncodeRequest(node types.Node) ([]byte, error) {
	data, err := json.MarshalIndent(node, "", "  ")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode request").
			WithCause(err)
	}
	return append(data, '\n'), nil
}

func nodeFromYAML(n *yaml.Node, aliases map[*yaml.Node]struct{}) (types.Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return types.NullNode(), nil
		}
		return nodeFromYAML(n.Content[0], aliases)
	case yaml.SequenceNode:
		items := make([]types.Node, 0, len(n.Content))
		for _, child := range n.Content {
			item, err := nodeFromYAML(child, aliases)
			if err != nil {
				return types.Node{}, err
			}
			items = append(items, item)
		}
		return types.ListNode(items...), nil
	case yaml.MappingNode:
		fields := make([]types.Field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return types.Node{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("line %d: map keys must be scalars", key.Line))
			}
			value, err := nodeFromYAML(n.Content[i+1], aliases)
			if err != nil {
				return types.Node{}, err
			}
			fields = append(fields, types.Field{Key: key.Value, Value: value})
		}
		return types.MapNode(fields...), nil
	case yaml.AliasNode:
		if _, ok := aliases[n]; ok {
			return types.Node{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("line %d: recursive alias", n.Line))
		}
		aliases[n] = struct{}{}
		defer delete(aliases, n)
		return nodeFromYAML(n.Alias, aliases)
	case yaml.ScalarNode:
		return scalarFromYAML(n)
	default:
		return types.NullNode(), nil
	}
}

func scalarFromYAML(n *yaml.Node) (types.Node, error) {
	switch n.ShortTag() {
	case "!!null":
		return types.NullNode(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return types.Node{}, invalidScalar(n, err)
		}
		return types.BoolNode(b), nil
	case "!!int":
		if jsonNumberRegex.MatchString(n.Value) {
			return types.NumberNode(n.Value), nil
		}
		var i int64
		if err := n.Decode(&i); err != nil {
			return types.Node{}, invalidScalar(n, err)
		}
		return types.NumberNode(strconv.FormatInt(i, 10)), nil
	case "!!float":
		if jsonNumberRegex.MatchString(n.Value) {
			return types.NumberNode(n.Value), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return types.Node{}, invalidScalar(n, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return types.Node{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("line %d: non-finite numbers are not supported", n.Line))
		}
		return types.NumberNode(strconv.FormatFloat(f, 'f', -1, 64)), nil
	default:
		return types.StringNode(n.Value), nil
	}
}

func invalidScalar(n *yaml.Node, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("line %d: invalid scalar %q", n.Line, n.Value)).
		WithCause(err)
}

var _ ports.RequestFilePort = RequestFileAdapter{}
