package types

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/goccy/go-json"
)

type NodeKind string

const (
	NodeKindNull   NodeKind = "null"
	NodeKindString NodeKind = "string"
	NodeKindNumber NodeKind = "number"
	NodeKindBool   NodeKind = "bool"
	NodeKindList   NodeKind = "list"
	NodeKindMap    NodeKind = "map"
)

// Node is a JSON-like value: a scalar, an ordered list, or a map with string
// keys. Map fields keep their document order. The zero Node is null.
type Node struct {
	Kind NodeKind
	// Str holds the value of a string node.
	Str string
	// Number holds the textual form of a number node.
	Number string
	Bool   bool
	Items  []Node
	Fields []Field
}

type Field struct {
	Key   string
	Value Node
}

func NullNode() Node {
	return Node{Kind: NodeKindNull}
}

func StringNode(value string) Node {
	return Node{Kind: NodeKindString, Str: value}
}

func NumberNode(text string) Node {
	return Node{Kind: NodeKindNumber, Number: text}
}

func BoolNode(value bool) Node {
	return Node{Kind: NodeKindBool, Bool: value}
}

func ListNode(items ...Node) Node {
	if items == nil {
		items = []Node{}
	}
	return Node{Kind: NodeKindList, Items: items}
}

func MapNode(fields ...Field) Node {
	if fields == nil {
		fields = []Field{}
	}
	return Node{Kind: NodeKindMap, Fields: fields}
}

func (n Node) IsNull() bool {
	return n.Kind == NodeKindNull || n.Kind == ""
}

// Get returns the value of the first field named key in a map node.
func (n Node) Get(key string) (Node, bool) {
	if n.Kind != NodeKindMap {
		return Node{}, false
	}
	for _, field := range n.Fields {
		if field.Key == key {
			return field.Value, true
		}
	}
	return Node{}, false
}

// Value converts the node into plain Go values: nil, string, float64, bool,
// []any and map[string]any. Map field order is not retained.
func (n Node) Value() any {
	switch n.Kind {
	case NodeKindString:
		return n.Str
	case NodeKindNumber:
		if f, err := strconv.ParseFloat(n.Number, 64); err == nil {
			return f
		}
		return n.Number
	case NodeKindBool:
		return n.Bool
	case NodeKindList:
		out := make([]any, 0, len(n.Items))
		for _, item := range n.Items {
			out = append(out, item.Value())
		}
		return out
	case NodeKindMap:
		out := make(map[string]any, len(n.Fields))
		for _, field := range n.Fields {
			out[field.Key] = field.Value.Value()
		}
		return out
	default:
		return nil
	}
}

// NodeFromValue builds a node from decoded JSON or YAML values. Map keys are
// sorted since Go maps carry no order. Self-referencing maps or slices are
// rejected.
func NodeFromValue(value any) (Node, error) {
	return nodeFromValue(value, map[uintptr]struct{}{})
}

func nodeFromValue(value any, visiting map[uintptr]struct{}) (Node, error) {
	switch v := value.(type) {
	case nil:
		return NullNode(), nil
	case Node:
		return v, nil
	case string:
		return StringNode(v), nil
	case bool:
		return BoolNode(v), nil
	case int:
		return NumberNode(strconv.FormatInt(int64(v), 10)), nil
	case int32:
		return NumberNode(strconv.FormatInt(int64(v), 10)), nil
	case int64:
		return NumberNode(strconv.FormatInt(v, 10)), nil
	case uint:
		return NumberNode(strconv.FormatUint(uint64(v), 10)), nil
	case uint64:
		return NumberNode(strconv.FormatUint(v, 10)), nil
	case float32:
		return floatNode(float64(v))
	case float64:
		return floatNode(v)
	case json.Number:
		return NumberNode(v.String()), nil
	case []any:
		release, err := enter(visiting, v)
		if err != nil {
			return Node{}, err
		}
		defer release()
		items := make([]Node, 0, len(v))
		for _, item := range v {
			child, err := nodeFromValue(item, visiting)
			if err != nil {
				return Node{}, err
			}
			items = append(items, child)
		}
		return ListNode(items...), nil
	case map[string]any:
		release, err := enter(visiting, v)
		if err != nil {
			return Node{}, err
		}
		defer release()
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(v))
		for _, key := range keys {
			child, err := nodeFromValue(v[key], visiting)
			if err != nil {
				return Node{}, err
			}
			fields = append(fields, Field{Key: key, Value: child})
		}
		return MapNode(fields...), nil
	case map[any]any:
		converted := make(map[string]any, len(v))
		for key, item := range v {
			converted[fmt.Sprint(key)] = item
		}
		release, err := enter(visiting, v)
		if err != nil {
			return Node{}, err
		}
		defer release()
		return nodeFromValue(converted, visiting)
	default:
		return Node{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported node value of type %T", value))
	}
}

func floatNode(v float64) (Node, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Node{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("non-finite numbers cannot be represented")
	}
	return NumberNode(strconv.FormatFloat(v, 'f', -1, 64)), nil
}

func enter(visiting map[uintptr]struct{}, container any) (func(), error) {
	rv := reflect.ValueOf(container)
	if rv.Len() == 0 {
		return func() {}, nil
	}
	ptr := rv.Pointer()
	if _, ok := visiting[ptr]; ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("cyclic structure cannot be converted to a node")
	}
	visiting[ptr] = struct{}{}
	return func() { delete(visiting, ptr) }, nil
}

// MarshalJSON writes the node with map fields in their stored order.
func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n Node) writeJSON(buf *bytes.Buffer) error {
	switch n.Kind {
	case NodeKindString:
		return writeJSONString(buf, n.Str)
	case NodeKindNumber:
		if n.Number == "" {
			buf.WriteString("0")
			return nil
		}
		buf.WriteString(n.Number)
	case NodeKindBool:
		buf.WriteString(strconv.FormatBool(n.Bool))
	case NodeKindList:
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case NodeKindMap:
		buf.WriteByte('{')
		for i, field := range n.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, field.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := field.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, value string) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}

// UnmarshalJSON decodes through plain Go values, so map fields come back in
// sorted key order.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return err
	}
	node, err := NodeFromValue(raw)
	if err != nil {
		return err
	}
	*n = node
	return nil
}
