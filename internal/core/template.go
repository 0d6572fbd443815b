package core

import (
	"regexp"
	"sort"

	"resonance-vars/internal/types"
)

// placeholderRegex matches {{ name }} with optional inner whitespace and
// captures the name.
var placeholderRegex = regexp.MustCompile(`\{\{\s*(` + identifierPattern + `)\s*\}\}`)

// TemplateProcessor substitutes collection variables into templates. It holds
// no state and never mutates its inputs.
type TemplateProcessor struct{}

func NewTemplateProcessor() TemplateProcessor {
	return TemplateProcessor{}
}

// ProcessTemplate replaces every placeholder whose name is present in
// variables. Unknown names keep their original token text. Substituted
// values are not scanned again.
func (TemplateProcessor) ProcessTemplate(template string, variables types.VariableSet) string {
	if template == "" {
		return template
	}
	return placeholderRegex.ReplaceAllStringFunc(template, func(token string) string {
		match := placeholderRegex.FindStringSubmatch(token)
		if len(match) < 2 {
			return token
		}
		value, ok := variables.Lookup(match[1])
		if !ok {
			return token
		}
		return value
	})
}

// ProcessNode returns a copy of node with ProcessTemplate applied to every
// string leaf and every map key. When two keys collide after substitution
// the later value wins and the earlier position is kept.
func (p TemplateProcessor) ProcessNode(node types.Node, variables types.VariableSet) types.Node {
	switch node.Kind {
	case types.NodeKindString:
		return types.StringNode(p.ProcessTemplate(node.Str, variables))
	case types.NodeKindList:
		items := make([]types.Node, 0, len(node.Items))
		for _, item := range node.Items {
			items = append(items, p.ProcessNode(item, variables))
		}
		return types.ListNode(items...)
	case types.NodeKindMap:
		fields := make([]types.Field, 0, len(node.Fields))
		index := make(map[string]int, len(node.Fields))
		for _, field := range node.Fields {
			key := p.ProcessTemplate(field.Key, variables)
			value := p.ProcessNode(field.Value, variables)
			if pos, ok := index[key]; ok {
				fields[pos].Value = value
				continue
			}
			index[key] = len(fields)
			fields = append(fields, types.Field{Key: key, Value: value})
		}
		return types.MapNode(fields...)
	default:
		return node
	}
}

// ExtractVariableNames returns each referenced name once, in order of first
// appearance.
func (TemplateProcessor) ExtractVariableNames(template string) []string {
	names := []string{}
	if template == "" {
		return names
	}
	seen := map[string]struct{}{}
	for _, match := range placeholderRegex.FindAllStringSubmatch(template, -1) {
		name := match[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ExtractVariableNamesFromNode returns the names referenced anywhere in node,
// keys included, deduplicated and sorted.
func (p TemplateProcessor) ExtractVariableNamesFromNode(node types.Node) []string {
	seen := map[string]struct{}{}
	p.collectNames(node, seen)
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p TemplateProcessor) collectNames(node types.Node, seen map[string]struct{}) {
	switch node.Kind {
	case types.NodeKindString:
		for _, name := range p.ExtractVariableNames(node.Str) {
			seen[name] = struct{}{}
		}
	case types.NodeKindList:
		for _, item := range node.Items {
			p.collectNames(item, seen)
		}
	case types.NodeKindMap:
		for _, field := range node.Fields {
			for _, name := range p.ExtractVariableNames(field.Key) {
				seen[name] = struct{}{}
			}
			p.collectNames(field.Value, seen)
		}
	}
}

// Preview renders template and splits its referenced names into found and
// missing, both in extraction order.
func (p TemplateProcessor) Preview(template string, variables types.VariableSet) types.Preview {
	preview := types.Preview{
		Preview:          p.ProcessTemplate(template, variables),
		MissingVariables: []string{},
		FoundVariables:   []string{},
	}
	for _, name := range p.ExtractVariableNames(template) {
		if _, ok := variables.Lookup(name); ok {
			preview.FoundVariables = append(preview.FoundVariables, name)
			continue
		}
		preview.MissingVariables = append(preview.MissingVariables, name)
	}
	return preview
}
