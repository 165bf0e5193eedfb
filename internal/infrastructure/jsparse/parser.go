// Package jsparse parses JavaScript, JSX and TypeScript sources with
// tree-sitter and reduces them to the occurrences the scanner needs.
package jsparse

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"i18nscan/internal/domain/namespace"
	"i18nscan/internal/domain/syntax"
)

const (
	nodeCallExpression     = "call_expression"
	nodeMemberExpression   = "member_expression"
	nodeIdentifier         = "identifier"
	nodeThis               = "this"
	nodeString             = "string"
	nodeTemplateString     = "template_string"
	nodeNumber             = "number"
	nodeObject             = "object"
	nodeArray              = "array"
	nodePair               = "pair"
	nodeShorthandProperty  = "shorthand_property_identifier"
	nodeVariableDeclarator = "variable_declarator"
	nodeObjectPattern      = "object_pattern"
	nodeArrayPattern       = "array_pattern"
	nodePairPattern        = "pair_pattern"
	nodeShorthandPattern   = "shorthand_property_identifier_pattern"
	nodeObjectAssignment   = "object_assignment_pattern"
	nodeAssignmentPattern  = "assignment_pattern"
	nodeJSXElement         = "jsx_element"
	nodeJSXSelfClosing     = "jsx_self_closing_element"
	nodeJSXOpening         = "jsx_opening_element"
	nodeJSXClosing         = "jsx_closing_element"
	nodeJSXAttribute       = "jsx_attribute"
	nodeJSXText            = "jsx_text"
	nodeJSXExpression      = "jsx_expression"
	nodeJSXCharRef         = "html_character_reference"
	nodeComment            = "comment"
)

// scopeTypes open a new binding scope for declarators.
var scopeTypes = map[string]bool{
	"function_declaration":           true,
	"function":                       true,
	"function_expression":            true,
	"generator_function":             true,
	"generator_function_declaration": true,
	"arrow_function":                 true,
	"method_definition":              true,
}

// Parser is safe for concurrent use; every Parse call owns its tree-sitter parser.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Supports reports whether ext has a grammar.
func (p *Parser) Supports(ext string) bool {
	return languageFor(ext) != nil
}

func languageFor(ext string) *sitter.Language {
	switch strings.ToLower(ext) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return javascript.GetLanguage()
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	}
	return nil
}

// Parse reduces src to its occurrence list. Syntax errors are tolerated and
// flagged on the Unit; only cancellation and unsupported extensions fail.
func (p *Parser) Parse(ctx context.Context, ext string, src []byte) (*syntax.Unit, error) {
	lang := languageFor(ext)
	if lang == nil {
		return nil, fmt.Errorf("jsparse: no grammar for %q", ext)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("jsparse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	w := &walker{
		src:   src,
		unit:  &syntax.Unit{HasErrors: root.HasError()},
		built: make(map[uint32]bool),
	}
	w.walk(root, 0, uint32(len(src)))
	return w.unit, nil
}

type walker struct {
	src   []byte
	unit  *syntax.Unit
	built map[uint32]bool
}

func (w *walker) text(n *sitter.Node) string {
	return n.Content(w.src)
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func (w *walker) walk(n *sitter.Node, scopeStart, scopeEnd uint32) {
	if n == nil {
		return
	}
	switch t := n.Type(); {
	case scopeTypes[t]:
		scopeStart, scopeEnd = n.StartByte(), n.EndByte()
	case t == nodeCallExpression:
		w.call(n)
	case t == nodeVariableDeclarator:
		w.declarator(n, scopeStart, scopeEnd)
	case t == nodeJSXElement || t == nodeJSXSelfClosing:
		if !w.built[n.StartByte()] {
			w.element(n)
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		w.walk(n.Child(i), scopeStart, scopeEnd)
	}
}

func (w *walker) call(n *sitter.Node) {
	callee := w.calleeName(n.ChildByFieldName("function"))
	if callee == "" {
		return
	}
	w.unit.Calls = append(w.unit.Calls, syntax.Call{
		Callee: callee,
		Args:   w.arguments(n.ChildByFieldName("arguments")),
		Start:  n.StartByte(),
		Line:   line(n),
	})
}

// calleeName returns a dotted path for identifiers and static member
// chains, or "" for anything computed.
func (w *walker) calleeName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case nodeIdentifier:
		return w.text(n)
	case nodeThis:
		return "this"
	case nodeMemberExpression:
		obj := w.calleeName(n.ChildByFieldName("object"))
		prop := n.ChildByFieldName("property")
		if obj == "" || prop == nil {
			return ""
		}
		return obj + "." + w.text(prop)
	}
	return ""
}

func (w *walker) arguments(n *sitter.Node) []syntax.Value {
	if n == nil {
		return nil
	}
	var args []syntax.Value
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == nodeComment {
			continue
		}
		args = append(args, w.value(c))
	}
	return args
}

func (w *walker) value(n *sitter.Node) syntax.Value {
	raw := w.text(n)
	v := syntax.Value{Kind: syntax.KindOther, Raw: raw}
	switch n.Type() {
	case nodeString, nodeTemplateString:
		if s, err := namespace.Unquote(raw); err == nil {
			v.Kind, v.Str = syntax.KindString, s
		}
	case nodeNumber:
		v.Kind = syntax.KindNumber
	case "true", "false":
		v.Kind = syntax.KindBool
	case "null", "undefined":
		v.Kind = syntax.KindNull
	case nodeObject:
		v.Kind = syntax.KindObject
		v.Fields = w.fields(n)
	case nodeArray:
		v.Kind = syntax.KindArray
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if c := n.NamedChild(i); c.Type() != nodeComment {
				v.Elems = append(v.Elems, w.value(c))
			}
		}
	}
	return v
}

func (w *walker) fields(n *sitter.Node) []syntax.Field {
	var out []syntax.Field
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case nodePair:
			key := w.propertyKey(c.ChildByFieldName("key"))
			val := c.ChildByFieldName("value")
			if key == "" || val == nil {
				continue
			}
			out = append(out, syntax.Field{Key: key, Value: w.value(val)})
		case nodeShorthandProperty:
			name := w.text(c)
			out = append(out, syntax.Field{Key: name, Value: syntax.Value{Kind: syntax.KindOther, Raw: name}})
		}
	}
	return out
}

func (w *walker) propertyKey(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case nodeString:
		s, err := namespace.Unquote(w.text(n))
		if err != nil {
			return ""
		}
		return s
	case "computed_property_name":
		return ""
	}
	return w.text(n)
}

func (w *walker) declarator(n *sitter.Node, scopeStart, scopeEnd uint32) {
	val := n.ChildByFieldName("value")
	if val == nil {
		return
	}
	if val.Type() == "await_expression" && val.NamedChildCount() > 0 {
		val = val.NamedChild(0)
	}
	if val.Type() != nodeCallExpression {
		return
	}
	callee := w.calleeName(val.ChildByFieldName("function"))
	if callee == "" {
		return
	}
	pattern, ok := w.pattern(n.ChildByFieldName("name"))
	if !ok {
		return
	}
	w.unit.Declarators = append(w.unit.Declarators, syntax.Declarator{
		Pattern:    pattern,
		Callee:     callee,
		Args:       w.arguments(val.ChildByFieldName("arguments")),
		Start:      n.StartByte(),
		Line:       line(n),
		ScopeStart: scopeStart,
		ScopeEnd:   scopeEnd,
	})
}

func (w *walker) pattern(n *sitter.Node) (syntax.Pattern, bool) {
	if n == nil {
		return syntax.Pattern{}, false
	}
	switch n.Type() {
	case nodeIdentifier:
		return syntax.Pattern{Kind: syntax.PatternIdentifier, Name: w.text(n)}, true
	case nodeObjectPattern:
		p := syntax.Pattern{Kind: syntax.PatternObject}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if prop, ok := w.patternProp(n.NamedChild(i)); ok {
				p.Props = append(p.Props, prop)
			}
		}
		return p, true
	case nodeArrayPattern:
		p := syntax.Pattern{Kind: syntax.PatternArray}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			p.Elems = append(p.Elems, w.bindingName(n.NamedChild(i)))
		}
		return p, true
	}
	return syntax.Pattern{}, false
}

func (w *walker) patternProp(n *sitter.Node) (syntax.PatternProp, bool) {
	switch n.Type() {
	case nodeShorthandPattern:
		name := w.text(n)
		return syntax.PatternProp{Key: name, Local: name}, true
	case nodeObjectAssignment:
		left := n.ChildByFieldName("left")
		if left == nil {
			return syntax.PatternProp{}, false
		}
		name := w.text(left)
		return syntax.PatternProp{Key: name, Local: name}, true
	case nodePairPattern:
		key := w.propertyKey(n.ChildByFieldName("key"))
		local := w.bindingName(n.ChildByFieldName("value"))
		if key == "" {
			return syntax.PatternProp{}, false
		}
		return syntax.PatternProp{Key: key, Local: local}, true
	}
	return syntax.PatternProp{}, false
}

// bindingName returns the local identifier bound by n, unwrapping defaults.
func (w *walker) bindingName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case nodeIdentifier:
		return w.text(n)
	case nodeAssignmentPattern:
		return w.bindingName(n.ChildByFieldName("left"))
	}
	return ""
}
