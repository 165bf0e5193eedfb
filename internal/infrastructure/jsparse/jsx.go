package jsparse

import (
	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/net/html"

	"i18nscan/internal/domain/syntax"
)

// element builds the Element for n and registers it and every nested
// element in document order.
func (w *walker) element(n *sitter.Node) *syntax.Element {
	e := &syntax.Element{Start: n.StartByte(), Line: line(n)}
	w.built[n.StartByte()] = true
	w.unit.Elements = append(w.unit.Elements, e)

	if n.Type() == nodeJSXSelfClosing {
		e.SelfClosing = true
		w.openTag(n, e)
		return e
	}
	// Text runs are taken from the bytes between structural children so
	// whitespace survives regardless of how the grammar tokenizes jsx_text.
	var pos uint32
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case nodeJSXOpening:
			w.openTag(c, e)
			pos = c.EndByte()
			continue
		case nodeJSXText, nodeJSXCharRef:
			continue
		}
		if c.StartByte() > pos && pos > 0 {
			text := html.UnescapeString(string(w.src[pos:c.StartByte()]))
			e.Children = append(e.Children, syntax.Node{Kind: syntax.NodeText, Text: text})
		}
		pos = c.EndByte()
		switch c.Type() {
		case nodeJSXExpression:
			e.Children = append(e.Children, syntax.Node{Kind: syntax.NodeExpression, Expr: w.expression(c)})
		case nodeJSXElement, nodeJSXSelfClosing:
			e.Children = append(e.Children, syntax.Node{Kind: syntax.NodeElement, Element: w.element(c)})
		}
	}
	return e
}

func (w *walker) openTag(n *sitter.Node, e *syntax.Element) {
	if name := n.ChildByFieldName("name"); name != nil {
		e.Name = w.text(name)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != nodeJSXAttribute {
			continue
		}
		if attr, ok := w.attribute(c); ok {
			e.Attrs = append(e.Attrs, attr)
		}
	}
}

// attribute reads `name`, `name="text"` or `name={expr}`. JSX string
// attributes carry no escape sequences, so their text is taken verbatim.
func (w *walker) attribute(n *sitter.Node) (syntax.Attr, bool) {
	if n.NamedChildCount() == 0 {
		return syntax.Attr{}, false
	}
	attr := syntax.Attr{Name: w.text(n.NamedChild(0))}
	if n.NamedChildCount() < 2 {
		attr.Bare = true
		return attr, true
	}
	val := n.NamedChild(1)
	switch val.Type() {
	case nodeString:
		raw := w.text(val)
		attr.Value = syntax.Value{Kind: syntax.KindString, Raw: raw}
		if len(raw) >= 2 {
			attr.Value.Str = html.UnescapeString(raw[1 : len(raw)-1])
		}
	case nodeJSXExpression:
		attr.Value = w.expression(val)
	default:
		attr.Value = syntax.Value{Kind: syntax.KindOther, Raw: w.text(val)}
	}
	return attr, true
}

// expression unwraps `{expr}`; an empty container yields KindOther with no Raw.
func (w *walker) expression(n *sitter.Node) syntax.Value {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() != nodeComment {
			return w.value(c)
		}
	}
	return syntax.Value{Kind: syntax.KindOther}
}
