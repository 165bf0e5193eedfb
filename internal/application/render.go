package application

import (
	"slices"
	"strconv"
	"strings"

	"i18nscan/internal/domain/syntax"
)

// renderNodes flattens Trans children into the default text react-i18next
// expects: elements become indexed tags, `{name}` objects become
// interpolations and whitelisted bare HTML nodes keep their name.
func renderNodes(children []syntax.Node, keep []string) string {
	var b strings.Builder
	for i, n := range normalizeNodes(children) {
		switch n.Kind {
		case syntax.NodeText:
			b.WriteString(n.Text)
		case syntax.NodeExpression:
			b.WriteString(renderExpression(n.Expr))
		case syntax.NodeElement:
			renderElement(&b, i, n.Element, keep)
		}
	}
	return b.String()
}

func renderElement(b *strings.Builder, index int, e *syntax.Element, keep []string) {
	kids := normalizeNodes(e.Children)
	if slices.Contains(keep, e.Name) && len(e.Attrs) == 0 && textOnly(kids) {
		if len(kids) == 0 {
			b.WriteString("<" + e.Name + "/>")
			return
		}
		b.WriteString("<" + e.Name + ">")
		for _, k := range kids {
			b.WriteString(k.Text)
		}
		b.WriteString("</" + e.Name + ">")
		return
	}
	tag := strconv.Itoa(index)
	b.WriteString("<" + tag + ">")
	b.WriteString(renderNodes(e.Children, keep))
	b.WriteString("</" + tag + ">")
}

func textOnly(nodes []syntax.Node) bool {
	for _, n := range nodes {
		if n.Kind != syntax.NodeText {
			return false
		}
	}
	return true
}

// renderExpression renders `{"text"}` as text and `{{name}}` or
// `{{name: value}}` as an interpolation. Anything else occupies its index
// but renders empty.
func renderExpression(v syntax.Value) string {
	switch v.Kind {
	case syntax.KindString:
		return v.Str
	case syntax.KindObject:
		if len(v.Fields) > 0 {
			return "{{" + v.Fields[0].Key + "}}"
		}
	}
	return ""
}

// normalizeNodes merges adjacent text, applies JSX whitespace rules and
// drops children that are empty afterwards. Indexes of the returned slice
// are the element placeholders.
func normalizeNodes(children []syntax.Node) []syntax.Node {
	out := make([]syntax.Node, 0, len(children))
	for _, n := range children {
		if n.Kind == syntax.NodeText && len(out) > 0 && out[len(out)-1].Kind == syntax.NodeText {
			out[len(out)-1].Text += n.Text
			continue
		}
		if n.Kind == syntax.NodeExpression && n.Expr.Kind == syntax.KindOther && n.Expr.Raw == "" {
			continue
		}
		out = append(out, n)
	}
	kept := out[:0]
	for _, n := range out {
		if n.Kind == syntax.NodeText {
			n.Text = cleanJSXText(n.Text)
			if n.Text == "" {
				continue
			}
		}
		kept = append(kept, n)
	}
	return kept
}

// cleanJSXText trims each line of a JSX text run, drops blank lines and
// joins the remainder with single spaces.
func cleanJSXText(text string) string {
	lines := strings.Split(strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text), "\n")
	lastNonEmpty := -1
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			lastNonEmpty = i
		}
	}
	var b strings.Builder
	for i, l := range lines {
		l = strings.ReplaceAll(l, "\t", " ")
		if i > 0 {
			l = strings.TrimLeft(l, " ")
		}
		if i < len(lines)-1 {
			l = strings.TrimRight(l, " ")
		}
		if l == "" {
			continue
		}
		b.WriteString(l)
		if i != lastNonEmpty {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
