// Package syntax is the structural occurrence model the scanner consumes:
// calls, declarators and JSX elements from code, attribute matches from markup.
package syntax

// ValueKind classifies a call argument or attribute value.
type ValueKind int

const (
	KindOther ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindNull
	KindObject
	KindArray
)

// Value is a structural view of a literal expression. Non-literal
// expressions are KindOther and only carry Raw.
type Value struct {
	Kind   ValueKind
	Str    string // decoded text for KindString
	Raw    string // source text
	Fields []Field
	Elems  []Value
}

// Field is one property of an object literal, in source order.
type Field struct {
	Key   string
	Value Value
}

// Field returns the first property named key.
func (v Value) Field(key string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Call is a call expression with a statically known callee path such as
// "t", "i18n.t" or "this.props.t".
type Call struct {
	Callee string
	Args   []Value
	Start  uint32
	Line   int
}

// PatternKind is the shape of a declarator's binding target.
type PatternKind int

const (
	PatternIdentifier PatternKind = iota
	PatternObject
	PatternArray
)

// PatternProp is one property of an object pattern: `{t: tr}` has Key "t"
// and Local "tr"; shorthand `{t}` has both set to "t".
type PatternProp struct {
	Key   string
	Local string
}

// Pattern is a declarator binding target.
type Pattern struct {
	Kind  PatternKind
	Name  string
	Props []PatternProp
	Elems []string
}

// Declarator is `const|let|var <pattern> = <callee>(<args>)`. The scope
// is the byte range of the enclosing function, or the whole unit.
type Declarator struct {
	Pattern    Pattern
	Callee     string
	Args       []Value
	Start      uint32
	Line       int
	ScopeStart uint32
	ScopeEnd   uint32
}

// NodeKind classifies JSX children.
type NodeKind int

const (
	NodeText NodeKind = iota
	NodeElement
	NodeExpression
)

// Node is one JSX child.
type Node struct {
	Kind    NodeKind
	Text    string
	Element *Element
	Expr    Value
}

// Attr is a JSX attribute. Bare attributes have Bare set and no value.
type Attr struct {
	Name  string
	Value Value
	Bare  bool
}

// Element is a JSX element or self-closing element.
type Element struct {
	Name        string
	Attrs       []Attr
	Children    []Node
	SelfClosing bool
	Start       uint32
	Line        int
}

// Attr returns the first attribute named name.
func (e *Element) Attr(name string) (Attr, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attr{}, false
}

// Unit is the structural occurrence list of one parsed source unit, every
// list in source order.
type Unit struct {
	Calls       []Call
	Declarators []Declarator
	Elements    []*Element
	HasErrors   bool
}

// AttrMatch is one key found in a markup attribute value.
type AttrMatch struct {
	Attr string
	Key  string
	Line int
}
