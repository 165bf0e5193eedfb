// Package namespace maps namespace expressions found in source text to
// canonical namespace names.
package namespace

import (
	"regexp"
	"strings"
)

// DefaultTableName is the constant table generated by the namespace-map writer.
const DefaultTableName = "I18nNamespace"

var memberAccess = regexp.MustCompile(`^([A-Za-z_$][\w$]*)\s*\.\s*([A-Za-z_$][\w$]*)$`)

// Resolver is a read-only lookup; it is safe for concurrent use.
type Resolver struct {
	defaultNS string
	tableName string
	table     map[string]string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTable sets the constant namespace table. A nil entries map makes
// Table.member resolve to member itself.
func WithTable(name string, entries map[string]string) Option {
	return func(r *Resolver) {
		r.tableName = name
		r.table = make(map[string]string, len(entries))
		for k, v := range entries {
			r.table[k] = v
		}
	}
}

// NewResolver returns a Resolver falling back to defaultNS.
func NewResolver(defaultNS string, opts ...Option) *Resolver {
	r := &Resolver{defaultNS: defaultNS, tableName: DefaultTableName}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default returns the fallback namespace.
func (r *Resolver) Default() string {
	return r.defaultNS
}

// Resolve canonicalizes a raw namespace expression.
func (r *Resolver) Resolve(expr string) string {
	if ns, ok := r.resolve(strings.TrimSpace(expr)); ok && ns != "" {
		return ns
	}
	return r.defaultNS
}

func (r *Resolver) resolve(expr string) (string, bool) {
	if expr == "" {
		return "", false
	}
	if m := memberAccess.FindStringSubmatch(expr); m != nil {
		if m[1] != r.tableName {
			return "", false
		}
		if v, ok := r.table[m[2]]; ok {
			return v, true
		}
		return m[2], true
	}
	if s, err := Unquote(expr); err == nil {
		return s, true
	}
	// Later elements declare extra namespaces and are ignored.
	if elems, ok := SplitArray(expr); ok {
		if len(elems) == 0 {
			return "", false
		}
		return r.resolve(elems[0])
	}
	return "", false
}
