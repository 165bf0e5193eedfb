package entities

// SeparatorMode tells the store how to split a combined "ns:key" string.
type SeparatorMode int

const (
	// SeparatorDefault uses the store's configured namespace separator.
	SeparatorDefault SeparatorMode = iota
	// SeparatorDisabled keeps the key intact.
	SeparatorDisabled
	// SeparatorCustom uses Separator.Value for this observation only.
	SeparatorCustom
)

// Separator is a per-observation namespace separator override.
type Separator struct {
	Mode  SeparatorMode
	Value string
}

// DisabledSeparator returns a separator that never splits the key.
func DisabledSeparator() Separator {
	return Separator{Mode: SeparatorDisabled}
}

// CustomSeparator returns a separator override; an empty value disables splitting.
func CustomSeparator(v string) Separator {
	if v == "" {
		return DisabledSeparator()
	}
	return Separator{Mode: SeparatorCustom, Value: v}
}

// Resolve returns the separator to apply given the store default.
// ok is false when splitting is disabled.
func (s Separator) Resolve(def string) (sep string, ok bool) {
	switch s.Mode {
	case SeparatorDisabled:
		return "", false
	case SeparatorCustom:
		return s.Value, s.Value != ""
	default:
		return def, def != ""
	}
}

// Observation is one discovered key occurrence before it is merged into the store.
type Observation struct {
	Key          string
	Namespace    string // empty: derived from the key or the default namespace
	NsSeparator  Separator
	DefaultValue string
	// Locales narrows the write to these locales; empty means every configured locale.
	Locales []string
	Count   bool
	Context string
	Pass    Pass
	Path    string
	Line    int
}

// Entry is the value stored for one (locale, namespace, key).
type Entry struct {
	DefaultValue string
	Plural       string // plural category the key was expanded for, if any
	Context      string
	Namespace    string // namespace the observation was attributed to
	Pass         Pass
}

// Document is one serialized resource bundle.
type Document struct {
	Locale    string
	Namespace string
	Path      string
	Body      []byte
	Keys      int
}
