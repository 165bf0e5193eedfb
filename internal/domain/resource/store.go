// Package resource holds the in-memory locale -> namespace -> key model that
// discovered keys are merged into.
package resource

import (
	"fmt"
	"slices"
	"strings"

	"i18nscan/internal/domain"
	"i18nscan/internal/domain/entities"
)

// Options configures a Store. Zero separators disable the matching feature.
type Options struct {
	Locales          []string
	Namespaces       []string
	DefaultNS        string
	DefaultValue     string
	NsSeparator      string
	ContextSeparator string
	PluralSeparator  string
	Plural           bool
	Context          bool
	// SavePath expands the bundle path for a locale and namespace.
	SavePath func(locale, ns string) string
}

// Bundle is the retrieved content of one (locale, namespace) pair.
type Bundle struct {
	Locale    string
	Namespace string
	Keys      []string
	Values    map[string]string
}

type namespaceEntries struct {
	keys    []string
	entries map[string]*entities.Entry
}

// Store is single-writer: callers serialize Set. It is never written after Freeze.
type Store struct {
	opts     Options
	order    []string
	suffixes map[string][]string
	locales  map[string]bool
	nsOrder  []string
	data     map[string]map[string]*namespaceEntries
	loaded   map[string]map[string]map[string]string
	frozen   bool
}

// NewStore seeds every configured locale with every configured namespace.
func NewStore(opts Options) *Store {
	s := &Store{
		opts:     opts,
		suffixes: make(map[string][]string, len(opts.Locales)),
		locales:  make(map[string]bool, len(opts.Locales)),
		data:     make(map[string]map[string]*namespaceEntries, len(opts.Locales)),
		loaded:   make(map[string]map[string]map[string]string),
	}
	for _, lng := range opts.Locales {
		if s.locales[lng] {
			continue
		}
		s.locales[lng] = true
		s.order = append(s.order, lng)
		s.data[lng] = make(map[string]*namespaceEntries)
		s.suffixes[lng] = PluralSuffixes(lng)
	}
	for _, ns := range opts.Namespaces {
		s.ensureNamespace(ns)
	}
	if opts.DefaultNS != "" {
		s.ensureNamespace(opts.DefaultNS)
	}
	return s
}

func (s *Store) ensureNamespace(ns string) {
	if ns == "" || slices.Contains(s.nsOrder, ns) {
		return
	}
	s.nsOrder = append(s.nsOrder, ns)
	for _, lng := range s.order {
		if _, ok := s.data[lng][ns]; !ok {
			s.data[lng][ns] = &namespaceEntries{entries: make(map[string]*entities.Entry)}
		}
	}
}

// Locales returns the configured locales in order.
func (s *Store) Locales() []string {
	return slices.Clone(s.order)
}

// Namespaces returns seeded namespaces followed by discovered ones.
func (s *Store) Namespaces() []string {
	return slices.Clone(s.nsOrder)
}

// Load registers existing translations for a bundle. A non-empty loaded
// value wins over the scanned default of an observed key.
func (s *Store) Load(locale, ns string, values map[string]string) error {
	if s.frozen {
		return domain.ErrStoreFrozen
	}
	if !s.locales[locale] {
		return fmt.Errorf("load %s/%s: %w", locale, ns, domain.ErrUnknownLocale)
	}
	if s.loaded[locale] == nil {
		s.loaded[locale] = make(map[string]map[string]string)
	}
	dst := s.loaded[locale][ns]
	if dst == nil {
		dst = make(map[string]string, len(values))
		s.loaded[locale][ns] = dst
	}
	for k, v := range values {
		dst[k] = v
	}
	return nil
}

// Set merges an observation into the entries of every targeted locale.
func (s *Store) Set(obs entities.Observation) error {
	if s.frozen {
		return domain.ErrStoreFrozen
	}

	key, ns := obs.Key, obs.Namespace
	if sep, ok := obs.NsSeparator.Resolve(s.opts.NsSeparator); ok && strings.Contains(key, sep) {
		parts := strings.SplitN(key, sep, 2)
		ns, key = parts[0], parts[1]
	}
	if ns == "" {
		ns = s.opts.DefaultNS
	}
	if key == "" {
		return domain.ErrEmptyKey
	}
	if s.opts.Context && obs.Context != "" {
		key += s.opts.ContextSeparator + obs.Context
	}

	s.ensureNamespace(ns)
	for _, lng := range s.targets(obs.Locales) {
		bucket := s.data[lng][ns]
		if obs.Count && s.opts.Plural {
			for _, form := range s.suffixes[lng] {
				s.merge(bucket, key+s.opts.PluralSeparator+form, ns, form, obs)
			}
			continue
		}
		s.merge(bucket, key, ns, "", obs)
	}
	return nil
}

func (s *Store) targets(locales []string) []string {
	if len(locales) == 0 {
		return s.order
	}
	out := make([]string, 0, len(locales))
	for _, lng := range s.order {
		if slices.Contains(locales, lng) {
			out = append(out, lng)
		}
	}
	return out
}

// merge applies the default-value rule: the first value is kept until a
// non-empty one arrives; a blank write never clears a stored value.
func (s *Store) merge(bucket *namespaceEntries, key, ns, form string, obs entities.Observation) {
	if e, ok := bucket.entries[key]; ok {
		if obs.DefaultValue != "" {
			e.DefaultValue = obs.DefaultValue
		}
		return
	}
	bucket.keys = append(bucket.keys, key)
	bucket.entries[key] = &entities.Entry{
		DefaultValue: obs.DefaultValue,
		Plural:       form,
		Context:      obs.Context,
		Namespace:    ns,
		Pass:         obs.Pass,
	}
}

// Entry returns a copy of the stored entry.
func (s *Store) Entry(locale, ns, key string) (entities.Entry, bool) {
	nsMap, ok := s.data[locale]
	if !ok {
		return entities.Entry{}, false
	}
	bucket, ok := nsMap[ns]
	if !ok {
		return entities.Entry{}, false
	}
	e, ok := bucket.entries[key]
	if !ok {
		return entities.Entry{}, false
	}
	return *e, true
}

// Get returns every bundle in locale order then namespace order. With
// sorted set, keys are in ascending byte order; otherwise first-observed order.
func (s *Store) Get(sorted bool) []Bundle {
	out := make([]Bundle, 0, len(s.order)*len(s.nsOrder))
	for _, lng := range s.order {
		for _, ns := range s.nsOrder {
			bucket := s.data[lng][ns]
			keys := slices.Clone(bucket.keys)
			if sorted {
				slices.Sort(keys)
			}
			values := make(map[string]string, len(keys))
			for _, k := range keys {
				values[k] = s.value(lng, ns, k, bucket.entries[k])
			}
			out = append(out, Bundle{Locale: lng, Namespace: ns, Keys: keys, Values: values})
		}
	}
	return out
}

func (s *Store) value(lng, ns, key string, e *entities.Entry) string {
	if v := s.loaded[lng][ns][key]; v != "" {
		return v
	}
	if e.DefaultValue != "" {
		return e.DefaultValue
	}
	return s.opts.DefaultValue
}

// Freeze marks the start of flushing; later writes fail with ErrStoreFrozen.
func (s *Store) Freeze() {
	s.frozen = true
}

// FormatResourceSavePath expands the configured bundle path.
func (s *Store) FormatResourceSavePath(locale, ns string) string {
	if s.opts.SavePath != nil {
		return s.opts.SavePath(locale, ns)
	}
	return locale + "/" + ns + ".json"
}
