package application

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"i18nscan/internal/domain"
	"i18nscan/internal/domain/entities"
	"i18nscan/internal/domain/namespace"
	"i18nscan/internal/domain/syntax"
	"i18nscan/internal/ports/output"
)

// ScanOptions selects which passes run on which extensions and which names
// each pass recognises.
type ScanOptions struct {
	AttrList       []string
	AttrExtensions []string

	FuncList       []string
	FuncExtensions []string

	HookList []string
	HOCList  []string

	TransExtensions       []string
	TransComponent        string
	TransI18nKey          string
	TransDefaultsKey      string
	KeepBasicHTMLNodesFor []string
}

// DefaultScanOptions returns the stock pass configuration.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		AttrList:              []string{"data-i18n"},
		AttrExtensions:        []string{".html", ".htm"},
		FuncList:              []string{"t", "i18next.t"},
		FuncExtensions:        []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"},
		HookList:              []string{"useTranslation"},
		HOCList:               []string{"withTranslation"},
		TransExtensions:       []string{".js", ".jsx", ".ts", ".tsx"},
		TransComponent:        "Trans",
		TransI18nKey:          "i18nKey",
		TransDefaultsKey:      "defaults",
		KeepBasicHTMLNodesFor: []string{"br", "strong", "i", "p"},
	}
}

// Scanner turns one source unit into observations and diagnostics. It holds
// no per-unit state, so a single Scanner may serve concurrent Scan calls.
type Scanner struct {
	opts     ScanOptions
	resolver *namespace.Resolver
	code     output.CodeParser
	markup   output.MarkupExtractor
}

func NewScanner(
	opts ScanOptions,
	resolver *namespace.Resolver,
	code output.CodeParser,
	markup output.MarkupExtractor,
) *Scanner {
	return &Scanner{
		opts:     opts,
		resolver: resolver,
		code:     code,
		markup:   markup,
	}
}

// Scan runs every pass enabled for the unit's extension.
func (s *Scanner) Scan(ctx context.Context, unit entities.SourceUnit) (entities.ScanResult, error) {
	res := entities.ScanResult{Path: unit.Path}
	ext := unit.Ext()

	if slices.Contains(s.opts.AttrExtensions, ext) && s.markup != nil {
		if err := s.scanAttrs(unit, &res); err != nil {
			return res, err
		}
	}

	funcOn := slices.Contains(s.opts.FuncExtensions, ext)
	transOn := slices.Contains(s.opts.TransExtensions, ext)
	if (!funcOn && !transOn) || s.code == nil || !s.code.Supports(ext) {
		return res, nil
	}

	tree, err := s.code.Parse(ctx, ext, unit.Text)
	if err != nil {
		return res, fmt.Errorf("%s: %w: %w", unit.Path, domain.ErrSourceParse, err)
	}

	h := &hints{}
	if funcOn {
		s.bindHooks(tree, h)
		s.bindHOC(tree, h, &res)
		s.scanCalls(tree, h, &res)
	}
	if transOn {
		s.scanTrans(tree, h, &res)
	}
	return res, nil
}

func (s *Scanner) scanAttrs(unit entities.SourceUnit, res *entities.ScanResult) error {
	matches, err := s.markup.Extract(unit.Text)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", unit.Path, domain.ErrSourceParse, err)
	}
	for _, m := range matches {
		if !slices.ContainsFunc(s.opts.AttrList, func(a string) bool { return strings.EqualFold(a, m.Attr) }) {
			continue
		}
		res.Observations = append(res.Observations, entities.Observation{
			Key:  m.Key,
			Pass: entities.PassAttr,
			Path: unit.Path,
			Line: m.Line,
		})
	}
	return nil
}

// alias binds a callee name to a namespace within a byte range of the unit.
type alias struct {
	name       string
	suffix     bool
	ns         string
	pass       entities.Pass
	declStart  uint32
	scopeStart uint32
	scopeEnd   uint32
}

func (a alias) matches(callee string) bool {
	if callee == a.name {
		return true
	}
	return a.suffix && strings.HasSuffix(callee, "."+a.name)
}

// hints is the unit-scoped alias table. It lives only for one Scan call.
type hints struct {
	hooks       []alias
	hoc         []alias
	plainTBound bool
}

// lookup finds the alias governing a call at pos: the hook binding of the
// innermost enclosing scope (latest declaration first), then the HOC alias.
func (h *hints) lookup(callee string, pos uint32) (alias, bool) {
	var best alias
	found := false
	for _, a := range h.hooks {
		if !a.matches(callee) || pos < a.scopeStart || pos >= a.scopeEnd {
			continue
		}
		if !found {
			best, found = a, true
			continue
		}
		width, bestWidth := a.scopeEnd-a.scopeStart, best.scopeEnd-best.scopeStart
		switch {
		case width < bestWidth:
			best = a
		case width == bestWidth && a.declStart <= pos && (best.declStart > pos || a.declStart > best.declStart):
			best = a
		}
	}
	if found {
		return best, true
	}
	for _, a := range h.hoc {
		if a.matches(callee) {
			return a, true
		}
	}
	return alias{}, false
}

func (s *Scanner) bindHooks(tree *syntax.Unit, h *hints) {
	for _, d := range tree.Declarators {
		if !slices.Contains(s.opts.HookList, d.Callee) {
			continue
		}
		ns := s.resolver.Resolve(firstRaw(d.Args))
		for _, name := range hookAliases(d.Pattern) {
			if name == "t" {
				h.plainTBound = true
			}
			h.hooks = append(h.hooks, alias{
				name:       name,
				ns:         ns,
				pass:       entities.PassHook,
				declStart:  d.Start,
				scopeStart: d.ScopeStart,
				scopeEnd:   d.ScopeEnd,
			})
		}
	}
}

// hookAliases lists the callee names a hook binding makes available.
func hookAliases(p syntax.Pattern) []string {
	switch p.Kind {
	case syntax.PatternIdentifier:
		if p.Name != "" {
			return []string{p.Name + ".t"}
		}
	case syntax.PatternObject:
		var out []string
		renamed := false
		for _, prop := range p.Props {
			switch prop.Key {
			case "t":
				renamed = true
				out = append(out, prop.Local)
			case "i18n":
				out = append(out, prop.Local+".t")
			}
		}
		// Without a t property the hook still governs plain t in its scope.
		if !renamed {
			out = append(out, "t")
		}
		return out
	case syntax.PatternArray:
		var out []string
		if len(p.Elems) > 0 && p.Elems[0] != "" {
			out = append(out, p.Elems[0])
		}
		if len(p.Elems) > 1 && p.Elems[1] != "" {
			out = append(out, p.Elems[1]+".t")
		}
		return out
	}
	return nil
}

func (s *Scanner) bindHOC(tree *syntax.Unit, h *hints, res *entities.ScanResult) {
	var calls []syntax.Call
	for _, c := range tree.Calls {
		if slices.Contains(s.opts.HOCList, c.Callee) {
			calls = append(calls, c)
		}
	}
	switch {
	case len(calls) == 0:
		return
	case len(calls) > 1:
		lines := make([]string, len(calls))
		for i, c := range calls {
			lines[i] = fmt.Sprint(c.Line)
		}
		res.Diagnostics = append(res.Diagnostics, entities.Diagnostic{
			Code:   string(domain.DiagMultipleHOC),
			Path:   res.Path,
			Line:   calls[1].Line,
			Detail: fmt.Sprintf("%s called on lines %s", calls[0].Callee, strings.Join(lines, ", ")),
		})
		return
	}

	ns := s.resolver.Resolve(firstRaw(calls[0].Args))
	h.hoc = append(h.hoc, alias{name: "props.t", suffix: true, ns: ns, pass: entities.PassHOC})
	if !h.plainTBound {
		h.hoc = append(h.hoc, alias{name: "t", ns: ns, pass: entities.PassHOC})
	}
}

func (s *Scanner) scanCalls(tree *syntax.Unit, h *hints, res *entities.ScanResult) {
	for _, c := range tree.Calls {
		a, bound := h.lookup(c.Callee, c.Start)
		if !bound && !s.inFuncList(c.Callee) {
			continue
		}
		obs, ok := s.callObservation(c, res)
		if !ok {
			continue
		}
		obs.Pass = entities.PassFunc
		if bound {
			obs.Pass = a.pass
			obs.NsSeparator = entities.DisabledSeparator()
			if a.pass == entities.PassHook || obs.Namespace == "" {
				obs.Namespace = a.ns
			}
		}
		res.Observations = append(res.Observations, obs)
	}
}

func (s *Scanner) inFuncList(callee string) bool {
	for _, name := range s.opts.FuncList {
		if callee == name || strings.HasSuffix(callee, "."+name) {
			return true
		}
	}
	return false
}

// callObservation reads the key and options of a candidate call. A call
// without a literal key yields a dynamic-key diagnostic.
func (s *Scanner) callObservation(c syntax.Call, res *entities.ScanResult) (entities.Observation, bool) {
	if len(c.Args) == 0 || c.Args[0].Kind != syntax.KindString || c.Args[0].Str == "" {
		raw := ""
		if len(c.Args) > 0 {
			raw = c.Args[0].Raw
		}
		res.Diagnostics = append(res.Diagnostics, entities.Diagnostic{
			Code:   string(domain.DiagDynamicKey),
			Path:   res.Path,
			Line:   c.Line,
			Detail: fmt.Sprintf("%s(%s)", c.Callee, raw),
		})
		return entities.Observation{}, false
	}

	obs := entities.Observation{
		Key:  c.Args[0].Str,
		Path: res.Path,
		Line: c.Line,
	}
	var opts syntax.Value
	if len(c.Args) > 1 {
		switch c.Args[1].Kind {
		case syntax.KindString:
			obs.DefaultValue = c.Args[1].Str
			if len(c.Args) > 2 && c.Args[2].Kind == syntax.KindObject {
				opts = c.Args[2]
			}
		case syntax.KindObject:
			opts = c.Args[1]
		}
	}
	s.applyOptions(&obs, opts)
	return obs, true
}

func (s *Scanner) applyOptions(obs *entities.Observation, opts syntax.Value) {
	if opts.Kind != syntax.KindObject {
		return
	}
	if v, ok := opts.Field("defaultValue"); ok && v.Kind == syntax.KindString {
		obs.DefaultValue = v.Str
	}
	if _, ok := opts.Field("count"); ok {
		obs.Count = true
	}
	if v, ok := opts.Field("context"); ok && v.Kind == syntax.KindString {
		obs.Context = v.Str
	}
	if v, ok := opts.Field("ns"); ok && (v.Kind == syntax.KindString || v.Kind == syntax.KindArray) {
		obs.Namespace = s.resolver.Resolve(v.Raw)
	}
	if v, ok := opts.Field("lngs"); ok && v.Kind == syntax.KindArray {
		for _, e := range v.Elems {
			if e.Kind == syntax.KindString && e.Str != "" {
				obs.Locales = append(obs.Locales, e.Str)
			}
		}
	}
	if v, ok := opts.Field("nsSeparator"); ok {
		switch v.Kind {
		case syntax.KindString:
			obs.NsSeparator = entities.CustomSeparator(v.Str)
		case syntax.KindBool:
			if v.Raw == "false" {
				obs.NsSeparator = entities.DisabledSeparator()
			}
		}
	}
}

func (s *Scanner) isTrans(name string) bool {
	comp := s.opts.TransComponent
	return comp != "" && (name == comp || strings.HasSuffix(name, "."+comp))
}

func (s *Scanner) scanTrans(tree *syntax.Unit, h *hints, res *entities.ScanResult) {
	for _, e := range tree.Elements {
		if !s.isTrans(e.Name) {
			continue
		}
		key := attrString(e, s.opts.TransI18nKey)
		text := attrString(e, s.opts.TransDefaultsKey)
		if text == "" {
			text = renderNodes(e.Children, s.opts.KeepBasicHTMLNodesFor)
		}
		if key == "" {
			key = text
		}
		if key == "" {
			res.Diagnostics = append(res.Diagnostics, entities.Diagnostic{
				Code:   string(domain.DiagMissingKey),
				Path:   res.Path,
				Line:   e.Line,
				Detail: "<" + e.Name + ">",
			})
			continue
		}

		obs := entities.Observation{
			Key:          key,
			Namespace:    s.transNamespace(e, h),
			NsSeparator:  entities.DisabledSeparator(),
			DefaultValue: text,
			Pass:         entities.PassTrans,
			Path:         res.Path,
			Line:         e.Line,
		}
		if _, ok := e.Attr("count"); ok {
			obs.Count = true
		}
		obs.Context = attrString(e, "context")
		res.Observations = append(res.Observations, obs)
	}
}

func (s *Scanner) transNamespace(e *syntax.Element, h *hints) string {
	if a, ok := e.Attr("ns"); ok && !a.Bare {
		return s.resolver.Resolve(a.Value.Raw)
	}
	if a, ok := e.Attr("t"); ok && !a.Bare {
		if bound, ok := h.lookup(a.Value.Raw, e.Start); ok {
			return bound.ns
		}
	}
	return s.resolver.Default()
}

func attrString(e *syntax.Element, name string) string {
	if name == "" {
		return ""
	}
	a, ok := e.Attr(name)
	if !ok || a.Bare || a.Value.Kind != syntax.KindString {
		return ""
	}
	return a.Value.Str
}

func firstRaw(args []syntax.Value) string {
	if len(args) == 0 {
		return ""
	}
	return args[0].Raw
}
