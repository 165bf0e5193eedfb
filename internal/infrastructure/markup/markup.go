// Package markup extracts translation keys from attribute-driven markup such
// as <span data-i18n="key">.
package markup

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"

	"i18nscan/internal/domain/syntax"
)

// Extractor scans markup for the configured attribute names.
type Extractor struct {
	attrs map[string]bool
}

func NewExtractor(attrs []string) *Extractor {
	m := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		m[strings.ToLower(a)] = true
	}
	return &Extractor{attrs: m}
}

// Extract returns every key in document order. An attribute value holds
// one or more keys separated by ';', each optionally prefixed with a
// "[target]" selector such as "[title]".
func (e *Extractor) Extract(src []byte) ([]syntax.AttrMatch, error) {
	var (
		out  []syntax.AttrMatch
		line = 1
		z    = html.NewTokenizer(bytes.NewReader(src))
	)
	for {
		tt := z.Next()
		newlines := bytes.Count(z.Raw(), []byte("\n"))
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return out, nil
			}
			return out, z.Err()
		case html.StartTagToken, html.SelfClosingTagToken:
			out = append(out, e.tagMatches(z, line)...)
		}
		line += newlines
	}
}

func (e *Extractor) tagMatches(z *html.Tokenizer, line int) []syntax.AttrMatch {
	var out []syntax.AttrMatch
	_, hasAttr := z.TagName()
	for hasAttr {
		var name, val []byte
		name, val, hasAttr = z.TagAttr()
		attr := string(name)
		if !e.attrs[attr] {
			continue
		}
		for _, key := range SplitKeys(string(val)) {
			out = append(out, syntax.AttrMatch{Attr: attr, Key: key, Line: line})
		}
	}
	return out
}

// SplitKeys splits "[title]a;b" into ["a", "b"].
func SplitKeys(val string) []string {
	var keys []string
	for _, part := range strings.Split(val, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "[") {
			if end := strings.IndexByte(part, ']'); end >= 0 {
				part = strings.TrimSpace(part[end+1:])
			}
		}
		if part != "" {
			keys = append(keys, part)
		}
	}
	return keys
}
