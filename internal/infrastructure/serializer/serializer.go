// Package serializer turns resource bundles into formatted JSON documents.
package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"i18nscan/internal/domain/entities"
	"i18nscan/internal/domain/resource"
)

// DefaultSavePath is used when no template is configured.
const DefaultSavePath = "i18n/{{lng}}/{{ns}}.json"

// LineEnding selects the line terminator of serialized documents.
type LineEnding string

const (
	LineEndingAuto LineEnding = "auto"
	LineEndingCRLF LineEnding = "crlf"
	LineEndingLF   LineEnding = "lf"
	LineEndingCR   LineEnding = "cr"
)

// ParseLineEnding is case-insensitive and accepts the literal sequences.
// Unrecognized values fall back to LF.
func ParseLineEnding(s string) LineEnding {
	switch s {
	case "\r\n":
		return LineEndingCRLF
	case "\r":
		return LineEndingCR
	case "\n":
		return LineEndingLF
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return LineEndingAuto
	case "crlf":
		return LineEndingCRLF
	case "cr":
		return LineEndingCR
	default:
		return LineEndingLF
	}
}

func (l LineEnding) sequence() string {
	switch l {
	case LineEndingAuto:
		if runtime.GOOS == "windows" {
			return "\r\n"
		}
		return "\n"
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Options configures a Serializer.
type Options struct {
	Indent     int
	LineEnding LineEnding
	SavePath   string
}

type Serializer struct {
	indent   string
	eol      string
	savePath string
}

func New(opts Options) *Serializer {
	savePath := opts.SavePath
	if savePath == "" {
		savePath = DefaultSavePath
	}
	indent := ""
	if opts.Indent > 0 {
		indent = strings.Repeat(" ", opts.Indent)
	}
	return &Serializer{
		indent:   indent,
		eol:      ParseLineEnding(string(opts.LineEnding)).sequence(),
		savePath: savePath,
	}
}

// FormatResourceSavePath expands {{lng}} and {{ns}} in the path template.
func (s *Serializer) FormatResourceSavePath(locale, ns string) string {
	return strings.NewReplacer("{{lng}}", locale, "{{ns}}", ns).Replace(s.savePath)
}

// Encode renders one bundle: keys in bundle order, one trailing newline,
// normalized line endings.
func (s *Serializer) Encode(b resource.Bundle) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, k := range b.Keys {
		if i > 0 {
			compact.WriteByte(',')
		}
		if err := writeString(&compact, k); err != nil {
			return nil, err
		}
		compact.WriteByte(':')
		if err := writeString(&compact, b.Values[k]); err != nil {
			return nil, err
		}
	}
	compact.WriteByte('}')

	out := compact.Bytes()
	if s.indent != "" {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, out, "", s.indent); err != nil {
			return nil, fmt.Errorf("indent %s/%s: %w", b.Locale, b.Namespace, err)
		}
		out = pretty.Bytes()
	}
	text := string(out) + "\n"
	return []byte(normalizeEOL(text, s.eol)), nil
}

// Serialize encodes every bundle in order.
func (s *Serializer) Serialize(bundles []resource.Bundle) ([]entities.Document, error) {
	docs := make([]entities.Document, 0, len(bundles))
	for _, b := range bundles {
		body, err := s.Encode(b)
		if err != nil {
			return nil, err
		}
		docs = append(docs, entities.Document{
			Locale:    b.Locale,
			Namespace: b.Namespace,
			Path:      s.FormatResourceSavePath(b.Locale, b.Namespace),
			Body:      body,
			Keys:      len(b.Keys),
		})
	}
	return docs, nil
}

// writeString encodes s as a JSON string without HTML escaping, so Trans
// markup such as <0> stays readable.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

func normalizeEOL(text, eol string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if eol == "\n" {
		return text
	}
	return strings.ReplaceAll(text, "\n", eol)
}
