package namespace

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"i18nscan/internal/domain"
)

// Unquote decodes a single-, double- or back-quoted literal. Template
// literals containing a substitution are not literals.
func Unquote(lit string) (string, error) {
	if len(lit) < 2 {
		return "", domain.ErrInvalidLiteral
	}
	q := lit[0]
	if (q != '\'' && q != '"' && q != '`') || lit[len(lit)-1] != q {
		return "", domain.ErrInvalidLiteral
	}
	body := lit[1 : len(lit)-1]

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == q:
			return "", domain.ErrInvalidLiteral
		case c == '$' && q == '`' && i+1 < len(body) && body[i+1] == '{':
			return "", domain.ErrInvalidLiteral
		case c == '\n' && q != '`':
			return "", domain.ErrInvalidLiteral
		case c != '\\':
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", domain.ErrInvalidLiteral
		}
		n, err := writeEscape(&b, body[i:])
		if err != nil {
			return "", err
		}
		i += n - 1
	}
	return b.String(), nil
}

// writeEscape decodes the escape sequence at the start of s (after the
// backslash) and reports how many bytes it consumed.
func writeEscape(b *strings.Builder, s string) (int, error) {
	switch s[0] {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		b.WriteByte(0)
	case '\n':
		// line continuation
	case '\r':
		if len(s) > 1 && s[1] == '\n' {
			return 2, nil
		}
	case 'x':
		if len(s) < 3 {
			return 0, fmt.Errorf("%w: short \\x escape", domain.ErrInvalidLiteral)
		}
		v, err := strconv.ParseUint(s[1:3], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", domain.ErrInvalidLiteral, err)
		}
		b.WriteRune(rune(v))
		return 3, nil
	case 'u':
		if len(s) > 1 && s[1] == '{' {
			end := strings.IndexByte(s, '}')
			if end < 0 {
				return 0, fmt.Errorf("%w: unterminated \\u{} escape", domain.ErrInvalidLiteral)
			}
			v, err := strconv.ParseUint(s[2:end], 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				return 0, fmt.Errorf("%w: bad \\u{} escape", domain.ErrInvalidLiteral)
			}
			b.WriteRune(rune(v))
			return end + 1, nil
		}
		if len(s) < 5 {
			return 0, fmt.Errorf("%w: short \\u escape", domain.ErrInvalidLiteral)
		}
		v, err := strconv.ParseUint(s[1:5], 16, 16)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", domain.ErrInvalidLiteral, err)
		}
		b.WriteRune(rune(v))
		return 5, nil
	default:
		r, size := utf8.DecodeRuneInString(s)
		b.WriteRune(r)
		return size, nil
	}
	return 1, nil
}

// SplitArray splits an array literal into the raw source text of its
// elements. Nested brackets and quoted commas are respected. ok is false
// when expr is not bracketed.
func SplitArray(expr string) (elems []string, ok bool) {
	expr = strings.TrimSpace(expr)
	if len(expr) < 2 || expr[0] != '[' || expr[len(expr)-1] != ']' {
		return nil, false
	}
	inner := expr[1 : len(expr)-1]

	var (
		depth int
		quote byte
		start int
	)
	flush := func(end int) {
		if el := strings.TrimSpace(inner[start:end]); el != "" {
			elems = append(elems, el)
		}
	}
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	if quote != 0 || depth != 0 {
		return nil, false
	}
	flush(len(inner))
	return elems, true
}
