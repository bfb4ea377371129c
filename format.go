package phrasekit

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter substitutes named arguments into a message pattern under
// locale-specific rules. The Resolver treats it as an optional capability:
// a nil formatter means values pass through untouched.
type Formatter interface {
	Format(locale, pattern string, args M) (string, error)
}

// FormatterFunc adapts a plain function to the Formatter interface.
type FormatterFunc func(locale, pattern string, args M) (string, error)

// Format calls f.
func (f FormatterFunc) Format(locale, pattern string, args M) (string, error) {
	return f(locale, pattern, args)
}

// MessageFormatter implements ICU-style message patterns:
//
//	{name}                                    argument substitution
//	{count, plural, =0 {none} one {#} other {# items}}
//	{gender, select, female {her} male {his} other {their}}
//
// Plural categories follow CLDR via golang.org/x/text, and "#" inside a
// plural clause renders the number with the locale's digit grouping.
// Literal text can be quoted with single quotes; a doubled apostrophe
// renders as a literal one.
type MessageFormatter struct{}

// NewMessageFormatter creates a MessageFormatter.
func NewMessageFormatter() *MessageFormatter {
	return &MessageFormatter{}
}

// Format renders the pattern with the given arguments under the locale.
// Malformed patterns and missing arguments are reported as errors, never
// silently dropped.
func (f *MessageFormatter) Format(locale, pattern string, args M) (string, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}

	state := &formatState{tag: tag, args: args}
	return state.render(pattern)
}

// formatState carries the per-call context, including the number that "#"
// expands to inside the active plural clause.
type formatState struct {
	tag        language.Tag
	args       M
	numberText string
	inPlural   bool
}

func (s *formatState) render(pattern string) (string, error) {
	var b strings.Builder

	i := 0
	for i < len(pattern) {
		switch c := pattern[i]; c {
		case '\'':
			literal, next := unquote(pattern, i)
			b.WriteString(literal)
			i = next
		case '{':
			end, err := matchBrace(pattern, i)
			if err != nil {
				return "", err
			}
			rendered, err := s.placeholder(pattern[i+1 : end])
			if err != nil {
				return "", err
			}
			b.WriteString(rendered)
			i = end + 1
		case '}':
			return "", fmt.Errorf("%w: unmatched %q at offset %d", ErrBadPattern, "}", i)
		case '#':
			if s.inPlural {
				b.WriteString(s.numberText)
			} else {
				b.WriteByte(c)
			}
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String(), nil
}

func (s *formatState) placeholder(body string) (string, error) {
	name, rest, compound := strings.Cut(body, ",")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty argument name", ErrBadPattern)
	}

	arg, ok := s.args[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingArgument, name)
	}

	if !compound {
		return s.renderArg(arg), nil
	}

	kind, clauseSrc, ok := strings.Cut(rest, ",")
	if !ok {
		return "", fmt.Errorf("%w: argument %q: expected clauses after %q", ErrBadPattern, name, strings.TrimSpace(rest))
	}

	clauses, err := parseClauses(clauseSrc)
	if err != nil {
		return "", fmt.Errorf("%w: argument %q: %s", ErrBadPattern, name, err)
	}

	switch strings.TrimSpace(kind) {
	case "plural":
		return s.renderPlural(name, arg, clauses)
	case "select":
		return s.renderSelect(name, arg, clauses)
	default:
		return "", fmt.Errorf("%w: argument %q: unknown format type %q", ErrBadPattern, name, strings.TrimSpace(kind))
	}
}

func (s *formatState) renderPlural(name string, arg any, clauses []clause) (string, error) {
	n, err := toNumber(arg)
	if err != nil {
		return "", fmt.Errorf("%w: argument %q: %s", ErrMissingArgument, name, err)
	}

	selected, ok := pickExact(clauses, n)
	if !ok {
		category := pluralCategory(s.tag, n)
		if selected, ok = pickSelector(clauses, category); !ok {
			if selected, ok = pickSelector(clauses, "other"); !ok {
				return "", fmt.Errorf("%w: argument %q: no clause for category %q and no \"other\"", ErrBadPattern, name, category)
			}
		}
	}

	var num any = n
	if n == math.Trunc(n) {
		num = int64(n)
	}

	sub := &formatState{
		tag:        s.tag,
		args:       s.args,
		numberText: message.NewPrinter(s.tag).Sprint(number.Decimal(num)),
		inPlural:   true,
	}
	return sub.render(selected)
}

func (s *formatState) renderSelect(name string, arg any, clauses []clause) (string, error) {
	key := s.renderArg(arg)

	selected, ok := pickSelector(clauses, key)
	if !ok {
		if selected, ok = pickSelector(clauses, "other"); !ok {
			return "", fmt.Errorf("%w: argument %q: no clause for %q and no \"other\"", ErrBadPattern, name, key)
		}
	}

	return s.render(selected)
}

// renderArg renders a plain argument. Numbers use the locale's formatting.
func (s *formatState) renderArg(arg any) string {
	switch v := arg.(type) {
	case string:
		return v
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return message.NewPrinter(s.tag).Sprint(number.Decimal(v))
	default:
		return fmt.Sprintf("%v", v)
	}
}

// clause is one "selector {message}" branch of a plural or select format.
type clause struct {
	selector string
	message  string
}

func parseClauses(src string) ([]clause, error) {
	var clauses []clause

	i := 0
	for i < len(src) {
		for i < len(src) && isSpace(src[i]) {
			i++
		}
		if i >= len(src) {
			break
		}

		start := i
		for i < len(src) && src[i] != '{' && !isSpace(src[i]) {
			i++
		}
		selector := src[start:i]
		if selector == "" {
			return nil, fmt.Errorf("clause at offset %d has no selector", start)
		}

		for i < len(src) && isSpace(src[i]) {
			i++
		}
		if i >= len(src) || src[i] != '{' {
			return nil, fmt.Errorf("selector %q is not followed by a message", selector)
		}

		end, err := matchBrace(src, i)
		if err != nil {
			return nil, err
		}

		clauses = append(clauses, clause{selector: selector, message: src[i+1 : end]})
		i = end + 1
	}

	if len(clauses) == 0 {
		return nil, fmt.Errorf("no clauses")
	}

	return clauses, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func pickExact(clauses []clause, n float64) (string, bool) {
	for _, c := range clauses {
		if !strings.HasPrefix(c.selector, "=") {
			continue
		}
		if exact, err := strconv.ParseFloat(c.selector[1:], 64); err == nil && exact == n {
			return c.message, true
		}
	}
	return "", false
}

func pickSelector(clauses []clause, selector string) (string, bool) {
	for _, c := range clauses {
		if c.selector == selector {
			return c.message, true
		}
	}
	return "", false
}

// pluralCategory maps a number to its CLDR cardinal category for the locale.
func pluralCategory(tag language.Tag, n float64) string {
	i, v, w, f, t := operands(n)

	switch plural.Cardinal.MatchPlural(tag, i, v, w, f, t) {
	case plural.Zero:
		return "zero"
	case plural.One:
		return "one"
	case plural.Two:
		return "two"
	case plural.Few:
		return "few"
	case plural.Many:
		return "many"
	default:
		return "other"
	}
}

// operands derives the CLDR plural operands from a number: integer part,
// fraction digit counts with and without trailing zeros, and the fraction
// digit values in both readings.
func operands(n float64) (i, v, w, f, t int) {
	if n < 0 {
		n = -n
	}

	text := strconv.FormatFloat(n, 'f', -1, 64)
	intPart, fracPart, _ := strings.Cut(text, ".")

	i, _ = strconv.Atoi(intPart)
	v = len(fracPart)
	if v > 0 {
		trimmed := strings.TrimRight(fracPart, "0")
		w = len(trimmed)
		f, _ = strconv.Atoi(fracPart)
		t, _ = strconv.Atoi(trimmed)
	}

	return i, v, w, f, t
}

func toNumber(arg any) (float64, error) {
	switch v := arg.(type) {
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not a number", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("value of type %T is not a number", arg)
	}
}

// unquote consumes an ICU quoted span starting at the apostrophe and returns
// its literal text with the index of the first byte after the span. A doubled
// apostrophe is a literal one; an unterminated quote runs to the end of the
// pattern.
func unquote(pattern string, start int) (string, int) {
	if start+1 < len(pattern) && pattern[start+1] == '\'' {
		return "'", start + 2
	}

	end := strings.IndexByte(pattern[start+1:], '\'')
	if end < 0 {
		return pattern[start+1:], len(pattern)
	}

	return pattern[start+1 : start+1+end], start + end + 2
}

// matchBrace returns the index of the brace closing the one at open.
func matchBrace(pattern string, open int) (int, error) {
	depth := 0
	for i := open; i < len(pattern); i++ {
		switch pattern[i] {
		case '\'':
			_, next := unquote(pattern, i)
			i = next - 1
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unclosed %q at offset %d", ErrBadPattern, "{", open)
}
