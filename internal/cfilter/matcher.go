package cfilter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidPattern is returned when a regular expression or glob does not
// compile. It is always reported at construction time.
var ErrInvalidPattern = errors.New("invalid pattern")

// Matcher tests an optional string. ok is false when the value is absent,
// e.g. a window that never set WM_CLASS.
type Matcher interface {
	Match(value string, ok bool) bool
	String() string
}

type exactMatcher struct {
	pattern string
	unset   bool
}

// Exact matches values equal to pattern.
func Exact(pattern string) Matcher {
	return exactMatcher{pattern: pattern}
}

// Unset matches only absent values. It is the absent-pattern form of both
// Exact and Glob.
func Unset() Matcher {
	return exactMatcher{unset: true}
}

func (m exactMatcher) Match(value string, ok bool) bool {
	if !ok {
		return m.unset
	}
	return !m.unset && value == m.pattern
}

func (m exactMatcher) String() string {
	if m.unset {
		return "null"
	}
	return fmt.Sprintf("%q", m.pattern)
}

type regexMatcher struct {
	re *regexp.Regexp
}

// Regex matches values in which expr is found anywhere. Absent values never
// match.
func Regex(expr string) (Matcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: regexp %q: %v", ErrInvalidPattern, expr, err)
	}
	return regexMatcher{re: re}, nil
}

func (m regexMatcher) Match(value string, ok bool) bool {
	if !ok {
		return false
	}
	return m.re.MatchString(value)
}

func (m regexMatcher) String() string {
	return fmt.Sprintf("/%s/", m.re.String())
}

type globMatcher struct {
	pattern string
	re      *regexp.Regexp
}

// Glob matches the whole value against a case-sensitive shell pattern.
// '*' and '?' also match '/', unlike path.Match. A reversed range such as
// [z-a] is empty: it is accepted and matches nothing.
func Glob(pattern string) (Matcher, error) {
	re, err := regexp.Compile(translateGlob(pattern))
	if err != nil {
		return nil, fmt.Errorf("%w: glob %q: %v", ErrInvalidPattern, pattern, err)
	}
	return globMatcher{pattern: pattern, re: re}, nil
}

func (m globMatcher) Match(value string, ok bool) bool {
	if !ok {
		return false
	}
	return m.re.MatchString(value)
}

func (m globMatcher) String() string {
	return fmt.Sprintf("glob(%q)", m.pattern)
}

// translateGlob rewrites a shell pattern as an anchored regular expression.
// An unterminated '[' is taken literally.
func translateGlob(pattern string) string {
	var b strings.Builder
	b.WriteString(`(?s)^`)

	for i := 0; i < len(pattern); {
		c := pattern[i]
		i++
		switch c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			j := i
			if j < len(pattern) && pattern[j] == '!' {
				j++
			}
			if j < len(pattern) && pattern[j] == ']' {
				j++
			}
			for j < len(pattern) && pattern[j] != ']' {
				j++
			}
			if j >= len(pattern) {
				b.WriteString(`\[`)
				continue
			}
			class := pattern[i:j]
			i = j + 1

			negate := strings.HasPrefix(class, "!")
			if negate {
				class = class[1:]
			}
			body, ok := globClass(class)
			switch {
			case !ok && negate:
				b.WriteString(".")
			case !ok:
				b.WriteString(`[^\x00-\x{10FFFF}]`)
			case negate:
				b.WriteString("[^" + body + "]")
			default:
				b.WriteString("[" + body + "]")
			}
		default:
			b.WriteString(regexp.QuoteMeta(pattern[i-1 : i]))
		}
	}

	b.WriteString(`$`)
	return b.String()
}

// globClass converts the body of a bracket expression. Reversed ranges
// such as z-a are dropped; ok is false when nothing is left.
func globClass(class string) (string, bool) {
	r := []rune(class)
	var b strings.Builder
	for i := 0; i < len(r); i++ {
		lo, hi := r[i], r[i]
		if i+2 < len(r) && r[i+1] == '-' {
			hi = r[i+2]
			i += 2
		}
		if lo > hi {
			continue
		}
		b.WriteString(classRune(lo))
		if hi != lo {
			b.WriteByte('-')
			b.WriteString(classRune(hi))
		}
	}
	return b.String(), b.Len() > 0
}

func classRune(r rune) string {
	switch r {
	case '\\', '[', ']', '^', '-':
		return `\` + string(r)
	}
	return string(r)
}
