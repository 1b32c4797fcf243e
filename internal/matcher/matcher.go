// Package matcher matches free-text record fields against glob or regex
// patterns. With Options.Fold set, both sides are compared by their
// normalized lookup key, so "turkiye" matches "Türkiye".
package matcher

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/agentstation/eventmap/pkg/normalize"
)

// PatternType selects how a pattern is interpreted.
type PatternType int

const (
	Glob  PatternType = iota // shell-style *, ? and [...]
	Regex                    // RE2 syntax
	Auto                     // Regex if the pattern uses regex-only syntax, else Glob
)

func (pt PatternType) String() string {
	switch pt {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	}
	return "unknown"
}

// Matcher reports whether an input matches a compiled pattern.
type Matcher interface {
	Match(input string) bool
	MatchAny(inputs ...string) bool
	Pattern() string
	// Type is never Auto; it reports what Auto resolved to.
	Type() PatternType
}

// Options tunes compilation.
type Options struct {
	Fold     bool // compare normalized keys
	Anchored bool // wrap regexes in ^...$
}

type matcher struct {
	pattern string
	kind    PatternType
	fold    bool
	glob    string
	re      *regexp.Regexp
}

// New compiles pattern. Only the first Options is used.
func New(kind PatternType, pattern string, opts ...*Options) (Matcher, error) {
	o := &Options{}
	if len(opts) > 0 && opts[0] != nil {
		o = opts[0]
	}
	if kind == Auto {
		kind = detect(pattern)
	}
	m := &matcher{pattern: pattern, kind: kind, fold: o.Fold}

	switch kind {
	case Glob:
		m.glob = pattern
		if m.fold {
			m.glob = foldGlob(pattern)
		}
		if _, err := path.Match(m.glob, ""); err != nil {
			return nil, fmt.Errorf("failed to compile pattern: invalid glob pattern: %w", err)
		}
	case Regex:
		expr := pattern
		if o.Anchored {
			if !strings.HasPrefix(expr, "^") {
				expr = "^" + expr
			}
			if !strings.HasSuffix(expr, "$") {
				expr += "$"
			}
		}
		if m.fold {
			// inputs become lower-case keys
			expr = "(?i)" + normalize.Fold(expr)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern: invalid regex pattern: %w", err)
		}
		m.re = re
	default:
		return nil, fmt.Errorf("failed to compile pattern: unsupported pattern type: %v", kind)
	}
	return m, nil
}

// MustNew is New that panics on a bad pattern.
func MustNew(kind PatternType, pattern string, opts ...*Options) Matcher {
	m, err := New(kind, pattern, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *matcher) Match(input string) bool {
	if m.fold {
		input = normalize.Key(input)
	}
	if m.kind == Regex {
		return m.re.MatchString(input)
	}
	ok, _ := path.Match(m.glob, input)
	return ok
}

func (m *matcher) MatchAny(inputs ...string) bool {
	for _, in := range inputs {
		if m.Match(in) {
			return true
		}
	}
	return false
}

func (m *matcher) Pattern() string   { return m.pattern }
func (m *matcher) Type() PatternType { return m.kind }

// foldGlob normalizes the literal runs of a glob pattern and leaves its
// metacharacters alone.
func foldGlob(pattern string) string {
	var out, lit strings.Builder
	flush := func() {
		if lit.Len() == 0 {
			return
		}
		s := lit.String()
		key := normalize.Key(s)
		// Key trims; a space next to a wildcard is significant.
		if key != "" && strings.HasPrefix(s, " ") {
			key = " " + key
		}
		if key != "" && strings.HasSuffix(s, " ") {
			key += " "
		}
		out.WriteString(key)
		lit.Reset()
	}
	for _, r := range pattern {
		if strings.ContainsRune(`*?[]\`, r) {
			flush()
			out.WriteRune(r)
			continue
		}
		lit.WriteRune(r)
	}
	flush()
	return out.String()
}

var regexEscape = regexp.MustCompile(`\\[dDwWsS]`)

func detect(pattern string) PatternType {
	if strings.ContainsAny(pattern, "^$+|(){}") || regexEscape.MatchString(pattern) {
		return Regex
	}
	return Glob
}
