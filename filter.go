// SPDX-License-Identifier: MIT
// Source: github.com/lithrez/rez

package rez

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/woozymasta/pathrules"
)

// Matcher fragments for glob translation. Logical paths use "/" separators.
const (
	// singleStarExpr matches one or more characters within one path segment.
	singleStarExpr = "[^/]+"
	// multiStarExpr matches one or more characters across path segments.
	multiStarExpr = ".+"
	// questionExpr matches exactly one character within a path segment.
	questionExpr = "[^/]"
)

// Filter is one compiled glob pattern anchored at both ends.
type Filter struct {
	re *regexp.Regexp
}

// CompileFilter translates a restricted glob pattern into an anchored
// full-string matcher. One "*" matches one or more non-separator
// characters, a run of two or more matches across separators, "?" matches
// exactly one non-separator character, and a literal backslash is
// normalized to "/".
func CompileFilter(pattern string) (*Filter, error) {
	var sb strings.Builder
	sb.Grow(len(pattern) + 2)
	sb.WriteByte('^')

	starRun := 0
	flushStars := func() {
		if starRun == 1 {
			sb.WriteString(singleStarExpr)
		} else if starRun >= 2 {
			sb.WriteString(multiStarExpr)
		}

		starRun = 0
	}

	for _, c := range pattern {
		if c == '*' {
			starRun++
			continue
		}
		flushStars()

		switch {
		case c == '\\':
			sb.WriteByte('/')
		case c == '?':
			sb.WriteString(questionExpr)
		case isGlobLiteral(c):
			sb.WriteRune(c)
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	flushStars()

	sb.WriteByte('$')
	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidFilterPattern, pattern, err)
	}

	return &Filter{re: re}, nil
}

// Match reports whether the whole logical path matches the pattern.
func (f *Filter) Match(path string) bool {
	if f == nil || f.re == nil {
		return false
	}

	return f.re.MatchString(path)
}

// FilterSet combines compiled filters with logical OR.
// An empty set matches every path.
type FilterSet []*Filter

// CompileFilters compiles each pattern into one FilterSet.
func CompileFilters(patterns []string) (FilterSet, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	set := make(FilterSet, 0, len(patterns))
	for _, pattern := range patterns {
		f, err := CompileFilter(pattern)
		if err != nil {
			return nil, err
		}

		set = append(set, f)
	}

	return set, nil
}

// Match reports whether at least one filter matches, or the set is empty.
func (fs FilterSet) Match(path string) bool {
	if len(fs) == 0 {
		return true
	}

	for _, f := range fs {
		if f.Match(path) {
			return true
		}
	}

	return false
}

// isGlobLiteral reports whether a rune passes through glob translation
// unescaped.
func isGlobLiteral(c rune) bool {
	return (c >= '0' && c <= '9') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		c == '<' || c == '>'
}

// ruleMatcher holds compiled include/exclude rules for extraction selection.
// A nil matcher includes everything.
type ruleMatcher struct {
	matcher *pathrules.Matcher
}

// newRuleMatcher compiles extraction path rules.
func newRuleMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*ruleMatcher, error) {
	rules = normalizeRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidExtractRules, err)
	}

	return &ruleMatcher{matcher: matcher}, nil
}

// normalizeRules normalizes rule patterns and drops empty patterns.
func normalizeRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := strings.TrimSpace(strings.ReplaceAll(rule.Pattern, `\`, "/"))
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Included reports whether path passes the rule set.
func (m *ruleMatcher) Included(path string) bool {
	if m == nil || m.matcher == nil {
		return true
	}

	return m.matcher.Included(path, false)
}
