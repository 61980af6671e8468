// Package css is the boundary to the stylesheet subsystem. The analyzer
// never parses CSS; it asks two questions: does the component own a
// non-empty stylesheet, and could a given element match any of its
// selectors.
package css

import "strings"

// StyleSheet is the parsed stylesheet handed over by the CSS collaborator.
// Only the selector surface is visible here; rule bodies stay on the CSS
// side.
type StyleSheet struct {
	Source    string
	Selectors []Selector
}

// Selector is one top-level selector, pre-split by the CSS parser.
type Selector struct {
	// Tag is the element-type part, "" when the selector has none.
	Tag string
	// Classes are the .class parts.
	Classes []string
	// Attributes are the [attr] names.
	Attributes []string
	// Universal marks `*` and other selectors that can match anything.
	Universal bool
}

// IsEmpty reports whether the stylesheet has nothing to scope.
func (s *StyleSheet) IsEmpty() bool {
	return s == nil || (len(s.Selectors) == 0 && strings.TrimSpace(s.Source) == "")
}

// Matcher decides whether an element can match the component's stylesheet.
type Matcher interface {
	// Matches reports whether an element with the given tag name and
	// attribute names could match any selector.
	Matches(tag string, attrs []string) bool
}

// matchAll scopes every element; the minimal-correct behavior when a
// stylesheet exists but selector-level matching is unavailable.
type matchAll struct{}

func (matchAll) Matches(string, []string) bool { return true }

// MatchAll returns the scope-everything matcher.
func MatchAll() Matcher { return matchAll{} }

// matchNone is the matcher for components without styles.
type matchNone struct{}

func (matchNone) Matches(string, []string) bool { return false }

// MatchNone returns the never-matching matcher.
func MatchNone() Matcher { return matchNone{} }

// SelectorMatcher refines scoping to elements that can actually match one
// of the stylesheet's selectors.
type SelectorMatcher struct {
	sheet *StyleSheet
}

func NewSelectorMatcher(sheet *StyleSheet) *SelectorMatcher {
	return &SelectorMatcher{sheet: sheet}
}

func (m *SelectorMatcher) Matches(tag string, attrs []string) bool {
	if m.sheet.IsEmpty() {
		return false
	}
	if len(m.sheet.Selectors) == 0 {
		// Selectors were not surfaced; fall back to scoping everything.
		return true
	}
	attrSet := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		attrSet[a] = true
	}
	for _, sel := range m.sheet.Selectors {
		if sel.Universal {
			return true
		}
		if sel.Tag != "" && !strings.EqualFold(sel.Tag, tag) {
			continue
		}
		if sel.Tag == "" && len(sel.Classes) == 0 && len(sel.Attributes) == 0 {
			continue
		}
		matched := true
		for _, attr := range sel.Attributes {
			if !attrSet[attr] {
				matched = false
				break
			}
		}
		// Class presence is dynamic at runtime; a class selector keeps the
		// element eligible rather than excluding it.
		if matched {
			return true
		}
	}
	return false
}
