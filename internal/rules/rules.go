// Package rules implements the exclusion rules applied during traversal.
//
// A rule is either a path prefix or a file-name glob. Prefix rules exclude the
// named relative path together with its entire subtree, so a matching
// directory is never descended into. Glob rules match the base name of a path
// anywhere in the tree. Raw patterns containing a wildcard become glob rules;
// everything else becomes a prefix rule.
package rules

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/repodigest/repodigest/internal/utils"
)

// Kind discriminates the two rule variants.
type Kind int

const (
	// KindPrefix matches a relative path and everything below it.
	KindPrefix Kind = iota
	// KindGlob matches the file name component anywhere in the tree.
	KindGlob
)

const (
	pathSegmentSeparator = "/"
	wildcardCharacters   = "*?"
)

// Rule is a single exclusion pattern with its matching strategy.
type Rule struct {
	Kind    Kind
	Pattern string
}

// FromPattern classifies a raw pattern line into a Rule. Surrounding
// whitespace and leading or trailing slashes are stripped before
// classification; an empty result reports ok as false.
func FromPattern(rawPattern string) (Rule, bool) {
	trimmedPattern := strings.TrimSpace(rawPattern)
	trimmedPattern = strings.Trim(trimmedPattern, pathSegmentSeparator)
	if trimmedPattern == "" {
		return Rule{}, false
	}
	if strings.ContainsAny(trimmedPattern, wildcardCharacters) {
		return Rule{Kind: KindGlob, Pattern: trimmedPattern}, true
	}
	return Rule{Kind: KindPrefix, Pattern: trimmedPattern}, true
}

// Matches reports whether the rule excludes the provided root-relative path.
func (rule Rule) Matches(relativePath string) bool {
	normalizedPath := filepath.ToSlash(relativePath)
	switch rule.Kind {
	case KindGlob:
		baseName := path.Base(normalizedPath)
		isMatched, matchError := path.Match(rule.Pattern, baseName)
		return matchError == nil && isMatched
	case KindPrefix:
		if normalizedPath == rule.Pattern {
			return true
		}
		return strings.HasPrefix(normalizedPath, rule.Pattern+pathSegmentSeparator)
	default:
		return false
	}
}

// Set is an ordered collection of exclusion rules evaluated together.
type Set struct {
	rules []Rule
}

// NewSet builds a rule set from raw patterns, dropping duplicates and lines
// that reduce to nothing after trimming.
func NewSet(rawPatterns []string) *Set {
	ruleSet := &Set{}
	ruleSet.Add(rawPatterns...)
	return ruleSet
}

// Add appends additional raw patterns to the set, skipping duplicates.
func (set *Set) Add(rawPatterns ...string) {
	for _, rawPattern := range utils.DeduplicatePatterns(rawPatterns) {
		parsedRule, ok := FromPattern(rawPattern)
		if !ok {
			continue
		}
		if set.contains(parsedRule) {
			continue
		}
		set.rules = append(set.rules, parsedRule)
	}
}

// Excludes reports whether any rule in the set matches the relative path.
func (set *Set) Excludes(relativePath string) bool {
	if set == nil {
		return false
	}
	for _, candidateRule := range set.rules {
		if candidateRule.Matches(relativePath) {
			return true
		}
	}
	return false
}

// Len returns the number of rules in the set.
func (set *Set) Len() int {
	if set == nil {
		return 0
	}
	return len(set.rules)
}

func (set *Set) contains(candidate Rule) bool {
	for _, existingRule := range set.rules {
		if existingRule == candidate {
			return true
		}
	}
	return false
}
