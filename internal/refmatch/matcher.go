// Package refmatch resolves free OCR text against externally supplied
// reference lists (master data). Matching is a pure function: no I/O, no
// shared state, deterministic for identical inputs and list order.
package refmatch

import (
	"strings"

	"github.com/corredora-austral/policy-cli/internal/model"
	"github.com/corredora-austral/policy-cli/internal/textutil"
)

// Rule maps a canonical code to the alias keywords that imply it. Rules are
// evaluated in declaration order; the first rule with a keyword hit wins,
// so more specific rules must be listed before broader ones.
type Rule struct {
	Code     string   `yaml:"code" json:"code"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// RuleTable is an ordered list of keyword rules for one reference list type.
type RuleTable []Rule

// Options tunes one Match call.
type Options struct {
	Strategy  Strategy
	Threshold float64 // similarity floor; below it the default fallback applies
}

// DefaultOptions is the master-data call path: word overlap at 0.5.
func DefaultOptions() Options {
	return Options{Strategy: WordOverlap, Threshold: 0.5}
}

// Match resolves text to an item of list.
//
// Order: rule-table pass first (confidence 1.0), then similarity pass
// (containment 0.85, otherwise the selected strategy's best score), then
// the default fallback. The fallback deliberately returns the FIRST item of
// the list with confidence 0 rather than signaling "not found": downstream
// consumers rely on always receiving a code, and an unmapped field is
// reported through the zero confidence, not through an absent item.
func Match(text string, list []model.ReferenceItem, rules RuleTable, opts Options) model.MatchResult {
	if len(list) == 0 {
		return model.MatchResult{Source: model.MatchNone}
	}
	fallback := model.MatchResult{Item: list[0], Confidence: 0, Source: model.MatchNone}

	canon := textutil.Canon(text)
	if canon == "" {
		return fallback
	}

	if item, ok := ruleMatch(canon, list, rules); ok {
		return model.MatchResult{Item: item, Confidence: 1.0, Source: model.MatchRule}
	}

	if res, ok := similarityMatch(canon, list, opts); ok {
		return res
	}

	return fallback
}

// ruleMatch runs the ordered keyword rules against the canonical text and
// resolves the winning code to a list item.
func ruleMatch(canon string, list []model.ReferenceItem, rules RuleTable) (model.ReferenceItem, bool) {
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if !strings.Contains(canon, textutil.Canon(kw)) {
				continue
			}
			if item, ok := itemByCode(list, rule.Code); ok {
				return item, true
			}
			// Keyword hit but the code is absent from this list; later
			// rules may still resolve.
			break
		}
	}
	return model.ReferenceItem{}, false
}

// itemByCode finds the item whose code equals code, or whose name contains
// it.
func itemByCode(list []model.ReferenceItem, code string) (model.ReferenceItem, bool) {
	canon := textutil.Canon(code)
	for _, item := range list {
		if textutil.Canon(item.Code) == canon {
			return item, true
		}
	}
	for _, item := range list {
		if strings.Contains(textutil.Canon(item.Name), canon) {
			return item, true
		}
	}
	return model.ReferenceItem{}, false
}

func similarityMatch(canon string, list []model.ReferenceItem, opts Options) (model.MatchResult, bool) {
	best := -1.0
	var bestItem model.ReferenceItem

	for _, item := range list {
		name := textutil.Canon(item.Name)
		if name == "" {
			continue
		}

		// Containment either direction short-circuits the fuzzy scan; the
		// earliest containing item wins.
		if strings.Contains(name, canon) || strings.Contains(canon, name) {
			return model.MatchResult{Item: item, Confidence: 0.85, Source: model.MatchSimilarity}, true
		}

		score := opts.Strategy.Score(canon, name)
		if score > best {
			best = score
			bestItem = item
		}
	}

	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = 0.5
	}
	if best >= threshold {
		return model.MatchResult{Item: bestItem, Confidence: clamp01(best), Source: model.MatchSimilarity}, true
	}
	return model.MatchResult{}, false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
