// Package match implements the trigger-matching step of the reply pipeline.
// It is intentionally small and dependency-free, engineered as a pure
// library:
//
//   - No logging and no I/O (callers decide how/what to log)
//   - Unicode-aware normalization (lowercase, punctuation stripped,
//     whitespace collapsed)
//   - Deterministic selection: longest normalized trigger wins, ties broken
//     by the original rule order
//   - Safe for concurrent use (no state)
//
// Substring matching with a longest-match tie-break approximates intent
// specificity without a full NLU model, keeping the hot path cheap and
// synchronous.
package match

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lulai/chatbot-engine/internal/domain"
)

// Normalize lowercases s, strips punctuation and symbols (keeping letters,
// digits, and spaces), collapses runs of whitespace to single spaces, and
// trims the result.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		default:
			// Punctuation acts as a word boundary, not as glue:
			// "policy?please" must not collapse into "policyplease".
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Match selects the configured rule that applies to the utterance, or nil
// when none does.
//
// A rule matches when its normalized trigger appears as a substring of the
// normalized utterance. Among matching rules the one with the longest
// normalized trigger (rune count) wins; ties keep the earliest rule in the
// given order. Rules whose trigger normalizes to the empty string never
// match.
func Match(utterance string, rules []domain.ResponseRule) *domain.ResponseRule {
	input := Normalize(utterance)
	if input == "" {
		return nil
	}

	var (
		best    *domain.ResponseRule
		bestLen int
	)
	for i := range rules {
		trigger := Normalize(rules[i].Trigger)
		if trigger == "" || !strings.Contains(input, trigger) {
			continue
		}
		if n := utf8.RuneCountInString(trigger); n > bestLen {
			best = &rules[i]
			bestLen = n
		}
	}
	return best
}
