package match

import (
	"testing"

	"github.com/lulai/chatbot-engine/internal/domain"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"Hello", "hello"},
		{"  What ARE   your Hours?  ", "what are your hours"},
		{"policy?please", "policy please"},
		{"shipping-cost!!!", "shipping cost"},
		{"Héllo, Wörld", "héllo wörld"},
		{"order #123", "order 123"},
		{"...", ""},
		{"tabs\tand\nnewlines", "tabs and newlines"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func rules(pairs ...[2]string) []domain.ResponseRule {
	out := make([]domain.ResponseRule, 0, len(pairs))
	for i, p := range pairs {
		out = append(out, domain.ResponseRule{
			ID:       p[0] + "-id",
			Position: i,
			Trigger:  p[0],
			Response: p[1],
		})
	}
	return out
}

func TestMatch_SubstringCaseInsensitive(t *testing.T) {
	rs := rules([2]string{"hours", "We are open 9-5."})
	got := Match("What are your HOURS?", rs)
	if got == nil || got.Response != "We are open 9-5." {
		t.Fatalf("expected hours rule, got %+v", got)
	}
}

func TestMatch_NoRuleMatches(t *testing.T) {
	rs := rules([2]string{"shipping", "s"}, [2]string{"returns", "r"})
	if got := Match("hello there", rs); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestMatch_LongestTriggerWins(t *testing.T) {
	rs := rules(
		[2]string{"shoe", "generic shoes"},
		[2]string{"running shoe", "running shoes"},
	)
	got := Match("do you sell running shoes?", rs)
	if got == nil || got.Response != "running shoes" {
		t.Fatalf("expected longest trigger to win, got %+v", got)
	}
}

func TestMatch_TieKeepsEarliestRule(t *testing.T) {
	rs := rules(
		[2]string{"price", "first"},
		[2]string{"quote", "second"}, // same normalized length
	)
	got := Match("price quote please", rs)
	if got == nil || got.Response != "first" {
		t.Fatalf("expected earliest rule on tie, got %+v", got)
	}
}

func TestMatch_PunctuationInTrigger(t *testing.T) {
	rs := rules([2]string{"opening hours?", "We open at 9."})
	got := Match("tell me your opening hours", rs)
	if got == nil || got.Response != "We open at 9." {
		t.Fatalf("expected punctuation-insensitive match, got %+v", got)
	}
}

func TestMatch_EmptyTriggerNeverMatches(t *testing.T) {
	rs := rules([2]string{"", "never"}, [2]string{"!!!", "also never"})
	if got := Match("anything at all", rs); got != nil {
		t.Fatalf("expected nil for empty-normalizing triggers, got %+v", got)
	}
}

func TestMatch_EmptyUtterance(t *testing.T) {
	rs := rules([2]string{"hours", "h"})
	if got := Match("   ", rs); got != nil {
		t.Fatalf("expected nil for blank utterance, got %+v", got)
	}
}

func TestMatch_WordBoundaryFromPunctuation(t *testing.T) {
	// "refund" must be found even when glued to punctuation in the input.
	rs := rules([2]string{"refund", "Refunds take 5 days."})
	got := Match("refund?now", rs)
	if got == nil || got.Response != "Refunds take 5 days." {
		t.Fatalf("expected refund rule, got %+v", got)
	}
}
