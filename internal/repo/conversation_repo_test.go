package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/lulai/chatbot-engine/internal/domain"
)

func TestCreateTurn_DefaultsCreatedAt(t *testing.T) {
	db := newRepoDB(t, &domain.ConversationTurn{})

	before := time.Now().UTC().Add(-time.Minute)
	turn, err := CreateTurn(context.Background(), db, "key-1", "visitor-1", domain.RoleUser, "hello", time.Time{})
	if err != nil {
		t.Fatalf("CreateTurn: %v", err)
	}
	if turn.ID == "" || turn.CreatedAt.Before(before) {
		t.Fatalf("expected generated ID and fresh CreatedAt, got %+v", turn)
	}

	got, err := GetTurn(context.Background(), db, turn.ID)
	if err != nil {
		t.Fatalf("GetTurn: %v", err)
	}
	if got.Content != "hello" || got.Role != domain.RoleUser {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestMarkConversion(t *testing.T) {
	db := newRepoDB(t, &domain.ConversationTurn{})
	ctx := context.Background()

	turn, err := CreateTurn(ctx, db, "key-1", "visitor-1", domain.RoleAssistant, "buy now", time.Time{})
	if err != nil {
		t.Fatalf("CreateTurn: %v", err)
	}

	if err := MarkConversion(ctx, db, turn.ID, 49.9); err != nil {
		t.Fatalf("MarkConversion: %v", err)
	}
	got, err := GetTurn(ctx, db, turn.ID)
	if err != nil {
		t.Fatalf("GetTurn: %v", err)
	}
	if !got.Converted || got.ConversionValue != 49.9 {
		t.Fatalf("conversion not persisted: %+v", got)
	}

	if err := MarkConversion(ctx, db, "missing", 1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found, got %v", err)
	}
}

func TestListTurnsForDay_WindowAndOrder(t *testing.T) {
	db := newRepoDB(t, &domain.ConversationTurn{})
	ctx := context.Background()

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	seed := []struct {
		key, content string
		at           time.Time
	}{
		{"key-1", "before window", day.Add(-time.Second)},
		{"key-1", "first", day},
		{"key-1", "second", day.Add(12 * time.Hour)},
		{"key-1", "next day", day.Add(24 * time.Hour)},
		{"key-2", "other chatbot", day.Add(time.Hour)},
	}
	for _, s := range seed {
		if _, err := CreateTurn(ctx, db, s.key, "v1", domain.RoleUser, s.content, s.at); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	turns, err := ListTurnsForDay(ctx, db, "key-1", day)
	if err != nil {
		t.Fatalf("ListTurnsForDay: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns in window, got %d", len(turns))
	}
	if turns[0].Content != "first" || turns[1].Content != "second" {
		t.Fatalf("unexpected order: %q, %q", turns[0].Content, turns[1].Content)
	}
}

func TestDistinctAPIKeysForDay(t *testing.T) {
	db := newRepoDB(t, &domain.ConversationTurn{})
	ctx := context.Background()

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	for _, key := range []string{"key-b", "key-a", "key-b"} {
		if _, err := CreateTurn(ctx, db, key, "v1", domain.RoleUser, "x", day.Add(time.Hour)); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if _, err := CreateTurn(ctx, db, "key-c", "v1", domain.RoleUser, "x", day.Add(25*time.Hour)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	keys, err := DistinctAPIKeysForDay(ctx, db, day)
	if err != nil {
		t.Fatalf("DistinctAPIKeysForDay: %v", err)
	}
	if len(keys) != 2 || keys[0] != "key-a" || keys[1] != "key-b" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}
