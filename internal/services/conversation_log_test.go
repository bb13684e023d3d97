package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lulai/chatbot-engine/internal/domain"
	"github.com/lulai/chatbot-engine/internal/repo"
)

func TestConversationLog_EnqueueAndDrain(t *testing.T) {
	db := newServicesDB(t)
	clog := NewConversationLog(db, 4)

	clog.Enqueue(domain.ConversationTurn{APIKey: "key-1", UserID: "v1", Role: domain.RoleUser, Content: "hi"})
	clog.Enqueue(domain.ConversationTurn{APIKey: "key-1", UserID: "v1", Role: domain.RoleAssistant, Content: "hello"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := clog.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var count int64
	if err := db.Model(&domain.ConversationTurn{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 persisted turns, got %d", count)
	}
}

func TestConversationLog_Record(t *testing.T) {
	db := newServicesDB(t)
	clog := NewConversationLog(db, 1)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = clog.Close(ctx)
	}()

	id, err := clog.Record(context.Background(), domain.ConversationTurn{
		APIKey: "key-1", UserID: "v1", Role: domain.RoleUser, Content: "hi",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated turn ID")
	}
	if _, err := repo.GetTurn(context.Background(), db, id); err != nil {
		t.Fatalf("recorded turn not readable: %v", err)
	}
}

func TestConversationLog_EnqueueDropsWhenFull(t *testing.T) {
	db := newServicesDB(t)

	// No worker: an unbuffered queue cannot accept anything, so Enqueue must
	// take the drop path without blocking or panicking.
	clog := &ConversationLog{db: db, queue: make(chan domain.ConversationTurn)}
	done := make(chan struct{})
	go func() {
		clog.Enqueue(domain.ConversationTurn{APIKey: "key-1", Role: domain.RoleUser, Content: "hi"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Enqueue blocked on a full queue")
	}

	var count int64
	if err := db.Model(&domain.ConversationTurn{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("dropped turn must not be persisted, got %d rows", count)
	}
}

func TestConversationLog_MarkConversion(t *testing.T) {
	db := newServicesDB(t)
	clog := NewConversationLog(db, 1)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = clog.Close(ctx)
	}()

	id, err := clog.Record(context.Background(), domain.ConversationTurn{
		APIKey: "key-1", UserID: "v1", Role: domain.RoleAssistant, Content: "buy",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	if err := clog.MarkConversion(context.Background(), id, -1); !errors.Is(err, ErrInvalidConversion) {
		t.Fatalf("expected ErrInvalidConversion, got %v", err)
	}
	if err := clog.MarkConversion(context.Background(), "missing", 10); !errors.Is(err, ErrTurnNotFound) {
		t.Fatalf("expected ErrTurnNotFound, got %v", err)
	}
	if err := clog.MarkConversion(context.Background(), id, 12.5); err != nil {
		t.Fatalf("MarkConversion: %v", err)
	}

	turn, err := repo.GetTurn(context.Background(), db, id)
	if err != nil {
		t.Fatalf("GetTurn: %v", err)
	}
	if !turn.Converted || turn.ConversionValue != 12.5 {
		t.Fatalf("conversion not applied: %+v", turn)
	}
}

func TestConversationLog_CloseTwiceIsSafe(t *testing.T) {
	db := newServicesDB(t)
	clog := NewConversationLog(db, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := clog.Close(ctx); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := clog.Close(ctx); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
