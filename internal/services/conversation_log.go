// Package services, ConversationLog.
//
// This file implements the best-effort conversation logger. Turns are
// appended through a bounded queue drained by a single worker goroutine so
// that the reply path never blocks on, or fails because of, persistence.
// Insert failures (and drops when the queue is full) are reported through
// the structured log, not propagated.
//
// The logger also owns the conversion-recording event, which flags an
// already persisted turn for the analytics rollup.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lulai/chatbot-engine/internal/domain"
	"github.com/lulai/chatbot-engine/internal/repo"
)

// ConversationLog persists conversation turns, synchronously via Record or
// asynchronously via Enqueue. Safe for concurrent use.
type ConversationLog struct {
	db    *gorm.DB
	queue chan domain.ConversationTurn

	wg        sync.WaitGroup
	closeOnce sync.Once

	// InsertTimeout bounds each async insert. Values <= 0 default to 5s.
	InsertTimeout time.Duration
}

// NewConversationLog constructs the logger and starts its worker. buffer
// values <= 0 are coerced to 64.
func NewConversationLog(db *gorm.DB, buffer int) *ConversationLog {
	if buffer <= 0 {
		buffer = 64
	}
	l := &ConversationLog{
		db:    db,
		queue: make(chan domain.ConversationTurn, buffer),
	}
	l.wg.Add(1)
	go l.worker()
	return l
}

// Record inserts one turn synchronously and returns its ID. Used by tests
// and by callers that need the row immediately (e.g. seeding).
func (l *ConversationLog) Record(ctx context.Context, turn domain.ConversationTurn) (string, error) {
	t, err := repo.CreateTurn(ctx, l.db, turn.APIKey, turn.UserID, turn.Role, turn.Content, turn.CreatedAt)
	if err != nil {
		return "", err
	}
	return t.ID, nil
}

// Enqueue hands a turn to the worker without blocking. When the queue is
// full the turn is dropped and the drop is logged; the caller's reply has
// already been delivered and must not be delayed by logging pressure.
func (l *ConversationLog) Enqueue(turn domain.ConversationTurn) {
	select {
	case l.queue <- turn:
	default:
		log.Error().
			Str("api_key_suffix", keySuffix(turn.APIKey)).
			Str("role", turn.Role).
			Msg("conversation log queue full, turn dropped")
	}
}

// MarkConversion flags turnID as a conversion with the given value.
// Returns ErrInvalidConversion for negative values and ErrTurnNotFound when
// the turn does not exist.
func (l *ConversationLog) MarkConversion(ctx context.Context, turnID string, value float64) error {
	if value < 0 {
		return ErrInvalidConversion
	}
	if err := repo.MarkConversion(ctx, l.db, turnID, value); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTurnNotFound
		}
		return err
	}
	return nil
}

// Close stops accepting turns, drains the queue, and waits for the worker
// up to the context deadline.
func (l *ConversationLog) Close(ctx context.Context) error {
	l.closeOnce.Do(func() { close(l.queue) })

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// worker drains the queue until Close. Each insert gets its own timeout so
// one stuck write cannot wedge the drain.
func (l *ConversationLog) worker() {
	defer l.wg.Done()
	for turn := range l.queue {
		ctx, cancel := context.WithTimeout(context.Background(), l.insertTimeout())
		_, err := repo.CreateTurn(ctx, l.db, turn.APIKey, turn.UserID, turn.Role, turn.Content, turn.CreatedAt)
		cancel()
		if err != nil {
			log.Error().Err(err).
				Str("api_key_suffix", keySuffix(turn.APIKey)).
				Str("role", turn.Role).
				Msg("conversation turn insert failed")
		}
	}
}

func (l *ConversationLog) insertTimeout() time.Duration {
	if l.InsertTimeout > 0 {
		return l.InsertTimeout
	}
	return 5 * time.Second
}

// keySuffix returns the last 4 characters of an API key for log correlation
// without disclosing the key itself.
func keySuffix(k string) string {
	if len(k) <= 4 {
		return k
	}
	return k[len(k)-4:]
}
