// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// append-only conversations table.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lulai/chatbot-engine/internal/domain"
)

// CreateTurn inserts one immutable conversation row. When at is zero the
// current UTC time is used; the aggregator relies on CreatedAt for its
// date-window scans.
func CreateTurn(ctx context.Context, db *gorm.DB, apiKey, userID, role, content string, at time.Time) (*domain.ConversationTurn, error) {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	t := &domain.ConversationTurn{
		ID:        uuid.NewString(),
		APIKey:    apiKey,
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: at,
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// GetTurn fetches a turn by ID, or ErrNotFound.
func GetTurn(ctx context.Context, db *gorm.DB, id string) (*domain.ConversationTurn, error) {
	var t domain.ConversationTurn
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkConversion flags an existing turn as converted with the given value.
// Returns ErrNotFound when no row was affected. This is the only mutation
// the conversations table ever sees.
func MarkConversion(ctx context.Context, db *gorm.DB, turnID string, value float64) error {
	res := db.WithContext(ctx).
		Model(&domain.ConversationTurn{}).
		Where("id = ?", turnID).
		Updates(map[string]any{"converted": true, "conversion_value": value})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListTurnsForDay returns all turns logged for apiKey whose CreatedAt falls
// in [dayStart, dayStart+24h), ordered deterministically for the latency
// walk (CreatedAt ASC, ID ASC).
func ListTurnsForDay(ctx context.Context, db *gorm.DB, apiKey string, dayStart time.Time) ([]domain.ConversationTurn, error) {
	var out []domain.ConversationTurn
	err := db.WithContext(ctx).
		Where("api_key = ? AND created_at >= ? AND created_at < ?", apiKey, dayStart, dayStart.Add(24*time.Hour)).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// DistinctAPIKeysForDay lists the API keys that logged at least one turn in
// the given UTC day window. The aggregator iterates this set so that a
// failure for one chatbot cannot abort the others.
func DistinctAPIKeysForDay(ctx context.Context, db *gorm.DB, dayStart time.Time) ([]string, error) {
	var keys []string
	err := db.WithContext(ctx).
		Model(&domain.ConversationTurn{}).
		Where("created_at >= ? AND created_at < ?", dayStart, dayStart.Add(24*time.Hour)).
		Distinct("api_key").
		Order("api_key ASC").
		Pluck("api_key", &keys).Error
	return keys, err
}
