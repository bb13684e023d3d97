// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides persistence for the daily analytics
// rollups produced by the aggregation job.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lulai/chatbot-engine/internal/domain"
)

// UpsertDailyAggregate writes one (chatbot_id, date) rollup row as a single
// atomic insert-or-replace. Re-running the aggregation for the same day
// overwrites the previous values instead of appending a duplicate, which is
// what makes the job idempotent and safe against concurrent reruns for the
// same key.
func UpsertDailyAggregate(ctx context.Context, db *gorm.DB, agg *domain.DailyAggregate) error {
	if agg.ID == "" {
		agg.ID = uuid.NewString()
	}
	agg.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "chatbot_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"conversation_count", "message_count", "conversion_count", "avg_response_time", "updated_at",
			}),
		}).
		Create(agg).Error
}

// ListDailyAggregates returns rollup rows for one chatbot between from and
// to (inclusive, YYYY-MM-DD), ordered by date ascending.
func ListDailyAggregates(ctx context.Context, db *gorm.DB, chatbotID, from, to string) ([]domain.DailyAggregate, error) {
	var out []domain.DailyAggregate
	q := db.WithContext(ctx).Where("chatbot_id = ?", chatbotID)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	err := q.Order("date ASC").Find(&out).Error
	return out, err
}

// GetDailyAggregate fetches the rollup for one (chatbot_id, date) key, or
// ErrNotFound.
func GetDailyAggregate(ctx context.Context, db *gorm.DB, chatbotID, date string) (*domain.DailyAggregate, error) {
	var agg domain.DailyAggregate
	err := db.WithContext(ctx).
		Where("chatbot_id = ? AND date = ?", chatbotID, date).
		First(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}
