// Package services, AnalyticsService.
//
// This file implements the daily analytics rollup. An external scheduler
// (cron hitting the aggregation endpoint) invokes Aggregate for one UTC
// calendar day, typically the previous one; the job scans that day's
// conversation turns, groups them by chatbot, and writes one DailyAggregate
// row per chatbot as an atomic insert-or-replace.
//
// Idempotency: re-running a day produces identical stored rows because the
// write is an upsert keyed by (chatbot_id, date) and every metric is
// recomputed from the immutable turn rows.
//
// Isolation: each chatbot's rollup is computed and written independently; a
// failure for one chatbot is logged and skipped without aborting the run.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lulai/chatbot-engine/internal/domain"
	"github.com/lulai/chatbot-engine/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AnalyticsService computes and serves daily per-chatbot rollups.
type AnalyticsService struct {
	// DB is the GORM handle used for scans and upserts.
	DB *gorm.DB
}

// AggregateResult summarizes one aggregation run.
type AggregateResult struct {
	// Date is the aggregated UTC calendar day (YYYY-MM-DD).
	Date string `json:"date"`
	// Aggregates holds the rollup written for each chatbot that logged
	// turns on that day.
	Aggregates []domain.DailyAggregate `json:"aggregates"`
	// Failed counts chatbots whose rollup could not be computed or written.
	Failed int `json:"failed"`
}

// Aggregate recomputes the DailyAggregate rows for the UTC calendar day
// containing day. It returns the per-chatbot rollups that were written;
// per-chatbot failures are logged, counted, and skipped. Only a failure to
// enumerate the day's chatbots aborts the run.
func (s *AnalyticsService) Aggregate(ctx context.Context, day time.Time) (*AggregateResult, error) {
	dayStart := day.UTC().Truncate(24 * time.Hour)
	date := dayStart.Format("2006-01-02")

	tr := otel.Tracer("services/AnalyticsService")
	ctx, span := tr.Start(ctx, "Aggregate",
		trace.WithAttributes(attribute.String("aggregate.date", date)),
	)
	defer span.End()

	keys, err := repo.DistinctAPIKeysForDay(ctx, s.DB, dayStart)
	if err != nil {
		return nil, err
	}

	res := &AggregateResult{Date: date, Aggregates: make([]domain.DailyAggregate, 0, len(keys))}
	for _, key := range keys {
		agg, err := s.aggregateChatbot(ctx, key, dayStart, date)
		if err != nil {
			res.Failed++
			log.Error().Err(err).
				Str("api_key_suffix", keySuffix(key)).
				Str("date", date).
				Msg("daily rollup failed for chatbot")
			continue
		}
		res.Aggregates = append(res.Aggregates, *agg)
	}
	span.SetAttributes(
		attribute.Int("aggregate.chatbots", len(res.Aggregates)),
		attribute.Int("aggregate.failed", res.Failed),
	)
	return res, nil
}

// aggregateChatbot computes and upserts one chatbot's rollup for the day as
// a single unit: either the full row is written or nothing is.
func (s *AnalyticsService) aggregateChatbot(ctx context.Context, apiKey string, dayStart time.Time, date string) (*domain.DailyAggregate, error) {
	profile, err := repo.GetChatbotByAPIKey(ctx, s.DB, apiKey)
	if err != nil {
		// Turns whose API key resolves to no profile violate the model
		// invariant; surface them as a per-chatbot failure.
		return nil, err
	}

	turns, err := repo.ListTurnsForDay(ctx, s.DB, apiKey, dayStart)
	if err != nil {
		return nil, err
	}

	agg := computeDailyAggregate(profile.ID, date, turns)
	if err := repo.UpsertDailyAggregate(ctx, s.DB, agg); err != nil {
		return nil, err
	}
	return agg, nil
}

// computeDailyAggregate derives all metrics for one chatbot-day from its
// ordered turn rows:
//
//   - conversation count: distinct end-user IDs (each already scoped to
//     this chatbot's API key, so the dedup key is the (api_key, user_id)
//     pair, never a concatenated string);
//   - message count: total turns;
//   - conversion count: turns flagged by the conversion-recording event;
//   - avg response time: mean gap in seconds between a user turn and the
//     next assistant turn of the same end user, with no turn in between.
func computeDailyAggregate(chatbotID, date string, turns []domain.ConversationTurn) *domain.DailyAggregate {
	agg := &domain.DailyAggregate{
		ChatbotID:    chatbotID,
		Date:         date,
		MessageCount: int64(len(turns)),
	}

	users := make(map[string]struct{})
	pendingUser := make(map[string]time.Time)
	var latencySum float64
	var latencyN int64

	for _, t := range turns {
		users[t.UserID] = struct{}{}
		if t.Converted {
			agg.ConversionCount++
		}
		switch t.Role {
		case domain.RoleUser:
			// A newer user turn supersedes an unanswered older one: the
			// assistant reply pairs with the closest preceding user turn.
			pendingUser[t.UserID] = t.CreatedAt
		case domain.RoleAssistant:
			if asked, ok := pendingUser[t.UserID]; ok {
				latencySum += t.CreatedAt.Sub(asked).Seconds()
				latencyN++
				delete(pendingUser, t.UserID)
			}
		}
	}

	agg.ConversationCount = int64(len(users))
	if latencyN > 0 {
		agg.AvgResponseTime = latencySum / float64(latencyN)
	}
	return agg
}

// ListDaily returns the stored rollups for one chatbot between from and to
// (inclusive, YYYY-MM-DD; empty bounds are open). Returns
// ErrChatbotNotFound when the profile does not exist.
func (s *AnalyticsService) ListDaily(ctx context.Context, chatbotID, from, to string) ([]domain.DailyAggregate, error) {
	if _, err := repo.GetChatbot(ctx, s.DB, chatbotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatbotNotFound
		}
		return nil, err
	}
	return repo.ListDailyAggregates(ctx, s.DB, chatbotID, from, to)
}
