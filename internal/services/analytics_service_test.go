package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/lulai/chatbot-engine/internal/domain"
	"github.com/lulai/chatbot-engine/internal/repo"
)

func seedTurn(t *testing.T, db *gorm.DB, apiKey, userID, role, content string, at time.Time, converted bool) {
	t.Helper()
	turn, err := repo.CreateTurn(context.Background(), db, apiKey, userID, role, content, at)
	if err != nil {
		t.Fatalf("seed turn: %v", err)
	}
	if converted {
		if err := repo.MarkConversion(context.Background(), db, turn.ID, 10); err != nil {
			t.Fatalf("seed conversion: %v", err)
		}
	}
}

func TestAggregate_ComputesAllMetrics(t *testing.T) {
	db := newServicesDB(t)
	p := seedChatbot(t, db, "e_commerce")

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	key := p.APIKey

	// visitor-1: one answered question (2s latency), with a conversion.
	seedTurn(t, db, key, "visitor-1", domain.RoleUser, "hours?", day.Add(10*time.Minute), false)
	seedTurn(t, db, key, "visitor-1", domain.RoleAssistant, "9-5", day.Add(10*time.Minute+2*time.Second), true)
	// visitor-2: one answered question (4s latency).
	seedTurn(t, db, key, "visitor-2", domain.RoleUser, "price?", day.Add(20*time.Minute), false)
	seedTurn(t, db, key, "visitor-2", domain.RoleAssistant, "$10", day.Add(20*time.Minute+4*time.Second), false)
	// visitor-1 again: unanswered user turn contributes no latency sample.
	seedTurn(t, db, key, "visitor-1", domain.RoleUser, "thanks", day.Add(30*time.Minute), false)

	svc := &AnalyticsService{DB: db}
	res, err := svc.Aggregate(context.Background(), day.Add(13*time.Hour)) // mid-day input truncates to the day
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if res.Date != "2026-08-30" || res.Failed != 0 || len(res.Aggregates) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	agg := res.Aggregates[0]
	if agg.ChatbotID != p.ID {
		t.Fatalf("rollup attributed to wrong chatbot: %+v", agg)
	}
	if agg.ConversationCount != 2 {
		t.Fatalf("expected 2 distinct end users, got %d", agg.ConversationCount)
	}
	if agg.MessageCount != 5 {
		t.Fatalf("expected 5 turns, got %d", agg.MessageCount)
	}
	if agg.ConversionCount != 1 {
		t.Fatalf("expected 1 conversion, got %d", agg.ConversionCount)
	}
	if agg.AvgResponseTime != 3.0 {
		t.Fatalf("expected mean latency 3.0s, got %v", agg.AvgResponseTime)
	}
}

func TestAggregate_RerunIsIdempotent(t *testing.T) {
	db := newServicesDB(t)
	p := seedChatbot(t, db, "general")

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	seedTurn(t, db, p.APIKey, "v1", domain.RoleUser, "hi", day.Add(time.Hour), false)
	seedTurn(t, db, p.APIKey, "v1", domain.RoleAssistant, "hello", day.Add(time.Hour+time.Second), false)

	svc := &AnalyticsService{DB: db}
	first, err := svc.Aggregate(context.Background(), day)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.Aggregate(context.Background(), day)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	var count int64
	if err := db.Model(&domain.DailyAggregate{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("rerun appended rows: %d", count)
	}
	if first.Aggregates[0].MessageCount != second.Aggregates[0].MessageCount ||
		first.Aggregates[0].ConversationCount != second.Aggregates[0].ConversationCount {
		t.Fatalf("rerun changed values: %+v vs %+v", first.Aggregates[0], second.Aggregates[0])
	}
}

func TestAggregate_IsolatesPerChatbotFailures(t *testing.T) {
	db := newServicesDB(t)
	p := seedChatbot(t, db, "general")

	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	seedTurn(t, db, p.APIKey, "v1", domain.RoleUser, "hi", day.Add(time.Hour), false)
	// Orphaned key: no profile resolves to it, so its rollup must fail
	// without aborting the healthy chatbot.
	seedTurn(t, db, "orphan-key", "v9", domain.RoleUser, "hi", day.Add(time.Hour), false)

	svc := &AnalyticsService{DB: db}
	res, err := svc.Aggregate(context.Background(), day)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if res.Failed != 1 {
		t.Fatalf("expected 1 failed chatbot, got %d", res.Failed)
	}
	if len(res.Aggregates) != 1 || res.Aggregates[0].ChatbotID != p.ID {
		t.Fatalf("healthy chatbot missing from result: %+v", res)
	}
}

func TestAggregate_EmptyDay(t *testing.T) {
	db := newServicesDB(t)
	svc := &AnalyticsService{DB: db}

	res, err := svc.Aggregate(context.Background(), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(res.Aggregates) != 0 || res.Failed != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestListDaily(t *testing.T) {
	db := newServicesDB(t)
	p := seedChatbot(t, db, "general")

	if err := repo.UpsertDailyAggregate(context.Background(), db, &domain.DailyAggregate{
		ChatbotID: p.ID, Date: "2026-08-30", MessageCount: 4,
	}); err != nil {
		t.Fatalf("seed rollup: %v", err)
	}

	svc := &AnalyticsService{DB: db}
	rows, err := svc.ListDaily(context.Background(), p.ID, "", "")
	if err != nil {
		t.Fatalf("ListDaily: %v", err)
	}
	if len(rows) != 1 || rows[0].Date != "2026-08-30" {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	if _, err := svc.ListDaily(context.Background(), "missing", "", ""); !errors.Is(err, ErrChatbotNotFound) {
		t.Fatalf("expected ErrChatbotNotFound, got %v", err)
	}
}

func TestComputeDailyAggregate_LatencyPairsClosestPrecedingUserTurn(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	turns := []domain.ConversationTurn{
		{UserID: "v1", Role: domain.RoleUser, CreatedAt: base},
		{UserID: "v1", Role: domain.RoleUser, CreatedAt: base.Add(10 * time.Second)}, // supersedes the first
		{UserID: "v1", Role: domain.RoleAssistant, CreatedAt: base.Add(12 * time.Second)},
		{UserID: "v1", Role: domain.RoleAssistant, CreatedAt: base.Add(20 * time.Second)}, // no pending user turn
	}

	agg := computeDailyAggregate("bot-1", "2026-08-30", turns)
	if agg.AvgResponseTime != 2.0 {
		t.Fatalf("expected 2.0s from the superseding pair, got %v", agg.AvgResponseTime)
	}
	if agg.ConversationCount != 1 || agg.MessageCount != 4 {
		t.Fatalf("unexpected counts: %+v", agg)
	}
}
