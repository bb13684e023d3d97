// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for chatbot
// profiles and their configured response rules.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a profile is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lulai/chatbot-engine/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateChatbot inserts a new profile owned by accountID. The profile ID and
// API key are randomly generated UUIDs, and CreatedAt is set to UTC.
//
// On success, it returns the persisted profile. On failure, it returns a DB
// error.
func CreateChatbot(ctx context.Context, db *gorm.DB, accountID, name, industry, customPrompt string) (*domain.ChatbotProfile, error) {
	p := &domain.ChatbotProfile{
		ID:           uuid.NewString(),
		AccountID:    accountID,
		Name:         name,
		APIKey:       uuid.NewString(),
		Industry:     industry,
		CustomPrompt: customPrompt,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetChatbotByAPIKey resolves the opaque widget API key to its profile.
// If no profile carries the key, it returns ErrNotFound.
func GetChatbotByAPIKey(ctx context.Context, db *gorm.DB, apiKey string) (*domain.ChatbotProfile, error) {
	var p domain.ChatbotProfile
	err := db.WithContext(ctx).
		Where("api_key = ?", apiKey).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetChatbot fetches a profile by its primary key, or ErrNotFound.
func GetChatbot(ctx context.Context, db *gorm.DB, id string) (*domain.ChatbotProfile, error) {
	var p domain.ChatbotProfile
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateResponseRule appends a rule to the profile's response set. Position
// fixes the definition order used for tie-breaking during matching.
func CreateResponseRule(ctx context.Context, db *gorm.DB, chatbotID string, position int, trigger, response string, isAI bool) (*domain.ResponseRule, error) {
	r := &domain.ResponseRule{
		ID:        uuid.NewString(),
		ChatbotID: chatbotID,
		Position:  position,
		Trigger:   trigger,
		Response:  response,
		IsAI:      isAI,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// ListResponseRules returns the profile's rules in stable definition order
// (Position ASC, CreatedAt ASC, ID ASC). It returns ErrNotFound when the
// profile itself does not exist; a profile with zero rules yields an empty
// slice and no error.
func ListResponseRules(ctx context.Context, db *gorm.DB, chatbotID string) ([]domain.ResponseRule, error) {
	var exists int64
	if err := db.WithContext(ctx).Model(&domain.ChatbotProfile{}).Where("id = ?", chatbotID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	var out []domain.ResponseRule
	err := db.WithContext(ctx).
		Where("chatbot_id = ?", chatbotID).
		Order("position ASC, created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}
