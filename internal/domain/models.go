// Package domain defines the persistence models for chatbot profiles,
// response rules, conversation turns, and daily analytics rollups. These
// types are mapped with GORM and form the core data layer of the chatbot
// engine.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Turn roles stored in the conversations table.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatbotProfile represents a configured chatbot owned by one account.
// The widget authenticates to the engine with the profile's opaque API key,
// which is unique and immutable once issued.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - AccountID: identifier of the owning account; indexed for retrieval.
//   - Name: display name shown by the widget.
//   - APIKey: opaque key presented by the widget on every request (unique).
//   - Industry: industry classification used to scope the LLM persona.
//   - CustomPrompt: free-text system prompt configured by the owner.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker. Profiles are never physically removed
//     while conversation rows still reference their API key.
type ChatbotProfile struct {
	ID           string         `json:"id"            gorm:"type:char(36);primaryKey"`
	AccountID    string         `json:"account_id"    gorm:"type:varchar(64);not null;index:idx_account_chatbots"`
	Name         string         `json:"name"          gorm:"type:varchar(255);not null;default:'Assistant'"`
	APIKey       string         `json:"api_key"       gorm:"type:varchar(64);not null;uniqueIndex:ux_chatbot_api_key"`
	Industry     string         `json:"industry"      gorm:"type:varchar(64);not null;default:'general'"`
	CustomPrompt string         `json:"custom_prompt" gorm:"type:text"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"             gorm:"index"`
}

// TableName returns the database table name for ChatbotProfile.
func (ChatbotProfile) TableName() string { return "chatbots" }

// ResponseRule is a configured (trigger, canned response) pair belonging to
// exactly one chatbot. Triggers are matched case-insensitively against
// inbound utterances and are not required to be unique; when several rules
// match, the one with the longest trigger phrase wins, ties broken by the
// original definition order (Position, then CreatedAt).
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - ChatbotID: foreign key to the owning profile (indexed, cascades).
//   - Position: zero-based definition order within the profile.
//   - Trigger: non-empty trigger phrase.
//   - Response: non-empty canned response text.
//   - IsAI: when true, the matched response is rewritten by the LLM before
//     being returned (best-effort; the canned text is the fallback).
type ResponseRule struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	ChatbotID string    `json:"chatbot_id" gorm:"type:char(36);not null;index:idx_chatbot_rules,priority:1"`
	Position  int       `json:"position"   gorm:"not null;default:0;index:idx_chatbot_rules,priority:2"`
	Trigger   string    `json:"trigger"    gorm:"type:varchar(255);not null"`
	Response  string    `json:"response"   gorm:"type:text;not null"`
	IsAI      bool      `json:"is_ai"      gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Chatbot is the owning profile. Rules are cascade-deleted if their
	// profile is removed.
	Chatbot ChatbotProfile `json:"-" gorm:"foreignKey:ChatbotID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ResponseRule.
func (ResponseRule) TableName() string { return "chatbot_responses" }

// ConversationTurn is one immutable utterance exchanged through the widget,
// keyed by the chatbot API key and the end-user identity. Rows are
// append-only: they are written once by the conversation logger and never
// mutated afterwards, except for the conversion flag set by the external
// conversion-recording event.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - APIKey: chatbot API key the turn belongs to (indexed). Must resolve
//     to a known ChatbotProfile.
//   - UserID: end-user identity as reported by the widget.
//   - Role: "user" or "assistant" (enforced by DB constraint).
//   - Content: full text of the utterance or reply.
//   - Converted / ConversionValue: set when a conversion event references
//     this turn; consumed by the daily analytics rollup.
//   - CreatedAt: insertion timestamp (UTC), indexed for date-window scans.
type ConversationTurn struct {
	ID              string    `json:"id"               gorm:"type:char(36);primaryKey"`
	APIKey          string    `json:"api_key"          gorm:"column:api_key;type:varchar(64);not null;index:idx_conv_key_time,priority:1"`
	UserID          string    `json:"user_id"          gorm:"type:varchar(64);not null;index"`
	Role            string    `json:"message_role"     gorm:"column:message_role;type:varchar(16);not null;check:message_role IN ('user','assistant')"`
	Content         string    `json:"message_content"  gorm:"column:message_content;type:text;not null"`
	Converted       bool      `json:"converted"        gorm:"not null;default:false"`
	ConversionValue float64   `json:"conversion_value" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at"       gorm:"index:idx_conv_key_time,priority:2"`
}

// TableName returns the database table name for ConversationTurn.
func (ConversationTurn) TableName() string { return "conversations" }

// DailyAggregate is the derived, recomputable per-chatbot rollup for one UTC
// calendar day. Rows are produced idempotently by the analytics aggregator:
// re-running a day replaces the existing row (upsert on chatbot_id + date)
// rather than appending a duplicate.
//
// Fields:
//   - ChatbotID: profile the rollup belongs to.
//   - Date: UTC calendar day in YYYY-MM-DD form.
//   - ConversationCount: distinct (api_key, user_id) pairs seen that day.
//   - MessageCount: total turns logged that day.
//   - ConversionCount: turns flagged as conversions that day.
//   - AvgResponseTime: mean seconds between a user turn and the next
//     assistant turn in the same conversation.
type DailyAggregate struct {
	ID                string    `json:"id"                 gorm:"type:char(36);primaryKey"`
	ChatbotID         string    `json:"chatbot_id"         gorm:"type:char(36);not null;uniqueIndex:ux_daily_chatbot_date,priority:1"`
	Date              string    `json:"date"               gorm:"type:varchar(10);not null;uniqueIndex:ux_daily_chatbot_date,priority:2"`
	ConversationCount int64     `json:"conversation_count" gorm:"not null;default:0"`
	MessageCount      int64     `json:"message_count"      gorm:"not null;default:0"`
	ConversionCount   int64     `json:"conversion_count"   gorm:"not null;default:0"`
	AvgResponseTime   float64   `json:"avg_response_time"  gorm:"not null;default:0"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName returns the database table name for DailyAggregate.
func (DailyAggregate) TableName() string { return "daily_analytics" }
