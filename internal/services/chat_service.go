// Package services, ChatService.
//
// This file implements ChatService, the application-level component that
// owns the reply pipeline: resolve the chatbot by API key, match the
// utterance against its configured rules, optionally rewrite the matched
// response through the LLM, and hand both turns to the conversation log on
// a best-effort basis.
//
// The enhancement contract is strict: the conversational flow must never
// fail because the enhancement call failed. Every LLM error, timeout, or
// malformed reply degrades to the canned text (or a fixed apology line for
// the no-match fallback), and the caller still receives a reply.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// chatbot and end-user identifiers plus the match outcome.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lulai/chatbot-engine/internal/domain"
	"github.com/lulai/chatbot-engine/internal/match"
	"github.com/lulai/chatbot-engine/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// fallbackReply is returned when no rule matched and the LLM fallback is
// unavailable or failed.
const fallbackReply = "I'm sorry, I couldn't process your request at the moment. How else can I assist you?"

// Enhancer is the contract the reply pipeline requires from the LLM client.
// Implementations return raw errors; ChatService owns the degrade-to-canned
// fallback.
type Enhancer interface {
	// Enhance rewrites a matched canned response in a more natural tone,
	// scoped to an industry persona.
	Enhance(ctx context.Context, trigger, response, industry string) (string, error)
	// General answers an utterance that matched no configured rule.
	General(ctx context.Context, utterance, industry, botName string) (string, error)
}

// ChatService coordinates trigger matching, enhancement, and best-effort
// conversation logging.
type ChatService struct {
	// DB is the GORM handle used for profile and rule reads.
	DB *gorm.DB
	// Enhancer is the optional LLM client. When nil, AI-flagged rules fall
	// back to their canned text and unmatched utterances to fallbackReply.
	Enhancer Enhancer
	// Log is the optional best-effort conversation logger.
	Log *ConversationLog

	// MaxMessageRunes caps inbound utterances by rune length (0 = no cap).
	MaxMessageRunes int
	// EnhanceTimeout bounds each LLM call. Values <= 0 default to 10s.
	EnhanceTimeout time.Duration
}

// Reply runs the full pipeline for one inbound widget message and returns
// the reply text. The reply is computed and returned independently of
// logging success; turn persistence is queued asynchronously.
//
// Errors: ErrEmptyMessage, ErrTooLong, ErrChatbotNotFound, or a DB error.
func (s *ChatService) Reply(ctx context.Context, apiKey, userID, message string) (string, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Reply",
		trace.WithAttributes(attribute.String("enduser.id", userID)),
	)
	defer span.End()

	receivedAt := time.Now().UTC()

	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	if s.MaxMessageRunes > 0 && utf8.RuneCountInString(message) > s.MaxMessageRunes {
		return "", ErrTooLong
	}

	profile, err := repo.GetChatbotByAPIKey(ctx, s.DB, apiKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrChatbotNotFound
		}
		return "", err
	}
	span.SetAttributes(attribute.String("chatbot.id", profile.ID))

	rules, err := repo.ListResponseRules(ctx, s.DB, profile.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrChatbotNotFound
		}
		return "", err
	}

	var reply string
	if rule := match.Match(message, rules); rule != nil {
		span.SetAttributes(attribute.Bool("match.hit", true), attribute.Bool("match.ai", rule.IsAI))
		reply = rule.Response
		if rule.IsAI {
			reply = s.EnhanceResponse(ctx, rule.Trigger, rule.Response, profile.Industry)
		}
	} else {
		span.SetAttributes(attribute.Bool("match.hit", false))
		reply = s.generalFallback(ctx, message, profile)
	}

	// Best-effort logging: the reply is already final; persistence failures
	// are reported by the log worker and never surface here.
	if s.Log != nil {
		s.Log.Enqueue(domain.ConversationTurn{
			APIKey: apiKey, UserID: userID,
			Role: domain.RoleUser, Content: message,
			CreatedAt: receivedAt,
		})
		s.Log.Enqueue(domain.ConversationTurn{
			APIKey: apiKey, UserID: userID,
			Role: domain.RoleAssistant, Content: reply,
			CreatedAt: time.Now().UTC(),
		})
	}

	return reply, nil
}

// EnhanceResponse rewrites a canned response through the LLM, returning the
// original text unchanged on any failure. It never returns an error: the
// reply path must not fail because enhancement did.
func (s *ChatService) EnhanceResponse(ctx context.Context, trigger, response, industry string) string {
	if s.Enhancer == nil {
		return response
	}
	ctx, cancel := context.WithTimeout(ctx, s.enhanceTimeout())
	defer cancel()

	out, err := s.Enhancer.Enhance(ctx, trigger, response, industry)
	if err != nil || strings.TrimSpace(out) == "" {
		log.Warn().Err(err).Str("trigger", trigger).Msg("enhancement failed, using canned response")
		return response
	}
	return out
}

// generalFallback answers an unmatched utterance through the LLM, degrading
// to a fixed apology line when the LLM is unavailable or fails.
func (s *ChatService) generalFallback(ctx context.Context, message string, profile *domain.ChatbotProfile) string {
	if s.Enhancer == nil {
		return fallbackReply
	}
	ctx, cancel := context.WithTimeout(ctx, s.enhanceTimeout())
	defer cancel()

	out, err := s.Enhancer.General(ctx, message, profile.Industry, profile.Name)
	if err != nil || strings.TrimSpace(out) == "" {
		log.Warn().Err(err).Str("chatbot_id", profile.ID).Msg("general fallback failed, using apology")
		return fallbackReply
	}
	return out
}

func (s *ChatService) enhanceTimeout() time.Duration {
	if s.EnhanceTimeout > 0 {
		return s.EnhanceTimeout
	}
	return 10 * time.Second
}
