// Chat HTTP handlers.
//
// This file exposes the widget-facing reply endpoint:
//   - POST /chat (resolve chatbot by API key, match, enhance, reply)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lulai/chatbot-engine/internal/domain"
	"github.com/lulai/chatbot-engine/internal/services"
)

//
// Service contracts (context-aware)
//

// ChatService defines the reply pipeline operation consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ChatService interface {
	// Reply matches message against the chatbot's rules and returns the
	// reply text, enhancing or falling back through the LLM as configured.
	Reply(ctx context.Context, apiKey, userID, message string) (string, error)
	// EnhanceResponse rewrites a canned response, returning it unchanged on
	// any failure. It never fails.
	EnhanceResponse(ctx context.Context, trigger, response, industry string) string
}

// ConversationService defines the conversion-recording operation.
type ConversationService interface {
	// MarkConversion flags a persisted turn as a conversion with a value.
	MarkConversion(ctx context.Context, turnID string, value float64) error
}

// AnalyticsService defines the rollup operations consumed by HTTP handlers.
type AnalyticsService interface {
	// Aggregate recomputes the daily rollups for one UTC calendar day.
	Aggregate(ctx context.Context, day time.Time) (*services.AggregateResult, error)
	// ListDaily returns the stored rollups for one chatbot in a date range.
	ListDaily(ctx context.Context, chatbotID, from, to string) ([]domain.DailyAggregate, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for chat, enhancement, conversions, and
// analytics. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	chatSvc ChatService
	convSvc ConversationService
	anaSvc  AnalyticsService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(chatSvc ChatService, convSvc ConversationService, anaSvc AnalyticsService) *Handlers {
	return &Handlers{chatSvc: chatSvc, convSvc: convSvc, anaSvc: anaSvc}
}

//
// DTOs
//

// ChatRequest is the JSON payload posted by the embedded widget.
type ChatRequest struct {
	// APIKey identifies the chatbot; issued when the chatbot is created.
	APIKey string `json:"api_key" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// UserID identifies the end user within this chatbot's audience.
	UserID string `json:"user_id" binding:"required" example:"visitor-8842"`
	// Message is the end user's utterance.
	Message string `json:"message" binding:"required" example:"what are your opening hours?"`
}

// ChatResponse carries the reply text back to the widget.
type ChatResponse struct {
	Reply string `json:"reply" example:"We're open 9am to 5pm, Monday through Friday."`
}

//
// Handlers
//

// Chat godoc
// @ID          chat
// @Summary     Get a reply for an end-user message
// @Description Resolves the chatbot by API key, matches the message against its
// @Description configured triggers, and returns the canned or AI-enhanced reply.
// @Tags        Chat
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.ChatRequest  true  "Chat payload"
//
// @Success     200  {object}  handlers.ChatResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown API key"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat [post]
func (h *Handlers) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "api_key, user_id and message are required")
		return
	}

	reply, err := h.chatSvc.Reply(c.Request.Context(), strings.TrimSpace(req.APIKey), strings.TrimSpace(req.UserID), req.Message)
	switch {
	case err == nil:
		ok(c, http.StatusOK, ChatResponse{Reply: reply})
	case errors.Is(err, services.ErrEmptyMessage):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message must not be empty")
	case errors.Is(err, services.ErrTooLong):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message too long")
	case errors.Is(err, services.ErrChatbotNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "chatbot not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeReplyFailed, "could not produce a reply")
	}
}
