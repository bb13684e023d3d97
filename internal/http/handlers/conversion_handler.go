// Conversion HTTP handler.
//
// This file exposes the conversion-recording endpoint:
//   - POST /conversions (flag a logged turn as a conversion)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lulai/chatbot-engine/internal/services"
)

// ConversionRequest is the JSON payload flagging a turn as a conversion.
type ConversionRequest struct {
	// ConversationID is the ID of the logged turn that led to the conversion.
	ConversationID string `json:"conversation_id" binding:"required" format:"uuid" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// Value is the monetary value attributed to the conversion (>= 0).
	Value float64 `json:"value" example:"49.90"`
}

// RecordConversion godoc
// @ID          recordConversion
// @Summary     Record a conversion
// @Description Flags a previously logged conversation turn as a conversion
// @Description with an attributed value. Counted by the daily analytics rollup.
// @Tags        Conversions
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.ConversionRequest  true  "Conversion payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Turn not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /conversions [post]
func (h *Handlers) RecordConversion(c *gin.Context) {
	var req ConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "conversation_id is required")
		return
	}
	if _, err := uuid.Parse(req.ConversationID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "conversation_id must be a UUID")
		return
	}

	err := h.convSvc.MarkConversion(c.Request.Context(), req.ConversationID, req.Value)
	switch {
	case err == nil:
		noContent(c)
	case errors.Is(err, services.ErrInvalidConversion):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "value must be >= 0")
	case errors.Is(err, services.ErrTurnNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "conversation turn not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not record conversion")
	}
}
