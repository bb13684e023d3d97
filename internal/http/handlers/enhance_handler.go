// Enhancement HTTP handler.
//
// This file exposes the dashboard-facing preview endpoint:
//   - POST /enhance (rewrite a canned response through the LLM)
//
// The endpoint shares the reply pipeline's degradation contract: it always
// answers 200 with some response text once the payload is valid, returning
// the original text when the LLM is unavailable or fails.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// EnhanceRequest is the JSON payload for previewing an AI-enhanced response.
type EnhanceRequest struct {
	// Trigger is the keyword or phrase the response is configured for.
	Trigger string `json:"trigger" binding:"required" example:"opening hours"`
	// Response is the canned text to rewrite.
	Response string `json:"response" binding:"required" example:"We are open 9-5 Mon-Fri."`
	// Industry scopes the rewrite persona (e.g. "e_commerce"). Optional.
	Industry string `json:"industry" example:"e_commerce"`
}

// EnhanceResponseBody carries the (possibly unchanged) response text.
type EnhanceResponseBody struct {
	EnhancedResponse string `json:"enhanced_response" example:"We'd love to see you! Our doors are open 9am to 5pm, Monday through Friday."`
}

// Enhance godoc
// @ID          enhance
// @Summary     Preview an AI-enhanced response
// @Description Rewrites a canned response in a more natural tone. Never fails
// @Description once the payload is valid: on any LLM error the original text
// @Description is returned unchanged.
// @Tags        Enhance
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.EnhanceRequest  true  "Enhancement payload"
//
// @Success     200  {object}  handlers.EnhanceResponseBody
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /enhance [post]
func (h *Handlers) Enhance(c *gin.Context) {
	var req EnhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Response) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "trigger and response are required")
		return
	}

	out := h.chatSvc.EnhanceResponse(c.Request.Context(), req.Trigger, req.Response, req.Industry)
	ok(c, http.StatusOK, EnhanceResponseBody{EnhancedResponse: out})
}
