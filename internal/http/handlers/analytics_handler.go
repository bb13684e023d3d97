// Analytics HTTP handlers.
//
// This file exposes the rollup endpoints:
//   - POST /analytics/aggregate (scheduler-triggered daily rollup)
//   - GET  /analytics/daily     (read stored rollups for a chatbot)
//
// The aggregate endpoint is guarded by the shared-secret bearer middleware;
// it is called by an external cron, not by widgets or dashboards.
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lulai/chatbot-engine/internal/domain"
	"github.com/lulai/chatbot-engine/internal/services"
	"github.com/lulai/chatbot-engine/internal/utils"
)

// AggregateRequest optionally pins the rollup to a specific UTC calendar day.
// When omitted (or the body is empty), the previous UTC day is aggregated.
type AggregateRequest struct {
	// Date is the UTC day to aggregate, formatted YYYY-MM-DD.
	Date string `json:"date" example:"2026-08-30"`
}

// Aggregate godoc
// @ID          aggregate
// @Summary     Run the daily analytics rollup
// @Description Recomputes per-chatbot daily aggregates for one UTC calendar day
// @Description (default: yesterday). Idempotent: re-running a day rewrites the
// @Description same rows. Requires the scheduler bearer secret.
// @Tags        Analytics
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer <cron secret>"
// @Param       body           body    handlers.AggregateRequest  false  "Optional day override"
//
// @Success     200  {object} services.AggregateResult
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /analytics/aggregate [post]
func (h *Handlers) Aggregate(c *gin.Context) {
	day := time.Now().UTC().AddDate(0, 0, -1)

	var req AggregateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}
	if d := strings.TrimSpace(req.Date); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, time.UTC)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	res, err := h.anaSvc.Aggregate(c.Request.Context(), day)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeAggregateFailed, "rollup failed")
		return
	}
	ok(c, http.StatusOK, res)
}

// DailyAnalyticsResponse wraps the stored rollups for one chatbot.
type DailyAnalyticsResponse struct {
	ChatbotID string                  `json:"chatbot_id"`
	Daily     []domain.DailyAggregate `json:"daily"`
}

// ListDaily godoc
// @ID          listDaily
// @Summary     List daily aggregates for a chatbot
// @Description Returns stored per-day rollups for one chatbot, optionally
// @Description bounded by an inclusive from/to date range.
// @Tags        Analytics
// @Produce     json
//
// @Param       chatbot_id  query  string  true   "Chatbot ID"  format(uuid)
// @Param       from        query  string  false  "Inclusive lower bound (YYYY-MM-DD)"
// @Param       to          query  string  false  "Inclusive upper bound (YYYY-MM-DD)"
// @Param       limit       query  int     false  "Max rows returned (newest last)"  minimum(1)
//
// @Success     200  {object} handlers.DailyAnalyticsResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Chatbot not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /analytics/daily [get]
func (h *Handlers) ListDaily(c *gin.Context) {
	chatbotID := strings.TrimSpace(c.Query("chatbot_id"))
	if chatbotID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chatbot_id is required")
		return
	}

	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.ParseInLocation("2006-01-02", d, time.UTC); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "from/to must be YYYY-MM-DD")
			return
		}
	}

	daily, err := h.anaSvc.ListDaily(c.Request.Context(), chatbotID, from, to)
	switch {
	case err == nil:
		if limit := utils.AtoiDefault(c.Query("limit"), 0); limit > 0 && limit < len(daily) {
			daily = daily[len(daily)-limit:]
		}
		ok(c, http.StatusOK, DailyAnalyticsResponse{ChatbotID: chatbotID, Daily: daily})
	case errors.Is(err, services.ErrChatbotNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "chatbot not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list daily analytics")
	}
}
