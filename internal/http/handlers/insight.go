package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avaraper/calily-backend/internal/http/response"
	"github.com/avaraper/calily-backend/internal/insight"
	"github.com/avaraper/calily-backend/internal/insight/quota"
	"github.com/avaraper/calily-backend/internal/services"
)

type InsightHandler struct {
	insightService services.InsightService
}

func NewInsightHandler(insightService services.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

func (ih *InsightHandler) WeeklySummary(c *gin.Context) {
	ih.respond(c, ih.insightService.WeeklySummary)
}

func (ih *InsightHandler) AnalyzePatterns(c *gin.Context) {
	ih.respond(c, ih.insightService.AnalyzePatterns)
}

func (ih *InsightHandler) IdentifyTriggers(c *gin.Context) {
	ih.respond(c, ih.insightService.IdentifyTriggers)
}

func (ih *InsightHandler) DoctorVisitPrep(c *gin.Context) {
	ih.respond(c, ih.insightService.DoctorVisitPrep)
}

func (ih *InsightHandler) TrendAnalysis(c *gin.Context) {
	ih.respond(c, ih.insightService.TrendAnalysis)
}

func (ih *InsightHandler) History(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}
	rows, err := ih.insightService.History(c.Request.Context(), limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "insight_history_failed", err)
		return
	}
	response.RespondOK(c, rows)
}

// respond maps the pipeline's error taxonomy onto HTTP: quota denials become
// 429 with a retry hint, provider failures 502, anything else 500.
func (ih *InsightHandler) respond(c *gin.Context, generate func(ctx context.Context) (*insight.Result, error)) {
	result, err := generate(c.Request.Context())
	if err == nil {
		response.RespondOK(c, result)
		return
	}

	var exceeded *quota.ExceededError
	if errors.As(err, &exceeded) {
		response.RespondRateLimited(c, exceeded.RetryAfterHours, err)
		return
	}
	var provider *insight.ProviderError
	if errors.As(err, &provider) {
		response.RespondError(c, http.StatusBadGateway, "provider_failure", errors.New("insight generation failed, please try again"))
		return
	}
	response.RespondError(c, http.StatusInternalServerError, "insight_failed", err)
}
