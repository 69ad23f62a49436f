// backend-go/internal/api/handlers/plan_handler.go
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
	"github.com/andresuchdata/salesintel/backend-go/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PlanService is the plan generation surface the handler needs
type PlanService interface {
	GenerateWeeklyPlans(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationReport, error)
	ListWeekPlans(ctx context.Context, userID string, weekStart *time.Time) ([]domain.StoredDayPlan, error)
	ScoreUserRetailers(ctx context.Context, userID string) ([]domain.RetailerScore, error)
	UndoAction(ctx context.Context, actionID string) (*domain.AutonomousAction, error)
	ListArchivedWeek(ctx context.Context, weekStart *time.Time) ([]storage.ArchivedWeek, error)
}

type PlanHandler struct {
	service PlanService
}

func NewPlanHandler(service PlanService) *PlanHandler {
	return &PlanHandler{service: service}
}

type generatePlansRequest struct {
	UserID          string `json:"user_id"`
	ForceRegenerate bool   `json:"force_regenerate"`
	WeekStart       string `json:"week_start"`
}

// GeneratePlans runs weekly plan generation for one user or all active users
func (h *PlanHandler) GeneratePlans(c *gin.Context) {
	var body generatePlansRequest
	// an empty body means every active user with defaults
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := domain.GenerationRequest{
		UserID:          strings.TrimSpace(body.UserID),
		ForceRegenerate: body.ForceRegenerate,
	}
	if req.UserID != "" {
		if _, err := uuid.Parse(req.UserID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id", "details": err.Error()})
			return
		}
	}

	weekStart, err := parseDate(body.WeekStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_start, expected YYYY-MM-DD"})
		return
	}
	req.WeekStart = weekStart

	report, err := h.service.GenerateWeeklyPlans(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "failed to generate plans")
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetWeekPlans returns the stored plans of a user's week
func (h *PlanHandler) GetWeekPlans(c *gin.Context) {
	weekStart, err := parseDate(c.Query("week_start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_start, expected YYYY-MM-DD"})
		return
	}

	plans, err := h.service.ListWeekPlans(c.Request.Context(), c.Param("user_id"), weekStart)
	if err != nil {
		respondError(c, err, "failed to fetch plans")
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans, "count": len(plans)})
}

// GetRetailerScores returns a user's retailers ranked by visit priority
func (h *PlanHandler) GetRetailerScores(c *gin.Context) {
	scores, err := h.service.ScoreUserRetailers(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, err, "failed to score retailers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"retailers": scores, "count": len(scores)})
}

// UndoAction reverts a generated week
func (h *PlanHandler) UndoAction(c *gin.Context) {
	action, err := h.service.UndoAction(c.Request.Context(), c.Param("action_id"))
	if err != nil {
		respondError(c, err, "failed to undo action")
		return
	}

	c.JSON(http.StatusOK, action)
}

// GetArchivedWeek returns the archived snapshots of a week across users
func (h *PlanHandler) GetArchivedWeek(c *gin.Context) {
	weekStart, err := parseDate(c.Query("week_start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week_start, expected YYYY-MM-DD"})
		return
	}

	weeks, err := h.service.ListArchivedWeek(c.Request.Context(), weekStart)
	if err != nil {
		respondError(c, err, "failed to fetch plan archive")
		return
	}

	c.JSON(http.StatusOK, gin.H{"archives": weeks, "count": len(weeks)})
}
