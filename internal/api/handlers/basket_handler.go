package handlers

import (
	"context"
	"net/http"

	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
)

// BasketService is the suggestion surface the handler needs
type BasketService interface {
	GetSuggestions(ctx context.Context, retailerID string) (*domain.SuggestionBundle, error)
	InvalidateSuggestions(ctx context.Context, retailerID string) error
	InvalidateAllSuggestions(ctx context.Context) error
}

type BasketHandler struct {
	service BasketService
}

func NewBasketHandler(service BasketService) *BasketHandler {
	return &BasketHandler{service: service}
}

// GetSuggestions returns the smart basket of a retailer
func (h *BasketHandler) GetSuggestions(c *gin.Context) {
	bundle, err := h.service.GetSuggestions(c.Request.Context(), c.Param("retailer_id"))
	if err != nil {
		respondError(c, err, "failed to build suggestions")
		return
	}

	c.JSON(http.StatusOK, bundle)
}

// InvalidateSuggestions drops the cached basket of a retailer
func (h *BasketHandler) InvalidateSuggestions(c *gin.Context) {
	if err := h.service.InvalidateSuggestions(c.Request.Context(), c.Param("retailer_id")); err != nil {
		respondError(c, err, "failed to invalidate suggestions")
		return
	}

	c.Status(http.StatusNoContent)
}

// FlushSuggestions drops every cached basket
func (h *BasketHandler) FlushSuggestions(c *gin.Context) {
	if err := h.service.InvalidateAllSuggestions(c.Request.Context()); err != nil {
		respondError(c, err, "failed to flush suggestions")
		return
	}

	c.Status(http.StatusNoContent)
}
