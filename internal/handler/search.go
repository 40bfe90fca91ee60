package handler

import (
	"net/http"

	"localevents/internal/model"
	"localevents/internal/service"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	orchestrator *service.SearchOrchestrator
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(orchestrator *service.SearchOrchestrator) *SearchHandler {
	return &SearchHandler{
		orchestrator: orchestrator,
	}
}

// Search handles POST /api/v1/search. The search operation never fails; even
// internal errors come back as a well-formed degraded result.
func (h *SearchHandler) Search(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result := h.orchestrator.Search(c.Request.Context(), req.Query, req.UserID)
	c.JSON(http.StatusOK, result)
}

// Taxonomy handles GET /api/v1/taxonomy, exposing the closed vocabularies for
// UI pickers.
func (h *SearchHandler) Taxonomy(c *gin.Context) {
	c.JSON(http.StatusOK, model.TaxonomyResponse{
		Categories:   model.EventCategories,
		ListingTypes: model.ListingTypes,
		DateRanges: []string{
			string(model.DateRangeToday),
			string(model.DateRangeTomorrow),
			string(model.DateRangeThisWeek),
			string(model.DateRangeThisWeekend),
			string(model.DateRangeNextWeek),
		},
	})
}
