package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khamphay/laolotto-bot/internal/services"
)

// ResultHandler handles draw result HTTP requests for the operator dashboard
type ResultHandler struct {
	resultService services.ResultService
	clock         *services.RoundClock
}

// NewResultHandler creates a new ResultHandler
func NewResultHandler(resultService services.ResultService, clock *services.RoundClock) *ResultHandler {
	return &ResultHandler{
		resultService: resultService,
		clock:         clock,
	}
}

// PublishDraftRequest is the body for POST /results
type PublishDraftRequest struct {
	RoundID string `json:"roundId"`
	Digits4 string `json:"digits4" binding:"required"`
}

// PublishDraft handles POST /results. An omitted roundId targets the
// currently open round.
func (h *ResultHandler) PublishDraft(c *gin.Context) {
	var req PublishDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roundID := req.RoundID
	if roundID == "" {
		roundID = h.clock.CurrentRoundID(timeNow())
	}

	result, err := h.resultService.PublishDraft(c.Request.Context(), roundID, req.Digits4)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidNumber):
			c.JSON(http.StatusBadRequest, gin.H{"error": "digits4 must be exactly 4 digits"})
		case errors.Is(err, services.ErrDuplicateResult):
			c.JSON(http.StatusConflict, gin.H{"error": "a result already exists for this round"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record result"})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Announce handles POST /results/:roundId/announce
func (h *ResultHandler) Announce(c *gin.Context) {
	roundID := c.Param("roundId")

	result, err := h.resultService.Announce(c.Request.Context(), roundID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrResultNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "no result recorded for this round"})
		case errors.Is(err, services.ErrAlreadyAnnounced):
			c.JSON(http.StatusConflict, gin.H{"error": "result has already been announced"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to announce result"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetLatest handles GET /results/latest
func (h *ResultHandler) GetLatest(c *gin.Context) {
	result, err := h.resultService.LatestPublished(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrResultNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no result published yet"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch latest result"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetByRound handles GET /results/:roundId
func (h *ResultHandler) GetByRound(c *gin.Context) {
	roundID := c.Param("roundId")

	result, err := h.resultService.ResultForRound(c.Request.Context(), roundID)
	if err != nil {
		if errors.Is(err, services.ErrResultNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no result recorded for this round"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch result"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteAll handles DELETE /results
func (h *ResultHandler) DeleteAll(c *gin.Context) {
	deleted, err := h.resultService.DeleteAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete results"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
