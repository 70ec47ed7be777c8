package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khamphay/laolotto-bot/internal/models"
	"github.com/khamphay/laolotto-bot/internal/services"
)

// timeNow is indirected for handler tests
var timeNow = time.Now

// WagerHandler handles wager reporting and reset HTTP requests for the
// operator dashboard
type WagerHandler struct {
	wagerService services.WagerService
	clock        *services.RoundClock
}

// NewWagerHandler creates a new WagerHandler
func NewWagerHandler(wagerService services.WagerService, clock *services.RoundClock) *WagerHandler {
	return &WagerHandler{
		wagerService: wagerService,
		clock:        clock,
	}
}

// GetCurrentRound handles GET /rounds/current
func (h *WagerHandler) GetCurrentRound(c *gin.Context) {
	now := timeNow()
	drawDate := h.clock.CurrentDrawDate(now)
	c.JSON(http.StatusOK, gin.H{
		"roundId":    drawDate.Format(services.RoundIDLayout),
		"cutoff":     h.clock.CutoffAt(drawDate),
		"announceAt": h.clock.AnnounceAt(drawDate),
		"open":       h.clock.IsOpen(now),
	})
}

// GetRoundStats handles GET /rounds/:roundId/stats
func (h *WagerHandler) GetRoundStats(c *gin.Context) {
	roundID := c.Param("roundId")

	entries, err := h.wagerService.CountForRound(c.Request.Context(), roundID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count wagers"})
		return
	}
	players, err := h.wagerService.DistinctUsersForRound(c.Request.Context(), roundID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count players"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roundId": roundID,
		"wagers":  entries,
		"players": players,
	})
}

// GetWinners handles GET /rounds/:roundId/winners?number=56&position=TOP
func (h *WagerHandler) GetWinners(c *gin.Context) {
	roundID := c.Param("roundId")
	number := c.Query("number")
	if number == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "number query parameter is required"})
		return
	}

	position := models.PositionNone
	switch c.Query("position") {
	case "", "NONE":
	case "TOP":
		position = models.PositionTop
	case "BOTTOM":
		position = models.PositionBottom
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "position must be TOP, BOTTOM or NONE"})
		return
	}

	winners, err := h.wagerService.FindWinners(c.Request.Context(), roundID, number, position)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to find winners"})
		return
	}

	c.JSON(http.StatusOK, winners)
}

// ClearRound handles DELETE /rounds/:roundId/wagers
func (h *WagerHandler) ClearRound(c *gin.Context) {
	roundID := c.Param("roundId")

	deleted, err := h.wagerService.ClearRound(c.Request.Context(), roundID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear round wagers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// ClearAll handles DELETE /wagers
func (h *WagerHandler) ClearAll(c *gin.Context) {
	deleted, err := h.wagerService.ClearAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear wagers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
