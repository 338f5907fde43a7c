package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/statssync/stats-sync/internal/models"
	"github.com/statssync/stats-sync/internal/service"
)

// handler holds the HTTP endpoint implementations
type handler struct {
	svc    *service.ParlayService
	logger *logrus.Logger
}

func newHandler(svc *service.ParlayService, logger *logrus.Logger) *handler {
	return &handler{svc: svc, logger: logger}
}

// Health reports liveness
func (h *handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "stats-sync",
		"timestamp": time.Now().UTC(),
	})
}

// GetParlays returns cached parlays for a sport, optionally filtered to one
// tier and optionally force-refreshed.
func (h *handler) GetParlays(c *gin.Context) {
	sport, err := models.ParseSportType(c.Query("sport"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	forceRefresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))

	tiers := models.AllTiers()
	if tierParam := c.Query("tier"); tierParam != "" {
		tier, err := models.ParseTierType(tierParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tiers = []models.TierType{tier}
	}

	all := make([]models.Parlay, 0)
	for _, tier := range tiers {
		parlays, err := h.svc.GetParlays(c.Request.Context(), sport, tier, forceRefresh)
		if err != nil {
			h.logger.WithError(err).Error("Failed to get parlays")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate parlays"})
			return
		}
		all = append(all, parlays...)
		// A forced refresh regenerates every tier; one pass is enough.
		forceRefresh = false
	}

	c.JSON(http.StatusOK, gin.H{
		"sport":   sport,
		"count":   len(all),
		"parlays": all,
	})
}

// RefreshParlays regenerates parlays for one sport, or all sports when no
// sport is given.
func (h *handler) RefreshParlays(c *gin.Context) {
	ctx := c.Request.Context()

	if sportParam := c.Query("sport"); sportParam != "" {
		sport, err := models.ParseSportType(sportParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := h.svc.Refresh(ctx, sport); err != nil {
			h.logger.WithError(err).Error("Refresh failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "refreshed", "sport": sport})
		return
	}

	if err := h.svc.RefreshAll(ctx); err != nil {
		h.logger.WithError(err).Error("Refresh failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed", "sports": models.AllSports()})
}

// customParlayRequest is the POST /parlays/custom body
type customParlayRequest struct {
	Sport      string  `json:"sport" binding:"required"`
	TargetOdds int     `json:"target_odds" binding:"required"`
	MaxLegs    int     `json:"max_legs"`
	MinHitRate float64 `json:"min_hit_rate"`
}

// CustomParlay builds a parlay targeting user-supplied odds
func (h *handler) CustomParlay(c *gin.Context) {
	var req customParlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sport, err := models.ParseSportType(req.Sport)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.BuildCustomParlay(c.Request.Context(), service.CustomParlayRequest{
		Sport:      sport,
		TargetOdds: req.TargetOdds,
		MaxLegs:    req.MaxLegs,
		MinHitRate: req.MinHitRate,
	})
	if err != nil {
		if errors.Is(err, service.ErrNoCombination) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no combination meets the target odds"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProps returns the raw prop slate from all providers
func (h *handler) GetProps(c *gin.Context) {
	sport, err := models.ParseSportType(c.Param("sport"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := c.Query("date")
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
	}

	props := h.svc.FetchProps(c.Request.Context(), sport, date)
	c.JSON(http.StatusOK, gin.H{
		"sport": sport,
		"count": len(props),
		"props": props,
	})
}

// GetStats returns generation counters and cached-slate summaries
func (h *handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Stats(c.Request.Context()))
}
