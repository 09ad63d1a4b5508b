package http

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/NEhIL06/Ecosap/internal/auth"
	"github.com/NEhIL06/Ecosap/internal/credits"
	"github.com/NEhIL06/Ecosap/internal/detector"
	"github.com/NEhIL06/Ecosap/internal/submissions/domain"
	"github.com/NEhIL06/Ecosap/internal/submissions/service"
	"github.com/NEhIL06/Ecosap/internal/users"
	"github.com/gin-gonic/gin"
)

// Handler serves the sapling submission endpoints.
type Handler struct {
	svc *service.SubmissionService
}

func NewHandler(svc *service.SubmissionService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) submitCredits(c *gin.Context) {
	userID := auth.UserDBID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if req.Image == "" || req.GSD == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Image and GSD information are required",
		})
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must be valid base64"})
		return
	}

	res, err := h.svc.Submit(c.Request.Context(), &domain.SubmitRequest{
		UserID:   userID,
		Image:    image,
		Filename: req.Filename,
		GSD:      *req.GSD,
		Factors:  req.Factors.toFactors(),
	})
	if err != nil {
		h.writeSubmitError(c, err)
		return
	}

	c.JSON(http.StatusOK, submitResponse{
		Success:      true,
		Area:         res.Area,
		CreditsAdded: res.CreditsAdded,
		TotalCredits: res.TotalCredits,
		Message:      fmt.Sprintf("Successfully added %d credits based on area %g", res.CreditsAdded, res.Area),
	})
}

func (h *Handler) writeSubmitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, detector.ErrInvalidMeasurement):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid area calculation received"})
	case errors.Is(err, detector.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Area calculation service is unavailable"})
	case errors.Is(err, detector.ErrService):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to calculate area",
			"details": err.Error(),
		})
	case errors.Is(err, users.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"details": err.Error(),
		})
	}
}

func (h *Handler) listSubmissions(c *gin.Context) {
	userID := auth.UserDBID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	subs, err := h.svc.RecentSubmissions(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if subs == nil {
		subs = []domain.Submission{}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "submissions": subs})
}

func (h *Handler) leaderboard(c *gin.Context) {
	n := 10
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			n = v
		}
	}

	entries, err := h.svc.Leaderboard(c.Request.Context(), n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "leaderboard": entries})
}

func (p *factorsPayload) toFactors() *credits.Factors {
	if p == nil {
		return nil
	}
	return &credits.Factors{
		VegetationDensity:  p.VegetationDensity,
		PreviousArea:       p.PreviousArea,
		TreeSpecies:        p.TreeSpecies,
		LocationMultiplier: p.LocationMultiplier,
	}
}
