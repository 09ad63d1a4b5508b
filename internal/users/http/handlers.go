package http

import (
	"errors"
	"net/http"

	"github.com/NEhIL06/Ecosap/internal/auth"
	"github.com/NEhIL06/Ecosap/internal/users"
	"github.com/gin-gonic/gin"
)

// Handler serves the user profile endpoints.
type Handler struct {
	repo *users.Repo
}

func NewHandler(repo *users.Repo) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) me(c *gin.Context) {
	userID := auth.UserDBID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	u, err := h.repo.Get(c.Request.Context(), userID)
	if errors.Is(err, users.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u})
}

type updateReq struct {
	Username *string `json:"username"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

func (h *Handler) update(c *gin.Context) {
	userID := auth.UserDBID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	u, err := h.repo.UpdateProfile(c.Request.Context(), userID, users.ProfileUpdate{
		Username: req.Username,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if errors.Is(err, users.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *Handler) delete(c *gin.Context) {
	userID := auth.UserDBID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	err := h.repo.Delete(c.Request.Context(), userID)
	if errors.Is(err, users.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// Register mounts the user routes on rg.
func Register(rg *gin.RouterGroup, h *Handler) {
	rg.GET("/me", h.me)
	rg.POST("/update", h.update)
	rg.POST("/delete", h.delete)
}
