package http

import "github.com/gin-gonic/gin"

// Register mounts the sapling routes on rg.
func Register(rg *gin.RouterGroup, h *Handler) {
	rg.POST("/credits", h.submitCredits)
	rg.GET("/submissions", h.listSubmissions)
	rg.GET("/leaderboard", h.leaderboard)
}
