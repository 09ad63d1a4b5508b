package auth

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/NEhIL06/Ecosap/internal/users"
	"github.com/gin-gonic/gin"
)

// FirebaseAuth validates Firebase ID tokens, resolves the identity to
// a database user via EnsureUser, and attaches both ids to the request.
func FirebaseAuth(authClient *auth.Client, userRepo *users.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			c.Abort()
			return
		}

		decoded, err := authClient.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		email, _ := decoded.Claims["email"].(string)

		uid, err := userRepo.EnsureUser(c.Request.Context(), users.UpsertUser{
			ExternalUID: decoded.UID,
			Email:       email,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ensure user: " + err.Error()})
			c.Abort()
			return
		}

		c.Set(CtxExternalUID, decoded.UID)
		c.Set(CtxUserDBID, uid)
		c.Next()
	}
}

// extractBearer extracts the Bearer token from the Authorization header.
func extractBearer(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
