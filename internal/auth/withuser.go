package auth

import (
	"net/http"
	"strings"

	"github.com/NEhIL06/Ecosap/internal/users"
	"github.com/gin-gonic/gin"
)

// WithUser trusts the X-User-Id header as an already-verified identity.
// Meant for deployments behind a gateway that performs the credential
// check; requests without the header are rejected.
func WithUser(userRepo *users.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		euid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if euid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			c.Abort()
			return
		}

		uid, err := userRepo.EnsureUser(c.Request.Context(), users.UpsertUser{
			ExternalUID: euid,
			Email:       c.GetHeader("X-User-Email"),
			Username:    c.GetHeader("X-User-Name"),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ensure user: " + err.Error()})
			c.Abort()
			return
		}

		c.Set(CtxExternalUID, euid)
		c.Set(CtxUserDBID, uid)
		c.Next()
	}
}
