package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxExternalUID = "external_uid"
	CtxUserDBID    = "user_db_id"
)

// UserDBID returns the resolved database user id for the request, or
// "" when no identity was attached.
func UserDBID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserDBID))
}

// ExternalUID returns the upstream identity (Firebase UID or trusted
// header value) for the request.
func ExternalUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxExternalUID))
}
