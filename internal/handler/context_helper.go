package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/stellar-edu/stellar-admin-api/internal/middleware"
	"github.com/stellar-edu/stellar-admin-api/internal/models"
	"github.com/stellar-edu/stellar-admin-api/internal/service"
)

// currentUser extracts the validated claims set by the auth middleware.
func currentUser(c *gin.Context) (*models.JWTClaims, bool) {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}

// fetchMeta maps a service FetchMeta onto envelope metadata. Nil means
// the envelope carries no meta block.
func fetchMeta(meta service.FetchMeta) map[string]interface{} {
	if !meta.CacheHit && !meta.Sample {
		return nil
	}
	out := map[string]interface{}{}
	if meta.CacheHit {
		out["cacheHit"] = true
	}
	if meta.Sample {
		out["sample"] = true
	}
	return out
}
