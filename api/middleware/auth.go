package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DanielFlorido/ledgerload/config"
)

const KeyHeader = "X-Ledgerload-Key"

// SecretKeyAuthMiddleware rejects requests that do not carry the
// configured secret key. Enabled only when server.secure is set.
func SecretKeyAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		conf, err := config.Fetch()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "configuration not loaded"})
			return
		}

		key := c.GetHeader(KeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(conf.Server.SecretKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing api key"})
			return
		}

		c.Next()
	}
}
