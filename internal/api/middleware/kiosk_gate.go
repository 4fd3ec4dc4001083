package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/teerapatch/beankiosk/backend-go/internal/kvstore"
)

const (
	kioskIDHeader      = "X-Kiosk-ID"
	blockedKioskPrefix = "kiosk:blocked:"
)

// KioskGate rejects requests from kiosks an operator has flagged in the
// shared store. Requests without a kiosk header pass through; dashboards
// are not kiosks.
func KioskGate(store kvstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		kioskID := strings.TrimSpace(c.GetHeader(kioskIDHeader))
		if kioskID == "" {
			c.Next()
			return
		}

		reason, blocked, err := store.Get(c.Request.Context(), blockedKioskPrefix+kioskID)
		if err != nil {
			// The gate fails open; losing the store must not take ordering down.
			log.Warn().Err(err).Str("kiosk_id", kioskID).Msg("kiosk block lookup failed")
			c.Next()
			return
		}

		if blocked {
			log.Info().Str("kiosk_id", kioskID).Str("reason", reason).Msg("blocked kiosk rejected")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "kiosk is blocked"})
			return
		}

		c.Next()
	}
}
