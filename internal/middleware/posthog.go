package middleware

import (
	"net/http"
	"strings"

	"github.com/afrimoni/remit_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should never be tracked
var pathsToSkip = map[string]bool{
	"/health": true,
}

// PosthogMiddleware tracks successful authenticated API calls as PostHog
// events. It runs after the handler chain so the auth middleware has already
// resolved the user, and only successful requests are captured.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		// Event name from the route template, e.g. "/api/v1/transfers/claim"
		// becomes "api_v1_transfers_claim"
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, "/", "_")
		if eventName == "" {
			// Unmatched route (404), nothing meaningful to report
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string)
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		posthogClient.Enqueue(userID, eventName, props)
	}
}
