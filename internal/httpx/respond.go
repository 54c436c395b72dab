package httpx

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/mercadero/storefront/internal/apperr"
)

// HTTPError is the standard JSON error body.
// swagger:model
type HTTPError struct {
	// Error message
	// example: order not found
	Error string `json:"error"`
}

// Error writes err using the apperr taxonomy. Dependency and unclassified
// errors are logged with request context, and their detail is suppressed
// in the response unless dev is true.
func Error(c *gin.Context, err error, dev bool) {
	status := apperr.HTTPStatus(err)
	if status >= 500 {
		rid, _ := c.Get("rid")
		slog.Error("request failed",
			"rid", rid,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
	}
	c.JSON(status, HTTPError{Error: apperr.Message(err, dev)})
}
