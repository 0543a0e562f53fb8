package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"aegis/internal/logging"
)

// RequestLogger writes one access line per request to logger. With verbose
// false, successful static asset and websocket requests are skipped.
func RequestLogger(logger *logging.Logger, verbose bool) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Output: logger.Writer(),
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC1123),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		Skip: func(c *gin.Context) bool {
			if verbose {
				return false
			}
			if c.Writer.Status() >= 400 {
				return false
			}
			path := c.Request.URL.Path
			return path == "/ws" || path == "/healthz" || (len(path) > 7 && path[:8] == "/assets/")
		},
	})
}
