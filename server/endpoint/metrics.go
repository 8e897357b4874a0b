package endpoint

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
)

// SessionCounter reports the number of live sessions.
type SessionCounter func() int

// Metrics returns a handler that reports goroutine, memory and session counts.
func Metrics(sessions SessionCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		body := gin.H{
			"goroutines": runtime.NumGoroutine(),
			"memory": gin.H{
				"alloc_mb": m.Alloc / 1024 / 1024,
				"sys_mb":   m.Sys / 1024 / 1024,
				"gc_runs":  m.NumGC,
			},
		}
		if sessions != nil {
			body["sessions"] = sessions()
		}
		c.JSON(http.StatusOK, body)
	}
}
