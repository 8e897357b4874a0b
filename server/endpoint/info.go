package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/startup-analyzer/version"
)

// startTime records when the process started for uptime calculation.
var startTime = time.Now()

// Info returns a handler that reports the service name, build information
// and uptime. Extra entries (model, dialect) are merged into the response.
func Info(serviceName string, extra map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.Get()
		body := gin.H{
			"service":    serviceName,
			"version":    v.Version,
			"git_commit": v.GitCommit,
			"build_time": v.BuildTime,
			"go_version": v.GoVersion,
			"is_release": v.IsRelease,
			"uptime":     time.Since(startTime).Round(time.Second).String(),
		}
		for k, val := range extra {
			if _, reserved := body[k]; !reserved {
				body[k] = val
			}
		}
		c.JSON(http.StatusOK, body)
	}
}
