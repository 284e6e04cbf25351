package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/eurekakit/component"
	"github.com/kbukum/eurekakit/version"
)

// startTime records when the process started for uptime calculation.
var startTime = time.Now()

// Describer lists the running components.
type Describer func() []component.Description

// Info returns a handler that reports version, build and component
// information.
func Info(serviceName string, describer Describer) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.Get()
		body := gin.H{
			"service":    serviceName,
			"version":    v.Version,
			"git_commit": v.GitCommit,
			"build_time": v.BuildTime,
			"go_version": v.GoVersion,
			"is_release": v.IsRelease(),
			"uptime":     time.Since(startTime).String(),
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		}
		if describer != nil {
			body["components"] = describer()
		}
		c.JSON(http.StatusOK, body)
	}
}
