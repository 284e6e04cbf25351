package endpoint

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/eurekakit/discovery"
	apperrors "github.com/kbukum/eurekakit/errors"
	"github.com/kbukum/eurekakit/eureka"
)

// Registry is the part of the registry client the status endpoints use.
type Registry interface {
	Stats() eureka.Stats
	Config() eureka.Config
	CachedServices() []string
	FetchInstances(ctx context.Context, serviceName string) ([]discovery.Instance, error)
	Refresh(ctx context.Context, serviceName string) ([]discovery.Instance, error)
}

var _ Registry = (*eureka.Client)(nil)

// RegisterRegistryRoutes mounts the registry status endpoints on r:
//
//	GET  /eureka/status              registration state and heartbeat counters
//	GET  /eureka/apps/:app           instances of app (cache, registry or fallback)
//	POST /eureka/apps/:app/refresh   re-fetch app, replacing the cached entry
func RegisterRegistryRoutes(r gin.IRouter, reg Registry) {
	g := r.Group("/eureka")
	g.GET("/status", RegistryStatus(reg))
	g.GET("/apps/:app", Instances(reg.FetchInstances))
	g.POST("/apps/:app/refresh", Instances(reg.Refresh))
}

// RegistryStatus reports the client's identity, state and counters.
func RegistryStatus(reg Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := reg.Config()
		c.JSON(http.StatusOK, gin.H{
			"app":             cfg.Instance.AppName,
			"instance_id":     cfg.Instance.InstanceID,
			"registry":        cfg.DefaultURL,
			"stats":           reg.Stats(),
			"cached_services": reg.CachedServices(),
		})
	}
}

type lookupFunc func(ctx context.Context, serviceName string) ([]discovery.Instance, error)

// Instances resolves the :app path parameter with lookup.
func Instances(lookup lookupFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		app := strings.ToUpper(c.Param("app"))
		instances, err := lookup(c.Request.Context(), app)
		if err != nil {
			appErr := apperrors.From(err)
			c.JSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": instances})
	}
}
