package http

import (
	"github.com/gin-gonic/gin"

	"github.com/storeforge/appcore/internal/middleware"
)

// RouteGroup defines a group of routes that can be registered.
type RouteGroup interface {
	// RegisterRoutes registers routes to the given router group.
	RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// AppRoutes handles registration of the app configuration routes.
type AppRoutes struct {
	handler *Handler
}

// NewAppRoutes creates a new AppRoutes instance.
func NewAppRoutes(handler *Handler) *AppRoutes {
	return &AppRoutes{handler: handler}
}

// RegisterRoutes registers the app configuration routes. Administrative
// routes are guarded by the admin key middleware when a hash is configured.
func (r *AppRoutes) RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	rg.POST("/initialize", r.handler.Initialize)
	rg.POST("/app-request", r.handler.InjectAppRequest)
	rg.GET("/app-requests", r.handler.ListAppRequests)
	rg.GET("/features", r.handler.GetFeatures)
	rg.GET("/config/summary", r.handler.GetConfigSummary)
	rg.GET("/permissions", r.handler.GetPermissions)
	rg.POST("/notifications", r.handler.SendNotification)
	rg.POST("/notifications/schedule", r.handler.ScheduleNotification)
	rg.POST("/analytics/events", r.handler.TrackEvent)

	rg.POST("/reset", middleware.AdminKeyAuth(cfg.AdminKeyHash), r.handler.Reset)
}
