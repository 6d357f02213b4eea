package v1

import "github.com/gin-gonic/gin"

// ResourceRouteHandler defines the CRUD handlers of a resource.
type ResourceRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterResourceRoutes registers the standard CRUD routes for a resource.
//
// Usage:
//
//	handler := handlers.NewHardwareHandler(reader, writer, "/api/v1/hardware")
//	RegisterResourceRoutes(api.Group("/hardware"), handler)
func RegisterResourceRoutes(group *gin.RouterGroup, handler ResourceRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
}
