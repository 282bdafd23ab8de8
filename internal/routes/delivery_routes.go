package routes

import (
	"github.com/gin-gonic/gin"

	"supply_chain/internal/controllers"
	"supply_chain/internal/middleware"
	"supply_chain/internal/models"
)

// DeliveryRoutes registers the /routes pages for delivery routes.
func DeliveryRoutes(r *gin.Engine, d Dependencies) {
	routes := controllers.NewRouteController(d.Routes, d.Stores)

	route := r.Group("/routes", middleware.RequireRole(d.Sessions, models.RoleManager))
	{
		route.GET("/", routes.Index)
		route.GET("/new", routes.ShowNew)
		route.POST("/new", routes.New)
		route.GET("/:id", controllers.Load(d.Routes), routes.Show)
	}
}
