package routes

import (
	"github.com/gin-gonic/gin"

	"supply_chain/internal/controllers"
	"supply_chain/internal/middleware"
	"supply_chain/internal/models"
)

func OrderRoutes(r *gin.Engine, d Dependencies) {
	orders := controllers.NewOrderController(d.Orders, d.Feed)
	load := controllers.Load(d.Orders)

	order := r.Group("/orders")
	{
		order.GET("/", middleware.RequireRole(d.Sessions, models.RoleManager), orders.Index)
		order.GET("/:id", middleware.RequireRole(d.Sessions, models.RoleManager, models.RoleDriver), load, orders.Show)
		order.POST("/:id/status", middleware.RequireRole(d.Sessions, models.RoleManager, models.RoleDriver), load, orders.UpdateStatus)
	}
}
