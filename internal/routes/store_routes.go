package routes

import (
	"github.com/gin-gonic/gin"

	"supply_chain/internal/controllers"
	"supply_chain/internal/middleware"
	"supply_chain/internal/models"
)

func StoreRoutes(r *gin.Engine, d Dependencies) {
	stores := controllers.NewStoreController(d.Stores, d.CSRF)

	store := r.Group("/stores", middleware.RequireRole(d.Sessions, models.RoleManager))
	load := controllers.Load(d.Stores, "Routes", "Trucks", "Drivers", "DriverAssistants")
	{
		store.GET("/", stores.Index)
		store.GET("/new", stores.ShowNew)
		store.POST("/new", stores.New)
		store.GET("/:id", load, stores.Show)
		store.GET("/:id/edit", load, stores.ShowEdit)
		store.POST("/:id/edit", load, stores.Edit)
		store.DELETE("/:id", load, stores.Delete)
	}
}
