package routes

import (
	"github.com/gin-gonic/gin"

	"supply_chain/internal/controllers"
	"supply_chain/internal/middleware"
	"supply_chain/internal/models"
)

// DriverRoutes registers driver administration under /drivers and the
// drivers' own pages under /driver.
func DriverRoutes(r *gin.Engine, d Dependencies) {
	drivers := controllers.NewDriverController(d.Drivers, d.Stores, d.Hasher, d.CSRF)
	login := controllers.NewAuthController(d.DriverAuth, "security/driver_login", "/driver/me")

	admin := r.Group("/drivers", middleware.RequireRole(d.Sessions, models.RoleManager))
	load := controllers.Load(d.Drivers, "Store", "TruckSchedules")
	{
		admin.GET("/", drivers.Index)
		admin.GET("/new", drivers.ShowNew)
		admin.POST("/new", drivers.New)
		admin.GET("/:id", load, drivers.Show)
		admin.GET("/:id/edit", load, drivers.ShowEdit)
		admin.POST("/:id/edit", load, drivers.Edit)
		admin.DELETE("/:id", load, drivers.Delete)
	}

	self := r.Group("/driver")
	{
		self.GET("/login", login.ShowLogin)
		self.POST("/login", login.Login)
		self.GET("/logout", login.Logout)
		self.GET("/me", middleware.RequireRole(d.Sessions, models.RoleDriver), drivers.Me)
	}
}
