package routes

import (
	"github.com/gin-gonic/gin"

	"supply_chain/internal/controllers"
	"supply_chain/internal/middleware"
	"supply_chain/internal/models"
)

func ManagerRoutes(r *gin.Engine, d Dependencies) {
	managers := controllers.NewManagerController(d.Managers, d.Orders, d.Hasher, d.ManagerAuth, d.CSRF)
	login := controllers.NewAuthController(d.ManagerAuth, "security/manager_login", "/manager/")

	manager := r.Group("/manager")
	{
		manager.GET("/register", managers.ShowRegister)
		manager.POST("/register", managers.Register)
		manager.GET("/login", login.ShowLogin)
		manager.POST("/login", login.Login)
		manager.GET("/logout", login.Logout)
	}

	secured := manager.Group("", middleware.RequireRole(d.Sessions, models.RoleManager))
	load := controllers.Load(d.Managers)
	{
		secured.GET("/", managers.Index)
		secured.GET("/dashboard", managers.Dashboard)
		if d.Feed != nil {
			secured.GET("/dashboard/feed", d.Feed.Subscribe)
		}
		secured.GET("/new", managers.ShowNew)
		secured.POST("/new", managers.New)
		secured.GET("/:id", load, managers.Show)
		secured.GET("/:id/edit", load, managers.ShowEdit)
		secured.POST("/:id/edit", load, managers.Edit)
		secured.DELETE("/:id", load, managers.Delete)
	}
}
