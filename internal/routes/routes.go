package routes

import (
	"io"
	"net/http"

	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"supply_chain/internal/auth"
	"supply_chain/internal/controllers"
	"supply_chain/internal/middleware"
	"supply_chain/internal/models"
	"supply_chain/internal/repository"
)

// Dependencies is everything the router hands to its controllers.
type Dependencies struct {
	Managers repository.Repository[models.Manager]
	Drivers  repository.Repository[models.Driver]
	Stores   repository.Repository[models.Store]
	Routes   repository.Repository[models.Route]
	Orders   repository.Repository[models.Orders]

	ManagerAuth *auth.Service
	DriverAuth  *auth.Service
	Sessions    *auth.SessionManager
	CSRF        *auth.CSRF
	Hasher      *auth.PasswordHasher

	Feed *controllers.OrderHub

	// Optional.
	Metrics   *middleware.Metrics
	AccessLog io.Writer
}

var logoutTargets = map[string]string{
	"/manager/logout": "/manager/login",
	"/driver/logout":  "/driver/login",
}

func SetupRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if d.AccessLog != nil {
		r.Use(ginlogger.SetLogger(
			ginlogger.WithWriter(d.AccessLog),
			ginlogger.WithUTC(true),
			ginlogger.WithSkipPath([]string{"/healthz", "/metrics"}),
		))
	}
	if d.Metrics != nil {
		r.Use(d.Metrics.Handler())
		r.GET("/metrics", gin.WrapH(d.Metrics.Exposer()))
	}
	r.Use(middleware.InterceptLogout(d.Sessions, logoutTargets))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	ManagerRoutes(r, d)
	DriverRoutes(r, d)
	StoreRoutes(r, d)
	DeliveryRoutes(r, d)
	OrderRoutes(r, d)

	return r
}

// NewHandler is the router wrapped with the HTTP-level middleware.
func NewHandler(d Dependencies, allowedOrigins []string) http.Handler {
	return middleware.EnableCORS(allowedOrigins, middleware.MethodOverride(SetupRouter(d)))
}
