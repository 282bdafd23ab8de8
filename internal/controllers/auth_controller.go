package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"supply_chain/internal/auth"
	"supply_chain/internal/forms"
)

const badCredentials = "Invalid credentials."

// AuthController serves one login page: managers and drivers each get their own.
type AuthController struct {
	service   *auth.Service
	view      string
	onSuccess string
}

func NewAuthController(service *auth.Service, view, onSuccess string) *AuthController {
	return &AuthController{service: service, view: view, onSuccess: onSuccess}
}

func (a *AuthController) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, a.view, gin.H{"last_username": "", "error": nil})
}

func (a *AuthController) Login(c *gin.Context) {
	var f forms.LoginForm
	if err := c.ShouldBind(&f); err != nil {
		render(c, http.StatusBadRequest, a.view, gin.H{"last_username": f.Username, "error": badCredentials})
		return
	}

	user, err := a.service.Authenticate(c.Request.Context(), f.Username, f.Password)
	if errors.Is(err, auth.ErrBadCredentials) {
		logrus.WithFields(logrus.Fields{"kind": a.service.Kind(), "username": f.Username}).Info("login failed")
		render(c, http.StatusUnauthorized, a.view, gin.H{"last_username": f.Username, "error": badCredentials})
		return
	}
	if err != nil {
		serverError(c, err, "login")
		return
	}

	if _, err := a.service.Login(c.Writer, user); err != nil {
		serverError(c, err, "issue session")
		return
	}
	redirect(c, a.onSuccess)
}

// Logout is never reached: the logout interceptor answers first.
func (a *AuthController) Logout(c *gin.Context) {
	panic("logout for " + a.service.Kind() + " must be handled by the logout interceptor")
}
