package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"supply_chain/internal/auth"
	"supply_chain/internal/forms"
	"supply_chain/internal/repository"
)

const loadedKey = "entity"

// render writes a view as a JSON document: the view name plus its variables.
func render(c *gin.Context, status int, view string, vars gin.H) {
	out := gin.H{"view": view}
	for k, v := range vars {
		out[k] = v
	}
	c.JSON(status, out)
}

// renderForm re-displays a form with its field errors.
func renderForm(c *gin.Context, status int, view string, form map[string]any, errs forms.Errors, extra gin.H) {
	if errs == nil {
		errs = forms.Errors{}
	}
	vars := gin.H{"form": form, "errors": errs}
	for k, v := range extra {
		vars[k] = v
	}
	render(c, status, view, vars)
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

func serverError(c *gin.Context, err error, msg string) {
	logrus.WithError(err).WithField("path", c.FullPath()).Error(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// Load fetches the record named by the :id parameter before the handler runs.
// Unknown ids end the request with 404.
func Load[T any](repo repository.Repository[T], preloads ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		entity, err := repo.Find(c.Request.Context(), uint(id), preloads...)
		if errors.Is(err, repository.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		if err != nil {
			serverError(c, err, "load record")
			c.Abort()
			return
		}
		c.Set(loadedKey, entity)
		c.Next()
	}
}

func loaded[T any](c *gin.Context) *T {
	return c.MustGet(loadedKey).(*T)
}

func sessionID(c *gin.Context) string {
	if s, ok := auth.SessionFrom(c.Request.Context()); ok {
		return s.ID
	}
	return ""
}

// deleteGuard checks the "_token" field of delete requests against the
// session's "delete<id>" token.
type deleteGuard struct {
	csrf *auth.CSRF
}

func (g deleteGuard) token(c *gin.Context, id uint) string {
	return g.csrf.Token(sessionID(c), deleteIntention(id))
}

func (g deleteGuard) valid(c *gin.Context, id uint) bool {
	token := c.PostForm("_token")
	if token == "" {
		token = c.Query("_token")
	}
	return g.csrf.Valid(sessionID(c), deleteIntention(id), token)
}

func deleteIntention(id uint) string {
	return "delete" + strconv.FormatUint(uint64(id), 10)
}
