package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"supply_chain/internal/auth"
	"supply_chain/internal/forms"
	"supply_chain/internal/models"
	"supply_chain/internal/repository"
)

const storeInUse = "Store still has drivers, routes, trucks or assistants."

type StoreController struct {
	stores repository.Repository[models.Store]
	guard  deleteGuard
}

func NewStoreController(stores repository.Repository[models.Store], csrf *auth.CSRF) *StoreController {
	return &StoreController{stores: stores, guard: deleteGuard{csrf}}
}

func (sc *StoreController) Index(c *gin.Context) {
	stores, err := sc.stores.FindAll(c.Request.Context())
	if err != nil {
		serverError(c, err, "list stores")
		return
	}
	render(c, http.StatusOK, "store/index", gin.H{"stores": stores})
}

func (sc *StoreController) ShowNew(c *gin.Context) {
	renderForm(c, http.StatusOK, "store/new", (&forms.StoreForm{}).View(), nil, nil)
}

func (sc *StoreController) New(c *gin.Context) {
	f := &forms.StoreForm{}
	if ok, errs := forms.Bind(c, f); !ok {
		renderForm(c, http.StatusUnprocessableEntity, "store/new", f.View(), errs, nil)
		return
	}
	s := &models.Store{}
	f.Apply(s)
	if err := sc.stores.Persist(c.Request.Context(), s); err != nil {
		serverError(c, err, "persist store")
		return
	}
	logrus.WithFields(logrus.Fields{"store_id": s.ID, "city": s.City}).Info("store created")
	redirect(c, "/stores/")
}

func (sc *StoreController) Show(c *gin.Context) {
	s := loaded[models.Store](c)
	render(c, http.StatusOK, "store/show", gin.H{"store": s, "delete_token": sc.guard.token(c, s.ID)})
}

func (sc *StoreController) ShowEdit(c *gin.Context) {
	s := loaded[models.Store](c)
	renderForm(c, http.StatusOK, "store/edit", forms.NewStoreForm(s).View(), nil, gin.H{"store": s})
}

func (sc *StoreController) Edit(c *gin.Context) {
	s := loaded[models.Store](c)
	f := forms.NewStoreForm(s)
	if ok, errs := forms.Bind(c, f); !ok {
		renderForm(c, http.StatusUnprocessableEntity, "store/edit", f.View(), errs, gin.H{"store": s})
		return
	}
	f.Apply(s)
	if err := sc.stores.Flush(c.Request.Context(), s); err != nil {
		serverError(c, err, "flush store")
		return
	}
	redirect(c, "/stores/")
}

func (sc *StoreController) Delete(c *gin.Context) {
	s := loaded[models.Store](c)
	if sc.guard.valid(c, s.ID) {
		err := sc.stores.Remove(c.Request.Context(), s)
		if errors.Is(err, repository.ErrInUse) {
			render(c, http.StatusConflict, "store/show", gin.H{
				"store":        s,
				"delete_token": sc.guard.token(c, s.ID),
				"error":        storeInUse,
			})
			return
		}
		if err != nil {
			serverError(c, err, "remove store")
			return
		}
	} else {
		logrus.WithField("store_id", s.ID).Warn("delete skipped: invalid token")
	}
	redirect(c, "/stores/")
}
