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

const unknownStore = "Store does not exist."

type DriverController struct {
	drivers repository.Repository[models.Driver]
	stores  repository.Repository[models.Store]
	hasher  *auth.PasswordHasher
	guard   deleteGuard
}

func NewDriverController(
	drivers repository.Repository[models.Driver],
	stores repository.Repository[models.Store],
	hasher *auth.PasswordHasher,
	csrf *auth.CSRF,
) *DriverController {
	return &DriverController{drivers: drivers, stores: stores, hasher: hasher, guard: deleteGuard{csrf}}
}

func (dc *DriverController) Index(c *gin.Context) {
	drivers, err := dc.drivers.FindAll(c.Request.Context())
	if err != nil {
		serverError(c, err, "list drivers")
		return
	}
	render(c, http.StatusOK, "driver/index", gin.H{"drivers": drivers})
}

func (dc *DriverController) ShowNew(c *gin.Context) {
	renderForm(c, http.StatusOK, "driver/new", (&forms.DriverForm{}).View(), nil, nil)
}

func (dc *DriverController) New(c *gin.Context) {
	f := &forms.DriverForm{}
	ok, errs := forms.Bind(c, f)
	if !ok {
		renderForm(c, http.StatusUnprocessableEntity, "driver/new", f.View(), errs, nil)
		return
	}

	d := &models.Driver{}
	if err := f.Apply(d); err != nil {
		errs.Add("work_hours", err.Error())
	}
	store, err := dc.store(c, f.StoreID)
	if errors.Is(err, repository.ErrNotFound) {
		errs.Add("store_id", unknownStore)
	} else if err != nil {
		serverError(c, err, "load driver store")
		return
	}
	if errs != nil {
		renderForm(c, http.StatusUnprocessableEntity, "driver/new", f.View(), errs, nil)
		return
	}

	hash, err := dc.hasher.Hash(d.PlainPassword)
	if err != nil {
		serverError(c, err, "hash driver password")
		return
	}
	d.Password = hash
	d.Roles = models.Roles{models.RoleDriver}
	d.EraseCredentials()
	store.AddDriver(d)

	if err := dc.drivers.Persist(c.Request.Context(), d); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			errs.Add("email", duplicateEmail)
			renderForm(c, http.StatusUnprocessableEntity, "driver/new", f.View(), errs, nil)
			return
		}
		serverError(c, err, "persist driver")
		return
	}
	logrus.WithFields(logrus.Fields{"driver_id": d.ID, "store_id": d.StoreID}).Info("driver created")
	redirect(c, "/drivers/")
}

func (dc *DriverController) Show(c *gin.Context) {
	d := loaded[models.Driver](c)
	render(c, http.StatusOK, "driver/show", gin.H{
		"driver":       d,
		"store":        d.Store,
		"delete_token": dc.guard.token(c, d.ID),
	})
}

func (dc *DriverController) ShowEdit(c *gin.Context) {
	d := loaded[models.Driver](c)
	renderForm(c, http.StatusOK, "driver/edit", forms.NewDriverEditForm(d).View(), nil, gin.H{"driver": d})
}

// Edit updates a driver, moving it to another store when store_id changes.
func (dc *DriverController) Edit(c *gin.Context) {
	d := loaded[models.Driver](c)
	f := forms.NewDriverEditForm(d)
	ok, errs := forms.Bind(c, f)
	if !ok {
		renderForm(c, http.StatusUnprocessableEntity, "driver/edit", f.View(), errs, gin.H{"driver": d})
		return
	}
	if err := f.Apply(d); err != nil {
		errs.Add("work_hours", err.Error())
	}
	if f.StoreID != d.StoreID {
		store, err := dc.store(c, f.StoreID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			errs.Add("store_id", unknownStore)
		case err != nil:
			serverError(c, err, "load driver store")
			return
		default:
			d.SetStore(store)
		}
	}
	if errs != nil {
		renderForm(c, http.StatusUnprocessableEntity, "driver/edit", f.View(), errs, gin.H{"driver": d})
		return
	}

	if d.PlainPassword != "" {
		hash, err := dc.hasher.Hash(d.PlainPassword)
		if err != nil {
			serverError(c, err, "hash driver password")
			return
		}
		d.Password = hash
		d.EraseCredentials()
	}
	if err := dc.drivers.Flush(c.Request.Context(), d); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			errs.Add("email", duplicateEmail)
			renderForm(c, http.StatusUnprocessableEntity, "driver/edit", f.View(), errs, gin.H{"driver": d})
			return
		}
		serverError(c, err, "flush driver")
		return
	}
	redirect(c, "/drivers/")
}

func (dc *DriverController) Delete(c *gin.Context) {
	d := loaded[models.Driver](c)
	if dc.guard.valid(c, d.ID) {
		err := dc.drivers.Remove(c.Request.Context(), d)
		if errors.Is(err, repository.ErrInUse) {
			render(c, http.StatusConflict, "driver/show", gin.H{
				"driver":       d,
				"store":        d.Store,
				"delete_token": dc.guard.token(c, d.ID),
				"error":        "Driver still has truck schedules.",
			})
			return
		}
		if err != nil {
			serverError(c, err, "remove driver")
			return
		}
	} else {
		logrus.WithField("driver_id", d.ID).Warn("delete skipped: invalid token")
	}
	redirect(c, "/drivers/")
}

// Me shows the logged-in driver its own record and schedule.
func (dc *DriverController) Me(c *gin.Context) {
	s, ok := auth.SessionFrom(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	d, err := dc.drivers.Find(c.Request.Context(), s.UserID, "Store", "TruckSchedules")
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		return
	}
	if err != nil {
		serverError(c, err, "load current driver")
		return
	}
	render(c, http.StatusOK, "driver/me", gin.H{"driver": d, "store": d.Store})
}

func (dc *DriverController) store(c *gin.Context, id uint) (*models.Store, error) {
	return dc.stores.Find(c.Request.Context(), id)
}
