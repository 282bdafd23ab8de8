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

const duplicateEmail = "There is already an account with this email."

type ManagerController struct {
	managers repository.Repository[models.Manager]
	orders   repository.Repository[models.Orders]
	hasher   *auth.PasswordHasher
	auth     *auth.Service
	guard    deleteGuard
}

func NewManagerController(
	managers repository.Repository[models.Manager],
	orders repository.Repository[models.Orders],
	hasher *auth.PasswordHasher,
	service *auth.Service,
	csrf *auth.CSRF,
) *ManagerController {
	return &ManagerController{managers: managers, orders: orders, hasher: hasher, auth: service, guard: deleteGuard{csrf}}
}

func (mc *ManagerController) Index(c *gin.Context) {
	managers, err := mc.managers.FindAll(c.Request.Context())
	if err != nil {
		serverError(c, err, "list managers")
		return
	}
	render(c, http.StatusOK, "manager/index", gin.H{"managers": managers})
}

func (mc *ManagerController) ShowRegister(c *gin.Context) {
	renderForm(c, http.StatusOK, "manager/register", (&forms.ManagerForm{}).View(), nil, nil)
}

// Register creates a manager account and logs it in.
func (mc *ManagerController) Register(c *gin.Context) {
	m, f, errs := mc.create(c)
	if errs != nil {
		renderForm(c, http.StatusUnprocessableEntity, "manager/register", f.View(), errs, nil)
		return
	}
	if m == nil {
		return
	}
	if _, err := mc.auth.Login(c.Writer, m); err != nil {
		serverError(c, err, "log in new manager")
		return
	}
	redirect(c, "/manager/")
}

func (mc *ManagerController) ShowNew(c *gin.Context) {
	renderForm(c, http.StatusOK, "manager/new", (&forms.ManagerForm{}).View(), nil, nil)
}

func (mc *ManagerController) New(c *gin.Context) {
	m, f, errs := mc.create(c)
	if errs != nil {
		renderForm(c, http.StatusUnprocessableEntity, "manager/new", f.View(), errs, nil)
		return
	}
	if m == nil {
		return
	}
	redirect(c, "/manager/")
}

// create binds, hashes and persists a manager. A nil manager with nil errors
// means a response was already written.
func (mc *ManagerController) create(c *gin.Context) (*models.Manager, *forms.ManagerForm, forms.Errors) {
	f := &forms.ManagerForm{}
	if ok, errs := forms.Bind(c, f); !ok {
		return nil, f, errs
	}

	m := &models.Manager{}
	f.Apply(m)
	hash, err := mc.hasher.Hash(m.PlainPassword)
	if err != nil {
		serverError(c, err, "hash manager password")
		return nil, f, nil
	}
	m.Password = hash
	m.SetRoles(models.Roles{models.RoleManager})
	m.EraseCredentials()

	if err := mc.managers.Persist(c.Request.Context(), m); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			var errs forms.Errors
			errs.Add("email", duplicateEmail)
			return nil, f, errs
		}
		serverError(c, err, "persist manager")
		return nil, f, nil
	}
	logrus.WithField("manager_id", m.ID).Info("manager created")
	return m, f, nil
}

// Dashboard lists the orders still waiting to leave a store.
func (mc *ManagerController) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	placed, err := mc.orders.FindBy(ctx, repository.Criteria{"order_status": models.OrderPlaced})
	if err != nil {
		serverError(c, err, "dashboard placed orders")
		return
	}
	onStore, err := mc.orders.FindBy(ctx, repository.Criteria{"order_status": models.OrderOnStore})
	if err != nil {
		serverError(c, err, "dashboard on store orders")
		return
	}
	render(c, http.StatusOK, "manager/dashboard", gin.H{"placed": placed, "on_store": onStore})
}

func (mc *ManagerController) Show(c *gin.Context) {
	m := loaded[models.Manager](c)
	render(c, http.StatusOK, "manager/show", gin.H{"manager": m, "delete_token": mc.guard.token(c, m.ID)})
}

func (mc *ManagerController) ShowEdit(c *gin.Context) {
	m := loaded[models.Manager](c)
	renderForm(c, http.StatusOK, "manager/edit", forms.NewManagerEditForm(m).View(), nil, gin.H{"manager": m})
}

func (mc *ManagerController) Edit(c *gin.Context) {
	m := loaded[models.Manager](c)
	f := forms.NewManagerEditForm(m)
	if ok, errs := forms.Bind(c, f); !ok {
		renderForm(c, http.StatusUnprocessableEntity, "manager/edit", f.View(), errs, gin.H{"manager": m})
		return
	}

	f.Apply(m)
	if m.PlainPassword != "" {
		hash, err := mc.hasher.Hash(m.PlainPassword)
		if err != nil {
			serverError(c, err, "hash manager password")
			return
		}
		m.Password = hash
		m.EraseCredentials()
	}

	if err := mc.managers.Flush(c.Request.Context(), m); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			var errs forms.Errors
			errs.Add("email", duplicateEmail)
			renderForm(c, http.StatusUnprocessableEntity, "manager/edit", f.View(), errs, gin.H{"manager": m})
			return
		}
		serverError(c, err, "flush manager")
		return
	}
	redirect(c, "/manager/")
}

// Delete removes the manager when the token matches and redirects either way.
func (mc *ManagerController) Delete(c *gin.Context) {
	m := loaded[models.Manager](c)
	if mc.guard.valid(c, m.ID) {
		if err := mc.managers.Remove(c.Request.Context(), m); err != nil {
			serverError(c, err, "remove manager")
			return
		}
	} else {
		logrus.WithField("manager_id", m.ID).Warn("delete skipped: invalid token")
	}
	redirect(c, "/manager/")
}
