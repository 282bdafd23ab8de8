package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"supply_chain/internal/auth"
	"supply_chain/internal/controllers"
	"supply_chain/internal/models"
)

type harness struct {
	t        *testing.T
	handler  http.Handler
	sessions *auth.SessionManager
	managers *memRepo[models.Manager]
	drivers  *memRepo[models.Driver]
	stores   *memRepo[models.Store]
	routes   *memRepo[models.Route]
	orders   *memRepo[models.Orders]
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &harness{
		t: t,
		managers: newMemRepo(func(m *models.Manager) *gorm.Model { return &m.Model },
			func(m *models.Manager) map[string]any { return map[string]any{"email": m.Email} }, "email"),
		drivers: newMemRepo(func(d *models.Driver) *gorm.Model { return &d.Model },
			func(d *models.Driver) map[string]any { return map[string]any{"email": d.Email} }, "email"),
		stores: newMemRepo(func(s *models.Store) *gorm.Model { return &s.Model },
			func(s *models.Store) map[string]any { return map[string]any{"city": s.City} }),
		routes: newMemRepo(func(r *models.Route) *gorm.Model { return &r.Model },
			func(r *models.Route) map[string]any { return map[string]any{"name": r.Name} }),
		orders: newMemRepo(func(o *models.Orders) *gorm.Model { return &o.Model },
			func(o *models.Orders) map[string]any { return map[string]any{"order_status": o.OrderStatus} }),
	}

	h.stores.inUse = func(s *models.Store) bool {
		drivers, _ := h.drivers.FindAll(context.Background())
		for _, d := range drivers {
			if d.StoreID == s.ID {
				return true
			}
		}
		return false
	}

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	h.sessions = auth.NewSessionManager(auth.SessionConfig{Secret: "router-test-secret"}, &memRevoker{})
	feed := controllers.NewOrderHub(nil)
	t.Cleanup(feed.Close)

	h.handler = NewHandler(Dependencies{
		Managers:    h.managers,
		Drivers:     h.drivers,
		Stores:      h.stores,
		Routes:      h.routes,
		Orders:      h.orders,
		ManagerAuth: auth.NewService(auth.KindManager, managerProvider{h.managers}, hasher, h.sessions),
		DriverAuth:  auth.NewService(auth.KindDriver, driverProvider{h.drivers}, hasher, h.sessions),
		Sessions:    h.sessions,
		CSRF:        auth.NewCSRF("router-test-secret"),
		Hasher:      hasher,
		Feed:        feed,
	}, nil)
	return h
}

func (h *harness) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	return w
}

func (h *harness) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	return h.do(httptest.NewRequest(http.MethodGet, path, nil), cookie)
}

func (h *harness) post(path string, values url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req, cookie)
}

func (h *harness) sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	h.t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == h.sessions.CookieName() && c.Value != "" {
			return c
		}
	}
	h.t.Fatalf("no session cookie in response (status %d)", w.Code)
	return nil
}

// registerManager signs up a manager and returns its session cookie.
func (h *harness) registerManager(email, password string) *http.Cookie {
	h.t.Helper()
	w := h.post("/manager/register", url.Values{"email": {email}, "plainPassword": {password}}, nil)
	require.Equal(h.t, http.StatusSeeOther, w.Code, w.Body.String())
	return h.sessionCookie(w)
}

func body(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestRegisterLogsInAndRedirects(t *testing.T) {
	h := newHarness(t)

	cookie := h.registerManager("boss@example.com", "s3cret")

	stored, ok := h.managers.get(1)
	require.True(t, ok)
	assert.NotEqual(t, "s3cret", stored.Password)
	assert.Empty(t, stored.PlainPassword)
	assert.ElementsMatch(t, []string{models.RoleManager, models.RoleUser}, stored.GetRoles())

	w := h.get("/manager/", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	b := body(t, w)
	assert.Equal(t, "manager/index", b["view"])
	assert.Len(t, b["managers"], 1)
}

func TestRegisterDuplicateEmailStoresNothing(t *testing.T) {
	h := newHarness(t)
	h.registerManager("boss@example.com", "s3cret")

	w := h.post("/manager/register", url.Values{"email": {"boss@example.com"}, "plainPassword": {"other"}}, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	b := body(t, w)
	assert.Equal(t, "manager/register", b["view"])
	assert.Contains(t, b["errors"], "email")
	assert.Equal(t, 1, h.managers.count())
}

func TestRegisterInvalidFormIsNotPersisted(t *testing.T) {
	h := newHarness(t)

	w := h.post("/manager/register", url.Values{"email": {"nope"}}, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := body(t, w)["errors"].(map[string]any)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "plainPassword")
	assert.Zero(t, h.managers.count())
}

func TestLoginFailureKeepsLastUsername(t *testing.T) {
	h := newHarness(t)
	h.registerManager("boss@example.com", "s3cret")

	for _, email := range []string{"boss@example.com", "ghost@example.com"} {
		w := h.post("/manager/login", url.Values{"email": {email}, "password": {"wrong"}}, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		b := body(t, w)
		assert.Equal(t, "security/manager_login", b["view"])
		assert.Equal(t, "Invalid credentials.", b["error"])
		assert.Equal(t, email, b["last_username"])
		assert.Empty(t, w.Result().Cookies())
	}
}

func TestLoginThenDashboard(t *testing.T) {
	h := newHarness(t)
	h.registerManager("boss@example.com", "s3cret")
	for _, status := range []string{models.OrderPlaced, models.OrderOnStore, models.OrderDelivered} {
		require.NoError(t, h.orders.Persist(context.Background(), &models.Orders{OrderStatus: status}))
	}

	w := h.post("/manager/login", url.Values{"email": {"boss@example.com"}, "password": {"s3cret"}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/manager/", w.Header().Get("Location"))

	w = h.get("/manager/dashboard", h.sessionCookie(w))
	require.Equal(t, http.StatusOK, w.Code)
	b := body(t, w)
	require.Len(t, b["placed"], 1)
	require.Len(t, b["on_store"], 1)
	assert.Equal(t, models.OrderPlaced, b["placed"].([]any)[0].(map[string]any)["order_status"])
	assert.Equal(t, models.OrderOnStore, b["on_store"].([]any)[0].(map[string]any)["order_status"])
}

func TestDeleteChecksToken(t *testing.T) {
	h := newHarness(t)
	cookie := h.registerManager("boss@example.com", "s3cret")
	h.registerManager("second@example.com", "s3cret")

	w := h.post("/manager/2", url.Values{"_method": {"DELETE"}, "_token": {"forged"}}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/manager/", w.Header().Get("Location"))
	assert.Equal(t, 2, h.managers.count(), "bad token keeps the record")

	w = h.get("/manager/2", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	token := body(t, w)["delete_token"].(string)

	w = h.post("/manager/2", url.Values{"_method": {"DELETE"}, "_token": {token}}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	_, ok := h.managers.get(2)
	assert.False(t, ok)
}

func TestDeletedManagerEmailCanRegisterAgain(t *testing.T) {
	h := newHarness(t)
	cookie := h.registerManager("boss@example.com", "s3cret")
	h.registerManager("second@example.com", "s3cret")

	token := body(t, h.get("/manager/2", cookie))["delete_token"].(string)
	w := h.post("/manager/2", url.Values{"_method": {"DELETE"}, "_token": {token}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)

	h.registerManager("second@example.com", "again")
	assert.Equal(t, 2, h.managers.count())
}

func TestDeleteStoreWithDriversConflicts(t *testing.T) {
	h := newHarness(t)
	cookie := h.registerManager("boss@example.com", "s3cret")
	require.NoError(t, h.stores.Persist(context.Background(), &models.Store{City: "Colombo"}))
	require.NoError(t, h.drivers.Persist(context.Background(), &models.Driver{Email: "kamal@example.com", StoreID: 1}))

	token := body(t, h.get("/stores/1", cookie))["delete_token"].(string)
	w := h.post("/stores/1", url.Values{"_method": {"DELETE"}, "_token": {token}}, cookie)

	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	b := body(t, w)
	assert.Equal(t, "store/show", b["view"])
	assert.NotEmpty(t, b["error"])
	_, ok := h.stores.get(1)
	assert.True(t, ok, "store with drivers is kept")

	d, _ := h.drivers.get(1)
	token = body(t, h.get("/drivers/1", cookie))["delete_token"].(string)
	w = h.post("/drivers/1", url.Values{"_method": {"DELETE"}, "_token": {token}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	_, ok = h.drivers.get(d.ID)
	assert.False(t, ok)

	token = body(t, h.get("/stores/1", cookie))["delete_token"].(string)
	w = h.post("/stores/1", url.Values{"_method": {"DELETE"}, "_token": {token}}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	_, ok = h.stores.get(1)
	assert.False(t, ok)
}

func TestAccessControl(t *testing.T) {
	h := newHarness(t)
	cookie := h.registerManager("boss@example.com", "s3cret")

	driver := &models.Driver{Email: "d@example.com", Roles: models.Roles{models.RoleDriver}}
	driver.ID = 9
	token, _, err := h.sessions.Token(auth.KindDriver, driver)
	require.NoError(t, err)
	driverCookie := &http.Cookie{Name: h.sessions.CookieName(), Value: token}

	assert.Equal(t, http.StatusUnauthorized, h.get("/manager/", nil).Code)
	assert.Equal(t, http.StatusForbidden, h.get("/manager/dashboard", driverCookie).Code)
	assert.Equal(t, http.StatusForbidden, h.get("/stores/", driverCookie).Code)
	assert.Equal(t, http.StatusNotFound, h.get("/manager/99", cookie).Code)
	assert.Equal(t, http.StatusNotFound, h.get("/manager/abc/edit", cookie).Code)
	assert.Equal(t, http.StatusOK, h.get("/healthz", nil).Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	h := newHarness(t)
	cookie := h.registerManager("boss@example.com", "s3cret")

	w := h.get("/manager/logout", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/manager/login", w.Header().Get("Location"))

	assert.Equal(t, http.StatusUnauthorized, h.get("/manager/", cookie).Code)
}

func TestEditManager(t *testing.T) {
	h := newHarness(t)
	cookie := h.registerManager("boss@example.com", "s3cret")
	before, _ := h.managers.get(1)

	w := h.post("/manager/1/edit", url.Values{"email": {"chief@example.com"}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	after, _ := h.managers.get(1)
	assert.Equal(t, "chief@example.com", after.Email)
	assert.Equal(t, before.Password, after.Password, "blank password leaves the hash alone")
}

func TestStoreAndDriverLifecycle(t *testing.T) {
	h := newHarness(t)
	cookie := h.registerManager("boss@example.com", "s3cret")

	driverForm := url.Values{
		"email":         {"kamal@example.com"},
		"plainPassword": {"drive"},
		"first_name":    {"Kamal"},
		"last_name":     {"Perera"},
		"status":        {"active"},
		"work_hours":    {"00:00:00"},
		"store_id":      {"1"},
	}
	w := h.post("/drivers/new", driverForm, cookie)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, body(t, w)["errors"], "store_id")

	w = h.post("/stores/new", url.Values{"city": {"Colombo"}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = h.post("/stores/new", url.Values{"city": {"Kandy"}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = h.post("/drivers/new", driverForm, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/drivers/", w.Header().Get("Location"))

	d, ok := h.drivers.get(1)
	require.True(t, ok)
	assert.Equal(t, uint(1), d.StoreID)
	assert.Contains(t, d.GetRoles(), models.RoleDriver)

	edit := url.Values{}
	for k, v := range driverForm {
		edit[k] = v
	}
	edit.Set("plainPassword", "")
	edit.Set("store_id", "2")
	w = h.post("/drivers/1/edit", edit, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	d, _ = h.drivers.get(1)
	assert.Equal(t, uint(2), d.StoreID)

	w = h.post("/driver/login", url.Values{"email": {"kamal@example.com"}, "password": {"drive"}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/driver/me", w.Header().Get("Location"))

	w = h.get("/driver/me", h.sessionCookie(w))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "driver/me", body(t, w)["view"])
}

func TestRouteGeometry(t *testing.T) {
	h := newHarness(t)
	cookie := h.registerManager("boss@example.com", "s3cret")
	require.NoError(t, h.stores.Persist(context.Background(), &models.Store{City: "Galle"}))

	w := h.post("/routes/new", url.Values{
		"name":     {"Coastal"},
		"store_id": {"1"},
		"geometry": {`{"type":"Point","coordinates":[80.2,6.0]}`},
	}, cookie)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, body(t, w)["errors"], "geometry")

	w = h.post("/routes/new", url.Values{
		"name":     {"Coastal"},
		"store_id": {"1"},
		"geometry": {`{"type":"LineString","coordinates":[[80.2,6.03],[79.97,6.93]]}`},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	w = h.get("/routes/1", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	route := body(t, w)["route"].(map[string]any)
	geometry := route["geometry"].(map[string]any)
	assert.Equal(t, "LineString", geometry["type"])
	assert.Len(t, geometry["coordinates"], 2)
}

func TestOrderStatusUpdate(t *testing.T) {
	h := newHarness(t)
	cookie := h.registerManager("boss@example.com", "s3cret")
	require.NoError(t, h.orders.Persist(context.Background(), &models.Orders{OrderStatus: models.OrderPlaced}))

	w := h.post("/orders/1/status", url.Values{"order_status": {"Lost"}}, cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = h.post("/orders/1/status", url.Values{"order_status": {models.OrderOnRoute}}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	o, _ := h.orders.get(1)
	assert.Equal(t, models.OrderOnRoute, o.OrderStatus)

	w = h.get(fmt.Sprintf("/orders/?status=%s", url.QueryEscape(models.OrderOnRoute)), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body(t, w)["orders"], 1)
}
