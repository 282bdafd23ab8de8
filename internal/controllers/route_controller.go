package controllers

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"

	"supply_chain/internal/forms"
	"supply_chain/internal/models"
	"supply_chain/internal/repository"
)

var errNotLineString = errors.New("geometry must be a GeoJSON LineString")

// RouteResponse mirrors models.Route with the path as GeoJSON.
type RouteResponse struct {
	ID        uint            `json:"ID"`
	CreatedAt time.Time       `json:"CreatedAt"`
	UpdatedAt time.Time       `json:"UpdatedAt"`
	Name      string          `json:"name"`
	StoreID   *uint           `json:"store_id"`
	Geometry  json.RawMessage `json:"geometry"`
}

func toRouteResponse(route models.Route) RouteResponse {
	resp := RouteResponse{
		ID:        route.ID,
		CreatedAt: route.CreatedAt,
		UpdatedAt: route.UpdatedAt,
		Name:      route.Name,
		StoreID:   route.StoreID,
	}
	geometry, err := convertWKBToGeoJSON(route.Geometry)
	if err != nil {
		logrus.WithError(err).WithField("route_id", route.ID).Warn("stored route geometry is unreadable")
	}
	if len(geometry) > 0 {
		resp.Geometry = geometry
	}
	return resp
}

// parseLineString parses a GeoJSON LineString and returns it as WKB.
// An empty input yields no geometry.
func parseLineString(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, fmt.Errorf("invalid GeoJSON: %w", err)
	}
	ls, ok := g.(*geom.LineString)
	if !ok {
		return nil, errNotLineString
	}
	if ls.NumCoords() < 2 {
		return nil, errors.New("a route needs at least two points")
	}
	return wkb.Marshal(ls, binary.LittleEndian)
}

func convertWKBToGeoJSON(wkbBytes []byte) ([]byte, error) {
	if len(wkbBytes) == 0 {
		return nil, nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return nil, err
	}
	return gjson.Marshal(g)
}

type RouteController struct {
	routes repository.Repository[models.Route]
	stores repository.Repository[models.Store]
}

func NewRouteController(routes repository.Repository[models.Route], stores repository.Repository[models.Store]) *RouteController {
	return &RouteController{routes: routes, stores: stores}
}

func (rc *RouteController) Index(c *gin.Context) {
	routes, err := rc.routes.FindAll(c.Request.Context())
	if err != nil {
		serverError(c, err, "list routes")
		return
	}
	out := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		out = append(out, toRouteResponse(r))
	}
	render(c, http.StatusOK, "route/index", gin.H{"routes": out})
}

func (rc *RouteController) ShowNew(c *gin.Context) {
	renderForm(c, http.StatusOK, "route/new", (&forms.RouteForm{}).View(), nil, nil)
}

// New stores a delivery route with its LineString path.
func (rc *RouteController) New(c *gin.Context) {
	f := &forms.RouteForm{}
	ok, errs := forms.Bind(c, f)
	if !ok {
		renderForm(c, http.StatusUnprocessableEntity, "route/new", f.View(), errs, nil)
		return
	}

	geometry, err := parseLineString(f.Geometry)
	if err != nil {
		errs.Add("geometry", err.Error())
	}
	store, err := rc.stores.Find(c.Request.Context(), f.StoreID)
	if errors.Is(err, repository.ErrNotFound) {
		errs.Add("store_id", unknownStore)
	} else if err != nil {
		serverError(c, err, "load route store")
		return
	}
	if errs != nil {
		renderForm(c, http.StatusUnprocessableEntity, "route/new", f.View(), errs, nil)
		return
	}

	route := &models.Route{Name: f.Name, Geometry: geometry}
	store.AddRoute(route)
	if err := rc.routes.Persist(c.Request.Context(), route); err != nil {
		serverError(c, err, "persist route")
		return
	}
	logrus.WithFields(logrus.Fields{"route_id": route.ID, "store_id": f.StoreID}).Info("route created")
	redirect(c, "/routes/")
}

func (rc *RouteController) Show(c *gin.Context) {
	route := loaded[models.Route](c)
	render(c, http.StatusOK, "route/show", gin.H{"route": toRouteResponse(*route)})
}
