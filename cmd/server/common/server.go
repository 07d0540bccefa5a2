package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/franciscopereira987/routemap/pkg/filter"
	"github.com/franciscopereira987/routemap/pkg/middleware"
	"github.com/franciscopereira987/routemap/pkg/render"
	"github.com/franciscopereira987/routemap/pkg/routes"
	"github.com/franciscopereira987/routemap/pkg/session"
)

const (
	SessionCookie = "routemap_session"
	mapElementID  = "route-map"
	noRoutes      = "Нет маршрутов, соответствующих выбранным фильтрам"
)

type Server struct {
	e        *echo.Echo
	source   *routes.Source
	sessions *session.Registry
	notifier *middleware.Notifier
	viewport render.Viewport
}

// NewServer wires the HTTP surface. notifier may be nil.
func NewServer(source *routes.Source, sessions *session.Registry, notifier *middleware.Notifier, viewport render.Viewport) *Server {
	s := &Server{
		e:        echo.New(),
		source:   source,
		sessions: sessions,
		notifier: notifier,
		viewport: viewport,
	}
	s.e.HideBanner = true
	s.e.HidePort = true
	s.e.Use(echomw.Recover())
	s.e.Use(logRequests)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	s.e.GET("/", s.index)
	s.e.POST("/build", s.build)
	s.e.POST("/reset", s.reset)
	s.e.GET("/api/routes", s.apiRoutes)
	s.e.GET("/api/map", s.apiMap)
	s.e.GET("/api/session", s.apiSession)
}

func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) Start(address string) error {
	log.Infof("action: listen | result: success | address: %s", address)
	err := s.e.Start(address)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		log.Debugf("action: request | method: %s | path: %s | status: %d | elapsed: %s",
			c.Request().Method, c.Request().URL.Path, c.Response().Status, time.Since(start))
		return nil
	}
}

// controller finds the session of the request, issuing a cookie on first
// contact.
func (s *Server) controller(c echo.Context) (*session.Controller, error) {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return s.sessions.Get(cookie.Value)
	}
	id, err := session.NewID()
	if err != nil {
		return nil, err
	}
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s.sessions.Get(id)
}

func (s *Server) loadError(err error) string {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Sprintf("Файл %s не найден", s.source.Path())
	}
	return fmt.Sprintf("Не удалось загрузить %s: %s", s.source.Path(), err)
}

// selection is the outcome of applying the request filter to the table.
type selection struct {
	table    []routes.Route
	lo, hi   float64
	criteria filter.Criteria
	filtered []routes.Route
	cities   []string
	query    string
}

func (s *Server) selection(c echo.Context) (*selection, error) {
	table, err := s.source.Load()
	if err != nil {
		return nil, err
	}
	sel := &selection{table: table, cities: routes.Cities(table)}
	sel.lo, sel.hi = routes.PriceBounds(table)
	sel.criteria = ParseCriteria(c.QueryParams(), sel.lo, sel.hi)
	sel.filtered = filter.Apply(table, sel.criteria)
	sel.query = EncodeCriteria(sel.criteria, sel.cities, sel.cities)
	return sel, nil
}

func (s *Server) index(c echo.Context) error {
	ctrl, err := s.controller(c)
	if err != nil {
		return err
	}
	sel, err := s.selection(c)
	if err != nil {
		page, err := renderPage(pageData{Error: s.loadError(err)})
		if err != nil {
			return err
		}
		return c.HTMLBlob(http.StatusInternalServerError, page)
	}

	st := ctrl.State()
	data := pageData{
		PriceLo:  sel.lo,
		PriceHi:  sel.hi,
		Min:      sel.criteria.PriceMin,
		Max:      sel.criteria.PriceMax,
		Origins:  cityOptions(sel.cities, sel.criteria.Origins),
		Dests:    cityOptions(sel.cities, sel.criteria.Destinations),
		Count:    len(sel.filtered),
		BuildURL: template.URL("/build?" + sel.query),
		ResetURL: template.URL("/reset?" + sel.query),
		Phase:    st.Phase.String(),
		Progress: int(st.Progress * 100),
	}
	if len(sel.filtered) == 0 {
		data.Warning = noRoutes
	} else if st.Phase == session.Built {
		var buf bytes.Buffer
		m := render.Render(sel.filtered, st.Coordinates, s.viewport)
		if err := m.WriteHTML(&buf, mapElementID); err != nil {
			return err
		}
		data.Map = template.HTML(buf.String())
	}

	page, err := renderPage(data)
	if err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, page)
}

func (s *Server) build(c echo.Context) error {
	ctrl, err := s.controller(c)
	if err != nil {
		return err
	}
	sel, err := s.selection(c)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if len(sel.filtered) > 0 {
		ctx := c.Request().Context()
		wasBuilt := ctrl.State().Phase == session.Built
		coords, err := ctrl.Build(ctx, sel.filtered)
		switch {
		case err != nil:
			log.Warnf("action: build | result: fail | session: %s | error: %s", ctrl.ID(), err)
		case !wasBuilt:
			m := render.Render(sel.filtered, coords, s.viewport)
			s.notifier.MapBuilt(ctx, middleware.MapEvent{
				Session:    ctrl.ID(),
				Routes:     len(sel.filtered),
				Lines:      len(m.Lines),
				Markers:    len(m.Markers),
				Unresolved: render.Unresolved(sel.filtered, coords),
			})
		}
	}
	return c.Redirect(http.StatusSeeOther, "/?"+sel.query)
}

func (s *Server) reset(c echo.Context) error {
	ctrl, err := s.controller(c)
	if err != nil {
		return err
	}
	ctrl.Reset()
	s.notifier.MapReset(c.Request().Context(), ctrl.ID())
	return c.Redirect(http.StatusSeeOther, "/?"+c.QueryString())
}

type message struct {
	Message string `json:"message"`
}

type routesResponse struct {
	Count    int            `json:"count"`
	PriceMin float64        `json:"price_min"`
	PriceMax float64        `json:"price_max"`
	Routes   []routes.Route `json:"routes"`
}

func (s *Server) apiRoutes(c echo.Context) error {
	sel, err := s.selection(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, message{s.loadError(err)})
	}
	return c.JSON(http.StatusOK, routesResponse{
		Count:    len(sel.filtered),
		PriceMin: sel.lo,
		PriceMax: sel.hi,
		Routes:   sel.filtered,
	})
}

func (s *Server) apiMap(c echo.Context) error {
	ctrl, err := s.controller(c)
	if err != nil {
		return err
	}
	sel, err := s.selection(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, message{s.loadError(err)})
	}
	if len(sel.filtered) == 0 {
		return c.JSON(http.StatusNotFound, message{noRoutes})
	}
	coords, err := ctrl.Coordinates()
	if err != nil {
		return c.JSON(http.StatusConflict, message{err.Error()})
	}
	raw, err := render.Render(sel.filtered, coords, s.viewport).GeoJSON()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/geo+json", raw)
}

type sessionResponse struct {
	Session  string  `json:"session"`
	Phase    string  `json:"phase"`
	Progress float64 `json:"progress"`
	Cities   int     `json:"cities"`
}

func (s *Server) apiSession(c echo.Context) error {
	ctrl, err := s.controller(c)
	if err != nil {
		return err
	}
	st := ctrl.State()
	return c.JSON(http.StatusOK, sessionResponse{
		Session:  ctrl.ID(),
		Phase:    st.Phase.String(),
		Progress: st.Progress,
		Cities:   len(st.Coordinates),
	})
}
