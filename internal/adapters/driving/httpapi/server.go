// Package httpapi exposes sync operations over HTTP.
// It is a thin trigger surface: requests are validated, handed to the
// orchestrator, and results returned verbatim as JSON.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tapsight-labs/possync/internal/core/domain"
	"github.com/tapsight-labs/possync/internal/core/ports/driving"
)

// Server wraps the echo HTTP server.
type Server struct {
	echo    *echo.Echo
	orch    driving.Orchestrator
	planner driving.Planner
	version string
}

// NewServer creates the HTTP trigger surface.
func NewServer(orch driving.Orchestrator, planner driving.Planner, version string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{echo: e, orch: orch, planner: planner, version: version}

	e.GET("/healthz", s.health)
	e.POST("/v1/sync", s.sync)
	e.POST("/v1/backfill", s.backfill)
	e.GET("/v1/gaps", s.gaps)

	return s
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start(addr string) error {
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// httpError maps run errors onto status codes. Fatal auth and input
// problems are client-visible; everything else is a 502 because the
// provider, not this service, failed.
func httpError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnknownBar), errors.Is(err, domain.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrNoSession), errors.Is(err, domain.ErrMissingCredentials):
		return c.JSON(http.StatusUnauthorized, errorBody{Error: err.Error()})
	default:
		return c.JSON(http.StatusBadGateway, errorBody{Error: err.Error()})
	}
}

// health reports liveness.
func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

// syncRequest triggers a single-day run.
type syncRequest struct {
	BarID      string   `json:"bar_id"`
	Date       string   `json:"date,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

func (s *Server) sync(c echo.Context) error {
	var req syncRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body"})
	}
	if req.BarID == "" {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "bar_id is required"})
	}

	date := domain.DateOf(time.Now().AddDate(0, 0, -1))
	if req.Date != "" {
		parsed, err := domain.ParseDate(req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
		}
		date = parsed
	}

	categories, err := domain.ParseCategories(req.Categories)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	}

	result, err := s.orch.RunDay(c.Request().Context(), req.BarID, date, categories)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// backfillRequest triggers a range run.
type backfillRequest struct {
	BarID           string   `json:"bar_id"`
	From            string   `json:"from"`
	To              string   `json:"to"`
	Categories      []string `json:"categories,omitempty"`
	PlanFirst       bool     `json:"plan_first,omitempty"`
	DeferProcessing bool     `json:"defer_processing,omitempty"`
}

func (s *Server) backfill(c echo.Context) error {
	var req backfillRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body"})
	}
	if req.BarID == "" {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "bar_id is required"})
	}

	from, err := domain.ParseDate(req.From)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "from: " + err.Error()})
	}
	to, err := domain.ParseDate(req.To)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "to: " + err.Error()})
	}

	categories, err := domain.ParseCategories(req.Categories)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	}

	result, err := s.orch.RunRange(c.Request().Context(), req.BarID, from, to, categories, driving.RangeOptions{
		PlanFirst:       req.PlanFirst,
		DeferProcessing: req.DeferProcessing,
	})
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// gapsResponse lists missing dates for one category.
type gapsResponse struct {
	BarID    string        `json:"bar_id"`
	Category string        `json:"category"`
	From     string        `json:"from"`
	To       string        `json:"to"`
	Missing  []domain.Date `json:"missing"`
}

func (s *Server) gaps(c echo.Context) error {
	barID := c.QueryParam("bar_id")
	if barID == "" {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "bar_id is required"})
	}

	category, err := domain.ParseCategory(c.QueryParam("category"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	}

	from, err := domain.ParseDate(c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "from: " + err.Error()})
	}
	to, err := domain.ParseDate(c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "to: " + err.Error()})
	}

	missing, err := s.planner.FindMissingDates(c.Request().Context(), barID, category, from, to)
	if err != nil {
		return httpError(c, err)
	}

	if missing == nil {
		missing = []domain.Date{}
	}
	return c.JSON(http.StatusOK, gapsResponse{
		BarID:    barID,
		Category: category.String(),
		From:     string(from),
		To:       string(to),
		Missing:  missing,
	})
}
