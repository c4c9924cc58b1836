package server

import (
	"net/http"

	"github.com/DjordjeVuckovic/indexbench/internal/apperr"
	pkgserver "github.com/DjordjeVuckovic/indexbench/pkg/server"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type LedgerRouter struct {
	e      *echo.Echo
	store  *LedgerStore
	health pkgserver.HealthChecker
}

func NewLedgerRouter(e *echo.Echo, store *LedgerStore, health pkgserver.HealthChecker) *LedgerRouter {
	return &LedgerRouter{
		e:      e,
		store:  store,
		health: health,
	}
}

func (r *LedgerRouter) Bind() {
	r.e.GET("/health", r.healthHandler)
	r.e.GET("/ledgers", r.listHandler)
	r.e.GET("/ledgers/:id", r.getHandler)
}

func (r *LedgerRouter) healthHandler(c echo.Context) error {
	if !r.health.Healthy(c.Request().Context()) {
		return c.String(http.StatusServiceUnavailable, "unhealthy")
	}
	return c.String(http.StatusOK, "ok")
}

func (r *LedgerRouter) listHandler(c echo.Context) error {
	entries, err := r.store.List()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

func (r *LedgerRouter) getHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid session id", err)
	}

	l, err := r.store.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}
