package api

import (
	"github.com/labstack/echo/v4"

	xhttp "StockSquad/pkg/http"
)

// Router bundles the feature handlers behind one xhttp.Handler.
type Router struct {
	handlers []xhttp.Handler
}

// NewRouter collects the handlers to mount. Nil entries are skipped so
// optional features (alerts without a database, leaderboard without
// ClickHouse) simply register nothing.
func NewRouter(handlers ...xhttp.Handler) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes implements xhttp.Handler.
func (r *Router) RegisterRoutes(e *echo.Echo) {
	for _, h := range r.handlers {
		if h == nil {
			continue
		}
		h.RegisterRoutes(e)
	}
}
