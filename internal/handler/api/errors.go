package api

import (
	"errors"

	domrepo "StockSquad/internal/domain/repository"
	xhttp "StockSquad/pkg/http"
)

// mapError converts repository-level sentinels into the AppError
// taxonomy so clients always see a typed envelope, never a stack trace.
func mapError(err error) error {
	switch {
	case errors.Is(err, domrepo.ErrInvalidSymbol):
		return xhttp.BadRequestError("invalid symbol")
	case errors.Is(err, domrepo.ErrSymbolNotFound):
		return xhttp.NotFoundError("symbol not found")
	case errors.Is(err, domrepo.ErrNotFound):
		return xhttp.NotFoundError("not found")
	case errors.Is(err, domrepo.ErrNotConfigured):
		return xhttp.NotConfiguredError("persistence is not configured")
	case errors.Is(err, domrepo.ErrProvider):
		return xhttp.UpstreamError("market data provider unavailable")
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}
