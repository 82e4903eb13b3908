package api

import (
	"github.com/go-playground/validator/v10"

	domrepo "StockSquad/internal/domain/repository"
	"StockSquad/internal/service/yahoo"
	xhttp "StockSquad/pkg/http"
)

// RegisterValidators installs the domain validation rules used by
// request models. Call once at startup.
func RegisterValidators() error {
	if err := xhttp.RegisterValidation("symbol", func(fl validator.FieldLevel) bool {
		return yahoo.ValidSymbol(fl.Field().String())
	}); err != nil {
		return err
	}

	return xhttp.RegisterValidation("timerange", func(fl validator.FieldLevel) bool {
		return domrepo.IsNamedRange(fl.Field().String())
	})
}
