package actions

import (
	"errors"

	"github.com/gobuffalo/buffalo"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/domain"
	"github.com/embedsure/embed-api/models"
)

// AuthN authenticates the requesting partner by its bearer token and stores
// the partner on the context.
func AuthN(next buffalo.Handler) buffalo.Handler {
	return func(c buffalo.Context) error {
		bearerToken := domain.GetBearerTokenFromRequest(c.Request())
		if bearerToken == "" {
			err := errors.New("no bearer token provided")
			return reportError(c, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryUnauthorized))
		}

		var partner models.Partner
		tx := models.Tx(c)
		if err := partner.FindByToken(tx, bearerToken); err != nil {
			var appErr *api.AppError
			if errors.As(err, &appErr) && appErr.Category == api.CategoryInternal {
				return reportError(c, err)
			}
			err = errors.New("invalid bearer token")
			return reportError(c, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryUnauthorized))
		}

		c.Set(domain.ContextKeyCurrentPartner, partner)

		newExtra(c, "partner_code", partner.Code)
		newExtra(c, "ip", c.Request().RemoteAddr)

		return next(c)
	}
}
