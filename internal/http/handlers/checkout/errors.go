package checkout

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/partner-portal/internal/http/handlers"
	"github.com/magabrotheeeer/partner-portal/internal/http/response"
	"github.com/magabrotheeeer/partner-portal/internal/pricing"
	"github.com/magabrotheeeer/partner-portal/internal/services/checkout"
)

// failure переводит ошибку оформления в HTTP-статус и ответ. Внутренние
// подробности пользователю не передаются, отказ сервиса передаётся дословно.
func failure(err error) (int, response.Response) {
	var rejected *pricing.RejectedError
	switch {
	case errors.As(err, &rejected):
		return http.StatusUnprocessableEntity, response.ErrorWithRedirect(rejected.Message, handlers.PathProfile)
	case errors.Is(err, checkout.ErrInvalidInput):
		return http.StatusUnprocessableEntity, response.Error(handlers.MsgInvalidForm)
	case errors.Is(err, checkout.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, response.ErrorWithRedirect(pricing.MsgUnavailable, handlers.PathProfile)
	case errors.Is(err, checkout.ErrServerUnavailable):
		return http.StatusBadGateway, response.ErrorWithRedirect(pricing.MsgServerError, handlers.PathProfile)
	case errors.Is(err, checkout.ErrNoPartnerProfile):
		return http.StatusForbidden, response.ErrorWithRedirect(handlers.MsgNoPartnerProfile, handlers.PathLanding)
	case errors.Is(err, checkout.ErrPartnerInactive):
		return http.StatusForbidden, response.ErrorWithRedirect(handlers.MsgInactive, handlers.PathLanding)
	case errors.Is(err, checkout.ErrCommissionNotSet):
		return http.StatusForbidden, response.ErrorWithRedirect(handlers.MsgNoCommission, handlers.PathProfile)
	default:
		return http.StatusInternalServerError, response.ErrorWithRedirect(handlers.MsgInternal, handlers.PathProfile)
	}
}
