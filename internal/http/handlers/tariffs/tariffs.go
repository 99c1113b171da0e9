// Package tariffs отдаёт актуальный каталог тарифов.
package tariffs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/partner-portal/internal/catalog"
	"github.com/magabrotheeeer/partner-portal/internal/http/handlers"
	"github.com/magabrotheeeer/partner-portal/internal/http/response"
	"github.com/magabrotheeeer/partner-portal/internal/lib/sl"
	"github.com/magabrotheeeer/partner-portal/internal/pricing"
)

type Source interface {
	FetchCatalog(ctx context.Context) (*catalog.Catalog, error)
}

type Handler struct {
	log    *slog.Logger
	source Source
}

func New(log *slog.Logger, source Source) *Handler {
	return &Handler{log: log, source: source}
}

// ServeHTTP godoc
// @Summary Каталог тарифов
// @Description Тарифы с ценами, периодами и включёнными квотами.
// @Tags Checkout
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]catalog.Tariff}
// @Failure 502 {object} response.ErrorResponse "Сервер оформления подписок недоступен"
// @Failure 503 {object} response.ErrorResponse "Сервис оформления подписок недоступен"
// @Router /tariffs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tariffs"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	cat, err := h.source.FetchCatalog(r.Context())
	if err != nil {
		log.Error("failed to fetch tariffs", sl.Err(err))
		if errors.Is(err, pricing.ErrUnavailable) {
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.ErrorWithRedirect(pricing.MsgUnavailable, handlers.PathProfile))
			return
		}
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.ErrorWithRedirect(pricing.MsgServerError, handlers.PathProfile))
		return
	}

	render.JSON(w, r, response.OKWithData(cat.Tariffs()))
}
