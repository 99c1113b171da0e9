// Package history отдаёт историю продаж партнёра, новые первыми.
package history

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/partner-portal/internal/http/handlers"
	"github.com/magabrotheeeer/partner-portal/internal/http/response"
	"github.com/magabrotheeeer/partner-portal/internal/lib/sl"
	"github.com/magabrotheeeer/partner-portal/internal/models"
	"github.com/magabrotheeeer/partner-portal/internal/services/account"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Service interface {
	History(ctx context.Context, partnerID int64, limit, offset int) ([]models.HistoryItem, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary История продаж
// @Description Подписки, оформленные партнёром, новые первыми, с заработком по каждой.
// @Tags Account
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Размер страницы (по умолчанию 20, максимум 100)"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response{data=[]models.HistoryItem}
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет профиля партнёра"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /history [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.history"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	partnerID, ok := handlers.PartnerID(w, r, log)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil || limit < 1 || limit > maxLimit {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid limit"))
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid offset"))
		return
	}

	items, err := h.service.History(r.Context(), partnerID, limit, offset)
	switch {
	case errors.Is(err, account.ErrNoPartnerProfile):
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.ErrorWithRedirect(handlers.MsgNoPartnerProfile, handlers.PathLanding))
		return
	case err != nil:
		log.Error("failed to load history", sl.PartnerID(partnerID), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(handlers.MsgInternal))
		return
	}

	render.JSON(w, r, response.OKWithData(items))
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
