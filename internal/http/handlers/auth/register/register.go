// Package register реализует HTTP-обработчик заявки на регистрацию партнёра.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/partner-portal/internal/http/response"
	"github.com/magabrotheeeer/partner-portal/internal/lib/sl"
	"github.com/magabrotheeeer/partner-portal/internal/models"
	"github.com/magabrotheeeer/partner-portal/internal/services/auth"
)

// MsgAccepted — ответ на принятую заявку.
const MsgAccepted = "Заявка на регистрацию принята. Доступ откроет администратор."

// Service описывает регистрацию партнёра.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.Partner, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация партнёра
// @Description Создаёт неактивную учётную запись и профиль партнёра. Пароль задаёт администратор при активации.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.RegisterRequest true "Данные партнёра"
// @Success 201 {object} response.Response "Заявка принята"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Пользователь уже существует"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	partner, err := h.service.Register(r.Context(), req)
	switch {
	case errors.Is(err, auth.ErrUserExists):
		log.Info("user already exists")
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("user already exists"))
		return
	case err != nil:
		log.Error("registration failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	log.Info("partner registered", sl.PartnerID(partner.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithRedirect(MsgAccepted, "", map[string]any{
		"partner_id": partner.ID,
		"email":      partner.Email,
	}))
}
