// Package checkout реализует HTTP-обработчики оформления подписки:
// предварительный расчёт и подтверждение.
//
// Ошибки внешнего сервиса возвращают пользователя в профиль с сообщением,
// ошибки формы оставляют его на форме.
package checkout

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/partner-portal/internal/http/handlers"
	"github.com/magabrotheeeer/partner-portal/internal/http/response"
	"github.com/magabrotheeeer/partner-portal/internal/lib/sl"
	"github.com/magabrotheeeer/partner-portal/internal/models"
	"github.com/magabrotheeeer/partner-portal/internal/selection"
	"github.com/magabrotheeeer/partner-portal/internal/services/checkout"
)

// Service описывает оформление подписок.
type Service interface {
	Quote(ctx context.Context, partnerID int64, sel selection.Selection) (*checkout.Preview, error)
	Subscribe(ctx context.Context, partnerID int64, sel selection.Selection) (*models.Subscription, error)
}

// SubscriptionView — оформленная подписка в ответе.
type SubscriptionView struct {
	ID          int64                     `json:"id"`
	ClientEmail string                    `json:"client_email"`
	TariffCode  string                    `json:"tariff"`
	TariffName  string                    `json:"tariff_name"`
	Period      int                       `json:"period"`
	CostValue   decimal.Decimal           `json:"cost_value"`
	Quotas      models.SubscriptionQuotas `json:"quotas"`
	CreatedAt   time.Time                 `json:"created_at"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Quote godoc
// @Summary Расчёт стоимости подписки
// @Description Проверяет выбор по актуальному каталогу и возвращает расчёт. Ничего не сохраняет.
// @Tags Checkout
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body selection.Selection true "Выбор тарифа, периода и квот"
// @Success 200 {object} response.Response{data=checkout.Preview}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Нет профиля партнёра или учётная запись деактивирована"
// @Failure 422 {object} response.ErrorResponse "Данные указаны неверно или отказ сервиса"
// @Failure 502 {object} response.ErrorResponse "Сервер оформления подписок недоступен"
// @Failure 503 {object} response.ErrorResponse "Сервис оформления подписок недоступен"
// @Router /checkout [post]
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.quote"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	partnerID, sel, ok := h.decode(w, r, log)
	if !ok {
		return
	}

	preview, err := h.service.Quote(r.Context(), partnerID, sel)
	if err != nil {
		h.fail(w, r, log, partnerID, err)
		return
	}

	log.Info("quote calculated", sl.PartnerID(partnerID), slog.String("total_price", preview.Quote.TotalPrice.String()))
	render.JSON(w, r, response.OKWithData(preview))
}

// Subscribe godoc
// @Summary Оформление подписки
// @Description Повторно проверяет выбор, получает новый расчёт, оформляет подписку и записывает продажу.
// @Tags Checkout
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body selection.Selection true "Выбор тарифа, периода и квот"
// @Success 200 {object} response.Response{data=SubscriptionView}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Нет профиля партнёра, не задана комиссия или учётная запись деактивирована"
// @Failure 422 {object} response.ErrorResponse "Данные указаны неверно или отказ сервиса"
// @Failure 502 {object} response.ErrorResponse "Сервер оформления подписок недоступен"
// @Failure 503 {object} response.ErrorResponse "Сервис оформления подписок недоступен"
// @Router /checkout/subscribe [post]
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.subscribe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	partnerID, sel, ok := h.decode(w, r, log)
	if !ok {
		return
	}

	sub, err := h.service.Subscribe(r.Context(), partnerID, sel)
	if err != nil {
		h.fail(w, r, log, partnerID, err)
		return
	}

	render.JSON(w, r, response.OKWithRedirect(handlers.MsgSubscribed, handlers.PathProfile, SubscriptionView{
		ID:          sub.ID,
		ClientEmail: sub.ClientEmail,
		TariffCode:  sub.TariffCode,
		TariffName:  sub.TariffName,
		Period:      sub.Period,
		CostValue:   sub.CostValue,
		Quotas:      sub.Quotas,
		CreatedAt:   sub.CreatedAt,
	}))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger) (int64, selection.Selection, bool) {
	partnerID, ok := handlers.PartnerID(w, r, log)
	if !ok {
		return 0, selection.Selection{}, false
	}

	var sel selection.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(handlers.MsgInvalidForm))
		return 0, selection.Selection{}, false
	}
	return partnerID, sel, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, partnerID int64, err error) {
	status, resp := failure(err)
	if status >= http.StatusInternalServerError {
		log.Error("checkout failed", sl.PartnerID(partnerID), sl.Err(err))
	} else {
		log.Info("checkout refused", sl.PartnerID(partnerID), sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}
