// Package profile реализует страницу профиля партнёра: данные компании,
// сводные показатели продаж и каталог тарифов.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/partner-portal/internal/catalog"
	"github.com/magabrotheeeer/partner-portal/internal/http/handlers"
	"github.com/magabrotheeeer/partner-portal/internal/http/response"
	"github.com/magabrotheeeer/partner-portal/internal/lib/sl"
	"github.com/magabrotheeeer/partner-portal/internal/services/account"
)

type Service interface {
	Profile(ctx context.Context, partnerID int64) (*account.Profile, error)
}

// View — ответ страницы профиля.
type View struct {
	ID             int64            `json:"id"`
	Email          string           `json:"email"`
	FirstName      string           `json:"first_name"`
	LastName       string           `json:"last_name"`
	MiddleName     string           `json:"middle_name,omitempty"`
	Phone          string           `json:"phone"`
	INN            string           `json:"inn"`
	CompanyName    string           `json:"company_name"`
	ContractNumber string           `json:"contract_number,omitempty"`
	Debt           decimal.Decimal  `json:"debt"`
	Commission     *decimal.Decimal `json:"commission"`
	DateRegistered time.Time        `json:"date_registered"`
	Count          int64            `json:"count"`
	Sales          decimal.Decimal  `json:"sales"`
	Revenue        decimal.Decimal  `json:"revenue"`
	Tariffs        []catalog.Tariff `json:"tariffs"`
	Warning        string           `json:"warning,omitempty"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль партнёра
// @Description Данные партнёра, суммы продаж и заработка, каталог тарифов. Если сервис тарифов недоступен, каталог пуст и заполнено поле warning.
// @Tags Account
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=View}
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет профиля партнёра"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.profile"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	partnerID, ok := handlers.PartnerID(w, r, log)
	if !ok {
		return
	}

	p, err := h.service.Profile(r.Context(), partnerID)
	switch {
	case errors.Is(err, account.ErrNoPartnerProfile):
		log.Warn("partner profile not found", sl.PartnerID(partnerID))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.ErrorWithRedirect(handlers.MsgNoPartnerProfile, handlers.PathLanding))
		return
	case err != nil:
		log.Error("failed to load profile", sl.PartnerID(partnerID), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(handlers.MsgInternal))
		return
	}

	render.JSON(w, r, response.OKWithData(viewOf(p)))
}

func viewOf(p *account.Profile) View {
	v := View{
		ID:             p.Partner.ID,
		Email:          p.Partner.Email,
		FirstName:      p.Partner.FirstName,
		LastName:       p.Partner.LastName,
		MiddleName:     p.Partner.MiddleName,
		Phone:          p.Partner.Phone,
		INN:            p.Partner.INN,
		CompanyName:    p.Partner.CompanyName,
		ContractNumber: p.Partner.ContractNumber,
		Debt:           p.Partner.Debt,
		DateRegistered: p.Partner.DateRegistered,
		Count:          p.Overall.Count,
		Sales:          p.Overall.Sales,
		Revenue:        p.Overall.Revenue,
		Tariffs:        p.Tariffs,
		Warning:        p.Warning,
	}
	if p.Partner.HasCommission() {
		c := p.Partner.Commission.Decimal
		v.Commission = &c
	}
	return v
}
