// Package handlers содержит общие для HTTP-обработчиков пути и сообщения.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/partner-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/partner-portal/internal/http/response"
)

// Страницы, на которые клиент возвращает пользователя.
const (
	PathLanding = "/"
	PathProfile = "/api/v1/profile"
)

// Сообщения пользователю.
const (
	MsgSubscribed       = "Пользователь успешно подписан."
	MsgInvalidForm      = "Данные указаны неверно."
	MsgNoPartnerProfile = "Профиль партнёра не найден."
	MsgNoCommission     = "Комиссия партнёра не назначена. Обратитесь к администратору."
	MsgInternal         = "Внутренняя ошибка сервера."
	MsgInactive         = "Учётная запись деактивирована. Обратитесь к администратору."
)

// PartnerID возвращает идентификатор партнёра из контекста. Если его нет,
// отвечает 403 с переходом на стартовую страницу.
func PartnerID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (int64, bool) {
	id, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok || id.PartnerID == 0 {
		log.Warn("request without partner profile")
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.ErrorWithRedirect(MsgNoPartnerProfile, PathLanding))
		return 0, false
	}
	return id.PartnerID, true
}
