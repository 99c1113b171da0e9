// Package partnerportal собирает HTTP-приложение личного кабинета партнёра.
package partnerportal

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация swagger-документации.
	_ "github.com/magabrotheeeer/partner-portal/docs"
	"github.com/magabrotheeeer/partner-portal/internal/http/handlers/account/history"
	"github.com/magabrotheeeer/partner-portal/internal/http/handlers/account/profile"
	"github.com/magabrotheeeer/partner-portal/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/partner-portal/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/partner-portal/internal/http/handlers/checkout"
	"github.com/magabrotheeeer/partner-portal/internal/http/handlers/health"
	"github.com/magabrotheeeer/partner-portal/internal/http/handlers/tariffs"
	"github.com/magabrotheeeer/partner-portal/internal/http/middlewarectx"
)

// AuthService — регистрация и вход.
type AuthService interface {
	register.Service
	login.Service
}

// AccountService — профиль и история продаж.
type AccountService interface {
	profile.Service
	history.Service
}

// Deps — всё, что нужно обработчикам.
type Deps struct {
	Logger   *slog.Logger
	Tokens   middlewarectx.TokenParser
	Limiter  *middlewarectx.PartnerLimiter
	DB       health.Pinger
	Auth     AuthService
	Account  AccountService
	Tariffs  tariffs.Source
	Checkout checkout.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Get("/health", health.New(d.Logger, d.DB).ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(d.Logger, d.Auth).ServeHTTP)
		r.Post("/login", login.New(d.Logger, d.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.Tokens, d.Logger))
			r.Get("/profile", profile.New(d.Logger, d.Account).ServeHTTP)
			r.Get("/history", history.New(d.Logger, d.Account).ServeHTTP)
			r.Get("/tariffs", tariffs.New(d.Logger, d.Tariffs).ServeHTTP)

			co := checkout.New(d.Logger, d.Checkout)
			r.Group(func(r chi.Router) {
				r.Use(d.Limiter.Middleware(d.Logger))
				r.Post("/checkout", co.Quote)
				r.Post("/checkout/subscribe", co.Subscribe)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
