package partnerportal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/partner-portal/internal/cache"
	"github.com/magabrotheeeer/partner-portal/internal/config"
	"github.com/magabrotheeeer/partner-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/partner-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/partner-portal/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/partner-portal/internal/lib/sl"
	"github.com/magabrotheeeer/partner-portal/internal/migrations"
	"github.com/magabrotheeeer/partner-portal/internal/pricing"
	"github.com/magabrotheeeer/partner-portal/internal/services/account"
	"github.com/magabrotheeeer/partner-portal/internal/services/auth"
	"github.com/magabrotheeeer/partner-portal/internal/services/checkout"
	"github.com/magabrotheeeer/partner-portal/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "partnerportal.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	version, err := migrations.Run(db.DB, cfg.MigrationsPath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("schema migrated", slog.Uint64("version", uint64(version.Number)))
	if err = repository.CheckDatabaseReady(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{logger: logger, db: db}

	// Redis и RabbitMQ необязательны: без них нет кэша показателей и писем о продажах.
	var (
		statsCache    account.Cache
		checkoutCache checkout.Cache
		publisher     checkout.Publisher
	)
	if cfg.AddressRedis != "" {
		app.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		statsCache, checkoutCache = app.cache, app.cache
	} else {
		logger.Warn("redis is not configured, partner stats are not cached")
	}
	if cfg.RabbitMQURL != "" {
		app.conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.ch, err = rabbitmq.SetupChannel(app.conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher = rabbitmq.NewPublisher(app.ch)
	} else {
		logger.Warn("rabbitmq is not configured, sale events are not published")
	}

	pricingClient, err := pricing.New(cfg.PricingAPI, logger)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:   logger,
		Tokens:   jwtMaker,
		Limiter:  middlewarectx.NewPartnerLimiter(cfg.RateLimit, cfg.RateBurst),
		DB:       db.DB,
		Auth:     auth.New(db, jwtMaker),
		Account:  account.New(logger, db, statsCache, pricingClient, cfg.StatsTTL),
		Tariffs:  pricingClient,
		Checkout: checkout.New(logger, pricingClient, db, publisher, checkoutCache, cfg.RecordTimeout),
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
