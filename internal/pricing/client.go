// Package pricing — клиент внешнего сервиса тарифов и оформления подписок.
//
// Все сетевые сбои сводятся к ErrUnavailable, неуспешные ответы к
// ErrServerError, бизнес-отказы сервиса к *RejectedError. Повторов нет:
// оформление выполняется не больше одного раза на вызов.
package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/partner-portal/internal/catalog"
	"github.com/magabrotheeeer/partner-portal/internal/config"
	"github.com/magabrotheeeer/partner-portal/internal/metrics"
)

// Client — контракт сервиса тарифов, которым пользуется оформление подписок.
type Client interface {
	FetchCatalog(ctx context.Context) (*catalog.Catalog, error)
	Quote(ctx context.Context, req SubscriptionRequest) (*Quote, error)
	Submit(ctx context.Context, req SubscriptionRequest) (*Confirmation, error)
}

// Пути API.
const (
	PathTariffs  = "/tariffs"
	PathCheckout = "/checkout-subscription"
	PathSubmit   = "/subscription"
)

// New выбирает реализацию клиента по режиму из конфига.
func New(cfg config.PricingAPI, log *slog.Logger) (Client, error) {
	const op = "pricing.New"
	switch cfg.Mode {
	case config.PricingModeHTTP:
		return NewHTTPClient(cfg), nil
	case config.PricingModeFake:
		log.Warn("pricing client runs in fake mode, remote API is not called")
		f, err := NewFake()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%s: unknown mode %q", op, cfg.Mode)
	}
}

// HTTPClient ходит в сервис по HTTP с ограничением времени на каждый вызов.
type HTTPClient struct {
	baseURL        string
	token          string
	catalogTimeout time.Duration
	submitTimeout  time.Duration
	httpClient     *http.Client
}

// NewHTTPClient создаёт клиент. Таймауты задаются на каждый вызов через контекст.
func NewHTTPClient(cfg config.PricingAPI) *HTTPClient {
	return &HTTPClient{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		token:          cfg.BearerToken,
		catalogTimeout: cfg.CatalogTimeout,
		submitTimeout:  cfg.SubmitTimeout,
		httpClient:     &http.Client{},
	}
}

// FetchCatalog запрашивает GET /tariffs.
func (c *HTTPClient) FetchCatalog(ctx context.Context) (*catalog.Catalog, error) {
	const op = "pricing.FetchCatalog"
	var cat *catalog.Catalog
	err := c.do(ctx, "fetch_catalog", http.MethodGet, PathTariffs, nil, c.catalogTimeout, nil,
		func(r io.Reader) (err error) {
			cat, err = decodeCatalog(r)
			return err
		})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cat, nil
}

// Quote запрашивает расчёт стоимости POST /checkout-subscription. Вызов не
// создаёт подписку.
func (c *HTTPClient) Quote(ctx context.Context, req SubscriptionRequest) (*Quote, error) {
	const op = "pricing.Quote"
	var q *Quote
	err := c.do(ctx, "quote", http.MethodPost, PathCheckout, req, c.submitTimeout, c.authHeaders(),
		func(r io.Reader) (err error) {
			q, err = decodeQuote(r)
			return err
		})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return q, nil
}

// Submit оформляет подписку POST /subscription. Каждый вызов несёт новый
// ключ идемпотентности.
func (c *HTTPClient) Submit(ctx context.Context, req SubscriptionRequest) (*Confirmation, error) {
	const op = "pricing.Submit"
	headers := c.authHeaders()
	headers.Set("X-Idempotency-Key", uuid.NewString())

	var conf *Confirmation
	err := c.do(ctx, "submit", http.MethodPost, PathSubmit, req, c.submitTimeout, headers,
		func(r io.Reader) (err error) {
			conf, err = decodeConfirmation(r)
			return err
		})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return conf, nil
}

func (c *HTTPClient) authHeaders() http.Header {
	h := http.Header{}
	if c.token != "" {
		h.Set("Authorization", "Bearer "+c.token)
	}
	return h
}

func (c *HTTPClient) do(
	ctx context.Context,
	operation, method, path string,
	body any,
	timeout time.Duration,
	headers http.Header,
	decode func(io.Reader) error,
) (err error) {
	start := time.Now()
	defer func() {
		metrics.PricingRequestDuration.
			WithLabelValues(operation, resultLabel(err)).
			Observe(time.Since(start).Seconds())
	}()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrServerError, err)
	}
	req.Header = headers
	if req.Header == nil {
		req.Header = http.Header{}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return fmt.Errorf("%w: unexpected status %s", ErrServerError, resp.Status)
	}

	if err := decode(resp.Body); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		}
		return err
	}
	return nil
}

func resultLabel(err error) string {
	var rejected *RejectedError
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.As(err, &rejected):
		return metrics.ResultRejected
	case errors.Is(err, ErrUnavailable):
		return metrics.ResultUnavailable
	default:
		return metrics.ResultServerError
	}
}
