// Package checkout оформляет подписки клиентам партнёра в два шага: расчёт
// стоимости без побочных эффектов и оформление с записью продажи.
//
// Этапы строго упорядочены: каталог, проверка выбора, расчёт, оформление во
// внешнем сервисе, запись подписки вместе с задолженностью. Повторов нет,
// любая ошибка завершает попытку.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/partner-portal/internal/cache"
	"github.com/magabrotheeeer/partner-portal/internal/ledger"
	"github.com/magabrotheeeer/partner-portal/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/partner-portal/internal/lib/sl"
	"github.com/magabrotheeeer/partner-portal/internal/metrics"
	"github.com/magabrotheeeer/partner-portal/internal/models"
	"github.com/magabrotheeeer/partner-portal/internal/pricing"
	"github.com/magabrotheeeer/partner-portal/internal/selection"
	"github.com/magabrotheeeer/partner-portal/internal/storage/repository"
)

var (
	ErrServiceUnavailable = errors.New("subscription service is unavailable")
	ErrServerUnavailable  = errors.New("subscription server is unavailable")
	ErrInvalidInput       = errors.New("invalid checkout input")
	ErrNoPartnerProfile   = errors.New("partner profile not found")
	ErrCommissionNotSet   = errors.New("partner commission is not set")
	ErrPartnerInactive    = errors.New("partner account is deactivated")
)

// DefaultRecordTimeout ограничивает запись продажи после оформления во
// внешнем сервисе, если в New передан ноль.
const DefaultRecordTimeout = 10 * time.Second

// Стадии для метрики попыток оформления.
const (
	StageQuote     = "quote"
	StageSubscribe = "subscribe"
)

// PartnerRepository — хранилище партнёров и продаж.
type PartnerRepository interface {
	GetPartner(ctx context.Context, partnerID int64) (*models.Partner, error)
	CreateSubscription(ctx context.Context, partnerID int64, build repository.BuildFunc) (*models.Subscription, error)
}

// Publisher публикует события о продажах.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Cache переводит сводные показатели партнёра в новое поколение.
type Cache interface {
	Bump(ctx context.Context, key string) error
}

// Preview — расчёт, который показывают партнёру перед подтверждением.
type Preview struct {
	Quote       *pricing.Quote `json:"pricing"`
	TariffCode  string         `json:"tariff"`
	Period      int            `json:"period"`
	ClientEmail string         `json:"client_email"`
	Quotas      map[string]int `json:"quotas"`
	ExtraQuotas map[string]int `json:"extra_quotas"`
}

// Service — оформление подписок.
type Service struct {
	pricing   pricing.Client
	repo      PartnerRepository
	publisher Publisher
	cache     Cache
	log       *slog.Logger

	recordTimeout time.Duration
}

// New создаёт сервис. publisher и cache могут быть nil. Запись продажи
// не зависит от отмены запроса и ограничена recordTimeout.
func New(log *slog.Logger, client pricing.Client, repo PartnerRepository, publisher Publisher, cache Cache, recordTimeout time.Duration) *Service {
	if recordTimeout <= 0 {
		recordTimeout = DefaultRecordTimeout
	}
	return &Service{
		pricing:       client,
		repo:          repo,
		publisher:     publisher,
		cache:         cache,
		log:           log,
		recordTimeout: recordTimeout,
	}
}

// Quote рассчитывает стоимость выбора. Ничего не сохраняет и не оформляет.
func (s *Service) Quote(ctx context.Context, partnerID int64, sel selection.Selection) (*Preview, error) {
	const op = "checkout.Quote"

	if _, err := s.partner(ctx, partnerID); err != nil {
		return nil, s.fail(op, StageQuote, err)
	}

	v, err := s.validate(ctx, sel)
	if err != nil {
		return nil, s.fail(op, StageQuote, err)
	}

	q, err := s.pricing.Quote(ctx, requestFor(v))
	if err != nil {
		return nil, s.fail(op, StageQuote, remote(err))
	}

	record(StageQuote, nil)
	return previewFor(v, q), nil
}

// Subscribe проверяет выбор заново, получает новый расчёт, оформляет подписку
// во внешнем сервисе и записывает продажу вместе с задолженностью партнёра.
// Отказ сервиса возвращается как *pricing.RejectedError, в этом случае
// ничего не сохраняется.
func (s *Service) Subscribe(ctx context.Context, partnerID int64, sel selection.Selection) (*models.Subscription, error) {
	const op = "checkout.Subscribe"
	log := s.log.With(slog.String("op", op), sl.PartnerID(partnerID))

	partner, err := s.partner(ctx, partnerID)
	if err != nil {
		return nil, s.fail(op, StageSubscribe, err)
	}
	if !partner.HasCommission() {
		return nil, s.fail(op, StageSubscribe, ErrCommissionNotSet)
	}

	v, err := s.validate(ctx, sel)
	if err != nil {
		return nil, s.fail(op, StageSubscribe, err)
	}

	req := requestFor(v)
	q, err := s.pricing.Quote(ctx, req)
	if err != nil {
		return nil, s.fail(op, StageSubscribe, remote(err))
	}

	conf, err := s.pricing.Submit(ctx, req)
	if err != nil {
		return nil, s.fail(op, StageSubscribe, remote(err))
	}

	// Подписка уже оформлена во внешнем сервисе: разрыв соединения не должен
	// оставить её без записи и без начисления задолженности.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.recordTimeout)
	defer cancel()

	sub, err := s.repo.CreateSubscription(rctx, partnerID, saleBuilder(v, q))
	if err != nil {
		log.Error("subscription submitted but not recorded",
			slog.String("remote_id", conf.SubscriptionID),
			slog.String("client_email", v.ClientEmail),
			slog.String("total_price", q.TotalPrice.String()),
			sl.Err(err))
		return nil, s.fail(op, StageSubscribe, err)
	}
	record(StageSubscribe, nil)
	log.Info("subscription created",
		slog.Int64("subscription_id", sub.ID),
		slog.String("remote_id", conf.SubscriptionID),
		slog.String("total_price", sub.CostValue.String()))

	s.afterSale(rctx, log, partner, sub)
	return sub, nil
}

func (s *Service) partner(ctx context.Context, partnerID int64) (*models.Partner, error) {
	p, err := s.repo.GetPartner(ctx, partnerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoPartnerProfile
	}
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, ErrPartnerInactive
	}
	return p, nil
}

// validate получает свежий каталог и проверяет выбор по нему.
func (s *Service) validate(ctx context.Context, sel selection.Selection) (selection.Validated, error) {
	cat, err := s.pricing.FetchCatalog(ctx)
	if err != nil {
		return selection.Validated{}, remote(err)
	}
	v, err := selection.Validate(sel, cat)
	if err != nil {
		return selection.Validated{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return v, nil
}

func (s *Service) afterSale(ctx context.Context, log *slog.Logger, partner *models.Partner, sub *models.Subscription) {
	if s.publisher != nil {
		event := models.SubscriptionCreatedEvent{
			EventID:        uuid.NewString(),
			SubscriptionID: sub.ID,
			PartnerID:      partner.ID,
			PartnerEmail:   partner.Email,
			ClientEmail:    sub.ClientEmail,
			TariffName:     sub.TariffName,
			Period:         sub.Period,
			TotalPrice:     sub.CostValue,
			CreatedAt:      sub.CreatedAt,
		}
		if err := s.publisher.Publish(rabbitmq.RoutingKeySubscriptionCreated, event); err != nil {
			log.Warn("failed to publish subscription event", sl.Err(err))
		}
	}
	if s.cache != nil {
		if err := s.cache.Bump(ctx, cache.PartnerStatsGenerationKey(partner.ID)); err != nil {
			log.Warn("failed to bump partner stats generation", sl.Err(err))
		}
	}
}

// saleBuilder возвращает функцию, которая внутри транзакции снимает комиссию
// с заблокированного профиля и считает новую задолженность.
func saleBuilder(v selection.Validated, q *pricing.Quote) repository.BuildFunc {
	return func(p models.Partner) (models.Subscription, decimal.Decimal, error) {
		if !p.Active {
			return models.Subscription{}, decimal.Zero, ErrPartnerInactive
		}
		if !p.HasCommission() {
			return models.Subscription{}, decimal.Zero, ErrCommissionNotSet
		}
		commission := p.Commission.Decimal

		tariffName := q.Tariff.Name
		if tariffName == "" {
			tariffName = v.Tariff.Name
		}
		sub := models.Subscription{
			ClientEmail: v.ClientEmail,
			TariffCode:  v.TariffCode,
			TariffName:  tariffName,
			Period:      v.Period,
			CostValue:   q.TotalPrice,
			Commission:  commission,
			Quotas: models.SubscriptionQuotas{
				Requested: maps.Clone(v.Quotas),
				Extra:     maps.Clone(v.ExtraQuotas),
			},
		}
		return sub, ledger.Apply(p.Debt, q.TotalPrice, commission), nil
	}
}

func requestFor(v selection.Validated) pricing.SubscriptionRequest {
	return pricing.SubscriptionRequest{
		ClientEmail:  v.ClientEmail,
		Period:       v.Period,
		Tariff:       v.TariffCode,
		ExtraQuotas:  maps.Clone(v.ExtraQuotas),
		ExtraOptions: map[string]int{},
	}
}

func previewFor(v selection.Validated, q *pricing.Quote) *Preview {
	return &Preview{
		Quote:       q,
		TariffCode:  v.TariffCode,
		Period:      v.Period,
		ClientEmail: v.ClientEmail,
		Quotas:      maps.Clone(v.Quotas),
		ExtraQuotas: maps.Clone(v.ExtraQuotas),
	}
}

// remote переводит ошибки клиента тарифов в ошибки оформления. Отказ сервиса
// возвращается как есть.
func remote(err error) error {
	var rejected *pricing.RejectedError
	switch {
	case errors.As(err, &rejected):
		return err
	case errors.Is(err, pricing.ErrUnavailable):
		return fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", ErrServerUnavailable, err)
	}
}

func (s *Service) fail(op, stage string, err error) error {
	record(stage, err)
	return fmt.Errorf("%s: %w", op, err)
}

func record(stage string, err error) {
	metrics.CheckoutAttempts.WithLabelValues(stage, Outcome(err)).Inc()
}

// Outcome возвращает метку результата попытки оформления.
func Outcome(err error) string {
	var rejected *pricing.RejectedError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &rejected):
		return "rejected"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrServiceUnavailable):
		return "unavailable"
	case errors.Is(err, ErrServerUnavailable):
		return "server_error"
	case errors.Is(err, ErrNoPartnerProfile):
		return "no_profile"
	case errors.Is(err, ErrCommissionNotSet):
		return "no_commission"
	case errors.Is(err, ErrPartnerInactive):
		return "inactive"
	default:
		return "error"
	}
}
