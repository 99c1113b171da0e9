// Package account собирает данные личного кабинета партнёра: профиль со
// сводными показателями и историю продаж.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/partner-portal/internal/cache"
	"github.com/magabrotheeeer/partner-portal/internal/catalog"
	"github.com/magabrotheeeer/partner-portal/internal/ledger"
	"github.com/magabrotheeeer/partner-portal/internal/lib/sl"
	"github.com/magabrotheeeer/partner-portal/internal/models"
	"github.com/magabrotheeeer/partner-portal/internal/pricing"
	"github.com/magabrotheeeer/partner-portal/internal/storage/repository"
)

// ErrNoPartnerProfile — у пользователя нет профиля партнёра.
var ErrNoPartnerProfile = errors.New("partner profile not found")

// Repository — хранилище профилей и продаж.
type Repository interface {
	GetPartner(ctx context.Context, partnerID int64) (*models.Partner, error)
	OverallStats(ctx context.Context, partnerID int64) (models.OverallStats, error)
	ListSubscriptions(ctx context.Context, partnerID int64, limit, offset int) ([]models.Subscription, error)
}

// Cache хранит сводные показатели партнёра по поколениям.
type Cache interface {
	Generation(ctx context.Context, key string) (int64, error)
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// CatalogSource отдаёт актуальный каталог тарифов.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) (*catalog.Catalog, error)
}

// Profile — данные страницы профиля. Если сервис тарифов недоступен,
// Tariffs пуст, а Warning содержит сообщение для пользователя.
type Profile struct {
	Partner *models.Partner
	Overall models.OverallStats
	Tariffs []catalog.Tariff
	Warning string
}

type Service struct {
	repo     Repository
	cache    Cache
	catalog  CatalogSource
	statsTTL time.Duration
	log      *slog.Logger
}

// New создаёт сервис. cache может быть nil.
func New(log *slog.Logger, repo Repository, cache Cache, catalog CatalogSource, statsTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		catalog:  catalog,
		statsTTL: statsTTL,
		log:      log,
	}
}

// Profile возвращает профиль партнёра, сводные показатели и каталог тарифов.
func (s *Service) Profile(ctx context.Context, partnerID int64) (*Profile, error) {
	const op = "account.Profile"

	partner, err := s.partner(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	overall, err := s.overall(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	profile := &Profile{Partner: partner, Overall: overall, Tariffs: []catalog.Tariff{}}
	cat, err := s.catalog.FetchCatalog(ctx)
	switch {
	case err == nil:
		profile.Tariffs = cat.Tariffs()
	case errors.Is(err, pricing.ErrUnavailable):
		profile.Warning = pricing.MsgUnavailable
	default:
		profile.Warning = pricing.MsgServerError
	}
	if err != nil {
		s.log.Warn("tariff catalog is unavailable", sl.PartnerID(partnerID), sl.Err(err))
	}
	return profile, nil
}

// History возвращает продажи партнёра, новые первыми, с заработком по каждой.
func (s *Service) History(ctx context.Context, partnerID int64, limit, offset int) ([]models.HistoryItem, error) {
	const op = "account.History"

	if _, err := s.partner(ctx, partnerID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	subs, err := s.repo.ListSubscriptions(ctx, partnerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]models.HistoryItem, 0, len(subs))
	for _, sub := range subs {
		items = append(items, models.HistoryItem{
			ID:          sub.ID,
			ClientEmail: sub.ClientEmail,
			TariffName:  sub.TariffName,
			Period:      sub.Period,
			CostValue:   sub.CostValue,
			Commission:  sub.Commission,
			Revenue:     ledger.Revenue(sub.CostValue, sub.Commission),
			CreatedAt:   sub.CreatedAt,
		})
	}
	return items, nil
}

func (s *Service) partner(ctx context.Context, partnerID int64) (*models.Partner, error) {
	p, err := s.repo.GetPartner(ctx, partnerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoPartnerProfile
	}
	return p, err
}

// overall читает показатели из кэша, при промахе считает их в базе.
// Поколение читается до запроса к базе: если за это время записана продажа,
// посчитанные значения лягут под устаревший ключ. Ошибки кэша не прерывают
// запрос.
func (s *Service) overall(ctx context.Context, partnerID int64) (models.OverallStats, error) {
	if s.cache == nil {
		return s.repo.OverallStats(ctx, partnerID)
	}

	gen, err := s.cache.Generation(ctx, cache.PartnerStatsGenerationKey(partnerID))
	if err != nil {
		s.log.Warn("failed to read partner stats generation", sl.PartnerID(partnerID), sl.Err(err))
		return s.repo.OverallStats(ctx, partnerID)
	}
	key := cache.PartnerStatsKey(partnerID, gen)

	var cached models.OverallStats
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read partner stats from cache", sl.PartnerID(partnerID), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	stats, err := s.repo.OverallStats(ctx, partnerID)
	if err != nil {
		return stats, err
	}
	if err := s.cache.Set(ctx, key, stats, s.statsTTL); err != nil {
		s.log.Warn("failed to cache partner stats", sl.PartnerID(partnerID), sl.Err(err))
	}
	return stats, nil
}
