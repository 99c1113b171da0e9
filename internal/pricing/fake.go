package pricing

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/partner-portal/internal/catalog"
)

//go:embed fixtures/*.json
var fixtures embed.FS

// Fake отвечает фиксированными данными из fixtures и не ходит в сеть.
// Используется для локальной отладки (pricing_api.mode: fake).
//
// После Reject(msg) Quote и Submit отказывают с этим сообщением.
type Fake struct {
	catalogBody []byte
	quoteBody   []byte

	mu        sync.Mutex
	rejectMsg string
	submitted []SubscriptionRequest
}

// NewFake загружает встроенные ответы.
func NewFake() (*Fake, error) {
	const op = "pricing.NewFake"
	catalogBody, err := fixtures.ReadFile("fixtures/tariffs.json")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	quoteBody, err := fixtures.ReadFile("fixtures/checkout.json")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Fake{catalogBody: catalogBody, quoteBody: quoteBody}, nil
}

func (f *Fake) FetchCatalog(_ context.Context) (*catalog.Catalog, error) {
	return decodeCatalog(bytes.NewReader(f.catalogBody))
}

func (f *Fake) Quote(_ context.Context, _ SubscriptionRequest) (*Quote, error) {
	if msg := f.rejectMessage(); msg != "" {
		return nil, newRejected(msg)
	}
	return decodeQuote(bytes.NewReader(f.quoteBody))
}

func (f *Fake) Submit(_ context.Context, req SubscriptionRequest) (*Confirmation, error) {
	if msg := f.rejectMessage(); msg != "" {
		return nil, newRejected(msg)
	}
	f.mu.Lock()
	f.submitted = append(f.submitted, req)
	f.mu.Unlock()
	return &Confirmation{SubscriptionID: uuid.NewString()}, nil
}

// Submitted возвращает запросы, принятые Submit.
func (f *Fake) Submitted() []SubscriptionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SubscriptionRequest, len(f.submitted))
	copy(out, f.submitted)
	return out
}

// Reject включает отказ с сообщением msg; пустая строка выключает его.
func (f *Fake) Reject(msg string) {
	f.mu.Lock()
	f.rejectMsg = msg
	f.mu.Unlock()
}

func (f *Fake) rejectMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rejectMsg
}
