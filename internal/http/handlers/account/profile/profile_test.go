package profile

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/partner-portal/internal/catalog"
	"github.com/magabrotheeeer/partner-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/partner-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/partner-portal/internal/models"
	"github.com/magabrotheeeer/partner-portal/internal/pricing"
	"github.com/magabrotheeeer/partner-portal/internal/services/account"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Profile(ctx context.Context, partnerID int64) (*account.Profile, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Profile), args.Error(1)
}

func TestProfileHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	partner := &models.Partner{
		ID:          7,
		Email:       "partner@example.com",
		CompanyName: "ООО Ромашка",
		Debt:        decimal.RequireFromString("24892.00"),
		Commission:  decimal.NewNullDecimal(decimal.NewFromInt(20)),
	}

	tests := []struct {
		name        string
		partnerID   int64
		setupMock   func(*MockService)
		wantStatus  int
		wantWarning string
		wantError   string
		wantRedir   string
	}{
		{
			name:      "profile with catalog",
			partnerID: 7,
			setupMock: func(m *MockService) {
				m.On("Profile", mock.Anything, int64(7)).Return(&account.Profile{
					Partner: partner,
					Overall: models.OverallStats{Count: 1, Sales: decimal.NewFromInt(30990), Revenue: decimal.NewFromInt(6198)},
					Tariffs: []catalog.Tariff{{Code: "start", Name: "Старт"}},
				}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:      "catalog unavailable",
			partnerID: 7,
			setupMock: func(m *MockService) {
				m.On("Profile", mock.Anything, int64(7)).Return(&account.Profile{
					Partner: partner,
					Tariffs: []catalog.Tariff{},
					Warning: pricing.MsgUnavailable,
				}, nil).Once()
			},
			wantStatus:  http.StatusOK,
			wantWarning: pricing.MsgUnavailable,
		},
		{
			name:       "no partner in token",
			partnerID:  0,
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusForbidden,
			wantError:  "Профиль партнёра не найден.",
			wantRedir:  "/",
		},
		{
			name:      "partner deleted",
			partnerID: 7,
			setupMock: func(m *MockService) {
				m.On("Profile", mock.Anything, int64(7)).Return(nil, account.ErrNoPartnerProfile).Once()
			},
			wantStatus: http.StatusForbidden,
			wantError:  "Профиль партнёра не найден.",
			wantRedir:  "/",
		},
		{
			name:      "storage error",
			partnerID: 7,
			setupMock: func(m *MockService) {
				m.On("Profile", mock.Anything, int64(7)).Return(nil, errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Внутренняя ошибка сервера.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
			req = req.WithContext(middlewarectx.WithIdentity(req.Context(), jwt.Identity{UserID: 3, PartnerID: tt.partnerID}))
			rec := httptest.NewRecorder()
			New(log, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var got struct {
				Status   string `json:"status"`
				Error    string `json:"error"`
				Redirect string `json:"redirect"`
				Data     View   `json:"data"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantError, got.Error)
			assert.Equal(t, tt.wantRedir, got.Redirect)
			if tt.wantError == "" {
				assert.Equal(t, "ООО Ромашка", got.Data.CompanyName)
				assert.Equal(t, tt.wantWarning, got.Data.Warning)
				require.NotNil(t, got.Data.Commission)
				assert.True(t, got.Data.Commission.Equal(decimal.NewFromInt(20)))
				assert.NotNil(t, got.Data.Tariffs)
			}
			svc.AssertExpectations(t)
		})
	}
}
