package history

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

	"github.com/magabrotheeeer/partner-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/partner-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/partner-portal/internal/models"
	"github.com/magabrotheeeer/partner-portal/internal/services/account"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) History(ctx context.Context, partnerID int64, limit, offset int) ([]models.HistoryItem, error) {
	args := m.Called(ctx, partnerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HistoryItem), args.Error(1)
}

func TestHistoryHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	items := []models.HistoryItem{
		{ID: 2, ClientEmail: "b@example.com", CostValue: decimal.NewFromInt(1000), Revenue: decimal.NewFromInt(200)},
		{ID: 1, ClientEmail: "a@example.com", CostValue: decimal.NewFromInt(30990), Revenue: decimal.NewFromInt(6198)},
	}

	tests := []struct {
		name       string
		url        string
		setupMock  func(*MockService)
		wantStatus int
		wantCount  int
		wantError  string
	}{
		{
			name: "default paging",
			url:  "/api/v1/history",
			setupMock: func(m *MockService) {
				m.On("History", mock.Anything, int64(7), 20, 0).Return(items, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantCount:  2,
		},
		{
			name: "explicit paging",
			url:  "/api/v1/history?limit=1&offset=1",
			setupMock: func(m *MockService) {
				m.On("History", mock.Anything, int64(7), 1, 1).Return(items[1:], nil).Once()
			},
			wantStatus: http.StatusOK,
			wantCount:  1,
		},
		{
			name:       "limit too large",
			url:        "/api/v1/history?limit=1000",
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid limit",
		},
		{
			name:       "negative offset",
			url:        "/api/v1/history?offset=-1",
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid offset",
		},
		{
			name: "no profile",
			url:  "/api/v1/history",
			setupMock: func(m *MockService) {
				m.On("History", mock.Anything, int64(7), 20, 0).Return(nil, account.ErrNoPartnerProfile).Once()
			},
			wantStatus: http.StatusForbidden,
			wantError:  "Профиль партнёра не найден.",
		},
		{
			name: "storage error",
			url:  "/api/v1/history",
			setupMock: func(m *MockService) {
				m.On("History", mock.Anything, int64(7), 20, 0).Return(nil, errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Внутренняя ошибка сервера.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			req = req.WithContext(middlewarectx.WithIdentity(req.Context(), jwt.Identity{UserID: 3, PartnerID: 7}))
			rec := httptest.NewRecorder()
			New(log, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var got struct {
				Error string               `json:"error"`
				Data  []models.HistoryItem `json:"data"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantError, got.Error)
			assert.Len(t, got.Data, tt.wantCount)
			svc.AssertExpectations(t)
		})
	}
}
