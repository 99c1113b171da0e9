package admin

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/partner-portal/internal/ledger"
	"github.com/magabrotheeeer/partner-portal/internal/lib/password"
	"github.com/magabrotheeeer/partner-portal/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ActivateUser(ctx context.Context, email, passwordHash string) error {
	return m.Called(ctx, email, passwordHash).Error(0)
}

func (m *RepoMock) DeactivateUser(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *RepoMock) SetCommission(ctx context.Context, email string, pct decimal.Decimal) error {
	return m.Called(ctx, email, pct).Error(0)
}

func TestService_Activate(t *testing.T) {
	r := new(RepoMock)
	r.On("ActivateUser", mock.Anything, "partner@example.com", mock.MatchedBy(func(hash string) bool {
		return password.CompareHash(hash, "s3cret-pass") == nil
	})).Return(nil).Once()

	svc := New(r)
	require.NoError(t, svc.Activate(context.Background(), "Partner@Example.com", "s3cret-pass"))
	r.AssertExpectations(t)

	err := svc.Activate(context.Background(), "partner@example.com", "short")
	require.ErrorIs(t, err, password.ErrTooShort)
}

func TestService_Deactivate(t *testing.T) {
	r := new(RepoMock)
	r.On("DeactivateUser", mock.Anything, "ghost@example.com").Return(repository.ErrNotFound).Once()

	err := New(r).Deactivate(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestService_SetCommission(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{value: "20"},
		{value: " 12.5 "},
		{value: "0"},
		{value: "100"},
		{value: "12.55", wantErr: true},
		{value: "101", wantErr: true},
		{value: "-1", wantErr: true},
		{value: "twenty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			r := new(RepoMock)
			if !tt.wantErr {
				r.On("SetCommission", mock.Anything, "partner@example.com", mock.AnythingOfType("decimal.Decimal")).Return(nil).Once()
			}

			err := New(r).SetCommission(context.Background(), "partner@example.com", tt.value)
			if tt.wantErr {
				require.ErrorIs(t, err, ledger.ErrInvalidCommission)
				r.AssertNotCalled(t, "SetCommission", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			r.AssertExpectations(t)
		})
	}
}

func TestService_SetCommission_PassesExactValue(t *testing.T) {
	r := new(RepoMock)
	var got decimal.Decimal
	r.On("SetCommission", mock.Anything, "partner@example.com", mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(2).(decimal.Decimal) }).
		Return(nil).Once()

	require.NoError(t, New(r).SetCommission(context.Background(), "partner@example.com", "12.5"))
	assert.True(t, got.Equal(decimal.RequireFromString("12.5")))
}
