package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type AdminMock struct {
	mock.Mock
}

func (m *AdminMock) Activate(ctx context.Context, email, password string) error {
	return m.Called(ctx, email, password).Error(0)
}

func (m *AdminMock) Deactivate(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *AdminMock) SetCommission(ctx context.Context, email, value string) error {
	return m.Called(ctx, email, value).Error(0)
}

func run(t *testing.T, admin Admin, args ...string) (string, error) {
	t.Helper()
	closed := false
	root := NewRootCmd(func(context.Context) (Admin, func() error, error) {
		return admin, func() error { closed = true; return nil }, nil
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		assert.True(t, closed)
	}
	return out.String(), err
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		setupMock func(*AdminMock)
		wantOut   string
		wantErr   string
	}{
		{
			name: "activate",
			args: []string{"activate", "--email", "p@example.com", "--password", "s3cret-pass"},
			setupMock: func(m *AdminMock) {
				m.On("Activate", mock.Anything, "p@example.com", "s3cret-pass").Return(nil).Once()
			},
			wantOut: "partner p@example.com activated",
		},
		{
			name:      "activate without password",
			args:      []string{"activate", "--email", "p@example.com"},
			setupMock: func(_ *AdminMock) {},
			wantErr:   `required flag(s) "password" not set`,
		},
		{
			name: "deactivate unknown user",
			args: []string{"deactivate", "--email", "ghost@example.com"},
			setupMock: func(m *AdminMock) {
				m.On("Deactivate", mock.Anything, "ghost@example.com").Return(errors.New("record not found")).Once()
			},
			wantErr: "failed to deactivate ghost@example.com: record not found",
		},
		{
			name: "set commission",
			args: []string{"set-commission", "--email", "p@example.com", "--value", "12.5"},
			setupMock: func(m *AdminMock) {
				m.On("SetCommission", mock.Anything, "p@example.com", "12.5").Return(nil).Once()
			},
			wantOut: "commission of p@example.com set to 12.5%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin := new(AdminMock)
			tt.setupMock(admin)

			out, err := run(t, admin, tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Contains(t, out, tt.wantOut)
			}
			admin.AssertExpectations(t)
		})
	}
}

func TestConnectError(t *testing.T) {
	root := NewRootCmd(func(context.Context) (Admin, func() error, error) {
		return nil, nil, errors.New("dial tcp: refused")
	})
	root.SetArgs([]string{"deactivate", "--email", "p@example.com"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect")
}
