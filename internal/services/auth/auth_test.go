package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/magabrotheeeer/partner-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/partner-portal/internal/lib/password"
	"github.com/magabrotheeeer/partner-portal/internal/models"
	"github.com/magabrotheeeer/partner-portal/internal/services/auth"
	"github.com/magabrotheeeer/partner-portal/internal/storage/repository"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) RegisterPartner(ctx context.Context, user models.User, partner models.Partner) (*models.Partner, error) {
	args := m.Called(ctx, user, partner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Partner), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetPartnerByUserID(ctx context.Context, userID int64) (*models.Partner, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Partner), args.Error(1)
}

type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(identity customjwt.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func registerRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Email:       " Partner@Example.com ",
		FirstName:   "Иван",
		LastName:    "Петров",
		Phone:       "+79990000000",
		INN:         "7707083893",
		CompanyName: "ООО Ромашка",
	}
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name: "success",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterPartner", mock.Anything,
					models.User{Email: "partner@example.com"},
					mock.MatchedBy(func(p models.Partner) bool {
						return p.INN == "7707083893" && p.CompanyName == "ООО Ромашка"
					}),
				).Return(&models.Partner{ID: 1, Email: "partner@example.com"}, nil).Once()
			},
		},
		{
			name: "duplicate email",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterPartner", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, repository.ErrAlreadyExists).Once()
			},
			wantErr: auth.ErrUserExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			svc := auth.New(repo, new(JwtMakerMock))

			p, err := svc.Register(context.Background(), registerRequest())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
			} else {
				require.NoError(t, err)
				assert.EqualValues(t, 1, p.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("correct-password")
	require.NoError(t, err)

	activeUser := &models.User{ID: 3, Email: "partner@example.com", PasswordHash: hash, IsActive: true}
	inactiveUser := &models.User{ID: 4, Email: "new@example.com", PasswordHash: hash}
	noPassword := &models.User{ID: 5, Email: "applicant@example.com"}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantToken  string
		wantErr    error
	}{
		{
			name:     "success with partner",
			email:    "Partner@example.com",
			password: "correct-password",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "partner@example.com").Return(activeUser, nil).Once()
				r.On("GetPartnerByUserID", mock.Anything, int64(3)).Return(&models.Partner{ID: 9}, nil).Once()
				j.On("GenerateToken", customjwt.Identity{UserID: 3, Email: "partner@example.com", PartnerID: 9}).
					Return("token", nil).Once()
			},
			wantToken: "token",
		},
		{
			name:     "success without partner profile",
			email:    "partner@example.com",
			password: "correct-password",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "partner@example.com").Return(activeUser, nil).Once()
				r.On("GetPartnerByUserID", mock.Anything, int64(3)).Return(nil, repository.ErrNotFound).Once()
				j.On("GenerateToken", customjwt.Identity{UserID: 3, Email: "partner@example.com"}).
					Return("admin-token", nil).Once()
			},
			wantToken: "admin-token",
		},
		{
			name:     "unknown user",
			email:    "ghost@example.com",
			password: "whatever1",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "partner@example.com",
			password: "wrong-password",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "partner@example.com").Return(activeUser, nil).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "inactive user",
			email:    "new@example.com",
			password: "correct-password",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "new@example.com").Return(inactiveUser, nil).Once()
			},
			wantErr: auth.ErrInactive,
		},
		{
			name:     "password not set yet",
			email:    "applicant@example.com",
			password: "anything-at-all",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "applicant@example.com").Return(noPassword, nil).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "token error",
			email:    "partner@example.com",
			password: "correct-password",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "partner@example.com").Return(activeUser, nil).Once()
				r.On("GetPartnerByUserID", mock.Anything, int64(3)).Return(&models.Partner{ID: 9}, nil).Once()
				j.On("GenerateToken", mock.Anything).Return("", errors.New("sign failed")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jm := new(JwtMakerMock)
			tt.setupMocks(repo, jm)
			svc := auth.New(repo, jm)

			token, err := svc.Login(context.Background(), tt.email, tt.password)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
			case tt.wantToken != "":
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			default:
				require.Error(t, err)
			}
			repo.AssertExpectations(t)
			jm.AssertExpectations(t)
		})
	}
}
