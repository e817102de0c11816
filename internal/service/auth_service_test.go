package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"moneytrack/internal/auth"
	apperrors "moneytrack/internal/errors"
	"moneytrack/internal/model"
	"moneytrack/internal/validation"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) SetRefreshToken(ctx context.Context, id uint, token *string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uint, fields map[string]interface{}) (*model.User, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func newTestTokens() *auth.TokenService {
	return auth.NewTokenService("test-secret", 15*time.Minute)
}

func TestAuthService_Register(t *testing.T) {
	valid := RegisterInput{
		Email:    "test@example.com",
		Password: "password123",
		Confirm:  "password123",
		Name:     "Test User",
	}

	tests := []struct {
		name       string
		input      RegisterInput
		setupMock  func(*MockUserRepository)
		wantFields []string
	}{
		{
			name:  "successful registration",
			input: valid,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, valid.Email).Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
					Run(func(args mock.Arguments) {
						args.Get(1).(*model.User).ID = 1
					}).Return(nil)
				m.On("SetRefreshToken", mock.Anything, uint(1), mock.AnythingOfType("*string")).Return(nil)
			},
		},
		{
			name:  "email already in use",
			input: valid,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, valid.Email).
					Return(&model.User{ID: 1, Email: valid.Email}, nil)
			},
			wantFields: []string{"email"},
		},
		{
			name: "all failing fields reported together",
			input: RegisterInput{
				Email:    "not-an-email",
				Password: "abc",
				Confirm:  "abd",
				Name:     "x",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "not-an-email").Return(nil, gorm.ErrRecordNotFound)
			},
			wantFields: []string{"email", "password", "confirm", "name"},
		},
		{
			name: "racing duplicate insert maps to field error",
			input: RegisterInput{
				Email:    "race@example.com",
				Password: "password123",
				Confirm:  "password123",
				Name:     "Racer",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			wantFields: []string{"email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAuthService(mockRepo, newTestTokens())
			pair, err := svc.Register(context.Background(), tt.input)

			if len(tt.wantFields) > 0 {
				require.Error(t, err)
				var errs validation.Errors
				require.ErrorAs(t, err, &errs)
				params := make([]string, len(errs))
				for i, fe := range errs {
					params[i] = fe.Param
				}
				assert.Equal(t, tt.wantFields, params)
				assert.Empty(t, pair.AccessToken)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, pair.AccessToken)
				assert.NotEmpty(t, pair.RefreshToken)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           4,
					Email:        "test@example.com",
					PasswordHash: string(hashed),
				}, nil)
				m.On("SetRefreshToken", mock.Anything, uint(4), mock.AnythingOfType("*string")).Return(nil)
			},
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrBadCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           4,
					Email:        "test@example.com",
					PasswordHash: string(hashed),
				}, nil)
			},
			expectedError: apperrors.ErrBadCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAuthService(mockRepo, newTestTokens())
			pair, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, pair.AccessToken)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, pair.AccessToken)
				assert.NotEmpty(t, pair.RefreshToken)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginRejectsMalformedEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewAuthService(mockRepo, newTestTokens())

	_, err := svc.Login(context.Background(), "not-an-email", "password123")

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "email", errs[0].Param)
	mockRepo.AssertNotCalled(t, "FindByEmail")
}

func TestAuthService_Refresh(t *testing.T) {
	stored := "stored-refresh-token"

	t.Run("matching token rotates the pair", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(8)).Return(&model.User{ID: 8, RefreshToken: &stored}, nil)
		var persisted string
		mockRepo.On("SetRefreshToken", mock.Anything, uint(8), mock.AnythingOfType("*string")).
			Run(func(args mock.Arguments) {
				persisted = *args.Get(2).(*string)
			}).Return(nil)

		svc := NewAuthService(mockRepo, newTestTokens())
		pair, err := svc.Refresh(context.Background(), 8, stored)

		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.Equal(t, pair.RefreshToken, persisted)
		assert.NotEqual(t, stored, pair.RefreshToken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("mismatched token rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(8)).Return(&model.User{ID: 8, RefreshToken: &stored}, nil)

		svc := NewAuthService(mockRepo, newTestTokens())
		_, err := svc.Refresh(context.Background(), 8, "some-other-token")

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		mockRepo.AssertNotCalled(t, "SetRefreshToken")
	})

	t.Run("no stored token rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(8)).Return(&model.User{ID: 8}, nil)

		svc := NewAuthService(mockRepo, newTestTokens())
		_, err := svc.Refresh(context.Background(), 8, stored)

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewAuthService(mockRepo, newTestTokens())
		_, err := svc.Refresh(context.Background(), 404, stored)

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestAuthService_Logout(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("SetRefreshToken", mock.Anything, uint(2), (*string)(nil)).Return(nil)

	svc := NewAuthService(mockRepo, newTestTokens())
	require.NoError(t, svc.Logout(context.Background(), 2))
	mockRepo.AssertExpectations(t)
}
