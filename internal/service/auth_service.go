package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"moneytrack/internal/auth"
	apperrors "moneytrack/internal/errors"
	"moneytrack/internal/model"
	"moneytrack/internal/repository"
	"moneytrack/internal/validation"
)

const bcryptCost = 10

const msgEmailTaken = "This email is already used"

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Email    string
	Password string
	Confirm  string
	Name     string
}

// AuthService owns the session lifecycle: register, login, logout and
// refresh-token rotation.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (auth.TokenPair, error)
	Login(ctx context.Context, email, password string) (auth.TokenPair, error)
	Logout(ctx context.Context, userID uint) error
	Refresh(ctx context.Context, userID uint, presented string) (auth.TokenPair, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService) AuthService {
	return &authService{users: users, tokens: tokens}
}

// Register validates the form, creates the user with a hashed password
// and returns a fresh token pair. The email pre-check is a fast path
// only: the unique index is authoritative, and a racing duplicate
// insert maps onto the same field error.
func (s *authService) Register(ctx context.Context, in RegisterInput) (auth.TokenPair, error) {
	chain := validation.Chain{
		validation.Email("email", in.Email, "Enter correct email"),
		validation.Unique("email", func(ctx context.Context) (bool, error) {
			return s.emailTaken(ctx, in.Email)
		}, msgEmailTaken),
		validation.Length("password", in.Password, 6, 56, "Password must be at least 6 symbols and contain only numbers and letters"),
		validation.Equals("confirm", in.Confirm, in.Password, "Passwords should be equal"),
		validation.MinLength("name", in.Name, 2, "Name should be longer than 2 symbols"),
	}
	if err := chain.Run(ctx); err != nil {
		return auth.TokenPair{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: string(hashed),
		Name:         in.Name,
		Bill:         model.DefaultBill,
		Locale:       model.DefaultLocale,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return auth.TokenPair{}, validation.Single("email", msgEmailTaken)
		}
		return auth.TokenPair{}, fmt.Errorf("create user: %w", err)
	}

	return s.startSession(ctx, user.ID)
}

// Login authenticates by email and password. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (auth.TokenPair, error) {
	chain := validation.Chain{
		validation.Email("email", email, "Enter correct email"),
	}
	if err := chain.Run(ctx); err != nil {
		return auth.TokenPair{}, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return auth.TokenPair{}, apperrors.ErrBadCredentials
		}
		return auth.TokenPair{}, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return auth.TokenPair{}, apperrors.ErrBadCredentials
	}

	// Overwrites any prior refresh token: other sessions are logged out.
	return s.startSession(ctx, user.ID)
}

// Logout clears the stored refresh token. Clearing an already-empty
// token is a no-op. Issued access tokens stay valid until expiry.
func (s *authService) Logout(ctx context.Context, userID uint) error {
	return s.users.SetRefreshToken(ctx, userID, nil)
}

// Refresh rotates the token pair when the presented refresh token is
// exactly the one on file for the user.
func (s *authService) Refresh(ctx context.Context, userID uint, presented string) (auth.TokenPair, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return auth.TokenPair{}, apperrors.ErrUnauthorized
		}
		return auth.TokenPair{}, fmt.Errorf("find user: %w", err)
	}

	if presented == "" || user.RefreshToken == nil || *user.RefreshToken != presented {
		return auth.TokenPair{}, apperrors.ErrUnauthorized
	}

	return s.startSession(ctx, user.ID)
}

// startSession issues a pair and persists its refresh half, making it
// the single live session for the user.
func (s *authService) startSession(ctx context.Context, userID uint) (auth.TokenPair, error) {
	pair, err := s.tokens.IssuePair(userID)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("issue token pair: %w", err)
	}
	if err := s.users.SetRefreshToken(ctx, userID, &pair.RefreshToken); err != nil {
		return auth.TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	return pair, nil
}

func (s *authService) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return false, err
}
