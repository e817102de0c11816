package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneytrack/internal/cache"
	apperrors "moneytrack/internal/errors"
	"moneytrack/internal/model"
	"moneytrack/internal/repository"
	"moneytrack/internal/validation"
)

// UserInfo is the profile slice a user may read and change.
type UserInfo struct {
	Name   string          `json:"name"`
	Bill   decimal.Decimal `json:"bill"`
	Locale string          `json:"locale"`
}

// UpdateInfoInput carries the PATCH body; absent fields stay
// untouched. Bill stays raw until validated.
type UpdateInfoInput struct {
	Name   *string
	Bill   json.RawMessage
	Locale *string
}

// UserService exposes profile operations.
type UserService interface {
	GetInfo(ctx context.Context, userID uint) (*UserInfo, error)
	UpdateInfo(ctx context.Context, userID uint, in UpdateInfoInput) (*UserInfo, error)
}

type userService struct {
	users repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(users repository.UserRepository, cache *cache.Client) UserService {
	return &userService{users: users, cache: cache}
}

func (s *userService) cacheKey(userID uint) string {
	return fmt.Sprintf("user:info:%d", userID)
}

func (s *userService) GetInfo(ctx context.Context, userID uint) (*UserInfo, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(userID)); data != nil {
		var cached UserInfo
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("User", fmt.Sprint(userID))
		}
		return nil, err
	}

	info := &UserInfo{Name: user.Name, Bill: user.Bill, Locale: user.Locale}
	if payload, err := json.Marshal(info); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(userID), payload, cache.DefaultTTL)
	}
	return info, nil
}

// UpdateInfo validates and applies the provided profile fields only.
func (s *userService) UpdateInfo(ctx context.Context, userID uint, in UpdateInfoInput) (*UserInfo, error) {
	var chain validation.Chain
	if in.Name != nil {
		chain = append(chain, validation.MinLength("name", *in.Name, 3, "Name should be longer than 3 symbols"))
	}
	if len(in.Bill) > 0 {
		chain = append(chain, validation.Numeric("bill", in.Bill, "Invalid value"))
	}
	if in.Locale != nil {
		chain = append(chain, validation.OneOf("locale", *in.Locale, model.AvailableLocales, "Invalid value"))
	}
	if err := chain.Run(ctx); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if len(in.Bill) > 0 {
		bill, _ := validation.ParseDecimal(in.Bill)
		fields["bill"] = bill
	}
	if in.Locale != nil {
		fields["locale"] = *in.Locale
	}

	user, err := s.users.UpdateProfile(ctx, userID, fields)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("User", fmt.Sprint(userID))
		}
		return nil, err
	}

	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return &UserInfo{Name: user.Name, Bill: user.Bill, Locale: user.Locale}, nil
}
