package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"moneytrack/internal/cache"
	apperrors "moneytrack/internal/errors"
	"moneytrack/internal/model"
	"moneytrack/internal/repository"
	"moneytrack/internal/validation"
)

const msgCategoryExists = "This category is already exists"

// CategoryInput carries the create/update form fields. Limit stays
// raw until validated, so a malformed value surfaces as a field error
// instead of a binding failure.
type CategoryInput struct {
	Title string
	Limit json.RawMessage
}

// CategoryService exposes user-scoped category operations. Path ids
// come in raw so a nonsense id can be echoed back in the 404 message.
type CategoryService interface {
	List(ctx context.Context, userID uint) ([]model.Category, error)
	Get(ctx context.Context, userID uint, rawID string) (*model.Category, error)
	Create(ctx context.Context, userID uint, in CategoryInput) (*model.Category, error)
	Update(ctx context.Context, userID uint, rawID string, in CategoryInput) (*model.Category, error)
	Delete(ctx context.Context, userID uint, rawID string) (*model.Category, error)
}

type categoryService struct {
	categories repository.CategoryRepository
	cache      *cache.Client
}

// NewCategoryService builds a CategoryService with repository and cache.
func NewCategoryService(categories repository.CategoryRepository, cache *cache.Client) CategoryService {
	return &categoryService{categories: categories, cache: cache}
}

func (s *categoryService) listCacheKey(userID uint) string {
	return fmt.Sprintf("category:list:%d", userID)
}

func (s *categoryService) List(ctx context.Context, userID uint) ([]model.Category, error) {
	if data, _ := s.cache.Get(ctx, s.listCacheKey(userID)); data != nil {
		var cached []model.Category
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(categories); err == nil {
		_ = s.cache.Set(ctx, s.listCacheKey(userID), payload, cache.DefaultTTL)
	}
	return categories, nil
}

func (s *categoryService) Get(ctx context.Context, userID uint, rawID string) (*model.Category, error) {
	id, ok := parseID(rawID)
	if !ok {
		return nil, apperrors.NotFound("Category", rawID)
	}
	category, err := s.categories.FindByID(ctx, userID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Category", rawID)
		}
		return nil, err
	}
	return category, nil
}

// Create validates the form and inserts the category. The per-user
// title pre-check is advisory; the composite unique index is the
// source of truth and a racing duplicate maps to the same field error.
func (s *categoryService) Create(ctx context.Context, userID uint, in CategoryInput) (*model.Category, error) {
	title := strings.TrimSpace(in.Title)
	if err := s.validate(ctx, userID, title, in.Limit, 0); err != nil {
		return nil, err
	}

	limit, _ := validation.ParseDecimal(in.Limit)
	category := &model.Category{Title: title, Limit: limit, UserID: userID}
	if err := s.categories.Create(ctx, category); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, validation.Single("title", msgCategoryExists)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	_ = s.cache.Delete(ctx, s.listCacheKey(userID))
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, userID uint, rawID string, in CategoryInput) (*model.Category, error) {
	id, ok := parseID(rawID)
	if !ok {
		return nil, apperrors.NotFound("Category", rawID)
	}

	title := strings.TrimSpace(in.Title)
	if err := s.validate(ctx, userID, title, in.Limit, id); err != nil {
		return nil, err
	}

	category, err := s.categories.FindByID(ctx, userID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Category", rawID)
		}
		return nil, err
	}

	limit, _ := validation.ParseDecimal(in.Limit)
	category.Title = title
	category.Limit = limit
	if err := s.categories.Update(ctx, category); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, validation.Single("title", msgCategoryExists)
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	_ = s.cache.Delete(ctx, s.listCacheKey(userID))
	return category, nil
}

// Delete removes the category. Records keep their categoryId; there is
// no cascade.
func (s *categoryService) Delete(ctx context.Context, userID uint, rawID string) (*model.Category, error) {
	id, ok := parseID(rawID)
	if !ok {
		return nil, apperrors.NotFound("Category", rawID)
	}

	category, err := s.categories.FindByID(ctx, userID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Category", rawID)
		}
		return nil, err
	}

	if err := s.categories.Delete(ctx, userID, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Category", rawID)
		}
		return nil, err
	}

	_ = s.cache.Delete(ctx, s.listCacheKey(userID))
	return category, nil
}

func (s *categoryService) validate(ctx context.Context, userID uint, title string, limit json.RawMessage, excludeID uint) error {
	chain := validation.Chain{
		validation.Length("title", title, 2, 56, "Category title must be at least 2 symbols and less than 56 symbols"),
		validation.Unique("title", func(ctx context.Context) (bool, error) {
			return s.categories.TitleTaken(ctx, userID, title, excludeID)
		}, msgCategoryExists),
		validation.Numeric("limit", limit, "Invalid value"),
	}
	return chain.Run(ctx)
}
