package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "moneytrack/internal/errors"
	"moneytrack/internal/model"
	"moneytrack/internal/repository"
	"moneytrack/internal/validation"
)

// RecordInput carries the create/update form fields. Date, Amount and
// CategoryID stay raw until validated, so a malformed value surfaces
// as a field error instead of a binding failure.
type RecordInput struct {
	Description string
	Amount      json.RawMessage
	Date        string
	Type        string
	CategoryID  json.RawMessage
}

// RecordService exposes user-scoped record operations.
type RecordService interface {
	List(ctx context.Context, userID uint) ([]model.Record, error)
	ListByCategory(ctx context.Context, userID uint, rawCategoryID string) ([]model.Record, error)
	Get(ctx context.Context, userID uint, rawID string) (*model.Record, error)
	Create(ctx context.Context, userID uint, in RecordInput) (*model.Record, error)
	Update(ctx context.Context, userID uint, rawID string, in RecordInput) (*model.Record, error)
	Delete(ctx context.Context, userID uint, rawID string) (*model.Record, error)
}

type recordService struct {
	records    repository.RecordRepository
	categories repository.CategoryRepository
}

// NewRecordService builds a RecordService.
func NewRecordService(records repository.RecordRepository, categories repository.CategoryRepository) RecordService {
	return &recordService{records: records, categories: categories}
}

func (s *recordService) List(ctx context.Context, userID uint) ([]model.Record, error) {
	return s.records.ListByUser(ctx, userID)
}

// ListByCategory requires the category to exist, then returns the
// caller's records under it.
func (s *recordService) ListByCategory(ctx context.Context, userID uint, rawCategoryID string) ([]model.Record, error) {
	categoryID, ok := parseID(rawCategoryID)
	if !ok {
		return nil, apperrors.NotFound("Category", rawCategoryID)
	}
	if _, err := s.categories.FindByIDAny(ctx, categoryID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Category", rawCategoryID)
		}
		return nil, err
	}
	return s.records.ListByCategory(ctx, userID, categoryID)
}

func (s *recordService) Get(ctx context.Context, userID uint, rawID string) (*model.Record, error) {
	id, ok := parseID(rawID)
	if !ok {
		return nil, apperrors.NotFound("Record", rawID)
	}
	record, err := s.records.FindByID(ctx, userID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Record", rawID)
		}
		return nil, err
	}
	return record, nil
}

func (s *recordService) Create(ctx context.Context, userID uint, in RecordInput) (*model.Record, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	amount, _ := validation.ParseDecimal(in.Amount)
	categoryID, _ := validation.ParseUint(in.CategoryID)
	record := &model.Record{
		Description: strings.TrimSpace(in.Description),
		Amount:      amount,
		Date:        parseDate(in.Date),
		Type:        model.RecordType(in.Type),
		CategoryID:  categoryID,
		UserID:      userID,
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}
	return record, nil
}

func (s *recordService) Update(ctx context.Context, userID uint, rawID string, in RecordInput) (*model.Record, error) {
	id, ok := parseID(rawID)
	if !ok {
		return nil, apperrors.NotFound("Record", rawID)
	}

	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	record, err := s.records.FindByID(ctx, userID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Record", rawID)
		}
		return nil, err
	}

	amount, _ := validation.ParseDecimal(in.Amount)
	categoryID, _ := validation.ParseUint(in.CategoryID)
	record.Description = strings.TrimSpace(in.Description)
	record.Amount = amount
	record.Date = parseDate(in.Date)
	record.Type = model.RecordType(in.Type)
	record.CategoryID = categoryID
	if err := s.records.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}
	return record, nil
}

// Delete removes the record durably and returns what was removed.
func (s *recordService) Delete(ctx context.Context, userID uint, rawID string) (*model.Record, error) {
	id, ok := parseID(rawID)
	if !ok {
		return nil, apperrors.NotFound("Record", rawID)
	}

	record, err := s.records.FindByID(ctx, userID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Record", rawID)
		}
		return nil, err
	}

	if err := s.records.Delete(ctx, userID, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Record", rawID)
		}
		return nil, err
	}
	return record, nil
}

func (s *recordService) validate(ctx context.Context, in RecordInput) error {
	recordTypes := make([]string, len(model.RecordTypes))
	for i, rt := range model.RecordTypes {
		recordTypes[i] = string(rt)
	}
	chain := validation.Chain{
		validation.MaxLength("description", in.Description, 56, "Record title must be less than 56 symbols"),
		validation.Numeric("amount", in.Amount, "Invalid value"),
		validation.ISO8601("date", in.Date, "Invalid value"),
		validation.OneOf("type", in.Type, recordTypes, "Invalid value"),
		validation.NumericID("categoryId", in.CategoryID, "Invalid value"),
	}
	return chain.Run(ctx)
}

// parseDate runs after validation, so one of the accepted layouts
// always matches.
func parseDate(raw string) time.Time {
	if date, err := time.Parse(time.RFC3339, raw); err == nil {
		return date
	}
	date, _ := time.Parse("2006-01-02", raw)
	return date
}
