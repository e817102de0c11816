package repository

import (
	"context"

	"gorm.io/gorm"

	"moneytrack/internal/model"
)

// RecordRepository defines record persistence operations, all scoped
// to the owning user.
type RecordRepository interface {
	Create(ctx context.Context, record *model.Record) error
	FindByID(ctx context.Context, userID, id uint) (*model.Record, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Record, error)
	ListByCategory(ctx context.Context, userID, categoryID uint) ([]model.Record, error)
	Update(ctx context.Context, record *model.Record) error
	Delete(ctx context.Context, userID, id uint) error
}

type recordRepository struct {
	db *gorm.DB
}

// NewRecordRepository builds a GORM-backed repository.
func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) Create(ctx context.Context, record *model.Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *recordRepository) FindByID(ctx context.Context, userID, id uint) (*model.Record, error) {
	var record model.Record
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *recordRepository) ListByUser(ctx context.Context, userID uint) ([]model.Record, error) {
	var records []model.Record
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepository) ListByCategory(ctx context.Context, userID, categoryID uint) ([]model.Record, error) {
	var records []model.Record
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepository) Update(ctx context.Context, record *model.Record) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *recordRepository) Delete(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Record{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
