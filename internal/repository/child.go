package repository

import (
	"context"
	"errors"

	"kindnest/internal/models"

	"gorm.io/gorm"
)

// ChildRepository defines persistence operations for child profiles.
type ChildRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Child, error)
	GetByUsername(ctx context.Context, username string) (*models.Child, error)
	Create(ctx context.Context, child *models.Child) error
	Update(ctx context.Context, child *models.Child) error
	List(ctx context.Context, limit, offset int) ([]models.Child, error)
}

type childRepository struct {
	db *gorm.DB
}

// NewChildRepository returns a new ChildRepository implementation.
func NewChildRepository(db *gorm.DB) ChildRepository {
	return &childRepository{db: db}
}

func (r *childRepository) GetByID(ctx context.Context, id uint) (*models.Child, error) {
	var child models.Child
	if err := r.db.WithContext(ctx).First(&child, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Child", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &child, nil
}

func (r *childRepository) GetByUsername(ctx context.Context, username string) (*models.Child, error) {
	var child models.Child
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&child).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Child", username)
		}
		return nil, models.NewInternalError(err)
	}
	return &child, nil
}

func (r *childRepository) Create(ctx context.Context, child *models.Child) error {
	if err := r.db.WithContext(ctx).Create(child).Error; err != nil {
		if IsUniqueViolation(err) {
			return models.NewValidationError("Username is already taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *childRepository) Update(ctx context.Context, child *models.Child) error {
	if err := r.db.WithContext(ctx).Save(child).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *childRepository) List(ctx context.Context, limit, offset int) ([]models.Child, error) {
	var children []models.Child
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&children).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return children, nil
}
