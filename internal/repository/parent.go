package repository

import (
	"context"
	"errors"

	"kindnest/internal/models"

	"gorm.io/gorm"
)

// ParentRepository defines persistence operations for guardian profiles.
type ParentRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Parent, error)
	GetByUsername(ctx context.Context, username string) (*models.Parent, error)
	GetByEmail(ctx context.Context, email string) (*models.Parent, error)
	Create(ctx context.Context, parent *models.Parent) error
	Update(ctx context.Context, parent *models.Parent) error
}

type parentRepository struct {
	db *gorm.DB
}

// NewParentRepository returns a new ParentRepository implementation.
func NewParentRepository(db *gorm.DB) ParentRepository {
	return &parentRepository{db: db}
}

func (r *parentRepository) GetByID(ctx context.Context, id uint) (*models.Parent, error) {
	var parent models.Parent
	if err := r.db.WithContext(ctx).First(&parent, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Parent", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &parent, nil
}

func (r *parentRepository) GetByUsername(ctx context.Context, username string) (*models.Parent, error) {
	var parent models.Parent
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Parent", username)
		}
		return nil, models.NewInternalError(err)
	}
	return &parent, nil
}

func (r *parentRepository) GetByEmail(ctx context.Context, email string) (*models.Parent, error) {
	var parent models.Parent
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Parent", email)
		}
		return nil, models.NewInternalError(err)
	}
	return &parent, nil
}

func (r *parentRepository) Create(ctx context.Context, parent *models.Parent) error {
	if err := r.db.WithContext(ctx).Create(parent).Error; err != nil {
		if IsUniqueViolation(err) {
			return models.NewValidationError("Username or email is already taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *parentRepository) Update(ctx context.Context, parent *models.Parent) error {
	if err := r.db.WithContext(ctx).Save(parent).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
