package repository

import (
	"context"
	"ggsc_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.DB.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmails is the batched identity lookup: one IN query for the whole set.
func (r *UserRepository) FindByEmails(ctx context.Context, emails []string) ([]model.User, error) {
	var users []model.User
	if len(emails) == 0 {
		return users, nil
	}
	err := r.DB.WithContext(ctx).Where("email IN ?", emails).Find(&users).Error
	return users, err
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *UserRepository) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	query := r.DB.WithContext(ctx).Model(&model.User{})
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Year != 0 {
		query = query.Where("year = ?", filter.Year)
	}

	var users []model.User
	err := query.Order("created_at DESC").Find(&users).Error
	return users, err
}

// UpdateFields applies updates to one user and returns the fresh row.
func (r *UserRepository) UpdateFields(ctx context.Context, id string, updates map[string]interface{}) (*model.User, error) {
	db := r.DB.WithContext(ctx)
	if len(updates) > 0 {
		result := db.Model(&model.User{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}
