package repository

import (
	"context"
	"ggsc_backend/internal/model"

	"gorm.io/gorm"
)

type GameLevelRepository struct {
	DB *gorm.DB
}

func NewGameLevelRepository(db *gorm.DB) *GameLevelRepository {
	return &GameLevelRepository{DB: db}
}

func (r *GameLevelRepository) Create(ctx context.Context, level *model.GameLevel) error {
	return translate(r.DB.WithContext(ctx).Create(level).Error)
}

func (r *GameLevelRepository) FindByEmail(ctx context.Context, email string) ([]model.GameLevel, error) {
	var levels []model.GameLevel
	err := r.DB.WithContext(ctx).
		Where("email = ?", email).
		Order("completed_at DESC").
		Find(&levels).Error
	return levels, err
}

// FindFastest orders by total game time; ties go to the earlier completion.
func (r *GameLevelRepository) FindFastest(ctx context.Context, limit int) ([]model.GameLevel, error) {
	var levels []model.GameLevel
	err := r.DB.WithContext(ctx).
		Order("total_game_time ASC NULLS LAST").
		Order("completed_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&levels).Error
	return levels, err
}

func (r *GameLevelRepository) FindAll(ctx context.Context) ([]model.GameLevel, error) {
	var levels []model.GameLevel
	err := r.DB.WithContext(ctx).Order("completed_at DESC").Find(&levels).Error
	return levels, err
}

func (r *GameLevelRepository) Delete(ctx context.Context, id string) error {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.GameLevel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
