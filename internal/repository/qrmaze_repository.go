package repository

import (
	"context"
	"ggsc_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QrMazeRepository struct {
	DB *gorm.DB
}

func NewQrMazeRepository(db *gorm.DB) *QrMazeRepository {
	return &QrMazeRepository{DB: db}
}

// Create inserts a submission. A second submission for the same (email, set_number)
// fails with ErrDuplicateKey.
func (r *QrMazeRepository) Create(ctx context.Context, submission *model.QrMazeSubmission) error {
	return translate(r.DB.WithContext(ctx).Create(submission).Error)
}

func (r *QrMazeRepository) FindByEmail(ctx context.Context, email string) ([]model.QrMazeSubmission, error) {
	var submissions []model.QrMazeSubmission
	err := r.DB.WithContext(ctx).
		Where("email = ?", email).
		Order("set_number ASC").
		Find(&submissions).Error
	return submissions, err
}

func (r *QrMazeRepository) FindBySet(ctx context.Context, setNumber int) ([]model.QrMazeSubmission, error) {
	var submissions []model.QrMazeSubmission
	err := r.DB.WithContext(ctx).
		Where("set_number = ?", setNumber).
		Order("correct_answers DESC").
		Order("time_taken ASC").
		Find(&submissions).Error
	return submissions, err
}

func (r *QrMazeRepository) FindAll(ctx context.Context) ([]model.QrMazeSubmission, error) {
	var submissions []model.QrMazeSubmission
	err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&submissions).Error
	return submissions, err
}

// FindSetLeaderboard reads the store-ranked view for one set.
func (r *QrMazeRepository) FindSetLeaderboard(ctx context.Context, setNumber, limit int) ([]model.QrMazeSetRank, error) {
	var rows []model.QrMazeSetRank
	err := r.DB.WithContext(ctx).
		Where("set_number = ?", setNumber).
		Order("rank ASC").
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *QrMazeRepository) UpdateScore(ctx context.Context, email string, setNumber, timeTaken, correctAnswers int) (*model.QrMazeSubmission, error) {
	var submission model.QrMazeSubmission
	result := r.DB.WithContext(ctx).
		Model(&submission).
		Clauses(clause.Returning{}).
		Where("email = ? AND set_number = ?", email, setNumber).
		Updates(map[string]interface{}{
			"time_taken":      timeTaken,
			"correct_answers": correctAnswers,
		})
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &submission, nil
}

func (r *QrMazeRepository) Delete(ctx context.Context, id string) error {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.QrMazeSubmission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
