package repository

import (
	"context"
	"fmt"
	"ggsc_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RandomTeamProcedure is defined in the database, outside this repository.
const RandomTeamProcedure = "create_random_team_assignments"

type TeamRepository struct {
	DB *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{DB: db}
}

// UpdateRoundScore writes one round's score and timestamp, leaving the other rounds untouched.
// round must already be validated.
func (r *TeamRepository) UpdateRoundScore(ctx context.Context, teamID string, round, score int, at time.Time) (*model.Team, error) {
	var team model.Team
	result := r.DB.WithContext(ctx).
		Model(&team).
		Clauses(clause.Returning{}).
		Where("id = ?", teamID).
		Updates(map[string]interface{}{
			model.RoundScoreColumn(round):     score,
			model.RoundUpdatedAtColumn(round): at,
		})
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &team, nil
}

func (r *TeamRepository) FindOrderedByRound(ctx context.Context, round int) ([]model.Team, error) {
	var teams []model.Team
	err := r.DB.WithContext(ctx).
		Order(fmt.Sprintf("%s DESC NULLS LAST", model.RoundScoreColumn(round))).
		Order("team_number ASC").
		Find(&teams).Error
	return teams, err
}

func (r *TeamRepository) FindOrderedByTotal(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	err := r.DB.WithContext(ctx).
		Order("total_score DESC NULLS LAST").
		Order("team_number ASC").
		Find(&teams).Error
	return teams, err
}

func (r *TeamRepository) ListSummaries(ctx context.Context) ([]model.TeamSummary, error) {
	var summaries []model.TeamSummary
	err := r.DB.WithContext(ctx).Order("team_number ASC").Find(&summaries).Error
	return summaries, err
}

func (r *TeamRepository) FindSummaryByNumber(ctx context.Context, teamNumber int) (*model.TeamSummary, error) {
	var summary model.TeamSummary
	err := r.DB.WithContext(ctx).Where("team_number = ?", teamNumber).First(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// CreateRandomAssignments runs the store procedure and returns its rows as-is.
func (r *TeamRepository) CreateRandomAssignments(ctx context.Context, teamSize int, prefix string) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	err := r.DB.WithContext(ctx).
		Raw(fmt.Sprintf("SELECT * FROM %s(?, ?)", RandomTeamProcedure), teamSize, prefix).
		Scan(&rows).Error
	return rows, err
}

func (r *TeamRepository) FindMemberByUserID(ctx context.Context, userID string) (*model.TeamMember, error) {
	var member model.TeamMember
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *TeamRepository) FindMemberByEmail(ctx context.Context, email string) (*model.TeamMember, error) {
	var member model.TeamMember
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *TeamRepository) FindMembersByTeamNumber(ctx context.Context, teamNumber int) ([]model.TeamMember, error) {
	var members []model.TeamMember
	err := r.DB.WithContext(ctx).
		Where("team_number = ?", teamNumber).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *TeamRepository) FindMembersByTeamIDs(ctx context.Context, teamIDs []string) ([]model.TeamMember, error) {
	var members []model.TeamMember
	if len(teamIDs) == 0 {
		return members, nil
	}
	err := r.DB.WithContext(ctx).
		Where("team_id IN ?", teamIDs).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

// ClearMemberships removes every team assignment.
func (r *TeamRepository) ClearMemberships(ctx context.Context) (int64, error) {
	result := r.DB.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.TeamMember{})
	return result.RowsAffected, result.Error
}
