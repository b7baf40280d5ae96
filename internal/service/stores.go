package service

import (
	"context"
	"ggsc_backend/internal/model"
	"time"
)

// The repository package satisfies these; tests substitute in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByEmails(ctx context.Context, emails []string) ([]model.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.User, error)
	List(ctx context.Context, filter model.UserFilter) ([]model.User, error)
	UpdateFields(ctx context.Context, id string, updates map[string]interface{}) (*model.User, error)
}

type GameLevelStore interface {
	Create(ctx context.Context, level *model.GameLevel) error
	FindByEmail(ctx context.Context, email string) ([]model.GameLevel, error)
	FindFastest(ctx context.Context, limit int) ([]model.GameLevel, error)
	FindAll(ctx context.Context) ([]model.GameLevel, error)
	Delete(ctx context.Context, id string) error
}

type QrMazeStore interface {
	Create(ctx context.Context, submission *model.QrMazeSubmission) error
	FindByEmail(ctx context.Context, email string) ([]model.QrMazeSubmission, error)
	FindBySet(ctx context.Context, setNumber int) ([]model.QrMazeSubmission, error)
	FindAll(ctx context.Context) ([]model.QrMazeSubmission, error)
	FindSetLeaderboard(ctx context.Context, setNumber, limit int) ([]model.QrMazeSetRank, error)
	UpdateScore(ctx context.Context, email string, setNumber, timeTaken, correctAnswers int) (*model.QrMazeSubmission, error)
	Delete(ctx context.Context, id string) error
}

type TeamStore interface {
	UpdateRoundScore(ctx context.Context, teamID string, round, score int, at time.Time) (*model.Team, error)
	FindOrderedByRound(ctx context.Context, round int) ([]model.Team, error)
	FindOrderedByTotal(ctx context.Context) ([]model.Team, error)
	ListSummaries(ctx context.Context) ([]model.TeamSummary, error)
	FindSummaryByNumber(ctx context.Context, teamNumber int) (*model.TeamSummary, error)
	CreateRandomAssignments(ctx context.Context, teamSize int, prefix string) ([]map[string]interface{}, error)
	FindMemberByUserID(ctx context.Context, userID string) (*model.TeamMember, error)
	FindMemberByEmail(ctx context.Context, email string) (*model.TeamMember, error)
	FindMembersByTeamNumber(ctx context.Context, teamNumber int) ([]model.TeamMember, error)
	FindMembersByTeamIDs(ctx context.Context, teamIDs []string) ([]model.TeamMember, error)
	ClearMemberships(ctx context.Context) (int64, error)
}

// TokenBlacklist records revoked token IDs until they would have expired anyway.
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RegistrationMailer sends the post-signup confirmation.
type RegistrationMailer interface {
	SendRegistrationEmail(ctx context.Context, user *model.User) error
}
