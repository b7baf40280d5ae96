package model

import (
	"fmt"
	"time"
)

const (
	MinRound = 1
	MaxRound = 3
)

type Team struct {
	UUIDBase
	TeamName        string     `gorm:"not null" json:"team_name"`
	TeamNumber      int        `gorm:"uniqueIndex;not null" json:"team_number"`
	Round1Score     *int       `json:"round1_score"`
	Round1UpdatedAt *time.Time `json:"round1_updated_at"`
	Round2Score     *int       `json:"round2_score"`
	Round2UpdatedAt *time.Time `json:"round2_updated_at"`
	Round3Score     *int       `json:"round3_score"`
	Round3UpdatedAt *time.Time `json:"round3_updated_at"`
	TotalScore      *int       `gorm:"->" json:"total_score"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

// RoundScore returns the score recorded for round, or nil when unset or out of range.
func (t *Team) RoundScore(round int) *int {
	switch round {
	case 1:
		return t.Round1Score
	case 2:
		return t.Round2Score
	case 3:
		return t.Round3Score
	}
	return nil
}

func (t *Team) RoundUpdatedAt(round int) *time.Time {
	switch round {
	case 1:
		return t.Round1UpdatedAt
	case 2:
		return t.Round2UpdatedAt
	case 3:
		return t.Round3UpdatedAt
	}
	return nil
}

func ValidRound(round int) bool {
	return round >= MinRound && round <= MaxRound
}

// RoundScoreColumn is only called with a validated round.
func RoundScoreColumn(round int) string {
	return fmt.Sprintf("round%d_score", round)
}

func RoundUpdatedAtColumn(round int) string {
	return fmt.Sprintf("round%d_updated_at", round)
}

// TeamMember links a user to a team. A user has at most one membership.
type TeamMember struct {
	UUIDBase
	TeamID     string  `gorm:"type:uuid;not null" json:"team_id"`
	UserID     string  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Email      string  `gorm:"not null" json:"email"`
	TeamNumber int     `gorm:"index;not null" json:"team_number"`
	TeamName   string  `gorm:"not null" json:"team_name"`
	Role       *string `json:"role"`
}

func (TeamMember) TableName() string {
	return "team_members"
}

// TeamSummary is a row of the team_summary view.
type TeamSummary struct {
	ID          string `json:"id"`
	TeamNumber  int    `json:"team_number"`
	TeamName    string `json:"team_name"`
	Round1Score *int   `json:"round1_score"`
	Round2Score *int   `json:"round2_score"`
	Round3Score *int   `json:"round3_score"`
	TotalScore  *int   `json:"total_score"`
	MemberCount int    `json:"member_count"`
}

func (TeamSummary) TableName() string {
	return "team_summary"
}
