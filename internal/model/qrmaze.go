package model

import "time"

const (
	MinSetNumber = 1
	MaxSetNumber = 5
)

// QrMazeSubmission is one quiz-set result. (email, set_number) is unique in the store.
type QrMazeSubmission struct {
	UUIDBase
	Email          string    `gorm:"size:255;not null" json:"email"`
	SetNumber      int       `gorm:"not null" json:"set_number"`
	Title          string    `gorm:"not null" json:"title"`
	TimeTaken      int       `gorm:"not null" json:"time_taken"`
	CorrectAnswers int       `gorm:"not null" json:"correct_answers"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (QrMazeSubmission) TableName() string {
	return "qrmaze"
}

// QrMazeSetRank is a row of the qrmaze_set_leaderboard view; Rank is computed by the store.
// User columns are nil when the submitting email has no users row.
type QrMazeSetRank struct {
	ID               string
	Email            string
	SetNumber        int
	Title            string
	CorrectAnswers   int
	TimeTaken        int
	CreatedAt        time.Time
	UserID           *string
	FullName         *string
	EnrollmentNumber *string
	Department       *string
	Year             *int
	Rank             int
}

func (QrMazeSetRank) TableName() string {
	return "qrmaze_set_leaderboard"
}

func ValidSetNumber(n int) bool {
	return n >= MinSetNumber && n <= MaxSetNumber
}
