package service

import (
	"ggsc_backend/internal/model"
	"math"
	"sort"
	"strconv"
	"time"
)

// LeaderboardLimit caps every ranked list.
const LeaderboardLimit = 100

// Decimal2 is a float rendered with exactly two decimals, e.g. 3.50.
type Decimal2 float64

func (d Decimal2) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(d), 'f', 2, 64)), nil
}

func round2(v float64) Decimal2 {
	return Decimal2(math.Round(v*100) / 100)
}

// QrMazeTotals is one participant's aggregate across all quiz sets.
type QrMazeTotals struct {
	Rank                int
	Email               string
	SetsCompleted       int
	TotalCorrectAnswers int
	TotalTimeTaken      int
	AvgCorrectAnswers   Decimal2
	AvgTimeTaken        Decimal2
	LastSubmission      time.Time
}

// AggregateQrMazeTotals groups submissions by email, orders by total correct answers
// (desc), then total time (asc), then email, and assigns 1-based ranks. limit <= 0 means no cap.
func AggregateQrMazeTotals(submissions []model.QrMazeSubmission, limit int) []QrMazeTotals {
	byEmail := make(map[string]*QrMazeTotals)
	order := make([]string, 0)
	for i := range submissions {
		s := &submissions[i]
		t, ok := byEmail[s.Email]
		if !ok {
			t = &QrMazeTotals{Email: s.Email}
			byEmail[s.Email] = t
			order = append(order, s.Email)
		}
		t.SetsCompleted++
		t.TotalCorrectAnswers += s.CorrectAnswers
		t.TotalTimeTaken += s.TimeTaken
		if s.CreatedAt.After(t.LastSubmission) {
			t.LastSubmission = s.CreatedAt
		}
	}

	totals := make([]QrMazeTotals, 0, len(order))
	for _, email := range order {
		t := byEmail[email]
		n := float64(t.SetsCompleted)
		t.AvgCorrectAnswers = round2(float64(t.TotalCorrectAnswers) / n)
		t.AvgTimeTaken = round2(float64(t.TotalTimeTaken) / n)
		totals = append(totals, *t)
	}

	sort.SliceStable(totals, func(i, j int) bool {
		a, b := totals[i], totals[j]
		if a.TotalCorrectAnswers != b.TotalCorrectAnswers {
			return a.TotalCorrectAnswers > b.TotalCorrectAnswers
		}
		if a.TotalTimeTaken != b.TotalTimeTaken {
			return a.TotalTimeTaken < b.TotalTimeTaken
		}
		return a.Email < b.Email
	})

	if limit > 0 && len(totals) > limit {
		totals = totals[:limit]
	}
	for i := range totals {
		totals[i].Rank = i + 1
	}
	return totals
}

// sortTeamsByScore orders teams by score descending with unscored teams last.
// Equal scores keep the incoming order. This is the ranking that counts: the store's
// ORDER BY only supplies the team_number tie-break, and stores without one still rank correctly.
func sortTeamsByScore(teams []model.Team, score func(*model.Team) *int) {
	sort.SliceStable(teams, func(i, j int) bool {
		a, b := score(&teams[i]), score(&teams[j])
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return *a > *b
	})
}
