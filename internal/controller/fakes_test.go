package controller

import (
	"context"
	"errors"
	"fmt"
	"ggsc_backend/internal/model"
	"ggsc_backend/internal/repository"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeUsers struct {
	users []model.User
	calls int
}

func (f *fakeUsers) Create(ctx context.Context, user *model.User) error {
	f.calls++
	user.ID = uuid.New().String()
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUsers) FindByID(ctx context.Context, id string) (*model.User, error) {
	f.calls++
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	f.calls++
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) FindByEmails(ctx context.Context, emails []string) ([]model.User, error) {
	f.calls++
	var out []model.User
	for _, u := range f.users {
		for _, e := range emails {
			if u.Email == e {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUsers) FindByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	f.calls++
	var out []model.User
	for _, u := range f.users {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUsers) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	f.calls++
	return f.users, nil
}

func (f *fakeUsers) UpdateFields(ctx context.Context, id string, updates map[string]interface{}) (*model.User, error) {
	f.calls++
	return f.FindByID(ctx, id)
}

type fakeQrMaze struct {
	rows  []model.QrMazeSubmission
	calls int
}

func (f *fakeQrMaze) Create(ctx context.Context, s *model.QrMazeSubmission) error {
	f.calls++
	for _, r := range f.rows {
		if r.Email == s.Email && r.SetNumber == s.SetNumber {
			return fmt.Errorf("%w: qrmaze_email_set_number_key", repository.ErrDuplicateKey)
		}
	}
	s.ID = uuid.New().String()
	s.CreatedAt = time.Now()
	f.rows = append(f.rows, *s)
	return nil
}

func (f *fakeQrMaze) FindByEmail(ctx context.Context, email string) ([]model.QrMazeSubmission, error) {
	f.calls++
	var out []model.QrMazeSubmission
	for _, r := range f.rows {
		if r.Email == email {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeQrMaze) FindBySet(ctx context.Context, setNumber int) ([]model.QrMazeSubmission, error) {
	f.calls++
	var out []model.QrMazeSubmission
	for _, r := range f.rows {
		if r.SetNumber == setNumber {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeQrMaze) FindAll(ctx context.Context) ([]model.QrMazeSubmission, error) {
	f.calls++
	return f.rows, nil
}

func (f *fakeQrMaze) FindSetLeaderboard(ctx context.Context, setNumber, limit int) ([]model.QrMazeSetRank, error) {
	f.calls++
	return []model.QrMazeSetRank{}, nil
}

func (f *fakeQrMaze) UpdateScore(ctx context.Context, email string, setNumber, timeTaken, correctAnswers int) (*model.QrMazeSubmission, error) {
	f.calls++
	for i := range f.rows {
		if f.rows[i].Email == email && f.rows[i].SetNumber == setNumber {
			f.rows[i].TimeTaken = timeTaken
			f.rows[i].CorrectAnswers = correctAnswers
			r := f.rows[i]
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQrMaze) Delete(ctx context.Context, id string) error {
	f.calls++
	return gorm.ErrRecordNotFound
}

type fakeTeams struct {
	teams []model.Team
	calls int
}

func (f *fakeTeams) UpdateRoundScore(ctx context.Context, teamID string, round, score int, at time.Time) (*model.Team, error) {
	f.calls++
	for i := range f.teams {
		if f.teams[i].ID != teamID {
			continue
		}
		s := score
		switch round {
		case 1:
			f.teams[i].Round1Score, f.teams[i].Round1UpdatedAt = &s, &at
		case 2:
			f.teams[i].Round2Score, f.teams[i].Round2UpdatedAt = &s, &at
		case 3:
			f.teams[i].Round3Score, f.teams[i].Round3UpdatedAt = &s, &at
		}
		t := f.teams[i]
		return &t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTeams) FindOrderedByRound(ctx context.Context, round int) ([]model.Team, error) {
	f.calls++
	return f.teams, nil
}

func (f *fakeTeams) FindOrderedByTotal(ctx context.Context) ([]model.Team, error) {
	f.calls++
	return f.teams, nil
}

func (f *fakeTeams) ListSummaries(ctx context.Context) ([]model.TeamSummary, error) {
	f.calls++
	return nil, nil
}

func (f *fakeTeams) FindSummaryByNumber(ctx context.Context, teamNumber int) (*model.TeamSummary, error) {
	f.calls++
	for _, t := range f.teams {
		if t.TeamNumber == teamNumber {
			return &model.TeamSummary{ID: t.ID, TeamNumber: t.TeamNumber, TeamName: t.TeamName}, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTeams) CreateRandomAssignments(ctx context.Context, teamSize int, prefix string) ([]map[string]interface{}, error) {
	f.calls++
	return []map[string]interface{}{}, nil
}

func (f *fakeTeams) FindMemberByUserID(ctx context.Context, userID string) (*model.TeamMember, error) {
	f.calls++
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTeams) FindMemberByEmail(ctx context.Context, email string) (*model.TeamMember, error) {
	f.calls++
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTeams) FindMembersByTeamNumber(ctx context.Context, teamNumber int) ([]model.TeamMember, error) {
	f.calls++
	return nil, nil
}

func (f *fakeTeams) FindMembersByTeamIDs(ctx context.Context, teamIDs []string) ([]model.TeamMember, error) {
	f.calls++
	return nil, nil
}

func (f *fakeTeams) ClearMemberships(ctx context.Context) (int64, error) {
	f.calls++
	return 0, errors.New("permission denied for table team_members")
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}
