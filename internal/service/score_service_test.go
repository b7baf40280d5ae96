package service

import (
	"context"
	"encoding/json"
	"errors"
	"ggsc_backend/internal/model"
	"ggsc_backend/internal/util"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTeam(name string, number int) model.Team {
	t := model.Team{TeamName: name, TeamNumber: number}
	t.ID = uuid.New().String()
	return t
}

func newScoreFixture(teams ...model.Team) (*ScoreService, *mockTeamStore, *mockUserStore) {
	store := &mockTeamStore{teams: teams}
	users := newMockUserStore()
	svc := NewScoreService(store, NewIdentityResolver(users))
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, store, users
}

func TestScoreService_UpdateScore(t *testing.T) {
	team := newTeam("Team 1", 1)
	svc, _, _ := newScoreFixture(team)

	got, err := svc.UpdateScore(context.Background(), ScoreUpdate{TeamID: team.ID, Round: flex(2), Score: flex(75)})
	if err != nil {
		t.Fatal(err)
	}
	if got.Round2Score == nil || *got.Round2Score != 75 {
		t.Errorf("score not applied: %+v", got)
	}
	if got.Round2UpdatedAt == nil || !got.Round2UpdatedAt.Equal(svc.now()) {
		t.Errorf("round timestamp not set: %v", got.Round2UpdatedAt)
	}
	if got.Round1Score != nil || got.Round3Score != nil {
		t.Error("other rounds must be untouched")
	}
}

func TestScoreService_UpdateScore_Validation(t *testing.T) {
	svc, store, _ := newScoreFixture()

	_, err := svc.UpdateScore(context.Background(), ScoreUpdate{TeamID: "x", Round: flex(4), Score: flex(1)})
	if !errors.Is(err, util.ErrInvalidArgument) {
		t.Errorf("expected invalid round, got %v", err)
	}
	_, err = svc.UpdateScore(context.Background(), ScoreUpdate{Round: flex(1), Score: flex(1)})
	if !errors.Is(err, util.ErrMissingField) {
		t.Errorf("expected missing field, got %v", err)
	}
	if store.calls != 0 {
		t.Errorf("store must not be touched, got %d calls", store.calls)
	}

	_, err = svc.UpdateScore(context.Background(), ScoreUpdate{TeamID: uuid.New().String(), Round: flex(1), Score: flex(1)})
	if !errors.Is(err, util.ErrNotFound) {
		t.Errorf("expected team not found, got %v", err)
	}
}

func TestScoreService_BatchUpdate_PartialFailure(t *testing.T) {
	a, b := newTeam("A", 1), newTeam("B", 2)
	svc, store, _ := newScoreFixture(a, b)
	store.failUpdate = map[string]error{b.ID: errors.New("deadlock detected")}

	result, err := svc.BatchUpdate(context.Background(), []ScoreUpdate{
		{TeamID: a.ID, Round: flex(1), Score: flex(10)},
		{TeamID: b.ID, Round: flex(1), Score: flex(20)},
		{TeamID: a.ID, Round: flex(7), Score: flex(30)},
		{TeamID: "", Round: flex(1), Score: flex(30)},
		{TeamID: a.ID, Round: flex(3), Score: flex(40)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Successful != 2 || result.Failed != 3 {
		t.Fatalf("expected 2/3, got %d/%d", result.Successful, result.Failed)
	}
	if result.Errors[0].TeamID != b.ID || result.Errors[0].Error != "deadlock detected" {
		t.Errorf("unexpected first error %+v", result.Errors[0])
	}
	if result.Errors[1].Error != "Invalid round number" || result.Errors[2].Error != "Missing required fields" {
		t.Errorf("unexpected validation errors %+v", result.Errors[1:])
	}
	if *store.teams[0].Round1Score != 10 || *store.teams[0].Round3Score != 40 {
		t.Error("successful updates must persist")
	}
}

func TestScoreService_BatchUpdate_Empty(t *testing.T) {
	svc, _, _ := newScoreFixture()
	if _, err := svc.BatchUpdate(context.Background(), nil); !errors.Is(err, util.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}

func TestScoreService_BatchUpdate_MistypedItem(t *testing.T) {
	a := newTeam("A", 1)
	svc, store, _ := newScoreFixture(a)

	var updates []ScoreUpdate
	body := `[
		{"team_id":"` + a.ID + `","round":1,"score":10},
		{"team_id":"` + a.ID + `","round":"two","score":10},
		{"team_id":"` + a.ID + `","round":"2","score":"15"},
		{"team_id":"` + a.ID + `","round":3,"score":{}},
		"not an object"
	]`
	if err := json.Unmarshal([]byte(body), &updates); err != nil {
		t.Fatalf("a malformed item must not fail the whole batch: %v", err)
	}

	result, err := svc.BatchUpdate(context.Background(), updates)
	if err != nil {
		t.Fatal(err)
	}
	if result.Successful != 2 || result.Failed != 3 {
		t.Fatalf("expected 2/3, got %d/%d", result.Successful, result.Failed)
	}
	want := []BatchItemError{
		{TeamID: a.ID, Error: "Invalid round number"},
		{TeamID: a.ID, Error: "Missing required fields"},
		{TeamID: "", Error: "Missing required fields"},
	}
	for i, w := range want {
		if result.Errors[i] != w {
			t.Errorf("error %d: got %+v, want %+v", i, result.Errors[i], w)
		}
	}
	if *store.teams[0].Round1Score != 10 || *store.teams[0].Round2Score != 15 {
		t.Errorf("valid items must persist: %+v", store.teams[0])
	}
	if store.teams[0].Round3Score != nil {
		t.Error("item with a non-numeric score must not be applied")
	}
}

func TestScoreService_RoundLeaderboard(t *testing.T) {
	a, b, c := newTeam("A", 1), newTeam("B", 2), newTeam("C", 3)
	b.Round1Score = intPtr(90)
	c.Round1Score = intPtr(40)
	svc, store, users := newScoreFixture(a, b, c)

	alice := model.User{Email: "a@x.com", FullName: "Alice", EnrollmentNumber: "E1"}
	alice.ID = uuid.New().String()
	users.users = append(users.users, alice)
	store.members = []model.TeamMember{
		{TeamID: b.ID, UserID: alice.ID, TeamNumber: 2},
		{TeamID: b.ID, UserID: uuid.New().String(), TeamNumber: 2},
	}

	board, err := svc.RoundLeaderboard(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	names := []string{board.Teams[0].TeamName, board.Teams[1].TeamName, board.Teams[2].TeamName}
	if names[0] != "B" || names[1] != "C" || names[2] != "A" {
		t.Errorf("unexpected order %v", names)
	}
	members := board.Teams[0].Members
	if len(members) != 2 || members[0].FullName != "Alice" || members[1].FullName != "Unknown" {
		t.Errorf("unexpected members %+v", members)
	}
	if board.Teams[2].Members == nil {
		t.Error("members must be an empty list, not null")
	}
}

func TestScoreService_RoundLeaderboard_InvalidRound(t *testing.T) {
	svc, store, _ := newScoreFixture()
	if _, err := svc.RoundLeaderboard(context.Background(), 0); !errors.Is(err, util.ErrInvalidArgument) {
		t.Errorf("expected invalid round, got %v", err)
	}
	if store.calls != 0 {
		t.Error("store must not be queried")
	}
}

func TestScoreService_OverallLeaderboard(t *testing.T) {
	a, b, c := newTeam("A", 1), newTeam("B", 2), newTeam("C", 3)
	a.Round1Score, a.TotalScore = intPtr(30), intPtr(30)
	c.Round1Score, c.Round2Score, c.TotalScore = intPtr(40), intPtr(35), intPtr(75)
	svc, store, users := newScoreFixture(a, b, c)

	bob := model.User{Email: "b@x.com", FullName: "Bob", EnrollmentNumber: "E2"}
	bob.ID = uuid.New().String()
	users.users = append(users.users, bob)
	store.members = []model.TeamMember{{TeamID: c.ID, UserID: bob.ID, TeamNumber: 3}}

	board, err := svc.OverallLeaderboard(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if board.Count != 3 || len(board.Leaderboard) != 3 {
		t.Fatalf("expected 3 teams, got count=%d len=%d", board.Count, len(board.Leaderboard))
	}
	first, last := board.Leaderboard[0], board.Leaderboard[2]
	if first.TeamName != "C" || first.Rank != 1 || *first.TotalScore != 75 || *first.Round2Score != 35 {
		t.Errorf("unexpected leader %+v", first)
	}
	if board.Leaderboard[1].TeamName != "A" {
		t.Errorf("unexpected second place %+v", board.Leaderboard[1])
	}
	if last.TeamName != "B" || last.Rank != 3 || last.TotalScore != nil {
		t.Errorf("unscored team must rank last, got %+v", last)
	}
	if len(first.Members) != 1 || first.Members[0].FullName != "Bob" || first.Members[0].EnrollmentNumber != "E2" {
		t.Errorf("unexpected members %+v", first.Members)
	}
	if last.Members == nil || len(last.Members) != 0 {
		t.Errorf("members must be an empty list, got %#v", last.Members)
	}
}
