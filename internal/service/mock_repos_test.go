package service

import (
	"context"
	"errors"
	"fmt"
	"ggsc_backend/internal/model"
	"ggsc_backend/internal/repository"
	"ggsc_backend/internal/util"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── users ──

type mockUserStore struct {
	mu         sync.Mutex
	users      []model.User
	batchCalls int
	failBatch  error
}

func newMockUserStore(users ...model.User) *mockUserStore {
	s := &mockUserStore{}
	for _, u := range users {
		if u.ID == "" {
			u.ID = uuid.New().String()
		}
		s.users = append(s.users, u)
	}
	return s
}

func (m *mockUserStore) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: users_email_key", repository.ErrDuplicateKey)
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	m.users = append(m.users, *user)
	return nil
}

func (m *mockUserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserStore) FindByEmails(ctx context.Context, emails []string) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.failBatch != nil {
		return nil, m.failBatch
	}
	want := make(map[string]bool, len(emails))
	for _, e := range emails {
		want[e] = true
	}
	var out []model.User
	for _, u := range m.users {
		if want[u.Email] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserStore) FindByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.failBatch != nil {
		return nil, m.failBatch
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.User
	for _, u := range m.users {
		if want[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserStore) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.User
	for _, u := range m.users {
		if filter.Department != "" && u.Department != filter.Department {
			continue
		}
		if filter.Year != 0 && u.Year != filter.Year {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserStore) UpdateFields(ctx context.Context, id string, updates map[string]interface{}) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID != id {
			continue
		}
		if v, ok := updates["mobile_number"]; ok {
			m.users[i].MobileNumber = v.(string)
		}
		if v, ok := updates["department"]; ok {
			m.users[i].Department = v.(string)
		}
		if v, ok := updates["year"]; ok {
			m.users[i].Year = v.(int)
		}
		u := m.users[i]
		return &u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── game levels ──

type mockGameLevelStore struct {
	levels []model.GameLevel
	calls  int
}

func (m *mockGameLevelStore) Create(ctx context.Context, level *model.GameLevel) error {
	m.calls++
	level.ID = uuid.New().String()
	level.CreatedAt = time.Now()
	m.levels = append(m.levels, *level)
	return nil
}

func (m *mockGameLevelStore) FindByEmail(ctx context.Context, email string) ([]model.GameLevel, error) {
	m.calls++
	var out []model.GameLevel
	for _, l := range m.levels {
		if l.Email == email {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockGameLevelStore) FindFastest(ctx context.Context, limit int) ([]model.GameLevel, error) {
	m.calls++
	out := append([]model.GameLevel(nil), m.levels...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].TotalGameTime, out[j].TotalGameTime
		if a == nil || b == nil {
			return a != nil
		}
		if *a != *b {
			return *a < *b
		}
		return out[i].CompletedAt.Before(out[j].CompletedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockGameLevelStore) FindAll(ctx context.Context) ([]model.GameLevel, error) {
	m.calls++
	return append([]model.GameLevel(nil), m.levels...), nil
}

func (m *mockGameLevelStore) Delete(ctx context.Context, id string) error {
	m.calls++
	for i := range m.levels {
		if m.levels[i].ID == id {
			m.levels = append(m.levels[:i], m.levels[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── qrmaze ──

type mockQrMazeStore struct {
	submissions []model.QrMazeSubmission
	ranked      []model.QrMazeSetRank
	calls       int
}

func (m *mockQrMazeStore) Create(ctx context.Context, s *model.QrMazeSubmission) error {
	m.calls++
	for _, existing := range m.submissions {
		if existing.Email == s.Email && existing.SetNumber == s.SetNumber {
			return fmt.Errorf("%w: qrmaze_email_set_number_key", repository.ErrDuplicateKey)
		}
	}
	s.ID = uuid.New().String()
	s.CreatedAt = time.Now()
	m.submissions = append(m.submissions, *s)
	return nil
}

func (m *mockQrMazeStore) FindByEmail(ctx context.Context, email string) ([]model.QrMazeSubmission, error) {
	m.calls++
	var out []model.QrMazeSubmission
	for _, s := range m.submissions {
		if s.Email == email {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockQrMazeStore) FindBySet(ctx context.Context, setNumber int) ([]model.QrMazeSubmission, error) {
	m.calls++
	var out []model.QrMazeSubmission
	for _, s := range m.submissions {
		if s.SetNumber == setNumber {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockQrMazeStore) FindAll(ctx context.Context) ([]model.QrMazeSubmission, error) {
	m.calls++
	return append([]model.QrMazeSubmission(nil), m.submissions...), nil
}

func (m *mockQrMazeStore) FindSetLeaderboard(ctx context.Context, setNumber, limit int) ([]model.QrMazeSetRank, error) {
	m.calls++
	var out []model.QrMazeSetRank
	for _, r := range m.ranked {
		if r.SetNumber == setNumber {
			out = append(out, r)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockQrMazeStore) UpdateScore(ctx context.Context, email string, setNumber, timeTaken, correctAnswers int) (*model.QrMazeSubmission, error) {
	m.calls++
	for i := range m.submissions {
		s := &m.submissions[i]
		if s.Email == email && s.SetNumber == setNumber {
			s.TimeTaken = timeTaken
			s.CorrectAnswers = correctAnswers
			s.UpdatedAt = time.Now()
			out := *s
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQrMazeStore) Delete(ctx context.Context, id string) error {
	m.calls++
	for i := range m.submissions {
		if m.submissions[i].ID == id {
			m.submissions = append(m.submissions[:i], m.submissions[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── teams ──

type mockTeamStore struct {
	teams      []model.Team
	members    []model.TeamMember
	summaries  []model.TeamSummary
	procRows   []map[string]interface{}
	failUpdate map[string]error
	calls      int
}

func (m *mockTeamStore) UpdateRoundScore(ctx context.Context, teamID string, round, score int, at time.Time) (*model.Team, error) {
	m.calls++
	if err := m.failUpdate[teamID]; err != nil {
		return nil, err
	}
	for i := range m.teams {
		t := &m.teams[i]
		if t.ID != teamID {
			continue
		}
		sc, ts := score, at
		switch round {
		case 1:
			t.Round1Score, t.Round1UpdatedAt = &sc, &ts
		case 2:
			t.Round2Score, t.Round2UpdatedAt = &sc, &ts
		case 3:
			t.Round3Score, t.Round3UpdatedAt = &sc, &ts
		}
		out := *t
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeamStore) FindOrderedByRound(ctx context.Context, round int) ([]model.Team, error) {
	m.calls++
	return append([]model.Team(nil), m.teams...), nil
}

func (m *mockTeamStore) FindOrderedByTotal(ctx context.Context) ([]model.Team, error) {
	m.calls++
	return append([]model.Team(nil), m.teams...), nil
}

func (m *mockTeamStore) ListSummaries(ctx context.Context) ([]model.TeamSummary, error) {
	m.calls++
	return m.summaries, nil
}

func (m *mockTeamStore) FindSummaryByNumber(ctx context.Context, n int) (*model.TeamSummary, error) {
	m.calls++
	for _, s := range m.summaries {
		if s.TeamNumber == n {
			out := s
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeamStore) CreateRandomAssignments(ctx context.Context, teamSize int, prefix string) ([]map[string]interface{}, error) {
	m.calls++
	if teamSize <= 0 {
		return nil, errors.New("team_size must be positive")
	}
	return m.procRows, nil
}

func (m *mockTeamStore) FindMemberByUserID(ctx context.Context, userID string) (*model.TeamMember, error) {
	m.calls++
	for _, mem := range m.members {
		if mem.UserID == userID {
			out := mem
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeamStore) FindMemberByEmail(ctx context.Context, email string) (*model.TeamMember, error) {
	m.calls++
	for _, mem := range m.members {
		if mem.Email == email {
			out := mem
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeamStore) FindMembersByTeamNumber(ctx context.Context, n int) ([]model.TeamMember, error) {
	m.calls++
	var out []model.TeamMember
	for _, mem := range m.members {
		if mem.TeamNumber == n {
			out = append(out, mem)
		}
	}
	return out, nil
}

func (m *mockTeamStore) FindMembersByTeamIDs(ctx context.Context, ids []string) ([]model.TeamMember, error) {
	m.calls++
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.TeamMember
	for _, mem := range m.members {
		if want[mem.TeamID] {
			out = append(out, mem)
		}
	}
	return out, nil
}

func (m *mockTeamStore) ClearMemberships(ctx context.Context) (int64, error) {
	m.calls++
	n := int64(len(m.members))
	m.members = nil
	return n, nil
}

// ── auth collaborators ──

type mockBlacklist struct {
	revoked map[string]time.Duration
}

func (m *mockBlacklist) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if m.revoked == nil {
		m.revoked = make(map[string]time.Duration)
	}
	m.revoked[id] = ttl
	return nil
}

func (m *mockBlacklist) IsRevoked(ctx context.Context, id string) (bool, error) {
	_, ok := m.revoked[id]
	return ok, nil
}

type mockMailer struct {
	sent []string
	err  error
}

func (m *mockMailer) SendRegistrationEmail(ctx context.Context, user *model.User) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, user.Email)
	return nil
}

func intPtr(v int) *int { return &v }

func flex(v int) util.FlexInt { return util.FlexInt{Value: v, Set: true} }

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }
