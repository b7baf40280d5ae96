package service

import (
	"context"
	"errors"
	"ggsc_backend/internal/model"
	"ggsc_backend/internal/util"
	"ggsc_backend/pkg/monitoring"
	"ggsc_backend/pkg/tracing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type GameService struct {
	Levels     GameLevelStore
	Users      UserStore
	Identities *IdentityResolver
}

func NewGameService(levels GameLevelStore, users UserStore, identities *IdentityResolver) *GameService {
	return &GameService{Levels: levels, Users: users, Identities: identities}
}

// swagger:model SubmitLevelRequest
type SubmitLevelRequest struct {
	Email              string       `json:"email"`
	LevelTime          *float64     `json:"levelTime"`
	TotalGameTime      *float64     `json:"totalGameTime"`
	LastCompletedLevel util.FlexInt `json:"lastCompletedLevel"`
	CompletedAt        *time.Time   `json:"completedAt"`
}

type GameResults struct {
	Email   string            `json:"email"`
	Count   int               `json:"count"`
	Results []model.GameLevel `json:"results"`
}

// GameEntry is a game_levels row with the player's identity joined in.
type GameEntry struct {
	Rank               int       `json:"rank,omitempty"`
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	FullName           string    `json:"fullName"`
	EnrollmentNumber   string    `json:"enrollmentNumber"`
	Department         string    `json:"department"`
	Year               int       `json:"year"`
	LevelTime          *float64  `json:"levelTime"`
	TotalGameTime      *float64  `json:"totalGameTime"`
	LastCompletedLevel int       `json:"lastCompletedLevel"`
	CompletedAt        time.Time `json:"completedAt"`
}

type GameLeaderboard struct {
	Count       int         `json:"count"`
	Leaderboard []GameEntry `json:"leaderboard"`
}

type GameSubmissions struct {
	Count       int         `json:"count"`
	Submissions []GameEntry `json:"submissions"`
}

func (s *GameService) SubmitLevel(ctx context.Context, req SubmitLevelRequest) (*model.GameLevel, error) {
	email := util.NormalizeEmail(req.Email)
	if email == "" || req.LastCompletedLevel.Blank() {
		monitoring.ScoreSubmissions.WithLabelValues("game", "rejected").Inc()
		return nil, util.MissingFields("email", "lastCompletedLevel")
	}
	if req.LastCompletedLevel.Invalid {
		monitoring.ScoreSubmissions.WithLabelValues("game", "rejected").Inc()
		return nil, util.InvalidArgument("lastCompletedLevel must be an integer")
	}

	if _, err := s.Users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			monitoring.ScoreSubmissions.WithLabelValues("game", "rejected").Inc()
			return nil, util.NotFoundWithDetail(util.MsgEmailNotRegistered, "Please register first, or check your email address.")
		}
		return nil, err
	}

	level := &model.GameLevel{
		Email:              email,
		LevelTime:          req.LevelTime,
		TotalGameTime:      req.TotalGameTime,
		LastCompletedLevel: req.LastCompletedLevel.Value,
		CompletedAt:        time.Now().UTC(),
	}
	if req.CompletedAt != nil {
		level.CompletedAt = *req.CompletedAt
	}

	if err := s.Levels.Create(ctx, level); err != nil {
		return nil, err
	}
	monitoring.ScoreSubmissions.WithLabelValues("game", "accepted").Inc()
	return level, nil
}

func (s *GameService) GetResults(ctx context.Context, email string) (*GameResults, error) {
	email = util.NormalizeEmail(email)
	levels, err := s.Levels.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if levels == nil {
		levels = []model.GameLevel{}
	}
	return &GameResults{Email: email, Count: len(levels), Results: levels}, nil
}

// GetLeaderboard returns the fastest 100 completions. Rank is the position in that order.
func (s *GameService) GetLeaderboard(ctx context.Context) (*GameLeaderboard, error) {
	ctx, span := tracing.StartSpan(ctx, "game.leaderboard")
	defer span.End()

	levels, err := s.Levels.FindFastest(ctx, LeaderboardLimit)
	if err != nil {
		return nil, err
	}

	identities := s.Identities.lenientByEmails(ctx, "game", levelEmails(levels))
	entries := make([]GameEntry, len(levels))
	for i := range levels {
		entries[i] = gameEntry(&levels[i], identities.Lookup(levels[i].Email))
		entries[i].Rank = i + 1
	}

	span.SetAttributes(attribute.Int("leaderboard.count", len(entries)))
	monitoring.LeaderboardSize.WithLabelValues("game").Set(float64(len(entries)))
	return &GameLeaderboard{Count: len(entries), Leaderboard: entries}, nil
}

func (s *GameService) GetSubmissions(ctx context.Context) (*GameSubmissions, error) {
	levels, err := s.Levels.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	identities := s.Identities.lenientByEmails(ctx, "game_submissions", levelEmails(levels))
	entries := make([]GameEntry, len(levels))
	for i := range levels {
		entries[i] = gameEntry(&levels[i], identities.Lookup(levels[i].Email))
	}
	return &GameSubmissions{Count: len(entries), Submissions: entries}, nil
}

func (s *GameService) DeleteSubmission(ctx context.Context, id string) error {
	if !model.IsUUID(id) {
		return util.NotFound("Submission not found")
	}
	if err := s.Levels.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFound("Submission not found")
		}
		return err
	}
	return nil
}

func levelEmails(levels []model.GameLevel) []string {
	emails := make([]string, len(levels))
	for i := range levels {
		emails[i] = levels[i].Email
	}
	return emails
}

func gameEntry(l *model.GameLevel, id Identity) GameEntry {
	return GameEntry{
		ID:                 l.ID,
		Email:              l.Email,
		FullName:           id.FullName,
		EnrollmentNumber:   id.EnrollmentNumber,
		Department:         id.Department,
		Year:               id.Year,
		LevelTime:          l.LevelTime,
		TotalGameTime:      l.TotalGameTime,
		LastCompletedLevel: l.LastCompletedLevel,
		CompletedAt:        l.CompletedAt,
	}
}
