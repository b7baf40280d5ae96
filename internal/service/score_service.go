package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"ggsc_backend/internal/model"
	"ggsc_backend/internal/util"
	"ggsc_backend/pkg/monitoring"
	"ggsc_backend/pkg/tracing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type ScoreService struct {
	Teams      TeamStore
	Identities *IdentityResolver
	now        func() time.Time
}

func NewScoreService(teams TeamStore, identities *IdentityResolver) *ScoreService {
	return &ScoreService{Teams: teams, Identities: identities, now: time.Now}
}

// swagger:model ScoreUpdate
type ScoreUpdate struct {
	TeamID string       `json:"team_id"`
	Round  util.FlexInt `json:"round"`
	Score  util.FlexInt `json:"score"`

	badRound  bool
	badFields bool
}

// UnmarshalJSON decodes field by field and never fails, so one malformed item in a
// batch is reported on its own instead of rejecting the whole request.
func (u *ScoreUpdate) UnmarshalJSON(data []byte) error {
	*u = ScoreUpdate{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		u.badFields = true
		return nil
	}
	if raw, ok := fields["team_id"]; ok && json.Unmarshal(raw, &u.TeamID) != nil {
		u.badFields = true
	}
	if raw, ok := fields["round"]; ok && json.Unmarshal(raw, &u.Round) != nil {
		u.badRound = true
	}
	if raw, ok := fields["score"]; ok && json.Unmarshal(raw, &u.Score) != nil {
		u.badFields = true
	}
	return nil
}

type BatchItemError struct {
	TeamID string `json:"team_id"`
	Error  string `json:"error"`
}

type BatchUpdateResult struct {
	Message    string           `json:"message"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Results    []model.Team     `json:"results"`
	Errors     []BatchItemError `json:"errors"`
}

type TeamMemberIdentity struct {
	UserID           string `json:"user_id"`
	FullName         string `json:"full_name"`
	EnrollmentNumber string `json:"enrollment_number"`
}

type RoundStanding struct {
	Rank       int                  `json:"rank"`
	ID         string               `json:"id"`
	TeamName   string               `json:"team_name"`
	TeamNumber int                  `json:"team_number"`
	Score      *int                 `json:"score"`
	UpdatedAt  *time.Time           `json:"updated_at"`
	Members    []TeamMemberIdentity `json:"members"`
}

type RoundLeaderboard struct {
	Round int             `json:"round"`
	Count int             `json:"count"`
	Teams []RoundStanding `json:"teams"`
}

type OverallStanding struct {
	Rank        int                  `json:"rank"`
	ID          string               `json:"id"`
	TeamName    string               `json:"team_name"`
	TeamNumber  int                  `json:"team_number"`
	Round1Score *int                 `json:"round1_score"`
	Round2Score *int                 `json:"round2_score"`
	Round3Score *int                 `json:"round3_score"`
	TotalScore  *int                 `json:"total_score"`
	Members     []TeamMemberIdentity `json:"members"`
}

type OverallLeaderboard struct {
	Count       int               `json:"count"`
	Leaderboard []OverallStanding `json:"leaderboard"`
}

func (s *ScoreService) validate(u ScoreUpdate) error {
	roundMissing := !u.badRound && u.Round.Blank()
	if u.badFields || u.TeamID == "" || roundMissing || !u.Score.Set || u.Score.Invalid {
		return util.MissingFields("team_id", "round", "score")
	}
	if u.badRound || u.Round.Invalid || !model.ValidRound(u.Round.Value) {
		return util.InvalidArgument(util.MsgInvalidRound)
	}
	return nil
}

func (s *ScoreService) apply(ctx context.Context, u ScoreUpdate) (*model.Team, error) {
	if !model.IsUUID(u.TeamID) {
		return nil, util.NotFound("Team not found")
	}
	team, err := s.Teams.UpdateRoundScore(ctx, u.TeamID, u.Round.Value, u.Score.Value, s.now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("Team not found")
		}
		return nil, err
	}
	monitoring.ScoreSubmissions.WithLabelValues(fmt.Sprintf("team_round_%d", u.Round.Value), "accepted").Inc()
	return team, nil
}

// UpdateScore sets one round's score and stamps that round's update time.
func (s *ScoreService) UpdateScore(ctx context.Context, u ScoreUpdate) (*model.Team, error) {
	if err := s.validate(u); err != nil {
		return nil, err
	}
	return s.apply(ctx, u)
}

// BatchUpdate applies each update independently and in order. A failed item never
// undoes the ones before it.
func (s *ScoreService) BatchUpdate(ctx context.Context, updates []ScoreUpdate) (*BatchUpdateResult, error) {
	if len(updates) == 0 {
		return nil, util.InvalidArgument("Updates must be a non-empty array")
	}

	result := &BatchUpdateResult{
		Message: "Batch update completed",
		Results: []model.Team{},
		Errors:  []BatchItemError{},
	}
	for _, u := range updates {
		if err := s.validate(u); err != nil {
			msg := "Missing required fields"
			if errors.Is(err, util.ErrInvalidArgument) {
				msg = "Invalid round number"
			}
			result.Errors = append(result.Errors, BatchItemError{TeamID: u.TeamID, Error: msg})
			continue
		}

		team, err := s.apply(ctx, u)
		if err != nil {
			result.Errors = append(result.Errors, BatchItemError{TeamID: u.TeamID, Error: errorText(err)})
			continue
		}
		result.Results = append(result.Results, *team)
	}

	result.Successful = len(result.Results)
	result.Failed = len(result.Errors)
	return result, nil
}

func errorText(err error) string {
	var appErr *util.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func (s *ScoreService) RoundLeaderboard(ctx context.Context, round int) (*RoundLeaderboard, error) {
	if !model.ValidRound(round) {
		return nil, util.InvalidArgument(util.MsgInvalidRound)
	}

	ctx, span := tracing.StartSpan(ctx, "scores.round_leaderboard", attribute.Int("scores.round", round))
	defer span.End()

	teams, err := s.Teams.FindOrderedByRound(ctx, round)
	if err != nil {
		return nil, err
	}
	sortTeamsByScore(teams, func(t *model.Team) *int { return t.RoundScore(round) })

	members, err := s.membersByTeam(ctx, teams)
	if err != nil {
		return nil, err
	}

	board := &RoundLeaderboard{Round: round, Count: len(teams), Teams: make([]RoundStanding, len(teams))}
	for i := range teams {
		t := &teams[i]
		board.Teams[i] = RoundStanding{
			Rank:       i + 1,
			ID:         t.ID,
			TeamName:   t.TeamName,
			TeamNumber: t.TeamNumber,
			Score:      t.RoundScore(round),
			UpdatedAt:  t.RoundUpdatedAt(round),
			Members:    members[t.ID],
		}
	}

	monitoring.LeaderboardSize.WithLabelValues(fmt.Sprintf("team_round_%d", round)).Set(float64(len(teams)))
	return board, nil
}

func (s *ScoreService) OverallLeaderboard(ctx context.Context) (*OverallLeaderboard, error) {
	ctx, span := tracing.StartSpan(ctx, "scores.overall_leaderboard")
	defer span.End()

	teams, err := s.Teams.FindOrderedByTotal(ctx)
	if err != nil {
		return nil, err
	}
	sortTeamsByScore(teams, func(t *model.Team) *int { return t.TotalScore })

	members, err := s.membersByTeam(ctx, teams)
	if err != nil {
		return nil, err
	}

	board := &OverallLeaderboard{Count: len(teams), Leaderboard: make([]OverallStanding, len(teams))}
	for i := range teams {
		t := &teams[i]
		board.Leaderboard[i] = OverallStanding{
			Rank:        i + 1,
			ID:          t.ID,
			TeamName:    t.TeamName,
			TeamNumber:  t.TeamNumber,
			Round1Score: t.Round1Score,
			Round2Score: t.Round2Score,
			Round3Score: t.Round3Score,
			TotalScore:  t.TotalScore,
			Members:     members[t.ID],
		}
	}

	monitoring.LeaderboardSize.WithLabelValues("team_overall").Set(float64(len(teams)))
	return board, nil
}

// membersByTeam loads every membership for teams in one query and joins identities by user id.
func (s *ScoreService) membersByTeam(ctx context.Context, teams []model.Team) (map[string][]TeamMemberIdentity, error) {
	ids := make([]string, len(teams))
	for i := range teams {
		ids[i] = teams[i].ID
	}
	out := make(map[string][]TeamMemberIdentity, len(teams))
	for _, id := range ids {
		out[id] = []TeamMemberIdentity{}
	}
	if len(ids) == 0 {
		return out, nil
	}

	memberships, err := s.Teams.FindMembersByTeamIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	userIDs := make([]string, len(memberships))
	for i := range memberships {
		userIDs[i] = memberships[i].UserID
	}
	identities := s.Identities.lenientByIDs(ctx, "team_members", userIDs)

	for _, m := range memberships {
		id := identities.Lookup(m.UserID)
		out[m.TeamID] = append(out[m.TeamID], TeamMemberIdentity{
			UserID:           m.UserID,
			FullName:         id.FullName,
			EnrollmentNumber: id.EnrollmentNumber,
		})
	}
	return out, nil
}
