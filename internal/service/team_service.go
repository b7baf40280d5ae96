package service

import (
	"context"
	"errors"
	"ggsc_backend/internal/model"
	"ggsc_backend/internal/util"
	"ggsc_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultTeamSize       = 4
	DefaultTeamNamePrefix = "Team"
	defaultMemberRole     = "member"
)

type TeamService struct {
	Teams      TeamStore
	Users      UserStore
	Identities *IdentityResolver
}

func NewTeamService(teams TeamStore, users UserStore, identities *IdentityResolver) *TeamService {
	return &TeamService{Teams: teams, Users: users, Identities: identities}
}

// swagger:model CreateRandomTeamsRequest
type CreateRandomTeamsRequest struct {
	TeamSize       *int    `json:"team_size"`
	TeamNamePrefix *string `json:"team_name_prefix"`
}

type TeamList struct {
	Teams        []model.TeamSummary `json:"teams"`
	Count        int                 `json:"count"`
	TotalMembers int                 `json:"total_members"`
}

type RandomTeamsResult struct {
	Message      string                   `json:"message"`
	Teams        []map[string]interface{} `json:"teams"`
	TotalTeams   int                      `json:"total_teams"`
	TotalMembers int                      `json:"total_members"`
}

type UserTeamUser struct {
	UserID           string `json:"user_id"`
	Email            string `json:"email"`
	FullName         string `json:"full_name"`
	EnrollmentNumber string `json:"enrollment_number"`
}

type UserTeamMember struct {
	UserID           string `json:"user_id"`
	Email            string `json:"email"`
	FullName         string `json:"full_name"`
	EnrollmentNumber string `json:"enrollment_number"`
	Department       string `json:"department"`
	Year             int    `json:"year"`
	IsPresent        *bool  `json:"is_present"`
	Role             string `json:"role"`
}

type UserTeamInfo struct {
	TeamNumber  int              `json:"team_number"`
	TeamName    string           `json:"team_name"`
	MemberCount int              `json:"member_count"`
	Members     []UserTeamMember `json:"members"`
}

type UserTeam struct {
	User UserTeamUser `json:"user"`
	Team UserTeamInfo `json:"team"`
}

func (s *TeamService) ListTeams(ctx context.Context) (*TeamList, error) {
	teams, err := s.Teams.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	if teams == nil {
		teams = []model.TeamSummary{}
	}
	total := 0
	for _, t := range teams {
		total += t.MemberCount
	}
	return &TeamList{Teams: teams, Count: len(teams), TotalMembers: total}, nil
}

func (s *TeamService) GetTeam(ctx context.Context, teamNumber string) (*model.TeamSummary, error) {
	n, ok := util.ParseIntParam(teamNumber)
	if !ok {
		return nil, util.NotFound("Team not found")
	}
	team, err := s.Teams.FindSummaryByNumber(ctx, n)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("Team not found")
		}
		return nil, err
	}
	return team, nil
}

// CreateRandomTeams delegates the shuffle to the store procedure and returns its rows as-is.
func (s *TeamService) CreateRandomTeams(ctx context.Context, req CreateRandomTeamsRequest) (*RandomTeamsResult, error) {
	size := DefaultTeamSize
	if req.TeamSize != nil {
		size = *req.TeamSize
	}
	if size < 1 {
		return nil, util.InvalidArgument("team_size must be a positive integer")
	}
	prefix := DefaultTeamNamePrefix
	if req.TeamNamePrefix != nil && *req.TeamNamePrefix != "" {
		prefix = *req.TeamNamePrefix
	}

	rows, err := s.Teams.CreateRandomAssignments(ctx, size, prefix)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []map[string]interface{}{}
	}

	total := 0
	for _, row := range rows {
		total += asInt(row["member_count"])
	}
	logger.Log.Info("Random teams created",
		zap.Int("team_size", size), zap.Int("teams", len(rows)), zap.Int("members", total))

	return &RandomTeamsResult{
		Message:      "Random teams created successfully",
		Teams:        rows,
		TotalTeams:   len(rows),
		TotalMembers: total,
	}, nil
}

// asInt accepts the integer types pgx may scan a procedure column into.
func asInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// GetUserTeam finds a team by member user id (UUID form) or by member email.
func (s *TeamService) GetUserTeam(ctx context.Context, identifier string) (*UserTeam, error) {
	var (
		membership *model.TeamMember
		err        error
	)
	if model.IsUUID(identifier) {
		membership, err = s.Teams.FindMemberByUserID(ctx, identifier)
	} else {
		membership, err = s.Teams.FindMemberByEmail(ctx, util.NormalizeEmail(identifier))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("User not in any team")
		}
		return nil, err
	}

	user, err := s.Users.FindByID(ctx, membership.UserID)
	if err != nil {
		logger.Log.Error("Team member has no user record",
			zap.String("user_id", membership.UserID), zap.Error(err))
		return nil, errors.New("User data not found")
	}

	members, err := s.Teams.FindMembersByTeamNumber(ctx, membership.TeamNumber)
	if err != nil {
		return nil, err
	}
	userIDs := make([]string, len(members))
	for i := range members {
		userIDs[i] = members[i].UserID
	}
	identities := s.Identities.lenientByIDs(ctx, "user_team", userIDs)

	info := UserTeamInfo{
		TeamNumber:  membership.TeamNumber,
		TeamName:    membership.TeamName,
		MemberCount: len(members),
		Members:     make([]UserTeamMember, len(members)),
	}
	for i, m := range members {
		id := identities.Lookup(m.UserID)
		role := defaultMemberRole
		if m.Role != nil && *m.Role != "" {
			role = *m.Role
		}
		info.Members[i] = UserTeamMember{
			UserID:           m.UserID,
			Email:            m.Email,
			FullName:         id.FullName,
			EnrollmentNumber: id.EnrollmentNumber,
			Department:       id.Department,
			Year:             id.Year,
			IsPresent:        id.IsPresent,
			Role:             role,
		}
	}

	return &UserTeam{
		User: UserTeamUser{
			UserID:           membership.UserID,
			Email:            membership.Email,
			FullName:         user.FullName,
			EnrollmentNumber: user.EnrollmentNumber,
		},
		Team: info,
	}, nil
}

// ClearAssignments removes every membership. Teams and their scores stay.
func (s *TeamService) ClearAssignments(ctx context.Context) (int64, error) {
	n, err := s.Teams.ClearMemberships(ctx)
	if err != nil {
		return 0, err
	}
	logger.Log.Info("Team assignments cleared", zap.Int64("removed", n))
	return n, nil
}
