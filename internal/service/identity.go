package service

import (
	"context"
	"ggsc_backend/internal/model"
	"ggsc_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	unknownName  = "Unknown"
	unknownField = "N/A"
)

// Identity is the display information attached to leaderboard rows.
type Identity struct {
	UserID           string
	Email            string
	FullName         string
	EnrollmentNumber string
	Department       string
	Year             int
	IsPresent        *bool
	Found            bool
}

func placeholderIdentity() Identity {
	return Identity{
		FullName:         unknownName,
		EnrollmentNumber: unknownField,
		Department:       unknownField,
	}
}

func identityOf(u *model.User) Identity {
	id := Identity{
		UserID:           u.ID,
		Email:            u.Email,
		FullName:         u.FullName,
		EnrollmentNumber: u.EnrollmentNumber,
		Department:       u.Department,
		Year:             u.Year,
		IsPresent:        u.IsPresent,
		Found:            true,
	}
	if id.FullName == "" {
		id.FullName = unknownName
	}
	if id.EnrollmentNumber == "" {
		id.EnrollmentNumber = unknownField
	}
	if id.Department == "" {
		id.Department = unknownField
	}
	return id
}

// IdentityMap is keyed by whatever the map was resolved by (email or user id).
type IdentityMap map[string]Identity

// Lookup never fails: unknown keys get the placeholder identity.
func (m IdentityMap) Lookup(key string) Identity {
	if id, ok := m[key]; ok {
		return id
	}
	return placeholderIdentity()
}

type IdentityLookup interface {
	FindByEmails(ctx context.Context, emails []string) ([]model.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.User, error)
}

// IdentityResolver joins user records onto score rows with a single batched query.
type IdentityResolver struct {
	Users IdentityLookup
}

func NewIdentityResolver(users IdentityLookup) *IdentityResolver {
	return &IdentityResolver{Users: users}
}

func (r *IdentityResolver) ResolveByEmails(ctx context.Context, emails []string) (IdentityMap, error) {
	keys := uniqueNonEmpty(emails)
	if len(keys) == 0 {
		return IdentityMap{}, nil
	}
	users, err := r.Users.FindByEmails(ctx, keys)
	if err != nil {
		return IdentityMap{}, err
	}
	m := make(IdentityMap, len(users))
	for i := range users {
		m[users[i].Email] = identityOf(&users[i])
	}
	return m, nil
}

func (r *IdentityResolver) ResolveByIDs(ctx context.Context, ids []string) (IdentityMap, error) {
	keys := uniqueNonEmpty(ids)
	if len(keys) == 0 {
		return IdentityMap{}, nil
	}
	users, err := r.Users.FindByIDs(ctx, keys)
	if err != nil {
		return IdentityMap{}, err
	}
	m := make(IdentityMap, len(users))
	for i := range users {
		m[users[i].ID] = identityOf(&users[i])
	}
	return m, nil
}

// lenientByEmails is used by read paths where a missing identity must not fail the response.
func (r *IdentityResolver) lenientByEmails(ctx context.Context, board string, emails []string) IdentityMap {
	m, err := r.ResolveByEmails(ctx, emails)
	if err != nil {
		logger.Log.Warn("Identity lookup failed, using placeholders",
			zap.String("board", board), zap.Int("keys", len(emails)), zap.Error(err))
	}
	return m
}

func (r *IdentityResolver) lenientByIDs(ctx context.Context, board string, ids []string) IdentityMap {
	m, err := r.ResolveByIDs(ctx, ids)
	if err != nil {
		logger.Log.Warn("Identity lookup failed, using placeholders",
			zap.String("board", board), zap.Int("keys", len(ids)), zap.Error(err))
	}
	return m
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
