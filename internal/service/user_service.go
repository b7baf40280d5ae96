package service

import (
	"context"
	"errors"
	"ggsc_backend/internal/model"
	"ggsc_backend/internal/util"

	"gorm.io/gorm"
)

// UserService serves the participant directory.
type UserService struct {
	Users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{Users: users}
}

// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	MobileNumber string       `json:"mobile_number"`
	Department   string       `json:"department"`
	Year         util.FlexInt `json:"year"`
}

// ListUsers filters by department and year when given. A non-numeric year is ignored.
func (s *UserService) ListUsers(ctx context.Context, department, year string) ([]model.User, error) {
	filter := model.UserFilter{Department: department}
	if year != "" {
		if n, ok := util.ParseIntParam(year); ok {
			filter.Year = n
		}
	}
	users, err := s.Users.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	if !model.IsUUID(id) {
		return nil, util.NotFound("User not found")
	}
	user, err := s.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser changes only the fields present in req.
func (s *UserService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*model.User, error) {
	if !model.IsUUID(id) {
		return nil, util.NotFound("User not found")
	}

	updates := make(map[string]interface{})
	if req.MobileNumber != "" {
		updates["mobile_number"] = req.MobileNumber
	}
	if req.Department != "" {
		updates["department"] = req.Department
	}
	if !req.Year.Blank() {
		if req.Year.Invalid || req.Year.Value < 1 || req.Year.Value > 4 {
			return nil, util.InvalidArgument("Year must be between 1 and 4")
		}
		updates["year"] = req.Year.Value
	}

	user, err := s.Users.UpdateFields(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}
