package service

import (
	"context"
	"errors"
	"ggsc_backend/internal/model"
	"ggsc_backend/internal/util"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const MaxBulkVerify = 100

// VerifyService answers "is this address registered" for the games' entry screens.
type VerifyService struct {
	Users    UserStore
	validate *validator.Validate
}

func NewVerifyService(users UserStore) *VerifyService {
	return &VerifyService{Users: users, validate: validator.New()}
}

type VerifiedUser struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	FullName         string `json:"full_name"`
	EnrollmentNumber string `json:"enrollment_number"`
	Department       string `json:"department,omitempty"`
	Year             int    `json:"year,omitempty"`
	MobileNumber     string `json:"mobile_number,omitempty"`
}

type BulkVerifyItem struct {
	Email  string        `json:"email"`
	Exists bool          `json:"exists"`
	User   *VerifiedUser `json:"user"`
}

type BulkVerifyResult struct {
	Success  bool             `json:"success"`
	Total    int              `json:"total"`
	Found    int              `json:"found"`
	NotFound int              `json:"not_found"`
	Results  []BulkVerifyItem `json:"results"`
}

// ValidEmail reports whether email is syntactically an address.
func (s *VerifyService) ValidEmail(email string) bool {
	return s.validate.Var(email, "required,email") == nil
}

// Lookup returns the registered user for email, or nil when there is none.
func (s *VerifyService) Lookup(ctx context.Context, email string) (*VerifiedUser, error) {
	email = util.NormalizeEmail(email)
	if email == "" {
		return nil, util.InvalidArgument("Email is required")
	}
	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return verifiedUser(user, true), nil
}

// Check is Lookup preceded by a format check.
func (s *VerifyService) Check(ctx context.Context, email string) (*VerifiedUser, error) {
	if email == "" {
		return nil, util.InvalidArgument("Email is required")
	}
	if !s.ValidEmail(util.NormalizeEmail(email)) {
		return nil, util.InvalidArgument("Invalid email format")
	}
	return s.Lookup(ctx, email)
}

func (s *VerifyService) Bulk(ctx context.Context, emails []string) (*BulkVerifyResult, error) {
	if len(emails) == 0 {
		return nil, util.InvalidArgument("emails must be a non-empty array")
	}
	if len(emails) > MaxBulkVerify {
		return nil, util.InvalidArgument("Maximum 100 emails allowed per request")
	}

	normalized := make([]string, len(emails))
	for i, e := range emails {
		normalized[i] = util.NormalizeEmail(e)
	}
	users, err := s.Users.FindByEmails(ctx, uniqueNonEmpty(normalized))
	if err != nil {
		return nil, err
	}
	byEmail := make(map[string]*model.User, len(users))
	for i := range users {
		byEmail[users[i].Email] = &users[i]
	}

	result := &BulkVerifyResult{Success: true, Total: len(emails), Results: make([]BulkVerifyItem, len(normalized))}
	for i, email := range normalized {
		item := BulkVerifyItem{Email: email}
		if u, ok := byEmail[email]; ok {
			item.Exists = true
			item.User = verifiedUser(u, false)
			result.Found++
		}
		result.Results[i] = item
	}
	result.NotFound = result.Total - result.Found
	return result, nil
}

func verifiedUser(u *model.User, full bool) *VerifiedUser {
	v := &VerifiedUser{
		ID:               u.ID,
		Email:            u.Email,
		FullName:         u.FullName,
		EnrollmentNumber: u.EnrollmentNumber,
	}
	if full {
		v.Department = u.Department
		v.Year = u.Year
		v.MobileNumber = u.MobileNumber
	}
	return v
}
