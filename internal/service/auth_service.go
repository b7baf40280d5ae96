package service

import (
	"context"
	"errors"
	"ggsc_backend/internal/config"
	"ggsc_backend/internal/model"
	"ggsc_backend/internal/repository"
	"ggsc_backend/internal/util"
	"ggsc_backend/pkg/logger"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	Users     UserStore
	Blacklist TokenBlacklist
	Mailer    RegistrationMailer
	Cfg       *config.Config

	mu          sync.RWMutex
	adminEmails map[string]struct{}
}

func NewAuthService(users UserStore, blacklist TokenBlacklist, mailer RegistrationMailer, cfg *config.Config) *AuthService {
	s := &AuthService{Users: users, Blacklist: blacklist, Mailer: mailer, Cfg: cfg}
	s.SetAdminEmails(cfg.Auth.AdminEmails)
	return s
}

// SetAdminEmails replaces the addresses that register with the admin role.
func (s *AuthService) SetAdminEmails(emails []string) {
	m := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e = util.NormalizeEmail(e); e != "" {
			m[e] = struct{}{}
		}
	}
	s.mu.Lock()
	s.adminEmails = m
	s.mu.Unlock()
}

func (s *AuthService) isAdminEmail(email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.adminEmails[email]
	return ok
}

// swagger:model SignupRequest
type SignupRequest struct {
	Email            string       `json:"email"`
	Password         string       `json:"password"`
	FullName         string       `json:"full_name"`
	EnrollmentNumber string       `json:"enrollment_number"`
	MobileNumber     string       `json:"mobile_number"`
	Department       string       `json:"department"`
	Year             util.FlexInt `json:"year"`
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the bearer token handed to the client.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	ExpiresAt   int64  `json:"expires_at"`
}

type AuthResult struct {
	User    *model.User `json:"user"`
	Session *Session    `json:"session"`
}

const minPasswordLength = 6

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	email := util.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" || strings.TrimSpace(req.FullName) == "" ||
		req.EnrollmentNumber == "" || req.MobileNumber == "" || req.Department == "" ||
		req.Year.Blank() {
		return nil, util.MissingFields("email", "password", "full_name", "enrollment_number", "mobile_number", "department", "year")
	}
	if len(req.Password) < minPasswordLength {
		return nil, util.InvalidArgument("Password should be at least 6 characters")
	}
	if req.Year.Invalid || req.Year.Value < 1 || req.Year.Value > 4 {
		return nil, util.InvalidArgument("Year must be between 1 and 4")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:            email,
		PasswordHash:     string(hashed),
		Role:             model.Participant,
		FullName:         strings.TrimSpace(req.FullName),
		EnrollmentNumber: req.EnrollmentNumber,
		MobileNumber:     req.MobileNumber,
		Department:       req.Department,
		Year:             req.Year.Value,
	}
	if s.isAdminEmail(email) {
		user.Role = model.Admin
	}

	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, util.Conflict("Email already registered", "An account with this email already exists")
		}
		return nil, err
	}

	if s.Mailer != nil {
		if err := s.Mailer.SendRegistrationEmail(ctx, user); err != nil {
			logger.Log.Error("Failed to send confirmation email",
				zap.String("email", user.Email), zap.Error(err))
		} else {
			logger.Log.Info("Confirmation email sent", zap.String("email", user.Email))
		}
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Session: session}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	email := util.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, &util.AppError{Kind: util.ErrMissingField, Message: "Email and password are required"}
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.UnauthorizedError("Invalid login credentials")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, util.UnauthorizedError("Invalid login credentials")
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Session: session}, nil
}

func (s *AuthService) issue(user *model.User) (*Session, error) {
	token, claims, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.Cfg.JWT.ExpireTime / time.Second),
		ExpiresAt:   claims.ExpiresAt.Unix(),
	}, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil {
		return util.UnauthorizedError("Unauthorized")
	}
	if s.Blacklist == nil || claims.ID == "" {
		return nil
	}
	ttl := s.Cfg.JWT.ExpireTime
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return s.Blacklist.Revoke(ctx, claims.ID, ttl)
}

// IsRevoked is consulted by the auth middleware on every authenticated request.
func (s *AuthService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.Blacklist == nil || tokenID == "" {
		return false, nil
	}
	return s.Blacklist.IsRevoked(ctx, tokenID)
}

func (s *AuthService) Me(ctx context.Context, claims *util.Claims) (*model.User, error) {
	if claims == nil {
		return nil, util.UnauthorizedError("Unauthorized")
	}
	user, err := s.Users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("User profile not found")
		}
		return nil, err
	}
	return user, nil
}
