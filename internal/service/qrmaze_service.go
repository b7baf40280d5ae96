package service

import (
	"context"
	"errors"
	"fmt"
	"ggsc_backend/internal/model"
	"ggsc_backend/internal/repository"
	"ggsc_backend/internal/util"
	"ggsc_backend/pkg/monitoring"
	"ggsc_backend/pkg/tracing"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type QrMazeService struct {
	Submissions QrMazeStore
	Users       UserStore
	Identities  *IdentityResolver
}

func NewQrMazeService(submissions QrMazeStore, users UserStore, identities *IdentityResolver) *QrMazeService {
	return &QrMazeService{Submissions: submissions, Users: users, Identities: identities}
}

// swagger:model SubmitScoreRequest
type SubmitScoreRequest struct {
	Email          string       `json:"email"`
	TimeTaken      util.FlexInt `json:"timeTaken"`
	CorrectAnswers util.FlexInt `json:"correctAnswers"`
	SetNumber      util.FlexInt `json:"setNumber"`
	Title          string       `json:"title"`
}

// swagger:model UpdateScoreRequest
type UpdateQrMazeScoreRequest struct {
	Email          string       `json:"email"`
	SetNumber      util.FlexInt `json:"setNumber"`
	TimeTaken      util.FlexInt `json:"timeTaken"`
	CorrectAnswers util.FlexInt `json:"correctAnswers"`
}

type QrMazeSubmissionView struct {
	ID             string    `json:"id,omitempty"`
	Email          string    `json:"email,omitempty"`
	SetNumber      int       `json:"setNumber"`
	Title          string    `json:"title,omitempty"`
	CorrectAnswers int       `json:"correctAnswers"`
	TimeTaken      int       `json:"timeTaken"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

type QrMazeUpdatedView struct {
	Email          string    `json:"email"`
	SetNumber      int       `json:"setNumber"`
	CorrectAnswers int       `json:"correctAnswers"`
	TimeTaken      int       `json:"timeTaken"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type QrMazeProgressUser struct {
	FullName         string `json:"full_name"`
	EnrollmentNumber string `json:"enrollment_number"`
	Department       string `json:"department"`
	Year             int    `json:"year"`
}

type QrMazeProgress struct {
	Email         string                 `json:"email"`
	User          *QrMazeProgressUser    `json:"user"`
	SetsCompleted int                    `json:"sets_completed"`
	Submissions   []QrMazeSubmissionView `json:"submissions"`
}

type QrMazeSetEntry struct {
	Rank             int       `json:"rank"`
	FullName         string    `json:"fullName"`
	Email            string    `json:"email"`
	EnrollmentNumber string    `json:"enrollmentNumber"`
	Department       string    `json:"department"`
	Year             int       `json:"year"`
	CorrectAnswers   int       `json:"correctAnswers"`
	TimeTaken        int       `json:"timeTaken"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

type QrMazeSetLeaderboard struct {
	SetNumber   int              `json:"setNumber"`
	Title       *string          `json:"title"`
	Count       int              `json:"count"`
	Leaderboard []QrMazeSetEntry `json:"leaderboard"`
}

type QrMazeOverallEntry struct {
	Rank                int       `json:"rank"`
	Email               string    `json:"email"`
	FullName            string    `json:"fullName"`
	EnrollmentNumber    string    `json:"enrollmentNumber"`
	Department          string    `json:"department"`
	Year                int       `json:"year"`
	SetsCompleted       int       `json:"setsCompleted"`
	TotalCorrectAnswers int       `json:"totalCorrectAnswers"`
	TotalTimeTaken      int       `json:"totalTimeTaken"`
	AvgCorrectAnswers   Decimal2  `json:"avgCorrectAnswers"`
	AvgTimeTaken        Decimal2  `json:"avgTimeTaken"`
	LastSubmission      time.Time `json:"lastSubmission"`
}

type QrMazeOverallLeaderboard struct {
	Count       int                  `json:"count"`
	Leaderboard []QrMazeOverallEntry `json:"leaderboard"`
}

type QrMazeSetSubmission struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FullName         string    `json:"fullName"`
	EnrollmentNumber string    `json:"enrollmentNumber"`
	Department       string    `json:"department"`
	Year             int       `json:"year"`
	Title            string    `json:"title"`
	CorrectAnswers   int       `json:"correctAnswers"`
	TimeTaken        int       `json:"timeTaken"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

type QrMazeSetSubmissions struct {
	SetNumber   int                   `json:"setNumber"`
	Count       int                   `json:"count"`
	Submissions []QrMazeSetSubmission `json:"submissions"`
}

// SubmitScore records one attempt per (email, set). Validation runs before any store access
// except the registration check.
func (s *QrMazeService) SubmitScore(ctx context.Context, req SubmitScoreRequest) (*QrMazeSubmissionView, error) {
	email := util.NormalizeEmail(req.Email)
	if email == "" || !req.TimeTaken.Set || !req.CorrectAnswers.Set ||
		req.SetNumber.Blank() || strings.TrimSpace(req.Title) == "" {
		return nil, s.reject(util.MissingFields("email", "timeTaken", "correctAnswers", "setNumber", "title"))
	}
	if !validSet(req.SetNumber) {
		return nil, s.reject(util.InvalidArgument(util.MsgInvalidSetNumber))
	}
	if !nonNegative(req.TimeTaken) || !nonNegative(req.CorrectAnswers) {
		return nil, s.reject(util.InvalidArgument("timeTaken and correctAnswers must be non-negative"))
	}

	if _, err := s.Users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.reject(util.NotFoundWithDetail(util.MsgEmailNotRegistered, "Please register first before submitting scores"))
		}
		return nil, err
	}

	submission := &model.QrMazeSubmission{
		Email:          email,
		SetNumber:      req.SetNumber.Value,
		Title:          req.Title,
		TimeTaken:      req.TimeTaken.Value,
		CorrectAnswers: req.CorrectAnswers.Value,
	}
	if err := s.Submissions.Create(ctx, submission); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			monitoring.ScoreSubmissions.WithLabelValues("qrmaze", "conflict").Inc()
			return nil, util.Conflict("Score already submitted for this set",
				fmt.Sprintf("You have already submitted a score for set %d", req.SetNumber.Value))
		}
		return nil, err
	}

	monitoring.ScoreSubmissions.WithLabelValues("qrmaze", "accepted").Inc()
	return &QrMazeSubmissionView{
		ID:             submission.ID,
		Email:          submission.Email,
		SetNumber:      submission.SetNumber,
		Title:          submission.Title,
		CorrectAnswers: submission.CorrectAnswers,
		TimeTaken:      submission.TimeTaken,
		SubmittedAt:    submission.CreatedAt,
	}, nil
}

func (s *QrMazeService) reject(err error) error {
	monitoring.ScoreSubmissions.WithLabelValues("qrmaze", "rejected").Inc()
	return err
}

// GetUserProgress lists a participant's attempts by set. User is nil when the email is unregistered.
func (s *QrMazeService) GetUserProgress(ctx context.Context, email string) (*QrMazeProgress, error) {
	normalized := util.NormalizeEmail(email)
	submissions, err := s.Submissions.FindByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}

	progress := &QrMazeProgress{
		Email:         email,
		SetsCompleted: len(submissions),
		Submissions:   make([]QrMazeSubmissionView, len(submissions)),
	}
	for i, sub := range submissions {
		progress.Submissions[i] = QrMazeSubmissionView{
			SetNumber:      sub.SetNumber,
			Title:          sub.Title,
			CorrectAnswers: sub.CorrectAnswers,
			TimeTaken:      sub.TimeTaken,
			SubmittedAt:    sub.CreatedAt,
		}
	}

	if user, err := s.Users.FindByEmail(ctx, normalized); err == nil {
		progress.User = &QrMazeProgressUser{
			FullName:         user.FullName,
			EnrollmentNumber: user.EnrollmentNumber,
			Department:       user.Department,
			Year:             user.Year,
		}
	}
	return progress, nil
}

func (s *QrMazeService) GetSetLeaderboard(ctx context.Context, setNumber int) (*QrMazeSetLeaderboard, error) {
	if !model.ValidSetNumber(setNumber) {
		return nil, util.InvalidArgument(util.MsgInvalidSetNumber)
	}

	ctx, span := tracing.StartSpan(ctx, "qrmaze.set_leaderboard", attribute.Int("qrmaze.set", setNumber))
	defer span.End()

	rows, err := s.Submissions.FindSetLeaderboard(ctx, setNumber, LeaderboardLimit)
	if err != nil {
		return nil, err
	}

	board := &QrMazeSetLeaderboard{
		SetNumber:   setNumber,
		Count:       len(rows),
		Leaderboard: make([]QrMazeSetEntry, len(rows)),
	}
	if len(rows) > 0 {
		title := rows[0].Title
		board.Title = &title
	}
	for i, row := range rows {
		id := rankIdentity(&row)
		board.Leaderboard[i] = QrMazeSetEntry{
			Rank:             row.Rank,
			FullName:         id.FullName,
			Email:            row.Email,
			EnrollmentNumber: id.EnrollmentNumber,
			Department:       id.Department,
			Year:             id.Year,
			CorrectAnswers:   row.CorrectAnswers,
			TimeTaken:        row.TimeTaken,
			SubmittedAt:      row.CreatedAt,
		}
	}

	monitoring.LeaderboardSize.WithLabelValues(fmt.Sprintf("qrmaze_set_%d", setNumber)).Set(float64(len(rows)))
	return board, nil
}

// rankIdentity reads the identity columns the view left-joined in.
func rankIdentity(row *model.QrMazeSetRank) Identity {
	id := placeholderIdentity()
	if row.FullName != nil && *row.FullName != "" {
		id.FullName = *row.FullName
	}
	if row.EnrollmentNumber != nil && *row.EnrollmentNumber != "" {
		id.EnrollmentNumber = *row.EnrollmentNumber
	}
	if row.Department != nil && *row.Department != "" {
		id.Department = *row.Department
	}
	if row.Year != nil {
		id.Year = *row.Year
	}
	id.Found = row.UserID != nil
	return id
}

// GetOverallLeaderboard fails when the user lookup fails. Participants with no user
// record still get placeholder identities.
func (s *QrMazeService) GetOverallLeaderboard(ctx context.Context) (*QrMazeOverallLeaderboard, error) {
	ctx, span := tracing.StartSpan(ctx, "qrmaze.overall_leaderboard")
	defer span.End()

	submissions, err := s.Submissions.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	totals := AggregateQrMazeTotals(submissions, LeaderboardLimit)
	emails := make([]string, len(totals))
	for i := range totals {
		emails[i] = totals[i].Email
	}
	identities, err := s.Identities.ResolveByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}

	entries := make([]QrMazeOverallEntry, len(totals))
	for i, t := range totals {
		id := identities.Lookup(t.Email)
		entries[i] = QrMazeOverallEntry{
			Rank:                t.Rank,
			Email:               t.Email,
			FullName:            id.FullName,
			EnrollmentNumber:    id.EnrollmentNumber,
			Department:          id.Department,
			Year:                id.Year,
			SetsCompleted:       t.SetsCompleted,
			TotalCorrectAnswers: t.TotalCorrectAnswers,
			TotalTimeTaken:      t.TotalTimeTaken,
			AvgCorrectAnswers:   t.AvgCorrectAnswers,
			AvgTimeTaken:        t.AvgTimeTaken,
			LastSubmission:      t.LastSubmission,
		}
	}

	span.SetAttributes(attribute.Int("leaderboard.count", len(entries)))
	monitoring.LeaderboardSize.WithLabelValues("qrmaze_overall").Set(float64(len(entries)))
	return &QrMazeOverallLeaderboard{Count: len(entries), Leaderboard: entries}, nil
}

func (s *QrMazeService) GetSetSubmissions(ctx context.Context, setNumber int) (*QrMazeSetSubmissions, error) {
	if !model.ValidSetNumber(setNumber) {
		return nil, util.InvalidArgument(util.MsgInvalidSetNumber)
	}

	submissions, err := s.Submissions.FindBySet(ctx, setNumber)
	if err != nil {
		return nil, err
	}

	emails := make([]string, len(submissions))
	for i := range submissions {
		emails[i] = submissions[i].Email
	}
	identities := s.Identities.lenientByEmails(ctx, "qrmaze_set_submissions", emails)

	out := &QrMazeSetSubmissions{
		SetNumber:   setNumber,
		Count:       len(submissions),
		Submissions: make([]QrMazeSetSubmission, len(submissions)),
	}
	for i, sub := range submissions {
		id := identities.Lookup(sub.Email)
		out.Submissions[i] = QrMazeSetSubmission{
			ID:               sub.ID,
			Email:            sub.Email,
			FullName:         id.FullName,
			EnrollmentNumber: id.EnrollmentNumber,
			Department:       id.Department,
			Year:             id.Year,
			Title:            sub.Title,
			CorrectAnswers:   sub.CorrectAnswers,
			TimeTaken:        sub.TimeTaken,
			SubmittedAt:      sub.CreatedAt,
		}
	}
	return out, nil
}

func validSet(n util.FlexInt) bool {
	return !n.Invalid && model.ValidSetNumber(n.Value)
}

func nonNegative(n util.FlexInt) bool {
	return !n.Invalid && n.Value >= 0
}

// UpdateScore corrects an existing attempt. It never creates one.
func (s *QrMazeService) UpdateScore(ctx context.Context, req UpdateQrMazeScoreRequest) (*QrMazeUpdatedView, error) {
	email := util.NormalizeEmail(req.Email)
	if email == "" || req.SetNumber.Blank() || !req.TimeTaken.Set || !req.CorrectAnswers.Set {
		return nil, util.MissingFields("email", "setNumber", "timeTaken", "correctAnswers")
	}
	if !validSet(req.SetNumber) {
		return nil, util.InvalidArgument(util.MsgInvalidSetNumber)
	}
	if !nonNegative(req.TimeTaken) || !nonNegative(req.CorrectAnswers) {
		return nil, util.InvalidArgument("timeTaken and correctAnswers must be non-negative")
	}

	updated, err := s.Submissions.UpdateScore(ctx, email, req.SetNumber.Value, req.TimeTaken.Value, req.CorrectAnswers.Value)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("Submission not found")
		}
		return nil, err
	}
	return &QrMazeUpdatedView{
		Email:          updated.Email,
		SetNumber:      updated.SetNumber,
		CorrectAnswers: updated.CorrectAnswers,
		TimeTaken:      updated.TimeTaken,
		UpdatedAt:      updated.UpdatedAt,
	}, nil
}

func (s *QrMazeService) DeleteSubmission(ctx context.Context, id string) error {
	if !model.IsUUID(id) {
		return util.NotFound("Submission not found")
	}
	if err := s.Submissions.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFound("Submission not found")
		}
		return err
	}
	return nil
}
