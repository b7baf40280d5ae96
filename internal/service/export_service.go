package service

import (
	"bytes"
	"context"
	"fmt"
	"ggsc_backend/internal/model"
	"ggsc_backend/internal/util"
	"ggsc_backend/pkg/logger"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	ExportGame   = "game"
	ExportQrMaze = "qrmaze"
	ExportTeams  = "teams"
)

// ExportService renders results as xlsx workbooks and publishes them to storage.
type ExportService struct {
	Game    *GameService
	QrMaze  *QrMazeService
	Scores  *ScoreService
	Storage *StorageService
	now     func() time.Time
}

func NewExportService(game *GameService, qrmaze *QrMazeService, scores *ScoreService, storage *StorageService) *ExportService {
	return &ExportService{Game: game, QrMaze: qrmaze, Scores: scores, Storage: storage, now: time.Now}
}

type ExportResult struct {
	Kind     string `json:"kind"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Rows     int    `json:"rows"`
}

func (s *ExportService) Export(ctx context.Context, kind string) (*ExportResult, error) {
	var (
		buf  *bytes.Buffer
		rows int
		err  error
	)
	switch kind {
	case ExportGame:
		buf, rows, err = s.buildGame(ctx)
	case ExportQrMaze:
		buf, rows, err = s.buildQrMaze(ctx)
	case ExportTeams:
		buf, rows, err = s.buildTeams(ctx)
	default:
		return nil, util.InvalidArgument("Invalid export kind. Must be game, qrmaze or teams")
	}
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%s_results_%s.xlsx", kind, s.now().UTC().Format(util.FileStampFormat))
	url, err := s.Storage.Upload(ctx, filename, bytes.NewReader(buf.Bytes()), int64(buf.Len()), util.MimeXLSX)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Results exported", zap.String("kind", kind), zap.String("url", url), zap.Int("rows", rows))
	return &ExportResult{Kind: kind, Filename: filename, URL: url, Rows: rows}, nil
}

type sheetWriter struct {
	f           *excelize.File
	headerStyle int
}

func newSheetWriter() *sheetWriter {
	f := excelize.NewFile()
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	return &sheetWriter{f: f, headerStyle: style}
}

// sheet creates name with a styled header row and returns a row appender.
func (w *sheetWriter) sheet(name string, headers ...string) func(values ...interface{}) {
	if _, err := w.f.NewSheet(name); err != nil {
		logger.Log.Warn("Failed to create sheet", zap.String("sheet", name), zap.Error(err))
	}
	for i, h := range headers {
		w.f.SetCellValue(name, cellName(i, 1), h)
	}
	if len(headers) > 0 {
		w.f.SetCellStyle(name, cellName(0, 1), cellName(len(headers)-1, 1), w.headerStyle)
		last, _ := excelize.ColumnNumberToName(len(headers))
		w.f.SetColWidth(name, "A", last, 18)
	}

	row := 2
	return func(values ...interface{}) {
		for i, v := range values {
			w.f.SetCellValue(name, cellName(i, row), v)
		}
		row++
	}
}

func (w *sheetWriter) finish() (*bytes.Buffer, error) {
	defer w.f.Close()
	w.f.DeleteSheet("Sheet1")
	w.f.SetActiveSheet(0)
	buf := new(bytes.Buffer)
	if err := w.f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}

func floatOrBlank(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func intOrBlank(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func (s *ExportService) buildGame(ctx context.Context) (*bytes.Buffer, int, error) {
	board, err := s.Game.GetLeaderboard(ctx)
	if err != nil {
		return nil, 0, err
	}
	all, err := s.Game.GetSubmissions(ctx)
	if err != nil {
		return nil, 0, err
	}

	w := newSheetWriter()
	add := w.sheet("Leaderboard", "Rank", "Name", "Email", "Enrollment", "Department", "Year", "Total Time", "Last Level", "Completed At")
	for _, e := range board.Leaderboard {
		add(e.Rank, e.FullName, e.Email, e.EnrollmentNumber, e.Department, e.Year,
			floatOrBlank(e.TotalGameTime), e.LastCompletedLevel, e.CompletedAt.UTC().Format(util.TimeFormat))
	}
	add = w.sheet("Submissions", "Name", "Email", "Enrollment", "Department", "Year", "Level Time", "Total Time", "Last Level", "Completed At")
	for _, e := range all.Submissions {
		add(e.FullName, e.Email, e.EnrollmentNumber, e.Department, e.Year,
			floatOrBlank(e.LevelTime), floatOrBlank(e.TotalGameTime), e.LastCompletedLevel, e.CompletedAt.UTC().Format(util.TimeFormat))
	}

	buf, err := w.finish()
	return buf, board.Count + all.Count, err
}

func (s *ExportService) buildQrMaze(ctx context.Context) (*bytes.Buffer, int, error) {
	overall, err := s.QrMaze.GetOverallLeaderboard(ctx)
	if err != nil {
		return nil, 0, err
	}

	w := newSheetWriter()
	add := w.sheet("Overall", "Rank", "Name", "Email", "Enrollment", "Department", "Year",
		"Sets", "Correct", "Time", "Avg Correct", "Avg Time", "Last Submission")
	for _, e := range overall.Leaderboard {
		add(e.Rank, e.FullName, e.Email, e.EnrollmentNumber, e.Department, e.Year,
			e.SetsCompleted, e.TotalCorrectAnswers, e.TotalTimeTaken,
			float64(e.AvgCorrectAnswers), float64(e.AvgTimeTaken), e.LastSubmission.UTC().Format(util.TimeFormat))
	}
	rows := overall.Count

	for set := model.MinSetNumber; set <= model.MaxSetNumber; set++ {
		board, err := s.QrMaze.GetSetLeaderboard(ctx, set)
		if err != nil {
			return nil, 0, err
		}
		add := w.sheet(fmt.Sprintf("Set %d", set), "Rank", "Name", "Email", "Enrollment", "Department", "Year", "Correct", "Time", "Submitted At")
		for _, e := range board.Leaderboard {
			add(e.Rank, e.FullName, e.Email, e.EnrollmentNumber, e.Department, e.Year,
				e.CorrectAnswers, e.TimeTaken, e.SubmittedAt.UTC().Format(util.TimeFormat))
		}
		rows += board.Count
	}

	buf, err := w.finish()
	return buf, rows, err
}

func (s *ExportService) buildTeams(ctx context.Context) (*bytes.Buffer, int, error) {
	board, err := s.Scores.OverallLeaderboard(ctx)
	if err != nil {
		return nil, 0, err
	}

	w := newSheetWriter()
	add := w.sheet("Teams", "Rank", "Team Number", "Team Name", "Round 1", "Round 2", "Round 3", "Total", "Members")
	for _, t := range board.Leaderboard {
		names := ""
		for i, m := range t.Members {
			if i > 0 {
				names += ", "
			}
			names += m.FullName
		}
		add(t.Rank, t.TeamNumber, t.TeamName, intOrBlank(t.Round1Score), intOrBlank(t.Round2Score),
			intOrBlank(t.Round3Score), intOrBlank(t.TotalScore), names)
	}

	buf, err := w.finish()
	return buf, board.Count, err
}
