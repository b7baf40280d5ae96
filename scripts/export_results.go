// Export results to a spreadsheet from the command line, for example after the event closes
// when the admin API is no longer reachable.
//
// Usage: go run scripts/export_results.go -kind qrmaze

package main

import (
	"context"
	"flag"
	"ggsc_backend/internal/config"
	"ggsc_backend/internal/repository"
	"ggsc_backend/internal/service"
	"ggsc_backend/pkg/database"
	"ggsc_backend/pkg/logger"
	"log"
)

func main() {
	kind := flag.String("kind", service.ExportQrMaze, "game, qrmaze or teams")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	users := repository.NewUserRepository(db)
	identities := service.NewIdentityResolver(users)
	exports := service.NewExportService(
		service.NewGameService(repository.NewGameLevelRepository(db), users, identities),
		service.NewQrMazeService(repository.NewQrMazeRepository(db), users, identities),
		service.NewScoreService(repository.NewTeamRepository(db), identities),
		service.NewStorageService(&cfg.Storage),
	)

	log.Printf("Exporting %s results...", *kind)
	res, err := exports.Export(context.Background(), *kind)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	log.Printf("Wrote %d rows to %s (%s)", res.Rows, res.Filename, res.URL)
}
