package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/SanteonNL/sift/cmd/sift/api"
	"github.com/SanteonNL/sift/cmd/sift/datasource"
	"github.com/SanteonNL/sift/models"
)

func main() {
	log := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stdout })).With().Timestamp().Caller().Logger()

	cfg, err := LoadConfig(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = log.Level(cfg.LogLevel)
	log.Debug().Str("backend", cfg.Backend).Msg("Starting sift")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the database")
	}
	defer db.Close()

	dataSource := datasource.NewDataSourceService(db, cfg.MaxRows, log)
	if cfg.Backend == backendGorm {
		gormDB, err := gorm.Open("postgres", db.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open gorm")
		}
		dataSource = datasource.NewGormDataSourceService(gormDB, cfg.MaxRows, log)
	}

	resources := models.Builtin()
	if cfg.Declarations != "" {
		declared, err := loadDeclaredResources(ctx, cfg.Declarations, db, log)
		if err != nil {
			log.Fatal().Err(err).Str("source", cfg.Declarations).Msg("Failed to load declared resources")
		}
		resources = mergeResources(resources, declared)
	}

	locales := api.NewLocaleNegotiator(cfg.DefaultLocale, cfg.Locales...)
	router := api.NewListRouter(resources, dataSource, locales, log)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shut down server")
		}
	}()

	log.Info().Str("addr", cfg.ListenAddr).Int("resources", len(resources)).Msg("Server started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
