package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shams-elarab/internal/config"
	"shams-elarab/internal/database"
	"shams-elarab/internal/importer"
	"shams-elarab/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	defaults := importer.DefaultSources()

	var src importer.Sources
	flag.StringVar(&src.Courses, "courses", defaults.Courses, "courses document (empty to skip)")
	flag.StringVar(&src.Roadmaps, "roadmaps", defaults.Roadmaps, "roadmaps document (empty to skip)")
	flag.StringVar(&src.HomePage, "homepage", defaults.HomePage, "home page document (empty to skip)")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall import timeout")
	flag.Parse()

	cfg, err := config.LoadSeed()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, "seed")
	logger.Info().
		Str("courses", src.Courses).
		Str("roadmaps", src.Roadmaps).
		Str("homepage", src.HomePage).
		Msg("starting catalog import")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	fileLoader := importer.NewFileLoader(logger)

	var s3Loader importer.Loader
	if cfg.Seed.S3Enabled {
		s3Loader, err = importer.NewS3Loader(ctx, cfg.Seed.S3Bucket, cfg.Seed.S3Region, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize S3 loader, falling back to local files")
			s3Loader = nil
		}
	}

	loader := importer.NewFallbackLoader(s3Loader, fileLoader, cfg.Seed.S3Prefix, cfg.Seed.S3Enabled, logger)

	imp := importer.New(
		loader,
		repository.NewCourseRepository(pool, logger),
		repository.NewRoadmapRepository(pool, logger),
		repository.NewPageRepository(pool, logger),
		logger,
	)

	start := time.Now()
	summary, err := imp.Run(ctx, src)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	logger.Info().
		Int("courses", summary.Courses).
		Int("roadmaps", summary.Roadmaps).
		Int("skipped", summary.Skipped).
		Bool("home_page", summary.HomePage).
		Dur("duration", time.Since(start)).
		Msg("catalog import completed")

	return nil
}
