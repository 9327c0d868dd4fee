package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"shams-elarab/internal/database"
	"shams-elarab/internal/model"
	"shams-elarab/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a connection pool and the
// application schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.EnsureSchema(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedCatalog inserts a published course, a draft course and a published
// roadmap built on the first one.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	logger := zerolog.Nop()
	courses := repository.NewCourseRepository(pool, logger)
	roadmaps := repository.NewRoadmapRepository(pool, logger)

	seed := []*model.Course{
		{
			ID:          "go-basics",
			Title:       "Go Basics",
			IsPublished: true,
			Pricing: model.Pricing{
				Price:         decimal.NewFromInt(100),
				OriginalPrice: decimal.NewFromInt(150),
			},
			Meta: model.CourseMeta{Level: "beginner"},
		},
		{
			ID:      "draft-course",
			Title:   "Draft Course",
			Pricing: model.Pricing{Price: decimal.NewFromInt(80)},
		},
	}
	for _, c := range seed {
		if err := courses.Save(ctx, c); err != nil {
			t.Fatalf("failed to seed course %s: %v", c.ID, err)
		}
	}

	roadmap := &model.Roadmap{
		ID:          "backend",
		Title:       "Backend Track",
		IsPublished: true,
		Pricing:     model.Pricing{Price: decimal.NewFromInt(300)},
		Modules: []model.RoadmapModule{
			{ID: "m1", CourseID: "go-basics", Title: "Go Basics"},
		},
	}
	if err := roadmaps.Save(ctx, roadmap); err != nil {
		t.Fatalf("failed to seed roadmap %s: %v", roadmap.ID, err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"orders", "roadmaps", "courses", "pages"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
