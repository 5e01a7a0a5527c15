// Package testutil provides test helpers including container management
// and test client utilities.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aspectsofpower/ruleset/internal/config"
	"github.com/aspectsofpower/ruleset/internal/storage/postgres"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	container testcontainers.Container
	Pool      *postgres.Pool
	RawPool   *pgxpool.Pool
	Config    config.DatabaseConfig
}

// NewPostgresContainer starts a PostgreSQL test container and returns
// a connected Pool.
//
// Precondition: Docker must be available.
// Postcondition: Returns a running container with a connected pool,
// or fails the test.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()
	start := time.Now()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v [%s]", err, time.Since(start))
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("getting container host: %v", err)
	}

	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("getting mapped port: %v", err)
	}

	dbCfg := config.DatabaseConfig{
		Host:            host,
		Port:            mappedPort.Int(),
		User:            "test",
		Password:        "test",
		Name:            "test",
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}

	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		t.Fatalf("connecting to test postgres: %v [%s]", err, time.Since(start))
	}

	t.Logf("postgres container started [%s]", time.Since(start))

	pc := &PostgresContainer{
		container: container,
		Pool:      pool,
		RawPool:   pool.DB(),
		Config:    dbCfg,
	}

	t.Cleanup(func() {
		pool.Close()
		_ = container.Terminate(ctx)
	})

	return pc
}

// ApplyMigrations runs the schema creation SQL directly for tests.
// This avoids requiring the migrate tool in the test environment.
//
// Precondition: Pool must be connected.
// Postcondition: The character tables exist in the test database.
func (pc *PostgresContainer) ApplyMigrations(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	start := time.Now()

	schema := `
		CREATE TABLE IF NOT EXISTS characters (
			id               UUID         PRIMARY KEY,
			name             VARCHAR(64)  NOT NULL,
			type             VARCHAR(16)  NOT NULL,
			race_name        VARCHAR(64)  NOT NULL,
			race_level       INTEGER      NOT NULL DEFAULT 1,
			race_rank        VARCHAR(2)   NOT NULL,
			class_name       VARCHAR(64)  NOT NULL DEFAULT '',
			class_level      INTEGER      NOT NULL DEFAULT 0,
			class_tier       INTEGER      NOT NULL DEFAULT 0,
			profession_name  VARCHAR(64)  NOT NULL DEFAULT '',
			profession_level INTEGER      NOT NULL DEFAULT 0,
			profession_tier  INTEGER      NOT NULL DEFAULT 0,
			free_points      INTEGER      NOT NULL DEFAULT 0 CHECK (free_points >= 0),
			health_current   INTEGER      NOT NULL DEFAULT 0,
			mana_current     INTEGER      NOT NULL DEFAULT 0,
			stamina_current  INTEGER      NOT NULL DEFAULT 0,
			blessing_id      VARCHAR(64)  NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at       TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS ability_sources (
			character_id UUID        NOT NULL REFERENCES characters (id) ON DELETE CASCADE,
			ability      VARCHAR(16) NOT NULL,
			source       VARCHAR(16) NOT NULL,
			points       INTEGER     NOT NULL,
			PRIMARY KEY (character_id, ability, source)
		);
		CREATE TABLE IF NOT EXISTS items (
			id             UUID         PRIMARY KEY,
			character_id   UUID         NOT NULL REFERENCES characters (id) ON DELETE CASCADE,
			name           VARCHAR(128) NOT NULL,
			kind           VARCHAR(16)  NOT NULL,
			slot           VARCHAR(16)  NOT NULL,
			equipped       BOOLEAN      NOT NULL DEFAULT FALSE,
			stat_bonuses   JSONB,
			attack_bonus   INTEGER      NOT NULL DEFAULT 0,
			damage_bonus   INTEGER      NOT NULL DEFAULT 0,
			defense_value  INTEGER      NOT NULL DEFAULT 0,
			req_abilities  JSONB,
			req_race_level INTEGER      NOT NULL DEFAULT 0,
			created_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);
	`

	_, err := pc.RawPool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("applying migrations: %v", err)
	}
	t.Logf("migrations applied [%s]", time.Since(start))
}

// NewPool starts a PostgreSQL container, applies the schema, and returns the
// raw pool. One container per calling test; cleaned up automatically.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pc := NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return pc.RawPool
}

// DSN returns the connection string for the test database.
func (pc *PostgresContainer) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.Config.User, pc.Config.Password,
		pc.Config.Host, pc.Config.Port,
		pc.Config.Name, pc.Config.SSLMode,
	)
}
