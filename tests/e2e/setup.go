//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"food-rescue-api/cmd/bootstrap"
	"food-rescue-api/cmd/bootstrap/components"
	"food-rescue-api/internal/infra/db"
	"food-rescue-api/internal/infra/migrate"
	"food-rescue-api/internal/pkg/config"
	"food-rescue-api/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgUser     = "rescue"
	pgPassword = "rescue-e2e"
	pgPort     = nat.Port("5432/tcp")
)

var (
	pgOnce      sync.Once
	pgContainer testcontainers.Container
	pgErr       error
)

// pgEndpoint is where the shared container listens on the host.
type pgEndpoint struct {
	host string
	port string
}

func (e pgEndpoint) dsn(database string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, e.host, e.port, database)
}

// startPostgres boots one Postgres 17 container per test binary. Data lives on
// tmpfs with durability switched off; the suite only needs correct locking.
func startPostgres(t *testing.T) pgEndpoint {
	t.Helper()
	pgOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		pgContainer, pgErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "postgres:17",
				ExposedPorts: []string{string(pgPort)},
				Env: map[string]string{
					"POSTGRES_USER":     pgUser,
					"POSTGRES_PASSWORD": pgPassword,
					"POSTGRES_DB":       "postgres",
				},
				Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
				Cmd: []string{
					"postgres",
					"-c", "fsync=off",
					"-c", "synchronous_commit=off",
					"-c", "full_page_writes=off",
					"-c", "max_connections=200",
				},
				WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
					return pgEndpoint{host: host, port: port.Port()}.dsn("postgres")
				}).WithStartupTimeout(time.Minute),
				Labels: map[string]string{"purpose": "food-rescue-e2e"},
			},
			Started: true,
		})
	})
	require.NoError(t, pgErr, "start postgres container")

	ctx := context.Background()
	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, pgPort)
	require.NoError(t, err)
	return pgEndpoint{host: host, port: port.Port()}
}

// createDatabase gives the calling process its own database and drops it on cleanup.
func createDatabase(t *testing.T, ep pgEndpoint) string {
	t.Helper()
	name := "rescue_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	admin, err := pgxpool.New(ctx, ep.dsn("postgres"))
	require.NoError(t, err, "connect as admin")
	defer admin.Close()

	// the server may still be finishing startup when the first test binary arrives
	for attempt := 1; ; attempt++ {
		if _, err = admin.Exec(ctx, "CREATE DATABASE "+name); err == nil || attempt == 5 {
			break
		}
		slog.Warn("create database failed, retrying", "attempt", attempt, "error", err.Error())
		time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
	}
	require.NoError(t, err, "create database %s", name)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		admin, err := pgxpool.New(ctx, ep.dsn("postgres"))
		if err != nil {
			return
		}
		defer admin.Close()
		if _, err := admin.Exec(ctx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			slog.Warn("drop database failed", "database", name, "error", err.Error())
		}
	})
	return name
}

func connectAndMigrate(t *testing.T, ep pgEndpoint, database string) (*pgxpool.Pool, config.DBConfig) {
	t.Helper()
	dbCfg := config.DBConfig{
		Host:            ep.host,
		Port:            ep.port,
		User:            pgUser,
		Password:        pgPassword,
		DBName:          database,
		SSLMode:         "disable",
		TimeZone:        "Asia/Tokyo",
		MaxConns:        40,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
	}

	pool, _, err := db.Connect(context.Background(), dbCfg)
	require.NoError(t, err, "connect to %s", database)
	t.Cleanup(pool.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	require.NoError(t, migrate.Up(ctx, pool), "apply migrations")
	return pool, dbCfg
}

// startApp wires the production fx graph over the test pool and config.
func startApp(t *testing.T, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	t.Helper()
	var router *gin.Engine

	app := fx.New(
		fx.Supply(pool, cfg),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.IdentityModule,
		bootstrap.RedisModule,
		bootstrap.MetricsModule,
		components.RepositoryModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "start fx app")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("stop fx app", "error", err.Error())
		}
	})
	require.NotNil(t, router)
	return router
}

// SharedSuite gives every e2e suite a migrated database and a running router.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	gin.SetMode(gin.TestMode)

	ep := startPostgres(t)
	pool, dbCfg := connectAndMigrate(t, ep, createDatabase(t, ep))

	cfg := config.NewTestConfig()
	cfg.DB = dbCfg

	s.DB = pool
	s.Config = cfg
	s.Router = startApp(t, pool, cfg)
}

// SetupSubTest truncates every table so subtests start from an empty store.
func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "reset database")
}
