package helper

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DatabaseConfiguration holds the connection parameters for PostgreSQL.
type DatabaseConfiguration struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Schema   string
	SSLMode  string
}

// NewDatabaseConfiguration creates a DatabaseConfiguration from environment
// variables. A .env file is loaded first if present.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	// Best effort, envs can also come from the process environment
	godotenv.Load()

	config := &DatabaseConfiguration{
		Host:     os.Getenv("TRIPWISE_DB_HOST"),
		Port:     os.Getenv("TRIPWISE_DB_PORT"),
		Database: os.Getenv("TRIPWISE_DB_DATABASE"),
		Username: os.Getenv("TRIPWISE_DB_USERNAME"),
		Password: os.Getenv("TRIPWISE_DB_PASSWORD"),
		Schema:   os.Getenv("TRIPWISE_DB_SCHEMA"),
		SSLMode:  os.Getenv("TRIPWISE_DB_SSLMODE"),
	}

	if config.Host == "" || config.Port == "" || config.Database == "" || config.Username == "" {
		return nil, NewError("database configuration validation", fmt.Errorf("missing required database environment variables"))
	}
	if config.Schema == "" {
		config.Schema = "public"
	}
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config, nil
}

// Database wraps the sql.DB instance together with its logger.
type Database struct {
	Name     string
	Instance *sql.DB
	Logger   *slog.Logger
}

// NewDatabase opens a connection to PostgreSQL and verifies it with a ping.
// It panics if the database is not reachable, connecting is a startup
// requirement for every handler.
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) *Database {
	connStr := fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s search_path=%s sslmode=%s",
		config.Host,
		config.Port,
		config.Database,
		config.Username,
		config.Password,
		config.Schema,
		config.SSLMode,
	)

	instance, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Panicf("error opening database connection: %#v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = instance.PingContext(ctx)
	if err != nil {
		log.Panicf("error pinging database: %#v", err)
	}

	logger.Info("Connected to database", slog.String("name", name), slog.String("host", config.Host))

	return &Database{
		Name:     name,
		Instance: instance,
		Logger:   logger,
	}
}

// NewTestDatabase creates a Database with a default pretty logger for tests.
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	opts := PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelWarn,
		},
	}
	logger := slog.New(NewPrettyHandler(os.Stdout, opts))
	return NewDatabase("test", config, logger)
}

// MustStartPostgresContainer starts a throwaway PostgreSQL container for
// tests and examples. It returns the teardown function and the mapped port.
func MustStartPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	var (
		dbName     = "database"
		dbPassword = "password"
		dbUsername = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:17-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUsername),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", err
	}

	mappedPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, "", err
	}

	return dbContainer.Terminate, mappedPort.Port(), nil
}

// SetTestDatabaseConfigEnvs sets the database environment variables for a
// test run against a container started with MustStartPostgresContainer.
func SetTestDatabaseConfigEnvs(t *testing.T, port string) {
	t.Setenv("TRIPWISE_DB_HOST", "localhost")
	t.Setenv("TRIPWISE_DB_PORT", port)
	t.Setenv("TRIPWISE_DB_DATABASE", "database")
	t.Setenv("TRIPWISE_DB_USERNAME", "user")
	t.Setenv("TRIPWISE_DB_PASSWORD", "password")
	t.Setenv("TRIPWISE_DB_SCHEMA", "public")
	t.Setenv("TRIPWISE_DB_SSLMODE", "disable")
}
