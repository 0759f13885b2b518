package db

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	testURLEnv        = "TEST_POSTGRESQL_URL"
	testMigrationsEnv = "TEST_MIGRATIONS_PATH"
)

// HasTestDatabase reports whether repository tests can reach a database.
func HasTestDatabase() bool {
	return os.Getenv(testURLEnv) != ""
}

func applyMigrations(connString string) {
	migrationsPath := os.Getenv(testMigrationsEnv)
	if migrationsPath == "" {
		panic(testMigrationsEnv + " must be set.")
	}
	if err := Migrate("file://"+migrationsPath, connString, true); err != nil {
		panic(fmt.Sprintf("Could not apply DB migrations %v.", err))
	}
}

func CreateTestPool() *pgxpool.Pool {
	connString := os.Getenv(testURLEnv)
	if connString == "" {
		panic(testURLEnv + " must be set.")
	}
	applyMigrations(connString)

	pool, err := pgxpool.Connect(context.Background(), connString)
	if err != nil {
		panic("Could not connect to the database.")
	}
	return pool
}

func TruncateTables(pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), "TRUNCATE users")
	if err != nil {
		panic("Could not truncate DB tables.")
	}
}
