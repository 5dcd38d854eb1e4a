package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"agrolink/internal/infrastructure/mysql"
)

// SetupTestDB opens the MySQL test database. It expects an `agrolink_test`
// schema on localhost:3306 unless TEST_MYSQL_DSN says otherwise, and skips
// the test when the server is unreachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/agrolink_test?parseTime=true"
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties every table and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	for i := len(mysql.Tables) - 1; i >= 0; i-- {
		table := mysql.Tables[i]
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the application schema.
func SetupTestTables(t *testing.T, db *sql.DB) {
	if err := mysql.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
}
