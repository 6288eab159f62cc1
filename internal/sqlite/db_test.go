package sqlite

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates an in-memory database with migrations applied.
// Each test gets its own named shared-cache database so the
// connection pool sees a single schema.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := New(dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations())
	return db
}

func TestRunMigrations_CreatesSchema(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{"leads", "contacts", "activity_log", "leads_fts", "contacts_fts", "api_keys"}
	for _, table := range tables {
		var name string
		err := db.QueryRow(
			`SELECT name FROM sqlite_master WHERE name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, "expected table %s to exist", table)
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	require.False(t, isForeignKeyViolation(nil))
	require.False(t, isForeignKeyViolation(fmt.Errorf("something else")))
	require.True(t, isForeignKeyViolation(fmt.Errorf("constraint failed: FOREIGN KEY constraint failed (787)")))
}
