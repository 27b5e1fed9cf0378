//go:build integration

package migration_test

import (
	"database/sql"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/erp/settlement/internal/infrastructure/migration"
	"github.com/erp/settlement/internal/testutil"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var exists bool
	require.NoError(t, db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)`,
		name,
	).Scan(&exists))
	return exists
}

func TestMigrator_UpStepsDown(t *testing.T) {
	db, err := sql.Open("postgres", testutil.StartPostgres(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := migration.New(db, zaptest.NewLogger(t))
	require.NoError(t, err)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, m.Up())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(4), version)
	for _, table := range []string{"pos_orders", "pos_payments", "inventory_stocks", "journal_entries", "journal_lines", "outbox_events"} {
		assert.True(t, tableExists(t, db, table), table)
	}

	require.NoError(t, m.Up(), "a second up is a no-op")

	require.NoError(t, m.Steps(-1))
	assert.False(t, tableExists(t, db, "outbox_events"))
	assert.True(t, tableExists(t, db, "journal_entries"))

	require.NoError(t, m.GoTo(4))
	require.NoError(t, m.Down())
	assert.False(t, tableExists(t, db, "pos_orders"))
}

func TestSchema_RejectsUnbalancedAndDuplicateEntries(t *testing.T) {
	pg := testutil.NewPostgresDB(t)
	r := testutil.NewRestaurantOn(t, pg.DB)

	insert := `INSERT INTO journal_entries
		(id, tenant_id, document_type, document_number, document_date, posting_date, period_id,
		 source_type, source_id, total_debit, total_credit)
		VALUES (gen_random_uuid(), $1, 'JE', $2, '2026-03-15', '2026-03-15', $3, 'POS_ORDER', $4, $5, $6)`
	source := testutil.NewTestUUID("schema-source")

	_, err := pg.SqlDB.Exec(insert, r.TenantID, "X-1", r.Period.ID, source, "10", "9")
	assert.Error(t, err, "debits must equal credits")

	_, err = pg.SqlDB.Exec(insert, r.TenantID, "X-2", r.Period.ID, source, "10", "10")
	require.NoError(t, err)
	_, err = pg.SqlDB.Exec(insert, r.TenantID, "X-3", r.Period.ID, source, "10", "10")
	assert.Error(t, err, "one entry per source document")
}
