package journal

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"klend-client-sol/internal/logic/submitter"
)

const createJournalTable = `
	CREATE TABLE IF NOT EXISTS tx_journal (
		signature  TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		state      TEXT NOT NULL,
		attempts   INT NOT NULL,
		slot       BIGINT NOT NULL,
		reason     TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`

func newTestDB(t *testing.T) *DBJournalStore {
	t.Helper()
	dsn := os.Getenv("KLEND_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("KLEND_TEST_PG_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	store, err := NewDBJournalStore(ctx, dsn)
	require.NoError(t, err)
	if err := store.pool.Ping(ctx); err != nil {
		store.Close()
		t.Skipf("postgres not reachable: %v", err)
	}
	_, err = store.pool.Exec(ctx, createJournalTable)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestUpsertSQLFinalStateGuard(t *testing.T) {
	list := sqlStateList(submitter.FinalStates)
	assert.Equal(t, "'confirmed', 'timed_out', 'rejected'", list)
	assert.Contains(t, upsertSQL, "EXCLUDED.state IN ("+list+")")
	assert.Contains(t, upsertSQL, "tx_journal.state NOT IN ("+list+")")
}

func TestDBJournalStoreUpsert(t *testing.T) {
	store := newTestDB(t)
	ctx := context.Background()

	s := sig(0xD1)
	t.Cleanup(func() {
		_, _ = store.pool.Exec(context.Background(), `DELETE FROM tx_journal WHERE signature = $1`, s.String())
	})

	base := time.UnixMilli(time.Now().UnixMilli())
	entry := func(state submitter.State, at time.Time) *Entry {
		return &Entry{Signature: s, Name: "borrow", State: state, Attempts: 1, Slot: 7, UpdatedAt: at}
	}

	require.NoError(t, store.BatchUpsert(ctx, []*Entry{entry(submitter.StateSent, base)}))

	// 更旧的状态被忽略
	require.NoError(t, store.BatchUpsert(ctx, []*Entry{entry(submitter.StateSigned, base.Add(-time.Second))}))
	got, err := store.Get(ctx, s)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, submitter.StateSent, got.State)

	require.NoError(t, store.BatchUpsert(ctx, []*Entry{entry(submitter.StateConfirmed, base.Add(time.Second))}))

	// 终态之后即使时间更晚的非终态也不能覆盖
	require.NoError(t, store.BatchUpsert(ctx, []*Entry{entry(submitter.StateSigned, base.Add(2*time.Second))}))
	got, err = store.Get(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, submitter.StateConfirmed, got.State)
	assert.True(t, base.Add(time.Second).Equal(got.UpdatedAt))

	missing, err := store.Get(ctx, sig(0xD2))
	require.NoError(t, err)
	assert.Nil(t, missing)
}
