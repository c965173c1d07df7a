package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/logger"
	"klend-client-sol/internal/pkg/types"
)

// DBJournalStore 持久化提交记录，进程重启后仍可按签名查询
//
//	CREATE TABLE IF NOT EXISTS tx_journal (
//	    signature  TEXT PRIMARY KEY,
//	    name       TEXT NOT NULL,
//	    state      TEXT NOT NULL,
//	    attempts   INT NOT NULL,
//	    slot       BIGINT NOT NULL,
//	    reason     TEXT NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
type DBJournalStore struct {
	pool *pgxpool.Pool
}

func NewDBJournalStore(ctx context.Context, dsn string) (*DBJournalStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &DBJournalStore{pool: pool}, nil
}

func (d *DBJournalStore) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

// upsertSQL 与 Entry.newer 规则一致：只接受更新的状态，终态不被非终态覆盖
var upsertSQL = fmt.Sprintf(`
	INSERT INTO tx_journal (signature, name, state, attempts, slot, reason, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (signature) DO UPDATE SET
		state = EXCLUDED.state,
		attempts = EXCLUDED.attempts,
		slot = EXCLUDED.slot,
		reason = EXCLUDED.reason,
		updated_at = EXCLUDED.updated_at
	WHERE tx_journal.updated_at <= EXCLUDED.updated_at
		AND (EXCLUDED.state IN (%[1]s) OR tx_journal.state NOT IN (%[1]s))
`, sqlStateList(submitter.FinalStates))

func sqlStateList(states []submitter.State) string {
	quoted := make([]string, len(states))
	for i, s := range states {
		quoted[i] = "'" + string(s) + "'"
	}
	return strings.Join(quoted, ", ")
}

// BatchUpsert 按 batchLimit 分批写入，签名冲突时只接受更新的状态
func (d *DBJournalStore) BatchUpsert(ctx context.Context, entries []*Entry) error {
	const batchLimit = 1000
	for i := 0; i < len(entries); i += batchLimit {
		end := min(i+batchLimit, len(entries))
		if err := d.upsertChunk(ctx, entries[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (d *DBJournalStore) upsertChunk(ctx context.Context, entries []*Entry) error {
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(upsertSQL,
			e.Signature.String(),
			e.Name,
			string(e.State),
			e.Attempts,
			int64(e.Slot),
			e.Reason,
			e.UpdatedAt,
		)
	}

	br := d.pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, e := range entries {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert %s failed: %w", e.Signature, err)
		}
	}
	return nil
}

// Get 不存在时返回 nil, nil
func (d *DBJournalStore) Get(ctx context.Context, sig types.Signature) (*Entry, error) {
	var (
		e     = Entry{Signature: sig}
		state string
		slot  int64
	)
	err := d.pool.QueryRow(ctx,
		`SELECT name, state, attempts, slot, reason, updated_at FROM tx_journal WHERE signature = $1`,
		sig.String(),
	).Scan(&e.Name, &state, &e.Attempts, &slot, &e.Reason, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query journal %s: %w", sig, err)
	}
	e.State = submitter.State(state)
	e.Slot = uint64(slot)
	return &e, nil
}

// DeleteBefore 分批删除 updated_at 早于 cutoff 的记录，避免长事务
func (d *DBJournalStore) DeleteBefore(ctx context.Context, cutoff time.Time) error {
	const batchSize = 1000
	for {
		tag, err := d.pool.Exec(ctx, `
			DELETE FROM tx_journal WHERE signature IN (
				SELECT signature FROM tx_journal WHERE updated_at < $1 LIMIT $2
			)`, cutoff, batchSize)
		if err != nil {
			return fmt.Errorf("delete old journal rows failed: %w", err)
		}
		n := tag.RowsAffected()
		if n == 0 {
			return nil
		}
		logger.Infof("[Journal] GC deleted %d old rows", n)
	}
}
