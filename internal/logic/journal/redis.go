package journal

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/errs"
	"klend-client-sol/internal/pkg/types"
)

// RedisJournalStore 按签名保存最近的提交状态，带 TTL
type RedisJournalStore struct {
	rdb *redis.Client
	ttl time.Duration
}

const keyPrefix = "journal:tx"

const defaultTTL = 24 * time.Hour

func NewRedisJournalStore(rdb *redis.Client, ttl time.Duration) *RedisJournalStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisJournalStore{rdb: rdb, ttl: ttl}
}

func (r *RedisJournalStore) getKey(sig types.Signature) string {
	return fmt.Sprintf("%s:%s", keyPrefix, sig)
}

// Put 覆盖写入，并刷新 TTL
func (r *RedisJournalStore) Put(ctx context.Context, e *Entry) error {
	key := r.getKey(e.Signature)
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key,
		"name", e.Name,
		"state", string(e.State),
		"attempts", e.Attempts,
		"slot", e.Slot,
		"reason", e.Reason,
		"updated_at", e.UpdatedAt.UnixMilli(),
	)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis put %s: %w", e.Signature, err)
	}
	return nil
}

// Get 不存在时返回 nil, nil
func (r *RedisJournalStore) Get(ctx context.Context, sig types.Signature) (*Entry, error) {
	fields, err := r.rdb.HGetAll(ctx, r.getKey(sig)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("redis get error: %w", err)
	case len(fields) == 0:
		return nil, nil
	}

	return entryFromHash(sig, fields)
}

// entryFromHash 解析 HGETALL 结果，数值字段损坏时返回 ErrDecode
func entryFromHash(sig types.Signature, fields map[string]string) (*Entry, error) {
	e := &Entry{
		Signature: sig,
		Name:      fields["name"],
		State:     submitter.State(fields["state"]),
		Reason:    fields["reason"],
	}
	var err error
	if e.Attempts, err = strconv.Atoi(fields["attempts"]); err != nil {
		return nil, fmt.Errorf("%w: journal %s field attempts: %v", errs.ErrDecode, sig, err)
	}
	if e.Slot, err = strconv.ParseUint(fields["slot"], 10, 64); err != nil {
		return nil, fmt.Errorf("%w: journal %s field slot: %v", errs.ErrDecode, sig, err)
	}
	updatedMs, err := strconv.ParseInt(fields["updated_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: journal %s field updated_at: %v", errs.ErrDecode, sig, err)
	}
	e.UpdatedAt = time.UnixMilli(updatedMs)
	return e, nil
}
