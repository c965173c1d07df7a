package journal

import (
	"context"
	"time"

	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/logger"
	"klend-client-sol/internal/pkg/types"
)

type hotStore interface {
	Put(ctx context.Context, e *Entry) error
	Get(ctx context.Context, sig types.Signature) (*Entry, error)
}

type durableStore interface {
	BatchUpsert(ctx context.Context, entries []*Entry) error
	Get(ctx context.Context, sig types.Signature) (*Entry, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) error
}

// Manager 统一封装 Redis + DB + 缓冲区，实现 submitter.Recorder
// 任一存储可以为 nil，此时对应的写入与查询跳过
type Manager struct {
	hot     hotStore
	durable durableStore
	buffer  *entryBuffer
}

var _ submitter.Recorder = (*Manager)(nil)

func NewManager(hot hotStore, durable durableStore) *Manager {
	return &Manager{
		hot:     hot,
		durable: durable,
		buffer:  newEntryBuffer(),
	}
}

// Record 写入 Redis，并加入缓冲区等待批量持久化
func (m *Manager) Record(ctx context.Context, t submitter.Transition) error {
	if t.Signature.IsZero() {
		return nil
	}
	e := entryFromTransition(t)
	if m.hot != nil {
		if err := m.hot.Put(ctx, e); err != nil {
			return err
		}
	}
	if m.durable != nil {
		m.buffer.Add(e)
	}
	return nil
}

// Lookup 先查 Redis，再 fallback 到 DB；DB 命中时回填 Redis
func (m *Manager) Lookup(ctx context.Context, sig types.Signature) (*Entry, error) {
	if m.hot != nil {
		e, err := m.hot.Get(ctx, sig)
		if err != nil {
			logger.Warnf("[Journal] redis 查询失败，fallback 到 DB: signature=%s, err=%v", sig, err)
		} else if e != nil {
			return e, nil
		}
	}
	if m.durable == nil {
		return nil, nil
	}
	e, err := m.durable.Get(ctx, sig)
	if err != nil || e == nil {
		return e, err
	}
	if m.hot != nil {
		_ = m.hot.Put(ctx, e)
	}
	return e, nil
}

// Flush 把缓冲区写入 DB；失败时记录重新放回缓冲区
func (m *Manager) Flush(ctx context.Context) error {
	if m.durable == nil {
		return nil
	}
	flushed := m.buffer.Flush()
	if len(flushed) == 0 {
		return nil
	}
	if err := m.durable.BatchUpsert(ctx, flushed); err != nil {
		for _, e := range flushed {
			m.buffer.Add(e)
		}
		return err
	}
	logger.Debugf("[Journal] flushed %d entries", len(flushed))
	return nil
}

// StartFlushLoop 后台定时 flush，ctx 结束时做最后一次 flush
func (m *Manager) StartFlushLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			finalCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := m.Flush(finalCtx); err != nil {
				logger.Errorf("[Journal] final flush failed: %v", err)
			}
			cancel()
			return
		case <-ticker.C:
			if err := m.Flush(ctx); err != nil {
				logger.Warnf("[Journal] flush failed, will retry: %v", err)
			}
		}
	}
}

// StartGCLoop 每 interval 清理一次超过 retention 的 DB 记录
func (m *Manager) StartGCLoop(ctx context.Context, interval, retention time.Duration) {
	if m.durable == nil {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.durable.DeleteBefore(ctx, time.Now().Add(-retention)); err != nil {
					logger.Warnf("[Journal] gc failed: %v", err)
				}
			}
		}
	}()
}

func (m *Manager) Pending() int {
	return m.buffer.Len()
}
