package journal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/types"
)

type memStore struct {
	mu      sync.Mutex
	entries map[types.Signature]*Entry
	puts    int
	failErr error
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[types.Signature]*Entry)}
}

func (m *memStore) Put(_ context.Context, e *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	m.entries[e.Signature] = e
	return nil
}

func (m *memStore) Get(_ context.Context, sig types.Signature) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[sig], nil
}

func (m *memStore) BatchUpsert(_ context.Context, entries []*Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	for _, e := range entries {
		m.entries[e.Signature] = e
	}
	return nil
}

func (m *memStore) DeleteBefore(_ context.Context, cutoff time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sig, e := range m.entries {
		if e.UpdatedAt.Before(cutoff) {
			delete(m.entries, sig)
		}
	}
	return nil
}

func sig(b byte) types.Signature {
	var s types.Signature
	s[0] = b
	return s
}

func TestRecordKeepsLatestState(t *testing.T) {
	hot, durable := newMemStore(), newMemStore()
	m := NewManager(hot, durable)
	ctx := context.Background()
	now := time.Now()

	for i, st := range []submitter.State{submitter.StateSigned, submitter.StateSent, submitter.StateConfirmed} {
		require.NoError(t, m.Record(ctx, submitter.Transition{
			Name: "borrow", Signature: sig(1), State: st, Attempts: 1, At: now.Add(time.Duration(i) * time.Millisecond),
		}))
	}
	assert.Equal(t, 3, hot.puts)
	assert.Equal(t, 1, m.Pending())

	require.NoError(t, m.Flush(ctx))
	assert.Equal(t, 0, m.Pending())

	e, err := durable.Get(ctx, sig(1))
	require.NoError(t, err)
	assert.Equal(t, submitter.StateConfirmed, e.State)
	assert.Equal(t, "borrow", e.Name)
}

func TestRecordIgnoresUnsignedTransition(t *testing.T) {
	hot := newMemStore()
	m := NewManager(hot, nil)
	require.NoError(t, m.Record(context.Background(), submitter.Transition{State: submitter.StateBuilt}))
	assert.Equal(t, 0, hot.puts)
}

func TestFinalStateNotOverwrittenInBuffer(t *testing.T) {
	b := newEntryBuffer()
	now := time.Now()
	b.Add(&Entry{Signature: sig(2), State: submitter.StateConfirmed, UpdatedAt: now})
	b.Add(&Entry{Signature: sig(2), State: submitter.StateSent, UpdatedAt: now.Add(time.Second)})

	flushed := b.Flush()
	require.Len(t, flushed, 1)
	assert.Equal(t, submitter.StateConfirmed, flushed[0].State)
}

func TestLookupFallsBackToDurable(t *testing.T) {
	hot, durable := newMemStore(), newMemStore()
	durable.entries[sig(3)] = &Entry{Signature: sig(3), State: submitter.StateTimedOut}
	m := NewManager(hot, durable)

	e, err := m.Lookup(context.Background(), sig(3))
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, submitter.StateTimedOut, e.State)
	// 回填 Redis
	assert.Equal(t, 1, hot.puts)

	e, err = m.Lookup(context.Background(), sig(4))
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestFlushFailureRequeues(t *testing.T) {
	durable := newMemStore()
	durable.failErr = errors.New("db down")
	m := NewManager(nil, durable)
	ctx := context.Background()

	require.NoError(t, m.Record(ctx, submitter.Transition{Signature: sig(5), State: submitter.StateSent, At: time.Now()}))
	assert.Error(t, m.Flush(ctx))
	assert.Equal(t, 1, m.Pending())

	durable.failErr = nil
	require.NoError(t, m.Flush(ctx))
	assert.Equal(t, 0, m.Pending())
}

func TestStartFlushLoopFinalFlush(t *testing.T) {
	durable := newMemStore()
	m := NewManager(nil, durable)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, m.Record(ctx, submitter.Transition{Signature: sig(6), State: submitter.StateConfirmed, At: time.Now()}))

	done := make(chan struct{})
	go func() {
		m.StartFlushLoop(ctx, time.Hour)
		close(done)
	}()
	cancel()
	<-done

	e, _ := durable.Get(context.Background(), sig(6))
	require.NotNil(t, e)
	assert.Equal(t, submitter.StateConfirmed, e.State)
}
