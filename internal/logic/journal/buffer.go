package journal

import (
	"sync"

	"klend-client-sol/internal/pkg/types"
)

// entryBuffer 等待批量写入 DB 的记录，同一签名只保留最新状态
type entryBuffer struct {
	mu      sync.Mutex
	entries map[types.Signature]*Entry
}

func newEntryBuffer() *entryBuffer {
	return &entryBuffer{
		entries: make(map[types.Signature]*Entry),
	}
}

func (b *entryBuffer) Add(e *Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e.newer(b.entries[e.Signature]) {
		b.entries[e.Signature] = e
	}
}

func (b *entryBuffer) Flush() []*Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	flushed := make([]*Entry, 0, len(b.entries))
	for _, e := range b.entries {
		flushed = append(flushed, e)
	}
	b.entries = make(map[types.Signature]*Entry) // reset
	return flushed
}

func (b *entryBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
