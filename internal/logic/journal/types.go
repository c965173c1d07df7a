package journal

import (
	"time"

	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/types"
)

// Entry 一笔交易在 journal 中的最新状态（Redis 与 DB 统一编码）
type Entry struct {
	Signature types.Signature `yaml:"signature"`
	Name      string          `yaml:"name"`
	State     submitter.State `yaml:"state"`
	Attempts  int             `yaml:"attempts"`
	Slot      uint64          `yaml:"slot,omitempty"`
	Reason    string          `yaml:"reason,omitempty"`
	UpdatedAt time.Time       `yaml:"updated_at"`
}

func entryFromTransition(t submitter.Transition) *Entry {
	at := t.At
	if at.IsZero() {
		at = time.Now()
	}
	return &Entry{
		Signature: t.Signature,
		Name:      t.Name,
		State:     t.State,
		Attempts:  t.Attempts,
		Slot:      t.Slot,
		Reason:    t.Reason,
		UpdatedAt: at,
	}
}

// newer 同一签名的多次迁移，只保留最新的一条
func (e *Entry) newer(other *Entry) bool {
	if other == nil {
		return true
	}
	if other.State.IsFinal() && !e.State.IsFinal() {
		return false
	}
	return !e.UpdatedAt.Before(other.UpdatedAt)
}
