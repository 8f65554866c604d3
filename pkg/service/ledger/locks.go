package ledger

import (
	"bytes"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// AccountLocks serializes the read-validate-write critical section per
// account. The settlement engine and the transfer engine share one
// instance, so two concurrent settlement cycles or a cycle racing a
// transfer can never interleave on the same balance.
type AccountLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewAccountLocks creates an empty lock registry.
func NewAccountLocks() *AccountLocks {
	return &AccountLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *AccountLocks) lockFor(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// Lock acquires the mutation right for every given account. Ids are
// deduplicated and acquired in a fixed byte order so two transfers
// between the same pair of accounts cannot deadlock each other.
func (l *AccountLocks) Lock(ids ...uuid.UUID) {
	for _, id := range ordered(ids) {
		l.lockFor(id).Lock()
	}
}

// Unlock releases the mutation right for every given account.
func (l *AccountLocks) Unlock(ids ...uuid.UUID) {
	o := ordered(ids)
	for i := len(o) - 1; i >= 0; i-- {
		l.lockFor(o[i]).Unlock()
	}
}

func ordered(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		dup := false
		for _, seen := range out {
			if seen == id {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}
