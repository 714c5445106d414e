package ledger

import (
	"sort"
	"sync"
)

// accountLocks serializes units of work per account. Writers against
// the same account queue up; writers against different accounts run in
// parallel. Multi-account operations take their locks in ascending ID
// order so two of them can never deadlock.
type accountLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[uint]*sync.Mutex)}
}

func (l *accountLocks) get(id uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// lock acquires the locks for the given account IDs (duplicates are
// collapsed) and returns the matching unlock function.
func (l *accountLocks) lock(ids ...uint) (unlock func()) {
	uniq := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
		}
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })

	held := make([]*sync.Mutex, 0, len(uniq))
	for _, id := range uniq {
		m := l.get(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
