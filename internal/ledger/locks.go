package ledger

import (
	"sync"
	"time"

	"github.com/theirongolddev/mealbook/internal/model"
)

// recordLocks serializes mutations per (owner, date). Entries are dropped
// once no goroutine holds or waits on them.
type recordLocks struct {
	mu    sync.Mutex
	locks map[string]*recordLock
}

type recordLock struct {
	mu   sync.Mutex
	refs int
}

func newRecordLocks() *recordLocks {
	return &recordLocks{locks: make(map[string]*recordLock)}
}

func recordKey(owner string, date time.Time) string {
	return owner + "|" + model.FormatDate(date)
}

// lock blocks until the record is free and returns its release func.
func (l *recordLocks) lock(owner string, date time.Time) func() {
	key := recordKey(owner, date)

	l.mu.Lock()
	rl, ok := l.locks[key]
	if !ok {
		rl = &recordLock{}
		l.locks[key] = rl
	}
	rl.refs++
	l.mu.Unlock()

	rl.mu.Lock()

	return func() {
		rl.mu.Unlock()

		l.mu.Lock()
		rl.refs--
		if rl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// size returns the number of live lock entries.
func (l *recordLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
