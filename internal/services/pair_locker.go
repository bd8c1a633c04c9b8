package services

import "sync"

// PairLocker is a mutex keyed by string. Entries are dropped once no
// goroutine holds or waits for them.
type PairLocker struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func NewPairLocker() *PairLocker {
	return &PairLocker{locks: make(map[string]*refLock)}
}

// Lock blocks until key is free and returns the matching unlock func.
func (l *PairLocker) Lock(key string) func() {
	l.mu.Lock()
	rl, ok := l.locks[key]
	if !ok {
		rl = &refLock{}
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

func (l *PairLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
