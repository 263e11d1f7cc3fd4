package locks

import (
	"context"
	"sync"
)

// RoomLocker hands out an exclusive lock per room id. The returned release
// func must be called exactly once.
type RoomLocker interface {
	Lock(ctx context.Context, roomID string) (release func(), err error)
}

type localEntry struct {
	ch   chan struct{}
	refs int
}

// LocalLocker serializes same-room commands inside one process.
type LocalLocker struct {
	mu      sync.Mutex
	entries map[string]*localEntry
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{entries: map[string]*localEntry{}}
}

func (l *LocalLocker) Lock(ctx context.Context, roomID string) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[roomID]
	if !ok {
		e = &localEntry{ch: make(chan struct{}, 1)}
		l.entries[roomID] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.drop(roomID, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.drop(roomID, e)
		})
	}, nil
}

func (l *LocalLocker) drop(roomID string, e *localEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, roomID)
	}
}
