package services

import (
	"sync"
)

// roomLocks serializes commands per room. The set of rooms is fixed by
// inventory at construction, so the map itself is read-only afterwards.
type roomLocks struct {
	locks map[string]*sync.Mutex
}

func newRoomLocks(roomIDs []string) *roomLocks {
	l := &roomLocks{locks: make(map[string]*sync.Mutex, len(roomIDs))}
	for _, id := range roomIDs {
		l.locks[id] = &sync.Mutex{}
	}
	return l
}

// lock returns the unlock func, or false if the room is unknown.
func (l *roomLocks) lock(roomID string) (func(), bool) {
	m, ok := l.locks[roomID]
	if !ok {
		return nil, false
	}
	m.Lock()
	return m.Unlock, true
}
