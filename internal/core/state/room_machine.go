// Package state holds the three stores owned by the front desk: room
// occupancy, active stays and folios. Each store guards its own map;
// cross-store atomicity is the caller's job.
package state

import (
	"sync"

	"github.com/srgjo27/hotel_frontdesk/internal/core/domain"
)

// RoomMachine owns the status/condition pair of every room.
type RoomMachine struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
	order []string
}

func NewRoomMachine(rooms []domain.Room) *RoomMachine {
	m := &RoomMachine{
		rooms: make(map[string]*domain.Room, len(rooms)),
		order: make([]string, 0, len(rooms)),
	}
	for i := range rooms {
		r := rooms[i]
		if _, dup := m.rooms[r.ID]; dup {
			continue
		}
		m.rooms[r.ID] = &r
		m.order = append(m.order, r.ID)
	}
	return m
}

func (m *RoomMachine) Get(roomID string) (domain.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound.WithMeta("roomId", roomID)
	}
	return *r, nil
}

// List returns copies in inventory order.
func (m *RoomMachine) List() []domain.Room {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Room, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.rooms[id])
	}
	return out
}

func (m *RoomMachine) CheckIn(roomID string) (domain.Room, error) {
	return m.mutate(roomID, (*domain.Room).CheckIn)
}

func (m *RoomMachine) CheckOut(roomID string) (domain.Room, error) {
	return m.mutate(roomID, (*domain.Room).CheckOut)
}

// Override applies an operator edit and returns the room before and after.
func (m *RoomMachine) Override(roomID string, next domain.RoomState) (domain.Room, domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return domain.Room{}, domain.Room{}, domain.ErrRoomNotFound.WithMeta("roomId", roomID)
	}
	before := *r
	if err := r.Override(next); err != nil {
		return domain.Room{}, domain.Room{}, err
	}
	return before, *r, nil
}

// Restore sets state without any checks. Unknown rooms are reported back.
func (m *RoomMachine) Restore(roomID string, s domain.RoomState) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return false
	}
	r.Restore(s)
	return true
}

func (m *RoomMachine) mutate(roomID string, fn func(*domain.Room) error) (domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound.WithMeta("roomId", roomID)
	}
	if err := fn(r); err != nil {
		return domain.Room{}, err
	}
	return *r, nil
}
