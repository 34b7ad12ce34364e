package state

import (
	"sort"
	"sync"
	"time"

	"github.com/srgjo27/hotel_frontdesk/internal/core/domain"
)

// StayRegistry indexes the active stay of each room. Closed stays leave
// the index.
type StayRegistry struct {
	mu     sync.RWMutex
	active map[string]domain.Stay
}

func NewStayRegistry() *StayRegistry {
	return &StayRegistry{active: make(map[string]domain.Stay)}
}

func (r *StayRegistry) Open(stay domain.Stay) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.active[stay.RoomID]; ok {
		return domain.ErrStayConflict.
			WithMeta("roomId", stay.RoomID).
			WithMeta("activeStayId", existing.ID.String())
	}
	stay.Status = domain.StayCheckedIn
	r.active[stay.RoomID] = stay
	return nil
}

// Close marks the active stay CHECKED_OUT and drops it from the index.
func (r *StayRegistry) Close(roomID string, at time.Time) (domain.Stay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stay, ok := r.active[roomID]
	if !ok {
		return domain.Stay{}, domain.ErrStayNotFound.WithMeta("roomId", roomID)
	}
	delete(r.active, roomID)

	stay.Status = domain.StayCheckedOut
	stay.CheckOutAt = &at
	return stay, nil
}

// Reopen puts a just-closed stay back. Used to undo a failed checkout.
func (r *StayRegistry) Reopen(stay domain.Stay) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stay.Status = domain.StayCheckedIn
	stay.CheckOutAt = nil
	r.active[stay.RoomID] = stay
}

// Discard drops the active stay without closing it. Used to undo a failed check-in.
func (r *StayRegistry) Discard(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.active, roomID)
}

func (r *StayRegistry) ActiveFor(roomID string) (domain.Stay, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.active[roomID]
	return s, ok
}

// Active returns all open stays ordered by check-in time.
func (r *StayRegistry) Active() []domain.Stay {
	r.mu.RLock()
	out := make([]domain.Stay, 0, len(r.active))
	for _, s := range r.active {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CheckInAt.Equal(out[j].CheckInAt) {
			return out[i].RoomID < out[j].RoomID
		}
		return out[i].CheckInAt.Before(out[j].CheckInAt)
	})
	return out
}
