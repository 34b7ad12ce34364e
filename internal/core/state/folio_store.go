package state

import (
	"sort"
	"sync"

	"github.com/srgjo27/hotel_frontdesk/internal/core/domain"
)

// FolioStore is the only holder of folio state. Readers always get clones.
type FolioStore struct {
	mu     sync.RWMutex
	folios map[string]*domain.Folio
}

func NewFolioStore() *FolioStore {
	return &FolioStore{folios: make(map[string]*domain.Folio)}
}

// GetOrCreate returns the room's folio, creating an empty one if needed.
// An existing folio without a guest name adopts guestName.
func (s *FolioStore) GetOrCreate(roomID, guestName string) (domain.Folio, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.folios[roomID]; ok {
		f.AdoptGuestName(guestName)
		return *f.Clone(), false
	}
	f := domain.NewFolio(roomID, guestName)
	s.folios[roomID] = f
	return *f.Clone(), true
}

func (s *FolioStore) Get(roomID string) (domain.Folio, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.folios[roomID]
	if !ok {
		return domain.Folio{}, false
	}
	return *f.Clone(), true
}

// Balance is 0 for rooms without a folio.
func (s *FolioStore) Balance(roomID string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.folios[roomID]
	if !ok {
		return 0
	}
	return f.Totals().Balance
}

// Update runs mutation against a copy and keeps it only if it succeeds.
func (s *FolioStore) Update(roomID string, mutation func(*domain.Folio) error) (domain.Folio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folios[roomID]
	if !ok {
		return domain.Folio{}, domain.ErrFolioNotFound.WithMeta("roomId", roomID)
	}
	next := f.Clone()
	if err := mutation(next); err != nil {
		return domain.Folio{}, err
	}
	s.folios[roomID] = next
	return *next.Clone(), nil
}

// Put replaces the folio of f.RoomID. Used by restore.
func (s *FolioStore) Put(f domain.Folio) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.folios[f.RoomID] = f.Clone()
}

// All returns clones ordered by room id.
func (s *FolioStore) All() []domain.Folio {
	s.mu.RLock()
	out := make([]domain.Folio, 0, len(s.folios))
	for _, f := range s.folios {
		out = append(out, *f.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	return out
}
