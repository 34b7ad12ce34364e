package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/srgjo27/hotel_frontdesk/internal/core/domain"
)

// SnapshotStore keeps the last saved snapshot in process memory.
type SnapshotStore struct {
	mu   sync.RWMutex
	data []byte
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

func (s *SnapshotStore) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

// Load returns nil, nil until the first Save.
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, nil
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(s.data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
