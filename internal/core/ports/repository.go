package ports

import (
	"context"

	"github.com/srgjo27/hotel_frontdesk/internal/core/domain"
)

// RoomInventory is the read-only source of room records.
type RoomInventory interface {
	ListRooms(ctx context.Context) ([]domain.Room, error)
}

type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *domain.Snapshot) error
	// Load returns nil, nil when nothing has been saved yet.
	Load(ctx context.Context) (*domain.Snapshot, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
