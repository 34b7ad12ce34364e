package memory

import (
	"context"
	"time"

	"github.com/srgjo27/hotel_frontdesk/internal/core/domain"
)

// Inventory serves a fixed room list. It backs demo and test setups where
// no rooms table exists.
type Inventory struct {
	rooms []domain.Room
}

func NewInventory(rooms []domain.Room) *Inventory {
	return &Inventory{rooms: append([]domain.Room(nil), rooms...)}
}

func (i *Inventory) ListRooms(ctx context.Context) ([]domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]domain.Room(nil), i.rooms...), nil
}

// DemoRooms is the seed inventory used when inventory.source is memory.
func DemoRooms() []domain.Room {
	nextBooking := func(s string) *time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return &t
	}

	return []domain.Room{
		{ID: "r1", Number: "1", Building: "BLDG 72", Type: "SINGLE", Capacity: 1, BedDescription: "Single", IsActive: true,
			Amenities: domain.Amenities{HasTV: true, AC: domain.ACAvailable},
			Status:    domain.RoomAvailable, Condition: domain.ConditionClean, NextBookingAt: nextBooking("2025-12-15T10:00:00Z")},
		{ID: "r2", Number: "2", Building: "BLDG 72", Type: "SINGLE", Capacity: 1, BedDescription: "Single", IsActive: true,
			Amenities: domain.Amenities{HasTV: true, AC: domain.ACNone},
			Status:    domain.RoomAvailable, Condition: domain.ConditionClean},
		{ID: "r3", Number: "3", Building: "BLDG 72", Type: "VIP", Capacity: 2, BedDescription: "Queen", IsActive: true,
			Amenities: domain.Amenities{HasTV: true, AC: domain.ACAvailable},
			Status:    domain.RoomBooked, Condition: domain.ConditionClean, NextBookingAt: nextBooking("2025-12-14T18:00:00Z")},
		{ID: "r4", Number: "4", Building: "BLDG 73", Type: "STUDIO", Capacity: 2, BedDescription: "Double", IsActive: true,
			Amenities: domain.Amenities{HasTV: true, AC: domain.ACAvailable},
			Status:    domain.RoomRenovation, Condition: domain.ConditionMaintenance},
		{ID: "r5", Number: "5", Building: "BLDG 73", Type: "SINGLE", Capacity: 1, BedDescription: "Single", IsActive: true,
			Amenities: domain.Amenities{HasTV: false, AC: domain.ACNone},
			Status:    domain.RoomAvailable, Condition: domain.ConditionDirty},
		{ID: "r6", Number: "6", Building: "SHWAPNOLOK", Type: "VIP", Capacity: 2, BedDescription: "King", IsActive: true,
			Amenities: domain.Amenities{HasTV: true, AC: domain.ACAvailable},
			Status:    domain.RoomOutOfOrder, Condition: domain.ConditionMaintenance},
	}
}
