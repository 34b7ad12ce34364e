package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/srgjo27/hotel_frontdesk/internal/core/domain"
)

// RoomRepository reads room inventory. The rows carry the initial
// occupancy state; after startup the front desk owns it.
type RoomRepository struct {
	db *sql.DB
}

func NewRoomRepository(db *sql.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) ListRooms(ctx context.Context) ([]domain.Room, error) {
	query := `
	SELECT id, number, building, room_type, floor, capacity, bed_description, is_active,
		has_tv, ac, status, condition, next_booking_at
	FROM rooms
	ORDER BY building, length(number), number
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}

	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var room domain.Room
		var floor sql.NullInt64
		var nextBooking sql.NullTime

		if err := rows.Scan(
			&room.ID,
			&room.Number,
			&room.Building,
			&room.Type,
			&floor,
			&room.Capacity,
			&room.BedDescription,
			&room.IsActive,
			&room.Amenities.HasTV,
			&room.Amenities.AC,
			&room.Status,
			&room.Condition,
			&nextBooking,
		); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}

		if floor.Valid {
			f := int(floor.Int64)
			room.Floor = &f
		}

		if nextBooking.Valid {
			room.NextBookingAt = &nextBooking.Time
		}

		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rooms, nil
}
