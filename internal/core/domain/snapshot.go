package domain

import "time"

type RoomStateRecord struct {
	RoomID string    `json:"roomId"`
	State  RoomState `json:"state"`
}

// Snapshot is the restorable state of the front desk. Room identities are
// not part of it; they come from inventory.
type Snapshot struct {
	TakenAt time.Time         `json:"takenAt"`
	Rooms   []RoomStateRecord `json:"rooms"`
	Stays   []Stay            `json:"stays"`
	Folios  []Folio           `json:"folios"`
}

func (s *Snapshot) Empty() bool {
	return len(s.Rooms) == 0 && len(s.Stays) == 0 && len(s.Folios) == 0
}
