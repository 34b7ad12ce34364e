package domain

import (
	"time"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "AVAILABLE"
	RoomBooked      RoomStatus = "BOOKED"
	RoomOccupied    RoomStatus = "OCCUPIED"
	RoomOutOfOrder  RoomStatus = "OUT_OF_ORDER"
	RoomRenovation  RoomStatus = "RENOVATION"
	RoomCleaning    RoomStatus = "CLEANING"
	RoomMaintenance RoomStatus = "MAINTENANCE"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomBooked, RoomOccupied, RoomOutOfOrder,
		RoomRenovation, RoomCleaning, RoomMaintenance:
		return true
	}
	return false
}

type RoomCondition string

const (
	ConditionClean       RoomCondition = "CLEAN"
	ConditionDirty       RoomCondition = "DIRTY"
	ConditionMaintenance RoomCondition = "MAINTENANCE"
)

func (c RoomCondition) Valid() bool {
	switch c {
	case ConditionClean, ConditionDirty, ConditionMaintenance:
		return true
	}
	return false
}

type ACType string

const (
	ACAvailable ACType = "AC"
	ACNone      ACType = "NON_AC"
)

func (a ACType) Valid() bool {
	return a == ACAvailable || a == ACNone
}

type Amenities struct {
	HasTV bool   `json:"hasTV"`
	AC    ACType `json:"ac"`
}

func (a Amenities) Validate() error {
	if !a.AC.Valid() {
		return ErrInvalidAmenity.WithMeta("ac", string(a.AC))
	}
	return nil
}

// Room is an inventory record plus the occupancy state owned by the
// room state machine. Identity fields come from inventory and never change.
type Room struct {
	ID             string        `json:"id"`
	Number         string        `json:"number"`
	Building       string        `json:"building"`
	Type           string        `json:"type,omitempty"`
	Floor          *int          `json:"floor,omitempty"`
	Capacity       int           `json:"capacity"`
	BedDescription string        `json:"bedDescription"`
	IsActive       bool          `json:"isActive"`
	Amenities      Amenities     `json:"amenities"`
	Status         RoomStatus    `json:"status"`
	Condition      RoomCondition `json:"condition"`
	NextBookingAt  *time.Time    `json:"nextBookingAt,omitempty"`
}

func (r *Room) IsAvailable() bool {
	return r.Status == RoomAvailable
}

func (r *Room) IsOccupied() bool {
	return r.Status == RoomOccupied
}

// RoomState is the mutable part of a room.
type RoomState struct {
	Status    RoomStatus    `json:"status"`
	Condition RoomCondition `json:"condition"`
	Amenities Amenities     `json:"amenities"`
}

func (r *Room) State() RoomState {
	return RoomState{Status: r.Status, Condition: r.Condition, Amenities: r.Amenities}
}

func (r *Room) apply(s RoomState) {
	r.Status = s.Status
	r.Condition = s.Condition
	r.Amenities = s.Amenities
}

func (s RoomState) Validate() error {
	if !s.Status.Valid() {
		return ErrInvalidStatus.WithMeta("status", string(s.Status))
	}
	if !s.Condition.Valid() {
		return ErrInvalidCondition.WithMeta("condition", string(s.Condition))
	}
	return s.Amenities.Validate()
}

// Transition names how a room's state last changed. It is recorded in
// audit logs.
type Transition string

const (
	TransitionCheckIn  Transition = "CHECK_IN"
	TransitionCheckOut Transition = "CHECK_OUT"
	TransitionOverride Transition = "OVERRIDE"
)

// CheckIn moves an AVAILABLE room to OCCUPIED/CLEAN.
func (r *Room) CheckIn() error {
	if !r.IsAvailable() {
		return ErrRoomNotAvailable.WithMeta("status", string(r.Status))
	}
	r.Status = RoomOccupied
	r.Condition = ConditionClean
	return nil
}

// CheckOut moves an OCCUPIED room to AVAILABLE/DIRTY. The balance gate is
// enforced by the caller, which owns the folio.
func (r *Room) CheckOut() error {
	if !r.IsOccupied() {
		return ErrRoomNotOccupied.WithMeta("status", string(r.Status))
	}
	r.Status = RoomAvailable
	r.Condition = ConditionDirty
	return nil
}

// Override replaces status, condition and amenities without consulting
// the transition table.
func (r *Room) Override(s RoomState) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.apply(s)
	return nil
}

// Restore sets state loaded from a snapshot.
func (r *Room) Restore(s RoomState) {
	r.apply(s)
}

type RoomAction string

const (
	ActionCheckIn  RoomAction = "CHECK_IN"
	ActionCheckOut RoomAction = "CHECK_OUT"
	ActionFolio    RoomAction = "FOLIO"
)

// Actions lists what the front desk can do with the room right now.
func (r *Room) Actions(hasFolio bool) []RoomAction {
	actions := make([]RoomAction, 0, 2)
	switch r.Status {
	case RoomAvailable:
		actions = append(actions, ActionCheckIn)
	case RoomOccupied:
		actions = append(actions, ActionCheckOut)
	}
	if hasFolio {
		actions = append(actions, ActionFolio)
	}
	return actions
}
