package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type StayStatus string

const (
	StayCheckedIn  StayStatus = "CHECKED_IN"
	StayCheckedOut StayStatus = "CHECKED_OUT"
)

const minGuestNameLen = 2

// GuestProfile is the check-in form: who is staying and how to reach them.
type GuestProfile struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone,omitempty"`
}

// Normalize trims the profile and validates the guest name.
func (g GuestProfile) Normalize() (GuestProfile, error) {
	out := GuestProfile{
		FullName: strings.TrimSpace(g.FullName),
		Phone:    strings.TrimSpace(g.Phone),
	}
	if len([]rune(out.FullName)) < minGuestNameLen {
		return GuestProfile{}, ErrGuestNameTooShort
	}
	return out, nil
}

type Stay struct {
	ID            uuid.UUID    `json:"id"`
	RoomID        string       `json:"roomId"`
	Guest         GuestProfile `json:"guest"`
	CheckInAt     time.Time    `json:"checkInAt"`
	ExpectedOutAt *time.Time   `json:"expectedOutAt,omitempty"`
	CheckOutAt    *time.Time   `json:"checkOutAt,omitempty"`
	Status        StayStatus   `json:"status"`
}

// NewStay opens a stay at now. The guest must already be normalized.
func NewStay(roomID string, guest GuestProfile, now time.Time, expectedOutAt *time.Time) (*Stay, error) {
	if roomID == "" {
		return nil, ErrInvalidRoomID
	}
	if expectedOutAt != nil && expectedOutAt.Before(now) {
		return nil, ErrInvalidExpectedOut
	}
	return &Stay{
		ID:            uuid.New(),
		RoomID:        roomID,
		Guest:         guest,
		CheckInAt:     now,
		ExpectedOutAt: expectedOutAt,
		Status:        StayCheckedIn,
	}, nil
}

func (s *Stay) IsActive() bool {
	return s.Status == StayCheckedIn
}

// Validate checks a stay that did not come through NewStay.
func (s *Stay) Validate() error {
	if s.RoomID == "" {
		return ErrInvalidRoomID
	}
	if _, err := s.Guest.Normalize(); err != nil {
		return err
	}
	if s.ExpectedOutAt != nil && s.ExpectedOutAt.Before(s.CheckInAt) {
		return ErrInvalidExpectedOut
	}
	return nil
}
