package services

import (
	"context"

	"github.com/srgjo27/hotel_frontdesk/internal/core/domain"
)

type RoomView struct {
	domain.Room
	ActiveStay *domain.Stay        `json:"activeStay,omitempty"`
	HasFolio   bool                `json:"hasFolio"`
	Balance    int64               `json:"balance"`
	Actions    []domain.RoomAction `json:"actions"`
}

type FolioView struct {
	domain.Folio
	domain.Totals
	RoomNumber       string `json:"roomNumber"`
	Building         string `json:"building"`
	SuggestedPayment int64  `json:"suggestedPayment"`
}

func (s *FrontDeskService) folioView(f domain.Folio) *FolioView {
	totals := f.Totals()
	view := &FolioView{Folio: f, Totals: totals}
	if totals.Balance > 0 {
		view.SuggestedPayment = totals.Balance
	}
	if room, err := s.rooms.Get(f.RoomID); err == nil {
		view.RoomNumber = room.Number
		view.Building = room.Building
	}
	return view
}

// roomView copies one room's state under its lock.
func (s *FrontDeskService) roomView(roomID string) (*RoomView, error) {
	unlock, err := s.lockRoom(roomID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	room, err := s.rooms.Get(roomID)
	if err != nil {
		return nil, err
	}
	view := &RoomView{Room: room}
	if stay, ok := s.stays.ActiveFor(roomID); ok {
		view.ActiveStay = &stay
	}
	if f, ok := s.folios.Get(roomID); ok {
		view.HasFolio = true
		view.Balance = f.Totals().Balance
	}
	view.Actions = room.Actions(view.HasFolio)
	return view, nil
}

// ListBuildings returns building names in inventory order.
func (s *FrontDeskService) ListBuildings(ctx context.Context) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range s.rooms.List() {
		if _, ok := seen[r.Building]; ok {
			continue
		}
		seen[r.Building] = struct{}{}
		out = append(out, r.Building)
	}
	return out
}

// ListRooms returns the room board, optionally for a single building.
// Each room is copied under its own lock, one at a time.
func (s *FrontDeskService) ListRooms(ctx context.Context, building string) ([]RoomView, error) {
	rooms := s.rooms.List()
	out := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		if building != "" && r.Building != building {
			continue
		}
		view, err := s.roomView(r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *view)
	}
	return out, nil
}

func (s *FrontDeskService) GetRoom(ctx context.Context, roomID string) (*RoomView, error) {
	return s.roomView(roomID)
}

func (s *FrontDeskService) ActiveStay(ctx context.Context, roomID string) (*domain.Stay, error) {
	if _, err := s.rooms.Get(roomID); err != nil {
		return nil, err
	}
	stay, ok := s.stays.ActiveFor(roomID)
	if !ok {
		return nil, domain.ErrStayNotFound.WithMeta("roomId", roomID)
	}
	return &stay, nil
}

func (s *FrontDeskService) GetFolio(ctx context.Context, roomID string) (*FolioView, error) {
	if _, err := s.rooms.Get(roomID); err != nil {
		return nil, err
	}
	f, ok := s.folios.Get(roomID)
	if !ok {
		return nil, domain.ErrFolioNotFound.WithMeta("roomId", roomID)
	}
	return s.folioView(f), nil
}
