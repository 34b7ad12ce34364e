package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/srgjo27/hotel_frontdesk/internal/core/domain"
	"github.com/srgjo27/hotel_frontdesk/internal/core/ports"
	"github.com/srgjo27/hotel_frontdesk/internal/core/state"
	"github.com/srgjo27/hotel_frontdesk/internal/platform/logger"
	"github.com/srgjo27/hotel_frontdesk/internal/platform/metrics"
)

type CheckInRequest struct {
	Guest         domain.GuestProfile `json:"guest"`
	ExpectedOutAt *time.Time          `json:"expectedOutAt,omitempty"`
}

type ChargeRequest struct {
	Category    domain.ChargeCategory `json:"category"`
	Description string                `json:"description"`
	Amount      int64                 `json:"amount"`
}

type PaymentRequest struct {
	Method domain.PaymentMethod `json:"method"`
	Amount int64                `json:"amount"`
}

// EditRoomRequest fields left nil keep their current value.
type EditRoomRequest struct {
	Status    *domain.RoomStatus    `json:"status,omitempty"`
	Condition *domain.RoomCondition `json:"condition,omitempty"`
	HasTV     *bool                 `json:"hasTV,omitempty"`
	AC        *domain.ACType        `json:"ac,omitempty"`
}

func (r EditRoomRequest) apply(s domain.RoomState) domain.RoomState {
	if r.Status != nil {
		s.Status = *r.Status
	}
	if r.Condition != nil {
		s.Condition = *r.Condition
	}
	if r.HasTV != nil {
		s.Amenities.HasTV = *r.HasTV
	}
	if r.AC != nil {
		s.Amenities.AC = *r.AC
	}
	return s
}

// FrontDeskService coordinates the room state machine, the stay registry
// and the folio store. Every command holds the lock of its room for its
// whole duration; commands on different rooms run in parallel.
type FrontDeskService struct {
	rooms   *state.RoomMachine
	stays   *state.StayRegistry
	folios  *state.FolioStore
	locks   *roomLocks
	events  ports.EventPublisher
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewFrontDeskService loads rooms from inventory. events, log and m may be nil.
func NewFrontDeskService(ctx context.Context, inventory ports.RoomInventory, events ports.EventPublisher, log *zap.Logger, m *metrics.Metrics) (*FrontDeskService, error) {
	rooms, err := inventory.ListRooms(ctx)
	if err != nil {
		return nil, domain.ErrInternal.WithError(err).WithMeta("source", "inventory")
	}
	if log == nil {
		log = zap.NewNop()
	}

	machine := state.NewRoomMachine(rooms)
	ids := make([]string, 0, len(rooms))
	for _, r := range machine.List() {
		ids = append(ids, r.ID)
	}

	log.Info("front desk loaded", zap.Int("rooms", len(ids)))

	return &FrontDeskService{
		rooms:   machine,
		stays:   state.NewStayRegistry(),
		folios:  state.NewFolioStore(),
		locks:   newRoomLocks(ids),
		events:  events,
		log:     log,
		metrics: m,
		now:     time.Now,
	}, nil
}

func (s *FrontDeskService) lockRoom(roomID string) (func(), error) {
	if roomID == "" {
		return nil, domain.ErrInvalidRoomID
	}
	unlock, ok := s.locks.lock(roomID)
	if !ok {
		return nil, domain.ErrRoomNotFound.WithMeta("roomId", roomID)
	}
	return unlock, nil
}

func (s *FrontDeskService) CheckIn(ctx context.Context, roomID string, req CheckInRequest) (*domain.Stay, error) {
	stay, err := s.checkIn(roomID, req)
	s.metrics.RecordCommand("check_in", err)
	if err != nil {
		s.logRejected(ctx, "check_in", roomID, err)
		return nil, err
	}

	op := domain.OperatorFrom(ctx)
	s.log.Info("guest checked in",
		logger.RoomID(roomID),
		logger.StayID(stay.ID.String()),
		logger.Operator(op.ID),
		logger.Action("check_in"),
		logger.Transition(string(domain.TransitionCheckIn)),
	)
	s.metrics.SetActiveStays(len(s.stays.Active()))
	s.emit(ctx, domain.NewEvent(domain.EventCheckedIn, roomID, op, stay.CheckInAt, stay))
	return stay, nil
}

func (s *FrontDeskService) checkIn(roomID string, req CheckInRequest) (*domain.Stay, error) {
	unlock, err := s.lockRoom(roomID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	room, err := s.rooms.Get(roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsAvailable() {
		return nil, domain.ErrRoomNotAvailable.WithMeta("roomId", roomID).WithMeta("status", string(room.Status))
	}

	guest, err := req.Guest.Normalize()
	if err != nil {
		return nil, err
	}

	stay, err := domain.NewStay(roomID, guest, s.now(), req.ExpectedOutAt)
	if err != nil {
		return nil, err
	}

	if err := s.stays.Open(*stay); err != nil {
		return nil, err
	}
	if _, err := s.rooms.CheckIn(roomID); err != nil {
		s.stays.Discard(roomID)
		return nil, err
	}
	s.folios.GetOrCreate(roomID, guest.FullName)

	return stay, nil
}

func (s *FrontDeskService) CheckOut(ctx context.Context, roomID string) (*domain.Room, error) {
	room, stay, err := s.checkOut(roomID)
	s.metrics.RecordCommand("check_out", err)
	if err != nil {
		s.logRejected(ctx, "check_out", roomID, err)
		return nil, err
	}

	op := domain.OperatorFrom(ctx)
	s.log.Info("guest checked out",
		logger.RoomID(roomID),
		logger.StayID(stay.ID.String()),
		logger.Operator(op.ID),
		logger.Action("check_out"),
		logger.Transition(string(domain.TransitionCheckOut)),
	)
	s.metrics.SetActiveStays(len(s.stays.Active()))
	s.emit(ctx, domain.NewEvent(domain.EventCheckedOut, roomID, op, *stay.CheckOutAt, stay))
	return room, nil
}

func (s *FrontDeskService) checkOut(roomID string) (*domain.Room, *domain.Stay, error) {
	unlock, err := s.lockRoom(roomID)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	if _, ok := s.stays.ActiveFor(roomID); !ok {
		return nil, nil, domain.ErrStayNotFound.WithMeta("roomId", roomID)
	}

	if balance := s.folios.Balance(roomID); balance > 0 {
		return nil, nil, domain.ErrBalanceDue.WithMeta("roomId", roomID).WithMeta("balance", balance)
	}

	current, err := s.rooms.Get(roomID)
	if err != nil {
		return nil, nil, err
	}
	if !current.IsOccupied() {
		return nil, nil, domain.ErrRoomNotOccupied.WithMeta("roomId", roomID).WithMeta("status", string(current.Status))
	}

	closed, err := s.stays.Close(roomID, s.now())
	if err != nil {
		return nil, nil, err
	}
	room, err := s.rooms.CheckOut(roomID)
	if err != nil {
		s.stays.Reopen(closed)
		return nil, nil, err
	}

	return &room, &closed, nil
}

func (s *FrontDeskService) AddCharge(ctx context.Context, roomID string, req ChargeRequest) (*FolioView, error) {
	var charge domain.Charge
	folio, err := s.updateFolio(roomID, func(f *domain.Folio) error {
		var err error
		charge, err = f.AddCharge(req.Category, req.Description, req.Amount, s.now())
		return err
	})
	s.metrics.RecordCommand("add_charge", err)
	if err != nil {
		s.logRejected(ctx, "add_charge", roomID, err)
		return nil, err
	}

	view := s.folioView(folio)
	op := domain.OperatorFrom(ctx)
	s.log.Info("charge added",
		logger.RoomID(roomID),
		logger.FolioID(folio.ID.String()),
		logger.Operator(op.ID),
		logger.Action("add_charge"),
		zap.String("category", string(charge.Category)),
		logger.Amount(charge.Amount),
		logger.Balance(view.Balance),
		logger.Entries(folio.EntryCount()),
	)
	s.metrics.RecordCharge(string(charge.Category), charge.Amount)
	s.emit(ctx, domain.NewEvent(domain.EventChargeAdded, roomID, op, charge.At, map[string]interface{}{
		"charge": charge,
		"totals": view.Totals,
	}))
	return view, nil
}

// TakePayment accepts any positive amount. Paying more than the balance
// leaves a credit, which is logged but not refunded.
func (s *FrontDeskService) TakePayment(ctx context.Context, roomID string, req PaymentRequest) (*FolioView, error) {
	var payment domain.Payment
	folio, err := s.updateFolio(roomID, func(f *domain.Folio) error {
		var err error
		payment, err = f.AddPayment(req.Method, req.Amount, s.now())
		return err
	})
	s.metrics.RecordCommand("take_payment", err)
	if err != nil {
		s.logRejected(ctx, "take_payment", roomID, err)
		return nil, err
	}

	view := s.folioView(folio)
	op := domain.OperatorFrom(ctx)
	s.log.Info("payment taken",
		logger.RoomID(roomID),
		logger.FolioID(folio.ID.String()),
		logger.Operator(op.ID),
		logger.Action("take_payment"),
		zap.String("method", string(payment.Method)),
		logger.Amount(payment.Amount),
		logger.Balance(view.Balance),
		logger.Entries(folio.EntryCount()),
	)
	if view.Balance < 0 {
		s.log.Warn("overpayment left a credit on folio",
			logger.RoomID(roomID),
			logger.FolioID(folio.ID.String()),
			logger.Operator(op.ID),
			logger.Action("overpayment"),
			logger.Balance(view.Balance),
		)
	}
	s.metrics.RecordPayment(string(payment.Method), payment.Amount)
	s.emit(ctx, domain.NewEvent(domain.EventPaymentTaken, roomID, op, payment.At, map[string]interface{}{
		"payment": payment,
		"totals":  view.Totals,
	}))
	return view, nil
}

func (s *FrontDeskService) updateFolio(roomID string, mutation func(*domain.Folio) error) (domain.Folio, error) {
	unlock, err := s.lockRoom(roomID)
	if err != nil {
		return domain.Folio{}, err
	}
	defer unlock()

	return s.folios.Update(roomID, mutation)
}

// EditRoom is the operator override. It ignores the transition rules and
// does not touch stays or folios.
func (s *FrontDeskService) EditRoom(ctx context.Context, roomID string, req EditRoomRequest) (*domain.Room, error) {
	before, after, err := s.editRoom(roomID, req)
	s.metrics.RecordCommand("edit_room", err)
	if err != nil {
		s.logRejected(ctx, "edit_room", roomID, err)
		return nil, err
	}

	op := domain.OperatorFrom(ctx)
	s.log.Warn("room state overridden by operator",
		logger.RoomID(roomID),
		logger.Operator(op.ID),
		logger.Action("manual_override"),
		logger.Transition(string(domain.TransitionOverride)),
		zap.String("status_before", string(before.Status)),
		zap.String("status_after", string(after.Status)),
		zap.String("condition_before", string(before.Condition)),
		zap.String("condition_after", string(after.Condition)),
	)
	if _, active := s.stays.ActiveFor(roomID); active && !after.IsOccupied() {
		s.log.Warn("room has an active stay but is no longer occupied",
			logger.RoomID(roomID),
			zap.String("status", string(after.Status)),
		)
	}
	s.emit(ctx, domain.NewEvent(domain.EventOverridden, roomID, op, s.now(), map[string]interface{}{
		"before": before.State(),
		"after":  after.State(),
	}))
	return &after, nil
}

func (s *FrontDeskService) editRoom(roomID string, req EditRoomRequest) (domain.Room, domain.Room, error) {
	unlock, err := s.lockRoom(roomID)
	if err != nil {
		return domain.Room{}, domain.Room{}, err
	}
	defer unlock()

	current, err := s.rooms.Get(roomID)
	if err != nil {
		return domain.Room{}, domain.Room{}, err
	}
	return s.rooms.Override(roomID, req.apply(current.State()))
}

func (s *FrontDeskService) emit(ctx context.Context, event domain.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event",
			zap.String("event", string(event.Type)),
			logger.RoomID(event.RoomID),
			zap.Error(err),
		)
	}
}

func (s *FrontDeskService) logRejected(ctx context.Context, action, roomID string, err error) {
	fields := []zap.Field{
		logger.RoomID(roomID),
		logger.Operator(domain.OperatorFrom(ctx).ID),
		logger.Action(action),
		zap.String("kind", string(domain.KindOf(err))),
		zap.Error(err),
	}

	var derr *domain.Error
	if errors.As(err, &derr) && derr.Kind != domain.KindInternal {
		s.log.Info("command rejected", fields...)
		return
	}
	s.log.Error("command failed", fields...)
}
