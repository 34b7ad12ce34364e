package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/srgjo27/hotel_frontdesk/internal/core/domain"
	"github.com/srgjo27/hotel_frontdesk/internal/core/ports/mocks"
	"github.com/srgjo27/hotel_frontdesk/internal/core/services"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	src := newService(t, nil, nil)
	ctx := context.Background()
	checkIn(t, src, "r1", "Guest One")
	_, err := src.AddCharge(ctx, "r1", services.ChargeRequest{Category: domain.ChargeRoomRent, Description: "night", Amount: 2500})
	require.NoError(t, err)
	checkIn(t, src, "r2", "Guest Two")
	_, err = src.CheckOut(ctx, "r2")
	require.NoError(t, err)
	maintenance := domain.RoomMaintenance
	_, err = src.EditRoom(ctx, "r4", services.EditRoomRequest{Status: &maintenance})
	require.NoError(t, err)

	snap := src.Snapshot()
	assert.Len(t, snap.Rooms, 4)
	assert.Len(t, snap.Stays, 1)
	assert.Len(t, snap.Folios, 2)

	dst := newService(t, nil, nil)
	dst.Restore(snap)

	want, err := src.ListRooms(ctx, "")
	require.NoError(t, err)
	got, err := dst.ListRooms(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Restored state accepts further commands.
	_, err = dst.TakePayment(ctx, "r1", services.PaymentRequest{Method: domain.PaymentCard, Amount: 2500})
	require.NoError(t, err)
	_, err = dst.CheckOut(ctx, "r1")
	assert.NoError(t, err)
}

func TestSnapshot_RestoreSkipsUnknownAndInvalidRecords(t *testing.T) {
	svc := newService(t, nil, nil)
	ctx := context.Background()
	now := time.Now()

	stay, err := domain.NewStay("r9", domain.GuestProfile{FullName: "Ghost"}, now, nil)
	require.NoError(t, err)

	svc.Restore(&domain.Snapshot{
		TakenAt: now,
		Rooms: []domain.RoomStateRecord{
			{RoomID: "r1", State: domain.RoomState{Status: "BROKEN", Condition: domain.ConditionClean, Amenities: domain.Amenities{AC: domain.ACNone}}},
			{RoomID: "r9", State: domain.RoomState{Status: domain.RoomOccupied, Condition: domain.ConditionClean, Amenities: domain.Amenities{AC: domain.ACNone}}},
		},
		Stays:  []domain.Stay{*stay},
		Folios: []domain.Folio{*domain.NewFolio("r9", "Ghost")},
	})

	room, err := svc.GetRoom(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoomAvailable, room.Status)
	_, err = svc.GetRoom(ctx, "r9")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestSnapshot_RestoreSkipsRecordsThatBreakLedgerRules(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := newService(t, nil, zap.New(core))
	ctx := context.Background()
	now := time.Now()

	badFolio := domain.NewFolio("r1", "")
	badFolio.Charges = append(badFolio.Charges, domain.Charge{At: now, Category: "SPA", Description: "", Amount: -500})
	badPayment := domain.NewFolio("r2", "")
	badPayment.Payments = append(badPayment.Payments, domain.Payment{At: now, Method: domain.PaymentCard, Amount: 0})

	goodFolio := domain.NewFolio("r3", "Valid Guest")
	_, err := goodFolio.AddCharge(domain.ChargeRoomRent, "night", 1200, now)
	require.NoError(t, err)

	nameless := domain.Stay{ID: uuid.New(), RoomID: "r1", Guest: domain.GuestProfile{FullName: ""}, CheckInAt: now, Status: domain.StayCheckedIn}
	notOccupied, err := domain.NewStay("r2", domain.GuestProfile{FullName: "Valid Guest"}, now, nil)
	require.NoError(t, err)
	closed, err := domain.NewStay("r3", domain.GuestProfile{FullName: "Earlier Guest"}, now, nil)
	require.NoError(t, err)
	closed.Status = domain.StayCheckedOut
	good, err := domain.NewStay("r3", domain.GuestProfile{FullName: "Valid Guest"}, now, nil)
	require.NoError(t, err)

	svc.Restore(&domain.Snapshot{
		TakenAt: now,
		Stays:   []domain.Stay{nameless, *notOccupied, *closed, *good},
		Folios:  []domain.Folio{*badFolio, *badPayment, *goodFolio},
	})

	_, err = svc.GetFolio(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrFolioNotFound)
	_, err = svc.ActiveStay(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrStayNotFound)
	_, err = svc.GetFolio(ctx, "r2")
	assert.ErrorIs(t, err, domain.ErrFolioNotFound)
	_, err = svc.ActiveStay(ctx, "r2")
	assert.ErrorIs(t, err, domain.ErrStayNotFound)

	stay, err := svc.ActiveStay(ctx, "r3")
	require.NoError(t, err)
	assert.Equal(t, good.ID, stay.ID)
	folio, err := svc.GetFolio(ctx, "r3")
	require.NoError(t, err)
	assert.Equal(t, int64(1200), folio.Balance)

	// The room is still usable after the bad records were dropped.
	checkIn(t, svc, "r1", "New Guest")
	folio, err = svc.GetFolio(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), folio.Balance)

	summary := logs.FilterMessage("front desk state restored").All()
	require.Len(t, summary, 1)
	assert.Equal(t, int64(5), summary[0].ContextMap()["skipped"])
}

func TestSnapshot_RestoreFrom(t *testing.T) {
	t.Run("no snapshot saved", func(t *testing.T) {
		repo := mocks.NewSnapshotRepository(t)
		repo.On("Load", mock.Anything).Return(nil, nil)
		svc := newService(t, nil, nil)

		assert.NoError(t, svc.RestoreFrom(context.Background(), repo))
	})

	t.Run("empty snapshot", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		repo := mocks.NewSnapshotRepository(t)
		repo.On("Load", mock.Anything).Return(&domain.Snapshot{TakenAt: time.Now()}, nil)
		svc := newService(t, nil, zap.New(core))

		assert.NoError(t, svc.RestoreFrom(context.Background(), repo))
		assert.Equal(t, 1, logs.FilterMessage("no snapshot state found, starting from inventory state").Len())
		assert.Equal(t, 0, logs.FilterMessage("front desk state restored").Len())
	})

	t.Run("load failure", func(t *testing.T) {
		repo := mocks.NewSnapshotRepository(t)
		repo.On("Load", mock.Anything).Return(nil, errors.New("disk gone"))
		svc := newService(t, nil, nil)

		err := svc.RestoreFrom(context.Background(), repo)
		assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	})

	t.Run("loads saved state", func(t *testing.T) {
		src := newService(t, nil, nil)
		checkIn(t, src, "r1", "Guest")

		repo := mocks.NewSnapshotRepository(t)
		repo.On("Load", mock.Anything).Return(src.Snapshot(), nil)
		svc := newService(t, nil, nil)

		require.NoError(t, svc.RestoreFrom(context.Background(), repo))
		stay, err := svc.ActiveStay(context.Background(), "r1")
		require.NoError(t, err)
		assert.Equal(t, "Guest", stay.Guest.FullName)
	})
}

func TestSnapshot_SaveSnapshotPropagatesError(t *testing.T) {
	repo := mocks.NewSnapshotRepository(t)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Snapshot")).Return(errors.New("write failed"))
	svc := newService(t, nil, nil)

	assert.EqualError(t, svc.SaveSnapshot(context.Background(), repo), "write failed")
}

func TestSnapshot_RunSnapshotLoopSavesOnShutdown(t *testing.T) {
	repo := mocks.NewSnapshotRepository(t)
	saved := make(chan *domain.Snapshot, 1)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Snapshot")).
		Run(func(args mock.Arguments) { saved <- args.Get(1).(*domain.Snapshot) }).
		Return(nil).
		Once()

	svc := newService(t, nil, nil)
	checkIn(t, svc, "r1", "Guest")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunSnapshotLoop(ctx, repo, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot loop did not stop")
	}
	snap := <-saved
	assert.Len(t, snap.Stays, 1)
}
