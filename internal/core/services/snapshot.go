package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/srgjo27/hotel_frontdesk/internal/core/domain"
	"github.com/srgjo27/hotel_frontdesk/internal/core/ports"
	"github.com/srgjo27/hotel_frontdesk/internal/platform/logger"
)

const finalSnapshotTimeout = 5 * time.Second

// Snapshot copies the state of every room under that room's lock.
func (s *FrontDeskService) Snapshot() *domain.Snapshot {
	snap := &domain.Snapshot{TakenAt: s.now()}

	for _, r := range s.rooms.List() {
		unlock, err := s.lockRoom(r.ID)
		if err != nil {
			continue
		}
		room, err := s.rooms.Get(r.ID)
		if err == nil {
			snap.Rooms = append(snap.Rooms, domain.RoomStateRecord{RoomID: r.ID, State: room.State()})
		}
		if stay, ok := s.stays.ActiveFor(r.ID); ok {
			snap.Stays = append(snap.Stays, stay)
		}
		if f, ok := s.folios.Get(r.ID); ok {
			snap.Folios = append(snap.Folios, f)
		}
		unlock()
	}
	return snap
}

// Restore loads a snapshot taken earlier. Records for rooms that are no
// longer in inventory, or that fail validation, are skipped and logged.
// A stay is only restored onto a room whose restored status is OCCUPIED.
func (s *FrontDeskService) Restore(snap *domain.Snapshot) {
	if snap == nil {
		return
	}

	skipped := 0
	for _, rec := range snap.Rooms {
		if err := rec.State.Validate(); err != nil {
			s.log.Warn("skipping invalid room state", logger.RoomID(rec.RoomID), zap.Error(err))
			skipped++
			continue
		}
		if !s.withRoom(rec.RoomID, func() { s.rooms.Restore(rec.RoomID, rec.State) }) {
			skipped++
		}
	}

	for _, stay := range snap.Stays {
		if err := stay.Validate(); err != nil {
			s.log.Warn("skipping invalid stay", logger.RoomID(stay.RoomID), logger.StayID(stay.ID.String()), zap.Error(err))
			skipped++
			continue
		}
		if !stay.IsActive() {
			s.log.Warn("skipping closed stay", logger.RoomID(stay.RoomID), logger.StayID(stay.ID.String()))
			skipped++
			continue
		}

		var err error
		if !s.withRoom(stay.RoomID, func() { err = s.restoreStay(stay) }) {
			skipped++
			continue
		}
		if err != nil {
			s.log.Warn("skipping stay", logger.RoomID(stay.RoomID), logger.StayID(stay.ID.String()), zap.Error(err))
			skipped++
		}
	}

	for _, f := range snap.Folios {
		if err := f.Validate(); err != nil {
			s.log.Warn("skipping invalid folio", logger.RoomID(f.RoomID), logger.FolioID(f.ID.String()), zap.Error(err))
			skipped++
			continue
		}
		if !s.withRoom(f.RoomID, func() { s.folios.Put(f) }) {
			skipped++
		}
	}

	s.metrics.SetActiveStays(len(s.stays.Active()))
	s.log.Info("front desk state restored",
		zap.Time("taken_at", snap.TakenAt),
		zap.Int("rooms", len(snap.Rooms)),
		zap.Int("stays", len(snap.Stays)),
		zap.Int("folios", len(snap.Folios)),
		zap.Int("skipped", skipped),
	)
}

// restoreStay runs under the room lock.
func (s *FrontDeskService) restoreStay(stay domain.Stay) error {
	room, err := s.rooms.Get(stay.RoomID)
	if err != nil {
		return err
	}
	if !room.IsOccupied() {
		return domain.ErrRoomNotOccupied.WithMeta("roomId", stay.RoomID).WithMeta("status", string(room.Status))
	}
	return s.stays.Open(stay)
}

func (s *FrontDeskService) withRoom(roomID string, fn func()) bool {
	unlock, err := s.lockRoom(roomID)
	if err != nil {
		s.log.Warn("snapshot references unknown room", logger.RoomID(roomID))
		return false
	}
	defer unlock()
	fn()
	return true
}

// RestoreFrom loads the last saved snapshot, if any.
func (s *FrontDeskService) RestoreFrom(ctx context.Context, repo ports.SnapshotRepository) error {
	snap, err := repo.Load(ctx)
	if err != nil {
		return domain.ErrInternal.WithError(err).WithMeta("source", "snapshot")
	}
	if snap == nil || snap.Empty() {
		s.log.Info("no snapshot state found, starting from inventory state")
		return nil
	}
	s.Restore(snap)
	return nil
}

func (s *FrontDeskService) SaveSnapshot(ctx context.Context, repo ports.SnapshotRepository) error {
	err := repo.Save(ctx, s.Snapshot())
	s.metrics.RecordSnapshot(err)
	if err != nil {
		s.log.Error("failed to save snapshot", zap.Error(err))
		return err
	}
	return nil
}

// RunSnapshotLoop saves a snapshot every interval and once more when ctx ends.
func (s *FrontDeskService) RunSnapshotLoop(ctx context.Context, repo ports.SnapshotRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("snapshot worker started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			finalCtx, cancel := context.WithTimeout(context.Background(), finalSnapshotTimeout)
			_ = s.SaveSnapshot(finalCtx, repo)
			cancel()
			s.log.Info("snapshot worker stopped")
			return
		case <-ticker.C:
			_ = s.SaveSnapshot(ctx, repo)
		}
	}
}
