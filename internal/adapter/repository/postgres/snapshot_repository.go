package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/srgjo27/hotel_frontdesk/internal/core/domain"
)

// SnapshotRepository stores the latest front-desk snapshot in relational
// tables. Each Save replaces the previous snapshot in one transaction.
type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	for _, table := range []string{"folio_payments", "folio_charges", "folios", "stays", "room_states"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO snapshot_meta (id, taken_at) VALUES (1, $1)
	ON CONFLICT (id) DO UPDATE SET taken_at = EXCLUDED.taken_at
	`, snapshot.TakenAt)
	if err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}

	for _, rec := range snapshot.Rooms {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO room_states (room_id, status, condition, has_tv, ac)
		VALUES ($1, $2, $3, $4, $5)
		`, rec.RoomID, rec.State.Status, rec.State.Condition, rec.State.Amenities.HasTV, rec.State.Amenities.AC)
		if err != nil {
			return fmt.Errorf("failed to insert room state %s: %w", rec.RoomID, err)
		}
	}

	for _, stay := range snapshot.Stays {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO stays (id, room_id, guest_name, guest_phone, check_in_at, expected_out_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, stay.ID, stay.RoomID, stay.Guest.FullName, stay.Guest.Phone, stay.CheckInAt, stay.ExpectedOutAt, stay.Status)
		if err != nil {
			return fmt.Errorf("failed to insert stay %s: %w", stay.ID, err)
		}
	}

	for _, folio := range snapshot.Folios {
		if err := saveFolio(ctx, tx, folio); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func saveFolio(ctx context.Context, tx *sql.Tx, folio domain.Folio) error {
	_, err := tx.ExecContext(ctx, `
	INSERT INTO folios (id, room_id, guest_name) VALUES ($1, $2, $3)
	`, folio.ID, folio.RoomID, folio.GuestName)
	if err != nil {
		return fmt.Errorf("failed to insert folio %s: %w", folio.RoomID, err)
	}

	chargeStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO folio_charges (id, folio_id, seq, at, category, description, amount)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare charge statement: %w", err)
	}

	defer chargeStmt.Close()

	for i, c := range folio.Charges {
		if _, err := chargeStmt.ExecContext(ctx, c.ID, folio.ID, i, c.At, c.Category, c.Description, c.Amount); err != nil {
			return fmt.Errorf("failed to insert charge %s: %w", c.ID, err)
		}
	}

	paymentStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO folio_payments (id, folio_id, seq, at, method, amount)
	VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare payment statement: %w", err)
	}

	defer paymentStmt.Close()

	for i, p := range folio.Payments {
		if _, err := paymentStmt.ExecContext(ctx, p.ID, folio.ID, i, p.At, p.Method, p.Amount); err != nil {
			return fmt.Errorf("failed to insert payment %s: %w", p.ID, err)
		}
	}

	return nil
}

// Load returns nil, nil when no snapshot has been saved yet.
func (r *SnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return nil, err
	}

	defer tx.Rollback()

	snap := &domain.Snapshot{}
	err = tx.QueryRowContext(ctx, `SELECT taken_at FROM snapshot_meta WHERE id = 1`).Scan(&snap.TakenAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot header: %w", err)
	}

	if snap.Rooms, err = loadRoomStates(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Stays, err = loadStays(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Folios, err = loadFolios(ctx, tx); err != nil {
		return nil, err
	}

	return snap, tx.Commit()
}

func loadRoomStates(ctx context.Context, tx *sql.Tx) ([]domain.RoomStateRecord, error) {
	rows, err := tx.QueryContext(ctx, `SELECT room_id, status, condition, has_tv, ac FROM room_states ORDER BY room_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query room states: %w", err)
	}

	defer rows.Close()

	var out []domain.RoomStateRecord
	for rows.Next() {
		var rec domain.RoomStateRecord
		if err := rows.Scan(&rec.RoomID, &rec.State.Status, &rec.State.Condition, &rec.State.Amenities.HasTV, &rec.State.Amenities.AC); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func loadStays(ctx context.Context, tx *sql.Tx) ([]domain.Stay, error) {
	rows, err := tx.QueryContext(ctx, `
	SELECT id, room_id, guest_name, guest_phone, check_in_at, expected_out_at, status
	FROM stays
	ORDER BY check_in_at, room_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stays: %w", err)
	}

	defer rows.Close()

	var out []domain.Stay
	for rows.Next() {
		var stay domain.Stay
		var expectedOut sql.NullTime
		if err := rows.Scan(&stay.ID, &stay.RoomID, &stay.Guest.FullName, &stay.Guest.Phone, &stay.CheckInAt, &expectedOut, &stay.Status); err != nil {
			return nil, err
		}
		if expectedOut.Valid {
			stay.ExpectedOutAt = &expectedOut.Time
		}
		out = append(out, stay)
	}
	return out, rows.Err()
}

func loadFolios(ctx context.Context, tx *sql.Tx) ([]domain.Folio, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, room_id, guest_name FROM folios ORDER BY room_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query folios: %w", err)
	}

	var folios []domain.Folio
	index := make(map[string]int)
	for rows.Next() {
		f := domain.Folio{Charges: []domain.Charge{}, Payments: []domain.Payment{}}
		if err := rows.Scan(&f.ID, &f.RoomID, &f.GuestName); err != nil {
			rows.Close()
			return nil, err
		}
		index[f.ID.String()] = len(folios)
		folios = append(folios, f)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	charges, err := tx.QueryContext(ctx, `
	SELECT folio_id, id, at, category, description, amount
	FROM folio_charges
	ORDER BY folio_id, seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query charges: %w", err)
	}

	defer charges.Close()

	for charges.Next() {
		var folioID string
		var c domain.Charge
		if err := charges.Scan(&folioID, &c.ID, &c.At, &c.Category, &c.Description, &c.Amount); err != nil {
			return nil, err
		}
		if i, ok := index[folioID]; ok {
			folios[i].Charges = append(folios[i].Charges, c)
		}
	}
	if err := charges.Err(); err != nil {
		return nil, err
	}

	payments, err := tx.QueryContext(ctx, `
	SELECT folio_id, id, at, method, amount
	FROM folio_payments
	ORDER BY folio_id, seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}

	defer payments.Close()

	for payments.Next() {
		var folioID string
		var p domain.Payment
		if err := payments.Scan(&folioID, &p.ID, &p.At, &p.Method, &p.Amount); err != nil {
			return nil, err
		}
		if i, ok := index[folioID]; ok {
			folios[i].Payments = append(folios[i].Payments, p)
		}
	}

	return folios, payments.Err()
}
