package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ChargeCategory string

const (
	ChargeRoomRent ChargeCategory = "ROOM_RENT"
	ChargeDining   ChargeCategory = "DINING"
	ChargeBar      ChargeCategory = "BAR"
	ChargeExtra    ChargeCategory = "EXTRA"
)

func (c ChargeCategory) Valid() bool {
	switch c {
	case ChargeRoomRent, ChargeDining, ChargeBar, ChargeExtra:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCard   PaymentMethod = "CARD"
	PaymentBank   PaymentMethod = "BANK"
	PaymentMobile PaymentMethod = "MOBILE"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentBank, PaymentMobile:
		return true
	}
	return false
}

// Amounts are integer minor currency units throughout the ledger.
type Charge struct {
	ID          uuid.UUID      `json:"id"`
	At          time.Time      `json:"at"`
	Category    ChargeCategory `json:"category"`
	Description string         `json:"description"`
	Amount      int64          `json:"amount"`
}

type Payment struct {
	ID     uuid.UUID     `json:"id"`
	At     time.Time     `json:"at"`
	Method PaymentMethod `json:"method"`
	Amount int64         `json:"amount"`
}

// Folio is the running bill of a room. Charges and payments are kept in
// recording order and are never edited or removed.
type Folio struct {
	ID        uuid.UUID `json:"id"`
	RoomID    string    `json:"roomId"`
	GuestName string    `json:"guestName,omitempty"`
	Charges   []Charge  `json:"charges"`
	Payments  []Payment `json:"payments"`
}

func NewFolio(roomID, guestName string) *Folio {
	return &Folio{
		ID:        uuid.New(),
		RoomID:    roomID,
		GuestName: guestName,
		Charges:   []Charge{},
		Payments:  []Payment{},
	}
}

// AdoptGuestName sets the guest name only if none was recorded yet.
func (f *Folio) AdoptGuestName(name string) {
	if f.GuestName == "" {
		f.GuestName = name
	}
}

// AddCharge appends a charge. The folio is untouched on error.
func (f *Folio) AddCharge(category ChargeCategory, description string, amount int64, at time.Time) (Charge, error) {
	if !category.Valid() {
		return Charge{}, ErrInvalidCategory.WithMeta("category", string(category))
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return Charge{}, ErrEmptyDescription
	}
	if amount <= 0 {
		return Charge{}, ErrNonPositiveAmount.WithMeta("amount", amount)
	}

	c := Charge{
		ID:          uuid.New(),
		At:          at,
		Category:    category,
		Description: description,
		Amount:      amount,
	}
	f.Charges = append(f.Charges, c)
	return c, nil
}

// AddPayment appends a payment. Overpayment is allowed and shows up as a
// negative balance.
func (f *Folio) AddPayment(method PaymentMethod, amount int64, at time.Time) (Payment, error) {
	if !method.Valid() {
		return Payment{}, ErrInvalidMethod.WithMeta("method", string(method))
	}
	if amount <= 0 {
		return Payment{}, ErrNonPositiveAmount.WithMeta("amount", amount)
	}

	p := Payment{
		ID:     uuid.New(),
		At:     at,
		Method: method,
		Amount: amount,
	}
	f.Payments = append(f.Payments, p)
	return p, nil
}

type Totals struct {
	Total   int64 `json:"total"`
	Paid    int64 `json:"paid"`
	Balance int64 `json:"balance"`
}

// Totals is recomputed from the entries on every call. Balance may be negative.
func (f *Folio) Totals() Totals {
	var t Totals
	for _, c := range f.Charges {
		t.Total += c.Amount
	}
	for _, p := range f.Payments {
		t.Paid += p.Amount
	}
	t.Balance = t.Total - t.Paid
	return t
}

// Validate checks every recorded entry against the rules AddCharge and
// AddPayment enforce. It is used for folios that did not come through them.
func (f *Folio) Validate() error {
	if f.RoomID == "" {
		return ErrInvalidRoomID
	}
	for _, c := range f.Charges {
		if !c.Category.Valid() {
			return ErrInvalidCategory.WithMeta("category", string(c.Category)).WithMeta("chargeId", c.ID.String())
		}
		if strings.TrimSpace(c.Description) == "" {
			return ErrEmptyDescription.WithMeta("chargeId", c.ID.String())
		}
		if c.Amount <= 0 {
			return ErrNonPositiveAmount.WithMeta("amount", c.Amount).WithMeta("chargeId", c.ID.String())
		}
	}
	for _, p := range f.Payments {
		if !p.Method.Valid() {
			return ErrInvalidMethod.WithMeta("method", string(p.Method)).WithMeta("paymentId", p.ID.String())
		}
		if p.Amount <= 0 {
			return ErrNonPositiveAmount.WithMeta("amount", p.Amount).WithMeta("paymentId", p.ID.String())
		}
	}
	return nil
}

func (f *Folio) EntryCount() int {
	return len(f.Charges) + len(f.Payments)
}

// Clone returns a copy that shares nothing mutable with f.
func (f *Folio) Clone() *Folio {
	c := *f
	c.Charges = append(make([]Charge, 0, len(f.Charges)), f.Charges...)
	c.Payments = append(make([]Payment, 0, len(f.Payments)), f.Payments...)
	return &c
}
