package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus is the payment state of a registration.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether s may move to next. Nothing ever returns to
// pending, failed and refunded are terminal, and only completed payments refund.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if s == next {
		return next != PaymentPending
	}
	switch s {
	case PaymentPending:
		return next == PaymentCompleted || next == PaymentFailed
	case PaymentCompleted:
		return next == PaymentRefunded
	}
	return false
}

// Registration is a user's paid claim to a seat in a room.
// At most one completed registration exists per (user, room).
type Registration struct {
	ID            string          `gorm:"primaryKey;size:36"`
	UserID        string          `gorm:"size:36;not null;index:idx_registration_user_room;uniqueIndex:idx_registration_completed,where:payment_status = 'completed'"`
	RoomID        string          `gorm:"size:36;not null;index:idx_registration_user_room;uniqueIndex:idx_registration_completed,where:payment_status = 'completed'"`
	PaymentStatus PaymentStatus   `gorm:"size:20;not null;index"`
	PaymentAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PaymentID     string          `gorm:"size:64"`
	RegisteredAt  time.Time       `gorm:"not null;index"`
	UpdatedAt     time.Time

	Room *GameRoom `gorm:"foreignKey:RoomID"`
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
