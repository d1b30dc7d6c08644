package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Difficulty is the advertised skill level of a room.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyExpert       Difficulty = "Expert"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyExpert:
		return true
	}
	return false
}

// RoomStatus is the lifecycle state of a room.
type RoomStatus string

const (
	RoomOpen      RoomStatus = "open"
	RoomFull      RoomStatus = "full"
	RoomStarted   RoomStatus = "started"
	RoomCompleted RoomStatus = "completed"
	RoomCancelled RoomStatus = "cancelled"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomOpen, RoomFull, RoomStarted, RoomCompleted, RoomCancelled:
		return true
	}
	return false
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// GameRoom is a single tournament with a fixed entry fee and player cap.
// PrizePool always equals EntryFee times the number of completed registrations.
type GameRoom struct {
	Base
	Slug           string          `gorm:"size:160;index"`
	Title          string          `gorm:"size:255;not null"`
	Description    string
	Game           string          `gorm:"size:120;not null;index"`
	EntryFee       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	MaxPlayers     int             `gorm:"not null"`
	CurrentPlayers int             `gorm:"not null"`
	PrizePool      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	StartDate      string          `gorm:"size:10;not null"`
	StartTime      string          `gorm:"size:5;not null"`
	Difficulty     Difficulty      `gorm:"size:20;not null"`
	Rules          string
	Status         RoomStatus `gorm:"size:20;not null;index"`
	HostID         string     `gorm:"size:36;not null;index"`
	HostUsername   string     `gorm:"size:255"`

	// Version is bumped on every write and guards compare-and-swap updates.
	Version int `gorm:"not null"`
}

// HasSpace reports whether another player fits.
func (r *GameRoom) HasSpace() bool {
	return r.CurrentPlayers < r.MaxPlayers
}

// AcceptsRegistrations reports whether a join may proceed.
func (r *GameRoom) AcceptsRegistrations() bool {
	return (r.Status == RoomOpen || r.Status == RoomFull) && r.HasSpace()
}

// StartsAt combines StartDate and StartTime in loc.
func (r *GameRoom) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, r.StartDate+" "+r.StartTime, loc)
}
