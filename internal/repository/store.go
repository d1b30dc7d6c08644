// Package repository holds the room and registration stores the registration
// engine depends on, with a gorm implementation for postgres and an in-memory
// implementation that commits transactions by compare-and-swap.
package repository

import (
	"context"
	"strings"
	"time"

	"gamearena/backend/internal/apperr"
	"gamearena/backend/internal/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// RoomInput is what a host submits to open a room.
type RoomInput struct {
	Title        string
	Description  string
	Game         string
	EntryFee     decimal.Decimal
	MaxPlayers   int
	StartDate    string // YYYY-MM-DD
	StartTime    string // HH:MM
	Difficulty   models.Difficulty
	Rules        string
	HostID       string
	HostUsername string
}

func (in RoomInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return apperr.Validation("title is required")
	}
	if strings.TrimSpace(in.Game) == "" {
		return apperr.Validation("game is required")
	}
	if !in.EntryFee.IsPositive() {
		return apperr.Validation("entry fee must be greater than zero")
	}
	if in.MaxPlayers < 2 {
		return apperr.Validation("max players must be at least 2")
	}
	if in.StartDate == "" || in.StartTime == "" {
		return apperr.Validation("start date and start time are required")
	}
	if _, err := time.Parse(models.DateLayout, in.StartDate); err != nil {
		return apperr.Validation("start date must be YYYY-MM-DD")
	}
	if _, err := time.Parse(models.TimeLayout, in.StartTime); err != nil {
		return apperr.Validation("start time must be HH:MM")
	}
	if !in.Difficulty.Valid() {
		return apperr.Validation("difficulty must be one of Beginner, Intermediate, Expert")
	}
	if in.HostID == "" {
		return apperr.Validation("host is required")
	}
	return nil
}

// RoomFilter narrows List. Zero values match everything.
type RoomFilter struct {
	Status models.RoomStatus
	Game   string
	Query  string // case-insensitive substring of title or game
	Page   int    // 1-based, 0 disables paging
	Limit  int
}

func (f RoomFilter) offset() int {
	if f.Page <= 1 || f.Limit <= 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// Mutator transforms a room in place. Returning an error aborts the update.
type Mutator func(room *models.GameRoom) error

type RoomStore interface {
	Create(ctx context.Context, in RoomInput) (*models.GameRoom, error)
	Get(ctx context.Context, id string) (*models.GameRoom, error)
	List(ctx context.Context, filter RoomFilter) ([]models.GameRoom, error)
	Count(ctx context.Context, filter RoomFilter) (int64, error)
	// UpdateByID is the only sanctioned way to change a stored room.
	UpdateByID(ctx context.Context, id string, mutate Mutator) (*models.GameRoom, error)
}

// RegistrationInput is a new registration.
type RegistrationInput struct {
	UserID        string
	RoomID        string
	PaymentAmount decimal.Decimal
	Status        models.PaymentStatus
}

type RegistrationStore interface {
	Create(ctx context.Context, in RegistrationInput) (*models.Registration, error)
	Get(ctx context.Context, id string) (*models.Registration, error)
	// ListByUser returns the user's registrations, newest first, with Room loaded.
	ListByUser(ctx context.Context, userID string) ([]models.Registration, error)
	ListByRoom(ctx context.Context, roomID string) ([]models.Registration, error)
	// FindCompleted returns the completed registration for the pair or a NotFound error.
	FindCompleted(ctx context.Context, userID, roomID string) (*models.Registration, error)
	UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Registration, error)
	// AttachPayment sets the payment id of a pending registration.
	AttachPayment(ctx context.Context, id, paymentID string) (*models.Registration, error)
	ListStalePending(ctx context.Context, before time.Time) ([]models.Registration, error)
}

// Store groups the stores and opens transactions spanning both.
type Store interface {
	Rooms() RoomStore
	Registrations() RegistrationStore
	// Transaction runs fn against a transactional view. Either every write made
	// through tx is applied or none is. Concurrent commits touching the same
	// room may fail with apperr.ErrConflict.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

func newRoom(in RoomInput, now time.Time) models.GameRoom {
	id := uuid.NewString()
	return models.GameRoom{
		Base:           models.Base{ID: id, CreatedAt: now, UpdatedAt: now},
		Slug:           slug.Make(in.Title) + "-" + id[:8],
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Game:           strings.TrimSpace(in.Game),
		EntryFee:       in.EntryFee.Round(2),
		MaxPlayers:     in.MaxPlayers,
		CurrentPlayers: 0,
		PrizePool:      decimal.Zero,
		StartDate:      in.StartDate,
		StartTime:      in.StartTime,
		Difficulty:     in.Difficulty,
		Rules:          in.Rules,
		Status:         models.RoomOpen,
		HostID:         in.HostID,
		HostUsername:   in.HostUsername,
		Version:        1,
	}
}

func newRegistration(in RegistrationInput, now time.Time) (models.Registration, error) {
	if in.UserID == "" || in.RoomID == "" {
		return models.Registration{}, apperr.Validation("user and room are required")
	}
	if in.PaymentAmount.IsNegative() {
		return models.Registration{}, apperr.Validation("payment amount must not be negative")
	}
	status := in.Status
	if status == "" {
		status = models.PaymentPending
	}
	if !status.Valid() {
		return models.Registration{}, apperr.Validation("unknown payment status %q", status)
	}
	return models.Registration{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		RoomID:        in.RoomID,
		PaymentStatus: status,
		PaymentAmount: in.PaymentAmount,
		RegisteredAt:  now,
		UpdatedAt:     now,
	}, nil
}

// applyMutation runs mutate on a copy of room and checks the room invariants
// on the result. Identity fields cannot be changed by a mutator.
func applyMutation(room models.GameRoom, mutate Mutator, now time.Time) (models.GameRoom, error) {
	next := room
	if err := mutate(&next); err != nil {
		return room, err
	}
	next.ID = room.ID
	next.CreatedAt = room.CreatedAt
	next.HostID = room.HostID
	next.Version = room.Version + 1
	next.UpdatedAt = now

	switch {
	case next.MaxPlayers < 2:
		return room, apperr.Validation("max players must be at least 2")
	case next.CurrentPlayers < 0 || next.CurrentPlayers > next.MaxPlayers:
		return room, apperr.Validation("current players must stay within 0 and %d", next.MaxPlayers)
	case next.PrizePool.IsNegative():
		return room, apperr.Validation("prize pool must not be negative")
	case !next.Status.Valid():
		return room, apperr.Validation("unknown room status %q", next.Status)
	}
	return next, nil
}

func matchesRoom(room *models.GameRoom, f RoomFilter) bool {
	if f.Status != "" && room.Status != f.Status {
		return false
	}
	if f.Game != "" && !strings.EqualFold(room.Game, f.Game) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(room.Title), q) && !strings.Contains(strings.ToLower(room.Game), q) {
			return false
		}
	}
	return true
}
