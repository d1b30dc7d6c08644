package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gamearena/backend/internal/apperr"
	"gamearena/backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.GameRoom{}, &models.Registration{}))
	return NewGormStore(db)
}

// eachStore runs fn against every Store implementation.
func eachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryStore()) })
	t.Run("gorm", func(t *testing.T) { fn(t, newSQLiteStore(t)) })
}

func validRoom() RoomInput {
	return RoomInput{
		Title:        "Battle Royale Championship",
		Game:         "Fortnite",
		EntryFee:     decimal.NewFromInt(25),
		MaxPlayers:   20,
		StartDate:    "2024-02-15",
		StartTime:    "20:00",
		Difficulty:   models.DifficultyExpert,
		HostID:       "host-1",
		HostUsername: "ProGamer123",
	}
}

func TestRoomInput_Validate(t *testing.T) {
	cases := map[string]func(*RoomInput){
		"zero entry fee":     func(in *RoomInput) { in.EntryFee = decimal.Zero },
		"negative entry fee": func(in *RoomInput) { in.EntryFee = decimal.NewFromInt(-5) },
		"one player":         func(in *RoomInput) { in.MaxPlayers = 1 },
		"blank title":        func(in *RoomInput) { in.Title = "   " },
		"missing game":       func(in *RoomInput) { in.Game = "" },
		"missing date":       func(in *RoomInput) { in.StartDate = "" },
		"bad time":           func(in *RoomInput) { in.StartTime = "8pm" },
		"missing difficulty": func(in *RoomInput) { in.Difficulty = "" },
		"missing host":       func(in *RoomInput) { in.HostID = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validRoom()
			mutate(&in)
			assert.ErrorIs(t, in.Validate(), apperr.ErrValidation)
		})
	}
	assert.NoError(t, validRoom().Validate())
}

func TestRoomStore_Create(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		before := time.Now().Add(-time.Second)

		room, err := s.Rooms().Create(ctx, validRoom())
		require.NoError(t, err)

		assert.NotEmpty(t, room.ID)
		assert.Equal(t, models.RoomOpen, room.Status)
		assert.Equal(t, 0, room.CurrentPlayers)
		assert.True(t, room.PrizePool.IsZero())
		assert.True(t, room.CreatedAt.After(before))
		assert.Equal(t, room.CreatedAt, room.UpdatedAt)
		assert.Contains(t, room.Slug, "battle-royale-championship-")

		got, err := s.Rooms().Get(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, room.Title, got.Title)
		assert.True(t, got.EntryFee.Equal(decimal.NewFromInt(25)))
	})
}

func TestRoomStore_CreateRejectsInvalid(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		in := validRoom()
		in.EntryFee = decimal.Zero
		_, err := s.Rooms().Create(context.Background(), in)
		assert.ErrorIs(t, err, apperr.ErrValidation)

		in = validRoom()
		in.MaxPlayers = 1
		_, err = s.Rooms().Create(context.Background(), in)
		assert.ErrorIs(t, err, apperr.ErrValidation)

		n, err := s.Rooms().Count(context.Background(), RoomFilter{})
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestRoomStore_List(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		fortnite, err := s.Rooms().Create(ctx, validRoom())
		require.NoError(t, err)

		cs := validRoom()
		cs.Title = "CS2 Tournament"
		cs.Game = "Counter-Strike 2"
		csRoom, err := s.Rooms().Create(ctx, cs)
		require.NoError(t, err)
		_, err = s.Rooms().UpdateByID(ctx, csRoom.ID, func(r *models.GameRoom) error {
			r.Status = models.RoomCancelled
			return nil
		})
		require.NoError(t, err)

		all, err := s.Rooms().List(ctx, RoomFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		open, err := s.Rooms().List(ctx, RoomFilter{Status: models.RoomOpen})
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, fortnite.ID, open[0].ID)

		byText, err := s.Rooms().List(ctx, RoomFilter{Query: "COUNTER"})
		require.NoError(t, err)
		require.Len(t, byText, 1)
		assert.Equal(t, csRoom.ID, byText[0].ID)

		byTitle, err := s.Rooms().List(ctx, RoomFilter{Query: "royale"})
		require.NoError(t, err)
		assert.Len(t, byTitle, 1)

		byGame, err := s.Rooms().List(ctx, RoomFilter{Game: "fortnite"})
		require.NoError(t, err)
		assert.Len(t, byGame, 1)

		page, err := s.Rooms().List(ctx, RoomFilter{Page: 2, Limit: 1})
		require.NoError(t, err)
		assert.Len(t, page, 1)

		n, err := s.Rooms().Count(ctx, RoomFilter{Query: "o"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})
}

func TestRoomStore_UpdateByID(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		room, err := s.Rooms().Create(ctx, validRoom())
		require.NoError(t, err)

		updated, err := s.Rooms().UpdateByID(ctx, room.ID, func(r *models.GameRoom) error {
			r.CurrentPlayers++
			r.PrizePool = r.PrizePool.Add(r.EntryFee)
			r.ID = "hijacked"
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, room.ID, updated.ID)
		assert.Equal(t, 1, updated.CurrentPlayers)
		assert.Equal(t, room.Version+1, updated.Version)

		got, err := s.Rooms().Get(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.CurrentPlayers)
		assert.True(t, got.PrizePool.Equal(decimal.NewFromInt(25)))
	})
}

func TestRoomStore_UpdateByIDGuards(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		_, err := s.Rooms().UpdateByID(ctx, "missing", func(r *models.GameRoom) error { return nil })
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		room, err := s.Rooms().Create(ctx, validRoom())
		require.NoError(t, err)

		_, err = s.Rooms().UpdateByID(ctx, room.ID, func(r *models.GameRoom) error {
			r.CurrentPlayers = r.MaxPlayers + 1
			return nil
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		boom := errors.New("boom")
		_, err = s.Rooms().UpdateByID(ctx, room.ID, func(r *models.GameRoom) error {
			r.CurrentPlayers = 3
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := s.Rooms().Get(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.CurrentPlayers)
		assert.Equal(t, room.Version, got.Version)
	})
}

func TestRegistrationStore_Lifecycle(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		room, err := s.Rooms().Create(ctx, validRoom())
		require.NoError(t, err)

		reg, err := s.Registrations().Create(ctx, RegistrationInput{
			UserID: "user-1", RoomID: room.ID, PaymentAmount: room.EntryFee,
		})
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPending, reg.PaymentStatus)
		assert.False(t, reg.RegisteredAt.IsZero())

		_, err = s.Registrations().FindCompleted(ctx, "user-1", room.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		reg, err = s.Registrations().AttachPayment(ctx, reg.ID, "pay_1")
		require.NoError(t, err)
		assert.Equal(t, "pay_1", reg.PaymentID)

		reg, err = s.Registrations().UpdateStatus(ctx, reg.ID, models.PaymentCompleted)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentCompleted, reg.PaymentStatus)

		_, err = s.Registrations().UpdateStatus(ctx, reg.ID, models.PaymentPending)
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

		_, err = s.Registrations().AttachPayment(ctx, reg.ID, "pay_2")
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

		found, err := s.Registrations().FindCompleted(ctx, "user-1", room.ID)
		require.NoError(t, err)
		assert.Equal(t, reg.ID, found.ID)
		assert.Equal(t, "pay_1", found.PaymentID)
		assert.True(t, found.PaymentAmount.Equal(decimal.NewFromInt(25)))

		_, err = s.Registrations().UpdateStatus(ctx, "missing", models.PaymentFailed)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestRegistrationStore_Lists(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		room, err := s.Rooms().Create(ctx, validRoom())
		require.NoError(t, err)

		for _, user := range []string{"user-1", "user-2", "user-1"} {
			_, err := s.Registrations().Create(ctx, RegistrationInput{UserID: user, RoomID: room.ID, PaymentAmount: room.EntryFee})
			require.NoError(t, err)
		}

		mine, err := s.Registrations().ListByUser(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, mine, 2)
		require.NotNil(t, mine[0].Room)
		assert.Equal(t, room.Title, mine[0].Room.Title)

		inRoom, err := s.Registrations().ListByRoom(ctx, room.ID)
		require.NoError(t, err)
		assert.Len(t, inRoom, 3)

		_, err = s.Registrations().Create(ctx, RegistrationInput{UserID: "user-1", RoomID: "missing"})
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		stale, err := s.Registrations().ListStalePending(ctx, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Len(t, stale, 3)

		stale, err = s.Registrations().ListStalePending(ctx, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.Empty(t, stale)
	})
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		room, err := s.Rooms().Create(ctx, validRoom())
		require.NoError(t, err)
		reg, err := s.Registrations().Create(ctx, RegistrationInput{UserID: "user-1", RoomID: room.ID, PaymentAmount: room.EntryFee})
		require.NoError(t, err)

		boom := errors.New("power cut")
		err = s.Transaction(ctx, func(tx Store) error {
			if _, err := tx.Registrations().UpdateStatus(ctx, reg.ID, models.PaymentCompleted); err != nil {
				return err
			}
			if _, err := tx.Rooms().UpdateByID(ctx, room.ID, func(r *models.GameRoom) error {
				r.CurrentPlayers++
				return nil
			}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := s.Registrations().Get(ctx, reg.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPending, got.PaymentStatus)

		gotRoom, err := s.Rooms().Get(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, gotRoom.CurrentPlayers)
	})
}

func TestTransaction_Commits(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		room, err := s.Rooms().Create(ctx, validRoom())
		require.NoError(t, err)

		err = s.Transaction(ctx, func(tx Store) error {
			reg, err := tx.Registrations().Create(ctx, RegistrationInput{UserID: "user-1", RoomID: room.ID, PaymentAmount: room.EntryFee})
			if err != nil {
				return err
			}
			if _, err := tx.Registrations().UpdateStatus(ctx, reg.ID, models.PaymentCompleted); err != nil {
				return err
			}
			_, err = tx.Rooms().UpdateByID(ctx, room.ID, func(r *models.GameRoom) error {
				r.CurrentPlayers++
				return nil
			})
			return err
		})
		require.NoError(t, err)

		_, err = s.Registrations().FindCompleted(ctx, "user-1", room.ID)
		assert.NoError(t, err)
		got, err := s.Rooms().Get(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.CurrentPlayers)
	})
}

func TestRegistrationStore_OneCompletedPerPair(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		room, err := s.Rooms().Create(ctx, validRoom())
		require.NoError(t, err)

		first, err := s.Registrations().Create(ctx, RegistrationInput{UserID: "user-1", RoomID: room.ID, PaymentAmount: room.EntryFee})
		require.NoError(t, err)
		second, err := s.Registrations().Create(ctx, RegistrationInput{UserID: "user-1", RoomID: room.ID, PaymentAmount: room.EntryFee})
		require.NoError(t, err)

		_, err = s.Registrations().UpdateStatus(ctx, first.ID, models.PaymentCompleted)
		require.NoError(t, err)
		_, err = s.Registrations().UpdateStatus(ctx, second.ID, models.PaymentCompleted)
		assert.Error(t, err)

		got, err := s.Registrations().Get(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPending, got.PaymentStatus)
	})
}
