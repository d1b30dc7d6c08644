package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"gamearena/backend/internal/models"
	"gamearena/backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsJobs(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)

	var runs atomic.Int32
	require.NoError(t, s.Every("tick", 20*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}))
	s.Start()
	defer s.Shutdown()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func createRoom(t *testing.T, rooms repository.RoomStore, date, clock string) *models.GameRoom {
	t.Helper()
	room, err := rooms.Create(context.Background(), repository.RoomInput{
		Title:      "Weekend Cup",
		Game:       "Valorant",
		EntryFee:   decimal.NewFromInt(10),
		MaxPlayers: 8,
		StartDate:  date,
		StartTime:  clock,
		Difficulty: models.DifficultyBeginner,
		HostID:     "host-1",
	})
	require.NoError(t, err)
	return room
}

func TestStartDueRooms(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2024, 2, 15, 20, 0, 0, 0, time.UTC)

	due := createRoom(t, store.Rooms(), "2024-02-15", "20:00")
	later := createRoom(t, store.Rooms(), "2024-02-15", "21:00")
	cancelled := createRoom(t, store.Rooms(), "2024-02-10", "10:00")
	_, err := store.Rooms().UpdateByID(ctx, cancelled.ID, func(r *models.GameRoom) error {
		r.Status = models.RoomCancelled
		return nil
	})
	require.NoError(t, err)

	n, err := StartDueRooms(ctx, store.Rooms(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	for id, want := range map[string]models.RoomStatus{
		due.ID:       models.RoomStarted,
		later.ID:     models.RoomOpen,
		cancelled.ID: models.RoomCancelled,
	} {
		got, err := store.Rooms().Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status)
	}
}
