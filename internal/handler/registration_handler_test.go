package handler

import (
	"net/http"
	"testing"

	"gamearena/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRegistrations(t *testing.T) {
	room := func(s models.RoomStatus) *models.GameRoom {
		return &models.GameRoom{Base: models.Base{ID: string(s)}, Status: s}
	}
	regs := []models.Registration{
		{ID: "open", PaymentStatus: models.PaymentCompleted, Room: room(models.RoomOpen)},
		{ID: "full", PaymentStatus: models.PaymentPending, Room: room(models.RoomFull)},
		{ID: "started", PaymentStatus: models.PaymentCompleted, Room: room(models.RoomStarted)},
		{ID: "done", PaymentStatus: models.PaymentCompleted, Room: room(models.RoomCompleted)},
		{ID: "cancelled", PaymentStatus: models.PaymentRefunded, Room: room(models.RoomCancelled)},
		{ID: "failed", PaymentStatus: models.PaymentFailed, Room: room(models.RoomOpen)},
	}

	got := groupRegistrations(regs)
	ids := func(rs []RegistrationResponse) []string {
		out := []string{}
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}
	assert.Equal(t, []string{"open", "full"}, ids(got.Upcoming))
	assert.Equal(t, []string{"started"}, ids(got.Active))
	assert.Equal(t, []string{"done", "cancelled"}, ids(got.Completed))
}

func TestMyRegistrations(t *testing.T) {
	env := newTestEnv(t)
	host, _ := env.user("ProGamer123", models.RoleUser)
	_, token := env.user("ESportsMaster", models.RoleUser)
	room := env.room(host, 25, 20)

	w := env.do(http.MethodGet, "/api/v1/registrations/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	empty := decode[MyRegistrationsResponse](t, w)
	assert.Empty(t, empty.Upcoming)
	assert.NotNil(t, empty.Upcoming)

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/v1/rooms/"+room.ID+"/join", nil, token).Code)

	w = env.do(http.MethodGet, "/api/v1/registrations/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[MyRegistrationsResponse](t, w)
	require.Len(t, mine.Upcoming, 1)
	require.NotNil(t, mine.Upcoming[0].Room)
	assert.Equal(t, room.ID, mine.Upcoming[0].Room.ID)
	assert.Empty(t, mine.Active)

	w = env.do(http.MethodGet, "/api/v1/registrations/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
