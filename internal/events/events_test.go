package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConn struct {
	subjects []string
	payloads [][]byte
}

func (c *recordingConn) Publish(subject string, data []byte) error {
	c.subjects = append(c.subjects, subject)
	c.payloads = append(c.payloads, data)
	return nil
}

type recorder struct {
	got []Event
	err error
}

func (r *recorder) Publish(_ context.Context, ev Event) error {
	r.got = append(r.got, ev)
	return r.err
}

func TestNATSPublisher_Subjects(t *testing.T) {
	conn := &recordingConn{}
	p := &NATSPublisher{conn: conn}

	require.NoError(t, p.Publish(context.Background(), Event{Type: RegistrationType("completed"), RoomID: "room-1", UserID: "u1"}))
	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeRoomUpdated, RoomID: "room-1"}))

	assert.Equal(t, []string{"gamearena.registration.completed", "gamearena.room.updated"}, conn.subjects)

	var ev Event
	require.NoError(t, json.Unmarshal(conn.payloads[0], &ev))
	assert.Equal(t, "room-1", ev.RoomID)
	assert.Equal(t, "u1", ev.UserID)
	assert.False(t, ev.At.IsZero())
}

func TestMulti_DeliversToAllAndJoinsErrors(t *testing.T) {
	ok := &recorder{}
	failing := &recorder{err: errors.New("nats down")}
	pub := Multi(ok, nil, failing)

	err := pub.Publish(context.Background(), Event{Type: TypeRoomUpdated})
	assert.ErrorContains(t, err, "nats down")
	assert.Len(t, ok.got, 1)
	assert.Len(t, failing.got, 1)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop.Publish(context.Background(), Event{}))
}
