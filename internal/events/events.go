// Package events carries registration progress and room changes to whoever
// is listening: SSE subscribers in this process and other services over NATS.
package events

import (
	"context"
	"errors"
	"time"
)

// Event types. The NATS subject of an event is SubjectPrefix + Type.
const (
	TypeRegistrationPrefix = "registration."
	TypeRoomUpdated        = "room.updated"
)

// Event is one notification about a room.
type Event struct {
	Type    string    `json:"type"`
	RoomID  string    `json:"room_id"`
	UserID  string    `json:"user_id,omitempty"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

// RegistrationType is the event type for a registration reaching stage.
func RegistrationType(stage string) string {
	return TypeRegistrationPrefix + stage
}

// Publisher delivers events. Publish must not block on slow consumers.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type nop struct{}

func (nop) Publish(context.Context, Event) error { return nil }

// Nop drops every event.
var Nop Publisher = nop{}

type multi []Publisher

// Multi fans an event out to every publisher and joins their errors.
func Multi(pubs ...Publisher) Publisher {
	var out multi
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (m multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
