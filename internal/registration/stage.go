package registration

import (
	"context"
	"time"
)

// Stage is a step of a join attempt.
type Stage string

const (
	StageInitiated        Stage = "initiated"
	StagePaymentPending   Stage = "payment_pending"
	StagePaymentVerifying Stage = "payment_verifying"
	StageRegistering      Stage = "registering"
	StageCompleted        Stage = "completed"
	StageFailed           Stage = "failed"
)

// Terminal reports whether no further stage follows s.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageFailed
}

// Progress is reported to the caller each time an attempt changes stage.
type Progress struct {
	Stage          Stage  `json:"stage"`
	RegistrationID string `json:"registration_id,omitempty"`
	RoomID         string `json:"room_id"`
	Error          string `json:"error,omitempty"`
}

// ProgressFunc receives stage changes in order, on the joining goroutine.
type ProgressFunc func(Progress)

// Pacer decides how long an attempt lingers in a payment stage before moving on.
type Pacer interface {
	Wait(ctx context.Context, stage Stage) error
}

type instantPacer struct{}

func (instantPacer) Wait(ctx context.Context, _ Stage) error {
	return ctx.Err()
}

// Instant moves through the payment stages without waiting.
var Instant Pacer = instantPacer{}

type delayPacer struct {
	d time.Duration
}

// Delay waits d in each payment stage. The wait ends early when ctx is done.
func Delay(d time.Duration) Pacer {
	if d <= 0 {
		return Instant
	}
	return delayPacer{d: d}
}

func (p delayPacer) Wait(ctx context.Context, _ Stage) error {
	t := time.NewTimer(p.d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
