// Package registration runs the join-tournament workflow: it walks an attempt
// through the payment stages and then commits the registration and the room
// counters in one transaction.
package registration

import (
	"context"
	"errors"
	"strings"
	"time"

	"gamearena/backend/internal/apperr"
	"gamearena/backend/internal/events"
	"gamearena/backend/internal/metrics"
	"gamearena/backend/internal/models"
	"gamearena/backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultMaxRetries = 3

// Options configures an Engine. Zero values fall back to instant pacing, no
// timeout, no events and no metrics.
type Options struct {
	Pacer      Pacer
	Timeout    time.Duration
	MaxRetries int
	Publisher  events.Publisher
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

type Engine struct {
	store      repository.Store
	pacer      Pacer
	timeout    time.Duration
	maxRetries int
	pub        events.Publisher
	metrics    *metrics.Metrics
	log        *zap.Logger
}

func NewEngine(store repository.Store, opts Options) *Engine {
	e := &Engine{
		store:      store,
		pacer:      opts.Pacer,
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		pub:        opts.Publisher,
		metrics:    opts.Metrics,
		log:        opts.Logger,
	}
	if e.pacer == nil {
		e.pacer = Instant
	}
	if e.maxRetries <= 0 {
		e.maxRetries = defaultMaxRetries
	}
	if e.pub == nil {
		e.pub = events.Nop
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	return e
}

// alreadyJoined aborts a commit when another attempt by the same user
// completed first.
type alreadyJoined struct {
	reg *models.Registration
}

func (a *alreadyJoined) Error() string { return "user already registered for room" }

// JoinTournament registers userID for roomID. A user who already holds a
// completed registration for the room gets it back unchanged. progress may be
// nil.
func (e *Engine) JoinTournament(ctx context.Context, userID, roomID string, progress ProgressFunc) (*models.Registration, error) {
	start := time.Now()
	reg, err := e.join(ctx, userID, roomID, progress)

	result := string(StageCompleted)
	if err != nil {
		result = apperr.KindOf(err).String()
	}
	e.metrics.ObserveJoin(result, time.Since(start))
	return reg, err
}

func (e *Engine) join(ctx context.Context, userID, roomID string, progress ProgressFunc) (*models.Registration, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.New(apperr.KindAuthRequired, "sign in to join a tournament")
	}
	room, err := e.store.Rooms().Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	existing, err := e.store.Registrations().FindCompleted(ctx, userID, roomID)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}
	if err := checkCapacity(room); err != nil {
		return nil, err
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	reg, err := e.store.Registrations().Create(ctx, repository.RegistrationInput{
		UserID:        userID,
		RoomID:        roomID,
		PaymentAmount: room.EntryFee,
		Status:        models.PaymentPending,
	})
	if err != nil {
		return nil, err
	}
	a := &attempt{engine: e, reg: reg, progress: progress}
	a.report(ctx, StageInitiated, nil)

	for _, stage := range []Stage{StagePaymentPending, StagePaymentVerifying} {
		a.report(ctx, stage, nil)
		if err := e.pacer.Wait(ctx, stage); err != nil {
			return nil, a.fail(ctx, apperr.ErrRegistrationFailed.Wrap(err))
		}
	}

	a.report(ctx, StageRegistering, nil)
	final, updatedRoom, err := e.commitWithRetry(ctx, reg)
	if err != nil {
		var dup *alreadyJoined
		if errors.As(err, &dup) {
			a.markFailed(ctx)
			a.reg = dup.reg
			a.report(ctx, StageCompleted, nil)
			return dup.reg, nil
		}
		if errors.Is(err, apperr.ErrRoomFull) {
			return nil, a.fail(ctx, err)
		}
		return nil, a.fail(ctx, apperr.ErrRegistrationFailed.Wrap(err))
	}

	a.reg = final
	a.report(ctx, StageCompleted, nil)
	e.publish(ctx, events.Event{Type: events.TypeRoomUpdated, RoomID: updatedRoom.ID, Payload: updatedRoom})
	e.log.Info("registration completed",
		zap.String("registration_id", final.ID),
		zap.String("room_id", roomID),
		zap.String("user_id", userID),
		zap.Int("current_players", updatedRoom.CurrentPlayers),
		zap.String("prize_pool", updatedRoom.PrizePool.StringFixed(2)),
	)
	return final, nil
}

func checkCapacity(room *models.GameRoom) error {
	if room.Status != models.RoomOpen && room.Status != models.RoomFull {
		return apperr.New(apperr.KindRoomFull, "room is not accepting registrations")
	}
	if !room.HasSpace() {
		return apperr.ErrRoomFull.Wrap(nil)
	}
	return nil
}

func (e *Engine) commitWithRetry(ctx context.Context, reg *models.Registration) (*models.Registration, *models.GameRoom, error) {
	paymentID := "pay_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	var err error
	for try := 0; try <= e.maxRetries; try++ {
		if try > 0 {
			e.metrics.CommitRetried()
		}
		var final *models.Registration
		var room *models.GameRoom
		final, room, err = e.commit(ctx, reg, paymentID)
		if err == nil {
			return final, room, nil
		}
		if !errors.Is(err, apperr.ErrConflict) {
			return nil, nil, err
		}
	}
	return nil, nil, err
}

// commit completes the registration and takes the seat. Either both are
// written or neither is.
func (e *Engine) commit(ctx context.Context, reg *models.Registration, paymentID string) (*models.Registration, *models.GameRoom, error) {
	var final *models.Registration
	var room *models.GameRoom
	err := e.store.Transaction(ctx, func(tx repository.Store) error {
		existing, err := tx.Registrations().FindCompleted(ctx, reg.UserID, reg.RoomID)
		if err == nil {
			return &alreadyJoined{reg: existing}
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return err
		}

		if _, err := tx.Registrations().AttachPayment(ctx, reg.ID, paymentID); err != nil {
			return err
		}
		final, err = tx.Registrations().UpdateStatus(ctx, reg.ID, models.PaymentCompleted)
		if err != nil {
			return err
		}
		room, err = tx.Rooms().UpdateByID(ctx, reg.RoomID, func(r *models.GameRoom) error {
			if err := checkCapacity(r); err != nil {
				return err
			}
			r.CurrentPlayers++
			r.PrizePool = r.PrizePool.Add(r.EntryFee)
			if r.CurrentPlayers == r.MaxPlayers && r.Status == models.RoomOpen {
				r.Status = models.RoomFull
			}
			return nil
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return final, room, nil
}

func (e *Engine) publish(ctx context.Context, ev events.Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	if err := e.pub.Publish(ctx, ev); err != nil {
		e.log.Warn("publish event", zap.String("type", ev.Type), zap.String("room_id", ev.RoomID), zap.Error(err))
	}
}

type attempt struct {
	engine   *Engine
	reg      *models.Registration
	progress ProgressFunc
}

func (a *attempt) report(ctx context.Context, stage Stage, cause error) {
	p := Progress{Stage: stage, RegistrationID: a.reg.ID, RoomID: a.reg.RoomID}
	if cause != nil {
		p.Error = apperr.Message(cause)
	}
	if a.progress != nil {
		a.progress(p)
	}
	a.engine.publish(ctx, events.Event{
		Type:    events.RegistrationType(string(stage)),
		RoomID:  a.reg.RoomID,
		UserID:  a.reg.UserID,
		Payload: p,
	})
}

// markFailed writes the failed status. The write ignores ctx cancellation so
// a timed out attempt does not stay pending.
func (a *attempt) markFailed(ctx context.Context) {
	if _, err := a.engine.store.Registrations().UpdateStatus(context.WithoutCancel(ctx), a.reg.ID, models.PaymentFailed); err != nil {
		a.engine.log.Error("mark registration failed",
			zap.String("registration_id", a.reg.ID),
			zap.Error(err),
		)
		return
	}
	a.reg.PaymentStatus = models.PaymentFailed
}

// fail marks the attempt failed, reports it and returns cause.
func (a *attempt) fail(ctx context.Context, cause error) error {
	a.markFailed(ctx)
	a.engine.log.Warn("registration failed",
		zap.String("registration_id", a.reg.ID),
		zap.String("room_id", a.reg.RoomID),
		zap.String("user_id", a.reg.UserID),
		zap.Error(cause),
	)
	a.report(context.WithoutCancel(ctx), StageFailed, cause)
	return cause
}
