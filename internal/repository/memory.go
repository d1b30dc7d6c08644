package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"gamearena/backend/internal/apperr"
	"gamearena/backend/internal/models"
)

// state is the record storage the memory stores operate on: either the
// committed maps or a transaction overlay on top of them.
type state interface {
	room(id string) (models.GameRoom, bool)
	rooms() []models.GameRoom
	putRoom(room models.GameRoom, created bool) error
	updateRoom(id string, fn func(models.GameRoom) (models.GameRoom, error)) (models.GameRoom, error)

	registration(id string) (models.Registration, bool)
	registrations() []models.Registration
	putRegistration(reg models.Registration) error
	updateRegistration(id string, fn func(models.Registration) (models.Registration, error)) (models.Registration, error)

	now() time.Time
}

// MemoryStore keeps rooms and registrations in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	rms   map[string]models.GameRoom
	regs  map[string]models.Registration
	clock func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rms:   make(map[string]models.GameRoom),
		regs:  make(map[string]models.Registration),
		clock: time.Now,
	}
}

// SetClock overrides the time source used for timestamps.
func (s *MemoryStore) SetClock(clock func() time.Time) {
	s.mu.Lock()
	s.clock = clock
	s.mu.Unlock()
}

func (s *MemoryStore) Rooms() RoomStore {
	return &memRoomStore{st: s}
}

func (s *MemoryStore) Registrations() RegistrationStore {
	return &memRegistrationStore{st: s}
}

// Transaction stages every write in an overlay and commits it only if none of
// the rooms it wrote were changed by another commit in the meantime and every
// registration it updated still has the status it was read with.
func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	tx := &memTx{
		base:     s,
		rms:      make(map[string]models.GameRoom),
		created:  make(map[string]bool),
		versions: make(map[string]int),
		regs:     make(map[string]models.Registration),
		statuses: make(map[string]models.PaymentStatus),
	}
	if err := fn(&memTxStore{tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(tx)
}

func (s *MemoryStore) commit(tx *memTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range tx.rms {
		current, exists := s.rms[id]
		if tx.created[id] {
			if exists {
				return apperr.ErrConflict
			}
			continue
		}
		if !exists || current.Version != tx.versions[id] {
			return apperr.ErrConflict
		}
	}
	for id, status := range tx.statuses {
		if current, ok := s.regs[id]; !ok || current.PaymentStatus != status {
			return apperr.ErrConflict
		}
	}
	for _, reg := range tx.regs {
		if err := s.checkUniqueLocked(reg); err != nil {
			return err
		}
	}

	for id, room := range tx.rms {
		s.rms[id] = room
	}
	for id, reg := range tx.regs {
		s.regs[id] = reg
	}
	return nil
}

func (s *MemoryStore) checkUniqueLocked(reg models.Registration) error {
	if reg.PaymentStatus != models.PaymentCompleted {
		return nil
	}
	for id, other := range s.regs {
		if id != reg.ID && other.UserID == reg.UserID && other.RoomID == reg.RoomID &&
			other.PaymentStatus == models.PaymentCompleted {
			return apperr.ErrConflict
		}
	}
	return nil
}

func (s *MemoryStore) now() time.Time {
	return s.clock()
}

func (s *MemoryStore) room(id string) (models.GameRoom, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rms[id]
	return r, ok
}

func (s *MemoryStore) rooms() []models.GameRoom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.GameRoom, 0, len(s.rms))
	for _, r := range s.rms {
		out = append(out, r)
	}
	return out
}

func (s *MemoryStore) putRoom(room models.GameRoom, created bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rms[room.ID]; exists && created {
		return apperr.ErrConflict
	}
	s.rms[room.ID] = room
	return nil
}

func (s *MemoryStore) updateRoom(id string, fn func(models.GameRoom) (models.GameRoom, error)) (models.GameRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rms[id]
	if !ok {
		return models.GameRoom{}, apperr.NotFound("room")
	}
	next, err := fn(room)
	if err != nil {
		return room, err
	}
	s.rms[id] = next
	return next, nil
}

func (s *MemoryStore) registration(id string) (models.Registration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.regs[id]
	return r, ok
}

func (s *MemoryStore) registrations() []models.Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Registration, 0, len(s.regs))
	for _, r := range s.regs {
		out = append(out, r)
	}
	return out
}

func (s *MemoryStore) putRegistration(reg models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUniqueLocked(reg); err != nil {
		return err
	}
	s.regs[reg.ID] = reg
	return nil
}

func (s *MemoryStore) updateRegistration(id string, fn func(models.Registration) (models.Registration, error)) (models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.regs[id]
	if !ok {
		return models.Registration{}, apperr.NotFound("registration")
	}
	next, err := fn(reg)
	if err != nil {
		return reg, err
	}
	if err := s.checkUniqueLocked(next); err != nil {
		return reg, err
	}
	s.regs[id] = next
	return next, nil
}

// memTx is a write overlay over a MemoryStore. It is used by one goroutine.
type memTx struct {
	base     *MemoryStore
	rms      map[string]models.GameRoom
	created  map[string]bool
	versions map[string]int // committed version of each room when first read
	regs     map[string]models.Registration
	statuses map[string]models.PaymentStatus // committed status of each updated registration
}

func (t *memTx) now() time.Time {
	return t.base.now()
}

func (t *memTx) room(id string) (models.GameRoom, bool) {
	if r, ok := t.rms[id]; ok {
		return r, true
	}
	r, ok := t.base.room(id)
	if ok {
		if _, seen := t.versions[id]; !seen {
			t.versions[id] = r.Version
		}
	}
	return r, ok
}

func (t *memTx) rooms() []models.GameRoom {
	out := make([]models.GameRoom, 0)
	for _, r := range t.base.rooms() {
		if staged, ok := t.rms[r.ID]; ok {
			out = append(out, staged)
			continue
		}
		out = append(out, r)
	}
	for id, r := range t.rms {
		if t.created[id] {
			out = append(out, r)
		}
	}
	return out
}

func (t *memTx) putRoom(room models.GameRoom, created bool) error {
	t.rms[room.ID] = room
	if created {
		t.created[room.ID] = true
	}
	return nil
}

func (t *memTx) updateRoom(id string, fn func(models.GameRoom) (models.GameRoom, error)) (models.GameRoom, error) {
	room, ok := t.room(id)
	if !ok {
		return models.GameRoom{}, apperr.NotFound("room")
	}
	next, err := fn(room)
	if err != nil {
		return room, err
	}
	t.rms[id] = next
	return next, nil
}

func (t *memTx) registration(id string) (models.Registration, bool) {
	if r, ok := t.regs[id]; ok {
		return r, true
	}
	return t.base.registration(id)
}

func (t *memTx) registrations() []models.Registration {
	out := make([]models.Registration, 0)
	for _, r := range t.base.registrations() {
		if _, staged := t.regs[r.ID]; !staged {
			out = append(out, r)
		}
	}
	for _, r := range t.regs {
		out = append(out, r)
	}
	return out
}

func (t *memTx) putRegistration(reg models.Registration) error {
	t.regs[reg.ID] = reg
	return nil
}

func (t *memTx) updateRegistration(id string, fn func(models.Registration) (models.Registration, error)) (models.Registration, error) {
	reg, ok := t.registration(id)
	if !ok {
		return models.Registration{}, apperr.NotFound("registration")
	}
	if _, staged := t.regs[id]; !staged {
		t.statuses[id] = reg.PaymentStatus
	}
	next, err := fn(reg)
	if err != nil {
		return reg, err
	}
	t.regs[id] = next
	return next, nil
}

type memTxStore struct {
	tx *memTx
}

func (s *memTxStore) Rooms() RoomStore {
	return &memRoomStore{st: s.tx}
}

func (s *memTxStore) Registrations() RegistrationStore {
	return &memRegistrationStore{st: s.tx}
}

// Transaction inside a transaction joins the outer one.
func (s *memTxStore) Transaction(_ context.Context, fn func(tx Store) error) error {
	return fn(s)
}

type memRoomStore struct {
	st state
}

func (r *memRoomStore) Create(_ context.Context, in RoomInput) (*models.GameRoom, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	room := newRoom(in, r.st.now())
	if err := r.st.putRoom(room, true); err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *memRoomStore) Get(_ context.Context, id string) (*models.GameRoom, error) {
	room, ok := r.st.room(id)
	if !ok {
		return nil, apperr.NotFound("room")
	}
	return &room, nil
}

func (r *memRoomStore) filtered(f RoomFilter) []models.GameRoom {
	var out []models.GameRoom
	for _, room := range r.st.rooms() {
		if matchesRoom(&room, f) {
			out = append(out, room)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *memRoomStore) List(_ context.Context, f RoomFilter) ([]models.GameRoom, error) {
	out := r.filtered(f)
	if f.Limit > 0 {
		start := f.offset()
		if start >= len(out) {
			return []models.GameRoom{}, nil
		}
		end := start + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, nil
}

func (r *memRoomStore) Count(_ context.Context, f RoomFilter) (int64, error) {
	return int64(len(r.filtered(f))), nil
}

func (r *memRoomStore) UpdateByID(_ context.Context, id string, mutate Mutator) (*models.GameRoom, error) {
	now := r.st.now()
	room, err := r.st.updateRoom(id, func(cur models.GameRoom) (models.GameRoom, error) {
		return applyMutation(cur, mutate, now)
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

type memRegistrationStore struct {
	st state
}

func (r *memRegistrationStore) withRoom(reg models.Registration) models.Registration {
	if room, ok := r.st.room(reg.RoomID); ok {
		reg.Room = &room
	}
	return reg
}

func (r *memRegistrationStore) Create(_ context.Context, in RegistrationInput) (*models.Registration, error) {
	reg, err := newRegistration(in, r.st.now())
	if err != nil {
		return nil, err
	}
	if _, ok := r.st.room(in.RoomID); !ok {
		return nil, apperr.NotFound("room")
	}
	if err := r.st.putRegistration(reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *memRegistrationStore) Get(_ context.Context, id string) (*models.Registration, error) {
	reg, ok := r.st.registration(id)
	if !ok {
		return nil, apperr.NotFound("registration")
	}
	return &reg, nil
}

func (r *memRegistrationStore) list(keep func(*models.Registration) bool) []models.Registration {
	var out []models.Registration
	for _, reg := range r.st.registrations() {
		if keep(&reg) {
			out = append(out, r.withRoom(reg))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RegisteredAt.Equal(out[j].RegisteredAt) {
			return out[i].RegisteredAt.After(out[j].RegisteredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *memRegistrationStore) ListByUser(_ context.Context, userID string) ([]models.Registration, error) {
	return r.list(func(reg *models.Registration) bool { return reg.UserID == userID }), nil
}

func (r *memRegistrationStore) ListByRoom(_ context.Context, roomID string) ([]models.Registration, error) {
	return r.list(func(reg *models.Registration) bool { return reg.RoomID == roomID }), nil
}

func (r *memRegistrationStore) FindCompleted(_ context.Context, userID, roomID string) (*models.Registration, error) {
	found := r.list(func(reg *models.Registration) bool {
		return reg.UserID == userID && reg.RoomID == roomID && reg.PaymentStatus == models.PaymentCompleted
	})
	if len(found) == 0 {
		return nil, apperr.NotFound("registration")
	}
	return &found[0], nil
}

func (r *memRegistrationStore) UpdateStatus(_ context.Context, id string, status models.PaymentStatus) (*models.Registration, error) {
	now := r.st.now()
	reg, err := r.st.updateRegistration(id, func(cur models.Registration) (models.Registration, error) {
		if !cur.PaymentStatus.CanTransitionTo(status) {
			return cur, apperr.Newf(apperr.KindInvalidTransition, "cannot move registration from %s to %s", cur.PaymentStatus, status)
		}
		cur.PaymentStatus = status
		cur.UpdatedAt = now
		return cur, nil
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *memRegistrationStore) AttachPayment(_ context.Context, id, paymentID string) (*models.Registration, error) {
	now := r.st.now()
	reg, err := r.st.updateRegistration(id, func(cur models.Registration) (models.Registration, error) {
		if cur.PaymentStatus != models.PaymentPending {
			return cur, apperr.Newf(apperr.KindInvalidTransition, "payment id can only be set while pending, registration is %s", cur.PaymentStatus)
		}
		cur.PaymentID = paymentID
		cur.UpdatedAt = now
		return cur, nil
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *memRegistrationStore) ListStalePending(_ context.Context, before time.Time) ([]models.Registration, error) {
	return r.list(func(reg *models.Registration) bool {
		return reg.PaymentStatus == models.PaymentPending && reg.RegisteredAt.Before(before)
	}), nil
}
