package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gamearena/backend/internal/apperr"
	"gamearena/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists rooms and registrations through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Rooms() RoomStore {
	return &gormRoomStore{db: s.db}
}

func (s *GormStore) Registrations() RegistrationStore {
	return &gormRegistrationStore{db: s.db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// forUpdate takes a row lock where the dialect supports one.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.ErrConflict.Wrap(err)
	}
	return err
}

type gormRoomStore struct {
	db *gorm.DB
}

func (r *gormRoomStore) Create(ctx context.Context, in RoomInput) (*models.GameRoom, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	room := newRoom(in, time.Now())
	if err := r.db.WithContext(ctx).Create(&room).Error; err != nil {
		return nil, translate(err, "room")
	}
	return &room, nil
}

func (r *gormRoomStore) Get(ctx context.Context, id string) (*models.GameRoom, error) {
	var room models.GameRoom
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, translate(err, "room")
	}
	return &room, nil
}

func (r *gormRoomStore) query(ctx context.Context, f RoomFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.GameRoom{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Game != "" {
		q = q.Where("LOWER(game) = ?", strings.ToLower(f.Game))
	}
	if s := strings.ToLower(strings.TrimSpace(f.Query)); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(game) LIKE ?", like, like)
	}
	return q
}

func (r *gormRoomStore) List(ctx context.Context, f RoomFilter) ([]models.GameRoom, error) {
	q := r.query(ctx, f).Order("created_at DESC").Order("id")
	if f.Limit > 0 {
		q = q.Offset(f.offset()).Limit(f.Limit)
	}
	var rooms []models.GameRoom
	if err := q.Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *gormRoomStore) Count(ctx context.Context, f RoomFilter) (int64, error) {
	var n int64
	err := r.query(ctx, f).Count(&n).Error
	return n, err
}

// UpdateByID locks the row, applies mutate and writes the result guarded by
// the version it read.
func (r *gormRoomStore) UpdateByID(ctx context.Context, id string, mutate Mutator) (*models.GameRoom, error) {
	var updated models.GameRoom
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.GameRoom
		if err := forUpdate(tx).First(&room, "id = ?", id).Error; err != nil {
			return translate(err, "room")
		}
		next, err := applyMutation(room, mutate, time.Now())
		if err != nil {
			return err
		}
		res := tx.Model(&models.GameRoom{}).
			Where("id = ? AND version = ?", id, room.Version).
			Updates(map[string]any{
				"slug":            next.Slug,
				"title":           next.Title,
				"description":     next.Description,
				"game":            next.Game,
				"entry_fee":       next.EntryFee,
				"max_players":     next.MaxPlayers,
				"current_players": next.CurrentPlayers,
				"prize_pool":      next.PrizePool,
				"start_date":      next.StartDate,
				"start_time":      next.StartTime,
				"difficulty":      next.Difficulty,
				"rules":           next.Rules,
				"status":          next.Status,
				"host_username":   next.HostUsername,
				"version":         next.Version,
				"updated_at":      next.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrConflict
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

type gormRegistrationStore struct {
	db *gorm.DB
}

func (r *gormRegistrationStore) Create(ctx context.Context, in RegistrationInput) (*models.Registration, error) {
	reg, err := newRegistration(in, time.Now())
	if err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)
	var n int64
	if err := db.Model(&models.GameRoom{}).Where("id = ?", in.RoomID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apperr.NotFound("room")
	}
	if err := db.Omit("Room").Create(&reg).Error; err != nil {
		return nil, translate(err, "registration")
	}
	return &reg, nil
}

func (r *gormRegistrationStore) Get(ctx context.Context, id string) (*models.Registration, error) {
	var reg models.Registration
	if err := r.db.WithContext(ctx).First(&reg, "id = ?", id).Error; err != nil {
		return nil, translate(err, "registration")
	}
	return &reg, nil
}

func (r *gormRegistrationStore) ListByUser(ctx context.Context, userID string) ([]models.Registration, error) {
	var regs []models.Registration
	err := r.db.WithContext(ctx).Preload("Room").
		Where("user_id = ?", userID).
		Order("registered_at DESC").Order("id").
		Find(&regs).Error
	return regs, err
}

func (r *gormRegistrationStore) ListByRoom(ctx context.Context, roomID string) ([]models.Registration, error) {
	var regs []models.Registration
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("registered_at DESC").Order("id").
		Find(&regs).Error
	return regs, err
}

func (r *gormRegistrationStore) FindCompleted(ctx context.Context, userID, roomID string) (*models.Registration, error) {
	var reg models.Registration
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND room_id = ? AND payment_status = ?", userID, roomID, models.PaymentCompleted).
		First(&reg).Error
	if err != nil {
		return nil, translate(err, "registration")
	}
	return &reg, nil
}

func (r *gormRegistrationStore) update(ctx context.Context, id string, fn func(*models.Registration) (map[string]any, error)) (*models.Registration, error) {
	var out models.Registration
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reg models.Registration
		if err := forUpdate(tx).First(&reg, "id = ?", id).Error; err != nil {
			return translate(err, "registration")
		}
		prev := reg.PaymentStatus
		changes, err := fn(&reg)
		if err != nil {
			return err
		}
		changes["updated_at"] = reg.UpdatedAt
		res := tx.Model(&models.Registration{}).
			Where("id = ? AND payment_status = ?", id, prev).
			Updates(changes)
		if res.Error != nil {
			return translate(res.Error, "registration")
		}
		if res.RowsAffected == 0 {
			return apperr.ErrConflict
		}
		out = reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *gormRegistrationStore) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Registration, error) {
	return r.update(ctx, id, func(reg *models.Registration) (map[string]any, error) {
		if !reg.PaymentStatus.CanTransitionTo(status) {
			return nil, apperr.Newf(apperr.KindInvalidTransition, "cannot move registration from %s to %s", reg.PaymentStatus, status)
		}
		reg.PaymentStatus = status
		reg.UpdatedAt = time.Now()
		return map[string]any{"payment_status": status}, nil
	})
}

func (r *gormRegistrationStore) AttachPayment(ctx context.Context, id, paymentID string) (*models.Registration, error) {
	return r.update(ctx, id, func(reg *models.Registration) (map[string]any, error) {
		if reg.PaymentStatus != models.PaymentPending {
			return nil, apperr.Newf(apperr.KindInvalidTransition, "payment id can only be set while pending, registration is %s", reg.PaymentStatus)
		}
		reg.PaymentID = paymentID
		reg.UpdatedAt = time.Now()
		return map[string]any{"payment_id": paymentID}, nil
	})
}

func (r *gormRegistrationStore) ListStalePending(ctx context.Context, before time.Time) ([]models.Registration, error) {
	var regs []models.Registration
	err := r.db.WithContext(ctx).
		Where("payment_status = ? AND registered_at < ?", models.PaymentPending, before).
		Order("registered_at").
		Find(&regs).Error
	return regs, err
}
