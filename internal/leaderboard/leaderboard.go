// Package leaderboard ranks players by earnings, wins or win rate. Rankings are
// served from redis sorted sets when redis is configured and from postgres
// otherwise.
package leaderboard

import (
	"context"
	"fmt"
	"time"

	"gamearena/backend/internal/apperr"
	"gamearena/backend/internal/metrics"
	"gamearena/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SortBy string

const (
	SortEarnings SortBy = "earnings"
	SortWins     SortBy = "wins"
	SortWinRate  SortBy = "winrate"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	keyPrefix = "leaderboard:"
)

func ParseSort(s string) (SortBy, error) {
	switch SortBy(s) {
	case "":
		return SortEarnings, nil
	case SortEarnings, SortWins, SortWinRate:
		return SortBy(s), nil
	}
	return "", apperr.Validation("sort must be one of earnings, wins, winrate")
}

func (s SortBy) key() string {
	return keyPrefix + string(s)
}

// Entry is one ranked player.
type Entry struct {
	Position      int             `json:"position"`
	UserID        string          `json:"user_id"`
	Username      string          `json:"username"`
	AvatarURL     string          `json:"avatar_url,omitempty"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
	GamesWon      int             `json:"games_won"`
	GamesPlayed   int             `json:"games_played"`
	WinRate       float64         `json:"win_rate"`
	Level         int             `json:"level"`
	Rank          string          `json:"rank"`
}

func score(p *models.Profile, by SortBy) float64 {
	switch by {
	case SortWins:
		return float64(p.GamesWon)
	case SortWinRate:
		return p.WinRate()
	default:
		return p.TotalEarnings.InexactFloat64()
	}
}

// Service reads rankings. rdb may be nil.
type Service struct {
	db      *gorm.DB
	rdb     *redis.Client
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewService(db *gorm.DB, rdb *redis.Client, m *metrics.Metrics, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, rdb: rdb, metrics: m, log: log}
}

// Top returns the first limit players ordered by sortBy.
func (s *Service) Top(ctx context.Context, by SortBy, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if s.rdb != nil {
		entries, err := s.topFromCache(ctx, by, limit)
		if err == nil && entries != nil {
			return entries, nil
		}
		if err != nil {
			s.log.Warn("leaderboard cache read failed, using database", zap.Error(err))
		}
	}
	return s.topFromDB(ctx, by, limit)
}

// topFromCache returns nil entries when the cache has not been built.
func (s *Service) topFromCache(ctx context.Context, by SortBy, limit int) ([]Entry, error) {
	ids, err := s.rdb.ZRevRange(ctx, by.key(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", by.key(), err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var profiles []models.Profile
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Profile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		entries = append(entries, newEntry(len(entries)+1, p))
	}
	return entries, nil
}

func (s *Service) topFromDB(ctx context.Context, by SortBy, limit int) ([]Entry, error) {
	q := s.db.WithContext(ctx).Model(&models.Profile{})
	switch by {
	case SortWins:
		q = q.Order("games_won DESC")
	case SortWinRate:
		q = q.Order("CASE WHEN games_played = 0 THEN 0 ELSE games_won * 1.0 / games_played END DESC")
	default:
		q = q.Order("total_earnings DESC")
	}
	var profiles []models.Profile
	if err := q.Order("username").Limit(limit).Find(&profiles).Error; err != nil {
		return nil, err
	}
	entries := make([]Entry, len(profiles))
	for i := range profiles {
		entries[i] = newEntry(i+1, &profiles[i])
	}
	return entries, nil
}

func newEntry(pos int, p *models.Profile) Entry {
	return Entry{
		Position:      pos,
		UserID:        p.ID,
		Username:      p.Username,
		AvatarURL:     p.AvatarURL,
		TotalEarnings: p.TotalEarnings,
		GamesWon:      p.GamesWon,
		GamesPlayed:   p.GamesPlayed,
		WinRate:       p.WinRate(),
		Level:         p.Level,
		Rank:          p.Rank,
	}
}

// Rebuild replaces the cached sorted sets with the current profile stats.
func (s *Service) Rebuild(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}
	start := time.Now()
	var profiles []models.Profile
	if err := s.db.WithContext(ctx).Find(&profiles).Error; err != nil {
		return err
	}

	sorts := []SortBy{SortEarnings, SortWins, SortWinRate}
	pipe := s.rdb.TxPipeline()
	for _, by := range sorts {
		pipe.Del(ctx, by.key())
		if len(profiles) == 0 {
			continue
		}
		members := make([]redis.Z, len(profiles))
		for i := range profiles {
			members[i] = redis.Z{Score: score(&profiles[i], by), Member: profiles[i].ID}
		}
		pipe.ZAdd(ctx, by.key(), members...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rebuild leaderboard cache: %w", err)
	}
	s.metrics.ObserveLeaderboardRebuild(time.Since(start))
	s.log.Debug("leaderboard cache rebuilt", zap.Int("profiles", len(profiles)))
	return nil
}
