package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gamearena/backend/internal/models"
	"gamearena/backend/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedRoom struct {
	title, description, game, rules string
	fee                             int64
	maxPlayers, players             int
	daysAhead                       int
	clock                           string
	difficulty                      models.Difficulty
	host                            string
}

var seedProfiles = []models.Profile{
	{Username: "ProGamer123", TotalEarnings: decimal.NewFromInt(5420), GamesWon: 45, GamesPlayed: 67, Level: 42, Rank: "Diamond"},
	{Username: "ESportsMaster", TotalEarnings: decimal.NewFromInt(4890), GamesWon: 38, GamesPlayed: 52, Level: 39, Rank: "Diamond"},
	{Username: "GameChampion", TotalEarnings: decimal.NewFromInt(3750), GamesWon: 32, GamesPlayed: 48, Level: 35, Rank: "Gold"},
	{Username: "SkillMaster", TotalEarnings: decimal.NewFromInt(3200), GamesWon: 28, GamesPlayed: 45, Level: 31, Rank: "Gold"},
	{Username: "TourneyKing", TotalEarnings: decimal.NewFromInt(2890), GamesWon: 25, GamesPlayed: 42, Level: 28, Rank: "Silver"},
	{Username: "CarBallPro", TotalEarnings: decimal.Zero, Level: 1, Rank: "Bronze"},
}

var seedRooms = []seedRoom{
	{
		title: "Battle Royale Championship", description: "Epic Fortnite tournament with massive prizes",
		game: "Fortnite", fee: 25, maxPlayers: 20, players: 15, daysAhead: 1, clock: "20:00",
		difficulty: models.DifficultyExpert, rules: "No teaming, no stream sniping", host: "ProGamer123",
	},
	{
		title: "CS2 Tournament", description: "Competitive Counter-Strike 2 matches",
		game: "Counter-Strike 2", fee: 15, maxPlayers: 16, players: 8, daysAhead: 2, clock: "18:30",
		difficulty: models.DifficultyIntermediate, rules: "Standard competitive rules", host: "ESportsMaster",
	},
	{
		title: "Rocket League 3v3", description: "Fast-paced car soccer action",
		game: "Rocket League", fee: 10, maxPlayers: 6, players: 4, daysAhead: 1, clock: "19:00",
		difficulty: models.DifficultyBeginner, rules: "Fair play only", host: "CarBallPro",
	},
}

var seedStoreItems = []models.StoreItem{
	{Name: "Gaming Headset Pro", Description: "Professional gaming headset with 7.1 surround sound", Price: decimal.RequireFromString("199.99"), Category: models.CategoryGear, InStock: true},
	{Name: "Mechanical Keyboard RGB", Description: "Cherry MX switches with RGB backlighting", Price: decimal.RequireFromString("149.99"), Category: models.CategoryGear, InStock: true},
	{Name: "Dragon Skin - AK47", Description: "Legendary weapon skin for CS2", Price: decimal.RequireFromString("89.99"), Category: models.CategorySkins, InStock: true},
	{Name: "GameArena T-Shirt", Description: "Official GameArena merchandise", Price: decimal.RequireFromString("29.99"), Category: models.CategoryMerchandise, InStock: true},
	{Name: "Gaming Mouse Pad XL", Description: "Extra large mouse pad for gaming", Price: decimal.RequireFromString("39.99"), Category: models.CategoryAccessories, InStock: true},
	{Name: "Neon Gloves", Description: "Glowing gloves skin for Valorant", Price: decimal.RequireFromString("24.99"), Category: models.CategorySkins, InStock: false},
}

var seedMessages = []struct {
	username, content string
	ago               time.Duration
}{
	{"ProGamer123", "Anyone up for some Fortnite scrims?", 5 * time.Minute},
	{"ESportsMaster", "Just won my CS2 tournament! 🏆", 4 * time.Minute},
	{"GameChampion", "Looking for teammates for the upcoming Valorant tournament", 3 * time.Minute},
	{"SkillMaster", "New gaming gear arrived! Ready to dominate 💪", 2 * time.Minute},
}

const placeholderImage = "/placeholder.svg?height=200&width=200"

// Seed fills empty tables with demo content. Tables that already hold rows
// are left alone.
func Seed(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	db = db.WithContext(ctx)
	now := time.Now()

	hosts, err := seedProfilesIfEmpty(db)
	if err != nil {
		return fmt.Errorf("seed profiles: %w", err)
	}
	if err := seedRoomsIfEmpty(ctx, db, hosts, now); err != nil {
		return fmt.Errorf("seed rooms: %w", err)
	}
	if err := seedStoreIfEmpty(db); err != nil {
		return fmt.Errorf("seed store: %w", err)
	}
	if err := seedChatIfEmpty(db, hosts, now); err != nil {
		return fmt.Errorf("seed chat: %w", err)
	}
	log.Info("seed data ready")
	return nil
}

func isEmpty(db *gorm.DB, model any) (bool, error) {
	var n int64
	err := db.Model(model).Count(&n).Error
	return n == 0, err
}

// seedProfilesIfEmpty returns the seeded profile ids by username.
func seedProfilesIfEmpty(db *gorm.DB) (map[string]string, error) {
	ids := make(map[string]string)
	empty, err := isEmpty(db, &models.Profile{})
	if err != nil || !empty {
		var existing []models.Profile
		if err == nil {
			err = db.Select("id", "username").Find(&existing).Error
		}
		for _, p := range existing {
			ids[p.Username] = p.ID
		}
		return ids, err
	}

	profiles := make([]models.Profile, len(seedProfiles))
	copy(profiles, seedProfiles)
	for i := range profiles {
		profiles[i].Email = strings.ToLower(profiles[i].Username) + "@gamearena.gg"
		profiles[i].AvatarURL = "/placeholder.svg?height=50&width=50"
		profiles[i].Role = models.RoleUser
	}
	if err := db.Create(&profiles).Error; err != nil {
		return nil, err
	}
	for _, p := range profiles {
		ids[p.Username] = p.ID
	}
	return ids, nil
}

// seedRoomsIfEmpty creates the demo rooms and a completed registration per
// taken seat so the prize pools add up.
func seedRoomsIfEmpty(ctx context.Context, db *gorm.DB, hosts map[string]string, now time.Time) error {
	empty, err := isEmpty(db, &models.GameRoom{})
	if err != nil || !empty {
		return err
	}
	store := repository.NewGormStore(db)
	return store.Transaction(ctx, func(tx repository.Store) error {
		for i, sr := range seedRooms {
			room, err := tx.Rooms().Create(ctx, repository.RoomInput{
				Title:        sr.title,
				Description:  sr.description,
				Game:         sr.game,
				EntryFee:     decimal.NewFromInt(sr.fee),
				MaxPlayers:   sr.maxPlayers,
				StartDate:    now.AddDate(0, 0, sr.daysAhead).Format(models.DateLayout),
				StartTime:    sr.clock,
				Difficulty:   sr.difficulty,
				Rules:        sr.rules,
				HostID:       hosts[sr.host],
				HostUsername: sr.host,
			})
			if err != nil {
				return err
			}
			for p := 0; p < sr.players; p++ {
				reg, err := tx.Registrations().Create(ctx, repository.RegistrationInput{
					UserID:        fmt.Sprintf("seed-player-%d-%02d", i+1, p+1),
					RoomID:        room.ID,
					PaymentAmount: room.EntryFee,
				})
				if err != nil {
					return err
				}
				if _, err := tx.Registrations().AttachPayment(ctx, reg.ID, fmt.Sprintf("pay_seed_%d_%02d", i+1, p+1)); err != nil {
					return err
				}
				if _, err := tx.Registrations().UpdateStatus(ctx, reg.ID, models.PaymentCompleted); err != nil {
					return err
				}
			}
			players := sr.players
			if _, err := tx.Rooms().UpdateByID(ctx, room.ID, func(r *models.GameRoom) error {
				r.CurrentPlayers = players
				r.PrizePool = r.EntryFee.Mul(decimal.NewFromInt(int64(players)))
				if players == r.MaxPlayers {
					r.Status = models.RoomFull
				}
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func seedStoreIfEmpty(db *gorm.DB) error {
	empty, err := isEmpty(db, &models.StoreItem{})
	if err != nil || !empty {
		return err
	}
	items := make([]models.StoreItem, len(seedStoreItems))
	copy(items, seedStoreItems)
	for i := range items {
		items[i].ImageURL = placeholderImage
	}
	return db.Create(&items).Error
}

func seedChatIfEmpty(db *gorm.DB, users map[string]string, now time.Time) error {
	empty, err := isEmpty(db, &models.ChatMessage{})
	if err != nil || !empty {
		return err
	}
	msgs := make([]models.ChatMessage, 0, len(seedMessages))
	for _, m := range seedMessages {
		msgs = append(msgs, models.ChatMessage{
			Channel:   "general",
			UserID:    users[m.username],
			Username:  m.username,
			Content:   m.content,
			CreatedAt: now.Add(-m.ago),
		})
	}
	return db.Create(&msgs).Error
}
