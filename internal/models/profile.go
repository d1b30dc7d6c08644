package models

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile is a registered player. The aggregate counters are owned by a
// settlement process; registration never writes them.
type Profile struct {
	Base
	Username      string          `gorm:"size:255;unique;not null"`
	Email         string          `gorm:"size:255;unique;not null"`
	PasswordHash  string          `gorm:"size:255"`
	FullName      string          `gorm:"size:255"`
	AvatarURL     string          `gorm:"size:512"`
	Role          string          `gorm:"size:50;not null;default:'user';index"`
	TotalEarnings decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	GamesWon      int             `gorm:"not null"`
	GamesPlayed   int             `gorm:"not null"`
	Level         int             `gorm:"not null"`
	Rank          string          `gorm:"size:32;not null"`
}

// WinRate is the percentage of played games won, rounded to one decimal.
func (p *Profile) WinRate() float64 {
	if p.GamesPlayed == 0 {
		return 0
	}
	return math.Round(float64(p.GamesWon)/float64(p.GamesPlayed)*1000) / 10
}
