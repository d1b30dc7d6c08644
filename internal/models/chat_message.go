package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is a message posted to a community channel.
type ChatMessage struct {
	ID        string `gorm:"primaryKey;size:36"`
	Channel   string `gorm:"size:64;not null;index"`
	UserID    string `gorm:"size:36;not null"`
	Username  string `gorm:"size:255;not null"`
	Content   string `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
