package entity

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is one tutoring session against a single video.
type Conversation struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	VideoId   string    `gorm:"type:varchar(32);not null;index"`
	Title     string    `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
