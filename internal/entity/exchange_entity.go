package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Exchange is one completed conversational turn: the user's message plus
// the assistant's full response text (prose with the tool payloads already
// stripped out by the decoder).
type Exchange struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;index"`
	UserText       string    `gorm:"type:text;not null"`
	ResponseText   string    `gorm:"type:text"`
	CreatedAt      time.Time
}

// ExchangeToolCall is one surviving drawer-worthy tool call committed with
// an exchange. Position preserves conversation order within the turn.
type ExchangeToolCall struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ExchangeId uuid.UUID      `gorm:"type:uuid;not null;index"`
	ToolName   string         `gorm:"type:varchar(64);not null"`
	Kind       string         `gorm:"type:varchar(40);not null"`
	Payload    datatypes.JSON `gorm:"type:jsonb"`
	Position   int            `gorm:"not null"`
	CreatedAt  time.Time

	// Relationship
	Exchange *Exchange `gorm:"foreignKey:ExchangeId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
