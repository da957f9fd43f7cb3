package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByConversationID filters rows belonging to one conversation.
type ByConversationID struct {
	ConversationID uuid.UUID
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}

// ByVideoID filters conversations about one video.
type ByVideoID struct {
	VideoID string
}

func (s ByVideoID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("video_id = ?", s.VideoID)
}
