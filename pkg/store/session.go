package store

import (
	"ai-videotutor-be/pkg/drawer"
)

// Session is the live, in-memory state of one active conversation: the
// in-flight response buffer and the drawer. It is owned by the conversation
// and passed explicitly; multiple open videos in one process each hold an
// isolated Session.
type Session struct {
	ID      string `json:"id"` // ConversationID
	UserID  string `json:"user_id"`
	VideoID string `json:"video_id"`

	// Buffer accumulates the raw text of the response currently streaming
	// in. Reset when the turn completes.
	Buffer string `json:"buffer"`

	// ExchangeID assigned to the in-flight turn at stream start, so the
	// committed group and the persisted exchange share an identity.
	ExchangeID string `json:"exchange_id"`

	// UserText of the in-flight turn, kept for the commit step.
	UserText string `json:"user_text"`

	// Drawer holds the committed exchange groups and the streaming slot.
	Drawer *drawer.State `json:"drawer"`
}

// NewSession returns a fresh session with an empty drawer.
func NewSession(id, userID, videoID string) *Session {
	return &Session{
		ID:      id,
		UserID:  userID,
		VideoID: videoID,
		Drawer:  drawer.NewState(),
	}
}

// ResetTurn clears the in-flight turn state after a commit or cancel.
func (s *Session) ResetTurn() {
	s.Buffer = ""
	s.ExchangeID = ""
	s.UserText = ""
}
