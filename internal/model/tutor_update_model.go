package model

import (
	"github.com/google/uuid"
)

// Update types pushed over the tutor websocket.
const (
	UpdateTypeSegments = "segments" // decoded view of the in-flight response
	UpdateTypeDrawer   = "drawer"   // drawer state changed
	UpdateTypeCleared  = "cleared"  // history and drawer wiped together
)

// TutorUpdate is the envelope for every websocket push. Data carries the
// DTO matching Type.
type TutorUpdate struct {
	Type           string      `json:"type"`
	ConversationId uuid.UUID   `json:"conversation_id"`
	ExchangeId     *uuid.UUID  `json:"exchange_id,omitempty"`
	Data           interface{} `json:"data,omitempty"`
}
