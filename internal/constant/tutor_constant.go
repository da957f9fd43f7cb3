package constant

// Event codes published to the NATS bus.
const (
	EventTurnCommitted   = "TUTOR_TURN_COMMITTED"
	EventHistoryCleared  = "TUTOR_HISTORY_CLEARED"
	EventConversationNew = "TUTOR_CONVERSATION_CREATED"
)

// DefaultConversationTitle is used until the first turn supplies one.
const DefaultConversationTitle = "New conversation"

// TitleMaxLen caps auto-generated conversation titles.
const TitleMaxLen = 60
