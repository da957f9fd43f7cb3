package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	VideoId string `json:"video_id" validate:"required"`
	Title   string `json:"title"`
}

type CreateConversationResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllConversationsResponse struct {
	Id        uuid.UUID  `json:"id"`
	VideoId   string     `json:"video_id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// AppendChunkRequest carries one raw chunk of a streaming model response.
// The server re-decodes the whole accumulated buffer on every append.
type AppendChunkRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
	Chunk          string    `json:"chunk" validate:"required"`
	// UserText is set on the first chunk of a turn to open the exchange.
	UserText string `json:"user_text,omitempty"`
}

// SegmentDTO is one decoded slice of the in-flight response, either prose
// or a parsed tool payload.
type SegmentDTO struct {
	Type string       `json:"type"` // "text" | "tool"
	Text string       `json:"text,omitempty"`
	Tool *ToolCallDTO `json:"tool,omitempty"`
}

type ToolCallDTO struct {
	ToolName string      `json:"tool_name"`
	Kind     string      `json:"kind"`
	Inline   bool        `json:"inline"`
	Payload  interface{} `json:"payload,omitempty"`
}

type AppendChunkResponse struct {
	ConversationId uuid.UUID    `json:"conversation_id"`
	ExchangeId     uuid.UUID    `json:"exchange_id"`
	Segments       []SegmentDTO `json:"segments"`
	Drawer         *DrawerDTO   `json:"drawer,omitempty"`
}

type CompleteTurnRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
}

type CompleteTurnResponse struct {
	ConversationId uuid.UUID  `json:"conversation_id"`
	ExchangeId     uuid.UUID  `json:"exchange_id"`
	Committed      int        `json:"committed"` // tool calls that survived dedup
	Drawer         *DrawerDTO `json:"drawer"`
}

// ExchangeGroupDTO is one committed turn's slice of the drawer.
type ExchangeGroupDTO struct {
	ExchangeId string        `json:"exchange_id"`
	UserText   string        `json:"user_text"`
	ToolCalls  []ToolCallDTO `json:"tool_calls"`
}

// DrawerDTO is the user-facing drawer state: the visible window of recent
// groups, the count of groups collapsed behind it, and the streaming slot.
type DrawerDTO struct {
	Groups       []ExchangeGroupDTO `json:"groups"`
	EarlierCount int                `json:"earlier_count"`
	Streaming    []ToolCallDTO      `json:"streaming,omitempty"`
	TotalCalls   int                `json:"total_calls"`
	ShouldOpen   bool               `json:"should_open"`
}

type GetExchangeHistoryResponse struct {
	Id        uuid.UUID     `json:"id"`
	UserText  string        `json:"user_text"`
	Response  string        `json:"response"`
	ToolCalls []ToolCallDTO `json:"tool_calls,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type DeleteConversationRequest struct {
	ConversationId uuid.UUID `json:"conversation_id"`
}

// PublishStreamUpdateMessage is the internal bus payload queued on every
// appended chunk. The consumer re-reads the session and pushes the decoded
// view to connected clients.
type PublishStreamUpdateMessage struct {
	ConversationId uuid.UUID `json:"conversation_id"`
	UserId         uuid.UUID `json:"user_id"`
	ExchangeId     uuid.UUID `json:"exchange_id"`
}
