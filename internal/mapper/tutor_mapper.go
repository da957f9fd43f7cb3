package mapper

import (
	"encoding/json"

	"ai-videotutor-be/internal/dto"
	"ai-videotutor-be/pkg/drawer"
	"ai-videotutor-be/pkg/stream"
	"ai-videotutor-be/pkg/toolcall"
)

type TutorMapper struct{}

func NewTutorMapper() *TutorMapper {
	return &TutorMapper{}
}

func (m *TutorMapper) ToToolCallDTO(c toolcall.Call) dto.ToolCallDTO {
	cls := toolcall.Classify(c)
	// The result marshals back to its wire shape, discriminant included.
	payload, _ := json.Marshal(c.Result)
	return dto.ToolCallDTO{
		ToolName: c.ToolName,
		Kind:     string(c.Result.Kind),
		Inline:   cls.Inline,
		Payload:  json.RawMessage(payload),
	}
}

// ToSegmentDTOs converts the decoded view of an in-flight response.
// Tool calls the user never sees directly (search results) are kept: the
// frontend needs their position to render nothing in place.
func (m *TutorMapper) ToSegmentDTOs(segments []stream.Segment) []dto.SegmentDTO {
	out := make([]dto.SegmentDTO, 0, len(segments))
	for _, seg := range segments {
		switch seg.Type {
		case stream.SegmentText:
			out = append(out, dto.SegmentDTO{Type: "text", Text: seg.Text})
		case stream.SegmentTool:
			if seg.Tool == nil {
				continue
			}
			t := m.ToToolCallDTO(*seg.Tool)
			out = append(out, dto.SegmentDTO{Type: "tool", Tool: &t})
		}
	}
	return out
}

func (m *TutorMapper) ToExchangeGroupDTO(g drawer.ExchangeGroup) dto.ExchangeGroupDTO {
	calls := make([]dto.ToolCallDTO, 0, len(g.ToolCalls))
	for _, c := range g.ToolCalls {
		calls = append(calls, m.ToToolCallDTO(c))
	}
	return dto.ExchangeGroupDTO{
		ExchangeId: g.ExchangeID,
		UserText:   g.UserText,
		ToolCalls:  calls,
	}
}

// ToDrawerDTO snapshots the drawer. shouldOpen is decided by the caller
// since the reopen check advances the drawer's high-water mark.
func (m *TutorMapper) ToDrawerDTO(s *drawer.State, shouldOpen bool) *dto.DrawerDTO {
	visible, earlier := s.Visible()
	groups := make([]dto.ExchangeGroupDTO, 0, len(visible))
	for _, g := range visible {
		groups = append(groups, m.ToExchangeGroupDTO(g))
	}
	streaming := make([]dto.ToolCallDTO, 0, len(s.Streaming))
	for _, c := range s.Streaming {
		streaming = append(streaming, m.ToToolCallDTO(c))
	}
	return &dto.DrawerDTO{
		Groups:       groups,
		EarlierCount: earlier,
		Streaming:    streaming,
		TotalCalls:   s.TotalCalls(),
		ShouldOpen:   shouldOpen,
	}
}
