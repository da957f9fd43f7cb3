package mapper

import (
	"encoding/json"
	"testing"

	"ai-videotutor-be/pkg/drawer"
	"ai-videotutor-be/pkg/stream"
	"ai-videotutor-be/pkg/toolcall"
)

func refCall(videoID string) toolcall.Call {
	return toolcall.Call{
		ToolName: "suggestVideo",
		Result: toolcall.Result{
			Kind:           toolcall.KindReferenceVideo,
			ReferenceVideo: &toolcall.ReferenceVideo{VideoID: videoID, Title: "T"},
		},
	}
}

func TestToSegmentDTOs(t *testing.T) {
	m := NewTutorMapper()
	cite := toolcall.Call{
		ToolName: "citeMoment",
		Result: toolcall.Result{
			Kind:       toolcall.KindCiteMoment,
			CiteMoment: &toolcall.CiteMoment{VideoID: "v1", Timestamp: 12.5},
		},
	}

	segments := []stream.Segment{
		{Type: stream.SegmentText, Text: "hello "},
		{Type: stream.SegmentTool, Tool: &cite},
		{Type: stream.SegmentTool, Tool: nil},
	}

	out := m.ToSegmentDTOs(segments)
	if len(out) != 2 {
		t.Fatalf("expected 2 DTOs, got %d", len(out))
	}
	if out[0].Type != "text" || out[0].Text != "hello " {
		t.Errorf("unexpected text segment: %+v", out[0])
	}
	if out[1].Type != "tool" || out[1].Tool == nil {
		t.Fatalf("unexpected tool segment: %+v", out[1])
	}
	if out[1].Tool.Kind != "cite_moment" || !out[1].Tool.Inline {
		t.Errorf("cite_moment should map inline, got %+v", out[1].Tool)
	}

	raw, ok := out[1].Tool.Payload.(json.RawMessage)
	if !ok {
		t.Fatalf("payload should be raw JSON, got %T", out[1].Tool.Payload)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("payload does not decode: %v", err)
	}
	if decoded["type"] != "cite_moment" {
		t.Errorf("payload should carry its discriminant, got %v", decoded["type"])
	}
}

func TestToDrawerDTO(t *testing.T) {
	m := NewTutorMapper()
	state := drawer.NewState()

	for i := 0; i < drawer.RetentionWindow+2; i++ {
		id := string(rune('a' + i))
		state.CommitTurn("exchange-"+id, "question "+id, []toolcall.Call{refCall("vid-" + id)})
	}

	out := m.ToDrawerDTO(state, true)
	if len(out.Groups) != drawer.RetentionWindow {
		t.Errorf("expected %d visible groups, got %d", drawer.RetentionWindow, len(out.Groups))
	}
	if out.EarlierCount != 2 {
		t.Errorf("expected 2 earlier groups, got %d", out.EarlierCount)
	}
	if out.TotalCalls != drawer.RetentionWindow+2 {
		t.Errorf("expected %d total calls, got %d", drawer.RetentionWindow+2, out.TotalCalls)
	}
	if !out.ShouldOpen {
		t.Error("ShouldOpen flag should pass through")
	}
}
