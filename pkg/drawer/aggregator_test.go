package drawer

import (
	"fmt"
	"testing"

	"ai-videotutor-be/pkg/toolcall"
)

func refCall(videoID string) toolcall.Call {
	return toolcall.Call{
		ToolName: "reference_video",
		Result: toolcall.Result{
			Kind:           toolcall.KindReferenceVideo,
			ReferenceVideo: &toolcall.ReferenceVideo{VideoID: videoID},
		},
	}
}

func quizCall(prompts ...string) toolcall.Call {
	questions := make([]toolcall.QuizQuestion, len(prompts))
	for i, p := range prompts {
		questions[i] = toolcall.QuizQuestion{Prompt: p}
	}
	return toolcall.Call{
		ToolName: "generate_quiz",
		Result:   toolcall.Result{Kind: toolcall.KindQuiz, Quiz: &toolcall.Quiz{Questions: questions}},
	}
}

func citeCall(videoID string) toolcall.Call {
	return toolcall.Call{
		ToolName: "cite_video_moment",
		Result: toolcall.Result{
			Kind:       toolcall.KindCiteMoment,
			CiteMoment: &toolcall.CiteMoment{VideoID: videoID, Timestamp: 1},
		},
	}
}

func TestCommitTurnDedupAcrossTurns(t *testing.T) {
	s := NewState()

	// Scenario: two turns each reference the same video.
	first := s.CommitTurn("ex-1", "what is this about?", []toolcall.Call{refCall("abc123")})
	if first == nil || len(first.ToolCalls) != 1 {
		t.Fatalf("first turn should produce a group, got %+v", first)
	}

	second := s.CommitTurn("ex-2", "show me again", []toolcall.Call{refCall("abc123")})
	if second != nil {
		t.Errorf("fully redundant turn must contribute no group, got %+v", second)
	}
	if len(s.Groups) != 1 {
		t.Errorf("group count = %d, want 1", len(s.Groups))
	}
}

func TestCommitTurnDedupWithinTurn(t *testing.T) {
	s := NewState()

	group := s.CommitTurn("ex-1", "q", []toolcall.Call{refCall("abc123"), refCall("abc123"), refCall("xyz789")})
	if group == nil {
		t.Fatal("expected a group")
	}
	if len(group.ToolCalls) != 2 {
		t.Errorf("survivors = %d, want 2 (duplicate within turn removed)", len(group.ToolCalls))
	}
}

func TestCommitTurnFiltersNonDrawerWorthy(t *testing.T) {
	s := NewState()

	// cite_moment is inline-only; an empty quiz fails the emptiness rule.
	group := s.CommitTurn("ex-1", "q", []toolcall.Call{citeCall("abc123"), quizCall()})
	if group != nil {
		t.Errorf("turn with no drawer-worthy survivors must produce nil, got %+v", group)
	}
	if s.ShouldReopen() {
		t.Error("empty quiz must never increment the reopen-trigger count")
	}
}

func TestCommitTurnPartialSurvival(t *testing.T) {
	s := NewState()
	s.CommitTurn("ex-1", "q1", []toolcall.Call{refCall("abc123")})

	group := s.CommitTurn("ex-2", "q2", []toolcall.Call{refCall("abc123"), quizCall("what is a limit?")})
	if group == nil {
		t.Fatal("expected a group: the quiz is new")
	}
	if len(group.ToolCalls) != 1 || group.ToolCalls[0].Result.Kind != toolcall.KindQuiz {
		t.Errorf("survivors = %+v, want only the quiz", group.ToolCalls)
	}
}

func TestCommitTurnReplayAfterClear(t *testing.T) {
	s := NewState()
	s.CommitTurn("ex-1", "q1", []toolcall.Call{refCall("abc123")})
	s.Clear()

	if len(s.Groups) != 0 {
		t.Fatalf("clear must drop all groups, got %d", len(s.Groups))
	}

	// After a history clear the same video is new again.
	group := s.CommitTurn("ex-2", "q2", []toolcall.Call{refCall("abc123")})
	if group == nil {
		t.Error("after clear, previously seen fingerprints must be forgotten")
	}
}

func TestStreamingSlot(t *testing.T) {
	s := NewState()

	s.SetStreaming([]toolcall.Call{refCall("abc123"), citeCall("abc123"), quizCall()})
	if len(s.Streaming) != 1 {
		t.Fatalf("streaming slot = %d calls, want 1 (only drawer-worthy)", len(s.Streaming))
	}

	// Commit clears the slot even when the turn is redundant.
	s.CommitTurn("ex-1", "q", []toolcall.Call{refCall("abc123")})
	if len(s.Streaming) != 0 {
		t.Errorf("streaming slot must be empty after commit, got %d", len(s.Streaming))
	}
}

func TestVisibleRetentionWindow(t *testing.T) {
	s := NewState()
	for i := 0; i < RetentionWindow+3; i++ {
		group := s.CommitTurn(
			fmt.Sprintf("ex-%d", i),
			fmt.Sprintf("question %d", i),
			[]toolcall.Call{refCall(fmt.Sprintf("video-%d", i))},
		)
		if group == nil {
			t.Fatalf("turn %d unexpectedly redundant", i)
		}
	}

	visible, earlier := s.Visible()
	if len(visible) != RetentionWindow {
		t.Errorf("visible = %d, want %d", len(visible), RetentionWindow)
	}
	if earlier != 3 {
		t.Errorf("earlier = %d, want 3", earlier)
	}
	if visible[0].ExchangeID != "ex-3" {
		t.Errorf("window start = %s, want ex-3", visible[0].ExchangeID)
	}
	// Full history stays in memory for fingerprint replay.
	if len(s.Groups) != RetentionWindow+3 {
		t.Errorf("retained groups = %d, want %d", len(s.Groups), RetentionWindow+3)
	}
}

func TestShouldReopen(t *testing.T) {
	s := NewState()

	if s.ShouldReopen() {
		t.Error("empty drawer must not reopen")
	}

	s.CommitTurn("ex-1", "q1", []toolcall.Call{refCall("abc123")})
	if !s.ShouldReopen() {
		t.Error("new committed item must trigger reopen")
	}
	if s.ShouldReopen() {
		t.Error("no change since last check must not reopen")
	}

	// A redundant turn adds nothing and must not reopen the panel.
	s.CommitTurn("ex-2", "q2", []toolcall.Call{refCall("abc123")})
	if s.ShouldReopen() {
		t.Error("redundant turn must not trigger reopen")
	}

	s.CommitTurn("ex-3", "q3", []toolcall.Call{refCall("xyz789")})
	if !s.ShouldReopen() {
		t.Error("strictly increased count must trigger reopen")
	}
}

func TestRestoreSeedsReopenHighWaterMark(t *testing.T) {
	s := NewState()
	s.Restore([]ExchangeGroup{
		{ExchangeID: "ex-1", UserText: "q1", ToolCalls: []toolcall.Call{refCall("abc123")}},
		{ExchangeID: "ex-2", UserText: "q2", ToolCalls: []toolcall.Call{refCall("xyz789"), quizCall("p1")}},
	})

	// Everything restored predates the rebuild; nothing is new.
	if s.ShouldReopen() {
		t.Error("restored history must not trigger reopen")
	}

	// Dedup still works against the restored fingerprints.
	if group := s.CommitTurn("ex-3", "q3", []toolcall.Call{refCall("abc123")}); group != nil {
		t.Errorf("restored fingerprint not deduplicated: %+v", group)
	}
	if s.ShouldReopen() {
		t.Error("redundant turn after restore must not trigger reopen")
	}

	s.CommitTurn("ex-4", "q4", []toolcall.Call{refCall("new-1")})
	if !s.ShouldReopen() {
		t.Error("genuinely new item after restore must trigger reopen")
	}
}

func TestCommitTurnPureFunction(t *testing.T) {
	prior := []ExchangeGroup{
		{ExchangeID: "ex-0", ToolCalls: []toolcall.Call{refCall("abc123")}},
	}

	group := CommitTurn(prior, "ex-1", "q", []toolcall.Call{refCall("abc123"), refCall("new-1")})
	if group == nil {
		t.Fatal("expected survivors")
	}
	if len(group.ToolCalls) != 1 || group.ToolCalls[0].Result.ReferenceVideo.VideoID != "new-1" {
		t.Errorf("survivors = %+v", group.ToolCalls)
	}
	if len(prior) != 1 {
		t.Error("pure CommitTurn must not mutate prior groups")
	}
}
