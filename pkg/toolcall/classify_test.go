package toolcall

import (
	"encoding/json"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name             string
		call             Call
		wantInline       bool
		wantDrawerWorthy bool
	}{
		{
			name: "cite_moment is always inline",
			call: Call{ToolName: "cite", Result: Result{
				Kind:       KindCiteMoment,
				CiteMoment: &CiteMoment{VideoID: "abc123", Timestamp: 42},
			}},
			wantInline:       true,
			wantDrawerWorthy: false,
		},
		{
			name: "search_results is never user-facing",
			call: Call{ToolName: "search", Result: Result{
				Kind: KindSearchResults,
				SearchResults: &SearchResults{
					Query:   "fourier",
					Results: []VideoHit{{VideoID: "v1", Title: "Fourier Series"}},
				},
			}},
			wantInline:       false,
			wantDrawerWorthy: false,
		},
		{
			name: "reference_video with id is drawer-worthy",
			call: Call{ToolName: "ref", Result: Result{
				Kind:           KindReferenceVideo,
				ReferenceVideo: &ReferenceVideo{VideoID: "abc123"},
			}},
			wantInline:       false,
			wantDrawerWorthy: true,
		},
		{
			name: "reference_video without id fails the emptiness test",
			call: Call{ToolName: "ref", Result: Result{
				Kind:           KindReferenceVideo,
				ReferenceVideo: &ReferenceVideo{},
			}},
			wantInline:       false,
			wantDrawerWorthy: false,
		},
		{
			name: "quiz with questions is drawer-worthy",
			call: Call{ToolName: "quiz", Result: Result{
				Kind: KindQuiz,
				Quiz: &Quiz{Questions: []QuizQuestion{{Prompt: "2+2?", Options: []string{"3", "4"}, AnswerIndex: 1}}},
			}},
			wantInline:       false,
			wantDrawerWorthy: true,
		},
		{
			name: "quiz with zero questions is not drawer-worthy",
			call: Call{ToolName: "quiz", Result: Result{
				Kind: KindQuiz,
				Quiz: &Quiz{Topic: "algebra"},
			}},
			wantInline:       false,
			wantDrawerWorthy: false,
		},
		{
			name: "empty prerequisite chain is not drawer-worthy",
			call: Call{ToolName: "prereq", Result: Result{
				Kind:              KindPrerequisiteChain,
				PrerequisiteChain: &PrerequisiteChain{Concept: "calculus"},
			}},
			wantInline:       false,
			wantDrawerWorthy: false,
		},
		{
			name: "chapter_context needs video and chapter title",
			call: Call{ToolName: "chapter", Result: Result{
				Kind:           KindChapterContext,
				ChapterContext: &ChapterContext{VideoID: "abc123", ChapterTitle: "Limits", StartTime: 10},
			}},
			wantInline:       false,
			wantDrawerWorthy: true,
		},
		{
			name: "learning_path with steps is drawer-worthy",
			call: Call{ToolName: "path", Result: Result{
				Kind:         KindLearningPath,
				LearningPath: &LearningPath{Steps: []LearningStep{{Title: "Start here"}}},
			}},
			wantInline:       false,
			wantDrawerWorthy: true,
		},
		{
			name: "unknown kind goes nowhere",
			call: Call{ToolName: "future", Result: Result{Kind: Kind("hologram")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.call)
			if got.Inline != tt.wantInline {
				t.Errorf("Inline = %v, want %v", got.Inline, tt.wantInline)
			}
			if got.DrawerWorthy != tt.wantDrawerWorthy {
				t.Errorf("DrawerWorthy = %v, want %v", got.DrawerWorthy, tt.wantDrawerWorthy)
			}
		})
	}
}

func TestResultUnmarshalDispatch(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantKind Kind
		check    func(t *testing.T, r Result)
	}{
		{
			name:     "cite_moment",
			payload:  `{"type":"cite_moment","video_id":"abc123","timestamp":91.5,"label":"key step"}`,
			wantKind: KindCiteMoment,
			check: func(t *testing.T, r Result) {
				if r.CiteMoment == nil || r.CiteMoment.VideoID != "abc123" || r.CiteMoment.Timestamp != 91.5 {
					t.Errorf("CiteMoment = %+v", r.CiteMoment)
				}
			},
		},
		{
			name:     "quiz",
			payload:  `{"type":"quiz","topic":"limits","questions":[{"prompt":"q1","options":["a","b"],"answer_index":0}]}`,
			wantKind: KindQuiz,
			check: func(t *testing.T, r Result) {
				if r.Quiz == nil || len(r.Quiz.Questions) != 1 || r.Quiz.Questions[0].Prompt != "q1" {
					t.Errorf("Quiz = %+v", r.Quiz)
				}
			},
		},
		{
			name:     "unknown kind keeps discriminant with nil payloads",
			payload:  `{"type":"hologram","anything":"goes"}`,
			wantKind: Kind("hologram"),
			check: func(t *testing.T, r Result) {
				if r.CiteMoment != nil || r.Quiz != nil || r.LearningPath != nil {
					t.Error("unknown kind must leave payload pointers nil")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Result
			if err := json.Unmarshal([]byte(tt.payload), &r); err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}
			if r.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", r.Kind, tt.wantKind)
			}
			tt.check(t, r)
		})
	}
}

func TestResultMarshalRoundTrip(t *testing.T) {
	orig := Result{
		Kind: KindReferenceVideo,
		ReferenceVideo: &ReferenceVideo{
			VideoID:      "abc123",
			Title:        "Linear Algebra Intro",
			Relationship: "deeper",
		},
	}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var back Result
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if back.Kind != KindReferenceVideo {
		t.Errorf("Kind = %q, want %q", back.Kind, KindReferenceVideo)
	}
	if back.ReferenceVideo == nil || *back.ReferenceVideo != *orig.ReferenceVideo {
		t.Errorf("ReferenceVideo = %+v, want %+v", back.ReferenceVideo, orig.ReferenceVideo)
	}
}

func TestRegistryRender(t *testing.T) {
	reg := NewRegistry()

	t.Run("known kind renders component", func(t *testing.T) {
		r := Result{Kind: KindQuiz, Quiz: &Quiz{Questions: []QuizQuestion{{Prompt: "q"}}}}
		got := reg.Render(r)
		if got == nil || got.Component != "QuizPanel" {
			t.Errorf("Render = %+v, want QuizPanel", got)
		}
	})

	t.Run("search_results renders nothing", func(t *testing.T) {
		r := Result{Kind: KindSearchResults, SearchResults: &SearchResults{Query: "q"}}
		if got := reg.Render(r); got != nil {
			t.Errorf("Render = %+v, want nil", got)
		}
	})

	t.Run("unknown kind renders nothing", func(t *testing.T) {
		if got := reg.Render(Result{Kind: Kind("hologram")}); got != nil {
			t.Errorf("Render = %+v, want nil", got)
		}
	})

	t.Run("custom renderer overrides default", func(t *testing.T) {
		reg.Register(KindQuiz, func(Result) *Renderable {
			return &Renderable{Component: "CompactQuiz"}
		})
		got := reg.Render(Result{Kind: KindQuiz, Quiz: &Quiz{}})
		if got == nil || got.Component != "CompactQuiz" {
			t.Errorf("Render = %+v, want CompactQuiz", got)
		}
	})
}
