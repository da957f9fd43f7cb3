package stream

import (
	"testing"

	"ai-videotutor-be/pkg/toolcall"
)

func textSeg(s string) Segment {
	return Segment{Type: SegmentText, Text: s}
}

func toolSeg(name string) Segment {
	return Segment{Type: SegmentTool, Tool: &toolcall.Call{ToolName: name}}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []Segment
		want []string // compact shape: "T:<text>" or "X:<toolName>"
	}{
		{
			name: "empty list",
			in:   nil,
			want: nil,
		},
		{
			name: "already text-first is untouched",
			in:   []Segment{textSeg("hi"), toolSeg("a"), textSeg("bye")},
			want: []string{"T:hi", "X:a", "T:bye"},
		},
		{
			name: "single leading tool deferred after first text",
			in:   []Segment{toolSeg("a"), textSeg("hi")},
			want: []string{"T:hi", "X:a"},
		},
		{
			name: "leading run keeps relative order",
			in:   []Segment{toolSeg("a"), toolSeg("b"), textSeg("hi"), toolSeg("c")},
			want: []string{"T:hi", "X:a", "X:b", "X:c"},
		},
		{
			name: "later tools are not deferred",
			in:   []Segment{textSeg("one"), toolSeg("a"), textSeg("two"), toolSeg("b")},
			want: []string{"T:one", "X:a", "T:two", "X:b"},
		},
		{
			name: "no text at all keeps original order",
			in:   []Segment{toolSeg("a"), toolSeg("b")},
			want: []string{"X:a", "X:b"},
		},
		{
			name: "deferred tools land before following text",
			in:   []Segment{toolSeg("a"), textSeg("one"), textSeg("two")},
			want: []string{"T:one", "X:a", "T:two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("length = %d, want %d", len(got), len(tt.want))
			}
			for i, seg := range got {
				var shape string
				if seg.Type == SegmentText {
					shape = "T:" + seg.Text
				} else {
					shape = "X:" + seg.Tool.ToolName
				}
				if shape != tt.want[i] {
					t.Errorf("segment[%d] = %s, want %s", i, shape, tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeAfterDecode(t *testing.T) {
	// Scenario: backend references a video before emitting any prose.
	buffer := Delimiter + refPayload + Delimiter + "Here's a related video."

	got := Normalize(Decode(buffer))
	if len(got) != 2 {
		t.Fatalf("segment count = %d, want 2", len(got))
	}
	if got[0].Type != SegmentText || got[0].Text != "Here's a related video." {
		t.Errorf("segment[0] = %+v, want the prose first", got[0])
	}
	if got[1].Type != SegmentTool || got[1].Tool.Result.Kind != toolcall.KindReferenceVideo {
		t.Errorf("segment[1] = %+v, want the deferred reference", got[1])
	}
}
