// Package stream decodes the tutor wire format: a single growing text
// buffer in which structured tool payloads are embedded between pairs of a
// reserved control character. The decoder is pure and stateless; it is
// re-run over the full buffer on every chunk arrival.
package stream

import (
	"encoding/json"
	"strings"

	"ai-videotutor-be/pkg/toolcall"
)

// Delimiter brackets each embedded payload: DELIM <json record> DELIM.
// U+001E (record separator) is reserved and never occurs in prose.
const Delimiter = ""

// SegmentType tags the two segment variants.
type SegmentType string

const (
	SegmentText SegmentType = "text"
	SegmentTool SegmentType = "tool"
)

// Segment is one contiguous decoded unit of the stream: either prose text
// or one tool call. Tool segments keep the raw bracketed payload so the
// original buffer can be reproduced from the segment list.
type Segment struct {
	Type SegmentType    `json:"type"`
	Text string         `json:"text,omitempty"`
	Tool *toolcall.Call `json:"tool,omitempty"`

	// Raw is the payload text between the delimiters (tool segments only).
	Raw string `json:"-"`
}

// Decode scans the full accumulated buffer left to right and returns its
// ordered segments.
//
// Text outside delimiter pairs becomes text segments (empty runs are
// skipped). A complete delimiter pair is parsed as a tool call record; a
// payload that fails to parse or lacks its required fields is dropped and
// scanning resumes after the closing delimiter. A dangling opening
// delimiter ends decoding: the trailing partial payload is withheld rather
// than flashed as raw protocol text, and becomes visible once a later
// chunk closes it.
func Decode(buffer string) []Segment {
	var segments []Segment
	rest := buffer

	for len(rest) > 0 {
		open := strings.Index(rest, Delimiter)
		if open < 0 {
			segments = appendText(segments, rest)
			break
		}

		segments = appendText(segments, rest[:open])

		after := rest[open+len(Delimiter):]
		closing := strings.Index(after, Delimiter)
		if closing < 0 {
			// Payload still streaming in: stop here, surface nothing partial.
			break
		}

		raw := after[:closing]
		if call, ok := parseCall(raw); ok {
			segments = append(segments, Segment{Type: SegmentTool, Tool: call, Raw: raw})
		}
		rest = after[closing+len(Delimiter):]
	}

	return segments
}

func appendText(segments []Segment, text string) []Segment {
	if text == "" {
		return segments
	}
	return append(segments, Segment{Type: SegmentText, Text: text})
}

// parseCall parses one bracketed payload. Both required fields must be
// present; anything else is a silent drop.
func parseCall(raw string) (*toolcall.Call, bool) {
	var probe struct {
		ToolName *string         `json:"toolName"`
		Result   json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, false
	}
	if probe.ToolName == nil || len(probe.Result) == 0 {
		return nil, false
	}

	var call toolcall.Call
	if err := json.Unmarshal([]byte(raw), &call); err != nil {
		return nil, false
	}
	return &call, true
}

// Encode reproduces a buffer from a segment list: text segments verbatim,
// tool segments re-wrapped in delimiters. Decode(Encode(Decode(b))) equals
// Decode(b) for any balanced buffer.
func Encode(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		switch seg.Type {
		case SegmentText:
			b.WriteString(seg.Text)
		case SegmentTool:
			b.WriteString(Delimiter)
			b.WriteString(seg.Raw)
			b.WriteString(Delimiter)
		}
	}
	return b.String()
}
