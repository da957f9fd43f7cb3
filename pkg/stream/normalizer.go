package stream

// Normalize enforces the display-ordering guarantee: no tool segment may
// precede the first text segment. A backend that decides to call a tool
// before writing any prose would otherwise put a structured card above the
// first line of the answer.
//
// Leading tool segments are deferred and reinserted, in their original
// relative order, immediately after the first text segment. Tool segments
// arriving after text has started stay interleaved where they are. A list
// with no text segments at all is returned in original order.
func Normalize(segments []Segment) []Segment {
	var deferred []Segment
	out := make([]Segment, 0, len(segments))
	seenText := false

	for _, seg := range segments {
		if seg.Type == SegmentTool && !seenText {
			deferred = append(deferred, seg)
			continue
		}
		out = append(out, seg)
		if seg.Type == SegmentText && !seenText {
			seenText = true
			out = append(out, deferred...)
			deferred = nil
		}
	}

	// No text segment ever arrived: keep the tools where they were.
	out = append(out, deferred...)
	return out
}
