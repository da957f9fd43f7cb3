package main

import (
	"fmt"
	"time"

	"ai-videotutor-be/pkg/drawer"
	"ai-videotutor-be/pkg/stream"
	"ai-videotutor-be/pkg/toolcall"

	"github.com/fatih/color"
)

const rs = stream.Delimiter

// Scripted model responses, chunked mid-payload on purpose to exercise the
// withholding path the way a real stream does.
var turns = []struct {
	userText string
	chunks   []string
}{
	{
		userText: "What is a closure?",
		chunks: []string{
			"A closure is a function that captures variables fro",
			"m its enclosing scope. ",
			rs + "{\"toolName\":\"citeMoment\",\"result\":{\"type\":\"cite_moment\",\"video_id\":\"vid-101\",",
			"\"timestamp\":245.5,\"label\":\"Closures explained\"}}" + rs,
			" You can see a worked example at that point in the lecture.",
			rs + "{\"toolName\":\"suggestVideo\",\"result\":{\"type\":\"reference_video\",\"video_id\":\"vid-202\",\"title\":\"Scope deep dive\",\"relationship\":\"related\"}}" + rs,
		},
	},
	{
		userText: "Tell me more about scope",
		chunks: []string{
			"Scope determines where a variable can be read. ",
			// Same video as last turn; the drawer must not show it twice.
			rs + "{\"toolName\":\"suggestVideo\",\"result\":{\"type\":\"reference_video\",\"video_id\":\"vid-202\",\"title\":\"Scope deep dive\",\"relationship\":\"related\"}}" + rs,
			rs + "{\"toolName\":\"quizUser\",\"result\":{\"type\":\"quiz\",\"topic\":\"scope\",\"questions\":[{\"prompt\":\"What does let do?\",\"options\":[\"block scope\",\"function scope\"],\"answer_index\":0}]}}" + rs,
		},
	},
}

func main() {
	titleColor := color.New(color.FgCyan, color.Bold)
	userColor := color.New(color.FgGreen, color.Bold)
	textColor := color.New(color.FgWhite)
	toolColor := color.New(color.FgYellow)
	drawerColor := color.New(color.FgMagenta)

	titleColor.Println("=== Tutor Stream Simulation ===")

	state := drawer.NewState()
	registry := toolcall.NewRegistry()

	for i, turn := range turns {
		exchangeID := fmt.Sprintf("exchange-%d", i+1)
		userColor.Printf("\nUSER: %s\n", turn.userText)

		buffer := ""
		for _, chunk := range turn.chunks {
			buffer += chunk
			segments := stream.Normalize(stream.Decode(buffer))
			state.SetStreaming(streamCalls(segments))

			// Each chunk replaces the rendered view wholesale.
			fmt.Printf("\r%s", renderLine(textColor, toolColor, registry, segments))
			time.Sleep(150 * time.Millisecond)
		}
		fmt.Println()

		segments := stream.Normalize(stream.Decode(buffer))
		group := state.CommitTurn(exchangeID, turn.userText, streamCalls(segments))
		if group == nil {
			drawerColor.Println("DRAWER: nothing new this turn")
		} else {
			drawerColor.Printf("DRAWER: +%d item(s)\n", len(group.ToolCalls))
		}

		visible, earlier := state.Visible()
		for _, g := range visible {
			drawerColor.Printf("  [%s] %q:", g.ExchangeID, g.UserText)
			for _, c := range g.ToolCalls {
				if view := registry.Render(c.Result); view != nil {
					drawerColor.Printf(" %s<%s>", c.Result.Kind, view.Component)
				} else {
					drawerColor.Printf(" %s", c.Result.Kind)
				}
			}
			fmt.Println()
		}
		if earlier > 0 {
			drawerColor.Printf("  ... %d earlier\n", earlier)
		}
		if state.ShouldReopen() {
			drawerColor.Println("  (panel reopens)")
		}
	}
}

func streamCalls(segments []stream.Segment) []toolcall.Call {
	calls := make([]toolcall.Call, 0)
	for _, seg := range segments {
		if seg.Type == stream.SegmentTool && seg.Tool != nil {
			calls = append(calls, *seg.Tool)
		}
	}
	return calls
}

func renderLine(textColor, toolColor *color.Color, registry *toolcall.Registry, segments []stream.Segment) string {
	out := ""
	for _, seg := range segments {
		switch seg.Type {
		case stream.SegmentText:
			out += textColor.Sprint(seg.Text)
		case stream.SegmentTool:
			if view := registry.Render(seg.Tool.Result); view != nil && toolcall.Classify(*seg.Tool).Inline {
				out += toolColor.Sprintf("[%s]", view.Component)
			}
		}
	}
	return out
}
