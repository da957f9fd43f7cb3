package drawer

import (
	"ai-videotutor-be/pkg/toolcall"
)

// RetentionWindow is how many exchange groups the panel shows in full.
// Older groups collapse into a "k earlier results" count; they are never
// dropped from memory because fingerprint replay needs the full history.
const RetentionWindow = 5

// ExchangeGroup holds the surviving drawer-worthy tool calls of one
// completed turn. Immutable once created; conversation order is preserved.
type ExchangeGroup struct {
	ExchangeID string          `json:"exchange_id"`
	UserText   string          `json:"user_text"`
	ToolCalls  []toolcall.Call `json:"tool_calls"`
}

// State is one conversation's drawer. It is an explicit value owned by the
// conversation session, never process-global, so parallel conversations
// stay fully isolated.
type State struct {
	Groups    []ExchangeGroup `json:"groups"`
	Streaming []toolcall.Call `json:"streaming"`

	// High-water mark of the drawer-worthy item count the last time the
	// reopen check ran.
	lastSeenTotal int
}

// NewState returns an empty drawer.
func NewState() *State {
	return &State{}
}

// CommitTurn runs the per-turn commit algorithm over prior groups:
//
//  1. keep only drawer-worthy calls,
//  2. replay every prior group to rebuild the seen-fingerprint set,
//  3. drop calls whose fingerprint was already seen (first occurrence wins,
//     across the whole session),
//  4. return a group only if at least one call survived.
//
// A fully redundant or empty turn returns nil; that is a normal outcome,
// not a failure. The replay makes correctness independent of how prior
// state was produced (e.g. after a history clear-and-rebuild).
func CommitTurn(prior []ExchangeGroup, exchangeID, userText string, calls []toolcall.Call) *ExchangeGroup {
	seen := seenFingerprints(prior)

	var survivors []toolcall.Call
	for _, call := range calls {
		if !toolcall.Classify(call).DrawerWorthy {
			continue
		}
		fp := Fingerprint(call)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		survivors = append(survivors, call)
	}

	if len(survivors) == 0 {
		return nil
	}
	return &ExchangeGroup{
		ExchangeID: exchangeID,
		UserText:   userText,
		ToolCalls:  survivors,
	}
}

func seenFingerprints(groups []ExchangeGroup) map[string]struct{} {
	seen := make(map[string]struct{})
	for _, g := range groups {
		for _, call := range g.ToolCalls {
			seen[Fingerprint(call)] = struct{}{}
		}
	}
	return seen
}

// SetStreaming replaces the in-progress slot with the drawer-worthy calls
// of the turn currently streaming. These are shown as a distinct "in
// progress" group and are not deduplicated until the turn commits.
func (s *State) SetStreaming(calls []toolcall.Call) {
	s.Streaming = s.Streaming[:0]
	for _, call := range calls {
		if toolcall.Classify(call).DrawerWorthy {
			s.Streaming = append(s.Streaming, call)
		}
	}
}

// CommitTurn promotes the finished turn through the commit algorithm and
// clears the streaming slot. Returns the appended group, or nil when the
// turn was fully redundant.
func (s *State) CommitTurn(exchangeID, userText string, calls []toolcall.Call) *ExchangeGroup {
	s.Streaming = nil

	group := CommitTurn(s.Groups, exchangeID, userText, calls)
	if group != nil {
		s.Groups = append(s.Groups, *group)
	}
	return group
}

// Restore replaces the committed history with groups replayed from durable
// storage and seeds the reopen high-water mark from them. Everything
// restored was committed before the rebuild, so none of it counts as new
// for the reopen check.
func (s *State) Restore(groups []ExchangeGroup) {
	s.Groups = groups
	s.Streaming = nil
	s.lastSeenTotal = s.TotalCalls()
}

// Clear resets the drawer in lockstep with a conversation-history clear.
func (s *State) Clear() {
	s.Groups = nil
	s.Streaming = nil
	s.lastSeenTotal = 0
}

// Visible returns the groups the panel renders (the most recent
// RetentionWindow) and the count of earlier groups collapsed into the
// "k earlier results" line.
func (s *State) Visible() ([]ExchangeGroup, int) {
	if len(s.Groups) <= RetentionWindow {
		return s.Groups, 0
	}
	earlier := len(s.Groups) - RetentionWindow
	return s.Groups[earlier:], earlier
}

// TotalCalls counts every committed drawer item across the full history.
func (s *State) TotalCalls() int {
	total := 0
	for _, g := range s.Groups {
		total += len(g.ToolCalls)
	}
	return total
}

// ShouldReopen reports whether a dismissed panel should snap back open:
// only when the committed item count strictly increased since the last
// check. A redundant turn that survives nothing never reopens the panel.
func (s *State) ShouldReopen() bool {
	total := s.TotalCalls()
	reopen := total > s.lastSeenTotal
	s.lastSeenTotal = total
	return reopen
}
