// Package drawer maintains the session-scoped side panel: the deduplicated,
// ordered collection of drawer-worthy tool results accumulated across a
// conversation's completed turns.
package drawer

import (
	"fmt"

	"ai-videotutor-be/pkg/toolcall"
)

// leadLen bounds the leading-content slice used in structural fingerprints.
const leadLen = 40

// Fingerprint computes the deterministic dedup key for a tool call.
//
// Kinds with a natural identity (a video, a chapter) key on it. Kinds that
// are free-form generated lists (quiz, prerequisite_chain,
// alternative_explanations, learning_path) get a structural signature:
// item count plus the leading content of the first item. Two independently
// generated but near-identical results therefore collapse into one drawer
// entry.
func Fingerprint(c toolcall.Call) string {
	r := c.Result
	switch r.Kind {
	case toolcall.KindCiteMoment:
		if r.CiteMoment != nil {
			return fmt.Sprintf("cite_moment:%s@%.1f", r.CiteMoment.VideoID, r.CiteMoment.Timestamp)
		}
	case toolcall.KindReferenceVideo:
		if r.ReferenceVideo != nil {
			return "reference_video:" + r.ReferenceVideo.VideoID
		}
	case toolcall.KindChapterContext:
		if r.ChapterContext != nil {
			return fmt.Sprintf("chapter_context:%s:%s", r.ChapterContext.VideoID, r.ChapterContext.ChapterTitle)
		}
	case toolcall.KindSearchResults:
		if r.SearchResults != nil {
			return "search_results:" + r.SearchResults.Query
		}
	case toolcall.KindQuiz:
		if r.Quiz != nil {
			lead := ""
			if len(r.Quiz.Questions) > 0 {
				lead = head(r.Quiz.Questions[0].Prompt)
			}
			return fmt.Sprintf("quiz:%d:%s", len(r.Quiz.Questions), lead)
		}
	case toolcall.KindPrerequisiteChain:
		if r.PrerequisiteChain != nil {
			lead := ""
			if len(r.PrerequisiteChain.Prerequisites) > 0 {
				lead = head(r.PrerequisiteChain.Prerequisites[0].Concept)
			}
			return fmt.Sprintf("prerequisite_chain:%d:%s", len(r.PrerequisiteChain.Prerequisites), lead)
		}
	case toolcall.KindAlternativeExplanations:
		if r.AlternativeExplanations != nil {
			lead := ""
			if len(r.AlternativeExplanations.Alternatives) > 0 {
				lead = head(r.AlternativeExplanations.Alternatives[0].Text)
			}
			return fmt.Sprintf("alternative_explanations:%d:%s", len(r.AlternativeExplanations.Alternatives), lead)
		}
	case toolcall.KindLearningPath:
		if r.LearningPath != nil {
			lead := ""
			if len(r.LearningPath.Steps) > 0 {
				lead = head(r.LearningPath.Steps[0].Title)
			}
			return fmt.Sprintf("learning_path:%d:%s", len(r.LearningPath.Steps), lead)
		}
	}
	return string(r.Kind)
}

func head(s string) string {
	runes := []rune(s)
	if len(runes) > leadLen {
		return string(runes[:leadLen])
	}
	return s
}
