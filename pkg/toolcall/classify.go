package toolcall

// Classification tells the rendering layer where a tool call belongs:
// inside the conversation flow, in the aggregated side panel, or nowhere.
type Classification struct {
	Inline       bool
	DrawerWorthy bool
}

// Classify determines placement for a tool call.
//
// cite_moment is always inline. search_results is an internal signal and is
// never user-facing. The remaining kinds are side-panel candidates but only
// when their payload is non-empty; an empty quiz or an empty prerequisite
// chain contributes nothing anywhere.
func Classify(c Call) Classification {
	switch c.Result.Kind {
	case KindCiteMoment:
		return Classification{Inline: true}
	case KindSearchResults:
		return Classification{}
	case KindReferenceVideo, KindPrerequisiteChain, KindQuiz,
		KindChapterContext, KindAlternativeExplanations, KindLearningPath:
		return Classification{DrawerWorthy: c.Result.NonEmpty()}
	}
	// Unknown kinds occupy their stream position but go nowhere.
	return Classification{}
}

// NonEmpty reports whether the payload carries enough content to be shown.
// The rule is kind-specific: list-shaped kinds need at least one entry,
// identity-shaped kinds need their identifying field.
func (r Result) NonEmpty() bool {
	switch r.Kind {
	case KindCiteMoment:
		return r.CiteMoment != nil && r.CiteMoment.VideoID != ""
	case KindReferenceVideo:
		return r.ReferenceVideo != nil && r.ReferenceVideo.VideoID != ""
	case KindSearchResults:
		return r.SearchResults != nil && len(r.SearchResults.Results) > 0
	case KindPrerequisiteChain:
		return r.PrerequisiteChain != nil && len(r.PrerequisiteChain.Prerequisites) > 0
	case KindQuiz:
		return r.Quiz != nil && len(r.Quiz.Questions) > 0
	case KindChapterContext:
		return r.ChapterContext != nil && r.ChapterContext.VideoID != "" && r.ChapterContext.ChapterTitle != ""
	case KindAlternativeExplanations:
		return r.AlternativeExplanations != nil && len(r.AlternativeExplanations.Alternatives) > 0
	case KindLearningPath:
		return r.LearningPath != nil && len(r.LearningPath.Steps) > 0
	}
	return false
}
