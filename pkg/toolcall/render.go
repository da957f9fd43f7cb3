package toolcall

// Renderable is the view model handed to the presentation layer: a component
// name plus its props. The core never renders; it only selects.
type Renderable struct {
	Component string         `json:"component"`
	Props     map[string]any `json:"props"`
}

// RenderFunc builds the view model for one result kind. Returning nil means
// "render nothing".
type RenderFunc func(Result) *Renderable

// Registry maps result kinds to renderers. Lookup is total: kinds without a
// registered renderer (including kinds introduced server-side after this
// build shipped) resolve to a no-op rather than an error.
type Registry struct {
	renderers map[Kind]RenderFunc
}

// NewRegistry returns a registry pre-populated with the default renderer for
// every known kind.
func NewRegistry() *Registry {
	reg := &Registry{renderers: make(map[Kind]RenderFunc)}

	reg.Register(KindCiteMoment, func(r Result) *Renderable {
		if r.CiteMoment == nil {
			return nil
		}
		return &Renderable{Component: "MomentChip", Props: map[string]any{
			"video_id":  r.CiteMoment.VideoID,
			"timestamp": r.CiteMoment.Timestamp,
			"label":     r.CiteMoment.Label,
		}}
	})
	reg.Register(KindReferenceVideo, func(r Result) *Renderable {
		if r.ReferenceVideo == nil {
			return nil
		}
		return &Renderable{Component: "VideoCard", Props: map[string]any{
			"video_id":     r.ReferenceVideo.VideoID,
			"title":        r.ReferenceVideo.Title,
			"timestamp":    r.ReferenceVideo.Timestamp,
			"relationship": r.ReferenceVideo.Relationship,
		}}
	})
	reg.Register(KindPrerequisiteChain, func(r Result) *Renderable {
		if r.PrerequisiteChain == nil {
			return nil
		}
		return &Renderable{Component: "PrerequisiteList", Props: map[string]any{
			"concept":       r.PrerequisiteChain.Concept,
			"prerequisites": r.PrerequisiteChain.Prerequisites,
		}}
	})
	reg.Register(KindQuiz, func(r Result) *Renderable {
		if r.Quiz == nil {
			return nil
		}
		return &Renderable{Component: "QuizPanel", Props: map[string]any{
			"topic":     r.Quiz.Topic,
			"questions": r.Quiz.Questions,
		}}
	})
	reg.Register(KindChapterContext, func(r Result) *Renderable {
		if r.ChapterContext == nil {
			return nil
		}
		return &Renderable{Component: "ChapterBanner", Props: map[string]any{
			"video_id":      r.ChapterContext.VideoID,
			"chapter_title": r.ChapterContext.ChapterTitle,
			"start_time":    r.ChapterContext.StartTime,
			"end_time":      r.ChapterContext.EndTime,
			"summary":       r.ChapterContext.Summary,
		}}
	})
	reg.Register(KindAlternativeExplanations, func(r Result) *Renderable {
		if r.AlternativeExplanations == nil {
			return nil
		}
		return &Renderable{Component: "ExplanationTabs", Props: map[string]any{
			"concept":      r.AlternativeExplanations.Concept,
			"alternatives": r.AlternativeExplanations.Alternatives,
		}}
	})
	reg.Register(KindLearningPath, func(r Result) *Renderable {
		if r.LearningPath == nil {
			return nil
		}
		return &Renderable{Component: "PathTimeline", Props: map[string]any{
			"goal":  r.LearningPath.Goal,
			"steps": r.LearningPath.Steps,
		}}
	})
	// search_results deliberately has no renderer: internal signal only.

	return reg
}

// Register installs (or replaces) the renderer for a kind.
func (reg *Registry) Register(kind Kind, fn RenderFunc) {
	reg.renderers[kind] = fn
}

// Render resolves the view model for a result. Unrecognized kinds and kinds
// without a renderer return nil.
func (reg *Registry) Render(r Result) *Renderable {
	fn, ok := reg.renderers[r.Kind]
	if !ok {
		return nil
	}
	return fn(r)
}
