package toolcall

import (
	"encoding/json"
)

// Kind discriminates the tool result payload shapes emitted by the tutor
// backend alongside prose.
type Kind string

const (
	KindCiteMoment              Kind = "cite_moment"
	KindReferenceVideo          Kind = "reference_video"
	KindSearchResults           Kind = "search_results"
	KindPrerequisiteChain       Kind = "prerequisite_chain"
	KindQuiz                    Kind = "quiz"
	KindChapterContext          Kind = "chapter_context"
	KindAlternativeExplanations Kind = "alternative_explanations"
	KindLearningPath            Kind = "learning_path"
)

// CiteMoment points at a specific timestamp in the video currently being
// watched. Always rendered inline, never aggregated.
type CiteMoment struct {
	VideoID   string  `json:"video_id"`
	Timestamp float64 `json:"timestamp"`
	Label     string  `json:"label,omitempty"`
}

// ReferenceVideo recommends another video related to the discussion.
type ReferenceVideo struct {
	VideoID      string   `json:"video_id"`
	Title        string   `json:"title,omitempty"`
	Timestamp    *float64 `json:"timestamp,omitempty"`
	Relationship string   `json:"relationship,omitempty"` // "deeper" | "broader" | "alternative" | ...
}

// VideoHit is a single entry inside a search_results payload.
type VideoHit struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
	Channel string `json:"channel,omitempty"`
}

// SearchResults carries raw retrieval output. Internal signal only: the
// model uses it to ground later tool calls, the client never shows it.
type SearchResults struct {
	Query   string     `json:"query"`
	Results []VideoHit `json:"results"`
}

// PrerequisiteEntry is one concept the learner should cover first.
type PrerequisiteEntry struct {
	Concept string `json:"concept"`
	VideoID string `json:"video_id,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// PrerequisiteChain lists concepts to study before the current topic.
type PrerequisiteChain struct {
	Concept       string              `json:"concept"`
	Prerequisites []PrerequisiteEntry `json:"prerequisites"`
}

// QuizQuestion is a single multiple-choice question.
type QuizQuestion struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation,omitempty"`
}

// Quiz carries an ordered list of questions about the discussed material.
type Quiz struct {
	Topic     string         `json:"topic,omitempty"`
	Questions []QuizQuestion `json:"questions"`
}

// ChapterContext situates the conversation inside a chapter of the video.
type ChapterContext struct {
	VideoID      string  `json:"video_id"`
	ChapterTitle string  `json:"chapter_title"`
	StartTime    float64 `json:"start_time"`
	EndTime      float64 `json:"end_time,omitempty"`
	Summary      string  `json:"summary,omitempty"`
}

// AlternativeExplanation is one re-explanation of a concept in a different
// style (analogy, formal, visual, ...).
type AlternativeExplanation struct {
	Style string `json:"style,omitempty"`
	Text  string `json:"text"`
}

// AlternativeExplanations offers different framings of the same concept.
type AlternativeExplanations struct {
	Concept      string                   `json:"concept,omitempty"`
	Alternatives []AlternativeExplanation `json:"alternatives"`
}

// LearningStep is one stage of a suggested learning path.
type LearningStep struct {
	Title       string `json:"title"`
	VideoID     string `json:"video_id,omitempty"`
	Description string `json:"description,omitempty"`
}

// LearningPath is an ordered study plan toward a goal.
type LearningPath struct {
	Goal  string         `json:"goal,omitempty"`
	Steps []LearningStep `json:"steps"`
}

// Result is the discriminated union over all tool result kinds. Exactly one
// payload pointer is set for a recognized Kind; an unrecognized discriminant
// leaves every pointer nil (the call still occupies its position in the
// segment stream but renders nothing).
type Result struct {
	Kind Kind

	CiteMoment              *CiteMoment
	ReferenceVideo          *ReferenceVideo
	SearchResults           *SearchResults
	PrerequisiteChain       *PrerequisiteChain
	Quiz                    *Quiz
	ChapterContext          *ChapterContext
	AlternativeExplanations *AlternativeExplanations
	LearningPath            *LearningPath
}

// Call is the atomic unit exchanged between the classifier and the drawer
// aggregator: one named tool invocation with its typed result.
type Call struct {
	ToolName string `json:"toolName"`
	Result   Result `json:"result"`
}

// resultEnvelope mirrors the wire shape of a result: a "type" discriminant
// plus the kind-specific fields at the same level.
type resultEnvelope struct {
	Type Kind `json:"type"`
}

// UnmarshalJSON dispatches on the "type" discriminant. Unknown discriminants
// are not an error: the Kind is kept and every payload pointer stays nil,
// preserving forward compatibility with server-introduced kinds.
func (r *Result) UnmarshalJSON(data []byte) error {
	var env resultEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	r.Kind = env.Type

	switch env.Type {
	case KindCiteMoment:
		r.CiteMoment = &CiteMoment{}
		return json.Unmarshal(data, r.CiteMoment)
	case KindReferenceVideo:
		r.ReferenceVideo = &ReferenceVideo{}
		return json.Unmarshal(data, r.ReferenceVideo)
	case KindSearchResults:
		r.SearchResults = &SearchResults{}
		return json.Unmarshal(data, r.SearchResults)
	case KindPrerequisiteChain:
		r.PrerequisiteChain = &PrerequisiteChain{}
		return json.Unmarshal(data, r.PrerequisiteChain)
	case KindQuiz:
		r.Quiz = &Quiz{}
		return json.Unmarshal(data, r.Quiz)
	case KindChapterContext:
		r.ChapterContext = &ChapterContext{}
		return json.Unmarshal(data, r.ChapterContext)
	case KindAlternativeExplanations:
		r.AlternativeExplanations = &AlternativeExplanations{}
		return json.Unmarshal(data, r.AlternativeExplanations)
	case KindLearningPath:
		r.LearningPath = &LearningPath{}
		return json.Unmarshal(data, r.LearningPath)
	}

	// Unknown kind: keep the discriminant, drop the body.
	return nil
}

// MarshalJSON re-emits the wire shape ("type" + payload fields flattened).
func (r Result) MarshalJSON() ([]byte, error) {
	payload := r.payload()
	if payload == nil {
		return json.Marshal(map[string]any{"type": r.Kind})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	// Flatten the discriminant into the payload object.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	typeTag, err := json.Marshal(r.Kind)
	if err != nil {
		return nil, err
	}
	fields["type"] = typeTag
	return json.Marshal(fields)
}

// payload returns the populated kind-specific struct, or nil.
func (r Result) payload() any {
	switch r.Kind {
	case KindCiteMoment:
		if r.CiteMoment != nil {
			return r.CiteMoment
		}
	case KindReferenceVideo:
		if r.ReferenceVideo != nil {
			return r.ReferenceVideo
		}
	case KindSearchResults:
		if r.SearchResults != nil {
			return r.SearchResults
		}
	case KindPrerequisiteChain:
		if r.PrerequisiteChain != nil {
			return r.PrerequisiteChain
		}
	case KindQuiz:
		if r.Quiz != nil {
			return r.Quiz
		}
	case KindChapterContext:
		if r.ChapterContext != nil {
			return r.ChapterContext
		}
	case KindAlternativeExplanations:
		if r.AlternativeExplanations != nil {
			return r.AlternativeExplanations
		}
	case KindLearningPath:
		if r.LearningPath != nil {
			return r.LearningPath
		}
	}
	return nil
}
