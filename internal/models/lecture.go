package models

// Summary is the structured lecture summary.
type Summary struct {
	HighLevel string    `json:"high_level"`
	Sections  []Section `json:"sections"`
}

// Section is one titled group of summary bullets.
type Section struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

// Importance labels for glossary entries.
const (
	ImportanceHigh   = "high"
	ImportanceMedium = "medium"
	ImportanceLow    = "low"
)

// GlossaryEntry is a single term with its definition.
type GlossaryEntry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Importance string `json:"importance"`
}

// Question types.
const (
	QuestionMCQ   = "mcq"
	QuestionShort = "short"
)

// Difficulty levels.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// QuestionItem is one quiz question. Choices is set only for mcq items and
// then holds exactly four options.
type QuestionItem struct {
	Type       string   `json:"type"`
	Stem       string   `json:"stem"`
	Choices    []string `json:"choices,omitempty"`
	Answer     string   `json:"answer"`
	Rationale  string   `json:"rationale"`
	Difficulty string   `json:"difficulty"`
}

// PipelineResult aggregates the output of the three generation stages.
type PipelineResult struct {
	Summary   Summary         `json:"summary"`
	Glossary  []GlossaryEntry `json:"glossary"`
	Questions []QuestionItem  `json:"questions"`
}
