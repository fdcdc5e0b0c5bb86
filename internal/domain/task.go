package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task is the content handed to a caller for one practice exercise. It
// is a tagged union over task kinds: exactly one content pointer is set,
// matching Kind. Correct answers are never part of the content; they
// stay server-side in the TaskState until an answer comes back.
type Task struct {
	ID        uuid.UUID `json:"id"`
	Kind      TaskKind  `json:"kind"`
	CreatedAt time.Time `json:"created_at"`

	WordTranslation *WordTranslationContent `json:"word_translation,omitempty"`
	TermDefinition  *TermDefinitionContent  `json:"term_definition,omitempty"`
	WordMatching    *WordMatchingContent    `json:"word_matching,omitempty"`
	ChatDialog      *ChatDialogContent      `json:"chat_dialog,omitempty"`
	EmailStructure  *EmailStructureContent  `json:"email_structure,omitempty"`
}

// NewTask creates an empty task shell for the given kind. The handler
// fills in the kind-specific content.
func NewTask(kind TaskKind) *Task {
	return &Task{
		ID:        uuid.New(),
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
}

// WordTranslationContent presents one word with shuffled translation
// options, one of which is correct.
type WordTranslationContent struct {
	Word               string          `json:"word"`
	Options            []string        `json:"options"`
	Context            string          `json:"context,omitempty"`
	ContextTranslation string          `json:"context_translation,omitempty"`
	WordType           WordType        `json:"word_type"`
	Difficulty         DifficultyLevel `json:"difficulty"`
}

// TermOption is one candidate answer in a term-definition task.
type TermOption struct {
	ID          uuid.UUID `json:"id"`
	Term        string    `json:"term"`
	Translation string    `json:"translation"`
}

// TermDefinitionContent presents a definition with shuffled term options.
type TermDefinitionContent struct {
	DefinitionEN string          `json:"definition_en"`
	DefinitionRU string          `json:"definition_ru"`
	Options      []TermOption    `json:"options"`
	Category     string          `json:"category"`
	Difficulty   DifficultyLevel `json:"difficulty"`
}

// MatchEntry is one side of a matching pair.
type MatchEntry struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

// WordMatchingContent presents two independently shuffled columns the
// user pairs up. Entries on both sides share the word's ID.
type WordMatchingContent struct {
	PairsCount   int          `json:"pairs_count"`
	Originals    []MatchEntry `json:"originals"`
	Translations []MatchEntry `json:"translations"`
}

// DialogGap is a fill-in blank inside a dialog message.
type DialogGap struct {
	ID      string   `json:"id"`
	Options []string `json:"options"`
}

// DialogMessage is one turn of a generated chat dialog.
type DialogMessage struct {
	Speaker     string      `json:"speaker"`
	Text        string      `json:"text"`
	Translation string      `json:"translation,omitempty"`
	Gaps        []DialogGap `json:"gaps,omitempty"`
}

// ChatDialogContent presents a generated conversation with gap-fill
// exercises embedded in the user-side messages.
type ChatDialogContent struct {
	Messages  []DialogMessage `json:"messages"`
	UsedWords []string        `json:"used_words"`
	UsedTerms []string        `json:"used_terms"`
	Metrics   map[string]any  `json:"metrics,omitempty"`
}

// EmailBlock is one structural block of a generated email.
type EmailBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// EmailStructureContent presents shuffled email blocks the user orders.
type EmailStructureContent struct {
	Subject    string       `json:"subject,omitempty"`
	Style      string       `json:"style"`
	Topic      string       `json:"topic"`
	Difficulty string       `json:"difficulty"`
	Blocks     []EmailBlock `json:"blocks"`
	UsedWords  []string     `json:"used_words"`
	UsedTerms  []string     `json:"used_terms"`
	Metrics    map[string]any `json:"metrics,omitempty"`
}

// PairResult records per-pair grading detail for a matching task.
type PairResult struct {
	Attempts      int  `json:"attempts"`
	WrongAttempts int  `json:"wrong_attempts"`
	IsCorrect     bool `json:"is_correct"`
}

// MatchingScore is the composite game score for the matching variant,
// kept separate from the pass/fail mastery result.
type MatchingScore struct {
	BaseScore          float64 `json:"base_score"`
	TimeMultiplier     float64 `json:"time_multiplier"`
	LevelMultiplier    float64 `json:"level_multiplier"`
	AccuracyMultiplier float64 `json:"accuracy_multiplier"`
	FinalScore         float64 `json:"final_score"`
}

// Outcome is the graded result of a submitted answer.
type Outcome struct {
	TaskID       uuid.UUID `json:"task_id"`
	Kind         TaskKind  `json:"kind"`
	IsSuccessful bool      `json:"is_successful"`
	Score        float64   `json:"score"` // normalized [0,1]
	CorrectCount int       `json:"correct_count"`
	TotalCount   int       `json:"total_count"`

	// PairStats is set for matching tasks only, keyed by word ID.
	PairStats map[string]PairResult `json:"pair_stats,omitempty"`

	// GameScore is set for the game-scored matching variant only.
	GameScore *MatchingScore `json:"game_score,omitempty"`
}
