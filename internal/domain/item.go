package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItemKind distinguishes the two catalog item families a user can practice.
type ItemKind string

// Possible item kinds.
const (
	ItemKindWord ItemKind = "word"
	ItemKindTerm ItemKind = "term"
)

// Valid reports whether the item kind is one of the supported values.
func (k ItemKind) Valid() bool {
	return k == ItemKindWord || k == ItemKindTerm
}

// DifficultyLevel grades catalog items and generated content.
type DifficultyLevel string

// Possible difficulty levels, ordered from easiest to hardest.
const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyBasic        DifficultyLevel = "basic"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
)

// DifficultyLevels lists all supported difficulty levels.
var DifficultyLevels = []DifficultyLevel{
	DifficultyBeginner,
	DifficultyBasic,
	DifficultyIntermediate,
	DifficultyAdvanced,
}

// Valid reports whether the difficulty level is one of the supported values.
func (d DifficultyLevel) Valid() bool {
	for _, level := range DifficultyLevels {
		if d == level {
			return true
		}
	}
	return false
}

// WordType is the grammatical category of a catalog word.
type WordType string

// Possible word types.
const (
	WordTypeNoun         WordType = "noun"
	WordTypeVerb         WordType = "verb"
	WordTypeAdjective    WordType = "adjective"
	WordTypeAdverb       WordType = "adverb"
	WordTypePhrasalVerb  WordType = "phrasal_verb"
	WordTypeCommonPhrase WordType = "common_phrase"
)

// WordTypes lists all supported word types.
var WordTypes = []WordType{
	WordTypeNoun,
	WordTypeVerb,
	WordTypeAdjective,
	WordTypeAdverb,
	WordTypePhrasalVerb,
	WordTypeCommonPhrase,
}

// Valid reports whether the word type is one of the supported values.
func (t WordType) Valid() bool {
	for _, wt := range WordTypes {
		if t == wt {
			return true
		}
	}
	return false
}

// Word is a general-vocabulary catalog entry with its translation and
// an optional usage context sentence.
type Word struct {
	ID                 uuid.UUID       `json:"id"`
	Word               string          `json:"word"`
	Translation        string          `json:"translation"`
	Context            string          `json:"context,omitempty"`
	ContextTranslation string          `json:"context_translation,omitempty"`
	WordType           WordType        `json:"word_type"`
	Difficulty         DifficultyLevel `json:"difficulty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// Term is a technical-term catalog entry with bilingual definitions.
type Term struct {
	ID                 uuid.UUID       `json:"id"`
	Term               string          `json:"term"`
	PrimaryTranslation string          `json:"primary_translation"`
	CategoryMain       string          `json:"category_main"`
	CategorySub        string          `json:"category_sub,omitempty"`
	Difficulty         DifficultyLevel `json:"difficulty"`
	DefinitionEN       string          `json:"definition_en"`
	DefinitionRU       string          `json:"definition_ru"`
	ExampleEN          string          `json:"example_en,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// ItemRef identifies a catalog item together with its kind. Task state
// carries these so a graded attempt can be attributed to the right
// mastery record.
type ItemRef struct {
	ID   uuid.UUID `json:"id"`
	Kind ItemKind  `json:"kind"`
}
