package generation

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/ppetrenko/techvocab-api/internal/domain"
)

// FingerprintInput holds the parameters that determine whether two
// generation requests are equivalent. Word and term order is
// insignificant: inputs are sorted before hashing so that the same set
// of items always produces the same fingerprint.
type FingerprintInput struct {
	TaskKind   domain.TaskKind
	Words      []string
	Terms      []string
	Style      string
	Topic      string
	Difficulty domain.DifficultyLevel
}

// Fingerprint returns a hex-encoded SHA-256 digest of the canonical
// form of the input. The caller's slices are not modified.
func (in FingerprintInput) Fingerprint() string {
	words := append([]string(nil), in.Words...)
	sort.Strings(words)
	terms := append([]string(nil), in.Terms...)
	sort.Strings(terms)

	// \x1f separates fields so that adjacent values cannot collide
	// ("ab"+"c" vs "a"+"bc").
	parts := []string{
		string(in.TaskKind),
		strings.Join(words, "\x1f"),
		strings.Join(terms, "\x1f"),
		in.Style,
		in.Topic,
		string(in.Difficulty),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1e")))
	return hex.EncodeToString(sum[:])
}
