package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppetrenko/techvocab-api/internal/domain"
)

func TestFingerprintOrderInsensitive(t *testing.T) {
	t.Parallel()

	a := FingerprintInput{
		TaskKind:   domain.TaskKindEmailStructure,
		Words:      []string{"deploy", "rollback", "merge"},
		Terms:      []string{"CI", "artifact"},
		Style:      "formal",
		Topic:      "project update",
		Difficulty: domain.DifficultyIntermediate,
	}
	b := a
	b.Words = []string{"merge", "deploy", "rollback"}
	b.Terms = []string{"artifact", "CI"}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprintDistinguishesInputs(t *testing.T) {
	t.Parallel()

	base := FingerprintInput{
		TaskKind:   domain.TaskKindChatDialog,
		Words:      []string{"deploy", "merge"},
		Difficulty: domain.DifficultyBasic,
	}

	tests := []struct {
		name   string
		mutate func(in FingerprintInput) FingerprintInput
	}{
		{
			name: "different words",
			mutate: func(in FingerprintInput) FingerprintInput {
				in.Words = []string{"deploy", "rollback"}
				return in
			},
		},
		{
			name: "different task kind",
			mutate: func(in FingerprintInput) FingerprintInput {
				in.TaskKind = domain.TaskKindEmailStructure
				return in
			},
		},
		{
			name: "different difficulty",
			mutate: func(in FingerprintInput) FingerprintInput {
				in.Difficulty = domain.DifficultyAdvanced
				return in
			},
		},
		{
			name: "different topic",
			mutate: func(in FingerprintInput) FingerprintInput {
				in.Topic = "standup"
				return in
			},
		},
		{
			name: "word moved between fields",
			mutate: func(in FingerprintInput) FingerprintInput {
				in.Words = []string{"deploy"}
				in.Terms = []string{"merge"}
				return in
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.NotEqual(t, base.Fingerprint(), tc.mutate(base).Fingerprint())
		})
	}
}

func TestFingerprintDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := FingerprintInput{
		TaskKind: domain.TaskKindChatDialog,
		Words:    []string{"z", "a", "m"},
	}
	in.Fingerprint()

	assert.Equal(t, []string{"z", "a", "m"}, in.Words)
}
