package mastery

// Params defines all tunable values of the mastery update algorithm.
// The defaults reproduce the production grading policy; tests may
// construct variants to probe edge behavior.
type Params struct {
	// Bounds enforced on every mutation.
	MinMasteryLevel float64
	MaxMasteryLevel float64
	MinEaseFactor   float64
	MaxEaseFactor   float64

	// Deltas for binary-choice kinds (one answer, one reference).
	BinarySuccessLevelDelta float64
	BinarySuccessEaseDelta  float64
	BinaryFailureEaseDelta  float64

	// Deltas for multi-item kinds (accuracy over many items).
	MultiSuccessLevelDelta float64
	MultiSuccessEaseDelta  float64
	MultiFailureEaseDelta  float64

	// IntervalStepDays is the base review interval per interval level,
	// scaled by the ease factor when computing the advisory next
	// review date. Levels beyond the table reuse the last entry.
	IntervalStepDays []int

	// IntervalScoreThreshold is the minimum attempt score that advances
	// the interval level.
	IntervalScoreThreshold float64
}

// NewDefaultParams returns the production parameter set.
func NewDefaultParams() *Params {
	return &Params{
		MinMasteryLevel: 0,
		MaxMasteryLevel: 100,
		MinEaseFactor:   1.3,
		MaxEaseFactor:   3.0,

		BinarySuccessLevelDelta: 10,
		BinarySuccessEaseDelta:  0.1,
		BinaryFailureEaseDelta:  0.2,

		MultiSuccessLevelDelta: 5,
		MultiSuccessEaseDelta:  0.05,
		MultiFailureEaseDelta:  0.1,

		IntervalStepDays:       []int{1, 3, 7, 14, 30},
		IntervalScoreThreshold: 0.8,
	}
}
