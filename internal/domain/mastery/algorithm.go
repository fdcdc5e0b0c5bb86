// Package mastery implements the pure mastery-update algorithm: how a
// per-(user, item) record evolves after a graded attempt. The function
// here has no I/O; persistence of the returned record is the caller's
// responsibility, inside the same transaction as the attempt log.
package mastery

import (
	"time"

	"github.com/ppetrenko/techvocab-api/internal/domain"
)

// ApplyOutcome returns a copy of the record updated for one graded
// attempt. Success raises the mastery level and the ease factor;
// failure lowers only the ease factor, asymmetrically harder than the
// success gain. Binary-choice kinds move in larger steps than
// multi-item kinds. All bounded fields are clamped at mutation time.
//
// The score (normalized [0,1]) only influences the advisory scheduling
// fields: interval level advances when the score clears the threshold,
// and the next review date stretches with both the interval table and
// the ease factor.
func ApplyOutcome(
	record *domain.MasteryRecord,
	kind domain.TaskKind,
	successful bool,
	score float64,
	now time.Time,
	params *Params,
) *domain.MasteryRecord {
	updated := *record

	levelDelta, easeGain, easePenalty := deltasFor(kind, params)

	if successful {
		updated.MasteryLevel = clamp(record.MasteryLevel+levelDelta, params.MinMasteryLevel, params.MaxMasteryLevel)
		updated.EaseFactor = clamp(record.EaseFactor+easeGain, params.MinEaseFactor, params.MaxEaseFactor)
	} else {
		updated.EaseFactor = clamp(record.EaseFactor-easePenalty, params.MinEaseFactor, params.MaxEaseFactor)
	}

	updated.LastReviewed = now
	if score >= params.IntervalScoreThreshold {
		updated.IntervalLevel = record.IntervalLevel + 1
	}
	updated.NextReviewDate = nextReviewDate(updated.IntervalLevel, updated.EaseFactor, score, now, params)
	updated.UpdatedAt = now

	return &updated
}

func deltasFor(kind domain.TaskKind, params *Params) (level, easeGain, easePenalty float64) {
	if kind.BinaryChoice() {
		return params.BinarySuccessLevelDelta, params.BinarySuccessEaseDelta, params.BinaryFailureEaseDelta
	}
	return params.MultiSuccessLevelDelta, params.MultiSuccessEaseDelta, params.MultiFailureEaseDelta
}

// nextReviewDate computes the advisory next-review timestamp. Level 0
// reviews come back the next day; otherwise the base interval from the
// step table is stretched by the ease factor and widened by the score.
// Nothing in the system schedules off this value.
func nextReviewDate(intervalLevel int, easeFactor, score float64, now time.Time, params *Params) time.Time {
	if intervalLevel == 0 || len(params.IntervalStepDays) == 0 {
		return now.AddDate(0, 0, 1)
	}

	step := intervalLevel - 1
	if step >= len(params.IntervalStepDays) {
		step = len(params.IntervalStepDays) - 1
	}

	days := float64(params.IntervalStepDays[step]) * easeFactor * (0.8 + score*0.4)
	return now.Add(time.Duration(days * 24 * float64(time.Hour)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
