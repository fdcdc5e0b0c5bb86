package tasks

import "github.com/ppetrenko/techvocab-api/internal/domain"

// Game score weights for the matching variant. The base time budget is
// five seconds per pair; multipliers reward finishing inside it and
// penalize running past double.
const (
	pointsPerPair      = 10
	secondsPerPair     = 5.0
	levelBonusPerLevel = 0.2
)

// CalculateMatchingScore computes the composite game score for a
// finished matching round. It is a separate axis from the pass/fail
// mastery result: a round can clear the accuracy gate and still score
// low, or vice versa.
func CalculateMatchingScore(
	correctPairs, totalPairs, wrongAttempts, level int,
	timeSpentSeconds float64,
) domain.MatchingScore {
	base := float64(correctPairs * pointsPerPair)

	score := domain.MatchingScore{
		BaseScore:          base,
		TimeMultiplier:     timeMultiplier(totalPairs, timeSpentSeconds),
		LevelMultiplier:    1 + float64(level)*levelBonusPerLevel,
		AccuracyMultiplier: accuracyMultiplier(wrongAttempts, totalPairs),
	}
	score.FinalScore = base * score.TimeMultiplier * score.LevelMultiplier * score.AccuracyMultiplier
	return score
}

// timeMultiplier grades elapsed time against the budget of five
// seconds per pair.
func timeMultiplier(totalPairs int, timeSpentSeconds float64) float64 {
	budget := float64(totalPairs) * secondsPerPair
	switch {
	case timeSpentSeconds <= budget:
		return 1.5
	case timeSpentSeconds <= budget*1.5:
		return 1.25
	case timeSpentSeconds <= budget*2:
		return 1.0
	default:
		return 0.75
	}
}

// accuracyMultiplier grades the error rate of wrong pairing attempts.
func accuracyMultiplier(wrongAttempts, totalPairs int) float64 {
	if totalPairs <= 0 {
		return 0.75
	}
	errorRate := float64(wrongAttempts) / float64(totalPairs)
	switch {
	case errorRate == 0:
		return 1.5
	case errorRate <= 0.2:
		return 1.25
	case errorRate <= 0.4:
		return 1.0
	default:
		return 0.75
	}
}
