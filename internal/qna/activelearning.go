package qna

import (
	"math"

	"github.com/aretw0/waterfall/pkg/domain"
)

// Thresholds of the low score variation filter, on a 0-100 scale.
const (
	PreviousLowScoreVariationMultiplier = 0.7
	MaxLowScoreVariationMultiplier      = 1.0
	MaxScoreForLowScoreVariation        = 95.0
	MinScoreForLowScoreVariation        = 20.0
)

// LowScoreVariation keeps the answers whose scores are too close to the top
// answer to pick one with confidence. Results must be sorted by descending score.
// A single survivor means the top answer is unambiguous.
func LowScoreVariation(results []domain.QueryResult) []domain.QueryResult {
	if len(results) <= 1 {
		return results
	}

	top := results[0].Score * 100
	if top > MaxScoreForLowScoreVariation {
		return results[:1]
	}
	if top <= MinScoreForLowScoreVariation {
		return nil
	}

	filtered := []domain.QueryResult{results[0]}
	prev := top
	for _, r := range results[1:] {
		cur := r.Score * 100
		if includeForClustering(prev, cur, PreviousLowScoreVariationMultiplier) &&
			includeForClustering(top, cur, MaxLowScoreVariationMultiplier) {
			prev = cur
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func includeForClustering(prev, cur, multiplier float64) bool {
	return prev-cur < multiplier*math.Sqrt(prev)
}
