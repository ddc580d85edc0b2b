package stats

import (
	"sort"

	"github.com/verte-zerg/wpmtest/internal/model"
)

// WeakestChars returns up to top aggregates ordered by lowest accuracy.
// Characters that were never mistyped are left out.
func WeakestChars(aggs []model.CharAggregate, top int) []model.CharAggregate {
	candidates := make([]model.CharAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Incorrect > 0 {
			candidates = append(candidates, agg)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai := charAccuracy(candidates[i])
		aj := charAccuracy(candidates[j])
		if ai == aj {
			return candidates[i].Char < candidates[j].Char
		}
		return ai < aj
	})
	if top > 0 && top < len(candidates) {
		candidates = candidates[:top]
	}
	return candidates
}

func charAccuracy(agg model.CharAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
