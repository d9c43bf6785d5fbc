package recommendation

import (
	"smartShop/domain"
	"sort"
)

const maxTopCategories = 3

// actionWeight is the per-action multiplier. Unrecognized kinds count as a
// view; the recording boundary rejects them, the scorer stays permissive.
func actionWeight(action string) int {
	switch action {
	case domain.ActionPurchase:
		return 3
	case domain.ActionAddToCart:
		return 2
	default:
		return 1
	}
}

// TopCategories computes weighted category affinities over a recency-ordered
// event list (most recent first) and returns at most three category names,
// strongest first. Recent events weigh more: position weight is
// max(1, 10 - index/10), multiplied by the action weight. Ties keep
// first-appearance order. An empty input is "no preference signal" and
// yields an empty result, not an error.
func TopCategories(events []domain.InteractionEvent) []string {
	scores := make(map[string]int)
	firstSeen := make(map[string]int)

	for i, ev := range events {
		if ev.Category == "" {
			continue
		}

		weight := 10 - i/10
		if weight < 1 {
			weight = 1
		}

		if _, ok := firstSeen[ev.Category]; !ok {
			firstSeen[ev.Category] = i
		}
		scores[ev.Category] += weight * actionWeight(ev.ActionType)
	}

	categories := make([]string, 0, len(scores))
	for cat := range scores {
		categories = append(categories, cat)
	}

	sort.Slice(categories, func(i, j int) bool {
		si, sj := scores[categories[i]], scores[categories[j]]
		if si != sj {
			return si > sj
		}
		return firstSeen[categories[i]] < firstSeen[categories[j]]
	})

	if len(categories) > maxTopCategories {
		categories = categories[:maxTopCategories]
	}

	return categories
}
