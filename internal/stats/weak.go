package stats

import (
	"sort"

	"github.com/verte-zerg/tuicards/internal/model"
)

// DifficultThreshold is the difficulty above which a card counts as difficult.
const DifficultThreshold = 2

// IsDifficult reports whether a card needs extra review.
func IsDifficult(c model.Card) bool {
	return c.Difficulty > DifficultThreshold
}

// CountDifficult returns how many cards are difficult.
func CountDifficult(cards []model.Card) int {
	n := 0
	for _, c := range cards {
		if IsDifficult(c) {
			n++
		}
	}
	return n
}

// HardestCards selects up to top difficult cards, hardest first. Cards of
// equal difficulty are ordered by lowest accuracy, then topic order.
func HardestCards(cards []model.Card, top int) []model.Card {
	candidates := make([]model.Card, 0, len(cards))
	for _, c := range cards {
		if IsDifficult(c) {
			candidates = append(candidates, c)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Difficulty != candidates[j].Difficulty {
			return candidates[i].Difficulty > candidates[j].Difficulty
		}
		return accuracy(candidates[i]) < accuracy(candidates[j])
	})
	if top > 0 && top < len(candidates) {
		candidates = candidates[:top]
	}
	return candidates
}

func accuracy(c model.Card) float64 {
	total := c.Reviews()
	if total == 0 {
		return 1.0
	}
	return float64(c.CorrectCount) / float64(total)
}
