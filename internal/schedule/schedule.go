// Package schedule contains the difficulty model and study queue ordering.
package schedule

import (
	"sort"
	"time"

	"github.com/verte-zerg/tuicards/internal/model"
)

const (
	// MinDifficulty and MaxDifficulty bound Card.Difficulty.
	MinDifficulty = -5
	MaxDifficulty = 10

	// NeverStudiedBoost is added to the priority of cards that were never reviewed.
	// It equals the difficulty ceiling, so unseen cards rank with the hardest studied ones.
	NeverStudiedBoost = 10.0

	// RecencyWeight is the priority gained per day since the last review.
	RecencyWeight = 0.5

	correctStep   = 1
	incorrectStep = 2
)

// ApplyOutcome returns the card after one graded review at now. Misses move
// difficulty up twice as fast as hits move it down.
func ApplyOutcome(card model.Card, outcome model.Outcome, now time.Time) model.Card {
	next := card
	if outcome == model.Correct {
		next.Difficulty = clamp(card.Difficulty - correctStep)
		next.CorrectCount++
	} else {
		next.Difficulty = clamp(card.Difficulty + incorrectStep)
		next.IncorrectCount++
	}
	studied := now.Truncate(time.Millisecond)
	next.LastStudied = &studied
	return next
}

// Priority scores how urgently a card should be studied at now.
func Priority(card model.Card, now time.Time) float64 {
	priority := float64(card.Difficulty)
	if card.LastStudied == nil {
		return priority + NeverStudiedBoost
	}
	return priority + DaysSince(*card.LastStudied, now)*RecencyWeight
}

// DaysSince returns the fractional number of days between then and now.
func DaysSince(then, now time.Time) float64 {
	return now.Sub(then).Hours() / 24
}

// Entry is a queued card with its computed priority.
type Entry struct {
	Card     model.Card
	Priority float64
}

// Queue is a study order for one session.
type Queue []Entry

// BuildQueue orders cards by descending priority. Cards with equal priority
// keep their topic order.
func BuildQueue(cards []model.Card, now time.Time) Queue {
	queue := make(Queue, 0, len(cards))
	for _, card := range cards {
		if card.LastStudied != nil {
			t := *card.LastStudied
			card.LastStudied = &t
		}
		queue = append(queue, Entry{Card: card, Priority: Priority(card, now)})
	}
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].Priority > queue[j].Priority
	})
	return queue
}

// Cards returns the queued cards in order.
func (q Queue) Cards() []model.Card {
	out := make([]model.Card, len(q))
	for i, e := range q {
		out[i] = e.Card
	}
	return out
}

func clamp(d int) int {
	if d < MinDifficulty {
		return MinDifficulty
	}
	if d > MaxDifficulty {
		return MaxDifficulty
	}
	return d
}
