// Package model defines shared data structures.
package model

import (
	"encoding/json"
	"time"
)

// Outcome is the grade given to a single card review.
type Outcome string

const (
	Correct   Outcome = "correct"
	Incorrect Outcome = "incorrect"
)

// Valid reports whether o is one of the known outcomes.
func (o Outcome) Valid() bool {
	return o == Correct || o == Incorrect
}

// Card is a front/back study item with its mastery state.
type Card struct {
	ID             Label
	Number         Label
	Front          string
	Back           string
	Difficulty     int
	LastStudied    *time.Time
	CorrectCount   int
	IncorrectCount int
}

type cardJSON struct {
	ID             Label  `json:"id"`
	Number         Label  `json:"number"`
	Front          string `json:"front"`
	Back           string `json:"back"`
	Difficulty     int    `json:"difficulty"`
	LastStudied    *int64 `json:"lastStudied"`
	CorrectCount   int    `json:"correctCount"`
	IncorrectCount int    `json:"incorrectCount"`
}

// MarshalJSON encodes lastStudied as epoch milliseconds or null.
func (c Card) MarshalJSON() ([]byte, error) {
	out := cardJSON{
		ID:             c.ID,
		Number:         c.Number,
		Front:          c.Front,
		Back:           c.Back,
		Difficulty:     c.Difficulty,
		CorrectCount:   c.CorrectCount,
		IncorrectCount: c.IncorrectCount,
	}
	if c.LastStudied != nil {
		ms := c.LastStudied.UnixMilli()
		out.LastStudied = &ms
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the export representation of a card.
func (c *Card) UnmarshalJSON(data []byte) error {
	var in cardJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*c = Card{
		ID:             in.ID,
		Number:         in.Number,
		Front:          in.Front,
		Back:           in.Back,
		Difficulty:     in.Difficulty,
		CorrectCount:   in.CorrectCount,
		IncorrectCount: in.IncorrectCount,
	}
	if in.LastStudied != nil {
		t := time.UnixMilli(*in.LastStudied)
		c.LastStudied = &t
	}
	return nil
}

// Studied reports whether the card has been reviewed at least once.
func (c Card) Studied() bool {
	return c.LastStudied != nil
}

// Reviews returns the number of graded answers recorded for the card.
func (c Card) Reviews() int {
	return c.CorrectCount + c.IncorrectCount
}

// ReviewEvent is one graded answer.
type ReviewEvent struct {
	CardID  Label
	Topic   string
	At      time.Time
	Outcome Outcome
}

// Tally counts review outcomes for one topic on one day.
type Tally struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Total     int `json:"total"`
}

// Add returns the sum of two tallies.
func (t Tally) Add(other Tally) Tally {
	return Tally{
		Correct:   t.Correct + other.Correct,
		Incorrect: t.Incorrect + other.Incorrect,
		Total:     t.Total + other.Total,
	}
}

// DayStats maps topic names to tallies for a single calendar day.
type DayStats map[string]Tally

// StudyStats maps calendar days (YYYY-MM-DD, local) to per-topic tallies.
type StudyStats map[string]DayStats

// Clone returns a deep copy of the stats.
func (s StudyStats) Clone() StudyStats {
	out := make(StudyStats, len(s))
	for day, topics := range s {
		inner := make(DayStats, len(topics))
		for topic, tally := range topics {
			inner[topic] = tally
		}
		out[day] = inner
	}
	return out
}
