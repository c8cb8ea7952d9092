// Package transfer reads and writes the JSON export document.
package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/verte-zerg/tuicards/internal/deck"
	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/schedule"
	"github.com/verte-zerg/tuicards/internal/stats"
)

// Policy selects how an import combines with existing data.
type Policy int

const (
	// Replace discards existing topics and stats.
	Replace Policy = iota
	// Merge appends imported cards to existing topics and adds stats together.
	Merge
)

func (p Policy) String() string {
	if p == Merge {
		return "merge"
	}
	return "replace"
}

// Document is the export file layout.
type Document struct {
	Topics *model.Collection `json:"topics"`
	Stats  model.StudyStats  `json:"stats"`
}

// FileName returns the default export file name for day.
func FileName(day time.Time) string {
	return "tarjetas-estudio-" + day.Format(stats.DateLayout) + ".json"
}

// Export encodes topics and stats indented by two spaces.
func Export(topics *model.Collection, st model.StudyStats) ([]byte, error) {
	if topics == nil {
		topics = model.NewCollection()
	}
	if st == nil {
		st = model.StudyStats{}
	}
	data, err := json.MarshalIndent(Document{Topics: topics, Stats: st}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses and validates an import payload. A payload without a
// "topics" key is read as a bare topics object.
func Decode(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Document{}, &model.ImportFormatError{Reason: "payload is not a JSON object"}
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return Document{}, &model.ImportFormatError{Reason: "malformed JSON", Err: err}
	}

	doc := Document{Topics: model.NewCollection(), Stats: model.StudyStats{}}
	rawTopics, wrapped := top["topics"]
	if !wrapped {
		rawTopics = trimmed
	}
	if isNull(rawTopics) {
		return Document{}, &model.ImportFormatError{Reason: "topics is null"}
	}
	if err := json.Unmarshal(rawTopics, doc.Topics); err != nil {
		return Document{}, &model.ImportFormatError{Reason: "invalid topics", Err: err}
	}
	if rawStats, ok := top["stats"]; wrapped && ok && !isNull(rawStats) {
		if err := json.Unmarshal(rawStats, &doc.Stats); err != nil {
			return Document{}, &model.ImportFormatError{Reason: "invalid stats", Err: err}
		}
	}
	if err := validateTopics(doc.Topics); err != nil {
		return Document{}, err
	}
	if err := validateStats(doc.Stats); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Import combines doc with the current data under policy. Inputs are not
// modified. Under Merge, incoming cards whose id is already taken in the
// topic get a new id.
func Import(topics *model.Collection, st model.StudyStats, doc Document, policy Policy) (*model.Collection, model.StudyStats) {
	if policy == Replace {
		return doc.Topics.Clone(), doc.Stats.Clone()
	}
	merged := topics.Clone()
	for _, name := range doc.Topics.Names() {
		incoming, _ := doc.Topics.Cards(name)
		existing, _ := merged.Cards(name)
		seen := make(map[string]struct{}, len(existing)+len(incoming))
		for _, card := range existing {
			seen[card.ID.String()] = struct{}{}
		}
		assignIDs(incoming, seen)
		merged.Set(name, append(existing, incoming...))
	}
	return merged, stats.Merge(st, doc.Stats)
}

// assignIDs gives a new id to every card whose id is empty or already in
// seen, and records the ids it keeps. It reports whether any card changed.
func assignIDs(cards []model.Card, seen map[string]struct{}) bool {
	changed := false
	for i := range cards {
		key := cards[i].ID.String()
		if _, dup := seen[key]; dup || cards[i].ID.IsZero() {
			cards[i].ID = deck.NewID()
			key = cards[i].ID.String()
			changed = true
		}
		seen[key] = struct{}{}
	}
	return changed
}

func validateTopics(c *model.Collection) error {
	for _, name := range c.Names() {
		cards, _ := c.Cards(name)
		for i, card := range cards {
			if card.Difficulty < schedule.MinDifficulty || card.Difficulty > schedule.MaxDifficulty {
				return &model.ImportFormatError{Reason: fmt.Sprintf("topic %q card %d: difficulty %d out of range", name, i, card.Difficulty)}
			}
			if card.CorrectCount < 0 || card.IncorrectCount < 0 {
				return &model.ImportFormatError{Reason: fmt.Sprintf("topic %q card %d: negative answer count", name, i)}
			}
		}
		if assignIDs(cards, map[string]struct{}{}) {
			c.Set(name, cards)
		}
	}
	return nil
}

func validateStats(st model.StudyStats) error {
	for day, topics := range st {
		if _, err := time.Parse(stats.DateLayout, day); err != nil {
			return &model.ImportFormatError{Reason: fmt.Sprintf("stats date %q", day), Err: err}
		}
		for topic, t := range topics {
			if t.Correct < 0 || t.Incorrect < 0 || t.Total != t.Correct+t.Incorrect {
				return &model.ImportFormatError{Reason: fmt.Sprintf("stats %s/%q: inconsistent tally", day, topic)}
			}
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
