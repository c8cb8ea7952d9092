// Package recommend ranks topics by how much they need study.
package recommend

import (
	"fmt"
	"io"
	"sort"

	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/stats"
)

// Reason explains why a topic got its priority.
type Reason string

const (
	NeverStudied       Reason = "never studied"
	LowAccuracy        Reason = "low accuracy"
	ManyDifficultCards Reason = "many difficult cards"
	RoomToImprove      Reason = "room to improve"
	DoingWell          Reason = "doing well"
)

// Rule thresholds.
const (
	lowAccuracyBelow   = 50
	goodAccuracyFrom   = 80
	difficultShareOver = 0.3
)

// Recommendation is a ranked suggestion for one topic.
type Recommendation struct {
	Topic          string
	Priority       int
	Reason         Reason
	Detail         string
	Stats          stats.Summary
	Cards          int
	DifficultCards int
}

// Recommend returns one recommendation per topic, highest priority first.
// Topics with equal priority keep collection order.
func Recommend(topics *model.Collection, st model.StudyStats) []Recommendation {
	recs := make([]Recommendation, 0, topics.Len())
	for _, name := range topics.Names() {
		cards, _ := topics.Cards(name)
		recs = append(recs, evaluate(name, cards, stats.TopicTotals(st, name)))
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})
	return recs
}

func evaluate(topic string, cards []model.Card, summary stats.Summary) Recommendation {
	rec := Recommendation{
		Topic:          topic,
		Stats:          summary,
		Cards:          len(cards),
		DifficultCards: stats.CountDifficult(cards),
	}
	difficultShare := 0.0
	if len(cards) > 0 {
		difficultShare = float64(rec.DifficultCards) / float64(len(cards))
	}

	switch {
	case summary.Total == 0:
		rec.Priority, rec.Reason = 10, NeverStudied
		rec.Detail = "not studied yet"
	case summary.Percentage < lowAccuracyBelow:
		rec.Priority, rec.Reason = 9, LowAccuracy
		rec.Detail = fmt.Sprintf("only %d%% correct", summary.Percentage)
	case difficultShare > difficultShareOver:
		rec.Priority, rec.Reason = 7, ManyDifficultCards
		rec.Detail = fmt.Sprintf("%d difficult cards", rec.DifficultCards)
	case summary.Percentage < goodAccuracyFrom:
		rec.Priority, rec.Reason = 5, RoomToImprove
		rec.Detail = fmt.Sprintf("%d%% correct, room to improve", summary.Percentage)
	default:
		rec.Priority, rec.Reason = 3, DoingWell
		rec.Detail = fmt.Sprintf("%d%% correct", summary.Percentage)
	}
	return rec
}

// Render prints recommendations as a table.
func Render(w io.Writer, recs []Recommendation) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "No topics to recommend.")
		return err
	}
	headers := []string{"Priority", "Topic", "Reason", "Detail"}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{fmt.Sprintf("%d", r.Priority), r.Topic, string(r.Reason), r.Detail})
	}
	for _, line := range stats.FormatTable(headers, rows, map[int]bool{0: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
