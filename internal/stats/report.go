package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/tuicards/internal/model"
)

// TopicRow is one line of the per-topic report.
type TopicRow struct {
	Topic     string
	Cards     int
	Difficult int
	Summary   Summary
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Overall Summary
	Today   Summary
	Daily   []DayTotal
	Topics  []TopicRow
	Busiest []string
}

// BuildReport prepares data for stats rendering.
func BuildReport(topics *model.Collection, s model.StudyStats, now time.Time, days int) Report {
	var today model.Tally
	for _, tally := range s[DateKey(now)] {
		today = today.Add(tally)
	}
	report := Report{
		Overall: OverallTotals(s),
		Today:   summarize(today),
		Daily:   DailyTotals(s, now, days),
		Busiest: MostStudiedTopics(s, 3),
	}
	for _, name := range topics.Names() {
		cards, _ := topics.Cards(name)
		report.Topics = append(report.Topics, TopicRow{
			Topic:     name,
			Cards:     len(cards),
			Difficult: CountDifficult(cards),
			Summary:   TopicTotals(s, name),
		})
	}
	return report
}

// TopicTableLines formats the per-topic rows.
func TopicTableLines(rows []TopicRow) []string {
	headers := []string{"Topic", "Cards", "Difficult", "Correct", "Incorrect", "Accuracy"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		acc := "-"
		if r.Summary.Total > 0 {
			acc = fmt.Sprintf("%d%%", r.Summary.Percentage)
		}
		tableRows = append(tableRows, []string{
			r.Topic,
			fmt.Sprintf("%d", r.Cards),
			fmt.Sprintf("%d", r.Difficult),
			fmt.Sprintf("%d", r.Summary.Correct),
			fmt.Sprintf("%d", r.Summary.Incorrect),
			acc,
		})
	}
	return FormatTable(headers, tableRows, map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true})
}

// RenderSummary prints overall totals and the per-topic table.
func RenderSummary(w io.Writer, report Report) error {
	if len(report.Topics) == 0 {
		_, err := fmt.Fprintln(w, "No topics found.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Reviews: %d  Correct: %d  Incorrect: %d  Accuracy: %d%%\n",
		report.Overall.Total, report.Overall.Correct, report.Overall.Incorrect, report.Overall.Percentage); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Today: %d reviews\n\n", report.Today.Total); err != nil {
		return err
	}
	for _, line := range TopicTableLines(report.Topics) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
