// Package stats aggregates review history and renders it as text.
package stats

import (
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/tuicards/internal/model"
)

// DateLayout is the calendar-day key format used in StudyStats.
const DateLayout = "2006-01-02"

const sparkChars = " .:-=+*#%@"

// DateKey returns the local calendar day of t.
func DateKey(t time.Time) string {
	return t.In(time.Local).Format(DateLayout)
}

// Record folds one review into stats and returns the result. The input is
// not modified.
func Record(s model.StudyStats, ev model.ReviewEvent) model.StudyStats {
	day := DateKey(ev.At)
	out := make(model.StudyStats, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	inner := make(model.DayStats, len(s[day])+1)
	for topic, tally := range s[day] {
		inner[topic] = tally
	}
	tally := inner[ev.Topic]
	tally.Total++
	if ev.Outcome == model.Correct {
		tally.Correct++
	} else {
		tally.Incorrect++
	}
	inner[ev.Topic] = tally
	out[day] = inner
	return out
}

// RecordAll folds a batch of reviews.
func RecordAll(s model.StudyStats, events ...model.ReviewEvent) model.StudyStats {
	for _, ev := range events {
		s = Record(s, ev)
	}
	if s == nil {
		s = model.StudyStats{}
	}
	return s
}

// Merge adds b's counters into a copy of a, keyed by day and topic.
func Merge(a, b model.StudyStats) model.StudyStats {
	out := a.Clone()
	for day, topics := range b {
		inner, ok := out[day]
		if !ok {
			inner = model.DayStats{}
			out[day] = inner
		}
		for topic, tally := range topics {
			inner[topic] = inner[topic].Add(tally)
		}
	}
	return out
}

// Summary is an all-time tally with its rounded accuracy.
type Summary struct {
	Correct    int
	Incorrect  int
	Total      int
	Percentage int
}

// TopicTotals sums a topic's tallies across every day.
func TopicTotals(s model.StudyStats, topic string) Summary {
	var sum model.Tally
	for _, topics := range s {
		sum = sum.Add(topics[topic])
	}
	return summarize(sum)
}

// OverallTotals sums every tally in stats.
func OverallTotals(s model.StudyStats) Summary {
	var sum model.Tally
	for _, topics := range s {
		for _, tally := range topics {
			sum = sum.Add(tally)
		}
	}
	return summarize(sum)
}

// CardTotals sums the per-card counters of a topic.
func CardTotals(cards []model.Card) Summary {
	var sum model.Tally
	for _, c := range cards {
		sum.Correct += c.CorrectCount
		sum.Incorrect += c.IncorrectCount
	}
	sum.Total = sum.Correct + sum.Incorrect
	return summarize(sum)
}

// Percentage returns round(100*correct/total), or 0 when total is 0.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

func summarize(t model.Tally) Summary {
	return Summary{
		Correct:    t.Correct,
		Incorrect:  t.Incorrect,
		Total:      t.Total,
		Percentage: Percentage(t.Correct, t.Total),
	}
}

// DayTotal is the number of reviews on one day.
type DayTotal struct {
	Date  string
	Total int
}

// DailyTotals returns review counts for the last days ending today, oldest first.
func DailyTotals(s model.StudyStats, now time.Time, days int) []DayTotal {
	if days <= 0 {
		return nil
	}
	today := now.In(time.Local)
	out := make([]DayTotal, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(DateLayout)
		total := 0
		for _, tally := range s[date] {
			total += tally.Total
		}
		out = append(out, DayTotal{Date: date, Total: total})
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []int) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := float64(v-minVal) / float64(maxVal-minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
