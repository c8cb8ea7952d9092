package stats

import (
	"sort"

	"github.com/verte-zerg/tuicards/internal/model"
)

// MostStudiedTopics returns the top n topics by all-time review count.
func MostStudiedTopics(s model.StudyStats, n int) []string {
	if n <= 0 || len(s) == 0 {
		return nil
	}
	totals := map[string]int{}
	for _, topics := range s {
		for topic, tally := range topics {
			totals[topic] += tally.Total
		}
	}
	type item struct {
		topic string
		total int
	}
	items := make([]item, 0, len(totals))
	for topic, total := range totals {
		if total == 0 {
			continue
		}
		items = append(items, item{topic: topic, total: total})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].total == items[j].total {
			return items[i].topic < items[j].topic
		}
		return items[i].total > items[j].total
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].topic)
	}
	return out
}
