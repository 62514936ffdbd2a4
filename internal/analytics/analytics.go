package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"wellness-chatter/internal/storage"
)

// DailyStats aggregates one UTC day of message events.
type DailyStats struct {
	Date            string         `json:"date"`
	TotalMessages   int            `json:"total_messages"`
	UniqueChats     int            `json:"unique_chats"`
	CrisisCount     int            `json:"crisis_count"`
	RetrievalCount  int            `json:"retrieval_count"`
	DegradedCount   int            `json:"degraded_count"`
	Reflections     int            `json:"reflections"`
	AveragePolarity float64        `json:"average_polarity"`
	Labels          map[string]int `json:"labels"`
	Emotions        map[string]int `json:"emotions"`
}

// AnalyzeDailyLogs counts events whose timestamp falls on targetDate.
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:     startOfDay.Format("2006-01-02"),
		Labels:   make(map[string]int),
		Emotions: make(map[string]int),
	}
	chats := make(map[int64]bool)
	var polaritySum float64

	for _, ev := range events {
		if ev.Timestamp.Before(startOfDay) || !ev.Timestamp.Before(endOfDay) {
			continue
		}
		switch ev.Kind {
		case storage.KindReflection:
			stats.Reflections++
			continue
		case storage.KindMessage, "":
		default:
			continue
		}

		stats.TotalMessages++
		chats[ev.ChatID] = true
		polaritySum += ev.Polarity
		if ev.CrisisDetected {
			stats.CrisisCount++
		}
		if ev.UsedRetrieval {
			stats.RetrievalCount++
		}
		if ev.Degraded {
			stats.DegradedCount++
		}
		if ev.Label != "" {
			stats.Labels[ev.Label]++
		}
		for _, e := range ev.Emotions {
			stats.Emotions[e]++
		}
	}

	stats.UniqueChats = len(chats)
	if stats.TotalMessages > 0 {
		stats.AveragePolarity = polaritySum / float64(stats.TotalMessages)
	}
	return stats
}

// RetrievalShare is the fraction of messages answered with guide passages.
func (ds *DailyStats) RetrievalShare() float64 {
	if ds.TotalMessages == 0 {
		return 0
	}
	return float64(ds.RetrievalCount) / float64(ds.TotalMessages)
}

// GenerateReportSummary renders the admin report.
func (ds *DailyStats) GenerateReportSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Wellbeing report for %s\n\n", ds.Date)
	fmt.Fprintf(&b, "Messages: %d\n", ds.TotalMessages)
	fmt.Fprintf(&b, "Conversations: %d\n", ds.UniqueChats)
	fmt.Fprintf(&b, "Crisis responses: %d\n", ds.CrisisCount)
	fmt.Fprintf(&b, "Guide-enhanced replies: %d (%.0f%%)\n", ds.RetrievalCount, 100*ds.RetrievalShare())
	fmt.Fprintf(&b, "Degraded replies: %d\n", ds.DegradedCount)
	fmt.Fprintf(&b, "Reflections sent: %d\n", ds.Reflections)
	fmt.Fprintf(&b, "Average polarity: %.2f\n", ds.AveragePolarity)

	if len(ds.Labels) > 0 {
		b.WriteString("\nMood labels:\n")
		writeCounts(&b, ds.Labels)
	}
	if len(ds.Emotions) > 0 {
		b.WriteString("\nEmotions:\n")
		writeCounts(&b, ds.Emotions)
	}
	return b.String()
}

func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// writeCounts lists entries by descending count, then name.
func writeCounts(b *strings.Builder, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		fmt.Fprintf(b, "- %s: %d\n", k, counts[k])
	}
}
