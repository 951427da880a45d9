package quiz

import (
	"math"
	"sort"
	"time"
)

type UserStats struct {
	Username          string         `json:"username"`
	AttemptCount      int            `json:"attempt_count"`
	AveragePercentage float64        `json:"average_percentage"`
	BestPercentage    float64        `json:"best_percentage"`
	CurrentStreak     int            `json:"current_streak"`
	LongestStreak     int            `json:"longest_streak"`
	LastAttemptAt     *time.Time     `json:"last_attempt_at,omitempty"`
	Bands             map[string]int `json:"bands"`
}

// ComputeStats aggregates attempts into dashboard numbers. Streaks count
// consecutive UTC calendar days with at least one attempt; the current streak
// is zero unless the latest attempt day is today or yesterday.
func ComputeStats(username string, attempts []AttemptSummary, now time.Time) UserStats {
	stats := UserStats{
		Username: username,
		Bands: map[string]int{
			BandExcellent: 0,
			BandGood:      0,
			BandFair:      0,
			BandNeedsWork: 0,
		},
	}
	if len(attempts) == 0 {
		return stats
	}

	total := 0.0
	days := make(map[time.Time]struct{}, len(attempts))
	var last time.Time
	for _, attempt := range attempts {
		stats.AttemptCount++
		total += attempt.Percentage
		if attempt.Percentage > stats.BestPercentage {
			stats.BestPercentage = attempt.Percentage
		}
		stats.Bands[ScoreBand(attempt.Percentage)]++
		if attempt.SubmittedAt.After(last) {
			last = attempt.SubmittedAt
		}
		days[utcDay(attempt.SubmittedAt)] = struct{}{}
	}
	stats.AveragePercentage = roundTwo(total / float64(stats.AttemptCount))
	lastCopy := last.UTC()
	stats.LastAttemptAt = &lastCopy

	ordered := make([]time.Time, 0, len(days))
	for day := range days {
		ordered = append(ordered, day)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	run := 1
	stats.LongestStreak = 1
	for idx := 1; idx < len(ordered); idx++ {
		if ordered[idx-1].AddDate(0, 0, 1).Equal(ordered[idx]) {
			run++
		} else {
			run = 1
		}
		if run > stats.LongestStreak {
			stats.LongestStreak = run
		}
	}

	today := utcDay(now)
	latest := ordered[len(ordered)-1]
	if latest.Equal(today) || latest.AddDate(0, 0, 1).Equal(today) {
		stats.CurrentStreak = 1
		for idx := len(ordered) - 1; idx > 0; idx-- {
			if !ordered[idx-1].AddDate(0, 0, 1).Equal(ordered[idx]) {
				break
			}
			stats.CurrentStreak++
		}
	}

	return stats
}

func utcDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func roundTwo(v float64) float64 {
	return math.Round(v*100) / 100
}
