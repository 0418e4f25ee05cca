package scoring

import (
	"sort"
	"time"

	"peaktrack/internal/stats"
)

// HabitStats are the derived rolling stats recomputed after every habit log.
type HabitStats struct {
	TotalCompletions int
	SuccessRate      float64
	CurrentStreak    int
	HealthScore      float64
}

// ComputeHabitStats derives stats from the habit's completed log dates.
// The habit streak tolerates gaps of up to two days between consecutive
// completions; this is deliberately looser than the check-in streak, which
// demands day-to-day continuity.
func ComputeHabitStats(completedDates []time.Time, targetDaysPerWeek int, createdAt, today time.Time) HabitStats {
	var s HabitStats
	s.TotalCompletions = len(completedDates)

	// Success rate over the trailing 30 days against the frequency rule.
	thirtyDaysAgo := today.AddDate(0, 0, -30)
	recent := 0
	for _, d := range completedDates {
		if !d.Before(thirtyDaysAgo) {
			recent++
		}
	}
	expectedDays := min(targetDaysPerWeek*4, 30)
	s.SuccessRate = stats.Round1(min(float64(recent)/float64(max(expectedDays, 1)), 1.0) * 100)

	if len(completedDates) > 0 {
		dates := make([]time.Time, len(completedDates))
		copy(dates, completedDates)
		sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

		streak := 1
		for i := 1; i < len(dates); i++ {
			if daysBetween(dates[i-1], dates[i]) <= 2 {
				streak++
			} else {
				break
			}
		}
		s.CurrentStreak = streak
	}

	durationFactor := min(float64(daysBetween(today, createdAt))/30.0, 3.0) / 3.0
	s.HealthScore = stats.Round1(s.SuccessRate / 100 * durationFactor * 100)

	return s
}
