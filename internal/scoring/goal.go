package scoring

import (
	"time"

	"peaktrack/internal/stats"
)

// GoalScore = progress (capped at 1.0) x priority weight x consistency factor
// x 100. The consistency factor compares actual progress against the elapsed
// share of the timeline, capped at 1.5, and only applies when a deadline
// exists and time has elapsed.
func GoalScore(currentValue, targetValue, priorityWeight float64, startDate time.Time, deadline *time.Time, today time.Time) float64 {
	var progress float64
	if targetValue > 0 {
		progress = min(currentValue/targetValue, 1.0)
	}

	consistencyFactor := 1.0
	if deadline != nil {
		totalDays := daysBetween(*deadline, startDate)
		elapsedDays := daysBetween(today, startDate)
		if totalDays > 0 && elapsedDays > 0 {
			expected := float64(elapsedDays) / float64(totalDays)
			if expected > 0 {
				consistencyFactor = min(progress/expected, 1.5)
			}
		}
	}

	return stats.Round1(progress * priorityWeight * consistencyFactor * 100)
}

// SuccessProbability estimates the chance of completing the goal. Completed
// goals are a certainty; without a deadline it is a flat projection of
// progress; with one it is a pace-adjusted projection bounded to [5,99].
func SuccessProbability(status string, currentValue, targetValue float64, startDate time.Time, deadline *time.Time, today time.Time) float64 {
	if status == "completed" {
		return 100.0
	}
	if targetValue <= 0 {
		return 50.0
	}

	progress := currentValue / targetValue

	if deadline == nil {
		return stats.Round1(progress * 80)
	}

	daysRemaining := daysBetween(*deadline, today)
	totalDays := daysBetween(*deadline, startDate)

	if daysRemaining <= 0 {
		return stats.Round1(progress * 100)
	}
	if totalDays <= 0 {
		return 50.0
	}

	timeRatio := float64(daysRemaining) / float64(totalDays)
	pace := progress / max(1-timeRatio, 0.01)

	probability := min(pace*70+progress*30, 99)
	return stats.Round1(max(probability, 5))
}

// ProgressPercentage is current/target capped at 100, and 0 for a
// non-positive target.
func ProgressPercentage(currentValue, targetValue float64) float64 {
	if targetValue <= 0 {
		return 0
	}
	return stats.Round1(min(currentValue/targetValue*100, 100))
}

func daysBetween(a, b time.Time) int {
	return int(a.Sub(b).Hours() / 24)
}
