// Package scoring holds the deterministic formulas that turn raw check-in
// metrics into normalized 0-100 scores. Everything here is a pure function
// over in-memory data; persistence lives with the handlers.
package scoring

import (
	"peaktrack/internal/models"
	"peaktrack/internal/stats"
)

// ProductivityScore is a weighted sum of deep work, focus, task completion,
// energy and a stepped low-distraction bonus, clamped to [0,100].
//
//	deep work (vs 8h ceiling)  35%
//	focus (1-10)               25%
//	task completion (cap 1.5x) 15%
//	energy (1-10)              15%
//	distraction bonus          10%
func ProductivityScore(l models.DailyLog) float64 {
	deepWork := min(l.DeepWorkHours/8.0, 1.0) * 100

	focus := float64(l.FocusScore) / 10.0 * 100

	var taskRatio float64
	switch {
	case l.TasksPlanned > 0:
		taskRatio = min(float64(l.TasksCompleted)/float64(l.TasksPlanned), 1.5)
	case l.TasksCompleted > 0:
		taskRatio = 0.5
	}
	task := min(taskRatio*100, 100)

	energy := float64(l.EnergyScore) / 10.0 * 100

	var distractionBonus float64
	switch {
	case l.Interruptions <= 2:
		distractionBonus = 100
	case l.Interruptions <= 5:
		distractionBonus = 75
	case l.Interruptions <= 10:
		distractionBonus = 50
	case l.Interruptions <= 15:
		distractionBonus = 25
	default:
		distractionBonus = 10
	}

	score := deepWork*0.35 + focus*0.25 + task*0.15 + energy*0.15 + distractionBonus*0.10
	return stats.Round1(stats.Clamp(score, 0, 100))
}

// EnergyIndex blends self-reported energy, sleep, inverse stress and an
// exercise bonus (capped at 20 points for a full hour) into [0,100].
func EnergyIndex(l models.DailyLog) float64 {
	energyBase := float64(l.EnergyScore) / 10.0 * 100
	sleepFactor := min(l.SleepHours/8.0, 1.0) * 100
	stressPenalty := float64(10-l.StressLevel) / 10.0 * 100
	exerciseBonus := min(float64(l.ExerciseMinutes)/60.0, 1.0) * 20

	index := energyBase*0.40 + sleepFactor*0.30 + stressPenalty*0.20 + exerciseBonus*0.10
	return stats.Round1(stats.Clamp(index, 0, 100))
}

// Max expected standard deviations per dimension; a stdev at or above the
// ceiling maps to zero consistency for that dimension.
const (
	maxScoreStdev = 30.0
	maxSleepStdev = 3.0
	maxWorkStdev  = 4.0
)

// ConsistencyScore measures regularity across the trailing window: lower
// variance in productivity, sleep and work hours means a higher score, plus a
// logging-density bonus of up to 20 points. Fewer than three logs is not
// enough signal, so it returns the neutral 50.0.
func ConsistencyScore(logs []models.DailyLog, window int) float64 {
	if len(logs) < 3 {
		return 50.0
	}

	var scores, sleepHours, workHours []float64
	for _, l := range logs {
		if l.ProductivityScore != nil {
			scores = append(scores, *l.ProductivityScore)
		}
		sleepHours = append(sleepHours, l.SleepHours)
		workHours = append(workHours, l.WorkHours)
	}

	var factors []float64
	if len(scores) >= 3 {
		factors = append(factors, max(0, 100-stats.Stdev(scores)/maxScoreStdev*100))
	}
	if len(sleepHours) >= 3 {
		factors = append(factors, max(0, 100-stats.Stdev(sleepHours)/maxSleepStdev*100))
	}
	if len(workHours) >= 3 {
		factors = append(factors, max(0, 100-stats.Stdev(workHours)/maxWorkStdev*100))
	}

	densityBonus := min(float64(len(logs))/float64(window), 1.0) * 20

	if len(factors) == 0 {
		return 50.0
	}
	return stats.Round1(stats.Clamp(stats.Mean(factors)+densityBonus, 0, 100))
}
