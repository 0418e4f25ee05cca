package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"peaktrack/internal/models"
)

func baseLog(date time.Time) models.DailyLog {
	return models.DailyLog{
		LogDate:       date,
		WorkHours:     8,
		DeepWorkHours: 4,
		TasksPlanned:  5, TasksCompleted: 4,
		Interruptions: 3,
		FocusScore:    7, EnergyScore: 6, StressLevel: 4,
		Mood:       "good",
		SleepHours: 7.5, ExerciseMinutes: 30, SocialInteraction: 5,
	}
}

func day(n int) time.Time {
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestProductivityScoreRange(t *testing.T) {
	l := baseLog(day(0))
	score := ProductivityScore(l)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
}

func TestProductivityScorePerfectDay(t *testing.T) {
	l := models.DailyLog{
		DeepWorkHours: 8,
		TasksPlanned:  5, TasksCompleted: 5,
		Interruptions: 0,
		FocusScore:    10, EnergyScore: 10,
	}
	assert.Equal(t, 100.0, ProductivityScore(l))
}

func TestProductivityScoreTaskRatioCapped(t *testing.T) {
	over := baseLog(day(0))
	over.TasksPlanned = 2
	over.TasksCompleted = 10

	exact := baseLog(day(0))
	exact.TasksPlanned = 2
	exact.TasksCompleted = 2

	// Overshooting planned tasks cannot score higher than full completion.
	assert.Equal(t, ProductivityScore(exact), ProductivityScore(over))
}

func TestProductivityScoreUnplannedTasks(t *testing.T) {
	// Tasks done with nothing planned earn the half-credit fallback.
	withTasks := models.DailyLog{TasksCompleted: 3, FocusScore: 5, EnergyScore: 5, Interruptions: 20}
	without := models.DailyLog{FocusScore: 5, EnergyScore: 5, Interruptions: 20}
	assert.Greater(t, ProductivityScore(withTasks), ProductivityScore(without))
}

func TestProductivityScoreDistractionSteps(t *testing.T) {
	prev := 101.0
	for _, interruptions := range []int{0, 4, 8, 12, 20} {
		l := baseLog(day(0))
		l.Interruptions = interruptions
		score := ProductivityScore(l)
		assert.Less(t, score, prev, "interruptions=%d", interruptions)
		prev = score
	}
}

func TestEnergyIndexRange(t *testing.T) {
	l := baseLog(day(0))
	idx := EnergyIndex(l)
	assert.GreaterOrEqual(t, idx, 0.0)
	assert.LessOrEqual(t, idx, 100.0)
}

func TestEnergyIndexSleepMatters(t *testing.T) {
	rested := baseLog(day(0))
	rested.SleepHours = 8
	tired := baseLog(day(0))
	tired.SleepHours = 4
	assert.Greater(t, EnergyIndex(rested), EnergyIndex(tired))
}

func TestEnergyIndexExerciseBonusCapped(t *testing.T) {
	oneHour := baseLog(day(0))
	oneHour.ExerciseMinutes = 60
	threeHours := baseLog(day(0))
	threeHours.ExerciseMinutes = 180
	assert.Equal(t, EnergyIndex(oneHour), EnergyIndex(threeHours))
}

func TestConsistencyScoreThinData(t *testing.T) {
	assert.Equal(t, 50.0, ConsistencyScore(nil, 7))
	assert.Equal(t, 50.0, ConsistencyScore([]models.DailyLog{baseLog(day(0))}, 7))
	assert.Equal(t, 50.0, ConsistencyScore([]models.DailyLog{baseLog(day(0)), baseLog(day(1))}, 7))
}

func TestConsistencyScoreStableBeatsErratic(t *testing.T) {
	prod := func(v float64) *float64 { return &v }

	var stable, erratic []models.DailyLog
	for i := 0; i < 7; i++ {
		l := baseLog(day(i))
		l.ProductivityScore = prod(70)
		stable = append(stable, l)

		e := baseLog(day(i))
		if i%2 == 0 {
			e.SleepHours = 4
			e.WorkHours = 14
			e.ProductivityScore = prod(20)
		} else {
			e.SleepHours = 10
			e.WorkHours = 2
			e.ProductivityScore = prod(95)
		}
		erratic = append(erratic, e)
	}

	assert.Greater(t, ConsistencyScore(stable, 7), ConsistencyScore(erratic, 7))
}

func TestConsistencyScorePerfectlyStable(t *testing.T) {
	prod := func(v float64) *float64 { return &v }
	var logs []models.DailyLog
	for i := 0; i < 7; i++ {
		l := baseLog(day(i))
		l.ProductivityScore = prod(70)
		logs = append(logs, l)
	}
	// Zero variance plus a full density bonus caps at 100.
	assert.Equal(t, 100.0, ConsistencyScore(logs, 7))
}
