package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peaktrack/internal/models"
)

func day(n int) time.Time {
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func prod(v float64) *float64 { return &v }

func neutralLog(n int) models.DailyLog {
	return models.DailyLog{
		LogDate:           day(n),
		SleepHours:        6.5,
		DeepWorkHours:     2,
		EnergyScore:       6,
		StressLevel:       5,
		ProductivityScore: prod(60),
	}
}

func titles(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Title
	}
	return out
}

func TestGenerateThinData(t *testing.T) {
	var logs []models.DailyLog
	for i := 0; i < 6; i++ {
		logs = append(logs, neutralLog(i))
	}
	assert.Nil(t, Generate(logs))
}

func TestGenerateNeutralDataStaysQuiet(t *testing.T) {
	var logs []models.DailyLog
	for i := 0; i < 10; i++ {
		logs = append(logs, neutralLog(i))
	}
	assert.Empty(t, Generate(logs))
}

func TestSleepProductivityDetector(t *testing.T) {
	var logs []models.DailyLog
	for i := 0; i < 5; i++ {
		l := neutralLog(i)
		l.SleepHours = 8
		l.ProductivityScore = prod(80)
		logs = append(logs, l)
	}
	for i := 5; i < 8; i++ {
		l := neutralLog(i)
		l.SleepHours = 5
		l.ProductivityScore = prod(50)
		logs = append(logs, l)
	}

	cs := Generate(logs)
	assert.Contains(t, titles(cs), "Sleep boosts your productivity")
}

func TestExerciseDetector(t *testing.T) {
	var logs []models.DailyLog
	for i := 0; i < 4; i++ {
		l := neutralLog(i)
		l.ExerciseMinutes = 30
		l.ProductivityScore = prod(75)
		logs = append(logs, l)
	}
	for i := 4; i < 8; i++ {
		l := neutralLog(i)
		l.ExerciseMinutes = 0
		l.ProductivityScore = prod(55)
		logs = append(logs, l)
	}

	cs := Generate(logs)
	require.Contains(t, titles(cs), "Exercise improves your output")
	for _, c := range cs {
		if c.Title == "Exercise improves your output" {
			assert.Equal(t, "recommendation", c.InsightType)
			assert.Equal(t, 0.75, c.Confidence)
		}
	}
}

func TestStressDetector(t *testing.T) {
	var logs []models.DailyLog
	for i := 0; i < 4; i++ {
		l := neutralLog(i)
		l.StressLevel = 8
		l.ProductivityScore = prod(45)
		logs = append(logs, l)
	}
	for i := 4; i < 8; i++ {
		l := neutralLog(i)
		l.StressLevel = 3
		l.ProductivityScore = prod(70)
		logs = append(logs, l)
	}

	cs := Generate(logs)
	assert.Contains(t, titles(cs), "Stress is hurting your output")
}

func TestDeepWorkDetector(t *testing.T) {
	var logs []models.DailyLog
	for i := 0; i < 4; i++ {
		l := neutralLog(i)
		l.DeepWorkHours = 4
		l.ProductivityScore = prod(80)
		logs = append(logs, l)
	}
	for i := 4; i < 8; i++ {
		l := neutralLog(i)
		l.DeepWorkHours = 1
		l.ProductivityScore = prod(55)
		logs = append(logs, l)
	}

	cs := Generate(logs)
	assert.Contains(t, titles(cs), "Deep work drives results")
}

func TestEnergyPatternDetector(t *testing.T) {
	var logs []models.DailyLog
	for i := 0; i < 7; i++ {
		l := neutralLog(i)
		if i < 3 {
			l.EnergyScore = 8
		} else {
			l.EnergyScore = 4
		}
		logs = append(logs, l)
	}

	cs := Generate(logs)
	assert.Contains(t, titles(cs), "Energy levels declining")
}

func TestProductivityTrendDetectors(t *testing.T) {
	improving := make([]models.DailyLog, 0, 14)
	for i := 0; i < 7; i++ {
		l := neutralLog(i)
		l.ProductivityScore = prod(55)
		improving = append(improving, l)
	}
	for i := 7; i < 14; i++ {
		l := neutralLog(i)
		l.ProductivityScore = prod(70)
		improving = append(improving, l)
	}
	assert.Contains(t, titles(Generate(improving)), "Productivity improving")

	declining := make([]models.DailyLog, 0, 14)
	for i := 0; i < 7; i++ {
		l := neutralLog(i)
		l.ProductivityScore = prod(70)
		declining = append(declining, l)
	}
	for i := 7; i < 14; i++ {
		l := neutralLog(i)
		l.ProductivityScore = prod(55)
		declining = append(declining, l)
	}
	assert.Contains(t, titles(Generate(declining)), "Productivity dip detected")

	// A mild dip inside the asymmetric band raises nothing.
	mild := make([]models.DailyLog, 0, 14)
	for i := 0; i < 7; i++ {
		l := neutralLog(i)
		l.ProductivityScore = prod(70)
		mild = append(mild, l)
	}
	for i := 7; i < 14; i++ {
		l := neutralLog(i)
		l.ProductivityScore = prod(64)
		mild = append(mild, l)
	}
	assert.NotContains(t, titles(Generate(mild)), "Productivity dip detected")
	assert.NotContains(t, titles(Generate(mild)), "Productivity improving")
}

func TestBestDayDetectorNeedsSpread(t *testing.T) {
	// Three weeks of data: Mondays strong, Fridays weak, rest average.
	var logs []models.DailyLog
	for i := 0; i < 21; i++ {
		l := neutralLog(i)
		switch l.LogDate.Weekday() {
		case time.Monday:
			l.ProductivityScore = prod(85)
		case time.Friday:
			l.ProductivityScore = prod(45)
		default:
			l.ProductivityScore = prod(65)
		}
		logs = append(logs, l)
	}

	cs := Generate(logs)
	assert.Contains(t, titles(cs), "Monday is your peak day")
}
