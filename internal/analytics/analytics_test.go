package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peaktrack/internal/models"
)

func day(n int) time.Time {
	return time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n) // a Monday
}

func prod(v float64) *float64 { return &v }

func sampleLog(n int, p float64) models.DailyLog {
	return models.DailyLog{
		LogDate:           day(n),
		SleepHours:        7,
		ExerciseMinutes:   20,
		FocusScore:        6,
		EnergyScore:       6,
		StressLevel:       4,
		Mood:              "good",
		ProductivityScore: prod(p),
		EnergyIndex:       prod(p),
	}
}

func TestComputeEmptyWindow(t *testing.T) {
	data := Compute(nil)
	assert.Empty(t, data.ProductivityTrend)
	assert.Empty(t, data.SleepTrend)
	assert.Equal(t, 0.0, data.SleepProductivityCorrelation)
	assert.Nil(t, data.BestDayOfWeek)
	assert.Equal(t, 0, data.ProductivityDistribution["81-100"])
	assert.NotNil(t, data.MoodDistribution)
}

func TestComputeTrends(t *testing.T) {
	logs := []models.DailyLog{sampleLog(0, 40), sampleLog(1, 60), sampleLog(2, 80)}
	data := Compute(logs)

	require.Len(t, data.ProductivityTrend, 3)
	assert.Equal(t, "2026-08-03", data.ProductivityTrend[0].Date)
	assert.Equal(t, 40.0, data.ProductivityTrend[0].Value)
	assert.Equal(t, 80.0, data.ProductivityTrend[2].Value)
	assert.Len(t, data.SleepTrend, 3)
	assert.Len(t, data.FocusTrend, 3)
}

func TestComputeCorrelations(t *testing.T) {
	var logs []models.DailyLog
	for i := 0; i < 10; i++ {
		l := sampleLog(i, 40+float64(i)*5)
		l.SleepHours = 5 + float64(i)*0.4
		logs = append(logs, l)
	}
	data := Compute(logs)
	// Sleep and productivity move in lockstep here.
	assert.InDelta(t, 1.0, data.SleepProductivityCorrelation, 0.01)
}

func TestComputeBestDayOfWeek(t *testing.T) {
	var logs []models.DailyLog
	for i := 0; i < 14; i++ {
		p := 60.0
		if day(i).Weekday() == time.Wednesday {
			p = 90
		}
		logs = append(logs, sampleLog(i, p))
	}
	data := Compute(logs)
	require.NotNil(t, data.BestDayOfWeek)
	assert.Equal(t, "Wednesday", *data.BestDayOfWeek)
}

func TestComputeDistributions(t *testing.T) {
	logs := []models.DailyLog{
		sampleLog(0, 10), sampleLog(1, 30), sampleLog(2, 50),
		sampleLog(3, 70), sampleLog(4, 90), sampleLog(5, 20),
	}
	logs[5].Mood = "terrible"

	data := Compute(logs)
	assert.Equal(t, 2, data.ProductivityDistribution["0-20"])
	assert.Equal(t, 1, data.ProductivityDistribution["21-40"])
	assert.Equal(t, 1, data.ProductivityDistribution["41-60"])
	assert.Equal(t, 1, data.ProductivityDistribution["61-80"])
	assert.Equal(t, 1, data.ProductivityDistribution["81-100"])
	assert.Equal(t, 5, data.MoodDistribution["good"])
	assert.Equal(t, 1, data.MoodDistribution["terrible"])
}

func TestComputeVolatility(t *testing.T) {
	flat := Compute([]models.DailyLog{sampleLog(0, 60), sampleLog(1, 60), sampleLog(2, 60)})
	spiky := Compute([]models.DailyLog{sampleLog(0, 10), sampleLog(1, 90), sampleLog(2, 10)})
	assert.Equal(t, 0.0, flat.PerformanceVolatility)
	assert.Greater(t, spiky.PerformanceVolatility, 0.0)
}
