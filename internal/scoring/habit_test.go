package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeHabitStatsEmpty(t *testing.T) {
	s := ComputeHabitStats(nil, 7, day(0), day(30))
	assert.Equal(t, 0, s.TotalCompletions)
	assert.Equal(t, 0, s.CurrentStreak)
	assert.Equal(t, 0.0, s.SuccessRate)
	assert.Equal(t, 0.0, s.HealthScore)
}

func TestComputeHabitStatsStreakToleratesShortGaps(t *testing.T) {
	// Days 1, 2 and 4: the two-day gap between 2 and 4 keeps the streak alive.
	dates := []time.Time{day(1), day(2), day(4)}
	s := ComputeHabitStats(dates, 7, day(0), day(4))
	assert.Equal(t, 3, s.CurrentStreak)
}

func TestComputeHabitStatsStreakBreaksOnLongGap(t *testing.T) {
	// Three-day gap between 4 and 7 breaks the chain.
	dates := []time.Time{day(1), day(2), day(4), day(7)}
	s := ComputeHabitStats(dates, 7, day(0), day(7))
	assert.Equal(t, 1, s.CurrentStreak)
}

func TestComputeHabitStatsSuccessRate(t *testing.T) {
	var dates []time.Time
	for i := 0; i < 14; i++ {
		dates = append(dates, day(30-i))
	}
	// 14 completions against an expected 28 (7/week over 4 weeks).
	s := ComputeHabitStats(dates, 7, day(0), day(30))
	assert.Equal(t, 50.0, s.SuccessRate)
}

func TestComputeHabitStatsSuccessRateCapped(t *testing.T) {
	var dates []time.Time
	for i := 0; i < 30; i++ {
		dates = append(dates, day(30-i))
	}
	// Daily completion against a 3/week target would overshoot; cap at 100.
	s := ComputeHabitStats(dates, 3, day(0), day(30))
	assert.Equal(t, 100.0, s.SuccessRate)
}

func TestComputeHabitStatsHealthGrowsWithAge(t *testing.T) {
	dates := []time.Time{day(28), day(29), day(30)}
	young := ComputeHabitStats(dates, 3, day(25), day(30))
	old := ComputeHabitStats(dates, 3, day(-90), day(30))
	assert.Greater(t, old.HealthScore, young.HealthScore)
}
