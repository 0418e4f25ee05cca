package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceCheckinStreakFirstLog(t *testing.T) {
	s := AdvanceCheckinStreak(StreakState{}, day(1))
	assert.Equal(t, 1, s.CurrentCount)
	assert.Equal(t, 1, s.LongestCount)
	assert.Equal(t, day(1), s.StartDate)
	assert.Equal(t, day(1), *s.LastDate)
}

func TestAdvanceCheckinStreakConsecutiveDay(t *testing.T) {
	s := AdvanceCheckinStreak(StreakState{}, day(1))
	s = AdvanceCheckinStreak(s, day(2))
	s = AdvanceCheckinStreak(s, day(3))
	assert.Equal(t, 3, s.CurrentCount)
	assert.Equal(t, 3, s.LongestCount)
	assert.Equal(t, day(1), s.StartDate)
}

func TestAdvanceCheckinStreakGapResets(t *testing.T) {
	s := AdvanceCheckinStreak(StreakState{}, day(1))
	s = AdvanceCheckinStreak(s, day(2))
	// Unlike the habit streak, a two-day gap resets the check-in streak.
	s = AdvanceCheckinStreak(s, day(4))
	assert.Equal(t, 1, s.CurrentCount)
	assert.Equal(t, 2, s.LongestCount)
	assert.Equal(t, day(4), s.StartDate)
}

func TestAdvanceCheckinStreakSameDayIsNoop(t *testing.T) {
	s := AdvanceCheckinStreak(StreakState{}, day(1))
	s = AdvanceCheckinStreak(s, day(2))
	s = AdvanceCheckinStreak(s, day(2))
	assert.Equal(t, 2, s.CurrentCount)
	assert.Equal(t, 2, s.LongestCount)
}

func TestAdvanceCheckinStreakLongestSurvivesReset(t *testing.T) {
	s := StreakState{}
	for i := 1; i <= 5; i++ {
		s = AdvanceCheckinStreak(s, day(i))
	}
	s = AdvanceCheckinStreak(s, day(10))
	s = AdvanceCheckinStreak(s, day(11))
	assert.Equal(t, 2, s.CurrentCount)
	assert.Equal(t, 5, s.LongestCount)
}
