package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestProgressPercentage(t *testing.T) {
	assert.Equal(t, 50.0, ProgressPercentage(5, 10))
	assert.Equal(t, 100.0, ProgressPercentage(15, 10))
	assert.Equal(t, 0.0, ProgressPercentage(5, 0))
	assert.Equal(t, 0.0, ProgressPercentage(5, -1))
}

func TestGoalScoreNoDeadline(t *testing.T) {
	start := day(0)
	// 50% progress at weight 1.0 with no deadline: plain 50.
	assert.Equal(t, 50.0, GoalScore(5, 10, 1.0, start, nil, day(10)))
}

func TestGoalScorePriorityWeight(t *testing.T) {
	start := day(0)
	low := GoalScore(5, 10, 0.5, start, nil, day(10))
	high := GoalScore(5, 10, 2.0, start, nil, day(10))
	assert.Equal(t, 4.0, high/low)
}

func TestGoalScoreAheadOfSchedule(t *testing.T) {
	start := day(0)
	deadline := datePtr(day(100))
	// 50% done at 10% elapsed: consistency factor caps at 1.5.
	ahead := GoalScore(5, 10, 1.0, start, deadline, day(10))
	assert.Equal(t, 75.0, ahead)
}

func TestGoalScoreBehindSchedule(t *testing.T) {
	start := day(0)
	deadline := datePtr(day(10))
	// 10% done at 90% elapsed drags the score well below raw progress.
	behind := GoalScore(1, 10, 1.0, start, deadline, day(9))
	assert.Less(t, behind, 10.0)
}

func TestSuccessProbabilityCompleted(t *testing.T) {
	assert.Equal(t, 100.0, SuccessProbability("completed", 10, 10, day(0), nil, day(5)))
}

func TestSuccessProbabilityNoTarget(t *testing.T) {
	assert.Equal(t, 50.0, SuccessProbability("active", 5, 0, day(0), nil, day(5)))
}

func TestSuccessProbabilityNoDeadline(t *testing.T) {
	assert.Equal(t, 40.0, SuccessProbability("active", 5, 10, day(0), nil, day(5)))
}

func TestSuccessProbabilityPastDeadline(t *testing.T) {
	deadline := datePtr(day(10))
	assert.Equal(t, 50.0, SuccessProbability("active", 5, 10, day(0), deadline, day(20)))
}

func TestSuccessProbabilityBounds(t *testing.T) {
	deadline := datePtr(day(100))
	// Far ahead of pace still cannot reach certainty.
	high := SuccessProbability("active", 9, 10, day(0), deadline, day(10))
	assert.LessOrEqual(t, high, 99.0)

	// Hopelessly behind still gets the 5% floor.
	low := SuccessProbability("active", 0, 10, day(0), deadline, day(99))
	assert.GreaterOrEqual(t, low, 5.0)
}
