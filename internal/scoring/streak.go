package scoring

import "time"

// StreakState is the check-in streak for one user.
type StreakState struct {
	CurrentCount int
	LongestCount int
	StartDate    time.Time
	LastDate     *time.Time
}

// AdvanceCheckinStreak returns the streak state after logging logDate.
// A gap of exactly one day extends the streak, a larger gap resets it to 1,
// and re-logging the same day changes nothing but the last date.
func AdvanceCheckinStreak(s StreakState, logDate time.Time) StreakState {
	if s.LastDate != nil {
		switch gap := daysBetween(logDate, *s.LastDate); {
		case gap == 1:
			s.CurrentCount++
		case gap > 1:
			s.CurrentCount = 1
			s.StartDate = logDate
		}
	} else {
		s.CurrentCount = 1
		s.StartDate = logDate
	}

	d := logDate
	s.LastDate = &d
	if s.CurrentCount > s.LongestCount {
		s.LongestCount = s.CurrentCount
	}
	return s
}
