package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testHabitID = "9c2f4d6e-1b3a-4c5d-8e7f-0a1b2c3d4e5f"

func habitRow(created time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "name", "category",
		"frequency", "target_days_per_week",
		"target_type", "target_value", "target_unit", "difficulty",
		"created_at", "updated_at",
	}).AddRow(
		testHabitID, testUserID, "Morning run", "health",
		"daily", 7,
		"binary", 1.0, "times", 3,
		created, created,
	)
}

// Unlogging the only completion must not zero the stored streak counters,
// and a log write is a creation, not a plain OK.
func TestLogWithoutCompletionsKeepsStreakAndReturns201(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewHabitHandler(db, zap.NewNop())

	logDate := today()
	mock.ExpectQuery(`SELECT \* FROM habits WHERE id = \$1 AND user_id = \$2`).
		WithArgs(testHabitID, testUserID).
		WillReturnRows(habitRow(logDate.AddDate(0, 0, -10)))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO habit_logs`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "habit_id", "user_id", "log_date", "completed", "progress_value", "completed_at",
		}).AddRow("l1", testHabitID, testUserID, logDate, false, 0.0, logDate))
	mock.ExpectQuery(`SELECT log_date FROM habit_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"log_date"}))
	// The stats update must leave current_streak and longest_streak alone
	// when nothing is completed.
	mock.ExpectExec(`UPDATE habits SET\s+total_completions = 0, success_rate = \$1, health_score = \$2,\s+updated_at = NOW\(\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO events`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	body := fmt.Sprintf(`{"habit_id":%q,"log_date":%q,"completed":false}`,
		testHabitID, logDate.Format(dateLayout))
	rec := httptest.NewRecorder()
	h.Log(rec, authedRequest(http.MethodPost, "/api/v1/habits/log", body))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())

	var resp HabitLogDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Completed)
}

func TestLogCompletedUpdatesStreakAndReturns201(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewHabitHandler(db, zap.NewNop())

	logDate := today()
	mock.ExpectQuery(`SELECT \* FROM habits WHERE id = \$1 AND user_id = \$2`).
		WithArgs(testHabitID, testUserID).
		WillReturnRows(habitRow(logDate.AddDate(0, 0, -10)))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO habit_logs`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "habit_id", "user_id", "log_date", "completed", "progress_value", "completed_at",
		}).AddRow("l1", testHabitID, testUserID, logDate, true, 1.0, logDate))
	mock.ExpectQuery(`SELECT log_date FROM habit_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"log_date"}).AddRow(logDate))
	mock.ExpectExec(`current_streak = \$4, longest_streak = GREATEST\(longest_streak, \$4\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO events`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	body := fmt.Sprintf(`{"habit_id":%q,"log_date":%q,"completed":true}`,
		testHabitID, logDate.Format(dateLayout))
	rec := httptest.NewRecorder()
	h.Log(rec, authedRequest(http.MethodPost, "/api/v1/habits/log", body))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
