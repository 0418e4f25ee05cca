package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"peaktrack/internal/middleware"
)

const testUserID = "4a9dca14-7a51-4a01-94a3-b27a16e47cb1"

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "sqlmock"), mock
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, testUserID))
}

func TestBurnoutPreviousSnapshotExcludesToday(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewAnalyticsHandler(db, zap.NewNop())

	mock.ExpectQuery(`SELECT \* FROM daily_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	// The trend baseline must be strictly earlier than today, so a snapshot
	// written by this morning's check-in never compares against itself.
	mock.ExpectQuery(`SELECT \* FROM burnout_scores\s+WHERE user_id = \$1 AND score_date < \$2`).
		WithArgs(testUserID, today()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM burnout_scores\s+WHERE user_id = \$1 AND score_date > \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec := httptest.NewRecorder()
	h.Burnout(rec, authedRequest(http.MethodGet, "/api/v1/analytics/burnout", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())

	var resp burnoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "low", resp.Current.RiskCategory)
	assert.Equal(t, "stable", resp.Current.TrendDirection)
	assert.Empty(t, resp.History)
}

func TestBurnoutUsesEarlierSnapshotAsBaseline(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewAnalyticsHandler(db, zap.NewNop())

	yesterday := today().AddDate(0, 0, -1)
	mock.ExpectQuery(`SELECT \* FROM daily_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`score_date < \$2`).
		WithArgs(testUserID, today()).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "score_date", "risk_score", "risk_category"}).
			AddRow("b7f3", testUserID, yesterday, 62.0, "high"))
	mock.ExpectQuery(`score_date > \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec := httptest.NewRecorder()
	h.Burnout(rec, authedRequest(http.MethodGet, "/api/v1/analytics/burnout", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
