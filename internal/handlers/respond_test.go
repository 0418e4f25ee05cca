package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peaktrack/internal/models"
)

func TestDecodeAndValidateCheckinRequest(t *testing.T) {
	cases := []struct {
		name string
		body string
		ok   bool
	}{
		{"valid minimal", `{"log_date":"2026-08-29"}`, true},
		{"valid full", `{"log_date":"2026-08-29","work_hours":8,"focus_score":7,"mood":"great","sleep_hours":7.5}`, true},
		{"missing date", `{"work_hours":8}`, false},
		{"bad date format", `{"log_date":"29/08/2026"}`, false},
		{"work hours over 24", `{"log_date":"2026-08-29","work_hours":25}`, false},
		{"focus score over 10", `{"log_date":"2026-08-29","focus_score":11}`, false},
		{"focus score zero", `{"log_date":"2026-08-29","focus_score":0}`, false},
		{"unknown mood", `{"log_date":"2026-08-29","mood":"ecstatic"}`, false},
		{"negative tasks", `{"log_date":"2026-08-29","tasks_completed":-1}`, false},
		{"not json", `log_date=2026-08-29`, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/checkins", strings.NewReader(c.body))
			var dst checkinRequest
			err := decodeAndValidate(req, &dst)
			if c.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDecodeAndValidateRegisterRequest(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/v1/auth/register", strings.NewReader(
		`{"email":"not-an-email","password":"secret1","full_name":"A"}`))
	var dst registerRequest
	assert.Error(t, decodeAndValidate(req, &dst))

	req = httptest.NewRequest("POST", "/api/v1/auth/register", strings.NewReader(
		`{"email":"a@example.com","password":"short","full_name":"A"}`))
	assert.Error(t, decodeAndValidate(req, &dst))

	req = httptest.NewRequest("POST", "/api/v1/auth/register", strings.NewReader(
		`{"email":"a@example.com","password":"secret1","full_name":"A"}`))
	assert.NoError(t, decodeAndValidate(req, &dst))
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/checkins/history?days=90", nil)
	assert.Equal(t, 90, queryInt(r, "days", 30, 1, 365))

	r = httptest.NewRequest("GET", "/api/v1/checkins/history", nil)
	assert.Equal(t, 30, queryInt(r, "days", 30, 1, 365))

	r = httptest.NewRequest("GET", "/api/v1/checkins/history?days=9001", nil)
	assert.Equal(t, 365, queryInt(r, "days", 30, 1, 365))

	r = httptest.NewRequest("GET", "/api/v1/checkins/history?days=-2", nil)
	assert.Equal(t, 1, queryInt(r, "days", 30, 1, 365))

	r = httptest.NewRequest("GET", "/api/v1/checkins/history?days=soon", nil)
	assert.Equal(t, 30, queryInt(r, "days", 30, 1, 365))
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, 404, "goal not found")
	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"goal not found"}`, rec.Body.String())
}

func TestGoalDTOComputesProgress(t *testing.T) {
	g := models.Goal{
		TargetValue: 10,
		CurrentVal:  4,
		StartDate:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Status:      "active",
	}
	dto := toGoalDTO(g)
	assert.Equal(t, 40.0, dto.ProgressPercentage)
	assert.Equal(t, "2026-08-01", dto.StartDate)
	assert.Nil(t, dto.Deadline)

	d := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	g.Deadline = &d
	dto = toGoalDTO(g)
	require.NotNil(t, dto.Deadline)
	assert.Equal(t, "2026-12-31", *dto.Deadline)
}

func TestBurnoutScoreDTOUnpacksRecommendations(t *testing.T) {
	recs := `["Take a recovery day"]`
	b := models.BurnoutScore{
		ScoreDate:       time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		Recommendations: &recs,
	}
	dto := toBurnoutScoreDTO(b)
	assert.Equal(t, "2026-08-29", dto.ScoreDate)
	assert.Equal(t, []string{"Take a recovery day"}, dto.Recommendations)

	// A missing column still yields an empty slice, never null.
	dto = toBurnoutScoreDTO(models.BurnoutScore{ScoreDate: b.ScoreDate})
	assert.NotNil(t, dto.Recommendations)
	assert.Empty(t, dto.Recommendations)
}
