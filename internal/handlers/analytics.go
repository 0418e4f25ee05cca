package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"peaktrack/internal/analytics"
	"peaktrack/internal/burnout"
	"peaktrack/internal/middleware"
	"peaktrack/internal/models"
	"peaktrack/internal/stats"
)

type AnalyticsHandler struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAnalyticsHandler(db *sqlx.DB, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{db: db, logger: logger}
}

type dashboardResponse struct {
	TodayLog *DailyLogDTO `json:"today_log"`

	WeekCheckins     int     `json:"week_checkins"`
	AvgProductivity  float64 `json:"avg_productivity"`
	AvgEnergy        float64 `json:"avg_energy"`
	ConsistencyScore float64 `json:"consistency_score"`

	ProductivityTrend float64 `json:"productivity_trend"`

	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`

	BurnoutRisk     float64 `json:"burnout_risk"`
	BurnoutCategory string  `json:"burnout_category"`

	ActiveGoals          int `json:"active_goals"`
	CompletedGoals       int `json:"completed_goals"`
	ActiveHabits         int `json:"active_habits"`
	HabitsCompletedToday int `json:"habits_completed_today"`
	UnreadInsights       int `json:"unread_insights"`
}

// Dashboard aggregates the landing-page numbers in one response: today's
// log, weekly averages, the month-over-month productivity trend, streaks,
// the latest burnout snapshot and open counts.
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	ctx := r.Context()
	todayDate := today()
	resp := dashboardResponse{BurnoutCategory: "low"}

	var todayLog models.DailyLog
	err := h.db.GetContext(ctx, &todayLog,
		`SELECT * FROM daily_logs WHERE user_id = $1 AND log_date = $2`, userID, todayDate)
	switch {
	case err == nil:
		dto := toDailyLogDTO(todayLog)
		// Free text stays out of the dashboard payload.
		dto.Notes = nil
		dto.Highlights = nil
		resp.TodayLog = &dto
	case !errors.Is(err, sql.ErrNoRows):
		h.fail(w, "select today log", err)
		return
	}

	// Week starts on Monday.
	weekStart := todayDate.AddDate(0, 0, -((int(todayDate.Weekday()) + 6) % 7))
	var weekLogs []models.DailyLog
	if err := h.db.SelectContext(ctx, &weekLogs, `
		SELECT * FROM daily_logs
		WHERE user_id = $1 AND log_date >= $2
		ORDER BY log_date`, userID, weekStart); err != nil {
		h.fail(w, "select week logs", err)
		return
	}
	resp.WeekCheckins = len(weekLogs)

	var weekProd, weekEnergy []float64
	for _, l := range weekLogs {
		if l.ProductivityScore != nil {
			weekProd = append(weekProd, *l.ProductivityScore)
		}
		if l.EnergyIndex != nil {
			weekEnergy = append(weekEnergy, *l.EnergyIndex)
		}
	}
	resp.AvgProductivity = stats.Round1(stats.Mean(weekProd))
	resp.AvgEnergy = stats.Round1(stats.Mean(weekEnergy))

	// Consistency comes from the latest log carrying a score.
	var consistency sql.NullFloat64
	if err := h.db.GetContext(ctx, &consistency, `
		SELECT consistency_score FROM daily_logs
		WHERE user_id = $1 AND consistency_score IS NOT NULL
		ORDER BY log_date DESC LIMIT 1`, userID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		h.fail(w, "select consistency", err)
		return
	}
	if consistency.Valid {
		resp.ConsistencyScore = consistency.Float64
	}

	// Trend: this 30-day window against the previous one.
	var avgRecent, avgPrev sql.NullFloat64
	if err := h.db.GetContext(ctx, &avgRecent, `
		SELECT AVG(productivity_score) FROM daily_logs
		WHERE user_id = $1 AND log_date > $2`,
		userID, todayDate.AddDate(0, 0, -30)); err != nil {
		h.fail(w, "select recent avg", err)
		return
	}
	if err := h.db.GetContext(ctx, &avgPrev, `
		SELECT AVG(productivity_score) FROM daily_logs
		WHERE user_id = $1 AND log_date > $2 AND log_date <= $3`,
		userID, todayDate.AddDate(0, 0, -60), todayDate.AddDate(0, 0, -30)); err != nil {
		h.fail(w, "select prev avg", err)
		return
	}
	if avgRecent.Valid && avgPrev.Valid {
		resp.ProductivityTrend = stats.Round1(avgRecent.Float64 - avgPrev.Float64)
	}

	var streak models.Streak
	err = h.db.GetContext(ctx, &streak,
		`SELECT * FROM streaks WHERE user_id = $1 AND streak_type = 'checkin'`, userID)
	switch {
	case err == nil:
		resp.CurrentStreak = streak.CurrentCount
		resp.LongestStreak = streak.LongestCount
	case !errors.Is(err, sql.ErrNoRows):
		h.fail(w, "select streak", err)
		return
	}

	var latestBurnout models.BurnoutScore
	err = h.db.GetContext(ctx, &latestBurnout, `
		SELECT * FROM burnout_scores WHERE user_id = $1
		ORDER BY score_date DESC LIMIT 1`, userID)
	switch {
	case err == nil:
		resp.BurnoutRisk = latestBurnout.RiskScore
		resp.BurnoutCategory = latestBurnout.RiskCategory
	case !errors.Is(err, sql.ErrNoRows):
		h.fail(w, "select burnout", err)
		return
	}

	counts := []struct {
		dst   *int
		query string
		args  []any
	}{
		{&resp.ActiveGoals, `SELECT COUNT(*) FROM goals WHERE user_id = $1 AND status = 'active'`, []any{userID}},
		{&resp.CompletedGoals, `SELECT COUNT(*) FROM goals WHERE user_id = $1 AND status = 'completed'`, []any{userID}},
		{&resp.ActiveHabits, `SELECT COUNT(*) FROM habits WHERE user_id = $1 AND is_active AND NOT is_archived`, []any{userID}},
		{&resp.HabitsCompletedToday, `
			SELECT COUNT(*) FROM habit_logs hl
			JOIN habits hb ON hb.id = hl.habit_id
			WHERE hb.user_id = $1 AND hl.log_date = $2 AND hl.completed`, []any{userID, todayDate}},
		{&resp.UnreadInsights, `SELECT COUNT(*) FROM insights WHERE user_id = $1 AND NOT is_read AND NOT is_dismissed`, []any{userID}},
	}
	for _, c := range counts {
		if err := h.db.GetContext(ctx, c.dst, c.query, c.args...); err != nil {
			h.fail(w, "select dashboard count", err)
			return
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *AnalyticsHandler) Data(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30, 7, 365)
	var logs []models.DailyLog
	err := h.db.SelectContext(r.Context(), &logs, `
		SELECT * FROM daily_logs
		WHERE user_id = $1 AND log_date > $2
		ORDER BY log_date`,
		middleware.UserID(r.Context()), today().AddDate(0, 0, -days))
	if err != nil {
		h.fail(w, "select analytics window", err)
		return
	}
	respondJSON(w, http.StatusOK, analytics.Compute(logs))
}

type burnoutResponse struct {
	Current burnout.Assessment `json:"current"`
	History []BurnoutScoreDTO  `json:"history"`
}

// Burnout returns a fresh assessment over the trailing window plus the
// stored snapshot history. The fresh value is not persisted here; snapshots
// are only written by check-ins.
func (h *AnalyticsHandler) Burnout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	ctx := r.Context()
	todayDate := today()

	var window []models.DailyLog
	if err := h.db.SelectContext(ctx, &window, `
		SELECT * FROM daily_logs
		WHERE user_id = $1 AND log_date > $2
		ORDER BY log_date`, userID, todayDate.AddDate(0, 0, -burnoutWindowDays)); err != nil {
		h.fail(w, "select burnout window", err)
		return
	}

	// Strictly earlier than today: a same-day snapshot written by this
	// morning's check-in must not become its own trend baseline.
	var prev models.BurnoutScore
	var prevPtr *models.BurnoutScore
	err := h.db.GetContext(ctx, &prev, `
		SELECT * FROM burnout_scores
		WHERE user_id = $1 AND score_date < $2
		ORDER BY score_date DESC LIMIT 1`, userID, todayDate)
	switch {
	case err == nil:
		prevPtr = &prev
	case !errors.Is(err, sql.ErrNoRows):
		h.fail(w, "select prev burnout", err)
		return
	}

	var history []models.BurnoutScore
	if err := h.db.SelectContext(ctx, &history, `
		SELECT * FROM burnout_scores
		WHERE user_id = $1 AND score_date > $2
		ORDER BY score_date DESC`, userID, todayDate.AddDate(0, 0, -30)); err != nil {
		h.fail(w, "select burnout history", err)
		return
	}

	resp := burnoutResponse{
		Current: burnout.Assess(window, prevPtr),
		History: make([]BurnoutScoreDTO, 0, len(history)),
	}
	for _, b := range history {
		resp.History = append(resp.History, toBurnoutScoreDTO(b))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *AnalyticsHandler) Insights(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	limit := queryInt(r, "limit", 20, 1, 100)

	query := `SELECT * FROM insights WHERE user_id = $1 AND NOT is_dismissed`
	if r.URL.Query().Get("unread_only") == "true" {
		query += ` AND NOT is_read`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	var rows []models.Insight
	if err := h.db.SelectContext(r.Context(), &rows, query, userID, limit); err != nil {
		h.fail(w, "select insights", err)
		return
	}
	out := make([]InsightDTO, 0, len(rows))
	for _, i := range rows {
		out = append(out, toInsightDTO(i))
	}
	respondJSON(w, http.StatusOK, out)
}

type insightUpdateRequest struct {
	IsRead      *bool `json:"is_read"`
	IsDismissed *bool `json:"is_dismissed"`
}

func (h *AnalyticsHandler) UpdateInsight(w http.ResponseWriter, r *http.Request) {
	var req insightUpdateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID := middleware.UserID(r.Context())

	var insight models.Insight
	err := h.db.GetContext(r.Context(), &insight,
		`SELECT * FROM insights WHERE id = $1 AND user_id = $2`,
		chi.URLParam(r, "insightID"), userID)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "insight not found")
		return
	}
	if err != nil {
		h.fail(w, "select insight", err)
		return
	}

	if req.IsRead != nil {
		insight.IsRead = *req.IsRead
	}
	if req.IsDismissed != nil {
		insight.IsDismissed = *req.IsDismissed
	}
	if _, err := h.db.ExecContext(r.Context(),
		`UPDATE insights SET is_read = $1, is_dismissed = $2 WHERE id = $3`,
		insight.IsRead, insight.IsDismissed, insight.ID); err != nil {
		h.fail(w, "update insight", err)
		return
	}
	respondJSON(w, http.StatusOK, toInsightDTO(insight))
}

func (h *AnalyticsHandler) MarkAllInsightsRead(w http.ResponseWriter, r *http.Request) {
	res, err := h.db.ExecContext(r.Context(),
		`UPDATE insights SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`,
		middleware.UserID(r.Context()))
	if err != nil {
		h.fail(w, "mark insights read", err)
		return
	}
	n, _ := res.RowsAffected()
	respondJSON(w, http.StatusOK, map[string]int64{"marked_read": n})
}

func (h *AnalyticsHandler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	respondError(w, http.StatusInternalServerError, "could not load analytics")
}
