package handlers

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"peaktrack/internal/middleware"
)

type AdminHandler struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAdminHandler(db *sqlx.DB, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{db: db, logger: logger}
}

type adminOverview struct {
	TotalUsers      int `json:"total_users"`
	ActiveUsersWeek int `json:"active_users_week"`
	TotalCheckins   int `json:"total_checkins"`
	CheckinsWeek    int `json:"checkins_week"`
	CheckinsMonth   int `json:"checkins_month"`
}

// Overview reports instance-wide usage counts. Admin role only.
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	var role string
	err := h.db.GetContext(r.Context(), &role,
		`SELECT role FROM users WHERE id = $1`, middleware.UserID(r.Context()))
	if err != nil || role != "admin" {
		respondError(w, http.StatusForbidden, "admin access required")
		return
	}

	todayDate := today()
	var out adminOverview
	queries := []struct {
		dst   *int
		query string
		args  []any
	}{
		{&out.TotalUsers, `SELECT COUNT(*) FROM users`, nil},
		{&out.ActiveUsersWeek, `
			SELECT COUNT(DISTINCT user_id) FROM daily_logs WHERE log_date > $1`,
			[]any{todayDate.AddDate(0, 0, -7)}},
		{&out.TotalCheckins, `SELECT COUNT(*) FROM daily_logs`, nil},
		{&out.CheckinsWeek, `SELECT COUNT(*) FROM daily_logs WHERE log_date > $1`,
			[]any{todayDate.AddDate(0, 0, -7)}},
		{&out.CheckinsMonth, `SELECT COUNT(*) FROM daily_logs WHERE log_date > $1`,
			[]any{todayDate.AddDate(0, 0, -30)}},
	}
	for _, q := range queries {
		if err := h.db.GetContext(r.Context(), q.dst, q.query, q.args...); err != nil {
			h.logger.Error("admin overview", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "could not load overview")
			return
		}
	}
	respondJSON(w, http.StatusOK, out)
}
