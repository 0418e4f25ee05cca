package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"peaktrack/internal/middleware"
	"peaktrack/internal/stats"
)

type EventHandler struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewEventHandler(db *sqlx.DB, logger *zap.Logger) *EventHandler {
	return &EventHandler{db: db, logger: logger}
}

type trackRequest struct {
	EventType       string          `json:"event_type" validate:"required,max=100"`
	EventCategory   string          `json:"event_category" validate:"required,oneof=checkin habit goal feature session"`
	EventData       json.RawMessage `json:"event_data"`
	SessionID       *string         `json:"session_id"`
	DurationSeconds *int            `json:"duration_seconds" validate:"omitempty,gte=0"`
}

func (h *EventHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var data *string
	if len(req.EventData) > 0 {
		s := string(req.EventData)
		data = &s
	}
	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO events (id, user_id, event_type, event_category, event_data, session_id, duration_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.NewString(), middleware.UserID(r.Context()),
		req.EventType, req.EventCategory, data, req.SessionID, req.DurationSeconds)
	if err != nil {
		h.logger.Error("insert event", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not track event")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "tracked"})
}

type eventStats struct {
	Days              int            `json:"days"`
	TotalEvents       int            `json:"total_events"`
	CheckinsCompleted int            `json:"checkins_completed"`
	CheckinRate       float64        `json:"checkin_rate"`
	FeatureUsage      map[string]int `json:"feature_usage"`
	AvgSessionSeconds float64        `json:"avg_session_seconds"`
}

func (h *EventHandler) Stats(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30, 1, 365)
	userID := middleware.UserID(r.Context())
	ctx := r.Context()
	since := today().AddDate(0, 0, -days)

	out := eventStats{Days: days, FeatureUsage: map[string]int{}}

	if err := h.db.GetContext(ctx, &out.TotalEvents,
		`SELECT COUNT(*) FROM events WHERE user_id = $1 AND created_at >= $2`,
		userID, since); err != nil {
		h.fail(w, "count events", err)
		return
	}

	if err := h.db.GetContext(ctx, &out.CheckinsCompleted, `
		SELECT COUNT(*) FROM events
		WHERE user_id = $1 AND event_type = 'checkin_completed' AND created_at >= $2`,
		userID, since); err != nil {
		h.fail(w, "count checkins", err)
		return
	}
	out.CheckinRate = stats.Round1(float64(out.CheckinsCompleted) / float64(days) * 100)

	rows, err := h.db.QueryxContext(ctx, `
		SELECT event_type, COUNT(*) FROM events
		WHERE user_id = $1 AND event_category = 'feature' AND created_at >= $2
		GROUP BY event_type`, userID, since)
	if err != nil {
		h.fail(w, "group feature usage", err)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var eventType string
		var count int
		if err := rows.Scan(&eventType, &count); err != nil {
			h.fail(w, "scan feature usage", err)
			return
		}
		out.FeatureUsage[eventType] = count
	}
	if err := rows.Err(); err != nil {
		h.fail(w, "iterate feature usage", err)
		return
	}

	var avg sql.NullFloat64
	if err := h.db.GetContext(ctx, &avg, `
		SELECT AVG(duration_seconds) FROM events
		WHERE user_id = $1 AND duration_seconds IS NOT NULL AND created_at >= $2`,
		userID, since); err != nil {
		h.fail(w, "avg session", err)
		return
	}
	if avg.Valid {
		out.AvgSessionSeconds = stats.Round1(avg.Float64)
	}

	respondJSON(w, http.StatusOK, out)
}

func (h *EventHandler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	respondError(w, http.StatusInternalServerError, "could not load event stats")
}
