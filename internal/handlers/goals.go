package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"peaktrack/internal/middleware"
	"peaktrack/internal/models"
	"peaktrack/internal/scoring"
)

type GoalHandler struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewGoalHandler(db *sqlx.DB, logger *zap.Logger) *GoalHandler {
	return &GoalHandler{db: db, logger: logger}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	status := r.URL.Query().Get("status")

	query := `SELECT * FROM goals WHERE user_id = $1`
	args := []any{userID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	var goals []models.Goal
	if err := h.db.SelectContext(r.Context(), &goals, query, args...); err != nil {
		h.logger.Error("select goals", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load goals")
		return
	}

	out := make([]GoalDTO, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalDTO(g))
	}
	respondJSON(w, http.StatusOK, out)
}

type goalCreateRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description"`
	Category    string  `json:"category" validate:"required,oneof=output habit time learning health"`
	Metric      string  `json:"metric" validate:"required"`
	TargetValue float64 `json:"target_value" validate:"required,gt=0"`
	Unit        *string `json:"unit"`

	PriorityWeight *float64 `json:"priority_weight" validate:"omitempty,gte=0.1,lte=3"`
	StartDate      string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	Deadline       *string  `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req goalCreateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	var deadline *time.Time
	if req.Deadline != nil {
		d, err := parseDate(*req.Deadline)
		if err != nil {
			respondError(w, http.StatusBadRequest, "deadline must be YYYY-MM-DD")
			return
		}
		if !d.After(startDate) {
			respondError(w, http.StatusBadRequest, "deadline must be after start_date")
			return
		}
		deadline = &d
	}
	userID := middleware.UserID(r.Context())

	unit := "units"
	if req.Unit != nil {
		unit = *req.Unit
	}
	priority := 1.0
	if req.PriorityWeight != nil {
		priority = *req.PriorityWeight
	}

	score := 0.0
	probability := scoring.SuccessProbability("active", 0, req.TargetValue, startDate, deadline, today())

	var g models.Goal
	err = h.db.GetContext(r.Context(), &g, `
		INSERT INTO goals (
			id, user_id, title, description, category, metric,
			target_value, unit, priority_weight, goal_score, success_probability,
			start_date, deadline
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING *`,
		uuid.NewString(), userID, req.Title, req.Description, req.Category, req.Metric,
		req.TargetValue, unit, priority, score, probability,
		startDate, deadline)
	if err != nil {
		h.logger.Error("insert goal", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not create goal")
		return
	}

	if err := trackEvent(r.Context(), h.db, userID, "goal_created", "goal",
		map[string]any{"goal_id": g.ID, "title": g.Title}, nil); err != nil {
		h.logger.Warn("track goal_created", zap.Error(err))
	}
	respondJSON(w, http.StatusCreated, toGoalDTO(g))
}

type goalUpdateRequest struct {
	Title          *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description    *string  `json:"description"`
	CurrentValue   *float64 `json:"current_value" validate:"omitempty,gte=0"`
	PriorityWeight *float64 `json:"priority_weight" validate:"omitempty,gte=0.1,lte=3"`
	Status         *string  `json:"status" validate:"omitempty,oneof=active completed paused abandoned"`
	Deadline       *string  `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req goalUpdateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID := middleware.UserID(r.Context())

	var g models.Goal
	err := h.db.GetContext(r.Context(), &g,
		`SELECT * FROM goals WHERE id = $1 AND user_id = $2`,
		chi.URLParam(r, "goalID"), userID)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "goal not found")
		return
	}
	if err != nil {
		h.logger.Error("select goal", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not update goal")
		return
	}

	if req.Title != nil {
		g.Title = *req.Title
	}
	if req.Description != nil {
		g.Description = req.Description
	}
	if req.CurrentValue != nil {
		g.CurrentVal = *req.CurrentValue
	}
	if req.PriorityWeight != nil {
		g.PriorityWeight = *req.PriorityWeight
	}
	if req.Status != nil {
		g.Status = *req.Status
	}
	if req.Deadline != nil {
		d, err := parseDate(*req.Deadline)
		if err != nil {
			respondError(w, http.StatusBadRequest, "deadline must be YYYY-MM-DD")
			return
		}
		g.Deadline = &d
	}

	h.finishAndStore(w, r, &g, false)
}

type goalProgressRequest struct {
	Value float64 `json:"value" validate:"required"`
}

// Progress adds a delta to the goal's current value. Crossing the target
// while active completes the goal; completion is one-way and never undone
// by a later negative delta.
func (h *GoalHandler) Progress(w http.ResponseWriter, r *http.Request) {
	var req goalProgressRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID := middleware.UserID(r.Context())

	var g models.Goal
	err := h.db.GetContext(r.Context(), &g,
		`SELECT * FROM goals WHERE id = $1 AND user_id = $2`,
		chi.URLParam(r, "goalID"), userID)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "goal not found")
		return
	}
	if err != nil {
		h.logger.Error("select goal", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not update goal")
		return
	}

	g.CurrentVal += req.Value
	if g.CurrentVal < 0 {
		g.CurrentVal = 0
	}
	h.finishAndStore(w, r, &g, true)
}

func (h *GoalHandler) finishAndStore(w http.ResponseWriter, r *http.Request, g *models.Goal, trackProgress bool) {
	todayDate := today()
	justCompleted := false
	if g.Status == "active" && g.TargetValue > 0 && g.CurrentVal >= g.TargetValue {
		g.Status = "completed"
		now := time.Now().UTC()
		g.CompletedAt = &now
		justCompleted = true
	}

	score := scoring.GoalScore(g.CurrentVal, g.TargetValue, g.PriorityWeight, g.StartDate, g.Deadline, todayDate)
	probability := scoring.SuccessProbability(g.Status, g.CurrentVal, g.TargetValue, g.StartDate, g.Deadline, todayDate)
	g.GoalScore = &score
	g.SuccessProbability = &probability

	_, err := h.db.ExecContext(r.Context(), `
		UPDATE goals SET
			title = $1, description = $2, current_value = $3, priority_weight = $4,
			status = $5, deadline = $6, goal_score = $7, success_probability = $8,
			completed_at = $9, updated_at = NOW()
		WHERE id = $10`,
		g.Title, g.Description, g.CurrentVal, g.PriorityWeight,
		g.Status, g.Deadline, g.GoalScore, g.SuccessProbability,
		g.CompletedAt, g.ID)
	if err != nil {
		h.logger.Error("update goal", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not update goal")
		return
	}

	if trackProgress {
		if err := trackEvent(r.Context(), h.db, g.UserID, "goal_progress", "goal",
			map[string]any{"goal_id": g.ID, "current_value": g.CurrentVal}, nil); err != nil {
			h.logger.Warn("track goal_progress", zap.Error(err))
		}
	}
	if justCompleted {
		if err := trackEvent(r.Context(), h.db, g.UserID, "goal_completed", "goal",
			map[string]any{"goal_id": g.ID, "title": g.Title}, nil); err != nil {
			h.logger.Warn("track goal_completed", zap.Error(err))
		}
	}
	respondJSON(w, http.StatusOK, toGoalDTO(*g))
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.db.ExecContext(r.Context(),
		`DELETE FROM goals WHERE id = $1 AND user_id = $2`,
		chi.URLParam(r, "goalID"), middleware.UserID(r.Context()))
	if err != nil {
		h.logger.Error("delete goal", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not delete goal")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondError(w, http.StatusNotFound, "goal not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "goal deleted"})
}
