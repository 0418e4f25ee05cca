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

type HabitHandler struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewHabitHandler(db *sqlx.DB, logger *zap.Logger) *HabitHandler {
	return &HabitHandler{db: db, logger: logger}
}

func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	includeArchived := r.URL.Query().Get("include_archived") == "true"

	query := `SELECT * FROM habits WHERE user_id = $1`
	if !includeArchived {
		query += ` AND is_archived = FALSE`
	}
	query += ` ORDER BY created_at`

	var habits []models.Habit
	if err := h.db.SelectContext(r.Context(), &habits, query, userID); err != nil {
		h.logger.Error("select habits", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load habits")
		return
	}

	out := make([]HabitDTO, 0, len(habits))
	todayDate := today()
	for _, habit := range habits {
		var logs []models.HabitLog
		err := h.db.SelectContext(r.Context(), &logs, `
			SELECT * FROM habit_logs
			WHERE habit_id = $1 AND log_date > $2
			ORDER BY log_date DESC`,
			habit.ID, todayDate.AddDate(0, 0, -30))
		if err != nil {
			h.logger.Error("select habit logs", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "could not load habits")
			return
		}

		dto := toHabitDTO(habit)
		dto.RecentLogs = make([]HabitLogDTO, 0, len(logs))
		for _, l := range logs {
			dto.RecentLogs = append(dto.RecentLogs, toHabitLogDTO(l))
			if l.LogDate.Equal(todayDate) && l.Completed {
				dto.CompletedToday = true
			}
		}
		out = append(out, dto)
	}
	respondJSON(w, http.StatusOK, out)
}

type habitCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description"`
	Category    string  `json:"category" validate:"required"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`

	Frequency         *string `json:"frequency" validate:"omitempty,oneof=daily weekdays weekly custom"`
	TargetDaysPerWeek *int    `json:"target_days_per_week" validate:"omitempty,gte=1,lte=7"`
	CustomDays        *string `json:"custom_days"`

	TargetType   *string  `json:"target_type" validate:"omitempty,oneof=binary quantity time"`
	TargetValue  *float64 `json:"target_value" validate:"omitempty,gte=0"`
	TargetUnit   *string  `json:"target_unit"`
	ReminderTime *string  `json:"reminder_time"`
	Difficulty   *int     `json:"difficulty" validate:"omitempty,gte=1,lte=5"`
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req habitCreateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID := middleware.UserID(r.Context())

	habit := models.Habit{
		ID:                uuid.NewString(),
		UserID:            userID,
		Name:              req.Name,
		Description:       req.Description,
		Category:          req.Category,
		Icon:              req.Icon,
		Color:             req.Color,
		Frequency:         "daily",
		TargetDaysPerWeek: 7,
		CustomDays:        req.CustomDays,
		TargetType:        "binary",
		TargetValue:       1,
		TargetUnit:        "times",
		ReminderTime:      req.ReminderTime,
		Difficulty:        3,
	}
	if req.Frequency != nil {
		habit.Frequency = *req.Frequency
	}
	if req.TargetDaysPerWeek != nil {
		habit.TargetDaysPerWeek = *req.TargetDaysPerWeek
	}
	if req.TargetType != nil {
		habit.TargetType = *req.TargetType
	}
	if req.TargetValue != nil {
		habit.TargetValue = *req.TargetValue
	}
	if req.TargetUnit != nil {
		habit.TargetUnit = *req.TargetUnit
	}
	if req.Difficulty != nil {
		habit.Difficulty = *req.Difficulty
	}

	err := h.db.GetContext(r.Context(), &habit, `
		INSERT INTO habits (
			id, user_id, name, description, category, icon, color,
			frequency, target_days_per_week, custom_days,
			target_type, target_value, target_unit, reminder_time, difficulty
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING *`,
		habit.ID, habit.UserID, habit.Name, habit.Description, habit.Category, habit.Icon, habit.Color,
		habit.Frequency, habit.TargetDaysPerWeek, habit.CustomDays,
		habit.TargetType, habit.TargetValue, habit.TargetUnit, habit.ReminderTime, habit.Difficulty)
	if err != nil {
		h.logger.Error("insert habit", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not create habit")
		return
	}

	if err := trackEvent(r.Context(), h.db, userID, "habit_created", "habit",
		map[string]any{"habit_id": habit.ID, "name": habit.Name}, nil); err != nil {
		h.logger.Warn("track habit_created", zap.Error(err))
	}
	respondJSON(w, http.StatusCreated, toHabitDTO(habit))
}

type habitUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`

	Frequency         *string `json:"frequency" validate:"omitempty,oneof=daily weekdays weekly custom"`
	TargetDaysPerWeek *int    `json:"target_days_per_week" validate:"omitempty,gte=1,lte=7"`
	CustomDays        *string `json:"custom_days"`

	TargetType   *string  `json:"target_type" validate:"omitempty,oneof=binary quantity time"`
	TargetValue  *float64 `json:"target_value" validate:"omitempty,gte=0"`
	TargetUnit   *string  `json:"target_unit"`
	ReminderTime *string  `json:"reminder_time"`
	Difficulty   *int     `json:"difficulty" validate:"omitempty,gte=1,lte=5"`

	IsActive   *bool `json:"is_active"`
	IsArchived *bool `json:"is_archived"`
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req habitUpdateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID := middleware.UserID(r.Context())
	habitID := chi.URLParam(r, "habitID")

	var habit models.Habit
	err := h.db.GetContext(r.Context(), &habit,
		`SELECT * FROM habits WHERE id = $1 AND user_id = $2`, habitID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "habit not found")
		return
	}
	if err != nil {
		h.logger.Error("select habit", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not update habit")
		return
	}

	if req.Name != nil {
		habit.Name = *req.Name
	}
	if req.Description != nil {
		habit.Description = req.Description
	}
	if req.Category != nil {
		habit.Category = *req.Category
	}
	if req.Icon != nil {
		habit.Icon = req.Icon
	}
	if req.Color != nil {
		habit.Color = req.Color
	}
	if req.Frequency != nil {
		habit.Frequency = *req.Frequency
	}
	if req.TargetDaysPerWeek != nil {
		habit.TargetDaysPerWeek = *req.TargetDaysPerWeek
	}
	if req.CustomDays != nil {
		habit.CustomDays = req.CustomDays
	}
	if req.TargetType != nil {
		habit.TargetType = *req.TargetType
	}
	if req.TargetValue != nil {
		habit.TargetValue = *req.TargetValue
	}
	if req.TargetUnit != nil {
		habit.TargetUnit = *req.TargetUnit
	}
	if req.ReminderTime != nil {
		habit.ReminderTime = req.ReminderTime
	}
	if req.Difficulty != nil {
		habit.Difficulty = *req.Difficulty
	}
	if req.IsActive != nil {
		habit.IsActive = *req.IsActive
	}
	if req.IsArchived != nil {
		habit.IsArchived = *req.IsArchived
	}

	_, err = h.db.ExecContext(r.Context(), `
		UPDATE habits SET
			name = $1, description = $2, category = $3, icon = $4, color = $5,
			frequency = $6, target_days_per_week = $7, custom_days = $8,
			target_type = $9, target_value = $10, target_unit = $11,
			reminder_time = $12, difficulty = $13,
			is_active = $14, is_archived = $15, updated_at = NOW()
		WHERE id = $16`,
		habit.Name, habit.Description, habit.Category, habit.Icon, habit.Color,
		habit.Frequency, habit.TargetDaysPerWeek, habit.CustomDays,
		habit.TargetType, habit.TargetValue, habit.TargetUnit,
		habit.ReminderTime, habit.Difficulty,
		habit.IsActive, habit.IsArchived, habit.ID)
	if err != nil {
		h.logger.Error("update habit", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not update habit")
		return
	}
	respondJSON(w, http.StatusOK, toHabitDTO(habit))
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.db.ExecContext(r.Context(),
		`DELETE FROM habits WHERE id = $1 AND user_id = $2`,
		chi.URLParam(r, "habitID"), middleware.UserID(r.Context()))
	if err != nil {
		h.logger.Error("delete habit", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not delete habit")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondError(w, http.StatusNotFound, "habit not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "habit deleted"})
}

type habitLogRequest struct {
	HabitID       string   `json:"habit_id" validate:"required,uuid"`
	LogDate       string   `json:"log_date" validate:"required,datetime=2006-01-02"`
	Completed     *bool    `json:"completed"`
	ProgressValue *float64 `json:"progress_value" validate:"omitempty,gte=0"`
	Notes         *string  `json:"notes"`
}

// Log records (or re-records) one day of a habit. The same habit and date
// upserts rather than conflicting, so fixing a mistaken entry is a plain
// retry. Derived stats are recomputed afterwards.
func (h *HabitHandler) Log(w http.ResponseWriter, r *http.Request) {
	var req habitLogRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	logDate, err := parseDate(req.LogDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "log_date must be YYYY-MM-DD")
		return
	}
	userID := middleware.UserID(r.Context())
	ctx := r.Context()

	var habit models.Habit
	err = h.db.GetContext(ctx, &habit,
		`SELECT * FROM habits WHERE id = $1 AND user_id = $2`, req.HabitID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "habit not found")
		return
	}
	if err != nil {
		h.logger.Error("select habit", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not log habit")
		return
	}

	progress := 0.0
	if req.ProgressValue != nil {
		progress = *req.ProgressValue
	}
	completed := req.Completed != nil && *req.Completed
	// Quantity and time habits derive completion from progress against the
	// target instead of trusting the flag.
	if habit.TargetType != "binary" {
		completed = progress >= habit.TargetValue
	}

	tx, err := h.db.BeginTxx(ctx, nil)
	if err != nil {
		h.logger.Error("begin tx", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not log habit")
		return
	}
	defer tx.Rollback()

	var logRow models.HabitLog
	err = tx.GetContext(ctx, &logRow, `
		INSERT INTO habit_logs (id, habit_id, user_id, log_date, completed, progress_value, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (habit_id, log_date) DO UPDATE SET
			completed = EXCLUDED.completed,
			progress_value = EXCLUDED.progress_value,
			notes = EXCLUDED.notes,
			completed_at = NOW()
		RETURNING *`,
		uuid.NewString(), habit.ID, userID, logDate, completed, progress, req.Notes)
	if err != nil {
		h.logger.Error("upsert habit log", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not log habit")
		return
	}

	var completedDates []time.Time
	err = tx.SelectContext(ctx, &completedDates,
		`SELECT log_date FROM habit_logs WHERE habit_id = $1 AND completed ORDER BY log_date DESC`,
		habit.ID)
	if err != nil {
		h.logger.Error("select completed dates", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not log habit")
		return
	}

	st := scoring.ComputeHabitStats(completedDates, habit.TargetDaysPerWeek, habit.CreatedAt, today())
	if st.TotalCompletions > 0 {
		_, err = tx.ExecContext(ctx, `
			UPDATE habits SET
				total_completions = $1, success_rate = $2, health_score = $3,
				current_streak = $4, longest_streak = GREATEST(longest_streak, $4),
				updated_at = NOW()
			WHERE id = $5`,
			st.TotalCompletions, st.SuccessRate, st.HealthScore, st.CurrentStreak, habit.ID)
	} else {
		// No completions left; rates go to zero but the stored streak
		// counters keep their last earned values.
		_, err = tx.ExecContext(ctx, `
			UPDATE habits SET
				total_completions = 0, success_rate = $1, health_score = $2,
				updated_at = NOW()
			WHERE id = $3`,
			st.SuccessRate, st.HealthScore, habit.ID)
	}
	if err != nil {
		h.logger.Error("update habit stats", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not log habit")
		return
	}

	if err := trackEvent(ctx, tx, userID, "habit_logged", "habit",
		map[string]any{"habit_id": habit.ID, "completed": completed}, nil); err != nil {
		h.logger.Error("track habit_logged", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not log habit")
		return
	}

	if err := tx.Commit(); err != nil {
		h.logger.Error("commit habit log", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not log habit")
		return
	}
	respondJSON(w, http.StatusCreated, toHabitLogDTO(logRow))
}

func (h *HabitHandler) Logs(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30, 1, 365)
	var logs []models.HabitLog
	err := h.db.SelectContext(r.Context(), &logs, `
		SELECT hl.* FROM habit_logs hl
		JOIN habits h ON h.id = hl.habit_id
		WHERE hl.habit_id = $1 AND h.user_id = $2 AND hl.log_date > $3
		ORDER BY hl.log_date DESC`,
		chi.URLParam(r, "habitID"), middleware.UserID(r.Context()),
		today().AddDate(0, 0, -days))
	if err != nil {
		h.logger.Error("select habit logs", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load habit logs")
		return
	}
	out := make([]HabitLogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, toHabitLogDTO(l))
	}
	respondJSON(w, http.StatusOK, out)
}
