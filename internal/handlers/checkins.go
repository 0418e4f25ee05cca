package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"peaktrack/internal/burnout"
	"peaktrack/internal/crypto"
	"peaktrack/internal/insights"
	"peaktrack/internal/middleware"
	"peaktrack/internal/models"
	"peaktrack/internal/scoring"
	"peaktrack/internal/stats"
)

const (
	consistencyWindowDays = 7
	burnoutWindowDays     = 14
	insightWindowDays     = 30
)

type CheckinHandler struct {
	db     *sqlx.DB
	cipher *crypto.Cipher
	logger *zap.Logger
}

func NewCheckinHandler(db *sqlx.DB, cipher *crypto.Cipher, logger *zap.Logger) *CheckinHandler {
	return &CheckinHandler{db: db, cipher: cipher, logger: logger}
}

type checkinRequest struct {
	LogDate string `json:"log_date" validate:"required,datetime=2006-01-02"`

	WorkHours      float64 `json:"work_hours" validate:"gte=0,lte=24"`
	DeepWorkHours  float64 `json:"deep_work_hours" validate:"gte=0,lte=24"`
	TasksCompleted int     `json:"tasks_completed" validate:"gte=0"`
	TasksPlanned   int     `json:"tasks_planned" validate:"gte=0"`
	Interruptions  int     `json:"interruptions" validate:"gte=0"`

	FocusScore  *int `json:"focus_score" validate:"omitempty,gte=1,lte=10"`
	EnergyScore *int `json:"energy_score" validate:"omitempty,gte=1,lte=10"`
	StressLevel *int `json:"stress_level" validate:"omitempty,gte=1,lte=10"`

	Mood              *string  `json:"mood" validate:"omitempty,oneof=great good neutral bad terrible"`
	SleepHours        *float64 `json:"sleep_hours" validate:"omitempty,gte=0,lte=24"`
	ExerciseMinutes   int      `json:"exercise_minutes" validate:"gte=0"`
	SocialInteraction *int     `json:"social_interaction" validate:"omitempty,gte=1,lte=10"`

	Notes      *string `json:"notes"`
	Highlights *string `json:"highlights"`

	TimeToCompleteSeconds *int `json:"time_to_complete_seconds" validate:"omitempty,gte=0"`
}

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

// Create records the daily check-in and runs the full write-time cascade in
// one transaction: scores, streak, burnout snapshot, insight generation and
// the telemetry event. Either all of it lands or none of it does.
func (h *CheckinHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req checkinRequest
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

	l := models.DailyLog{
		ID:                    uuid.NewString(),
		UserID:                userID,
		LogDate:               logDate,
		WorkHours:             req.WorkHours,
		DeepWorkHours:         req.DeepWorkHours,
		TasksCompleted:        req.TasksCompleted,
		TasksPlanned:          req.TasksPlanned,
		Interruptions:         req.Interruptions,
		FocusScore:            intOr(req.FocusScore, 5),
		EnergyScore:           intOr(req.EnergyScore, 5),
		StressLevel:           intOr(req.StressLevel, 5),
		Mood:                  "neutral",
		SleepHours:            7.0,
		ExerciseMinutes:       req.ExerciseMinutes,
		SocialInteraction:     intOr(req.SocialInteraction, 5),
		Notes:                 req.Notes,
		Highlights:            req.Highlights,
		TimeToCompleteSeconds: req.TimeToCompleteSeconds,
	}
	if req.Mood != nil {
		l.Mood = *req.Mood
	}
	if req.SleepHours != nil {
		l.SleepHours = *req.SleepHours
	}

	prod := scoring.ProductivityScore(l)
	energy := scoring.EnergyIndex(l)
	l.ProductivityScore = &prod
	l.EnergyIndex = &energy

	encNotes, err := h.cipher.EncryptPtr(l.Notes)
	if err == nil {
		var encHighlights *string
		encHighlights, err = h.cipher.EncryptPtr(l.Highlights)
		if err == nil {
			err = h.runCheckinCascade(r, &l, encNotes, encHighlights, req.TimeToCompleteSeconds)
		}
	}
	if err != nil {
		if isUniqueViolation(err) {
			respondError(w, http.StatusConflict, "check-in already exists for this date")
			return
		}
		h.logger.Error("create check-in", zap.Error(err), zap.String("user_id", userID))
		respondError(w, http.StatusInternalServerError, "could not save check-in")
		return
	}

	respondJSON(w, http.StatusCreated, toDailyLogDTO(l))
}

func (h *CheckinHandler) runCheckinCascade(r *http.Request, l *models.DailyLog, encNotes, encHighlights *string, durationSeconds *int) error {
	ctx := r.Context()
	tx, err := h.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, &l.CompletedAt, `
		INSERT INTO daily_logs (
			id, user_id, log_date,
			work_hours, deep_work_hours, tasks_completed, tasks_planned, interruptions,
			focus_score, energy_score, stress_level,
			mood, sleep_hours, exercise_minutes, social_interaction,
			productivity_score, energy_index,
			notes, highlights, time_to_complete_seconds
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
		RETURNING completed_at`,
		l.ID, l.UserID, l.LogDate,
		l.WorkHours, l.DeepWorkHours, l.TasksCompleted, l.TasksPlanned, l.Interruptions,
		l.FocusScore, l.EnergyScore, l.StressLevel,
		l.Mood, l.SleepHours, l.ExerciseMinutes, l.SocialInteraction,
		l.ProductivityScore, l.EnergyIndex,
		encNotes, encHighlights, l.TimeToCompleteSeconds)
	if err != nil {
		return err
	}

	consistency, err := h.recomputeConsistency(ctx, tx, l.UserID, l.LogDate)
	if err != nil {
		return err
	}
	l.ConsistencyScore = &consistency
	if _, err := tx.ExecContext(ctx,
		`UPDATE daily_logs SET consistency_score = $1 WHERE id = $2`, consistency, l.ID); err != nil {
		return err
	}

	if err := h.advanceStreak(ctx, tx, l.UserID, l.LogDate); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET last_checkin = NOW() WHERE id = $1`, l.UserID); err != nil {
		return err
	}

	if err := h.snapshotBurnout(ctx, tx, l.UserID, l.LogDate); err != nil {
		return err
	}

	if err := h.generateInsights(ctx, tx, l.UserID, l.LogDate); err != nil {
		return err
	}

	if err := trackEvent(ctx, tx, l.UserID, "checkin_completed", "checkin",
		map[string]any{"log_date": l.LogDate.Format(dateLayout)}, durationSeconds); err != nil {
		return err
	}

	return tx.Commit()
}

// recomputeConsistency reads the trailing window back from the database so
// the score reflects stored values, including the row just written.
func (h *CheckinHandler) recomputeConsistency(ctx context.Context, q sqlx.QueryerContext, userID string, logDate time.Time) (float64, error) {
	var window []models.DailyLog
	err := sqlx.SelectContext(ctx, q, &window, `
		SELECT * FROM daily_logs
		WHERE user_id = $1 AND log_date > $2 AND log_date <= $3
		ORDER BY log_date`,
		userID, logDate.AddDate(0, 0, -consistencyWindowDays), logDate)
	if err != nil {
		return 0, err
	}
	return scoring.ConsistencyScore(window, consistencyWindowDays), nil
}

func (h *CheckinHandler) advanceStreak(ctx context.Context, tx *sqlx.Tx, userID string, logDate time.Time) error {
	var row models.Streak
	state := scoring.StreakState{}
	err := tx.GetContext(ctx, &row,
		`SELECT * FROM streaks WHERE user_id = $1 AND streak_type = 'checkin'`, userID)
	switch {
	case err == nil:
		state = scoring.StreakState{
			CurrentCount: row.CurrentCount,
			LongestCount: row.LongestCount,
			StartDate:    row.StartDate,
			LastDate:     row.LastDate,
		}
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	state = scoring.AdvanceCheckinStreak(state, logDate)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO streaks (id, user_id, streak_type, current_count, longest_count, start_date, last_date)
		VALUES ($1, $2, 'checkin', $3, $4, $5, $6)
		ON CONFLICT (user_id, streak_type) DO UPDATE SET
			current_count = EXCLUDED.current_count,
			longest_count = EXCLUDED.longest_count,
			start_date = EXCLUDED.start_date,
			last_date = EXCLUDED.last_date,
			updated_at = NOW()`,
		uuid.NewString(), userID, state.CurrentCount, state.LongestCount, state.StartDate, state.LastDate)
	return err
}

func (h *CheckinHandler) snapshotBurnout(ctx context.Context, tx *sqlx.Tx, userID string, logDate time.Time) error {
	var window []models.DailyLog
	err := tx.SelectContext(ctx, &window, `
		SELECT * FROM daily_logs
		WHERE user_id = $1 AND log_date > $2 AND log_date <= $3
		ORDER BY log_date`,
		userID, logDate.AddDate(0, 0, -burnoutWindowDays), logDate)
	if err != nil {
		return err
	}

	var prev models.BurnoutScore
	var prevPtr *models.BurnoutScore
	err = tx.GetContext(ctx, &prev, `
		SELECT * FROM burnout_scores
		WHERE user_id = $1 AND score_date < $2
		ORDER BY score_date DESC LIMIT 1`, userID, logDate)
	switch {
	case err == nil:
		prevPtr = &prev
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	a := burnout.Assess(window, prevPtr)
	recs, err := json.Marshal(a.Recommendations)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO burnout_scores (
			id, user_id, score_date, risk_score, risk_category,
			workload_trend, energy_decline, sleep_deficit, stress_score, productivity_drop,
			trend_direction, trend_change, recommendations
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		uuid.NewString(), userID, logDate, a.RiskScore, a.RiskCategory,
		a.WorkloadTrend, a.EnergyDecline, a.SleepDeficit, a.StressScore, a.ProductivityDrop,
		a.TrendDirection, a.TrendChange, string(recs))
	return err
}

// generateInsights persists new insight candidates, skipping titles already
// raised for this user inside the dedup window.
func (h *CheckinHandler) generateInsights(ctx context.Context, tx *sqlx.Tx, userID string, logDate time.Time) error {
	var window []models.DailyLog
	err := tx.SelectContext(ctx, &window, `
		SELECT * FROM daily_logs
		WHERE user_id = $1 AND log_date > $2 AND log_date <= $3
		ORDER BY log_date`,
		userID, logDate.AddDate(0, 0, -insightWindowDays), logDate)
	if err != nil {
		return err
	}

	dedupSince := time.Now().UTC().AddDate(0, 0, -insightWindowDays)
	for _, c := range insights.Generate(window) {
		var exists bool
		err := tx.GetContext(ctx, &exists, `
			SELECT EXISTS (
				SELECT 1 FROM insights
				WHERE user_id = $1 AND title = $2 AND created_at >= $3
			)`, userID, c.Title, dedupSince)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO insights (id, user_id, category, title, message, insight_type, severity, impact_score, confidence, is_actionable)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			uuid.NewString(), userID, c.Category, c.Title, c.Message,
			c.InsightType, c.Severity, c.ImpactScore, c.Confidence,
			c.InsightType == "recommendation" || c.InsightType == "alert"); err != nil {
			return err
		}
	}
	return nil
}

func (h *CheckinHandler) Today(w http.ResponseWriter, r *http.Request) {
	var l models.DailyLog
	err := h.db.GetContext(r.Context(), &l,
		`SELECT * FROM daily_logs WHERE user_id = $1 AND log_date = $2`,
		middleware.UserID(r.Context()), today())
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "no check-in for today")
		return
	}
	if err != nil {
		h.logger.Error("select today", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load check-in")
		return
	}
	if err := h.decryptLog(&l); err != nil {
		h.logger.Error("decrypt check-in", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load check-in")
		return
	}
	respondJSON(w, http.StatusOK, toDailyLogDTO(l))
}

func (h *CheckinHandler) History(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30, 1, 365)
	var logs []models.DailyLog
	err := h.db.SelectContext(r.Context(), &logs, `
		SELECT * FROM daily_logs
		WHERE user_id = $1 AND log_date > $2
		ORDER BY log_date DESC`,
		middleware.UserID(r.Context()), today().AddDate(0, 0, -days))
	if err != nil {
		h.logger.Error("select history", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load history")
		return
	}

	out := make([]DailyLogDTO, 0, len(logs))
	for i := range logs {
		if err := h.decryptLog(&logs[i]); err != nil {
			h.logger.Error("decrypt check-in", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "could not load history")
			return
		}
		out = append(out, toDailyLogDTO(logs[i]))
	}
	respondJSON(w, http.StatusOK, out)
}

type checkinSummary struct {
	Days            int     `json:"days"`
	TotalCheckins   int     `json:"total_checkins"`
	CompletionRate  float64 `json:"completion_rate"`
	AvgProductivity float64 `json:"avg_productivity"`
	AvgEnergy       float64 `json:"avg_energy"`
	AvgSleep        float64 `json:"avg_sleep"`
	AvgWorkHours    float64 `json:"avg_work_hours"`
	AvgStress       float64 `json:"avg_stress"`
	CurrentStreak   int     `json:"current_streak"`
	LongestStreak   int     `json:"longest_streak"`
}

func (h *CheckinHandler) Summary(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30, 1, 365)
	userID := middleware.UserID(r.Context())

	var logs []models.DailyLog
	err := h.db.SelectContext(r.Context(), &logs, `
		SELECT * FROM daily_logs
		WHERE user_id = $1 AND log_date > $2
		ORDER BY log_date`,
		userID, today().AddDate(0, 0, -days))
	if err != nil {
		h.logger.Error("select summary window", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load summary")
		return
	}

	var prod, energy, sleep, work, stress []float64
	for _, l := range logs {
		if l.ProductivityScore != nil {
			prod = append(prod, *l.ProductivityScore)
		}
		if l.EnergyIndex != nil {
			energy = append(energy, *l.EnergyIndex)
		}
		sleep = append(sleep, l.SleepHours)
		work = append(work, l.WorkHours)
		stress = append(stress, float64(l.StressLevel))
	}

	summary := checkinSummary{
		Days:            days,
		TotalCheckins:   len(logs),
		CompletionRate:  stats.Round1(float64(len(logs)) / float64(days) * 100),
		AvgProductivity: stats.Round1(stats.Mean(prod)),
		AvgEnergy:       stats.Round1(stats.Mean(energy)),
		AvgSleep:        stats.Round1(stats.Mean(sleep)),
		AvgWorkHours:    stats.Round1(stats.Mean(work)),
		AvgStress:       stats.Round1(stats.Mean(stress)),
	}

	var streak models.Streak
	err = h.db.GetContext(r.Context(), &streak,
		`SELECT * FROM streaks WHERE user_id = $1 AND streak_type = 'checkin'`, userID)
	if err == nil {
		summary.CurrentStreak = streak.CurrentCount
		summary.LongestStreak = streak.LongestCount
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.logger.Error("select streak", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

type checkinUpdateRequest struct {
	WorkHours      *float64 `json:"work_hours" validate:"omitempty,gte=0,lte=24"`
	DeepWorkHours  *float64 `json:"deep_work_hours" validate:"omitempty,gte=0,lte=24"`
	TasksCompleted *int     `json:"tasks_completed" validate:"omitempty,gte=0"`
	TasksPlanned   *int     `json:"tasks_planned" validate:"omitempty,gte=0"`
	Interruptions  *int     `json:"interruptions" validate:"omitempty,gte=0"`

	FocusScore  *int `json:"focus_score" validate:"omitempty,gte=1,lte=10"`
	EnergyScore *int `json:"energy_score" validate:"omitempty,gte=1,lte=10"`
	StressLevel *int `json:"stress_level" validate:"omitempty,gte=1,lte=10"`

	Mood              *string  `json:"mood" validate:"omitempty,oneof=great good neutral bad terrible"`
	SleepHours        *float64 `json:"sleep_hours" validate:"omitempty,gte=0,lte=24"`
	ExerciseMinutes   *int     `json:"exercise_minutes" validate:"omitempty,gte=0"`
	SocialInteraction *int     `json:"social_interaction" validate:"omitempty,gte=1,lte=10"`

	Notes      *string `json:"notes"`
	Highlights *string `json:"highlights"`
}

// Update edits an existing check-in and recomputes its three scores. It does
// not replay the streak, burnout or insight steps; those reflect the state at
// check-in time.
func (h *CheckinHandler) Update(w http.ResponseWriter, r *http.Request) {
	logDate, err := parseDate(chi.URLParam(r, "date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	var req checkinUpdateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID := middleware.UserID(r.Context())
	ctx := r.Context()

	tx, err := h.db.BeginTxx(ctx, nil)
	if err != nil {
		h.logger.Error("begin tx", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not update check-in")
		return
	}
	defer tx.Rollback()

	var l models.DailyLog
	err = tx.GetContext(ctx, &l,
		`SELECT * FROM daily_logs WHERE user_id = $1 AND log_date = $2`, userID, logDate)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "no check-in for this date")
		return
	}
	if err != nil {
		h.logger.Error("select check-in", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not update check-in")
		return
	}
	if err := h.decryptLog(&l); err != nil {
		h.logger.Error("decrypt check-in", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not update check-in")
		return
	}

	if req.WorkHours != nil {
		l.WorkHours = *req.WorkHours
	}
	if req.DeepWorkHours != nil {
		l.DeepWorkHours = *req.DeepWorkHours
	}
	if req.TasksCompleted != nil {
		l.TasksCompleted = *req.TasksCompleted
	}
	if req.TasksPlanned != nil {
		l.TasksPlanned = *req.TasksPlanned
	}
	if req.Interruptions != nil {
		l.Interruptions = *req.Interruptions
	}
	if req.FocusScore != nil {
		l.FocusScore = *req.FocusScore
	}
	if req.EnergyScore != nil {
		l.EnergyScore = *req.EnergyScore
	}
	if req.StressLevel != nil {
		l.StressLevel = *req.StressLevel
	}
	if req.Mood != nil {
		l.Mood = *req.Mood
	}
	if req.SleepHours != nil {
		l.SleepHours = *req.SleepHours
	}
	if req.ExerciseMinutes != nil {
		l.ExerciseMinutes = *req.ExerciseMinutes
	}
	if req.SocialInteraction != nil {
		l.SocialInteraction = *req.SocialInteraction
	}
	if req.Notes != nil {
		l.Notes = req.Notes
	}
	if req.Highlights != nil {
		l.Highlights = req.Highlights
	}

	prod := scoring.ProductivityScore(l)
	energy := scoring.EnergyIndex(l)
	l.ProductivityScore = &prod
	l.EnergyIndex = &energy

	encNotes, err := h.cipher.EncryptPtr(l.Notes)
	if err != nil {
		h.logger.Error("encrypt notes", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not update check-in")
		return
	}
	encHighlights, err := h.cipher.EncryptPtr(l.Highlights)
	if err != nil {
		h.logger.Error("encrypt highlights", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not update check-in")
		return
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE daily_logs SET
			work_hours = $1, deep_work_hours = $2, tasks_completed = $3,
			tasks_planned = $4, interruptions = $5,
			focus_score = $6, energy_score = $7, stress_level = $8,
			mood = $9, sleep_hours = $10, exercise_minutes = $11, social_interaction = $12,
			productivity_score = $13, energy_index = $14,
			notes = $15, highlights = $16
		WHERE id = $17`,
		l.WorkHours, l.DeepWorkHours, l.TasksCompleted,
		l.TasksPlanned, l.Interruptions,
		l.FocusScore, l.EnergyScore, l.StressLevel,
		l.Mood, l.SleepHours, l.ExerciseMinutes, l.SocialInteraction,
		l.ProductivityScore, l.EnergyIndex,
		encNotes, encHighlights, l.ID)
	if err != nil {
		h.logger.Error("update check-in", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not update check-in")
		return
	}

	consistency, err := h.recomputeConsistency(ctx, tx, userID, logDate)
	if err != nil {
		h.logger.Error("recompute consistency", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not update check-in")
		return
	}
	l.ConsistencyScore = &consistency
	if _, err := tx.ExecContext(ctx,
		`UPDATE daily_logs SET consistency_score = $1 WHERE id = $2`, consistency, l.ID); err != nil {
		h.logger.Error("store consistency", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not update check-in")
		return
	}

	if err := tx.Commit(); err != nil {
		h.logger.Error("commit update", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not update check-in")
		return
	}
	respondJSON(w, http.StatusOK, toDailyLogDTO(l))
}

func (h *CheckinHandler) decryptLog(l *models.DailyLog) error {
	notes, err := h.cipher.DecryptPtr(l.Notes)
	if err != nil {
		return err
	}
	highlights, err := h.cipher.DecryptPtr(l.Highlights)
	if err != nil {
		return err
	}
	l.Notes = notes
	l.Highlights = highlights
	return nil
}
