package handlers

import (
	"encoding/json"
	"time"

	"peaktrack/internal/models"
	"peaktrack/internal/scoring"
)

// Response shapes. Date-only fields are formatted as "2006-01-02" strings;
// timestamps marshal as RFC 3339 via time.Time.

type UserDTO struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
	Timezone  string  `json:"timezone"`
	Role      string  `json:"role"`

	WorkType            *string  `json:"work_type"`
	WorkHoursTarget     *float64 `json:"work_hours_target"`
	SleepTarget         *float64 `json:"sleep_target"`
	PrimaryGoal         *string  `json:"primary_goal"`
	ExperienceLevel     *string  `json:"experience_level"`
	OnboardingCompleted bool     `json:"onboarding_completed"`

	DailyReminderTime   *string `json:"daily_reminder_time"`
	WeeklyReportEnabled bool    `json:"weekly_report_enabled"`
	NotificationEnabled bool    `json:"notification_enabled"`

	IsActive    bool       `json:"is_active"`
	IsVerified  bool       `json:"is_verified"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLogin   *time.Time `json:"last_login"`
	LastCheckin *time.Time `json:"last_checkin"`
}

func toUserDTO(u models.User) UserDTO {
	return UserDTO{
		ID:                  u.ID,
		Email:               u.Email,
		FullName:            u.FullName,
		AvatarURL:           u.AvatarURL,
		Timezone:            u.Timezone,
		Role:                u.Role,
		WorkType:            u.WorkType,
		WorkHoursTarget:     u.WorkHoursTarget,
		SleepTarget:         u.SleepTarget,
		PrimaryGoal:         u.PrimaryGoal,
		ExperienceLevel:     u.ExperienceLevel,
		OnboardingCompleted: u.OnboardingCompleted,
		DailyReminderTime:   u.DailyReminderTime,
		WeeklyReportEnabled: u.WeeklyReportEnabled,
		NotificationEnabled: u.NotificationEnabled,
		IsActive:            u.IsActive,
		IsVerified:          u.IsVerified,
		CreatedAt:           u.CreatedAt,
		LastLogin:           u.LastLogin,
		LastCheckin:         u.LastCheckin,
	}
}

type DailyLogDTO struct {
	ID      string `json:"id"`
	LogDate string `json:"log_date"`

	WorkHours      float64 `json:"work_hours"`
	DeepWorkHours  float64 `json:"deep_work_hours"`
	TasksCompleted int     `json:"tasks_completed"`
	TasksPlanned   int     `json:"tasks_planned"`
	Interruptions  int     `json:"interruptions"`

	FocusScore  int `json:"focus_score"`
	EnergyScore int `json:"energy_score"`
	StressLevel int `json:"stress_level"`

	Mood              string  `json:"mood"`
	SleepHours        float64 `json:"sleep_hours"`
	ExerciseMinutes   int     `json:"exercise_minutes"`
	SocialInteraction int     `json:"social_interaction"`

	ProductivityScore *float64 `json:"productivity_score"`
	EnergyIndex       *float64 `json:"energy_index"`
	ConsistencyScore  *float64 `json:"consistency_score"`

	Notes      *string `json:"notes"`
	Highlights *string `json:"highlights"`

	CompletedAt time.Time `json:"completed_at"`
}

// toDailyLogDTO assumes notes/highlights are already decrypted.
func toDailyLogDTO(l models.DailyLog) DailyLogDTO {
	return DailyLogDTO{
		ID:                l.ID,
		LogDate:           l.LogDate.Format(dateLayout),
		WorkHours:         l.WorkHours,
		DeepWorkHours:     l.DeepWorkHours,
		TasksCompleted:    l.TasksCompleted,
		TasksPlanned:      l.TasksPlanned,
		Interruptions:     l.Interruptions,
		FocusScore:        l.FocusScore,
		EnergyScore:       l.EnergyScore,
		StressLevel:       l.StressLevel,
		Mood:              l.Mood,
		SleepHours:        l.SleepHours,
		ExerciseMinutes:   l.ExerciseMinutes,
		SocialInteraction: l.SocialInteraction,
		ProductivityScore: l.ProductivityScore,
		EnergyIndex:       l.EnergyIndex,
		ConsistencyScore:  l.ConsistencyScore,
		Notes:             l.Notes,
		Highlights:        l.Highlights,
		CompletedAt:       l.CompletedAt,
	}
}

type HabitLogDTO struct {
	ID            string  `json:"id"`
	HabitID       string  `json:"habit_id"`
	LogDate       string  `json:"log_date"`
	Completed     bool    `json:"completed"`
	ProgressValue float64 `json:"progress_value"`
	Notes         *string `json:"notes"`
}

func toHabitLogDTO(l models.HabitLog) HabitLogDTO {
	return HabitLogDTO{
		ID:            l.ID,
		HabitID:       l.HabitID,
		LogDate:       l.LogDate.Format(dateLayout),
		Completed:     l.Completed,
		ProgressValue: l.ProgressValue,
		Notes:         l.Notes,
	}
}

type HabitDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Category    string  `json:"category"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`

	Frequency         string  `json:"frequency"`
	TargetDaysPerWeek int     `json:"target_days_per_week"`
	CustomDays        *string `json:"custom_days"`

	TargetType   string  `json:"target_type"`
	TargetValue  float64 `json:"target_value"`
	TargetUnit   string  `json:"target_unit"`
	ReminderTime *string `json:"reminder_time"`
	Difficulty   int     `json:"difficulty"`

	SuccessRate      float64 `json:"success_rate"`
	HealthScore      float64 `json:"health_score"`
	CurrentStreak    int     `json:"current_streak"`
	LongestStreak    int     `json:"longest_streak"`
	TotalCompletions int     `json:"total_completions"`

	IsActive   bool      `json:"is_active"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`

	RecentLogs     []HabitLogDTO `json:"recent_logs,omitempty"`
	CompletedToday bool          `json:"completed_today"`
}

func toHabitDTO(h models.Habit) HabitDTO {
	return HabitDTO{
		ID:                h.ID,
		Name:              h.Name,
		Description:       h.Description,
		Category:          h.Category,
		Icon:              h.Icon,
		Color:             h.Color,
		Frequency:         h.Frequency,
		TargetDaysPerWeek: h.TargetDaysPerWeek,
		CustomDays:        h.CustomDays,
		TargetType:        h.TargetType,
		TargetValue:       h.TargetValue,
		TargetUnit:        h.TargetUnit,
		ReminderTime:      h.ReminderTime,
		Difficulty:        h.Difficulty,
		SuccessRate:       h.SuccessRate,
		HealthScore:       h.HealthScore,
		CurrentStreak:     h.CurrentStreak,
		LongestStreak:     h.LongestStreak,
		TotalCompletions:  h.TotalCompletions,
		IsActive:          h.IsActive,
		IsArchived:        h.IsArchived,
		CreatedAt:         h.CreatedAt,
	}
}

type GoalDTO struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Category    string  `json:"category"`
	Metric      string  `json:"metric"`
	TargetValue float64 `json:"target_value"`
	CurrentVal  float64 `json:"current_value"`
	Unit        string  `json:"unit"`

	PriorityWeight     float64  `json:"priority_weight"`
	GoalScore          *float64 `json:"goal_score"`
	SuccessProbability *float64 `json:"success_probability"`
	ProgressPercentage float64  `json:"progress_percentage"`

	StartDate string  `json:"start_date"`
	Deadline  *string `json:"deadline"`

	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func toGoalDTO(g models.Goal) GoalDTO {
	dto := GoalDTO{
		ID:                 g.ID,
		Title:              g.Title,
		Description:        g.Description,
		Category:           g.Category,
		Metric:             g.Metric,
		TargetValue:        g.TargetValue,
		CurrentVal:         g.CurrentVal,
		Unit:               g.Unit,
		PriorityWeight:     g.PriorityWeight,
		GoalScore:          g.GoalScore,
		SuccessProbability: g.SuccessProbability,
		ProgressPercentage: scoring.ProgressPercentage(g.CurrentVal, g.TargetValue),
		StartDate:          g.StartDate.Format(dateLayout),
		Status:             g.Status,
		CreatedAt:          g.CreatedAt,
		CompletedAt:        g.CompletedAt,
	}
	if g.Deadline != nil {
		d := g.Deadline.Format(dateLayout)
		dto.Deadline = &d
	}
	return dto
}

type BurnoutScoreDTO struct {
	ID        string `json:"id"`
	ScoreDate string `json:"score_date"`

	RiskScore    float64 `json:"risk_score"`
	RiskCategory string  `json:"risk_category"`

	WorkloadTrend    float64 `json:"workload_trend"`
	EnergyDecline    float64 `json:"energy_decline"`
	SleepDeficit     float64 `json:"sleep_deficit"`
	StressScore      float64 `json:"stress_score"`
	ProductivityDrop float64 `json:"productivity_drop"`

	TrendDirection string  `json:"trend_direction"`
	TrendChange    float64 `json:"trend_change"`

	Recommendations []string `json:"recommendations"`
}

func toBurnoutScoreDTO(b models.BurnoutScore) BurnoutScoreDTO {
	dto := BurnoutScoreDTO{
		ID:               b.ID,
		ScoreDate:        b.ScoreDate.Format(dateLayout),
		RiskScore:        b.RiskScore,
		RiskCategory:     b.RiskCategory,
		WorkloadTrend:    b.WorkloadTrend,
		EnergyDecline:    b.EnergyDecline,
		SleepDeficit:     b.SleepDeficit,
		StressScore:      b.StressScore,
		ProductivityDrop: b.ProductivityDrop,
		TrendDirection:   b.TrendDirection,
		TrendChange:      b.TrendChange,
		Recommendations:  []string{},
	}
	if b.Recommendations != nil {
		_ = json.Unmarshal([]byte(*b.Recommendations), &dto.Recommendations)
	}
	return dto
}

type InsightDTO struct {
	ID           string    `json:"id"`
	Category     string    `json:"category"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	InsightType  string    `json:"insight_type"`
	Severity     string    `json:"severity"`
	ImpactScore  *float64  `json:"impact_score"`
	Confidence   float64   `json:"confidence"`
	IsRead       bool      `json:"is_read"`
	IsDismissed  bool      `json:"is_dismissed"`
	IsActionable bool      `json:"is_actionable"`
	CreatedAt    time.Time `json:"created_at"`
}

func toInsightDTO(i models.Insight) InsightDTO {
	return InsightDTO{
		ID:           i.ID,
		Category:     i.Category,
		Title:        i.Title,
		Message:      i.Message,
		InsightType:  i.InsightType,
		Severity:     i.Severity,
		ImpactScore:  i.ImpactScore,
		Confidence:   i.Confidence,
		IsRead:       i.IsRead,
		IsDismissed:  i.IsDismissed,
		IsActionable: i.IsActionable,
		CreatedAt:    i.CreatedAt,
	}
}
