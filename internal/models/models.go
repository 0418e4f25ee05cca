package models

import "time"

type User struct {
	ID             string  `db:"id" json:"id"`
	Email          string  `db:"email" json:"email"`
	HashedPassword string  `db:"hashed_password" json:"-"`
	FullName       string  `db:"full_name" json:"full_name"`
	AvatarURL      *string `db:"avatar_url" json:"avatar_url,omitempty"`
	Timezone       string  `db:"timezone" json:"timezone"`
	Role           string  `db:"role" json:"role"` // user, admin, premium

	// Onboarding profile
	WorkType            *string  `db:"work_type" json:"work_type,omitempty"`
	WorkHoursTarget     *float64 `db:"work_hours_target" json:"work_hours_target,omitempty"`
	SleepTarget         *float64 `db:"sleep_target" json:"sleep_target,omitempty"`
	PrimaryGoal         *string  `db:"primary_goal" json:"primary_goal,omitempty"`
	ExperienceLevel     *string  `db:"experience_level" json:"experience_level,omitempty"`
	OnboardingCompleted bool     `db:"onboarding_completed" json:"onboarding_completed"`

	// Settings
	DailyReminderTime   *string `db:"daily_reminder_time" json:"daily_reminder_time,omitempty"`
	WeeklyReportEnabled bool    `db:"weekly_report_enabled" json:"weekly_report_enabled"`
	NotificationEnabled bool    `db:"notification_enabled" json:"notification_enabled"`

	IsActive    bool       `db:"is_active" json:"is_active"`
	IsVerified  bool       `db:"is_verified" json:"is_verified"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	LastLogin   *time.Time `db:"last_login" json:"last_login,omitempty"`
	LastCheckin *time.Time `db:"last_checkin" json:"last_checkin,omitempty"`

	PasswordResetToken   *string    `db:"password_reset_token" json:"-"`
	PasswordResetExpires *time.Time `db:"password_reset_expires" json:"-"`
}

// DailyLog is one check-in per user per calendar day. The three computed
// scores are populated at write time and only recomputed on explicit update.
type DailyLog struct {
	ID      string    `db:"id"`
	UserID  string    `db:"user_id"`
	LogDate time.Time `db:"log_date"`

	// Work metrics
	WorkHours      float64 `db:"work_hours"`
	DeepWorkHours  float64 `db:"deep_work_hours"`
	TasksCompleted int     `db:"tasks_completed"`
	TasksPlanned   int     `db:"tasks_planned"`
	Interruptions  int     `db:"interruptions"`

	// Subjective scores (1-10)
	FocusScore  int `db:"focus_score"`
	EnergyScore int `db:"energy_score"`
	StressLevel int `db:"stress_level"`

	// Mood & wellness
	Mood              string  `db:"mood"` // great, good, neutral, bad, terrible
	SleepHours        float64 `db:"sleep_hours"`
	ExerciseMinutes   int     `db:"exercise_minutes"`
	SocialInteraction int     `db:"social_interaction"`

	// Computed (0-100)
	ProductivityScore *float64 `db:"productivity_score"`
	EnergyIndex       *float64 `db:"energy_index"`
	ConsistencyScore  *float64 `db:"consistency_score"`

	// Free text, encrypted at rest
	Notes      *string `db:"notes"`
	Highlights *string `db:"highlights"`

	CompletedAt           time.Time `db:"completed_at"`
	TimeToCompleteSeconds *int      `db:"time_to_complete_seconds"`
}

type Habit struct {
	ID          string  `db:"id"`
	UserID      string  `db:"user_id"`
	Name        string  `db:"name"`
	Description *string `db:"description"`
	Category    string  `db:"category"`
	Icon        *string `db:"icon"`
	Color       *string `db:"color"`

	// Frequency rule, set at creation
	Frequency         string  `db:"frequency"` // daily, weekdays, weekly, custom
	TargetDaysPerWeek int     `db:"target_days_per_week"`
	CustomDays        *string `db:"custom_days"` // "mon,wed,fri"

	TargetType   string  `db:"target_type"` // binary, quantity, time
	TargetValue  float64 `db:"target_value"`
	TargetUnit   string  `db:"target_unit"`
	ReminderTime *string `db:"reminder_time"`
	Difficulty   int     `db:"difficulty"` // 1-5

	// Derived rolling stats
	SuccessRate      float64 `db:"success_rate"`
	HealthScore      float64 `db:"health_score"`
	CurrentStreak    int     `db:"current_streak"`
	LongestStreak    int     `db:"longest_streak"`
	TotalCompletions int     `db:"total_completions"`

	IsActive   bool      `db:"is_active"`
	IsArchived bool      `db:"is_archived"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type HabitLog struct {
	ID            string    `db:"id"`
	HabitID       string    `db:"habit_id"`
	UserID        string    `db:"user_id"`
	LogDate       time.Time `db:"log_date"`
	Completed     bool      `db:"completed"`
	ProgressValue float64   `db:"progress_value"`
	Notes         *string   `db:"notes"`
	CompletedAt   time.Time `db:"completed_at"`
}

type Goal struct {
	ID          string  `db:"id"`
	UserID      string  `db:"user_id"`
	Title       string  `db:"title"`
	Description *string `db:"description"`
	Category    string  `db:"category"` // output, habit, time, learning, health
	Metric      string  `db:"metric"`
	TargetValue float64 `db:"target_value"`
	CurrentVal  float64 `db:"current_value"`
	Unit        string  `db:"unit"`

	PriorityWeight     float64  `db:"priority_weight"` // 0.1 to 3.0
	GoalScore          *float64 `db:"goal_score"`
	SuccessProbability *float64 `db:"success_probability"`

	StartDate time.Time  `db:"start_date"`
	Deadline  *time.Time `db:"deadline"`

	Status      string     `db:"status"` // active, completed, paused, abandoned
	IsActive    bool       `db:"is_active"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	CompletedAt *time.Time `db:"completed_at"`
}

// BurnoutScore is a snapshot of the burnout engine's output for one day.
// Rows are never mutated after insert.
type BurnoutScore struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	ScoreDate time.Time `db:"score_date"`

	RiskScore    float64 `db:"risk_score"`
	RiskCategory string  `db:"risk_category"` // low, medium, high, critical

	WorkloadTrend    float64 `db:"workload_trend"`
	EnergyDecline    float64 `db:"energy_decline"`
	SleepDeficit     float64 `db:"sleep_deficit"`
	StressScore      float64 `db:"stress_score"`
	ProductivityDrop float64 `db:"productivity_drop"`

	TrendDirection string  `db:"trend_direction"` // improving, stable, worsening
	TrendChange    float64 `db:"trend_change"`

	Recommendations *string   `db:"recommendations"` // JSON array
	CreatedAt       time.Time `db:"created_at"`
}

type Insight struct {
	ID          string   `db:"id"`
	UserID      string   `db:"user_id"`
	Category    string   `db:"category"`
	Title       string   `db:"title"`
	Message     string   `db:"message"`
	InsightType string   `db:"insight_type"` // observation, recommendation, alert, achievement
	Severity    string   `db:"severity"`     // info, warning, success, critical
	ImpactScore *float64 `db:"impact_score"`
	Confidence  float64  `db:"confidence"`

	IsRead       bool      `db:"is_read"`
	IsDismissed  bool      `db:"is_dismissed"`
	IsActionable bool      `db:"is_actionable"`
	CreatedAt    time.Time `db:"created_at"`
}

type Streak struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	StreakType   string     `db:"streak_type"` // checkin
	ReferenceID  *string    `db:"reference_id"`
	CurrentCount int        `db:"current_count"`
	LongestCount int        `db:"longest_count"`
	StartDate    time.Time  `db:"start_date"`
	LastDate     *time.Time `db:"last_date"`
	IsActive     bool       `db:"is_active"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

type Event struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	EventType       string    `db:"event_type"`
	EventCategory   string    `db:"event_category"` // checkin, habit, goal, feature, session
	EventData       *string   `db:"event_data"`     // JSON
	SessionID       *string   `db:"session_id"`
	DurationSeconds *int      `db:"duration_seconds"`
	CreatedAt       time.Time `db:"created_at"`
}
