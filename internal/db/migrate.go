package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// RunMigrations creates the schema. Everything is IF NOT EXISTS so boot is
// idempotent; there is no separate migration tool.
func RunMigrations(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    email TEXT UNIQUE NOT NULL,
    hashed_password TEXT NOT NULL,
    full_name TEXT NOT NULL,
    avatar_url TEXT,
    timezone TEXT NOT NULL DEFAULT 'UTC',
    role TEXT NOT NULL DEFAULT 'user',
    work_type TEXT,
    work_hours_target DOUBLE PRECISION,
    sleep_target DOUBLE PRECISION,
    primary_goal TEXT,
    experience_level TEXT,
    onboarding_completed BOOLEAN NOT NULL DEFAULT false,
    daily_reminder_time TEXT DEFAULT '21:00',
    weekly_report_enabled BOOLEAN NOT NULL DEFAULT true,
    notification_enabled BOOLEAN NOT NULL DEFAULT true,
    is_active BOOLEAN NOT NULL DEFAULT true,
    is_verified BOOLEAN NOT NULL DEFAULT false,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    last_login TIMESTAMPTZ,
    last_checkin TIMESTAMPTZ,
    password_reset_token TEXT,
    password_reset_expires TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_users_reset_token ON users (password_reset_token);

CREATE TABLE IF NOT EXISTS daily_logs (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    log_date DATE NOT NULL,
    work_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
    deep_work_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
    tasks_completed INTEGER NOT NULL DEFAULT 0,
    tasks_planned INTEGER NOT NULL DEFAULT 0,
    interruptions INTEGER NOT NULL DEFAULT 0,
    focus_score INTEGER NOT NULL DEFAULT 5 CHECK (focus_score BETWEEN 1 AND 10),
    energy_score INTEGER NOT NULL DEFAULT 5 CHECK (energy_score BETWEEN 1 AND 10),
    stress_level INTEGER NOT NULL DEFAULT 5 CHECK (stress_level BETWEEN 1 AND 10),
    mood TEXT NOT NULL DEFAULT 'neutral',
    sleep_hours DOUBLE PRECISION NOT NULL DEFAULT 7,
    exercise_minutes INTEGER NOT NULL DEFAULT 0,
    social_interaction INTEGER NOT NULL DEFAULT 5,
    productivity_score DOUBLE PRECISION,
    energy_index DOUBLE PRECISION,
    consistency_score DOUBLE PRECISION,
    notes TEXT,
    highlights TEXT,
    completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    time_to_complete_seconds INTEGER,
    UNIQUE (user_id, log_date)
);
CREATE INDEX IF NOT EXISTS idx_daily_logs_user_date ON daily_logs (user_id, log_date);

CREATE TABLE IF NOT EXISTS habits (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    description TEXT,
    category TEXT NOT NULL DEFAULT 'general',
    icon TEXT,
    color TEXT,
    frequency TEXT NOT NULL DEFAULT 'daily',
    target_days_per_week INTEGER NOT NULL DEFAULT 7,
    custom_days TEXT,
    target_type TEXT NOT NULL DEFAULT 'binary',
    target_value DOUBLE PRECISION NOT NULL DEFAULT 1,
    target_unit TEXT NOT NULL DEFAULT '',
    reminder_time TEXT,
    difficulty INTEGER NOT NULL DEFAULT 3,
    success_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
    health_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    current_streak INTEGER NOT NULL DEFAULT 0,
    longest_streak INTEGER NOT NULL DEFAULT 0,
    total_completions INTEGER NOT NULL DEFAULT 0,
    is_active BOOLEAN NOT NULL DEFAULT true,
    is_archived BOOLEAN NOT NULL DEFAULT false,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_habits_user ON habits (user_id);

CREATE TABLE IF NOT EXISTS habit_logs (
    id UUID PRIMARY KEY,
    habit_id UUID NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    log_date DATE NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT false,
    progress_value DOUBLE PRECISION NOT NULL DEFAULT 0,
    notes TEXT,
    completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (habit_id, log_date)
);
CREATE INDEX IF NOT EXISTS idx_habit_logs_user_date ON habit_logs (user_id, log_date);

CREATE TABLE IF NOT EXISTS goals (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    description TEXT,
    category TEXT NOT NULL,
    metric TEXT NOT NULL,
    target_value DOUBLE PRECISION NOT NULL,
    current_value DOUBLE PRECISION NOT NULL DEFAULT 0,
    unit TEXT NOT NULL DEFAULT 'units',
    priority_weight DOUBLE PRECISION NOT NULL DEFAULT 1.0,
    goal_score DOUBLE PRECISION,
    success_probability DOUBLE PRECISION,
    start_date DATE NOT NULL,
    deadline DATE,
    status TEXT NOT NULL DEFAULT 'active',
    is_active BOOLEAN NOT NULL DEFAULT true,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_goals_user ON goals (user_id);

CREATE TABLE IF NOT EXISTS burnout_scores (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    score_date DATE NOT NULL,
    risk_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    risk_category TEXT NOT NULL DEFAULT 'low',
    workload_trend DOUBLE PRECISION NOT NULL DEFAULT 0,
    energy_decline DOUBLE PRECISION NOT NULL DEFAULT 0,
    sleep_deficit DOUBLE PRECISION NOT NULL DEFAULT 0,
    stress_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    productivity_drop DOUBLE PRECISION NOT NULL DEFAULT 0,
    trend_direction TEXT NOT NULL DEFAULT 'stable',
    trend_change DOUBLE PRECISION NOT NULL DEFAULT 0,
    recommendations TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_burnout_user_date ON burnout_scores (user_id, score_date);

CREATE TABLE IF NOT EXISTS insights (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    category TEXT NOT NULL,
    title TEXT NOT NULL,
    message TEXT NOT NULL,
    insight_type TEXT NOT NULL DEFAULT 'observation',
    severity TEXT NOT NULL DEFAULT 'info',
    impact_score DOUBLE PRECISION,
    confidence DOUBLE PRECISION NOT NULL DEFAULT 0.7,
    is_read BOOLEAN NOT NULL DEFAULT false,
    is_dismissed BOOLEAN NOT NULL DEFAULT false,
    is_actionable BOOLEAN NOT NULL DEFAULT true,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_insights_user_title ON insights (user_id, title, created_at);

CREATE TABLE IF NOT EXISTS streaks (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    streak_type TEXT NOT NULL,
    reference_id TEXT,
    current_count INTEGER NOT NULL DEFAULT 0,
    longest_count INTEGER NOT NULL DEFAULT 0,
    start_date DATE NOT NULL,
    last_date DATE,
    is_active BOOLEAN NOT NULL DEFAULT true,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, streak_type)
);

CREATE TABLE IF NOT EXISTS events (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    event_type TEXT NOT NULL,
    event_category TEXT NOT NULL,
    event_data TEXT,
    session_id TEXT,
    duration_seconds INTEGER,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_events_user_type ON events (user_id, event_type, created_at);
`
	_, err := db.ExecContext(context.Background(), schema)
	return err
}
