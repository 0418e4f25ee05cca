package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// decodeAndValidate decodes the JSON body into dst and runs the validator
// tags. Callers treat any returned error as a 400.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid body")
	}
	if err := validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// queryInt reads an integer query parameter, clamped to [lo, hi], falling
// back to def when absent or malformed.
func queryInt(r *http.Request, name string, def, lo, hi int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// failure (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// trackEvent appends one telemetry row. payload is marshaled to JSON; a nil
// payload stores NULL.
func trackEvent(ctx context.Context, ext sqlx.ExtContext, userID, eventType, eventCategory string, payload any, durationSeconds *int) error {
	var data *string
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		s := string(b)
		data = &s
	}
	_, err := ext.ExecContext(ctx, `
		INSERT INTO events (id, user_id, event_type, event_category, event_data, duration_seconds)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), userID, eventType, eventCategory, data, durationSeconds)
	return err
}
