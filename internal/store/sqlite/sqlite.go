// Package sqlite implements store.Store over modernc.org/sqlite. It is the
// default driver for on-device and single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
	"github.com/PeytonLeFleur/lamp-and-light/internal/store"
)

const dayFormat = "2006-01-02"

// New constructs a sqlite-backed store over an open connection. The schema
// must already be ensured (see EnsureSchema).
func New(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Profiles() store.Profiles { return &profiles{db: s.db} }
func (s *sqliteStore) Entries() store.Entries   { return &entries{db: s.db} }
func (s *sqliteStore) Plans() store.Plans       { return &plans{db: s.db} }
func (s *sqliteStore) Recaps() store.Recaps     { return &recaps{db: s.db} }

// HealthPing reports connectivity for the health endpoint.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return model.ErrNotFound
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return model.ErrConflict
	default:
		return err
	}
}

func dayKey(day time.Time) string { return day.Format(dayFormat) }

func parseDay(s string) (time.Time, error) { return time.Parse(dayFormat, s) }

// --- Profiles ---

type profiles struct{ db *sql.DB }

func (p *profiles) Create(ctx context.Context, m *model.Profile) (*model.Profile, error) {
	out := *m
	if out.ProfileID == "" {
		out.ProfileID = uuid.New().String()
	}
	out.CreationTime = time.Now().UTC()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO profiles (profile_id, display_name, denomination, goals, streak_count, weekly_completed, last_active, last_week_key, creation_time)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		out.ProfileID, out.DisplayName, out.Denomination, out.Goals, out.StreakCount, out.WeeklyCompleted, out.LastActive, out.LastWeekKey, out.CreationTime)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (p *profiles) Get(ctx context.Context, profileID string) (*model.Profile, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT profile_id, display_name, denomination, goals, streak_count, weekly_completed, last_active, last_week_key, creation_time
		FROM profiles WHERE profile_id = ?`, profileID)
	return scanProfile(row)
}

func (p *profiles) First(ctx context.Context) (*model.Profile, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT profile_id, display_name, denomination, goals, streak_count, weekly_completed, last_active, last_week_key, creation_time
		FROM profiles ORDER BY creation_time ASC LIMIT 1`)
	return scanProfile(row)
}

func (p *profiles) Update(ctx context.Context, m *model.Profile) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE profiles SET display_name=?, denomination=?, goals=?, streak_count=?, weekly_completed=?, last_active=?, last_week_key=?
		WHERE profile_id=?`,
		m.DisplayName, m.Denomination, m.Goals, m.StreakCount, m.WeeklyCompleted, m.LastActive, m.LastWeekKey, m.ProfileID)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanProfile(row *sql.Row) (*model.Profile, error) {
	var out model.Profile
	var last sql.NullTime
	if err := row.Scan(&out.ProfileID, &out.DisplayName, &out.Denomination, &out.Goals,
		&out.StreakCount, &out.WeeklyCompleted, &last, &out.LastWeekKey, &out.CreationTime); err != nil {
		return nil, mapErr(err)
	}
	if last.Valid {
		t := last.Time
		out.LastActive = &t
	}
	return &out, nil
}

// --- Entries ---

type entries struct{ db *sql.DB }

func (e *entries) Create(ctx context.Context, m *model.Entry) (*model.Entry, error) {
	out := *m
	if out.EntryID == "" {
		out.EntryID = uuid.New().String()
	}
	if out.CreationTime.IsZero() {
		out.CreationTime = time.Now().UTC()
	}
	tags, err := json.Marshal(out.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	_, err = e.db.ExecContext(ctx, `
		INSERT INTO entries (entry_id, profile_id, kind, content, tags, creation_time)
		VALUES (?,?,?,?,?,?)`,
		out.EntryID, out.ProfileID, out.Kind, out.Content, string(tags), out.CreationTime)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (e *entries) List(ctx context.Context, req model.ListEntriesRequest) ([]*model.Entry, error) {
	q := `SELECT entry_id, profile_id, kind, content, tags, creation_time FROM entries WHERE profile_id = ?`
	args := []interface{}{req.ProfileID}
	if req.After != nil {
		q += ` AND creation_time >= ?`
		args = append(args, *req.After)
	}
	if req.Before != nil {
		q += ` AND creation_time <= ?`
		args = append(args, *req.Before)
	}
	q += ` ORDER BY creation_time DESC`
	if req.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, req.Limit)
	}

	rows, err := e.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer func() { _ = rows.Close() }()

	var res []*model.Entry
	for rows.Next() {
		var m model.Entry
		var tags sql.NullString
		if err := rows.Scan(&m.EntryID, &m.ProfileID, &m.Kind, &m.Content, &tags, &m.CreationTime); err != nil {
			return nil, err
		}
		if tags.Valid && tags.String != "" && tags.String != "null" {
			if err := json.Unmarshal([]byte(tags.String), &m.Tags); err != nil {
				return nil, fmt.Errorf("decode tags: %w", err)
			}
		}
		res = append(res, &m)
	}
	return res, rows.Err()
}

// --- Plans ---

type plans struct{ db *sql.DB }

func (p *plans) Create(ctx context.Context, m *model.DailyPlan) (*model.DailyPlan, error) {
	out := *m
	if out.PlanID == "" {
		out.PlanID = uuid.New().String()
	}
	if out.Status == "" {
		out.Status = model.StatusActive
	}
	out.CreationTime = time.Now().UTC()
	crossrefs, err := json.Marshal(out.Content.CrossRefs)
	if err != nil {
		return nil, fmt.Errorf("encode crossrefs: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO daily_plans (plan_id, profile_id, day, scripture_ref, scripture_text, crossrefs, application, prayer, challenge, status, creation_time)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		out.PlanID, out.ProfileID, dayKey(out.Day), out.ScriptureRef, out.ScriptureText, string(crossrefs),
		out.Content.Application, out.Content.Prayer, out.Content.Challenge, out.Status, out.CreationTime)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

const planColumns = `plan_id, profile_id, day, scripture_ref, scripture_text, crossrefs, application, prayer, challenge, status, creation_time`

func (p *plans) Get(ctx context.Context, profileID, planID string) (*model.DailyPlan, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM daily_plans WHERE profile_id = ? AND plan_id = ?`,
		profileID, planID)
	return scanPlanRow(row.Scan)
}

func (p *plans) GetByDay(ctx context.Context, profileID string, day time.Time) (*model.DailyPlan, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM daily_plans WHERE profile_id = ? AND day = ?`,
		profileID, dayKey(day))
	return scanPlanRow(row.Scan)
}

func (p *plans) List(ctx context.Context, req model.ListPlansRequest) ([]*model.DailyPlan, error) {
	q := `SELECT ` + planColumns + ` FROM daily_plans WHERE profile_id = ?`
	args := []interface{}{req.ProfileID}
	if req.From != nil {
		q += ` AND day >= ?`
		args = append(args, dayKey(*req.From))
	}
	if req.To != nil {
		q += ` AND day <= ?`
		args = append(args, dayKey(*req.To))
	}
	q += ` ORDER BY day DESC`

	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer func() { _ = rows.Close() }()

	var res []*model.DailyPlan
	for rows.Next() {
		m, err := scanPlanRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (p *plans) UpdateStatus(ctx context.Context, profileID, planID, status string) (*model.DailyPlan, error) {
	res, err := p.db.ExecContext(ctx,
		`UPDATE daily_plans SET status = ? WHERE profile_id = ? AND plan_id = ?`,
		status, profileID, planID)
	if err != nil {
		return nil, mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	row := p.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM daily_plans WHERE profile_id = ? AND plan_id = ?`,
		profileID, planID)
	return scanPlanRow(row.Scan)
}

func scanPlanRow(scan func(dest ...interface{}) error) (*model.DailyPlan, error) {
	var m model.DailyPlan
	var day string
	var crossrefs sql.NullString
	if err := scan(&m.PlanID, &m.ProfileID, &day, &m.ScriptureRef, &m.ScriptureText, &crossrefs,
		&m.Content.Application, &m.Content.Prayer, &m.Content.Challenge, &m.Status, &m.CreationTime); err != nil {
		return nil, mapErr(err)
	}
	d, err := parseDay(day)
	if err != nil {
		return nil, fmt.Errorf("decode day: %w", err)
	}
	m.Day = d
	if crossrefs.Valid && crossrefs.String != "" && crossrefs.String != "null" {
		if err := json.Unmarshal([]byte(crossrefs.String), &m.Content.CrossRefs); err != nil {
			return nil, fmt.Errorf("decode crossrefs: %w", err)
		}
	}
	return &m, nil
}

// --- Recaps ---

type recaps struct{ db *sql.DB }

func (r *recaps) Create(ctx context.Context, m *model.WeeklyRecap) (*model.WeeklyRecap, error) {
	out := *m
	if out.RecapID == "" {
		out.RecapID = uuid.New().String()
	}
	out.CreationTime = time.Now().UTC()
	metrics, err := json.Marshal(out.Metrics)
	if err != nil {
		return nil, fmt.Errorf("encode metrics: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO weekly_recaps (recap_id, profile_id, week_start, recap_md, metrics, creation_time)
		VALUES (?,?,?,?,?,?)`,
		out.RecapID, out.ProfileID, dayKey(out.WeekStart), out.RecapMD, string(metrics), out.CreationTime)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (r *recaps) GetByWeek(ctx context.Context, profileID string, weekStart time.Time) (*model.WeeklyRecap, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT recap_id, profile_id, week_start, recap_md, metrics, creation_time
		FROM weekly_recaps WHERE profile_id = ? AND week_start = ?`,
		profileID, dayKey(weekStart))

	var m model.WeeklyRecap
	var week string
	var metrics sql.NullString
	if err := row.Scan(&m.RecapID, &m.ProfileID, &week, &m.RecapMD, &metrics, &m.CreationTime); err != nil {
		return nil, mapErr(err)
	}
	w, err := parseDay(week)
	if err != nil {
		return nil, fmt.Errorf("decode week_start: %w", err)
	}
	m.WeekStart = w
	if metrics.Valid && metrics.String != "" && metrics.String != "null" {
		if err := json.Unmarshal([]byte(metrics.String), &m.Metrics); err != nil {
			return nil, fmt.Errorf("decode metrics: %w", err)
		}
	}
	return &m, nil
}
