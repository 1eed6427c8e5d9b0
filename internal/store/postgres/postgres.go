// Package postgres implements store.Store over PostgreSQL via the pgx
// stdlib driver, for deployments backing more than one device.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
	"github.com/PeytonLeFleur/lamp-and-light/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and
// verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Profiles() store.Profiles { return &profiles{db: s.db} }
func (s *pgStore) Entries() store.Entries   { return &entries{db: s.db} }
func (s *pgStore) Plans() store.Plans       { return &plans{db: s.db} }
func (s *pgStore) Recaps() store.Recaps     { return &recaps{db: s.db} }

// HealthPing reports connectivity for the health endpoint.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureSchema creates core tables if they do not exist.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			profile_id       TEXT PRIMARY KEY,
			display_name     TEXT NOT NULL,
			denomination     TEXT NOT NULL DEFAULT '',
			goals            TEXT NOT NULL DEFAULT '',
			streak_count     INTEGER NOT NULL DEFAULT 0,
			weekly_completed INTEGER NOT NULL DEFAULT 0,
			last_active      TIMESTAMPTZ,
			last_week_key    TEXT NOT NULL DEFAULT '',
			creation_time    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			entry_id      TEXT PRIMARY KEY,
			profile_id    TEXT NOT NULL REFERENCES profiles(profile_id),
			kind          TEXT NOT NULL,
			content       TEXT NOT NULL,
			tags          JSONB,
			creation_time TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_profile_time ON entries(profile_id, creation_time)`,
		`CREATE TABLE IF NOT EXISTS daily_plans (
			plan_id        TEXT PRIMARY KEY,
			profile_id     TEXT NOT NULL REFERENCES profiles(profile_id),
			day            DATE NOT NULL,
			scripture_ref  TEXT NOT NULL,
			scripture_text TEXT NOT NULL,
			crossrefs      JSONB,
			application    TEXT NOT NULL DEFAULT '',
			prayer         TEXT NOT NULL DEFAULT '',
			challenge      TEXT NOT NULL DEFAULT '',
			status         TEXT NOT NULL DEFAULT 'active',
			creation_time  TIMESTAMPTZ NOT NULL,
			UNIQUE(profile_id, day)
		)`,
		`CREATE TABLE IF NOT EXISTS weekly_recaps (
			recap_id      TEXT PRIMARY KEY,
			profile_id    TEXT NOT NULL REFERENCES profiles(profile_id),
			week_start    DATE NOT NULL,
			recap_md      TEXT NOT NULL,
			metrics       JSONB,
			creation_time TIMESTAMPTZ NOT NULL,
			UNIQUE(profile_id, week_start)
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

const uniqueViolation = "23505"

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return model.ErrConflict
	}
	return err
}

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
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		out.ProfileID, out.DisplayName, out.Denomination, out.Goals, out.StreakCount, out.WeeklyCompleted, out.LastActive, out.LastWeekKey, out.CreationTime)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (p *profiles) Get(ctx context.Context, profileID string) (*model.Profile, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT profile_id, display_name, denomination, goals, streak_count, weekly_completed, last_active, last_week_key, creation_time
		FROM profiles WHERE profile_id = $1`, profileID)
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
		UPDATE profiles SET display_name=$1, denomination=$2, goals=$3, streak_count=$4, weekly_completed=$5, last_active=$6, last_week_key=$7
		WHERE profile_id=$8`,
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
		VALUES ($1,$2,$3,$4,$5,$6)`,
		out.EntryID, out.ProfileID, out.Kind, out.Content, string(tags), out.CreationTime)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (e *entries) List(ctx context.Context, req model.ListEntriesRequest) ([]*model.Entry, error) {
	q := `SELECT entry_id, profile_id, kind, content, tags, creation_time FROM entries WHERE profile_id = $1`
	args := []interface{}{req.ProfileID}
	if req.After != nil {
		args = append(args, *req.After)
		q += fmt.Sprintf(` AND creation_time >= $%d`, len(args))
	}
	if req.Before != nil {
		args = append(args, *req.Before)
		q += fmt.Sprintf(` AND creation_time <= $%d`, len(args))
	}
	q += ` ORDER BY creation_time DESC`
	if req.Limit > 0 {
		args = append(args, req.Limit)
		q += fmt.Sprintf(` LIMIT $%d`, len(args))
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

const planColumns = `plan_id, profile_id, day, scripture_ref, scripture_text, crossrefs, application, prayer, challenge, status, creation_time`

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
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		out.PlanID, out.ProfileID, out.Day, out.ScriptureRef, out.ScriptureText, string(crossrefs),
		out.Content.Application, out.Content.Prayer, out.Content.Challenge, out.Status, out.CreationTime)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (p *plans) Get(ctx context.Context, profileID, planID string) (*model.DailyPlan, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM daily_plans WHERE profile_id = $1 AND plan_id = $2`,
		profileID, planID)
	return scanPlanRow(row.Scan)
}

func (p *plans) GetByDay(ctx context.Context, profileID string, day time.Time) (*model.DailyPlan, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM daily_plans WHERE profile_id = $1 AND day = $2`,
		profileID, day)
	return scanPlanRow(row.Scan)
}

func (p *plans) List(ctx context.Context, req model.ListPlansRequest) ([]*model.DailyPlan, error) {
	q := `SELECT ` + planColumns + ` FROM daily_plans WHERE profile_id = $1`
	args := []interface{}{req.ProfileID}
	if req.From != nil {
		args = append(args, *req.From)
		q += fmt.Sprintf(` AND day >= $%d`, len(args))
	}
	if req.To != nil {
		args = append(args, *req.To)
		q += fmt.Sprintf(` AND day <= $%d`, len(args))
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
		`UPDATE daily_plans SET status = $1 WHERE profile_id = $2 AND plan_id = $3`,
		status, profileID, planID)
	if err != nil {
		return nil, mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	row := p.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM daily_plans WHERE profile_id = $1 AND plan_id = $2`,
		profileID, planID)
	return scanPlanRow(row.Scan)
}

func scanPlanRow(scan func(dest ...interface{}) error) (*model.DailyPlan, error) {
	var m model.DailyPlan
	var crossrefs sql.NullString
	if err := scan(&m.PlanID, &m.ProfileID, &m.Day, &m.ScriptureRef, &m.ScriptureText, &crossrefs,
		&m.Content.Application, &m.Content.Prayer, &m.Content.Challenge, &m.Status, &m.CreationTime); err != nil {
		return nil, mapErr(err)
	}
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
		VALUES ($1,$2,$3,$4,$5,$6)`,
		out.RecapID, out.ProfileID, out.WeekStart, out.RecapMD, string(metrics), out.CreationTime)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (r *recaps) GetByWeek(ctx context.Context, profileID string, weekStart time.Time) (*model.WeeklyRecap, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT recap_id, profile_id, week_start, recap_md, metrics, creation_time
		FROM weekly_recaps WHERE profile_id = $1 AND week_start = $2`,
		profileID, weekStart)

	var m model.WeeklyRecap
	var metrics sql.NullString
	if err := row.Scan(&m.RecapID, &m.ProfileID, &m.WeekStart, &m.RecapMD, &metrics, &m.CreationTime); err != nil {
		return nil, mapErr(err)
	}
	if metrics.Valid && metrics.String != "" && metrics.String != "null" {
		if err := json.Unmarshal([]byte(metrics.String), &m.Metrics); err != nil {
			return nil, fmt.Errorf("decode metrics: %w", err)
		}
	}
	return &m, nil
}
