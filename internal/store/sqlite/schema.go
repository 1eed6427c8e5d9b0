package sqlite

import "database/sql"

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
			last_active      TIMESTAMP,
			last_week_key    TEXT NOT NULL DEFAULT '',
			creation_time    TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			entry_id      TEXT PRIMARY KEY,
			profile_id    TEXT NOT NULL REFERENCES profiles(profile_id),
			kind          TEXT NOT NULL,
			content       TEXT NOT NULL,
			tags          TEXT,
			creation_time TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_profile_time ON entries(profile_id, creation_time)`,
		`CREATE TABLE IF NOT EXISTS daily_plans (
			plan_id        TEXT PRIMARY KEY,
			profile_id     TEXT NOT NULL REFERENCES profiles(profile_id),
			day            TEXT NOT NULL,
			scripture_ref  TEXT NOT NULL,
			scripture_text TEXT NOT NULL,
			crossrefs      TEXT,
			application    TEXT NOT NULL DEFAULT '',
			prayer         TEXT NOT NULL DEFAULT '',
			challenge      TEXT NOT NULL DEFAULT '',
			status         TEXT NOT NULL DEFAULT 'active',
			creation_time  TIMESTAMP NOT NULL,
			UNIQUE(profile_id, day)
		)`,
		`CREATE TABLE IF NOT EXISTS weekly_recaps (
			recap_id      TEXT PRIMARY KEY,
			profile_id    TEXT NOT NULL REFERENCES profiles(profile_id),
			week_start    TEXT NOT NULL,
			recap_md      TEXT NOT NULL,
			metrics       TEXT,
			creation_time TIMESTAMP NOT NULL,
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
