package database

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// ChannelTableChanges is the Postgres notification channel the change
// triggers publish to. Payload: {"table": "...", "op": "...", "id": "..."}
const ChannelTableChanges = "table_changes"

// schema is applied in order by Migrate.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(27) NOT NULL,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at    TIMESTAMP NOT NULL,
		PRIMARY KEY(id)
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id           CHAR(27) NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		email        VARCHAR(255) NOT NULL,
		full_name    VARCHAR(255) NOT NULL,
		role         VARCHAR(20) NOT NULL CHECK (role IN ('candidate', 'employer')),
		company_name VARCHAR(255) DEFAULT NULL,
		location     VARCHAR(255) DEFAULT NULL,
		bio          TEXT DEFAULT NULL,
		avatar_url   VARCHAR(1024) DEFAULT NULL,
		logo_url     VARCHAR(1024) DEFAULT NULL,
		resume_url   VARCHAR(1024) DEFAULT NULL,
		website      VARCHAR(1024) DEFAULT NULL,
		created_at   TIMESTAMP NOT NULL,
		updated_at   TIMESTAMP NOT NULL,
		PRIMARY KEY(id)
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id                CHAR(27) NOT NULL,
		slug              VARCHAR(255) NOT NULL UNIQUE,
		employer_id       CHAR(27) NOT NULL REFERENCES profiles (id),
		title             VARCHAR(255) NOT NULL,
		company_name      VARCHAR(255) NOT NULL,
		description       TEXT NOT NULL,
		category          VARCHAR(100) NOT NULL,
		location          VARCHAR(100) NOT NULL,
		job_type          VARCHAR(50) NOT NULL,
		experience_level  VARCHAR(50) NOT NULL,
		salary_min        BIGINT DEFAULT NULL,
		salary_max        BIGINT DEFAULT NULL,
		salary_currency   CHAR(3) NOT NULL DEFAULT 'INR',
		is_remote         BOOLEAN NOT NULL DEFAULT FALSE,
		is_featured       BOOLEAN NOT NULL DEFAULT FALSE,
		status            VARCHAR(10) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'closed', 'draft')),
		application_count INTEGER NOT NULL DEFAULT 0,
		views_count       INTEGER NOT NULL DEFAULT 0,
		created_at        TIMESTAMP NOT NULL,
		updated_at        TIMESTAMP NOT NULL,
		PRIMARY KEY(id)
	)`,
	`CREATE INDEX IF NOT EXISTS jobs_created_at_idx ON jobs (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS jobs_employer_id_idx ON jobs (employer_id)`,
	`CREATE INDEX IF NOT EXISTS jobs_is_featured_idx ON jobs (is_featured) WHERE is_featured`,
	`CREATE TABLE IF NOT EXISTS applications (
		id           CHAR(27) NOT NULL,
		job_id       CHAR(27) NOT NULL REFERENCES jobs (id) ON DELETE CASCADE,
		candidate_id CHAR(27) NOT NULL REFERENCES profiles (id),
		status       VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'reviewing', 'shortlisted', 'rejected', 'accepted')),
		cover_letter TEXT NOT NULL DEFAULT '',
		resume_url   VARCHAR(1024) NOT NULL,
		created_at   TIMESTAMP NOT NULL,
		updated_at   TIMESTAMP NOT NULL,
		PRIMARY KEY(id)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS applications_job_candidate_idx ON applications (job_id, candidate_id)`,
	`CREATE INDEX IF NOT EXISTS applications_candidate_id_idx ON applications (candidate_id)`,
	`CREATE OR REPLACE FUNCTION notify_table_change() RETURNS trigger AS $$
	DECLARE
		rec RECORD;
	BEGIN
		IF TG_OP = 'DELETE' THEN
			rec := OLD;
		ELSE
			rec := NEW;
		END IF;
		PERFORM pg_notify('` + ChannelTableChanges + `', json_build_object('table', TG_TABLE_NAME, 'op', TG_OP, 'id', rec.id)::text);
		RETURN rec;
	END;
	$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS jobs_notify_write ON jobs`,
	`CREATE TRIGGER jobs_notify_write AFTER INSERT OR DELETE ON jobs FOR EACH ROW EXECUTE PROCEDURE notify_table_change()`,
	// view counter bumps are not worth a refetch on every open dashboard
	`DROP TRIGGER IF EXISTS jobs_notify_update ON jobs`,
	`CREATE TRIGGER jobs_notify_update AFTER UPDATE ON jobs FOR EACH ROW WHEN (OLD.views_count IS NOT DISTINCT FROM NEW.views_count) EXECUTE PROCEDURE notify_table_change()`,
	`DROP TRIGGER IF EXISTS applications_notify_change ON applications`,
	`CREATE TRIGGER applications_notify_change AFTER INSERT OR UPDATE OR DELETE ON applications FOR EACH ROW EXECUTE PROCEDURE notify_table_change()`,
}

// GetDbConn opens a pooled connection to postgres and pings it
func GetDbConn(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// CloseDbConn closes db conn
func CloseDbConn(conn *sql.DB) {
	conn.Close()
}

// Migrate applies the schema inside a single transaction. Every
// statement is idempotent.
func Migrate(conn *sql.DB) error {
	tx, err := conn.Begin()
	if err != nil {
		return errors.Wrap(err, "begin migration")
	}
	for i, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "migration statement %d", i)
		}
	}
	return errors.Wrap(tx.Commit(), "commit migration")
}
