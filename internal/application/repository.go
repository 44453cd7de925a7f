package application

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/nextgig/job-board/internal/job"
	"github.com/nextgig/job-board/internal/profile"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

var (
	ErrNotFound       = errors.New("application not found")
	ErrAlreadyApplied = errors.New("already applied to this job")
	ErrStatusChanged  = errors.New("application status changed since it was read")
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

const applicationColumns = `a.id, a.job_id, a.candidate_id, a.status, a.cover_letter, a.resume_url, a.created_at, a.updated_at`

func applicationTargets(a *Application) ([]interface{}, func()) {
	var status string
	dest := []interface{}{
		&a.ID,
		&a.JobID,
		&a.CandidateID,
		&status,
		&a.CoverLetter,
		&a.ResumeURL,
		&a.CreatedAt,
		&a.UpdatedAt,
	}
	return dest, func() {
		a.Status = Status(status)
	}
}

// Create inserts a pending application and bumps the job's application
// counter in the same transaction.
func (r *Repository) Create(jobID, candidateID string, rq ApplyRq) (Application, error) {
	appID, err := ksuid.NewRandom()
	if err != nil {
		return Application{}, err
	}
	now := time.Now().UTC()
	a := Application{
		ID:          appID.String(),
		JobID:       jobID,
		CandidateID: candidateID,
		Status:      StatusPending,
		CoverLetter: rq.CoverLetter,
		ResumeURL:   rq.ResumeURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	tx, err := r.db.Begin()
	if err != nil {
		return Application{}, errors.Wrap(err, "begin application")
	}
	if _, err := tx.Exec(
		`INSERT INTO applications (id, job_id, candidate_id, status, cover_letter, resume_url, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		a.ID,
		a.JobID,
		a.CandidateID,
		string(a.Status),
		a.CoverLetter,
		a.ResumeURL,
		now,
	); err != nil {
		tx.Rollback()
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return Application{}, ErrAlreadyApplied
		}
		return Application{}, errors.Wrap(err, "insert application")
	}
	if _, err := tx.Exec(`UPDATE jobs SET application_count = application_count + 1 WHERE id = $1`, jobID); err != nil {
		tx.Rollback()
		return Application{}, errors.Wrap(err, "increment application count")
	}
	if err := tx.Commit(); err != nil {
		return Application{}, errors.Wrap(err, "commit application")
	}
	return a, nil
}

func (r *Repository) HasApplied(jobID, candidateID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM applications WHERE job_id = $1 AND candidate_id = $2)`,
		jobID,
		candidateID,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrapf(err, "check application for job %s", jobID)
	}
	return exists, nil
}

// ApplicationByID loads the application together with its job, which
// callers need for the ownership check.
func (r *Repository) ApplicationByID(id string) (Application, error) {
	var a Application
	var j job.Job
	appDest, appFinish := applicationTargets(&a)
	jobDest, jobFinish := job.ScanTargets(&j)
	err := r.db.QueryRow(
		`SELECT `+applicationColumns+`, `+job.Columns("j")+`
		FROM applications a JOIN jobs j ON j.id = a.job_id
		WHERE a.id = $1`,
		id,
	).Scan(append(appDest, jobDest...)...)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	if err != nil {
		return a, errors.Wrapf(err, "select application %s", id)
	}
	appFinish()
	jobFinish()
	a.Job = &j
	return a, nil
}

// UpdateStatus moves the application from one status to another. The
// update only applies while the stored status is still from, otherwise
// ErrStatusChanged is returned.
func (r *Repository) UpdateStatus(id string, from, to Status) (Application, error) {
	var a Application
	dest, finish := applicationTargets(&a)
	err := r.db.QueryRow(
		`UPDATE applications a SET status = $1, updated_at = $2 WHERE a.id = $3 AND a.status = $4 RETURNING `+applicationColumns,
		string(to),
		time.Now().UTC(),
		id,
		string(from),
	).Scan(dest...)
	if err == sql.ErrNoRows {
		return a, ErrStatusChanged
	}
	if err != nil {
		return a, errors.Wrapf(err, "update application %s status", id)
	}
	finish()
	return a, nil
}

// ApplicationsForCandidate lists a candidate's applications with their
// jobs, newest first.
func (r *Repository) ApplicationsForCandidate(candidateID string) ([]Application, error) {
	rows, err := r.db.Query(
		`SELECT `+applicationColumns+`, `+job.Columns("j")+`
		FROM applications a JOIN jobs j ON j.id = a.job_id
		WHERE a.candidate_id = $1
		ORDER BY a.created_at DESC`,
		candidateID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "query candidate applications")
	}
	defer rows.Close()
	apps := []Application{}
	for rows.Next() {
		var a Application
		var j job.Job
		appDest, appFinish := applicationTargets(&a)
		jobDest, jobFinish := job.ScanTargets(&j)
		if err := rows.Scan(append(appDest, jobDest...)...); err != nil {
			return apps, errors.Wrap(err, "scan candidate application")
		}
		appFinish()
		jobFinish()
		a.Job = &j
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// ApplicationsForJob lists applicants of a job with their profiles,
// newest first.
func (r *Repository) ApplicationsForJob(jobID string) ([]Application, error) {
	rows, err := r.db.Query(
		`SELECT `+applicationColumns+`, `+profile.Columns("p")+`
		FROM applications a JOIN profiles p ON p.id = a.candidate_id
		WHERE a.job_id = $1
		ORDER BY a.created_at DESC`,
		jobID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "query job applications")
	}
	defer rows.Close()
	apps := []Application{}
	for rows.Next() {
		var a Application
		var p profile.Profile
		appDest, appFinish := applicationTargets(&a)
		profileDest, profileFinish := profile.ScanTargets(&p)
		if err := rows.Scan(append(appDest, profileDest...)...); err != nil {
			return apps, errors.Wrap(err, "scan job application")
		}
		appFinish()
		profileFinish()
		a.Candidate = &p
		apps = append(apps, a)
	}
	return apps, rows.Err()
}
