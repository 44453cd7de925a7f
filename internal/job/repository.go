package job

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

var ErrNotFound = errors.New("job not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

var columnList = []string{
	"id",
	"slug",
	"employer_id",
	"title",
	"company_name",
	"description",
	"category",
	"location",
	"job_type",
	"experience_level",
	"salary_min",
	"salary_max",
	"salary_currency",
	"is_remote",
	"is_featured",
	"status",
	"application_count",
	"views_count",
	"created_at",
	"updated_at",
}

var jobColumns = Columns("")

// Columns lists the job columns in scan order, qualified with alias when
// one is given, for use in joins.
func Columns(alias string) string {
	if alias == "" {
		return strings.Join(columnList, ", ")
	}
	qualified := make([]string, len(columnList))
	for i, c := range columnList {
		qualified[i] = alias + "." + c
	}
	return strings.Join(qualified, ", ")
}

// ScanTargets returns scan destinations matching Columns for j. The
// returned func must be called after a successful Scan to copy the
// nullable columns into j.
func ScanTargets(j *Job) ([]interface{}, func()) {
	var status string
	var salaryMin, salaryMax sql.NullInt64
	dest := []interface{}{
		&j.ID,
		&j.Slug,
		&j.EmployerID,
		&j.Title,
		&j.CompanyName,
		&j.Description,
		&j.Category,
		&j.Location,
		&j.JobType,
		&j.ExperienceLevel,
		&salaryMin,
		&salaryMax,
		&j.SalaryCurrency,
		&j.IsRemote,
		&j.IsFeatured,
		&status,
		&j.ApplicationCount,
		&j.ViewsCount,
		&j.CreatedAt,
		&j.UpdatedAt,
	}
	return dest, func() {
		j.Status = Status(status)
		j.SalaryMin, j.SalaryMax = nil, nil
		if salaryMin.Valid {
			n := salaryMin.Int64
			j.SalaryMin = &n
		}
		if salaryMax.Valid {
			n := salaryMax.Int64
			j.SalaryMax = &n
		}
	}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row scanner) (Job, error) {
	var j Job
	dest, finish := ScanTargets(&j)
	if err := row.Scan(dest...); err != nil {
		return j, err
	}
	finish()
	return j, nil
}

func nullInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

// SaveJob inserts a new job owned by employerID. Counters start at zero
// and new jobs are never featured.
func (r *Repository) SaveJob(employerID string, rq JobRq) (Job, error) {
	rq.Normalise()
	jobID, err := ksuid.NewRandom()
	if err != nil {
		return Job{}, err
	}
	now := time.Now().UTC()
	slugTitle := slug.Make(fmt.Sprintf("%s %s %d", rq.Title, rq.CompanyName, now.Unix()))
	row := r.db.QueryRow(
		`INSERT INTO jobs (id, slug, employer_id, title, company_name, description, category, location, job_type, experience_level, salary_min, salary_max, salary_currency, is_remote, is_featured, status, application_count, views_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, FALSE, $15, 0, 0, $16, $16)
		RETURNING `+jobColumns,
		jobID.String(),
		slugTitle,
		employerID,
		rq.Title,
		rq.CompanyName,
		rq.Description,
		rq.Category,
		rq.Location,
		rq.JobType,
		rq.ExperienceLevel,
		nullInt64(rq.SalaryMin),
		nullInt64(rq.SalaryMax),
		rq.SalaryCurrency,
		rq.IsRemote,
		string(rq.Status),
		now,
	)
	j, err := scanJob(row)
	if err != nil {
		return j, errors.Wrap(err, "insert job")
	}
	return j, nil
}

func (r *Repository) UpdateJob(id string, rq JobRq) (Job, error) {
	rq.Normalise()
	row := r.db.QueryRow(
		`UPDATE jobs SET
			title = $1,
			company_name = $2,
			description = $3,
			category = $4,
			location = $5,
			job_type = $6,
			experience_level = $7,
			salary_min = $8,
			salary_max = $9,
			salary_currency = $10,
			is_remote = $11,
			status = $12,
			updated_at = $13
		WHERE id = $14
		RETURNING `+jobColumns,
		rq.Title,
		rq.CompanyName,
		rq.Description,
		rq.Category,
		rq.Location,
		rq.JobType,
		rq.ExperienceLevel,
		nullInt64(rq.SalaryMin),
		nullInt64(rq.SalaryMax),
		rq.SalaryCurrency,
		rq.IsRemote,
		string(rq.Status),
		time.Now().UTC(),
		id,
	)
	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return j, ErrNotFound
	}
	if err != nil {
		return j, errors.Wrapf(err, "update job %s", id)
	}
	return j, nil
}

// DeleteJob removes the job, its applications go with it through the
// foreign key cascade.
func (r *Repository) DeleteJob(id string) error {
	res, err := r.db.Exec(`DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete job %s", id)
	}
	return expectOneRow(res)
}

func (r *Repository) SetFeatured(id string, featured bool) error {
	res, err := r.db.Exec(`UPDATE jobs SET is_featured = $1, updated_at = $2 WHERE id = $3`, featured, time.Now().UTC(), id)
	if err != nil {
		return errors.Wrapf(err, "set featured %t on job %s", featured, id)
	}
	return expectOneRow(res)
}

func (r *Repository) IncrementViewCount(id string) error {
	res, err := r.db.Exec(`UPDATE jobs SET views_count = views_count + 1 WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "increment views for job %s", id)
	}
	return expectOneRow(res)
}

func (r *Repository) JobByID(id string) (Job, error) {
	return r.jobBy("id", id)
}

func (r *Repository) JobBySlug(s string) (Job, error) {
	return r.jobBy("slug", s)
}

func (r *Repository) jobBy(column, value string) (Job, error) {
	row := r.db.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE `+column+` = $1`, value)
	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return j, ErrNotFound
	}
	if err != nil {
		return j, errors.Wrapf(err, "select job by %s %s", column, value)
	}
	return j, nil
}

// JobsByFilters lists jobs matching every set filter, newest first.
func (r *Repository) JobsByFilters(f Filters) ([]Job, error) {
	where, args := f.Where()
	query := `SELECT ` + jobColumns + ` FROM jobs ` + where + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query jobs")
	}
	defer rows.Close()
	jobs := []Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return jobs, errors.Wrap(err, "scan job")
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *Repository) FeaturedJobs() ([]Job, error) {
	featured := true
	return r.JobsByFilters(Filters{IsFeatured: &featured, Limit: FeaturedJobsLimit})
}

func (r *Repository) JobsForEmployer(employerID string) ([]Job, error) {
	return r.JobsByFilters(Filters{EmployerID: employerID})
}

func (r *Repository) GetLastNJobs(max int) ([]Job, error) {
	return r.JobsByFilters(Filters{Status: StatusActive, Limit: max})
}

func expectOneRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
