package job

import "time"

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
	StatusDraft  Status = "draft"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusClosed || s == StatusDraft
}

const (
	DefaultCurrency   = "INR"
	FeaturedJobsLimit = 6
)

var Categories = []string{
	"Engineering",
	"Product",
	"Design",
	"Marketing",
	"Sales",
	"Customer Success",
	"Data Science",
	"Finance",
	"Operations",
	"Human Resources",
	"Legal",
	"Other",
}

var Locations = []string{
	"Bengaluru",
	"Mumbai",
	"Delhi NCR",
	"Hyderabad",
	"Pune",
	"Chennai",
	"Kolkata",
	"Ahmedabad",
	"Jaipur",
	"Chandigarh",
	"Remote",
}

var JobTypes = []string{"Full-time", "Part-time", "Contract", "Freelance", "Internship"}

var ExperienceLevels = []string{"Entry", "Mid", "Senior", "Lead", "Executive"}

func IsValidCategory(s string) bool        { return contains(Categories, s) }
func IsValidJobType(s string) bool         { return contains(JobTypes, s) }
func IsValidExperienceLevel(s string) bool { return contains(ExperienceLevels, s) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type Job struct {
	ID               string    `json:"id"`
	Slug             string    `json:"slug"`
	EmployerID       string    `json:"employer_id"`
	Title            string    `json:"title"`
	CompanyName      string    `json:"company_name"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Location         string    `json:"location"`
	JobType          string    `json:"job_type"`
	ExperienceLevel  string    `json:"experience_level"`
	SalaryMin        *int64    `json:"salary_min"`
	SalaryMax        *int64    `json:"salary_max"`
	SalaryCurrency   string    `json:"salary_currency"`
	IsRemote         bool      `json:"is_remote"`
	IsFeatured       bool      `json:"is_featured"`
	Status           Status    `json:"status"`
	ApplicationCount int       `json:"application_count"`
	ViewsCount       int       `json:"views_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (j Job) IsOwnedBy(profileID string) bool {
	return profileID != "" && j.EmployerID == profileID
}

// JobRq is the payload for creating and editing a job. Views, application
// counts and the featured flag are never taken from the caller.
type JobRq struct {
	Title           string `json:"title" validate:"required,max=255"`
	CompanyName     string `json:"company_name" validate:"required,max=255"`
	Description     string `json:"description" validate:"required,max=20000"`
	Category        string `json:"category" validate:"required,jobcategory"`
	Location        string `json:"location" validate:"required,max=100"`
	JobType         string `json:"job_type" validate:"required,jobtype"`
	ExperienceLevel string `json:"experience_level" validate:"required,experiencelevel"`
	SalaryMin       *int64 `json:"salary_min" validate:"omitempty,min=0"`
	SalaryMax       *int64 `json:"salary_max" validate:"omitempty,min=0"`
	SalaryCurrency  string `json:"salary_currency" validate:"omitempty,len=3"`
	IsRemote        bool   `json:"is_remote"`
	Status          Status `json:"status" validate:"omitempty,oneof=active closed draft"`
}

// Normalise fills the defaults a new or edited job gets when the caller
// leaves them out.
func (rq *JobRq) Normalise() {
	if rq.SalaryCurrency == "" {
		rq.SalaryCurrency = DefaultCurrency
	}
	if rq.Status == "" {
		rq.Status = StatusActive
	}
}

// SalaryRangeValid reports whether min does not exceed max when both are set.
func (rq JobRq) SalaryRangeValid() bool {
	if rq.SalaryMin == nil || rq.SalaryMax == nil {
		return true
	}
	return *rq.SalaryMin <= *rq.SalaryMax
}
