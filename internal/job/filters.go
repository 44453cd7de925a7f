package job

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Filters narrows a job listing. Zero values mean "no condition".
type Filters struct {
	Search          string
	Category        string
	Location        string
	JobType         string
	ExperienceLevel string
	IsRemote        *bool
	SalaryMin       *int64
	SalaryMax       *int64
	Status          Status
	EmployerID      string
	IsFeatured      *bool
	Limit           int
}

// ParseFiltersFromQuery reads browse filters from a query string. Empty
// values and the "all" option of the filter panel are treated as absent,
// and values that don't parse are dropped rather than rejected.
func ParseFiltersFromQuery(query url.Values) Filters {
	f := Filters{
		Search:          strings.TrimSpace(query.Get("search")),
		Category:        optionValue(query.Get("category")),
		Location:        optionValue(query.Get("location")),
		JobType:         optionValue(query.Get("job_type")),
		ExperienceLevel: optionValue(query.Get("experience_level")),
	}
	if b, err := strconv.ParseBool(query.Get("is_remote")); err == nil {
		f.IsRemote = &b
	}
	if n, err := strconv.ParseInt(query.Get("salary_min"), 10, 64); err == nil && n > 0 {
		f.SalaryMin = &n
	}
	if n, err := strconv.ParseInt(query.Get("salary_max"), 10, 64); err == nil && n > 0 {
		f.SalaryMax = &n
	}
	return f
}

func optionValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

// Where turns the filters into a conjunctive WHERE clause with positional
// arguments. It returns an empty clause when no filter is set.
func (f Filters) Where() (string, []interface{}) {
	var conds []string
	var args []interface{}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Search != "" {
		add(`title ILIKE '%%' || $%d || '%%'`, f.Search)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Location != "" {
		add("location = $%d", f.Location)
	}
	if f.JobType != "" {
		add("job_type = $%d", f.JobType)
	}
	if f.ExperienceLevel != "" {
		add("experience_level = $%d", f.ExperienceLevel)
	}
	if f.IsRemote != nil {
		add("is_remote = $%d", *f.IsRemote)
	}
	if f.SalaryMin != nil {
		add("COALESCE(salary_max, salary_min) >= $%d", *f.SalaryMin)
	}
	if f.SalaryMax != nil {
		add("COALESCE(salary_min, salary_max) <= $%d", *f.SalaryMax)
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.EmployerID != "" {
		add("employer_id = $%d", f.EmployerID)
	}
	if f.IsFeatured != nil {
		add("is_featured = $%d", *f.IsFeatured)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// Query renders the browse filters back into query parameters, for
// pagination links and the filter form.
func (f Filters) Query() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("search", f.Search)
	set("category", f.Category)
	set("location", f.Location)
	set("job_type", f.JobType)
	set("experience_level", f.ExperienceLevel)
	if f.IsRemote != nil {
		q.Set("is_remote", strconv.FormatBool(*f.IsRemote))
	}
	if f.SalaryMin != nil {
		q.Set("salary_min", strconv.FormatInt(*f.SalaryMin, 10))
	}
	if f.SalaryMax != nil {
		q.Set("salary_max", strconv.FormatInt(*f.SalaryMax, 10))
	}
	return q
}
