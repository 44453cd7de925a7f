package job

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool     { return &b }
func int64Ptr(n int64) *int64 { return &n }

func TestFiltersWhereEmpty(t *testing.T) {
	where, args := Filters{}.Where()
	assert.Equal(t, "", where)
	assert.Empty(t, args)
}

func TestFiltersWhereSingleCondition(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		where   string
		arg     interface{}
	}{
		{"search", Filters{Search: "golang"}, `WHERE title ILIKE '%' || $1 || '%'`, "golang"},
		{"category", Filters{Category: "Design"}, "WHERE category = $1", "Design"},
		{"location", Filters{Location: "Pune"}, "WHERE location = $1", "Pune"},
		{"job type", Filters{JobType: "Contract"}, "WHERE job_type = $1", "Contract"},
		{"experience", Filters{ExperienceLevel: "Senior"}, "WHERE experience_level = $1", "Senior"},
		{"remote", Filters{IsRemote: boolPtr(false)}, "WHERE is_remote = $1", false},
		{"salary min", Filters{SalaryMin: int64Ptr(500000)}, "WHERE COALESCE(salary_max, salary_min) >= $1", int64(500000)},
		{"salary max", Filters{SalaryMax: int64Ptr(900000)}, "WHERE COALESCE(salary_min, salary_max) <= $1", int64(900000)},
		{"status", Filters{Status: StatusActive}, "WHERE status = $1", "active"},
		{"featured", Filters{IsFeatured: boolPtr(true)}, "WHERE is_featured = $1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filters.Where()
			assert.Equal(t, tt.where, where)
			assert.Equal(t, []interface{}{tt.arg}, args)
		})
	}
}

func TestFiltersWhereCombinesConjunctively(t *testing.T) {
	f := Filters{
		Search:     "engineer",
		Category:   "Engineering",
		Location:   "Bengaluru",
		IsRemote:   boolPtr(true),
		SalaryMin:  int64Ptr(1200000),
		EmployerID: "emp",
	}
	where, args := f.Where()
	assert.Equal(t,
		`WHERE title ILIKE '%' || $1 || '%' AND category = $2 AND location = $3 AND is_remote = $4 AND COALESCE(salary_max, salary_min) >= $5 AND employer_id = $6`,
		where,
	)
	assert.Equal(t, []interface{}{"engineer", "Engineering", "Bengaluru", true, int64(1200000), "emp"}, args)
}

func TestParseFiltersFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("search", "  react ")
	q.Set("category", "all")
	q.Set("location", "Mumbai")
	q.Set("job_type", "")
	q.Set("experience_level", "Mid")
	q.Set("is_remote", "true")
	q.Set("salary_min", "800000")
	q.Set("salary_max", "lots")

	f := ParseFiltersFromQuery(q)

	assert.Equal(t, "react", f.Search)
	assert.Equal(t, "", f.Category)
	assert.Equal(t, "Mumbai", f.Location)
	assert.Equal(t, "", f.JobType)
	assert.Equal(t, "Mid", f.ExperienceLevel)
	if assert.NotNil(t, f.IsRemote) {
		assert.True(t, *f.IsRemote)
	}
	if assert.NotNil(t, f.SalaryMin) {
		assert.Equal(t, int64(800000), *f.SalaryMin)
	}
	assert.Nil(t, f.SalaryMax)
}

func TestParseFiltersIgnoresUnparseableRemote(t *testing.T) {
	f := ParseFiltersFromQuery(url.Values{"is_remote": []string{"maybe"}})
	assert.Nil(t, f.IsRemote)
	where, _ := f.Where()
	assert.Equal(t, "", where)
}

func TestFiltersQueryRoundTrip(t *testing.T) {
	f := Filters{Search: "data", Location: "Remote", IsRemote: boolPtr(true), SalaryMin: int64Ptr(100)}
	assert.Equal(t, f, ParseFiltersFromQuery(f.Query()))
}
