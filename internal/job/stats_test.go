package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarise(t *testing.T) {
	jobs := []Job{
		{Status: StatusActive, ApplicationCount: 4, ViewsCount: 40},
		{Status: StatusClosed, ApplicationCount: 10, ViewsCount: 100},
		{Status: StatusActive, ApplicationCount: 1, ViewsCount: 7},
		{Status: StatusDraft},
	}

	s := Summarise(jobs)

	assert.Equal(t, 2, s.ActiveJobs)
	assert.Equal(t, 4, s.TotalJobs)
	assert.Equal(t, 15, s.TotalApplications)
	assert.Equal(t, 147, s.TotalViews)
	assert.InDelta(t, 3.75, s.MeanApplications, 0.0001)
}

func TestSummariseNoJobs(t *testing.T) {
	assert.Equal(t, EmployerStats{}, Summarise(nil))
}

func TestJobRqNormalise(t *testing.T) {
	rq := JobRq{}
	rq.Normalise()
	assert.Equal(t, "INR", rq.SalaryCurrency)
	assert.Equal(t, StatusActive, rq.Status)

	rq = JobRq{SalaryCurrency: "USD", Status: StatusDraft}
	rq.Normalise()
	assert.Equal(t, "USD", rq.SalaryCurrency)
	assert.Equal(t, StatusDraft, rq.Status)
}

func TestJobRqSalaryRangeValid(t *testing.T) {
	assert.True(t, JobRq{}.SalaryRangeValid())
	assert.True(t, JobRq{SalaryMin: int64Ptr(5)}.SalaryRangeValid())
	assert.True(t, JobRq{SalaryMin: int64Ptr(5), SalaryMax: int64Ptr(5)}.SalaryRangeValid())
	assert.False(t, JobRq{SalaryMin: int64Ptr(6), SalaryMax: int64Ptr(5)}.SalaryRangeValid())
}

func TestIsOwnedBy(t *testing.T) {
	j := Job{EmployerID: "emp_1"}
	assert.True(t, j.IsOwnedBy("emp_1"))
	assert.False(t, j.IsOwnedBy("emp_2"))
	assert.False(t, Job{}.IsOwnedBy(""))
}
