package validator

import (
	"testing"

	"github.com/nextgig/job-board/internal/application"
	"github.com/nextgig/job-board/internal/job"
	"github.com/nextgig/job-board/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validJobRq() job.JobRq {
	return job.JobRq{
		Title:           "Backend Engineer",
		CompanyName:     "StellarOps",
		Description:     "Scalable APIs",
		Category:        "Customer Success",
		Location:        "Mumbai",
		JobType:         "Full-time",
		ExperienceLevel: "Mid",
	}
}

func TestValidateJobRq(t *testing.T) {
	v := New()
	require.NoError(t, v.Validate(validJobRq()))

	rq := validJobRq()
	rq.Category = "Astrology"
	rq.JobType = "Gig"
	rq.Title = ""
	err := v.Validate(rq)
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "This field is required", verr.Errors["title"])
	assert.Contains(t, verr.Errors["category"], "Customer Success")
	assert.Contains(t, verr.Errors["job_type"], "Internship")
	assert.NotContains(t, verr.Errors, "experience_level")
}

func TestValidateSignUp(t *testing.T) {
	v := New()
	rq := user.SignUpRq{
		Email:           "not-an-email",
		Password:        "short",
		ConfirmPassword: "different",
		FullName:        "",
		Role:            "admin",
	}
	err := v.Validate(rq)
	require.Error(t, err)
	verr := err.(*ValidationError)

	assert.Equal(t, "Must be a valid email address", verr.Errors["email"])
	assert.Equal(t, "Must be at least 8 characters long", verr.Errors["password"])
	assert.Equal(t, "Passwords do not match", verr.Errors["confirm_password"])
	assert.Equal(t, "This field is required", verr.Errors["full_name"])
	assert.Equal(t, "Must be one of: candidate, employer", verr.Errors["role"])
}

func TestValidateStatusRq(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(application.StatusRq{Status: application.StatusShortlisted}))
	assert.Error(t, v.Validate(application.StatusRq{Status: "hired"}))
}

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := &ValidationError{Errors: map[string]string{"b": "two", "a": "one"}}
	assert.Equal(t, "validation failed: a: one; b: two", err.Error())
	assert.Equal(t, "bad", FieldError("salary_max", "bad").Errors["salary_max"])
}
