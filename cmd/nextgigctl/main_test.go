package main

import (
	"strings"
	"testing"

	"github.com/nextgig/job-board/internal/job"
	"github.com/nextgig/job-board/internal/validator"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedJobsAreValid(t *testing.T) {
	v := validator.New()
	for _, rq := range seedJobs {
		rq.Normalise()
		assert.NoError(t, v.Validate(&rq), rq.Title)
		assert.True(t, rq.SalaryRangeValid(), rq.Title)
		assert.Equal(t, job.StatusActive, rq.Status)
	}
}

func TestRenderStats(t *testing.T) {
	out := renderStats("All employers", job.Summarise([]job.Job{
		{Status: job.StatusActive, ApplicationCount: 3, ViewsCount: 10},
		{Status: job.StatusClosed, ApplicationCount: 1, ViewsCount: 5},
	}))

	assert.Contains(t, out, "All employers")
	assert.Contains(t, out, "2.0")
	assert.Contains(t, out, "4 applications")
	assert.True(t, strings.Contains(out, "15"))
}

func TestDatabaseURLPrefersExplicitValue(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/nextgig?sslmode=disable")
	defer viper.Reset()
	viper.BindEnv("database_url", "DATABASE_URL")

	u, err := databaseURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/nextgig?sslmode=disable", u)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "seed", "feature", "unfeature", "stats"} {
		assert.True(t, names[want], want)
	}
}
