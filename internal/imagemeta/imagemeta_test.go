package imagemeta

import (
	"image/png"
	"testing"

	"github.com/nextgig/job-board/internal/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateImageForJob(t *testing.T) {
	min, max := int64(1500000), int64(2500000)
	j := job.Job{
		Title:          "Backend Developer (Node.js)",
		CompanyName:    "StellarOps",
		Location:       "Mumbai",
		IsRemote:       true,
		SalaryMin:      &min,
		SalaryMax:      &max,
		SalaryCurrency: "INR",
	}

	buf, err := GenerateImageForJob(j, "NextGig")
	require.NoError(t, err)

	img, err := png.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())
}

func TestRemoteSuffix(t *testing.T) {
	assert.Equal(t, " (remote)", remoteSuffix(job.Job{Location: "Pune", IsRemote: true}))
	assert.Equal(t, "", remoteSuffix(job.Job{Location: "Remote", IsRemote: true}))
	assert.Equal(t, "", remoteSuffix(job.Job{Location: "Pune"}))
}
