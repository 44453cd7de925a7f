package application

import (
	"time"

	"github.com/nextgig/job-board/internal/job"
	"github.com/nextgig/job-board/internal/profile"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusReviewing   Status = "reviewing"
	StatusShortlisted Status = "shortlisted"
	StatusRejected    Status = "rejected"
	StatusAccepted    Status = "accepted"
)

// Statuses in workflow order.
var Statuses = []Status{
	StatusPending,
	StatusReviewing,
	StatusShortlisted,
	StatusRejected,
	StatusAccepted,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

type Application struct {
	ID          string           `json:"id"`
	JobID       string           `json:"job_id"`
	CandidateID string           `json:"candidate_id"`
	Status      Status           `json:"status"`
	CoverLetter string           `json:"cover_letter,omitempty"`
	ResumeURL   string           `json:"resume_url"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Job         *job.Job         `json:"job,omitempty"`
	Candidate   *profile.Profile `json:"candidate,omitempty"`
}

type ApplyRq struct {
	CoverLetter string `json:"cover_letter" validate:"max=10000"`
	ResumeURL   string `json:"resume_url" validate:"omitempty,url,max=1024"`
}

type StatusRq struct {
	Status Status `json:"status" validate:"required,oneof=pending reviewing shortlisted rejected accepted"`
}

// CountByStatus tallies applications per status. Every status is present
// in the result, with zero when nothing matches.
func CountByStatus(apps []Application) map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, a := range apps {
		counts[a.Status]++
	}
	return counts
}

// FilterByStatus keeps applications in the given status. The empty status
// and "all" keep everything.
func FilterByStatus(apps []Application, status string) []Application {
	if status == "" || status == "all" {
		return apps
	}
	filtered := []Application{}
	for _, a := range apps {
		if string(a.Status) == status {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
