package handler

import (
	"encoding/json"
	"net/http"

	"github.com/nextgig/job-board/internal/application"
	"github.com/nextgig/job-board/internal/job"
	"github.com/nextgig/job-board/internal/middleware"
	"github.com/nextgig/job-board/internal/profile"
	"github.com/nextgig/job-board/internal/server"
	"github.com/nextgig/job-board/internal/user"
	"github.com/nextgig/job-board/internal/validator"
)

const maxJSONBodyBytes = int64(1 << 20)

type jobRepository interface {
	SaveJob(employerID string, rq job.JobRq) (job.Job, error)
	UpdateJob(id string, rq job.JobRq) (job.Job, error)
	DeleteJob(id string) error
	IncrementViewCount(id string) error
	JobByID(id string) (job.Job, error)
	JobBySlug(slug string) (job.Job, error)
	JobsByFilters(f job.Filters) ([]job.Job, error)
	FeaturedJobs() ([]job.Job, error)
	JobsForEmployer(employerID string) ([]job.Job, error)
	GetLastNJobs(max int) ([]job.Job, error)
}

type applicationRepository interface {
	Create(jobID, candidateID string, rq application.ApplyRq) (application.Application, error)
	HasApplied(jobID, candidateID string) (bool, error)
	ApplicationByID(id string) (application.Application, error)
	UpdateStatus(id string, from, to application.Status) (application.Application, error)
	ApplicationsForCandidate(candidateID string) ([]application.Application, error)
	ApplicationsForJob(jobID string) ([]application.Application, error)
}

type profileRepository interface {
	ProfileByID(id string) (profile.Profile, error)
	UpdateProfile(id string, rq profile.UpdateRq) (profile.Profile, error)
	UpdateAvatarURL(id, url string) error
	UpdateLogoURL(id, url string) error
	UpdateResumeURL(id, url string) error
}

type userRepository interface {
	SignUp(rq user.SignUpRq) (profile.Profile, error)
	Authenticate(email, password string) (user.User, error)
}

var validate = validator.New()

// currentProfile resolves the session to a profile. Any failure means an
// anonymous visitor.
func currentProfile(svr server.Server, profileRepo profileRepository, r *http.Request) *profile.Profile {
	claims, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
	if err != nil {
		return nil
	}
	p, err := profileRepo.ProfileByID(claims.UserID)
	if err != nil {
		return nil
	}
	return &p
}

// decodeAndValidate reads a JSON body into v and runs the struct rules.
// It writes the 400 response itself and reports whether to carry on.
func decodeAndValidate(svr server.Server, w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := decodeJSON(r, v); err != nil {
		svr.JSONError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if n, ok := v.(interface{ Normalise() }); ok {
		n.Normalise()
	}
	if err := validate.Validate(v); err != nil {
		if ve, ok := err.(*validator.ValidationError); ok {
			svr.JSON(w, http.StatusBadRequest, ve)
			return false
		}
		svr.Log(err, "unable to validate request")
		svr.JSONError(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// dashboardPath is where a signed in user lands.
func dashboardPath(role profile.Role) string {
	if role == profile.RoleEmployer {
		return "/employer/dashboard"
	}
	return "/candidate/dashboard"
}

func renderError(svr server.Server, w http.ResponseWriter, r *http.Request, p *profile.Profile, status int, msg string) {
	svr.Render(w, status, "error.html", map[string]interface{}{
		"Profile": p,
		"Status":  status,
		"Message": msg,
	})
}
