package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nextgig/job-board/internal/application"
	"github.com/nextgig/job-board/internal/job"
	"github.com/nextgig/job-board/internal/middleware"
	"github.com/nextgig/job-board/internal/server"
)

var plainText = bluemonday.StrictPolicy()

func HasAppliedHandler(svr server.Server, appRepo applicationRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil || !claims.IsCandidate() {
			svr.JSON(w, http.StatusOK, map[string]bool{"applied": false})
			return
		}
		applied, err := appRepo.HasApplied(mux.Vars(r)["id"], claims.UserID)
		if err != nil {
			svr.Log(err, "unable to check existing application")
			svr.JSONError(w, http.StatusInternalServerError, "unable to check application")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]bool{"applied": applied})
	}
}

func ApplyForJobHandler(svr server.Server, jobRepo jobRepository, appRepo applicationRepository, profileRepo profileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "sign in required")
			return
		}
		if !claims.IsCandidate() {
			svr.JSONError(w, http.StatusForbidden, "Only candidates can apply for jobs")
			return
		}
		j, err := jobRepo.JobByID(mux.Vars(r)["id"])
		if err == job.ErrNotFound {
			svr.JSONError(w, http.StatusNotFound, "job not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to retrieve job for application")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve job")
			return
		}
		applied, err := appRepo.HasApplied(j.ID, claims.UserID)
		if err != nil {
			svr.Log(err, "unable to check existing application")
			svr.JSONError(w, http.StatusInternalServerError, "unable to submit application")
			return
		}
		if applied {
			svr.JSONError(w, http.StatusConflict, "You have already applied for this job")
			return
		}
		var rq application.ApplyRq
		if !decodeAndValidate(svr, w, r, &rq) {
			return
		}
		candidate, err := profileRepo.ProfileByID(claims.UserID)
		if err != nil {
			svr.Log(err, "unable to retrieve candidate profile")
			svr.JSONError(w, http.StatusInternalServerError, "unable to submit application")
			return
		}
		if rq.ResumeURL == "" {
			rq.ResumeURL = candidate.ResumeURL
		}
		if rq.ResumeURL == "" {
			svr.JSONError(w, http.StatusBadRequest, "Please upload your resume")
			return
		}
		rq.CoverLetter = strings.TrimSpace(plainText.Sanitize(rq.CoverLetter))
		a, err := appRepo.Create(j.ID, candidate.ID, rq)
		if err == application.ErrAlreadyApplied {
			svr.JSONError(w, http.StatusConflict, "You have already applied for this job")
			return
		}
		if err != nil {
			svr.Log(err, "unable to save application")
			svr.JSONError(w, http.StatusInternalServerError, "unable to submit application")
			return
		}
		svr.Notifier().ApplicationSubmitted(candidate, j.Title)
		svr.JSON(w, http.StatusCreated, a)
	}
}

func UpdateApplicationStatusHandler(svr server.Server, appRepo applicationRepository, profileRepo profileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "sign in required")
			return
		}
		a, err := appRepo.ApplicationByID(mux.Vars(r)["id"])
		if err == application.ErrNotFound {
			svr.JSONError(w, http.StatusNotFound, "application not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to retrieve application")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve application")
			return
		}
		if a.Job == nil || !a.Job.IsOwnedBy(claims.UserID) {
			svr.JSONError(w, http.StatusForbidden, "you can only manage applicants of your own jobs")
			return
		}
		var rq application.StatusRq
		if !decodeAndValidate(svr, w, r, &rq) {
			return
		}
		if !application.CanTransition(a.Status, rq.Status) {
			svr.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":   "cannot move application from " + string(a.Status) + " to " + string(rq.Status),
				"allowed": application.AvailableTransitions(a.Status),
			})
			return
		}
		updated, err := appRepo.UpdateStatus(a.ID, a.Status, rq.Status)
		if err == application.ErrStatusChanged {
			svr.JSONError(w, http.StatusConflict, "application status was changed by someone else, reload and try again")
			return
		}
		if err != nil {
			svr.Log(err, "unable to update application status")
			svr.JSONError(w, http.StatusInternalServerError, "unable to update status")
			return
		}
		candidate, err := profileRepo.ProfileByID(a.CandidateID)
		if err != nil {
			svr.Log(err, "unable to retrieve candidate for status email")
		} else {
			svr.Notifier().StatusChanged(candidate, a.Job.Title, updated.Status)
		}
		svr.JSON(w, http.StatusOK, updated)
	}
}

func JobApplicationsHandler(svr server.Server, jobRepo jobRepository, appRepo applicationRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		j, ok := ownedJob(svr, jobRepo, w, r)
		if !ok {
			return
		}
		apps, err := appRepo.ApplicationsForJob(j.ID)
		if err != nil {
			svr.Log(err, "unable to retrieve job applications")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve applications")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"job":          j,
			"applications": application.FilterByStatus(apps, r.URL.Query().Get("status")),
			"counts":       application.CountByStatus(apps),
		})
	}
}

func CandidateApplicationsHandler(svr server.Server, appRepo applicationRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "sign in required")
			return
		}
		apps, err := appRepo.ApplicationsForCandidate(claims.UserID)
		if err != nil {
			svr.Log(err, "unable to retrieve candidate applications")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve applications")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"applications": apps,
			"counts":       application.CountByStatus(apps),
		})
	}
}

func EmployerDashboardPageHandler(svr server.Server, jobRepo jobRepository, profileRepo profileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := currentProfile(svr, profileRepo, r)
		if p == nil {
			svr.Redirect(w, r, http.StatusFound, middleware.LoginPath)
			return
		}
		jobs, err := jobRepo.JobsForEmployer(p.ID)
		if err != nil {
			svr.Log(err, "unable to retrieve employer jobs")
			renderError(svr, w, r, p, http.StatusInternalServerError, "Could not load your jobs, please try again.")
			return
		}
		svr.Render(w, http.StatusOK, "employer-dashboard.html", map[string]interface{}{
			"Profile": p,
			"Jobs":    jobs,
			"Stats":   job.Summarise(jobs),
		})
	}
}

func ApplicantsPageHandler(svr server.Server, jobRepo jobRepository, appRepo applicationRepository, profileRepo profileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := currentProfile(svr, profileRepo, r)
		if p == nil {
			svr.Redirect(w, r, http.StatusFound, middleware.LoginPath)
			return
		}
		j, err := jobRepo.JobByID(mux.Vars(r)["id"])
		if err == job.ErrNotFound || (err == nil && !j.IsOwnedBy(p.ID)) {
			renderError(svr, w, r, p, http.StatusNotFound, "This job could not be found.")
			return
		}
		if err != nil {
			svr.Log(err, "unable to retrieve job for applicants")
			renderError(svr, w, r, p, http.StatusInternalServerError, "Could not load this job, please try again.")
			return
		}
		apps, err := appRepo.ApplicationsForJob(j.ID)
		if err != nil {
			svr.Log(err, "unable to retrieve job applications")
			renderError(svr, w, r, p, http.StatusInternalServerError, "Could not load applicants, please try again.")
			return
		}
		status := r.URL.Query().Get("status")
		if status == "" {
			status = "all"
		}
		svr.Render(w, http.StatusOK, "applicants.html", map[string]interface{}{
			"Profile":      p,
			"Job":          j,
			"Applications": application.FilterByStatus(apps, status),
			"Counts":       statusCounts(apps),
			"Total":        len(apps),
			"Statuses":     application.Statuses,
			"StatusFilter": status,
		})
	}
}

func CandidateDashboardPageHandler(svr server.Server, appRepo applicationRepository, profileRepo profileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := currentProfile(svr, profileRepo, r)
		if p == nil {
			svr.Redirect(w, r, http.StatusFound, middleware.LoginPath)
			return
		}
		apps, err := appRepo.ApplicationsForCandidate(p.ID)
		if err != nil {
			svr.Log(err, "unable to retrieve candidate applications")
			renderError(svr, w, r, p, http.StatusInternalServerError, "Could not load your applications, please try again.")
			return
		}
		svr.Render(w, http.StatusOK, "candidate-dashboard.html", map[string]interface{}{
			"Profile":      p,
			"Applications": apps,
			"Counts":       statusCounts(apps),
		})
	}
}

// statusCounts keys the per status tally by plain string so templates
// can look statuses up by name.
func statusCounts(apps []application.Application) map[string]int {
	counts := make(map[string]int, len(application.Statuses))
	for s, n := range application.CountByStatus(apps) {
		counts[string(s)] = n
	}
	return counts
}
