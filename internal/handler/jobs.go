package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nextgig/job-board/internal/format"
	"github.com/nextgig/job-board/internal/job"
	"github.com/nextgig/job-board/internal/middleware"
	"github.com/nextgig/job-board/internal/profile"
	"github.com/nextgig/job-board/internal/server"
	"github.com/nextgig/job-board/internal/validator"
)

// featuredJobs serves the featured list from cache, loading it on a miss.
func featuredJobs(svr server.Server, jobRepo jobRepository) ([]job.Job, error) {
	if cached, ok := svr.CacheGet(server.CacheKeyFeaturedJobs); ok {
		var jobs []job.Job
		if err := json.Unmarshal(cached, &jobs); err == nil {
			return jobs, nil
		}
	}
	jobs, err := jobRepo.FeaturedJobs()
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(jobs); err == nil {
		if err := svr.CacheSet(server.CacheKeyFeaturedJobs, b); err != nil {
			svr.Log(err, "unable to cache featured jobs")
		}
	}
	return jobs, nil
}

func invalidateJobCaches(svr server.Server) {
	svr.CacheDelete(server.CacheKeyFeaturedJobs)
	svr.CacheDelete(server.CacheKeyRSS)
	svr.CacheDelete(server.CacheKeySitemap)
}

func IndexPageHandler(svr server.Server, jobRepo jobRepository, profileRepo profileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		featured, err := featuredJobs(svr, jobRepo)
		if err != nil {
			svr.Log(err, "unable to retrieve featured jobs")
		}
		latest, err := jobRepo.GetLastNJobs(svr.GetConfig().JobsPerPage)
		if err != nil {
			svr.Log(err, "unable to retrieve latest jobs")
		}
		svr.Render(w, http.StatusOK, "home.html", map[string]interface{}{
			"Profile":      currentProfile(svr, profileRepo, r),
			"FeaturedJobs": featured,
			"LatestJobs":   latest,
			"Categories":   job.Categories,
			"Locations":    job.Locations,
		})
	}
}

func BrowseJobsPageHandler(svr server.Server, jobRepo jobRepository, profileRepo profileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := job.ParseFiltersFromQuery(r.URL.Query())
		p := currentProfile(svr, profileRepo, r)
		jobs, err := jobRepo.JobsByFilters(filters)
		if err != nil {
			svr.Log(err, "unable to retrieve jobs by filters")
			renderError(svr, w, r, p, http.StatusInternalServerError, "Could not load jobs, please try again.")
			return
		}
		svr.Render(w, http.StatusOK, "jobs.html", map[string]interface{}{
			"Profile":          p,
			"Jobs":             jobs,
			"Filters":          filters,
			"Query":            filters.Query().Encode(),
			"Categories":       job.Categories,
			"Locations":        job.Locations,
			"JobTypes":         job.JobTypes,
			"ExperienceLevels": job.ExperienceLevels,
		})
	}
}

func JobPageHandler(svr server.Server, jobRepo jobRepository, appRepo applicationRepository, profileRepo profileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := currentProfile(svr, profileRepo, r)
		j, err := jobRepo.JobByID(mux.Vars(r)["id"])
		if err == job.ErrNotFound {
			renderError(svr, w, r, p, http.StatusNotFound, "This job could not be found.")
			return
		}
		if err != nil {
			svr.Log(err, "unable to retrieve job")
			renderError(svr, w, r, p, http.StatusInternalServerError, "Could not load this job, please try again.")
			return
		}
		if err := jobRepo.IncrementViewCount(j.ID); err != nil {
			svr.Log(err, fmt.Sprintf("unable to increment views for job %s", j.ID))
		}
		hasApplied := false
		if p != nil && p.IsCandidate() {
			hasApplied, err = appRepo.HasApplied(j.ID, p.ID)
			if err != nil {
				svr.Log(err, "unable to check existing application")
			}
		}
		svr.Render(w, http.StatusOK, "job.html", map[string]interface{}{
			"Profile":     p,
			"Job":         j,
			"IsOwner":     p != nil && j.IsOwnedBy(p.ID),
			"HasApplied":  hasApplied,
			"Title":       j.Title + " at " + j.CompanyName,
			"Description": format.TruncateText(j.Description, 160),
			"OGImage":     fmt.Sprintf("%s/jobs/%s/og.png", svr.GetConfig().SiteURL(), j.ID),
		})
	}
}

func JobBySlugPageHandler(svr server.Server, jobRepo jobRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		j, err := jobRepo.JobBySlug(mux.Vars(r)["slug"])
		if err == job.ErrNotFound {
			renderError(svr, w, r, nil, http.StatusNotFound, "This job could not be found.")
			return
		}
		if err != nil {
			svr.Log(err, "unable to retrieve job by slug")
			renderError(svr, w, r, nil, http.StatusInternalServerError, "Could not load this job, please try again.")
			return
		}
		svr.Redirect(w, r, http.StatusMovedPermanently, "/jobs/"+j.ID)
	}
}

func NewJobPageHandler(svr server.Server, profileRepo profileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := currentProfile(svr, profileRepo, r)
		j := job.Job{SalaryCurrency: job.DefaultCurrency, Status: job.StatusActive}
		if p != nil {
			j.CompanyName = p.CompanyName
		}
		renderJobForm(svr, w, p, j, false)
	}
}

func EditJobPageHandler(svr server.Server, jobRepo jobRepository, profileRepo profileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := currentProfile(svr, profileRepo, r)
		j, err := jobRepo.JobByID(mux.Vars(r)["id"])
		if err == job.ErrNotFound || (err == nil && (p == nil || !j.IsOwnedBy(p.ID))) {
			renderError(svr, w, r, p, http.StatusNotFound, "This job could not be found.")
			return
		}
		if err != nil {
			svr.Log(err, "unable to retrieve job for edit")
			renderError(svr, w, r, p, http.StatusInternalServerError, "Could not load this job, please try again.")
			return
		}
		renderJobForm(svr, w, p, j, true)
	}
}

func renderJobForm(svr server.Server, w http.ResponseWriter, p *profile.Profile, j job.Job, editing bool) {
	svr.Render(w, http.StatusOK, "job-form.html", map[string]interface{}{
		"Profile":          p,
		"Job":              j,
		"Editing":          editing,
		"Categories":       job.Categories,
		"Locations":        job.Locations,
		"JobTypes":         job.JobTypes,
		"ExperienceLevels": job.ExperienceLevels,
		"Statuses":         []job.Status{job.StatusActive, job.StatusDraft, job.StatusClosed},
	})
}

func ListJobsHandler(svr server.Server, jobRepo jobRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := jobRepo.JobsByFilters(job.ParseFiltersFromQuery(r.URL.Query()))
		if err != nil {
			svr.Log(err, "unable to retrieve jobs by filters")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve jobs")
			return
		}
		svr.JSON(w, http.StatusOK, jobs)
	}
}

func FeaturedJobsHandler(svr server.Server, jobRepo jobRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := featuredJobs(svr, jobRepo)
		if err != nil {
			svr.Log(err, "unable to retrieve featured jobs")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve featured jobs")
			return
		}
		svr.JSON(w, http.StatusOK, jobs)
	}
}

func GetJobHandler(svr server.Server, jobRepo jobRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		j, err := jobRepo.JobByID(mux.Vars(r)["id"])
		if err == job.ErrNotFound {
			svr.JSONError(w, http.StatusNotFound, "job not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to retrieve job")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve job")
			return
		}
		svr.JSON(w, http.StatusOK, j)
	}
}

func CreateJobHandler(svr server.Server, jobRepo jobRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "sign in required")
			return
		}
		var rq job.JobRq
		if !decodeAndValidate(svr, w, r, &rq) {
			return
		}
		if !rq.SalaryRangeValid() {
			svr.JSON(w, http.StatusBadRequest, validator.FieldError("salary_max", "Must not be less than the minimum salary"))
			return
		}
		j, err := jobRepo.SaveJob(claims.UserID, rq)
		if err != nil {
			svr.Log(err, "unable to save job")
			svr.JSONError(w, http.StatusInternalServerError, "unable to save job")
			return
		}
		invalidateJobCaches(svr)
		svr.JSON(w, http.StatusCreated, j)
	}
}

// ownedJob loads the job in the route and checks the caller owns it,
// writing the error response when not.
func ownedJob(svr server.Server, jobRepo jobRepository, w http.ResponseWriter, r *http.Request) (job.Job, bool) {
	claims, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
	if err != nil {
		svr.JSONError(w, http.StatusUnauthorized, "sign in required")
		return job.Job{}, false
	}
	j, err := jobRepo.JobByID(mux.Vars(r)["id"])
	if err == job.ErrNotFound {
		svr.JSONError(w, http.StatusNotFound, "job not found")
		return job.Job{}, false
	}
	if err != nil {
		svr.Log(err, "unable to retrieve job")
		svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve job")
		return job.Job{}, false
	}
	if !j.IsOwnedBy(claims.UserID) {
		svr.JSONError(w, http.StatusForbidden, "you can only manage your own jobs")
		return job.Job{}, false
	}
	return j, true
}

func UpdateJobHandler(svr server.Server, jobRepo jobRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, ok := ownedJob(svr, jobRepo, w, r)
		if !ok {
			return
		}
		var rq job.JobRq
		if !decodeAndValidate(svr, w, r, &rq) {
			return
		}
		if !rq.SalaryRangeValid() {
			svr.JSON(w, http.StatusBadRequest, validator.FieldError("salary_max", "Must not be less than the minimum salary"))
			return
		}
		j, err := jobRepo.UpdateJob(existing.ID, rq)
		if err != nil {
			svr.Log(err, "unable to update job")
			svr.JSONError(w, http.StatusInternalServerError, "unable to update job")
			return
		}
		invalidateJobCaches(svr)
		svr.JSON(w, http.StatusOK, j)
	}
}

func DeleteJobHandler(svr server.Server, jobRepo jobRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, ok := ownedJob(svr, jobRepo, w, r)
		if !ok {
			return
		}
		if err := jobRepo.DeleteJob(existing.ID); err != nil {
			svr.Log(err, "unable to delete job")
			svr.JSONError(w, http.StatusInternalServerError, "unable to delete job")
			return
		}
		invalidateJobCaches(svr)
		svr.JSON(w, http.StatusOK, map[string]string{"id": existing.ID})
	}
}

func EmployerJobsHandler(svr server.Server, jobRepo jobRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "sign in required")
			return
		}
		jobs, err := jobRepo.JobsForEmployer(claims.UserID)
		if err != nil {
			svr.Log(err, "unable to retrieve employer jobs")
			svr.JSONError(w, http.StatusInternalServerError, "unable to retrieve jobs")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"jobs":  jobs,
			"stats": job.Summarise(jobs),
		})
	}
}
