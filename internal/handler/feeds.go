package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/gorilla/mux"
	"github.com/nextgig/job-board/internal/format"
	"github.com/nextgig/job-board/internal/imagemeta"
	"github.com/nextgig/job-board/internal/job"
	"github.com/nextgig/job-board/internal/server"
	"github.com/snabb/sitemap"
)

const rssJobsLimit = 50

func RSSHandler(svr server.Server, jobRepo jobRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cached, ok := svr.CacheGet(server.CacheKeyRSS); ok {
			svr.XML(w, http.StatusOK, cached)
			return
		}
		jobs, err := jobRepo.GetLastNJobs(rssJobsLimit)
		if err != nil {
			svr.Log(err, "unable to retrieve jobs for RSS Feed")
			svr.XML(w, http.StatusInternalServerError, []byte{})
			return
		}
		cfg := svr.GetConfig()
		siteURL := cfg.SiteURL()
		feed := &feeds.Feed{
			Title:       cfg.SiteName + " Jobs",
			Link:        &feeds.Link{Href: siteURL},
			Description: "Latest jobs on " + cfg.SiteName,
			Author:      &feeds.Author{Name: cfg.SiteName, Email: cfg.SupportEmail},
			Created:     time.Now(),
		}
		for _, j := range jobs {
			feed.Items = append(feed.Items, &feeds.Item{
				Id:          j.ID,
				Title:       fmt.Sprintf("%s with %s - %s", j.Title, j.CompanyName, j.Location),
				Link:        &feeds.Link{Href: fmt.Sprintf("%s/jobs/%s", siteURL, j.ID)},
				Description: format.TruncateText(j.Description, 500) + "\n\nSalary: " + format.FormatSalary(j.SalaryMin, j.SalaryMax, j.SalaryCurrency),
				Author:      &feeds.Author{Name: j.CompanyName},
				Enclosure:   &feeds.Enclosure{Length: "0", Type: "image/png", Url: fmt.Sprintf("%s/jobs/%s/og.png", siteURL, j.ID)},
				Created:     j.CreatedAt,
				Updated:     j.UpdatedAt,
			})
		}
		rssFeed, err := feed.ToRss()
		if err != nil {
			svr.Log(err, "unable to convert rss feed to xml")
			svr.XML(w, http.StatusInternalServerError, []byte{})
			return
		}
		if err := svr.CacheSet(server.CacheKeyRSS, []byte(rssFeed)); err != nil {
			svr.Log(err, "unable to cache rss feed")
		}
		svr.XML(w, http.StatusOK, []byte(rssFeed))
	}
}

var sitemapStaticPages = []string{"/", "/jobs", "/auth/login", "/auth/register"}

func SitemapHandler(svr server.Server, jobRepo jobRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cached, ok := svr.CacheGet(server.CacheKeySitemap); ok {
			svr.XML(w, http.StatusOK, cached)
			return
		}
		jobs, err := jobRepo.JobsByFilters(job.Filters{Status: job.StatusActive})
		if err != nil {
			svr.Log(err, "unable to retrieve jobs for sitemap")
			svr.TEXT(w, http.StatusInternalServerError, "unable to fetch sitemap")
			return
		}
		siteURL := svr.GetConfig().SiteURL()
		now := time.Now()
		sitemapFile := sitemap.New()
		for _, page := range sitemapStaticPages {
			sitemapFile.Add(&sitemap.URL{
				Loc:        siteURL + page,
				LastMod:    &now,
				ChangeFreq: sitemap.ChangeFreq("daily"),
			})
		}
		for i := range jobs {
			sitemapFile.Add(&sitemap.URL{
				Loc:        fmt.Sprintf("%s/jobs/%s", siteURL, jobs[i].ID),
				LastMod:    &jobs[i].UpdatedAt,
				ChangeFreq: sitemap.ChangeFreq("weekly"),
			})
		}
		buf := new(bytes.Buffer)
		if _, err := sitemapFile.WriteTo(buf); err != nil {
			svr.Log(err, "sitemapFile.WriteTo")
			svr.TEXT(w, http.StatusInternalServerError, "unable to save sitemap file")
			return
		}
		if err := svr.CacheSet(server.CacheKeySitemap, buf.Bytes()); err != nil {
			svr.Log(err, "unable to cache sitemap")
		}
		svr.XML(w, http.StatusOK, buf.Bytes())
	}
}

func JobImageHandler(svr server.Server, jobRepo jobRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		j, err := jobRepo.JobByID(mux.Vars(r)["id"])
		if err != nil {
			if err != job.ErrNotFound {
				svr.Log(err, "unable to retrieve job for meta image")
			}
			svr.MEDIA(w, http.StatusNotFound, []byte{}, "image/png")
			return
		}
		media, err := imagemeta.GenerateImageForJob(j, svr.GetConfig().SiteName)
		if err != nil {
			svr.Log(err, "unable to generate media for job ID")
			svr.MEDIA(w, http.StatusInternalServerError, []byte{}, "image/png")
			return
		}
		svr.MEDIA(w, http.StatusOK, media.Bytes(), "image/png")
	}
}
