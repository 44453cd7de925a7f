package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/nextgig/job-board/internal/application"
	"github.com/nextgig/job-board/internal/config"
	"github.com/nextgig/job-board/internal/database"
	"github.com/nextgig/job-board/internal/email"
	"github.com/nextgig/job-board/internal/handler"
	"github.com/nextgig/job-board/internal/job"
	"github.com/nextgig/job-board/internal/middleware"
	"github.com/nextgig/job-board/internal/notify"
	"github.com/nextgig/job-board/internal/profile"
	"github.com/nextgig/job-board/internal/realtime"
	"github.com/nextgig/job-board/internal/server"
	"github.com/nextgig/job-board/internal/storage"
	"github.com/nextgig/job-board/internal/template"
	"github.com/nextgig/job-board/internal/user"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("unable to read .env: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}
	logger := server.NewLogger(cfg.Env)

	conn, err := database.GetDbConn(cfg.DatabaseURL())
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to connect to postgres")
	}
	defer database.CloseDbConn(conn)
	if err := database.Migrate(conn); err != nil {
		logger.Fatal().Err(err).Msg("unable to migrate database")
	}

	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to initialise storage")
	}
	tmpl, err := template.NewTemplate(os.DirFS("."))
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to parse templates")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub(logger)
	listener, err := realtime.NewListener(cfg.DatabaseURL(), hub, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to listen for table changes")
	}
	defer listener.Close()

	emailClient := email.NewClient(cfg.FunctionsURL, cfg.FunctionsKey)
	notifier := notify.New(emailClient, cfg.SiteName, logger)
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)

	svr := server.NewServer(
		cfg,
		conn,
		mux.NewRouter(),
		tmpl,
		notifier,
		store,
		hub,
		sessionStore,
		logger,
	)
	go hub.Run(ctx)
	go listener.Run(ctx)

	jobRepo := job.NewRepository(conn)
	appRepo := application.NewRepository(conn)
	profileRepo := profile.NewRepository(conn)
	userRepo := user.NewRepository(conn)

	key := cfg.JwtSigningKey
	employerPage := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RoleAuthenticatedMiddleware(sessionStore, key, profile.RoleEmployer, h)
	}
	candidatePage := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RoleAuthenticatedMiddleware(sessionStore, key, profile.RoleCandidate, h)
	}
	employerAction := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.JSONAuthenticatedMiddleware(sessionStore, key, profile.RoleEmployer, h)
	}
	candidateAction := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.JSONAuthenticatedMiddleware(sessionStore, key, profile.RoleCandidate, h)
	}
	signedInAction := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.JSONAuthenticatedMiddleware(sessionStore, key, "", h)
	}

	svr.RegisterPathPrefix("/s/", http.StripPrefix("/s/", http.FileServer(http.Dir("./static/assets"))), []string{"GET"})
	if cfg.Storage.Type == "local" {
		svr.RegisterRoute("/files/{path:.*}", handler.FilesHandler(svr), []string{"GET"})
	}

	svr.RegisterRoute("/rss", handler.RSSHandler(svr, jobRepo), []string{"GET"})
	svr.RegisterRoute("/sitemap.xml", handler.SitemapHandler(svr, jobRepo), []string{"GET"})

	//
	// public pages
	//

	svr.RegisterRoute("/", handler.IndexPageHandler(svr, jobRepo, profileRepo), []string{"GET"})
	svr.RegisterRoute("/jobs", handler.BrowseJobsPageHandler(svr, jobRepo, profileRepo), []string{"GET"})
	svr.RegisterRoute("/jobs/{id}", handler.JobPageHandler(svr, jobRepo, appRepo, profileRepo), []string{"GET"})
	svr.RegisterRoute("/jobs/{id}/og.png", handler.JobImageHandler(svr, jobRepo), []string{"GET"})
	svr.RegisterRoute("/job/{slug}", handler.JobBySlugPageHandler(svr, jobRepo), []string{"GET"})
	svr.RegisterRoute("/auth/login", handler.LoginPageHandler(svr), []string{"GET"})
	svr.RegisterRoute("/auth/register", handler.RegisterPageHandler(svr), []string{"GET"})

	//
	// role gated pages
	//

	svr.RegisterRoute("/profile", middleware.RoleAuthenticatedMiddleware(sessionStore, key, "", handler.ProfilePageHandler(svr, profileRepo)), []string{"GET"})
	svr.RegisterRoute("/employer/dashboard", employerPage(handler.EmployerDashboardPageHandler(svr, jobRepo, profileRepo)), []string{"GET"})
	svr.RegisterRoute("/employer/jobs/new", employerPage(handler.NewJobPageHandler(svr, profileRepo)), []string{"GET"})
	svr.RegisterRoute("/employer/jobs/{id}/edit", employerPage(handler.EditJobPageHandler(svr, jobRepo, profileRepo)), []string{"GET"})
	svr.RegisterRoute("/employer/jobs/{id}/applicants", employerPage(handler.ApplicantsPageHandler(svr, jobRepo, appRepo, profileRepo)), []string{"GET"})
	svr.RegisterRoute("/candidate/dashboard", candidatePage(handler.CandidateDashboardPageHandler(svr, appRepo, profileRepo)), []string{"GET"})

	//
	// json api
	//

	svr.RegisterRoute("/x/auth/register", handler.RegisterHandler(svr, userRepo), []string{"POST"})
	svr.RegisterRoute("/x/auth/login", handler.LoginHandler(svr, userRepo, profileRepo), []string{"POST"})
	svr.RegisterRoute("/x/auth/logout", handler.LogoutHandler(svr), []string{"POST"})

	svr.RegisterRoute("/x/jobs", handler.ListJobsHandler(svr, jobRepo), []string{"GET"})
	svr.RegisterRoute("/x/jobs", employerAction(handler.CreateJobHandler(svr, jobRepo)), []string{"POST"})
	svr.RegisterRoute("/x/jobs/featured", handler.FeaturedJobsHandler(svr, jobRepo), []string{"GET"})
	svr.RegisterRoute("/x/jobs/{id}", handler.GetJobHandler(svr, jobRepo), []string{"GET"})
	svr.RegisterRoute("/x/jobs/{id}", employerAction(handler.UpdateJobHandler(svr, jobRepo)), []string{"PUT"})
	svr.RegisterRoute("/x/jobs/{id}", employerAction(handler.DeleteJobHandler(svr, jobRepo)), []string{"DELETE"})
	svr.RegisterRoute("/x/jobs/{id}/applied", handler.HasAppliedHandler(svr, appRepo), []string{"GET"})
	svr.RegisterRoute("/x/jobs/{id}/apply", handler.ApplyForJobHandler(svr, jobRepo, appRepo, profileRepo), []string{"POST"})

	svr.RegisterRoute("/x/employer/jobs", employerAction(handler.EmployerJobsHandler(svr, jobRepo)), []string{"GET"})
	svr.RegisterRoute("/x/employer/jobs/{id}/applications", employerAction(handler.JobApplicationsHandler(svr, jobRepo, appRepo)), []string{"GET"})
	svr.RegisterRoute("/x/candidate/applications", candidateAction(handler.CandidateApplicationsHandler(svr, appRepo)), []string{"GET"})
	svr.RegisterRoute("/x/applications/{id}/status", employerAction(handler.UpdateApplicationStatusHandler(svr, appRepo, profileRepo)), []string{"PUT"})

	svr.RegisterRoute("/x/profile", signedInAction(handler.UpdateProfileHandler(svr, profileRepo)), []string{"PUT"})
	svr.RegisterRoute("/x/profile/avatar", signedInAction(handler.UploadAvatarHandler(svr, profileRepo)), []string{"POST"})
	svr.RegisterRoute("/x/profile/logo", employerAction(handler.UploadLogoHandler(svr, profileRepo)), []string{"POST"})
	svr.RegisterRoute("/x/resume", candidateAction(handler.UploadResumeHandler(svr, profileRepo)), []string{"POST"})

	svr.RegisterRoute("/x/realtime", handler.RealtimeHandler(svr), []string{"GET"})

	//
	// email function, called by email.Client and by browsers holding the anon key
	//

	relay := email.NewRelay(cfg.SmtpHost, cfg.SmtpPort, cfg.SmtpUser, cfg.SmtpPassword)
	svr.RegisterRoute(
		"/functions/v1/send-email",
		middleware.CORSMiddleware(
			middleware.BearerAuthenticatedMiddleware(cfg.FunctionsKey, handler.SendEmailFunctionHandler(svr, relay)),
			http.MethodPost,
		),
		[]string{"POST", "OPTIONS"},
	)

	if err := svr.Run(ctx); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
