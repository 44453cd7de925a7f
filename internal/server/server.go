package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/getsentry/raven-go"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/nextgig/job-board/internal/config"
	"github.com/nextgig/job-board/internal/middleware"
	"github.com/nextgig/job-board/internal/notify"
	"github.com/nextgig/job-board/internal/realtime"
	"github.com/nextgig/job-board/internal/storage"
	"github.com/nextgig/job-board/internal/template"
	"github.com/rs/zerolog"
)

const (
	CacheKeyFeaturedJobs = "featuredJobs"
	CacheKeyRSS          = "rss"
	CacheKeySitemap      = "sitemap"

	shutdownTimeout = 15 * time.Second
)

type Server struct {
	cfg          config.Config
	Conn         *sql.DB
	router       *mux.Router
	tmpl         *template.Template
	notifier     *notify.Notifier
	storage      storage.Storage
	hub          *realtime.Hub
	SessionStore sessions.Store
	bigCache     *bigcache.BigCache
	logger       zerolog.Logger
}

func NewServer(
	cfg config.Config,
	conn *sql.DB,
	r *mux.Router,
	t *template.Template,
	notifier *notify.Notifier,
	store storage.Storage,
	hub *realtime.Hub,
	sessionStore sessions.Store,
	logger zerolog.Logger,
) Server {
	raven.SetDSN(cfg.SentryDSN)

	cacheConfig := bigcache.DefaultConfig(12 * time.Hour)
	cacheConfig.Verbose = false
	bigCache, err := bigcache.New(context.Background(), cacheConfig)
	svr := Server{
		cfg:          cfg,
		Conn:         conn,
		router:       r,
		tmpl:         t,
		notifier:     notifier,
		storage:      store,
		hub:          hub,
		SessionStore: sessionStore,
		bigCache:     bigCache,
		logger:       logger,
	}
	if err != nil {
		svr.Log(err, "unable to initialise big cache")
	}
	if hub != nil {
		// listings are refetched on change, cached copies must go with them
		hub.OnEvent(func(e realtime.Event) {
			if e.Table == realtime.TableJobs {
				svr.CacheDelete(CacheKeyFeaturedJobs)
				svr.CacheDelete(CacheKeyRSS)
				svr.CacheDelete(CacheKeySitemap)
			}
		})
	}

	return svr
}

// NewLogger writes human readable logs in dev and JSON everywhere else.
func NewLogger(env string) zerolog.Logger {
	if env == "dev" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func (s Server) RegisterRoute(path string, handler func(w http.ResponseWriter, r *http.Request), methods []string) {
	s.router.HandleFunc(path, handler).Methods(methods...)
}

func (s Server) RegisterPathPrefix(path string, handler http.Handler, methods []string) {
	s.router.PathPrefix(path).Handler(handler).Methods(methods...)
}

func (s Server) GetConfig() config.Config {
	return s.cfg
}

func (s Server) Storage() storage.Storage {
	return s.storage
}

func (s Server) Notifier() *notify.Notifier {
	return s.notifier
}

func (s Server) Hub() *realtime.Hub {
	return s.hub
}

func (s Server) Logger() zerolog.Logger {
	return s.logger
}

func (s Server) Render(w http.ResponseWriter, status int, htmlView string, data map[string]interface{}) error {
	if data == nil {
		data = make(map[string]interface{})
	}
	data["SiteName"] = s.cfg.SiteName
	data["SupportEmail"] = s.cfg.SupportEmail
	data["SiteHost"] = s.cfg.SiteHost
	data["SiteURL"] = s.cfg.SiteURL()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Render(w, status, htmlView, data); err != nil {
		s.Log(err, fmt.Sprintf("unable to render %s", htmlView))
		return err
	}
	return nil
}

func (s Server) XML(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(status)
	w.Write(data)
}

func (s Server) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// JSONError writes {"error": msg}.
func (s Server) JSONError(w http.ResponseWriter, status int, msg string) {
	s.JSON(w, status, map[string]string{"error": msg})
}

func (s Server) TEXT(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(text))
}

func (s Server) MEDIA(w http.ResponseWriter, status int, media []byte, mediaType string) {
	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Cache-Control", "max-age=3600")
	w.WriteHeader(status)
	w.Write(media)
}

func (s Server) Log(err error, msg string) {
	raven.CaptureErrorAndWait(err, map[string]string{"ctx": msg})
	s.logger.Error().Err(err).Msg(msg)
}

func (s Server) Redirect(w http.ResponseWriter, r *http.Request, status int, dst string) {
	http.Redirect(w, r, dst, status)
}

func (s Server) GetJWTSigningKey() []byte {
	return s.cfg.JwtSigningKey
}

func (s Server) CacheGet(key string) ([]byte, bool) {
	if s.bigCache == nil {
		return nil, false
	}
	out, err := s.bigCache.Get(key)
	if err != nil {
		return nil, false
	}
	return out, true
}

func (s Server) CacheSet(key string, val []byte) error {
	if s.bigCache == nil {
		return nil
	}
	return s.bigCache.Set(key, val)
}

func (s Server) CacheDelete(key string) error {
	if s.bigCache == nil {
		return nil
	}
	err := s.bigCache.Delete(key)
	if err == bigcache.ErrEntryNotFound {
		return nil
	}
	return err
}

// Handler is the router wrapped in the request middleware chain.
func (s Server) Handler() http.Handler {
	return middleware.HTTPSMiddleware(
		middleware.LoggingMiddleware(middleware.HeadersMiddleware(s.router, s.cfg.Env), s.logger),
		s.cfg.Env,
	)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	if s.cfg.Env == "dev" {
		s.logger.Info().Msgf("local env http://localhost:%s", s.cfg.Port)
		addr = fmt.Sprintf("localhost:%s", s.cfg.Port)
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.Wait()
	}
	return nil
}
