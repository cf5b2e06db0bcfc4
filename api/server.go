package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"weatherwise/autocomplete"
	"weatherwise/controller"
	"weatherwise/datasource"
	"weatherwise/logger"
)

const SessionCookie = "weatherwise_session"

// Page names accepted by the search endpoints
const (
	PageToday    = "today"
	PageForecast = "forecast"
)

// Sources are the upstream lookups the pages call
type Sources struct {
	Current  datasource.CurrentSource
	Forecast datasource.ForecastSource
	Geocoder datasource.Geocoder
}

// Options tunes the HTTP server
type Options struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RateLimit       float64
	RateBurst       int
	DefaultCity     string
	SuggestionLimit int
}

// Server represents the API server
type Server struct {
	sessions *SessionStore
	clock    controller.DateSource
	about    controller.AboutPage
	log      logger.Logger
	server   *http.Server
}

type sessionKey struct{}

// NewServer creates a new API server
func NewServer(sources Sources, dates controller.DateSource, opts Options, log logger.Logger) *Server {
	log = log.WithField("component", "api")

	s := &Server{
		clock: dates,
		log:   log,
	}

	s.sessions = NewSessionStore(func(id string) *Session {
		sessionLog := log.WithField("session", id)
		return &Session{
			Today:     controller.NewTodayPage(sources.Current, dates, sessionLog),
			Forecast:  controller.NewFiveDayPage(sources.Forecast, opts.DefaultCity, sessionLog),
			SearchBar: autocomplete.NewSearchBar(sources.Geocoder, opts.SuggestionLimit, sessionLog),
		}
	})

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      s.routes(rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst)),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}

	return s
}

func (s *Server) routes(limiter *rate.Limiter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(RateLimit(limiter))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/api/health", s.handleHealthCheck)
	r.Get("/api/about", s.handleAbout)
	r.Get("/api/clock", s.handleClock)
	r.Get("/icons/{code}", s.handleIcon)

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/api/today", s.handleToday)
		r.Post("/api/today/locate", s.handleTodayLocate)
		r.Post("/api/today/search", s.handleTodaySearch)

		r.Get("/api/forecast", s.handleForecast)
		r.Post("/api/forecast/search", s.handleForecastSearch)
		r.Post("/api/forecast/days/{index}", s.handleForecastExpand)
		r.Delete("/api/forecast/modal", s.handleForecastClose)

		r.Get("/api/suggestions", s.handleSuggestions)
		r.Post("/api/suggestions/select", s.handleSuggestionSelect)
		r.Post("/api/search", s.handleSearch)
	})

	return r
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Sessions exposes the session store so idle sessions can be pruned
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Start begins the API server. It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	s.log.Infof("Starting API server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// withSession attaches the caller's session, creating one when the cookie is
// missing or refers to a pruned session
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *Session
		if cookie, err := r.Cookie(SessionCookie); err == nil {
			sess, _ = s.sessions.Get(cookie.Value)
		}

		if sess == nil {
			sess = s.sessions.Create()
			s.log.Debugf("Created session %s", sess.ID)
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *Session {
	return r.Context().Value(sessionKey{}).(*Session)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
