package api

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"weatherwise/autocomplete"
	"weatherwise/controller"
	"weatherwise/models"
)

var iconCode = regexp.MustCompile(`^[0-9]{2}[dn]$`)

type cityRequest struct {
	City string `json:"city"`
}

type locateRequest struct {
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
	Error string   `json:"error"`
}

type selectRequest struct {
	models.CitySuggestion
	Page string `json:"page"`
}

type searchRequest struct {
	Query string `json:"query"`
	Page  string `json:"page"`
}

type suggestionsResponse struct {
	Query       string                  `json:"query"`
	Suggestions []models.CitySuggestion `json:"suggestions"`
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"sessions":  s.sessions.Len(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.about.View())
}

func (s *Server) handleClock(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"date": s.clock.Date()})
}

// handleIcon redirects to the provider's icon asset
func (s *Server) handleIcon(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if !iconCode.MatchString(code) {
		writeError(w, http.StatusNotFound, "Unknown icon: "+code)
		return
	}
	http.Redirect(w, r, models.IconURL(code), http.StatusFound)
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Today.View())
}

// handleTodayLocate feeds the device position, or the reason there is none,
// into the Today page
func (s *Server) handleTodayLocate(w http.ResponseWriter, r *http.Request) {
	var req locateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var locator controller.Locator
	switch {
	case req.Error == "unsupported":
		locator = controller.Failing(controller.ErrLocationUnsupported)
	case req.Error != "":
		locator = controller.Failing(controller.ErrLocationDenied)
	case req.Lat == nil || req.Lon == nil:
		writeError(w, http.StatusBadRequest, "lat and lon are required")
		return
	case *req.Lat < -90 || *req.Lat > 90 || *req.Lon < -180 || *req.Lon > 180:
		writeError(w, http.StatusBadRequest, "lat or lon out of range")
		return
	default:
		locator = controller.Fixed(controller.Position{Lat: *req.Lat, Lon: *req.Lon})
	}

	page := sessionFrom(r).Today
	page.Mount(r.Context(), locator)
	writeJSON(w, http.StatusOK, page.View())
}

func (s *Server) handleTodaySearch(w http.ResponseWriter, r *http.Request) {
	s.handleCitySearch(w, r, PageToday)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	page := sessionFrom(r).Forecast
	page.Mount(r.Context())
	writeJSON(w, http.StatusOK, page.View())
}

func (s *Server) handleForecastSearch(w http.ResponseWriter, r *http.Request) {
	s.handleCitySearch(w, r, PageForecast)
}

func (s *Server) handleCitySearch(w http.ResponseWriter, r *http.Request, page string) {
	var req cityRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.searchPage(w, r, page, req.City)
}

// handleForecastExpand opens the detail modal on one day
func (s *Server) handleForecastExpand(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "day index must be a number")
		return
	}

	page := sessionFrom(r).Forecast
	if err := page.Expand(index); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, page.View())
}

func (s *Server) handleForecastClose(w http.ResponseWriter, r *http.Request) {
	page := sessionFrom(r).Forecast
	page.Close()
	writeJSON(w, http.StatusOK, page.View())
}

// handleSuggestions refreshes the suggestions for the typed text. A failed
// or superseded lookup answers with the list the bar currently holds.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	bar := sessionFrom(r).SearchBar
	query := r.URL.Query().Get("q")

	suggestions, err := bar.Change(r.Context(), query)
	if err != nil {
		suggestions = bar.Suggestions()
	}

	writeJSON(w, http.StatusOK, suggestionsResponse{Query: query, Suggestions: suggestions})
}

// handleSuggestionSelect turns a picked suggestion into a search on the
// requested page
func (s *Server) handleSuggestionSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validPage(req.Page) {
		writeError(w, http.StatusBadRequest, "unknown page: "+req.Page)
		return
	}

	label, err := sessionFrom(r).SearchBar.Select(req.CitySuggestion)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.searchPage(w, r, req.Page, label)
}

// handleSearch submits typed text as a search on the requested page
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validPage(req.Page) {
		writeError(w, http.StatusBadRequest, "unknown page: "+req.Page)
		return
	}

	bar := sessionFrom(r).SearchBar
	bar.SetQuery(req.Query)

	query, err := bar.Submit()
	if errors.Is(err, autocomplete.ErrEmptyQuery) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.searchPage(w, r, req.Page, query)
}

// searchPage runs a city search on page and answers with its view. Upstream
// failures are part of the view, only a blank city is rejected.
func (s *Server) searchPage(w http.ResponseWriter, r *http.Request, page, city string) {
	sess := sessionFrom(r)

	var (
		err  error
		view interface{}
	)
	switch page {
	case PageForecast:
		err = sess.Forecast.Search(r.Context(), city)
		view = sess.Forecast.View()
	default:
		err = sess.Today.Search(r.Context(), city)
		view = sess.Today.View()
	}

	if errors.Is(err, controller.ErrEmptyCity) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// validPage accepts the page names, with an empty name meaning today
func validPage(page string) bool {
	return page == "" || page == PageToday || page == PageForecast
}

// PruneSessions is the scheduled task that drops idle sessions
func (s *Server) PruneSessions(maxIdle time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if pruned := s.sessions.PruneIdle(maxIdle); pruned > 0 {
			s.log.Infof("Pruned %d idle sessions", pruned)
		}
		return nil
	}
}
