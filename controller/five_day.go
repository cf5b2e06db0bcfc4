package controller

import (
	"context"
	"strings"
	"sync"

	"weatherwise/datasource"
	"weatherwise/logger"
	"weatherwise/models"
	"weatherwise/weather"
)

// TodayLabel titles the first forecast card
const TodayLabel = "Today"

// FiveDayPage shows one card per forecast day and a modal with the details
// of a single day. The modal is independent of the fetch state: it keeps its
// own copy of the day it was opened with.
type FiveDayPage struct {
	source      datasource.ForecastSource
	defaultCity string
	log         logger.Logger

	mu      sync.Mutex
	token   uint64
	mounted bool
	state   State
	city    string
	days    []models.DailyForecast
	errMsg  string
	modal   *models.DailyForecast
}

// DayCard is one forecast day as rendered in the card row
type DayCard struct {
	models.DailyForecast
	Label     string `json:"label"`
	Highlight bool   `json:"highlight"`
	IconURL   string `json:"iconUrl"`
}

// DayDetail is the content of the open modal
type DayDetail struct {
	models.DailyForecast
	IconURL     string   `json:"iconUrl"`
	Suggestions []string `json:"suggestions"`
}

// ForecastView is everything the five day page renders
type ForecastView struct {
	State State      `json:"state"`
	City  string     `json:"city"`
	Days  []DayCard  `json:"days"`
	Error string     `json:"error,omitempty"`
	Modal *DayDetail `json:"modal"`
}

func NewFiveDayPage(source datasource.ForecastSource, defaultCity string, log logger.Logger) *FiveDayPage {
	return &FiveDayPage{
		source:      source,
		defaultCity: defaultCity,
		city:        defaultCity,
		log:         log.WithField("component", "five_day_page"),
	}
}

// Mount loads the default city the first time the page is shown. Later calls
// do nothing.
func (p *FiveDayPage) Mount(ctx context.Context) error {
	p.mu.Lock()
	if p.mounted {
		p.mu.Unlock()
		return nil
	}
	p.mounted = true
	city := p.city
	p.mu.Unlock()

	return p.Search(ctx, city)
}

// Mounted reports whether Mount or Search has run
func (p *FiveDayPage) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mounted
}

// Search selects city and loads its forecast. On failure the previous days
// are dropped.
func (p *FiveDayPage) Search(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		p.log.Warn("Search query is empty.")
		return ErrEmptyCity
	}

	p.mu.Lock()
	p.token++
	token := p.token
	p.mounted = true
	p.city = city
	p.mu.Unlock()

	resp, err := p.source.FetchForecast(ctx, city)
	if err != nil {
		p.log.Warnf("Error fetching forecast for %q: %v", city, err)
	}

	var days []models.DailyForecast
	if err == nil {
		days = weather.DailyForecasts(resp.List)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if token != p.token {
		p.log.Debugf("Discarding forecast for %q, a newer request is pending", city)
		return ErrStale
	}

	if err != nil {
		p.days = nil
		p.errMsg = MsgForecastUnavailable
		p.state = Errored
		return nil
	}

	p.days = days
	p.errMsg = ""
	p.state = Loaded
	return nil
}

// Expand opens the modal on the day at index
func (p *FiveDayPage) Expand(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.days) {
		return ErrNoSuchDay
	}

	day := p.days[index]
	p.modal = &day
	return nil
}

// Close closes the modal
func (p *FiveDayPage) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.modal = nil
}

// View renders the page state
func (p *FiveDayPage) View() ForecastView {
	p.mu.Lock()
	defer p.mu.Unlock()

	view := ForecastView{
		State: p.state,
		City:  p.city,
		Days:  make([]DayCard, 0, len(p.days)),
		Error: p.errMsg,
	}

	for i, day := range p.days {
		card := DayCard{
			DailyForecast: day,
			Label:         day.Date,
			IconURL:       models.IconURL(day.Icon),
		}
		if i == 0 {
			card.Label = TodayLabel
			card.Highlight = true
		}
		view.Days = append(view.Days, card)
	}

	if p.modal != nil {
		view.Modal = &DayDetail{
			DailyForecast: *p.modal,
			IconURL:       models.IconURL(p.modal.Icon),
			Suggestions:   weather.Suggestions(*p.modal),
		}
	}

	return view
}
