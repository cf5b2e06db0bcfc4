package controller

import (
	"context"
	"errors"
	"strings"
	"sync"

	"weatherwise/clock"
	"weatherwise/datasource"
	"weatherwise/logger"
	"weatherwise/models"
	"weatherwise/weather"
)

// TodayPage shows current conditions for one city, resolved either from the
// device location or from a search.
type TodayPage struct {
	source datasource.CurrentSource
	clock  DateSource
	log    logger.Logger

	mu           sync.Mutex
	token        uint64
	state        State
	selectedCity string
	current      *models.CurrentWeather
	errMsg       string
}

// CurrentView is a current weather record with the fields derived for display
type CurrentView struct {
	models.CurrentWeather
	IconURL   string `json:"iconUrl"`
	LocalDate string `json:"localDate"`
}

// TodayView is everything the Today page renders
type TodayView struct {
	State        State        `json:"state"`
	SelectedCity string       `json:"selectedCity"`
	Weather      *CurrentView `json:"weather"`
	Error        string       `json:"error,omitempty"`
	DeviceDate   string       `json:"deviceDate"`
}

func NewTodayPage(source datasource.CurrentSource, dates DateSource, log logger.Logger) *TodayPage {
	return &TodayPage{
		source: source,
		clock:  dates,
		log:    log.WithField("component", "today_page"),
	}
}

// Mount asks locator for the device position and fetches the weather there.
// When the position is unavailable the page shows an instruction to search
// manually and no fetch is made.
func (p *TodayPage) Mount(ctx context.Context, locator Locator) error {
	token := p.begin("")

	pos, err := locator.Locate(ctx)
	if err != nil {
		msg := MsgLocationDenied
		if errors.Is(err, ErrLocationUnsupported) {
			msg = MsgLocationUnsupported
		}
		p.log.Warnf("Geolocation unavailable: %v", err)
		return p.fail(token, msg)
	}

	raw, err := p.source.CurrentByCoords(ctx, pos.Lat, pos.Lon)
	if err != nil {
		p.log.Warnf("Error fetching weather at %.4f,%.4f: %v", pos.Lat, pos.Lon, err)
		return p.fail(token, MsgWeatherUnavailable)
	}

	return p.succeed(token, raw)
}

// Search shows the weather for city. The label is updated straight away and
// replaced by the provider's "name, country" once the fetch succeeds.
func (p *TodayPage) Search(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		p.log.Warn("Search query is empty.")
		return ErrEmptyCity
	}

	token := p.begin(city)

	raw, err := p.source.CurrentByCity(ctx, city)
	if err != nil {
		p.log.Warnf("Error fetching weather for %q: %v", city, err)
		msg := MsgWeatherUnavailable
		if datasource.IsNotFound(err) {
			msg = MsgCityNotFound
		}
		return p.fail(token, msg)
	}

	return p.succeed(token, raw)
}

// begin claims a new request token. A non-empty label becomes the selected
// city immediately.
func (p *TodayPage) begin(label string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.token++
	if label != "" {
		p.selectedCity = label
	}
	return p.token
}

func (p *TodayPage) succeed(token uint64, raw models.CurrentConditions) error {
	current := weather.Current(raw)

	p.mu.Lock()
	defer p.mu.Unlock()

	if token != p.token {
		p.log.Debugf("Discarding weather for %s, a newer request is pending", current.City)
		return ErrStale
	}

	p.current = &current
	p.selectedCity = current.City
	p.errMsg = ""
	p.state = Loaded
	return nil
}

func (p *TodayPage) fail(token uint64, msg string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if token != p.token {
		return ErrStale
	}

	p.current = nil
	p.errMsg = msg
	p.state = Errored
	return nil
}

// View renders the page state
func (p *TodayPage) View() TodayView {
	p.mu.Lock()
	defer p.mu.Unlock()

	view := TodayView{
		State:        p.state,
		SelectedCity: p.selectedCity,
		Error:        p.errMsg,
		DeviceDate:   p.clock.Date(),
	}

	if p.current != nil {
		view.Weather = &CurrentView{
			CurrentWeather: *p.current,
			IconURL:        models.IconURL(p.current.Icon),
			LocalDate:      clock.CityDate(p.clock.Now(), p.current.TimezoneOffset),
		}
	}

	return view
}
