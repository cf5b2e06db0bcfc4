package controller

// AboutView is the static product page
type AboutView struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Developer    string   `json:"developer"`
	Technologies []string `json:"technologies"`
	Mission      string   `json:"mission"`
}

// AboutPage has no state
type AboutPage struct{}

func (AboutPage) View() AboutView {
	return AboutView{
		Title: "About WeatherWise",
		Description: "Welcome to WeatherWise, your trusted companion for weather updates. " +
			"Whether you're planning your day, organizing a trip, or simply curious about the forecast, " +
			"WeatherWise delivers accurate and up-to-date weather information tailored to your needs.",
		Developer: "Tirth Patel",
		Technologies: []string{
			"Go",
			"chi",
			"OpenWeatherMap API",
			"Geolocation API",
		},
		Mission: "At WeatherWise, our mission is to empower users with reliable and accessible weather " +
			"forecasts. We believe in providing data that helps you stay prepared, make informed decisions, " +
			"and live your life without weather surprises.",
	}
}
