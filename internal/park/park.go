// Package park supplies the park-factor multiplier applied to offensive
// model outputs, optionally adjusted for game-time weather.
package park

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// Factors captures a venue's effect on offensive output.
type Factors struct {
	Runs     float64 `json:"runs_multiplier"`
	HomeRuns float64 `json:"hr_multiplier"`
}

// Curated single-season park factors. Venues not listed are neutral.
var venueFactors = map[string]Factors{
	"Coors Field":                 {Runs: 1.12, HomeRuns: 1.15},
	"Yankee Stadium":              {Runs: 1.05, HomeRuns: 1.10},
	"Great American Ball Park":    {Runs: 1.04, HomeRuns: 1.16},
	"Fenway Park":                 {Runs: 1.06, HomeRuns: 0.97},
	"Citizens Bank Park":          {Runs: 1.03, HomeRuns: 1.09},
	"Globe Life Field":            {Runs: 1.01, HomeRuns: 1.02},
	"Wrigley Field":               {Runs: 1.00, HomeRuns: 1.01},
	"Oracle Park":                 {Runs: 0.94, HomeRuns: 0.87},
	"Petco Park":                  {Runs: 0.96, HomeRuns: 0.95},
	"T-Mobile Park":               {Runs: 0.93, HomeRuns: 0.96},
	"loanDepot park":              {Runs: 0.95, HomeRuns: 0.92},
	"Oakland Coliseum":            {Runs: 0.94, HomeRuns: 0.90},
	"Tropicana Field":             {Runs: 0.96, HomeRuns: 0.98},
	"Kauffman Stadium":            {Runs: 1.02, HomeRuns: 0.91},
	"Comerica Park":               {Runs: 0.98, HomeRuns: 0.93},
	"Dodger Stadium":              {Runs: 0.99, HomeRuns: 1.07},
	"Citi Field":                  {Runs: 0.97, HomeRuns: 1.00},
	"Busch Stadium":               {Runs: 0.97, HomeRuns: 0.92},
	"Minute Maid Park":            {Runs: 1.00, HomeRuns: 1.05},
	"American Family Field":       {Runs: 1.01, HomeRuns: 1.08},
	"Guaranteed Rate Field":       {Runs: 1.02, HomeRuns: 1.10},
	"Progressive Field":           {Runs: 0.98, HomeRuns: 0.96},
	"Angel Stadium":               {Runs: 0.99, HomeRuns: 1.03},
	"Chase Field":                 {Runs: 1.03, HomeRuns: 1.01},
	"Truist Park":                 {Runs: 1.01, HomeRuns: 1.04},
	"PNC Park":                    {Runs: 0.96, HomeRuns: 0.89},
	"Nationals Park":              {Runs: 1.00, HomeRuns: 1.02},
	"Oriole Park at Camden Yards": {Runs: 0.99, HomeRuns: 1.01},
	"Rogers Centre":               {Runs: 1.00, HomeRuns: 1.03},
	"Target Field":                {Runs: 0.99, HomeRuns: 0.99},
}

// Lookup returns the factors for a venue, neutral when unknown or empty.
func Lookup(venue string) Factors {
	if f, ok := venueFactors[venue]; ok {
		return f
	}
	return Factors{Runs: 1.0, HomeRuns: 1.0}
}

// Conditions is the subset of a weather report the adjustment uses.
type Conditions struct {
	TempC     float64
	WindSpeed float64
}

// WeatherClient fetches current conditions from OpenWeather. It is optional:
// every failure path degrades to the bare park factor.
type WeatherClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
}

// NewWeatherClient creates a new WeatherClient. An empty apiKey disables
// fetching entirely.
func NewWeatherClient(baseURL, apiKey string, logger *logrus.Logger) *WeatherClient {
	return &WeatherClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

type openWeatherResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Conditions fetches current weather for a city.
func (c *WeatherClient) Conditions(ctx context.Context, city string) (*Conditions, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("weather fetching disabled: no API key")
	}
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather request returned status %d", resp.StatusCode)
	}

	var body openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}
	return &Conditions{TempC: body.Main.Temp, WindSpeed: math.Abs(body.Wind.Speed)}, nil
}

// CombinedFactor folds weather into a venue's run multiplier. Warm air and
// wind both push offense up; 15C is the neutral temperature.
func CombinedFactor(venue string, cond *Conditions) float64 {
	factor := Lookup(venue).Runs
	if cond == nil {
		return factor
	}
	tempFactor := 1.0 + math.Max(0, cond.TempC-15.0)*0.005
	windFactor := 1.0 + cond.WindSpeed*0.01
	return factor * tempFactor * windFactor
}
