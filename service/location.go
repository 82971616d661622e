package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"skywings-cli/logging"
	"skywings-cli/model"
)

const locationErrorSnippetN = 120

// UserLocation is the place an IP geolocation provider reports for the user.
type UserLocation struct {
	City    string
	Region  string
	Country string
	Source  string
}

type locationProvider struct {
	name     string
	endpoint string
	parse    func([]byte) (UserLocation, error)
}

var defaultLocationProviders = []locationProvider{
	{name: "ipapi", endpoint: "https://ipapi.co/json/", parse: parseIPAPI},
	{name: "ipinfo", endpoint: "https://ipinfo.io/json", parse: parseIPInfo},
}

// DetectCurrentLocation resolves the user's city by IP geolocation, trying
// each provider in turn.
func DetectCurrentLocation(ctx context.Context, httpClient *http.Client) (UserLocation, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	location, err := locate(ctx, httpClient, defaultLocationProviders)
	if err != nil {
		return UserLocation{}, err
	}
	logging.WithFields("component", "location").Debug("location detected", "source", location.Source, "city", location.City)
	return location, nil
}

// NearestAirport picks an airport in the detected city, falling back to the
// same country. The bool is false when nothing matches.
func NearestAirport(location UserLocation, airports []model.Airport) (model.Airport, bool) {
	city := strings.TrimSpace(location.City)
	country := strings.TrimSpace(location.Country)
	if city == "" && country == "" {
		return model.Airport{}, false
	}
	for _, airport := range airports {
		if city != "" && strings.EqualFold(strings.TrimSpace(airport.City), city) {
			return airport, true
		}
	}
	for _, airport := range airports {
		if city != "" && strings.Contains(strings.ToLower(airport.Name), strings.ToLower(city)) {
			return airport, true
		}
	}
	for _, airport := range airports {
		if country != "" && strings.EqualFold(strings.TrimSpace(airport.Country), country) {
			return airport, true
		}
	}
	return model.Airport{}, false
}

// SuggestOriginAirport detects the user's location and maps it to an airport
// code for the search form.
func (c *Client) SuggestOriginAirport(ctx context.Context, airports []model.Airport) (model.Airport, UserLocation, error) {
	location, err := DetectCurrentLocation(ctx, nil)
	if err != nil {
		return model.Airport{}, UserLocation{}, err
	}
	airport, ok := NearestAirport(location, airports)
	if !ok {
		return model.Airport{}, location, fmt.Errorf("no airport found near %s", location.City)
	}
	return airport, location, nil
}

func locate(ctx context.Context, httpClient *http.Client, providers []locationProvider) (UserLocation, error) {
	var failures []string
	for _, provider := range providers {
		location, err := locateWith(ctx, httpClient, provider)
		if err == nil {
			return location, nil
		}
		if IsCanceled(err) {
			return UserLocation{}, err
		}
		failures = append(failures, provider.name+": "+err.Error())
	}
	if len(failures) == 0 {
		return UserLocation{}, errors.New("no location providers configured")
	}
	return UserLocation{}, fmt.Errorf("all location providers failed (%s)", strings.Join(failures, " | "))
}

func locateWith(ctx context.Context, httpClient *http.Client, provider locationProvider) (UserLocation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.endpoint, nil)
	if err != nil {
		return UserLocation{}, fmt.Errorf("create location request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	res, err := httpClient.Do(req)
	if err != nil {
		return UserLocation{}, fmt.Errorf("location request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		if msg := compactSnippet(string(raw)); msg != "" {
			return UserLocation{}, fmt.Errorf("%s: %s", res.Status, msg)
		}
		return UserLocation{}, errors.New(res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if err != nil {
		return UserLocation{}, fmt.Errorf("read location response: %w", err)
	}
	location, err := provider.parse(body)
	if err != nil {
		return UserLocation{}, err
	}
	if strings.TrimSpace(location.City) == "" && strings.TrimSpace(location.Country) == "" {
		return UserLocation{}, errors.New("provider returned no city or country")
	}
	location.Source = provider.name
	return location, nil
}

func parseIPAPI(body []byte) (UserLocation, error) {
	var payload struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country_name"`
		Error   bool   `json:"error"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return UserLocation{}, fmt.Errorf("decode location response: %w", err)
	}
	if payload.Error {
		if payload.Reason == "" {
			payload.Reason = "unknown error"
		}
		return UserLocation{}, errors.New(payload.Reason)
	}
	return UserLocation{City: payload.City, Region: payload.Region, Country: payload.Country}, nil
}

func parseIPInfo(body []byte) (UserLocation, error) {
	var payload struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
		Bogon   bool   `json:"bogon"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return UserLocation{}, fmt.Errorf("decode location response: %w", err)
	}
	if payload.Bogon {
		return UserLocation{}, errors.New("bogon IP")
	}
	if payload.Error.Message != "" {
		return UserLocation{}, errors.New(payload.Error.Message)
	}
	return UserLocation{City: payload.City, Region: payload.Region, Country: payload.Country}, nil
}

// compactSnippet flattens a provider error body to one short line. HTML
// pages yield "".
func compactSnippet(raw string) string {
	text := strings.TrimSpace(raw)
	lower := strings.ToLower(text)
	if text == "" || strings.Contains(lower, "<html") || strings.Contains(lower, "<!doctype") {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > locationErrorSnippetN {
		text = text[:locationErrorSnippetN]
	}
	return text
}
