package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"skywings-cli/model"
)

const (
	appDir            = "skywings-cli"
	referenceCacheTTL = 24 * time.Hour
	maxRecentSearches = 8
)

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

// RecentSearch is a remembered route/date, listed as a saved trip.
type RecentSearch struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Date        string    `json:"date"`
	Passengers  int       `json:"passengers,omitempty"`
	SavedAt     time.Time `json:"saved_at"`
}

type searchHistory struct {
	Searches []RecentSearch `json:"searches"`
}

func LoadAirportCache() ([]model.Airport, bool, error) {
	path, err := cachePath("airports.json")
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Airport](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= referenceCacheTTL, nil
}

func SaveAirportCache(airports []model.Airport) error {
	path, err := cachePath("airports.json")
	if err != nil {
		return err
	}
	return saveCache(path, airports)
}

func LoadAirlineCache() ([]model.Airline, bool, error) {
	path, err := cachePath("airlines.json")
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Airline](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= referenceCacheTTL, nil
}

func SaveAirlineCache(airlines []model.Airline) error {
	path, err := cachePath("airlines.json")
	if err != nil {
		return err
	}
	return saveCache(path, airlines)
}

func LoadRecentSearches() ([]RecentSearch, error) {
	path, err := configPath("searches.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history searchHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid search history format")
	}
	return history.Searches, nil
}

// RememberSearch puts a search at the head of the history, dropping any
// earlier entry for the same route and date.
func RememberSearch(search RecentSearch) error {
	search.Origin = strings.ToUpper(strings.TrimSpace(search.Origin))
	search.Destination = strings.ToUpper(strings.TrimSpace(search.Destination))
	search.Date = strings.TrimSpace(search.Date)
	if search.Origin == "" || search.Destination == "" {
		return errors.New("origin and destination are required")
	}
	if search.SavedAt.IsZero() {
		search.SavedAt = time.Now()
	}

	history, _ := LoadRecentSearches()
	next := []RecentSearch{search}
	for _, existing := range history {
		if sameRoute(existing, search) {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentSearches {
			break
		}
	}
	return saveRecentSearches(next)
}

// ForgetSearch removes a saved trip.
func ForgetSearch(search RecentSearch) error {
	history, err := LoadRecentSearches()
	if err != nil {
		return err
	}
	next := make([]RecentSearch, 0, len(history))
	for _, existing := range history {
		if sameRoute(existing, search) {
			continue
		}
		next = append(next, existing)
	}
	return saveRecentSearches(next)
}

func sameRoute(a, b RecentSearch) bool {
	return strings.EqualFold(a.Origin, b.Origin) &&
		strings.EqualFold(a.Destination, b.Destination) &&
		a.Date == b.Date
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T) error {
	cache := cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Data:      data,
	}
	return writeJSON(path, cache, 0o644)
}

func saveRecentSearches(searches []RecentSearch) error {
	path, err := configPath("searches.json")
	if err != nil {
		return err
	}
	return writeJSON(path, searchHistory{Searches: searches}, 0o644)
}

func writeJSON(path string, v any, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, perm)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

func cachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

// CachePath exposes the cache location for files owned by other packages,
// such as the log file.
func CachePath(name string) (string, error) {
	return cachePath(name)
}
