package store

import (
	"testing"

	"skywings-cli/model"
	"skywings-cli/session"
)

func setTestConfigDir(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("XDG_CACHE_HOME", root)
}

func TestRememberSearch_DedupesAndOrders(t *testing.T) {
	setTestConfigDir(t)

	if err := RememberSearch(RecentSearch{Origin: "jfk", Destination: "lax", Date: "2025-11-15"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := RememberSearch(RecentSearch{Origin: "SFO", Destination: "SEA", Date: "2025-11-20"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := RememberSearch(RecentSearch{Origin: "JFK", Destination: "LAX", Date: "2025-11-15"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	searches, err := LoadRecentSearches()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(searches) != 2 {
		t.Fatalf("expected 2 searches, got %+v", searches)
	}
	if searches[0].Origin != "JFK" || searches[1].Origin != "SFO" {
		t.Fatalf("unexpected order: %+v", searches)
	}

	if err := ForgetSearch(searches[1]); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	searches, _ = LoadRecentSearches()
	if len(searches) != 1 {
		t.Fatalf("expected 1 search after forget, got %+v", searches)
	}
}

func TestRememberSearch_CapsHistory(t *testing.T) {
	setTestConfigDir(t)

	for _, date := range []string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10"} {
		if err := RememberSearch(RecentSearch{Origin: "JFK", Destination: "LAX", Date: "2025-11-" + date}); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}
	searches, _ := LoadRecentSearches()
	if len(searches) != maxRecentSearches {
		t.Fatalf("expected %d searches, got %d", maxRecentSearches, len(searches))
	}
	if searches[0].Date != "2025-11-10" {
		t.Fatalf("expected newest first, got %s", searches[0].Date)
	}
}

func TestRememberSearch_InvalidInput(t *testing.T) {
	setTestConfigDir(t)

	if err := RememberSearch(RecentSearch{Destination: "LAX"}); err == nil {
		t.Fatal("expected error for empty origin")
	}
}

func TestAirportCache_RoundTrip(t *testing.T) {
	setTestConfigDir(t)

	cached, fresh, err := LoadAirportCache()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if fresh || len(cached) != 0 {
		t.Fatalf("expected empty stale cache, got %+v fresh=%v", cached, fresh)
	}

	if err := SaveAirportCache([]model.Airport{{Id: 1, Code: "JFK", City: "New York"}}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	cached, fresh, err = LoadAirportCache()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !fresh || len(cached) != 1 || cached[0].Code != "JFK" {
		t.Fatalf("unexpected cache: %+v fresh=%v", cached, fresh)
	}
}

func TestSessionFile_LoginLogout(t *testing.T) {
	setTestConfigDir(t)

	s, err := OpenSession()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if session.IsAuthenticated(s) {
		t.Fatal("expected no session before login")
	}

	if err := s.Save("abc", model.User{Id: 1, Email: "john@example.com", FirstName: "John"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	reopened, _ := OpenSession()
	if !session.IsAuthenticated(reopened) {
		t.Fatal("expected token to persist across instances")
	}
	user, ok := reopened.User()
	if !ok || user.FirstName != "John" {
		t.Fatalf("unexpected user: %+v", user)
	}

	user.FirstName = "Johnny"
	if err := reopened.UpdateUser(user); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if reopened.Token() != "abc" {
		t.Fatalf("expected token to survive profile update, got %q", reopened.Token())
	}

	if err := reopened.Clear(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if session.IsAuthenticated(s) {
		t.Fatal("expected logout to clear the token")
	}
	if _, ok := s.User(); ok {
		t.Fatal("expected logout to clear the user")
	}
}

func TestSessionFile_UpdateUserWithoutSession(t *testing.T) {
	setTestConfigDir(t)

	s, _ := OpenSession()
	if err := s.UpdateUser(model.User{Id: 1}); err == nil {
		t.Fatal("expected error without an active session")
	}
}
