package monitor

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/quickepk/quickepk/internal/models"
)

// fakeClickRepo serves a fixed URL list to the monitor.
type fakeClickRepo struct {
	mu   sync.Mutex
	urls []string
}

func (f *fakeClickRepo) CreateClick(*models.ClickEvent) error { return nil }

func (f *fakeClickRepo) ListClicksByPressKit(string) ([]models.ClickEvent, error) {
	return nil, nil
}

func (f *fakeClickRepo) DistinctElementURLs() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.urls, nil
}

func TestIsReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/moved":
			w.WriteHeader(http.StatusMovedPermanently)
		case "/gone":
			w.WriteHeader(http.StatusGone)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	m := NewLinkMonitor(&fakeClickRepo{}, time.Minute)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "2xx is reachable", path: "/ok", want: true},
		{name: "3xx is reachable", path: "/moved", want: true},
		{name: "4xx is unreachable", path: "/gone", want: false},
		{name: "5xx is unreachable", path: "/broken", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.isReachable(server.URL + tt.path); got != tt.want {
				t.Errorf("isReachable(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestCheckLinksTracksStateChanges(t *testing.T) {
	healthy := true
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if healthy {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	repo := &fakeClickRepo{urls: []string{server.URL}}
	m := NewLinkMonitor(repo, time.Minute)

	m.checkLinks()
	if state := m.knownStates[server.URL]; !state {
		t.Fatalf("initial state = %v, want reachable", state)
	}

	mu.Lock()
	healthy = false
	mu.Unlock()

	m.checkLinks()
	if state := m.knownStates[server.URL]; state {
		t.Errorf("state after outage = %v, want unreachable", state)
	}
}
