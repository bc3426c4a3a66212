package monitor

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/quickepk/quickepk/internal/repository"
)

// LinkMonitor periodically health-checks the outbound URLs that press-kit
// visitors have clicked (music, video, social, contact links). A streaming
// link that died is lost bookings; state changes are logged so an operator
// can tell the artist.
type LinkMonitor struct {
	clickRepo   repository.ClickRepository // Source of distinct clicked URLs
	interval    time.Duration              // How often to re-check
	knownStates map[string]bool            // Previous state per URL (reachable or not)
	mu          sync.Mutex                 // Protects knownStates
	httpClient  *http.Client
}

// NewLinkMonitor creates and returns a new LinkMonitor.
// The interval parameter determines how frequently links are checked.
func NewLinkMonitor(clickRepo repository.ClickRepository, interval time.Duration) *LinkMonitor {
	return &LinkMonitor{
		clickRepo:   clickRepo,
		interval:    interval,
		knownStates: make(map[string]bool),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Start launches the periodic link monitoring loop.
// This is a blocking function that runs until the program stops.
func (m *LinkMonitor) Start() {
	log.Printf("[MONITOR] Starting link monitor with interval of %v...", m.interval)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Immediate check on startup before the first tick
	m.checkLinks()

	for range ticker.C {
		m.checkLinks()
	}
}

// checkLinks performs a status check on every distinct clicked URL and logs
// transitions between reachable and unreachable.
func (m *LinkMonitor) checkLinks() {
	log.Println("[MONITOR] Starting outbound link verification...")

	urls, err := m.clickRepo.DistinctElementURLs()
	if err != nil {
		log.Printf("[MONITOR] ERROR retrieving clicked URLs for monitoring: %v", err)
		return
	}

	for _, url := range urls {
		currentState := m.isReachable(url)

		m.mu.Lock()
		previousState, exists := m.knownStates[url]
		m.knownStates[url] = currentState
		m.mu.Unlock()

		if !exists {
			log.Printf("[MONITOR] Initial state for %s: %s", url, formatState(currentState))
			continue
		}

		if currentState != previousState {
			log.Printf("[MONITOR] Link %s changed from %s to %s!",
				url, formatState(previousState), formatState(currentState))
		}
	}
	log.Println("[MONITOR] Outbound link verification completed.")
}

// isReachable performs an HTTP HEAD request to check if a URL responds.
// 2xx and 3xx count as reachable; anything else, including transport
// failures, does not.
func (m *LinkMonitor) isReachable(url string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		log.Printf("[MONITOR] Error creating request for URL '%s': %v", url, err)
		return false
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		log.Printf("[MONITOR] Error accessing URL '%s': %v", url, err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

// formatState converts the boolean reachability state to a readable string.
func formatState(reachable bool) string {
	if reachable {
		return "REACHABLE"
	}
	return "UNREACHABLE"
}
