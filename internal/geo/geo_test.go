package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLocate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/203.0.113.7":
			w.Write([]byte(`{"city":"Berlin","country":"Germany"}`))
		case "/198.51.100.9":
			// ip-api answers 200 with empty fields for unroutable addresses
			w.Write([]byte(`{"city":"","country":""}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)

	t.Run("resolves city and country", func(t *testing.T) {
		got, err := client.Locate(context.Background(), "203.0.113.7")
		if err != nil {
			t.Fatalf("Locate() error = %v", err)
		}
		if got != "Berlin, Germany" {
			t.Errorf("Locate() = %q, want %q", got, "Berlin, Germany")
		}
	})

	t.Run("incomplete response is an error", func(t *testing.T) {
		if _, err := client.Locate(context.Background(), "198.51.100.9"); err == nil {
			t.Error("Locate() = nil error for empty city/country")
		}
	})

	t.Run("server error is an error", func(t *testing.T) {
		if _, err := client.Locate(context.Background(), "192.0.2.1"); err == nil {
			t.Error("Locate() = nil error for upstream 500")
		}
	})
}

func TestLocateSkipsLocalAddresses(t *testing.T) {
	// No server: a request against these addresses must never leave the process.
	client := NewClient("http://127.0.0.1:0", time.Second)

	for _, addr := range []string{"", "unknown", "127.0.0.1", "::1"} {
		if _, err := client.Locate(context.Background(), addr); err == nil {
			t.Errorf("Locate(%q) = nil error, want skip", addr)
		}
	}
}
