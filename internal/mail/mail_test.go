package mail

import (
	"context"
	"strings"
	"testing"
	"time"
)

func sampleNotification() ViewNotification {
	return ViewNotification{
		ArtistName:     "The Midnight Sons",
		KitURL:         "https://quickepk.example/the-midnight-sons",
		DashboardURL:   "https://quickepk.example/dashboard",
		ViewerLocation: "Berlin, Germany",
		Source:         "Found you via bandsintown.com",
		ViewedAt:       time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC),
	}
}

func TestFormatBodyContainsFields(t *testing.T) {
	body := FormatBody(sampleNotification())

	for _, want := range []string{
		"The Midnight Sons",
		"Berlin, Germany",
		"Found you via bandsintown.com",
		"https://quickepk.example/the-midnight-sons",
		"https://quickepk.example/dashboard",
		"Aug 28",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestFormatBodyEscapesUntrustedFields(t *testing.T) {
	n := sampleNotification()
	n.ArtistName = `<script>alert("x")</script>`
	n.Source = "Found you via <evil>"

	body := FormatBody(n)

	if strings.Contains(body, "<script>") || strings.Contains(body, "<evil>") {
		t.Error("body contains unescaped untrusted markup")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("artist name not HTML-escaped")
	}
}

type recordingTransport struct {
	to      string
	subject string
	body    string
}

func (r *recordingTransport) Send(_ context.Context, to, subject, htmlBody string) error {
	r.to, r.subject, r.body = to, subject, htmlBody
	return nil
}

func TestSendViewNotificationSubject(t *testing.T) {
	transport := &recordingTransport{}
	sender := NewSender(transport, "QuickEPK <notifications@quickepk.local>")

	if err := sender.SendViewNotification(context.Background(), "owner@example.com", sampleNotification()); err != nil {
		t.Fatalf("SendViewNotification() error = %v", err)
	}

	if transport.to != "owner@example.com" {
		t.Errorf("sent to %q, want owner@example.com", transport.to)
	}
	want := "Someone just viewed your EPK - The Midnight Sons"
	if transport.subject != want {
		t.Errorf("subject = %q, want %q", transport.subject, want)
	}
	if transport.body == "" {
		t.Error("empty body")
	}
}
