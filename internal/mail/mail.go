// Package mail composes the view-notification email. Only composition lives
// here; actual delivery goes through the Transport interface so the provider
// mechanics stay outside this service.
package mail

import (
	"context"
	"fmt"
	"html"
	"log"
	"time"
)

// ViewNotification is the structured payload of one view-notification email.
type ViewNotification struct {
	ArtistName     string    // Display name of the artist whose kit was viewed
	KitURL         string    // Public press-kit URL derived from the slug
	DashboardURL   string    // Owner's analytics dashboard
	ViewerLocation string    // "City, Country" or "Unknown location"
	Source         string    // "Found you via <host>" or "Direct visit"
	ViewedAt       time.Time // When the view was recorded
}

// Transport delivers a composed email. Implementations wrap whatever provider
// the deployment uses; LogTransport ships for development and tests.
type Transport interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Sender composes view-notification emails and hands them to a Transport.
type Sender struct {
	transport Transport
	from      string
}

// NewSender creates a new email sender.
func NewSender(transport Transport, from string) *Sender {
	return &Sender{transport: transport, from: from}
}

// SendViewNotification composes and dispatches one view notification.
func (s *Sender) SendViewNotification(ctx context.Context, to string, n ViewNotification) error {
	subject := fmt.Sprintf("Someone just viewed your EPK - %s", n.ArtistName)
	return s.transport.Send(ctx, to, subject, FormatBody(n))
}

// FormatBody renders the HTML body of a view notification. Field values are
// escaped; referrer hostnames and locations come from untrusted requests.
func FormatBody(n ViewNotification) string {
	when := n.ViewedAt.Format("Mon, Jan 2 3:04 PM MST")

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body>
  <h1>Someone viewed your EPK!</h1>
  <p>Great news! A potential booker just checked out <strong>%s</strong>.</p>
  <table>
    <tr><td>When</td><td>%s</td></tr>
    <tr><td>Location</td><td>%s</td></tr>
    <tr><td>Source</td><td>%s</td></tr>
  </table>
  <p><a href="%s">View Full Analytics</a></p>
  <p><a href="%s">View your EPK</a></p>
  <p>You're receiving this because you have view notifications enabled.</p>
</body>
</html>`,
		html.EscapeString(n.ArtistName),
		html.EscapeString(when),
		html.EscapeString(n.ViewerLocation),
		html.EscapeString(n.Source),
		n.DashboardURL,
		n.KitURL,
	)
}

// LogTransport logs emails instead of sending them. Used in development and
// whenever no real transport is configured.
type LogTransport struct{}

// Send logs the composed email and reports success.
func (LogTransport) Send(_ context.Context, to, subject, _ string) error {
	log.Printf("[MAIL] mock send to=%s subject=%q", to, subject)
	return nil
}
