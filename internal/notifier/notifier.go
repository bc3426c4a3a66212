// Package notifier implements the view-notification gate: given a freshly
// recorded view, decide whether the kit owner gets an email. It consumes the
// ViewRecorded channel fed by the tracking service, so its failures live in a
// separate domain from the public tracking path - nothing here can fail or
// delay a viewer's request.
package notifier

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/quickepk/quickepk/internal/mail"
	"github.com/quickepk/quickepk/internal/models"
	"github.com/quickepk/quickepk/internal/repository"
)

// Cooldown is the minimum interval between two notification dispatches for
// the same press kit. Soft rate limit: two near-simultaneous views can both
// pass the check, which is tolerated.
const Cooldown = time.Hour

// Outcome says what the gate decided for one view. Only used for logging and
// tests; no caller branches on it.
type Outcome string

const (
	OutcomeSent          Outcome = "sent"
	OutcomeDisabled      Outcome = "disabled"
	OutcomeRateLimited   Outcome = "rate_limited"
	OutcomeNoRecipient   Outcome = "no_recipient"
	OutcomeSendFailed    Outcome = "send_failed"
	OutcomeKitUnresolved Outcome = "kit_unresolved"
)

// Notifier applies the notification gate to recorded views.
type Notifier struct {
	pressKits repository.PressKitRepository
	accounts  repository.AccountDirectory
	sender    *mail.Sender
	baseURL   string // public site base, for kit and dashboard links

	// now is swappable in tests; defaults to time.Now.
	now func() time.Time
}

// New creates a Notifier.
func New(
	pressKits repository.PressKitRepository,
	accounts repository.AccountDirectory,
	sender *mail.Sender,
	baseURL string,
) *Notifier {
	return &Notifier{
		pressKits: pressKits,
		accounts:  accounts,
		sender:    sender,
		baseURL:   baseURL,
		now:       time.Now,
	}
}

// Process runs the gate for one recorded view:
//
//  1. notifications disabled for the kit -> skip
//  2. inside the cooldown window -> skip (logged, not an error)
//  3. owner email unresolvable -> skip (operator log only)
//  4. compose and dispatch; stamp LastNotificationAt only on confirmed
//     dispatch, so a failed send can retry on a later view
func (n *Notifier) Process(ctx context.Context, event models.ViewRecorded) Outcome {
	kit, err := n.pressKits.GetPressKitByID(event.PressKitID)
	if err != nil {
		log.Printf("[NOTIFIER] cannot resolve press kit %s: %v", event.PressKitID, err)
		return OutcomeKitUnresolved
	}

	if !kit.NotifyOnView {
		return OutcomeDisabled
	}

	now := n.now()
	if kit.LastNotificationAt != nil && now.Sub(*kit.LastNotificationAt) < Cooldown {
		log.Printf("[NOTIFIER] rate limited for press kit %s (last sent %v ago)",
			kit.ID, now.Sub(*kit.LastNotificationAt).Round(time.Second))
		return OutcomeRateLimited
	}

	email, err := n.accounts.EmailForAccount(kit.AccountID)
	if err != nil {
		log.Printf("[NOTIFIER] cannot resolve owner email for press kit %s (account %s): %v",
			kit.ID, kit.AccountID, err)
		return OutcomeNoRecipient
	}

	notification := mail.ViewNotification{
		ArtistName:     kit.ArtistName,
		KitURL:         fmt.Sprintf("%s/%s", n.baseURL, kit.Slug),
		DashboardURL:   fmt.Sprintf("%s/dashboard", n.baseURL),
		ViewerLocation: locationText(event.ViewerLocation),
		Source:         sourceText(event.Referrer),
		ViewedAt:       event.ViewedAt,
	}

	if err := n.sender.SendViewNotification(ctx, email, notification); err != nil {
		// Leave LastNotificationAt untouched so a future view retries.
		log.Printf("[NOTIFIER] dispatch failed for press kit %s: %v", kit.ID, err)
		return OutcomeSendFailed
	}

	if err := n.pressKits.UpdateLastNotificationAt(kit.ID, now); err != nil {
		// The email went out; worst case the next view inside the window
		// sends a duplicate. Log and move on.
		log.Printf("[NOTIFIER] failed to stamp notification time for press kit %s: %v", kit.ID, err)
	}

	log.Printf("[NOTIFIER] view notification sent for press kit %s", kit.ID)
	return OutcomeSent
}

// locationText renders the best-effort viewer location for the email.
func locationText(location *string) string {
	if location == nil || *location == "" {
		return "Unknown location"
	}
	return *location
}

// sourceText renders the referrer for the email. Absent and unparseable
// referrers both read as a direct visit.
func sourceText(referrer *string) string {
	if referrer == nil || *referrer == "" {
		return "Direct visit"
	}
	u, err := url.Parse(*referrer)
	if err != nil || u.Hostname() == "" {
		return "Direct visit"
	}
	return fmt.Sprintf("Found you via %s", u.Hostname())
}
