package services

import (
	"net/url"
	"time"

	"github.com/quickepk/quickepk/internal/models"
	"github.com/quickepk/quickepk/internal/repository"
)

// Window and limit constants for the owner-facing analytics overview.
const (
	// seriesDays is the length of the daily view time series, ending at
	// the reference "now" inclusive.
	seriesDays = 30

	// topReferrerLimit caps the ranked referrer list.
	topReferrerLimit = 5

	// recentViewLimit caps the recent-views table.
	recentViewLimit = 10

	// directReferrer labels views with no referrer, or one that does not
	// parse as a URL. Both cases group together deliberately.
	directReferrer = "Direct"
)

// DailyCount is one entry of the daily view time series.
type DailyCount struct {
	Date  string `json:"date"` // calendar day, YYYY-MM-DD
	Count int    `json:"count"`
}

// TypeCount is one entry of the click distribution.
type TypeCount struct {
	Type  models.ElementType `json:"type"`
	Count int                `json:"count"`
}

// ReferrerCount is one entry of the ranked referrer list.
type ReferrerCount struct {
	Referrer string `json:"referrer"`
	Count    int    `json:"count"`
}

// Overview is the full analytics summary shown on the owner's dashboard.
type Overview struct {
	TotalViews    int                `json:"total_views"`
	UniqueViews   int                `json:"unique_views"`
	TotalClicks   int                `json:"total_clicks"`
	AvgTimeOnPage int                `json:"avg_time_on_page"` // seconds, 0 when no durations exist
	ViewsByDate   []DailyCount       `json:"views_by_date"`
	ClicksByType  []TypeCount        `json:"clicks_by_type"`
	TopReferrers  []ReferrerCount    `json:"top_referrers"`
	RecentViews   []models.ViewEvent `json:"recent_views"`
}

// AnalyticsService computes derived statistics from the stored event history
// of one press kit. All the heavy lifting is in pure package-level functions
// so they can be tested without a database.
type AnalyticsService struct {
	pressKits repository.PressKitRepository
	views     repository.ViewRepository
	clicks    repository.ClickRepository
}

// NewAnalyticsService creates and returns a new AnalyticsService.
func NewAnalyticsService(
	pressKits repository.PressKitRepository,
	views repository.ViewRepository,
	clicks repository.ClickRepository,
) *AnalyticsService {
	return &AnalyticsService{
		pressKits: pressKits,
		views:     views,
		clicks:    clicks,
	}
}

// OverviewForPressKit loads the full event history of one press kit and
// reduces it to the dashboard overview. Read-only; a concurrent duration
// patch may land between the read and the render, which is acceptable.
func (s *AnalyticsService) OverviewForPressKit(pressKitID string, now time.Time) (*Overview, error) {
	if _, err := s.pressKits.GetPressKitByID(pressKitID); err != nil {
		return nil, err
	}

	views, err := s.views.ListViewsByPressKit(pressKitID)
	if err != nil {
		return nil, err
	}
	clicks, err := s.clicks.ListClicksByPressKit(pressKitID)
	if err != nil {
		return nil, err
	}

	return BuildOverview(views, clicks, now), nil
}

// BuildOverview reduces one press kit's event history to the dashboard
// overview. Pure: same history and "now" always produce the same result, and
// the input slices are never mutated. Views are expected most recent first,
// as ListViewsByPressKit returns them.
func BuildOverview(views []models.ViewEvent, clicks []models.ClickEvent, now time.Time) *Overview {
	return &Overview{
		TotalViews:    len(views),
		UniqueViews:   UniqueViews(views),
		TotalClicks:   len(clicks),
		AvgTimeOnPage: AverageTimeOnPage(views),
		ViewsByDate:   DailyViewSeries(views, now),
		ClicksByType:  ClicksByType(clicks),
		TopReferrers:  TopReferrers(views),
		RecentViews:   RecentViews(views),
	}
}

// UniqueViews counts distinct viewer hashes. Approximate by design: the hash
// is lossy, so two visitors can fold to the same token.
func UniqueViews(views []models.ViewEvent) int {
	seen := make(map[string]struct{}, len(views))
	for _, v := range views {
		seen[v.ViewerHash] = struct{}{}
	}
	return len(seen)
}

// AverageTimeOnPage returns the mean of all recorded durations in whole
// seconds, or 0 when no view carries a duration yet.
func AverageTimeOnPage(views []models.ViewEvent) int {
	sum, n := 0, 0
	for _, v := range views {
		if v.TimeOnPage != nil {
			sum += *v.TimeOnPage
			n++
		}
	}
	if n == 0 {
		return 0
	}
	// Round to nearest second, matching the dashboard display.
	return (sum + n/2) / n
}

// DailyViewSeries counts views per calendar day for the 30 days ending at
// "now" inclusive. Always exactly 30 entries, chronologically ascending,
// zero-filled for days without views. Days are taken in now's location.
func DailyViewSeries(views []models.ViewEvent, now time.Time) []DailyCount {
	perDay := make(map[string]int)
	for _, v := range views {
		day := v.ViewedAt.In(now.Location()).Format("2006-01-02")
		perDay[day]++
	}

	series := make([]DailyCount, 0, seriesDays)
	for i := seriesDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		series = append(series, DailyCount{Date: day, Count: perDay[day]})
	}
	return series
}

// ClicksByType groups clicks by element category. Categories with zero
// clicks are omitted rather than zero-filled; entries appear in the fixed
// category order so the result is deterministic.
func ClicksByType(clicks []models.ClickEvent) []TypeCount {
	perType := make(map[models.ElementType]int)
	for _, c := range clicks {
		perType[c.ElementType]++
	}

	order := []models.ElementType{
		models.ElementMusic,
		models.ElementVideo,
		models.ElementSocial,
		models.ElementContact,
	}

	var out []TypeCount
	for _, t := range order {
		if n := perType[t]; n > 0 {
			out = append(out, TypeCount{Type: t, Count: n})
		}
	}
	return out
}

// TopReferrers groups views by referrer hostname and returns up to five
// groups, ordered by count descending. Views without a referrer, or with one
// that does not parse as a URL, group under "Direct". Ties keep the order in
// which the groups were first encountered, so the result is deterministic
// for a fixed input.
func TopReferrers(views []models.ViewEvent) []ReferrerCount {
	counts := make(map[string]int)
	var order []string // first-encountered order for stable ties

	for _, v := range views {
		host := ReferrerHost(v.Referrer)
		if _, ok := counts[host]; !ok {
			order = append(order, host)
		}
		counts[host]++
	}

	// Insertion sort on count, stable over first-encountered order.
	// The group list is tiny (bounded by distinct hostnames).
	ranked := make([]ReferrerCount, 0, len(order))
	for _, host := range order {
		rc := ReferrerCount{Referrer: host, Count: counts[host]}
		pos := len(ranked)
		for pos > 0 && ranked[pos-1].Count < rc.Count {
			pos--
		}
		ranked = append(ranked, ReferrerCount{})
		copy(ranked[pos+1:], ranked[pos:])
		ranked[pos] = rc
	}

	if len(ranked) > topReferrerLimit {
		ranked = ranked[:topReferrerLimit]
	}
	return ranked
}

// ReferrerHost extracts the hostname from a referrer URL. Absent and
// unparseable referrers both map to "Direct" - the source of a visit we
// cannot attribute is direct as far as the owner is concerned.
func ReferrerHost(referrer *string) string {
	if referrer == nil || *referrer == "" {
		return directReferrer
	}
	u, err := url.Parse(*referrer)
	if err != nil || u.Hostname() == "" {
		return directReferrer
	}
	return u.Hostname()
}

// RecentViews returns the 10 most recent views, descending by creation time.
// The input is already ordered most recent first; this only truncates and
// copies so callers can't alias the repository's slice.
func RecentViews(views []models.ViewEvent) []models.ViewEvent {
	n := len(views)
	if n > recentViewLimit {
		n = recentViewLimit
	}
	recent := make([]models.ViewEvent, n)
	copy(recent, views[:n])
	return recent
}
