package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quickepk/quickepk/internal/models"
	"github.com/quickepk/quickepk/internal/services"

	apperrors "github.com/quickepk/quickepk/internal/errors"
)

// fakeKitRepo is an in-memory PressKitRepository.
type fakeKitRepo struct {
	kits map[string]*models.PressKit
}

func newFakeKitRepo(kits ...*models.PressKit) *fakeKitRepo {
	f := &fakeKitRepo{kits: make(map[string]*models.PressKit)}
	for _, k := range kits {
		f.kits[k.ID] = k
	}
	return f
}

func (f *fakeKitRepo) CreatePressKit(kit *models.PressKit) error {
	f.kits[kit.ID] = kit
	return nil
}

func (f *fakeKitRepo) GetPressKitByID(id string) (*models.PressKit, error) {
	kit, ok := f.kits[id]
	if !ok {
		return nil, apperrors.ErrPressKitNotFound
	}
	return kit, nil
}

func (f *fakeKitRepo) GetPressKitBySlug(slug string) (*models.PressKit, error) {
	for _, k := range f.kits {
		if k.Slug == slug {
			return k, nil
		}
	}
	return nil, apperrors.ErrPressKitNotFound
}

func (f *fakeKitRepo) UpdateLastNotificationAt(id string, at time.Time) error {
	kit, ok := f.kits[id]
	if !ok {
		return apperrors.ErrPressKitNotFound
	}
	kit.LastNotificationAt = &at
	return nil
}

// fakeViewRepo is an in-memory ViewRepository whose writes can be failed.
type fakeViewRepo struct {
	views     map[string]*models.ViewEvent
	createErr error
}

func newFakeViewRepo() *fakeViewRepo {
	return &fakeViewRepo{views: make(map[string]*models.ViewEvent)}
}

func (f *fakeViewRepo) CreateView(view *models.ViewEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.views[view.ID] = view
	return nil
}

func (f *fakeViewRepo) GetViewByID(id string) (*models.ViewEvent, error) {
	view, ok := f.views[id]
	if !ok {
		return nil, apperrors.ErrViewNotFound
	}
	return view, nil
}

func (f *fakeViewRepo) UpdateTimeOnPage(id string, seconds int) error {
	view, ok := f.views[id]
	if !ok {
		return apperrors.ErrViewNotFound
	}
	view.TimeOnPage = &seconds
	return nil
}

func (f *fakeViewRepo) AppendSectionViewed(id string, section string) error {
	view, ok := f.views[id]
	if !ok {
		return apperrors.ErrViewNotFound
	}
	for _, s := range view.SectionsViewed {
		if s == section {
			return nil
		}
	}
	view.SectionsViewed = append(view.SectionsViewed, section)
	return nil
}

func (f *fakeViewRepo) ListViewsByPressKit(pressKitID string) ([]models.ViewEvent, error) {
	var out []models.ViewEvent
	for _, v := range f.views {
		if v.PressKitID == pressKitID {
			out = append(out, *v)
		}
	}
	return out, nil
}

// fakeClickRepo is an in-memory ClickRepository.
type fakeClickRepo struct {
	clicks []models.ClickEvent
}

func (f *fakeClickRepo) CreateClick(click *models.ClickEvent) error {
	f.clicks = append(f.clicks, *click)
	return nil
}

func (f *fakeClickRepo) ListClicksByPressKit(pressKitID string) ([]models.ClickEvent, error) {
	var out []models.ClickEvent
	for _, c := range f.clicks {
		if c.PressKitID == pressKitID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClickRepo) DistinctElementURLs() ([]string, error) { return nil, nil }

// newTestRouter builds the full route table over in-memory fakes. No
// geolocation and no notification channel: both are optional in the service.
func newTestRouter(kits *fakeKitRepo, views *fakeViewRepo, clicks *fakeClickRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	tracking := services.NewTrackingService(views, clicks, nil, nil)
	analytics := services.NewAnalyticsService(kits, views, clicks)
	pressKits := services.NewPressKitService(kits)

	router := gin.New()
	SetupRoutes(router, tracking, analytics, pressKits)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRecordViewEndpoint(t *testing.T) {
	views := newFakeViewRepo()
	router := newTestRouter(newFakeKitRepo(), views, &fakeClickRepo{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/track/view",
		`{"press_kit_id":"kit-1","referrer":"https://bandsintown.com/x"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var resp struct {
		ViewID   string `json:"view_id"`
		ViewedAt string `json:"viewed_at"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ViewID == "" {
		t.Error("response carries no view_id for the client to thread through")
	}
	if _, err := views.GetViewByID(resp.ViewID); err != nil {
		t.Errorf("returned view_id %q resolves to no stored view: %v", resp.ViewID, err)
	}
}

func TestRecordViewEndpointValidation(t *testing.T) {
	router := newTestRouter(newFakeKitRepo(), newFakeViewRepo(), &fakeClickRepo{})

	tests := []struct {
		name string
		body string
	}{
		{name: "missing press_kit_id", body: `{"referrer":"https://x.example"}`},
		{name: "malformed JSON", body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/v1/track/view", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestRecordViewEndpointStoreFailure(t *testing.T) {
	views := newFakeViewRepo()
	views.createErr = errors.New("disk full")
	router := newTestRouter(newFakeKitRepo(), views, &fakeClickRepo{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/track/view", `{"press_kit_id":"kit-1"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 on a store write failure", w.Code)
	}
}

func TestRecordClickEndpointInvalidElementType(t *testing.T) {
	clicks := &fakeClickRepo{}
	router := newTestRouter(newFakeKitRepo(), newFakeViewRepo(), clicks)

	w := doJSON(t, router, http.MethodPost, "/api/v1/track/click",
		`{"press_kit_id":"kit-1","element_type":"banner","element_url":"https://x.example"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for an unknown element type", w.Code)
	}
	if len(clicks.clicks) != 0 {
		t.Errorf("rejected click was written anyway: %+v", clicks.clicks)
	}
}

func TestRecordDurationEndpointUnknownView(t *testing.T) {
	router := newTestRouter(newFakeKitRepo(), newFakeViewRepo(), &fakeClickRepo{})

	w := doJSON(t, router, http.MethodPut, "/api/v1/track/view",
		`{"view_id":"no-such-view","time_on_page":42}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for an unknown view", w.Code)
	}
}

func TestRecordDurationEndpointNegative(t *testing.T) {
	router := newTestRouter(newFakeKitRepo(), newFakeViewRepo(), &fakeClickRepo{})

	w := doJSON(t, router, http.MethodPut, "/api/v1/track/view",
		`{"view_id":"view-1","time_on_page":-5}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for a negative duration", w.Code)
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	kit := &models.PressKit{ID: "kit-1", AccountID: "acct-1", Slug: "the-midnight-sons", ArtistName: "The Midnight Sons"}
	kits := newFakeKitRepo(kit)
	views := newFakeViewRepo()
	views.views["v1"] = &models.ViewEvent{ID: "v1", PressKitID: "kit-1", ViewerHash: "a", ViewedAt: time.Now()}
	router := newTestRouter(kits, views, &fakeClickRepo{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/presskits/kit-1/analytics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var overview struct {
		TotalViews  int `json:"total_views"`
		ViewsByDate []struct {
			Date  string `json:"date"`
			Count int    `json:"count"`
		} `json:"views_by_date"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &overview); err != nil {
		t.Fatalf("decoding overview: %v", err)
	}
	if overview.TotalViews != 1 {
		t.Errorf("total_views = %d, want 1", overview.TotalViews)
	}
	if len(overview.ViewsByDate) != 30 {
		t.Errorf("views_by_date has %d entries, want 30", len(overview.ViewsByDate))
	}
}

func TestAnalyticsEndpointUnknownKit(t *testing.T) {
	router := newTestRouter(newFakeKitRepo(), newFakeViewRepo(), &fakeClickRepo{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/presskits/no-such-kit/analytics", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for an unknown press kit", w.Code)
	}
}

func TestCreatePressKitEndpointConflict(t *testing.T) {
	router := newTestRouter(newFakeKitRepo(), newFakeViewRepo(), &fakeClickRepo{})

	first := doJSON(t, router, http.MethodPost, "/api/v1/presskits",
		`{"account_id":"acct-1","artist_name":"The Midnight Sons"}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("first create status = %d, want 201 (body %s)", first.Code, first.Body.String())
	}

	second := doJSON(t, router, http.MethodPost, "/api/v1/presskits",
		`{"account_id":"acct-2","artist_name":"The Midnight Sons"}`)
	if second.Code != http.StatusConflict {
		t.Errorf("second create status = %d, want 409 for a slug collision", second.Code)
	}
}
