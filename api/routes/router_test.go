package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dcortinas/fablink-backend/internal/changerequests"
	"github.com/dcortinas/fablink-backend/internal/coverage"
	"github.com/dcortinas/fablink-backend/internal/kickoff"
	"github.com/dcortinas/fablink-backend/internal/messages"
	"github.com/dcortinas/fablink-backend/internal/offers"
	"github.com/dcortinas/fablink-backend/internal/providers"
	"github.com/dcortinas/fablink-backend/internal/quotes"
	"github.com/dcortinas/fablink-backend/internal/savedsearches"
	pkgauth "github.com/dcortinas/fablink-backend/pkg/auth"
	"github.com/dcortinas/fablink-backend/pkg/config"
	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	"github.com/dcortinas/fablink-backend/pkg/logger"
	"github.com/dcortinas/fablink-backend/pkg/pagination"
	"github.com/dcortinas/fablink-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubQuotesService struct{}

// Create implements [quotes.Service].
func (stubQuotesService) Create(ctx context.Context, input quotes.CreateInput) (*models.Quote, error) {
	panic("unimplemented")
}

// Get implements [quotes.Service].
func (stubQuotesService) Get(ctx context.Context, quoteID, customerID uuid.UUID) (*models.Quote, error) {
	panic("unimplemented")
}

func (stubQuotesService) ListForCustomer(ctx context.Context, customerID uuid.UUID, page pagination.Page, filters quotes.ListFilters) (*quotes.QuoteList, error) {
	return &quotes.QuoteList{Quotes: []models.Quote{}}, nil
}

func (stubQuotesService) ListPipeline(ctx context.Context, page pagination.Page, filters quotes.ListFilters) (*quotes.QuoteList, error) {
	return &quotes.QuoteList{Quotes: []models.Quote{}}, nil
}

func (stubQuotesService) ListOpenForBidding(ctx context.Context, page pagination.Page) (*quotes.QuoteList, error) {
	return &quotes.QuoteList{Quotes: []models.Quote{}}, nil
}

// Archive implements [quotes.Service].
func (stubQuotesService) Archive(ctx context.Context, input quotes.TransitionInput) error {
	panic("unimplemented")
}

// Reopen implements [quotes.Service].
func (stubQuotesService) Reopen(ctx context.Context, input quotes.TransitionInput) error {
	panic("unimplemented")
}

// Award implements [quotes.Service].
func (stubQuotesService) Award(ctx context.Context, input quotes.AwardInput) error {
	panic("unimplemented")
}

// MarkKickoffComplete implements [quotes.Service].
func (stubQuotesService) MarkKickoffComplete(ctx context.Context, input quotes.KickoffOverrideInput) error {
	panic("unimplemented")
}

type stubOffersService struct{}

// Submit implements [offers.Service].
func (stubOffersService) Submit(ctx context.Context, input offers.SubmitInput) (*models.Offer, error) {
	panic("unimplemented")
}

// UpdateOwn implements [offers.Service].
func (stubOffersService) UpdateOwn(ctx context.Context, input offers.UpdateInput) (*models.Offer, error) {
	panic("unimplemented")
}

func (stubOffersService) ListForQuote(ctx context.Context, quoteID, customerID uuid.UUID) ([]offers.ComparedOffer, error) {
	return []offers.ComparedOffer{}, nil
}

type stubKickoffService struct{}

func (stubKickoffService) GetChecklist(ctx context.Context, quoteID, customerID uuid.UUID) (*kickoff.ChecklistView, error) {
	return &kickoff.ChecklistView{Tasks: []models.KickoffTask{}}, nil
}

// SeedChecklist implements [kickoff.Service].
func (stubKickoffService) SeedChecklist(ctx context.Context, input kickoff.SeedInput) ([]models.KickoffTask, error) {
	panic("unimplemented")
}

// UpdateTask implements [kickoff.Service].
func (stubKickoffService) UpdateTask(ctx context.Context, input kickoff.UpdateTaskInput) (*models.KickoffTask, error) {
	panic("unimplemented")
}

type stubCoverageService struct{}

func (stubCoverageService) Estimate(ctx context.Context, process, material string) (*coverage.Estimate, error) {
	return &coverage.Estimate{Label: "Good coverage"}, nil
}

type stubSavedSearchService struct{}

// Save implements [savedsearches.Service].
func (stubSavedSearchService) Save(ctx context.Context, input savedsearches.SaveInput) (*models.SavedSearch, error) {
	panic("unimplemented")
}

func (stubSavedSearchService) List(ctx context.Context, customerID uuid.UUID) ([]models.SavedSearch, error) {
	return []models.SavedSearch{}, nil
}

// Rename implements [savedsearches.Service].
func (stubSavedSearchService) Rename(ctx context.Context, input savedsearches.RenameInput) (*models.SavedSearch, error) {
	panic("unimplemented")
}

// Delete implements [savedsearches.Service].
func (stubSavedSearchService) Delete(ctx context.Context, searchID, customerID uuid.UUID) error {
	panic("unimplemented")
}

// MarkViewed implements [savedsearches.Service].
func (stubSavedSearchService) MarkViewed(ctx context.Context, searchID, customerID uuid.UUID) error {
	panic("unimplemented")
}

type stubMessagesService struct{}

// Post implements [messages.Service].
func (stubMessagesService) Post(ctx context.Context, input messages.PostInput) (*models.QuoteMessage, error) {
	panic("unimplemented")
}

func (stubMessagesService) List(ctx context.Context, quoteID, customerID uuid.UUID) ([]models.QuoteMessage, error) {
	return []models.QuoteMessage{}, nil
}

type stubProvidersService struct{}

func (stubProvidersService) ListDirectory(ctx context.Context, role enums.ActorRole) ([]models.Provider, error) {
	return []models.Provider{}, nil
}

// ActiveVerified implements [providers.Service].
func (stubProvidersService) ActiveVerified(ctx context.Context) ([]models.Provider, error) {
	panic("unimplemented")
}

// Patch implements [providers.Service].
func (stubProvidersService) Patch(ctx context.Context, input providers.PatchInput) (*models.Provider, error) {
	panic("unimplemented")
}

// FindByIDs implements [providers.Service].
func (stubProvidersService) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Provider, error) {
	panic("unimplemented")
}

// HealthByProvider implements [providers.Service].
func (stubProvidersService) HealthByProvider(ctx context.Context, providerIDs []uuid.UUID) (map[uuid.UUID]enums.MatchHealth, error) {
	panic("unimplemented")
}

type stubChangeRequestsService struct{}

// Submit implements [changerequests.Service].
func (stubChangeRequestsService) Submit(ctx context.Context, input changerequests.SubmitInput) (*models.ChangeRequest, error) {
	panic("unimplemented")
}

// List implements [changerequests.Service].
func (stubChangeRequestsService) List(ctx context.Context, quoteID uuid.UUID) ([]models.ChangeRequest, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret: "secret",
			Issuer: "issuer",
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		Services{
			Quotes:         stubQuotesService{},
			Offers:         stubOffersService{},
			Kickoff:        stubKickoffService{},
			Coverage:       stubCoverageService{},
			SavedSearches:  stubSavedSearchService{},
			Messages:       stubMessagesService{},
			Providers:      stubProvidersService{},
			ChangeRequests: stubChangeRequestsService{},
		},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.ActorRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), time.Hour, pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		Email:  "user@fablink.test",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
	if env := resp.Header().Get("X-FabLink-Env"); env != "test" {
		t.Fatalf("expected env header test got %q", env)
	}
}

func TestPublicCoverageEstimateNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/public/coverage/estimate", strings.NewReader(`{"process":"cnc_milling"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public estimate got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for quote list got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/quotes", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/quotes", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin pipeline got %d", resp.Code)
	}
}

func TestSupplierGroupRequiresSupplierRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/v1/supplier/quotes", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-supplier got %d", resp.Code)
	}

	supplier := httptest.NewRequest(http.MethodGet, "/api/v1/supplier/quotes", nil)
	supplier.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleSupplier))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, supplier)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for open quote board got %d", resp.Code)
	}
}

func TestOfferCompareScopedToCustomer(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/"+uuid.NewString()+"/offers", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for offer compare got %d", resp.Code)
	}
}
