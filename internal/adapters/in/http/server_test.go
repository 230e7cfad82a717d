package http_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/application/reminders"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/profile"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports/mocks"
	"dispatch/internal/pkg/clock"
)

const (
	fergana = "Farg'ona"

	customer kernel.UserID = 10
	driver   kernel.UserID = 20
	admin    kernel.UserID = 90

	apiToken = "s3cret-token"
)

type fixture struct {
	echo *echo.Echo
	deps commands.Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	regions, err := kernel.NewRegionCatalog([]kernel.Region{
		{Name: fergana, OrderChatID: -1001, DriverChatID: -1002},
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	profiles, err := memory.NewProfileRepository(t.Context(), mocks.NewProfileStore(nil), logger)
	require.NoError(t, err)

	gw := mocks.NewMessagingGateway()
	clk := clock.NewFake(time.Date(2025, 3, 1, 18, 10, 0, 0, time.UTC))
	deps := commands.Deps{
		Drafts:       memory.NewDraftRepository(),
		Orders:       memory.NewOrderRepository(),
		OrderLocks:   memory.NewKeyedMutex(),
		Profiles:     profiles,
		Entitlements: memory.NewEntitlementRepository(),
		Onboarding:   memory.NewOnboardingRepository(),
		Invites:      memory.NewInviteRepository(),
		Gateway:      gw,
		Reminders:    reminders.NewScheduler(t.Context(), gw, clk, logger),
		Regions:      regions,
		Admins:       services.NewAdminPolicy([]kernel.UserID{admin}),
		Catalog:      messages.NewCatalog(messages.Settings{}),
		Clock:        clk,
		Logger:       logger,
		Settings:     commands.Settings{PaymentsChatID: -3001, InviteTTL: 24 * time.Hour},
	}

	server := api.NewServer(
		commands.NewApproveReceiptCommandHandler(deps),
		queries.NewGetUserCountsQueryHandler(deps.Profiles),
		queries.NewGetOrderQueryHandler(deps.Orders),
	)
	e, err := api.NewEcho(t.Context(), server, apiToken, logger)
	require.NoError(t, err)

	return &fixture{echo: e, deps: deps}
}

// do sends an authorized request; a header map with its own Authorization entry
// replaces the token.
func (f *fixture) do(t *testing.T, method, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+apiToken)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) withProfile(t *testing.T, id kernel.UserID, regions ...string) {
	t.Helper()
	_, err := f.deps.Profiles.Upsert(t.Context(), id, func(p *profile.Profile) error {
		if err := p.SetContact("User", "998901112233"); err != nil {
			return err
		}
		if len(regions) > 0 {
			p.SetRegions(regions)
		}
		return nil
	})
	require.NoError(t, err)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestServer_Health(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/health", nil)

	rec := f.do(t, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dispatch_admin_http_requests_total")
}

func TestServer_SwaggerDocument(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/swagger/doc.json", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/users/count")
}

func TestServer_GetUserCounts(t *testing.T) {
	// Given
	f := newFixture(t)
	f.withProfile(t, customer)
	_, err := f.deps.Profiles.Upsert(t.Context(), driver, func(p *profile.Profile) error {
		p.FillName("No Phone")
		return nil
	})
	require.NoError(t, err)

	// When
	rec := f.do(t, http.MethodGet, "/api/v1/users/count", nil)

	// Then
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, api.UserCounts{Total: 2, WithPhone: 1}, decode[api.UserCounts](t, rec))
}

func TestServer_GetOrder(t *testing.T) {
	t.Run("live_order", func(t *testing.T) {
		// Given
		f := newFixture(t)
		when, err := kernel.ParseTimeOfDay("19:00")
		require.NoError(t, err)
		o, err := order.NewOrder(customer, order.Details{
			Region: fergana, Vehicle: "Labo", Pickup: "Bozor", Dropoff: "Vokzal", When: when,
		}, kernel.MessageRef{ChatID: -1001, MessageID: 5})
		require.NoError(t, err)
		_, err = f.deps.Orders.Put(t.Context(), o)
		require.NoError(t, err)

		// When
		rec := f.do(t, http.MethodGet, "/api/v1/orders/10", nil)

		// Then
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[api.Order](t, rec)
		assert.Equal(t, o.ID().String(), got.ID)
		assert.Equal(t, "open", got.Status)
		assert.Equal(t, fergana, got.Region)
		assert.Nil(t, got.DriverID)
	})

	t.Run("no_order", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodGet, "/api/v1/orders/10", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, http.StatusNotFound, decode[api.Error](t, rec).Code)
	})

	t.Run("malformed_id_is_rejected_by_validation", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodGet, "/api/v1/orders/abc", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_ApproveDriver(t *testing.T) {
	tests := []struct {
		name     string
		regions  []string
		header   map[string]string
		wantCode int
	}{
		{name: "approved", regions: []string{fergana}, header: map[string]string{"X-Admin-Id": "90"}, wantCode: http.StatusOK},
		{name: "missing_admin_header", regions: []string{fergana}, wantCode: http.StatusBadRequest},
		{name: "not_an_admin", regions: []string{fergana}, header: map[string]string{"X-Admin-Id": "11"}, wantCode: http.StatusForbidden},
		{name: "regions_unknown", header: map[string]string{"X-Admin-Id": "90"}, wantCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t)
			f.withProfile(t, driver, tt.regions...)

			// Act
			rec := f.do(t, http.MethodPost, "/api/v1/drivers/20/approval", tt.header)

			// Assert
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode == http.StatusOK {
				got := decode[api.Approval](t, rec)
				assert.Equal(t, int64(driver), got.DriverID)
				assert.Equal(t, []string{fergana}, got.Regions)
			}
		})
	}
}

func TestServer_RequiresToken(t *testing.T) {
	tests := []struct {
		name string
		auth string
	}{
		{name: "no_token", auth: ""},
		{name: "wrong_token", auth: "Bearer guess"},
		{name: "wrong_scheme", auth: "Basic " + apiToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given a driver waiting for approval
			f := newFixture(t)
			f.withProfile(t, driver, fergana)

			// When a caller names a real admin without a valid token
			rec := f.do(t, http.MethodPost, "/api/v1/drivers/20/approval", map[string]string{
				echo.HeaderAuthorization: tt.auth,
				"X-Admin-Id":             "90",
			})

			// Then the request is refused and nothing is activated
			require.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
			assert.Equal(t, http.StatusUnauthorized, decode[api.Error](t, rec).Code)
			ent, err := f.deps.Entitlements.Get(t.Context(), driver)
			require.NoError(t, err)
			assert.False(t, ent.HasActiveSubscription())
		})
	}
}

func TestServer_EmptyTokenRefusesAPI(t *testing.T) {
	e, err := api.NewEcho(t.Context(), api.NewServer(
		commands.ApproveReceiptCommandHandler{},
		queries.GetUserCountsQueryHandler{},
		queries.GetOrderQueryHandler{},
	), "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/count", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer ")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_UnknownAPIPath(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/nothing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
