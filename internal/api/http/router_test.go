package http

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmequip-backoffice/internal/config"
	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/notify"
	"farmequip-backoffice/internal/repository"
	"farmequip-backoffice/internal/repository/memory"
	"farmequip-backoffice/internal/security"
	"farmequip-backoffice/internal/service"
)

type testEnv struct {
	router *mux.Router
	tokens security.TokenManager
	hub    *notify.Hub
	admin  string
	viewer string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	logger.InitializeWriter(io.Discard, "error", "text")
	ctx := context.Background()

	hash, err := security.HashPassword("s3cret")
	require.NoError(t, err)
	tokens := security.NewTokenManager("test-secret", time.Hour)
	auth := security.NewAuthenticator(config.AdminConfig{Username: "admin", PasswordHash: hash, Roles: []string{"admin"}}, tokens)

	store := memory.NewStore()
	hub := notify.NewHub()
	now := func() time.Time { return time.Date(2023, 8, 21, 12, 0, 0, 0, time.UTC) }

	dashboard := service.NewDashboardScreen(store.EquipmentRepository, store.BookingRepository, store.FarmerRepository, service.Deps{Notifier: hub, Now: now})
	deps := service.Deps{Notifier: hub, Listener: dashboard, Now: now}
	screens := Screens{
		Equipment: service.NewEquipmentScreen(store.EquipmentRepository, deps),
		Bookings:  service.NewBookingScreen(store.BookingRepository, deps),
		Farmers:   service.NewFarmerScreen(store.FarmerRepository, deps),
		Dashboard: dashboard,
		Settings:  service.NewSettingsScreen(store.SettingsRepository, deps),
	}
	screens.Equipment.Mount()
	screens.Bookings.Mount()
	screens.Farmers.Mount()
	screens.Dashboard.Mount()
	_, err = screens.Equipment.Load(ctx)
	require.NoError(t, err)
	_, err = screens.Bookings.Load(ctx)
	require.NoError(t, err)
	_, err = screens.Farmers.Load(ctx)
	require.NoError(t, err)

	admin, err := tokens.GenerateAccessToken("admin", "admin", []string{"admin"})
	require.NoError(t, err)
	viewer, err := tokens.GenerateAccessToken("viewer", "viewer", []string{"viewer"})
	require.NoError(t, err)

	router := NewRouter(screens, Options{Auth: auth, Tokens: tokens, Hub: hub, ExportSheet: "Bookings"})
	return testEnv{router: router, tokens: tokens, hub: hub, admin: admin, viewer: viewer}
}

func (e testEnv) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	t.Run("Valid credentials", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Username: "admin", Password: "s3cret"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp loginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Session.Can(domain.CapManageSettings))

		claims, err := env.tokens.ValidateToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Username)
	})

	t.Run("Wrong password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Username: "admin", Password: "nope"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthentication(t *testing.T) {
	env := newTestEnv(t)

	t.Run("Missing token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/equipment", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Garbage token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/equipment", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Viewer can read", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/equipment", env.viewer, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("Viewer cannot approve", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/bookings/B1003/approve", env.viewer, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Metrics are public", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/metrics", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestEquipmentRoutes(t *testing.T) {
	env := newTestEnv(t)

	t.Run("Filtered list", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/equipment?category=Tractors&q=kubota", env.admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var got []domain.Equipment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "E1002", got[0].ID)
	})

	t.Run("Explicit sort", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/equipment?sort=dailyRate&direction=desc", env.admin, nil)
		var got []domain.Equipment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "E1003", got[0].ID)
	})

	t.Run("Sort toggle", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/equipment/sort", env.admin, sortRequest{Key: "name"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"key":"name","direction":"ascending"}`, rec.Body.String())

		rec = env.do(t, http.MethodPost, "/api/v1/equipment/sort", env.admin, sortRequest{Key: "name"})
		assert.JSONEq(t, `{"key":"name","direction":"descending"}`, rec.Body.String())
	})

	t.Run("Update recomputes rates", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/api/v1/equipment/E1001", env.admin, map[string]any{"dailyRate": 120})
		require.Equal(t, http.StatusOK, rec.Code)
		var got domain.Equipment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "756.00", got.WeeklyRate.StringFixed(2))
		assert.Equal(t, "3060.00", got.MonthlyRate.StringFixed(2))
	})

	t.Run("Unknown field is rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/api/v1/equipment/E1001", env.admin, map[string]any{"weeklyRate": 1})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Approve twice", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/equipment/E1004/approve", env.admin, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		rec = env.do(t, http.MethodPost, "/api/v1/equipment/E1004/approve", env.admin, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Edit cannot reopen an approval", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/api/v1/equipment/E1004", env.admin, map[string]any{"approvalStatus": "Pending"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/v1/equipment/E1004", env.admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var got domain.Equipment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, domain.ApprovalApproved, got.ApprovalStatus)
	})

	t.Run("Delete needs confirmation", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/v1/equipment/E1003", env.admin, nil)
		assert.Equal(t, http.StatusPreconditionFailed, rec.Code)

		rec = env.do(t, http.MethodDelete, "/api/v1/equipment/E1003", env.admin, nil, "X-Confirm", "true")
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/v1/equipment/E1003", env.admin, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Quote", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/equipment/E1002/quote?start=2024-01-15&end=2024-01-21", env.admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var q struct {
			TotalDays   int    `json:"totalDays"`
			TotalAmount string `json:"totalAmount"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
		assert.Equal(t, 7, q.TotalDays)
		assert.Equal(t, "693", q.TotalAmount)

		rec = env.do(t, http.MethodGet, "/api/v1/equipment/E1002/quote?start=tomorrow&end=2024-01-21", env.admin, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBookingRoutes(t *testing.T) {
	env := newTestEnv(t)

	t.Run("Approve pending then conflict", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/bookings/B1003/approve", env.admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var b domain.Booking
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
		assert.Equal(t, domain.BookingStatusApproved, b.Status)

		rec = env.do(t, http.MethodPost, "/api/v1/bookings/B1003/reject", env.admin, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Unknown booking", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/bookings/B0000", env.admin, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Status filter", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/bookings?status=pending", env.admin, nil)
		var got []domain.Booking
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "B1005", got[0].ID)
	})

	t.Run("CSV export of the filtered view", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/bookings/export?format=csv&payment=paid", env.admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")

		rows, err := csv.NewReader(rec.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "B1002", rows[1][0])
		assert.Equal(t, "B1001", rows[2][0])
	})

	t.Run("Viewer cannot export", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/bookings/export", env.viewer, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Unknown export format", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/bookings/export?format=pdf", env.admin, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestFarmerRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/farmers/F1003/verify", env.admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/farmers/F1001/toggle-status", env.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var f domain.Farmer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &f))
	assert.Equal(t, domain.AccountInactive, f.AccountStatus)

	rec = env.do(t, http.MethodPatch, "/api/v1/farmers/F1001", env.admin, map[string]any{"email": "bad"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/farmers/F1001?confirm=true", env.admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDashboardAndSettings(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/dashboard", env.viewer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var m struct {
		PendingBookings int    `json:"pendingBookings"`
		TotalRevenue    string `json:"totalRevenue"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, 2, m.PendingBookings)
	assert.Equal(t, "1000", m.TotalRevenue)

	rec = env.do(t, http.MethodGet, "/api/v1/settings", env.viewer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/settings", env.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var s domain.Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, "FarmEquip", s.Platform.SiteName)

	s.Platform.SiteName = "FarmEquip Midwest"
	rec = env.do(t, http.MethodPut, "/api/v1/settings", env.admin, s)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/settings", env.admin, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, "FarmEquip Midwest", s.Platform.SiteName)
}

func TestNotificationStream(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/notifications/ws?token=" + env.viewer
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return env.hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/bookings/B1005/reject", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+env.admin)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var n domain.Notification
	require.NoError(t, conn.ReadJSON(&n))
	assert.Equal(t, domain.NotificationSuccess, n.Kind)
	assert.Equal(t, "Booking rejected", n.Message)
}

// flakyEquipment fails List until told otherwise.
type flakyEquipment struct {
	repository.EquipmentRepository
	mu   sync.Mutex
	fail bool
}

func (f *flakyEquipment) List(ctx context.Context) ([]domain.Equipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("connection refused")
	}
	return f.EquipmentRepository.List(ctx)
}

func (f *flakyEquipment) setFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

func TestReloadAfterFailedLoad(t *testing.T) {
	logger.InitializeWriter(io.Discard, "error", "text")

	repo := &flakyEquipment{EquipmentRepository: memory.NewEquipmentRepository(memory.SeedEquipment()), fail: true}
	screen := service.NewEquipmentScreen(repo, service.Deps{})
	screen.Mount()
	_, err := screen.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrFetchFailure)

	var reports []error
	tokens := security.NewTokenManager("test-secret", time.Hour)
	router := NewRouter(Screens{Equipment: screen}, Options{
		Tokens: tokens,
		OnReload: func(kind service.RecordKind, err error) {
			assert.Equal(t, service.KindEquipment, kind)
			reports = append(reports, err)
		},
	})
	admin, err := tokens.GenerateAccessToken("admin", "admin", []string{"admin"})
	require.NoError(t, err)
	env := testEnv{router: router, tokens: tokens, admin: admin}

	rec := env.do(t, http.MethodGet, "/api/v1/equipment", env.admin, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/equipment/reload", env.admin, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	require.Len(t, reports, 1)
	assert.ErrorIs(t, reports[0], domain.ErrFetchFailure)

	repo.setFail(false)
	rec = env.do(t, http.MethodPost, "/api/v1/equipment/reload", env.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.Equipment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 5)
	require.Len(t, reports, 2)
	assert.NoError(t, reports[1])

	rec = env.do(t, http.MethodGet, "/api/v1/equipment", env.admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, statusFor(domain.FetchFailure("bookings", io.EOF)))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.EOF))
}
