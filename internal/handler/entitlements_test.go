package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/suiteterritoriale/deploycenter/internal/handler"
	"github.com/suiteterritoriale/deploycenter/internal/model"
	"github.com/suiteterritoriale/deploycenter/internal/repository"
	"github.com/suiteterritoriale/deploycenter/internal/service"
)

type testEnv struct {
	db     *gorm.DB
	router *chi.Mux
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	accounts := repository.NewAccountRepository(db)
	organizations := repository.NewOrganizationRepository(db)
	services := repository.NewServiceRepository(db)
	identity := service.NewIdentityResolver(accounts, nil)
	admin := service.NewAdminEntitlementResolver(accounts, nil)
	entitlements := service.NewEntitlementService(
		identity,
		admin,
		organizations,
		services,
		repository.NewSubscriptionRepository(db),
	)
	metrics := service.NewMetricsService(
		identity,
		services,
		organizations,
		accounts,
		repository.NewMetricRepository(db),
		nil,
	)

	router := chi.NewRouter()
	router.Get("/api/entitlements/admin", handler.NewEntitlementHandler(entitlements).CheckAdmin)
	router.Get("/api/organizations/{organizationID}/metrics", handler.NewMetricsHandler(metrics).List)

	return &testEnv{db: db, router: router}
}

func (e *testEnv) get(t *testing.T, path string, query url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path+"?"+query.Encode(), nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestEntitlementHandler_CheckAdmin(t *testing.T) {
	env := setupTestEnv(t)

	population := 500
	org := &model.Organization{
		Name:       "Commune A",
		Type:       model.OrgTypeCommune,
		Population: &population,
	}
	require.NoError(t, env.db.Create(org).Error)

	svc := &model.Service{Type: "messages", Name: "Messagerie", IsActive: true, Config: model.JSONMap{}}
	require.NoError(t, env.db.Create(svc).Error)

	account := &model.Account{
		OrganizationID: org.ID,
		Type:           model.AccountTypeUser,
		ExternalID:     "sub-agent",
		Email:          "agent@commune.fr",
	}
	require.NoError(t, env.db.Create(account).Error)

	t.Run("returns the decision", func(t *testing.T) {
		query := url.Values{}
		query.Set("organization_id", org.ID.String())
		query.Set("service_id", fmt.Sprintf("%d", svc.ID))
		query.Set("account_email", "agent@commune.fr")

		rec := env.get(t, "/api/entitlements/admin", query)
		require.Equal(t, http.StatusOK, rec.Code)

		var decision service.AdminDecision
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&decision))
		assert.True(t, decision.IsAdmin)
		assert.Equal(t, service.LevelPopulation, decision.Level)
	})

	t.Run("accepts the external identifier as account_id", func(t *testing.T) {
		query := url.Values{}
		query.Set("organization_id", org.ID.String())
		query.Set("service_id", fmt.Sprintf("%d", svc.ID))
		query.Set("account_id", "sub-agent")

		rec := env.get(t, "/api/entitlements/admin", query)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects a malformed organization id", func(t *testing.T) {
		query := url.Values{}
		query.Set("organization_id", "not-a-uuid")
		query.Set("service_id", "1")
		query.Set("account_email", "agent@commune.fr")

		rec := env.get(t, "/api/entitlements/admin", query)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a query without identifiers", func(t *testing.T) {
		query := url.Values{}
		query.Set("organization_id", org.ID.String())
		query.Set("service_id", fmt.Sprintf("%d", svc.ID))

		rec := env.get(t, "/api/entitlements/admin", query)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown account maps to 404", func(t *testing.T) {
		query := url.Values{}
		query.Set("organization_id", org.ID.String())
		query.Set("service_id", fmt.Sprintf("%d", svc.ID))
		query.Set("account_email", "stranger@commune.fr")

		rec := env.get(t, "/api/entitlements/admin", query)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		var body struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.NotEmpty(t, body.Error)
	})
}
