// internal/handler/metrics.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/suiteterritoriale/deploycenter/internal/service"
)

type MetricsHandler struct {
	metrics *service.MetricsService
}

func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Report handles POST /api/metrics/report: one usage event from a subscribed
// service. Whether the event may bind identities is decided by the service's
// configuration, not by the payload.
func (h *MetricsHandler) Report(w http.ResponseWriter, r *http.Request) {
	var in service.ReportInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	account, err := h.metrics.Report(r.Context(), in)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "account_id": account.ID})
}

// List handles GET /api/organizations/{organizationID}/metrics?service_id=N:
// the latest value of each metric the service reported for the organization.
func (h *MetricsHandler) List(w http.ResponseWriter, r *http.Request) {
	organizationID, err := uuid.Parse(chi.URLParam(r, "organizationID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization id")
		return
	}

	serviceID, err := strconv.ParseInt(r.URL.Query().Get("service_id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid service id")
		return
	}

	metrics, err := h.metrics.ListByOrganization(r.Context(), organizationID, serviceID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"metrics": metrics})
}
