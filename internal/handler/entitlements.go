// internal/handler/entitlements.go
package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/suiteterritoriale/deploycenter/internal/model"
	"github.com/suiteterritoriale/deploycenter/internal/service"
)

type EntitlementHandler struct {
	entitlements *service.EntitlementService
}

func NewEntitlementHandler(entitlements *service.EntitlementService) *EntitlementHandler {
	return &EntitlementHandler{entitlements: entitlements}
}

// CheckAdmin handles GET /api/entitlements/admin. The account is identified
// by account_id (external identifier) or account_email; account_type
// defaults to "user".
func (h *EntitlementHandler) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	organizationID, err := uuid.Parse(query.Get("organization_id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization_id")
		return
	}
	serviceID, err := strconv.ParseInt(query.Get("service_id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid service_id")
		return
	}

	accountType := model.AccountType(query.Get("account_type"))
	if accountType == "" {
		accountType = model.AccountTypeUser
	}

	decision, err := h.entitlements.CheckAdmin(r.Context(), service.CheckAdminInput{
		OrganizationID: organizationID,
		ServiceID:      serviceID,
		AccountType:    accountType,
		ExternalID:     query.Get("account_id"),
		Email:          query.Get("account_email"),
	})
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, decision)
}
