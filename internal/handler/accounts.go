// internal/handler/accounts.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/suiteterritoriale/deploycenter/internal/model"
	"github.com/suiteterritoriale/deploycenter/internal/service"
)

type AccountHandler struct {
	accounts *service.AccountService
}

func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type upsertAccountRequest struct {
	Type       model.AccountType `json:"type"`
	ExternalID string            `json:"external_id"`
	Email      string            `json:"email"`
	Roles      []string          `json:"roles"`
}

type accountResponse struct {
	BaseResponse
	Account *model.Account `json:"account"`
}

// Upsert handles POST /api/organizations/{organizationID}/accounts. When the
// payload matches an existing account it is updated in place; 201 on
// creation, 200 on update.
func (h *AccountHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	organizationID, err := uuid.Parse(chi.URLParam(r, "organizationID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization id")
		return
	}

	var req upsertAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Type == "" {
		req.Type = model.AccountTypeUser
	}

	account, created, err := h.accounts.Upsert(r.Context(), service.UpsertAccountInput{
		OrganizationID: organizationID,
		Type:           req.Type,
		ExternalID:     req.ExternalID,
		Email:          req.Email,
		Roles:          req.Roles,
	})
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondWithJSON(w, status, accountResponse{BaseResponse: BaseResponse{Ok: true}, Account: account})
}

// List handles GET /api/organizations/{organizationID}/accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	organizationID, err := uuid.Parse(chi.URLParam(r, "organizationID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization id")
		return
	}

	accounts, err := h.accounts.ListByOrganization(r.Context(), organizationID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"accounts": accounts})
}

type setServiceRolesRequest struct {
	ServiceID int64         `json:"service_id"`
	Roles     []string      `json:"roles"`
	Scope     model.JSONMap `json:"scope"`
}

// SetServiceRoles handles PUT /api/accounts/{accountID}/services/roles.
func (h *AccountHandler) SetServiceRoles(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid account id")
		return
	}

	var req setServiceRolesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	link, err := h.accounts.SetServiceRoles(r.Context(), service.SetServiceRolesInput{
		AccountID: accountID,
		ServiceID: req.ServiceID,
		Roles:     req.Roles,
		Scope:     req.Scope,
	})
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "link": link})
}
