// internal/handler/operators.go
package handler

import (
	"net/http"

	"github.com/suiteterritoriale/deploycenter/internal/repository"
	"github.com/suiteterritoriale/deploycenter/internal/serializer"
)

type OperatorHandler struct {
	operators repository.OperatorRepositoryIface
}

func NewOperatorHandler(operators repository.OperatorRepositoryIface) *OperatorHandler {
	return &OperatorHandler{operators: operators}
}

// List handles GET /api/operators. Responses go through OperatorView, which
// carries no auto-join configuration.
func (h *OperatorHandler) List(w http.ResponseWriter, r *http.Request) {
	operators, err := h.operators.FindAll(r.Context())
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"operators": serializer.NewOperatorViews(operators),
	})
}
