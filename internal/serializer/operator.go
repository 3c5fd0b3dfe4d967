// internal/serializer/operator.go
package serializer

import (
	"github.com/google/uuid"
	"github.com/suiteterritoriale/deploycenter/internal/model"
)

// OperatorView is the only representation of an operator that leaves the
// API. The auto-join policy is deliberately not part of this struct: callers
// outside the engine must not be able to read or set it.
type OperatorView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	URL      string    `json:"url"`
	IsActive bool      `json:"is_active"`
}

func NewOperatorView(operator *model.Operator) OperatorView {
	return OperatorView{
		ID:       operator.ID,
		Name:     operator.Name,
		URL:      operator.URL,
		IsActive: operator.IsActive,
	}
}

func NewOperatorViews(operators []*model.Operator) []OperatorView {
	views := make([]OperatorView, 0, len(operators))
	for _, operator := range operators {
		views = append(views, NewOperatorView(operator))
	}
	return views
}
