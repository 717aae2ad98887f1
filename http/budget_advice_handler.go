package http

import (
	"net/http"

	"go.uber.org/zap"

	"debt-planner/domain"
	"debt-planner/service"
)

type BudgetAdviceHandler struct {
	service *service.BudgetAdvisor
	logger  *zap.Logger
	maxBody int64
}

func NewBudgetAdviceHandler(service *service.BudgetAdvisor, logger *zap.Logger, maxBody int64) *BudgetAdviceHandler {
	return &BudgetAdviceHandler{service: service, logger: logger, maxBody: maxBody}
}

func (h *BudgetAdviceHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var input domain.BudgetAdviceRequest
	if !decodeJSON(w, r, h.logger, h.maxBody, &input) {
		return
	}

	result, err := h.service.Recommend(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}
