package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"debt-planner/domain"
	"debt-planner/service"
)

type PlanHandler struct {
	service *service.PayoffService
	logger  *zap.Logger
	maxBody int64
}

func NewPlanHandler(service *service.PayoffService, logger *zap.Logger, maxBody int64) *PlanHandler {
	return &PlanHandler{service: service, logger: logger, maxBody: maxBody}
}

func (h *PlanHandler) CalculatePlan(w http.ResponseWriter, r *http.Request) {
	var input domain.PlanRequest
	if !decodeJSON(w, r, h.logger, h.maxBody, &input) {
		return
	}

	result, err := h.service.CalculatePlan(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	status := http.StatusCreated
	if result.Cached {
		status = http.StatusOK
	}
	writeJSON(w, h.logger, status, result)
}

func (h *PlanHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var input domain.PlanRequest
	if !decodeJSON(w, r, h.logger, h.maxBody, &input) {
		return
	}

	result, err := h.service.Compare(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}

func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	stored, err := h.service.GetPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, stored)
}
