package http

import (
	"net/http"

	"go.uber.org/zap"

	"debt-planner/domain"
	"debt-planner/service"
)

type ScheduleHandler struct {
	service *service.ScheduleService
	logger  *zap.Logger
	maxBody int64
}

func NewScheduleHandler(service *service.ScheduleService, logger *zap.Logger, maxBody int64) *ScheduleHandler {
	return &ScheduleHandler{service: service, logger: logger, maxBody: maxBody}
}

func (h *ScheduleHandler) BuildSchedule(w http.ResponseWriter, r *http.Request) {
	var input domain.ScheduleRequest
	if !decodeJSON(w, r, h.logger, h.maxBody, &input) {
		return
	}

	result, err := h.service.BuildSchedule(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}
