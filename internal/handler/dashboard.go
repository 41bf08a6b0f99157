package handler

import (
	"net/http"

	"github.com/onyxhabits/onyx/internal/ctxkeys"
	"github.com/onyxhabits/onyx/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	stats, err := h.dashboardService.Stats(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *DashboardHandler) Running(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	stats, err := h.dashboardService.Running(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *DashboardHandler) FiveAMClub(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	club, err := h.dashboardService.FiveAMClub(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, club)
}
