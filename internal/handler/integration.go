package handler

import (
	"net/http"

	"github.com/onyxhabits/onyx/internal/ctxkeys"
	"github.com/onyxhabits/onyx/internal/service"
)

type IntegrationHandler struct {
	integrationService *service.IntegrationService
}

func NewIntegrationHandler(integrationService *service.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{
		integrationService: integrationService,
	}
}

type callbackRequest struct {
	Code string `json:"code"`
}

func (h *IntegrationHandler) SpotifyAuth(w http.ResponseWriter, r *http.Request) {
	url, err := h.integrationService.SpotifyAuthURL()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *IntegrationHandler) SpotifyCallback(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req callbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.integrationService.ConnectSpotify(r.Context(), user.ID, req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *IntegrationHandler) SpotifyStatus(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	status, err := h.integrationService.SpotifyStatus(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// SpotifyControl handles play, pause, next and previous.
func (h *IntegrationHandler) SpotifyControl(action service.SpotifyAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())

		err := h.integrationService.SpotifyControl(r.Context(), user.ID, action)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (h *IntegrationHandler) NotionAuth(w http.ResponseWriter, r *http.Request) {
	url, err := h.integrationService.NotionAuthURL()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *IntegrationHandler) NotionCallback(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req callbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.integrationService.ConnectNotion(r.Context(), user.ID, req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *IntegrationHandler) NotionStatus(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	status, err := h.integrationService.NotionStatus(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *IntegrationHandler) NotionPages(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	pages, err := h.integrationService.NotionPages(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pages": pages})
}

func (h *IntegrationHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.integrationService.Disconnect(r.Context(), user.ID, r.PathValue("provider"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
