package handler

import (
	"net/http"

	"github.com/onyxhabits/onyx/internal/ctxkeys"
	"github.com/onyxhabits/onyx/internal/service"
)

type HabitHandler struct {
	habitService *service.HabitService
}

func NewHabitHandler(habitService *service.HabitService) *HabitHandler {
	return &HabitHandler{
		habitService: habitService,
	}
}

func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	habits, err := h.habitService.Habits(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"habits": habits})
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var input service.HabitInput
	if !decodeJSON(w, r, &input) {
		return
	}

	habit, err := h.habitService.Create(r.Context(), user.ID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"habit": habit})
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var update service.HabitUpdate
	if !decodeJSON(w, r, &update) {
		return
	}

	habit, err := h.habitService.Update(r.Context(), user.ID, r.PathValue("id"), update)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"habit": habit})
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.habitService.Delete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, "Habit deleted successfully")
}

func (h *HabitHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		Date string `json:"date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.habitService.ToggleCheckIn(r.Context(), user.ID, r.PathValue("id"), req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
