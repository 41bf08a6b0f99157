package handler

import (
	"net/http"

	"github.com/onyxhabits/onyx/internal/ctxkeys"
	"github.com/onyxhabits/onyx/internal/model"
	"github.com/onyxhabits/onyx/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

type sessionResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{User: user, Token: token})
}

// Login takes the username field; an email address works there too.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	user, token, err := h.authService.Login(r.Context(), identifier, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{User: user, Token: token})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	me, err := h.userService.Me(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": me})
}

func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.userService.DeleteAccount(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, "Account deleted successfully")
}

// ForgotPassword answers the same way whether or not the address has an account.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.authService.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, "If an account exists for that email, a reset link has been sent")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.authService.ResetPassword(r.Context(), req.Token, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, "Password updated successfully")
}
