package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/onyxhabits/onyx/internal/ctxkeys"
	"github.com/onyxhabits/onyx/internal/service"
	"github.com/onyxhabits/onyx/internal/validation"
)

type AccountHandler struct {
	userService *service.UserService
}

func NewAccountHandler(userService *service.UserService) *AccountHandler {
	return &AccountHandler{
		userService: userService,
	}
}

func (h *AccountHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	// Leave room for the multipart envelope around a maximum size image.
	r.Body = http.MaxBytesReader(w, r.Body, validation.ImageConstraints.MaxSize+(1<<20))
	err := r.ParseMultipartForm(validation.ImageConstraints.MaxSize)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeErrorMessage(w, http.StatusRequestEntityTooLarge, "File too large: maximum size is 5 MB")
			return
		}
		writeErrorMessage(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close file", "error", closeErr)
		}
	}()

	err = validation.ValidateFile(header, validation.ImageConstraints)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	mimeType, err := validation.DetectContentType(header)
	if err != nil {
		writeError(w, r, err)
		return
	}

	url, err := h.userService.UpdateAvatar(r.Context(), user.ID, service.Upload{
		Body:         file,
		OriginalName: header.Filename,
		MimeType:     mimeType,
		Size:         header.Size,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"avatarUrl": url})
}

func (h *AccountHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.userService.DeleteAvatar(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, "Avatar removed")
}
