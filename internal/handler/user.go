package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openvault/filevault/internal/ctxkeys"
	"github.com/openvault/filevault/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.Register(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingEmail):
			writeError(w, http.StatusBadRequest, "Missing email")
		case errors.Is(err, service.ErrMissingPassword):
			writeError(w, http.StatusBadRequest, "Missing password")
		case errors.Is(err, service.ErrInvalidEmail):
			writeError(w, http.StatusBadRequest, "Invalid email")
		case errors.Is(err, service.ErrEmailAlreadyExists):
			writeError(w, http.StatusBadRequest, "Already exist")
		default:
			writeInternalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":    user.ID,
		"email": user.Email,
	})
}

// Me returns the authenticated identity, never the digest.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	writeJSON(w, http.StatusOK, map[string]string{
		"id":    user.ID,
		"email": user.Email,
	})
}
