package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/openvault/filevault/internal/auth"
	"github.com/openvault/filevault/internal/ctxkeys"
	"github.com/openvault/filevault/internal/service"
)

type AuthHandler struct {
	userService    *service.UserService
	sessionService *service.SessionService
}

func NewAuthHandler(userService *service.UserService, sessionService *service.SessionService) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		sessionService: sessionService,
	}
}

// Connect exchanges a Basic auth header for a bearer token.
func (h *AuthHandler) Connect(w http.ResponseWriter, r *http.Request) {
	email, password, err := auth.ParseBasicAuth(r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Malformed Authorization header")
		return
	}

	user, err := h.userService.Login(email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		writeInternalError(w, err)
		return
	}

	token, err := h.sessionService.Issue(user.ID)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	slog.Info("session issued", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Disconnect revokes the presenting token. Runs behind RequireAuth, so the
// token is known to resolve; revoking it twice would still be harmless.
func (h *AuthHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	token := ctxkeys.Token(r.Context())

	err := h.sessionService.Revoke(token)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
