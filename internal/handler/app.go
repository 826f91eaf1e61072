package handler

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/openvault/filevault/internal/cache"
	"github.com/openvault/filevault/internal/service"
)

// AppHandler serves the unauthenticated monitoring endpoints.
type AppHandler struct {
	db          *sqlx.DB
	cache       *cache.Cache
	userService *service.UserService
}

func NewAppHandler(db *sqlx.DB, cache *cache.Cache, userService *service.UserService) *AppHandler {
	return &AppHandler{
		db:          db,
		cache:       cache,
		userService: userService,
	}
}

// Status reports liveness of the document store and the session cache,
// each probed independently.
func (h *AppHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"db":    h.db.Ping() == nil,
		"cache": h.cache.Ping(),
	})
}

// Stats reports the total number of users and files.
func (h *AppHandler) Stats(w http.ResponseWriter, r *http.Request) {
	users, files, err := h.userService.Stats()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{
		"users": users,
		"files": files,
	})
}
