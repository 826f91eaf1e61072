package routes

import (
	"net/http"

	"github.com/openvault/filevault/internal/app"
	"github.com/openvault/filevault/internal/handler"
	"github.com/openvault/filevault/internal/middleware"
)

func SetupRoutes(a *app.App) http.Handler {
	// Handlers
	appHandler := handler.NewAppHandler(a.DB, a.Cache, a.UserService)
	auth := handler.NewAuthHandler(a.UserService, a.SessionService)
	users := handler.NewUserHandler(a.UserService)
	files := handler.NewFileHandler(a.FileService)

	mux := http.NewServeMux()

	// Monitoring
	mux.HandleFunc("GET /status", appHandler.Status)
	mux.HandleFunc("GET /stats", appHandler.Stats)

	// Credential endpoints (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /users", rateLimiter(users.Register))
	mux.HandleFunc("GET /connect", rateLimiter(auth.Connect))

	// Session
	mux.HandleFunc("GET /disconnect", middleware.RequireAuth(auth.Disconnect))
	mux.HandleFunc("GET /users/me", middleware.RequireAuth(users.Me))

	// Files
	mux.HandleFunc("POST /files", middleware.RequireAuth(files.Upload))
	mux.HandleFunc("GET /files", middleware.RequireAuth(files.Index))
	mux.HandleFunc("GET /files/{id}", middleware.RequireAuth(files.Show))
	mux.HandleFunc("PUT /files/{id}/publish", middleware.RequireAuth(files.Publish))
	mux.HandleFunc("PUT /files/{id}/unpublish", middleware.RequireAuth(files.Unpublish))

	// Public entries are readable without a token, so no RequireAuth here
	mux.HandleFunc("GET /files/{id}/data", files.Data)

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.TokenAuth(a.SessionService, a.UserService),
	)

	return h
}
