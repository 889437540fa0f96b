package routes

import (
	"net/http"

	"github.com/templui/tagbox/internal/app"
	"github.com/templui/tagbox/internal/handler"
	"github.com/templui/tagbox/internal/middleware"
	"github.com/templui/tagbox/internal/respond"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	user := handler.NewUserHandler(app.UserService)
	file := handler.NewFileHandler(app.FileService)
	fileData := handler.NewFileDataHandler(app.UploadService, app.FileService, app.Cfg.MaxUploadSize)
	tag := handler.NewTagHandler(app.TagService)
	fileTag := handler.NewFileTagHandler(app.FileTagService)

	requireAuth := middleware.RequireAuth

	// Auth endpoints are rate limited per client IP unless disabled
	rateLimit := func(next http.HandlerFunc) http.HandlerFunc { return next }
	if app.AuthLimiter != nil {
		rateLimit = middleware.RateLimit(app.AuthLimiter)
	}

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /metrics", health.Metrics)

	mux.HandleFunc("POST /api/auth/register", rateLimit(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimit(auth.Login))

	// ============================================================================
	// PROTECTED ROUTES (Bearer JWT)
	// ============================================================================

	// Account
	mux.HandleFunc("GET /api/users/me", requireAuth(user.Me))
	mux.HandleFunc("PUT /api/users/me", requireAuth(user.Update))
	mux.HandleFunc("DELETE /api/users/me", requireAuth(user.Delete))
	// Legacy account paths kept for existing clients
	mux.HandleFunc("PUT /api/update_user", requireAuth(user.Update))
	mux.HandleFunc("DELETE /api/delete_user", requireAuth(user.Delete))

	// Files (metadata)
	mux.HandleFunc("GET /api/files", requireAuth(file.List))
	mux.HandleFunc("GET /api/files/{id}", requireAuth(file.Show))
	mux.HandleFunc("PUT /api/files/{id}", requireAuth(file.Update))
	mux.HandleFunc("DELETE /api/files/{id}", requireAuth(file.Delete))
	mux.HandleFunc("GET /api/files/search/{query}", requireAuth(file.Search))
	mux.HandleFunc("GET /api/files/type/{type}", requireAuth(file.ByType))

	// File content
	mux.HandleFunc("POST /api/file/upload", requireAuth(fileData.Upload))
	mux.HandleFunc("GET /api/file/content", requireAuth(fileData.Contents))
	mux.HandleFunc("GET /api/file/{id}", requireAuth(fileData.Content))
	mux.HandleFunc("GET /api/file/download/{id}", requireAuth(fileData.Download))

	// Tags
	mux.HandleFunc("POST /api/tags", requireAuth(tag.Create))
	mux.HandleFunc("GET /api/tags", requireAuth(tag.List))
	mux.HandleFunc("GET /api/tags/{id}", requireAuth(tag.Show))
	mux.HandleFunc("GET /api/tags/search/{query}", requireAuth(tag.Search))
	mux.HandleFunc("PUT /api/tags/{id}", requireAuth(tag.Update))
	mux.HandleFunc("DELETE /api/tags/{id}", requireAuth(tag.Delete))

	// File-tag associations
	mux.HandleFunc("POST /api/file-tags", requireAuth(fileTag.Create))
	mux.HandleFunc("GET /api/file-tags/file/{id}", requireAuth(fileTag.ByFile))
	mux.HandleFunc("GET /api/file-tags/tag/{id}", requireAuth(fileTag.ByTag))
	mux.HandleFunc("DELETE /api/file-tags/{id}", requireAuth(fileTag.Delete))
	mux.HandleFunc("DELETE /api/file-tags/file/{id}", requireAuth(fileTag.DeleteByFile))
	mux.HandleFunc("DELETE /api/file-tags/tag/{id}", requireAuth(fileTag.DeleteByTag))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusNotFound, "not found")
	})

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService, app.UserService),
		middleware.Metrics, // Must be last: reads the pattern ServeMux records on its request
	)

	return handler
}
