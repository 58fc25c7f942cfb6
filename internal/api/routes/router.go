package routes

import (
	"net/http"

	"github.com/saudehub/backend/internal/api/handlers"
	"github.com/saudehub/backend/internal/api/middleware"
	"github.com/saudehub/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	eventHandler        *handlers.EventHandler
	professionalHandler *handlers.ProfessionalHandler
	documentHandler     *handlers.DocumentHandler
	shareHandler        *handlers.ShareHandler
	notificationHandler *handlers.NotificationHandler
	authHandler         *handlers.AuthHandler

	rateLimiter *middleware.RateLimiter
	metrics     *observability.Metrics
	jwtSecret   string
}

// NewRouter creates a new router
func NewRouter(
	eventHandler *handlers.EventHandler,
	professionalHandler *handlers.ProfessionalHandler,
	documentHandler *handlers.DocumentHandler,
	shareHandler *handlers.ShareHandler,
	notificationHandler *handlers.NotificationHandler,
	authHandler *handlers.AuthHandler,
	rateLimiter *middleware.RateLimiter,
	metrics *observability.Metrics,
	jwtSecret string,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		eventHandler:        eventHandler,
		professionalHandler: professionalHandler,
		documentHandler:     documentHandler,
		shareHandler:        shareHandler,
		notificationHandler: notificationHandler,
		authHandler:         authHandler,

		rateLimiter: rateLimiter,
		metrics:     metrics,
		jwtSecret:   jwtSecret,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	auth := middleware.AuthMiddleware(r.jwtSecret)
	protected := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Account endpoints
	r.mux.HandleFunc("POST /api/auth/register", r.authHandler.Register)
	r.mux.HandleFunc("POST /api/auth/login", r.authHandler.Login)
	r.mux.Handle("GET /api/auth/me", protected(r.authHandler.Me))

	// Event endpoints
	r.mux.Handle("POST /api/events", protected(r.eventHandler.CreateEvent))
	r.mux.Handle("GET /api/events", protected(r.eventHandler.ListEvents))
	r.mux.Handle("POST /api/events/check-conflicts", protected(r.eventHandler.CheckConflicts))
	r.mux.Handle("GET /api/events/{id}", protected(r.eventHandler.GetEvent))
	r.mux.Handle("PUT /api/events/{id}", protected(r.eventHandler.UpdateEvent))
	r.mux.Handle("DELETE /api/events/{id}", protected(r.eventHandler.DeleteEvent))

	// Professional endpoints
	r.mux.Handle("POST /api/professionals", protected(r.professionalHandler.CreateProfessional))
	r.mux.Handle("GET /api/professionals", protected(r.professionalHandler.ListProfessionals))
	r.mux.Handle("GET /api/professionals/{id}", protected(r.professionalHandler.GetProfessional))
	r.mux.Handle("PUT /api/professionals/{id}", protected(r.professionalHandler.UpdateProfessional))
	r.mux.Handle("DELETE /api/professionals/{id}", protected(r.professionalHandler.DeleteProfessional))

	// Document endpoints
	r.mux.Handle("POST /api/documents", protected(r.documentHandler.UploadDocument))
	r.mux.Handle("GET /api/documents", protected(r.documentHandler.ListDocuments))
	r.mux.Handle("GET /api/documents/{id}", protected(r.documentHandler.GetDocument))
	r.mux.Handle("GET /api/documents/{id}/content", protected(r.documentHandler.DownloadDocument))
	r.mux.Handle("DELETE /api/documents/{id}", protected(r.documentHandler.DeleteDocument))

	// Share endpoints; redemption is public, the code is the credential
	r.mux.Handle("POST /api/shares", protected(r.shareHandler.CreateSession))
	r.mux.Handle("GET /api/shares", protected(r.shareHandler.ListSessions))
	r.mux.Handle("DELETE /api/shares/{id}", protected(r.shareHandler.RevokeSession))
	r.mux.HandleFunc("GET /api/shared/{code}", r.shareHandler.RedeemCode)
	r.mux.HandleFunc("GET /api/shared/{code}/documents/{id}", r.shareHandler.DownloadSharedDocument)

	// Notification endpoints
	r.mux.Handle("GET /api/notifications", protected(r.notificationHandler.ListNotifications))
	r.mux.Handle("POST /api/notifications/{id}/read", protected(r.notificationHandler.MarkRead))

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}

	if r.rateLimiter != nil {
		handler = r.rateLimiter.Middleware(handler)
	}

	// CORS wraps everything so headers are set on every response
	handler = middleware.CORSMiddleware(handler)

	return handler
}
