package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"aozu-ops-hub/internal/config"
	"aozu-ops-hub/internal/middleware"
	"aozu-ops-hub/pkg/response"
)

type Handlers struct {
	Auth      *AuthHandler
	Sync      *SyncHandler
	Personal  *PersonalHandler
	Learning  *LearningHandler
	Templates *TemplateHandler
	Reference *ReferenceHandler
	WebSocket *WebSocketHandler
}

type RouterOptions struct {
	Logger   *zap.Logger
	Identity middleware.Identity
	CORS     config.CORSConfig
	// RateLimiter is optional; nil disables rate limiting.
	RateLimiter *middleware.RateLimiter
}

func NewRouter(h Handlers, opts RouterOptions) *mux.Router {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := mux.NewRouter()
	r.Use(middleware.IdentityMiddleware(opts.Identity))
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.CORSMiddleware(opts.CORS))

	api := r.PathPrefix("/api/v1").Subrouter()
	if opts.RateLimiter != nil {
		api.Use(opts.RateLimiter.Middleware)
	}

	api.HandleFunc("/auth/session", h.Auth.Session).Methods("GET", "OPTIONS")
	api.HandleFunc("/auth/session", h.Auth.SignIn).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/session", h.Auth.SignOut).Methods("DELETE", "OPTIONS")

	api.HandleFunc("/sync/status", h.Sync.Status).Methods("GET", "OPTIONS")
	api.HandleFunc("/sync/pull", h.Sync.Pull).Methods("POST", "OPTIONS")
	api.HandleFunc("/sync/push", h.Sync.Push).Methods("POST", "OPTIONS")

	api.HandleFunc("/checklist", h.Personal.GetChecklist).Methods("GET", "OPTIONS")
	api.HandleFunc("/checklist", h.Personal.ReplaceChecklist).Methods("PUT", "OPTIONS")
	api.HandleFunc("/checklist", h.Personal.ResetChecklist).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/checklist/{item}", h.Personal.SetChecklistItem).Methods("PUT", "OPTIONS")
	api.HandleFunc("/notes", h.Personal.GetNotes).Methods("GET", "OPTIONS")
	api.HandleFunc("/notes", h.Personal.SetNotes).Methods("PUT", "OPTIONS")
	api.HandleFunc("/rules", h.Personal.ListRules).Methods("GET", "OPTIONS")
	api.HandleFunc("/rules/{id}", h.Personal.SetRule).Methods("PUT", "OPTIONS")

	api.HandleFunc("/learning-logs", h.Learning.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/learning-logs", h.Learning.Create).Methods("POST", "OPTIONS")
	api.HandleFunc("/learning-logs/export", h.Learning.Export).Methods("GET", "OPTIONS")
	api.HandleFunc("/learning-logs/{id}", h.Learning.Delete).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/insights", h.Learning.Insights).Methods("GET", "OPTIONS")

	api.HandleFunc("/templates", h.Templates.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/templates", h.Templates.Create).Methods("POST", "OPTIONS")
	api.HandleFunc("/templates/{id}", h.Templates.Delete).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/templates/{id}/copy", h.Templates.Copy).Methods("GET", "OPTIONS")

	api.HandleFunc("/sop", h.Reference.ListSOP).Methods("GET", "OPTIONS")
	api.HandleFunc("/calculator/policies", h.Reference.Platforms).Methods("GET", "OPTIONS")
	api.HandleFunc("/calculator/policies/{platform}", h.Reference.PolicyTable).Methods("GET", "OPTIONS")
	api.HandleFunc("/calculator/refund", h.Reference.Refund).Methods("POST", "OPTIONS")

	if h.WebSocket != nil {
		r.HandleFunc("/ws", h.WebSocket.HandleConnection)
	}
	r.HandleFunc("/health", healthHandler).Methods("GET")

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{
		"status":  "healthy",
		"service": "aozu-ops-hub",
	})
}
