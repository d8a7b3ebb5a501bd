// Package server assembles the HTTP router: JSON API routes, the websocket
// endpoint and uploaded files.
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"skilllink/backend/cache"
	"skilllink/backend/config"
	"skilllink/backend/events"
	"skilllink/backend/handlers"
	"skilllink/backend/handlers/admin"
	"skilllink/backend/handlers/announcement"
	"skilllink/backend/handlers/auth"
	"skilllink/backend/handlers/chat"
	"skilllink/backend/handlers/connection"
	"skilllink/backend/handlers/httputil"
	"skilllink/backend/handlers/job"
	"skilllink/backend/handlers/media"
	"skilllink/backend/handlers/notifications"
	"skilllink/backend/handlers/profile"
	"skilllink/backend/handlers/project"
	"skilllink/backend/handlers/service"
	"skilllink/backend/handlers/status"
	"skilllink/backend/handlers/user"
	"skilllink/backend/hub"
	"skilllink/backend/models"
	"skilllink/backend/services/seed"
	"skilllink/backend/services/stats"
	"skilllink/backend/store"
	"skilllink/backend/telemetry"
)

// Deps is everything the routes need. Seeder may be nil; the test data
// route is only mounted when it is set and EnableTestData is on.
type Deps struct {
	Config *config.Config
	Logger *zap.Logger
	Store  store.Store
	Cache  cache.Cache
	Broker events.Broker
	Hub    *hub.Hub
	Tokens *auth.TokenManager
	Seeder *seed.Seeder
	Checks status.Checks
}

// NewRouter returns the CORS-wrapped application handler.
func NewRouter(d Deps) http.Handler {
	cfg, logger, st := d.Config, d.Logger, d.Store

	r := mux.NewRouter()
	r.Use(telemetry.Middleware, accessLog(logger))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.Error(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	protect := func(h http.Handler) http.Handler { return d.Tokens.Middleware(h) }
	optional := func(h http.Handler) http.Handler { return d.Tokens.Optional(h) }
	moderator := admin.RequireModerator(st, logger)
	adminOnly := admin.RequireAdmin(st, logger)
	dashboard := stats.New(st, d.Cache, cfg.CacheTTL, logger)
	feed := announcement.NewHandlers(st, d.Cache, cfg.CacheTTL, logger)

	api := r.PathPrefix("/api").Subrouter()

	// Public routes (no auth required)
	api.Handle("/auth/signup", auth.SignupHandler(st, d.Tokens, logger)).Methods("POST", "OPTIONS")
	api.Handle("/auth/login", auth.LoginHandler(st, d.Tokens, logger)).Methods("POST", "OPTIONS")
	api.Handle("/health", status.HealthHandler(d.Checks, logger)).Methods("GET")
	if cfg.EnableTestData && d.Seeder != nil {
		api.Handle("/test/generate-users", handlers.GenerateTestDataHandler(d.Seeder, logger)).Methods("POST", "OPTIONS")
	}

	// Auth and users
	api.Handle("/auth/user", protect(auth.CurrentUserHandler(st, logger))).Methods("GET")
	api.Handle("/users/profile", protect(user.UpdateProfileHandler(st, feed, logger))).Methods("PUT", "OPTIONS")
	api.Handle("/users/search", optional(user.SearchUsersHandler(st, logger))).Methods("GET")
	api.Handle("/users/{id:[0-9]+}", protect(user.GetUserHandler(st, logger))).Methods("GET")
	api.Handle("/users/{id:[0-9]+}/status", protect(profile.GetStatusHandler(st, logger))).Methods("GET")
	api.Handle("/me/status", protect(profile.GetMyStatusHandler(st, logger))).Methods("GET")
	api.Handle("/notifications", protect(notifications.GetNotificationsHandler(st, logger))).Methods("GET")

	// Upload routes
	api.Handle("/upload/profile-picture", protect(media.UploadProfilePictureHandler(st, cfg.UploadDir, logger))).Methods("POST", "OPTIONS")
	api.Handle("/upload/profile-picture", protect(media.DeleteProfilePictureHandler(st, cfg.UploadDir, logger))).Methods("DELETE")

	// Projects
	api.Handle("/projects", optional(project.ListProjectsHandler(st, logger))).Methods("GET")
	api.Handle("/projects", protect(project.CreateProjectHandler(st, logger))).Methods("POST", "OPTIONS")
	api.Handle("/projects/search", optional(project.SearchProjectsHandler(st, logger))).Methods("GET")
	api.Handle("/projects/{id:[0-9]+}", optional(project.GetProjectHandler(st, logger))).Methods("GET")
	api.Handle("/projects/{id:[0-9]+}/join", protect(project.JoinProjectHandler(st, logger))).Methods("POST", "OPTIONS")
	api.Handle("/projects/{id:[0-9]+}/participants", optional(project.ListParticipantsHandler(st, logger))).Methods("GET")
	api.Handle("/projects/{id:[0-9]+}/participants/{participantId:[0-9]+}/accept",
		protect(project.SetParticipantStatusHandler(st, models.ParticipantAccepted, logger))).Methods("POST", "OPTIONS")
	api.Handle("/projects/{id:[0-9]+}/participants/{participantId:[0-9]+}/reject",
		protect(project.SetParticipantStatusHandler(st, models.ParticipantRejected, logger))).Methods("POST", "OPTIONS")

	// Jobs
	api.Handle("/jobs", optional(job.ListJobsHandler(st, logger))).Methods("GET")
	api.Handle("/jobs", protect(job.CreateJobHandler(st, logger))).Methods("POST", "OPTIONS")
	api.Handle("/jobs/applications", protect(job.MyApplicationsHandler(st, logger))).Methods("GET")
	api.Handle("/jobs/applications/{id:[0-9]+}/status", protect(job.ApplicationStatusHandler(st, logger))).Methods("POST", "OPTIONS")
	api.Handle("/jobs/{id:[0-9]+}", optional(job.GetJobHandler(st, logger))).Methods("GET")
	api.Handle("/jobs/{id:[0-9]+}/apply", protect(job.ApplyHandler(st, logger))).Methods("POST", "OPTIONS")
	api.Handle("/jobs/{id:[0-9]+}/applications", protect(job.JobApplicationsHandler(st, logger))).Methods("GET")

	// Services
	api.Handle("/services", optional(service.ListServicesHandler(st, logger))).Methods("GET")
	api.Handle("/services", protect(service.CreateServiceHandler(st, logger))).Methods("POST", "OPTIONS")
	api.Handle("/services/search", optional(service.SearchServicesHandler(st, logger))).Methods("GET")
	api.Handle("/services/{id:[0-9]+}", optional(service.GetServiceHandler(st, logger))).Methods("GET")
	api.Handle("/services/{id:[0-9]+}/request", protect(service.RequestServiceHandler(st, logger))).Methods("POST", "OPTIONS")
	api.Handle("/services/{id:[0-9]+}/approve",
		protect(moderator(service.ApproveServiceHandler(st, d.Broker, logger)))).Methods("POST", "OPTIONS")

	// Feed
	api.Handle("/announcements", optional(http.HandlerFunc(feed.List))).Methods("GET")
	api.Handle("/announcements", protect(http.HandlerFunc(feed.Create))).Methods("POST", "OPTIONS")
	api.Handle("/announcements/{id:[0-9]+}/like", protect(http.HandlerFunc(feed.Like))).Methods("POST", "OPTIONS")
	api.Handle("/announcements/{id:[0-9]+}/like", protect(http.HandlerFunc(feed.Unlike))).Methods("DELETE")
	api.Handle("/announcements/{id:[0-9]+}/comments", optional(http.HandlerFunc(feed.ListComments))).Methods("GET")
	api.Handle("/announcements/{id:[0-9]+}/comments", protect(http.HandlerFunc(feed.CreateComment))).Methods("POST", "OPTIONS")

	// Messaging
	api.Handle("/messages", protect(chat.SendMessageHandler(st, d.Broker, logger))).Methods("POST", "OPTIONS")
	api.Handle("/messages", protect(chat.GetMessagesHandler(st, logger))).Methods("GET")
	api.Handle("/messages/unread-count", protect(chat.UnreadCountHandler(st, logger))).Methods("GET")
	api.Handle("/messages/{id:[0-9]+}/read", protect(chat.MarkMessageReadHandler(st, logger))).Methods("POST", "OPTIONS")
	api.Handle("/conversations", protect(chat.GetChatsHandler(st, logger))).Methods("GET")
	api.Handle("/conversations/{userId:[0-9]+}", protect(chat.GetChatMessagesHandler(st, logger))).Methods("GET")
	api.Handle("/conversations/{userId:[0-9]+}/read", protect(chat.MarkMessagesAsReadHandler(st, logger))).Methods("POST", "OPTIONS")

	// Connections
	api.Handle("/connections", protect(connection.GetConnectionsHandler(st, logger))).Methods("GET")
	api.Handle("/connections", protect(connection.CreateConnectionHandler(st, d.Broker, logger))).Methods("POST", "OPTIONS")
	api.Handle("/connections/pending", protect(connection.GetPendingHandler(st, logger))).Methods("GET")
	api.Handle("/connections/suggestions", protect(connection.GetSuggestionsHandler(st, logger))).Methods("GET")
	api.Handle("/connections/{id:[0-9]+}/accept",
		protect(connection.RespondConnectionHandler(st, d.Broker, models.ConnectionAccepted, logger))).Methods("POST", "OPTIONS")
	api.Handle("/connections/{id:[0-9]+}/reject",
		protect(connection.RespondConnectionHandler(st, d.Broker, models.ConnectionRejected, logger))).Methods("POST", "OPTIONS")
	api.Handle("/connections/{id:[0-9]+}", protect(connection.DeleteConnectionHandler(st, logger))).Methods("DELETE")

	// Admin panel
	mod := func(h http.Handler) http.Handler { return protect(moderator(h)) }
	api.Handle("/admin/pending-services", mod(admin.PendingServicesHandler(st, logger))).Methods("GET")
	api.Handle("/admin/services/{id:[0-9]+}", mod(admin.DeleteServiceHandler(st, dashboard, logger))).Methods("DELETE")
	api.Handle("/admin/service-requests", mod(admin.ServiceRequestsHandler(st, logger))).Methods("GET")
	api.Handle("/admin/service-requests/{id:[0-9]+}/approve",
		mod(admin.SetServiceRequestStatusHandler(st, models.RequestApproved, logger))).Methods("POST", "OPTIONS")
	api.Handle("/admin/service-requests/{id:[0-9]+}/reject",
		mod(admin.SetServiceRequestStatusHandler(st, models.RequestRejected, logger))).Methods("POST", "OPTIONS")
	api.Handle("/admin/service-requests/{id:[0-9]+}/complete",
		mod(admin.SetServiceRequestStatusHandler(st, models.RequestCompleted, logger))).Methods("POST", "OPTIONS")
	api.Handle("/admin/users", mod(admin.UsersHandler(st, logger))).Methods("GET")
	api.Handle("/admin/users/{id:[0-9]+}/role", protect(adminOnly(admin.SetRoleHandler(st, logger)))).Methods("POST", "OPTIONS")
	api.Handle("/admin/stats", mod(admin.StatsHandler(dashboard, logger))).Methods("GET")

	// Realtime
	r.Handle("/ws", d.Hub.Handler())

	// Uploaded files
	r.PathPrefix(media.URLPrefix).Handler(http.StripPrefix(media.URLPrefix, noListing(http.FileServer(http.Dir(cfg.UploadDir)))))

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	})
	return c.Handler(r)
}

// New returns the HTTP server listening on the configured port.
func New(d Deps) *http.Server {
	return &http.Server{
		Addr:              ":" + d.Config.Port,
		Handler:           NewRouter(d),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
