package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/schedulewise/backend/internal/auth"
	"github.com/schedulewise/backend/internal/middleware"
	"github.com/schedulewise/backend/internal/schedule"
)

// New assembles the full HTTP surface: public auth routes plus the guarded
// event and profile routes.
func New(users auth.UserStore, tokens *auth.Tokens, events schedule.EventStore, profiles schedule.ProfileStore) http.Handler {
	authHandler := auth.NewHandler(users, tokens)
	scheduleHandler := schedule.NewHandler(events, profiles)
	requireAuth := middleware.RequireAuth(tokens, users)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"ScheduleWise API","status":"running"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes (public except /me)
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(requireAuth).Get("/me", authHandler.Me)
	})

	// Event routes (protected)
	r.Route("/api/events", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", scheduleHandler.ListEvents)
		r.Post("/", scheduleHandler.CreateEvent)
		r.Get("/{id}", scheduleHandler.GetEvent)
		r.Put("/{id}", scheduleHandler.UpdateEvent)
		r.Delete("/{id}", scheduleHandler.DeleteEvent)
	})

	// Profile routes (protected)
	r.Route("/api/profile", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", scheduleHandler.GetProfile)
		r.Put("/", scheduleHandler.UpdateProfile)
	})

	return r
}
