package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"levelquest/internal/engine"
)

// Server exposes the gameplay engine over HTTP for the web client.
type Server struct {
	svc    *engine.Service
	router *chi.Mux
	log    zerolog.Logger
}

func NewServer(svc *engine.Service, log zerolog.Logger) *Server {
	s := &Server{svc: svc, log: log}
	s.setupRouter()
	return s
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", s.handleStats)
		r.Get("/analytics", s.handleAnalytics)

		r.Route("/habits", func(r chi.Router) {
			r.Get("/", s.handleListHabits)
			r.Post("/", s.handleCreateHabit)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetHabit)
				r.Patch("/", s.handleUpdateHabit)
				r.Delete("/", s.handleDeleteHabit)
				r.Post("/toggle", s.handleToggleCompletion)
			})
		})

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", s.handleListGoals)
			r.Post("/", s.handleCreateGoal)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetGoal)
				r.Patch("/", s.handleUpdateGoal)
				r.Delete("/", s.handleDeleteGoal)
				r.Post("/steps", s.handleAddGoalStep)
				r.Post("/steps/{stepId}/toggle", s.handleToggleGoalStep)
			})
		})

		r.Route("/achievements", func(r chi.Router) {
			r.Get("/", s.handleListAchievements)
			r.Get("/unlocked", s.handleListUnlockedAchievements)
			r.Post("/{key}/unlock", s.handleUnlockAchievement)
			r.Post("/check", s.handleCheckAchievements)
		})

		r.Route("/shop", func(r chi.Router) {
			r.Get("/items", s.handleShopItems)
			r.Get("/inventory", s.handleInventory)
			r.Post("/purchase", s.handlePurchase)
			r.Post("/use", s.handleUseItem)
		})
	})

	s.router = r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
