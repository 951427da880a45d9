package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports backing store health; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewRouter builds the HTTP surface. db may be nil, in which case /healthz
// only reports that the process is up.
func NewRouter(service QuizService, db Pinger) http.Handler {
	api := NewAPI(service)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(instrument)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMethodNotAllowed(w)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "error": "database unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/quizzes", func(qr chi.Router) {
		qr.Get("/", api.HandleListQuizzes)
		qr.Post("/", api.HandleCreateQuiz)
		qr.Get("/{quiz_id}", api.HandleGetQuiz)
		qr.Post("/{quiz_id}/attempts", api.HandleSubmitAttempt)
	})
	r.Get("/attempts/{attempt_id}", api.HandleGetAttempt)
	r.Get("/users/{username}/attempts", api.HandleUserAttempts)
	r.Get("/users/{username}/stats", api.HandleUserStats)

	return r
}
