package hc

import (
	"context"
	"net/http"
	"time"

	"lending/handler/render"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// PauseChecker reports whether user operations are paused
type PauseChecker interface {
	Paused(ctx context.Context) (bool, error)
}

// Handle handle hc request
func Handle(ver string, pauses PauseChecker) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver, pauses))
	return r
}

func handle(version string, pauses PauseChecker) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		paused, err := pauses.Paused(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		uptime := time.Since(b).Truncate(time.Millisecond)
		render.JSON(w, render.H{
			"uptime":  uptime.String(),
			"version": version,
			"paused":  paused,
		})
	}
}
