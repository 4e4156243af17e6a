package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/redvibe-dev/redvibe/internal/middleware"
	"github.com/redvibe-dev/redvibe/internal/middleware/metrics"
	rl "github.com/redvibe-dev/redvibe/internal/middleware/ratelimiter"
	"github.com/redvibe-dev/redvibe/internal/setup"
)

// New configures the chi router with all routes.
// Rate limits attached with Group apply to every endpoint in that group combined.
func New(deps *setup.Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// JSON API only, no scripts or styles needed.
	apiCSP := "default-src 'none'; frame-ancestors 'none'"
	r.Use(mw.SecurityHeadersWithCSP(deps.Config.Public.SecureCookies, apiCSP))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Route("/auth", func(auth chi.Router) {
			auth.Group(func(g chi.Router) {
				g.Use(mw.RateLimit(rl.New(1.0/10, 3, 1*time.Hour), mw.GetIP)) // signup: 1 per 10s by IP
				g.Post("/signup", h.Signup)
			})
			auth.Group(func(g chi.Router) {
				g.Use(mw.RateLimit(rl.OnceInSecond(), mw.GetIP)) // login: 1 per second by IP
				g.Post("/login", h.Login)
			})
			auth.Post("/logout", h.Logout)
		})

		// Public browsing; auth attaches the viewer when a valid token is present.
		v1.Group(func(g chi.Router) {
			g.Use(authMw.OptionalAuth())
			g.Get("/feed", h.Feed)
			g.Get("/posts/{post}", h.GetPost)
			g.Get("/users/{user}/profile", h.Profile)
		})

		v1.Group(func(g chi.Router) {
			g.Use(authMw.NeedAuth())
			g.Use(mw.RateLimit(rl.Rps100(), mw.GetUserIDFromContext))

			g.Post("/onboarding/ack", h.AckOnboarding)
			g.Post("/posts/{post}/like", h.ToggleLike)
			g.Post("/posts/{post}/comments", h.AddComment)
			g.Post("/users/{user}/follow", h.ToggleFollow)
			g.Post("/posts/{post}/report", h.FileReport)

			// Uploads: 1 per 10 seconds per user
			g.With(mw.RateLimit(rl.New(1.0/10, 1, 1*time.Hour), mw.GetUserIDFromContext)).
				Post("/posts", h.CreatePost)
		})

		v1.Group(func(g chi.Router) {
			g.Use(authMw.StaffOnly())
			g.Get("/admin/dashboard", h.AdminDashboard)
			g.Post("/admin/actions", h.AdminAction)
		})

		v1.Get("/media/*", h.ServeMedia)
	})

	return r
}
