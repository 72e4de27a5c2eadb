package http

import (
	"github.com/MKhiriev/oni-auth/internal/app"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Init builds the router.
//
// Every route lives under [app.APIBasePath] except the operational ones
// (/healthz and /metrics). Routes behind csrfCheck additionally require the
// X-CSRF-Token header obtained from /request-csrftoken.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withMetrics)
	router.Use(cors.Handler(h.corsOptions()))
	if h.server.RequestTimeout > 0 {
		router.Use(middleware.Timeout(h.server.RequestTimeout))
	}
	router.Use(middleware.Compress(5, "application/json"))

	router.Get("/healthz", h.healthz)
	router.Handle("/metrics", promhttp.Handler())

	router.Route(app.APIBasePath, func(r chi.Router) {
		// routes without a session
		r.Group(func(r chi.Router) {
			r.Post("/login", h.login)
			r.Get("/logout", h.logout)
			r.Post("/register", h.register)
			r.Get("/register/confirm", h.confirmRegistration)
			r.Post("/forgotpassword", h.forgotPassword)
			r.Get("/resetpassword", h.resetPassword)
			r.Get("/google", h.externalSignIn)
			r.With(h.csrfIssue).Get("/google/callback", h.externalSignInCallback)
			r.Get("/version", h.getServerVersion)
		})

		// session routes
		r.Group(func(r chi.Router) {
			r.Use(h.session)

			r.With(h.csrfIssue).Post("/request-csrftoken", h.requestCSRFToken)
			r.Get("/session/refresh", h.refreshSession)

			r.Group(func(r chi.Router) {
				r.Use(h.csrfCheck)

				r.Get("/me", h.me)
				r.Put("/password", h.updatePassword)

				r.Group(func(r chi.Router) {
					r.Use(h.adminOnly)

					r.Post("/register/approve", h.registerApprove)
					r.Post("/register/deny", h.registerDeny)
				})
			})
		})
	})

	router.NotFound(notFound)
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

func (h *Handler) corsOptions() cors.Options {
	origins := make([]string, 0, len(h.server.AllowedOrigins)+1)
	if h.app.FrontendURL != "" {
		origins = append(origins, h.app.FrontendURL)
	}
	origins = append(origins, h.server.AllowedOrigins...)

	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", csrfHeaderName, traceIDHeader, "Authorization"},
		ExposedHeaders:   []string{traceIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}
}
