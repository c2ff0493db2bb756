package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/users/", h.register)
		r.Get("/api/users/verify/", h.verifyEmail)

		r.Post("/api/token/", h.login)
		r.Post("/api/token/refresh/", h.refresh)

		r.Post("/api/users/two_factor/login/", h.totpLogin)

		r.Post("/api/users/password-reset/", h.passwordResetRequest)
		r.Post("/api/users/password-reset/confirm/", h.passwordResetConfirm)

		r.Post("/api/remember_me/", h.rememberMeRedeem)
	})

	// routes that require an authenticated session
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/users/two_factor/totp_uri/", h.totpProvisionURI)
		r.Post("/api/users/two_factor/enable/", h.totpEnable)

		r.Get("/api/remember_me/", h.rememberMeIssue)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
