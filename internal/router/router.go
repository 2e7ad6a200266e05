package router

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/wayapps/waysite/internal/middleware"
	"github.com/wayapps/waysite/internal/middleware/metrics"
	rl "github.com/wayapps/waysite/internal/middleware/ratelimiter"
	"github.com/wayapps/waysite/internal/setup"
)

// New creates and configures the mux router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints combined in that subrouter
func New(deps *setup.Dependencies) *mux.Router {
	r := mux.NewRouter()
	cfg := deps.Config

	r.Use(mw.RequestID)
	r.Use(metrics.Middleware)

	// Enable gzip compression for all responses
	r.Use(handlers.CompressHandler)

	// setup CORS for the site frontend and admin console
	r.Use(handlers.CORS(
		handlers.AllowedOrigins(cfg.Public.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	))

	// JSON API only, no scripts/styles needed
	apiCSP := "default-src 'none'; frame-ancestors 'none'"
	r.Use(mw.SecurityHeaders(cfg.Public.SecureCookies, apiCSP))

	// Add a wildcard OPTIONS handler to avoid 404s for preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	h := deps.Handler
	authMw := deps.AuthMiddleware
	ipKey := mw.IPKey(cfg.Public.TrustedProxy)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Use(mw.GlobalRateLimit(rl.Rps100()))

	v1.HandleFunc("/health", h.Health).Methods("GET")

	// Auth routes
	auth := v1.PathPrefix("/auth").Subrouter()
	authLogin := auth.NewRoute().Subrouter()
	authLogin.Use(mw.RateLimit(rl.New(1, 3, 1*time.Hour), ipKey)) // burst of 3, then 1/s by IP
	authLogin.HandleFunc("/register", h.Register).Methods("POST")
	authLogin.HandleFunc("/login", h.Login).Methods("POST")
	authLogin.HandleFunc("/google", h.GoogleLogin).Methods("POST")

	auth.HandleFunc("/logout", h.Logout).Methods("POST")
	auth.Handle("/me", authMw.RequireAuth()(http.HandlerFunc(h.Me))).Methods("GET")
	auth.Handle("/refresh", authMw.RequireAuth()(http.HandlerFunc(h.Refresh))).Methods("POST")

	// Public content
	v1.HandleFunc("/reviews", h.ApprovedReviews).Methods("GET")
	v1.HandleFunc("/reviews/stats", h.ReviewStats).Methods("GET")
	v1.HandleFunc("/reviews/{id:[0-9]+}", h.ApprovedReview).Methods("GET")
	// Submissions: 5 per hour per IP, attributed when a session is present.
	// OptionalAuth runs first so the limiter sees admin sessions and skips them.
	submitReview := mw.RateLimit(rl.PerHour(5), ipKey)(http.HandlerFunc(h.SubmitReview))
	v1.Handle("/reviews", authMw.OptionalAuth()(submitReview)).Methods("POST")

	v1.HandleFunc("/blog", h.PublishedPosts).Methods("GET")
	v1.HandleFunc("/blog/categories", h.Categories).Methods("GET")
	v1.HandleFunc("/blog/{slug}", h.PostBySlug).Methods("GET")

	v1.HandleFunc("/announcements", h.PublishedAnnouncements).Methods("GET")
	v1.HandleFunc("/settings", h.PublicSettings).Methods("GET")
	v1.HandleFunc("/apps", h.Apps).Methods("GET")

	// Contact form: 3 per hour per IP
	v1.Handle("/contact", mw.RateLimit(rl.PerHour(3), ipKey)(http.HandlerFunc(h.SubmitContact))).Methods("POST")
	v1.HandleFunc("/contact/info", h.ContactInfo).Methods("GET")

	v1.HandleFunc("/stats/visit", h.TrackVisit).Methods("POST")

	// Logged-in user routes
	user := v1.PathPrefix("/user").Subrouter()
	user.Use(authMw.RequireAuth())
	user.HandleFunc("/profile", h.Profile).Methods("GET")
	user.HandleFunc("/profile", h.UpdateProfile).Methods("PUT")
	user.HandleFunc("/password", h.ChangePassword).Methods("PUT")
	user.HandleFunc("/account", h.DeleteAccount).Methods("DELETE")
	user.HandleFunc("/reviews", h.MyReviews).Methods("GET")
	user.HandleFunc("/inquiries", h.MyInquiries).Methods("GET")
	user.HandleFunc("/reviews/{id}", h.DeleteMyReview).Methods("DELETE")

	// Admin console routes
	admin := v1.PathPrefix("/admin").Subrouter()
	admin.Use(authMw.AdminOnly())
	admin.HandleFunc("/dashboard", h.Dashboard).Methods("GET")

	admin.HandleFunc("/reviews", h.AdminReviews).Methods("GET")
	admin.HandleFunc("/reviews/{id}/status", h.SetReviewStatus).Methods("PUT")
	admin.HandleFunc("/reviews/{id}", h.DeleteReview).Methods("DELETE")

	admin.HandleFunc("/blog", h.AdminPosts).Methods("GET")
	admin.HandleFunc("/blog", h.CreatePost).Methods("POST")
	admin.HandleFunc("/blog/{id}", h.AdminPost).Methods("GET")
	admin.HandleFunc("/blog/{id}", h.UpdatePost).Methods("PUT")
	admin.HandleFunc("/blog/{id}", h.DeletePost).Methods("DELETE")

	admin.HandleFunc("/announcements", h.AdminAnnouncements).Methods("GET")
	admin.HandleFunc("/announcements", h.CreateAnnouncement).Methods("POST")
	admin.HandleFunc("/announcements/{id}", h.UpdateAnnouncement).Methods("PUT")
	admin.HandleFunc("/announcements/{id}", h.DeleteAnnouncement).Methods("DELETE")

	admin.HandleFunc("/contacts", h.AdminContacts).Methods("GET")
	admin.HandleFunc("/contacts/{id}/status", h.SetContactStatus).Methods("PUT")
	admin.HandleFunc("/contacts/{id}", h.DeleteContact).Methods("DELETE")

	admin.HandleFunc("/settings", h.UpdateSettings).Methods("PUT")
	admin.HandleFunc("/apps", h.SetApps).Methods("PUT")

	return r
}
