package setup

import (
	"context"
	"time"

	"github.com/wayapps/waysite/internal/config"
	"github.com/wayapps/waysite/internal/googleid"
	"github.com/wayapps/waysite/internal/handler"
	"github.com/wayapps/waysite/internal/middleware"
	"github.com/wayapps/waysite/internal/service"
	"github.com/wayapps/waysite/internal/storage/pg"
	"github.com/wayapps/waysite/internal/token"
)

const defaultSweepInterval = 1 * time.Hour

// Dependencies holds all initialized application components.
type Dependencies struct {
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Config         *config.Config
	Sweeper        *service.AttemptSweeper
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwt := token.New(cfg.JwtKey(), cfg.JwtTTL())

	// Federated sign-in is optional: without a project id the middleware
	// only accepts self-issued tokens.
	var federated *googleid.Verifier
	var federatedVerifier middleware.Verifier
	if cfg.Public.FirebaseProjectId != "" {
		federated = googleid.New(googleid.Config{
			ProjectId:   cfg.Public.FirebaseProjectId,
			AdminEmails: cfg.AdminEmails(),
		})
		federatedVerifier = federated
	}

	auth := service.NewAuth(storage, jwt, federatedServiceVerifier(federated), cfg)
	users := service.NewUser(storage)
	reviews := service.NewReview(storage)
	blog := service.NewBlog(storage)
	contacts := service.NewContact(storage)
	announcements := service.NewAnnouncement(storage)
	settings := service.NewSettings(storage)
	stats := service.NewStats(storage)
	sweeper := service.NewAttemptSweeper(storage)

	interval := cfg.Public.SweepInterval
	if interval == 0 {
		interval = defaultSweepInterval
	}
	sweeper.StartBackground(ctx, interval)

	h := handler.New(auth, users, reviews, blog, contacts, announcements, settings, stats, cfg, storage.Ping)
	authMw := middleware.NewAuth(jwt, federatedVerifier, cfg.Public.TrustedProxy)

	return &Dependencies{
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: authMw,
		Config:         cfg,
		Sweeper:        sweeper,
	}, nil
}

// federatedServiceVerifier adapts the optional verifier to the auth service,
// turning the nil case into a typed interface safely.
func federatedServiceVerifier(v *googleid.Verifier) service.FederatedVerifier {
	if v == nil {
		return nil
	}
	return v
}
