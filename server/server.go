package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"partyinvite/auth"
	"partyinvite/config"
	"partyinvite/database"
	"partyinvite/handlers"
	"partyinvite/middleware"
	"partyinvite/sl"
)

type Deps struct {
	Config *config.Config
	Log    *slog.Logger
	Store  database.Store
	Auth   *auth.Service
	Tokens *auth.Issuer
}

func NewRouter(d Deps) http.Handler {
	authHandler := handlers.NewAuthHandler(d.Auth, d.Log)
	invitationHandler := handlers.NewInvitationHandler(d.Config, d.Store, d.Log)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.RequestLogger(d.Log))
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(middleware.Timeout(d.Config.Listen.RequestTimeout))
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(handlers.NotFound)
	router.MethodNotAllowed(handlers.MethodNotAllowed)

	// Public routes
	router.Get("/", handlers.Health(d.Store, d.Log))
	router.Post("/register", authHandler.Register)
	router.Post("/login", authHandler.Login)

	// Guest routes: the invitation id is the capability
	router.Route("/public/{id}", func(r chi.Router) {
		r.Get("/", invitationHandler.PublicGet)
		r.Put("/confirm", invitationHandler.Confirm)
	})

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(d.Log, d.Tokens))

		r.Post("/invitations", invitationHandler.Create)
		r.Get("/invitations", invitationHandler.List)
		r.Get("/invitations/{id}", invitationHandler.Get)
		r.Delete("/invitations/{id}", invitationHandler.Delete)
	})

	return router
}

// Run serves handler until ctx is cancelled, then drains open requests.
func Run(ctx context.Context, cfg config.Listen, log *slog.Logger, handler http.Handler) error {
	log = log.With(sl.Module("server"))
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ErrorLog:     slog.NewLogLogger(log.Handler(), slog.LevelError),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting api server", slog.String("address", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
