package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"partyinvite/auth"
	"partyinvite/config"
	"partyinvite/database"
	"partyinvite/logger"
	"partyinvite/server"
	"partyinvite/sl"
)

func main() {
	configPath := flag.String("conf", "", "path to config file (environment only when empty)")
	flag.Parse()

	// Load configuration
	cfg := config.MustLoad(*configPath)

	logg, err := logger.Setup(cfg.Env, cfg.Log.Path)
	if err != nil {
		log.Fatal(err)
	}
	logg.Info("starting partyinvite",
		slog.String("env", cfg.Env),
		slog.String("db_driver", cfg.Database.Driver),
		sl.Secret("jwt_secret", cfg.Auth.JWTSecret),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	store, err := database.Open(ctx, cfg.Database, logg)
	if err != nil {
		logg.Error("failed to initialize database", sl.Err(err))
		os.Exit(1)
	}
	defer store.Close()

	tokens := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration)
	authService, err := auth.NewService(store, tokens, cfg.Auth.BcryptCost, logg)
	if err != nil {
		logg.Error("failed to initialize auth", sl.Err(err))
		os.Exit(1)
	}
	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminName, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		logg.Error("failed to seed admin", sl.Err(err))
		os.Exit(1)
	}

	router := server.NewRouter(server.Deps{
		Config: cfg,
		Log:    logg,
		Store:  store,
		Auth:   authService,
		Tokens: tokens,
	})

	if err := server.Run(ctx, cfg.Listen, logg, router); err != nil {
		logg.Error("server stopped", sl.Err(err))
		os.Exit(1)
	}
}
