package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/oni-auth/internal/app"
	"github.com/MKhiriev/oni-auth/internal/config"
	"github.com/MKhiriev/oni-auth/internal/handler/http"
	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/internal/mail"
	"github.com/MKhiriev/oni-auth/internal/server"
	"github.com/MKhiriev/oni-auth/internal/service"
	"github.com/MKhiriev/oni-auth/internal/social"
	"github.com/MKhiriev/oni-auth/internal/store"
	"github.com/MKhiriev/oni-auth/internal/workers"
	"github.com/MKhiriev/oni-auth/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("oni-auth-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	sender, err := mail.NewSender(cfg.Mail, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating mail sender")
	}
	renderer, err := mail.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("error parsing mail templates")
	}
	dispatcher := mail.NewDispatcher(sender, renderer, cfg.Mail, cfg.Workers, log)

	background := workers.NewWorkers(dispatcher)
	background.Run(ctx)

	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	services, err := service.NewServices(storages, dispatcher, cfg.App, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handler := http.NewHandler(services, storages, cfg.App, cfg.Server, log)
	if cfg.OAuth.GoogleEnabled() {
		callbackURL := strings.TrimSuffix(cfg.App.BackendURL, "/") + app.APIBasePath + "/google/callback"
		handler.WithSocialProvider(social.NewGoogleProvider(cfg.OAuth, callbackURL))
		log.Info().Str("callback_url", callbackURL).Msg("sign-in with google enabled")
	}

	srv, err := server.NewServer(handler.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(); err != nil {
		log.Err(err).Msg("server stopped with error")
	}

	// drain queued emails before the process exits
	cancel()
	background.Wait()
	log.Info().Msg("background workers stopped")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
