package main

import (
	"context"
	"fmt"

	"github.com/eriktmidtun/secfit-auth/internal/config"
	myHTTP "github.com/eriktmidtun/secfit-auth/internal/handler/http"
	"github.com/eriktmidtun/secfit-auth/internal/logger"
	"github.com/eriktmidtun/secfit-auth/internal/mailer"
	"github.com/eriktmidtun/secfit-auth/internal/server"
	"github.com/eriktmidtun/secfit-auth/internal/service"
	"github.com/eriktmidtun/secfit-auth/internal/store"
	"github.com/eriktmidtun/secfit-auth/internal/workers"
	"github.com/eriktmidtun/secfit-auth/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("secfit-auth-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	if err := migrations.Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	storages := store.NewStorages(db, log)

	services := service.NewServices(storages, mailer.New(cfg.Mailer, log), *cfg, log)

	handler := myHTTP.NewHandler(services, log)

	srv, err := server.NewServer(handler, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	janitor := workers.NewDenylistJanitor(storages.TokenDenylistRepository, cfg.Workers.JanitorInterval, log)
	workers.NewWorkers(janitor).Run()
	defer janitor.Stop()

	srv.RunServer()
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
