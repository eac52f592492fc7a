package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/critpath/internal/cli"
	"github.com/alexanderramin/critpath/internal/config"
	"github.com/alexanderramin/critpath/internal/db"
	"github.com/alexanderramin/critpath/internal/repository"
	"github.com/alexanderramin/critpath/internal/scheduler"
	"github.com/alexanderramin/critpath/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadConfig()

	cat, err := cfg.Catalog()
	if err != nil {
		return err
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	siteRepo := repository.NewSQLiteSiteRepo(database)
	scenarioRepo := repository.NewSQLiteScenarioRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	engine := scheduler.New(cat, scheduler.WithRiskThresholds(cfg.Risk))

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogUseCases {
		observer = service.NewSlogUseCaseObserver(cfg.Logger(os.Stderr))
	}

	app := &cli.App{
		Sites:         service.NewSiteService(siteRepo, uow, engine, observer),
		Scenarios:     service.NewScenarioService(siteRepo, scenarioRepo, engine, observer),
		Portfolio:     service.NewPortfolioService(siteRepo, engine, cfg.Workers, observer),
		Catalog:       cat,
		MinConfidence: cfg.MinConfidence,
	}

	// Detect interactive terminal for form-based entry.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
