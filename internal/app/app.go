package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/common"
	"github.com/ternarybob/brandforge/internal/handlers"
	"github.com/ternarybob/brandforge/internal/interfaces"
	"github.com/ternarybob/brandforge/internal/pipeline"
	"github.com/ternarybob/brandforge/internal/services/assembler"
	"github.com/ternarybob/brandforge/internal/services/colors"
	"github.com/ternarybob/brandforge/internal/services/content"
	"github.com/ternarybob/brandforge/internal/services/llm"
	"github.com/ternarybob/brandforge/internal/services/logos"
	"github.com/ternarybob/brandforge/internal/services/retention"
	"github.com/ternarybob/brandforge/internal/services/scraper"
	"github.com/ternarybob/brandforge/internal/services/typography"
	badgerstore "github.com/ternarybob/brandforge/internal/storage/badger"
	"github.com/ternarybob/brandforge/internal/storage/documents"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	DB         *badgerstore.BadgerDB
	JobStorage interfaces.JobStorage
	Results    interfaces.ResultStorage

	// Extraction services
	Scraper    interfaces.ScraperService
	Colors     interfaces.ColorExtractor
	Typography interfaces.TypographyExtractor
	Logos      interfaces.LogoExtractor

	// Generation services
	LLMService interfaces.LLMService
	Content    interfaces.ContentGenerator
	Assembler  interfaces.Assembler

	// Job execution
	Orchestrator *pipeline.Orchestrator
	WorkerPool   *pipeline.WorkerPool

	// Background maintenance
	Cleaner *retention.Cleaner

	// HTTP handlers
	APIHandler *handlers.APIHandler
	JobHandler *handlers.JobHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.DB.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initPipeline()
	app.initHandlers()

	if err := app.WorkerPool.Start(context.Background()); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to start worker pool: %w", err)
	}

	if err := app.Cleaner.Start(); err != nil {
		logger.Warn().Err(err).Msg("Document retention cleaner could not be scheduled")
	}

	logger.Info().
		Str("llm_provider", app.LLMService.ProviderName()).
		Bool("llm_available", app.LLMService.IsAvailable()).
		Msg("Application initialization complete")

	return app, nil
}

// initStorage initializes BadgerDB job state and the document store
func (a *App) initStorage() error {
	db, err := badgerstore.NewBadgerDB(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to open badger database: %w", err)
	}
	a.DB = db
	a.JobStorage = badgerstore.NewJobStorage(db, a.Logger)

	results, err := documents.NewStore(a.Config.Storage.Documents.Dir, a.Logger)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to open document store: %w", err)
	}
	a.Results = results

	return nil
}

// initServices constructs the scrape, extraction, and generation services
func (a *App) initServices() error {
	scraperService, err := scraper.NewService(&a.Config.Scraper, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to start browser pool: %w", err)
	}
	a.Scraper = scraperService

	a.Colors = colors.NewExtractor(a.Logger)
	a.Typography = typography.NewExtractor(a.Logger)
	a.Logos = logos.NewExtractor(&a.Config.Scraper, a.Logger)

	llmService, err := llm.NewLLMService(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize llm service: %w", err)
	}
	a.LLMService = llmService

	a.Content = content.NewGenerator(a.LLMService, &a.Config.LLM, a.Logger)
	a.Assembler = assembler.NewBuilder(a.Logger)
	a.Cleaner = retention.NewCleaner(a.Results, &a.Config.Retention, a.Logger)

	return nil
}

// initPipeline wires the orchestrator and worker pool over the services
func (a *App) initPipeline() {
	a.Orchestrator = pipeline.NewOrchestrator(pipeline.OrchestratorDeps{
		Jobs:       a.JobStorage,
		Results:    a.Results,
		Scraper:    a.Scraper,
		Colors:     a.Colors,
		Typography: a.Typography,
		Logos:      a.Logos,
		Content:    a.Content,
		Assembler:  a.Assembler,
	}, &a.Config.Pipeline, a.Logger)

	a.WorkerPool = pipeline.NewWorkerPool(a.Orchestrator, a.JobStorage, &a.Config.Pipeline, a.Logger)
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler()
	a.JobHandler = handlers.NewJobHandler(a.JobStorage, a.Results, a.WorkerPool, a.Logger)
}

// Close shuts down components in reverse dependency order
func (a *App) Close() error {
	if a.WorkerPool != nil {
		a.WorkerPool.Stop()
		a.Logger.Info().Msg("Worker pool stopped")
	}

	if a.Cleaner != nil {
		a.Cleaner.Stop()
	}

	if a.Scraper != nil {
		if err := a.Scraper.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close browser pool")
		}
	}

	// JobStorage.Close closes the underlying BadgerDB
	if a.JobStorage != nil {
		if err := a.JobStorage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close job storage")
			return err
		}
	} else if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close badger database")
			return err
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
