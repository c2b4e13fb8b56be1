package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/common"
	"github.com/ternarybob/brandforge/internal/interfaces"
	"github.com/ternarybob/brandforge/internal/models"
)

// Orchestrator runs one job through the stage sequence. It is the
// only writer of job status: stages return values or stage-fatal
// errors, never touch the store themselves.
type Orchestrator struct {
	jobs       interfaces.JobStorage
	results    interfaces.ResultStorage
	scraper    interfaces.ScraperService
	colors     interfaces.ColorExtractor
	typography interfaces.TypographyExtractor
	logos      interfaces.LogoExtractor
	content    interfaces.ContentGenerator
	assembler  interfaces.Assembler
	config     *common.PipelineConfig
	logger     arbor.ILogger
}

type OrchestratorDeps struct {
	Jobs       interfaces.JobStorage
	Results    interfaces.ResultStorage
	Scraper    interfaces.ScraperService
	Colors     interfaces.ColorExtractor
	Typography interfaces.TypographyExtractor
	Logos      interfaces.LogoExtractor
	Content    interfaces.ContentGenerator
	Assembler  interfaces.Assembler
}

func NewOrchestrator(deps OrchestratorDeps, config *common.PipelineConfig, logger arbor.ILogger) *Orchestrator {
	return &Orchestrator{
		jobs:       deps.Jobs,
		results:    deps.Results,
		scraper:    deps.Scraper,
		colors:     deps.Colors,
		typography: deps.Typography,
		logos:      deps.Logos,
		content:    deps.Content,
		assembler:  deps.Assembler,
		config:     config,
		logger:     logger,
	}
}

// Execute drives a pending job to a terminal state. Every error path
// ends in MarkFailed; progress freezes at the stage reached.
func (o *Orchestrator) Execute(ctx context.Context, jobID string) {
	job, err := o.jobs.GetJob(ctx, jobID)
	if err != nil {
		o.logger.Error().Err(err).Str("job_id", jobID).Msg("Job vanished before execution")
		return
	}
	if job.Status != models.JobStatusPending {
		o.logger.Warn().Str("job_id", jobID).Str("status", string(job.Status)).Msg("Skipping job not in pending state")
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, o.config.JobTimeout)
	defer cancel()

	start := time.Now()
	if err := o.run(jobCtx, job); err != nil {
		o.fail(jobID, err)
		return
	}

	o.logger.Info().
		Str("job_id", jobID).
		Str("url", job.URL).
		Dur("duration", time.Since(start)).
		Msg("Job completed")
}

func (o *Orchestrator) run(ctx context.Context, job *models.Job) error {
	// Scrape
	if err := o.advance(ctx, job.ID, models.JobStatusScraping, "Fetching website pages"); err != nil {
		return err
	}
	site, err := runStage(ctx, o.config.StageTimeout, func(sctx context.Context) (*models.ScrapedSite, error) {
		return o.scraper.Scrape(sctx, job.URL)
	})
	if err != nil {
		return stageFailure(models.JobStatusScraping, "The website could not be reached or rendered.", err)
	}

	brand := &models.ExtractedBrand{
		CompanyName: "",
		Domain:      common.DomainOf(job.URL),
		SourceURL:   job.URL,
	}

	// Colors
	if err := o.advance(ctx, job.ID, models.JobStatusExtractingColors, "Extracting color palette"); err != nil {
		return err
	}
	brand.Colors, err = runStage(ctx, o.config.StageTimeout, func(sctx context.Context) (models.ColorPalette, error) {
		return o.colors.Extract(sctx, site)
	})
	if err != nil {
		return stageFailure(models.JobStatusExtractingColors, "Color extraction did not finish in time.", err)
	}

	// Typography
	if err := o.advance(ctx, job.ID, models.JobStatusExtractingTypography, "Extracting typography"); err != nil {
		return err
	}
	brand.Typography, err = runStage(ctx, o.config.StageTimeout, func(sctx context.Context) (models.TypographySpec, error) {
		return o.typography.Extract(sctx, site)
	})
	if err != nil {
		return stageFailure(models.JobStatusExtractingTypography, "Typography extraction did not finish in time.", err)
	}

	// Logo: extraction errors are soft, an absent logo is a valid result
	if err := o.advance(ctx, job.ID, models.JobStatusExtractingLogo, "Locating logo"); err != nil {
		return err
	}
	logo, err := runStage(ctx, o.config.StageTimeout, func(sctx context.Context) (models.LogoAsset, error) {
		return o.logos.Extract(sctx, site)
	})
	if err != nil {
		o.logger.Warn().Err(err).Str("job_id", job.ID).Msg("Logo extraction failed, continuing without logo")
		logo = models.LogoAsset{}
	}
	brand.Logo = logo

	// Narrative content
	if err := o.advance(ctx, job.ID, models.JobStatusGeneratingContent, "Generating brand content"); err != nil {
		return err
	}
	brand.Content, err = runStage(ctx, o.config.StageTimeout, func(sctx context.Context) (models.BrandContent, error) {
		return o.content.Generate(sctx, site, brand.Colors)
	})
	if err != nil {
		return stageFailure(models.JobStatusGeneratingContent, "Brand content generation failed.", err)
	}
	brand.CompanyName = brand.Content.CompanyName
	brand.LayoutNotes = analyzeLayout(site)

	// Render
	if err := o.advance(ctx, job.ID, models.JobStatusBuildingPDF, "Building guidelines document"); err != nil {
		return err
	}
	pdf, err := runStage(ctx, o.config.StageTimeout, func(sctx context.Context) ([]byte, error) {
		return o.assembler.Build(sctx, brand)
	})
	if err != nil {
		return stageFailure(models.JobStatusBuildingPDF, "The guidelines document could not be rendered.", err)
	}

	handle, err := o.results.Store(job.ID, pdf)
	if err != nil {
		return stageFailure(models.JobStatusBuildingPDF, "The rendered document could not be stored.", err)
	}

	if err := o.jobs.UpdateJob(ctx, job.ID, func(j *models.Job) error {
		if !j.CanTransitionTo(models.JobStatusCompleted) {
			return fmt.Errorf("illegal completion from %s", j.Status)
		}
		now := time.Now()
		j.Status = models.JobStatusCompleted
		j.ProgressPercent = models.JobStatusCompleted.Progress()
		j.CurrentStep = "Complete"
		j.ResultHandle = handle
		j.CompletedAt = &now
		return nil
	}); err != nil {
		return stageFailure(models.JobStatusBuildingPDF, "The job record could not be finalized.", err)
	}
	return nil
}

// runStage runs fn under the per-stage timeout
func runStage[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(stageCtx)
}

func (o *Orchestrator) advance(ctx context.Context, jobID string, status models.JobStatus, step string) error {
	if err := o.jobs.Transition(ctx, jobID, status, step); err != nil {
		return stageFailure(status, "The job could not be advanced.", err)
	}
	return nil
}

func (o *Orchestrator) fail(jobID string, err error) {
	msg := "The job failed unexpectedly. Please retry with a new submission."
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		msg = stageErr.UserMessage()
	}

	o.logger.Error().Err(err).Str("job_id", jobID).Msg("Job failed")
	if markErr := o.jobs.MarkFailed(context.Background(), jobID, msg); markErr != nil {
		o.logger.Error().Err(markErr).Str("job_id", jobID).Msg("Failed to record job failure")
	}
}
