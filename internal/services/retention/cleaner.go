package retention

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/common"
	"github.com/ternarybob/brandforge/internal/interfaces"
)

// Cleaner removes rendered documents past the retention window on a
// cron schedule. Jobs stay queryable after their document expires; the
// download endpoint reports the document gone.
type Cleaner struct {
	results interfaces.ResultStorage
	config  *common.RetentionConfig
	cron    *cron.Cron
	logger  arbor.ILogger
}

func NewCleaner(results interfaces.ResultStorage, config *common.RetentionConfig, logger arbor.ILogger) *Cleaner {
	return &Cleaner{
		results: results,
		config:  config,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger,
	}
}

// Start registers the schedule and runs one immediate sweep so a
// restart never extends retention
func (c *Cleaner) Start() error {
	if c.config.Hours <= 0 {
		c.logger.Info().Msg("Document retention disabled")
		return nil
	}

	if _, err := c.cron.AddFunc(c.config.Schedule, c.sweep); err != nil {
		return fmt.Errorf("invalid retention schedule '%s': %w", c.config.Schedule, err)
	}

	c.cron.Start()
	c.logger.Info().
		Int("retention_hours", c.config.Hours).
		Str("schedule", c.config.Schedule).
		Msg("Document retention cleaner started")

	go c.sweep()
	return nil
}

func (c *Cleaner) sweep() {
	removed, err := c.results.DeleteOlderThan(c.config.Hours)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Retention sweep failed")
		return
	}
	if removed > 0 {
		c.logger.Info().Int("removed", removed).Msg("Retention sweep complete")
	}
}

// Stop halts the schedule, waiting for a running sweep to finish
func (c *Cleaner) Stop() {
	ctx := c.cron.Stop()
	<-ctx.Done()
}
