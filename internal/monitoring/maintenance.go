package monitoring

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/joolapp/jool-backend/internal/auth"
	"github.com/joolapp/jool-backend/internal/services"
)

// Maintenance runs the periodic housekeeping jobs: purging expired
// OAuth session state and realigning hashtag usage counters.
type Maintenance struct {
	state    *auth.StateStore
	hashtags services.HashtagServiceProvider
	cron     *cron.Cron
}

// NewMaintenance creates a new Maintenance scheduler.
func NewMaintenance(state *auth.StateStore, hashtags services.HashtagServiceProvider) *Maintenance {
	return &Maintenance{
		state:    state,
		hashtags: hashtags,
		cron:     cron.New(),
	}
}

// Run registers the jobs and starts the scheduler.
func (m *Maintenance) Run() {
	log.Info().Msg("Starting maintenance scheduler...")

	m.cron.AddFunc("@every 5m", func() {
		if removed := m.state.PurgeExpired(); removed > 0 {
			log.Info().Int("removed", removed).Msg("Purged expired OAuth state entries")
		}
	})

	m.cron.AddFunc("@hourly", func() {
		if err := m.hashtags.ReconcileUsageCounts(); err != nil {
			log.Error().Err(err).Msg("Failed to reconcile hashtag usage counts")
		}
	})

	m.cron.Start()
}

// Stop halts the scheduler, waiting for running jobs to finish.
func (m *Maintenance) Stop() {
	log.Info().Msg("Stopping maintenance scheduler.")
	<-m.cron.Stop().Done()
}
