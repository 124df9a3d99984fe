package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"gharkhoj/config"
	"gharkhoj/models"
	"gharkhoj/storage"
	"gharkhoj/workers"
)

// Triggerable allows workers to be kicked manually via command.
type Triggerable interface {
	Trigger()
}

// Scheduler re-runs saved queries on the configured cadence and polls the
// SQLite command queue so one-shot invocations can steer the daemon.
type Scheduler struct {
	cfg    *config.Config
	store  *storage.SQLiteStore
	pool   *workers.SearchPool
	cron   *cron.Cron
	ticker *time.Ticker
	stopCh chan struct{}
	paused bool

	archiveWorker     Triggerable
	healthcheckWorker Triggerable
}

func New(cfg *config.Config, store *storage.SQLiteStore, pool *workers.SearchPool) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		store:  store,
		pool:   pool,
		cron:   cron.New(),
		stopCh: make(chan struct{}),
	}
}

// SetWorkers registers background workers for manual triggering.
func (s *Scheduler) SetWorkers(archive, healthcheck Triggerable) {
	s.archiveWorker = archive
	s.healthcheckWorker = healthcheck
}

func (s *Scheduler) Start(ctx context.Context) error {
	go s.pollCommands(ctx)

	if s.cfg.Scheduler.Cron != "" {
		log.Printf("Starting scheduler with cron: %s", s.cfg.Scheduler.Cron)
		_, err := s.cron.AddFunc(s.cfg.Scheduler.Cron, func() {
			s.runSavedQueries()
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
	} else if s.cfg.Scheduler.Interval > 0 {
		log.Printf("Starting scheduler with interval: %s", s.cfg.Scheduler.Interval)
		s.ticker = time.NewTicker(s.cfg.Scheduler.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					s.runSavedQueries()
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	} else {
		log.Println("No schedule configured, daemon will only respond to commands")
	}

	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

// runSavedQueries submits every enabled saved query to the pool. Dedup in
// the pool means an overlap with a still-running query is a no-op.
func (s *Scheduler) runSavedQueries() {
	if s.paused {
		log.Println("Scheduler paused, skipping saved queries")
		return
	}

	queries, err := s.store.GetEnabledQueries()
	if err != nil {
		log.Printf("Error loading saved queries: %v", err)
		return
	}

	for _, q := range queries {
		if s.pool.Submit(q.Query) {
			if err := s.store.TouchSavedQuery(q.ID); err != nil {
				log.Printf("Error touching saved query %d: %v", q.ID, err)
			}
		}
	}

	if len(queries) > 0 {
		log.Printf("Scheduler submitted %d saved queries", len(queries))
	}
}

func (s *Scheduler) pollCommands(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cmds, err := s.store.GetPendingCommands()
			if err != nil {
				log.Printf("Error getting commands: %v", err)
				continue
			}

			for _, cmd := range cmds {
				log.Printf("Processing command: %s", cmd.Command)
				if err := s.handleCommand(&cmd); err != nil {
					log.Printf("Command error: %v", err)
				}
				if err := s.store.MarkCommandProcessed(cmd.ID); err != nil {
					log.Printf("Error marking command processed: %v", err)
				}
			}
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) handleCommand(cmd *models.Command) error {
	params, err := s.store.ParseCommandParams(cmd)
	if err != nil {
		return err
	}

	switch cmd.Command {
	case models.CmdSearchNow:
		if params.Query == "" {
			return fmt.Errorf("search_now command missing query")
		}
		if err := s.store.AddSavedQuery(params.Query); err != nil {
			log.Printf("Error saving query %q: %v", params.Query, err)
		}
		s.pool.Submit(params.Query)
		return nil
	case models.CmdPause:
		s.paused = true
		log.Println("Scheduler paused")
		return nil
	case models.CmdResume:
		s.paused = false
		log.Println("Scheduler resumed")
		return nil
	case models.CmdRunArchive:
		if s.archiveWorker != nil {
			s.archiveWorker.Trigger()
			log.Println("Archive worker triggered via command")
		}
		return nil
	case models.CmdRunHealthcheck:
		if s.healthcheckWorker != nil {
			s.healthcheckWorker.Trigger()
			log.Println("Healthcheck worker triggered via command")
		}
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd.Command)
	}
}

// TriggerNow submits all saved queries immediately.
func (s *Scheduler) TriggerNow() {
	s.runSavedQueries()
}
