package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gharkhoj/config"
	"gharkhoj/models"
	"gharkhoj/services"
	"gharkhoj/storage"
)

// pageProcessor turns one candidate into a draft.
type pageProcessor interface {
	Process(ctx context.Context, cand models.ListingCandidate, defaultLocation string) (Draft, bool, error)
}

// portalCollector gathers candidates by browsing portal search pages.
type portalCollector interface {
	Collect(ctx context.Context, query string) ([]models.ListingCandidate, error)
}

// Orchestrator runs queries through the tiered acquisition flow: structured
// search API first, portal browsing when that yields nothing, and always an
// assembled outcome at the end, even if empty.
type Orchestrator struct {
	cfg       *config.Config
	store     *storage.SQLiteStore
	search    SearchClient
	session   *Session
	pipeline  pageProcessor
	manual    portalCollector
	assembler *Assembler

	recordService  *services.RecordService
	archiveTrigger func()
}

func NewOrchestrator(cfg *config.Config, store *storage.SQLiteStore, search SearchClient, session *Session) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		store:     store,
		search:    search,
		session:   session,
		pipeline:  NewPipeline(cfg, session),
		manual:    NewManualSearcher(cfg, session),
		assembler: NewAssembler(cfg.Pipeline.MaxRecords),
	}
}

func (o *Orchestrator) SetRecordService(svc *services.RecordService) {
	o.recordService = svc
}

// SetArchiveTrigger wires the archive worker's kick function.
func (o *Orchestrator) SetArchiveTrigger(trigger func()) {
	o.archiveTrigger = trigger
}

// Close tears down the orchestrator's browser session.
func (o *Orchestrator) Close() error {
	if o.session != nil {
		o.session.Close()
	}
	return nil
}

// Acquire runs one query end to end and returns the assembled outcome.
// Cancellation mid-batch still assembles whatever drafts exist; only a
// browser that never started comes back as a hard error.
func (o *Orchestrator) Acquire(ctx context.Context, query string) (*models.SearchOutcome, error) {
	run := &models.SearchRun{
		Query:     query,
		Tier:      "structured",
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	runID, err := o.store.CreateRun(run)
	if err != nil {
		return nil, err
	}
	run.ID = runID

	defer func() {
		now := time.Now()
		run.FinishedAt = &now
		if err := o.store.UpdateRun(run); err != nil {
			log.Printf("Failed to update run %d: %v", run.ID, err)
		}
	}()

	o.log(run.ID, models.LogLevelInfo, fmt.Sprintf("Starting acquisition for %q", query), "")

	defaultLocation := CityFromQuery(query)
	drafts, err := o.structuredTier(ctx, run, query, defaultLocation)

	if err == nil && len(drafts) == 0 {
		run.Tier = "manual"
		o.log(run.ID, models.LogLevelInfo, "Structured tier empty, trying manual browsing", "")
		drafts, err = o.manualTier(ctx, run, query, defaultLocation)
	}

	if err != nil {
		run.Status = models.RunStatusFailed
		run.ErrorsCount++
		o.log(run.ID, models.LogLevelError, fmt.Sprintf("Acquisition failed: %v", err), "")
		return nil, err
	}

	if len(drafts) == 0 {
		run.Tier = "none"
		o.log(run.ID, models.LogLevelWarn, "No candidates from any tier", "")
	}

	outcome := o.assembler.Assemble(query, drafts)
	run.RecordsBuilt = len(outcome.Records)
	run.Status = models.RunStatusCompleted

	o.log(run.ID, models.LogLevelInfo,
		fmt.Sprintf("Completed: %d candidates, %d records, %d snippet fallbacks",
			run.CandidatesSeen, run.RecordsBuilt, run.Fallbacks), "")

	if o.recordService != nil {
		if err := o.recordService.ProcessOutcome(ctx, outcome); err != nil {
			o.log(run.ID, models.LogLevelError, fmt.Sprintf("Persist error: %v", err), "")
			run.ErrorsCount++
		}
	}

	if o.archiveTrigger != nil {
		o.archiveTrigger()
	}

	return outcome, nil
}

// structuredTier asks the search API and restricts hits to the preferred
// domains; anything else is left for the manual tier. An API failure is a
// tier failure, not a run failure.
func (o *Orchestrator) structuredTier(ctx context.Context, run *models.SearchRun, query, defaultLocation string) ([]Draft, error) {
	candidates, err := o.search.Search(ctx, query)
	if err != nil {
		o.log(run.ID, models.LogLevelWarn, fmt.Sprintf("Search API error: %v", err), "")
		run.ErrorsCount++
		return nil, nil
	}

	candidates = FilterCandidates(candidates, o.cfg.Search.AllowedDomains)
	candidates = RestrictToPreferred(candidates, o.cfg.Search.PreferredDomains)
	return o.processCandidates(ctx, run, candidates, defaultLocation)
}

func (o *Orchestrator) manualTier(ctx context.Context, run *models.SearchRun, query, defaultLocation string) ([]Draft, error) {
	candidates, err := o.manual.Collect(ctx, query)
	if err != nil {
		return nil, err
	}
	candidates = FilterCandidates(candidates, o.cfg.Search.AllowedDomains)
	return o.processCandidates(ctx, run, candidates, defaultLocation)
}

// processCandidates walks candidates in order and stops once enough drafts
// exist to fill the record cap. Cancellation keeps the drafts built so far;
// a dead browser aborts with an error.
func (o *Orchestrator) processCandidates(ctx context.Context, run *models.SearchRun, candidates []models.ListingCandidate, defaultLocation string) ([]Draft, error) {
	var drafts []Draft

	for _, cand := range candidates {
		if len(drafts) >= o.cfg.Pipeline.MaxRecords || ctx.Err() != nil {
			break
		}
		run.CandidatesSeen++

		draft, ok, err := o.pipeline.Process(ctx, cand, defaultLocation)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				o.log(run.ID, models.LogLevelWarn, "Cancelled, keeping partial results", "")
				break
			}
			return drafts, err
		}
		if !ok {
			o.log(run.ID, models.LogLevelWarn, fmt.Sprintf("Skipped unusable candidate %s", cand.URL), cand.SourceDomain)
			run.ErrorsCount++
			continue
		}
		if draft.Fallback {
			run.Fallbacks++
		}
		drafts = append(drafts, draft)
	}

	return drafts, nil
}

func (o *Orchestrator) log(runID int64, level models.LogLevel, message, domain string) {
	log.Printf("[%s] %s", level, message)
	o.store.Log(&runID, level, message, domain)
}
