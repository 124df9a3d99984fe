package workers

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"gharkhoj/models"
)

// Acquirer runs one query end to end. Each pool worker gets its own so
// browser sessions are never shared across goroutines.
type Acquirer interface {
	Acquire(ctx context.Context, query string) (*models.SearchOutcome, error)
}

// SearchPool fans submitted queries out over a fixed set of workers.
// Within one query the pipeline stays sequential; concurrency only exists
// across different queries.
type SearchPool struct {
	workers    int
	newAcquire func() Acquirer
	queue      chan string
	logFunc    LogFunc

	mu      sync.Mutex
	pending map[string]bool
}

func NewSearchPool(workers int, newAcquirer func() Acquirer) *SearchPool {
	if workers <= 0 {
		workers = 1
	}
	return &SearchPool{
		workers:    workers,
		newAcquire: newAcquirer,
		queue:      make(chan string, workers*4),
		logFunc:    NoOpLogger,
		pending:    make(map[string]bool),
	}
}

func (p *SearchPool) SetLogger(fn LogFunc) {
	p.logFunc = fn
}

// Submit enqueues a query unless it's already waiting or running.
func (p *SearchPool) Submit(query string) bool {
	p.mu.Lock()
	if p.pending[query] {
		p.mu.Unlock()
		return false
	}
	p.pending[query] = true
	p.mu.Unlock()

	select {
	case p.queue <- query:
		return true
	default:
		p.mu.Lock()
		delete(p.pending, query)
		p.mu.Unlock()
		log.Printf("Search pool queue full, dropping query %q", query)
		return false
	}
}

// Run blocks until ctx is cancelled and all workers have drained.
func (p *SearchPool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.worker(ctx, id)
		}(i + 1)
	}
	wg.Wait()
}

func (p *SearchPool) worker(ctx context.Context, id int) {
	acquirer := p.newAcquire()
	// acquirers that hold a browser session get torn down with the worker
	if closer, ok := acquirer.(io.Closer); ok {
		defer closer.Close()
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("Search worker %d stopping", id)
			return
		case query := <-p.queue:
			p.runQuery(ctx, id, acquirer, query)
		}
	}
}

func (p *SearchPool) runQuery(ctx context.Context, id int, acquirer Acquirer, query string) {
	defer func() {
		p.mu.Lock()
		delete(p.pending, query)
		p.mu.Unlock()
	}()

	log.Printf("Search worker %d: running %q", id, query)
	outcome, err := acquirer.Acquire(ctx, query)
	if err != nil {
		p.logFunc(models.LogLevelError, "search", fmt.Sprintf("Query %q failed: %v", query, err))
		return
	}

	p.logFunc(models.LogLevelInfo, "search",
		fmt.Sprintf("Query %q produced %d records", query, len(outcome.Records)))
}
