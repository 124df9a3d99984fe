package workers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"gharkhoj/models"
	"gharkhoj/storage"
)

const healthcheckBatchSize = 25

// HealthcheckWorker probes cached record URLs and drops records whose
// listing pages have gone away. HEAD only: a liveness check, not a
// re-scrape.
type HealthcheckWorker struct {
	sqlite     *storage.SQLiteStore
	pg         *storage.PostgresStore
	httpClient *http.Client
	triggerCh  chan struct{}
	logFunc    LogFunc
}

func NewHealthcheckWorker(sqlite *storage.SQLiteStore, pg *storage.PostgresStore, client *http.Client) *HealthcheckWorker {
	return &HealthcheckWorker{
		sqlite:     sqlite,
		pg:         pg,
		httpClient: client,
		triggerCh:  make(chan struct{}, 1),
		logFunc:    NoOpLogger,
	}
}

func (w *HealthcheckWorker) SetLogger(fn LogFunc) {
	w.logFunc = fn
}

// Trigger causes the worker to run immediately.
func (w *HealthcheckWorker) Trigger() {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

func (w *HealthcheckWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Healthcheck worker stopping")
			return
		case <-ticker.C:
			w.processBatch(ctx)
		case <-w.triggerCh:
			log.Println("Healthcheck worker triggered manually")
			w.processBatch(ctx)
		}
	}
}

func (w *HealthcheckWorker) processBatch(ctx context.Context) {
	urls, err := w.sqlite.GetRecordURLs(healthcheckBatchSize)
	if err != nil {
		log.Printf("Healthcheck: query error: %v", err)
		return
	}

	if len(urls) == 0 {
		return
	}

	var checked, dead int
	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return
		}

		live, statusCode, err := w.checkURL(ctx, u)
		checked++
		if err != nil {
			log.Printf("Healthcheck: error checking %s: %v", u, err)
			continue
		}

		if !live {
			log.Printf("Healthcheck: listing gone (status %d): %s", statusCode, u)
			w.dropRecord(ctx, u)
			dead++
		}

		time.Sleep(500 * time.Millisecond)
	}

	if dead > 0 {
		w.logFunc(models.LogLevelInfo, "healthcheck",
			fmt.Sprintf("Checked %d record URLs, removed %d dead", checked, dead))
	}
}

func (w *HealthcheckWorker) checkURL(ctx context.Context, rawURL string) (live bool, statusCode int, err error) {
	req, err := http.NewRequestWithContext(ctx, "HEAD", rawURL, nil)
	if err != nil {
		return false, 0, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return false, 0, err
	}
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, resp.StatusCode, nil
	case http.StatusNotFound, http.StatusGone:
		return false, resp.StatusCode, nil
	case http.StatusMovedPermanently, http.StatusFound:
		if isDelistRedirect(resp.Header.Get("Location")) {
			return false, resp.StatusCode, nil
		}
		return true, resp.StatusCode, nil
	default:
		// Rate limits, challenges, 5xx: inconclusive, keep the record.
		return true, resp.StatusCode, nil
	}
}

// isDelistRedirect treats a bounce back to a search/index page as a
// delisting; portals rarely serve a clean 404 for removed properties.
func isDelistRedirect(location string) bool {
	lower := strings.ToLower(location)
	for _, pattern := range []string{"/search", "/listings", "/results", "notfound", "error"} {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func (w *HealthcheckWorker) dropRecord(ctx context.Context, url string) {
	if err := w.sqlite.DeleteRecordByURL(url); err != nil {
		log.Printf("Healthcheck: failed to drop cached record: %v", err)
	}
	if w.pg != nil {
		if err := w.pg.DeleteRecordByURL(ctx, url); err != nil {
			log.Printf("Healthcheck: failed to drop canonical record: %v", err)
		}
	}
}
