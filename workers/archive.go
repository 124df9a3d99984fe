package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"gharkhoj/models"
	"gharkhoj/storage"
)

const archiveBatchSize = 200

// ArchiveWorker ships not-yet-archived records to S3 as dated JSON batches.
// Runs on a timer and on demand via Trigger.
type ArchiveWorker struct {
	store     *storage.SQLiteStore
	archiver  *storage.S3Archiver
	triggerCh chan struct{}
	logFunc   LogFunc
}

func NewArchiveWorker(store *storage.SQLiteStore, archiver *storage.S3Archiver) *ArchiveWorker {
	return &ArchiveWorker{
		store:     store,
		archiver:  archiver,
		triggerCh: make(chan struct{}, 1),
		logFunc:   NoOpLogger,
	}
}

func (w *ArchiveWorker) SetLogger(fn LogFunc) {
	w.logFunc = fn
}

// Trigger causes the worker to run immediately.
func (w *ArchiveWorker) Trigger() {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

func (w *ArchiveWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Archive worker stopping")
			return
		case <-ticker.C:
			w.processBatch(ctx)
		case <-w.triggerCh:
			log.Println("Archive worker triggered manually")
			w.processBatch(ctx)
		}
	}
}

func (w *ArchiveWorker) processBatch(ctx context.Context) {
	records, err := w.store.GetUnarchivedRecords(archiveBatchSize)
	if err != nil {
		log.Printf("Archive: query error: %v", err)
		return
	}

	if len(records) == 0 {
		return
	}

	key := archiveKey(time.Now())
	if err := w.archiver.UploadJSON(ctx, key, records); err != nil {
		log.Printf("Archive: upload failed: %v", err)
		w.logFunc(models.LogLevelError, "archive", fmt.Sprintf("Upload failed: %v", err))
		return
	}

	for _, record := range records {
		if err := w.store.MarkRecordArchived(record.ID); err != nil {
			log.Printf("Archive: failed to mark %s archived: %v", record.ID, err)
		}
	}

	log.Printf("Archive: shipped %d records to %s", len(records), key)
	w.logFunc(models.LogLevelInfo, "archive", fmt.Sprintf("Shipped %d records to %s", len(records), key))
}

func archiveKey(t time.Time) string {
	return fmt.Sprintf("records/%s/batch-%s.json",
		t.UTC().Format("2006/01/02"), t.UTC().Format("150405"))
}
