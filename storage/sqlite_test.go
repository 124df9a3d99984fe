package storage

import (
	"path/filepath"
	"testing"
	"time"

	"gharkhoj/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testRecord(id, url string) *models.PropertyRecord {
	record := &models.PropertyRecord{
		ID:           id,
		Title:        "3 Bhk Apartment In Baner",
		SourceDomain: "magicbricks.com",
		URL:          url,
		ScrapedAt:    time.Now(),
	}
	record.Price = "₹95.00 Lakh"
	record.Location = "Baner, Pune"
	return record
}

func TestRunLifecycle(t *testing.T) {
	store := newTestStore(t)

	run := &models.SearchRun{
		Query:     "2 bhk in pune",
		Tier:      "structured",
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}

	id, err := store.CreateRun(run)
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	run.ID = id

	finished := time.Now()
	run.FinishedAt = &finished
	run.Status = models.RunStatusCompleted
	run.Tier = "manual"
	run.CandidatesSeen = 6
	run.RecordsBuilt = 3
	run.Fallbacks = 1
	if err := store.UpdateRun(run); err != nil {
		t.Fatalf("update run: %v", err)
	}

	runs, err := store.GetRecentRuns(10)
	if err != nil {
		t.Fatalf("get recent runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.Status != models.RunStatusCompleted || got.Tier != "manual" {
		t.Errorf("update not persisted: %+v", got)
	}
	if got.CandidatesSeen != 6 || got.RecordsBuilt != 3 || got.Fallbacks != 1 {
		t.Errorf("counters not persisted: %+v", got)
	}
	if got.FinishedAt == nil {
		t.Errorf("finished_at not persisted")
	}
}

func TestCommandQueue(t *testing.T) {
	store := newTestStore(t)

	if err := store.EnqueueCommand(models.CmdSearchNow, &models.CommandParams{Query: "2 bhk in pune"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := store.EnqueueCommand(models.CmdPause, nil); err != nil {
		t.Fatalf("enqueue without params: %v", err)
	}

	cmds, err := store.GetPendingCommands()
	if err != nil {
		t.Fatalf("get pending: %v", err)
	}
	if len(cmds) != 2 {
		t.Fatalf("expected 2 pending commands, got %d", len(cmds))
	}

	byType := make(map[models.CommandType]*models.Command)
	for i := range cmds {
		byType[cmds[i].Command] = &cmds[i]
	}
	searchCmd, pauseCmd := byType[models.CmdSearchNow], byType[models.CmdPause]
	if searchCmd == nil || pauseCmd == nil {
		t.Fatalf("missing commands: %v", cmds)
	}

	params, err := store.ParseCommandParams(searchCmd)
	if err != nil {
		t.Fatalf("parse params: %v", err)
	}
	if params.Query != "2 bhk in pune" {
		t.Errorf("unexpected query %q", params.Query)
	}

	// nil params parse to an empty struct, not an error
	params, err = store.ParseCommandParams(pauseCmd)
	if err != nil {
		t.Fatalf("parse empty params: %v", err)
	}
	if params.Query != "" {
		t.Errorf("expected empty params, got %+v", params)
	}

	if err := store.MarkCommandProcessed(searchCmd.ID); err != nil {
		t.Fatalf("mark processed: %v", err)
	}
	cmds, err = store.GetPendingCommands()
	if err != nil {
		t.Fatalf("get pending after mark: %v", err)
	}
	if len(cmds) != 1 || cmds[0].Command != models.CmdPause {
		t.Fatalf("expected only the pause command pending, got %v", cmds)
	}
}

func TestSavedQueries(t *testing.T) {
	store := newTestStore(t)

	if err := store.AddSavedQuery("2 bhk in pune"); err != nil {
		t.Fatalf("add: %v", err)
	}
	// re-adding the same query must not duplicate it
	if err := store.AddSavedQuery("2 bhk in pune"); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	queries, err := store.GetEnabledQueries()
	if err != nil {
		t.Fatalf("get enabled: %v", err)
	}
	if len(queries) != 1 {
		t.Fatalf("expected 1 query, got %d", len(queries))
	}
	if queries[0].LastRunAt != nil {
		t.Errorf("fresh query should have no last run")
	}

	if err := store.TouchSavedQuery(queries[0].ID); err != nil {
		t.Fatalf("touch: %v", err)
	}
	queries, _ = store.GetEnabledQueries()
	if queries[0].LastRunAt == nil {
		t.Errorf("touch not persisted")
	}

	if err := store.DisableSavedQuery("2 bhk in pune"); err != nil {
		t.Fatalf("disable: %v", err)
	}
	queries, _ = store.GetEnabledQueries()
	if len(queries) != 0 {
		t.Fatalf("disabled query still enabled: %v", queries)
	}

	// re-adding re-enables
	if err := store.AddSavedQuery("2 bhk in pune"); err != nil {
		t.Fatalf("re-enable: %v", err)
	}
	queries, _ = store.GetEnabledQueries()
	if len(queries) != 1 {
		t.Fatalf("expected re-enabled query, got %v", queries)
	}
}

func TestRecordCache(t *testing.T) {
	store := newTestStore(t)

	has, err := store.HasFingerprint("fp-1")
	if err != nil {
		t.Fatalf("has fingerprint: %v", err)
	}
	if has {
		t.Fatalf("empty cache reported a fingerprint")
	}

	record := testRecord("id-1", "https://www.magicbricks.com/prop-1")
	if err := store.CacheRecord(record, "2 bhk in pune", "fp-1"); err != nil {
		t.Fatalf("cache: %v", err)
	}

	has, err = store.HasFingerprint("fp-1")
	if err != nil || !has {
		t.Fatalf("expected fingerprint present, has=%v err=%v", has, err)
	}

	records, err := store.GetCachedRecords("2 bhk in pune")
	if err != nil {
		t.Fatalf("get cached: %v", err)
	}
	if len(records) != 1 || records[0].Title != "3 Bhk Apartment In Baner" {
		t.Fatalf("unexpected cached records %v", records)
	}
	if records[0].Price != "₹95.00 Lakh" {
		t.Errorf("embedded fields lost in round trip: %q", records[0].Price)
	}

	// same id upserts rather than duplicating
	record.Title = "Updated Title"
	if err := store.CacheRecord(record, "2 bhk in pune", "fp-1"); err != nil {
		t.Fatalf("re-cache: %v", err)
	}
	records, _ = store.GetCachedRecords("2 bhk in pune")
	if len(records) != 1 || records[0].Title != "Updated Title" {
		t.Fatalf("upsert failed: %v", records)
	}
}

func TestArchiveFlow(t *testing.T) {
	store := newTestStore(t)

	store.CacheRecord(testRecord("id-1", "https://a.example/p1"), "q", "fp-1")
	store.CacheRecord(testRecord("id-2", "https://a.example/p2"), "q", "fp-2")

	records, err := store.GetUnarchivedRecords(10)
	if err != nil {
		t.Fatalf("get unarchived: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 unarchived, got %d", len(records))
	}

	if err := store.MarkRecordArchived("id-1"); err != nil {
		t.Fatalf("mark archived: %v", err)
	}
	records, _ = store.GetUnarchivedRecords(10)
	if len(records) != 1 || records[0].ID != "id-2" {
		t.Fatalf("expected only id-2 unarchived, got %v", records)
	}

	// re-caching an archived record makes it eligible again
	if err := store.CacheRecord(testRecord("id-1", "https://a.example/p1"), "q", "fp-1"); err != nil {
		t.Fatalf("re-cache: %v", err)
	}
	records, _ = store.GetUnarchivedRecords(10)
	if len(records) != 2 {
		t.Fatalf("archived flag not reset on upsert, got %d", len(records))
	}
}

func TestRecordURLs(t *testing.T) {
	store := newTestStore(t)

	store.CacheRecord(testRecord("id-1", "https://a.example/p1"), "q", "fp-1")
	store.CacheRecord(testRecord("id-2", "#"), "q", "fp-2")
	store.CacheRecord(testRecord("id-3", "https://a.example/p1"), "q", "fp-3") // same URL

	urls, err := store.GetRecordURLs(10)
	if err != nil {
		t.Fatalf("get urls: %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://a.example/p1" {
		t.Fatalf("expected one distinct real URL, got %v", urls)
	}

	if err := store.DeleteRecordByURL("https://a.example/p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	urls, _ = store.GetRecordURLs(10)
	if len(urls) != 0 {
		t.Fatalf("expected no URLs after delete, got %v", urls)
	}
}

func TestResetAllData(t *testing.T) {
	store := newTestStore(t)

	store.AddSavedQuery("q")
	store.CacheRecord(testRecord("id-1", "https://a.example/p1"), "q", "fp-1")
	store.EnqueueCommand(models.CmdPause, nil)

	if err := store.ResetAllData(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	queries, _ := store.GetEnabledQueries()
	records, _ := store.GetCachedRecords("q")
	cmds, _ := store.GetPendingCommands()
	if len(queries) != 0 || len(records) != 0 || len(cmds) != 0 {
		t.Fatalf("reset left data behind: %d queries, %d records, %d commands",
			len(queries), len(records), len(cmds))
	}
}
