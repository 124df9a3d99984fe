package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gharkhoj/config"
	"gharkhoj/httputil"
	"gharkhoj/logging"
	"gharkhoj/models"
	"gharkhoj/scheduler"
	"gharkhoj/scraper"
	"gharkhoj/services"
	"gharkhoj/storage"
	"gharkhoj/workers"
)

var (
	queryFlag = flag.String("query", "", "Run one search query and exit")
	saveFlag  = flag.Bool("save", false, "With -query: also save it for scheduled re-runs")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	logFile, err := logging.Setup("daemon.log")
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting gharkhoj...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Loaded %d site configs", len(cfg.Sites))
	for id, site := range cfg.Sites {
		log.Printf("  - %s (%s)", id, site.Domain)
	}

	clients := httputil.NewClients(&cfg.Proxy)

	ctx := context.Background()

	sqliteStore, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open SQLite: %v", err)
	}
	defer sqliteStore.Close()
	log.Printf("SQLite database: %s", cfg.DBPath)

	// Postgres is optional; without it records only land in the local cache.
	var pgStore *storage.PostgresStore
	if cfg.PGURL != "" {
		pgStore, err = storage.NewPostgresStore(ctx, cfg.PGURL)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pgStore.Close()
		log.Printf("Connected to Postgres: %s", maskConnectionString(cfg.PGURL))
	} else {
		log.Println("No DATABASE_URL configured, running on SQLite only")
	}

	recordService := services.NewRecordService(sqliteStore, pgStore)
	searchClient := scraper.NewTavilyClient(&cfg.Search, clients.API)

	newOrchestrator := func() *scraper.Orchestrator {
		session := scraper.NewSession(&cfg.Browser)
		o := scraper.NewOrchestrator(cfg, sqliteStore, searchClient, session)
		o.SetRecordService(recordService)
		return o
	}

	// One-shot mode: run the query in-process and print the outcome. The
	// session is scoped so the browser comes down on every exit path.
	if *queryFlag != "" {
		if *saveFlag {
			if err := sqliteStore.AddSavedQuery(*queryFlag); err != nil {
				log.Printf("Warning: could not save query: %v", err)
			}
		}

		var outcome *models.SearchOutcome
		err := scraper.WithSession(&cfg.Browser, func(session *scraper.Session) error {
			o := scraper.NewOrchestrator(cfg, sqliteStore, searchClient, session)
			o.SetRecordService(recordService)
			var acquireErr error
			outcome, acquireErr = o.Acquire(ctx, *queryFlag)
			return acquireErr
		})
		if err != nil {
			log.Fatalf("Search failed: %v", err)
		}

		out, err := json.MarshalIndent(outcome, "", "  ")
		if err != nil {
			log.Fatalf("Failed to marshal outcome: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	// Daemon mode.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var archiveWorker *workers.ArchiveWorker
	if cfg.Archive.Bucket != "" {
		archiver, err := storage.NewS3Archiver(ctx, storage.S3Config{
			Bucket:          cfg.Archive.Bucket,
			Region:          cfg.Archive.Region,
			Endpoint:        cfg.Archive.Endpoint,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
		})
		if err != nil {
			log.Fatalf("Failed to set up S3 archiver: %v", err)
		}
		archiveWorker = workers.NewArchiveWorker(sqliteStore, archiver)
		go archiveWorker.Run(ctx, 15*time.Minute)
		log.Println("Archive worker started")
	} else {
		log.Println("No archive bucket configured, archive worker disabled")
	}

	healthcheckWorker := workers.NewHealthcheckWorker(sqliteStore, pgStore, clients.Scraping)
	go healthcheckWorker.Run(ctx, 30*time.Minute)
	log.Println("Healthcheck worker started")

	pool := workers.NewSearchPool(cfg.Pipeline.Workers, func() workers.Acquirer {
		o := newOrchestrator()
		if archiveWorker != nil {
			o.SetArchiveTrigger(archiveWorker.Trigger)
		}
		return o
	})
	go pool.Run(ctx)
	log.Printf("Search pool started with %d workers", cfg.Pipeline.Workers)

	dbLogger := func(level models.LogLevel, source, message string) {
		sqliteStore.Log(nil, level, fmt.Sprintf("[%s] %s", source, message), "")
	}
	pool.SetLogger(dbLogger)
	healthcheckWorker.SetLogger(dbLogger)
	if archiveWorker != nil {
		archiveWorker.SetLogger(dbLogger)
	}

	sched := scheduler.New(cfg, sqliteStore, pool)
	var archiveTrigger scheduler.Triggerable
	if archiveWorker != nil {
		archiveTrigger = archiveWorker
	}
	sched.SetWorkers(archiveTrigger, healthcheckWorker)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()
	cancel()
	log.Println("Goodbye!")
}

// maskConnectionString masks the password in a connection string for logging.
func maskConnectionString(connStr string) string {
	start := 0
	for i := 0; i < len(connStr)-3; i++ {
		if connStr[i:i+3] == "://" {
			start = i + 3
			break
		}
	}
	if start == 0 {
		return connStr
	}

	colonIdx := -1
	atIdx := -1
	for i := start; i < len(connStr); i++ {
		if connStr[i] == ':' && colonIdx == -1 {
			colonIdx = i
		}
		if connStr[i] == '@' {
			atIdx = i
			break
		}
	}

	if colonIdx > 0 && atIdx > colonIdx {
		return connStr[:colonIdx+1] + "****" + connStr[atIdx:]
	}
	return connStr
}
