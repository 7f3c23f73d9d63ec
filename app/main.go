package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/rss-digest/app/api"
	"github.com/lysyi3m/rss-digest/app/catalog"
	"github.com/lysyi3m/rss-digest/app/cfg"
	"github.com/lysyi3m/rss-digest/app/database"
	"github.com/lysyi3m/rss-digest/app/digest"
	"github.com/lysyi3m/rss-digest/app/feed"
	"github.com/lysyi3m/rss-digest/app/summary"
	"github.com/lysyi3m/rss-digest/app/tasks"
)

var defaultCatalogPaths = []string{"config/feeds.opml", "config/feeds.json"}

type app struct {
	cfg         *cfg.Cfg
	catalog     *catalog.Catalog
	articleRepo database.ArticleRepository
	digestRepo  database.DigestRepository
	extractor   *feed.ContentExtractor
	summarizer  *summary.Summarizer
	newBatch    func() tasks.TaskInterface
}

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogging(appCfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, appCfg); err != nil {
		slog.Error("Fatal error", "command", appCfg.Command, "error", err)
		stop()
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func run(ctx context.Context, appCfg *cfg.Cfg) error {
	slog.Info("Starting RSS Digest", "version", appCfg.Version, "command", appCfg.Command)

	catalogPath := appCfg.CatalogPath
	if catalogPath == "" {
		resolved, err := catalog.Resolve(defaultCatalogPaths...)
		if err != nil {
			return err
		}
		catalogPath = resolved
	}

	feeds, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}
	slog.Info("Loaded feed catalog", "path", catalogPath, "feeds", feeds.Len())

	if appCfg.Command == cfg.CommandConvert {
		if err := catalog.Write(appCfg.ConvertOutput, feeds); err != nil {
			return err
		}
		slog.Info("Catalog converted", "from", catalogPath, "to", appCfg.ConvertOutput, "feeds", feeds.Len())
		return nil
	}

	db, err := database.Open(appCfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	a := newApp(appCfg, feeds, db)

	switch appCfg.Command {
	case cfg.CommandOnce:
		return runTask(ctx, a.newBatch())
	case cfg.CommandStats:
		return printStats(os.Stdout, a.catalog, a.articleRepo, a.digestRepo)
	case cfg.CommandDigest:
		day := time.Now()
		if appCfg.DigestDate != "" {
			day, err = time.ParseInLocation(digest.DateLayout, appCfg.DigestDate, time.Local)
			if err != nil {
				return fmt.Errorf("failed to parse digest date: %w", err)
			}
		}
		sink := digest.NewFileSink(appCfg.DigestsDir)
		return runTask(ctx, tasks.NewDigestTask(a.articleRepo, a.digestRepo, sink).ForDay(day))
	case cfg.CommandBackfill:
		return runTask(ctx, tasks.NewBackfillTask(a.articleRepo, a.extractor, a.summarizer, appCfg.BackfillLimit))
	case cfg.CommandServe:
		return a.serve(ctx)
	default:
		return a.schedule(ctx)
	}
}

func newApp(appCfg *cfg.Cfg, feeds *catalog.Catalog, db *database.DB) *app {
	httpClient := &http.Client{}

	articleRepo := database.NewArticleRepository(db)
	digestRepo := database.NewDigestRepository(db)

	fetcher := feed.NewFetcher(httpClient, feed.NewParser(feed.NewDateNormalizer()), appCfg.UserAgent)
	extractor := feed.NewContentExtractor(httpClient, appCfg.UserAgent)
	huggingFace := summary.NewHuggingFace(httpClient, appCfg.HFToken)
	if len(appCfg.HFModels) > 0 {
		huggingFace = huggingFace.WithModels(appCfg.HFModels...)
	}
	summarizer := summary.NewSummarizer(
		huggingFace,
		summary.NewOpenAI(appCfg.OpenAIAPIKey, appCfg.OpenAIModel, ""),
	)
	sink := digest.NewFileSink(appCfg.DigestsDir)

	settings := tasks.BatchSettings{
		HoursBack:   appCfg.HoursBack,
		PerFeedCap:  appCfg.PerFeedCap,
		WorkerCount: appCfg.WorkerCount,
	}

	return &app{
		cfg:         appCfg,
		catalog:     feeds,
		articleRepo: articleRepo,
		digestRepo:  digestRepo,
		extractor:   extractor,
		summarizer:  summarizer,
		newBatch: func() tasks.TaskInterface {
			digestTask := tasks.NewDigestTask(articleRepo, digestRepo, sink)
			return tasks.NewBatchTask(feeds, fetcher, extractor, summarizer, articleRepo, digestTask, settings)
		},
	}
}

func runTask(ctx context.Context, task tasks.TaskInterface) error {
	task.Start()
	if err := task.Execute(ctx); err != nil {
		return fmt.Errorf("%s task failed: %w", task.GetType(), err)
	}
	return nil
}

func (a *app) schedule(ctx context.Context) error {
	scheduler := tasks.NewScheduler(a.newBatch, tasks.DefaultSchedules...)
	if err := scheduler.Start(); err != nil {
		return err
	}

	slog.Info("RSS Digest scheduler started, press Ctrl+C to stop")
	<-ctx.Done()

	slog.Info("Shutting down scheduler gracefully...")
	scheduler.Stop()
	return nil
}

func (a *app) serve(ctx context.Context) error {
	scheduler := tasks.NewScheduler(a.newBatch, tasks.DefaultSchedules...)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	handler := api.NewHandler(a.catalog, a.articleRepo, a.digestRepo)
	httpServer := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      api.NewServer(handler, a.cfg.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", a.cfg.Port, "auth", a.cfg.APIAccessKey != "")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
	case serveErr = <-serverErrChan:
	}

	slog.Info("Shutting down server gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return serveErr
}
