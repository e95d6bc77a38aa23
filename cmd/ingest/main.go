package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"civic_ingest/internal/api"
	"civic_ingest/internal/bot"
	"civic_ingest/internal/classifier"
	"civic_ingest/internal/config"
	"civic_ingest/internal/detector"
	"civic_ingest/internal/filter"
	"civic_ingest/internal/metrics"
	"civic_ingest/internal/model"
	"civic_ingest/internal/normalizer"
	"civic_ingest/internal/pipeline"
	"civic_ingest/internal/scheduler"
	"civic_ingest/internal/source"
	"civic_ingest/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("ingest stopped", "error", err)
		os.Exit(1)
	}
	log.Info("ingest stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	m := metrics.New()

	normOpts := []normalizer.Option{
		normalizer.WithSpots(cfg.Spots),
		normalizer.WithFallbackDepartment(cfg.FallbackDepartment),
	}
	if cfg.RandomSeed != 0 {
		normOpts = append(normOpts, normalizer.WithSeed(cfg.RandomSeed))
	}
	cls := classifier.New(classifier.DefaultRules)
	proc := pipeline.NewProcessor(detector.Detect, cls, normalizer.New(normOpts...))

	rules, err := filter.ParseRules(cfg.FeedInclude, cfg.FeedExclude)
	if err != nil {
		return err
	}
	inbox := source.NewInbox(source.DefaultInboxSize)
	var feeds []source.Feed
	if cfg.DemoFeed {
		feeds = append(feeds, source.DemoFeed{})
	}
	for _, url := range cfg.FeedURLs {
		feeds = append(feeds, source.NewRSS(http.DefaultClient, url))
	}
	if cfg.BotEnabled() {
		feeds = append(feeds, inbox)
	}
	feed := source.NewMulti(log, rules, feeds...)

	// Set once the bot is up, before any run can start.
	var notify pipeline.Sink
	sink := pipeline.MultiSink{
		store,
		pipeline.SinkFunc(func(ctx context.Context, rec model.ComplaintRecord) error {
			if notify == nil {
				return nil
			}
			return notify.Append(ctx, rec)
		}),
	}

	sched, err := scheduler.New(scheduler.Deps{
		Processor: proc,
		Sink:      sink,
		Recorder:  m,
		Log:       log,
	}, scheduler.WithTickInterval(cfg.TickInterval), scheduler.WithResolveDelay(cfg.ResolveDelay))
	if err != nil {
		return err
	}
	defer sched.Cancel()

	var b *bot.Bot
	if cfg.BotEnabled() {
		b, err = bot.New(cfg.TelegramBotToken, cfg, bot.Deps{
			Store:    store,
			Ingestor: sched,
			Feed:     feed,
			Inbox:    inbox,
		}, log)
		if err != nil {
			return err
		}
		if cfg.NotifyChatID != 0 {
			notify = bot.NewNotifier(b, cfg.NotifyChatID, cfg.NotifyRate)
		}
	}

	handler := api.NewHandler(sched, feed, store, detector.Detect, cls, log)
	srv := api.NewServer(cfg.HTTPAddr, api.NewRouter(handler, m.Handler(), log))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		return srv.Shutdown(shutdownCtx)
	})
	if b != nil {
		g.Go(func() error {
			log.Info("starting bot")
			b.Run(ctx)
			return nil
		})
	}

	return g.Wait()
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
