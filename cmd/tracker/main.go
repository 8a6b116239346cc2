package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/educalvolpz/wwdc-tracker/internal/adapter"
	"github.com/educalvolpz/wwdc-tracker/internal/aggregate"
	"github.com/educalvolpz/wwdc-tracker/internal/api"
	"github.com/educalvolpz/wwdc-tracker/internal/config"
	"github.com/educalvolpz/wwdc-tracker/internal/core"
	"github.com/educalvolpz/wwdc-tracker/internal/event"
	feedimpl "github.com/educalvolpz/wwdc-tracker/internal/feed/impl"
	"github.com/educalvolpz/wwdc-tracker/internal/observability/otelx"
	"github.com/educalvolpz/wwdc-tracker/internal/scheduler"
	newsapiimpl "github.com/educalvolpz/wwdc-tracker/internal/sources/newsapi/impl"
	"github.com/educalvolpz/wwdc-tracker/internal/sources/reddit"
	rssimpl "github.com/educalvolpz/wwdc-tracker/internal/sources/rss/impl"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("failed to load environment: %v", err)
	}

	configPath := flag.String("config", env.ConfigPath, "path to tracker document")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
	slog.SetDefault(logger)

	doc, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load document: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = core.WithLogger(ctx, logger)

	shutdown, err := otelx.Init(ctx, logger, env.OTel)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	if shutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	clock, err := event.NewClock(doc.Event)
	if err != nil {
		log.Fatalf("failed to build event clock: %v", err)
	}

	adapters, err := buildAdapters(logger, doc, env, clock)
	if err != nil {
		log.Fatalf("failed to build sources: %v", err)
	}
	if len(adapters) == 0 {
		log.Fatal("no sources configured")
	}

	agg := aggregate.New(adapters, clock, doc.Ranking, doc.Event)
	sched := scheduler.New(agg, clock, doc.Refresh, doc.Event.Timezone)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	addr := doc.Server.Addr
	if env.Addr != "" {
		addr = env.Addr
	}

	server := api.NewServer(logger, sched, clock)
	if err := server.Run(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
}

func buildAdapters(logger *slog.Logger, doc *config.Document, env config.Env, clock *event.Clock) ([]adapter.Adapter, error) {
	var adapters []adapter.Adapter

	rssFetcher := rssimpl.NewFetcher(env.HTTPTimeout, feedimpl.NewParser())
	for _, feedCfg := range doc.Feeds {
		adapters = append(adapters, adapter.NewRSS(feedCfg, rssFetcher, doc.Ranking, env.UserAgent))
	}

	if doc.Search.Enabled {
		if env.NewsAPIKey == "" {
			logger.Warn("search enabled but NEWS_API_KEY is not set, skipping NewsAPI source")
		} else {
			client := newsapiimpl.NewClient(env.NewsAPIKey, env.HTTPTimeout, env.UserAgent)
			liveMode := func() bool { return clock.IsLive(time.Now()) }
			search, err := adapter.NewNewsAPI(doc.Search, doc.Ranking, client, liveMode)
			if err != nil {
				return nil, err
			}
			adapters = append(adapters, search)
		}
	}

	if doc.Reddit.Enabled {
		fetcher := reddit.NewFetcher(env.HTTPTimeout, env.UserAgent)
		adapters = append(adapters, adapter.NewReddit(doc.Reddit, doc.Ranking, fetcher, env.UserAgent))
	}

	return adapters, nil
}
