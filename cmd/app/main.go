package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"screener-api/internal/coingecko"
	"screener-api/internal/config"
	"screener-api/internal/dexscreener"
	httpSrv "screener-api/internal/http"
	"screener-api/internal/logger"
	"screener-api/internal/observability"
	"screener-api/internal/poller"
	"screener-api/internal/redis"
	"screener-api/internal/tokens"
	"screener-api/internal/upstream"
)

func main() {
	_ = godotenv.Load()
	mode := flag.String("mode", "api", "run mode: api|once|warm")
	view := flag.String("view", "top", "once: view to compute")
	query := flag.String("q", "", "once: search query")
	chain := flag.String("chain", tokens.AllChains, "once: chain filter")
	flag.Parse()

	cfg := config.Load()
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	var fetcher upstream.Fetcher = upstream.NewHTTPFetcher(
		upstream.WithTimeout(cfg.UpstreamTimeout),
		upstream.WithLogger(log),
		upstream.WithMetrics(metrics),
	)
	var rc *goredis.Client
	if cfg.CacheEnabled {
		rc = redis.NewClient(cfg)
		defer rc.Close()
		fetcher = redis.NewCache(rc, fetcher, log, metrics)
	}

	cg := coingecko.NewClient(cfg.CoinGeckoURL, fetcher)
	ds := dexscreener.NewClient(cfg.DexScreenerURL, fetcher)
	svc := tokens.NewService(cg, ds, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "api":
		app := httpSrv.NewServer(cfg, httpSrv.Deps{
			Logger:  log,
			Metrics: metrics,
			Redis:   rc,
			Tokens:  svc,
			Market:  cg,
		})
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				log.Error("shutdown", zap.Error(err))
			}
		}()
		log.Info("API listening", zap.String("port", cfg.Port), zap.Bool("cache", cfg.CacheEnabled))
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	case "once":
		res, err := svc.Tokens(ctx, tokens.Request{View: tokens.ParseView(*view), Query: *query, Chain: *chain})
		if err != nil {
			log.Fatal("view failed", zap.String("view", *view), zap.Error(err))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tokens.ListResponse{Tokens: res.Tokens, Source: res.Source, View: *view, Page: tokens.DefaultPage, Chain: *chain}); err != nil {
			log.Fatal("encode", zap.Error(err))
		}
	case "warm":
		if !cfg.CacheEnabled {
			log.Fatal("warm mode needs CACHE_ENABLED=true")
		}
		log.Info("warming cache", zap.Duration("interval", cfg.WarmInterval))
		if err := poller.Run(ctx, svc, poller.DefaultViews, cfg.WarmInterval, log); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal("poller", zap.Error(err))
		}
	default:
		log.Error("unknown mode", zap.String("mode", *mode))
		os.Exit(2)
	}
}
