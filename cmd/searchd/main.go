// Command searchd wires every collaborator together and exposes the
// three HTTP operations spec.md §6.1 names. The transport layer is
// deliberately thin: a net/http.ServeMux dispatching straight into
// internal/pipeline, matching spec.md's framing that a full web
// framework is out of scope.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/juliangdz/clawSearXNG/internal/backend"
	"github.com/juliangdz/clawSearXNG/internal/cache"
	"github.com/juliangdz/clawSearXNG/internal/classifier"
	"github.com/juliangdz/clawSearXNG/internal/config"
	"github.com/juliangdz/clawSearXNG/internal/errs"
	"github.com/juliangdz/clawSearXNG/internal/logging"
	"github.com/juliangdz/clawSearXNG/internal/pipeline"
	"github.com/juliangdz/clawSearXNG/internal/rerank"
	"github.com/juliangdz/clawSearXNG/internal/stats"
	"github.com/juliangdz/clawSearXNG/internal/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("parse REDIS_URL", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpts)

	cacheStore := cache.NewRedisFromClient(redisClient)
	statsRecorder := stats.NewRedis(redisClient)
	classifierModel := anthropic.Model("claude-3-5-haiku-latest")
	cls := classifier.NewAnthropic(cfg.AnthropicAPIKey, classifierModel, classifier.DefaultTimeout)
	fetcher := backend.NewSearXNG(cfg.SearXNGURL, nil)

	crossEncoder := rerank.NewAnthropicCrossEncoder(cfg.AnthropicAPIKey, classifierModel)
	reranker, err := rerank.New(crossEncoder)
	if err != nil {
		log.Fatal("build reranker", zap.Error(err))
	}
	defer reranker.Release()

	pl := pipeline.New(cacheStore, cls, fetcher, reranker, statsRecorder, log, cfg.MaxResults, cfg.CacheTTL)

	mux := http.NewServeMux()
	mux.HandleFunc("/search", searchHandler(pl, cfg, log))
	mux.HandleFunc("/health", healthHandler(pl))
	mux.HandleFunc("/stats", statsHandler(pl))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: mux}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("serve", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

func searchHandler(pl *pipeline.Pipeline, cfg config.Config, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit := cfg.MaxResults
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}

		req := types.NewRequest(q.Get("q"), limit, q.Get("domain_hint"), cfg.MaxResults)

		resp, err := pl.Search(r.Context(), req)
		if err != nil {
			writeError(w, err, log)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func healthHandler(pl *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pl.Health(r.Context()))
	}
}

func statsHandler(pl *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := pl.Stats(r.Context())
		if err != nil {
			writeError(w, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error, log *zap.Logger) {
	kind := errs.KindOf(err)
	if log != nil {
		log.Warn("request failed", zap.String("kind", string(kind)), zap.Error(err))
	}
	writeJSON(w, kind.HTTPStatus(), map[string]string{"error": err.Error()})
}
