package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	orchestratorx "github.com/medrep/hcp-crm-agent/agent/orchestrator"
	recordx "github.com/medrep/hcp-crm-agent/agent/record"
	resolverx "github.com/medrep/hcp-crm-agent/agent/resolver"
	statex "github.com/medrep/hcp-crm-agent/agent/state"
	toolx "github.com/medrep/hcp-crm-agent/agent/tool"
	configx "github.com/medrep/hcp-crm-agent/pkg/config"
	_ "github.com/medrep/hcp-crm-agent/pkg/logger/autoload"
	openrouterx "github.com/medrep/hcp-crm-agent/pkg/openrouter"
	serverx "github.com/medrep/hcp-crm-agent/server"
)

type AppConfig struct {
	ProbeLLMOnStart bool `envconfig:"PROBE_LLM_ON_START" split_words:"true" default:"false"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[AppConfig]("")
	openRouterCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	if appCfg.ProbeLLMOnStart {
		probeLLM(ctx, *openRouterCfg)
	}

	store, err := recordx.NewStore(*configx.MustNew[recordx.Config]("DATABASE"))
	if err != nil {
		log.Fatal().Err(err).Msg("record store init failed")
	}
	defer store.Close()

	capabilities, execute := toolx.Catalog(store)

	intent, err := resolverx.New(ctx, openRouterCfg, capabilities)
	if err != nil {
		log.Fatal().Err(err).Msg("resolver init failed")
	}

	orch, err := orchestratorx.New(sessionStore(), intent, execute, orchestratorx.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("orchestrator init failed")
	}

	srv, err := serverx.New(*configx.MustNew[serverx.Config]("SERVER"), orch)
	if err != nil {
		log.Fatal().Err(err).Msg("server init failed")
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown incomplete")
	}
}

// sessionStore picks Upstash Redis when configured, process memory
// otherwise. Memory is fine for a single local instance; sessions are
// advisory context, not the system of record.
func sessionStore() statex.Store {
	cfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
	if strings.TrimSpace(cfg.URL) == "" {
		log.Info().Msg("no redis configured, using in-memory session store")
		return statex.NewMemoryStore()
	}

	store, err := statex.NewUpstashRedisStore(*cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("session store init failed")
	}
	return store
}

// probeLLM fails fast on bad credentials instead of surfacing them on the
// first turn.
func probeLLM(ctx context.Context, cfg openrouterx.Config) {
	client := openrouterx.NewClient(cfg)
	if client == nil {
		log.Fatal().Msg("llm probe requires an api key")
	}

	probeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if _, err := client.Models.List(probeCtx); err != nil {
		log.Fatal().Err(err).Msg("llm credential probe failed")
	}
	log.Info().Str("model", cfg.Model).Msg("llm endpoint reachable")
}
