package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/leadwireai/leadwire/internal/agent"
	"github.com/leadwireai/leadwire/internal/auth"
	"github.com/leadwireai/leadwire/internal/config"
	"github.com/leadwireai/leadwire/internal/contact"
	"github.com/leadwireai/leadwire/internal/db"
	"github.com/leadwireai/leadwire/internal/docstore"
	"github.com/leadwireai/leadwire/internal/handlers"
	"github.com/leadwireai/leadwire/internal/logger"
	"github.com/leadwireai/leadwire/internal/rag"
	"github.com/leadwireai/leadwire/internal/routing"
	"github.com/leadwireai/leadwire/internal/search"
	"github.com/leadwireai/leadwire/internal/secrets"
	"github.com/leadwireai/leadwire/internal/server"
	"github.com/leadwireai/leadwire/internal/tenant"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideDBConn,
			provideDocStore,
			provideSecretsStore,
			tenant.NewService,
			provideContactResolver,
			provideAgentClient,
			provideRoutingPipeline,
			provideRagResolver,
			provideEmbedder,
			provideSearchIndex,
			rag.NewService,
			provideVerifier,
			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(provideMessageHandler),
			provideServerHandler(provideRagHandler),
			provideServer,
		),
		fx.Invoke(startServer),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideConfig() (config.Config, error) {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.Postgres); err != nil {
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	conn, err := db.Open(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { conn.Close(); return nil }})
	return conn, nil
}

func provideDocStore(log *slog.Logger, conn *pgxpool.Pool) docstore.Store {
	return docstore.NewPostgresStore(log, conn)
}

func provideSecretsStore() secrets.Store {
	return secrets.NewEnvStore()
}

func provideContactResolver(log *slog.Logger, store docstore.Store, cfg config.Config) (*contact.Resolver, error) {
	policy, err := contact.ParseMissPolicy(cfg.Contact.OnMiss)
	if err != nil {
		return nil, err
	}
	return contact.NewResolver(log, store, policy), nil
}

func provideAgentClient(log *slog.Logger, cfg config.Config) (agent.Client, error) {
	ttl, err := time.ParseDuration(cfg.Agent.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("agent token_ttl: %w", err)
	}
	timeout := time.Duration(cfg.Agent.TimeoutSeconds) * time.Second
	return agent.NewGatewayClient(log, cfg.Agent.BaseURL, cfg.Agent.AgentID, cfg.Agent.TokenSecret, ttl, timeout), nil
}

func provideRoutingPipeline(log *slog.Logger, tenants *tenant.Service, contacts *contact.Resolver, agentClient agent.Client, cfg config.Config) *routing.Pipeline {
	return routing.NewPipeline(log, tenants, contacts, agentClient, cfg.Agent.LanguageCode)
}

func provideRagResolver(log *slog.Logger, tenants *tenant.Service, cfg config.Config) *rag.Resolver {
	return rag.NewResolver(log, tenants, cfg.Rag.DefaultLocation, cfg.Rag.DefaultProject)
}

func provideEmbedder(log *slog.Logger, cfg config.Config) search.Embedder {
	return search.NewOpenAIEmbedder(log, cfg.Embedder.BaseURL, cfg.Embedder.APIKey, cfg.Embedder.Model)
}

func provideSearchIndex(lc fx.Lifecycle, log *slog.Logger, cfg config.Config, embedder search.Embedder) (rag.SearchIndex, error) {
	qcfg := cfg.Qdrant
	timeout := time.Duration(qcfg.TimeoutSeconds) * time.Second
	index, err := search.NewQdrantIndex(log, qcfg.Host, qcfg.Port, qcfg.APIKey, qcfg.UseTLS, qcfg.ScoreFloor, timeout, embedder)
	if err != nil {
		return nil, fmt.Errorf("qdrant init: %w", err)
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { return index.Close() }})
	return index, nil
}

func provideVerifier(log *slog.Logger, store secrets.Store, cfg config.Config) *auth.Verifier {
	return auth.NewVerifier(log, store, cfg.Rag.APIKeySecret)
}

func provideMessageHandler(log *slog.Logger, pipeline *routing.Pipeline) *handlers.MessageHandler {
	return handlers.NewMessageHandler(log, pipeline)
}

func provideRagHandler(log *slog.Logger, service *rag.Service) *handlers.RagHandler {
	return handlers.NewRagHandler(log, service)
}

type serverParams struct {
	fx.In
	Logger         *slog.Logger
	Config         config.Config
	Verifier       *auth.Verifier
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.Config.Server.Addr, params.Verifier, params.ServerHandlers...)
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
