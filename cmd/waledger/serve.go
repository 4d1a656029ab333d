package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/waledger/waledger/internal/config"
	"github.com/waledger/waledger/internal/db"
	dbsqlc "github.com/waledger/waledger/internal/db/sqlc"
	"github.com/waledger/waledger/internal/handlers"
	"github.com/waledger/waledger/internal/healthcheck"
	postgreschecker "github.com/waledger/waledger/internal/healthcheck/checkers/postgres"
	"github.com/waledger/waledger/internal/ingest"
	"github.com/waledger/waledger/internal/logger"
	"github.com/waledger/waledger/internal/operators"
	"github.com/waledger/waledger/internal/server"
	"github.com/waledger/waledger/internal/version"
)

func newServeCmd() *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP ingestion server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			runServe(cfg, !skipMigrate)
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply pending migrations on start")
	return cmd
}

type migrateOnStart bool

func runServe(cfg config.Config, migrate bool) {
	fx.New(
		fx.Supply(cfg, migrateOnStart(migrate)),
		fx.Provide(
			provideLogger,
			provideDBConn,
			provideDBQueries,
			provideTxRunner,
			provideIngestService,
			operators.NewService,
			provideDBChecker,
			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(provideInboundHandler),
			provideServerHandler(provideAuthHandler),
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

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	conn, err := db.Open(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { conn.Close(); return nil }})
	return conn, nil
}

func provideDBQueries(conn *pgxpool.Pool) dbsqlc.Querier { return dbsqlc.New(conn) }

func provideTxRunner(conn *pgxpool.Pool) db.UnitOfWork { return db.NewTxRunner(conn) }

func provideIngestService(log *slog.Logger, queries dbsqlc.Querier, uow db.UnitOfWork, cfg config.Config) *ingest.Service {
	return ingest.NewService(log, queries, uow, cfg.Ingest)
}

func provideDBChecker(log *slog.Logger, conn *pgxpool.Pool, cfg config.Config) healthcheck.Checker {
	return postgreschecker.NewChecker(log, conn, cfg.Postgres.DatabaseName())
}

func provideInboundHandler(log *slog.Logger, service *ingest.Service, cfg config.Config) *handlers.InboundHandler {
	return handlers.NewInboundHandler(log, service, cfg.Ingest)
}

func provideAuthHandler(log *slog.Logger, service *operators.Service, cfg config.Config) (*handlers.AuthHandler, error) {
	expiresIn, err := cfg.Auth.ExpiresIn()
	if err != nil {
		return nil, fmt.Errorf("auth.jwt_expires_in: %w", err)
	}
	return handlers.NewAuthHandler(log, service, cfg.Auth.JWTSecret, expiresIn), nil
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.Config.Server.Addr, params.Config.Auth.JWTSecret, params.ServerHandlers...)
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner, cfg config.Config, migrate migrateOnStart, operatorService *operators.Service) {
	logger.Info("starting waledger", slog.String("version", version.GetInfo()), slog.String("addr", cfg.Server.Addr))
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if migrate {
				if err := migrateUp(logger, cfg); err != nil {
					return err
				}
			}
			if _, err := operatorService.EnsureDefault(ctx, cfg.Admin); err != nil {
				return fmt.Errorf("ensure admin operator: %w", err)
			}
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}

func migrateUp(logger *slog.Logger, cfg config.Config) error {
	m, err := db.NewMigrator(logger, cfg.Postgres.DSN())
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}
