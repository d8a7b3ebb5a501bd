package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"skilllink/backend/cache"
	"skilllink/backend/cache/memory"
	"skilllink/backend/cache/redis"
	"skilllink/backend/config"
	"skilllink/backend/events"
	"skilllink/backend/handlers/auth"
	"skilllink/backend/handlers/status"
	"skilllink/backend/hub"
	"skilllink/backend/server"
	"skilllink/backend/services/seed"
	"skilllink/backend/store"
	"skilllink/backend/telemetry"
)

const shutdownTimeout = 15 * time.Second

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and websocket hub",
	Long: `Start the SkillLink API server.

Postgres migrations are applied on start unless --migrate=false is given.
Redis, NATS and the OpenTelemetry exporter are used when their addresses
are configured; otherwise in-process replacements take their place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		app := fx.New(
			fx.Supply(cfg, logger),
			fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
				return &fxevent.ZapLogger{Logger: l.Named("fx")}
			}),
			fx.Provide(
				provideStore,
				provideCache,
				provideBroker,
				provideTokens,
				provideHub,
				provideSeeder,
				provideChecks,
				provideServer,
			),
			fx.Invoke(registerTracer, func(*http.Server) {}),
		)

		if err := app.Start(cmd.Context()); err != nil {
			return err
		}

		<-app.Done()

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.Stop(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", true, "apply pending postgres migrations before serving")
}

func provideStore(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	st, err := openStore(ctx, cfg, logger, migrateOnStart)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return st.Close() },
	})
	return st, nil
}

func provideCache(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) cache.Cache {
	opts := cache.DefaultOptions()
	opts.DefaultTTL = cfg.CacheTTL

	var c cache.Cache
	if cfg.RedisAddr != "" {
		opts.RedisURL = cfg.RedisAddr
		opts.RedisPassword = cfg.RedisPassword
		opts.RedisDB = cfg.RedisDB
		c = redis.New(opts)
		logger.Info("using redis cache", zap.String("addr", cfg.RedisAddr))
	} else {
		c = memory.New(opts)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return c.Close() },
	})
	return c
}

func provideBroker(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (events.Broker, error) {
	var b events.Broker
	if cfg.NATSURL != "" {
		nb, err := events.NewNATSBroker(logger, cfg.NATSURL, cfg.NATSConnTimeout)
		if err != nil {
			return nil, err
		}
		b = nb
	} else {
		b = events.NewLocalBroker()
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return b.Close() },
	})
	return b, nil
}

func provideTokens(cfg *config.Config) *auth.TokenManager {
	return auth.NewTokenManager(cfg.JWTSecretKey, cfg.JWTTTL)
}

func provideHub(lc fx.Lifecycle, logger *zap.Logger, broker events.Broker, tokens *auth.TokenManager) *hub.Hub {
	h := hub.New(logger, broker, tokens.UserIDFromToken)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return h.Start() },
		OnStop: func(context.Context) error {
			h.Close()
			return nil
		},
	})
	return h
}

// provideSeeder returns nil unless ENABLE_TEST_DATA is on.
func provideSeeder(cfg *config.Config, st store.Store, logger *zap.Logger) (*seed.Seeder, error) {
	if !cfg.EnableTestData {
		return nil, nil
	}
	return seed.New(st, logger, uint64(time.Now().UnixNano()))
}

func provideChecks(st store.Store, c cache.Cache, b events.Broker) status.Checks {
	checks := status.Checks{Database: st.Ping}
	if p, ok := c.(interface{ Ping(context.Context) error }); ok {
		checks.Cache = p.Ping
	}
	if p, ok := b.(interface{ Ping() error }); ok {
		checks.Broker = func(context.Context) error { return p.Ping() }
	}
	return checks
}

type serverParams struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
	Store  store.Store
	Cache  cache.Cache
	Broker events.Broker
	Hub    *hub.Hub
	Tokens *auth.TokenManager
	Seeder *seed.Seeder
	Checks status.Checks
}

func provideServer(lc fx.Lifecycle, p serverParams) *http.Server {
	srv := server.New(server.Deps{
		Config: p.Config,
		Logger: p.Logger,
		Store:  p.Store,
		Cache:  p.Cache,
		Broker: p.Broker,
		Hub:    p.Hub,
		Tokens: p.Tokens,
		Seeder: p.Seeder,
		Checks: p.Checks,
	})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			p.Logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("store", p.Config.Store))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Logger.Info("server shutting down")
			return srv.Shutdown(ctx)
		},
	})
	return srv
}

// registerTracer installs the OTLP exporter when a collector is configured.
func registerTracer(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) error {
	if cfg.OTELCollectorURL == "" {
		return nil
	}
	shutdown, err := telemetry.InitTracer(context.Background(), telemetry.ServiceName, cfg.OTELCollectorURL)
	if err != nil {
		return err
	}
	logger.Info("tracing enabled", zap.String("collector", cfg.OTELCollectorURL))
	lc.Append(fx.Hook{OnStop: shutdown})
	return nil
}
