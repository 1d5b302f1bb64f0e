// Package registry implements app.Runner for the claims registry process.
package registry

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apphttp "github.com/chainsafe/claims-registry/pkg/app/http"
	"github.com/chainsafe/claims-registry/pkg/auth"
	"github.com/chainsafe/claims-registry/pkg/claim"
	"github.com/chainsafe/claims-registry/pkg/claim/client"
	claimregistry "github.com/chainsafe/claims-registry/pkg/claim/registry"
	"github.com/chainsafe/claims-registry/pkg/claim/service"
	"github.com/chainsafe/claims-registry/pkg/claimstore"
	"github.com/chainsafe/claims-registry/pkg/config"
	"github.com/chainsafe/claims-registry/pkg/events"
	"github.com/chainsafe/claims-registry/pkg/ledger"
	"github.com/chainsafe/claims-registry/pkg/offchain"
	"github.com/chainsafe/claims-registry/pkg/pgutil"
)

const (
	defaultHTTPMiddlewareTimeout = 60 * time.Second
	kafkaCloseTimeout            = 10 * time.Second

	// One partition keeps the topic in apply order across fingerprints.
	kafkaTopicPartitions        = 1
	kafkaTopicReplicationFactor = 1
)

// Server holds cfg to init the registry process.
type Server struct {
	cfg *config.Config

	closers []func()
}

// NewServer initializes a new registry Server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run starts block production, the claims API, the metrics endpoint and, when enabled,
// the offchain worker. It blocks until an OS shutdown signal is received or one of them
// fails.
func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("nil config")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	defer s.close()

	logger.Info("Starting claims registry",
		zap.String("chain_id", cfg.Ledger.ChainID),
		zap.String("store", cfg.Registry.Store),
		zap.Int("max_fingerprint_len", cfg.Registry.MaxFingerprintLen),
	)

	store, heights, err := s.openStorage(ctx, logger)
	if err != nil {
		return err
	}

	chain, err := ledger.New(ctx, logger.Named("ledger"),
		ledger.WithHeightStore(heights),
		ledger.WithBlockInterval(cfg.Ledger.BlockInterval),
	)
	if err != nil {
		return fmt.Errorf("create ledger: %w", err)
	}

	emitter, err := s.newEmitter(ctx, logger)
	if err != nil {
		return err
	}

	reg := claimregistry.New(store, chain,
		claimregistry.WithMaxFingerprintLen(cfg.Registry.MaxFingerprintLen),
		claimregistry.WithEmitter(emitter),
	)
	claimService := service.NewLog(service.NewService(reg, chain), logger)

	authn, err := s.newAuthenticator()
	if err != nil {
		return err
	}

	var worker *offchain.Worker
	if cfg.Offchain.Enabled {
		worker, err = s.newOffchainWorker(chain.Subscribe(), logger)
		if err != nil {
			return err
		}
	}

	router := s.newRouter(claimService, authn, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return chain.Run(gctx)
	})
	g.Go(func() error {
		return apphttp.ServeAndWait(gctx, router, logger, &cfg.Server)
	})
	if cfg.Monitoring.Enabled {
		g.Go(func() error {
			return apphttp.ServeMetricsAndWait(gctx, promhttp.Handler(), logger, cfg.Monitoring.MetricsPort)
		})
	}
	if worker != nil {
		g.Go(func() error {
			return worker.Run(gctx)
		})
	}

	err = g.Wait()
	logger.Info("Claims registry stopped", zap.Uint64("height", uint64(chain.Height())))
	return err
}

// openStorage connects the claims store and, if configured, the height store.
func (s *Server) openStorage(ctx context.Context, logger *zap.Logger) (claimregistry.Store, ledger.HeightStore, error) {
	cfg := s.cfg

	var heights ledger.HeightStore
	if cfg.Database.Enabled() && (cfg.Registry.Store == config.StorePostgres || cfg.Ledger.PersistHeight) {
		db, err := pgutil.ConnectDB(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		s.closers = append(s.closers, func() { _ = db.Close() })
		logger.Info("Connected to database",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database),
		)

		if cfg.Ledger.PersistHeight {
			heights = ledger.NewPGHeightStore(db, cfg.Ledger.ChainID)
		}
		if cfg.Registry.Store == config.StorePostgres {
			return claimstore.NewPGStore(db), heights, nil
		}
	}

	switch cfg.Registry.Store {
	case config.StoreRedis:
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts.PoolSize = cfg.Redis.PoolSize
		opts.MinIdleConns = cfg.Redis.MinIdleConns
		opts.DialTimeout = cfg.Redis.DialTimeout
		opts.ReadTimeout = cfg.Redis.ReadTimeout
		opts.WriteTimeout = cfg.Redis.WriteTimeout

		rdb := redis.NewClient(opts)
		s.closers = append(s.closers, func() { _ = rdb.Close() })
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("Connected to redis", zap.String("addr", opts.Addr))
		return claimstore.NewRedisStore(rdb, claimstore.WithKeyPrefix(cfg.Redis.KeyPrefix)), heights, nil
	case config.StoreMemory:
		logger.Warn("Using in-memory claims store, claims are lost on restart")
		return claimstore.NewMemoryStore(), heights, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store %q", cfg.Registry.Store)
	}
}

func (s *Server) newEmitter(ctx context.Context, logger *zap.Logger) (claimregistry.Emitter, error) {
	emitters := events.Multi{events.NewLogEmitter(logger)}
	if !s.cfg.Kafka.Enabled {
		return emitters, nil
	}

	kc := s.cfg.Kafka
	kafka, err := events.NewKafkaEmitter(kc.Brokers, kc.Topic, kc.ClientID, logger)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), kafkaCloseTimeout)
		defer cancel()
		if err := kafka.Close(closeCtx); err != nil {
			logger.Warn("Failed to flush claim events", zap.Error(err))
		}
	})
	if err := kafka.EnsureTopic(ctx, kafkaTopicPartitions, kafkaTopicReplicationFactor); err != nil {
		return nil, err
	}
	logger.Info("Publishing claim events to kafka",
		zap.Strings("brokers", kc.Brokers),
		zap.String("topic", kc.Topic),
	)
	return append(emitters, kafka), nil
}

func (s *Server) newAuthenticator() (auth.Authenticator, error) {
	ac := s.cfg.Auth
	switch ac.Mode {
	case config.AuthModeEIP191:
		return auth.NewEIP191Authenticator(0), nil
	case config.AuthModeJWT:
		a, err := auth.NewJWTAuthenticator(ac.HMACSecret, ac.JWKSURL, ac.Issuer)
		if err != nil {
			return nil, fmt.Errorf("create jwt authenticator: %w", err)
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", ac.Mode)
	}
}

func (s *Server) newOffchainWorker(heights <-chan claim.Height, logger *zap.Logger) (*offchain.Worker, error) {
	cfg := s.cfg

	issuer, err := auth.NewIssuer(cfg.Auth.HMACSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("create token issuer: %w", err)
	}
	account := claim.AccountID(cfg.Offchain.Account)

	serverURL := cfg.Offchain.ServerURL
	if serverURL == "" {
		serverURL = fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	}
	api := client.New(serverURL, client.WithTokenSource(func() (string, error) {
		return issuer.Issue(account)
	}))

	fetcher, err := offchain.NewFetcher(cfg.Offchain.Endpoint, cfg.Offchain.Timeout, cfg.Offchain.MaxRetries)
	if err != nil {
		return nil, err
	}

	logger.Info("Offchain worker enabled",
		zap.String("endpoint", cfg.Offchain.Endpoint),
		zap.String("account", cfg.Offchain.Account),
		zap.String("server_url", serverURL),
	)
	return offchain.NewWorker(heights, fetcher, api, cfg.Registry.MaxFingerprintLen, logger)
}

func (s *Server) newRouter(svc service.Service, authn auth.Authenticator, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultHTTPMiddlewareTimeout))

	service.RegisterRoutes(r, svc, authn, logger)
	return r
}

// close releases connections in reverse order of opening.
func (s *Server) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
