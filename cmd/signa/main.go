package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"io"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/gin-gonic/gin"
	"github.com/layer-3/signa/adapters/device"
	"github.com/layer-3/signa/adapters/events"
	"github.com/layer-3/signa/adapters/evm"
	"github.com/layer-3/signa/adapters/mwa"
	"github.com/layer-3/signa/adapters/simulated"
	"github.com/layer-3/signa/adapters/store"
	"github.com/layer-3/signa/adapters/tokenizer"
	"github.com/layer-3/signa/adapters/verifier"
	"github.com/layer-3/signa/config"
	"github.com/layer-3/signa/core"
	"github.com/layer-3/signa/logger"
	"github.com/layer-3/signa/ports"
	"github.com/layer-3/signa/service"
	"github.com/layer-3/signa/transport/http"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Stage: cfg.Stage, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.Storage.Backend == config.BackendRedis || cfg.Events.Enabled {
		opts, err := redis.ParseURL(cfg.Storage.RedisURL)
		if err != nil {
			log.Fatal("Failed to parse Redis URL", zap.Error(err))
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}

	kv, closer, err := openStore(cfg, redisClient)
	if err != nil {
		log.Fatal("Failed to open session storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer closer.Close()

	options := []service.Option{
		service.WithLogger(log.Named("wallet")),
		service.WithOperationTimeout(cfg.Session.OperationTimeout),
		service.WithChallengeGenerator(service.NewChallengeGenerator(cfg.App.Name)),
		service.WithVerifier(verifier.New()),
	}

	if cfg.Events.Enabled {
		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client: redisClient,
			},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			log.Fatal("Failed to create Redis publisher", zap.Error(err))
		}
		defer publisher.Close()
		options = append(options, service.WithEventPublisher(events.NewWatermillPublisher(publisher)))
	}

	// Simulated wallets stand in for the relay and mobile wallet SDKs
	relay, err := simulated.NewRelay()
	if err != nil {
		log.Fatal("Failed to create simulated relay", zap.Error(err))
	}
	mobileWallet, err := simulated.NewMobileWallet(nil)
	if err != nil {
		log.Fatal("Failed to create simulated mobile wallet", zap.Error(err))
	}

	linker := device.NewStaticLinker(cfg.Device.InstalledSchemes, log.Named("device"))
	prompter := device.NewLogPrompter(linker, log.Named("device"), cfg.Device.Platform, false)
	identity := ports.AppIdentity{Name: cfg.App.Name, URI: cfg.App.URI, Icon: cfg.App.Icon}

	connectors := map[core.ChainType]ports.Connector{
		core.ChainEVM:    evm.NewConnector(relay, linker, prompter, cfg.WalletConnectProjectID, log.Named("evm")),
		core.ChainSolana: mwa.NewConnector(mobileWallet, linker, prompter, identity, cfg.SolanaCluster, log.Named("solana")),
	}

	wallet := service.OpenWalletService(ctx, service.NewSessionStore(kv), connectors, options...)
	defer wallet.Close()

	// Generate a new ECDSA key pair; access tokens only live as long as the process
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		log.Fatal("Failed to generate signing key", zap.Error(err))
	}

	gate := service.NewAuthGate(wallet, tokenizer.NewJWTTokenizer(privateKey, cfg.App.Name), cfg.Auth.AccessTTL)
	signer := service.NewGuardedSigner(wallet, device.StaticBiometrics{Required: cfg.Device.RequireBiometrics, Allow: true})

	if cfg.Stage == logger.ProdStage {
		gin.SetMode(gin.ReleaseMode)
	}
	router := http.SetupRouter(wallet, signer, gate)

	log.Info("Starting server",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("storage", cfg.Storage.Backend),
		zap.Bool("events", cfg.Events.Enabled),
		zap.Bool("restored", wallet.Snapshot().Session.ConnectionStatus == core.StatusConnected),
	)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore builds the key-value backend selected in the configuration
func openStore(cfg *config.Config, redisClient *redis.Client) (ports.KeyValue, io.Closer, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		return store.NewRedisStore(redisClient), nopCloser{}, nil
	case config.BackendBolt:
		s, err := store.NewBoltStore(cfg.Storage.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendKeyring:
		s, err := store.OpenKeyring(cfg.Storage.KeyringService, "~/.signa/keyring")
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	default:
		return store.NewMemoryStore(), nopCloser{}, nil
	}
}
