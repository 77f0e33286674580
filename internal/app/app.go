package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sharetube/multisync/internal/controller"
	"github.com/sharetube/multisync/internal/engine"
	"github.com/sharetube/multisync/internal/metrics"
	"github.com/sharetube/multisync/internal/repository/connection/inmemory"
	videosetRedis "github.com/sharetube/multisync/internal/repository/videoset/redis"
	"github.com/sharetube/multisync/internal/service/session"
	"github.com/sharetube/multisync/pkg/ctxlogger"
	"github.com/sharetube/multisync/pkg/redisclient"
	"github.com/sharetube/multisync/pkg/validator"
	"github.com/sharetube/multisync/pkg/ytvideodata"
)

type AppConfig struct {
	Host              string        `json:"host" validate:"required"`
	Port              int           `json:"port" validate:"gte=1,lte=65535"`
	LogLevel          string        `json:"log_level" validate:"required"`
	RedisPort         int           `json:"redis_port" validate:"gte=1,lte=65535"`
	RedisHost         string        `json:"redis_host" validate:"required"`
	RedisPassword     string        `json:"-"`
	RedisDB           int           `json:"redis_db" validate:"gte=0"`
	StreamCount       int           `json:"stream_count" validate:"gte=1"`
	AllowedDiff       time.Duration `json:"allowed_diff"`
	PollInterval      time.Duration `json:"poll_interval"`
	SyncRetryInterval time.Duration `json:"sync_retry_interval"`
	AutoMute          bool          `json:"auto_mute"`
	InitialVideoIDs   []string      `json:"initial_video_ids"`
}

func (cfg *AppConfig) engineConfig() engine.Config {
	return engine.Config{
		AllowedDiff:       cfg.AllowedDiff,
		PollInterval:      cfg.PollInterval,
		SyncRetryInterval: cfg.SyncRetryInterval,
		StreamCount:       cfg.StreamCount,
		AutoMute:          cfg.AutoMute,
		InitialVideoIDs:   cfg.InitialVideoIDs,
	}
}

func (cfg *AppConfig) Validate() error {
	if err := validator.NewValidator().Err(cfg); err != nil {
		return fmt.Errorf("invalid app config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return fmt.Errorf("invalid app config: %w", err)
	}

	engineCfg := cfg.engineConfig()
	return engineCfg.Validate()
}

func newLogger(cfg *AppConfig) *slog.Logger {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	return slog.New(&h)
}

// newServer wires every component around one engine loop. The loop must be run
// by the caller.
func newServer(cfg *AppConfig, rc *redis.Client, logger *slog.Logger) (*http.Server, *engine.Loop, error) {
	loop := engine.NewLoop()
	m := metrics.New()
	connectionRepo := inmemory.NewRepo(logger)
	videoSetRepo := videosetRedis.NewRepo(rc)

	sessionService, err := session.NewService(
		&session.Config{Engine: cfg.engineConfig()},
		loop,
		connectionRepo,
		videoSetRepo,
		ytvideodata.New(),
		m,
		logger,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session service: %w", err)
	}

	controller := controller.NewController(sessionService, connectionRepo, m, logger)
	sessionService.SetNotifier(controller)

	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}
	return server, loop, nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	server, loop, err := newServer(cfg, rc, logger)
	if err != nil {
		return err
	}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	go func() {
		if err := loop.Run(serverCtx); err != nil && err != context.Canceled {
			logger.Error("engine loop stopped", "error", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr, "stream_count", cfg.StreamCount)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		serverStopCtx()
		return err
	}

	<-serverCtx.Done()

	return nil
}
