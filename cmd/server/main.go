package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sharetube/multisync/internal/app"
	"github.com/sharetube/multisync/internal/engine"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

func (v configVar[T]) bind() {
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

var (
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 80,
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	streamCount = configVar[int]{
		envKey:       "SYNC_STREAM_COUNT",
		flagKey:      "stream-count",
		defaultValue: engine.DefaultStreamCount,
	}
	allowedDiff = configVar[time.Duration]{
		envKey:       "SYNC_ALLOWED_DIFF",
		flagKey:      "allowed-diff",
		defaultValue: engine.DefaultAllowedDiff,
	}
	pollInterval = configVar[time.Duration]{
		envKey:       "SYNC_POLL_INTERVAL",
		flagKey:      "poll-interval",
		defaultValue: engine.DefaultPollInterval,
	}
	syncRetryInterval = configVar[time.Duration]{
		envKey:       "SYNC_RETRY_INTERVAL",
		flagKey:      "sync-retry-interval",
		defaultValue: engine.DefaultSyncRetryInterval,
	}
	autoMute = configVar[bool]{
		envKey:       "SYNC_AUTO_MUTE",
		flagKey:      "auto-mute",
		defaultValue: false,
	}
	initialVideoIDs = configVar[[]string]{
		envKey:       "SYNC_INITIAL_VIDEO_IDS",
		flagKey:      "initial-video-ids",
		defaultValue: []string{},
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
	redisDB = configVar[int]{
		envKey:       "REDIS_DB",
		flagKey:      "redis-db",
		defaultValue: 0,
	}
)

// splitIDs accepts both repeated flags and a single comma separated env value.
func splitIDs(values []string) []string {
	ids := make([]string, 0, len(values))
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	return ids
}

func loadAppConfig() *app.AppConfig {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(streamCount.flagKey, streamCount.defaultValue, "Number of synchronized streams")
	pflag.Duration(allowedDiff.flagKey, allowedDiff.defaultValue, "Drift tolerance between a stream and the sync target")
	pflag.Duration(pollInterval.flagKey, pollInterval.defaultValue, "Interval of current time updates while playing")
	pflag.Duration(syncRetryInterval.flagKey, syncRetryInterval.defaultValue, "Interval between corrective sync ticks")
	pflag.Bool(autoMute.flagKey, autoMute.defaultValue, "Let the engine mute all but one stream")
	pflag.StringSlice(initialVideoIDs.flagKey, initialVideoIDs.defaultValue, "Video ids cued on start, one per stream")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Int(redisDB.flagKey, redisDB.defaultValue, "Redis database")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	port.bind()
	host.bind()
	logLevel.bind()
	streamCount.bind()
	allowedDiff.bind()
	pollInterval.bind()
	syncRetryInterval.bind()
	autoMute.bind()
	initialVideoIDs.bind()
	redisPort.bind()
	redisHost.bind()
	redisPassword.bind()
	redisDB.bind()

	config := &app.AppConfig{
		Host:              viper.GetString(host.flagKey),
		Port:              viper.GetInt(port.flagKey),
		LogLevel:          viper.GetString(logLevel.flagKey),
		StreamCount:       viper.GetInt(streamCount.flagKey),
		AllowedDiff:       viper.GetDuration(allowedDiff.flagKey),
		PollInterval:      viper.GetDuration(pollInterval.flagKey),
		SyncRetryInterval: viper.GetDuration(syncRetryInterval.flagKey),
		AutoMute:          viper.GetBool(autoMute.flagKey),
		InitialVideoIDs:   splitIDs(viper.GetStringSlice(initialVideoIDs.flagKey)),
		RedisPort:         viper.GetInt(redisPort.flagKey),
		RedisHost:         viper.GetString(redisHost.flagKey),
		RedisPassword:     viper.GetString(redisPassword.flagKey),
		RedisDB:           viper.GetInt(redisDB.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
