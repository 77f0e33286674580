// Command simclient connects simulated players to a running server, one per
// stream, each with its own start delay and playback rate.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/sharetube/multisync/internal/player/simulated"
	"github.com/sharetube/multisync/pkg/ctxlogger"
)

func main() {
	serverURL := pflag.String("server", "ws://localhost:80", "Server base url")
	streams := pflag.Int("streams", 2, "Number of simulated players")
	maxStartDelay := pflag.Duration("max-start-delay", 500*time.Millisecond, "Upper bound of the random start delay")
	seekDelay := pflag.Duration("seek-delay", 30*time.Millisecond, "Buffering time after every seek")
	rateJitter := pflag.Float64("rate-jitter", 0.001, "Maximum deviation of the playback rate from 1")
	duration := pflag.Float64("duration", 600, "Video duration in seconds")
	reportInterval := pflag.Duration("report-interval", 50*time.Millisecond, "Interval of position reports")
	logLevel := pflag.String("log-level", "INFO", "Logging level")
	pflag.Parse()

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(strings.ToUpper(*logLevel))); err != nil {
		log.Fatal(err)
	}
	logger := slog.New(&ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	for i := range *streams {
		opts := simulated.Options{
			StartDelay: time.Duration(rand.Int64N(int64(*maxStartDelay) + 1)),
			SeekDelay:  *seekDelay,
			Rate:       1 + (rand.Float64()*2-1)*(*rateJitter),
			Duration:   *duration,
		}
		streamLogger := logger.With("stream_id", i)

		url := fmt.Sprintf("%s/api/v1/ws/player/%d", strings.TrimSuffix(*serverURL, "/"), i)
		client, err := simulated.Dial(ctx, url, opts, *reportInterval, streamLogger)
		if err != nil {
			log.Fatal(err)
		}
		streamLogger.Info("player connected", "start_delay", opts.StartDelay, "rate", opts.Rate)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := client.Run(ctx); err != nil && ctx.Err() == nil {
				streamLogger.Error("player stopped", "error", err)
			}
		}()
	}

	wg.Wait()
}
