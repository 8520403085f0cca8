package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/hwplayer"
	"github.com/xaionaro-go/hwplayer/demuxer/libav"
	"github.com/xaionaro-go/hwplayer/indicator"
	"github.com/xaionaro-go/hwplayer/rkplayer"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/xcontext"
)

const (
	statsRateWindow = 50
)

func main() {
	os.Exit(run())
}

// configPathFromArgs finds --config before the real flags are defined, so
// that the file values become the flag defaults.
func configPathFromArgs(args []string) string {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	path := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *path
}

func run() int {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s [flags] <input>\n", os.Args[0])
		pflag.PrintDefaults()
	}

	cfg := hwplayer.DefaultConfig()
	configPath := configPathFromArgs(os.Args[1:])
	if configPath != "" {
		if err := hwplayer.LoadConfigFile(configPath, &cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return hwplayer.ExitCodeUsage
		}
	}

	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	pflag.String("config", configPath, "a YAML file with the configuration; the flags override it")
	printStats := pflag.Bool("print-stats", false, "print the decoder statistics every second")
	cfg.AddFlags(pflag.CommandLine)
	pflag.Parse()
	if len(pflag.Args()) != 1 {
		pflag.Usage()
		return hwplayer.ExitCodeUsage
	}
	input := pflag.Arg(0)

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	ctx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if cfg.Demuxer != hwplayer.DemuxerKindMP4 {
		libav.RedirectLogs(ctx)
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalCh)
	observability.Go(ctx, func(ctx context.Context) {
		select {
		case <-ctx.Done():
		case sig := <-signalCh:
			l.Infof("received %v, stopping", sig)
			cancelFn()
		}
	})

	l.Debugf("opening '%s'...", input)
	player, err := rkplayer.Open(ctx, input, cfg)
	if err != nil {
		l.Error(err)
		return hwplayer.ExitCode(err)
	}
	defer func() {
		if err := player.Close(xcontext.DetachDone(ctx)); err != nil {
			l.Errorf("unable to close the player: %v", err)
		}
	}()

	if *printStats {
		observability.Go(ctx, func(ctx context.Context) {
			t := time.NewTicker(time.Second)
			defer t.Stop()
			decodeRate := indicator.NewRate(indicator.NewMAMA[float64](statsRateWindow))
			for {
				select {
				case <-ctx.Done():
					return
				case now := <-t.C:
					stats := player.Stats()
					statsJSON, err := json.Marshal(stats)
					if err != nil {
						l.Error(err)
						return
					}
					fps, _ := decodeRate.Observe(stats.FramesRetrieved, now)
					fmt.Printf("loops:%d fps:%.1f decoder:%s\n", player.Loops(), fps, statsJSON)
				}
			}
		})
	}

	if err := player.Serve(ctx); err != nil {
		l.Error(err)
		return hwplayer.ExitCode(err)
	}
	return hwplayer.ExitCodeOK
}
