package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	objfilter "github.com/wsu-pmp/object-detection-node"
	"github.com/wsu-pmp/object-detection-node/internal/cliconfig"
	"github.com/wsu-pmp/object-detection-node/pkg/log"
)

const helpDescription = `
Filter a stream of 3D object detections down to the small objects.

The node listens for detection frames (one JSON datagram per frame),
discards objects whose bounding box exceeds the size threshold or whose
position is invalid, and republishes the survivors together with an
RViz-style marker overlay. Frames where nothing survives produce no
output.

Configure via file ($HOME/.objfilter/config.toml), OBJFILTER_* environment
variables, or flags; flags win over environment over file.
`

var exampleUsage = strings.TrimSpace(`
  objfilter --listen :9301 --objects-addr 127.0.0.1:9302 --markers-addr 127.0.0.1:9303
  objfilter --replay-dir ./frames --once
  objfilter --size-threshold 0.5 --max-objects 5
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	logger := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "objfilter",
		Short:   "Republish the small objects of a 3D detection stream",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first, then env, then flag overrides
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger.Info().Interface("config", cfg).Msg("configuration")

			node, err := objfilter.New(objfilter.Config{
				ListenAddr:    cfg.ListenAddr,
				ObjectsAddr:   cfg.ObjectsAddr,
				MarkersAddr:   cfg.MarkersAddr,
				ReplayDir:     cfg.ReplayDir,
				SizeThreshold: cfg.SizeThreshold,
				MaxObjects:    cfg.MaxObjects,
				PollInterval:  cfg.PollInterval,
				Once:          cfg.Once,
			}, objfilter.WithLogger(log.NewZerologAdapterWithLogger(logger)))
			if err != nil {
				return fmt.Errorf("create node: %w", err)
			}

			// Graceful shutdown on SIGINT/SIGTERM
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				logger.Info().Msg("received signal, stopping...")
				cancel()
			}()

			if err := node.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.objfilter/config.toml)")
	root.Flags().StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "UDP address to receive detection frames on")
	root.Flags().StringVar(&cfg.ObjectsAddr, "objects-addr", cfg.ObjectsAddr, "UDP destination for filtered object frames")
	root.Flags().StringVar(&cfg.MarkersAddr, "markers-addr", cfg.MarkersAddr, "UDP destination for visualization markers")
	root.Flags().StringVar(&cfg.ReplayDir, "replay-dir", cfg.ReplayDir, "replay recorded frame files from this directory instead of listening")

	root.Flags().Float64Var(&cfg.SizeThreshold, "size-threshold", cfg.SizeThreshold, "keep objects whose largest bounding-box extent is below this, in meters")
	root.Flags().IntVar(&cfg.MaxObjects, "max-objects", cfg.MaxObjects, "maximum objects kept per frame")

	root.Flags().DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "poll interval when the source is idle")
	root.Flags().BoolVar(&cfg.Once, "once", cfg.Once, "process available frames and exit")

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("objfilter")
		os.Exit(1)
	}
}
