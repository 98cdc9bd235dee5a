package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gofifo/internal/cache"
	"gofifo/internal/config"
	"gofifo/internal/script"
)

var (
	configFile string

	rootCmd = &cobra.Command{
		Use:           "gofifo",
		Short:         "Bounded in-memory key-value cache with FIFO eviction",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if configFile == "" {
				return nil
			}
			viper.SetConfigFile(configFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("unable to read config file: %w", err)
			}
			return nil
		},
	}

	demoCmd = &cobra.Command{
		Use:   "demo",
		Short: "Walk through FIFO eviction, removal and clear",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCache(cmd, func(ctx context.Context, c *cache.Cache[string, string], logger *log.Logger) error {
				return demo(ctx, c, logger)
			})
		},
	}

	runCmd = &cobra.Command{
		Use:   "run [FILE]",
		Short: "Execute cache commands from FILE (or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmd, func(ctx context.Context, c *cache.Cache[string, string], _ *log.Logger) error {
				var r io.Reader = cmd.InOrStdin()
				if len(args) == 1 && args[0] != "-" {
					f, err := os.Open(args[0])
					if err != nil {
						return fmt.Errorf("unable to open script: %w", err)
					}
					defer f.Close()
					r = f
				}
				return script.Run(ctx, c, r, cmd.OutOrStdout())
			})
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "config file (YAML)")
	flags.IntP("size", "s", 0, "cache capacity (default from GOFIFO_SIZE or 5)")
	flags.StringP("log-level", "l", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("size", flags.Lookup("size"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))

	rootCmd.AddCommand(demoCmd, runCmd)
}

// withCache loads configuration, builds the logger and cache, and runs fn
// under a signal-aware context.
func withCache(cmd *cobra.Command, fn func(context.Context, *cache.Cache[string, string], *log.Logger) error) error {
	// Signal-aware context is the root of ownership for the command.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	lvl, err := cfg.Level()
	if err != nil {
		return err
	}

	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		ReportTimestamp: true,
		Level:           lvl,
		Prefix:          "gofifo",
	})

	c, err := cache.New(cache.Config[string, string]{
		Size:   cfg.Size,
		Logger: logger,
		OnEvict: func(key, value string) {
			logger.Info("evicted", "key", key, "value", value)
		},
	})
	if err != nil {
		return err
	}
	logger.Debug("cache ready", "size", c.Cap())

	if err := fn(ctx, c, logger); err != nil {
		return err
	}

	s := c.Stats()
	logger.Info("done",
		"len", humanize.Comma(int64(s.Len)),
		"hits", humanize.Comma(s.Hits),
		"misses", humanize.Comma(s.Misses),
		"evictions", humanize.Comma(s.Evictions),
		"hit_rate", fmt.Sprintf("%.0f%%", s.HitRate*100),
	)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
