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

	"github.com/spf13/cobra"

	"dodge/internal/bootstrap"
	sessiondto "dodge/internal/modules/session/dto"
	"dodge/internal/platform/clock"
	"dodge/internal/platform/config"
	"dodge/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	dataDir  string
	debug    bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "dodge",
		Short:         "DistractionDodge attention trainer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data", ".", "data directory (database, journal, plugins)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error")

	root.AddCommand(newPlayCmd(opts))
	root.AddCommand(newSimulateCmd(opts))
	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newOnboardCmd(opts))
	root.AddCommand(newProgressCmd(opts))
	root.AddCommand(newMindfulCmd(opts))
	root.AddCommand(newPluginCmd(opts))
	root.AddCommand(newServeCmd(opts))
	return root
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.New(opts.dataDir)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.ApplyFlags(opts.debug, opts.logLevel); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadApp wires the app for one-shot CLI commands: JSON logs on stderr.
func loadApp(ctx context.Context, cfg config.Config, extra bootstrap.Options) (*bootstrap.App, error) {
	if extra.Logger == nil {
		extra.Logger = logging.NewJSON(os.Stderr, cfg.LogLevel)
	}
	if extra.PluginLogOutput == nil {
		extra.PluginLogOutput = os.Stderr
	}
	return bootstrap.New(ctx, cfg, extra)
}

func withApp(opts *rootOptions, fn func(ctx context.Context, app *bootstrap.App) error) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	ctx := context.Background()
	app, err := loadApp(ctx, cfg, bootstrap.Options{})
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newPlayCmd(opts *rootOptions) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if mode != "" {
				cfg.Mode = mode
			}
			logger, logFile, err := logging.NewForTUI(cfg.LogDir, cfg.Debug, cfg.LogLevel)
			if err != nil {
				return err
			}
			var pluginOut io.Writer = io.Discard
			if logFile != nil {
				defer logFile.Close()
				pluginOut = logFile
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			app, err := bootstrap.New(ctx, cfg, bootstrap.Options{Logger: logger, PluginLogOutput: pluginOut})
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(ctx, app)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "mode for new sessions: gaze|catch")
	return cmd
}

func newSimulateCmd(opts *rootOptions) *cobra.Command {
	var (
		mode, focusPattern, focusSource string
		duration, step                  time.Duration
		seed                            int64
		asJSON                          bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play one session headless with a deterministic seed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			ctx := context.Background()
			clk := clock.NewManual(time.Now())
			app, err := loadApp(ctx, cfg, bootstrap.Options{Clock: clk})
			if err != nil {
				return err
			}
			defer app.Close()

			input := bootstrap.StartDefaults(cfg)
			input.Seed = seed
			if mode != "" {
				input.Mode = mode
			}
			if duration > 0 {
				input.Duration = duration
			}
			switch {
			case focusSource != "":
				input.FocusSource = focusSource
			case focusPattern != "":
				input.FocusSource = "script:" + focusPattern
			}

			snap, err := app.SessionCLI.Simulate(ctx, input, step, clk.Advance)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), snap.Result)
			}
			printResult(cmd.OutOrStdout(), snap)
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "gaze|catch (default from config)")
	cmd.Flags().DurationVar(&duration, "duration", 0, "session length (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "spawner seed")
	cmd.Flags().StringVar(&focusPattern, "focus-pattern", "on:8s,off:2s", "scripted gaze focus, e.g. on:10s,off:2s")
	cmd.Flags().StringVar(&focusSource, "focus-source", "", "focus source spec, overrides --focus-pattern (e.g. plugin:gaze-sim)")
	cmd.Flags().DurationVar(&step, "step", time.Second/60, "simulation tick, at most 250ms")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func printResult(w io.Writer, snap sessiondto.Snapshot) {
	r := snap.Result
	if r == nil {
		_, _ = fmt.Fprintf(w, "session %s ended: %s score=%d\n", snap.SessionID, snap.EndReason, snap.Score)
		return
	}
	_, _ = fmt.Fprintf(w, "session %s mode=%s reason=%s score=%d\n", r.SessionID, r.Mode, r.EndReason, r.Score)
	if r.Mode == "catch" {
		_, _ = fmt.Fprintf(w, "best_catch_streak=%d hearts_left=%d\n", r.BestCatchStreak, r.HeartsLeft)
	} else {
		_, _ = fmt.Fprintf(w, "best_streak=%s focus=%s resisted=%d\n", r.BestStreak, r.TotalFocusTime, r.ResistCount)
	}
	if r.NewHighScore {
		_, _ = fmt.Fprintln(w, "new high score")
	}
	if r.Alert != "" {
		_, _ = fmt.Fprintf(w, "alert: %s\n", r.Alert)
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show lifetime progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				p, err := app.ProgressCLI.Stats(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), p)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "high_score=%d longest_streak=%s longest_catch_streak=%d sessions=%d total_focus=%s onboarded=%t\n",
					p.HighScore, p.LongestStreak, p.LongestCatchStreak, p.TotalSessions, p.TotalFocusTime, p.HasCompletedOnboarding)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				sessions, err := app.SessionCLI.History(ctx, limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), sessions)
				}
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				for _, s := range sessions {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s mode=%s score=%d best_streak=%s reason=%s\n",
						s.StartedAt.Local().Format(time.RFC3339), s.SessionID, s.Mode, s.Score, s.BestStreak, s.EndReason)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum sessions to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newOnboardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "onboard",
		Short: "Mark onboarding as completed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				if _, err := app.ProgressCLI.Onboard(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "onboarding completed")
				return nil
			})
		},
	}
}

func newProgressCmd(opts *rootOptions) *cobra.Command {
	progress := &cobra.Command{Use: "progress", Short: "Progress maintenance"}
	progress.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset high score and lifetime totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				if _, err := app.ProgressCLI.Reset(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "progress reset")
				return nil
			})
		},
	})
	return progress
}

func newMindfulCmd(opts *rootOptions) *cobra.Command {
	mindful := &cobra.Command{Use: "mindful", Short: "Mindful minutes journal"}
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List logged mindful intervals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				intervals, err := app.MindfulCLI.List(ctx, limit)
				if err != nil {
					return err
				}
				if len(intervals) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no mindful intervals")
					return nil
				}
				for _, iv := range intervals {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s session=%s duration=%s note=%s\n",
						iv.Start.Local().Format(time.RFC3339), iv.SessionID, iv.Duration, iv.Path)
				}
				return nil
			})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "maximum entries")
	mindful.AddCommand(listCmd)
	return mindful
}

func newPluginCmd(opts *rootOptions) *cobra.Command {
	plugin := &cobra.Command{Use: "plugin", Short: "Gaze provider plugins"}
	plugin.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List plugin manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				plugins, err := app.GazeCLI.List(ctx)
				if err != nil {
					return err
				}
				if len(plugins) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
					return nil
				}
				for _, p := range plugins {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t binary=%s capabilities=%v\n", p.Name, p.Version, p.Enabled, p.Binary, p.Capabilities)
				}
				return nil
			})
		},
	})

	plugin.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate plugin checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(ctx context.Context, app *bootstrap.App) error {
				results, err := app.GazeCLI.Doctor(ctx)
				if err != nil {
					return err
				}
				if len(results) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
					return nil
				}
				for _, r := range results {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
					if r.Error != "" {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				return nil
			})
		},
	})
	return plugin
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the websocket play feed and progress API",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ListenAddr = addr
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			app, err := loadApp(ctx, cfg, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
