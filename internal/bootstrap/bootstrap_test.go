package bootstrap

import (
	"context"
	"testing"
	"time"

	sessionin "dodge/internal/modules/session/port/in"
	"dodge/internal/platform/clock"
	"dodge/internal/platform/config"
	"dodge/internal/platform/id"
)

func newTestApp(t *testing.T) (*App, *clock.Manual, config.Config) {
	t.Helper()
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	clk := clock.NewManual(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	app, err := New(context.Background(), cfg, Options{Clock: clk, IDs: &id.Sequence{Prefix: "session-"}})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app, clk, cfg
}

func TestSimulatedSessionsPersistAcrossModules(t *testing.T) {
	app, clk, cfg := newTestApp(t)
	ctx := context.Background()

	gaze := StartDefaults(cfg)
	gaze.Duration = 3 * time.Second
	gaze.Seed = 7
	gaze.FocusSource = "script:on"
	snap, err := app.SessionCLI.Simulate(ctx, gaze, 100*time.Millisecond, clk.Advance)
	if err != nil {
		t.Fatalf("simulate gaze: %v", err)
	}
	if snap.Result == nil || !snap.Result.Persisted || snap.Result.EndReason != "time_up" {
		t.Fatalf("unexpected gaze result: %+v", snap.Result)
	}
	if snap.Result.Score <= 0 {
		t.Fatalf("expected a focused run to score, got %d", snap.Result.Score)
	}

	catch := StartDefaults(cfg)
	catch.Mode = "catch"
	catch.Duration = 2 * time.Second
	catch.Seed = 7
	snap, err = app.SessionCLI.Simulate(ctx, catch, 100*time.Millisecond, clk.Advance)
	if err != nil {
		t.Fatalf("simulate catch: %v", err)
	}
	if snap.State != "ended" || snap.Result == nil || !snap.Result.Persisted {
		t.Fatalf("unexpected catch snapshot: %+v", snap)
	}

	history, err := app.SessionCLI.History(ctx, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[0].SessionID != "session-2" {
		t.Fatalf("unexpected history: %+v", history)
	}

	progress, err := app.ProgressCLI.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if progress.TotalSessions != 2 || progress.HighScore <= 0 {
		t.Fatalf("unexpected progress: %+v", progress)
	}

	intervals, err := app.MindfulCLI.List(ctx, 10)
	if err != nil {
		t.Fatalf("mindful list: %v", err)
	}
	found := false
	for _, iv := range intervals {
		if iv.SessionID == "session-1" && iv.Duration == 3*time.Second {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a mindful interval for the gaze run, got %+v", intervals)
	}
}

func TestNoPluginsConfigured(t *testing.T) {
	app, _, _ := newTestApp(t)
	plugins, err := app.GazeCLI.List(context.Background())
	if err != nil {
		t.Fatalf("list plugins: %v", err)
	}
	if len(plugins) != 0 {
		t.Fatalf("expected no plugins, got %+v", plugins)
	}
}

func TestStartDefaultsMapsConfig(t *testing.T) {
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Mode = "catch"
	cfg.Seed = 9
	in := StartDefaults(cfg)
	if in.Mode != "catch" || in.Seed != 9 || in.Duration != cfg.SessionDuration || in.ArenaWidth != cfg.ArenaWidth {
		t.Fatalf("unexpected start input: %+v", in)
	}
}

func TestSimulatedWallIntervalMatchesGameTime(t *testing.T) {
	app, clk, cfg := newTestApp(t)
	ctx := context.Background()

	in := StartDefaults(cfg)
	in.Mode = "catch"
	in.Duration = 10 * time.Second
	in.Seed = 3
	// 150ms does not divide 10s, so the last tick is shorter than the step.
	snap, err := app.SessionCLI.Simulate(ctx, in, 150*time.Millisecond, clk.Advance)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	r := snap.Result
	if r == nil {
		t.Fatalf("expected a result, got %+v", snap)
	}
	if got := r.EndedAt.Sub(r.StartedAt); got != snap.Elapsed {
		t.Fatalf("wall interval %s does not match game time %s", got, snap.Elapsed)
	}
	if r.EndReason == "time_up" && snap.Elapsed != 10*time.Second {
		t.Fatalf("expected a full 10s session, got %s", snap.Elapsed)
	}

	if _, err := app.SessionCLI.Simulate(ctx, in, time.Second, clk.Advance); err == nil {
		t.Fatal("expected a one second step to be rejected")
	}
}

func TestServeShutdownPersistsActiveSession(t *testing.T) {
	app, _, cfg := newTestApp(t)
	app.Config.ListenAddr = "127.0.0.1:0"
	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- app.Serve(ctx) }()

	var startErr error
	err := app.loop.Do(ctx, func(ctx context.Context, uc sessionin.Usecase) {
		_, startErr = uc.Start(ctx, StartDefaults(cfg))
	})
	if err != nil || startErr != nil {
		t.Fatalf("start through loop: %v / %v", err, startErr)
	}
	cancel()
	if err := <-served; err != nil {
		t.Fatalf("serve: %v", err)
	}

	history, err := app.SessionCLI.History(context.Background(), 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].EndReason != "stopped" {
		t.Fatalf("expected the live session persisted as stopped, got %+v", history)
	}
}
