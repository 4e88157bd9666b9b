package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	gazeinadapter "dodge/internal/modules/gaze/adapter/in"
	gazeoutadapter "dodge/internal/modules/gaze/adapter/out"
	gazeservice "dodge/internal/modules/gaze/service"
	gazeusecase "dodge/internal/modules/gaze/usecase"
	mindfulinadapter "dodge/internal/modules/mindful/adapter/in"
	mindfuloutadapter "dodge/internal/modules/mindful/adapter/out"
	mindfulservice "dodge/internal/modules/mindful/service"
	mindfulusecase "dodge/internal/modules/mindful/usecase"
	progressinadapter "dodge/internal/modules/progress/adapter/in"
	progressoutadapter "dodge/internal/modules/progress/adapter/out"
	progressservice "dodge/internal/modules/progress/service"
	progressusecase "dodge/internal/modules/progress/usecase"
	sessioninadapter "dodge/internal/modules/session/adapter/in"
	sessionoutadapter "dodge/internal/modules/session/adapter/out"
	"dodge/internal/modules/session/domain"
	sessiondto "dodge/internal/modules/session/dto"
	sessionservice "dodge/internal/modules/session/service"
	sessionusecase "dodge/internal/modules/session/usecase"
	"dodge/internal/platform/clock"
	"dodge/internal/platform/config"
	"dodge/internal/platform/database"
	"dodge/internal/platform/id"
	"dodge/internal/platform/tx"
	uiapp "dodge/internal/ui/app"
)

// Options overrides ambient dependencies. Zero values fall back to the
// system clock, random ids and a discarded log.
type Options struct {
	Logger *slog.Logger
	// PluginLogOutput receives gaze plugin host logs.
	PluginLogOutput io.Writer
	Clock           clock.Clock
	IDs             id.Generator
}

type App struct {
	Config config.Config
	Logger *slog.Logger

	SessionCLI  sessioninadapter.CLIHandler
	SessionTUI  sessioninadapter.TUIHandler
	ProgressCLI progressinadapter.CLIHandler
	MindfulCLI  mindfulinadapter.CLIHandler
	GazeCLI     gazeinadapter.CLIHandler

	loop *sessioninadapter.Loop
	http *sessioninadapter.HTTPHandler
	db   *sql.DB
}

// New opens the database and wires every module. A database that cannot be
// opened or migrated is fatal.
func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	ids := opts.IDs
	if ids == nil {
		ids = id.UUID{}
	}
	pluginOut := opts.PluginLogOutput
	if pluginOut == nil {
		pluginOut = io.Discard
	}

	db, err := database.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	txm := tx.NewSQLManager(db)

	progressStore, err := progressoutadapter.NewSQLiteProgressStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("new progress store: %w", err)
	}
	progressUC := progressusecase.NewInteractor(progressservice.NewProgressService(clk, progressStore, txm))

	sessionStore, err := sessionoutadapter.NewSQLiteSessionStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("new session store: %w", err)
	}

	mindfulUC := mindfulusecase.NewInteractor(mindfulservice.NewMindfulService(
		cfg.MindfulEnabled,
		mindfuloutadapter.NewVaultJournal(cfg.JournalDir),
	))

	gazeUC := gazeusecase.NewInteractor(gazeservice.NewGazeService(
		gazeoutadapter.NewFileManifestStore(cfg.PluginDir),
		gazeoutadapter.NewGRPCHost(hclog.New(&hclog.LoggerOptions{
			Name:   "gaze",
			Output: pluginOut,
			Level:  hclog.LevelFromString(cfg.LogLevel),
		})),
	))

	sessionUC := sessionusecase.NewInteractor(sessionservice.NewSessionService(sessionservice.Dependencies{
		Clock:    clk,
		IDs:      ids,
		Store:    sessionStore,
		Progress: sessionoutadapter.NewProgressAdapter(progressUC),
		Mindful:  sessionoutadapter.NewMindfulAdapter(mindfulUC),
		Sources:  sessionoutadapter.NewSourceFactory(gazeUC),
		Tx:       txm,
		Logger:   logger.With("module", "session"),
	}))

	defaults := StartDefaults(cfg)
	loop := sessioninadapter.NewLoop(sessionUC, domain.TickInterval, logger.With("module", "loop"))

	return &App{
		Config:      cfg,
		Logger:      logger,
		SessionCLI:  sessioninadapter.NewCLIHandler(sessionUC),
		SessionTUI:  sessioninadapter.NewTUIHandler(sessionUC, defaults),
		ProgressCLI: progressinadapter.NewCLIHandler(progressUC),
		MindfulCLI:  mindfulinadapter.NewCLIHandler(mindfulUC),
		GazeCLI:     gazeinadapter.NewCLIHandler(gazeUC),
		loop:        loop,
		http:        sessioninadapter.NewHTTPHandler(loop, progressUC, defaults, logger.With("module", "http")),
		db:          db,
	}, nil
}

// StartDefaults maps configuration onto the session start input.
func StartDefaults(cfg config.Config) sessiondto.StartInput {
	return sessiondto.StartInput{
		Mode:        cfg.Mode,
		Duration:    cfg.SessionDuration,
		Seed:        cfg.Seed,
		FocusSource: cfg.FocusSource,
		ArenaWidth:  cfg.ArenaWidth,
		ArenaHeight: cfg.ArenaHeight,
	}
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Serve runs the session loop and the HTTP feed until ctx is cancelled. An
// active session is stopped and persisted before the server shuts down.
func (a *App) Serve(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	loopDone := make(chan error, 1)
	go func() { loopDone <- a.loop.Run(loopCtx) }()

	srv := &http.Server{
		Addr:        a.Config.ListenAddr,
		Handler:     a.http.Routes(),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
		BaseContext: func(net.Listener) context.Context { return loopCtx },
	}
	serveErr := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen %s: %w", srv.Addr, err)
		}
	}

	a.Logger.Info("shutting down")
	cancel()
	<-loopDone
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}

// RunTUI starts the terminal UI. The TUI logger must not write to the
// terminal; see logging.NewForTUI.
func RunTUI(ctx context.Context, app *App) error {
	progress, err := app.ProgressCLI.Stats(ctx)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	model := uiapp.NewModel(uiapp.Deps{
		Session:    app.SessionTUI,
		Progress:   app.ProgressCLI,
		Mode:       app.Config.Mode,
		Onboarded:  progress.HasCompletedOnboarding,
		TickPeriod: domain.TickInterval,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
	_, err = program.Run()
	if stopErr := app.SessionTUI.StopActive(context.WithoutCancel(ctx)); stopErr != nil {
		app.Logger.Error("stop session on exit failed", "error", stopErr)
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
