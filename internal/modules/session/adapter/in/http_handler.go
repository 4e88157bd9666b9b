package in

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	progressin "dodge/internal/modules/progress/port/in"
	sessiondto "dodge/internal/modules/session/dto"
	sessionin "dodge/internal/modules/session/port/in"
)

// Intent is one player action received over the play socket.
type Intent struct {
	Type            string  `json:"type"`
	Mode            string  `json:"mode,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	Seed            int64   `json:"seed,omitempty"`
	FocusSource     string  `json:"focus_source,omitempty"`
	ID              string  `json:"id,omitempty"`
	X               float64 `json:"x,omitempty"`
	Y               float64 `json:"y,omitempty"`
	Focused         bool    `json:"focused,omitempty"`
}

type serverMessage struct {
	Type     string               `json:"type"`
	Snapshot *sessiondto.Snapshot `json:"snapshot,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// HTTPHandler serves the play socket and read-only progress endpoints.
type HTTPHandler struct {
	loop     *Loop
	progress progressin.Usecase
	defaults sessiondto.StartInput
	logger   *slog.Logger
}

func NewHTTPHandler(loop *Loop, progress progressin.Usecase, defaults sessiondto.StartInput, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &HTTPHandler{loop: loop, progress: progress, defaults: defaults, logger: logger}
}

func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Get("/api/progress", h.getProgress)
	r.Get("/api/sessions", h.listSessions)
	r.Get("/api/session", h.getSnapshot)
	r.Get("/ws/play", h.play)
	return r
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func (h *HTTPHandler) getProgress(w http.ResponseWriter, r *http.Request) {
	out, err := h.progress.Get(r.Context())
	if err != nil {
		h.logger.Error("load progress", "error", err)
		Error(w, http.StatusInternalServerError, "failed to load progress")
		return
	}
	JSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) listSessions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			Error(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	var (
		out []sessiondto.SessionSummary
		err error
	)
	if doErr := h.loop.Do(r.Context(), func(ctx context.Context, uc sessionin.Usecase) {
		out, err = uc.History(ctx, limit)
	}); doErr != nil {
		return
	}
	if err != nil {
		h.logger.Error("list sessions", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	JSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) getSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap sessiondto.Snapshot
	if err := h.loop.Do(r.Context(), func(ctx context.Context, uc sessionin.Usecase) {
		snap = uc.Snapshot(ctx)
	}); err != nil {
		return
	}
	JSON(w, http.StatusOK, snap)
}

func (h *HTTPHandler) play(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "play ended"); closeErr != nil {
			h.logger.Debug("websocket close", "error", closeErr)
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	snapshots := make(chan sessiondto.Snapshot, 1)
	var unsubscribe func()
	var initial sessiondto.Snapshot
	if err := h.loop.Do(ctx, func(ctx context.Context, uc sessionin.Usecase) {
		unsubscribe = uc.Subscribe(func(s sessiondto.Snapshot) { offerLatest(snapshots, s) })
		initial = uc.Snapshot(ctx)
	}); err != nil {
		return
	}
	defer func() {
		_ = h.loop.Do(context.Background(), func(context.Context, sessionin.Usecase) { unsubscribe() })
	}()
	offerLatest(snapshots, initial)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.outputLoop(ctx, ws, snapshots)
	}()
	h.inputLoop(ctx, ws)
	cancel()
	wg.Wait()
}

func (h *HTTPHandler) inputLoop(ctx context.Context, ws *websocket.Conn) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				h.logger.Debug("websocket read", "error", err)
			}
			return
		}
		var intent Intent
		if err := json.Unmarshal(data, &intent); err != nil {
			h.writeJSON(ctx, ws, serverMessage{Type: "error", Error: "malformed intent"})
			continue
		}
		var applyErr error
		if err := h.loop.Do(ctx, func(ctx context.Context, uc sessionin.Usecase) {
			_, applyErr = ApplyIntent(ctx, uc, h.defaults, intent)
		}); err != nil {
			return
		}
		if applyErr != nil {
			h.writeJSON(ctx, ws, serverMessage{Type: "error", Error: applyErr.Error()})
		}
	}
}

func (h *HTTPHandler) outputLoop(ctx context.Context, ws *websocket.Conn, snapshots <-chan sessiondto.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-snapshots:
			if err := h.writeJSON(ctx, ws, serverMessage{Type: "snapshot", Snapshot: &snap}); err != nil {
				return
			}
		}
	}
}

func (h *HTTPHandler) writeJSON(ctx context.Context, ws *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.Write(ctx, websocket.MessageText, data)
}

// offerLatest replaces any unsent snapshot so slow clients skip frames.
func offerLatest(ch chan sessiondto.Snapshot, snap sessiondto.Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// ApplyIntent maps a socket intent onto the session usecase.
func ApplyIntent(ctx context.Context, uc sessionin.Usecase, defaults sessiondto.StartInput, intent Intent) (sessiondto.Snapshot, error) {
	switch intent.Type {
	case "start":
		input := defaults
		if intent.Mode != "" {
			input.Mode = intent.Mode
		}
		if intent.DurationSeconds > 0 {
			input.Duration = time.Duration(intent.DurationSeconds * float64(time.Second))
		}
		if intent.Seed != 0 {
			input.Seed = intent.Seed
		}
		if intent.FocusSource != "" {
			input.FocusSource = intent.FocusSource
		}
		return uc.Start(ctx, input)
	case "pause":
		return uc.Pause(ctx)
	case "resume":
		return uc.Resume(ctx)
	case "stop":
		return uc.Stop(ctx)
	case "background":
		return uc.Background(ctx)
	case "tap":
		return uc.TapDistraction(ctx, intent.ID)
	case "move":
		return uc.MovePointer(ctx, intent.X, intent.Y)
	case "focus":
		return uc.SetFocused(ctx, intent.Focused)
	default:
		return uc.Snapshot(ctx), fmt.Errorf("unknown intent %q", intent.Type)
	}
}
