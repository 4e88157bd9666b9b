package out

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	gazein "dodge/internal/modules/gaze/port/in"
	sessionout "dodge/internal/modules/session/port/out"
	apperrors "dodge/internal/platform/errors"
)

// ManualSource is driven by the player, e.g. a key held in the TUI.
type ManualSource struct {
	focused atomic.Bool
}

func NewManualSource(initial bool) *ManualSource {
	s := &ManualSource{}
	s.focused.Store(initial)
	return s
}

func (s *ManualSource) SetFocused(focused bool) { s.focused.Store(focused) }

func (s *ManualSource) Sample(context.Context, time.Duration) (bool, error) {
	return s.focused.Load(), nil
}

func (s *ManualSource) Close() error { return nil }

type segment struct {
	focused bool
	length  time.Duration
}

// ScriptedSource replays a repeating on/off pattern against game time.
type ScriptedSource struct {
	segments []segment
	period   time.Duration
}

// ParsePattern reads patterns like "on:10s,off:2s". A bare "on" or "off"
// holds forever.
func ParsePattern(pattern string) (*ScriptedSource, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "on" || pattern == "off" {
		return &ScriptedSource{segments: []segment{{focused: pattern == "on", length: time.Hour}}, period: time.Hour}, nil
	}
	src := &ScriptedSource{}
	for _, part := range strings.Split(pattern, ",") {
		state, length, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("%w: focus pattern segment %q needs state:duration", apperrors.ErrInvalidInput, part)
		}
		if state != "on" && state != "off" {
			return nil, fmt.Errorf("%w: focus pattern state %q", apperrors.ErrInvalidInput, state)
		}
		d, err := time.ParseDuration(length)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: focus pattern duration %q", apperrors.ErrInvalidInput, length)
		}
		src.segments = append(src.segments, segment{focused: state == "on", length: d})
		src.period += d
	}
	return src, nil
}

func (s *ScriptedSource) Sample(_ context.Context, elapsed time.Duration) (bool, error) {
	at := max(elapsed, 0) % s.period
	for _, seg := range s.segments {
		if at < seg.length {
			return seg.focused, nil
		}
		at -= seg.length
	}
	return false, nil
}

func (s *ScriptedSource) Close() error { return nil }

type PluginSource struct {
	stream gazein.Stream
	frame  int
}

func (s *PluginSource) Sample(ctx context.Context, elapsed time.Duration) (bool, error) {
	frame := s.frame
	s.frame++
	out, err := s.stream.Sample(ctx, frame, elapsed)
	if err != nil {
		return false, err
	}
	return out.Focused, nil
}

func (s *PluginSource) Close() error { return s.stream.Close() }

// SourceFactory resolves "manual", "manual:on", "script:<pattern>" and
// "plugin:<name>".
type SourceFactory struct {
	gaze gazein.Usecase
}

func NewSourceFactory(gaze gazein.Usecase) sessionout.FocusSourceFactory {
	return &SourceFactory{gaze: gaze}
}

func (f *SourceFactory) Open(ctx context.Context, spec string) (sessionout.FocusSource, error) {
	kind, arg, _ := strings.Cut(strings.TrimSpace(spec), ":")
	switch kind {
	case "", "manual":
		return NewManualSource(arg == "on"), nil
	case "script":
		return ParsePattern(arg)
	case "plugin":
		if f.gaze == nil {
			return nil, fmt.Errorf("gaze plugins are not configured")
		}
		if arg == "" {
			return nil, fmt.Errorf("%w: plugin focus source needs a name", apperrors.ErrInvalidInput)
		}
		stream, err := f.gaze.Open(ctx, arg)
		if err != nil {
			return nil, err
		}
		return &PluginSource{stream: stream}, nil
	default:
		return nil, fmt.Errorf("%w: unknown focus source %q", apperrors.ErrInvalidInput, spec)
	}
}
