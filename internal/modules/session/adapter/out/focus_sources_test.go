package out_test

import (
	"context"
	"errors"
	"testing"
	"time"

	gazedto "dodge/internal/modules/gaze/dto"
	gazein "dodge/internal/modules/gaze/port/in"
	sessionout "dodge/internal/modules/session/adapter/out"
	apperrors "dodge/internal/platform/errors"
)

func TestParsePatternFollowsGameTime(t *testing.T) {
	t.Parallel()
	src, err := sessionout.ParsePattern("on:1s, off:500ms")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cases := []struct {
		at   time.Duration
		want bool
	}{
		{0, true},
		{999 * time.Millisecond, true},
		{time.Second, false},
		{1499 * time.Millisecond, false},
		{1500 * time.Millisecond, true},
		{3*time.Second + 100*time.Millisecond, false},
	}
	for _, tc := range cases {
		got, err := src.Sample(context.Background(), tc.at)
		if err != nil {
			t.Fatalf("sample %s: %v", tc.at, err)
		}
		if got != tc.want {
			t.Fatalf("at %s: got %v want %v", tc.at, got, tc.want)
		}
	}
}

func TestParsePatternRejectsMalformed(t *testing.T) {
	t.Parallel()
	for _, pattern := range []string{"", "on", "maybe:1s", "on:soon", "on:-1s", "on:1s,off"} {
		if pattern == "on" {
			if _, err := sessionout.ParsePattern(pattern); err != nil {
				t.Fatalf("bare on should parse: %v", err)
			}
			continue
		}
		if _, err := sessionout.ParsePattern(pattern); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("pattern %q: expected ErrInvalidInput, got %v", pattern, err)
		}
	}
}

type stubGaze struct {
	opened string
	sample gazedto.SampleOutput
	stream *stubStream
}

func (s *stubGaze) List(context.Context) ([]gazedto.PluginInfo, error)     { return nil, nil }
func (s *stubGaze) Doctor(context.Context) ([]gazedto.DoctorResult, error) { return nil, nil }
func (s *stubGaze) Open(_ context.Context, name string) (gazein.Stream, error) {
	s.opened = name
	s.stream = &stubStream{sample: s.sample}
	return s.stream, nil
}

type stubStream struct {
	sample  gazedto.SampleOutput
	frames  []int
	elapsed []time.Duration
}

func (s *stubStream) Sample(_ context.Context, frame int, elapsed time.Duration) (gazedto.SampleOutput, error) {
	s.frames = append(s.frames, frame)
	s.elapsed = append(s.elapsed, elapsed)
	return s.sample, nil
}

func (*stubStream) Close() error { return nil }

func TestSourceFactoryResolvesSpecs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gaze := &stubGaze{sample: gazedto.SampleOutput{Focused: true}}
	factory := sessionout.NewSourceFactory(gaze)

	manual, err := factory.Open(ctx, "manual")
	if err != nil {
		t.Fatalf("manual: %v", err)
	}
	if focused, _ := manual.Sample(ctx, 0); focused {
		t.Fatal("manual source should start unfocused")
	}
	manual.(*sessionout.ManualSource).SetFocused(true)
	if focused, _ := manual.Sample(ctx, 1); !focused {
		t.Fatal("manual source should follow SetFocused")
	}

	held, err := factory.Open(ctx, "manual:on")
	if err != nil {
		t.Fatalf("manual:on: %v", err)
	}
	if focused, _ := held.Sample(ctx, 0); !focused {
		t.Fatal("manual:on should start focused")
	}

	script, err := factory.Open(ctx, "script:off:1s,on:1s")
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	if focused, _ := script.Sample(ctx, 0); focused {
		t.Fatal("script should start off")
	}

	plugin, err := factory.Open(ctx, "plugin:gaze-sim")
	if err != nil {
		t.Fatalf("plugin: %v", err)
	}
	if gaze.opened != "gaze-sim" {
		t.Fatalf("expected gaze-sim opened, got %q", gaze.opened)
	}
	if focused, _ := plugin.Sample(ctx, 0); !focused {
		t.Fatal("plugin source should pass through the stream verdict")
	}
	if _, err := plugin.Sample(ctx, 250*time.Millisecond); err != nil {
		t.Fatalf("second sample: %v", err)
	}
	if len(gaze.stream.frames) != 2 || gaze.stream.frames[1] != 1 || gaze.stream.elapsed[1] != 250*time.Millisecond {
		t.Fatalf("expected numbered frames carrying game time, got frames=%v elapsed=%v", gaze.stream.frames, gaze.stream.elapsed)
	}

	for _, spec := range []string{"webcam", "plugin:"} {
		if _, err := factory.Open(ctx, spec); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("spec %q: expected ErrInvalidInput, got %v", spec, err)
		}
	}
}
