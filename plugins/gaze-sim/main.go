package main

import (
	"context"
	"math"
	"os"
	"strconv"

	gazerpc "dodge/internal/modules/gaze/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

const (
	defaultCycleMS = 5000
	defaultAwayMS  = 750 // spent looking away at the end of each cycle
)

// server simulates a gaze tracker that watches the target and glances away
// once per cycle of session time.
type server struct {
	cycleMS int64
	awayMS  int64
}

func (s *server) GetMetadata(_ context.Context, _ *gazerpc.Empty) (*gazerpc.Metadata, error) {
	return &gazerpc.Metadata{
		Name:         "gaze-sim",
		Version:      "1.0.0",
		Capabilities: []string{"gaze"},
	}, nil
}

func (s *server) Sample(_ context.Context, in *gazerpc.SampleRequest) (*gazerpc.SampleResponse, error) {
	elapsed := max(in.ElapsedMS, 0)
	phase := elapsed % s.cycleMS
	lookingAway := phase >= s.cycleMS-s.awayMS

	t := float64(elapsed) / 1000
	x := 0.5 + 0.05*math.Sin(t*2.3)
	y := 0.5 + 0.05*math.Cos(t*1.7)
	confidence := 0.92
	if lookingAway {
		x = 0.9
		y = 0.1 + 0.02*math.Sin(t)
		confidence = 0.75
	}
	return &gazerpc.SampleResponse{
		Frame:      in.Frame,
		Focused:    !lookingAway,
		X:          x,
		Y:          y,
		Confidence: confidence,
	}, nil
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func main() {
	cycle := int64(envInt("GAZE_SIM_CYCLE_MS", defaultCycleMS))
	away := min(int64(envInt("GAZE_SIM_AWAY_MS", defaultAwayMS)), cycle-1)
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: gazerpc.HandshakeConfig,
		Plugins:         gazerpc.PluginMap(&server{cycleMS: cycle, awayMS: away}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
