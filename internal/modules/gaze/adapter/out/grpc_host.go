package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	gazerpc "dodge/internal/modules/gaze/adapter/out/rpc"
	"dodge/internal/modules/gaze/domain"
	gazeout "dodge/internal/modules/gaze/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 2 * time.Second
	// one frame at 60Hz plus slack; a slow provider reads as unfocused
	defaultSampleTimeout = 50 * time.Millisecond
)

type GRPCHost struct {
	logger hclog.Logger
}

// NewGRPCHost launches providers as go-plugin subprocesses. A nil logger
// discards plugin output.
func NewGRPCHost(logger hclog.Logger) gazeout.Host {
	if logger == nil {
		logger = hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel})
	}
	return &GRPCHost{logger: logger}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	conn, err := h.Connect(ctx, manifest)
	if err != nil {
		return err
	}
	defer conn.Close()
	if _, err := conn.Metadata(ctx); err != nil {
		return err
	}
	return nil
}

func (h *GRPCHost) Connect(_ context.Context, manifest domain.Manifest) (gazeout.Connection, error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  gazerpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          gazerpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.logger.Named(manifest.Name),
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("start plugin client: %w", err)
	}
	raw, err := rpcClient.Dispense(gazerpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("dispense plugin: %w", err)
	}
	typed, ok := raw.(gazerpc.GazeProviderClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("plugin rpc client type mismatch")
	}
	return &grpcConnection{client: client, rpc: typed}, nil
}

type grpcConnection struct {
	client *plugin.Client
	rpc    gazerpc.GazeProviderClient
}

func (c *grpcConnection) Metadata(ctx context.Context) (domain.Metadata, error) {
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	meta, err := c.rpc.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	capabilities := make([]domain.Capability, 0, len(meta.Capabilities))
	for _, capability := range meta.Capabilities {
		capabilities = append(capabilities, domain.Capability(capability))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Capabilities: capabilities}, nil
}

func (c *grpcConnection) Sample(ctx context.Context, frame int, elapsed time.Duration) (domain.Sample, error) {
	callCtx, cancel := callContext(ctx, defaultSampleTimeout)
	defer cancel()
	response, err := c.rpc.Sample(callCtx, &gazerpc.SampleRequest{Frame: int32(frame), ElapsedMS: elapsed.Milliseconds()})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return domain.Sample{}, fmt.Errorf("%w: frame %d", domain.ErrPluginTimeout, frame)
		}
		return domain.Sample{}, fmt.Errorf("sample: %w", err)
	}
	return domain.Sample{
		Frame:      int(response.Frame),
		Focused:    response.Focused,
		X:          response.X,
		Y:          response.Y,
		Confidence: response.Confidence,
	}, nil
}

func (c *grpcConnection) Close() error {
	c.client.Kill()
	return nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
