package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "gaze"
	serviceName       = "dodge.gaze.v1.GazeProvider"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodSample      = "/" + serviceName + "/Sample"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "DODGE_GAZE_PLUGIN",
	MagicCookieValue: "dodge",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
}

type SampleRequest struct {
	Frame     int32 `json:"frame"`
	ElapsedMS int64 `json:"elapsed_ms"`
}

type SampleResponse struct {
	Frame      int32   `json:"frame"`
	Focused    bool    `json:"focused"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

type GazeProviderServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Sample(ctx context.Context, in *SampleRequest) (*SampleResponse, error)
}

type GazeProviderClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Sample(ctx context.Context, in *SampleRequest) (*SampleResponse, error)
}

type gazeProviderClient struct {
	conn *grpc.ClientConn
}

func NewGazeProviderClient(conn *grpc.ClientConn) GazeProviderClient {
	return &gazeProviderClient{conn: conn}
}

func (c *gazeProviderClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gazeProviderClient) Sample(ctx context.Context, in *SampleRequest) (*SampleResponse, error) {
	out := &SampleResponse{}
	if err := c.conn.Invoke(ctx, methodSample, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterGazeProviderServer(server grpc.ServiceRegistrar, impl GazeProviderServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*GazeProviderServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Sample",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &SampleRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Sample(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodSample}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*SampleRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Sample(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/gaze-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl GazeProviderServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterGazeProviderServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewGazeProviderClient(conn), nil
}

func PluginMap(impl GazeProviderServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
