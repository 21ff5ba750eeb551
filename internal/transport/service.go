package transport

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "videoproc.VideoProcessor"

	processVideoMethod = "/" + ServiceName + "/ProcessVideo"
)

// VideoProcessorServer handles the client-streaming ProcessVideo call.
type VideoProcessorServer interface {
	ProcessVideo(stream grpc.ServerStream) error
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VideoProcessorServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "ProcessVideo",
			Handler:       processVideoHandler,
			ClientStreams: true,
		},
	},
	Metadata: "videoproc.proto",
}

func processVideoHandler(srv any, stream grpc.ServerStream) error {
	return srv.(VideoProcessorServer).ProcessVideo(stream)
}

// RegisterVideoProcessorServer registers srv on s.
func RegisterVideoProcessorServer(s grpc.ServiceRegistrar, srv VideoProcessorServer) {
	s.RegisterService(&serviceDesc, srv)
}

// ServerOptions returns the options every videoproc server needs: raised message
// limits, the wire codec and tracing.
func ServerOptions(maxMessageSize int) []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.MaxRecvMsgSize(maxMessageSize),
		grpc.MaxSendMsgSize(maxMessageSize),
		grpc.ForceServerCodec(Codec()),
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	}
}
