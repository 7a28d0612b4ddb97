package netsim

import (
	"context"
	"strings"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var ErrNotServing = errors.New("service not serving", j.C("ERR_c47a1e02f9d6b853"))

// CallRecorder receives the outcome of every unary gRPC call.
type CallRecorder func(service, method string, err error)

func UnaryServerReporter(rec CallRecorder) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{},
		info *grpc.UnaryServerInfo, handler grpc.UnaryHandler,
	) (interface{}, error) {
		resp, err := handler(ctx, req)
		service, method := splitMethodName(info.FullMethod)
		rec(service, method, err)
		return resp, err
	}
}

func GRPCClientReporter(m Metrics) grpc.UnaryClientInterceptor {
	m.defaultUnused()
	return func(ctx context.Context,
		method string, req, reply interface{},
		cc *grpc.ClientConn, invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		m.Requests.Inc()
		err := invoker(ctx, method, req, reply, cc, opts...)
		if err != nil {
			m.RequestErrors.Inc()
		}
		return err
	}
}

// CheckHealth asks the standard health service whether service is serving.
// An empty service checks the server as a whole.
func CheckHealth(ctx context.Context, cc grpc.ClientConnInterface, service string) error {
	resp, err := healthpb.NewHealthClient(cc).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return errors.Wrap(err, "health check", j.KV("service", service))
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return errors.Wrap(ErrNotServing, "", j.MKV{
			"service": service,
			"status":  resp.GetStatus().String(),
		})
	}
	return nil
}

func splitMethodName(fullMethodName string) (string, string) {
	fullMethodName = strings.TrimPrefix(fullMethodName, "/") // remove leading slash
	if i := strings.Index(fullMethodName, "/"); i >= 0 {
		return fullMethodName[:i], fullMethodName[i+1:]
	}
	return "unknown", "unknown"
}
