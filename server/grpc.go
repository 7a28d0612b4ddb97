package main

import (
	"context"
	"net"
	"strconv"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	jlog "github.com/luno/jettison/log"
	"github.com/luno/netsim"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var grpcCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "netsim",
	Subsystem: "server",
	Name:      "grpc_calls_total",
	Help:      "Handled unary gRPC calls",
}, []string{"service", "method", "success"})

func init() {
	prometheus.MustRegister(grpcCalls)
}

func recordCall(service, method string, err error) {
	grpcCalls.WithLabelValues(service, method, strconv.FormatBool(err == nil)).Inc()
}

// newGRPCServer returns a server exposing the health service, with the
// simulator reported as serving and the network store named by store.
func newGRPCServer(store string) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.UnaryInterceptor(netsim.UnaryServerReporter(recordCall)))
	hs := health.NewServer()
	hs.SetServingStatus("netsim", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus("netsim.store."+store, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv, hs
}

func runGRPCServer(ctx context.Context, port int, store string) {
	lis, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		panic(errors.Wrap(err, "grpc listen", j.KV("port", port)))
	}
	srv, hs := newGRPCServer(store)
	go func() {
		<-ctx.Done()
		hs.Shutdown()
		srv.GracefulStop()
	}()

	jlog.Info(ctx, "grpc server listening", j.KV("port", port))
	err = srv.Serve(lis)
	if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		panic(err)
	}
	jlog.Info(ctx, "grpc server terminated", j.KV("port", port))
}
