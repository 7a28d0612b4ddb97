package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	jlog "github.com/luno/jettison/log"
	"github.com/luno/netsim/server/handlers"
	"github.com/luno/netsim/server/ops"
	"github.com/luno/netsim/server/ops/config"
)

var (
	httpPort  = flag.Int("http_port", 80, "port for the simulator api and web app")
	debugPort = flag.Int("debug_port", 8080, "port for metrics and readiness")
	grpcPort  = flag.Int("grpc_port", 9090, "port for the grpc health service")
)

type state struct {
	sessions *ops.Sessions
}

func (s state) Sessions() *ops.Sessions {
	return s.sessions
}

func main() {
	InitLogging(os.Stdout)
	flag.Parse()
	config.MustLoadConfig()
	cfg := config.GetConfig()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var store ops.NetworkStore = ops.NewMemDB()
	storeName := "memory"
	pool, err := ops.NewRedisPool(ctx)
	if err != nil {
		jlog.Error(ctx, errors.Wrap(err, "failed to connect to redis, falling back to memory db"))
	} else {
		store = ops.NewRedisNetworkStore(pool)
		storeName = "redis"
		defer pool.Close()
	}

	s := state{
		sessions: ops.NewSessions(ctx, cfg, store, ops.NewScenarioCatalog(cfg.Scenarios)),
	}
	defer s.sessions.CloseAll(context.Background())

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		runWebServer(ctx, handlers.CreateRouter(ctx, s), *httpPort)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runWebServer(ctx, handlers.CreateDebugRouter(), *debugPort)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runGRPCServer(ctx, *grpcPort, storeName)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.sessions.RunSweeper(ctx)
	}()

	wg.Wait()
}

func runWebServer(ctx context.Context, router *httprouter.Router, port int) {
	srv := &http.Server{
		BaseContext: func(listener net.Listener) context.Context { return ctx },
		Handler:     router,
		Addr:        ":" + strconv.Itoa(port),
	}
	go shutdownOnCancel(ctx, srv)
	jlog.Info(ctx, "server listening", j.KV("port", port))
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
	jlog.Info(ctx, "server terminated", j.KV("port", port))
}

func shutdownOnCancel(ctx context.Context, server *http.Server) {
	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	jlog.Info(ctx, "shutting down http server")
	_ = server.Shutdown(ctx)
}
