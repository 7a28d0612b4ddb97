package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router interface {
	GET(path string, handle httprouter.Handle)
	POST(path string, handle httprouter.Handle)
	DELETE(path string, handle httprouter.Handle)
}

type subRouter struct {
	r    Router
	base string
}

func SubRouter(r Router, basePath string) Router {
	return subRouter{r: r, base: basePath}
}

func (r subRouter) GET(path string, handle httprouter.Handle) {
	p := r.base + path
	r.r.GET(p, wrap(http.MethodGet, p, handle))
}

func (r subRouter) POST(path string, handle httprouter.Handle) {
	p := r.base + path
	r.r.POST(p, wrap(http.MethodPost, p, handle))
}

func (r subRouter) DELETE(path string, handle httprouter.Handle) {
	p := r.base + path
	r.r.DELETE(p, wrap(http.MethodDelete, p, handle))
}

func wrap(method, path string, handle httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		t0 := time.Now()
		handle(w, r, p)
		httpHandle.WithLabelValues(method, path).Observe(time.Since(t0).Seconds())
	}
}

func CreateRouter(ctx context.Context, d Deps) *httprouter.Router {
	r := httprouter.New()
	sim := SubRouter(r, "/netsim")

	sim.POST("/api/sessions", CreateSessionHandler(d))
	sim.GET("/api/sessions/:session", GetSessionHandler(d))
	sim.DELETE("/api/sessions/:session", CloseSessionHandler(d))

	sim.POST("/api/sessions/:session/devices", AddDeviceHandler(d))
	sim.DELETE("/api/sessions/:session/devices/:device", RemoveDeviceHandler(d))
	sim.POST("/api/sessions/:session/devices/:device/config", ConfigureDeviceHandler(d))
	sim.POST("/api/sessions/:session/devices/:device/move", MoveDeviceHandler(d))
	sim.POST("/api/sessions/:session/devices/:device/connect", ConnectDeviceHandler(d))
	sim.POST("/api/sessions/:session/devices/:device/click", ClickDeviceHandler(d))

	sim.POST("/api/sessions/:session/pointer/down", PointerDownHandler(d))
	sim.POST("/api/sessions/:session/pointer/move", PointerMoveHandler(d))
	sim.POST("/api/sessions/:session/pointer/up", PointerUpHandler(d))
	sim.POST("/api/sessions/:session/keys", KeyPressHandler(d))

	sim.POST("/api/sessions/:session/simulation/start", StartSimulationHandler(d))
	sim.POST("/api/sessions/:session/simulation/stop", StopSimulationHandler(d))
	sim.POST("/api/sessions/:session/simulation/toggle", ToggleSimulationHandler(d))
	sim.POST("/api/sessions/:session/simulation/reset", ResetSimulationHandler(d))
	sim.POST("/api/sessions/:session/simulation/step", StepSimulationHandler(d))

	sim.GET("/api/sessions/:session/networks", ListNetworksHandler(d))
	sim.POST("/api/sessions/:session/networks", SaveNetworkHandler(d))
	sim.POST("/api/sessions/:session/networks/:network/load", LoadNetworkHandler(d))
	sim.DELETE("/api/sessions/:session/networks/:network", DeleteNetworkHandler(d))

	sim.GET("/api/sessions/:session/export", ExportHandler(d))
	sim.GET("/api/sessions/:session/graph", VizceralGraphHandler(d))
	sim.GET("/api/sessions/:session/analysis", AnalysisHandler(d))

	sim.GET("/api/scenarios", ListScenariosHandler(d))
	sim.POST("/api/sessions/:session/scenarios/:scenario", LoadScenarioHandler(d))

	createWebApp(ctx, sim)

	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/netsim/api/") {
			http.NotFound(w, r)
		} else if strings.HasPrefix(r.URL.Path, "/netsim/") {
			serveIndex(w, r, nil)
		} else {
			http.Redirect(w, r, "/netsim", http.StatusTemporaryRedirect)
		}
	})
	return r
}

func CreateDebugRouter() *httprouter.Router {
	r := httprouter.New()
	r.Handler(http.MethodGet, "/debug/metrics", promhttp.Handler())
	r.HandlerFunc(http.MethodGet, "/debug/ready", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
