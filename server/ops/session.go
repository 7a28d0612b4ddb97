package ops

import (
	"context"
	"sync"
	"time"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
	"github.com/luno/netsim/api"
	"github.com/luno/netsim/api/vizceral"
	"github.com/luno/netsim/server/db"
	"github.com/luno/netsim/server/ops/config"
	"github.com/luno/netsim/server/ops/graph"
)

// Session is one simulator canvas. All methods are serialised on a single
// mutex; the runner's ticks take the same lock.
type Session struct {
	mu sync.Mutex

	id  string
	ctx context.Context

	topo        *Topology
	sim         *Simulation
	interaction *Interaction
	runner      *Runner
	rand        Rand
	closed      bool

	store     NetworkStore
	scenarios *ScenarioCatalog
	now       func() time.Time
}

type SessionOption func(s *Session)

// WithRand replaces the session's random source.
func WithRand(r Rand) SessionOption {
	return func(s *Session) {
		s.rand = r
	}
}

func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession returns an idle session. ctx bounds the lifetime of the
// session's runner.
func NewSession(ctx context.Context, id string, cfg config.Config,
	store NetworkStore, scenarios *ScenarioCatalog, opts ...SessionOption,
) *Session {
	s := &Session{
		id:  id,
		ctx: ctx,
		topo: NewTopology(api.Canvas{
			Width:      cfg.Canvas.Width,
			Height:     cfg.Canvas.Height,
			DeviceSize: cfg.Canvas.DeviceSize,
		}),
		sim:         NewSimulation(cfg.Simulation),
		interaction: NewInteraction(),
		store:       store,
		scenarios:   scenarios,
		now:         time.Now,
	}
	if cfg.Simulation.Seed != 0 {
		s.rand = NewSeededRand(cfg.Simulation.Seed)
	} else {
		s.rand = NewStreamRand("netsim." + id)
	}
	s.runner = NewRunner(cfg.Simulation.TickPeriod, s.tick)
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Snapshot() api.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() api.Snapshot {
	return api.Snapshot{
		SessionID:   s.id,
		Canvas:      s.topo.Canvas(),
		Devices:     s.topo.Devices(),
		Connections: s.topo.Connections(),
		Simulation:  s.sim.State(s.runner.Running()),
		Interaction: s.interaction.State(),
	}
}

func (s *Session) requireDevice(id string) error {
	if s.topo.index(id) < 0 {
		return errors.Wrap(ErrDeviceNotFound, "", j.KV("device", id))
	}
	return nil
}

func (s *Session) AddDevice(typ api.DeviceType) (api.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.topo.AddDevice(typ)
	if err != nil {
		return api.Device{}, errors.Wrap(err, "", j.KV("type", typ))
	}
	return d, nil
}

// RemoveDevice deletes the device and every connection touching it.
func (s *Session) RemoveDevice(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireDevice(id); err != nil {
		return err
	}
	s.interaction.RemoveDevice(s.topo, id)
	return nil
}

func (s *Session) ConfigureDevice(id string, cfg api.DeviceConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireDevice(id); err != nil {
		return err
	}
	s.interaction.Configure(s.topo, id, cfg)
	return nil
}

func (s *Session) OpenConfig(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireDevice(id); err != nil {
		return err
	}
	s.interaction.OpenConfig(id)
	return nil
}

// MoveDevice places a device directly, clamped to the canvas.
func (s *Session) MoveDevice(id string, p api.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireDevice(id); err != nil {
		return err
	}
	s.topo.MoveDevice(id, p)
	return nil
}

// StartConnection begins a connection from id, or cancels it when id is
// already the pending source.
func (s *Session) StartConnection(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireDevice(id); err != nil {
		return false, err
	}
	return s.interaction.StartConnection(id), nil
}

// ClickDevice completes a pending connection at id. The returned bool is
// false when no connection was created.
func (s *Session) ClickDevice(id string, typ api.ConnectionType) (api.Connection, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireDevice(id); err != nil {
		return api.Connection{}, false, err
	}
	c, ok := s.interaction.ClickDevice(s.topo, id, typ)
	return c, ok, nil
}

func (s *Session) PointerDown(id string, x, y float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireDevice(id); err != nil {
		return false, err
	}
	return s.interaction.PointerDown(s.topo, id, x, y), nil
}

func (s *Session) PointerMove(x, y float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interaction.PointerMove(s.topo, x, y)
}

func (s *Session) PointerUp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interaction.PointerUp()
}

func (s *Session) KeyPress(key string, shift bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interaction.KeyPress(s.topo, key, shift)
}

// Start begins ticking. It returns false if the simulation was already
// running or the session is closed.
func (s *Session) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked()
}

func (s *Session) startLocked() bool {
	if s.closed || !s.runner.Start(s.ctx) {
		return false
	}
	log.Info(s.ctx, "simulation started", j.KV("session", s.id))
	return true
}

// Stop halts ticking and returns once no further tick can run. It returns
// false if the simulation was not running.
func (s *Session) Stop() bool {
	s.mu.Lock()
	running, done := s.stopLocked()
	s.mu.Unlock()
	<-done
	return running
}

// stopLocked cancels the runner. The caller waits on the returned channel
// after releasing the lock, since an in-flight tick may be blocked on it.
func (s *Session) stopLocked() (bool, <-chan struct{}) {
	running := s.runner.Running()
	done := s.runner.Stop()
	if running {
		log.Info(s.ctx, "simulation stopped", j.KV("session", s.id))
	}
	return running, done
}

// Toggle flips between running and idle and returns the new state.
func (s *Session) Toggle() bool {
	s.mu.Lock()
	if !s.runner.Running() {
		defer s.mu.Unlock()
		return s.startLocked()
	}
	_, done := s.stopLocked()
	s.mu.Unlock()
	<-done
	return false
}

// Reset stops the simulation, clears flows and alerts and idles every
// device.
func (s *Session) Reset() {
	s.mu.Lock()
	_, done := s.stopLocked()
	s.sim.Reset(s.topo)
	s.mu.Unlock()
	<-done
}

// Step runs a single tick by hand. It is a no-op while the runner is active
// or once the session is closed.
func (s *Session) Step() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.runner.Running() {
		return false
	}
	s.tickLocked(s.ctx)
	return true
}

func (s *Session) tick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	s.tickLocked(ctx)
}

func (s *Session) tickLocked(ctx context.Context) {
	res := s.sim.Tick(s.topo, s.rand)
	simulationTicks.Inc()
	for _, f := range res.Flows {
		simulationFlows.WithLabelValues(f.Protocol).Inc()
	}
	for _, a := range res.Alerts {
		simulationAlerts.Inc()
		log.Info(ctx, "device overloaded", j.MKV{
			"session": s.id,
			"device":  a.DeviceID,
			"tick":    a.Timestamp,
		})
	}
}

// Save stores a copy of the current design under name. An empty name is
// ignored and reported as false.
func (s *Session) Save(ctx context.Context, name string) (api.SavedNetwork, bool, error) {
	if name == "" {
		return api.SavedNetwork{}, false, nil
	}
	s.mu.Lock()
	now := s.now()
	n := api.SavedNetwork{
		ID:          db.NetworkID(s.id, name, now),
		Name:        name,
		Timestamp:   now.UTC().Format(isoMillis),
		Devices:     s.topo.Devices(),
		Connections: s.topo.Connections(),
	}
	s.mu.Unlock()

	if err := s.store.SaveNetwork(ctx, s.id, n); err != nil {
		return api.SavedNetwork{}, false, err
	}
	return n, true, nil
}

func (s *Session) ListSaved(ctx context.Context) ([]api.SavedNetwork, error) {
	return s.store.ListNetworks(ctx, s.id)
}

// Load replaces the design with a saved network and returns the
// simulation and interaction to their initial state.
func (s *Session) Load(ctx context.Context, id string) error {
	n, err := s.store.GetNetwork(ctx, s.id, id)
	if err != nil {
		return err
	}
	s.replace(n.Devices, n.Connections)
	log.Info(ctx, "network loaded", j.MKV{"session": s.id, "network": id})
	return nil
}

func (s *Session) DeleteSaved(ctx context.Context, id string) error {
	return s.store.DeleteNetwork(ctx, s.id, id)
}

func (s *Session) LoadScenario(ctx context.Context, id string) error {
	sc, err := s.scenarios.Get(id)
	if err != nil {
		return errors.Wrap(err, "", j.KV("scenario", id))
	}
	devices, conns := sc.Setup()
	s.replace(devices, conns)
	log.Info(ctx, "scenario loaded", j.MKV{"session": s.id, "scenario": id})
	return nil
}

func (s *Session) replace(devices []api.Device, conns []api.Connection) {
	s.mu.Lock()
	_, done := s.stopLocked()
	s.sim.Clear()
	s.interaction.Reset()
	s.topo.Replace(devices, conns)
	s.mu.Unlock()
	<-done
}

// Export returns the design as a download and its file name.
func (s *Session) Export() ([]byte, string, error) {
	s.mu.Lock()
	devices, conns := s.topo.Devices(), s.topo.Connections()
	s.mu.Unlock()

	now := s.now()
	b, err := ExportNetwork(devices, conns, now)
	if err != nil {
		return nil, "", err
	}
	return b, ExportFilename(now), nil
}

func (s *Session) Analyse() api.Analysis {
	s.mu.Lock()
	devices, conns := s.topo.Devices(), s.topo.Connections()
	s.mu.Unlock()
	return graph.New(devices, conns).Analyse()
}

func (s *Session) Graph() vizceral.Node {
	return CompileVizceralGraph(s.Snapshot())
}

// Close stops the runner for good and drops the session's saved networks.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	_, done := s.stopLocked()
	s.mu.Unlock()
	<-done
	return s.store.DeleteSession(ctx, s.id)
}
