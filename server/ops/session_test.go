package ops

import (
	"context"
	"testing"
	"time"

	"github.com/luno/jettison/jtest"
	"github.com/luno/netsim/api"
	"github.com/luno/netsim/server/ops/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, opts ...SessionOption) *Session {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Simulation.TickPeriod = time.Millisecond
	s := NewSession(ctx, "test", cfg, NewMemDB(), NewScenarioCatalog(nil), opts...)
	t.Cleanup(func() { _ = s.Close(ctx) })
	return s
}

func TestSessionBuildExample(t *testing.T) {
	s := newTestSession(t)

	a, err := s.AddDevice(api.DeviceRouter)
	jtest.RequireNil(t, err)
	b, err := s.AddDevice(api.DeviceSwitch)
	jtest.RequireNil(t, err)
	assert.Equal(t, api.Position{X: 100, Y: 100}, a.Position)
	assert.Equal(t, api.Position{X: 150, Y: 100}, b.Position)

	ok, err := s.StartConnection(a.ID)
	jtest.RequireNil(t, err)
	require.True(t, ok)
	c, ok, err := s.ClickDevice(b.ID, "")
	jtest.RequireNil(t, err)
	require.True(t, ok)

	snap := s.Snapshot()
	require.Len(t, snap.Connections, 1)
	assert.Equal(t, c, snap.Connections[0])
	assert.Equal(t, []string{c.ID}, snap.Devices[0].Connections)
	assert.Equal(t, []string{c.ID}, snap.Devices[1].Connections)

	jtest.RequireNil(t, s.RemoveDevice(a.ID))
	snap = s.Snapshot()
	require.Len(t, snap.Devices, 1)
	assert.Empty(t, snap.Connections)
	assert.Empty(t, snap.Devices[0].Connections)
}

func TestSessionUnknownDevice(t *testing.T) {
	s := newTestSession(t)
	name := "x"

	testCases := []struct {
		name string
		call func() error
	}{
		{name: "remove", call: func() error { return s.RemoveDevice("nope") }},
		{name: "configure", call: func() error { return s.ConfigureDevice("nope", api.DeviceConfig{Name: &name}) }},
		{name: "open config", call: func() error { return s.OpenConfig("nope") }},
		{name: "move", call: func() error { return s.MoveDevice("nope", api.Position{}) }},
		{name: "connect", call: func() error { _, err := s.StartConnection("nope"); return err }},
		{name: "click", call: func() error { _, _, err := s.ClickDevice("nope", ""); return err }},
		{name: "pointer", call: func() error { _, err := s.PointerDown("nope", 0, 0); return err }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			jtest.Require(t, ErrDeviceNotFound, tc.call())
		})
	}
}

func TestSessionStep(t *testing.T) {
	s := newTestSession(t, WithRand(&fakeRand{}))

	assert.True(t, s.Step())
	assert.True(t, s.Step())
	assert.Equal(t, int64(2), s.Snapshot().Simulation.Time)
}

func TestSessionRunner(t *testing.T) {
	s := newTestSession(t, WithRand(&fakeRand{}))

	require.True(t, s.Start())
	assert.False(t, s.Start())
	assert.True(t, s.Snapshot().Simulation.IsRunning)
	assert.False(t, s.Step(), "no manual step while running")

	require.Eventually(t, func() bool {
		return s.Snapshot().Simulation.Time >= 3
	}, 5*time.Second, time.Millisecond)

	require.True(t, s.Stop())
	assert.False(t, s.Stop())
	stopped := s.Snapshot().Simulation.Time
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, s.Snapshot().Simulation.Time)
	assert.False(t, s.Snapshot().Simulation.IsRunning)
}

func TestSessionToggle(t *testing.T) {
	s := newTestSession(t, WithRand(&fakeRand{}))

	assert.True(t, s.Toggle())
	assert.True(t, s.Snapshot().Simulation.IsRunning)
	assert.False(t, s.Toggle())
	assert.False(t, s.Snapshot().Simulation.IsRunning)
}

func TestSessionReset(t *testing.T) {
	s := newTestSession(t, WithRand(&fakeRand{}))
	_, err := s.AddDevice(api.DeviceRouter)
	jtest.RequireNil(t, err)
	s.Step()
	s.Start()

	s.Reset()
	snap := s.Snapshot()
	assert.False(t, snap.Simulation.IsRunning)
	assert.Equal(t, int64(0), snap.Simulation.Time)
	assert.Empty(t, snap.Simulation.Alerts)
	assert.Equal(t, api.StatusActive, snap.Devices[0].Status)
}

func TestSessionSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 5e6, time.UTC)
	r := &fakeRand{floats: []float64{0.1, 0.5, 0.5}}
	s := newTestSession(t, WithRand(r), WithClock(func() time.Time { return now }))

	_, ok, err := s.Save(ctx, "")
	jtest.RequireNil(t, err)
	assert.False(t, ok, "empty name is ignored")

	a, _ := s.AddDevice(api.DeviceRouter)
	b, _ := s.AddDevice(api.DeviceSwitch)
	s.StartConnection(a.ID)
	s.ClickDevice(b.ID, api.ConnVPN)
	for i := 0; i < 3; i++ {
		s.Step()
	}
	before := s.Snapshot()
	require.NotZero(t, before.Devices[0].CurrentLoad)

	saved, ok, err := s.Save(ctx, "lab")
	jtest.RequireNil(t, err)
	require.True(t, ok)
	assert.Equal(t, "2024-03-01T12:00:00.005Z", saved.Timestamp)
	assert.Len(t, saved.ID, 16)

	jtest.RequireNil(t, s.RemoveDevice(a.ID))
	_, err = s.AddDevice(api.DeviceProxy)
	jtest.RequireNil(t, err)
	s.Start()
	s.OpenConfig(b.ID)

	jtest.RequireNil(t, s.Load(ctx, saved.ID))
	after := s.Snapshot()
	assert.Equal(t, before.Devices, after.Devices)
	assert.Equal(t, before.Connections, after.Connections)
	assert.False(t, after.Simulation.IsRunning)
	assert.Equal(t, int64(0), after.Simulation.Time)
	assert.Equal(t, api.Interaction{Mode: api.ModeIdle}, after.Interaction)

	nl, err := s.ListSaved(ctx)
	jtest.RequireNil(t, err)
	require.Len(t, nl, 1)

	jtest.RequireNil(t, s.DeleteSaved(ctx, saved.ID))
	jtest.Require(t, ErrNetworkNotFound, s.Load(ctx, saved.ID))
}

func TestSessionSavedIsACopy(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	a, _ := s.AddDevice(api.DeviceRouter)

	saved, _, err := s.Save(ctx, "copy")
	jtest.RequireNil(t, err)
	jtest.RequireNil(t, s.MoveDevice(a.ID, api.Position{X: 1, Y: 1}))

	n, err := s.store.GetNetwork(ctx, "test", saved.ID)
	jtest.RequireNil(t, err)
	assert.Equal(t, api.Position{X: 100, Y: 100}, n.Devices[0].Position)
}

func TestSessionLoadScenario(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	_, _ = s.AddDevice(api.DeviceProxy)

	jtest.RequireNil(t, s.LoadScenario(ctx, "scenario-2"))
	snap := s.Snapshot()
	require.Len(t, snap.Devices, 2)
	assert.Equal(t, "router-overload", snap.Devices[0].ID)
	assert.Equal(t, float64(85), snap.Devices[0].CurrentLoad)
	assert.Equal(t, []string{"conn-overload"}, snap.Devices[1].Connections)

	jtest.Require(t, ErrScenarioNotFound, s.LoadScenario(ctx, "nope"))
}

func TestSessionAnalyseAndGraph(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	jtest.RequireNil(t, s.LoadScenario(ctx, "scenario-1"))

	a := s.Analyse()
	assert.Equal(t, []string{"router-main"}, a.SinglePointsOfFailure)
	require.Len(t, a.Segments, 1)
	assert.Len(t, a.Segments[0], 4)

	g := s.Graph()
	require.Len(t, g.Nodes, 1)
	assert.Len(t, g.Nodes[0].Nodes, 4)
	assert.Len(t, g.Nodes[0].Connections, 3)
}

func TestSessionExport(t *testing.T) {
	now := time.Unix(1700000000, 0)
	s := newTestSession(t, WithClock(func() time.Time { return now }))
	_, _ = s.AddDevice(api.DeviceRouter)

	b, name, err := s.Export()
	jtest.RequireNil(t, err)
	assert.Equal(t, "network-design-1700000000.json", name)
	assert.Contains(t, string(b), `"timestamp": "2023-11-14T22:13:20.000Z"`)
	assert.Contains(t, string(b), `"name": "Router 1"`)
}

func TestSessionsRegistry(t *testing.T) {
	ctx := context.Background()
	ss := NewSessions(ctx, config.Default(), NewMemDB(), NewScenarioCatalog(nil))

	a := ss.Create(ctx, []api.Device{
		{ID: "r1", Name: "Edge", Type: api.DeviceRouter, Connections: []string{"stale"}},
	})
	b := ss.Create(ctx, nil)
	assert.NotEqual(t, a.ID(), b.ID())

	got, err := ss.Get(a.ID())
	jtest.RequireNil(t, err)
	assert.Equal(t, a, got)

	snap := a.Snapshot()
	require.Len(t, snap.Devices, 1)
	assert.Empty(t, snap.Devices[0].Connections)

	_, _, err = a.Save(ctx, "mine")
	jtest.RequireNil(t, err)
	nl, err := b.ListSaved(ctx)
	jtest.RequireNil(t, err)
	assert.Empty(t, nl, "saved networks are per session")

	jtest.RequireNil(t, ss.Close(ctx, a.ID()))
	_, err = ss.Get(a.ID())
	jtest.Require(t, ErrSessionNotFound, err)
	jtest.Require(t, ErrSessionNotFound, ss.Close(ctx, a.ID()))

	ss.CloseAll(ctx)
	_, err = ss.Get(b.ID())
	jtest.Require(t, ErrSessionNotFound, err)
}

func TestSessionClosedStaysIdle(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Simulation.TickPeriod = time.Millisecond
	ss := NewSessions(ctx, cfg, NewMemDB(), NewScenarioCatalog(nil))
	s := ss.Create(ctx, []api.Device{
		{ID: "r1", Name: "Edge", Type: api.DeviceRouter},
		{ID: "r2", Name: "Core", Type: api.DeviceRouter},
	})

	jtest.RequireNil(t, ss.Close(ctx, s.ID()))

	assert.False(t, s.Start())
	assert.False(t, s.Toggle())
	assert.False(t, s.Step())
	time.Sleep(20 * time.Millisecond)

	snap := s.Snapshot()
	assert.False(t, snap.Simulation.IsRunning)
	assert.Equal(t, int64(0), snap.Simulation.Time)
}

func TestSessionsSweepIdle(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Sessions.IdleTimeout = time.Minute
	ss := NewSessions(ctx, cfg, NewMemDB(), NewScenarioCatalog(nil))
	now := time.Unix(1700000000, 0)
	ss.now = func() time.Time { return now }

	idle := ss.Create(ctx, nil)
	busy := ss.Create(ctx, nil)
	require.True(t, idle.Start())
	_, _, err := idle.Save(ctx, "kept briefly")
	jtest.RequireNil(t, err)

	now = now.Add(45 * time.Second)
	_, err = ss.Get(busy.ID())
	jtest.RequireNil(t, err)
	assert.Equal(t, 0, ss.Sweep(ctx))

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, ss.Sweep(ctx))

	_, err = ss.Get(idle.ID())
	jtest.Require(t, ErrSessionNotFound, err)
	assert.False(t, idle.Snapshot().Simulation.IsRunning)
	nl, err := idle.ListSaved(ctx)
	jtest.RequireNil(t, err)
	assert.Empty(t, nl)

	_, err = ss.Get(busy.ID())
	jtest.RequireNil(t, err)

	cfg.Sessions.IdleTimeout = 0
	forever := NewSessions(ctx, cfg, NewMemDB(), NewScenarioCatalog(nil))
	forever.Create(ctx, nil)
	forever.now = func() time.Time { return now.Add(time.Hour * 24 * 365) }
	assert.Equal(t, 0, forever.Sweep(ctx))
	forever.CloseAll(ctx)
}
