package netsim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/luno/jettison/jtest"
	"github.com/luno/netsim/api"
	"github.com/luno/netsim/server/handlers"
	"github.com/luno/netsim/server/ops"
	"github.com/luno/netsim/server/ops/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type state struct {
	sessions *ops.Sessions
}

func (s state) Sessions() *ops.Sessions {
	return s.sessions
}

type count struct {
	n atomic.Int64
}

func (c *count) Inc() {
	c.n.Add(1)
}

func newTestClient(t *testing.T, opts ...ClientOption) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ss := ops.NewSessions(ctx, config.Default(), ops.NewMemDB(), ops.NewScenarioCatalog(nil))
	srv := httptest.NewServer(handlers.CreateRouter(ctx, state{sessions: ss}))
	t.Cleanup(srv.Close)

	opts = append([]ClientOption{
		WithBaseURL(srv.URL + "/netsim"),
		WithHTTPClient(srv.Client()),
	}, opts...)
	return NewClient(opts...)
}

func TestClientBuildsNetwork(t *testing.T) {
	ctx := context.Background()
	var requests count
	c := newTestClient(t, WithMetrics(Metrics{Requests: &requests}))

	snap, err := c.CreateSession(ctx, nil)
	jtest.RequireNil(t, err)
	id := snap.SessionID

	_, err = c.AddDevice(ctx, id, api.DeviceRouter)
	jtest.RequireNil(t, err)
	snap, err = c.AddDevice(ctx, id, api.DeviceSwitch)
	jtest.RequireNil(t, err)
	require.Len(t, snap.Devices, 2)
	a, b := snap.Devices[0], snap.Devices[1]
	assert.Equal(t, api.Position{X: 100, Y: 100}, a.Position)
	assert.Equal(t, api.Position{X: 150, Y: 100}, b.Position)

	_, err = c.StartConnection(ctx, id, a.ID)
	jtest.RequireNil(t, err)
	snap, err = c.ClickDevice(ctx, id, b.ID, api.ConnFiber)
	jtest.RequireNil(t, err)
	require.Len(t, snap.Connections, 1)
	assert.Equal(t, api.ConnFiber, snap.Connections[0].Type)
	assert.Equal(t, "10 Gbps", snap.Connections[0].Bandwidth)

	name := "Edge"
	snap, err = c.ConfigureDevice(ctx, id, a.ID, api.DeviceConfig{Name: &name})
	jtest.RequireNil(t, err)
	assert.Equal(t, "Edge", snap.Devices[0].Name)

	snap, err = c.NudgeDevice(ctx, id, b.ID, "ArrowDown", 2, true)
	jtest.RequireNil(t, err)
	assert.Equal(t, api.Position{X: 150, Y: 120}, snap.Devices[1].Position)

	snap, err = c.PointerDown(ctx, id, a.ID, 110, 110)
	jtest.RequireNil(t, err)
	assert.Equal(t, api.ModeDragging, snap.Interaction.Mode)
	_, err = c.PointerMove(ctx, id, 1000, 20)
	jtest.RequireNil(t, err)
	snap, err = c.PointerUp(ctx, id)
	jtest.RequireNil(t, err)
	assert.Equal(t, api.ModeIdle, snap.Interaction.Mode)
	assert.Equal(t, api.Position{X: 720, Y: 10}, snap.Devices[0].Position)

	nl, err := c.SaveNetwork(ctx, id, "lab")
	jtest.RequireNil(t, err)
	require.Len(t, nl, 1)

	snap, err = c.RemoveDevice(ctx, id, a.ID)
	jtest.RequireNil(t, err)
	assert.Empty(t, snap.Connections)

	snap, err = c.LoadNetwork(ctx, id, nl[0].ID)
	jtest.RequireNil(t, err)
	assert.Equal(t, nl[0].Devices, snap.Devices)
	assert.Equal(t, nl[0].Connections, snap.Connections)

	f, err := c.Export(ctx, id)
	jtest.RequireNil(t, err)
	assert.Len(t, f.Devices, 2)

	an, err := c.Analysis(ctx, id)
	jtest.RequireNil(t, err)
	assert.Equal(t, [][]string{{a.ID, b.ID}}, an.Segments)

	g, err := c.Graph(ctx, id)
	jtest.RequireNil(t, err)
	require.Len(t, g.Nodes, 1)
	assert.Len(t, g.Nodes[0].Nodes, 2)

	jtest.RequireNil(t, c.CloseSession(ctx, id))
	_, err = c.GetSession(ctx, id)
	jtest.Require(t, ErrNotFound, err)

	assert.True(t, requests.n.Load() > 0)
}

func TestClientScenarios(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	sl, err := c.ListScenarios(ctx)
	jtest.RequireNil(t, err)
	require.Len(t, sl, 3)

	snap, err := c.CreateSession(ctx, nil)
	jtest.RequireNil(t, err)

	snap, err = c.LoadScenario(ctx, snap.SessionID, "scenario-2")
	jtest.RequireNil(t, err)
	require.Len(t, snap.Devices, 2)
	assert.Equal(t, float64(85), snap.Devices[0].CurrentLoad)
	assert.Equal(t, float64(90), snap.Devices[1].CurrentLoad)

	_, err = c.LoadScenario(ctx, snap.SessionID, "scenario-9")
	jtest.Require(t, ErrNotFound, err)

	_, err = c.AddDevice(ctx, snap.SessionID, "toaster")
	jtest.Require(t, ErrBadRequest, err)
}

func TestClientRetriesUnavailable(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"scenarios":[{"id":"s"}]}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	c.retryWait = time.Millisecond

	sl, err := c.ListScenarios(context.Background())
	jtest.RequireNil(t, err)
	assert.Equal(t, []api.Scenario{{ID: "s"}}, sl)
	assert.Equal(t, int64(3), calls.Load())
}

func TestClientRetriesOnlyIdempotentTimeouts(t *testing.T) {
	testCases := []struct {
		name     string
		call     func(ctx context.Context, c *Client) error
		expCalls int64
		expErr   bool
	}{
		{
			name: "connect is not replayed",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.StartConnection(ctx, "s1", "device-1")
				return err
			},
			expCalls: 1,
			expErr:   true,
		},
		{
			name: "toggle is not replayed",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.ToggleSimulation(ctx, "s1")
				return err
			},
			expCalls: 1,
			expErr:   true,
		},
		{
			name: "get is retried",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.GetSession(ctx, "s1")
				return err
			},
			expCalls: 2,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int64
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) == 1 {
					time.Sleep(100 * time.Millisecond)
				}
				_, _ = w.Write([]byte(`{"session_id":"s1"}`))
			}))
			t.Cleanup(srv.Close)

			c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()),
				WithRequestTimeout(20*time.Millisecond))
			c.retryWait = time.Millisecond

			err := tc.call(context.Background(), c)
			if tc.expErr {
				require.Error(t, err)
			} else {
				jtest.RequireNil(t, err)
			}
			assert.Equal(t, tc.expCalls, calls.Load())
		})
	}
}

func TestClientRetriesUnhandledStateChange(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"session_id":"s1"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	c.retryWait = time.Millisecond

	snap, err := c.AddDevice(context.Background(), "s1", api.DeviceRouter)
	jtest.RequireNil(t, err)
	assert.Equal(t, "s1", snap.SessionID)
	assert.Equal(t, int64(2), calls.Load())
}
