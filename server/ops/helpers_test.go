package ops

import (
	"github.com/luno/netsim/api"
	"github.com/luno/netsim/server/ops/config"
)

// fakeRand replays fixed draws. Once exhausted Float64 returns 0.99, which
// never spawns a flow, and Intn returns 0.
type fakeRand struct {
	floats []float64
	ints   []int
}

func (r *fakeRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *fakeRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	i := r.ints[0]
	r.ints = r.ints[1:]
	return i % n
}

func testCanvas() api.Canvas {
	c := config.Default().Canvas
	return api.Canvas{Width: c.Width, Height: c.Height, DeviceSize: c.DeviceSize}
}

func dev(id string, x, y, load float64) api.Device {
	return api.Device{
		ID:          id,
		Name:        id,
		Type:        api.DeviceRouter,
		Position:    api.Position{X: x, Y: y},
		CurrentLoad: load,
	}
}

func conn(id, a, b string) api.Connection {
	return api.Connection{ID: id, SourceID: a, TargetID: b, Type: api.ConnEthernet, Bandwidth: "1 Gbps", Latency: 1}
}

func topologyOf(devices []api.Device, conns ...api.Connection) *Topology {
	t := NewTopology(testCanvas())
	t.Replace(devices, conns)
	return t
}
