package ops

import (
	"math"
	"strconv"

	"github.com/luno/netsim/api"
	"golang.org/x/exp/slices"
)

// Topology is the device/connection graph of a session. Every mutation keeps
// the devices' connection sets in step with the connection list.
type Topology struct {
	canvas api.Canvas

	devices []api.Device
	conns   []api.Connection

	deviceSeq int
	connSeq   int
}

func NewTopology(canvas api.Canvas) *Topology {
	return &Topology{canvas: canvas}
}

func (t *Topology) Canvas() api.Canvas {
	return t.canvas
}

func (t *Topology) Devices() []api.Device {
	return cloneDevices(t.devices)
}

func (t *Topology) Connections() []api.Connection {
	return append([]api.Connection{}, t.conns...)
}

func (t *Topology) Device(id string) (api.Device, bool) {
	i := t.index(id)
	if i < 0 {
		return api.Device{}, false
	}
	return t.devices[i].Clone(), true
}

func (t *Topology) index(id string) int {
	return slices.IndexFunc(t.devices, func(d api.Device) bool { return d.ID == id })
}

func (t *Topology) hasConnectionID(id string) bool {
	return slices.ContainsFunc(t.conns, func(c api.Connection) bool { return c.ID == id })
}

func nextID(prefix string, seq *int, taken func(string) bool) string {
	for {
		*seq++
		id := prefix + strconv.Itoa(*seq)
		if !taken(id) {
			return id
		}
	}
}

// DefaultPosition is where the n-th added device is placed.
func DefaultPosition(n int) api.Position {
	return api.Position{
		X: float64(100 + (n*50)%500),
		Y: float64(100 + (n/10)*100),
	}
}

func (t *Topology) AddDevice(typ api.DeviceType) (api.Device, error) {
	if !IsKnownDeviceType(typ) {
		return api.Device{}, ErrInvalidDeviceType
	}
	n := len(t.devices)
	d := api.Device{
		ID:          nextID("device-", &t.deviceSeq, func(id string) bool { return t.index(id) >= 0 }),
		Name:        deviceLabel(typ) + " " + strconv.Itoa(n+1),
		Type:        typ,
		Category:    api.CategoryPhysical,
		Position:    t.clamp(DefaultPosition(n)),
		Specs:       defaultSpecs(typ),
		Status:      api.StatusActive,
		Connections: []string{},
		MaxLoad:     100,
	}
	t.devices = append(t.devices, d)
	return d.Clone(), nil
}

// RemoveDevice deletes the device and every connection touching it.
func (t *Topology) RemoveDevice(id string) bool {
	if t.index(id) < 0 {
		return false
	}
	var removed []string
	remaining := make([]api.Connection, 0, len(t.conns))
	for _, c := range t.conns {
		if c.Touches(id) {
			removed = append(removed, c.ID)
			continue
		}
		remaining = append(remaining, c)
	}
	devices := make([]api.Device, 0, len(t.devices))
	for _, d := range t.devices {
		if d.ID == id {
			continue
		}
		d.Connections = slices.DeleteFunc(slices.Clone(d.Connections), func(cid string) bool {
			return slices.Contains(removed, cid)
		})
		devices = append(devices, d)
	}
	t.conns = remaining
	t.devices = devices
	return true
}

// HasLink reports whether a and b are already connected in either direction.
func (t *Topology) HasLink(a, b string) bool {
	return slices.ContainsFunc(t.conns, func(c api.Connection) bool { return c.Joins(a, b) })
}

// Connect links a and b. It is a no-op returning false for self links,
// unknown devices and pairs that are already connected.
func (t *Topology) Connect(a, b string, typ api.ConnectionType) (api.Connection, bool) {
	if a == b {
		return api.Connection{}, false
	}
	ai, bi := t.index(a), t.index(b)
	if ai < 0 || bi < 0 || t.HasLink(a, b) {
		return api.Connection{}, false
	}
	c := newConnection(nextID("conn-", &t.connSeq, t.hasConnectionID), a, b, typ)
	t.conns = append(t.conns, c)
	t.devices[ai].Connections = append(t.devices[ai].Connections, c.ID)
	t.devices[bi].Connections = append(t.devices[bi].Connections, c.ID)
	return c, true
}

func (t *Topology) clamp(p api.Position) api.Position {
	maxX := math.Max(0, t.canvas.Width-t.canvas.DeviceSize)
	maxY := math.Max(0, t.canvas.Height-t.canvas.DeviceSize)
	return api.Position{
		X: math.Max(0, math.Min(p.X, maxX)),
		Y: math.Max(0, math.Min(p.Y, maxY)),
	}
}

// MoveDevice places the device at p, clamped to the canvas.
func (t *Topology) MoveDevice(id string, p api.Position) bool {
	i := t.index(id)
	if i < 0 {
		return false
	}
	t.devices[i].Position = t.clamp(p)
	return true
}

func (t *Topology) Configure(id string, cfg api.DeviceConfig) bool {
	i := t.index(id)
	if i < 0 {
		return false
	}
	t.devices[i] = cfg.Apply(t.devices[i])
	return true
}

// Replace swaps the whole graph for copies of devices and conns. Duplicate
// devices, dangling, self and duplicate connections are dropped, positions
// are clamped to the canvas and the connection sets are rebuilt.
func (t *Topology) Replace(devices []api.Device, conns []api.Connection) {
	t.devices = t.devices[:0:0]
	for _, d := range devices {
		if d.ID == "" || t.index(d.ID) >= 0 {
			continue
		}
		d = d.Clone()
		d.Connections = []string{}
		d.Position = t.clamp(d.Position)
		if d.Status == "" {
			d.Status = api.StatusActive
		}
		if d.Category == "" {
			d.Category = api.CategoryPhysical
		}
		if d.MaxLoad == 0 {
			d.MaxLoad = 100
		}
		if d.Specs == (api.Specs{}) {
			d.Specs = defaultSpecs(d.Type)
		}
		t.devices = append(t.devices, d)
	}

	t.conns = t.conns[:0:0]
	for _, c := range conns {
		if c.SourceID == c.TargetID || t.HasLink(c.SourceID, c.TargetID) {
			continue
		}
		si, ti := t.index(c.SourceID), t.index(c.TargetID)
		if si < 0 || ti < 0 {
			continue
		}
		if c.ID == "" || t.hasConnectionID(c.ID) {
			c.ID = nextID("conn-", &t.connSeq, t.hasConnectionID)
		}
		t.conns = append(t.conns, c)
		t.devices[si].Connections = append(t.devices[si].Connections, c.ID)
		t.devices[ti].Connections = append(t.devices[ti].Connections, c.ID)
	}
}

func cloneDevices(dl []api.Device) []api.Device {
	ret := make([]api.Device, 0, len(dl))
	for _, d := range dl {
		ret = append(ret, d.Clone())
	}
	return ret
}
