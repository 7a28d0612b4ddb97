package ops

import (
	"fmt"
	"math"
	"strconv"

	"github.com/luno/netsim/api"
	"github.com/luno/netsim/server/ops/config"
	"golang.org/x/exp/slices"
)

var protocols = []string{"HTTP", "SSH", "FTP", "DNS"}

// Simulation is the traffic/load state advanced one tick at a time.
type Simulation struct {
	params config.Simulation

	time   int64
	flows  []api.TrafficFlow
	alerts []api.Alert
}

func NewSimulation(params config.Simulation) *Simulation {
	return &Simulation{
		params: params,
		flows:  []api.TrafficFlow{},
		alerts: []api.Alert{},
	}
}

func (s *Simulation) Time() int64 {
	return s.time
}

// State returns a copy of the simulation state. Whether it is running is
// owned by the runner, so the caller fills it in.
func (s *Simulation) State(running bool) api.SimulationState {
	flows := make([]api.TrafficFlow, 0, len(s.flows))
	for _, f := range s.flows {
		f.ConnectionIDs = slices.Clone(f.ConnectionIDs)
		flows = append(flows, f)
	}
	return api.SimulationState{
		IsRunning:    running,
		Time:         s.time,
		TrafficFlows: flows,
		Alerts:       append([]api.Alert{}, s.alerts...),
	}
}

// Clear zeroes the tick counter, flows and alerts, leaving devices untouched.
func (s *Simulation) Clear() {
	s.time = 0
	s.flows = []api.TrafficFlow{}
	s.alerts = []api.Alert{}
}

// Reset clears the simulation and idles every device.
func (s *Simulation) Reset(t *Topology) {
	s.Clear()
	for i := range t.devices {
		t.devices[i].CurrentLoad = 0
		t.devices[i].Status = api.StatusActive
	}
	for i := range t.conns {
		t.conns[i].TrafficLoad = 0
	}
}

type TickResult struct {
	Flows  []api.TrafficFlow
	Alerts []api.Alert
}

// Tick advances the simulation by one step, replacing the flow set and
// recomputing every device's load and status.
func (s *Simulation) Tick(t *Topology, r Rand) TickResult {
	s.time++

	var res TickResult
	flows := []api.TrafficFlow{}
	if f, ok := s.spawnFlow(t, r); ok {
		flows = append(flows, f)
		res.Flows = append(res.Flows, f)
	}

	for i := range t.devices {
		d := &t.devices[i]
		var inc float64
		for _, f := range flows {
			if f.SourceDeviceID == d.ID || f.TargetDeviceID == d.ID {
				inc += f.Bandwidth / s.params.LoadDampening
			}
		}
		load := math.Min(100, d.CurrentLoad+inc) * s.params.LoadDecay
		d.CurrentLoad = load

		switch {
		case load > s.params.ErrorThreshold:
			d.Status = api.StatusError
			a := api.Alert{
				ID:        fmt.Sprintf("alert-%d-%s", s.time, d.ID),
				Severity:  api.SeverityCritical,
				Message:   fmt.Sprintf("%s is overloaded (%.0f%%)", d.Name, load),
				DeviceID:  d.ID,
				Timestamp: s.time,
			}
			s.alerts = append(s.alerts, a)
			res.Alerts = append(res.Alerts, a)
		case load > s.params.WarningThreshold:
			d.Status = api.StatusWarning
		default:
			d.Status = api.StatusActive
		}
	}

	for i := range t.conns {
		var bw float64
		for _, f := range flows {
			if slices.Contains(f.ConnectionIDs, t.conns[i].ID) {
				bw += f.Bandwidth
			}
		}
		t.conns[i].TrafficLoad = math.Min(100, bw)
	}

	s.flows = flows
	s.alerts = s.recentAlerts()
	return res
}

func (s *Simulation) recentAlerts() []api.Alert {
	recent := slices.DeleteFunc(s.alerts, func(a api.Alert) bool {
		return s.time-a.Timestamp >= s.params.AlertWindow
	})
	if n := s.params.AlertCap; len(recent) > n {
		recent = recent[len(recent)-n:]
	}
	return append([]api.Alert{}, recent...)
}

func (s *Simulation) spawnFlow(t *Topology, r Rand) (api.TrafficFlow, bool) {
	n := len(t.devices)
	if n < 2 || r.Float64() >= s.params.SpawnProbability {
		return api.TrafficFlow{}, false
	}
	src := t.devices[r.Intn(n)]
	others := make([]api.Device, 0, n-1)
	for _, d := range t.devices {
		if d.ID != src.ID {
			others = append(others, d)
		}
	}
	tgt := others[r.Intn(len(others))]

	p := FindPath(src.ID, tgt.ID, t.conns)
	if len(p) == 0 {
		return api.TrafficFlow{}, false
	}
	proto := protocols[r.Intn(len(protocols))]
	bw := r.Float64() * 100
	hue := int(r.Float64() * 360)
	return api.TrafficFlow{
		ID:             "flow-" + strconv.FormatInt(s.time, 10),
		SourceDeviceID: src.ID,
		TargetDeviceID: tgt.ID,
		ConnectionIDs:  p,
		Protocol:       proto,
		Bandwidth:      bw,
		Color:          fmt.Sprintf("hsl(%d, 70%%, 50%%)", hue),
		Animated:       true,
	}, true
}
