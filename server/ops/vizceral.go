package ops

import (
	"github.com/luno/netsim/api"
	"github.com/luno/netsim/api/vizceral"
)

func nodeClass(s api.Status) vizceral.NodeClass {
	switch s {
	case api.StatusError:
		return vizceral.ClassDanger
	case api.StatusWarning:
		return vizceral.ClassWarning
	default:
		return vizceral.ClassNormal
	}
}

// CompileVizceralGraph renders a snapshot as a single region holding one
// node per device and one connection per link, weighted by this tick's load.
func CompileVizceralGraph(snap api.Snapshot) vizceral.Node {
	ts := snap.Simulation.Time

	region := vizceral.Node{
		Class:       vizceral.ClassNormal,
		Renderer:    vizceral.RendererRegion,
		Name:        snap.SessionID,
		DisplayName: "network",
		Updated:     ts,
		Nodes:       []vizceral.Node{},
		Connections: []vizceral.Connection{},
	}
	for _, d := range snap.Devices {
		region.Nodes = append(region.Nodes, vizceral.Node{
			Class:       nodeClass(d.Status),
			Renderer:    vizceral.RendererFocusedChild,
			Name:        d.ID,
			DisplayName: d.Name,
			NodeType:    string(d.Type),
			Updated:     ts,
		})
	}
	for _, c := range snap.Connections {
		region.Connections = append(region.Connections, vizceral.Connection{
			Source:  c.SourceID,
			Target:  c.TargetID,
			Metrics: vizceral.Metrics{Normal: c.TrafficLoad},
			Metadata: map[string]string{
				"id":        c.ID,
				"type":      string(c.Type),
				"bandwidth": c.Bandwidth,
			},
		})
		if c.TrafficLoad > region.MaxVolume {
			region.MaxVolume = c.TrafficLoad
		}
	}

	return vizceral.Node{
		Renderer:         vizceral.RendererGlobal,
		Name:             "edge",
		ServerUpdateTime: ts,
		Nodes:            []vizceral.Node{region},
		Connections:      []vizceral.Connection{},
	}
}
