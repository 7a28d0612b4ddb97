package graph

import (
	"math"
	"sort"

	"github.com/luno/netsim/api"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Network is an undirected view of a topology for structural analysis.
// Connections are treated as unweighted links.
type Network struct {
	ids   []string
	index map[string]int64
	conns []api.Connection
	g     *simple.UndirectedGraph
}

func New(devices []api.Device, conns []api.Connection) *Network {
	n := &Network{
		index: make(map[string]int64, len(devices)),
		conns: conns,
	}
	for _, d := range devices {
		if _, ok := n.index[d.ID]; ok {
			continue
		}
		n.index[d.ID] = int64(len(n.ids))
		n.ids = append(n.ids, d.ID)
	}
	n.g = n.build("")
	return n
}

// build returns the graph with the device skip left out.
func (n *Network) build(skip string) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i, id := range n.ids {
		if id == skip {
			continue
		}
		g.AddNode(simple.Node(int64(i)))
	}
	for _, c := range n.conns {
		if c.SourceID == c.TargetID || c.Touches(skip) {
			continue
		}
		a, okA := n.index[c.SourceID]
		b, okB := n.index[c.TargetID]
		if !okA || !okB {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(a), simple.Node(b)))
	}
	return g
}

// Segments returns the connected components of the network. Each segment is
// sorted, and segments are ordered by their first device id.
func (n *Network) Segments() [][]string {
	return n.names(topo.ConnectedComponents(n.g))
}

func (n *Network) names(cc [][]graph.Node) [][]string {
	ret := make([][]string, 0, len(cc))
	for _, c := range cc {
		seg := make([]string, 0, len(c))
		for _, node := range c {
			seg = append(seg, n.ids[node.ID()])
		}
		sort.Strings(seg)
		ret = append(ret, seg)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i][0] < ret[j][0]
	})
	return ret
}

// SinglePointsOfFailure returns the devices whose loss splits a segment.
// Isolated and leaf devices are never included.
func (n *Network) SinglePointsOfFailure() []string {
	ret := []string{}
	for _, id := range n.ids {
		if n.g.From(n.index[id]).Len() < 2 {
			continue
		}
		before := len(topo.ConnectedComponents(n.g))
		after := len(topo.ConnectedComponents(n.build(id)))
		if after > before {
			ret = append(ret, id)
		}
	}
	sort.Strings(ret)
	return ret
}

// HopDistance returns the fewest links between a and b, or -1 when they are
// not connected or unknown.
func (n *Network) HopDistance(a, b string) int {
	ai, okA := n.index[a]
	bi, okB := n.index[b]
	if !okA || !okB {
		return -1
	}
	sp := path.DijkstraFrom(simple.Node(ai), n.g)
	w := sp.WeightTo(bi)
	if math.IsInf(w, 1) {
		return -1
	}
	return int(w)
}

func (n *Network) Analyse() api.Analysis {
	return api.Analysis{
		Segments:              n.Segments(),
		SinglePointsOfFailure: n.SinglePointsOfFailure(),
	}
}
