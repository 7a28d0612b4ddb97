package ops

import "github.com/luno/netsim/api"

type hop struct {
	deviceID string
	path     []string
}

// FindPath returns the connection ids of a fewest-hop path from source to
// target. It returns nil when no path exists, when source equals target or
// when either device is not part of the graph.
func FindPath(source, target string, conns []api.Connection) []string {
	if source == target {
		return nil
	}
	visited := map[string]bool{source: true}
	queue := []hop{{deviceID: source}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.deviceID == target {
			return cur.path
		}
		for _, c := range conns {
			if !c.Touches(cur.deviceID) {
				continue
			}
			next := c.Other(cur.deviceID)
			if visited[next] {
				continue
			}
			visited[next] = true
			p := make([]string, len(cur.path), len(cur.path)+1)
			copy(p, cur.path)
			queue = append(queue, hop{deviceID: next, path: append(p, c.ID)})
		}
	}
	return nil
}
