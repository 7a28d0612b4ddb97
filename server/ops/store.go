package ops

import (
	"context"

	"github.com/luno/netsim/api"
)

// NetworkStore keeps the saved network designs of each session.
type NetworkStore interface {
	SaveNetwork(ctx context.Context, session string, n api.SavedNetwork) error
	// ListNetworks returns a session's networks, oldest first.
	ListNetworks(ctx context.Context, session string) ([]api.SavedNetwork, error)
	GetNetwork(ctx context.Context, session, id string) (api.SavedNetwork, error)
	DeleteNetwork(ctx context.Context, session, id string) error
	DeleteSession(ctx context.Context, session string) error
}

func cloneNetwork(n api.SavedNetwork) api.SavedNetwork {
	n.Devices = cloneDevices(n.Devices)
	n.Connections = append([]api.Connection{}, n.Connections...)
	return n
}
