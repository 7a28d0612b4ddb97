package ops

import (
	"context"
	"sync"

	"github.com/luno/netsim/api"
	"golang.org/x/exp/slices"
)

type MemDB struct {
	mu       sync.RWMutex
	networks map[string][]api.SavedNetwork
}

func NewMemDB() *MemDB {
	return &MemDB{
		networks: make(map[string][]api.SavedNetwork),
	}
}

func (m *MemDB) SaveNetwork(_ context.Context, session string, n api.SavedNetwork) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.networks[session] = append(m.networks[session], cloneNetwork(n))
	return nil
}

func (m *MemDB) ListNetworks(_ context.Context, session string) ([]api.SavedNetwork, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	nl := m.networks[session]
	ret := make([]api.SavedNetwork, 0, len(nl))
	for _, n := range nl {
		ret = append(ret, cloneNetwork(n))
	}
	return ret, nil
}

func (m *MemDB) GetNetwork(_ context.Context, session, id string) (api.SavedNetwork, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, n := range m.networks[session] {
		if n.ID == id {
			return cloneNetwork(n), nil
		}
	}
	return api.SavedNetwork{}, ErrNetworkNotFound
}

func (m *MemDB) DeleteNetwork(_ context.Context, session, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	nl := m.networks[session]
	i := slices.IndexFunc(nl, func(n api.SavedNetwork) bool { return n.ID == id })
	if i < 0 {
		return ErrNetworkNotFound
	}
	m.networks[session] = slices.Delete(nl, i, i+1)
	return nil
}

func (m *MemDB) DeleteSession(_ context.Context, session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.networks, session)
	return nil
}

var _ NetworkStore = (*MemDB)(nil)
