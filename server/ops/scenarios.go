package ops

import (
	"strconv"

	"github.com/luno/netsim/api"
	"github.com/luno/netsim/server/ops/config"
)

// Scenario is a canned topology for a guided troubleshooting exercise.
type Scenario struct {
	api.Scenario
	Setup func() ([]api.Device, []api.Connection)
}

type ScenarioCatalog struct {
	scenarios []Scenario
}

// NewScenarioCatalog returns the built-in scenarios followed by extra ones.
func NewScenarioCatalog(extra []config.Scenario) *ScenarioCatalog {
	c := &ScenarioCatalog{scenarios: builtinScenarios()}
	for _, s := range extra {
		c.scenarios = append(c.scenarios, fromConfig(s))
	}
	return c
}

func (c *ScenarioCatalog) List() []api.Scenario {
	ret := make([]api.Scenario, 0, len(c.scenarios))
	for _, s := range c.scenarios {
		ret = append(ret, s.Scenario)
	}
	return ret
}

func (c *ScenarioCatalog) Get(id string) (Scenario, error) {
	for _, s := range c.scenarios {
		if s.ID == id {
			return s, nil
		}
	}
	return Scenario{}, ErrScenarioNotFound
}

func fromConfig(s config.Scenario) Scenario {
	return Scenario{
		Scenario: api.Scenario{
			ID:            s.ID,
			Name:          s.Name,
			Description:   s.Description,
			ExpectedIssue: s.ExpectedIssue,
			Hint:          s.Hint,
		},
		Setup: func() ([]api.Device, []api.Connection) {
			return cloneDevices(s.Devices), append([]api.Connection{}, s.Connections...)
		},
	}
}

func scenarioDevice(id, name string, typ api.DeviceType, x, y float64, specs api.Specs, load float64) api.Device {
	return api.Device{
		ID:          id,
		Name:        name,
		Type:        typ,
		Category:    api.CategoryPhysical,
		Position:    api.Position{X: x, Y: y},
		Specs:       specs,
		Status:      api.StatusActive,
		Connections: []string{},
		CurrentLoad: load,
		MaxLoad:     100,
	}
}

func scenarioLink(id, source, target, bandwidth string, latency, load float64) api.Connection {
	return api.Connection{
		ID:          id,
		SourceID:    source,
		TargetID:    target,
		Type:        api.ConnEthernet,
		Bandwidth:   bandwidth,
		Latency:     latency,
		TrafficLoad: load,
	}
}

func builtinScenarios() []Scenario {
	return []Scenario{
		{
			Scenario: api.Scenario{
				ID:            "scenario-1",
				Name:          "Network Bottleneck",
				Description:   "Identify and resolve a single point of failure",
				ExpectedIssue: "The main router is a single point of failure",
				Hint:          "Consider adding a backup router with redundancy enabled",
			},
			Setup: func() ([]api.Device, []api.Connection) {
				router := scenarioDevice("router-main", "Main Router", api.DeviceRouter, 250, 100, api.Specs{
					Throughput: "100 Mbps", MaxConnections: 1000, PowerConsumption: "50W",
				}, 0)
				devices := []api.Device{router}
				var conns []api.Connection
				for i := 0; i < 3; i++ {
					id := "switch-" + strconv.Itoa(i)
					devices = append(devices, scenarioDevice(id, "Switch "+strconv.Itoa(i+1), api.DeviceSwitch,
						float64(100+i*150), 250, api.Specs{
							Throughput: "1 Gbps", MaxConnections: 500, PowerConsumption: "30W",
						}, 0))
					conns = append(conns, scenarioLink("conn-"+id, router.ID, id, "100 Mbps", 1, 0))
				}
				return devices, conns
			},
		},
		{
			Scenario: api.Scenario{
				ID:            "scenario-2",
				Name:          "Overloaded Device",
				Description:   "Handle excessive traffic on a network device",
				ExpectedIssue: "Devices are operating near maximum capacity",
				Hint:          "Consider upgrading throughput or adding load balancing",
			},
			Setup: func() ([]api.Device, []api.Connection) {
				router := scenarioDevice("router-overload", "Core Router", api.DeviceRouter, 250, 100, api.Specs{
					Throughput: "100 Mbps", MaxConnections: 500, PowerConsumption: "50W",
				}, 85)
				server := scenarioDevice("server-main", "Web Server", api.DeviceSwitch, 100, 250, api.Specs{
					Throughput: "1 Gbps", MaxConnections: 1000, PowerConsumption: "100W",
				}, 90)
				return []api.Device{router, server}, []api.Connection{
					scenarioLink("conn-overload", router.ID, server.ID, "100 Mbps", 2, 95),
				}
			},
		},
		{
			Scenario: api.Scenario{
				ID:            "scenario-3",
				Name:          "Redundancy Setup",
				Description:   "Design a redundant network architecture",
				ExpectedIssue: "No single point of failure - good design",
				Hint:          "This is a recommended architecture for high availability",
			},
			Setup: func() ([]api.Device, []api.Connection) {
				fw := api.Specs{
					Throughput: "500 Mbps", MaxConnections: 5000, PowerConsumption: "75W", Redundancy: true,
				}
				primary := scenarioDevice("fw-primary", "Firewall Primary", api.DeviceFirewallStateful, 150, 100, fw, 0)
				secondary := scenarioDevice("fw-secondary", "Firewall Secondary", api.DeviceFirewallStateful, 350, 100, fw, 0)
				internal := scenarioDevice("switch-internal", "Internal Switch", api.DeviceSwitch, 250, 250, api.Specs{
					Throughput: "1 Gbps", MaxConnections: 1000, PowerConsumption: "30W", Redundancy: true,
				}, 0)
				return []api.Device{primary, secondary, internal}, []api.Connection{
					scenarioLink("conn-primary", primary.ID, internal.ID, "1 Gbps", 1, 0),
					scenarioLink("conn-secondary", secondary.ID, internal.ID, "1 Gbps", 1, 0),
				}
			},
		},
	}
}
