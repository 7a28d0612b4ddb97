package ops

import (
	"strings"

	"github.com/luno/netsim/api"
)

type deviceTemplate struct {
	Label string
	Specs api.Specs
}

var deviceTemplates = map[api.DeviceType]deviceTemplate{
	api.DeviceRouter: {Label: "Router", Specs: api.Specs{
		Throughput: "10 Gbps", MaxConnections: 10000, PowerConsumption: "150W",
		Redundancy: true, HotSwappable: true,
	}},
	api.DeviceSwitch: {Label: "Switch", Specs: api.Specs{
		Throughput: "1 Gbps", MaxConnections: 1000, PowerConsumption: "30W",
	}},
	api.DeviceFirewall: {Label: "Firewall", Specs: api.Specs{
		Throughput: "1 Gbps", MaxConnections: 50000, PowerConsumption: "75W",
	}},
	api.DeviceFirewallStateful: {Label: "Stateful Firewall", Specs: api.Specs{
		Throughput: "500 Mbps", MaxConnections: 5000, PowerConsumption: "75W",
		Redundancy: true,
	}},
	api.DeviceLoadBalancer: {Label: "Load Balancer", Specs: api.Specs{
		Throughput: "5 Gbps", MaxConnections: 100000, PowerConsumption: "200W",
		Redundancy: true, HotSwappable: true,
	}},
	api.DeviceIDSIPS: {Label: "IDS/IPS", Specs: api.Specs{
		Throughput: "2 Gbps", MaxConnections: 20000, PowerConsumption: "120W",
	}},
	api.DeviceWirelessController: {Label: "Wireless Controller", Specs: api.Specs{
		Throughput: "1 Gbps", MaxConnections: 500, PowerConsumption: "60W",
	}},
	api.DeviceProxy: {Label: "Proxy", Specs: api.Specs{
		Throughput: "1 Gbps", MaxConnections: 10000, PowerConsumption: "50W",
	}},
	api.DeviceVPNConcentrator: {Label: "VPN Concentrator", Specs: api.Specs{
		Throughput: "1 Gbps", MaxConnections: 2500, PowerConsumption: "90W",
		Redundancy: true,
	}},
}

// fallbackSpecs are used for device types that carry no template, such as
// devices handed in by a host or loaded from a file.
var fallbackSpecs = api.Specs{
	Throughput:       "1 Gbps",
	MaxConnections:   1000,
	PowerConsumption: "50W",
}

func IsKnownDeviceType(typ api.DeviceType) bool {
	_, ok := deviceTemplates[typ]
	return ok
}

func defaultSpecs(typ api.DeviceType) api.Specs {
	t, ok := deviceTemplates[typ]
	if !ok {
		return fallbackSpecs
	}
	return t.Specs
}

func deviceLabel(typ api.DeviceType) string {
	if t, ok := deviceTemplates[typ]; ok {
		return t.Label
	}
	s := string(typ)
	if s == "" {
		return "Device"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var linkBandwidth = map[api.ConnectionType]string{
	api.ConnEthernet: "1 Gbps",
	api.ConnFiber:    "10 Gbps",
	api.ConnWireless: "300 Mbps",
	api.ConnVPN:      "100 Mbps",
}

func newConnection(id, source, target string, typ api.ConnectionType) api.Connection {
	if _, ok := linkBandwidth[typ]; !ok {
		typ = api.ConnEthernet
	}
	return api.Connection{
		ID:        id,
		SourceID:  source,
		TargetID:  target,
		Type:      typ,
		Bandwidth: linkBandwidth[typ],
		Latency:   1,
	}
}
