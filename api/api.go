package api

type DeviceType string

const (
	DeviceRouter             DeviceType = "router"
	DeviceSwitch             DeviceType = "switch"
	DeviceFirewall           DeviceType = "firewall"
	DeviceFirewallStateful   DeviceType = "firewall-stateful"
	DeviceLoadBalancer       DeviceType = "load-balancer"
	DeviceIDSIPS             DeviceType = "ids-ips"
	DeviceWirelessController DeviceType = "wireless-controller"
	DeviceProxy              DeviceType = "proxy"
	DeviceVPNConcentrator    DeviceType = "vpn-concentrator"
)

type Category string

const (
	CategoryPhysical Category = "physical"
	CategoryVirtual  Category = "virtual"
	CategoryCloud    Category = "cloud"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusWarning  Status = "warning"
	StatusError    Status = "error"
	StatusInactive Status = "inactive"
)

type ConnectionType string

const (
	ConnEthernet ConnectionType = "ethernet"
	ConnFiber    ConnectionType = "fiber"
	ConnWireless ConnectionType = "wireless"
	ConnVPN      ConnectionType = "vpn"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type Specs struct {
	Throughput       string `json:"throughput" yaml:"throughput"`
	MaxConnections   int    `json:"max_connections" yaml:"max_connections"`
	PowerConsumption string `json:"power_consumption" yaml:"power_consumption"`
	Redundancy       bool   `json:"redundancy" yaml:"redundancy"`
	HotSwappable     bool   `json:"hot_swappable" yaml:"hot_swappable"`
}

type Device struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Type        DeviceType `json:"type" yaml:"type"`
	Category    Category   `json:"category" yaml:"category"`
	Position    Position   `json:"position" yaml:"position"`
	Specs       Specs      `json:"specs" yaml:"specs"`
	Status      Status     `json:"status" yaml:"status"`
	Connections []string   `json:"connections" yaml:"connections"`
	CurrentLoad float64    `json:"current_load" yaml:"current_load"`
	MaxLoad     float64    `json:"max_load" yaml:"max_load"`
}

// Clone returns a deep copy, the connection set included.
func (d Device) Clone() Device {
	d.Connections = append(make([]string, 0, len(d.Connections)), d.Connections...)
	return d
}

type Connection struct {
	ID          string         `json:"id" yaml:"id"`
	SourceID    string         `json:"source_id" yaml:"source_id"`
	TargetID    string         `json:"target_id" yaml:"target_id"`
	Type        ConnectionType `json:"type" yaml:"type"`
	Bandwidth   string         `json:"bandwidth" yaml:"bandwidth"`
	Latency     float64        `json:"latency" yaml:"latency"`
	TrafficLoad float64        `json:"traffic_load" yaml:"traffic_load"`
}

// Joins reports whether c links a and b, in either direction.
func (c Connection) Joins(a, b string) bool {
	return (c.SourceID == a && c.TargetID == b) || (c.SourceID == b && c.TargetID == a)
}

// Touches reports whether id is one of the endpoints of c.
func (c Connection) Touches(id string) bool {
	return c.SourceID == id || c.TargetID == id
}

// Other returns the endpoint opposite to id.
func (c Connection) Other(id string) string {
	if c.SourceID == id {
		return c.TargetID
	}
	return c.SourceID
}

type TrafficFlow struct {
	ID             string   `json:"id"`
	SourceDeviceID string   `json:"source_device_id"`
	TargetDeviceID string   `json:"target_device_id"`
	ConnectionIDs  []string `json:"connection_ids"`
	Protocol       string   `json:"protocol"`
	Bandwidth      float64  `json:"bandwidth"`
	Color          string   `json:"color"`
	Animated       bool     `json:"animated"`
}

type Alert struct {
	ID        string   `json:"id"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
	DeviceID  string   `json:"device_id,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

type SimulationState struct {
	IsRunning    bool          `json:"is_running"`
	Time         int64         `json:"time"`
	TrafficFlows []TrafficFlow `json:"traffic_flows"`
	Alerts       []Alert       `json:"alerts"`
}

type InteractionMode string

const (
	ModeIdle       InteractionMode = "idle"
	ModeDragging   InteractionMode = "dragging"
	ModeConnecting InteractionMode = "connecting"
)

type Interaction struct {
	Mode          InteractionMode `json:"mode"`
	DeviceID      string          `json:"device_id,omitempty"`
	SelectedID    string          `json:"selected_id,omitempty"`
	ConfiguringID string          `json:"configuring_id,omitempty"`
}

// DeviceConfig is an edit of a device's configurable fields. Nil fields are
// left as they are.
type DeviceConfig struct {
	Name           *string `json:"name,omitempty"`
	Throughput     *string `json:"throughput,omitempty"`
	MaxConnections *int    `json:"max_connections,omitempty"`
	Redundancy     *bool   `json:"redundancy,omitempty"`
}

// Apply merges the set fields of c over d.
func (c DeviceConfig) Apply(d Device) Device {
	if c.Name != nil {
		d.Name = *c.Name
	}
	if c.Throughput != nil {
		d.Specs.Throughput = *c.Throughput
	}
	if c.MaxConnections != nil {
		d.Specs.MaxConnections = *c.MaxConnections
	}
	if c.Redundancy != nil {
		d.Specs.Redundancy = *c.Redundancy
	}
	return d
}

type Canvas struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	DeviceSize float64 `json:"device_size"`
}

type Snapshot struct {
	SessionID   string          `json:"session_id"`
	Canvas      Canvas          `json:"canvas"`
	Devices     []Device        `json:"devices"`
	Connections []Connection    `json:"connections"`
	Simulation  SimulationState `json:"simulation"`
	Interaction Interaction     `json:"interaction"`
}

type SavedNetwork struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Timestamp   string       `json:"timestamp"`
	Devices     []Device     `json:"devices"`
	Connections []Connection `json:"connections"`
}

type ExportFile struct {
	Devices     []Device     `json:"devices"`
	Connections []Connection `json:"connections"`
	Timestamp   string       `json:"timestamp"`
}

type Scenario struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	ExpectedIssue string `json:"expected_issue"`
	Hint          string `json:"hint"`
}

type Analysis struct {
	Segments              [][]string `json:"segments"`
	SinglePointsOfFailure []string   `json:"single_points_of_failure"`
}

type CreateSessionRequest struct {
	Devices []Device `json:"devices"`
}

type AddDeviceRequest struct {
	Type DeviceType `json:"type"`
}

type MoveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PointerRequest struct {
	DeviceID string  `json:"device_id,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type KeyRequest struct {
	Key   string `json:"key"`
	Shift bool   `json:"shift"`
}

type SaveNetworkRequest struct {
	Name string `json:"name"`
}

type ListNetworksResponse struct {
	Networks []SavedNetwork `json:"networks"`
}

type ListScenariosResponse struct {
	Scenarios []Scenario `json:"scenarios"`
}
