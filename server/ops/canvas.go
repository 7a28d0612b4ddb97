package ops

import "github.com/luno/netsim/api"

// Interaction is the pointer/keyboard state of a canvas: a tagged mode
// (idle, dragging a device or connecting from a device) plus the selection
// and the device whose configuration panel is open.
type Interaction struct {
	mode     api.InteractionMode
	deviceID string
	grab     api.Position

	selected    string
	configuring string
}

func NewInteraction() *Interaction {
	return &Interaction{mode: api.ModeIdle}
}

func (in *Interaction) State() api.Interaction {
	return api.Interaction{
		Mode:          in.mode,
		DeviceID:      in.deviceID,
		SelectedID:    in.selected,
		ConfiguringID: in.configuring,
	}
}

func (in *Interaction) idle() {
	in.mode = api.ModeIdle
	in.deviceID = ""
	in.grab = api.Position{}
}

// Reset returns to idle and drops the selection and open panel.
func (in *Interaction) Reset() {
	in.idle()
	in.selected = ""
	in.configuring = ""
}

// PointerDown starts dragging id, grabbed at canvas point (x, y). It is
// ignored unless idle.
func (in *Interaction) PointerDown(t *Topology, id string, x, y float64) bool {
	if in.mode != api.ModeIdle {
		return false
	}
	d, ok := t.Device(id)
	if !ok {
		return false
	}
	in.mode = api.ModeDragging
	in.deviceID = id
	in.grab = api.Position{X: x - d.Position.X, Y: y - d.Position.Y}
	in.selected = id
	return true
}

func (in *Interaction) PointerMove(t *Topology, x, y float64) bool {
	if in.mode != api.ModeDragging {
		return false
	}
	return t.MoveDevice(in.deviceID, api.Position{X: x - in.grab.X, Y: y - in.grab.Y})
}

func (in *Interaction) PointerUp() bool {
	if in.mode != api.ModeDragging {
		return false
	}
	in.idle()
	return true
}

// StartConnection enters connecting mode from id. Asking again for the same
// device cancels.
func (in *Interaction) StartConnection(id string) bool {
	switch in.mode {
	case api.ModeDragging:
		return false
	case api.ModeConnecting:
		if in.deviceID == id {
			in.idle()
			return true
		}
	}
	in.mode = api.ModeConnecting
	in.deviceID = id
	return true
}

// ClickDevice completes a pending connection to id, or selects id when no
// connection is pending. Self and duplicate links are dropped silently.
func (in *Interaction) ClickDevice(t *Topology, id string, typ api.ConnectionType) (api.Connection, bool) {
	if in.mode != api.ModeConnecting {
		if in.mode == api.ModeIdle {
			in.selected = id
		}
		return api.Connection{}, false
	}
	source := in.deviceID
	in.idle()
	return t.Connect(source, id, typ)
}

func (in *Interaction) RemoveDevice(t *Topology, id string) bool {
	if !t.RemoveDevice(id) {
		return false
	}
	in.forget(id)
	return true
}

// forget drops every reference to a device that no longer exists.
func (in *Interaction) forget(id string) {
	if in.mode != api.ModeIdle && in.deviceID == id {
		in.idle()
	}
	if in.selected == id {
		in.selected = ""
	}
	if in.configuring == id {
		in.configuring = ""
	}
}

func (in *Interaction) Select(id string) {
	in.selected = id
}

func (in *Interaction) ClearSelection() {
	in.selected = ""
}

// OpenConfig opens the configuration panel for id and selects it.
func (in *Interaction) OpenConfig(id string) {
	in.selected = id
	in.configuring = id
}

func (in *Interaction) Configure(t *Topology, id string, cfg api.DeviceConfig) bool {
	if !t.Configure(id, cfg) {
		return false
	}
	if in.configuring == id {
		in.configuring = ""
	}
	return true
}
