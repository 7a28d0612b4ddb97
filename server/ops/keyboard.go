package ops

const (
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyTab        = "Tab"
	KeyEnter      = "Enter"
	KeyDelete     = "Delete"
	KeyEscape     = "Escape"
)

const (
	nudgeStep      = 1
	nudgeShiftStep = 10
)

// KeyPress applies a key to the selected device. It reports whether
// anything changed.
func (in *Interaction) KeyPress(t *Topology, key string, shift bool) bool {
	if key == KeyTab {
		return in.cycle(t, shift)
	}
	if in.selected == "" {
		return false
	}
	d, ok := t.Device(in.selected)
	if !ok {
		in.selected = ""
		return false
	}

	step := float64(nudgeStep)
	if shift {
		step = nudgeShiftStep
	}
	p := d.Position
	switch key {
	case KeyArrowLeft:
		p.X -= step
	case KeyArrowRight:
		p.X += step
	case KeyArrowUp:
		p.Y -= step
	case KeyArrowDown:
		p.Y += step
	case KeyEnter:
		in.OpenConfig(d.ID)
		return true
	case KeyDelete:
		return in.RemoveDevice(t, d.ID)
	case KeyEscape:
		in.ClearSelection()
		return true
	default:
		return false
	}
	return t.MoveDevice(d.ID, p)
}

func (in *Interaction) cycle(t *Topology, backwards bool) bool {
	n := len(t.devices)
	if n == 0 {
		return false
	}
	cur := t.index(in.selected)
	var next int
	switch {
	case cur < 0 && backwards:
		next = n - 1
	case cur < 0:
		next = 0
	case backwards:
		next = (cur - 1 + n) % n
	default:
		next = (cur + 1) % n
	}
	in.selected = t.devices[next].ID
	return true
}
