package ops

import (
	"testing"

	"github.com/luno/netsim/api"
	"github.com/stretchr/testify/assert"
)

func TestKeyPress(t *testing.T) {
	testCases := []struct {
		name     string
		selected string
		key      string
		shift    bool
		changed  bool
		pos      api.Position
		state    api.Interaction
	}{
		{name: "no selection", key: KeyArrowLeft, pos: api.Position{X: 100, Y: 100},
			state: api.Interaction{Mode: api.ModeIdle}},
		{name: "left", selected: "a", key: KeyArrowLeft, changed: true, pos: api.Position{X: 99, Y: 100},
			state: api.Interaction{Mode: api.ModeIdle, SelectedID: "a"}},
		{name: "shift right", selected: "a", key: KeyArrowRight, shift: true, changed: true, pos: api.Position{X: 110, Y: 100},
			state: api.Interaction{Mode: api.ModeIdle, SelectedID: "a"}},
		{name: "up", selected: "a", key: KeyArrowUp, changed: true, pos: api.Position{X: 100, Y: 99},
			state: api.Interaction{Mode: api.ModeIdle, SelectedID: "a"}},
		{name: "shift down", selected: "a", key: KeyArrowDown, shift: true, changed: true, pos: api.Position{X: 100, Y: 110},
			state: api.Interaction{Mode: api.ModeIdle, SelectedID: "a"}},
		{name: "enter", selected: "a", key: KeyEnter, changed: true, pos: api.Position{X: 100, Y: 100},
			state: api.Interaction{Mode: api.ModeIdle, SelectedID: "a", ConfiguringID: "a"}},
		{name: "escape", selected: "a", key: KeyEscape, changed: true, pos: api.Position{X: 100, Y: 100},
			state: api.Interaction{Mode: api.ModeIdle}},
		{name: "unknown", selected: "a", key: "q", pos: api.Position{X: 100, Y: 100},
			state: api.Interaction{Mode: api.ModeIdle, SelectedID: "a"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			topo := topologyOf([]api.Device{dev("a", 100, 100, 0)})
			in := NewInteraction()
			in.Select(tc.selected)

			assert.Equal(t, tc.changed, in.KeyPress(topo, tc.key, tc.shift))
			d, _ := topo.Device("a")
			assert.Equal(t, tc.pos, d.Position)
			assert.Equal(t, tc.state, in.State())
		})
	}
}

func TestKeyNudgeClamps(t *testing.T) {
	topo := topologyOf([]api.Device{dev("a", 5, 0, 0)})
	in := NewInteraction()
	in.Select("a")

	in.KeyPress(topo, KeyArrowLeft, true)
	in.KeyPress(topo, KeyArrowUp, false)
	d, _ := topo.Device("a")
	assert.Equal(t, api.Position{}, d.Position)
}

func TestKeyDelete(t *testing.T) {
	topo := topologyOf([]api.Device{dev("a", 0, 0, 0), dev("b", 0, 0, 0)}, conn("c1", "a", "b"))
	in := NewInteraction()
	in.Select("a")

	assert.True(t, in.KeyPress(topo, KeyDelete, false))
	assert.Len(t, topo.Devices(), 1)
	assert.Empty(t, topo.Connections())
	assert.Empty(t, in.State().SelectedID)
	assertConsistent(t, topo)

	assert.False(t, in.KeyPress(topo, KeyDelete, false))
}

func TestTabCycles(t *testing.T) {
	topo := topologyOf([]api.Device{dev("a", 0, 0, 0), dev("b", 0, 0, 0), dev("c", 0, 0, 0)})

	t.Run("forward", func(t *testing.T) {
		in := NewInteraction()
		var got []string
		for i := 0; i < 4; i++ {
			assert.True(t, in.KeyPress(topo, KeyTab, false))
			got = append(got, in.State().SelectedID)
		}
		assert.Equal(t, []string{"a", "b", "c", "a"}, got)
	})
	t.Run("backward", func(t *testing.T) {
		in := NewInteraction()
		var got []string
		for i := 0; i < 4; i++ {
			assert.True(t, in.KeyPress(topo, KeyTab, true))
			got = append(got, in.State().SelectedID)
		}
		assert.Equal(t, []string{"c", "b", "a", "c"}, got)
	})
	t.Run("empty canvas", func(t *testing.T) {
		in := NewInteraction()
		assert.False(t, in.KeyPress(topologyOf(nil), KeyTab, false))
	})
}
