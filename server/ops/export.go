package ops

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/luno/jettison/errors"
	"github.com/luno/netsim/api"
)

// isoMillis matches the ISO 8601 form browsers produce for timestamps.
const isoMillis = "2006-01-02T15:04:05.000Z"

func ExportFilename(ts time.Time) string {
	return "network-design-" + strconv.FormatInt(ts.Unix(), 10) + ".json"
}

// ExportNetwork encodes a design in the download file format.
func ExportNetwork(devices []api.Device, conns []api.Connection, ts time.Time) ([]byte, error) {
	f := api.ExportFile{
		Devices:     devices,
		Connections: conns,
		Timestamp:   ts.UTC().Format(isoMillis),
	}
	if f.Devices == nil {
		f.Devices = []api.Device{}
	}
	if f.Connections == nil {
		f.Connections = []api.Connection{}
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode export")
	}
	return b, nil
}
