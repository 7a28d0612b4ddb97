package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/luno/netsim/api"
	"github.com/luno/netsim/server/ops"
)

func AddDeviceHandler(d Deps) httprouter.Handle {
	return sessionHandler(d, func(r *http.Request, s *ops.Session, _ httprouter.Params) error {
		var req api.AddDeviceRequest
		if err := readJSON(r, &req); err != nil {
			return err
		}
		_, err := s.AddDevice(req.Type)
		return err
	})
}

func RemoveDeviceHandler(d Deps) httprouter.Handle {
	return sessionHandler(d, func(_ *http.Request, s *ops.Session, p httprouter.Params) error {
		return s.RemoveDevice(p.ByName("device"))
	})
}

// ConfigureDeviceHandler applies a device config. An empty body only opens
// the device's configuration panel.
func ConfigureDeviceHandler(d Deps) httprouter.Handle {
	return sessionHandler(d, func(r *http.Request, s *ops.Session, p httprouter.Params) error {
		var cfg *api.DeviceConfig
		if err := readJSON(r, &cfg); err != nil {
			return err
		}
		if cfg == nil {
			return s.OpenConfig(p.ByName("device"))
		}
		return s.ConfigureDevice(p.ByName("device"), *cfg)
	})
}

func MoveDeviceHandler(d Deps) httprouter.Handle {
	return sessionHandler(d, func(r *http.Request, s *ops.Session, p httprouter.Params) error {
		var req api.MoveRequest
		if err := readJSON(r, &req); err != nil {
			return err
		}
		return s.MoveDevice(p.ByName("device"), api.Position{X: req.X, Y: req.Y})
	})
}

func ConnectDeviceHandler(d Deps) httprouter.Handle {
	return sessionHandler(d, func(_ *http.Request, s *ops.Session, p httprouter.Params) error {
		_, err := s.StartConnection(p.ByName("device"))
		return err
	})
}

// ClickDeviceHandler takes the link type of a completed connection from the
// optional "type" query parameter.
func ClickDeviceHandler(d Deps) httprouter.Handle {
	return sessionHandler(d, func(r *http.Request, s *ops.Session, p httprouter.Params) error {
		typ := api.ConnectionType(r.URL.Query().Get("type"))
		_, _, err := s.ClickDevice(p.ByName("device"), typ)
		return err
	})
}
