package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/luno/netsim/api"
	"github.com/luno/netsim/server/ops"
)

func PointerDownHandler(d Deps) httprouter.Handle {
	return sessionHandler(d, func(r *http.Request, s *ops.Session, _ httprouter.Params) error {
		var req api.PointerRequest
		if err := readJSON(r, &req); err != nil {
			return err
		}
		_, err := s.PointerDown(req.DeviceID, req.X, req.Y)
		return err
	})
}

func PointerMoveHandler(d Deps) httprouter.Handle {
	return sessionHandler(d, func(r *http.Request, s *ops.Session, _ httprouter.Params) error {
		var req api.PointerRequest
		if err := readJSON(r, &req); err != nil {
			return err
		}
		s.PointerMove(req.X, req.Y)
		return nil
	})
}

func PointerUpHandler(d Deps) httprouter.Handle {
	return sessionHandler(d, func(_ *http.Request, s *ops.Session, _ httprouter.Params) error {
		s.PointerUp()
		return nil
	})
}

func KeyPressHandler(d Deps) httprouter.Handle {
	return sessionHandler(d, func(r *http.Request, s *ops.Session, _ httprouter.Params) error {
		var req api.KeyRequest
		if err := readJSON(r, &req); err != nil {
			return err
		}
		s.KeyPress(req.Key, req.Shift)
		return nil
	})
}
