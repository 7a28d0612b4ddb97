package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/luno/netsim/api"
	"github.com/luno/netsim/server/ops"
)

func writeNetworks(w http.ResponseWriter, r *http.Request, s *ops.Session) {
	ctx := r.Context()
	nl, err := s.ListSaved(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if nl == nil {
		nl = []api.SavedNetwork{}
	}
	writeJSON(ctx, w, api.ListNetworksResponse{Networks: nl})
}

func ListNetworksHandler(d Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		s, err := getSession(d, p)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		writeNetworks(w, r, s)
	}
}

// SaveNetworkHandler saves the design and responds with the updated list.
func SaveNetworkHandler(d Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		ctx := r.Context()
		s, err := getSession(d, p)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		var req api.SaveNetworkRequest
		if err := readJSON(r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
		if _, _, err := s.Save(ctx, req.Name); err != nil {
			writeError(ctx, w, err)
			return
		}
		writeNetworks(w, r, s)
	}
}

func LoadNetworkHandler(d Deps) httprouter.Handle {
	return sessionHandler(d, func(r *http.Request, s *ops.Session, p httprouter.Params) error {
		return s.Load(r.Context(), p.ByName("network"))
	})
}

func DeleteNetworkHandler(d Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		ctx := r.Context()
		s, err := getSession(d, p)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		if err := s.DeleteSaved(ctx, p.ByName("network")); err != nil {
			writeError(ctx, w, err)
			return
		}
		writeNetworks(w, r, s)
	}
}
