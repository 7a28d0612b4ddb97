package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/luno/netsim/api"
)

func CreateSessionHandler(d Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx := r.Context()
		var req api.CreateSessionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
		s := d.Sessions().Create(ctx, req.Devices)
		w.Header().Set("Location", r.URL.Path+"/"+s.ID())
		writeJSON(ctx, w, s.Snapshot())
	}
}

func GetSessionHandler(d Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		ctx := r.Context()
		s, err := getSession(d, p)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, s.Snapshot())
	}
}

func CloseSessionHandler(d Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		ctx := r.Context()
		err := d.Sessions().Close(ctx, p.ByName("session"))
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
