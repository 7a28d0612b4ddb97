package handlers

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
	"github.com/luno/netsim/server/ops"
)

var errBadRequest = errors.New("bad request", j.C("ERR_3b90e6d4a1c7f258"))

func writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error(ctx, errors.Wrap(err, "json marshal"))
		http.Error(w, "Internal Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(b)
	if err != nil {
		log.Error(ctx, err)
	}
}

// readJSON decodes the request body into v. An empty body leaves v as is.
func readJSON(r *http.Request, v any) error {
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return errors.Wrap(errBadRequest, err.Error())
	}
	if len(b) == 0 {
		return nil
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			return errors.Wrap(errBadRequest, "unsupported content type", j.KV("content_type", ct))
		}
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errors.Wrap(errBadRequest, err.Error())
	}
	return nil
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.IsAny(err, ops.ErrSessionNotFound, ops.ErrDeviceNotFound,
		ops.ErrNetworkNotFound, ops.ErrScenarioNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
	case errors.IsAny(err, errBadRequest, ops.ErrInvalidDeviceType):
		http.Error(w, "Bad Request", http.StatusBadRequest)
	default:
		log.Error(ctx, err)
		http.Error(w, "Internal Error", http.StatusInternalServerError)
	}
}

func getSession(d Deps, p httprouter.Params) (*ops.Session, error) {
	return d.Sessions().Get(p.ByName("session"))
}

// sessionHandler resolves the :session parameter and renders the session
// snapshot once f has run.
func sessionHandler(d Deps, f func(r *http.Request, s *ops.Session, p httprouter.Params) error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		ctx := r.Context()
		s, err := getSession(d, p)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		if err := f(r, s, p); err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, s.Snapshot())
	}
}
