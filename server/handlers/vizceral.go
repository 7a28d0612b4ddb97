package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func VizceralGraphHandler(d Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		ctx := r.Context()
		s, err := getSession(d, p)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, s.Graph())
	}
}

func AnalysisHandler(d Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		ctx := r.Context()
		s, err := getSession(d, p)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, s.Analyse())
	}
}
