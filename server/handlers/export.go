package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/luno/jettison/log"
)

func ExportHandler(d Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		ctx := r.Context()
		s, err := getSession(d, p)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		b, name, err := s.Export()
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		_, err = w.Write(b)
		if err != nil {
			log.Error(ctx, err)
		}
	}
}
