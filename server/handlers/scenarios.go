package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/luno/netsim/api"
	"github.com/luno/netsim/server/ops"
)

func ListScenariosHandler(d Deps) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(r.Context(), w, api.ListScenariosResponse{
			Scenarios: d.Sessions().Scenarios().List(),
		})
	}
}

func LoadScenarioHandler(d Deps) httprouter.Handle {
	return sessionHandler(d, func(r *http.Request, s *ops.Session, p httprouter.Params) error {
		return s.LoadScenario(r.Context(), p.ByName("scenario"))
	})
}
