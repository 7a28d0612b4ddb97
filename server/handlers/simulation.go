package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/luno/netsim/server/ops"
)

func simulationHandler(d Deps, f func(s *ops.Session)) httprouter.Handle {
	return sessionHandler(d, func(_ *http.Request, s *ops.Session, _ httprouter.Params) error {
		f(s)
		return nil
	})
}

func StartSimulationHandler(d Deps) httprouter.Handle {
	return simulationHandler(d, func(s *ops.Session) { s.Start() })
}

func StopSimulationHandler(d Deps) httprouter.Handle {
	return simulationHandler(d, func(s *ops.Session) { s.Stop() })
}

func ToggleSimulationHandler(d Deps) httprouter.Handle {
	return simulationHandler(d, func(s *ops.Session) { s.Toggle() })
}

func ResetSimulationHandler(d Deps) httprouter.Handle {
	return simulationHandler(d, (*ops.Session).Reset)
}

func StepSimulationHandler(d Deps) httprouter.Handle {
	return simulationHandler(d, func(s *ops.Session) { s.Step() })
}
