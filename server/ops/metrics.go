package ops

import "github.com/prometheus/client_golang/prometheus"

var (
	simulationTicks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "netsim",
		Subsystem: "simulation",
		Name:      "ticks_total",
		Help:      "Simulation ticks processed across all sessions",
	})
	simulationFlows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "netsim",
		Subsystem: "simulation",
		Name:      "flows_total",
		Help:      "Traffic flows generated by protocol",
	}, []string{"protocol"})
	simulationAlerts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "netsim",
		Subsystem: "simulation",
		Name:      "alerts_total",
		Help:      "Critical overload alerts raised",
	})
	activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "netsim",
		Subsystem: "sessions",
		Name:      "active",
		Help:      "Simulator sessions currently open",
	})
)

func init() {
	prometheus.MustRegister(simulationTicks, simulationFlows, simulationAlerts, activeSessions)
}
