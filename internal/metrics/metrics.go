// Package metrics holds the Prometheus collectors exported on the admin
// listener.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RegistryReloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "datagraph_registry_reloads_total",
		Help: "Registry loads by result (success or failure).",
	}, []string{"result"})
	RegistryEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "datagraph_registry_entries",
		Help: "Variables in the currently published registry.",
	})
	RegistryLoadTime = prometheus.NewSummary(prometheus.SummaryOpts{
		Name: "datagraph_registry_load_seconds",
		Help: "Seconds to load the registry from all sources.",
	})
	ChartComputations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "datagraph_chart_computations_total",
		Help: "Charts derived by plot sessions, by plot kind. Cache hits are not counted.",
	}, []string{"kind"})
	SessionsOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "datagraph_sessions_open",
		Help: "Plot sessions currently held in memory.",
	})
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "datagraph_http_requests_total",
		Help: "API requests by route and status code.",
	}, []string{"method", "route", "status"})
)

func init() {
	prometheus.MustRegister(RegistryReloads)
	prometheus.MustRegister(RegistryEntries)
	prometheus.MustRegister(RegistryLoadTime)
	prometheus.MustRegister(ChartComputations)
	prometheus.MustRegister(SessionsOpen)
	prometheus.MustRegister(HTTPRequests)
}

// ObserveReload records the outcome of one registry load
func ObserveReload(entries int, seconds float64, err error) {
	RegistryLoadTime.Observe(seconds)
	if err != nil {
		RegistryReloads.WithLabelValues("failure").Inc()
		return
	}
	RegistryReloads.WithLabelValues("success").Inc()
	RegistryEntries.Set(float64(entries))
}
