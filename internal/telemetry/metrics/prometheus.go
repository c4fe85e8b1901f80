package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Setup creates the service registry with the process, build and go runtime
// collectors (gc and memory, which chart rendering is heavy on), and the
// service metrics registered on it.
func Setup(namespace, subsystem string) (*prometheus.Registry, *Manager) {
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(
				collectors.MetricsGC,
				collectors.MetricsMemory,
			),
		),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promRegistry, NewManager(namespace, subsystem, promRegistry)
}
