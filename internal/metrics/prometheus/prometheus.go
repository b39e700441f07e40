package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/slok/tfe-sync/internal/info"
	"github.com/slok/tfe-sync/internal/metrics"
)

type recorder struct {
	syncSuccess  *prometheus.GaugeVec
	syncsTotal   *prometheus.CounterVec
	syncDuration *prometheus.HistogramVec
}

// NewRecorder returns a metrics recorder backed by Prometheus.
func NewRecorder(reg prometheus.Registerer) metrics.Recorder {
	r := recorder{
		syncSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: info.PrometheusNamespace,
			Subsystem: "workspace",
			Name:      "sync_success",
			Help:      "Whether the last sync of the workspace succeeded.",
		}, []string{"workspace_name"}),

		syncsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: info.PrometheusNamespace,
			Subsystem: "workspace",
			Name:      "syncs_total",
			Help:      "Total number of workspace syncs by result.",
		}, []string{"workspace_name", "state"}),

		syncDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: info.PrometheusNamespace,
			Subsystem: "workspace",
			Name:      "sync_duration_seconds",
			Help:      "Duration of a workspace sync.",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"workspace_name"}),
	}

	reg.MustRegister(
		r.syncSuccess,
		r.syncsTotal,
		r.syncDuration,
	)

	return r
}

func (r recorder) ObserveWorkspaceSync(workspaceName string, success, changed bool, duration time.Duration) {
	successValue := 0.0
	state := "error"
	switch {
	case success && changed:
		successValue = 1
		state = "changed"
	case success:
		successValue = 1
		state = "unchanged"
	}

	r.syncSuccess.WithLabelValues(workspaceName).Set(successValue)
	r.syncsTotal.WithLabelValues(workspaceName, state).Inc()
	r.syncDuration.WithLabelValues(workspaceName).Observe(duration.Seconds())
}
