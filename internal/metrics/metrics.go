package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the application: counters for
// shift mutations and overlap conflicts, and a histogram for report generation.
type Metrics struct {
	ShiftsRecorded   *prometheus.CounterVec
	ShiftConflicts   prometheus.Counter
	EmployeesCreated prometheus.Counter
	ReportGeneration *prometheus.HistogramVec
}

// NewMetrics creates a Metrics instance registered against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ShiftsRecorded: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "worklog_shifts_total",
			Help: "Total number of shift mutations by operation",
		}, []string{"operation"}), // operation: create, update, delete
		ShiftConflicts: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "worklog_shift_conflicts_total",
			Help: "Total number of rejected overlapping shifts",
		}),
		EmployeesCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "worklog_employees_created_total",
			Help: "Total number of employee accounts created",
		}),
		ReportGeneration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worklog_report_generation_duration_seconds",
			Help:    "Duration of salary report generation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}), // format: json, xlsx
	}
}

// The Inc helpers are nil-safe so services can run without a registry in tests.

func (m *Metrics) IncShiftOp(op string) {
	if m == nil {
		return
	}
	m.ShiftsRecorded.WithLabelValues(op).Inc()
}

func (m *Metrics) IncShiftConflict() {
	if m == nil {
		return
	}
	m.ShiftConflicts.Inc()
}

func (m *Metrics) IncEmployeeCreated() {
	if m == nil {
		return
	}
	m.EmployeesCreated.Inc()
}

func (m *Metrics) ObserveReport(format string, seconds float64) {
	if m == nil {
		return
	}
	m.ReportGeneration.WithLabelValues(format).Observe(seconds)
}
