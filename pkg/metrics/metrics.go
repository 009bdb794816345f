package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the domain counters. A nil *Metrics is valid and records
// nothing, which keeps service tests free of registry setup.
type Metrics struct {
	DoseSlotsGenerated  prometheus.Counter
	AdherenceRecords    *prometheus.CounterVec
	MessagesSent        prometheus.Counter
	SideEffectsReported prometheus.Counter
	AuthLogins          *prometheus.CounterVec
}

// NewMetrics creates and registers all domain metrics on reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DoseSlotsGenerated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dose_slots_generated_total",
			Help:      "Total number of dose slots generated for medications",
		}),
		AdherenceRecords: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adherence_records_total",
			Help:      "Total number of adherence records appended",
		}, []string{"taken"}),
		MessagesSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Total number of messages sent",
		}),
		SideEffectsReported: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "side_effects_reported_total",
			Help:      "Total number of side effects reported",
		}),
		AuthLogins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_login_total",
			Help:      "Login attempts by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) SlotsGenerated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.DoseSlotsGenerated.Add(float64(n))
}

func (m *Metrics) RecordAppended(taken bool) {
	if m == nil {
		return
	}
	m.AdherenceRecords.WithLabelValues(strconv.FormatBool(taken)).Inc()
}

func (m *Metrics) MessageSent() {
	if m == nil {
		return
	}
	m.MessagesSent.Inc()
}

func (m *Metrics) SideEffectReported() {
	if m == nil {
		return
	}
	m.SideEffectsReported.Inc()
}

// Login records a login attempt; result is "success" or "failure".
func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.AuthLogins.WithLabelValues(result).Inc()
}
