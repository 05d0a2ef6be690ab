package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "healthguard"

// SafetyMetrics exposes counters/histograms for the chat safety flow.
type SafetyMetrics struct {
	verdictsTotal    *prometheus.CounterVec
	emergenciesTotal *prometheus.CounterVec
	fallbackTotal    prometheus.Counter
	rejectedTotal    *prometheus.CounterVec
	assistantLatency *prometheus.HistogramVec
}

func NewSafetyMetrics(reg prometheus.Registerer) *SafetyMetrics {
	m := &SafetyMetrics{
		verdictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "safety",
			Name:      "verdicts_total",
			Help:      "Safety gate verdicts by result",
		}, []string{"result"}),
		emergenciesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "safety",
			Name:      "emergencies_total",
			Help:      "Escalated messages by emergency type and severity",
		}, []string{"type", "severity"}),
		fallbackTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "safety",
			Name:      "emergency_context_fallback_total",
			Help:      "Escalations where no fine-grained pattern classified the emergency",
		}),
		rejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "safety",
			Name:      "ai_responses_rejected_total",
			Help:      "Assistant replies replaced by the safe fallback",
		}, []string{"reason"}),
		assistantLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "assistant_latency_seconds",
			Help:      "Latency of assistant model calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.verdictsTotal, m.emergenciesTotal, m.fallbackTotal, m.rejectedTotal, m.assistantLatency)
	return m
}

func (m *SafetyMetrics) ObserveVerdict(result string) {
	if m == nil {
		return
	}
	m.verdictsTotal.WithLabelValues(result).Inc()
}

// ObserveEmergency counts one escalation; fallback marks an unclassified one.
func (m *SafetyMetrics) ObserveEmergency(emergencyType, severity string, fallback bool) {
	if m == nil {
		return
	}
	m.emergenciesTotal.WithLabelValues(emergencyType, severity).Inc()
	if fallback {
		m.fallbackTotal.Inc()
	}
}

func (m *SafetyMetrics) ObserveRejectedResponse(reason string) {
	if m == nil {
		return
	}
	m.rejectedTotal.WithLabelValues(reason).Inc()
}

func (m *SafetyMetrics) ObserveAssistantLatency(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.assistantLatency.WithLabelValues(outcome).Observe(seconds)
}

// RiskMetrics tracks risk assessments produced for health logs.
type RiskMetrics struct {
	assessmentsTotal *prometheus.CounterVec
	redFlagsTotal    prometheus.Counter
}

func NewRiskMetrics(reg prometheus.Registerer) *RiskMetrics {
	m := &RiskMetrics{
		assessmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "assessments_total",
			Help:      "Risk assessments by level and rule version",
		}, []string{"level", "rule_version"}),
		redFlagsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "red_flags_total",
			Help:      "Red flags raised across all assessments",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.assessmentsTotal, m.redFlagsTotal)
	return m
}

func (m *RiskMetrics) ObserveAssessment(level, ruleVersion string, redFlags int) {
	if m == nil {
		return
	}
	m.assessmentsTotal.WithLabelValues(level, ruleVersion).Inc()
	if redFlags > 0 {
		m.redFlagsTotal.Add(float64(redFlags))
	}
}

// SOSMetrics tracks emergency contact notifications.
type SOSMetrics struct {
	dispatchTotal *prometheus.CounterVec
}

func NewSOSMetrics(reg prometheus.Registerer) *SOSMetrics {
	m := &SOSMetrics{
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sos",
			Name:      "notifications_total",
			Help:      "Emergency contact notifications by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.dispatchTotal)
	return m
}

// ObserveDispatch records one outcome: sent, failed, suppressed or no_contacts.
func (m *SOSMetrics) ObserveDispatch(outcome string) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(outcome).Inc()
}
