package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters for the conversation pipeline.
type ChatMetrics struct {
	repliesTotal     *prometheus.CounterVec
	llmAttemptsTotal *prometheus.CounterVec
	leadEmailsTotal  *prometheus.CounterVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		repliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bettybot",
			Subsystem: "chat",
			Name:      "replies_total",
			Help:      "Chat replies by generator (llm or fallback) and lead stage",
		}, []string{"generator", "stage"}),
		llmAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bettybot",
			Subsystem: "llm",
			Name:      "attempts_total",
			Help:      "Together completion attempts by outcome",
		}, []string{"outcome"}),
		leadEmailsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bettybot",
			Subsystem: "notify",
			Name:      "lead_emails_total",
			Help:      "Lead emails by dispatch status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.repliesTotal, m.llmAttemptsTotal, m.leadEmailsTotal)
	return m
}

func (m *ChatMetrics) ObserveReply(generator, stage string) {
	if m == nil {
		return
	}
	if stage == "" {
		stage = "none"
	}
	m.repliesTotal.WithLabelValues(generator, stage).Inc()
}

func (m *ChatMetrics) ObserveLLMAttempt(outcome string) {
	if m == nil {
		return
	}
	m.llmAttemptsTotal.WithLabelValues(outcome).Inc()
}

func (m *ChatMetrics) ObserveLeadEmail(status string) {
	if m == nil {
		return
	}
	m.leadEmailsTotal.WithLabelValues(status).Inc()
}
