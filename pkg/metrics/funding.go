package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// FundingMetrics counts the funding engine's committed state changes.
type FundingMetrics struct {
	pledges     prometheus.Counter
	retractions prometheus.Counter
	completions prometheus.Counter
}

// NewFundingMetrics registers the funding counters on the provided registerer.
func NewFundingMetrics(reg prometheus.Registerer) *FundingMetrics {
	if reg == nil {
		return &FundingMetrics{}
	}
	pledges := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "funding_pledges_total",
		Help: "Pledges committed against campaigns.",
	})
	retractions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "funding_retractions_total",
		Help: "Pledges retracted by their backers.",
	})
	completions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "funding_campaigns_completed_total",
		Help: "Campaigns that crossed their funding goal.",
	})
	reg.MustRegister(pledges, retractions, completions)
	return &FundingMetrics{
		pledges:     pledges,
		retractions: retractions,
		completions: completions,
	}
}

// IncPledges records a committed pledge.
func (m *FundingMetrics) IncPledges() {
	if m == nil || m.pledges == nil {
		return
	}
	m.pledges.Inc()
}

// IncRetractions records a committed retraction.
func (m *FundingMetrics) IncRetractions() {
	if m == nil || m.retractions == nil {
		return
	}
	m.retractions.Inc()
}

// IncCompletions records a campaign crossing its goal.
func (m *FundingMetrics) IncCompletions() {
	if m == nil || m.completions == nil {
		return
	}
	m.completions.Inc()
}
