package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuotesTotal counts priced quote requests by result.
	QuotesTotal *prometheus.CounterVec
	// RuleOutcomesTotal counts bonus rule evaluations by rule and outcome.
	RuleOutcomesTotal *prometheus.CounterVec
	// ActivitiesAppliedTotal counts promotion activity applications.
	ActivitiesAppliedTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuotesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Count of quote pricing runs by result.",
		}, []string{"result"})
		RuleOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bonus_rule_outcomes_total",
			Help:      "Count of bonus rule evaluations by rule and outcome.",
		}, []string{"rule", "outcome"})
		ActivitiesAppliedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promo_activities_applied_total",
			Help:      "Count of promotion activity applications by activity.",
		}, []string{"activity"})
		reg.MustRegister(QuotesTotal, RuleOutcomesTotal, ActivitiesAppliedTotal)
	})
}
