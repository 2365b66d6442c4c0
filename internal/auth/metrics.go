package auth

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultAllowed = "allowed"
	resultDenied  = "denied"
	resultError   = "error"
	resultInvalid = "invalid"
)

var (
	checks     *prometheus.CounterVec //nolint:gochecknoglobals
	checksOnce sync.Once              //nolint:gochecknoglobals
)

func checkCounter() *prometheus.CounterVec {
	checksOnce.Do(func() {
		checks = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bayipanel_permission_checks_total",
				Help: "Number of permission checks, differentiated by module, action and result.",
			},
			[]string{"module", "action", "result"},
		)
	})

	return checks
}

func countCheck(module, action, result string) {
	checkCounter().WithLabelValues(module, action, result).Inc()
}
