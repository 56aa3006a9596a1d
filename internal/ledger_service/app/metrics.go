package app

import (
	"strings"
	"time"

	"github.com/zenbank/golang_services/internal/ledger_service/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ledgerOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "operations_total",
			Help:      "Total balance operations processed.",
		},
		[]string{"operation", "outcome"}, // outcome: "success" or lowercased error code
	)

	ledgerOperationDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Duration of balance operations.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func observeOperation(operation string, err error, start time.Time) {
	outcome := "success"
	if err != nil {
		outcome = strings.ToLower(domain.ErrorCode(err))
	}
	ledgerOperationsCounter.WithLabelValues(operation, outcome).Inc()
	ledgerOperationDurationHist.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
