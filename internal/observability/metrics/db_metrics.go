package metrics

import (
	"database/sql"
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

func registerDBMetrics(db *sql.DB, logger *log.Logger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "arrears_pending",
			Help: "Open delinquency records",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM arrears_records WHERE status = 'pending'")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "transactions_overdue",
			Help: "Transactions currently overdue",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM transactions WHERE status = 'overdue'")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "payment_plans_active",
			Help: "Active payment plans",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM payment_plans WHERE status = 'active'")
		},
	))
}

func queryCount(db *sql.DB, logger *log.Logger, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.Printf("metrics query failed: %v", err)
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
