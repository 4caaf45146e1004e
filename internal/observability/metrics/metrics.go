package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "condoledger_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	quotaRunTotal   *prometheus.CounterVec
	quotaRunLatency *prometheus.HistogramVec
	quotaGenerated  prometheus.Counter

	sweepRunTotal      *prometheus.CounterVec
	sweepRunLatency    *prometheus.HistogramVec
	sweepMarkedOverdue prometheus.Counter
	sweepArrearsNew    prometheus.Counter

	lateFeeRunTotal *prometheus.CounterVec
	lateFeesCharged prometheus.Counter

	planCreateTotal   *prometheus.CounterVec
	planCreateLatency *prometheus.HistogramVec

	settlementTotal   *prometheus.CounterVec
	settlementLatency *prometheus.HistogramVec

	reportExportTotal   *prometheus.CounterVec
	reportExportLatency *prometheus.HistogramVec

	remindersSent *prometheus.CounterVec
)

// Init registers ledger metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		quotaRunTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "quota_run_total",
				Help: "Total monthly quota generation runs by result",
			},
			[]string{"result"},
		)
		quotaRunLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "quota_run_latency_seconds",
				Help:    "Quota generation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		quotaGenerated = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "quota_transactions_generated_total",
				Help: "Total quota transactions generated",
			},
		)

		sweepRunTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sweep_run_total",
				Help: "Total arrears sweep runs by result",
			},
			[]string{"result"},
		)
		sweepRunLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "sweep_run_latency_seconds",
				Help:    "Arrears sweep latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		sweepMarkedOverdue = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "sweep_marked_overdue_total",
				Help: "Total transactions marked overdue by the sweep",
			},
		)
		sweepArrearsNew = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "sweep_arrears_created_total",
				Help: "Total arrears records created by the sweep",
			},
		)

		lateFeeRunTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "late_fee_run_total",
				Help: "Total late fee calculation runs by result",
			},
			[]string{"result"},
		)
		lateFeesCharged = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "late_fees_charged_total",
				Help: "Total late fee transactions inserted",
			},
		)

		planCreateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "payment_plan_create_total",
				Help: "Total payment plan creations by result",
			},
			[]string{"result"},
		)
		planCreateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "payment_plan_create_latency_seconds",
				Help:    "Payment plan creation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		settlementTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "settlement_total",
				Help: "Total payment settlements by result",
			},
			[]string{"result"},
		)
		settlementLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "settlement_latency_seconds",
				Help:    "Payment settlement latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		reportExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total arrears report exports by format and result",
			},
			[]string{"format", "result"},
		)
		reportExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Arrears report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		remindersSent = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "reminders_sent_total",
				Help: "Total payment reminders dispatched by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			quotaRunTotal,
			quotaRunLatency,
			quotaGenerated,
			sweepRunTotal,
			sweepRunLatency,
			sweepMarkedOverdue,
			sweepArrearsNew,
			lateFeeRunTotal,
			lateFeesCharged,
			planCreateTotal,
			planCreateLatency,
			settlementTotal,
			settlementLatency,
			reportExportTotal,
			reportExportLatency,
			remindersSent,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveQuotaRun records a quota generation run.
func ObserveQuotaRun(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if quotaRunTotal != nil {
		quotaRunTotal.WithLabelValues(result).Inc()
	}
	if quotaRunLatency != nil {
		quotaRunLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddQuotasGenerated increments the generated quota counter.
func AddQuotasGenerated(count int) {
	if count > 0 && quotaGenerated != nil {
		quotaGenerated.Add(float64(count))
	}
}

// ObserveSweep records a sweep run.
func ObserveSweep(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if sweepRunTotal != nil {
		sweepRunTotal.WithLabelValues(result).Inc()
	}
	if sweepRunLatency != nil {
		sweepRunLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddSweepCounts increments sweep outcome counters.
func AddSweepCounts(markedOverdue, arrearsCreated int) {
	if markedOverdue > 0 && sweepMarkedOverdue != nil {
		sweepMarkedOverdue.Add(float64(markedOverdue))
	}
	if arrearsCreated > 0 && sweepArrearsNew != nil {
		sweepArrearsNew.Add(float64(arrearsCreated))
	}
}

// ObserveLateFeeRun records a late fee run.
func ObserveLateFeeRun(result string) {
	if result == "" {
		result = resultSuccess
	}
	if lateFeeRunTotal != nil {
		lateFeeRunTotal.WithLabelValues(result).Inc()
	}
}

// AddLateFeesCharged increments the late fee counter.
func AddLateFeesCharged(count int) {
	if count > 0 && lateFeesCharged != nil {
		lateFeesCharged.Add(float64(count))
	}
}

// ObservePlanCreate records a payment plan creation.
func ObservePlanCreate(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if planCreateTotal != nil {
		planCreateTotal.WithLabelValues(result).Inc()
	}
	if planCreateLatency != nil {
		planCreateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveSettlement records a payment settlement.
func ObserveSettlement(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if settlementTotal != nil {
		settlementTotal.WithLabelValues(result).Inc()
	}
	if settlementLatency != nil {
		settlementLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveReportExport records an arrears report export.
func ObserveReportExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if reportExportTotal != nil {
		reportExportTotal.WithLabelValues(format, result).Inc()
	}
	if reportExportLatency != nil {
		reportExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncReminderSent increments the reminder counter.
func IncReminderSent(result string) {
	if result == "" {
		result = resultSuccess
	}
	if remindersSent != nil {
		remindersSent.WithLabelValues(result).Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
