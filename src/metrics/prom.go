package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/onemorebsmith/stx-clawbot/src/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var operationLabels = []string{"op", "result"}

var operationCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "clawbot_operations",
	Help: "Number of ledger operations by type and result kind",
}, operationLabels)

var amountCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "clawbot_amount_micro",
	Help: "Base units moved by committed operations",
}, []string{"op"})

var totalDepositsGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "clawbot_total_deposits_micro",
	Help: "Cumulative deposit counter as of the last committed deposit",
})

var duplicateRequestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "clawbot_duplicate_requests",
	Help: "Resubmitted requests rejected by the request id window",
}, []string{"route"})

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "clawbot_http_request_seconds",
	Help:    "Latency of api requests",
	Buckets: prometheus.DefBuckets,
}, []string{"route", "status"})

var prunedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "clawbot_pruned",
	Help: "Entries removed by the pruner",
}, []string{"target"})

func RecordOperation(op model.OperationType, result string) {
	operationCounter.With(prometheus.Labels{"op": string(op), "result": result}).Inc()
}

func RecordAmount(op model.OperationType, amount uint64) {
	amountCounter.With(prometheus.Labels{"op": string(op)}).Add(float64(amount))
}

func RecordTotalDeposits(total uint64) {
	totalDepositsGauge.Set(float64(total))
}

func RecordDuplicateRequest(route string) {
	duplicateRequestCounter.With(prometheus.Labels{"route": route}).Inc()
}

func RecordRequest(route string, status int, elapsed time.Duration) {
	requestDuration.With(prometheus.Labels{"route": route, "status": strconv.Itoa(status)}).Observe(elapsed.Seconds())
}

func RecordPruned(target string, count int64) {
	prunedCounter.With(prometheus.Labels{"target": target}).Add(float64(count))
}

func StartPromServer(logger *zap.Logger, port string) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("hosting prom stats on " + port + "/metrics")
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("prom server exited", zap.Error(err))
		}
	}()
}
