// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DomainRecorder はドメイン操作のメトリクス収集インターフェース。
// サービス層から利用する。
type DomainRecorder interface {
	RecordReconcile(activated, deactivated int)
	RecordScheduleReplace(rows int)
}

// HTTPRecorder はHTTPリクエストのメトリクス収集インターフェース。
// ミドルウェアから利用する。
type HTTPRecorder interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestDuration(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus             *prometheus.CounterVec
	requestDuration        prometheus.Histogram
	reconciles             prometheus.Counter
	membershipsActivated   prometheus.Counter
	membershipsDeactivated prometheus.Counter
	scheduleReplaces       prometheus.Counter
	scheduleRowsReplaced   prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "digestman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "digestman_http_request_duration_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		reconciles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "digestman_category_reconciles_total",
			Help: "カテゴリ差分適用の合計実行数",
		}),
		membershipsActivated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "digestman_memberships_activated_total",
			Help: "新規に挿入されたアクティブ紐付け行の合計数",
		}),
		membershipsDeactivated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "digestman_memberships_deactivated_total",
			Help: "非アクティブ化された紐付け行の合計数",
		}),
		scheduleReplaces: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "digestman_schedule_replaces_total",
			Help: "スケジュール全置換の合計実行数",
		}),
		scheduleRowsReplaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "digestman_schedule_rows_replaced_total",
			Help: "全置換で挿入されたスケジュール行の合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestDuration,
		c.reconciles,
		c.membershipsActivated,
		c.membershipsDeactivated,
		c.scheduleReplaces,
		c.scheduleRowsReplaced,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// RecordReconcile はカテゴリ差分適用の結果を記録する。
func (c *Collector) RecordReconcile(activated, deactivated int) {
	c.reconciles.Inc()
	c.membershipsActivated.Add(float64(activated))
	c.membershipsDeactivated.Add(float64(deactivated))
}

// RecordScheduleReplace はスケジュール全置換の結果を記録する。
func (c *Collector) RecordScheduleReplace(rows int) {
	c.scheduleReplaces.Inc()
	c.scheduleRowsReplaced.Add(float64(rows))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
