// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordKnowledgeCreated()
	RecordKnowledgeUpdated()
	RecordKnowledgeDeleted()
	RecordValidation(valid bool)
	RecordThemeAssignment()
	RecordHTTPStatus(statusCode int)
	RecordStorageLatency(op string, duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	knowledgeCreated prometheus.Counter
	knowledgeUpdated prometheus.Counter
	knowledgeDeleted prometheus.Counter
	validations      *prometheus.CounterVec
	themeAssignments prometheus.Counter
	httpStatus       *prometheus.CounterVec
	storageLatency   *prometheus.HistogramVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		knowledgeCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hocuspocus_knowledge_created_total",
			Help: "ナレッジ作成の合計数",
		}),
		knowledgeUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hocuspocus_knowledge_updated_total",
			Help: "ナレッジ更新の合計数",
		}),
		knowledgeDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hocuspocus_knowledge_deleted_total",
			Help: "ナレッジ削除の合計数",
		}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hocuspocus_validation_total",
			Help: "テーマ単語検証の結果別合計数",
		}, []string{"result"}),
		themeAssignments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hocuspocus_theme_assignment_total",
			Help: "テーマ割り当て計算の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hocuspocus_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		storageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hocuspocus_storage_latency_seconds",
			Help:    "ストレージ操作のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}

	reg.MustRegister(
		c.knowledgeCreated,
		c.knowledgeUpdated,
		c.knowledgeDeleted,
		c.validations,
		c.themeAssignments,
		c.httpStatus,
		c.storageLatency,
	)

	return c
}

// RecordKnowledgeCreated はナレッジ作成を記録する。
func (c *Collector) RecordKnowledgeCreated() {
	c.knowledgeCreated.Inc()
}

// RecordKnowledgeUpdated はナレッジ更新を記録する。
func (c *Collector) RecordKnowledgeUpdated() {
	c.knowledgeUpdated.Inc()
}

// RecordKnowledgeDeleted はナレッジ削除を記録する。
func (c *Collector) RecordKnowledgeDeleted() {
	c.knowledgeDeleted.Inc()
}

// RecordValidation は検証結果を成功・失敗別に記録する。
func (c *Collector) RecordValidation(valid bool) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	c.validations.WithLabelValues(result).Inc()
}

// RecordThemeAssignment はテーマ割り当て計算を記録する。
func (c *Collector) RecordThemeAssignment() {
	c.themeAssignments.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordStorageLatency はストレージ操作のレイテンシを操作名別に記録する。
func (c *Collector) RecordStorageLatency(op string, duration time.Duration) {
	c.storageLatency.WithLabelValues(op).Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
